package console

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"codeberg.org/snonux/wordwalk/internal/catalog"
	"codeberg.org/snonux/wordwalk/internal/playback"
)

func TestRendererFormat(t *testing.T) {
	entry := catalog.WordEntry{Word: "terse", Synonym: "brief", Sentence: "A terse reply."}

	tests := []struct {
		name string
		snap playback.Snapshot
		want string
	}{
		{
			name: "normal mode playing",
			snap: playback.Snapshot{GroupName: "Adjectives", Index: 0, Total: 3, Entry: entry, Playing: true,
				Rate: playback.RateMedium, Mode: playback.ModeNormal, SynonymVisible: true, SentenceVisible: true},
			want: "▶ [Adjectives 1/3] medium/normal  terse = brief | A terse reply.",
		},
		{
			name: "revise mode hides synonym and sentence",
			snap: playback.Snapshot{GroupName: "Adjectives", Index: 1, Total: 3, Entry: entry, Playing: true, Paused: true,
				Rate: playback.RateFast, Mode: playback.ModeRevise},
			want: "⏸ [Adjectives 2/3] fast/revise  terse = ?",
		},
		{
			name: "empty group",
			snap: playback.Snapshot{GroupName: "Empty", Rate: playback.RateSlow, Mode: playback.ModeNormal},
			want: "■ [Empty 0/0] slow/normal  (no entries)",
		},
	}

	r := NewRenderer(&bytes.Buffer{}, true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Format(tt.snap); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRendererSkipsRepeats(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	snap := playback.Snapshot{GroupName: "G", Total: 1, Entry: catalog.WordEntry{Word: "terse"}}
	r.Render(snap)
	r.Render(snap)
	snap.RunID = 7 // not shown
	r.Render(snap)
	snap.Playing = true
	r.Render(snap)

	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Errorf("Expected 2 lines, got %d:\n%s", got, buf.String())
	}
}

func TestRendererRaw(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)
	r.SetRaw(true)
	r.Message("hello")
	r.Error(errors.New("boom"))
	fmt.Fprint(r.Writer(), "  terse\n")

	if buf.String() != "hello\r\nError: boom\r\n  terse\r\n" {
		t.Errorf("Unexpected raw output %q", buf.String())
	}
}

func TestRendererGroups(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)
	r.Groups([]catalog.Group{
		{ID: 1, Name: "Adjectives", Entries: make([]catalog.WordEntry, 2)},
		{ID: 2, Name: "Verbs"},
	}, 2)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], " ") || !strings.Contains(lines[0], "2 entries") {
		t.Errorf("Unexpected first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "*") {
		t.Errorf("Expected current group marked, got %q", lines[1])
	}
}
