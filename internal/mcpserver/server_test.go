package mcpserver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codeberg.org/snonux/wordwalk/internal/catalog"
	"codeberg.org/snonux/wordwalk/internal/playback"
	"codeberg.org/snonux/wordwalk/internal/testutil"
)

func newTestController(t *testing.T) (*playback.Controller, *testutil.FakeSpeech) {
	t.Helper()

	cat, err := catalog.NewStatic([]catalog.Group{
		{ID: 1, Name: "Adjectives", Entries: []catalog.WordEntry{
			{Word: "terse", Synonym: "brief", Sentence: "A terse reply."},
			{Word: "laconic", Synonym: "concise", Sentence: "A laconic note."},
		}},
		{ID: 2, Name: "Verbs", Entries: []catalog.WordEntry{
			{Word: "amble", Synonym: "stroll"},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	svc := testutil.NewFakeSpeech()
	config := playback.DefaultConfig()
	config.Pacing = playback.Pacing{WordGap: time.Millisecond, ReviseGap: time.Millisecond, EntryGap: time.Millisecond, PollInterval: time.Millisecond}
	ctrl, err := playback.New(cat, svc, config)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(ctrl.Close)
	return ctrl, svc
}

func TestStatusOf(t *testing.T) {
	entry := catalog.WordEntry{Word: "terse", Synonym: "brief", Sentence: "A terse reply."}

	tests := []struct {
		name string
		snap playback.Snapshot
		want Status
	}{
		{
			name: "normal mode shows everything",
			snap: playback.Snapshot{GroupID: 1, GroupName: "Adjectives", Index: 1, Total: 2, Entry: entry, Playing: true,
				Rate: playback.RateFast, Mode: playback.ModeNormal, SynonymVisible: true, SentenceVisible: true},
			want: Status{State: "playing", GroupID: 1, GroupName: "Adjectives", Position: 2, Total: 2, Progress: 100,
				Word: "terse", Synonym: "brief", Sentence: "A terse reply.", Rate: "fast", Mode: "normal"},
		},
		{
			name: "revise mode hides synonym and sentence",
			snap: playback.Snapshot{GroupID: 1, GroupName: "Adjectives", Index: 0, Total: 2, Entry: entry, Stopped: true,
				Rate: playback.RateSlow, Mode: playback.ModeRevise},
			want: Status{State: "stopped", GroupID: 1, GroupName: "Adjectives", Position: 1, Total: 2, Progress: 50,
				Word: "terse", Rate: "slow", Mode: "revise"},
		},
		{
			name: "empty group",
			snap: playback.Snapshot{GroupID: 3, GroupName: "Empty", Rate: playback.RateMedium, Mode: playback.ModeNormal, SynonymVisible: true, SentenceVisible: true},
			want: Status{State: "idle", GroupID: 3, GroupName: "Empty", Rate: "medium", Mode: "normal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.snap); got != tt.want {
				t.Errorf("StatusOf() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCommandHandlers(t *testing.T) {
	ctrl, svc := newTestController(t)
	ctx := context.Background()

	_, st, err := CommandHandler(ctrl, ctrl.Play)(ctx, nil, NoInput{})
	if err != nil {
		t.Fatalf("play error = %v", err)
	}
	if st.State != "playing" {
		t.Errorf("Expected playing, got %+v", st)
	}
	testutil.WaitFor(t, time.Second, "first word spoken", func() bool { return svc.SpeakCount() == 1 })

	_, st, err = CommandHandler(ctrl, ignoreResult(ctrl.SeekNext))(ctx, nil, NoInput{})
	if err != nil {
		t.Fatalf("next error = %v", err)
	}
	if st.Position != 2 || st.Word != "laconic" {
		t.Errorf("Expected second entry, got %+v", st)
	}

	_, st, _ = CommandHandler(ctrl, ignoreResult(ctrl.Stop))(ctx, nil, NoInput{})
	if st.State != "stopped" || st.Position != 2 {
		t.Errorf("Expected stopped at entry 2, got %+v", st)
	}
}

func TestSettingHandlers(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()

	_, st, err := SetGroupHandler(ctrl)(ctx, nil, GroupInput{ID: 2})
	if err != nil {
		t.Fatalf("set_group error = %v", err)
	}
	if st.GroupName != "Verbs" || st.Word != "amble" {
		t.Errorf("Expected group Verbs, got %+v", st)
	}

	if _, _, err := SetGroupHandler(ctrl)(ctx, nil, GroupInput{ID: 9}); !errors.Is(err, playback.ErrUnknownGroup) {
		t.Errorf("Expected ErrUnknownGroup, got %v", err)
	}

	_, st, err = SetRateHandler(ctrl)(ctx, nil, RateInput{Rate: "max"})
	if err != nil || st.Rate != "max" {
		t.Errorf("set_rate = %+v, %v", st, err)
	}
	if _, _, err := SetRateHandler(ctrl)(ctx, nil, RateInput{Rate: "warp"}); !errors.Is(err, playback.ErrUnknownRate) {
		t.Errorf("Expected ErrUnknownRate, got %v", err)
	}

	_, st, err = SetModeHandler(ctrl)(ctx, nil, ModeInput{Mode: "revise"})
	if err != nil || st.Mode != "revise" || st.Synonym != "" {
		t.Errorf("set_mode = %+v, %v", st, err)
	}
	if _, _, err := SetModeHandler(ctrl)(ctx, nil, ModeInput{Mode: "quiz"}); !errors.Is(err, playback.ErrUnknownMode) {
		t.Errorf("Expected ErrUnknownMode, got %v", err)
	}
}

func TestListGroupsHandler(t *testing.T) {
	ctrl, _ := newTestController(t)

	_, list, err := ListGroupsHandler(ctrl)(context.Background(), nil, NoInput{})
	if err != nil {
		t.Fatalf("list_groups error = %v", err)
	}

	want := []GroupInfo{{ID: 1, Name: "Adjectives", Entries: 2}, {ID: 2, Name: "Verbs", Entries: 1}}
	if len(list.Groups) != len(want) {
		t.Fatalf("Expected %d groups, got %+v", len(want), list.Groups)
	}
	for i := range want {
		if list.Groups[i] != want[i] {
			t.Errorf("group %d = %+v, want %+v", i, list.Groups[i], want[i])
		}
	}
}

func TestServerOverTransport(t *testing.T) {
	ctrl, svc := newTestController(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- New(ctrl).Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	if len(tools.Tools) != 12 {
		t.Errorf("Expected 12 tools, got %d", len(tools.Tools))
	}

	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "play", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("call play: %v", err)
	}
	if res.IsError {
		t.Fatalf("play returned a tool error: %+v", res.Content)
	}
	testutil.WaitFor(t, time.Second, "word spoken", func() bool { return svc.SpeakCount() > 0 })

	res, err = session.CallTool(ctx, &mcp.CallToolParams{Name: "set_rate", Arguments: map[string]any{"rate": "warp"}})
	if err != nil {
		t.Fatalf("call set_rate: %v", err)
	}
	if !res.IsError {
		t.Error("Expected tool error for unknown rate")
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if ctrl.Snapshot().Playing {
		t.Error("Expected playback stopped when the server exits")
	}
}
