package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"codeberg.org/snonux/wordwalk/internal/catalog"
	"codeberg.org/snonux/wordwalk/internal/playback"
)

// Renderer prints session snapshots as one status line each
type Renderer struct {
	out     io.Writer
	newline string

	word     *color.Color
	synonym  *color.Color
	sentence *color.Color
	status   *color.Color
	warn     *color.Color

	mu   sync.Mutex
	last string
}

// NewRenderer creates a renderer writing to out
func NewRenderer(out io.Writer, noColor bool) *Renderer {
	r := &Renderer{
		out:      out,
		newline:  "\n",
		word:     color.New(color.FgCyan, color.Bold),
		synonym:  color.New(color.FgGreen),
		sentence: color.New(color.Faint),
		status:   color.New(color.FgYellow),
		warn:     color.New(color.FgRed),
	}
	if noColor {
		for _, c := range []*color.Color{r.word, r.synonym, r.sentence, r.status, r.warn} {
			c.DisableColor()
		}
	}
	return r
}

// SetRaw switches line endings for a terminal in raw mode
func (r *Renderer) SetRaw(raw bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if raw {
		r.newline = "\r\n"
	} else {
		r.newline = "\n"
	}
}

// Render prints s unless it looks the same as the previous line
func (r *Renderer) Render(s playback.Snapshot) {
	line := r.Format(s)

	r.mu.Lock()
	defer r.mu.Unlock()
	if line == r.last {
		return
	}
	r.last = line
	fmt.Fprint(r.out, line+r.newline)
}

// Format returns the status line for s
func (r *Renderer) Format(s playback.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s ", stateIcon(s), r.status.Sprintf("[%s %d/%d]", s.GroupName, position(s), s.Total))
	fmt.Fprintf(&b, "%s/%s  ", s.Rate, s.Mode)

	if s.Total == 0 {
		b.WriteString("(no entries)")
		return b.String()
	}

	b.WriteString(r.word.Sprint(s.Entry.Word))
	if s.Entry.Synonym != "" {
		if s.SynonymVisible {
			b.WriteString(" = " + r.synonym.Sprint(s.Entry.Synonym))
		} else {
			b.WriteString(" = ?")
		}
	}
	if s.Entry.Sentence != "" && s.SentenceVisible {
		b.WriteString(" | " + r.sentence.Sprint(s.Entry.Sentence))
	}
	return b.String()
}

// Message prints an informational line
func (r *Renderer) Message(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format+r.newline, args...)
}

// Error prints err as a warning
func (r *Renderer) Error(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.out, r.warn.Sprintf("Error: %v", err)+r.newline)
}

// Groups prints the catalog groups, marking current
func (r *Renderer) Groups(groups []catalog.Group, current int) {
	for _, g := range groups {
		marker := " "
		if g.ID == current {
			marker = "*"
		}
		r.Message("%s %3d  %-24s %d entries", marker, g.ID, g.Name, g.Len())
	}
}

// Writer returns a writer printing through the renderer, for text speech
func (r *Renderer) Writer() io.Writer {
	return rendererWriter{r: r}
}

type rendererWriter struct {
	r *Renderer
}

func (w rendererWriter) Write(p []byte) (int, error) {
	w.r.mu.Lock()
	defer w.r.mu.Unlock()
	if _, err := io.WriteString(w.r.out, strings.ReplaceAll(string(p), "\n", w.r.newline)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Help prints the key bindings
func (r *Renderer) Help(lineMode bool) {
	if lineMode {
		r.Message("Commands: play, pause, resume, stop, restart, next, prev, group [id], rate <slow|medium|fast|max>, mode [normal|revise], status, quit")
		r.Message("An empty line toggles play/pause.")
		return
	}
	r.Message("Keys: space=play/pause  s=stop  r=restart  n=next  p=prev  g=next group  1-4=rate  m=mode  i=status  q=quit")
}

func stateIcon(s playback.Snapshot) string {
	switch s.State() {
	case "playing":
		return "▶"
	case "paused":
		return "⏸"
	}
	return "■"
}

func position(s playback.Snapshot) int {
	if s.Total == 0 {
		return 0
	}
	return s.Index + 1
}
