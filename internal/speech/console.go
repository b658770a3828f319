package speech

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Words per minute at rate 1.0 when simulating speech
const consoleWordsPerMinute = 150

// Console is a speech source that writes each utterance as a line of text and
// holds it for roughly the time it would take to say it. It serves machines
// without any speech engine and tests.
type Console struct {
	out io.Writer
	mu  sync.Mutex
	// perWord overrides the computed duration per word when non-zero
	perWord time.Duration
}

// NewConsole creates a text speech source writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// WithWordDuration fixes the time spent per word, ignoring the rate
func (c *Console) WithWordDuration(d time.Duration) *Console {
	c.perWord = d
	return c
}

// Start prints text and returns a playback lasting its spoken duration
func (c *Console) Start(ctx context.Context, text string, rate float64) (Playback, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}

	c.mu.Lock()
	_, err := fmt.Fprintf(c.out, "  %s\n", strings.TrimSpace(text))
	c.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to write text: %w", err)
	}

	p := newTimedPlayback(c.duration(text, rate))
	go func() {
		select {
		case <-ctx.Done():
			p.Stop()
		case <-p.done:
		}
	}()
	return p, nil
}

func (c *Console) duration(text string, rate float64) time.Duration {
	words := len(strings.Fields(text))
	if c.perWord > 0 {
		return time.Duration(words) * c.perWord
	}
	if rate <= 0 {
		rate = 1.0
	}
	d := time.Duration(float64(words) * float64(time.Minute) / (consoleWordsPerMinute * rate))
	return d.Round(time.Millisecond)
}

// Name returns the source name
func (c *Console) Name() string {
	return "text"
}

// IsAvailable always succeeds
func (c *Console) IsAvailable() error {
	return nil
}

// timedPlayback completes after a fixed amount of unpaused time
type timedPlayback struct {
	mu        sync.Mutex
	remaining time.Duration
	started   time.Time
	timer     *time.Timer
	paused    bool
	done      chan struct{}
	once      sync.Once
}

func newTimedPlayback(d time.Duration) *timedPlayback {
	p := &timedPlayback{
		remaining: d,
		started:   time.Now(),
		done:      make(chan struct{}),
	}
	p.timer = time.AfterFunc(d, p.finish)
	return p
}

func (p *timedPlayback) finish() {
	p.once.Do(func() { close(p.done) })
}

func (p *timedPlayback) Wait() error {
	<-p.done
	return nil
}

func (p *timedPlayback) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		return nil
	}
	if !p.timer.Stop() {
		// Already fired
		return nil
	}
	p.paused = true
	p.remaining -= time.Since(p.started)
	if p.remaining < 0 {
		p.remaining = 0
	}
	return nil
}

func (p *timedPlayback) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused {
		return nil
	}
	p.paused = false
	p.started = time.Now()
	p.timer = time.AfterFunc(p.remaining, p.finish)
	return nil
}

func (p *timedPlayback) Stop() {
	p.mu.Lock()
	p.timer.Stop()
	p.mu.Unlock()
	p.finish()
}
