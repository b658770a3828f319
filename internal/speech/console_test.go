package speech

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestConsoleDuration(t *testing.T) {
	c := NewConsole(&bytes.Buffer{})

	tests := []struct {
		name string
		text string
		rate float64
		want time.Duration
	}{
		{name: "one word at medium", text: "terse", rate: 1.0, want: 400 * time.Millisecond},
		{name: "two words at medium", text: "synonym: brief", rate: 1.0, want: 800 * time.Millisecond},
		{name: "one word at slow", text: "terse", rate: 0.8, want: 500 * time.Millisecond},
		{name: "zero rate counts as medium", text: "terse", rate: 0, want: 400 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.duration(tt.text, tt.rate); got != tt.want {
				t.Errorf("duration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConsoleWritesText(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf).WithWordDuration(time.Millisecond)

	pb, err := c.Start(context.Background(), "  ebullient ", 1.0)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := pb.Wait(); err != nil {
		t.Errorf("Wait() error = %v", err)
	}

	if buf.String() != "  ebullient\n" {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestConsolePauseHoldsCompletion(t *testing.T) {
	c := NewConsole(&bytes.Buffer{}).WithWordDuration(30 * time.Millisecond)

	pb, err := c.Start(context.Background(), "terse", 1.0)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := pb.Pause(); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		pb.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Paused playback completed")
	case <-time.After(80 * time.Millisecond):
	}

	if err := pb.Resume(); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Resumed playback never completed")
	}
}

func TestConsoleContextCancelStops(t *testing.T) {
	c := NewConsole(&bytes.Buffer{}).WithWordDuration(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	pb, err := c.Start(ctx, "terse", 1.0)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	done := make(chan struct{})
	go func() {
		pb.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Cancelled playback never completed")
	}
}
