package speech

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
)

// ErrCancelled is delivered on an utterance's completion signal when it was
// aborted by Cancel.
var ErrCancelled = errors.New("utterance cancelled")

// Service is the speech capability consumed by the playback controller
type Service interface {
	// Speak starts speaking text at the given rate multiplier. The returned
	// channel receives exactly one value: nil on success or the failure.
	Speak(text string, rate float64) <-chan error

	// Pause suspends the current utterance, if any
	Pause()

	// Resume continues a paused utterance
	Resume()

	// Cancel aborts the current utterance. Its completion signal has fired
	// with ErrCancelled by the time Cancel returns.
	Cancel()

	// Name returns the engine name
	Name() string

	// IsAvailable checks if the engine can speak in this environment
	IsAvailable() error
}

// Playback is a running utterance
type Playback interface {
	// Wait blocks until the audio finished or was stopped
	Wait() error
	Pause() error
	Resume() error
	Stop()
}

// Source starts audible output for one utterance. Start may block while
// audio is prepared and must honor ctx cancellation.
type Source interface {
	Start(ctx context.Context, text string, rate float64) (Playback, error)
	Name() string
	IsAvailable() error
}

// Speaker adapts a Source to the Service contract
type Speaker struct {
	source Source
	logger *log.Logger

	mu      sync.Mutex
	current *utterance
	paused  bool
}

type utterance struct {
	text     string
	done     chan error
	once     sync.Once
	cancel   context.CancelFunc
	playback Playback
}

func (u *utterance) finish(err error) {
	u.once.Do(func() {
		u.done <- err
	})
}

// NewSpeaker creates a speech service on top of the given source
func NewSpeaker(source Source, logger *log.Logger) *Speaker {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Speaker{
		source: source,
		logger: logger,
	}
}

// Speak starts a new utterance. A still running utterance is aborted first.
func (s *Speaker) Speak(text string, rate float64) <-chan error {
	u := &utterance{
		text: text,
		done: make(chan error, 1),
	}

	if err := ValidateText(text); err != nil {
		u.finish(err)
		return u.done
	}

	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel

	s.mu.Lock()
	if s.current != nil {
		s.logger.Printf("speech: aborting %q to speak %q", s.current.text, text)
		s.abortLocked()
	}
	s.current = u
	s.mu.Unlock()

	go s.run(ctx, u, rate)
	return u.done
}

func (s *Speaker) run(ctx context.Context, u *utterance, rate float64) {
	pb, err := s.source.Start(ctx, u.text, rate)
	if err != nil {
		s.complete(u, err)
		return
	}

	s.mu.Lock()
	if s.current != u {
		// Cancelled while the source was starting
		s.mu.Unlock()
		pb.Stop()
		return
	}
	u.playback = pb
	if s.paused {
		if err := pb.Pause(); err != nil {
			s.logger.Printf("speech: pause failed: %v", err)
		}
	}
	s.mu.Unlock()

	s.complete(u, pb.Wait())
}

func (s *Speaker) complete(u *utterance, err error) {
	s.mu.Lock()
	if s.current == u {
		s.current = nil
	}
	s.mu.Unlock()

	u.cancel()
	if err != nil {
		s.logger.Printf("speech: %q failed: %v", u.text, err)
	}
	u.finish(err)
}

// Pause suspends the current utterance
func (s *Speaker) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = true
	if s.current != nil && s.current.playback != nil {
		if err := s.current.playback.Pause(); err != nil {
			s.logger.Printf("speech: pause failed: %v", err)
		}
	}
}

// Resume continues the current utterance
func (s *Speaker) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = false
	if s.current != nil && s.current.playback != nil {
		if err := s.current.playback.Resume(); err != nil {
			s.logger.Printf("speech: resume failed: %v", err)
		}
	}
}

// Cancel aborts the current utterance and clears the paused state
func (s *Speaker) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.abortLocked()
	s.paused = false
}

func (s *Speaker) abortLocked() {
	u := s.current
	if u == nil {
		return
	}
	s.current = nil

	u.cancel()
	if u.playback != nil {
		u.playback.Stop()
	}
	u.finish(ErrCancelled)
}

// Name returns the source name
func (s *Speaker) Name() string {
	return s.source.Name()
}

// IsAvailable checks the source
func (s *Speaker) IsAvailable() error {
	return s.source.IsAvailable()
}
