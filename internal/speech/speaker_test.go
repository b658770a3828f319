package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// mockPlayback is a Playback completed by the test
type mockPlayback struct {
	mu      sync.Mutex
	done    chan struct{}
	once    sync.Once
	err     error
	paused  int
	resumed int
	stopped int
}

func newMockPlayback() *mockPlayback {
	return &mockPlayback{done: make(chan struct{})}
}

func (m *mockPlayback) finish(err error) {
	m.once.Do(func() {
		m.err = err
		close(m.done)
	})
}

func (m *mockPlayback) Wait() error {
	<-m.done
	return m.err
}

func (m *mockPlayback) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused++
	return nil
}

func (m *mockPlayback) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumed++
	return nil
}

func (m *mockPlayback) Stop() {
	m.mu.Lock()
	m.stopped++
	m.mu.Unlock()
	m.finish(nil)
}

func (m *mockPlayback) counts() (paused, resumed, stopped int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused, m.resumed, m.stopped
}

// mockSource hands out mockPlaybacks and records what it was asked to say
type mockSource struct {
	mu        sync.Mutex
	started   chan *mockPlayback
	texts     []string
	startErr  error
	available error
}

func newMockSource() *mockSource {
	return &mockSource{started: make(chan *mockPlayback, 16)}
}

func (m *mockSource) Start(ctx context.Context, text string, rate float64) (Playback, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	err := m.startErr
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	pb := newMockPlayback()
	m.started <- pb
	return pb, nil
}

func (m *mockSource) Name() string       { return "mock" }
func (m *mockSource) IsAvailable() error { return m.available }

func waitStarted(t *testing.T, src *mockSource) *mockPlayback {
	t.Helper()
	select {
	case pb := <-src.started:
		return pb
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for playback to start")
		return nil
	}
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for utterance completion")
		return nil
	}
}

func TestSpeakerCompletes(t *testing.T) {
	src := newMockSource()
	s := NewSpeaker(src, nil)

	done := s.Speak("ebullient", 1.0)
	pb := waitStarted(t, src)
	pb.finish(nil)

	if err := waitDone(t, done); err != nil {
		t.Errorf("Expected successful completion, got %v", err)
	}
}

func TestSpeakerReportsFailure(t *testing.T) {
	src := newMockSource()
	src.startErr = errors.New("device busy")
	s := NewSpeaker(src, nil)

	err := waitDone(t, s.Speak("terse", 1.0))
	if err == nil || err.Error() != "device busy" {
		t.Errorf("Expected start error, got %v", err)
	}
}

func TestSpeakerRejectsEmptyText(t *testing.T) {
	s := NewSpeaker(newMockSource(), nil)

	if err := waitDone(t, s.Speak("  ", 1.0)); err == nil {
		t.Error("Expected error for empty text")
	}
}

func TestSpeakerCancel(t *testing.T) {
	src := newMockSource()
	s := NewSpeaker(src, nil)

	done := s.Speak("ebullient", 1.0)
	pb := waitStarted(t, src)

	s.Cancel()

	// The signal has fired by the time Cancel returns
	select {
	case err := <-done:
		if !errors.Is(err, ErrCancelled) {
			t.Errorf("Expected ErrCancelled, got %v", err)
		}
	default:
		t.Fatal("Expected completion signal to have fired")
	}

	if _, _, stopped := pb.counts(); stopped != 1 {
		t.Errorf("Expected playback to be stopped once, got %d", stopped)
	}
}

func TestSpeakerCancelWithoutUtterance(t *testing.T) {
	s := NewSpeaker(newMockSource(), nil)
	s.Cancel()
	s.Cancel()
}

func TestSpeakerSpeakAbortsPrevious(t *testing.T) {
	src := newMockSource()
	s := NewSpeaker(src, nil)

	first := s.Speak("first", 1.0)
	waitStarted(t, src)

	second := s.Speak("second", 1.0)

	select {
	case err := <-first:
		if !errors.Is(err, ErrCancelled) {
			t.Errorf("Expected first utterance cancelled, got %v", err)
		}
	default:
		t.Fatal("Expected first utterance resolved before Speak returned")
	}

	pb := waitStarted(t, src)
	pb.finish(nil)
	if err := waitDone(t, second); err != nil {
		t.Errorf("Expected second utterance to complete, got %v", err)
	}
}

func TestSpeakerPauseResume(t *testing.T) {
	src := newMockSource()
	s := NewSpeaker(src, nil)

	done := s.Speak("ebullient", 1.0)
	pb := waitStarted(t, src)

	// Start hands back the playback before the speaker records it
	deadline := time.Now().Add(time.Second)
	for {
		s.Pause()
		if paused, _, _ := pb.counts(); paused > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Playback was never paused")
		}
		time.Sleep(time.Millisecond)
	}

	s.Resume()
	if _, resumed, _ := pb.counts(); resumed != 1 {
		t.Errorf("Expected 1 resume, got %d", resumed)
	}

	pb.finish(nil)
	if err := waitDone(t, done); err != nil {
		t.Errorf("Expected completion, got %v", err)
	}
}

func TestSpeakerStartsPausedWhenPaused(t *testing.T) {
	src := newMockSource()
	s := NewSpeaker(src, nil)

	s.Pause()
	done := s.Speak("terse", 1.0)
	pb := waitStarted(t, src)

	deadline := time.Now().Add(time.Second)
	for {
		if paused, _, _ := pb.counts(); paused == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Expected new playback to start paused")
		}
		time.Sleep(time.Millisecond)
	}

	s.Cancel()
	if err := waitDone(t, done); !errors.Is(err, ErrCancelled) {
		t.Errorf("Expected ErrCancelled, got %v", err)
	}
}

func TestSpeakerNameAndAvailability(t *testing.T) {
	src := newMockSource()
	src.available = errors.New("not installed")
	s := NewSpeaker(src, nil)

	if s.Name() != "mock" {
		t.Errorf("Expected name 'mock', got '%s'", s.Name())
	}
	if err := s.IsAvailable(); err == nil {
		t.Error("Expected availability error")
	}
}
