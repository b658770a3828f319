package testutil

import (
	"sync"
	"time"

	"codeberg.org/snonux/wordwalk/internal/speech"
)

// Utterance is one recorded Speak call
type Utterance struct {
	Text string
	Rate float64
}

// FakeSpeech is a scriptable speech.Service. Utterances stay in flight until
// Complete or Fail is called, or until Delay elapses when Delay is set. A
// paused utterance never completes on its own.
type FakeSpeech struct {
	// Delay completes utterances automatically after this much unpaused time
	Delay time.Duration
	// Unavailable is returned by IsAvailable
	Unavailable error

	mu          sync.Mutex
	spoken      []Utterance
	pending     []*fakeUtterance
	maxInFlight int
	paused      bool
	pauseCalls  int
	resumeCalls int
	cancelCalls int
}

type fakeUtterance struct {
	text     string
	done     chan error
	timer    *time.Timer
	due      bool // delay elapsed while paused
	resolved bool
}

var _ speech.Service = (*FakeSpeech)(nil)

// NewFakeSpeech returns a fake that completes utterances only on request
func NewFakeSpeech() *FakeSpeech {
	return &FakeSpeech{}
}

// NewAutoSpeech returns a fake that completes every utterance after delay
func NewAutoSpeech(delay time.Duration) *FakeSpeech {
	return &FakeSpeech{Delay: delay}
}

// Speak records the utterance and leaves it in flight
func (f *FakeSpeech) Speak(text string, rate float64) <-chan error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u := &fakeUtterance{text: text, done: make(chan error, 1)}
	f.spoken = append(f.spoken, Utterance{Text: text, Rate: rate})
	f.pending = append(f.pending, u)
	if len(f.pending) > f.maxInFlight {
		f.maxInFlight = len(f.pending)
	}

	if f.Delay > 0 {
		u.timer = time.AfterFunc(f.Delay, func() { f.elapsed(u) })
	}
	return u.done
}

func (f *FakeSpeech) elapsed(u *fakeUtterance) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if u.resolved {
		return
	}
	if f.paused {
		u.due = true
		return
	}
	f.resolveLocked(u, nil)
}

func (f *FakeSpeech) resolveLocked(u *fakeUtterance, err error) {
	if u.resolved {
		return
	}
	u.resolved = true
	if u.timer != nil {
		u.timer.Stop()
	}
	for i, p := range f.pending {
		if p == u {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			break
		}
	}
	u.done <- err
}

// Pause marks the fake paused
func (f *FakeSpeech) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pauseCalls++
	f.paused = true
}

// Resume unpauses the fake and completes utterances whose delay elapsed
func (f *FakeSpeech) Resume() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.resumeCalls++
	f.paused = false
	for _, u := range append([]*fakeUtterance(nil), f.pending...) {
		if u.due {
			f.resolveLocked(u, nil)
		}
	}
}

// Cancel resolves every in-flight utterance with speech.ErrCancelled
func (f *FakeSpeech) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cancelCalls++
	f.paused = false
	for _, u := range append([]*fakeUtterance(nil), f.pending...) {
		f.resolveLocked(u, speech.ErrCancelled)
	}
}

// Name returns "fake"
func (f *FakeSpeech) Name() string {
	return "fake"
}

// IsAvailable returns Unavailable
func (f *FakeSpeech) IsAvailable() error {
	return f.Unavailable
}

// Complete finishes the oldest in-flight utterance successfully and reports
// whether there was one
func (f *FakeSpeech) Complete() bool {
	return f.finish(nil)
}

// Fail finishes the oldest in-flight utterance with err
func (f *FakeSpeech) Fail(err error) bool {
	return f.finish(err)
}

func (f *FakeSpeech) finish(err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.pending) == 0 {
		return false
	}
	f.resolveLocked(f.pending[0], err)
	return true
}

// Current returns the text of the oldest in-flight utterance
func (f *FakeSpeech) Current() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.pending) == 0 {
		return "", false
	}
	return f.pending[0].text, true
}

// Spoken returns all recorded utterances in order
func (f *FakeSpeech) Spoken() []Utterance {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]Utterance(nil), f.spoken...)
}

// Texts returns the recorded utterance texts in order
func (f *FakeSpeech) Texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	texts := make([]string, len(f.spoken))
	for i, u := range f.spoken {
		texts[i] = u.Text
	}
	return texts
}

// SpeakCount returns the number of Speak calls
func (f *FakeSpeech) SpeakCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.spoken)
}

// InFlight returns the number of unresolved utterances
func (f *FakeSpeech) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.pending)
}

// MaxInFlight returns the highest number of simultaneously unresolved
// utterances seen
func (f *FakeSpeech) MaxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.maxInFlight
}

// Paused reports whether the fake is paused
func (f *FakeSpeech) Paused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.paused
}

// Calls returns the number of Pause, Resume and Cancel calls
func (f *FakeSpeech) Calls() (pause, resume, cancel int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.pauseCalls, f.resumeCalls, f.cancelCalls
}
