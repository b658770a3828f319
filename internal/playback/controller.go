package playback

import (
	"fmt"
	"io"
	"log"
	"sync"

	"codeberg.org/snonux/wordwalk/internal/catalog"
	"codeberg.org/snonux/wordwalk/internal/speech"
)

// Config holds the initial session settings
type Config struct {
	GroupID *int // nil selects the first group
	Rate    Rate
	Mode    Mode
	Pacing  Pacing
	Logger  *log.Logger
}

// Group returns a pointer to id for Config.GroupID
func Group(id int) *int {
	return &id
}

// DefaultConfig returns the default session settings
func DefaultConfig() *Config {
	return &Config{
		Rate:   RateMedium,
		Mode:   ModeNormal,
		Pacing: DefaultPacing(),
	}
}

// Controller drives one drill session. All methods are safe for concurrent use.
type Controller struct {
	catalog catalog.Catalog
	speech  speech.Service
	pacing  Pacing
	logger  *log.Logger

	mu        sync.Mutex
	st        state
	scopes    scopes
	observers []func(Snapshot)
	closed    bool
	runs      sync.WaitGroup

	// serializes observer calls
	notifyMu sync.Mutex
}

// New creates a controller positioned at the first entry of the configured
// group. svc may be nil, in which case Play reports ErrUnsupportedCapability.
func New(cat catalog.Catalog, svc speech.Service, config *Config) (*Controller, error) {
	if config == nil {
		config = DefaultConfig()
	}

	groups := cat.Groups()
	if len(groups) == 0 {
		return nil, fmt.Errorf("catalog has no groups")
	}

	group := groups[0]
	if config.GroupID != nil {
		g, ok := cat.Group(*config.GroupID)
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownGroup, *config.GroupID)
		}
		group = g
	}

	rate := config.Rate
	if rate == "" {
		rate = RateMedium
	} else if _, err := ParseRate(string(rate)); err != nil {
		return nil, err
	}

	mode := config.Mode
	if mode == "" {
		mode = ModeNormal
	} else if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	pacing := config.Pacing
	if pacing == (Pacing{}) {
		pacing = DefaultPacing()
	}
	if pacing.PollInterval <= 0 {
		pacing.PollInterval = DefaultPacing().PollInterval
	}

	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Controller{
		catalog: cat,
		speech:  svc,
		pacing:  pacing,
		logger:  logger,
		st: state{
			group: group,
			rate:  rate,
			mode:  mode,
		},
	}, nil
}

// Play starts speaking from the current entry. It does nothing when already
// playing. Playing from a paused session drops the paused utterance and
// starts a fresh run at the current entry.
func (c *Controller) Play() error {
	if err := c.checkSpeech(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.st.playing || c.st.group.Len() == 0 {
		c.mu.Unlock()
		return nil
	}
	if c.st.paused {
		c.speech.Cancel()
	}
	c.startLocked()
	c.mu.Unlock()

	c.changed()
	return nil
}

// Pause suspends a playing session
func (c *Controller) Pause() {
	c.mu.Lock()
	if !c.st.playing {
		c.mu.Unlock()
		return
	}
	c.st.playing = false
	c.st.paused = true
	c.speech.Pause()
	c.mu.Unlock()

	c.changed()
}

// Resume continues a paused session within the same run
func (c *Controller) Resume() {
	c.mu.Lock()
	if !c.st.paused {
		c.mu.Unlock()
		return
	}
	c.st.paused = false
	c.st.playing = true
	c.speech.Resume()
	c.mu.Unlock()

	c.changed()
}

// Stop silences the current utterance and ends the run. The index is kept,
// so a later Play continues at the same entry.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.stopLocked()
	c.mu.Unlock()

	c.changed()
}

// Restart stops and plays again from the first entry
func (c *Controller) Restart() error {
	if err := c.checkSpeech(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.stopLocked()
	c.st.index = 0
	if c.st.group.Len() > 0 {
		c.startLocked()
	}
	c.mu.Unlock()

	c.changed()
	return nil
}

// SeekNext moves to the next entry
func (c *Controller) SeekNext() {
	c.seek(1)
}

// SeekPrev moves to the previous entry
func (c *Controller) SeekPrev() {
	c.seek(-1)
}

// seek moves the index by delta within bounds. A playing session restarts at
// the new entry, even when the index was already at the boundary. A paused
// session stays paused at the new entry in a fresh run; Resume speaks it from
// the word.
func (c *Controller) seek(delta int) {
	c.mu.Lock()
	if c.closed || c.st.group.Len() == 0 {
		c.mu.Unlock()
		return
	}

	c.st.index = clamp(c.st.index+delta, c.st.group.Len())
	c.st.synonymRevealed = false

	switch {
	case c.st.playing:
		c.speech.Cancel()
		c.startLocked()
	case c.st.paused:
		c.speech.Cancel()
		c.beginRunLocked(true)
	}
	c.mu.Unlock()

	c.changed()
}

// SetGroup selects another group and resets to its first entry
func (c *Controller) SetGroup(id int) error {
	g, ok := c.catalog.Group(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownGroup, id)
	}

	c.mu.Lock()
	if c.st.group.ID == id {
		c.mu.Unlock()
		return nil
	}
	c.stopLocked()
	c.st.group = g
	c.st.reset()
	c.mu.Unlock()

	c.changed()
	return nil
}

// SetRate changes the speech rate and resets to the first entry
func (c *Controller) SetRate(label string) error {
	r, err := ParseRate(label)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.st.rate == r {
		c.mu.Unlock()
		return nil
	}
	c.stopLocked()
	c.st.rate = r
	c.st.reset()
	c.mu.Unlock()

	c.changed()
	return nil
}

// SetMode changes the drill mode and resets to the first entry
func (c *Controller) SetMode(mode string) error {
	m, err := ParseMode(mode)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.st.mode == m {
		c.mu.Unlock()
		return nil
	}
	c.stopLocked()
	c.st.mode = m
	c.st.reset()
	c.mu.Unlock()

	c.changed()
	return nil
}

// Snapshot returns the current session state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.st.snapshot(c.scopes.current())
}

// Groups returns the catalog groups
func (c *Controller) Groups() []catalog.Group {
	return c.catalog.Groups()
}

// SpeechName returns the name of the speech engine, if any
func (c *Controller) SpeechName() string {
	if c.speech == nil {
		return "none"
	}
	return c.speech.Name()
}

// OnChange registers fn to receive a snapshot after every state change.
// Calls are serialized; fn must not issue controller commands itself.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.observers = append(c.observers, fn)
}

// Close stops playback and waits for the running traversal to exit
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopLocked()
	c.mu.Unlock()

	c.runs.Wait()
	c.changed()
}

func (c *Controller) checkSpeech() error {
	if c.speech == nil {
		return fmt.Errorf("%w: no speech engine configured", ErrUnsupportedCapability)
	}
	if err := c.speech.IsAvailable(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedCapability, err)
	}
	return nil
}

// startLocked begins a new run at the current index. Any in-flight
// utterance must already be resolved.
func (c *Controller) startLocked() {
	c.beginRunLocked(false)
}

// beginRunLocked starts a run at the current index. A paused run holds at its
// first checkpoint until Resume.
func (c *Controller) beginRunLocked(paused bool) {
	sc := c.scopes.begin()
	c.st.playing = !paused
	c.st.paused = paused
	c.st.stopped = false
	c.st.synonymRevealed = false

	c.logger.Printf("playback: run %d starts at entry %d of group %d (paused=%t)", sc.id, c.st.index, c.st.group.ID, paused)

	c.runs.Add(1)
	go c.run(sc, c.st.group, c.st.index)
}

// stopLocked ends the live run and silences speech
func (c *Controller) stopLocked() {
	c.st.stopped = true
	c.st.playing = false
	c.st.paused = false
	c.st.synonymRevealed = false
	if c.speech != nil {
		c.speech.Cancel()
	}
	c.scopes.invalidate()
}

// changed delivers the latest snapshot to the observers
func (c *Controller) changed() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	snap := c.st.snapshot(c.scopes.current())
	observers := append([]func(Snapshot){}, c.observers...)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}
