package playback

import (
	"fmt"
	"strings"
	"time"

	"codeberg.org/snonux/wordwalk/internal/catalog"
)

// Rate is a named speech speed
type Rate string

const (
	RateSlow   Rate = "slow"
	RateMedium Rate = "medium"
	RateFast   Rate = "fast"
	RateMax    Rate = "max"
)

var rateMultipliers = map[Rate]float64{
	RateSlow:   0.8,
	RateMedium: 1.0,
	RateFast:   1.25,
	RateMax:    1.5,
}

// Rates returns all rates from slowest to fastest
func Rates() []Rate {
	return []Rate{RateSlow, RateMedium, RateFast, RateMax}
}

// ParseRate parses a rate label
func ParseRate(label string) (Rate, error) {
	r := Rate(strings.ToLower(strings.TrimSpace(label)))
	if _, ok := rateMultipliers[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRate, label)
	}
	return r, nil
}

// Multiplier returns the speech speed multiplier for the rate
func (r Rate) Multiplier() float64 {
	if m, ok := rateMultipliers[r]; ok {
		return m
	}
	return 1.0
}

// Mode selects which fields of an entry are spoken
type Mode string

const (
	// ModeNormal speaks word, synonym and sentence
	ModeNormal Mode = "normal"
	// ModeRevise speaks word and synonym, keeping the synonym hidden until
	// it is spoken
	ModeRevise Mode = "revise"
)

// ParseMode parses a drill mode
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeNormal, ModeRevise:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Pacing holds the silences a traversal inserts between utterances
type Pacing struct {
	WordGap      time.Duration // between fields in normal mode
	ReviseGap    time.Duration // between word and synonym in revise mode
	EntryGap     time.Duration // after each entry
	PollInterval time.Duration // pause re-check interval
}

// DefaultPacing returns the default pacing
func DefaultPacing() Pacing {
	return Pacing{
		WordGap:      200 * time.Millisecond,
		ReviseGap:    1500 * time.Millisecond,
		EntryGap:     1200 * time.Millisecond,
		PollInterval: 100 * time.Millisecond,
	}
}

// Snapshot is a copy of the session state at one instant
type Snapshot struct {
	GroupID   int
	GroupName string
	Index     int
	Total     int
	Entry     catalog.WordEntry // zero when the group is empty

	Playing bool
	Paused  bool
	Stopped bool

	Rate  Rate
	Mode  Mode
	RunID uint64

	// SynonymVisible is false in revise mode except while the synonym is
	// being spoken
	SynonymVisible bool
	// SentenceVisible is false in revise mode
	SentenceVisible bool
}

// Progress returns the position in the group as a percentage
func (s Snapshot) Progress() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Index+1) / float64(s.Total) * 100
}

// State names the playback state: "playing", "paused", "stopped" or "idle"
func (s Snapshot) State() string {
	switch {
	case s.Paused:
		return "paused"
	case s.Playing:
		return "playing"
	case s.Stopped:
		return "stopped"
	}
	return "idle"
}

// state is owned by the Controller and guarded by its mutex
type state struct {
	group catalog.Group
	rate  Rate
	mode  Mode
	index int

	playing bool
	paused  bool
	stopped bool

	synonymRevealed bool
}

func (st *state) snapshot(runID uint64) Snapshot {
	s := Snapshot{
		GroupID:         st.group.ID,
		GroupName:       st.group.Name,
		Index:           st.index,
		Total:           st.group.Len(),
		Playing:         st.playing,
		Paused:          st.paused,
		Stopped:         st.stopped,
		Rate:            st.rate,
		Mode:            st.mode,
		RunID:           runID,
		SynonymVisible:  st.mode == ModeNormal || st.synonymRevealed,
		SentenceVisible: st.mode == ModeNormal,
	}
	if st.index < st.group.Len() {
		s.Entry = st.group.Entries[st.index]
	}
	return s
}

// reset moves to the first entry and leaves the session stopped
func (st *state) reset() {
	st.index = 0
	st.playing = false
	st.paused = false
	st.stopped = true
	st.synonymRevealed = false
}

func clamp(i, n int) int {
	if i < 0 || n == 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
