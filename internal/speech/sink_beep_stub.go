//go:build !beep

package speech

import (
	"context"
	"fmt"
)

var errBeepDisabled = fmt.Errorf("in-process audio not compiled in; rebuild with -tags beep")

// BeepSink is unavailable in builds without the beep tag
type BeepSink struct{}

// NewBeepSink creates an in-process audio sink
func NewBeepSink() *BeepSink {
	return &BeepSink{}
}

// Play always fails without the beep build tag
func (s *BeepSink) Play(ctx context.Context, file string) (Playback, error) {
	return nil, errBeepDisabled
}

// Name returns the sink name
func (s *BeepSink) Name() string {
	return "beep"
}

// IsAvailable reports that the sink was not compiled in
func (s *BeepSink) IsAvailable() error {
	return errBeepDisabled
}
