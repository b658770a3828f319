package playback

import (
	"context"
	"time"
)

// scopes hands out run ids. Only the scope holding the latest id is live.
// All methods require the controller lock.
type scopes struct {
	id     uint64
	cancel context.CancelFunc
}

// scope is the cancellation scope of one traversal
type scope struct {
	id     uint64
	ctx    context.Context
	cancel context.CancelFunc
	owner  *scopes
}

// begin invalidates the live scope and returns a new one
func (s *scopes) begin() *scope {
	s.invalidate()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	return &scope{
		id:     s.id,
		ctx:    ctx,
		cancel: cancel,
		owner:  s,
	}
}

// invalidate advances the run id without starting a new scope
func (s *scopes) invalidate() {
	s.id++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *scopes) current() uint64 {
	return s.id
}

// alive reports whether sc is still the live scope. Requires the controller lock.
func (sc *scope) alive() bool {
	return sc.owner.id == sc.id
}

// sleep waits for d and reports false if the scope was cancelled first
func (sc *scope) sleep(d time.Duration) bool {
	if d <= 0 {
		return sc.ctx.Err() == nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-sc.ctx.Done():
		return false
	}
}
