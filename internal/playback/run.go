package playback

import (
	"errors"
	"time"

	"codeberg.org/snonux/wordwalk/internal/catalog"
	"codeberg.org/snonux/wordwalk/internal/speech"
)

// run walks group from start until the end of the group or until sc is
// superseded
func (c *Controller) run(sc *scope, group catalog.Group, start int) {
	defer c.runs.Done()
	defer sc.cancel()

	for i := start; i < group.Len(); i++ {
		if !c.publish(sc, i) {
			return
		}
		if !c.speakEntry(sc, group.Entries[i]) {
			return
		}
		if !c.gap(sc, c.pacing.EntryGap) {
			return
		}
	}

	c.mu.Lock()
	if !sc.alive() {
		c.mu.Unlock()
		return
	}
	c.st.playing = false
	if c.st.paused {
		// Paused during the final gap; leave the service unpaused
		c.st.paused = false
		c.speech.Cancel()
	}
	c.mu.Unlock()

	c.logger.Printf("playback: run %d finished", sc.id)
	c.changed()
}

// publish makes entry i the current one
func (c *Controller) publish(sc *scope, i int) bool {
	c.mu.Lock()
	if !sc.alive() {
		c.mu.Unlock()
		return false
	}
	c.st.index = i
	c.st.synonymRevealed = false
	c.mu.Unlock()

	c.changed()
	return true
}

func (c *Controller) speakEntry(sc *scope, e catalog.WordEntry) bool {
	if !c.say(sc, e.Word, false) {
		return false
	}

	c.mu.Lock()
	mode := c.st.mode
	c.mu.Unlock()

	if mode == ModeRevise {
		if e.Synonym == "" {
			return true
		}
		return c.gap(sc, c.pacing.ReviseGap) &&
			c.say(sc, "synonym: "+e.Synonym, true)
	}

	if e.Synonym != "" {
		if !c.gap(sc, c.pacing.WordGap) || !c.say(sc, "synonym: "+e.Synonym, false) {
			return false
		}
	}
	if e.Sentence != "" {
		if !c.gap(sc, c.pacing.WordGap) || !c.say(sc, e.Sentence, false) {
			return false
		}
	}
	return true
}

// say speaks text and waits for it to finish. reveal marks the synonym as
// visible for the duration of the utterance. A failed utterance counts as
// finished.
func (c *Controller) say(sc *scope, text string, reveal bool) bool {
	if text == "" {
		return true
	}

	var done <-chan error
	ok := c.checkpoint(sc, func() {
		if reveal {
			c.st.synonymRevealed = true
		}
		done = c.speech.Speak(text, c.st.rate.Multiplier())
	})
	if !ok {
		return false
	}
	if reveal {
		c.changed()
	}

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, speech.ErrCancelled) {
			c.logger.Printf("playback: run %d: speaking %q failed: %v", sc.id, text, err)
		}
	case <-sc.ctx.Done():
		// The superseding command cancelled the utterance
		return false
	}

	c.mu.Lock()
	if !sc.alive() {
		c.mu.Unlock()
		return false
	}
	if reveal {
		c.st.synonymRevealed = false
	}
	c.mu.Unlock()

	if reveal {
		c.changed()
	}
	return true
}

// gap waits d and reports whether sc is still live afterwards
func (c *Controller) gap(sc *scope, d time.Duration) bool {
	if !sc.sleep(d) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return sc.alive()
}

// checkpoint waits while the session is paused, then runs act under the
// lock if sc is still live
func (c *Controller) checkpoint(sc *scope, act func()) bool {
	for {
		c.mu.Lock()
		if !sc.alive() {
			c.mu.Unlock()
			return false
		}
		if !c.st.paused {
			act()
			c.mu.Unlock()
			return true
		}
		c.mu.Unlock()

		if !sc.sleep(c.pacing.PollInterval) {
			return false
		}
	}
}
