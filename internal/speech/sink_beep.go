//go:build beep

package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

const beepSampleRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// BeepSink decodes MP3 and WAV files in-process and plays them through the
// default output device
type BeepSink struct{}

// NewBeepSink creates an in-process audio sink
func NewBeepSink() *BeepSink {
	return &BeepSink{}
}

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(beepSampleRate, beepSampleRate.N(time.Second/10))
	})
	return speakerErr
}

// Play decodes file and starts playing it
func (s *BeepSink) Play(ctx context.Context, file string) (Playback, error) {
	if err := initSpeaker(); err != nil {
		return nil, fmt.Errorf("failed to initialize audio device: %w", err)
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(file)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported audio format: %s", filepath.Ext(file))
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode audio file: %w", err)
	}

	p := &beepPlayback{
		streamer: streamer,
		done:     make(chan struct{}),
	}
	p.ctrl = &beep.Ctrl{Streamer: beep.Resample(4, format.SampleRate, beepSampleRate, streamer)}

	speaker.Play(beep.Seq(p.ctrl, beep.Callback(p.finish)))

	go func() {
		select {
		case <-ctx.Done():
			p.Stop()
		case <-p.done:
		}
	}()

	return p, nil
}

// Name returns the sink name
func (s *BeepSink) Name() string {
	return "beep"
}

// IsAvailable checks that the output device can be opened
func (s *BeepSink) IsAvailable() error {
	return initSpeaker()
}

type beepPlayback struct {
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	done     chan struct{}
	once     sync.Once
}

func (p *beepPlayback) finish() {
	p.once.Do(func() {
		p.streamer.Close()
		close(p.done)
	})
}

func (p *beepPlayback) Wait() error {
	<-p.done
	return nil
}

func (p *beepPlayback) Pause() error {
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

func (p *beepPlayback) Resume() error {
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

func (p *beepPlayback) Stop() {
	speaker.Lock()
	p.ctrl.Streamer = nil
	speaker.Unlock()
	p.finish()
}
