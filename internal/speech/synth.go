package speech

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Synthesizer renders text into an audio file
type Synthesizer interface {
	// Synthesize writes audio for text at the given rate multiplier. base is
	// the output path without extension; the written path is returned.
	Synthesize(ctx context.Context, text string, rate float64, base string) (string, error)

	// Name returns the synthesizer name
	Name() string

	// IsAvailable checks if the synthesizer is properly configured
	IsAvailable() error
}

// Sink plays an audio file
type Sink interface {
	Play(ctx context.Context, file string) (Playback, error)
	Name() string
	IsAvailable() error
}

// SynthSource synthesizes each utterance into a cached file and plays it
type SynthSource struct {
	synth    Synthesizer
	sink     Sink
	cacheDir string
}

// NewSynthSource creates a source from a synthesizer and a sink
func NewSynthSource(synth Synthesizer, sink Sink, cacheDir string) (*SynthSource, error) {
	if cacheDir == "" {
		dir, err := os.MkdirTemp("", "wordwalk-audio-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		cacheDir = dir
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &SynthSource{
		synth:    synth,
		sink:     sink,
		cacheDir: cacheDir,
	}, nil
}

// Start renders text (or reuses the cached file) and starts playback
func (s *SynthSource) Start(ctx context.Context, text string, rate float64) (Playback, error) {
	file, err := s.render(ctx, text, rate)
	if err != nil {
		return nil, err
	}
	return s.sink.Play(ctx, file)
}

func (s *SynthSource) render(ctx context.Context, text string, rate float64) (string, error) {
	base := s.cachePath(text, rate)

	if matches, _ := filepath.Glob(base + ".*"); len(matches) > 0 {
		for _, m := range matches {
			if filepath.Ext(m) != ".tmp" {
				return m, nil
			}
		}
	}

	return s.synth.Synthesize(ctx, text, rate, base)
}

// cachePath returns the extension-less cache path for an utterance
func (s *SynthSource) cachePath(text string, rate float64) string {
	h := md5.New()
	h.Write([]byte(s.synth.Name()))
	h.Write([]byte(text))
	h.Write([]byte(fmt.Sprintf("%.2f", rate)))
	hash := hex.EncodeToString(h.Sum(nil))

	// Use first 2 chars as subdirectory for better file system performance
	return filepath.Join(s.cacheDir, hash[:2], hash[2:])
}

// Name returns "synthesizer via sink"
func (s *SynthSource) Name() string {
	return fmt.Sprintf("%s via %s", s.synth.Name(), s.sink.Name())
}

// IsAvailable requires both the synthesizer and the sink
func (s *SynthSource) IsAvailable() error {
	if err := s.synth.IsAvailable(); err != nil {
		return err
	}
	return s.sink.IsAvailable()
}

// ClearCache removes the audio cache at dir
func ClearCache(dir string) error {
	return os.RemoveAll(dir)
}

// CacheStats counts the files below dir. A missing cache is empty.
func CacheStats(dir string) (fileCount int, totalSize int64, err error) {
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			fileCount++
			totalSize += info.Size()
		}
		return nil
	})
	if os.IsNotExist(err) {
		return 0, 0, nil
	}

	return fileCount, totalSize, err
}
