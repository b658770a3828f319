package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// ESpeakConfig holds configuration for espeak-ng
type ESpeakConfig struct {
	Voice     string // Voice variant (e.g., "en", "en-us", "en+f3")
	Speed     int    // Words per minute at rate 1.0 (default: 150)
	Pitch     int    // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int    // Volume/amplitude, 0 to 200 (default: 100)
	WordGap   int    // Gap between words in 10ms units (default: 0)
}

// DefaultESpeakConfig returns the default espeak-ng configuration
func DefaultESpeakConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Voice:     "en",
		Speed:     150,
		Pitch:     50,
		Amplitude: 100,
		WordGap:   0,
	}
}

// ESpeak drives the espeak-ng binary. It speaks directly as a Source and
// writes WAV files as a Synthesizer.
type ESpeak struct {
	config *ESpeakConfig
	binary string
}

// NewESpeak creates an espeak-ng engine. It does not require the binary to
// be installed; IsAvailable reports that.
func NewESpeak(config *ESpeakConfig) *ESpeak {
	if config == nil {
		config = DefaultESpeakConfig()
	}
	return &ESpeak{config: config, binary: "espeak-ng"}
}

// Start speaks text through the default audio device
func (e *ESpeak) Start(ctx context.Context, text string, rate float64) (Playback, error) {
	return startProcess(ctx, e.binary, e.args(text, rate)...)
}

// Synthesize writes text as a WAV file next to base
func (e *ESpeak) Synthesize(ctx context.Context, text string, rate float64, base string) (string, error) {
	if err := ValidateText(text); err != nil {
		return "", err
	}

	outputFile := base + ".wav"
	tmpFile := outputFile + ".tmp"
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	args := append([]string{"-w", tmpFile}, e.args(text, rate)...)
	cmd := exec.CommandContext(ctx, e.binary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		os.Remove(tmpFile)
		return "", fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}

	if err := os.Rename(tmpFile, outputFile); err != nil {
		return "", fmt.Errorf("failed to store audio file: %w", err)
	}
	return outputFile, nil
}

func (e *ESpeak) args(text string, rate float64) []string {
	args := []string{
		"-v", e.config.Voice,
		"-s", strconv.Itoa(clampSpeed(int(float64(e.config.Speed) * rate))),
		"-p", strconv.Itoa(e.config.Pitch),
		"-a", strconv.Itoa(e.config.Amplitude),
	}

	if e.config.WordGap > 0 {
		args = append(args, "-g", strconv.Itoa(e.config.WordGap))
	}

	// "--" keeps words starting with a dash from being read as options
	return append(args, "--", text)
}

// clampSpeed keeps the words-per-minute value within espeak-ng's range
func clampSpeed(speed int) int {
	if speed < 80 {
		return 80
	} else if speed > 450 {
		return 450
	}
	return speed
}

// Name returns the engine name
func (e *ESpeak) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (e *ESpeak) IsAvailable() error {
	if _, err := exec.LookPath(e.binary); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// ListVoices returns commonly available English voice variants
func ListVoices() []string {
	return []string{
		"en",    // Default English voice
		"en-us", // American English
		"en-gb", // British English
		"en+m1", // English male voice 1
		"en+m3", // English male voice 3
		"en+f1", // English female voice 1
		"en+f3", // English female voice 3
	}
}
