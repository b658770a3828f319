package speech

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
)

// Config selects and configures the speech engine
type Config struct {
	Engine   string // "auto", "espeak", "openai", "gemini" or "text"
	Sink     string // "exec" or "beep"; used by the synthesizing engines
	Voice    string // espeak-ng voice
	CacheDir string // synthesized audio cache; a temporary directory when empty

	OpenAI *OpenAIConfig
	Gemini *GeminiConfig

	Breaker BreakerSettings

	// TextOut receives utterances of the text engine
	TextOut io.Writer
	Logger  *log.Logger
}

// DefaultConfig returns the default speech configuration
func DefaultConfig() *Config {
	return &Config{
		Engine:  "auto",
		Sink:    "exec",
		Voice:   "en",
		OpenAI:  DefaultOpenAIConfig(),
		Gemini:  DefaultGeminiConfig(),
		Breaker: DefaultBreakerSettings(),
		TextOut: os.Stdout,
	}
}

// New creates the speech service described by config.
//
// The "auto" engine prefers OpenAI, then Gemini when their API keys are set,
// guarding them with a breaker that falls back to espeak-ng. Without keys it
// uses espeak-ng directly and finally plain text.
func New(ctx context.Context, config *Config) (*Speaker, error) {
	if config == nil {
		config = DefaultConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	source, err := newSource(ctx, config, logger)
	if err != nil {
		return nil, err
	}
	logger.Printf("speech: using %s", source.Name())

	return NewSpeaker(source, logger), nil
}

func newSource(ctx context.Context, config *Config, logger *log.Logger) (Source, error) {
	espeak := NewESpeak(espeakConfig(config))

	switch config.Engine {
	case "espeak":
		return espeak, nil

	case "text":
		return NewConsole(textOut(config)), nil

	case "openai":
		synth, err := newOpenAI(config)
		if err != nil {
			return nil, err
		}
		return synthSource(config, withFallback(synth, espeak, config, logger))

	case "gemini":
		synth, err := newGemini(ctx, config)
		if err != nil {
			return nil, err
		}
		return synthSource(config, withFallback(synth, espeak, config, logger))

	case "auto", "":
		if config.OpenAI != nil && config.OpenAI.APIKey != "" {
			if synth, err := newOpenAI(config); err == nil {
				return synthSource(config, withFallback(synth, espeak, config, logger))
			}
		}
		if config.Gemini != nil && config.Gemini.APIKey != "" {
			if synth, err := newGemini(ctx, config); err == nil {
				return synthSource(config, withFallback(synth, espeak, config, logger))
			}
		}
		if espeak.IsAvailable() == nil {
			return espeak, nil
		}
		logger.Printf("speech: no speech engine available, falling back to text")
		return NewConsole(textOut(config)), nil

	default:
		return nil, fmt.Errorf("unknown speech engine: %s", config.Engine)
	}
}

// NewSynthesizer creates the engine that renders audio files for config,
// without a sink. The text engine cannot render audio.
func NewSynthesizer(ctx context.Context, config *Config) (Synthesizer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	espeak := NewESpeak(espeakConfig(config))

	switch config.Engine {
	case "espeak":
		return espeak, nil
	case "openai":
		synth, err := newOpenAI(config)
		if err != nil {
			return nil, err
		}
		return withFallback(synth, espeak, config, logger), nil
	case "gemini":
		synth, err := newGemini(ctx, config)
		if err != nil {
			return nil, err
		}
		return withFallback(synth, espeak, config, logger), nil
	case "auto", "":
		if config.OpenAI != nil && config.OpenAI.APIKey != "" {
			if synth, err := newOpenAI(config); err == nil {
				return withFallback(synth, espeak, config, logger), nil
			}
		}
		if config.Gemini != nil && config.Gemini.APIKey != "" {
			if synth, err := newGemini(ctx, config); err == nil {
				return withFallback(synth, espeak, config, logger), nil
			}
		}
		if err := espeak.IsAvailable(); err != nil {
			return nil, fmt.Errorf("no speech engine can render audio: %w", err)
		}
		return espeak, nil
	case "text":
		return nil, fmt.Errorf("the text engine cannot render audio")
	default:
		return nil, fmt.Errorf("unknown speech engine: %s", config.Engine)
	}
}

func newOpenAI(config *Config) (*OpenAISynthesizer, error) {
	if config.OpenAI == nil {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return NewOpenAISynthesizer(config.OpenAI)
}

func newGemini(ctx context.Context, config *Config) (*GeminiSynthesizer, error) {
	if config.Gemini == nil {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	return NewGeminiSynthesizer(ctx, config.Gemini)
}

// withFallback wraps a cloud synthesizer with espeak-ng when it is installed
func withFallback(primary Synthesizer, espeak *ESpeak, config *Config, logger *log.Logger) Synthesizer {
	if espeak.IsAvailable() != nil {
		return primary
	}
	settings := config.Breaker
	if settings.MaxFailures == 0 {
		settings = DefaultBreakerSettings()
	}
	return NewBreakerSynthesizer(primary, espeak, settings, logger)
}

func synthSource(config *Config, synth Synthesizer) (Source, error) {
	sink, err := newSink(config.Sink)
	if err != nil {
		return nil, err
	}
	return NewSynthSource(synth, sink, config.CacheDir)
}

func newSink(name string) (Sink, error) {
	switch name {
	case "exec", "":
		return NewExecSink(), nil
	case "beep":
		return NewBeepSink(), nil
	default:
		return nil, fmt.Errorf("unknown audio sink: %s", name)
	}
}

func espeakConfig(config *Config) *ESpeakConfig {
	ec := DefaultESpeakConfig()
	if config.Voice != "" {
		ec.Voice = config.Voice
	}
	return ec
}

func textOut(config *Config) io.Writer {
	if config.TextOut == nil {
		return os.Stdout
	}
	return config.TextOut
}
