package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds OpenAI TTS settings
type OpenAIConfig struct {
	APIKey      string
	Model       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	Voice       string  // "alloy", "ash", "ballad", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer", "verse"
	Speed       float64 // speed at rate 1.0; the product is clamped to 0.25..4.0
	Instruction string  // Voice instructions for gpt-4o-mini-tts
	Format      string  // "mp3", "wav", "opus", "aac" or "flac"
}

// DefaultOpenAIConfig returns default OpenAI TTS settings
func DefaultOpenAIConfig() *OpenAIConfig {
	return &OpenAIConfig{
		Model:       "gpt-4o-mini-tts",
		Voice:       "alloy",
		Speed:       1.0,
		Instruction: "Speak clearly and at an even pace for someone learning vocabulary.",
		Format:      "mp3",
	}
}

// OpenAISynthesizer implements Synthesizer for OpenAI TTS
type OpenAISynthesizer struct {
	client *openai.Client
	config *OpenAIConfig
}

// NewOpenAISynthesizer creates a new OpenAI TTS synthesizer
func NewOpenAISynthesizer(config *OpenAIConfig) (*OpenAISynthesizer, error) {
	if config == nil || config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	return &OpenAISynthesizer{
		client: openai.NewClient(config.APIKey),
		config: config,
	}, nil
}

// Synthesize generates audio using OpenAI TTS
func (p *OpenAISynthesizer) Synthesize(ctx context.Context, text string, rate float64, base string) (string, error) {
	if err := ValidateText(text); err != nil {
		return "", err
	}

	req := openai.CreateSpeechRequest{
		Model: openai.SpeechModel(p.config.Model),
		Input: strings.TrimSpace(text),
		Voice: openai.SpeechVoice(p.config.Voice),
		Speed: openAISpeed(p.config.Speed, rate),
	}

	if p.config.Instruction != "" && supportsInstructions(p.config.Model) {
		req.Instructions = p.config.Instruction
	}

	format, ext := responseFormat(p.config.Format)
	req.ResponseFormat = format

	response, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "does not have access to model") && supportsInstructions(p.config.Model) {
			return "", fmt.Errorf("OpenAI TTS API error: %w\nNote: The %s model requires access. Try using --openai-model tts-1-hd instead", err, p.config.Model)
		}
		return "", fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	outputFile := base + ext
	if err := writeFileAtomic(outputFile, response); err != nil {
		return "", err
	}
	return outputFile, nil
}

// Name returns the synthesizer name
func (p *OpenAISynthesizer) Name() string {
	return "openai"
}

// IsAvailable checks that the OpenAI API is configured
func (p *OpenAISynthesizer) IsAvailable() error {
	if p.config.APIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}

	// A test request would use credits, so a key is all we check
	return nil
}

func supportsInstructions(model string) bool {
	return model == "gpt-4o-mini-tts" || model == "gpt-4o-mini-audio-preview"
}

// openAISpeed scales the configured speed by the drill rate
func openAISpeed(base, rate float64) float64 {
	if base <= 0 {
		base = 1.0
	}
	speed := base * rate
	if speed < 0.25 {
		return 0.25
	} else if speed > 4.0 {
		return 4.0
	}
	return speed
}

func responseFormat(format string) (openai.SpeechResponseFormat, string) {
	switch strings.ToLower(format) {
	case "wav":
		return openai.SpeechResponseFormatWav, ".wav"
	case "opus":
		return openai.SpeechResponseFormatOpus, ".opus"
	case "aac":
		return openai.SpeechResponseFormatAac, ".aac"
	case "flac":
		return openai.SpeechResponseFormatFlac, ".flac"
	default:
		return openai.SpeechResponseFormatMp3, ".mp3"
	}
}

// writeFileAtomic copies r into path through a temporary file so that an
// interrupted download never leaves a truncated cache entry behind
func writeFileAtomic(path string, r io.Reader) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmpFile := path + ".tmp"
	out, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	written, err := io.Copy(out, r)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if written == 0 {
		os.Remove(tmpFile)
		return fmt.Errorf("no audio data received")
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to store audio file: %w", err)
	}
	return nil
}
