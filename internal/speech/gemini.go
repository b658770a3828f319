package speech

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini TTS returns raw 16-bit little-endian mono PCM at 24kHz
const (
	geminiSampleRate = 24000
	geminiChannels   = 1
	geminiBitDepth   = 16
)

// GeminiConfig holds Gemini TTS settings
type GeminiConfig struct {
	APIKey string
	Model  string // e.g. "gemini-2.5-flash-preview-tts"
	Voice  string // prebuilt voice name, e.g. "Kore"
}

// DefaultGeminiConfig returns default Gemini TTS settings
func DefaultGeminiConfig() *GeminiConfig {
	return &GeminiConfig{
		Model: "gemini-2.5-flash-preview-tts",
		Voice: "Kore",
	}
}

// GeminiSynthesizer implements Synthesizer using the Gemini API
type GeminiSynthesizer struct {
	client *genai.Client
	config *GeminiConfig
}

// NewGeminiSynthesizer creates a new Gemini TTS synthesizer
func NewGeminiSynthesizer(ctx context.Context, config *GeminiConfig) (*GeminiSynthesizer, error) {
	if config == nil || config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiSynthesizer{
		client: client,
		config: config,
	}, nil
}

// Synthesize generates a WAV file through Gemini TTS
func (g *GeminiSynthesizer) Synthesize(ctx context.Context, text string, rate float64, base string) (string, error) {
	if err := ValidateText(text); err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: g.config.Voice,
				},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(geminiPrompt(text, rate)), config)
	if err != nil {
		return "", fmt.Errorf("Gemini TTS API error: %w", err)
	}

	pcm := audioData(resp)
	if len(pcm) == 0 {
		return "", fmt.Errorf("no audio data received from Gemini")
	}

	var buf bytes.Buffer
	if err := writeWAV(&buf, pcm, geminiSampleRate, geminiChannels, geminiBitDepth); err != nil {
		return "", err
	}

	outputFile := base + ".wav"
	if err := writeFileAtomic(outputFile, &buf); err != nil {
		return "", err
	}
	return outputFile, nil
}

// Name returns the synthesizer name
func (g *GeminiSynthesizer) Name() string {
	return "gemini"
}

// IsAvailable checks that the Gemini API is configured
func (g *GeminiSynthesizer) IsAvailable() error {
	if g.config.APIKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	return nil
}

// geminiPrompt steers pacing through the prompt; the API has no speed knob
func geminiPrompt(text string, rate float64) string {
	text = strings.TrimSpace(text)
	switch {
	case rate < 0.95:
		return "Say slowly and clearly: " + text
	case rate > 1.3:
		return "Say quickly: " + text
	case rate > 1.05:
		return "Say briskly: " + text
	default:
		return "Say: " + text
	}
}

func audioData(resp *genai.GenerateContentResponse) []byte {
	if resp == nil {
		return nil
	}
	var data []byte
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil {
				data = append(data, part.InlineData.Data...)
			}
		}
	}
	return data
}

// writeWAV writes a canonical 44-byte header followed by PCM samples
func writeWAV(buf *bytes.Buffer, pcm []byte, sampleRate, channels, bitDepth int) error {
	byteRate := sampleRate * channels * bitDepth / 8
	blockAlign := channels * bitDepth / 8

	header := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(36 + len(pcm)),
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16),
		uint16(1), // PCM
		uint16(channels),
		uint32(sampleRate),
		uint32(byteRate),
		uint16(blockAlign),
		uint16(bitDepth),
		[4]byte{'d', 'a', 't', 'a'},
		uint32(len(pcm)),
	}
	for _, v := range header {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("failed to write WAV header: %w", err)
		}
	}

	_, err := buf.Write(pcm)
	return err
}
