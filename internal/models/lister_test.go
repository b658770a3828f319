package models

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"
	"testing"
)

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key")

	if lister == nil {
		t.Fatal("NewLister returned nil")
	}

	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}

	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestListAvailableModels_NoAPIKey(t *testing.T) {
	lister := NewLister("")

	err := lister.ListAvailableModels(context.Background(), &bytes.Buffer{})
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}

	expectedError := "OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .wordwalk.yaml"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got: %v", expectedError, err)
	}
}

func TestCategorize(t *testing.T) {
	got := Categorize([]string{
		"whisper-1", "tts-1-hd", "gpt-4o-mini", "dall-e-3",
		"gpt-4o-mini-tts", "tts-1", "gpt-4o-audio-preview", "chatgpt-4o-latest",
	})

	want := Categories{
		Speech: []string{"gpt-4o-audio-preview", "gpt-4o-mini-tts", "tts-1", "tts-1-hd"},
		Chat:   []string{"chatgpt-4o-latest", "gpt-4o-mini"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Categorize() = %+v, want %+v", got, want)
	}
}

func TestPrintCategories(t *testing.T) {
	var buf bytes.Buffer
	PrintCategories(&buf, Categories{Chat: []string{"gpt-4o-mini"}})

	out := buf.String()
	if !strings.Contains(out, "No TTS models found") {
		t.Error("Expected empty TTS notice")
	}
	if !strings.Contains(out, "  gpt-4o-mini\n") {
		t.Error("Expected chat model listed")
	}

	var many []string
	for i := 0; i < 12; i++ {
		many = append(many, fmt.Sprintf("gpt-3.5-turbo-%02d", i))
	}
	many = append(many, "gpt-4o")

	buf.Reset()
	PrintCategories(&buf, Categories{Chat: many})
	if !strings.Contains(buf.String(), "... and 12 more models") {
		t.Errorf("Expected long chat list to be shortened, got:\n%s", buf.String())
	}
}

func TestListAvailableModels_Integration(t *testing.T) {
	// Skip if no API key
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	lister := NewLister(apiKey)

	var buf bytes.Buffer
	if err := lister.ListAvailableModels(context.Background(), &buf); err != nil {
		t.Errorf("ListAvailableModels failed: %v", err)
	}
}
