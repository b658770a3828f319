package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

// Categories holds model ids by use
type Categories struct {
	Speech []string // text-to-speech and audio models
	Chat   []string // chat models usable for enrichment
}

// Categorize sorts model ids into categories, dropping those wordwalk cannot use
func Categorize(ids []string) Categories {
	var c Categories
	for _, id := range ids {
		switch {
		case strings.Contains(id, "tts") || strings.Contains(id, "audio"):
			c.Speech = append(c.Speech, id)
		case strings.Contains(id, "gpt") || strings.Contains(id, "chat"):
			c.Chat = append(c.Chat, id)
		}
	}

	sort.Strings(c.Speech)
	sort.Strings(c.Chat)
	return c
}

// ListAvailableModels writes the models usable by wordwalk to w
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	if l.apiKey == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .wordwalk.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}

	PrintCategories(w, Categorize(ids))
	return nil
}

// PrintCategories writes categorized models in a human readable form
func PrintCategories(w io.Writer, c Categories) {
	fmt.Fprintln(w, "Available OpenAI Models:")
	fmt.Fprintln(w, "\nText-to-Speech (TTS) Models (--openai-model):")
	if len(c.Speech) == 0 {
		fmt.Fprintln(w, "  No TTS models found")
	} else {
		for _, model := range c.Speech {
			fmt.Fprintf(w, "  %s\n", model)
		}
	}

	fmt.Fprintln(w, "\nChat Models (--enrich-model):")
	if len(c.Chat) > 10 {
		// Show only relevant models
		relevant := []string{}
		for _, model := range c.Chat {
			if strings.HasPrefix(model, "gpt-4") {
				relevant = append(relevant, model)
			}
		}
		for _, model := range relevant {
			fmt.Fprintf(w, "  %s\n", model)
		}
		fmt.Fprintf(w, "  ... and %d more models\n", len(c.Chat)-len(relevant))
	} else {
		for _, model := range c.Chat {
			fmt.Fprintf(w, "  %s\n", model)
		}
	}
}
