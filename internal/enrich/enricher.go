package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/wordwalk/internal/catalog"
)

const requestTimeout = 30 * time.Second

// chatClient is the part of the OpenAI client the enricher uses
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Enricher completes entries that lack a synonym or a sentence
type Enricher struct {
	apiKey string
	model  string
	client chatClient
	cache  *Cache
}

// NewEnricher creates a new enricher instance
func NewEnricher(apiKey, model string) *Enricher {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Enricher{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClient(apiKey),
		cache:  NewCache(),
	}
}

type completion struct {
	Synonym  string `json:"synonym"`
	Sentence string `json:"sentence"`
}

// Complete returns e with a missing synonym or sentence filled in
func (en *Enricher) Complete(ctx context.Context, e catalog.WordEntry) (catalog.WordEntry, error) {
	if e.Synonym != "" && e.Sentence != "" {
		return e, nil
	}
	if en.apiKey == "" {
		return e, fmt.Errorf("OpenAI API key not found")
	}

	c, ok := en.cache.Get(e.Word)
	if !ok {
		var err error
		c, err = en.request(ctx, e.Word)
		if err != nil {
			return e, err
		}
		en.cache.Add(e.Word, c)
	}

	if e.Synonym == "" {
		e.Synonym = c.Synonym
	}
	if e.Sentence == "" {
		e.Sentence = c.Sentence
	}
	return e, nil
}

func (en *Enricher) request(ctx context.Context, word string) (completion, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: en.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You help English learners build vocabulary. Answer with a JSON object with the keys \"synonym\" (one common synonym, lower case) and \"sentence\" (one short natural example sentence using the word).",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Word: %s", word),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens:   120,
		Temperature: 0.3,
	}

	resp, err := en.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return completion{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return completion{}, fmt.Errorf("no response from OpenAI")
	}

	var c completion
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &c); err != nil {
		return completion{}, fmt.Errorf("failed to parse enrichment for '%s': %w", word, err)
	}
	c.Synonym = strings.TrimSpace(c.Synonym)
	c.Sentence = strings.TrimSpace(c.Sentence)
	return c, nil
}

// EnrichGroups completes every entry of groups. Entries that fail keep their
// fields and are reported to progress; the number of filled entries is
// returned.
func (en *Enricher) EnrichGroups(ctx context.Context, groups []catalog.Group, progress io.Writer) ([]catalog.Group, int, error) {
	out := make([]catalog.Group, len(groups))
	filled := 0

	for gi, g := range groups {
		entries := make([]catalog.WordEntry, len(g.Entries))
		for i, e := range g.Entries {
			if err := ctx.Err(); err != nil {
				return nil, filled, err
			}

			done, err := en.Complete(ctx, e)
			if err != nil {
				fmt.Fprintf(progress, "  ✗ %s: %v\n", e.Word, err)
				entries[i] = e
				continue
			}
			if done != e {
				filled++
				fmt.Fprintf(progress, "  ✓ %s = %s | %s\n", done.Word, done.Synonym, done.Sentence)
			}
			entries[i] = done
		}
		g.Entries = entries
		out[gi] = g
	}

	return out, filled, nil
}

// Cache stores completions in memory for batch operations
type Cache struct {
	mu    sync.Mutex
	items map[string]completion
}

// NewCache creates a new completion cache
func NewCache() *Cache {
	return &Cache{items: make(map[string]completion)}
}

// Add adds a completion to the cache
func (c *Cache) Add(word string, comp completion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[strings.ToLower(word)] = comp
}

// Get retrieves a completion from the cache
func (c *Cache) Get(word string) (completion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	comp, ok := c.items[strings.ToLower(word)]
	return comp, ok
}
