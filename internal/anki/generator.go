package anki

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/wordwalk/internal"
	"codeberg.org/snonux/wordwalk/internal/catalog"
)

// Card represents a single Anki flashcard
type Card struct {
	Word      string // front of the card
	Synonym   string
	Sentence  string
	AudioFile string // path to the spoken word, optional
	Tags      string // space separated Anki tags
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	MediaFolder    string // Folder audio files are copied to; Anki's collection.media
	IncludeHeaders bool   // Include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		MediaFolder:    "anki_media",
		IncludeHeaders: true,
	}
}

// AudioRenderer renders text to an audio file below base, returning its path
type AudioRenderer interface {
	Synthesize(ctx context.Context, text string, rate float64, base string) (string, error)
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// AddGroups adds one card per entry, tagged with its group name
func (g *Generator) AddGroups(groups []catalog.Group) {
	for _, group := range groups {
		tag := "wordwalk::" + internal.SanitizeFilename(group.Name)
		for _, e := range group.Entries {
			g.AddCard(Card{
				Word:     e.Word,
				Synonym:  e.Synonym,
				Sentence: e.Sentence,
				Tags:     tag,
			})
		}
	}
}

// GetCards returns a slice of all cards for modification
func (g *Generator) GetCards() []Card {
	return g.cards
}

// RenderAudio speaks every card's word into the media folder. Failures are
// returned per word and leave the card without audio.
func (g *Generator) RenderAudio(ctx context.Context, renderer AudioRenderer) map[string]error {
	failed := make(map[string]error)
	for i, card := range g.cards {
		if err := ctx.Err(); err != nil {
			failed[card.Word] = err
			continue
		}

		base := filepath.Join(g.options.MediaFolder, "wordwalk_"+internal.SanitizeFilename(card.Word))
		path, err := renderer.Synthesize(ctx, card.Word, 1.0, base)
		if err != nil {
			failed[card.Word] = err
			continue
		}
		g.cards[i].AudioFile = path
	}
	return failed
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	// Create output file
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	// Create CSV writer
	writer := csv.NewWriter(file)

	// Write headers if requested
	if g.options.IncludeHeaders {
		headers := []string{"Word", "Back", "Audio", "Tags"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	// Write cards
	for _, card := range g.cards {
		audio, err := g.formatAudioField(card.AudioFile)
		if err != nil {
			return err
		}
		record := []string{
			card.Word,
			formatBack(card),
			audio,
			card.Tags,
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}

// formatBack joins synonym and sentence for the back of the card
func formatBack(card Card) string {
	var parts []string
	if card.Synonym != "" {
		parts = append(parts, card.Synonym)
	}
	if card.Sentence != "" {
		parts = append(parts, "<i>"+card.Sentence+"</i>")
	}
	return strings.Join(parts, "<br>")
}

// formatAudioField formats the audio file reference for Anki, copying files
// from elsewhere into the media folder
func (g *Generator) formatAudioField(audioFile string) (string, error) {
	if audioFile == "" {
		return "", nil
	}

	filename := filepath.Base(audioFile)
	if filepath.Clean(filepath.Dir(audioFile)) != filepath.Clean(g.options.MediaFolder) {
		var err error
		filename, err = g.copyMediaFile(audioFile, g.options.MediaFolder)
		if err != nil {
			return "", fmt.Errorf("failed to copy audio file: %w", err)
		}
	}

	// Anki audio format: [sound:filename.mp3]
	return fmt.Sprintf("[sound:%s]", filename), nil
}

// copyMediaFile copies a media file to the destination directory
func (g *Generator) copyMediaFile(src, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	// Create destination path
	filename := filepath.Base(src)
	destPath := filepath.Join(destDir, filename)

	// Check if file already exists
	if _, err := os.Stat(destPath); err == nil {
		// File exists, generate unique name
		ext := filepath.Ext(filename)
		base := strings.TrimSuffix(filename, ext)
		for i := 1; ; i++ {
			filename = fmt.Sprintf("%s_%d%s", base, i, ext)
			destPath = filepath.Join(destDir, filename)
			if _, err := os.Stat(destPath); os.IsNotExist(err) {
				break
			}
		}
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return "", err
	}

	return filename, nil
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withAudio, withSentence int) {
	totalCards = len(g.cards)

	for _, card := range g.cards {
		if card.AudioFile != "" {
			withAudio++
		}
		if card.Sentence != "" {
			withSentence++
		}
	}

	return
}
