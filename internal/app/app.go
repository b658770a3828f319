package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/wordwalk/internal"
	"codeberg.org/snonux/wordwalk/internal/anki"
	"codeberg.org/snonux/wordwalk/internal/catalog"
	"codeberg.org/snonux/wordwalk/internal/cli"
	"codeberg.org/snonux/wordwalk/internal/console"
	"codeberg.org/snonux/wordwalk/internal/enrich"
	"codeberg.org/snonux/wordwalk/internal/mcpserver"
	"codeberg.org/snonux/wordwalk/internal/models"
	"codeberg.org/snonux/wordwalk/internal/playback"
	"codeberg.org/snonux/wordwalk/internal/speech"
)

// App runs the wordwalk commands
type App struct {
	flags  *cli.Flags
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	logger *log.Logger
}

// New creates an app using the process's standard streams
func New(flags *cli.Flags) *App {
	a := &App{
		flags:  flags,
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	a.logger = newLogger(flags.Verbose, a.errOut)
	return a
}

func newLogger(verbose bool, w io.Writer) *log.Logger {
	if !verbose {
		w = io.Discard
	}
	return log.New(w, "wordwalk: ", log.Ltime|log.Lmicroseconds)
}

// LoadCatalog loads the configured catalog, or the built-in one
func (a *App) LoadCatalog() (*catalog.Static, error) {
	path := CatalogPath(a.flags)
	if path == "" {
		return catalog.Default()
	}

	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	a.logger.Printf("loaded %d groups from %s", len(cat.Groups()), path)
	return cat, nil
}

// NewSession creates a controller with a speech engine. Text speech goes to
// textOut.
func (a *App) NewSession(ctx context.Context, args []string, textOut io.Writer) (*playback.Controller, error) {
	cat, err := a.LoadCatalog()
	if err != nil {
		return nil, err
	}

	pbConfig, err := PlaybackConfig(a.flags, args)
	if err != nil {
		return nil, err
	}
	pbConfig.Logger = a.logger

	spConfig, err := SpeechConfig(a.flags)
	if err != nil {
		return nil, err
	}
	spConfig.TextOut = textOut
	spConfig.Logger = a.logger

	svc, err := speech.New(ctx, spConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to set up speech: %w", err)
	}

	ctrl, err := playback.New(cat, svc, pbConfig)
	if err != nil {
		return nil, err
	}
	return ctrl, nil
}

// RunPlayer runs the interactive terminal player
func (a *App) RunPlayer(ctx context.Context, args []string) error {
	renderer := console.NewRenderer(a.out, a.flags.NoColor)

	ctrl, err := a.NewSession(ctx, args, renderer.Writer())
	if err != nil {
		return err
	}
	defer ctrl.Close()

	renderer.Message("wordwalk v%s, speaking with %s", internal.Version, ctrl.SpeechName())
	ctrl.OnChange(renderer.Render)

	c := console.New(ctrl, a.in, renderer, console.Options{
		LineMode: a.flags.LineMode,
		AutoPlay: AutoPlay(a.flags),
	})
	return c.Run(ctx)
}

// ServeMCP serves the player over MCP on stdio. Stdout carries the protocol,
// so text speech and logs go to stderr.
func (a *App) ServeMCP(ctx context.Context) error {
	ctrl, err := a.NewSession(ctx, nil, a.errOut)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	a.logger.Printf("serving MCP on stdio, speaking with %s", ctrl.SpeechName())
	return mcpserver.New(ctrl).ServeStdio(ctx)
}

// ListGroups prints the groups of the configured catalog
func (a *App) ListGroups() error {
	cat, err := a.LoadCatalog()
	if err != nil {
		return err
	}

	for _, g := range cat.Groups() {
		fmt.Fprintf(a.out, "%3d  %-24s %d entries\n", g.ID, g.Name, g.Len())
	}
	return nil
}

// Import loads a catalog file into the SQLite database, optionally filling
// in missing synonyms and sentences first
func (a *App) Import(ctx context.Context, src string) error {
	cat, err := catalog.Load(src)
	if err != nil {
		return fmt.Errorf("failed to load catalog %s: %w", src, err)
	}
	groups := cat.Groups()

	filled := 0
	if a.flags.Enrich {
		fmt.Fprintf(a.out, "Enriching entries with %s...\n", a.flags.EnrichModel)
		enricher := enrich.NewEnricher(cli.GetOpenAIKey(), a.flags.EnrichModel)
		groups, filled, err = enricher.EnrichGroups(ctx, groups, a.out)
		if err != nil {
			return fmt.Errorf("failed to enrich entries: %w", err)
		}
	}

	store, err := catalog.OpenStore(a.flags.DBFile)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Import(groups); err != nil {
		return err
	}

	entries := 0
	for _, g := range groups {
		entries += g.Len()
	}

	// Print summary
	fmt.Fprintf(a.out, "\n=== Import Summary ===\n")
	fmt.Fprintf(a.out, "Groups: %d\n", len(groups))
	fmt.Fprintf(a.out, "Entries: %d\n", entries)
	if a.flags.Enrich {
		fmt.Fprintf(a.out, "Enriched: %d\n", filled)
	}
	fmt.Fprintf(a.out, "Database: %s\n", a.flags.DBFile)
	fmt.Fprintf(a.out, "======================\n")
	return nil
}

// Export writes the catalog as an Anki CSV file, optionally with spoken
// words rendered into the media directory. A .yaml or .yml output saves the
// catalog itself instead.
func (a *App) Export(ctx context.Context, output string) error {
	cat, err := a.LoadCatalog()
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(output)) {
	case ".yaml", ".yml":
		if err := catalog.WriteYAMLFile(output, cat.Groups()); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Exported %d groups to %s\n", len(cat.Groups()), output)
		return nil
	}

	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     output,
		MediaFolder:    a.flags.MediaDir,
		IncludeHeaders: true,
	})
	gen.AddGroups(cat.Groups())

	if a.flags.ExportAudio {
		config, err := SpeechConfig(a.flags)
		if err != nil {
			return err
		}
		config.Logger = a.logger

		synth, err := speech.NewSynthesizer(ctx, config)
		if err != nil {
			return fmt.Errorf("failed to set up speech: %w", err)
		}

		fmt.Fprintf(a.out, "Rendering audio with %s...\n", synth.Name())
		for word, err := range gen.RenderAudio(ctx, synth) {
			fmt.Fprintf(a.errOut, "Warning: no audio for '%s': %v\n", word, err)
		}
	}

	if err := gen.GenerateCSV(); err != nil {
		return err
	}

	total, withAudio, withSentence := gen.Stats()
	fmt.Fprintf(a.out, "Exported %d cards (%d with audio, %d with sentences) to %s\n", total, withAudio, withSentence, output)
	if withAudio > 0 {
		fmt.Fprintf(a.out, "Copy the files in %s into Anki's collection.media folder\n", a.flags.MediaDir)
	}
	return nil
}

// Cache prints the size of the audio cache, or clears it
func (a *App) Cache() error {
	config, err := SpeechConfig(a.flags)
	if err != nil {
		return err
	}
	dir := config.CacheDir

	if a.flags.ClearCache {
		if err := speech.ClearCache(dir); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Fprintf(a.out, "Cleared audio cache %s\n", dir)
		return nil
	}

	files, size, err := speech.CacheStats(dir)
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}
	fmt.Fprintf(a.out, "Audio cache: %s\n", dir)
	fmt.Fprintf(a.out, "Files: %d\n", files)
	fmt.Fprintf(a.out, "Size: %.1f KiB\n", float64(size)/1024)
	return nil
}

// ListVoices prints the espeak-ng voices usable with --voice
func (a *App) ListVoices() error {
	fmt.Fprintln(a.out, "espeak-ng voices:")
	for _, v := range speech.ListVoices() {
		marker := " "
		if v == a.flags.Voice {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %s\n", marker, v)
	}
	return nil
}

// ListModels prints the OpenAI models usable with the configured key
func (a *App) ListModels(ctx context.Context) error {
	return models.NewLister(cli.GetOpenAIKey()).ListAvailableModels(ctx, a.out)
}
