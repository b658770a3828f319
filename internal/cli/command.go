package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/wordwalk/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wordwalk [group-id]",
		Short: "Vocabulary drilling audio player",
		Long: `wordwalk walks through groups of vocabulary entries and speaks each
word, its synonym and an example sentence aloud.

Keys in the interactive player:
  space  play / pause / resume     n, p   next / previous entry
  s      stop                      g      next group
  r      restart from the top      1-4    slow, medium, fast, max
  m      toggle normal/revise      q      quit

Examples:
  wordwalk                          # Drill the first group of the built-in catalog
  wordwalk 2 --auto-play            # Start speaking group 2 right away
  wordwalk --catalog words.yaml     # Use your own catalog
  wordwalk import words.txt --db words.db --enrich
  wordwalk export words.csv --audio # Anki cards with spoken words`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

// CreateGroupsCommand creates the command listing catalog groups
func CreateGroupsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List the groups of the catalog",
		Args:  cobra.NoArgs,
	}
}

// CreateImportCommand creates the command loading a catalog into SQLite
func CreateImportCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <catalog-file>",
		Short: "Import a JSON, YAML or text catalog into a SQLite database",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&flags.DBFile, "db", flags.DBFile, "SQLite database to import into")
	cmd.Flags().BoolVar(&flags.Enrich, "enrich", false, "Fill missing synonyms and sentences using OpenAI")
	cmd.Flags().StringVar(&flags.EnrichModel, "enrich-model", flags.EnrichModel, "OpenAI chat model used by --enrich")

	return cmd
}

// CreateExportCommand creates the command writing an Anki import file
func CreateExportCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <output.csv|output.yaml>",
		Short: "Export the catalog as an Anki CSV import file or as YAML",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().BoolVar(&flags.ExportAudio, "audio", false, "Render each word to an audio file for the cards")
	cmd.Flags().StringVar(&flags.MediaDir, "media-dir", flags.MediaDir, "Directory for card audio (copy into Anki's collection.media)")

	return cmd
}

// CreateCacheCommand creates the command inspecting the audio cache
func CreateCacheCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show or clear the synthesized audio cache",
		Args:  cobra.NoArgs,
	}

	cmd.Flags().BoolVar(&flags.ClearCache, "clear", false, "Remove all cached audio")

	return cmd
}

// CreateMCPCommand creates the command serving the player over MCP
func CreateMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the player as MCP tools over stdio",
		Args:  cobra.NoArgs,
	}
}

// CreateVoicesCommand creates the command listing espeak-ng voices
func CreateVoicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List the espeak-ng voices",
		Args:  cobra.NoArgs,
	}
}

// CreateModelsCommand creates the command listing OpenAI TTS models
func CreateModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available OpenAI models for the current API key",
		Args:  cobra.NoArgs,
	}
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.wordwalk.yaml)")
	pf.BoolVar(&flags.Verbose, "verbose", false, "Log debug output to stderr")
	pf.StringVarP(&flags.Catalog, "catalog", "c", "", "Catalog file (.json, .yaml, .txt or .db); built-in words when empty")
	pf.IntVarP(&flags.Group, "group", "g", flags.Group, "Group id to start with; negative selects the first group")
	pf.StringVarP(&flags.Rate, "rate", "r", flags.Rate, "Speech rate: slow, medium, fast or max")
	pf.StringVarP(&flags.Mode, "mode", "m", flags.Mode, "Drill mode: normal or revise")

	// Pacing flags
	pf.DurationVar(&flags.WordGap, "word-gap", flags.WordGap, "Silence between the fields of an entry")
	pf.DurationVar(&flags.ReviseGap, "revise-gap", flags.ReviseGap, "Silence before the synonym in revise mode")
	pf.DurationVar(&flags.EntryGap, "entry-gap", flags.EntryGap, "Silence after each entry")
	pf.DurationVar(&flags.PollInterval, "poll-interval", flags.PollInterval, "How often a paused session checks for resume")

	// Speech flags
	pf.StringVar(&flags.Engine, "engine", flags.Engine, "Speech engine: auto, espeak, openai, gemini or text")
	pf.StringVar(&flags.Sink, "sink", flags.Sink, "Audio output for synthesized speech: exec or beep")
	pf.StringVar(&flags.Voice, "voice", flags.Voice, "espeak-ng voice")
	pf.StringVar(&flags.CacheDir, "cache-dir", "", "Directory for synthesized audio (default: user cache directory)")

	// OpenAI flags
	pf.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	pf.StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	pf.Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed at medium rate (0.25 to 4.0)")
	pf.StringVar(&flags.OpenAIInstruction, "openai-instruction", flags.OpenAIInstruction, "Voice instructions for gpt-4o-mini-tts model")

	// Gemini flags
	pf.StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini TTS model")
	pf.StringVar(&flags.GeminiVoice, "gemini-voice", flags.GeminiVoice, "Gemini prebuilt voice name")

	// Local flags
	cmd.Flags().BoolVarP(&flags.AutoPlay, "auto-play", "a", false, "Start speaking immediately")
	cmd.Flags().BoolVar(&flags.LineMode, "line", false, "Read typed commands line by line instead of single keys")
	cmd.Flags().BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	viper.BindPFlag("catalog.path", pf.Lookup("catalog"))
	viper.BindPFlag("playback.group", pf.Lookup("group"))
	viper.BindPFlag("playback.rate", pf.Lookup("rate"))
	viper.BindPFlag("playback.mode", pf.Lookup("mode"))
	viper.BindPFlag("playback.auto_play", cmd.Flags().Lookup("auto-play"))
	viper.BindPFlag("pacing.word_gap", pf.Lookup("word-gap"))
	viper.BindPFlag("pacing.revise_gap", pf.Lookup("revise-gap"))
	viper.BindPFlag("pacing.entry_gap", pf.Lookup("entry-gap"))
	viper.BindPFlag("pacing.poll_interval", pf.Lookup("poll-interval"))
	viper.BindPFlag("speech.engine", pf.Lookup("engine"))
	viper.BindPFlag("speech.sink", pf.Lookup("sink"))
	viper.BindPFlag("speech.voice", pf.Lookup("voice"))
	viper.BindPFlag("speech.cache_dir", pf.Lookup("cache-dir"))
	viper.BindPFlag("speech.openai_model", pf.Lookup("openai-model"))
	viper.BindPFlag("speech.openai_voice", pf.Lookup("openai-voice"))
	viper.BindPFlag("speech.openai_speed", pf.Lookup("openai-speed"))
	viper.BindPFlag("speech.openai_instruction", pf.Lookup("openai-instruction"))
	viper.BindPFlag("speech.gemini_model", pf.Lookup("gemini-model"))
	viper.BindPFlag("speech.gemini_voice", pf.Lookup("gemini-voice"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".wordwalk" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".wordwalk")
	}

	// Environment variables, e.g. WORDWALK_SPEECH_ENGINE for speech.engine
	viper.SetEnvPrefix("WORDWALK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// DefaultCacheDir returns the persistent audio cache location
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "wordwalk", "audio")
	}
	return ""
}
