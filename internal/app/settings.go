package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/wordwalk/internal/cli"
	"codeberg.org/snonux/wordwalk/internal/playback"
	"codeberg.org/snonux/wordwalk/internal/speech"
)

// Values set on the command line or in the config file win over the flag
// defaults kept in cli.Flags.

func stringSetting(key, fallback string) string {
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return fallback
}

func intSetting(key string, fallback int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return fallback
}

func floatSetting(key string, fallback float64) float64 {
	if viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	return fallback
}

func boolSetting(key string, fallback bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return fallback
}

func durationSetting(key string, fallback time.Duration) time.Duration {
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return fallback
}

// PlaybackConfig resolves the session settings. A group id given as the
// first argument overrides playback.group.
func PlaybackConfig(flags *cli.Flags, args []string) (*playback.Config, error) {
	// A negative setting leaves the choice to the catalog order
	var group *int
	if id := intSetting("playback.group", flags.Group); id >= 0 {
		group = playback.Group(id)
	}
	if len(args) > 0 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid group id '%s': %w", args[0], err)
		}
		group = playback.Group(id)
	}

	rate, err := playback.ParseRate(stringSetting("playback.rate", flags.Rate))
	if err != nil {
		return nil, err
	}
	mode, err := playback.ParseMode(stringSetting("playback.mode", flags.Mode))
	if err != nil {
		return nil, err
	}

	return &playback.Config{
		GroupID: group,
		Rate:    rate,
		Mode:    mode,
		Pacing: playback.Pacing{
			WordGap:      durationSetting("pacing.word_gap", flags.WordGap),
			ReviseGap:    durationSetting("pacing.revise_gap", flags.ReviseGap),
			EntryGap:     durationSetting("pacing.entry_gap", flags.EntryGap),
			PollInterval: durationSetting("pacing.poll_interval", flags.PollInterval),
		},
	}, nil
}

// SpeechConfig resolves the speech engine settings, including API keys
func SpeechConfig(flags *cli.Flags) (*speech.Config, error) {
	creds, err := cli.LoadCredentials()
	if err != nil {
		return nil, err
	}

	config := speech.DefaultConfig()
	config.Engine = stringSetting("speech.engine", flags.Engine)
	config.Sink = stringSetting("speech.sink", flags.Sink)
	config.Voice = stringSetting("speech.voice", flags.Voice)
	config.CacheDir = stringSetting("speech.cache_dir", flags.CacheDir)
	if config.CacheDir == "" {
		config.CacheDir = cli.DefaultCacheDir()
	}

	config.OpenAI.APIKey = creds.OpenAIKey
	config.OpenAI.Model = stringSetting("speech.openai_model", flags.OpenAIModel)
	config.OpenAI.Voice = stringSetting("speech.openai_voice", flags.OpenAIVoice)
	config.OpenAI.Speed = floatSetting("speech.openai_speed", flags.OpenAISpeed)
	config.OpenAI.Instruction = stringSetting("speech.openai_instruction", flags.OpenAIInstruction)

	config.Gemini.APIKey = creds.GeminiKey
	config.Gemini.Model = stringSetting("speech.gemini_model", flags.GeminiModel)
	config.Gemini.Voice = stringSetting("speech.gemini_voice", flags.GeminiVoice)

	return config, nil
}

// CatalogPath returns the catalog file to load, empty for the built-in one
func CatalogPath(flags *cli.Flags) string {
	return stringSetting("catalog.path", flags.Catalog)
}

// AutoPlay reports whether playback starts without a key press
func AutoPlay(flags *cli.Flags) bool {
	return boolSetting("playback.auto_play", flags.AutoPlay)
}
