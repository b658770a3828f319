package app

import (
	"testing"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/wordwalk/internal/cli"
	"codeberg.org/snonux/wordwalk/internal/playback"
)

func TestPlaybackConfigDefaults(t *testing.T) {
	resetViper(t)

	config, err := PlaybackConfig(cli.NewFlags(), nil)
	if err != nil {
		t.Fatalf("PlaybackConfig() error = %v", err)
	}

	if config.GroupID != nil || config.Rate != playback.RateMedium || config.Mode != playback.ModeNormal {
		t.Errorf("Unexpected config %+v", config)
	}
	if config.Pacing != playback.DefaultPacing() {
		t.Errorf("Expected default pacing, got %+v", config.Pacing)
	}
}

func TestPlaybackConfigFromFile(t *testing.T) {
	resetViper(t)
	viper.Set("playback.group", 3)
	viper.Set("playback.rate", "slow")
	viper.Set("playback.mode", "revise")
	viper.Set("pacing.entry_gap", "2s")

	config, err := PlaybackConfig(cli.NewFlags(), nil)
	if err != nil {
		t.Fatalf("PlaybackConfig() error = %v", err)
	}

	if config.GroupID == nil || *config.GroupID != 3 || config.Rate != playback.RateSlow || config.Mode != playback.ModeRevise {
		t.Errorf("Unexpected config %+v", config)
	}
	if config.Pacing.EntryGap != 2*time.Second {
		t.Errorf("Expected entry gap 2s, got %v", config.Pacing.EntryGap)
	}

	// The argument wins over the config file
	config, err = PlaybackConfig(cli.NewFlags(), []string{"5"})
	if err != nil {
		t.Fatalf("PlaybackConfig() error = %v", err)
	}
	if config.GroupID == nil || *config.GroupID != 5 {
		t.Errorf("Expected group 5, got %v", config.GroupID)
	}
}

func TestPlaybackConfigGroupZero(t *testing.T) {
	tests := []struct {
		name    string
		flag    int
		setting any
		args    []string
	}{
		{"flag", 0, nil, nil},
		{"config file", -1, 0, nil},
		{"argument", -1, nil, []string{"0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			if tt.setting != nil {
				viper.Set("playback.group", tt.setting)
			}
			flags := cli.NewFlags()
			flags.Group = tt.flag

			config, err := PlaybackConfig(flags, tt.args)
			if err != nil {
				t.Fatalf("PlaybackConfig() error = %v", err)
			}
			if config.GroupID == nil || *config.GroupID != 0 {
				t.Errorf("Expected explicit group 0, got %v", config.GroupID)
			}
		})
	}
}

func TestPlaybackConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		args  []string
	}{
		{name: "bad group argument", args: []string{"two"}},
		{name: "bad rate", key: "playback.rate", value: "warp"},
		{name: "bad mode", key: "playback.mode", value: "quiz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			if tt.key != "" {
				viper.Set(tt.key, tt.value)
			}
			if _, err := PlaybackConfig(cli.NewFlags(), tt.args); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestSpeechConfig(t *testing.T) {
	resetViper(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEY", "")
	viper.Set("speech.gemini_key", "gm-test")
	viper.Set("speech.openai_voice", "nova")

	flags := cli.NewFlags()
	flags.Engine = "espeak"
	flags.CacheDir = "/tmp/wordwalk-cache"

	config, err := SpeechConfig(flags)
	if err != nil {
		t.Fatalf("SpeechConfig() error = %v", err)
	}

	if config.Engine != "espeak" || config.CacheDir != "/tmp/wordwalk-cache" {
		t.Errorf("Unexpected config %+v", config)
	}
	if config.OpenAI.APIKey != "sk-test" || config.OpenAI.Voice != "nova" || config.OpenAI.Model != flags.OpenAIModel {
		t.Errorf("Unexpected OpenAI config %+v", config.OpenAI)
	}
	if config.Gemini.APIKey != "gm-test" || config.Gemini.Voice != "Kore" {
		t.Errorf("Unexpected Gemini config %+v", config.Gemini)
	}
}

func TestSpeechConfigDefaultCacheDir(t *testing.T) {
	resetViper(t)

	config, err := SpeechConfig(cli.NewFlags())
	if err != nil {
		t.Fatalf("SpeechConfig() error = %v", err)
	}
	if config.CacheDir != cli.DefaultCacheDir() {
		t.Errorf("Expected %q, got %q", cli.DefaultCacheDir(), config.CacheDir)
	}
}

func TestAutoPlayAndCatalogPath(t *testing.T) {
	resetViper(t)

	flags := cli.NewFlags()
	if AutoPlay(flags) || CatalogPath(flags) != "" {
		t.Error("Expected defaults from flags")
	}

	viper.Set("playback.auto_play", true)
	viper.Set("catalog.path", "words.yaml")
	if !AutoPlay(flags) || CatalogPath(flags) != "words.yaml" {
		t.Error("Expected values from config")
	}
}
