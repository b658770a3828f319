package cli

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoadCredentials(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name       string
		envOpenAI  string
		envGemini  string
		cfgOpenAI  string
		cfgGemini  string
		wantOpenAI string
		wantGemini string
	}{
		{
			name:       "from environment",
			envOpenAI:  "env-openai",
			envGemini:  "env-gemini",
			cfgOpenAI:  "cfg-openai",
			cfgGemini:  "cfg-gemini",
			wantOpenAI: "env-openai",
			wantGemini: "env-gemini",
		},
		{
			name:       "from config when no env",
			cfgOpenAI:  "cfg-openai",
			cfgGemini:  "cfg-gemini",
			wantOpenAI: "cfg-openai",
			wantGemini: "cfg-gemini",
		},
		{
			name:       "mixed sources",
			envGemini:  "env-gemini",
			cfgOpenAI:  "cfg-openai",
			wantOpenAI: "cfg-openai",
			wantGemini: "env-gemini",
		},
		{
			name: "empty when neither set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()

			t.Setenv("OPENAI_API_KEY", tt.envOpenAI)
			t.Setenv("GEMINI_API_KEY", tt.envGemini)
			if tt.cfgOpenAI != "" {
				viper.Set("speech.openai_key", tt.cfgOpenAI)
			}
			if tt.cfgGemini != "" {
				viper.Set("speech.gemini_key", tt.cfgGemini)
			}

			creds, err := LoadCredentials()
			if err != nil {
				t.Fatalf("LoadCredentials() error = %v", err)
			}
			if creds.OpenAIKey != tt.wantOpenAI {
				t.Errorf("OpenAIKey = %q, want %q", creds.OpenAIKey, tt.wantOpenAI)
			}
			if creds.GeminiKey != tt.wantGemini {
				t.Errorf("GeminiKey = %q, want %q", creds.GeminiKey, tt.wantGemini)
			}
			if got := GetOpenAIKey(); got != tt.wantOpenAI {
				t.Errorf("GetOpenAIKey() = %q, want %q", got, tt.wantOpenAI)
			}
		})
	}
}
