package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// Credentials holds API keys for the cloud speech engines
type Credentials struct {
	OpenAIKey string `env:"OPENAI_API_KEY"`
	GeminiKey string `env:"GEMINI_API_KEY"`
}

// LoadCredentials reads API keys from the environment, falling back to the
// config file
func LoadCredentials() (Credentials, error) {
	var creds Credentials
	if err := env.Parse(&creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to read credentials: %w", err)
	}

	if creds.OpenAIKey == "" {
		creds.OpenAIKey = viper.GetString("speech.openai_key")
	}
	if creds.GeminiKey == "" {
		creds.GeminiKey = viper.GetString("speech.gemini_key")
	}
	return creds, nil
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	creds, err := LoadCredentials()
	if err != nil {
		return viper.GetString("speech.openai_key")
	}
	return creds.OpenAIKey
}
