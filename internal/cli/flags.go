package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile  string
	Verbose  bool
	Catalog  string
	Group    int
	Rate     string
	Mode     string
	AutoPlay bool
	LineMode bool
	NoColor  bool

	// Pacing flags
	WordGap      time.Duration
	ReviseGap    time.Duration
	EntryGap     time.Duration
	PollInterval time.Duration

	// Speech flags
	Engine   string
	Sink     string
	Voice    string
	CacheDir string

	// OpenAI flags
	OpenAIModel       string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIInstruction string

	// Gemini flags
	GeminiModel string
	GeminiVoice string

	// Import flags
	DBFile      string
	Enrich      bool
	EnrichModel string

	// Export flags
	MediaDir    string
	ExportAudio bool

	// Cache flags
	ClearCache bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Group:             -1,
		Rate:              "medium",
		Mode:              "normal",
		WordGap:           200 * time.Millisecond,
		ReviseGap:         1500 * time.Millisecond,
		EntryGap:          1200 * time.Millisecond,
		PollInterval:      100 * time.Millisecond,
		Engine:            "auto",
		Sink:              "exec",
		Voice:             "en",
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "alloy",
		OpenAISpeed:       1.0,
		OpenAIInstruction: "Speak clearly and at an even pace for someone learning vocabulary.",
		GeminiModel:       "gemini-2.5-flash-preview-tts",
		GeminiVoice:       "Kore",
		DBFile:            "wordwalk.db",
		EnrichModel:       "gpt-4o-mini",
		MediaDir:          "anki_media",
	}
}
