package app

import (
	"time"

	"github.com/hyperifyio/oiltrends/internal/pipeline"
)

// Config holds runtime configuration for the application.
type Config struct {
	// LLM
	LLMBaseURL           string
	LLMModel             string
	LLMAPIKey            string
	SystemPrompt         string
	ReservedOutputTokens int

	// Fetching
	SSLVerify    bool
	UserAgent    string
	Timeout      time.Duration
	MaxRedirects int

	// Pipeline
	MaxPages     int
	PDFPageLimit int
	Keywords     []string
	Instruction  string
	PromptSource string

	Verbose bool
}

const (
	// DefaultLLMBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultLLMBaseURL           = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultLLMModel             = "gemini-2.0-flash"
	DefaultUserAgent            = "oiltrends/1.0 (+https://github.com/hyperifyio/oiltrends)"
	DefaultTimeout              = 30 * time.Second
	DefaultMaxRedirects         = 5
	DefaultMaxPages             = 3
	DefaultPDFPageLimit         = 2
	DefaultReservedOutputTokens = 2048
)

// DefaultKeywords are matched against link hrefs and texts by FindKeywordLinks.
var DefaultKeywords = []string{"Palm Oil", "PFAD", "Sunflower Oil", "Bio-diesel"}

// DefaultConfig returns the configuration used when no file, environment or
// flag sets a value.
func DefaultConfig() Config {
	return Config{
		LLMBaseURL:           DefaultLLMBaseURL,
		LLMModel:             DefaultLLMModel,
		ReservedOutputTokens: DefaultReservedOutputTokens,
		SSLVerify:            true,
		UserAgent:            DefaultUserAgent,
		Timeout:              DefaultTimeout,
		MaxRedirects:         DefaultMaxRedirects,
		MaxPages:             DefaultMaxPages,
		PDFPageLimit:         DefaultPDFPageLimit,
		Keywords:             append([]string(nil), DefaultKeywords...),
		Instruction:          pipeline.DefaultInstruction,
		PromptSource:         string(pipeline.PromptFull),
	}
}
