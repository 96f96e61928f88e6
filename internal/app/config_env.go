package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. It runs after the config file overlay and before flags, so env takes
// precedence over the file and flags over env.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLMBaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	// GOOGLE_API_KEY is only a fallback for LLM_API_KEY.
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.LLMAPIKey = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLMAPIKey = v
	}
	if v := os.Getenv("LLM_SYSTEM_PROMPT"); v != "" {
		cfg.SystemPrompt = v
	}
	if v := os.Getenv("USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("SUMMARY_INSTRUCTION"); v != "" {
		cfg.Instruction = v
	}
	if v := os.Getenv("PROMPT_SOURCE"); v != "" {
		cfg.PromptSource = v
	}
	if v := strings.TrimSpace(os.Getenv("KEYWORDS")); v != "" {
		cfg.Keywords = splitList(v)
	}

	setInt := func(dst *int, envKey string) {
		if s := strings.TrimSpace(os.Getenv(envKey)); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				*dst = n
			}
		}
	}
	setInt(&cfg.MaxPages, "MAX_PAGES")
	setInt(&cfg.PDFPageLimit, "PDF_PAGE_LIMIT")
	setInt(&cfg.MaxRedirects, "MAX_REDIRECTS")
	setInt(&cfg.ReservedOutputTokens, "RESERVED_OUTPUT_TOKENS")

	if s := os.Getenv("HTTP_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.Timeout = d
		}
	}

	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}
	setBool(&cfg.SSLVerify, "SSL_VERIFY")
	setBool(&cfg.Verbose, "VERBOSE")
}

// splitList splits a comma-separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
