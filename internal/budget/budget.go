// Package budget estimates prompt sizes and trims prompt bodies so a request
// stays inside a model's context window.
package budget

import (
	"math"
	"strings"
	"unicode/utf8"
)

// EstimateTokensFromChars converts a character count into an estimated token
// count using a conservative heuristic (~4 chars per token in English). The
// result is always at least 1 when chars > 0.
func EstimateTokensFromChars(charCount int) int {
	if charCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(charCount) / 4.0))
}

// EstimateTokens returns the estimated token count of a string.
func EstimateTokens(s string) int {
	return EstimateTokensFromChars(len(s))
}

// EstimatePromptTokens estimates the total tokens for a system message plus
// one or more user message parts.
func EstimatePromptTokens(system string, parts ...string) int {
	total := EstimateTokens(system)
	for _, p := range parts {
		total += EstimateTokens(p)
	}
	return total
}

// ModelContextTokens returns an estimated maximum context window for a given
// model name. Unknown models fall back to a sensible default.
func ModelContextTokens(modelName string) int {
	name := strings.ToLower(strings.TrimSpace(modelName))
	name = strings.TrimPrefix(name, "models/")
	if name == "" {
		return 8192
	}
	if v, ok := knownModelMax[name]; ok {
		return v
	}
	switch {
	case strings.HasSuffix(name, "1m"):
		return 1_000_000
	case strings.HasSuffix(name, "512k"):
		return 512_000
	case strings.HasSuffix(name, "200k"):
		return 200_000
	case strings.HasSuffix(name, "128k"):
		return 128_000
	case strings.HasPrefix(name, "gemini-"):
		// Every current Gemini generation exposes at least a 1M window.
		return 1_000_000
	case strings.Contains(name, "-mini"):
		return 128_000
	}
	return 8192
}

// RemainingContext computes the remaining input token budget given a model,
// a reservation for output generation, and the estimated prompt tokens.
// The result is never negative.
func RemainingContext(modelName string, reservedForOutput int, promptTokens int) int {
	maxCtx := ModelContextTokens(modelName)
	if reservedForOutput < 0 {
		reservedForOutput = 0
	}
	remaining := maxCtx - reservedForOutput - promptTokens
	if remaining < 0 {
		return 0
	}
	return remaining
}

// HeadroomTokens returns the larger of 5% of the model context or 512 tokens,
// to absorb tokenizer and message framing overheads.
func HeadroomTokens(modelName string) int {
	max := ModelContextTokens(modelName)
	dyn := int(math.Ceil(float64(max) * 0.05))
	if dyn < 512 {
		return 512
	}
	return dyn
}

// RemainingContextWithHeadroom computes remaining tokens after accounting for
// output reservation and headroom for the given model.
func RemainingContextWithHeadroom(modelName string, reservedForOutput int, promptTokens int) int {
	return RemainingContext(modelName, reservedForOutput+HeadroomTokens(modelName), promptTokens)
}

// FitBody trims body so that system, fixed and body together fit the model
// context after reserving output tokens and headroom. The cut never splits a
// UTF-8 sequence and prefers the last whitespace before the limit. The second
// result reports whether anything was removed.
func FitBody(modelName string, reservedForOutput int, system, fixed, body string) (string, bool) {
	avail := RemainingContextWithHeadroom(modelName, reservedForOutput, EstimatePromptTokens(system, fixed))
	maxBytes := avail * 4
	if len(body) <= maxBytes {
		return body, false
	}
	if maxBytes <= 0 {
		return "", body != ""
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	if i := strings.LastIndexAny(body[:cut], " \n\t"); i > cut/2 {
		cut = i
	}
	return strings.TrimRight(body[:cut], " \n\t"), true
}

// knownModelMax contains rough context sizes for common model identifiers.
var knownModelMax = map[string]int{
	"gemini-pro":       32_768,
	"gemini-1.0-pro":   32_768,
	"gemini-1.5-flash": 1_000_000,
	"gemini-1.5-pro":   2_000_000,
	"gemini-2.0-flash": 1_000_000,
	"gemini-2.5-flash": 1_000_000,
	"gemini-2.5-pro":   1_000_000,

	"gpt-4o":        128_000,
	"gpt-4o-mini":   128_000,
	"gpt-4-turbo":   128_000,
	"gpt-3.5-turbo": 16_384,

	"llama-3":   8_192,
	"llama-3.1": 128_000,

	"gpt-oss-20b": 4_096,
}
