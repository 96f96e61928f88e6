// Package summarize sends a prepared prompt to a chat-completion backend and
// returns the generated text.
package summarize

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/oiltrends/internal/llm"
)

// DefaultSystemPrompt frames the model as a commodity market analyst.
const DefaultSystemPrompt = "You are a commodity market analyst. Base every statement on the provided text only. Do not invent figures, dates or sources. Keep the answer short and factual."

// Error is returned when the summarization backend fails or is misconfigured.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "summarization failed: " + e.Reason + ": " + e.Err.Error()
	}
	return "summarization failed: " + e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

// Summarizer issues exactly one chat-completion request per prompt.
type Summarizer struct {
	Client llm.Client
	Model  string
	// SystemPrompt, when non-empty, overrides DefaultSystemPrompt.
	SystemPrompt string
	Temperature  float32
	// MaxTokens caps the response length. Zero leaves it to the backend.
	MaxTokens int
}

// Summarize returns the trimmed content of the first choice. An empty but
// otherwise successful completion yields "" and no error.
func (s *Summarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	if s.Client == nil || strings.TrimSpace(s.Model) == "" {
		return "", &Error{Reason: "summarizer not configured"}
	}
	if strings.TrimSpace(prompt) == "" {
		return "", &Error{Reason: "empty prompt"}
	}
	system := DefaultSystemPrompt
	if strings.TrimSpace(s.SystemPrompt) != "" {
		system = s.SystemPrompt
	}
	req := openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
		N:           1,
	}
	zerolog.Ctx(ctx).Debug().Str("model", s.Model).Int("prompt_chars", len(prompt)).Msg("requesting summary")
	resp, err := s.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &Error{Reason: "completion request", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Reason: "no choices returned"}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// IsError reports whether err is or wraps a summarization Error.
func IsError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}
