// Package llms abstracts the chat completion providers the oracle layer
// runs on. One implementation covers every OpenAI-compatible endpoint
// (OpenAI, Ollama, vLLM, LM Studio and friends).
package llms

import (
	"context"
	"fmt"
)

// Message roles on the chat wire.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single completion request.
type Request struct {
	Messages []Message

	// ForceJSON asks the provider for a JSON-object response when the
	// endpoint supports response_format.
	ForceJSON bool
}

// Response is a completed generation.
type Response struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Provider generates chat completions.
type Provider interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
	ModelName() string
}

// APIError is a structured error returned by a provider's API.
type APIError struct {
	StatusCode int
	Message    string
	Type       string
	Code       string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("API error (%s): %s", e.Type, e.Message)
	}
	return fmt.Sprintf("API error: %s", e.Message)
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}
