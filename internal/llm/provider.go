package llm

import (
	"context"
)

// Provider is one chat completions endpoint
type Provider interface {
	// Name returns the endpoint name used in logs and errors
	Name() string

	// Complete sends a completion request and returns the full response
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Ping checks if the endpoint is reachable with the configured credential
	Ping(ctx context.Context) error
}

// CompletionRequest represents a request to the LLM. An empty Model, a zero
// MaxTokens and nil sampling values are filled from the provider's endpoint
// settings.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature *float64
	TopP        *float64
}

// Message represents a chat message
type Message struct {
	Role    string
	Content string
}

// CompletionResponse represents the full response
type CompletionResponse struct {
	Content      string
	Model        string
	FinishReason string
	Usage        Usage
}

// Usage tracks token usage
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// NewRequest creates a system + user completion request
func NewRequest(systemPrompt, userPrompt string) *CompletionRequest {
	return &CompletionRequest{
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
}
