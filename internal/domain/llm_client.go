package domain

import "context"

// Message is a single chat message sent to the LLM.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMResponse carries the LLM output and whether the generation finished.
type LLMResponse struct {
	Text string
	Done bool
}

// LLMClient defines the capability to send chat messages to an LLM and
// receive a textual response.
type LLMClient interface {
	Generate(ctx context.Context, messages []Message, maxTokens int) (*LLMResponse, error)
	Version() string
}
