package service

import "context"

// ChatMessage is one turn of a generative-model conversation. Role is
// "user" or "model".
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// TextGenerator produces text from a generative-language model.
type TextGenerator interface {
	// Generate produces a completion for a single prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Chat produces the next model turn for a conversation history.
	Chat(ctx context.Context, messages []ChatMessage) (string, error)
}
