// Package llm is the boundary to the chat-completion provider. It converts
// between the conversation model and the OpenAI wire format and hides
// transport concerns such as retries from the agent loop.
package llm

import (
	"context"

	"github.com/larshagen/calchat/internal/conversation"
	"github.com/larshagen/calchat/internal/tools"
)

// Request is one completion request: the full history so far plus the tool
// definitions the model may call.
type Request struct {
	SystemPrompt string
	Messages     []conversation.Message
	Tools        []tools.Definition
}

// Completion is the model's reply. ToolCalls is non-empty when the model
// wants tools executed before it can answer.
type Completion struct {
	Content   string
	ToolCalls []conversation.ToolCall
}

// Client produces completions. Implementations must be safe for concurrent
// use.
type Client interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}
