// Package conversation holds the message history for one chat session.
//
// A History is owned by exactly one session, is append-only, and is never
// reordered or truncated. Tool results are correlated to the assistant
// message that requested them via call IDs.
package conversation

import "encoding/json"

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a request from the model to invoke one registered tool.
type ToolCall struct {
	// ID is unique within the assistant turn that produced the call.
	ID string `json:"id"`
	// Name must match a registered tool.
	Name string `json:"name"`
	// Arguments is the raw JSON argument object, validated against the
	// tool's schema before dispatch.
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult is the outcome of executing one ToolCall. It is immutable once
// appended to the history.
type ToolResult struct {
	CallID  string `json:"call_id"`
	Content string `json:"content"`
	IsError bool   `json:"is_error"`
}

// Message is one turn in the conversation. Content may be empty when the
// message is purely a tool invocation.
type Message struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// Result is set for RoleTool messages only.
	Result *ToolResult `json:"result,omitempty"`
}

// UserMessage builds a user turn.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// AssistantMessage builds an assistant turn.
func AssistantMessage(text string, calls []ToolCall) Message {
	return Message{Role: RoleAssistant, Content: text, ToolCalls: calls}
}

// ToolMessage builds a tool-result turn.
func ToolMessage(result ToolResult) Message {
	return Message{Role: RoleTool, Result: &result}
}
