package llm

import (
	"encoding/json"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larshagen/calchat/internal/conversation"
	"github.com/larshagen/calchat/internal/tools"
)

func TestToChatMessages(t *testing.T) {
	history := []conversation.Message{
		conversation.UserMessage("What's on my calendar tomorrow?"),
		conversation.AssistantMessage("", []conversation.ToolCall{
			{ID: "call_1", Name: "get_current_date", Arguments: json.RawMessage(`{}`)},
		}),
		conversation.ToolMessage(conversation.ToolResult{CallID: "call_1", Content: "June 27, 2025"}),
	}

	msgs := toChatMessages("You are a calendar assistant.", history)
	require.Len(t, msgs, 4)

	assert.Equal(t, openai.ChatMessageRoleSystem, msgs[0].Role)
	assert.Equal(t, "You are a calendar assistant.", msgs[0].Content)

	assert.Equal(t, openai.ChatMessageRoleUser, msgs[1].Role)

	assert.Equal(t, openai.ChatMessageRoleAssistant, msgs[2].Role)
	require.Len(t, msgs[2].ToolCalls, 1)
	assert.Equal(t, "call_1", msgs[2].ToolCalls[0].ID)
	assert.Equal(t, "get_current_date", msgs[2].ToolCalls[0].Function.Name)

	assert.Equal(t, openai.ChatMessageRoleTool, msgs[3].Role)
	assert.Equal(t, "call_1", msgs[3].ToolCallID)
	assert.Equal(t, "June 27, 2025", msgs[3].Content)
}

func TestToChatMessagesMarksErrors(t *testing.T) {
	history := []conversation.Message{
		conversation.ToolMessage(conversation.ToolResult{
			CallID:  "call_9",
			Content: "unknown tool \"send_email\"",
			IsError: true,
		}),
	}

	msgs := toChatMessages("", history)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Error: unknown tool \"send_email\"", msgs[0].Content)
}

func TestToChatMessagesOmitsEmptySystemPrompt(t *testing.T) {
	msgs := toChatMessages("", []conversation.Message{conversation.UserMessage("hi")})
	require.Len(t, msgs, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, msgs[0].Role)
}

func TestToChatTools(t *testing.T) {
	defs := []tools.Definition{
		{
			Name:        "list_events",
			Description: "List upcoming events.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"count": {Type: jsonschema.Integer},
				},
			},
		},
	}

	wire := toChatTools(defs)
	require.Len(t, wire, 1)
	assert.Equal(t, openai.ToolTypeFunction, wire[0].Type)
	assert.Equal(t, "list_events", wire[0].Function.Name)
}

func TestFromChatMessagePreservesCallOrder(t *testing.T) {
	reply := openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleAssistant,
		ToolCalls: []openai.ToolCall{
			{ID: "call_a", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "get_current_date", Arguments: "{}"}},
			{ID: "call_b", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "list_events", Arguments: `{"count":3}`}},
		},
	}

	completion := fromChatMessage(reply)
	require.Len(t, completion.ToolCalls, 2)
	assert.Equal(t, "call_a", completion.ToolCalls[0].ID)
	assert.Equal(t, "call_b", completion.ToolCalls[1].ID)
	assert.JSONEq(t, `{"count":3}`, string(completion.ToolCalls[1].Arguments))
}
