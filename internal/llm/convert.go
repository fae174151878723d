package llm

import (
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"

	"github.com/larshagen/calchat/internal/conversation"
	"github.com/larshagen/calchat/internal/tools"
)

// toChatMessages renders the system prompt and history in the OpenAI wire
// format. Tool results keep their call IDs so the provider can correlate
// them with the assistant turn that requested them.
func toChatMessages(systemPrompt string, messages []conversation.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if systemPrompt != "" {
		out = append(out, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}

	for _, msg := range messages {
		switch msg.Role {
		case conversation.RoleUser:
			out = append(out, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: msg.Content,
			})
		case conversation.RoleAssistant:
			out = append(out, openai.ChatCompletionMessage{
				Role:      openai.ChatMessageRoleAssistant,
				Content:   msg.Content,
				ToolCalls: toWireToolCalls(msg.ToolCalls),
			})
		case conversation.RoleTool:
			if msg.Result == nil {
				continue
			}
			content := msg.Result.Content
			if msg.Result.IsError {
				content = "Error: " + content
			}
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    content,
				ToolCallID: msg.Result.CallID,
			})
		case conversation.RoleSystem:
			out = append(out, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleSystem,
				Content: msg.Content,
			})
		}
	}
	return out
}

func toWireToolCalls(calls []conversation.ToolCall) []openai.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]openai.ToolCall, 0, len(calls))
	for _, call := range calls {
		out = append(out, openai.ToolCall{
			ID:   call.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      call.Name,
				Arguments: string(call.Arguments),
			},
		})
	}
	return out
}

// toChatTools advertises the registry's definitions as callable functions.
func toChatTools(defs []tools.Definition) []openai.Tool {
	if len(defs) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(defs))
	for _, def := range defs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}
	return out
}

// fromChatMessage lifts the provider reply back into the conversation model.
// Tool call order is preserved exactly as declared by the model.
func fromChatMessage(msg openai.ChatCompletionMessage) *Completion {
	completion := &Completion{Content: msg.Content}
	for _, call := range msg.ToolCalls {
		completion.ToolCalls = append(completion.ToolCalls, conversation.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: json.RawMessage(call.Function.Arguments),
		})
	}
	return completion
}
