package conversation

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// History is the ordered message sequence for one session. It is safe for
// concurrent use, though a session processes one turn at a time.
type History struct {
	id string

	mu       sync.RWMutex
	messages []Message
}

// NewHistory creates an empty history with a fresh session ID.
func NewHistory() *History {
	return &History{id: uuid.NewString()}
}

// ID returns the session identifier.
func (h *History) ID() string {
	return h.id
}

// Append adds messages to the end of the history. Tool messages must carry a
// result whose call ID was declared by a preceding assistant message;
// violations indicate an orchestrator bug and are rejected.
func (h *History) Append(msgs ...Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, msg := range msgs {
		if msg.Role == RoleTool {
			if msg.Result == nil {
				return fmt.Errorf("tool message without result")
			}
			if !h.hasCallLocked(msg.Result.CallID) {
				return fmt.Errorf("tool result %s has no matching tool call", msg.Result.CallID)
			}
		}
		h.messages = append(h.messages, msg)
	}
	return nil
}

// Messages returns a snapshot of the history in order.
func (h *History) Messages() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Message(nil), h.messages...)
}

// Len returns the number of messages.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// Last returns the most recent message, or false when the history is empty.
func (h *History) Last() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}

func (h *History) hasCallLocked(callID string) bool {
	for i := len(h.messages) - 1; i >= 0; i-- {
		msg := h.messages[i]
		if msg.Role != RoleAssistant {
			continue
		}
		for _, call := range msg.ToolCalls {
			if call.ID == callID {
				return true
			}
		}
	}
	return false
}
