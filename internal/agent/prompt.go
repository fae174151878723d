package agent

import (
	"fmt"
	"os"
)

// DefaultSystemPrompt is the instruction set for the assistant. It pins the
// behaviors the tools depend on, in particular that relative dates are only
// resolved after anchoring on get_current_date.
const DefaultSystemPrompt = `You are a helpful assistant that manages the user's Google Calendar.

You can list upcoming events, check availability, create events, and delete events within a time range, using the tools provided.

Rules:
- Never guess today's date. Before interpreting any relative date such as "tomorrow", "next Friday", or "in two weeks", call get_current_date and compute the absolute date from its result.
- Pass absolute ISO 8601 timestamps to create_event and delete_event_by_range.
- When a tool reports an error, read the message, correct your arguments, and try again if the correction is clear. Otherwise explain the problem to the user.
- Before deleting events, state which time range will be affected.
- Keep answers short and conversational. Present event times in a human-readable form.`

// LoadSystemPrompt returns the prompt from path, or DefaultSystemPrompt when
// path is empty.
func LoadSystemPrompt(path string) (string, error) {
	if path == "" {
		return DefaultSystemPrompt, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read system prompt file: %w", err)
	}
	return string(data), nil
}
