package calendar_tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/larshagen/calchat/internal/calendar"
	"github.com/larshagen/calchat/internal/logging"
	"github.com/larshagen/calchat/internal/timeparse"
	"github.com/larshagen/calchat/internal/tools"
)

const defaultListCount = 5

// listEventsTool fetches upcoming events from the user's calendar.
type listEventsTool struct {
	gw   Gateway
	opts Options
}

func (t *listEventsTool) Name() string { return "list_events" }

func (t *listEventsTool) Description() string {
	return "List the next upcoming events from the user's calendar, earliest first."
}

func (t *listEventsTool) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"count": {
				Type:        jsonschema.Integer,
				Description: "Maximum number of future events to return. Default is 5.",
			},
		},
	}
}

func (t *listEventsTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	count := tools.IntArg(args, "count", defaultListCount)
	if count <= 0 {
		return "", tools.NewValidationError("count must be a positive integer, e.g. 5")
	}

	events, err := t.gw.UpcomingEvents(ctx, count)
	if err != nil {
		// Degrade gracefully: an empty listing with a logged cause, not a
		// failed turn.
		logging.WithTool(t.opts.Logger, t.Name()).Warn("event listing failed",
			logging.Status(logging.StatusError), logging.Err(err))
		return "No upcoming events could be retrieved.", nil
	}

	now := t.opts.Clock()
	upcoming := events[:0:0]
	for _, event := range events {
		if event.Start.After(now) {
			upcoming = append(upcoming, event)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Start.Before(upcoming[j].Start) })
	if len(upcoming) > count {
		upcoming = upcoming[:count]
	}

	if len(upcoming) == 0 {
		return "No upcoming events found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Upcoming events (%d):\n", len(upcoming))
	for i, event := range upcoming {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, event.Title, timeparse.Human(event.Start.In(t.opts.Location)))
	}
	return b.String(), nil
}

// createEventTool creates a new event in the user's calendar.
type createEventTool struct {
	gw   Gateway
	opts Options
}

func (t *createEventTool) Name() string { return "create_event" }

func (t *createEventTool) Description() string {
	return "Create a new calendar event. Start and end must be absolute ISO 8601 timestamps; relative dates must be resolved with get_current_date first."
}

func (t *createEventTool) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"title": {
				Type:        jsonschema.String,
				Description: "Title of the event.",
			},
			"start": {
				Type:        jsonschema.String,
				Description: "Event start time in ISO 8601 format, e.g. '2025-06-30T14:00:00Z'.",
			},
			"end": {
				Type:        jsonschema.String,
				Description: "Event end time in ISO 8601 format. Optional; defaults to one hour after start.",
			},
			"location": {
				Type:        jsonschema.String,
				Description: "Optional event location.",
			},
			"description": {
				Type:        jsonschema.String,
				Description: "Optional event description.",
			},
		},
		Required: []string{"title", "start"},
	}
}

func (t *createEventTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	title := tools.StringArg(args, "title")

	start, err := timeparse.ParseTimestamp(tools.StringArg(args, "start"), t.opts.Location)
	if err != nil {
		return "", tools.NewParseError("could not parse the start time: %v", err)
	}

	end := start.Add(time.Hour)
	if endStr := tools.StringArg(args, "end"); endStr != "" {
		end, err = timeparse.ParseTimestamp(endStr, t.opts.Location)
		if err != nil {
			return "", tools.NewParseError("could not parse the end time: %v", err)
		}
	}

	// Ordering is checked before anything reaches the gateway.
	if !start.Before(end) {
		return "", tools.NewValidationError(
			"the event's start time (%s) must precede its end time (%s)",
			timeparse.Human(start.In(t.opts.Location)), timeparse.Human(end.In(t.opts.Location)))
	}

	timeZone, err := t.gw.Timezone(ctx)
	if err != nil {
		logging.WithTool(t.opts.Logger, t.Name()).Warn("timezone lookup failed, using UTC",
			logging.Err(err))
		timeZone = "UTC"
	}

	created, err := t.gw.CreateEvent(ctx, calendar.EventInput{
		Title:       title,
		Description: tools.StringArg(args, "description"),
		Location:    tools.StringArg(args, "location"),
		Start:       start,
		End:         end,
		TimeZone:    timeZone,
	})
	if err != nil {
		return "", gatewayError(err, "the event could not be created")
	}

	if created.HTMLLink != "" {
		return fmt.Sprintf("Event created: %s", created.HTMLLink), nil
	}
	return "Event created successfully.", nil
}

// deleteEventByRangeTool deletes all events within a time range.
type deleteEventByRangeTool struct {
	gw   Gateway
	opts Options
}

func (t *deleteEventByRangeTool) Name() string { return "delete_event_by_range" }

func (t *deleteEventByRangeTool) Description() string {
	return "Delete all events starting within a time range. Both bounds are required, in ISO 8601 format."
}

func (t *deleteEventByRangeTool) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"start": {
				Type:        jsonschema.String,
				Description: "Range start in ISO 8601 format, e.g. '2025-06-30T00:00:00Z'.",
			},
			"end": {
				Type:        jsonschema.String,
				Description: "Range end in ISO 8601 format (exclusive).",
			},
		},
		Required: []string{"start", "end"},
	}
}

func (t *deleteEventByRangeTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	start, err := timeparse.ParseTimestamp(tools.StringArg(args, "start"), t.opts.Location)
	if err != nil {
		return "", tools.NewParseError("could not parse the range start: %v", err)
	}
	end, err := timeparse.ParseTimestamp(tools.StringArg(args, "end"), t.opts.Location)
	if err != nil {
		return "", tools.NewParseError("could not parse the range end: %v", err)
	}
	if !start.Before(end) {
		return "", tools.NewValidationError(
			"the range start (%s) must precede the range end (%s)",
			timeparse.Human(start.In(t.opts.Location)), timeparse.Human(end.In(t.opts.Location)))
	}

	events, err := t.gw.EventsBetween(ctx, start, end)
	if err != nil {
		return "", gatewayError(err, "events in the range could not be listed")
	}

	// Only events starting inside [start, end) are deleted; an event that
	// merely overlaps the range is left alone.
	var matching []calendar.EventSummary
	for _, event := range events {
		if !event.Start.Before(start) && event.Start.Before(end) {
			matching = append(matching, event)
		}
	}

	if len(matching) == 0 {
		return "No events found in the given time range.", nil
	}

	// A failed deletion does not abort the rest: remaining events are still
	// deleted and the partial count is reported.
	deleted := 0
	var failures []string
	for _, event := range matching {
		if err := t.gw.DeleteEvent(ctx, event.ID); err != nil {
			logging.WithTool(t.opts.Logger, t.Name()).Warn("event deletion failed",
				logging.Err(err), "event_id", event.ID)
			failures = append(failures, event.Title)
			continue
		}
		deleted++
	}

	if len(failures) > 0 {
		return fmt.Sprintf("Deleted %d of %d events. Could not delete: %s.",
			deleted, len(matching), strings.Join(failures, ", ")), nil
	}
	return fmt.Sprintf("Deleted %d event(s).", deleted), nil
}
