package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/larshagen/calchat/internal/timeparse"
	"github.com/larshagen/calchat/internal/tools"
)

const (
	freeMessage       = "You are free during this time."
	busyMessagePrefix = "You are busy during this time. Here are your events:"
)

// checkAvailabilityTool checks whether the user is free in a one-hour window.
type checkAvailabilityTool struct {
	gw   Gateway
	opts Options
}

func (t *checkAvailabilityTool) Name() string { return "check_availability" }

func (t *checkAvailabilityTool) Description() string {
	return "Check whether the user is free at a given date and time. The check covers a one-hour window starting at the given time."
}

func (t *checkAvailabilityTool) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"date": {
				Type:        jsonschema.String,
				Description: "The date to check, e.g. 'June 30, 2025'.",
			},
			"time": {
				Type:        jsonschema.String,
				Description: "The time to check, e.g. '2:00 PM'.",
			},
		},
		Required: []string{"date", "time"},
	}
}

func (t *checkAvailabilityTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	dateArg := tools.StringArg(args, "date")
	timeArg := tools.StringArg(args, "time")

	target, err := timeparse.ParseDateTime(dateArg, timeArg, t.opts.Location)
	if err != nil {
		// The model may pass a relative expression ("tomorrow") despite the
		// schema's example; resolve it against the tool's clock before
		// giving up.
		resolved, relErr := timeparse.ResolveRelative(
			dateArg+" at "+timeArg, t.opts.Clock().In(t.opts.Location))
		if relErr != nil {
			return "", tools.NewParseError(
				"could not understand the date or time: %v; please phrase it like date 'June 30, 2025' and time '2:00 PM'", err)
		}
		target = resolved
	}

	windowEnd := target.Add(time.Hour)
	events, err := t.gw.EventsBetween(ctx, target, windowEnd)
	if err != nil {
		return "", gatewayError(err, "availability could not be checked")
	}

	var overlapping []string
	for _, event := range events {
		if event.Start.Before(windowEnd) && event.End.After(target) {
			overlapping = append(overlapping, fmt.Sprintf("- %s from %s to %s",
				event.Title,
				timeparse.Human(event.Start.In(t.opts.Location)),
				timeparse.Human(event.End.In(t.opts.Location))))
		}
	}

	if len(overlapping) == 0 {
		return freeMessage, nil
	}
	return busyMessagePrefix + "\n" + strings.Join(overlapping, "\n"), nil
}

// getCurrentDateTool reports the current date. It is the anchor for all
// relative date resolution: the model must call it before computing
// "tomorrow" or "next Friday", never guess.
type getCurrentDateTool struct {
	opts Options
}

func (t *getCurrentDateTool) Name() string { return "get_current_date" }

func (t *getCurrentDateTool) Description() string {
	return "Get the current date in a human-readable form. Always call this before resolving relative dates such as 'tomorrow' or 'next Friday'."
}

func (t *getCurrentDateTool) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type:       jsonschema.Object,
		Properties: map[string]jsonschema.Definition{},
	}
}

func (t *getCurrentDateTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	return t.opts.Clock().In(t.opts.Location).Format(timeparse.DateLayout), nil
}
