package calendar_tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/larshagen/calchat/internal/calendar"
	"github.com/larshagen/calchat/internal/tools"
)

// Gateway is the calendar service boundary the tools dispatch to.
// *calendar.Client is the production implementation.
type Gateway interface {
	UpcomingEvents(ctx context.Context, max int) ([]calendar.EventSummary, error)
	EventsBetween(ctx context.Context, timeMin, timeMax time.Time) ([]calendar.EventSummary, error)
	CreateEvent(ctx context.Context, input calendar.EventInput) (*calendar.EventSummary, error)
	DeleteEvent(ctx context.Context, eventID string) error
	Timezone(ctx context.Context) (string, error)
}

// Options configures the registered tools.
type Options struct {
	// Location is the user's time zone for interpreting wall-clock input.
	// Defaults to UTC.
	Location *time.Location

	// Clock supplies the current time; overridable for tests.
	Clock func() time.Time

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Register adds all calendar tools to the registry.
func Register(reg *tools.Registry, gw Gateway, opts Options) error {
	opts = opts.withDefaults()

	for _, tool := range []tools.Tool{
		&listEventsTool{gw: gw, opts: opts},
		&checkAvailabilityTool{gw: gw, opts: opts},
		&getCurrentDateTool{opts: opts},
		&createEventTool{gw: gw, opts: opts},
		&deleteEventByRangeTool{gw: gw, opts: opts},
	} {
		if err := reg.Register(tool); err != nil {
			return fmt.Errorf("failed to register calendar tools: %w", err)
		}
	}
	return nil
}

// gatewayError classifies a gateway failure as retryable or terminal.
func gatewayError(err error, format string, args ...any) error {
	return tools.NewGatewayError(err, calendar.IsRetryable(err), format, args...)
}
