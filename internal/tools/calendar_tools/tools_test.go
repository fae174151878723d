package calendar_tools

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larshagen/calchat/internal/calendar"
	"github.com/larshagen/calchat/internal/tools"
)

// stubGateway is an in-memory Gateway for tests.
type stubGateway struct {
	events   []calendar.EventSummary
	timezone string

	listErr   error
	createErr error
	deleteErr map[string]error

	createCalls int
	deleteCalls []string
	created     []calendar.EventInput
}

func (g *stubGateway) UpcomingEvents(ctx context.Context, max int) ([]calendar.EventSummary, error) {
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.events, nil
}

func (g *stubGateway) EventsBetween(ctx context.Context, timeMin, timeMax time.Time) ([]calendar.EventSummary, error) {
	if g.listErr != nil {
		return nil, g.listErr
	}
	var out []calendar.EventSummary
	for _, event := range g.events {
		if event.Start.Before(timeMax) && event.End.After(timeMin) {
			out = append(out, event)
		}
	}
	return out, nil
}

func (g *stubGateway) CreateEvent(ctx context.Context, input calendar.EventInput) (*calendar.EventSummary, error) {
	g.createCalls++
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, input)
	return &calendar.EventSummary{
		ID:       "created-1",
		Title:    input.Title,
		Start:    input.Start,
		End:      input.End,
		HTMLLink: "https://calendar.google.com/event?eid=created-1",
	}, nil
}

func (g *stubGateway) DeleteEvent(ctx context.Context, eventID string) error {
	g.deleteCalls = append(g.deleteCalls, eventID)
	if err, ok := g.deleteErr[eventID]; ok {
		return err
	}
	return nil
}

func (g *stubGateway) Timezone(ctx context.Context) (string, error) {
	if g.timezone == "" {
		return "UTC", nil
	}
	return g.timezone, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func event(id, title string, start time.Time, dur time.Duration) calendar.EventSummary {
	return calendar.EventSummary{ID: id, Title: title, Start: start, End: start.Add(dur)}
}

func testOptions(now time.Time) Options {
	return Options{Location: time.UTC, Clock: fixedClock(now)}
}

func TestListEventsLimitsAndOrders(t *testing.T) {
	now := time.Date(2025, time.June, 28, 9, 0, 0, 0, time.UTC)
	gw := &stubGateway{}
	// Five future events, deliberately out of order.
	for i, offset := range []int{5, 1, 4, 2, 3} {
		gw.events = append(gw.events,
			event(fmt.Sprintf("ev%d", i), fmt.Sprintf("Event +%dd", offset), now.AddDate(0, 0, offset), time.Hour))
	}

	tool := &listEventsTool{gw: gw, opts: testOptions(now).withDefaults()}
	out, err := tool.Execute(context.Background(), map[string]any{"count": float64(3)})
	require.NoError(t, err)

	assert.Contains(t, out, "Upcoming events (3):")
	assert.Contains(t, out, "1. Event +1d")
	assert.Contains(t, out, "2. Event +2d")
	assert.Contains(t, out, "3. Event +3d")
	assert.NotContains(t, out, "Event +4d")
}

func TestListEventsSkipsPastEvents(t *testing.T) {
	now := time.Date(2025, time.June, 28, 9, 0, 0, 0, time.UTC)
	gw := &stubGateway{events: []calendar.EventSummary{
		event("past", "Yesterday", now.AddDate(0, 0, -1), time.Hour),
		event("future", "Tomorrow", now.AddDate(0, 0, 1), time.Hour),
	}}

	tool := &listEventsTool{gw: gw, opts: testOptions(now).withDefaults()}
	out, err := tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "Tomorrow")
	assert.NotContains(t, out, "Yesterday")
}

func TestListEventsDegradesOnGatewayFailure(t *testing.T) {
	now := time.Date(2025, time.June, 28, 9, 0, 0, 0, time.UTC)
	gw := &stubGateway{listErr: errors.New("calendar unavailable")}

	tool := &listEventsTool{gw: gw, opts: testOptions(now).withDefaults()}
	out, err := tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err, "gateway failure must not fail the tool")
	assert.Equal(t, "No upcoming events could be retrieved.", out)
}

func TestListEventsRejectsNonPositiveCount(t *testing.T) {
	now := time.Date(2025, time.June, 28, 9, 0, 0, 0, time.UTC)
	tool := &listEventsTool{gw: &stubGateway{}, opts: testOptions(now).withDefaults()}

	_, err := tool.Execute(context.Background(), map[string]any{"count": float64(0)})
	var te *tools.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, tools.KindValidation, te.Kind)
}

func TestCheckAvailabilityBusy(t *testing.T) {
	now := time.Date(2025, time.June, 28, 9, 0, 0, 0, time.UTC)
	gw := &stubGateway{events: []calendar.EventSummary{
		event("ev1", "Fireworks Planning", time.Date(2025, time.July, 4, 15, 30, 0, 0, time.UTC), time.Hour),
	}}

	tool := &checkAvailabilityTool{gw: gw, opts: testOptions(now).withDefaults()}
	out, err := tool.Execute(context.Background(), map[string]any{
		"date": "July 4, 2025",
		"time": "3:00 PM",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "You are busy during this time. Here are your events:")
	assert.Contains(t, out, "- Fireworks Planning from July 4, 2025, 3:30 PM to July 4, 2025, 4:30 PM")
}

func TestCheckAvailabilityFree(t *testing.T) {
	now := time.Date(2025, time.June, 28, 9, 0, 0, 0, time.UTC)
	tool := &checkAvailabilityTool{gw: &stubGateway{}, opts: testOptions(now).withDefaults()}

	out, err := tool.Execute(context.Background(), map[string]any{
		"date": "July 4, 2025",
		"time": "3:00 PM",
	})
	require.NoError(t, err)
	assert.Equal(t, "You are free during this time.", out)
}

func TestCheckAvailabilityParseError(t *testing.T) {
	now := time.Date(2025, time.June, 28, 9, 0, 0, 0, time.UTC)
	tool := &checkAvailabilityTool{gw: &stubGateway{}, opts: testOptions(now).withDefaults()}

	_, err := tool.Execute(context.Background(), map[string]any{
		"date": "someday",
		"time": "whenever",
	})
	var te *tools.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, tools.KindParse, te.Kind)
	assert.Contains(t, te.Message, "June 30, 2025", "parse errors must carry a corrective example")
}

func TestCheckAvailabilityResolvesRelativeDate(t *testing.T) {
	now := time.Date(2025, time.June, 28, 9, 0, 0, 0, time.UTC)
	gw := &stubGateway{events: []calendar.EventSummary{
		event("ev1", "Dentist", time.Date(2025, time.June, 29, 15, 30, 0, 0, time.UTC), time.Hour),
	}}

	tool := &checkAvailabilityTool{gw: gw, opts: testOptions(now).withDefaults()}
	out, err := tool.Execute(context.Background(), map[string]any{
		"date": "tomorrow",
		"time": "3:00 PM",
	})
	require.NoError(t, err, "relative dates must resolve against the tool's clock")
	assert.Contains(t, out, "You are busy during this time. Here are your events:")
	assert.Contains(t, out, "- Dentist from June 29, 2025, 3:30 PM to June 29, 2025, 4:30 PM")
}

func TestGetCurrentDate(t *testing.T) {
	now := time.Date(2025, time.June, 27, 14, 30, 0, 0, time.UTC)
	tool := &getCurrentDateTool{opts: testOptions(now).withDefaults()}

	out, err := tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "June 27, 2025", out)
}

func TestCreateEventRejectsEndBeforeStart(t *testing.T) {
	now := time.Date(2025, time.June, 28, 9, 0, 0, 0, time.UTC)
	gw := &stubGateway{}
	tool := &createEventTool{gw: gw, opts: testOptions(now).withDefaults()}

	_, err := tool.Execute(context.Background(), map[string]any{
		"title": "Backwards Meeting",
		"start": "2025-07-01T10:00:00",
		"end":   "2025-07-01T09:00:00",
	})
	var te *tools.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, tools.KindValidation, te.Kind)
	assert.Zero(t, gw.createCalls, "invalid events must never reach the gateway")
}

func TestCreateEventSuccess(t *testing.T) {
	now := time.Date(2025, time.June, 28, 9, 0, 0, 0, time.UTC)
	gw := &stubGateway{timezone: "Europe/Berlin"}
	tool := &createEventTool{gw: gw, opts: testOptions(now).withDefaults()}

	out, err := tool.Execute(context.Background(), map[string]any{
		"title":    "Dentist",
		"start":    "2025-07-01T09:00:00Z",
		"end":      "2025-07-01T10:00:00Z",
		"location": "123 Main St.",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Event created:")

	require.Len(t, gw.created, 1)
	assert.Equal(t, "Dentist", gw.created[0].Title)
	assert.Equal(t, "Europe/Berlin", gw.created[0].TimeZone)
	assert.Equal(t, "123 Main St.", gw.created[0].Location)
}

func TestCreateEventDefaultsEndToOneHour(t *testing.T) {
	now := time.Date(2025, time.June, 28, 9, 0, 0, 0, time.UTC)
	gw := &stubGateway{}
	tool := &createEventTool{gw: gw, opts: testOptions(now).withDefaults()}

	_, err := tool.Execute(context.Background(), map[string]any{
		"title": "Standup",
		"start": "2025-07-01T09:00:00Z",
	})
	require.NoError(t, err)
	require.Len(t, gw.created, 1)
	assert.Equal(t, time.Hour, gw.created[0].End.Sub(gw.created[0].Start))
}

func TestDeleteEventByRangeNoMatches(t *testing.T) {
	now := time.Date(2025, time.June, 28, 9, 0, 0, 0, time.UTC)
	gw := &stubGateway{}
	tool := &deleteEventByRangeTool{gw: gw, opts: testOptions(now).withDefaults()}

	out, err := tool.Execute(context.Background(), map[string]any{
		"start": "2025-07-01T00:00:00Z",
		"end":   "2025-07-02T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "No events found in the given time range.", out)
	assert.Empty(t, gw.deleteCalls, "no delete calls may be issued when nothing matches")
}

func TestDeleteEventByRangeDeletesMatching(t *testing.T) {
	now := time.Date(2025, time.June, 28, 9, 0, 0, 0, time.UTC)
	gw := &stubGateway{events: []calendar.EventSummary{
		event("in1", "Inside A", time.Date(2025, time.July, 1, 10, 0, 0, 0, time.UTC), time.Hour),
		event("in2", "Inside B", time.Date(2025, time.July, 1, 14, 0, 0, 0, time.UTC), time.Hour),
	}}
	tool := &deleteEventByRangeTool{gw: gw, opts: testOptions(now).withDefaults()}

	out, err := tool.Execute(context.Background(), map[string]any{
		"start": "2025-07-01T00:00:00Z",
		"end":   "2025-07-02T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "Deleted 2 event(s).", out)
	assert.ElementsMatch(t, []string{"in1", "in2"}, gw.deleteCalls)
}

func TestDeleteEventByRangeReportsPartialFailure(t *testing.T) {
	now := time.Date(2025, time.June, 28, 9, 0, 0, 0, time.UTC)
	gw := &stubGateway{
		events: []calendar.EventSummary{
			event("ok", "Deletable", time.Date(2025, time.July, 1, 10, 0, 0, 0, time.UTC), time.Hour),
			event("bad", "Stubborn", time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC), time.Hour),
		},
		deleteErr: map[string]error{"bad": errors.New("backend error")},
	}
	tool := &deleteEventByRangeTool{gw: gw, opts: testOptions(now).withDefaults()}

	out, err := tool.Execute(context.Background(), map[string]any{
		"start": "2025-07-01T00:00:00Z",
		"end":   "2025-07-02T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 1 of 2 events")
	assert.Contains(t, out, "Stubborn")
	assert.Len(t, gw.deleteCalls, 2, "a failed deletion must not abort the rest")
}

func TestDeleteEventByRangeRejectsInvertedRange(t *testing.T) {
	now := time.Date(2025, time.June, 28, 9, 0, 0, 0, time.UTC)
	gw := &stubGateway{}
	tool := &deleteEventByRangeTool{gw: gw, opts: testOptions(now).withDefaults()}

	_, err := tool.Execute(context.Background(), map[string]any{
		"start": "2025-07-02T00:00:00Z",
		"end":   "2025-07-01T00:00:00Z",
	})
	var te *tools.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, tools.KindValidation, te.Kind)
}

func TestRegisterRegistersAllTools(t *testing.T) {
	reg := tools.NewRegistry()
	require.NoError(t, Register(reg, &stubGateway{}, Options{}))

	defs := reg.Definitions()
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{
		"check_availability",
		"create_event",
		"delete_event_by_range",
		"get_current_date",
		"list_events",
	}, names)
}
