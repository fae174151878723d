package calendar

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/larshagen/calchat/internal/google"
	"github.com/larshagen/calchat/internal/instrumentation"
)

// Client wraps the Google Calendar service for a single calendar.
type Client struct {
	svc        *calendar.Service
	account    string
	calendarID string
	metrics    *instrumentation.Metrics
}

// NewClient creates a Calendar client for the given account and calendar,
// authenticating with the provided token provider.
func NewClient(ctx context.Context, account, calendarID string, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	conf := google.GetOAuthConfig()
	tokenSource := conf.TokenSource(ctx, token)
	httpClient := oauth2.NewClient(ctx, tokenSource)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := httpClient.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:        svc,
		account:    account,
		calendarID: calendarID,
	}, nil
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// SetMetrics attaches a metrics recorder for API operation instrumentation.
// A nil recorder disables recording.
func (c *Client) SetMetrics(m *instrumentation.Metrics) {
	c.metrics = m
}

// record reports one API operation on the attached metrics recorder.
func (c *Client) record(ctx context.Context, operation string, err error, start time.Time) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	c.metrics.RecordCalendarOperation(ctx, operation, status, time.Since(start))
}

// UpcomingEvents lists up to max future events, earliest first.
func (c *Client) UpcomingEvents(ctx context.Context, max int) ([]EventSummary, error) {
	start := time.Now()
	events, err := c.svc.Events.List(c.calendarID).
		Context(ctx).
		TimeMin(time.Now().UTC().Format(time.RFC3339)).
		MaxResults(int64(max)).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	c.record(ctx, "events_list", err, start)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var summaries []EventSummary
	for _, event := range events.Items {
		summaries = append(summaries, toEventSummary(event))
	}
	return summaries, nil
}

// EventsBetween lists events overlapping [timeMin, timeMax), earliest first.
func (c *Client) EventsBetween(ctx context.Context, timeMin, timeMax time.Time) ([]EventSummary, error) {
	start := time.Now()
	events, err := c.svc.Events.List(c.calendarID).
		Context(ctx).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	c.record(ctx, "events_list", err, start)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var summaries []EventSummary
	for _, event := range events.Items {
		summaries = append(summaries, toEventSummary(event))
	}
	return summaries, nil
}

// CreateEvent creates a new calendar event.
func (c *Client) CreateEvent(ctx context.Context, input EventInput) (*EventSummary, error) {
	if input.TimeZone == "" {
		input.TimeZone = "UTC"
	}

	event := &calendar.Event{
		Summary:     input.Title,
		Description: input.Description,
		Location:    input.Location,
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: input.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: input.TimeZone,
		},
	}

	start := time.Now()
	created, err := c.svc.Events.Insert(c.calendarID, event).Context(ctx).Do()
	c.record(ctx, "events_insert", err, start)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	summary := toEventSummary(created)
	return &summary, nil
}

// DeleteEvent deletes a calendar event by ID.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	start := time.Now()
	err := c.svc.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	c.record(ctx, "events_delete", err, start)
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	return nil
}

// Timezone resolves the calendar's configured time zone, falling back to
// UTC when the setting is absent.
func (c *Client) Timezone(ctx context.Context) (string, error) {
	start := time.Now()
	setting, err := c.svc.Settings.Get("timezone").Context(ctx).Do()
	c.record(ctx, "settings_get", err, start)
	if err != nil {
		return "", fmt.Errorf("failed to get calendar timezone: %w", err)
	}
	if setting.Value == "" {
		return "UTC", nil
	}
	return setting.Value, nil
}

// IsRetryable classifies a gateway failure: rate limits, server errors and
// network timeouts are retryable; everything else (auth, not-found,
// malformed requests) is terminal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}
