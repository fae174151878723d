// Package calendar is the gateway to the Google Calendar API.
//
// It wraps google.golang.org/api/calendar/v3 behind the small set of
// operations the assistant's tools need: listing upcoming events, querying a
// time range, creating and deleting events, and resolving the calendar's
// configured time zone.
//
// The gateway is treated as a remote, possibly slow, possibly failing
// resource: every call takes a context for bounded timeouts, and failures
// can be classified retryable or terminal via IsRetryable.
package calendar
