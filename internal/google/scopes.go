package google

import (
	"sync"

	calendar "google.golang.org/api/calendar/v3"
)

// DefaultOAuthScopes are the Google OAuth scopes requested by default.
// Full calendar access covers event reads, writes and the settings endpoint
// used to resolve the calendar's configured time zone.
var DefaultOAuthScopes = []string{
	calendar.CalendarScope,
}

var (
	scopesMu sync.RWMutex
	scopes   = DefaultOAuthScopes
)

// SetScopes overrides the OAuth scope list for subsequent token operations.
// An empty list restores the defaults.
func SetScopes(s []string) {
	scopesMu.Lock()
	defer scopesMu.Unlock()
	if len(s) == 0 {
		scopes = DefaultOAuthScopes
		return
	}
	scopes = append([]string(nil), s...)
}

// Scopes returns the currently configured OAuth scope list.
func Scopes() []string {
	scopesMu.RLock()
	defer scopesMu.RUnlock()
	return append([]string(nil), scopes...)
}
