// Package google provides OAuth2 authentication and token management for the
// Google Calendar API.
//
// Tokens are stored on disk per account. The TokenProvider interface allows
// different token sources to be plugged in; the default implementation reads
// and refreshes tokens from the user cache directory.
//
// The OAuth scope list is deliberately configurable (SetScopes) rather than a
// fixed constant, so deployments can narrow access to read-only scopes.
package google
