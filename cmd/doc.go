// Package cmd implements the command-line interface for calchat.
//
// This package provides the following commands:
//   - chat: Start an interactive calendar assistant session
//   - serve: Expose the calendar tools as an MCP server for AI assistants
//   - auth: Authenticate a Google account and store its OAuth token
//   - version: Display version information
//
// The chat command is the default command when no subcommand is specified.
package cmd
