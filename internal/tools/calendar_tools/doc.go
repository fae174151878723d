// Package calendar_tools implements the calendar capability surface exposed
// to the model: listing upcoming events, checking availability, resolving
// the current date, creating events, and deleting events by time range.
//
// Every tool talks to the calendar through the Gateway interface, so tests
// run against stubs and never touch the Google API. Side effects are
// confined to gateway calls; no tool mutates conversation state.
package calendar_tools
