// Package instrumentation provides OpenTelemetry metrics for the assistant:
// completion requests, tool invocations, agent turns, and calendar API calls.
//
// Metrics are exported in Prometheus format. When instrumentation is
// disabled, all recorders are safe no-ops so call sites never need nil
// checks.
package instrumentation
