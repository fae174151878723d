// Package tools declares the capability surface the model may use.
//
// Each tool is a named operation with a strict input schema and a textual
// result. The registry is a tagged dispatch table: the model selects a tool
// by name at runtime, arguments are validated against the tool's schema at
// the boundary, and unknown names or malformed arguments become error
// results fed back to the model rather than crashes.
package tools
