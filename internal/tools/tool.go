package tools

import (
	"context"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// Tool is a named, schema-validated operation the model may request.
// Implementations confine their side effects to calendar gateway calls and
// return a textual result for the model.
type Tool interface {
	Name() string
	Description() string
	// Parameters describes the tool's input object schema.
	Parameters() jsonschema.Definition
	// Execute runs the tool with already-validated arguments. A returned
	// *Error carries the failure classification; any other error is treated
	// as a terminal gateway failure.
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// Definition is the name/description/schema triple advertised to the model.
type Definition struct {
	Name        string
	Description string
	Parameters  jsonschema.Definition
}
