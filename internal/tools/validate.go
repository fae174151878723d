package tools

import (
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// validateArgs checks an argument object against a tool's parameter schema:
// required properties must be present, unknown properties are rejected, and
// values must match the declared primitive types. Nested objects and arrays
// are not used by any registered tool and are accepted as-is.
func validateArgs(args map[string]any, schema jsonschema.Definition) error {
	for _, name := range schema.Required {
		if _, ok := args[name]; !ok {
			return fmt.Errorf("missing required argument %q", name)
		}
	}

	for name, value := range args {
		prop, ok := schema.Properties[name]
		if !ok {
			return fmt.Errorf("unexpected argument %q", name)
		}
		if err := checkType(value, prop.Type); err != nil {
			return fmt.Errorf("argument %q: %w", name, err)
		}
	}
	return nil
}

func checkType(value any, dt jsonschema.DataType) error {
	if value == nil {
		return fmt.Errorf("is null")
	}
	switch dt {
	case jsonschema.String:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
	case jsonschema.Integer:
		// JSON numbers decode as float64.
		f, ok := value.(float64)
		if !ok {
			return fmt.Errorf("expected integer, got %T", value)
		}
		if f != math.Trunc(f) {
			return fmt.Errorf("expected integer, got %v", f)
		}
	case jsonschema.Number:
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("expected number, got %T", value)
		}
	case jsonschema.Boolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
	}
	return nil
}

// IntArg reads an integer argument, returning def when absent.
func IntArg(args map[string]any, name string, def int) int {
	if v, ok := args[name].(float64); ok {
		return int(v)
	}
	return def
}

// StringArg reads a string argument, returning "" when absent.
func StringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}
