package tooling

import (
	"encoding/json"
	"errors"
	"fmt"

	invopopSchema "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// marshalFunc is the JSON marshaler used by SchemaFor. Package-level so tests
// can inject a failing marshaler.
var marshalFunc = json.Marshal

// unmarshalFunc is used when decoding arguments into typed inputs.
var unmarshalFunc = json.Unmarshal

// SchemaFor reflects the JSON Schema of input, an instance of a tool's input
// struct. Fields without omitempty are required; descriptions come from
// jsonschema_description tags. It returns nil if the schema cannot be encoded,
// which NewRegistry rejects.
func SchemaFor(input any) json.RawMessage {
	reflector := invopopSchema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
		Anonymous:                 true,
	}
	schema := reflector.Reflect(input)

	b, err := marshalFunc(schema)
	if err != nil {
		return nil
	}
	return b
}

// CompileSchema checks that raw is a valid JSON Schema describing an object and
// returns the compiled form.
func CompileSchema(raw json.RawMessage) (*jsonschema.Schema, error) {
	if len(raw) == 0 {
		return nil, errors.New("schema is empty")
	}
	var top struct {
		Type any `json:"type"`
	}
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	if t, _ := top.Type.(string); t != "object" {
		return nil, fmt.Errorf("schema type must be \"object\", got %v", top.Type)
	}
	schema, err := jsonschema.CompileString("", string(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return schema, nil
}

// ValidateArgs validates args against a compiled schema. Args are normalised
// through JSON first so numbers and nested values have their decoded types.
func ValidateArgs(schema *jsonschema.Schema, args Args) error {
	if args == nil {
		args = Args{}
	}
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("invalid JSON input: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("invalid JSON input: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// Decode converts args into the tool's typed input. Missing fields keep their
// zero value; type mismatches are reported as INVALID_INPUT.
func Decode[T any](tool string, args Args) (T, error) {
	var out T
	if args == nil {
		return out, nil
	}
	b, err := json.Marshal(args)
	if err != nil {
		return out, InvalidInput(tool, err)
	}
	if err := unmarshalFunc(b, &out); err != nil {
		return out, InvalidInput(tool, err)
	}
	return out, nil
}
