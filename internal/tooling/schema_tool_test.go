package tooling

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

type sampleInput struct {
	Title        string   `json:"title" jsonschema_description:"Issue title"`
	RepositoryID string   `json:"repository_id" jsonschema_description:"Repository ID"`
	Labels       []string `json:"labels,omitempty"`
	Position     string   `json:"position,omitempty" jsonschema:"enum=START,enum=END"`
}

type emptyInput struct{}

func decodeSchema(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	return m
}

func TestSchemaFor_ShouldDescribeObjectWithRequiredFields(t *testing.T) {
	raw := SchemaFor(&sampleInput{})
	m := decodeSchema(t, raw)

	if m["type"] != "object" {
		t.Errorf("want object schema, got %v", m["type"])
	}
	if _, ok := m["$id"]; ok {
		t.Error("schema should be anonymous")
	}
	req, _ := m["required"].([]any)
	got := make([]string, 0, len(req))
	for _, r := range req {
		got = append(got, r.(string))
	}
	if strings.Join(got, ",") != "title,repository_id" {
		t.Errorf("want required title,repository_id, got %v", got)
	}
	props := m["properties"].(map[string]any)
	title := props["title"].(map[string]any)
	if title["description"] != "Issue title" {
		t.Errorf("description missing: %v", title)
	}
	pos := props["position"].(map[string]any)
	if enum, _ := pos["enum"].([]any); len(enum) != 2 {
		t.Errorf("want 2 enum values, got %v", pos["enum"])
	}
}

func TestSchemaFor_WhenNoFields_ShouldStillBeObject(t *testing.T) {
	raw := SchemaFor(&emptyInput{})
	if _, err := CompileSchema(raw); err != nil {
		t.Errorf("empty input schema should compile: %v (%s)", err, raw)
	}
}

func TestSchemaFor_WhenMarshalFails_ShouldReturnNil(t *testing.T) {
	orig := marshalFunc
	marshalFunc = func(any) ([]byte, error) { return nil, errors.New("boom") }
	defer func() { marshalFunc = orig }()

	if raw := SchemaFor(&sampleInput{}); raw != nil {
		t.Errorf("want nil schema, got %s", raw)
	}
}

func TestValidateArgs_ShouldNormaliseGoTypes(t *testing.T) {
	schema, err := CompileSchema(json.RawMessage(`{"type":"object","properties":{"n":{"type":"integer"},"ids":{"type":"array","items":{"type":"string"}}}}`))
	if err != nil {
		t.Fatalf("CompileSchema: %v", err)
	}
	if err := ValidateArgs(schema, Args{"n": 3, "ids": []string{"a", "b"}}); err != nil {
		t.Errorf("Go-typed args should validate: %v", err)
	}
	if err := ValidateArgs(schema, nil); err != nil {
		t.Errorf("nil args should validate as empty object: %v", err)
	}
}

func TestDecode_ShouldFillTypedInput(t *testing.T) {
	in, err := Decode[sampleInput]("t", Args{"title": "Bug", "repository_id": "R1", "labels": []any{"bug"}})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if in.Title != "Bug" || in.RepositoryID != "R1" || len(in.Labels) != 1 {
		t.Errorf("unexpected input %+v", in)
	}
}

func TestDecode_WhenMissingFields_ShouldLeaveZeroValues(t *testing.T) {
	in, err := Decode[sampleInput]("t", Args{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if in.Title != "" || in.Labels != nil {
		t.Errorf("expected zero values, got %+v", in)
	}
	if _, err := Decode[sampleInput]("t", nil); err != nil {
		t.Errorf("nil args: %v", err)
	}
}

func TestDecode_WhenTypeMismatch_ShouldReturnInvalidInput(t *testing.T) {
	_, err := Decode[sampleInput]("zenhub_create_issue", Args{"labels": "bug"})
	if CodeOf(err) != CodeInvalidInput {
		t.Fatalf("want INVALID_INPUT, got %v (%v)", CodeOf(err), err)
	}
	if !strings.HasPrefix(err.Error(), "invalid arguments for zenhub_create_issue") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestDecode_WhenUnmarshalFails_ShouldReturnInvalidInput(t *testing.T) {
	orig := unmarshalFunc
	unmarshalFunc = func([]byte, any) error { return errors.New("forced") }
	defer func() { unmarshalFunc = orig }()

	if _, err := Decode[sampleInput]("t", Args{"title": "x"}); CodeOf(err) != CodeInvalidInput {
		t.Errorf("want INVALID_INPUT, got %v", err)
	}
}
