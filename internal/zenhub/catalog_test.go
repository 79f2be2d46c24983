package zenhub

import (
	"context"
	"encoding/json"
	"path"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/derekbar90/zenhub-mcp/internal/domain"
	"github.com/derekbar90/zenhub-mcp/internal/graphql"
	"github.com/derekbar90/zenhub-mcp/internal/logging"
	"github.com/derekbar90/zenhub-mcp/internal/tooling"
)

// =============================================================================
// Fakes
// =============================================================================

type responder func(req domain.GraphQLRequest) (json.RawMessage, error)

func returns(data string) responder {
	return func(domain.GraphQLRequest) (json.RawMessage, error) { return json.RawMessage(data), nil }
}

func fails(err error) responder {
	return func(domain.GraphQLRequest) (json.RawMessage, error) { return nil, err }
}

// fakeZenHub answers by operation name and records every request in order.
// Operations without a responder get an empty object.
type fakeZenHub struct {
	mu      sync.Mutex
	reqs    []domain.GraphQLRequest
	replies map[string]responder
}

func (f *fakeZenHub) Execute(_ context.Context, req domain.GraphQLRequest) (json.RawMessage, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	r, ok := f.replies[req.OperationName]
	f.mu.Unlock()
	if !ok {
		return json.RawMessage(`{}`), nil
	}
	return r(req)
}

func (f *fakeZenHub) requests() []domain.GraphQLRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.GraphQLRequest(nil), f.reqs...)
}

type fakeIssues struct {
	calls []domain.IssueRef
	types []string
	err   error
}

func (f *fakeIssues) SetIssueType(_ context.Context, ref domain.IssueRef, t string) (*domain.IssueTypeUpdate, error) {
	f.calls = append(f.calls, ref)
	f.types = append(f.types, t)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.IssueTypeUpdate{Ref: ref, Type: t, Issue: json.RawMessage(`{"number":12,"type":{"name":"` + t + `"}}`)}, nil
}

func newDispatcher(t *testing.T, up *tooling.Upstream) *tooling.Dispatcher {
	t.Helper()
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return tooling.NewDispatcher(reg, up, tooling.WithLogger(logging.Discard()), tooling.WithTimeout(5*time.Second))
}

// call runs one tool against zh (and issues, when given).
func call(t *testing.T, zh *fakeZenHub, issues domain.IssueTypeSetter, name string, args tooling.Args) *tooling.Envelope {
	t.Helper()
	up := &tooling.Upstream{GraphQL: zh}
	if issues != nil {
		up.Issues = issues
	}
	return newDispatcher(t, up).Call(context.Background(), name, args)
}

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("not JSON: %q: %v", s, err)
	}
	return v
}

// assertJSON compares the JSON encoding of got with want, ignoring key order.
func assertJSON(t *testing.T, got any, want string) {
	t.Helper()
	b, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if g, w := decodeJSON(t, string(b)), decodeJSON(t, want); !reflect.DeepEqual(g, w) {
		t.Errorf("mismatch\n got: %s\nwant: %s", b, want)
	}
}

// =============================================================================
// Catalog
// =============================================================================

func TestCategories_ShouldKeepPresentationOrder(t *testing.T) {
	want := []string{
		"Issue Management", "Epic Management", "Workspace Management", "Repository Management",
		"Sprint Management", "Pipeline Management", "Milestone Management", "Dependency Management",
		"Label Management", "User Management", "Query Tools",
	}
	cats := Categories()
	if len(cats) != len(want) {
		t.Fatalf("want %d categories, got %d", len(want), len(cats))
	}
	for i, c := range cats {
		if c.Name != want[i] {
			t.Errorf("category %d: want %q, got %q", i, want[i], c.Name)
		}
		if len(c.Tools) == 0 {
			t.Errorf("category %q is empty", c.Name)
		}
	}
}

func TestNewRegistry_ShouldRegisterWholeCatalog(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if reg.Len() != 63 {
		t.Errorf("want 63 tools, got %d", reg.Len())
	}
	seen := map[string]bool{}
	for _, tool := range reg.Tools() {
		if !strings.HasPrefix(tool.Name, Namespace) {
			t.Errorf("%s lacks the %s prefix", tool.Name, Namespace)
		}
		if seen[tool.Name] {
			t.Errorf("%s registered twice", tool.Name)
		}
		seen[tool.Name] = true
		if tool.Description == "" {
			t.Errorf("%s has no description", tool.Name)
		}
	}
	for _, name := range []string{"zenhub_get_viewer", "zenhub_create_issue", "zenhub_query_potentially_dangerous"} {
		if !seen[name] {
			t.Errorf("%s missing from catalog", name)
		}
	}
}

func TestSchemas_ShouldMarkRequiredFields(t *testing.T) {
	reg, _ := NewRegistry()
	cases := map[string][]string{
		"zenhub_create_issue":               {"title", "repository_id"},
		"zenhub_create_issue_with_epic":     {"title", "repository_id", "epic_id"},
		"zenhub_reopen_issues":              {"issue_ids", "pipeline_id"},
		"zenhub_create_sprint":              {"name", "start_date", "end_date", "workspace_id"},
		"zenhub_search_issues_in_repository": {"workspace_id", "query", "repo_ids", "pipeline_ids"},
		"zenhub_get_viewer":                 nil,
	}
	for name, want := range cases {
		tool, ok := reg.Lookup(name)
		if !ok {
			t.Fatalf("%s not registered", name)
		}
		var schema struct {
			Required []string `json:"required"`
		}
		if err := json.Unmarshal(tool.InputSchema, &schema); err != nil {
			t.Fatalf("%s schema: %v", name, err)
		}
		if strings.Join(schema.Required, ",") != strings.Join(want, ",") {
			t.Errorf("%s: want required %v, got %v", name, want, schema.Required)
		}
	}
}

func TestDocuments_ShouldParseEveryEmbeddedFile(t *testing.T) {
	entries, err := queryFS.ReadDir("queries")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no embedded documents")
	}
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		src, _ := queryFS.ReadFile("queries/" + e.Name())
		doc, err := graphql.Parse(name, string(src))
		if err != nil {
			t.Errorf("%s: %v", e.Name(), err)
			continue
		}
		if doc.OperationName != name || doc.Operations != 1 {
			t.Errorf("%s: operation %q (%d ops) should match the file name", e.Name(), doc.OperationName, doc.Operations)
		}
	}
}

func TestDocument_WhenMissing_ShouldPanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing document")
		}
	}()
	document("doesNotExist")
}
