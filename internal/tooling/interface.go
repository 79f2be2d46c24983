package tooling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/derekbar90/zenhub-mcp/internal/domain"
	"github.com/derekbar90/zenhub-mcp/internal/graphql"
)

// Args are the caller-supplied arguments of one call, as decoded from JSON.
type Args map[string]any

// Handler executes one tool call. It returns the final Envelope; the
// dispatcher does not wrap it again. A returned error becomes an error
// envelope.
type Handler func(ctx context.Context, args Args, up *Upstream) (*Envelope, error)

// Tool is a named, schema-described operation. Tools are built once at
// startup and never mutated.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}

// Definition is the caller-visible part of a Tool.
type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// Definition strips the handler.
func (t Tool) Definition() Definition {
	return Definition{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema}
}

// =============================================================================
// Upstream
// =============================================================================

const (
	GraphQLErrorPrefix = "GraphQL Error: "
	GitHubErrorPrefix  = "GitHub Error: "
)

// Upstream bundles the remote services handlers may call. Issues is nil when no
// GitHub token is configured.
type Upstream struct {
	GraphQL domain.GraphQLExecutor
	Issues  domain.IssueTypeSetter
}

// Execute runs doc with vars and returns the data member. Failures are
// UPSTREAM_ERROR with the GraphQL prefix.
func (u *Upstream) Execute(ctx context.Context, doc graphql.Document, vars map[string]any) (json.RawMessage, error) {
	if u == nil || u.GraphQL == nil {
		return nil, &Error{Code: CodeInternal, Message: GraphQLErrorPrefix + "no upstream configured"}
	}
	data, err := u.GraphQL.Execute(ctx, doc.Request(vars))
	if err != nil {
		return nil, &Error{Code: CodeUpstream, Message: GraphQLErrorPrefix + err.Error(), Cause: err}
	}
	return data, nil
}

// Passthrough runs doc and returns its data pretty-printed.
func (u *Upstream) Passthrough(ctx context.Context, doc graphql.Document, vars map[string]any) (*Envelope, error) {
	data, err := u.Execute(ctx, doc, vars)
	if err != nil {
		return nil, err
	}
	return JSONEnvelope(data)
}

// HasIssues reports whether GitHub issue updates are available.
func (u *Upstream) HasIssues() bool { return u != nil && u.Issues != nil }

// SetIssueType delegates to Issues with the GitHub prefix on failure.
func (u *Upstream) SetIssueType(ctx context.Context, ref domain.IssueRef, issueType string) (*domain.IssueTypeUpdate, error) {
	if !u.HasIssues() {
		return nil, &Error{Code: CodeInternal, Message: GitHubErrorPrefix + "no GitHub token configured"}
	}
	upd, err := u.Issues.SetIssueType(ctx, ref, issueType)
	if err != nil {
		return nil, &Error{Code: CodeUpstream, Message: GitHubErrorPrefix + err.Error(), Cause: err}
	}
	return upd, nil
}

// Field extracts a nested member of a GraphQL data object by path, returning
// nil when any segment is absent or null.
func Field(data json.RawMessage, path ...string) json.RawMessage {
	cur := data
	for _, p := range path {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(cur, &obj); err != nil {
			return nil
		}
		next, ok := obj[p]
		if !ok || bytes.Equal(bytes.TrimSpace(next), []byte("null")) {
			return nil
		}
		cur = next
	}
	return cur
}

// StringField is Field decoded as a string; empty when absent or not a string.
func StringField(data json.RawMessage, path ...string) string {
	raw := Field(data, path...)
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func describe(v any) string {
	return fmt.Sprintf("%T", v)
}
