// Package zenhub is the catalog of ZenHub tools: typed inputs, their GraphQL
// documents and the argument renaming between the two.
package zenhub

import (
	"context"
	"strings"

	"github.com/derekbar90/zenhub-mcp/internal/graphql"
	"github.com/derekbar90/zenhub-mcp/internal/tooling"
)

// Namespace prefixes every tool name.
const Namespace = "zenhub_"

// Categories returns the catalog in presentation order.
func Categories() []tooling.Category {
	return []tooling.Category{
		{Name: "Issue Management", Tools: issueTools()},
		{Name: "Epic Management", Tools: epicTools()},
		{Name: "Workspace Management", Tools: workspaceTools()},
		{Name: "Repository Management", Tools: repositoryTools()},
		{Name: "Sprint Management", Tools: sprintTools()},
		{Name: "Pipeline Management", Tools: pipelineTools()},
		{Name: "Milestone Management", Tools: milestoneTools()},
		{Name: "Dependency Management", Tools: dependencyTools()},
		{Name: "Label Management", Tools: labelTools()},
		{Name: "User Management", Tools: userTools()},
		{Name: "Query Tools", Tools: queryTools()},
	}
}

// NewRegistry builds the registry holding the full catalog.
func NewRegistry() (*tooling.Registry, error) {
	return tooling.NewRegistry(Categories()...)
}

// =============================================================================
// Builders
// =============================================================================

// newTool binds a typed handler. The input schema is reflected from In, and
// the raw arguments are decoded into In before run is called.
func newTool[In any](name, description string, run func(ctx context.Context, in In, up *tooling.Upstream) (*tooling.Envelope, error)) tooling.Tool {
	full := Namespace + name
	return tooling.Tool{
		Name:        full,
		Description: description,
		InputSchema: tooling.SchemaFor(new(In)),
		Handler: func(ctx context.Context, args tooling.Args, up *tooling.Upstream) (*tooling.Envelope, error) {
			in, err := tooling.Decode[In](full, args)
			if err != nil {
				return nil, err
			}
			return run(ctx, in, up)
		},
	}
}

// passthrough binds a tool that runs one document and returns its data as-is.
func passthrough[In any](name, description string, doc graphql.Document, vars func(In) map[string]any) tooling.Tool {
	return newTool(name, description, func(ctx context.Context, in In, up *tooling.Upstream) (*tooling.Envelope, error) {
		return up.Passthrough(ctx, doc, vars(in))
	})
}

// vars is a variables object under construction.
type vars map[string]any

// input wraps fields as the conventional single mutation argument.
func input(fields vars) map[string]any {
	return map[string]any{"input": map[string]any(fields)}
}

// opt sets key only when s is non-empty.
func (v vars) opt(key, s string) vars {
	if s != "" {
		v[key] = s
	}
	return v
}

// optInt sets key only when n is non-nil.
func (v vars) optInt(key string, n *int) vars {
	if n != nil {
		v[key] = *n
	}
	return v
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func orDefault(n, def int) int {
	if n == 0 {
		return def
	}
	return n
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
