package tooling

import (
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Category groups tools for listing. Grouping has no runtime effect.
type Category struct {
	Name  string
	Tools []Tool
}

// Registry is the immutable, ordered set of tools. Lookups are O(1) and safe
// for concurrent use.
type Registry struct {
	categories []Category
	tools      []Tool
	index      map[string]int
	schemas    map[string]*jsonschema.Schema
}

// NewRegistry flattens categories in order. It returns an error if any tool
// has an empty name, a nil handler or an invalid schema, or if a name is
// registered twice.
func NewRegistry(categories ...Category) (*Registry, error) {
	r := &Registry{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int),
		schemas:    make(map[string]*jsonschema.Schema),
	}
	var errs []error
	for _, cat := range categories {
		kept := make([]Tool, 0, len(cat.Tools))
		for _, t := range cat.Tools {
			if err := r.add(t); err != nil {
				errs = append(errs, fmt.Errorf("category %q: %w", cat.Name, err))
				continue
			}
			kept = append(kept, t)
		}
		r.categories = append(r.categories, Category{Name: cat.Name, Tools: kept})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

func (r *Registry) add(t Tool) error {
	if t.Name == "" {
		return errors.New("tool name must not be empty")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %q has no handler", t.Name)
	}
	if _, exists := r.index[t.Name]; exists {
		return fmt.Errorf("tool %q is already registered", t.Name)
	}
	schema, err := CompileSchema(t.InputSchema)
	if err != nil {
		return fmt.Errorf("tool %q: %w", t.Name, err)
	}
	r.index[t.Name] = len(r.tools)
	r.tools = append(r.tools, t)
	r.schemas[t.Name] = schema
	return nil
}

// Lookup returns the tool with exactly this name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.index[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// Tools returns every tool in category order, then declaration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Categories returns the categories as registered.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	for i, c := range r.categories {
		tools := make([]Tool, len(c.Tools))
		copy(tools, c.Tools)
		out[i] = Category{Name: c.Name, Tools: tools}
	}
	return out
}

// Len returns the number of tools.
func (r *Registry) Len() int { return len(r.tools) }

// Validate checks args against the named tool's schema.
func (r *Registry) Validate(name string, args Args) error {
	schema, ok := r.schemas[name]
	if !ok {
		return fmt.Errorf("unknown tool: %s", name)
	}
	return ValidateArgs(schema, args)
}
