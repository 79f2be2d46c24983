package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/derekbar90/zenhub-mcp/internal/tooling"
)

// Listing formats accepted by WriteTools.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type toolListing struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	InputSchema any    `json:"inputSchema,omitempty" yaml:"inputSchema,omitempty"`
}

type categoryListing struct {
	Category string        `json:"category" yaml:"category"`
	Tools    []toolListing `json:"tools" yaml:"tools"`
}

// WriteTools prints the catalog grouped by category. Text output lists names
// and the first line of each description; json and yaml include the schemas.
func WriteTools(w io.Writer, reg *tooling.Registry, format string) error {
	switch format {
	case "", FormatText:
		return writeToolsText(w, reg)
	case FormatJSON, FormatYAML:
		listing, err := buildListing(reg)
		if err != nil {
			return err
		}
		if format == FormatYAML {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(listing); err != nil {
				return err
			}
			return enc.Close()
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(listing)
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, FormatText, FormatJSON, FormatYAML)
	}
}

func buildListing(reg *tooling.Registry) ([]categoryListing, error) {
	cats := reg.Categories()
	out := make([]categoryListing, 0, len(cats))
	for _, c := range cats {
		cl := categoryListing{Category: c.Name, Tools: make([]toolListing, 0, len(c.Tools))}
		for _, t := range c.Tools {
			var schema any
			if err := json.Unmarshal(t.InputSchema, &schema); err != nil {
				return nil, fmt.Errorf("%s schema: %w", t.Name, err)
			}
			cl.Tools = append(cl.Tools, toolListing{Name: t.Name, Description: t.Description, InputSchema: schema})
		}
		out = append(out, cl)
	}
	return out, nil
}

func writeToolsText(w io.Writer, reg *tooling.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, c := range reg.Categories() {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s (%d)\n", c.Name, len(c.Tools))
		for _, t := range c.Tools {
			summary, _, _ := strings.Cut(t.Description, "\n")
			fmt.Fprintf(tw, "  %s\t%s\n", t.Name, summary)
		}
	}
	fmt.Fprintf(tw, "\n%d tools\n", reg.Len())
	return tw.Flush()
}
