package graphql

import (
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/derekbar90/zenhub-mcp/internal/domain"
)

// Operation kinds as they appear in a document.
const (
	KindQuery        = string(ast.Query)
	KindMutation     = string(ast.Mutation)
	KindSubscription = string(ast.Subscription)
)

// Document is a syntactically valid executable document. OperationName and
// Kind describe the first operation; Operations counts all of them.
type Document struct {
	Source        string
	OperationName string
	Kind          string
	Operations    int
}

// Parse checks the syntax of src and extracts its first operation. It does not
// validate against a schema.
func Parse(name, src string) (Document, error) {
	qd, err := parser.ParseQuery(&ast.Source{Name: name, Input: src})
	if err != nil {
		return Document{}, fmt.Errorf("parse %s: %w", name, err)
	}
	if len(qd.Operations) == 0 {
		return Document{}, fmt.Errorf("parse %s: %w", name, errNoOperation)
	}
	op := qd.Operations[0]
	return Document{
		Source:        src,
		OperationName: op.Name,
		Kind:          string(op.Operation),
		Operations:    len(qd.Operations),
	}, nil
}

var errNoOperation = errors.New("document contains no operation")

// MustParse is Parse for documents embedded in the binary; it panics on error.
func MustParse(name, src string) Document {
	doc, err := Parse(name, src)
	if err != nil {
		panic(err)
	}
	return doc
}

// IsMutation reports whether the first operation is a mutation.
func (d Document) IsMutation() bool { return d.Kind == KindMutation }

// Request builds the wire request for d with vars. A document holding several
// operations must name the one to run, so OperationName is only sent for
// single-operation documents.
func (d Document) Request(vars map[string]any) domain.GraphQLRequest {
	r := domain.GraphQLRequest{Query: d.Source, Variables: vars}
	if d.Operations == 1 {
		r.OperationName = d.OperationName
	}
	return r
}
