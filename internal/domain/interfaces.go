package domain

import (
	"context"
	"encoding/json"
)

// GraphQLExecutor executes a single GraphQL operation and returns the response's
// "data" member. Implementations must be safe for concurrent use and return an
// error for transport failures, non-2xx statuses and GraphQL error arrays.
type GraphQLExecutor interface {
	Execute(ctx context.Context, req GraphQLRequest) (json.RawMessage, error)
}

// IssueTypeSetter sets the type of an existing GitHub issue. Implementations wait
// (bounded) for a freshly created issue to become visible before patching it.
type IssueTypeSetter interface {
	SetIssueType(ctx context.Context, ref IssueRef, issueType string) (*IssueTypeUpdate, error)
}
