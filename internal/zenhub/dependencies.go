package zenhub

import (
	"context"

	"github.com/derekbar90/zenhub-mcp/internal/graphql"
	"github.com/derekbar90/zenhub-mcp/internal/tooling"
)

type issueDependencyInput struct {
	BlockingRepositoryGhID int `json:"blocking_repository_gh_id" jsonschema_description:"GitHub repository numeric ID for the blocking issue"`
	BlockingIssueNumber    int `json:"blocking_issue_number" jsonschema_description:"Issue number of the blocking issue within the repository"`
	BlockedRepositoryGhID  int `json:"blocked_repository_gh_id" jsonschema_description:"GitHub repository numeric ID for the blocked issue"`
	BlockedIssueNumber     int `json:"blocked_issue_number" jsonschema_description:"Issue number of the blocked issue within the repository"`
}

func (in issueDependencyInput) vars() map[string]any {
	return input(vars{
		"blockingIssue": map[string]any{"repositoryGhId": in.BlockingRepositoryGhID, "issueNumber": in.BlockingIssueNumber},
		"blockedIssue":  map[string]any{"repositoryGhId": in.BlockedRepositoryGhID, "issueNumber": in.BlockedIssueNumber},
	})
}

func dependencyTools() []tooling.Tool {
	return []tooling.Tool{
		dependencyTool("create_issue_dependency", "Create a dependency between two issues (blocking → blocked)",
			createIssueDependencyDoc, "createIssueDependency"),
		dependencyTool("delete_issue_dependency", "Delete a dependency between two issues (blocking → blocked)",
			deleteIssueDependencyDoc, "deleteIssueDependency"),
	}
}

// dependencyTool returns only the issueDependency member of the payload.
func dependencyTool(name, description string, doc graphql.Document, field string) tooling.Tool {
	return newTool(name, description, func(ctx context.Context, in issueDependencyInput, up *tooling.Upstream) (*tooling.Envelope, error) {
		data, err := up.Execute(ctx, doc, in.vars())
		if err != nil {
			return nil, err
		}
		return tooling.JSONEnvelope(tooling.Field(data, field, "issueDependency"))
	})
}
