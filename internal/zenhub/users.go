package zenhub

import (
	"context"

	"github.com/derekbar90/zenhub-mcp/internal/tooling"
)

type loginInput struct {
	Login string `json:"login" jsonschema_description:"GitHub username or organization name"`
}

type ghIDInput struct {
	GithubID int `json:"github_id" jsonschema_description:"GitHub user/organization ID"`
}

type collaboratorsInput struct {
	RepositoryID string `json:"repository_id" jsonschema_description:"Repository ID (Note: Not supported in ZenHub API)"`
}

// collaboratorsAdvice is returned instead of calling upstream; the API has no
// repository collaborator query.
var collaboratorsAdvice = struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion"`
}{
	Error:      "Repository collaborators not available in ZenHub GraphQL API. Use zenhub_get_workspace_users instead.",
	Suggestion: "Use zenhub_get_workspace_users to get users who can be assigned to issues in a workspace.",
}

func userTools() []tooling.Tool {
	return []tooling.Tool{
		passthrough("get_workspace_users", "Get all users in a workspace who can be assigned to issues",
			getWorkspaceUsersDoc, workspaceIDInput.vars),
		newTool("get_repository_collaborators",
			"Get all collaborators for a repository who can be assigned to issues (Note: Repository collaborators not available in ZenHub API - use workspace users instead)",
			func(context.Context, collaboratorsInput, *tooling.Upstream) (*tooling.Envelope, error) {
				return tooling.JSONEnvelope(collaboratorsAdvice)
			}),
		passthrough("get_owner_by_login", "Lookup a GitHub user/organization by login", ownerByLoginDoc,
			func(in loginInput) map[string]any {
				return vars{"login": in.Login}
			}),
		passthrough("get_owner_by_gh_id", "Lookup a GitHub user/organization by GitHub ID", ownerByGhIdDoc,
			func(in ghIDInput) map[string]any {
				return vars{"ghId": in.GithubID}
			}),
	}
}
