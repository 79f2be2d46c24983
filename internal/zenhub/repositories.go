package zenhub

import "github.com/derekbar90/zenhub-mcp/internal/tooling"

type githubIDsInput struct {
	GithubIDs []int `json:"github_ids" jsonschema_description:"Array of GitHub repository IDs"`
}

type addRepositoryInput struct {
	WorkspaceID        string `json:"workspace_id" jsonschema_description:"Workspace ID"`
	RepositoryGithubID int    `json:"repository_github_id" jsonschema_description:"GitHub repository ID"`
}

type removeRepositoryInput struct {
	WorkspaceID  string `json:"workspace_id" jsonschema_description:"Workspace ID"`
	RepositoryID string `json:"repository_id" jsonschema_description:"Repository ID"`
}

type repositoryIDInput struct {
	RepositoryID string `json:"repository_id" jsonschema_description:"Repository ID"`
}

func (in repositoryIDInput) vars() map[string]any {
	return vars{"repositoryId": in.RepositoryID}
}

type assignableUsersInput struct {
	RepositoryID string `json:"repository_id" jsonschema_description:"Repository ID"`
	First        int    `json:"first,omitempty" jsonschema_description:"Number of users to return (default: 20)"`
}

func repositoryTools() []tooling.Tool {
	return []tooling.Tool{
		passthrough("get_workspace_repositories", "Get all repositories for a workspace",
			getWorkspaceRepositoriesDoc, workspaceIDInput.vars),
		passthrough("get_repositories_by_github_ids", "Lookup repositories by their GitHub IDs", getRepositoriesByGhIdsDoc,
			func(in githubIDsInput) map[string]any {
				return vars{"ghIds": in.GithubIDs}
			}),
		passthrough("add_repository_to_workspace", "Add a GitHub repository to a workspace", addRepositoryToWorkspaceDoc,
			func(in addRepositoryInput) map[string]any {
				return input(vars{"workspaceId": in.WorkspaceID, "repositoryGhId": in.RepositoryGithubID})
			}),
		passthrough("remove_repository_from_workspace", "Remove a repository from a workspace", disconnectWorkspaceRepositoryDoc,
			func(in removeRepositoryInput) map[string]any {
				return input(vars{"workspaceId": in.WorkspaceID, "repositoryId": in.RepositoryID})
			}),
		passthrough("get_repository_details", "Get detailed information about a specific repository",
			getRepositoryDetailsDoc, repositoryIDInput.vars),
		passthrough("get_repository_assignable_users", "Get users who can be assigned to issues in a repository", getRepositoryAssignableUsersDoc,
			func(in assignableUsersInput) map[string]any {
				return vars{"repositoryId": in.RepositoryID, "first": orDefault(in.First, 20)}
			}),
	}
}
