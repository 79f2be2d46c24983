package zenhub

import (
	"context"

	"github.com/derekbar90/zenhub-mcp/internal/graphql"
	"github.com/derekbar90/zenhub-mcp/internal/tooling"
)

const rawQueryTool = Namespace + "query_potentially_dangerous"

type rawQueryInput struct {
	Query     string         `json:"query" jsonschema_description:"GraphQL query to execute"`
	Variables map[string]any `json:"variables,omitempty" jsonschema_description:"Variables for the GraphQL query"`
}

type inFilter struct {
	In []string `json:"in,omitempty"`
}

type issueSearchFilters struct {
	Labels    *inFilter `json:"labels,omitempty" jsonschema_description:"Filter by labels. Use zenhub_get_workspace_labels to get label IDs."`
	Assignees *inFilter `json:"assignees,omitempty" jsonschema_description:"Filter by assignees github handles. Use zenhub_get_workspace_users."`
}

type searchByPipelineInput struct {
	PipelineID string             `json:"pipeline_id" jsonschema_description:"Pipeline ID to search in. Use zenhub_get_workspace_overview to get pipeline IDs."`
	Query      string             `json:"query,omitempty" jsonschema_description:"Search query for title, user (github login name), content"`
	Filters    issueSearchFilters `json:"filters,omitempty"`
}

type searchInWorkspaceInput struct {
	WorkspaceID string   `json:"workspace_id" jsonschema_description:"Workspace ID to search in"`
	Query       string   `json:"query" jsonschema_description:"Query to search for user (github login name), content, title"`
	RepoIDs     []string `json:"repo_ids" jsonschema_description:"Array of repository IDs to filter."`
	PipelineIDs []string `json:"pipeline_ids" jsonschema_description:"Array of pipeline IDs to filter."`
}

type workspaceIssuesInput struct {
	WorkspaceID string `json:"workspace_id" jsonschema_description:"Workspace ID"`
	After       string `json:"after,omitempty" jsonschema_description:"Cursor for pagination"`
}

type issueByInfoInput struct {
	RepositoryGhID int `json:"repository_gh_id" jsonschema_description:"GitHub repository ID"`
	IssueNumber    int `json:"issue_number" jsonschema_description:"Issue number"`
}

type repositoryGhIDsInput struct {
	RepositoryGhIDs []int `json:"repository_gh_ids" jsonschema_description:"Array of GitHub repository IDs"`
}

type noInput struct{}

func queryTools() []tooling.Tool {
	return []tooling.Tool{
		newTool("query_potentially_dangerous", "FALLBACK: Execute custom GraphQL queries when specific tools don't meet your needs. **IMPORTANT: Mutations but have EXPLICT appoval from the user by repeating back a super minimal confirmation message.**", rawQuery),
		passthrough("search_issues", "Search and filter issues within a specific pipeline by title, labels, or assignees", searchIssuesByPipelineDoc,
			func(in searchByPipelineInput) map[string]any {
				return vars{"pipelineId": in.PipelineID, "query": in.Query, "filters": in.Filters}
			}),
		// The caller's query is bound to the document's $user variable.
		passthrough("search_issues_in_repository", "Search and filter issues in a workspace by user, repository, and pipeline. Use zenhub_get_workspace_overview to get repository IDs and pipeline IDs before using this tool.", searchIssuesDoc,
			func(in searchInWorkspaceInput) map[string]any {
				return vars{
					"workspaceId": in.WorkspaceID,
					"user":        in.Query,
					"repoIds":     orEmpty(in.RepoIDs),
					"pipelineIds": orEmpty(in.PipelineIDs),
				}
			}),
		passthrough("get_workspace_issues", "Get all issues in a workspace (paginated)", workspaceIssuesDoc,
			func(in workspaceIssuesInput) map[string]any {
				return vars{"workspaceId": in.WorkspaceID}.opt("after", in.After)
			}),
		passthrough("get_viewer", "Get current authenticated user's ZenHub and GitHub profile information", viewerDoc,
			func(noInput) map[string]any { return nil }),
		passthrough("get_issue_by_info", "Lookup an issue by repository and issue number", issueByInfoDoc,
			func(in issueByInfoInput) map[string]any {
				return vars{"repositoryGhId": in.RepositoryGhID, "issueNumber": in.IssueNumber}
			}),
		passthrough("get_repositories", "Lookup repositories by their GitHub IDs", getRepositoriesByGhIdsDoc,
			func(in repositoryGhIDsInput) map[string]any {
				return vars{"ghIds": in.RepositoryGhIDs}
			}),
	}
}

// rawQuery runs a caller-supplied document. It is parsed locally first, so a
// syntax error never reaches the network.
func rawQuery(ctx context.Context, in rawQueryInput, up *tooling.Upstream) (*tooling.Envelope, error) {
	doc, err := graphql.Parse("query", in.Query)
	if err != nil {
		return nil, &tooling.Error{
			Tool:    rawQueryTool,
			Code:    tooling.CodeInvalidInput,
			Message: tooling.GraphQLErrorPrefix + err.Error(),
			Cause:   err,
		}
	}
	v := in.Variables
	if v == nil {
		v = map[string]any{}
	}
	return up.Passthrough(ctx, doc, v)
}
