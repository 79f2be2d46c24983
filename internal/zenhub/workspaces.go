package zenhub

import (
	"context"

	"github.com/derekbar90/zenhub-mcp/internal/tooling"
)

type createWorkspaceInput struct {
	Name                string `json:"name" jsonschema_description:"Workspace name"`
	Description         string `json:"description,omitempty" jsonschema_description:"Workspace description"`
	OrganizationID      string `json:"organization_id" jsonschema_description:"ZenHub organization ID"`
	RepositoryIDs       []int  `json:"repository_ids" jsonschema_description:"Array of GitHub repository IDs to add"`
	DefaultRepositoryID *int   `json:"default_repository_id,omitempty" jsonschema_description:"Default repository ID"`
}

type searchPageInput struct {
	Query string `json:"query,omitempty" jsonschema_description:"Optional search query to filter workspaces"`
	First int    `json:"first,omitempty" jsonschema_description:"Number of workspaces to return (default: 20)"`
}

type organizationsInput struct {
	Query string `json:"query,omitempty" jsonschema_description:"Optional search query to filter organizations"`
	First int    `json:"first,omitempty" jsonschema_description:"Number of organizations to return (default: 10)"`
}

func (in organizationsInput) vars() map[string]any {
	return vars{"first": orDefault(in.First, 10)}.opt("query", in.Query)
}

type workspaceIDInput struct {
	WorkspaceID string `json:"workspace_id" jsonschema_description:"Workspace ID"`
}

func (in workspaceIDInput) vars() map[string]any {
	return vars{"workspaceId": in.WorkspaceID}
}

func workspaceTools() []tooling.Tool {
	return []tooling.Tool{
		passthrough("create_workspace", "Create a new workspace in ZenHub", createWorkspaceDoc,
			func(in createWorkspaceInput) map[string]any {
				return input(vars{
					"name":                 in.Name,
					"description":          in.Description,
					"zenhubOrganizationId": in.OrganizationID,
					"repositoryGhIds":      in.RepositoryIDs,
				}.optInt("defaultRepositoryGhId", in.DefaultRepositoryID))
			}),
		newTool("get_user_workspaces", "Get all workspaces accessible to the current user", getUserWorkspaces),
		passthrough("get_user_organizations", "Get all ZenHub organizations accessible to the current user",
			getUserOrganizationsDoc, organizationsInput.vars),
		passthrough("get_workspace_overview", "Get workspace overview including basic metadata, pipelines with issue counts, repositories with issue counts, default repository and its issue types, epic summaries, and workspace users",
			getWorkspaceOverviewDoc, workspaceIDInput.vars),
		passthrough("get_organization_workspaces", "Get all workspaces within a specific ZenHub organization",
			getOrganizationWorkspacesDoc, organizationsInput.vars),
	}
}

// getUserWorkspaces searches by name when a query is given, otherwise lists
// the workspaces of every organization the viewer belongs to.
func getUserWorkspaces(ctx context.Context, in searchPageInput, up *tooling.Upstream) (*tooling.Envelope, error) {
	first := orDefault(in.First, 20)
	if isBlank(in.Query) {
		return up.Passthrough(ctx, getUserWorkspacesFromOrgsDoc, vars{"first": first})
	}
	return up.Passthrough(ctx, searchUserWorkspacesDoc, vars{"query": in.Query, "first": first})
}
