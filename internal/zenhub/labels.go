package zenhub

import "github.com/derekbar90/zenhub-mcp/internal/tooling"

type createGithubLabelInput struct {
	RepositoryID string `json:"repository_id" jsonschema_description:"Repository ID"`
	Name         string `json:"name" jsonschema_description:"Label name"`
	Color        string `json:"color" jsonschema_description:"Label color (hex without #)"`
	Description  string `json:"description,omitempty" jsonschema_description:"Label description"`
}

type createZenhubLabelInput struct {
	WorkspaceID string `json:"workspace_id" jsonschema_description:"Workspace ID"`
	Name        string `json:"name" jsonschema_description:"Label name"`
	Color       string `json:"color" jsonschema_description:"Label color (hex without #)"`
	Description string `json:"description,omitempty" jsonschema_description:"Label description"`
}

type labelIDsInput struct {
	LabelIDs []string `json:"label_ids" jsonschema_description:"Array of ZenHub label IDs"`
}

func labelTools() []tooling.Tool {
	return []tooling.Tool{
		passthrough("create_github_label", "Create a GitHub label", createGithubLabelDoc,
			func(in createGithubLabelInput) map[string]any {
				return input(vars{"repositoryId": in.RepositoryID, "name": in.Name, "color": in.Color}.opt("description", in.Description))
			}),
		passthrough("create_zenhub_label", "Create a ZenHub label", createZenhubLabelDoc,
			func(in createZenhubLabelInput) map[string]any {
				return input(vars{"workspaceId": in.WorkspaceID, "name": in.Name, "color": in.Color}.opt("description", in.Description))
			}),
		passthrough("delete_zenhub_labels", "Delete ZenHub labels", deleteZenhubLabelsDoc,
			func(in labelIDsInput) map[string]any {
				return input(vars{"labelIds": in.LabelIDs})
			}),
		passthrough("get_repository_labels", "Get all labels in a repository", getRepositoryLabelsDoc, repositoryIDInput.vars),
		passthrough("get_workspace_labels", "Get all ZenHub labels in a workspace", getWorkspaceLabelsDoc, workspaceIDInput.vars),
	}
}
