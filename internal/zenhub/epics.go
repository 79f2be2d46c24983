package zenhub

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/derekbar90/zenhub-mcp/internal/tooling"
)

type createEpicInput struct {
	Title        string   `json:"title" jsonschema_description:"Epic title"`
	RepositoryID string   `json:"repository_id" jsonschema_description:"Repository ID"`
	Body         string   `json:"body,omitempty" jsonschema_description:"Epic description"`
	EpicChildIDs []string `json:"epic_child_ids,omitempty" jsonschema_description:"Existing issue IDs to add as children of the new epic"`
}

type createZenhubEpicInput struct {
	Title       string `json:"title" jsonschema_description:"Epic title"`
	WorkspaceID string `json:"workspace_id" jsonschema_description:"Workspace ID"`
	Description string `json:"description,omitempty" jsonschema_description:"Epic description"`
}

type updateEpicInput struct {
	EpicID      string `json:"epic_id" jsonschema_description:"Epic ID"`
	Title       string `json:"title,omitempty" jsonschema_description:"Epic title"`
	Description string `json:"description,omitempty" jsonschema_description:"Epic description"`
}

type updateEpicDatesInput struct {
	EpicID    string `json:"epic_id" jsonschema_description:"Epic ID"`
	StartDate string `json:"start_date,omitempty" jsonschema_description:"Start date (YYYY-MM-DD)"`
	EndDate   string `json:"end_date,omitempty" jsonschema_description:"End date (YYYY-MM-DD)"`
}

type epicIDInput struct {
	EpicID string `json:"epic_id" jsonschema_description:"Epic ID"`
}

func epicTools() []tooling.Tool {
	return []tooling.Tool{
		newTool("create_epic", "Create a new epic in ZenHub. Optionally, you can also specify existing issue IDs that should be added as children of the new epic.", createEpic),
		passthrough("create_zenhub_epic", "Create a new ZenHub epic", createZenhubEpicDoc,
			func(in createZenhubEpicInput) map[string]any {
				return input(vars{"title": in.Title, "workspaceId": in.WorkspaceID}.opt("description", in.Description))
			}),
		passthrough("update_epic", "Update an epic", updateZenhubEpicDoc,
			func(in updateEpicInput) map[string]any {
				return input(vars{"zenhubEpicId": in.EpicID}.opt("title", in.Title).opt("description", in.Description))
			}),
		passthrough("update_epic_dates", "Update epic's start and end dates", updateZenhubEpicDatesDoc,
			func(in updateEpicDatesInput) map[string]any {
				return input(vars{"zenhubEpicId": in.EpicID}.opt("startOn", in.StartDate).opt("endOn", in.EndDate))
			}),
		passthrough("delete_epic", "Delete an epic", deleteZenhubEpicDoc,
			func(in epicIDInput) map[string]any {
				return input(vars{"zenhubEpicId": in.EpicID})
			}),
	}
}

type createEpicResult struct {
	CreateEpic    json.RawMessage `json:"createEpic"`
	ConvertToEpic json.RawMessage `json:"convertToEpic"`
}

// createEpic creates the epic's backing issue, then converts that issue into
// an epic holding the requested children.
func createEpic(ctx context.Context, in createEpicInput, up *tooling.Upstream) (*tooling.Envelope, error) {
	data, err := up.Execute(ctx, createEpicDoc, input(vars{
		"issue": map[string]any{
			"title":        in.Title,
			"repositoryId": in.RepositoryID,
			"body":         in.Body,
		},
	}))
	if err != nil {
		return nil, err
	}
	epic := tooling.Field(data, "createEpic", "epic")
	issueID := tooling.StringField(epic, "issue", "id")
	if issueID == "" {
		return nil, errors.New("Failed to create the underlying issue for the epic")
	}

	converted, err := up.Execute(ctx, createEpicFromIssueDoc, input(vars{
		"issueId":      issueID,
		"epicChildIds": orEmpty(in.EpicChildIDs),
	}))
	if err != nil {
		return nil, tooling.Partial("createEpic "+issueID, err)
	}
	return tooling.JSONEnvelope(createEpicResult{
		CreateEpic:    epic,
		ConvertToEpic: tooling.Field(converted, "createEpicFromIssue", "epic"),
	})
}
