package zenhub

import "github.com/derekbar90/zenhub-mcp/internal/tooling"

type sprintSettingsInput struct {
	PipelineID           string  `json:"pipeline_id,omitempty" jsonschema_description:"Pipeline to pull issues from"`
	TotalStoryPoints     float64 `json:"total_story_points,omitempty" jsonschema_description:"Story points to pull from the pipeline"`
	MoveUnfinishedIssues bool    `json:"move_unfinished_issues,omitempty" jsonschema_description:"Carry unfinished issues into the next sprint"`
}

// vars maps settings to SprintConfigSettingsInput. The pipeline block is only
// sent when a pipeline is named.
func (s sprintSettingsInput) vars() map[string]any {
	v := vars{"moveUnfinishedIssues": s.MoveUnfinishedIssues}
	if s.PipelineID != "" {
		v["issuesFromPipeline"] = map[string]any{
			"pipelineId":       s.PipelineID,
			"enabled":          true,
			"totalStoryPoints": s.TotalStoryPoints,
		}
	}
	return v
}

type createSprintInput struct {
	Name        string              `json:"name" jsonschema_description:"Sprint name"`
	StartDate   string              `json:"start_date" jsonschema_description:"Start date (ISO format)"`
	EndDate     string              `json:"end_date" jsonschema_description:"End date (ISO format)"`
	Timezone    string              `json:"timezone,omitempty" jsonschema_description:"Timezone identifier"`
	WorkspaceID string              `json:"workspace_id" jsonschema_description:"Workspace ID"`
	Settings    sprintSettingsInput `json:"settings,omitempty"`
}

type updateSprintInput struct {
	SprintID  string `json:"sprint_id" jsonschema_description:"Sprint ID"`
	Name      string `json:"name,omitempty" jsonschema_description:"Sprint name"`
	StartDate string `json:"start_date,omitempty" jsonschema_description:"Start date (ISO format)"`
	EndDate   string `json:"end_date,omitempty" jsonschema_description:"End date (ISO format)"`
	State     string `json:"state,omitempty" jsonschema:"enum=OPEN,enum=CLOSED" jsonschema_description:"Sprint state"`
}

type issuesSprintsInput struct {
	IssueIDs  []string `json:"issue_ids" jsonschema_description:"Array of issue IDs"`
	SprintIDs []string `json:"sprint_ids" jsonschema_description:"Array of sprint IDs"`
}

func (in issuesSprintsInput) vars() map[string]any {
	return input(vars{"issueIds": in.IssueIDs, "sprintIds": in.SprintIDs})
}

func sprintTools() []tooling.Tool {
	return []tooling.Tool{
		passthrough("create_sprint", "Create a new sprint", createSprintConfigDoc,
			func(in createSprintInput) map[string]any {
				tz := in.Timezone
				if tz == "" {
					tz = "UTC"
				}
				return input(vars{"sprintConfig": map[string]any{
					"name":         in.Name,
					"startOn":      in.StartDate,
					"endOn":        in.EndDate,
					"tzIdentifier": tz,
					"workspaceId":  in.WorkspaceID,
					"settings":     in.Settings.vars(),
				}})
			}),
		passthrough("update_sprint", "Update an existing sprint", updateSprintDoc,
			func(in updateSprintInput) map[string]any {
				return input(vars{"sprintId": in.SprintID}.
					opt("name", in.Name).
					opt("startAt", in.StartDate).
					opt("endAt", in.EndDate).
					opt("state", in.State))
			}),
		passthrough("add_issues_to_sprints", "Add issues to sprints", addIssuesToSprintsDoc, issuesSprintsInput.vars),
		passthrough("remove_issues_from_sprints", "Remove issues from sprints", removeIssuesFromSprintsDoc, issuesSprintsInput.vars),
		passthrough("delete_sprint", "Delete a sprint and open sprints for a workspace", deleteSprintConfigAndOpenSprintsDoc,
			func(in workspaceIDInput) map[string]any {
				return input(vars{"workspaceId": in.WorkspaceID})
			}),
		passthrough("get_workspace_sprints", "Get all sprints in a workspace", getWorkspaceSprintsDoc, workspaceIDInput.vars),
	}
}
