package zenhub

import "github.com/derekbar90/zenhub-mcp/internal/tooling"

type createMilestoneInput struct {
	Title        string `json:"title" jsonschema_description:"Milestone title"`
	RepositoryID string `json:"repository_id" jsonschema_description:"Repository ID"`
	Description  string `json:"description,omitempty" jsonschema_description:"Milestone description"`
	DueDate      string `json:"due_date,omitempty" jsonschema_description:"Due date (ISO format)"`
	StartDate    string `json:"start_date,omitempty" jsonschema_description:"Start date (ISO format)"`
}

type updateMilestoneInput struct {
	MilestoneID string `json:"milestone_id" jsonschema_description:"Milestone ID"`
	Title       string `json:"title,omitempty" jsonschema_description:"Milestone title"`
	Description string `json:"description,omitempty" jsonschema_description:"Milestone description"`
	DueDate     string `json:"due_date,omitempty" jsonschema_description:"Due date (ISO format)"`
	StartDate   string `json:"start_date,omitempty" jsonschema_description:"Start date (ISO format)"`
}

// milestoneVars adds the optional milestone fields that are set.
func milestoneVars(v vars, description, dueDate, startDate string) vars {
	return v.opt("description", description).opt("dueOn", dueDate).opt("startOn", startDate)
}

type milestoneIssuesInput struct {
	IssueIDs    []string `json:"issue_ids" jsonschema_description:"Array of issue IDs"`
	MilestoneID string   `json:"milestone_id" jsonschema_description:"Milestone ID"`
}

type milestoneIDInput struct {
	MilestoneID string `json:"milestone_id" jsonschema_description:"Milestone ID"`
}

func milestoneTools() []tooling.Tool {
	return []tooling.Tool{
		passthrough("create_milestone", "Create a milestone", createMilestoneDoc,
			func(in createMilestoneInput) map[string]any {
				v := vars{"title": in.Title, "repositoryId": in.RepositoryID}
				return input(milestoneVars(v, in.Description, in.DueDate, in.StartDate))
			}),
		passthrough("update_milestone", "Update a milestone", updateMilestoneDoc,
			func(in updateMilestoneInput) map[string]any {
				v := vars{"milestoneId": in.MilestoneID}.opt("title", in.Title)
				return input(milestoneVars(v, in.Description, in.DueDate, in.StartDate))
			}),
		passthrough("add_milestone_to_issues", "Add milestone to multiple issues", addMilestoneToIssuesDoc,
			func(in milestoneIssuesInput) map[string]any {
				return input(vars{"issueIds": in.IssueIDs, "milestoneId": in.MilestoneID})
			}),
		passthrough("remove_milestone_from_issues", "Remove milestone from multiple issues", removeMilestoneToIssuesDoc,
			func(in issueIDsInput) map[string]any {
				return input(vars{"issueIds": in.IssueIDs})
			}),
		passthrough("delete_milestone", "Delete a milestone", deleteMilestoneDoc,
			func(in milestoneIDInput) map[string]any {
				return input(vars{"milestoneId": in.MilestoneID})
			}),
	}
}
