package zenhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/derekbar90/zenhub-mcp/internal/github"
	"github.com/derekbar90/zenhub-mcp/internal/tooling"
)

// Issue types applied after creation.
const (
	IssueTypeBug  = "Bug"
	IssueTypeTask = "Task"
)

type createIssueInput struct {
	Title        string   `json:"title" jsonschema_description:"Issue title"`
	RepositoryID string   `json:"repository_id" jsonschema_description:"Repository ID"`
	Body         string   `json:"body,omitempty" jsonschema_description:"Issue body/description"`
	Labels       []string `json:"labels,omitempty" jsonschema_description:"Issue labels"`
	Assignees    []string `json:"assignees,omitempty" jsonschema_description:"GitHub usernames to assign"`
}

func (in createIssueInput) vars() map[string]any {
	return input(vars{
		"title":        in.Title,
		"repositoryId": in.RepositoryID,
		"body":         in.Body,
		"labels":       orEmpty(in.Labels),
		"assignees":    orEmpty(in.Assignees),
	})
}

type createIssueWithEpicInput struct {
	Title        string   `json:"title" jsonschema_description:"Issue title"`
	RepositoryID string   `json:"repository_id" jsonschema_description:"Repository ID"`
	Body         string   `json:"body,omitempty" jsonschema_description:"Issue body/description"`
	Labels       []string `json:"labels,omitempty" jsonschema_description:"Issue labels"`
	Assignees    []string `json:"assignees,omitempty" jsonschema_description:"GitHub usernames to assign"`
	EpicID       string   `json:"epic_id" jsonschema_description:"Epic ID to add the issue to"`
}

func (in createIssueWithEpicInput) issue() createIssueInput {
	return createIssueInput{
		Title:        in.Title,
		RepositoryID: in.RepositoryID,
		Body:         in.Body,
		Labels:       in.Labels,
		Assignees:    in.Assignees,
	}
}

type updateIssueInput struct {
	IssueID string `json:"issue_id" jsonschema_description:"Issue ID"`
	Title   string `json:"title,omitempty" jsonschema_description:"Issue title"`
	Body    string `json:"body,omitempty" jsonschema_description:"Issue body/description"`
}

type issueIDsInput struct {
	IssueIDs []string `json:"issue_ids" jsonschema_description:"Array of issue IDs"`
}

type reopenIssuesInput struct {
	IssueIDs   []string `json:"issue_ids" jsonschema_description:"Array of issue IDs"`
	PipelineID string   `json:"pipeline_id" jsonschema_description:"Pipeline ID to move issues to"`
	Position   string   `json:"position,omitempty" jsonschema:"enum=START,enum=END" jsonschema_description:"Position in pipeline"`
}

type moveIssueInput struct {
	IssueIDs   []string `json:"issue_ids" jsonschema_description:"Array of issue IDs"`
	PipelineID string   `json:"pipeline_id" jsonschema_description:"Pipeline ID to move issues to"`
	Position   *int     `json:"position,omitempty" jsonschema_description:"Position in pipeline (0-based)"`
}

type assigneesInput struct {
	IssueIDs  []string `json:"issue_ids" jsonschema_description:"Array of issue IDs"`
	Assignees []string `json:"assignees" jsonschema_description:"Array of GitHub usernames"`
}

type labelsInput struct {
	IssueIDs []string `json:"issue_ids" jsonschema_description:"Array of issue IDs"`
	Labels   []string `json:"labels" jsonschema_description:"Array of label names"`
}

type estimateInput struct {
	IssueID string  `json:"issue_id" jsonschema_description:"Issue ID"`
	Value   float64 `json:"value" jsonschema_description:"Estimate value"`
}

func (in estimateInput) vars() map[string]any {
	return input(vars{"issueId": in.IssueID, "value": in.Value})
}

type multipleEstimatesInput struct {
	Estimates []estimateInput `json:"estimates" jsonschema_description:"Array of estimates to set"`
}

type issuesEpicsInput struct {
	IssueIDs []string `json:"issue_ids" jsonschema_description:"Array of issue IDs"`
	EpicIDs  []string `json:"epic_ids" jsonschema_description:"Array of epic IDs"`
}

func (in issuesEpicsInput) vars() map[string]any {
	return input(vars{"issueIds": in.IssueIDs, "epicIds": in.EpicIDs})
}

func issueTools() []tooling.Tool {
	return []tooling.Tool{
		newTool("create_issue", "Create a new GitHub issue via ZenHub", createIssue),
		newTool("create_issue_with_epic", "Create a new issue and add it to an existing epic", createIssueWithEpic),
		passthrough("update_issue", "Update an existing issue", updateIssueDoc,
			func(in updateIssueInput) map[string]any {
				return input(vars{"issueId": in.IssueID}.opt("title", in.Title).opt("body", in.Body))
			}),
		passthrough("close_issues", "Close one or more issues", closeIssuesDoc,
			func(in issueIDsInput) map[string]any {
				return input(vars{"issueIds": in.IssueIDs})
			}),
		passthrough("reopen_issues", "Reopen one or more closed issues", reopenIssuesDoc,
			func(in reopenIssuesInput) map[string]any {
				pos := in.Position
				if pos == "" {
					pos = "START"
				}
				return input(vars{"issueIds": in.IssueIDs, "pipelineId": in.PipelineID, "position": pos})
			}),
		newTool("move_issue", "Move issues to a position in a pipeline", moveIssues),
		passthrough("add_assignees_to_issues", "Add assignees to multiple issues", addAssigneesToIssuesDoc,
			func(in assigneesInput) map[string]any {
				return input(vars{"issueIds": in.IssueIDs, "assigneeIds": in.Assignees})
			}),
		passthrough("remove_assignees_from_issues", "Remove assignees from multiple issues", removeAssigneesFromIssuesDoc,
			func(in assigneesInput) map[string]any {
				return input(vars{"issueIds": in.IssueIDs, "assigneeIds": in.Assignees})
			}),
		passthrough("add_labels_to_issues", "Add labels to multiple issues", addLabelsToIssuesDoc,
			func(in labelsInput) map[string]any {
				return input(vars{"issueIds": in.IssueIDs, "labelIds": in.Labels})
			}),
		passthrough("remove_labels_from_issues", "Remove labels from multiple issues", removeLabelsFromIssuesDoc,
			func(in labelsInput) map[string]any {
				return input(vars{"issueIds": in.IssueIDs, "labelIds": in.Labels})
			}),
		passthrough("set_estimate", "Set an estimate for an issue", setEstimateDoc, estimateInput.vars),
		newTool("set_multiple_estimates", "Set estimates on multiple issues", setMultipleEstimates),
		passthrough("add_issues_to_epics", "Add issues to epics", addIssuesToEpicsDoc, issuesEpicsInput.vars),
		passthrough("remove_issues_from_epics", "Remove issues from epics", removeIssuesFromEpicsDoc, issuesEpicsInput.vars),
	}
}

// desiredIssueType is Bug when any label is "bug" in any case, else Task.
func desiredIssueType(labels []string) string {
	for _, l := range labels {
		if strings.EqualFold(l, "bug") {
			return IssueTypeBug
		}
	}
	return IssueTypeTask
}

// skippedTypeNote explains a null updatedIssue.
const skippedTypeNote = "issue type not set: no GitHub token configured (set GITHUB_PAT)"

type createIssueResult struct {
	CreatedIssue json.RawMessage `json:"createdIssue"`
	UpdatedIssue json.RawMessage `json:"updatedIssue"`
	Note         string          `json:"note,omitempty"`
}

// createIssue creates the issue through ZenHub, then sets its GitHub issue
// type. The type update waits for the new issue to become visible on GitHub.
func createIssue(ctx context.Context, in createIssueInput, up *tooling.Upstream) (*tooling.Envelope, error) {
	data, err := up.Execute(ctx, createIssueDoc, in.vars())
	if err != nil {
		return nil, err
	}
	created := tooling.Field(data, "createIssue", "issue")
	issueURL := tooling.StringField(created, "htmlUrl")
	step := "createIssue"
	if id := tooling.StringField(created, "id"); id != "" {
		step += " " + id
	}

	ref, err := github.ParseIssueURL(issueURL)
	if err != nil {
		return nil, tooling.Partial(step, fmt.Errorf("Unable to parse issue URL returned from createIssue: %s", issueURL))
	}
	if !up.HasIssues() {
		return tooling.JSONEnvelope(createIssueResult{CreatedIssue: created, Note: skippedTypeNote})
	}
	upd, err := up.SetIssueType(ctx, ref, desiredIssueType(in.Labels))
	if err != nil {
		return nil, tooling.Partial(step, err)
	}
	return tooling.JSONEnvelope(createIssueResult{CreatedIssue: created, UpdatedIssue: upd.Issue})
}

type createIssueWithEpicResult struct {
	CreatedIssue json.RawMessage `json:"createdIssue"`
	AddedToEpic  json.RawMessage `json:"addedToEpic"`
}

func createIssueWithEpic(ctx context.Context, in createIssueWithEpicInput, up *tooling.Upstream) (*tooling.Envelope, error) {
	data, err := up.Execute(ctx, createIssueDoc, in.issue().vars())
	if err != nil {
		return nil, err
	}
	created := tooling.Field(data, "createIssue", "issue")
	id := tooling.StringField(created, "id")
	if id == "" {
		return nil, errors.New("Failed to create issue")
	}

	added, err := up.Execute(ctx, addIssuesToEpicsDoc, issuesEpicsInput{
		IssueIDs: []string{id},
		EpicIDs:  []string{in.EpicID},
	}.vars())
	if err != nil {
		return nil, tooling.Partial("createIssue "+id, err)
	}
	return tooling.JSONEnvelope(createIssueWithEpicResult{
		CreatedIssue: created,
		AddedToEpic:  tooling.Field(added, "addIssuesToEpics"),
	})
}

// moveIssues issues one moveIssue per id, in order. A single id returns the
// mutation data unchanged; several return an array.
func moveIssues(ctx context.Context, in moveIssueInput, up *tooling.Upstream) (*tooling.Envelope, error) {
	move := func(id string) vars {
		v := vars{"pipelineId": in.PipelineID}.optInt("position", in.Position)
		if id != "" {
			v["issueId"] = id
		}
		return v
	}
	if len(in.IssueIDs) <= 1 {
		id := ""
		if len(in.IssueIDs) == 1 {
			id = in.IssueIDs[0]
		}
		return up.Passthrough(ctx, moveIssueDoc, input(move(id)))
	}

	results := make([]json.RawMessage, 0, len(in.IssueIDs))
	for i, id := range in.IssueIDs {
		data, err := up.Execute(ctx, moveIssueDoc, input(move(id)))
		if err != nil {
			if i == 0 {
				return nil, err
			}
			return nil, tooling.Partial("moveIssue "+strings.Join(in.IssueIDs[:i], ", "), err)
		}
		results = append(results, data)
	}
	return tooling.JSONEnvelope(results)
}

// setMultipleEstimates fans out one setEstimate per entry. Results keep the
// input order regardless of completion order. A failure does not cancel the
// other estimates, so every applied estimate is reported.
func setMultipleEstimates(ctx context.Context, in multipleEstimatesInput, up *tooling.Upstream) (*tooling.Envelope, error) {
	results := make([]json.RawMessage, len(in.Estimates))
	var g errgroup.Group
	for i, est := range in.Estimates {
		g.Go(func() error {
			data, err := up.Execute(ctx, setEstimateDoc, est.vars())
			if err != nil {
				return err
			}
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var applied []string
		for i, r := range results {
			if r != nil {
				applied = append(applied, in.Estimates[i].IssueID)
			}
		}
		if len(applied) == 0 {
			return nil, err
		}
		return nil, tooling.Partial("setEstimate "+strings.Join(applied, ", "), err)
	}
	return tooling.JSONEnvelope(results)
}
