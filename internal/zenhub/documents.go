package zenhub

import (
	"embed"
	"fmt"

	"github.com/derekbar90/zenhub-mcp/internal/graphql"
)

//go:embed queries/*.graphql
var queryFS embed.FS

// document loads and parses queries/{name}.graphql. The embedded set is fixed
// at build time, so a missing or malformed file is a programming error.
func document(name string) graphql.Document {
	src, err := queryFS.ReadFile("queries/" + name + ".graphql")
	if err != nil {
		panic(fmt.Sprintf("zenhub: missing document %s: %v", name, err))
	}
	return graphql.MustParse(name, string(src))
}

// Issues
var (
	createIssueDoc               = document("createIssue")
	updateIssueDoc               = document("updateIssue")
	closeIssuesDoc               = document("closeIssues")
	reopenIssuesDoc              = document("reopenIssues")
	moveIssueDoc                 = document("moveIssue")
	addAssigneesToIssuesDoc      = document("addAssigneesToIssues")
	removeAssigneesFromIssuesDoc = document("removeAssigneesFromIssues")
	addLabelsToIssuesDoc         = document("addLabelsToIssues")
	removeLabelsFromIssuesDoc    = document("removeLabelsFromIssues")
	setEstimateDoc               = document("setEstimate")
	addIssuesToEpicsDoc          = document("addIssuesToEpics")
	removeIssuesFromEpicsDoc     = document("removeIssuesFromEpics")
)

// Epics
var (
	createEpicDoc            = document("createEpic")
	createEpicFromIssueDoc   = document("createEpicFromIssue")
	createZenhubEpicDoc      = document("createZenhubEpic")
	updateZenhubEpicDoc      = document("updateZenhubEpic")
	updateZenhubEpicDatesDoc = document("updateZenhubEpicDates")
	deleteZenhubEpicDoc      = document("deleteZenhubEpic")
)

// Workspaces
var (
	createWorkspaceDoc           = document("createWorkspace")
	getUserWorkspacesFromOrgsDoc = document("getUserWorkspacesFromOrgs")
	searchUserWorkspacesDoc      = document("searchUserWorkspaces")
	getUserOrganizationsDoc      = document("getUserOrganizations")
	getWorkspaceOverviewDoc      = document("getWorkspaceOverview")
	getOrganizationWorkspacesDoc = document("getOrganizationWorkspaces")
)

// Repositories
var (
	getWorkspaceRepositoriesDoc      = document("getWorkspaceRepositories")
	getRepositoriesByGhIdsDoc        = document("getRepositoriesByGhIds")
	addRepositoryToWorkspaceDoc      = document("addRepositoryToWorkspace")
	disconnectWorkspaceRepositoryDoc = document("disconnectWorkspaceRepository")
	getRepositoryDetailsDoc          = document("getRepositoryDetails")
	getRepositoryAssignableUsersDoc  = document("getRepositoryAssignableUsers")
)

// Sprints
var (
	createSprintConfigDoc               = document("createSprintConfig")
	updateSprintDoc                     = document("updateSprint")
	addIssuesToSprintsDoc               = document("addIssuesToSprints")
	removeIssuesFromSprintsDoc          = document("removeIssuesFromSprints")
	deleteSprintConfigAndOpenSprintsDoc = document("deleteSprintConfigAndOpenSprints")
	getWorkspaceSprintsDoc              = document("getWorkspaceSprints")
)

// Pipelines
var (
	createPipelineDoc        = document("createPipeline")
	updatePipelineDoc        = document("updatePipeline")
	deletePipelineDoc        = document("deletePipeline")
	getWorkspacePipelinesDoc = document("getWorkspacePipelines")
)

// Milestones
var (
	createMilestoneDoc         = document("createMilestone")
	updateMilestoneDoc         = document("updateMilestone")
	addMilestoneToIssuesDoc    = document("addMilestoneToIssues")
	removeMilestoneToIssuesDoc = document("removeMilestoneToIssues")
	deleteMilestoneDoc         = document("deleteMilestone")
)

// Dependencies
var (
	createIssueDependencyDoc = document("createIssueDependency")
	deleteIssueDependencyDoc = document("deleteIssueDependency")
)

// Labels
var (
	createGithubLabelDoc   = document("createGithubLabel")
	createZenhubLabelDoc   = document("createZenhubLabel")
	deleteZenhubLabelsDoc  = document("deleteZenhubLabels")
	getRepositoryLabelsDoc = document("getRepositoryLabels")
	getWorkspaceLabelsDoc  = document("getWorkspaceLabels")
)

// Users
var (
	getWorkspaceUsersDoc = document("getWorkspaceUsers")
	ownerByLoginDoc      = document("ownerByLogin")
	ownerByGhIdDoc       = document("ownerByGhId")
)

// Queries
var (
	searchIssuesByPipelineDoc = document("searchIssuesByPipeline")
	searchIssuesDoc           = document("searchIssues")
	workspaceIssuesDoc        = document("workspaceIssues")
	viewerDoc                 = document("viewer")
	issueByInfoDoc            = document("issueByInfo")
)
