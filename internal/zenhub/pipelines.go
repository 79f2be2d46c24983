package zenhub

import "github.com/derekbar90/zenhub-mcp/internal/tooling"

type createPipelineInput struct {
	Name        string `json:"name" jsonschema_description:"Pipeline name"`
	WorkspaceID string `json:"workspace_id" jsonschema_description:"Workspace ID"`
	Description string `json:"description,omitempty" jsonschema_description:"Pipeline description"`
}

type updatePipelineInput struct {
	PipelineID  string `json:"pipeline_id" jsonschema_description:"Pipeline ID"`
	Name        string `json:"name,omitempty" jsonschema_description:"Pipeline name"`
	Description string `json:"description,omitempty" jsonschema_description:"Pipeline description"`
}

type deletePipelineInput struct {
	PipelineID            string `json:"pipeline_id" jsonschema_description:"Pipeline ID"`
	DestinationPipelineID string `json:"destination_pipeline_id" jsonschema_description:"Pipeline ID to move issues to"`
}

func pipelineTools() []tooling.Tool {
	return []tooling.Tool{
		passthrough("create_pipeline", "Create a new pipeline in a workspace", createPipelineDoc,
			func(in createPipelineInput) map[string]any {
				return input(vars{"name": in.Name, "workspaceId": in.WorkspaceID, "description": in.Description})
			}),
		passthrough("update_pipeline", "Update a pipeline", updatePipelineDoc,
			func(in updatePipelineInput) map[string]any {
				return input(vars{"pipelineId": in.PipelineID}.opt("name", in.Name).opt("description", in.Description))
			}),
		passthrough("delete_pipeline", "Delete a pipeline", deletePipelineDoc,
			func(in deletePipelineInput) map[string]any {
				return input(vars{"pipelineId": in.PipelineID, "destinationPipelineId": in.DestinationPipelineID})
			}),
		passthrough("get_workspace_pipelines", "Get all pipelines in a workspace", getWorkspacePipelinesDoc, workspaceIDInput.vars),
	}
}
