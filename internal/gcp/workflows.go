package gcp

import (
	"context"
	"encoding/json"
	"fmt"

	executions "cloud.google.com/go/workflows/executions/apiv1"
	"cloud.google.com/go/workflows/executions/apiv1/executionspb"
)

// WorkflowName formats the fully qualified name of a Cloud Workflow.
func WorkflowName(projectID, location, workflowID string) string {
	return fmt.Sprintf("projects/%s/locations/%s/workflows/%s", projectID, location, workflowID)
}

// TriggerWorkflow starts an execution of workflow with argument encoded as JSON
// and returns the execution name.
func TriggerWorkflow(ctx context.Context, client *executions.Client, workflow string, argument any) (string, error) {
	payloadBytes, err := json.Marshal(argument)
	if err != nil {
		return "", fmt.Errorf("failed to marshal workflow payload: %w", err)
	}
	req := &executionspb.CreateExecutionRequest{
		Parent: workflow,
		Execution: &executionspb.Execution{
			Argument: string(payloadBytes),
		},
	}
	exec, err := client.CreateExecution(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to trigger workflow execution: %w", err)
	}
	return exec.GetName(), nil
}
