package domain

type TaskID string

const (
	TaskSummarizeV1 TaskID = "TASK_SUMMARIZE_V1"
	TaskClassifyV1  TaskID = "TASK_CLASSIFY_V1"
)

// ToolSchema is the JSON-schema shaped parameter block declared to the model
// for the forced function call.
type ToolSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type Property struct {
	Type string   `json:"type"`
	Enum []string `json:"enum,omitempty"`
}

// TaskDefinition pairs the system prompt handed to the model with the output
// schema the forced function call must honor. Built once at startup, never
// mutated afterwards.
type TaskDefinition struct {
	ID           TaskID
	SystemPrompt string
	ToolName     string
	ToolDesc     string
	Schema       ToolSchema
}

type ExecuteRequest struct {
	TaskID    string `json:"task_id"`
	InputText string `json:"input_text"`
}
