package tasks

import (
	"sort"

	"github.com/modelgate/modelgate/internal/domain"
)

const toolName = "structured_response"

const summarizePrompt = `You must respond ONLY by calling the provided function.
You must not output text.
You must not explain.
You must not add extra fields.
You must return valid JSON only.`

const classifyPrompt = `You must classify the input text.
Respond ONLY using the provided function.
Return valid JSON only.`

// Registry is the read-only task catalog. Built once at startup and injected
// into the handler set; lookups are pure.
type Registry struct {
	tasks map[domain.TaskID]domain.TaskDefinition
}

func NewRegistry() *Registry {
	defs := []domain.TaskDefinition{
		{
			ID:           domain.TaskSummarizeV1,
			SystemPrompt: summarizePrompt,
			ToolName:     toolName,
			ToolDesc:     "Return structured execution output",
			Schema: domain.ToolSchema{
				Type: "object",
				Properties: map[string]domain.Property{
					"summary": {Type: "string"},
					"status":  {Type: "string", Enum: []string{"success", "failure"}},
				},
				Required: []string{"summary", "status"},
			},
		},
		{
			ID:           domain.TaskClassifyV1,
			SystemPrompt: classifyPrompt,
			ToolName:     toolName,
			ToolDesc:     "Return classification result",
			Schema: domain.ToolSchema{
				Type: "object",
				Properties: map[string]domain.Property{
					"category": {Type: "string"},
					"status":   {Type: "string", Enum: []string{"success", "failure"}},
				},
				Required: []string{"category", "status"},
			},
		},
	}

	tasks := make(map[domain.TaskID]domain.TaskDefinition, len(defs))
	for _, def := range defs {
		tasks[def.ID] = def
	}
	return &Registry{tasks: tasks}
}

func (r *Registry) Lookup(id domain.TaskID) (domain.TaskDefinition, bool) {
	def, ok := r.tasks[id]
	return def, ok
}

func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.tasks))
	for id := range r.tasks {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	return ids
}
