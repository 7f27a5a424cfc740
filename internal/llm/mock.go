package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/modelgate/modelgate/internal/domain"
)

// MockClient stands in for the completion endpoint when no API key is
// configured. It honors each task's schema with canned values.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Name() string {
	return "mock"
}

func (m *MockClient) Complete(_ context.Context, task domain.TaskDefinition, inputText string) (string, error) {
	fields := make(map[string]any, len(task.Schema.Properties))
	for name, prop := range task.Schema.Properties {
		switch {
		case name == "status":
			fields[name] = "success"
		case len(prop.Enum) > 0:
			fields[name] = prop.Enum[0]
		default:
			fields[name] = "[mock " + name + "] " + truncate(strings.TrimSpace(inputText), 80)
		}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
