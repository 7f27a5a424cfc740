package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelgate/modelgate/internal/config"
	"github.com/modelgate/modelgate/internal/domain"
)

func testLogger() *charmlog.Logger {
	return charmlog.New(io.Discard)
}

func testTask() domain.TaskDefinition {
	return domain.TaskDefinition{
		ID:           domain.TaskSummarizeV1,
		SystemPrompt: "You must respond ONLY by calling the provided function.",
		ToolName:     "structured_response",
		ToolDesc:     "Return structured execution output",
		Schema: domain.ToolSchema{
			Type: "object",
			Properties: map[string]domain.Property{
				"summary": {Type: "string"},
				"status":  {Type: "string", Enum: []string{"success", "failure"}},
			},
			Required: []string{"summary", "status"},
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Config{
		OpenAIAPIKey:  "test-key",
		OpenAIModel:   "gpt-4.1-mini",
		OpenAIBaseURL: server.URL,
	}
	return NewOpenAIClient(cfg, testLogger())
}

func toolCallResponse(arguments string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{
				"message": map[string]any{
					"tool_calls": []map[string]any{
						{
							"type": "function",
							"function": map[string]any{
								"name":      "structured_response",
								"arguments": arguments,
							},
						},
					},
				},
			},
		},
	}
}

func TestOpenAIComplete(t *testing.T) {
	t.Run("Should force the declared tool at temperature zero", func(t *testing.T) {
		var captured chatRequest
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/chat/completions", r.URL.Path)
			require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toolCallResponse(`{"summary":"short","status":"success"}`))
		})

		raw, err := client.Complete(context.Background(), testTask(), "Long article...")
		require.NoError(t, err)
		assert.JSONEq(t, `{"summary":"short","status":"success"}`, raw)

		assert.Equal(t, "gpt-4.1-mini", captured.Model)
		assert.Zero(t, captured.Temperature)
		require.Len(t, captured.Messages, 2)
		assert.Equal(t, "system", captured.Messages[0].Role)
		assert.Equal(t, "user", captured.Messages[1].Role)
		assert.Contains(t, captured.Messages[1].Content, "Task ID: TASK_SUMMARIZE_V1")
		assert.Contains(t, captured.Messages[1].Content, "Input: Long article...")
		require.Len(t, captured.Tools, 1)
		assert.Equal(t, "function", captured.Tools[0].Type)
		assert.Equal(t, "structured_response", captured.Tools[0].Function.Name)
		assert.Equal(t, "function", captured.ToolChoice.Type)
		assert.Equal(t, "structured_response", captured.ToolChoice.Function.Name)
	})

	t.Run("Should fail with ErrNoToolCall when no tool call comes back", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"free text"}}]}`))
		})

		_, err := client.Complete(context.Background(), testTask(), "hi")
		assert.ErrorIs(t, err, ErrNoToolCall)
	})

	t.Run("Should fail with ErrNoToolCall when choices are empty", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})

		_, err := client.Complete(context.Background(), testTask(), "hi")
		assert.ErrorIs(t, err, ErrNoToolCall)
	})

	t.Run("Should fail with ErrNoToolCall on a non-function entry", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			response := toolCallResponse("{}")
			choices := response["choices"].([]map[string]any)
			message := choices[0]["message"].(map[string]any)
			calls := message["tool_calls"].([]map[string]any)
			calls[0]["type"] = "custom"
			_ = json.NewEncoder(w).Encode(response)
		})

		_, err := client.Complete(context.Background(), testTask(), "hi")
		assert.ErrorIs(t, err, ErrNoToolCall)
	})

	t.Run("Should surface upstream HTTP failures with status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
		})

		_, err := client.Complete(context.Background(), testTask(), "hi")
		var upstream *UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
		assert.Equal(t, "openai", upstream.Provider)
	})

	t.Run("Should send exactly one request per call", func(t *testing.T) {
		calls := 0
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		_, err := client.Complete(context.Background(), testTask(), "hi")
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestErrorCategory(t *testing.T) {
	t.Run("Should classify protocol, http and timeout failures", func(t *testing.T) {
		assert.Equal(t, "protocol", errorCategory(ErrNoToolCall))
		assert.Equal(t, "http", errorCategory(&UpstreamError{StatusCode: 500}))
		assert.Equal(t, "timeout", errorCategory(context.DeadlineExceeded))
		assert.Equal(t, "other", errorCategory(io.ErrUnexpectedEOF))
		assert.Equal(t, "none", errorCategory(nil))
	})
}
