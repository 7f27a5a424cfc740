package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"

	"github.com/modelgate/modelgate/internal/config"
	"github.com/modelgate/modelgate/internal/domain"
)

type OpenAIClient struct {
	model  string
	http   *resty.Client
	logger *log.Logger
}

func NewOpenAIClient(cfg config.Config, logger *log.Logger) *OpenAIClient {
	client := resty.New().
		SetBaseURL(cfg.OpenAIBaseURL).
		SetAuthToken(cfg.OpenAIAPIKey).
		SetHeader("Content-Type", "application/json")

	return &OpenAIClient{
		model:  cfg.OpenAIModel,
		http:   client,
		logger: logger,
	}
}

func (o *OpenAIClient) Name() string {
	return "openai"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type toolFunction struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  domain.ToolSchema `json:"parameters"`
}

type toolDeclaration struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolChoiceFunction struct {
	Name string `json:"name"`
}

type toolChoice struct {
	Type     string             `json:"type"`
	Function toolChoiceFunction `json:"function"`
}

type chatRequest struct {
	Model       string            `json:"model"`
	Temperature float64           `json:"temperature"`
	Messages    []chatMessage     `json:"messages"`
	Tools       []toolDeclaration `json:"tools"`
	ToolChoice  toolChoice        `json:"tool_choice"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			ToolCalls []struct {
				Type     string `json:"type"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends exactly one chat completion with a forced tool choice.
// Temperature stays pinned to zero; the model is not allowed to answer in
// free text. No retries: validation errors never reach here and upstream
// failures surface to the caller as-is.
func (o *OpenAIClient) Complete(ctx context.Context, task domain.TaskDefinition, inputText string) (string, error) {
	return observe(ctx, o.logger, o.Name(), string(task.ID), func() (string, error) {
		body := chatRequest{
			Model:       o.model,
			Temperature: 0,
			Messages: []chatMessage{
				{Role: "system", Content: task.SystemPrompt},
				{Role: "user", Content: fmt.Sprintf("Task ID: %s\nInput: %s", task.ID, inputText)},
			},
			Tools: []toolDeclaration{
				{
					Type: "function",
					Function: toolFunction{
						Name:        task.ToolName,
						Description: task.ToolDesc,
						Parameters:  task.Schema,
					},
				},
			},
			ToolChoice: toolChoice{
				Type:     "function",
				Function: toolChoiceFunction{Name: task.ToolName},
			},
		}

		var parsed chatResponse
		resp, err := o.http.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(&parsed).
			Post("/chat/completions")
		if err != nil {
			return "", err
		}
		if resp.IsError() {
			return "", &UpstreamError{
				Provider:   o.Name(),
				StatusCode: resp.StatusCode(),
				Message:    strings.TrimSpace(string(resp.Body())),
			}
		}

		if len(parsed.Choices) == 0 {
			return "", ErrNoToolCall
		}
		calls := parsed.Choices[0].Message.ToolCalls
		if len(calls) == 0 || calls[0].Type != "function" {
			return "", ErrNoToolCall
		}
		return calls[0].Function.Arguments, nil
	})
}
