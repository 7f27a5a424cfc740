package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/modelgate/modelgate/internal/config"
	"github.com/modelgate/modelgate/internal/domain"
	"github.com/modelgate/modelgate/internal/metrics"
	"github.com/modelgate/modelgate/internal/middleware"
)

// Client is the structured completion client: one forced function call per
// request, raw argument text back.
type Client interface {
	Name() string
	Complete(ctx context.Context, task domain.TaskDefinition, inputText string) (string, error)
}

// ErrNoToolCall means the model response carried no function tool call, or
// the first entry was not of the function kind.
var ErrNoToolCall = errors.New("no function tool call returned by model")

// UpstreamError is a non-2xx reply from the completion endpoint.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("%s request failed with status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed with status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// NewClientFromConfig picks the real provider when an API key is configured
// and falls back to the mock otherwise.
func NewClientFromConfig(cfg config.Config, logger *log.Logger) Client {
	if cfg.OpenAIAPIKey != "" {
		return NewOpenAIClient(cfg, logger)
	}
	return NewMockClient()
}

func observe(ctx context.Context, logger *log.Logger, provider string, task string, call func() (string, error)) (string, error) {
	started := time.Now()
	requestID := middleware.GetRequestIDFromContext(ctx)

	logger.Debug("model call start",
		"request_id", requestID,
		"provider", provider,
		"task", task,
	)

	result, err := call()

	status := "success"
	category := "none"
	if err != nil {
		status = "error"
		category = errorCategory(err)
	}

	duration := time.Since(started)
	metrics.RecordModelCall(provider, task, status, category, duration)
	logger.Info("model call",
		"request_id", requestID,
		"provider", provider,
		"task", task,
		"status", status,
		"error_category", category,
		"duration_ms", duration.Milliseconds(),
	)

	return result, err
}

func errorCategory(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrNoToolCall):
		return "protocol"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return "http"
	}
	return "other"
}
