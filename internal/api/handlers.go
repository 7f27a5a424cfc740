package api

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/modelgate/modelgate/internal/config"
	"github.com/modelgate/modelgate/internal/domain"
	"github.com/modelgate/modelgate/internal/envelope"
	"github.com/modelgate/modelgate/internal/llm"
	"github.com/modelgate/modelgate/internal/metrics"
	"github.com/modelgate/modelgate/internal/middleware"
	"github.com/modelgate/modelgate/internal/tasks"
)

const maxUploadBytes = 10 << 20

var allowedAudioExt = map[string]bool{
	".mp3": true,
	".wav": true,
	".m4a": true,
	".ogg": true,
}

type Handlers struct {
	registry *tasks.Registry
	client   llm.Client
}

func RegisterRoutes(router *gin.Engine, cfg config.Config, logger *log.Logger, registry *tasks.Registry, client llm.Client) {
	norm := middleware.NewNormalizer(cfg, logger)
	h := &Handlers{registry: registry, client: client}

	router.POST("/ai/execute", norm.Wrap(h.execute))
	router.GET("/ai/tasks", norm.Wrap(h.listTasks))
	router.GET("/healthz", norm.Wrap(h.health))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Legacy browser surface.
	router.POST("/upload", norm.Wrap(h.uploadAudio))

	router.NoRoute(norm.NotFound())
}

// execute validates in order, resolves the task, runs the forced function
// call and merges the parsed fields into the success payload. Validation
// failures never reach the completion client.
func (h *Handlers) execute(c *gin.Context) (any, error) {
	var req domain.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, envelope.NewError(http.StatusBadRequest, "Invalid request body")
	}
	if req.TaskID == "" || req.InputText == "" {
		return nil, envelope.NewError(http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.InputText) == "" {
		return nil, envelope.NewBadRequest("EMPTY_INPUT_TEXT", "whitespaces are not allowed")
	}

	task, ok := h.registry.Lookup(domain.TaskID(req.TaskID))
	if !ok {
		return nil, envelope.NewBadRequest("INVALID_TASK_ID", "task_id is not supported")
	}

	raw, err := h.client.Complete(c.Request.Context(), task, req.InputText)
	if err != nil {
		return nil, err
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, envelope.NewError(http.StatusBadRequest, "AI response schema validation failed")
	}

	payload := map[string]any{"task_id": req.TaskID}
	for k, v := range parsed {
		payload[k] = v
	}

	return map[string]any{
		"message": "AI execution successful",
		"payload": payload,
	}, nil
}

func (h *Handlers) listTasks(c *gin.Context) (any, error) {
	return h.registry.IDs(), nil
}

func (h *Handlers) health(c *gin.Context) (any, error) {
	return map[string]any{"status": "ok"}, nil
}

// uploadAudio is the legacy form flow. Errors surface as flash + redirect;
// success redirects back to the referring page, so the normalizer has
// nothing left to write.
func (h *Handlers) uploadAudio(c *gin.Context) (any, error) {
	file, err := c.FormFile("audio")
	if err != nil {
		return nil, &middleware.UploadFieldError{Field: "audio", Message: "Audio file is required"}
	}
	if !allowedAudioExt[strings.ToLower(filepath.Ext(file.Filename))] {
		return nil, &middleware.UploadFieldError{Field: "audio", Message: "Only audio files are allowed"}
	}
	if file.Size > maxUploadBytes {
		return nil, middleware.ErrUploadTooLarge
	}

	referer := c.Request.Referer()
	if referer == "" {
		referer = "/"
	}
	c.Redirect(http.StatusFound, referer)
	return nil, nil
}
