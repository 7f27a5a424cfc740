package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/modelgate/modelgate/internal/config"
	"github.com/modelgate/modelgate/internal/envelope"
)

// HandlerFunc is the shape every route handler takes. Handlers return values
// and errors; they never write the response themselves.
type HandlerFunc func(*gin.Context) (any, error)

// Normalizer owns the response boundary: every handler is composed through
// Wrap, so every body the service emits goes through exactly one of the
// success or error paths below.
type Normalizer struct {
	cfg    config.Config
	logger *log.Logger
}

func NewNormalizer(cfg config.Config, logger *log.Logger) *Normalizer {
	return &Normalizer{cfg: cfg, logger: logger}
}

func (n *Normalizer) Wrap(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := n.invoke(c, h)
		if err != nil {
			n.writeError(c, err)
			return
		}
		n.writeSuccess(c, value)
	}
}

func (n *Normalizer) invoke(c *gin.Context, h HandlerFunc) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r, stack: debug.Stack()}
		}
	}()
	return h(c)
}

func (n *Normalizer) writeSuccess(c *gin.Context, value any) {
	if c.Writer.Written() {
		return
	}

	if env, ok := value.(*envelope.Envelope); ok && env != nil {
		c.JSON(env.StatusCode, env)
		return
	}

	message, label, payload := extractData(value)
	env := envelope.OK(payload, message, label, GetRequestID(c))
	c.JSON(env.StatusCode, env)
}

func (n *Normalizer) writeError(c *gin.Context, err error) {
	if c.Writer.Written() {
		return
	}

	var passThrough *envelope.PassThroughError
	if errors.As(err, &passThrough) {
		c.JSON(passThrough.Env.StatusCode, passThrough.Env)
		return
	}

	requestID := GetRequestID(c)

	var declared *envelope.Error
	if errors.As(err, &declared) {
		c.JSON(declared.Status, declaredEnvelope(declared, requestID))
		return
	}

	if !IsAPIPath(c.Request.URL.Path) && n.handleLegacyError(c, err) {
		return
	}

	message := err.Error()
	payload := map[string]any{"name": errorName(err)}

	var panicked *panicError
	if errors.As(err, &panicked) && n.cfg.IsDevelopment() {
		payload["stack"] = string(panicked.stack)
	}

	n.logger.Error("unhandled error",
		"request_id", requestID,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"err", err,
	)

	c.JSON(http.StatusInternalServerError,
		envelope.ServerError(message, http.StatusInternalServerError, payload, requestID))
}

// NotFound is the fallback for unmatched routes. API callers get a JSON
// envelope; browser routes get the rendered not-found page.
func (n *Normalizer) NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAPIPath(c.Request.URL.Path) {
			message := fmt.Sprintf("Cannot %s %s", c.Request.Method, c.Request.URL.Path)
			c.JSON(http.StatusNotFound, envelope.NotFound(message, GetRequestID(c)))
			return
		}
		c.HTML(http.StatusNotFound, "404.html", gin.H{
			"title":     "404",
			"pageTitle": "Not Found",
		})
	}
}

func IsAPIPath(path string) bool {
	return strings.HasPrefix(path, "/ai") ||
		strings.HasPrefix(path, "/healthz") ||
		strings.HasPrefix(path, "/metrics")
}

func declaredEnvelope(declared *envelope.Error, requestID string) *envelope.Envelope {
	message := declared.Message
	if message == "" {
		message = http.StatusText(declared.Status)
	}
	label := declared.Label
	if label == "" {
		label = statusLabel(declared.Status)
	}
	return envelope.New(false, declared.Status, message, label, declared.Payload, requestID)
}

func statusLabel(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return envelope.LabelServerError
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}

// extractData mirrors the success-normalizer policy: arrays are payloads as
// is, maps may carry message/messageLBL/payload keys, anything else is the
// payload itself.
func extractData(value any) (message string, label string, payload any) {
	if value == nil {
		return "", "", nil
	}

	if m, ok := value.(map[string]any); ok {
		message, _ = m["message"].(string)
		label, _ = m["messageLBL"].(string)

		if explicit, exists := m["payload"]; exists {
			return message, label, explicit
		}

		rest := make(map[string]any, len(m))
		for k, v := range m {
			switch k {
			case "message", "messageLBL", "success":
				continue
			}
			rest[k] = v
		}
		if len(rest) == 0 {
			return message, label, nil
		}
		return message, label, rest
	}

	// Arrays and anything else are the payload as-is.
	return "", "", value
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func errorName(err error) string {
	var panicked *panicError
	if errors.As(err, &panicked) {
		return "Panic"
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" || t.Name() == "errorString" {
		return "Error"
	}
	return t.Name()
}
