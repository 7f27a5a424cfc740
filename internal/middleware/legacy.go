package middleware

import (
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// ErrUploadTooLarge is raised by the legacy upload route when the file
// exceeds the size cap.
var ErrUploadTooLarge = errors.New("upload exceeds size limit")

const uploadTooLargeMessage = "Audio file size must be less than 10 MB"

// UploadFieldError is a per-field validation failure from the legacy upload
// form. On browser routes it is surfaced via flash + redirect instead of a
// JSON body.
type UploadFieldError struct {
	Field   string
	Message string
}

func (e *UploadFieldError) Error() string {
	return fmt.Sprintf("upload field %s: %s", e.Field, e.Message)
}

func init() {
	gob.Register(map[string][]string{})
}

// handleLegacyError covers the browser-only error flows: field validation
// and size-limit failures redirect back to the referring page with the error
// stashed in the flash store. Returns true when the response was handled.
func (n *Normalizer) handleLegacyError(c *gin.Context, err error) bool {
	var fieldErr *UploadFieldError
	if errors.As(err, &fieldErr) {
		flashAndRedirect(c, map[string][]string{
			fieldErr.Field: {fieldErr.Message},
		})
		return true
	}

	if errors.Is(err, ErrUploadTooLarge) {
		flashAndRedirect(c, map[string][]string{
			"audio": {uploadTooLargeMessage},
		})
		return true
	}

	return false
}

func flashAndRedirect(c *gin.Context, formErrors map[string][]string) {
	session := sessions.Default(c)
	session.AddFlash(formErrors, "error")
	_ = session.Save()

	referer := c.Request.Referer()
	if referer == "" {
		referer = "/"
	}
	if !c.Writer.Written() {
		c.Redirect(http.StatusFound, referer)
	}
}
