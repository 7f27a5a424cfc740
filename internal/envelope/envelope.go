package envelope

import (
	"net/http"
	"reflect"

	"github.com/google/uuid"
)

// Envelope is the canonical body for every HTTP response the service emits,
// success or failure.
type Envelope struct {
	RequestID  string `json:"requestId"`
	Result     bool   `json:"result"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	MessageLBL string `json:"messageLBL"`
	Payload    any    `json:"payload"`
}

const (
	LabelSuccess     = "SUCCESS"
	LabelBadRequest  = "BAD_REQUEST"
	LabelServerError = "INTERNAL_SERVER_ERROR"
)

func New(result bool, status int, message string, label string, payload any, requestID string) *Envelope {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return &Envelope{
		RequestID:  requestID,
		Result:     result,
		StatusCode: status,
		Message:    message,
		MessageLBL: label,
		Payload:    NormalizePayload(payload),
	}
}

func OK(payload any, message string, label string, requestID string) *Envelope {
	if message == "" {
		message = "Request successful"
	}
	if label == "" {
		label = LabelSuccess
	}
	return New(true, http.StatusOK, message, label, payload, requestID)
}

func BadRequest(message string, label string, payload any, requestID string) *Envelope {
	if message == "" {
		message = "Bad Request"
	}
	if label == "" {
		label = LabelBadRequest
	}
	return New(false, http.StatusBadRequest, message, label, payload, requestID)
}

func Unauthorized(message string, requestID string) *Envelope {
	if message == "" {
		message = "Unauthorized"
	}
	return New(false, http.StatusUnauthorized, message, "UNAUTHORIZED", nil, requestID)
}

func Forbidden(message string, requestID string) *Envelope {
	if message == "" {
		message = "Forbidden"
	}
	return New(false, http.StatusForbidden, message, "FORBIDDEN", nil, requestID)
}

func NotFound(message string, requestID string) *Envelope {
	if message == "" {
		message = "Not Found"
	}
	return New(false, http.StatusNotFound, message, "NOT_FOUND", nil, requestID)
}

func GatewayTimeout(message string, requestID string) *Envelope {
	if message == "" {
		message = "Gateway Timeout"
	}
	return New(false, http.StatusGatewayTimeout, message, "GATEWAY_TIMEOUT", nil, requestID)
}

func ServerError(message string, status int, payload any, requestID string) *Envelope {
	if message == "" {
		message = "Internal server error"
	}
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return New(false, status, message, LabelServerError, payload, requestID)
}

// NormalizePayload collapses absent values to an explicit null. Empty objects
// become nil; arrays pass through verbatim, including empty ones.
func NormalizePayload(payload any) any {
	if payload == nil {
		return nil
	}
	v := reflect.ValueOf(payload)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil
		}
	case reflect.Map:
		if v.IsNil() || v.Len() == 0 {
			return nil
		}
	case reflect.Slice:
		if v.IsNil() {
			return []any{}
		}
	}
	return payload
}
