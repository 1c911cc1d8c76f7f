package gateway

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/alt-project/adminctl/internal/domain"
)

// statusMessages are shown when the backend sends no usable error body.
var statusMessages = map[int]string{
	http.StatusBadRequest:          "The request was malformed or invalid",
	http.StatusUnauthorized:        "Authentication failed",
	http.StatusForbidden:           "Access to this resource is denied",
	http.StatusNotFound:            "The requested resource was not found",
	http.StatusConflict:            "The request conflicts with the current state",
	http.StatusUnprocessableEntity: "The request could not be processed",
	http.StatusTooManyRequests:     "Rate limit exceeded, please slow down",
	http.StatusInternalServerError: "An internal error occurred",
	http.StatusBadGateway:          "Backend service is temporarily unavailable",
	http.StatusServiceUnavailable:  "Service is temporarily unavailable",
	http.StatusGatewayTimeout:      "Backend service timed out",
}

const unknownStatusMessage = "An unexpected error occurred"

// StatusMessage returns the generic message for status.
func StatusMessage(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return unknownStatusMessage
}

// statusError maps a non-2xx response to the domain error taxonomy.
func statusError(status int, body []byte) error {
	msg := bodyMessage(body)
	if msg == "" {
		msg = StatusMessage(status)
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &domain.AuthError{Status: status, Message: msg}
	case http.StatusNotFound:
		return domain.NewNotFoundError(msg)
	default:
		return &domain.HTTPError{Status: status, Message: msg}
	}
}

// bodyMessage extracts message, error or detail from a JSON error body.
func bodyMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, field := range []string{"message", "error", "detail"} {
		if s, ok := payload[field].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
