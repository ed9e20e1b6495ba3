// Package response provides the JSON envelope used by every API endpoint.
package response

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"

	apperrors "github.com/tilespeak/tilespeak-server/internal/errors"
)

// Envelope is the wire format for all JSON responses.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// JSON writes a success envelope with the given status and payload.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

// Message writes a success envelope carrying only a message.
func Message(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: true, Message: message})
}

// Error writes an error envelope with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Error: message})
}

// HandleError maps an error to its HTTP status and writes the envelope.
// Structured errors carry their own status; anything else is a 500 with a
// generic message so internals never leak to clients.
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if e, ok := apperrors.As(err); ok {
		if e.HTTPStatus() >= http.StatusInternalServerError {
			logger.Error("request failed", "error", err)
			Error(w, e.HTTPStatus(), "internal server error")
			return
		}
		Error(w, e.HTTPStatus(), e.Message)
		return
	}
	logger.Error("unhandled error", "error", err)
	Error(w, http.StatusInternalServerError, "internal server error")
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// json/v2 MarshalWrite doesn't add a newline, but that's fine for HTTP responses.
	// The envelope contains only marshalable types, so encoding cannot fail here.
	_ = json.MarshalWrite(w, env)
}
