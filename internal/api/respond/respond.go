// Package respond writes the API's uniform JSON envelope: successes carry
// message and data, failures carry error and optional details.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

type Envelope struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a success envelope. Data may be nil for message-only
// responses; an empty slice is encoded as [] rather than omitted.
func OK(w http.ResponseWriter, status int, message string, data any) {
	writeEnvelope(w, status, Envelope{Message: message, Data: data})
}

// Error writes a failure envelope and logs via the request-scoped logger.
// The underlying cause is exposed in details only outside production.
func Error(w http.ResponseWriter, r *http.Request, status int, message string, cause error, env string) {
	envelope := Envelope{Error: message}
	if cause != nil && (env == "development" || env == "test") {
		envelope.Details = cause.Error()
	}

	if r != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Err(cause).
			Int("status", status).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(message)
	}

	writeEnvelope(w, status, envelope)
}
