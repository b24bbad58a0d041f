package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/phrazzld/workspace-api/internal/domain"
	"github.com/phrazzld/workspace-api/internal/platform/logger"
)

// ErrorResponse defines the standard error response structure.
type ErrorResponse struct {
	Error      string             `json:"error"`
	Status     int                `json:"status"`
	TraceID    string             `json:"trace_id,omitempty"`
	Diagnostic *domain.Diagnostic `json:"diagnostic,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes a JSON error response carrying the request's
// trace ID. diagnostic may be nil.
func RespondWithError(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	message string,
	diagnostic *domain.Diagnostic,
) {
	traceID := GetTraceID(r.Context())

	logger.FromContext(r.Context()).Debug("sending error response",
		slog.Int("status_code", status),
		slog.String("message", message),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method))

	RespondWithJSON(w, r, status, ErrorResponse{
		Error:      message,
		Status:     status,
		TraceID:    traceID,
		Diagnostic: diagnostic,
	})
}
