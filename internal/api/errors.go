package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/workspace-api/internal/api/shared"
	"github.com/phrazzld/workspace-api/internal/domain"
	"github.com/phrazzld/workspace-api/internal/platform/logger"
	"github.com/phrazzld/workspace-api/internal/redact"
)

// genericErrorMessage is sent for failures that carry no caller-safe message.
const genericErrorMessage = "An unexpected error occurred"

// ErrorPolicy controls how errors are rendered to callers.
type ErrorPolicy struct {
	// IncludeDiagnostics renders a ServiceError's diagnostic payload.
	// Enable only in developer-mode deployments.
	IncludeDiagnostics bool
}

// Render writes err as a JSON error response. ServiceErrors have already
// been logged by the service layer, so only unclassified errors are logged
// here.
func (p ErrorPolicy) Render(w http.ResponseWriter, r *http.Request, err error) {
	svcErr, ok := domain.AsServiceError(err)
	if !ok {
		logger.FromContext(r.Context()).Error("unclassified error reached the API boundary",
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)),
			slog.String("path", r.URL.Path),
			slog.String("method", r.Method))
		shared.RespondWithError(w, r, http.StatusInternalServerError, genericErrorMessage, nil)
		return
	}

	var diagnostic *domain.Diagnostic
	if p.IncludeDiagnostics {
		diagnostic = svcErr.Diagnostic
	}
	shared.RespondWithError(w, r, svcErr.Kind.HTTPStatus(), svcErr.Message, diagnostic)
}

// reject logs and renders a request that failed before reaching the
// service layer.
func (p ErrorPolicy) reject(w http.ResponseWriter, r *http.Request, svcErr *domain.ServiceError) {
	logger.FromContext(r.Context()).Warn("request rejected",
		slog.String("error_kind", svcErr.Kind.String()),
		slog.String("error", svcErr.Message),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method))
	p.Render(w, r, svcErr)
}
