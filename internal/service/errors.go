package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/workspace-api/internal/domain"
	"github.com/phrazzld/workspace-api/internal/redact"
)

// Pipeline stages reported on failure.
const (
	stageValidate = "validate"
	stageQuery    = "query"
	stageEnrich   = "enrich"
)

// Failure log messages. The logger passed to fail carries the operation.
const (
	logMsgRejected = "workspace operation rejected"
	logMsgFailed   = "workspace operation failed"
)

// translate returns err as a ServiceError, wrapping anything unclassified
// as Internal behind message.
func translate(err error, message string) *domain.ServiceError {
	if svcErr, ok := domain.AsServiceError(err); ok {
		return svcErr
	}
	return internalError(message, err)
}

// internalError wraps cause with a diagnostic naming the failure.
func internalError(message string, cause error) *domain.ServiceError {
	return domain.NewInternalError(message, cause).
		WithDiagnostic(redact.Error(cause), time.Now().UTC())
}

// fail logs svcErr once and returns it. Client errors are logged at warn
// level; internal errors at error level with the redacted cause.
func fail(
	ctx context.Context,
	log *slog.Logger,
	stage string,
	svcErr *domain.ServiceError,
) error {
	attrs := []any{
		"stage", stage,
		"error_kind", svcErr.Kind.String(),
		"error", svcErr.Message,
	}

	if svcErr.Kind == domain.KindInternal {
		if cause := svcErr.Unwrap(); cause != nil {
			attrs = append(attrs, "cause", redact.Error(cause))
		}
		log.ErrorContext(ctx, logMsgFailed, attrs...)
		return svcErr
	}

	log.WarnContext(ctx, logMsgRejected, attrs...)
	return svcErr
}
