package domain

import (
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"
)

// Sentinels matched by errors.Is against a *ServiceError of the same kind.
var (
	// ErrValidation matches any Validation-kind ServiceError.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound matches any NotFound-kind ServiceError.
	ErrNotFound = errors.New("not found")

	// ErrInternal matches any Internal-kind ServiceError.
	ErrInternal = errors.New("internal error")
)

// Kind classifies a ServiceError.
type Kind int

// Error kinds.
const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// HTTPStatus returns the outward status classification for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	default:
		return ErrInternal
	}
}

// Diagnostic is optional fault-safe data a throw site attaches to an error.
// It is only rendered to callers of developer-mode deployments.
type Diagnostic struct {
	Info      string    `json:"info"`
	Timestamp time.Time `json:"timestamp"`
}

// ServiceError is the only error type public operations return.
//
// Message is safe to show to callers. Err holds the underlying cause for
// logging and is never rendered.
type ServiceError struct {
	Kind       Kind
	Message    string
	Diagnostic *Diagnostic
	Err        error
}

// Error implements the error interface. It returns the caller-safe message only.
func (e *ServiceError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *ServiceError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// WithDiagnostic attaches a diagnostic payload and returns e.
func (e *ServiceError) WithDiagnostic(info string, at time.Time) *ServiceError {
	e.Diagnostic = &Diagnostic{Info: info, Timestamp: at}
	return e
}

// maxQuotedValue caps how many runes of a rejected value a message quotes.
const maxQuotedValue = MaxQueryLength

// NewValidationError reports that field had value and violated constraint.
// Long values are truncated in the message.
func NewValidationError(field, value, constraint string) *ServiceError {
	return &ServiceError{
		Kind:    KindValidation,
		Message: fmt.Sprintf("%s %q %s", field, truncateValue(value), constraint),
	}
}

func truncateValue(value string) string {
	if utf8.RuneCountInString(value) <= maxQuotedValue {
		return value
	}
	runes := []rune(value)
	return string(runes[:maxQuotedValue]) + "..."
}

// NewNotFoundError reports that the workspace with the given id does not exist.
func NewNotFoundError(id int64) *ServiceError {
	return &ServiceError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("Workspace %d not found.", id),
	}
}

// NewInternalError wraps cause behind a generic message.
func NewInternalError(message string, cause error) *ServiceError {
	return &ServiceError{
		Kind:    KindInternal,
		Message: message,
		Err:     cause,
	}
}

// AsServiceError extracts a *ServiceError from err's chain.
func AsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, treating anything that is not a
// ServiceError as Internal.
func KindOf(err error) Kind {
	if svcErr, ok := AsServiceError(err); ok {
		return svcErr.Kind
	}
	return KindInternal
}
