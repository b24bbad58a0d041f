package domain

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Search limits and input bounds.
const (
	// DefaultSearchLimit is used when the caller does not supply a limit.
	DefaultSearchLimit = 10

	// MaxSearchLimit caps the number of candidate ids a single search may fetch.
	MaxSearchLimit = 100

	// MaxQueryLength is the longest query string accepted, in characters.
	MaxQueryLength = 50
)

// validate is shared by all input checks in this package; validator.Validate
// is safe for concurrent use.
var validate = validator.New()

// ErrInvalidRecord is returned when a record read from a store is malformed.
var ErrInvalidRecord = errors.New("invalid record")

// Record is a named workspace as stored in the directory. Records are only
// ever produced by a store read; the service never fabricates one.
type Record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewRecord builds a Record from a store row, rejecting non-positive ids.
func NewRecord(id int64, name string) (*Record, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive, got %d", ErrInvalidRecord, id)
	}
	return &Record{ID: id, Name: name}, nil
}

// SearchRequest is a substring search over record names.
type SearchRequest struct {
	Query string
	Limit int
}

// NewSearchRequest returns a request with the default limit applied.
func NewSearchRequest(query string) SearchRequest {
	return SearchRequest{Query: query, Limit: DefaultSearchLimit}
}

// Validate checks the query and the limit. The query is not trimmed or
// case-folded.
func (r SearchRequest) Validate() error {
	if err := ValidateQuery(r.Query); err != nil {
		return err
	}
	return ValidateLimit(r.Limit)
}

// ValidateQuery fails with a Validation error when query is empty or longer
// than MaxQueryLength characters.
func ValidateQuery(query string) error {
	err := validate.Var(query, fmt.Sprintf("required,max=%d", MaxQueryLength))
	if err == nil {
		return nil
	}

	constraint := "is invalid"
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		switch fieldErrs[0].Tag() {
		case "required":
			constraint = "cannot be empty"
		case "max":
			constraint = fmt.Sprintf("cannot be greater than %d characters", MaxQueryLength)
		}
	}
	return NewValidationError("queryString", query, constraint)
}

// ValidateLimit fails with a Validation error unless 1 <= limit <= MaxSearchLimit.
func ValidateLimit(limit int) error {
	if err := validate.Var(limit, fmt.Sprintf("gte=1,lte=%d", MaxSearchLimit)); err != nil {
		return NewValidationError(
			"limit",
			strconv.Itoa(limit),
			fmt.Sprintf("must be between 1 and %d", MaxSearchLimit),
		)
	}
	return nil
}
