package store

import (
	"context"
	"strings"

	"github.com/phrazzld/workspace-api/internal/domain"
)

// RecordStore defines read access to workspace records.
type RecordStore interface {
	// GetByID retrieves the record with the given id.
	// Returns ErrRecordNotFound if no row matches.
	GetByID(ctx context.Context, id int64) (*domain.Record, error)

	// SearchIDsByName returns up to limit ids, in ascending order, whose name
	// contains query as a substring. Comparison follows the store's collation.
	// Returns an empty slice when nothing matches.
	SearchIDsByName(ctx context.Context, query string, limit int) ([]int64, error)
}

// LikeEscapeChar is the escape character used with LikeContains patterns.
const LikeEscapeChar = `\`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards in s so it matches literally inside a
// pattern declared with ESCAPE '\'.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
