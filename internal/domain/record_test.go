package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	t.Parallel()

	rec, err := NewRecord(1015024, "Relativity Starter Template")
	require.NoError(t, err)
	assert.Equal(t, int64(1015024), rec.ID)
	assert.Equal(t, "Relativity Starter Template", rec.Name)

	for _, id := range []int64{0, -1} {
		_, err := NewRecord(id, "x")
		assert.ErrorIs(t, err, ErrInvalidRecord, "id %d should be rejected", id)
	}
}

func TestValidateQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantErr    bool
		errContain string
	}{
		{name: "single character", query: "a"},
		{name: "exactly fifty characters", query: strings.Repeat("x", MaxQueryLength)},
		{name: "fifty multibyte characters", query: strings.Repeat("é", MaxQueryLength)},
		{name: "surrounding whitespace is kept", query: "  case  "},
		{name: "empty", query: "", wantErr: true, errContain: "cannot be empty"},
		{
			name:       "fifty one characters",
			query:      strings.Repeat("x", MaxQueryLength+1),
			wantErr:    true,
			errContain: "cannot be greater than 50 characters",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateQuery(tc.query)
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, KindValidation, KindOf(err))
			assert.Contains(t, err.Error(), tc.errContain)
			assert.Contains(t, err.Error(), "queryString")
		})
	}
}

func TestValidateLimit(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateLimit(1))
	assert.NoError(t, ValidateLimit(DefaultSearchLimit))
	assert.NoError(t, ValidateLimit(MaxSearchLimit))

	for _, limit := range []int{0, -3, MaxSearchLimit + 1} {
		err := ValidateLimit(limit)
		require.Error(t, err, "limit %d should be rejected", limit)
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Contains(t, err.Error(), "limit")
	}
}

func TestSearchRequest_Validate(t *testing.T) {
	t.Parallel()

	req := NewSearchRequest("case")
	assert.Equal(t, DefaultSearchLimit, req.Limit)
	assert.NoError(t, req.Validate())

	req.Query = ""
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queryString")

	req = SearchRequest{Query: "case", Limit: 0}
	err = req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}
