package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	p, err := Parse("", "", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, 0, p.Offset())
}

func TestParseExplicitValues(t *testing.T) {
	p, err := Parse("3", "5", 10)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 5, p.PerPage)
	assert.Equal(t, 10, p.Offset())
}

func TestParseRejectsNonPositive(t *testing.T) {
	_, err := Parse("0", "", 10)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = Parse("", "0", 10)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = Parse("-1", "5", 10)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = Parse("1", "-3", 10)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestParseUnparseableFallsBack(t *testing.T) {
	p, err := Parse("abc", "xyz", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PerPage)
}

func TestCheckRange(t *testing.T) {
	// An empty first page is a valid empty listing.
	assert.NoError(t, CheckRange(Params{Page: 1, PerPage: 10}, 0))

	// Any page with results is in range.
	assert.NoError(t, CheckRange(Params{Page: 4, PerPage: 10}, 3))

	// An empty later page means the page number exceeds the range.
	assert.ErrorIs(t, CheckRange(Params{Page: 2, PerPage: 10}, 0), ErrPageOutOfRange)
}
