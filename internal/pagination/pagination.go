// Package pagination slices ordered result sets into 1-indexed pages.
package pagination

import (
	"errors"
	"strconv"
)

var (
	// ErrInvalidParams signals a non-positive page or per_page value.
	ErrInvalidParams = errors.New("page and per_page must be positive")
	// ErrPageOutOfRange signals a page number beyond the available range.
	ErrPageOutOfRange = errors.New("page out of range")
)

// Params is a validated page/per_page pair.
type Params struct {
	Page    int
	PerPage int
}

// Parse builds Params from raw query values. Absent or unparseable values
// fall back to page 1 and defaultPerPage; explicit non-positive values are
// rejected with ErrInvalidParams.
func Parse(pageStr, perPageStr string, defaultPerPage int) (Params, error) {
	p := Params{Page: 1, PerPage: defaultPerPage}
	if pageStr != "" {
		if v, err := strconv.Atoi(pageStr); err == nil {
			p.Page = v
		}
	}
	if perPageStr != "" {
		if v, err := strconv.Atoi(perPageStr); err == nil {
			p.PerPage = v
		}
	}
	if p.Page <= 0 || p.PerPage <= 0 {
		return Params{}, ErrInvalidParams
	}
	return p, nil
}

// Offset returns the number of items preceding the requested page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// CheckRange validates a fetched page against the request. An empty slice on
// any page past the first means the page number exceeds the available range;
// an empty first page is a valid empty listing.
func CheckRange(p Params, got int) error {
	if got == 0 && p.Page > 1 {
		return ErrPageOutOfRange
	}
	return nil
}
