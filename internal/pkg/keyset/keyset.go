// internal/pkg/keyset/keyset.go
//
// Package keyset implements cursor (keyset) pagination shared by the
// catalog and order read paths. The cursor is the primary key of the last
// row of the previous page; pages are located with an id comparison
// instead of OFFSET, so page cost does not grow with depth and concurrent
// inserts ahead of the cursor can neither duplicate nor skip rows.
package keyset

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page describes one page request.
type Page struct {
	// After is the primary key of the last item of the previous page.
	// Zero means start from the boundary.
	After uint
	Limit int
}

// ClampLimit normalizes a requested page size into [1, MaxLimit],
// substituting DefaultLimit for zero or negative values.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Normalize returns a copy of p with the limit clamped.
func (p Page) Normalize() Page {
	p.Limit = ClampLimit(p.Limit)
	return p
}

// Result carries pagination metadata alongside a page of items.
type Result struct {
	Cursor  uint `json:"cursor,omitempty"`
	HasMore bool `json:"has_more"`
	Count   int  `json:"count"`
	Limit   int  `json:"limit"`
}

// Trim resolves a fetch of limit+1 rows: it reports how many rows belong
// to the page and whether another page exists. lastID must be the id of
// row number limit (the page's last row) when the page is full.
func Trim(fetched int, limit int, lastID uint) (pageLen int, res Result) {
	if fetched > limit {
		return limit, Result{Cursor: lastID, HasMore: true, Count: limit, Limit: limit}
	}
	return fetched, Result{HasMore: false, Count: fetched, Limit: limit}
}
