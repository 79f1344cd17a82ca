package pagination

// MaxLimit caps the page size a client may request
const MaxLimit = 100

// Params is a 1-based page request
type Params struct {
	Page  int
	Limit int
}

// New normalizes raw page and limit values
func New(page, limit, defaultLimit int) Params {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset is the number of rows to skip
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the payload of paginated list endpoints
type Page[T any] struct {
	Count   int64 `json:"count"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Results []T   `json:"results"`
}

// NewPage wraps results for p
func NewPage[T any](p Params, count int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	return Page[T]{Count: count, Page: p.Page, Limit: p.Limit, Results: results}
}
