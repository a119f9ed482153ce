package shared

// Filter represents query filter options
type Filter struct {
	Limit   int
	Offset  int
	OrderBy string
	Search  string
	Filters map[string]interface{}
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Limit:   25,
		Offset:  0,
		OrderBy: "created_at desc",
		Filters: make(map[string]interface{}),
	}
}

// Page represents a paginated result
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// NewPage creates a new paginated result
func NewPage[T any](items []T, total int64, limit, offset int) Page[T] {
	return Page[T]{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}
