package shared

// Filter holds common list query options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// NewFilter creates a filter with sane list defaults
func NewFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Actor identifies the user performing an operation, for audit fields.
// Identity management is owned elsewhere; the core only records it.
type Actor struct {
	ID   string
	Name string
}

// IsZero reports whether no actor was supplied
func (a Actor) IsZero() bool {
	return a.ID == "" && a.Name == ""
}
