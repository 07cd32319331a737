// Package filter implements the composable filter tree the repository port
// (pkg/repository) uses to express queries without committing to a backend
// query language. A single in-memory evaluator (Match) is provided here;
// adapters for other backends translate the same tree into their own query
// DSL.
package filter

// Op is a comparison operator usable inside a Comparison clause.
type Op string

const (
	OpEq    Op = "eq"
	OpNe    Op = "ne"
	OpGt    Op = "gt"
	OpGte   Op = "gte"
	OpLt    Op = "lt"
	OpLte   Op = "lte"
	OpIn    Op = "in"
	OpNin   Op = "nin"
	OpRegex Op = "regex"
)

// ArrayMode selects how an ArrayContains clause combines multiple values.
type ArrayMode string

const (
	ArrayModeAny ArrayMode = "any"
	ArrayModeAll ArrayMode = "all"
)

// Comparison is one {field, op, value} clause.
type Comparison struct {
	Field string
	Op    Op
	Value any
}

// ArrayContains matches a field that is itself a slice against one value or
// a set of values, in "any match" or "all present" mode.
type ArrayContains struct {
	Field  string
	Value  any
	Values []any
	Mode   ArrayMode
}

// Filter is a recursive filter tree node. A zero-value Filter matches
// everything.
type Filter struct {
	Where         map[string]any
	Comparisons   []Comparison
	ArrayContains []ArrayContains
	TextSearch    string
	TextFields    []string // fields TextSearch is matched against
	Or            []Filter
	And           []Filter
}

// SortOrder is the pagination sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Pagination controls result windowing and ordering.
type Pagination struct {
	Limit     int
	Offset    int
	SortBy    string
	SortOrder SortOrder
}

// Page is the result envelope findMany-style operations return.
type Page[T any] struct {
	Items      []T
	Total      int
	HasMore    bool
	Page       int
	TotalPages int
}

// IsEmpty reports whether f has no constraints at all (matches everything).
func (f Filter) IsEmpty() bool {
	return len(f.Where) == 0 && len(f.Comparisons) == 0 && len(f.ArrayContains) == 0 &&
		f.TextSearch == "" && len(f.Or) == 0 && len(f.And) == 0
}
