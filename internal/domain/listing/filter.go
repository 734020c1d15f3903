// internal/domain/listing/filter.go

package listing

import "strings"

// Filter holds the optional structural search constraints. Nil or zero
// fields impose no constraint.
type Filter struct {
	Query    string
	MinPrice *int64
	MaxPrice *int64
	BedsMin  *int
	BathsMin *int

	// Pagination (Page is 1-based)
	Page  int
	Limit int
}

// Offset returns the row offset implied by the filter's pagination
func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Comparison operators used by predicates
const (
	OpContains = "contains"
	OpGTE      = ">="
	OpLTE      = "<="
)

// Predicate is one compiled filter constraint: a column, a comparison
// operator and the value to compare against. Stores translate the same
// predicate list either to parameterized SQL or to an in-memory match,
// keeping validation and construction separate from execution.
type Predicate struct {
	Column string
	Op     string
	Value  any
}

// Predicates compiles the filter into its predicate list, in a fixed order
func (f Filter) Predicates() []Predicate {
	var preds []Predicate

	if f.Query != "" {
		preds = append(preds, Predicate{Column: "address", Op: OpContains, Value: f.Query})
	}
	if f.MinPrice != nil {
		preds = append(preds, Predicate{Column: "price", Op: OpGTE, Value: *f.MinPrice})
	}
	if f.MaxPrice != nil {
		preds = append(preds, Predicate{Column: "price", Op: OpLTE, Value: *f.MaxPrice})
	}
	if f.BedsMin != nil {
		preds = append(preds, Predicate{Column: "beds", Op: OpGTE, Value: *f.BedsMin})
	}
	if f.BathsMin != nil {
		preds = append(preds, Predicate{Column: "baths", Op: OpGTE, Value: *f.BathsMin})
	}

	return preds
}

// Match reports whether l satisfies the predicate. The in-memory store
// evaluates predicates directly; the Postgres store compiles the same list
// to SQL, so both backends must agree on these semantics. Substring
// containment is case-insensitive, matching ILIKE on the SQL side.
func (p Predicate) Match(l Listing) bool {
	switch p.Column {
	case "address":
		q, ok := p.Value.(string)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(l.Address), strings.ToLower(q))

	case "price":
		v, ok := p.Value.(int64)
		if !ok {
			return false
		}
		if p.Op == OpGTE {
			return l.Price >= v
		}
		return l.Price <= v

	case "beds":
		v, ok := p.Value.(int)
		if !ok {
			return false
		}
		return l.Beds >= v

	case "baths":
		v, ok := p.Value.(int)
		if !ok {
			return false
		}
		return l.Baths >= v
	}

	return false
}
