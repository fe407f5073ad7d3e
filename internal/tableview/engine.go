// Package tableview derives the exact set and order of rows a table
// displays: free-text search over configured fields, a stable three-state
// column sort, and an optional row cap, in that order. It operates on
// already-merged records and never mutates its input.
package tableview

import (
	"sort"
	"strings"
)

// Direction of an applied sort.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Sentinel values for absent or non-applicable cells. Both sort after every
// ordinary value in ascending order, matching the "worst bucket" rule.
const (
	SentinelString = "\uffff"
	SentinelNumber = float64(999)
)

// Column declares one sortable key. Exactly one accessor should be set:
// String compares case-insensitively, Number compares numerically. Accessors
// are responsible for mapping absent values to the package sentinels.
type Column[T any] struct {
	Key    string
	String func(T) string
	Number func(T) float64
}

// Query is the caller-driven view state applied to a record collection.
type Query struct {
	Search    string
	SortKey   string
	Direction Direction
	// MaxRows truncates the result after search and sort. Zero means no cap.
	MaxRows int
}

// View binds a record type to its column definitions and searchable fields.
type View[T any] struct {
	columns      map[string]Column[T]
	searchFields []func(T) string
}

// New constructs a View. Search fields are the derived string values the
// free-text query is matched against.
func New[T any](columns []Column[T], searchFields ...func(T) string) *View[T] {
	byKey := make(map[string]Column[T], len(columns))
	for _, col := range columns {
		byKey[col.Key] = col
	}
	return &View[T]{
		columns:      byKey,
		searchFields: searchFields,
	}
}

// Apply filters, sorts, and caps rows according to the query. The returned
// slice is always a fresh copy; the input and its elements are untouched.
// An unknown sort key leaves the filtered order as-is.
func (v *View[T]) Apply(rows []T, q Query) []T {
	out := v.filter(rows, q.Search)
	v.sortRows(out, q.SortKey, q.Direction)
	if q.MaxRows > 0 && len(out) > q.MaxRows {
		out = out[:q.MaxRows]
	}
	return out
}

// Matches reports whether a single row satisfies the search query.
func (v *View[T]) Matches(row T, search string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}
	for _, field := range v.searchFields {
		if strings.Contains(strings.ToLower(field(row)), needle) {
			return true
		}
	}
	return false
}

func (v *View[T]) filter(rows []T, search string) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if v.Matches(row, search) {
			out = append(out, row)
		}
	}
	return out
}

func (v *View[T]) sortRows(rows []T, key string, dir Direction) {
	col, ok := v.columns[key]
	if !ok {
		return
	}
	desc := dir == Descending

	switch {
	case col.Number != nil:
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := col.Number(rows[i]), col.Number(rows[j])
			if desc {
				return a > b
			}
			return a < b
		})
	case col.String != nil:
		sort.SliceStable(rows, func(i, j int) bool {
			a := strings.ToLower(col.String(rows[i]))
			b := strings.ToLower(col.String(rows[j]))
			if desc {
				return a > b
			}
			return a < b
		})
	}
}
