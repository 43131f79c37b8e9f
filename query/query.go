/*
Package query provides the generic filter and sort layer consumed by the
page-level views (directory, leave tables, attendance lists, payroll).

PURPOSE:
  Every listing surface needs the same two things: an AND-combination of
  predicates over a slice, and a stable directional sort. Both are pure
  and idempotent: the input slice is never mutated and re-applying the
  same parameters yields the same result.

TEXT ORDERING:
  String sorts use locale-aware collation (golang.org/x/text/collate)
  rather than byte order, so names sort the way a directory page should.

SEE ALSO:
  - predicates.go: Common predicate constructors
*/
package query

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Predicate reports whether an item satisfies one condition.
type Predicate[T any] func(T) bool

// Filter returns the items satisfying every predicate (logical AND).
// The input slice is not modified. With no predicates, a copy of the
// input is returned.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		keep := true
		for _, p := range preds {
			if !p(item) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	return out
}

// =============================================================================
// SORT
// =============================================================================

type Direction int

const (
	Ascending Direction = iota
	Descending
)

// SortBy returns a sorted copy of items. The underlying sort is stable,
// so ties keep their input order regardless of direction.
func SortBy[T any](items []T, less func(a, b T) bool, dir Direction) []T {
	out := make([]T, len(items))
	copy(out, items)
	if dir == Descending {
		inner := less
		less = func(a, b T) bool { return inner(b, a) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// ByText builds a locale-aware less function over a string field.
func ByText[T any](field func(T) string) func(a, b T) bool {
	c := newCollator()
	return func(a, b T) bool { return c.CompareString(field(a), field(b)) < 0 }
}

// ByNumber builds a less function over a numeric field.
func ByNumber[T any](field func(T) float64) func(a, b T) bool {
	return func(a, b T) bool { return field(a) < field(b) }
}

// newCollator returns a fresh collator; collate.Collator carries internal
// buffers and is not safe for concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}
