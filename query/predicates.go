package query

import (
	"strings"
	"time"

	"github.com/warp/hrms-engine/hr"
)

// =============================================================================
// PREDICATE CONSTRUCTORS
// =============================================================================

// TextMatch matches a case-insensitive substring across the named string
// fields of an item. An empty query matches everything.
func TextMatch[T any](q string, fields func(T) []string) Predicate[T] {
	q = strings.ToLower(strings.TrimSpace(q))
	return func(item T) bool {
		if q == "" {
			return true
		}
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), q) {
				return true
			}
		}
		return false
	}
}

// Equals matches an exact field value, e.g. a status or category.
func Equals[T any, V comparable](want V, field func(T) V) Predicate[T] {
	return func(item T) bool { return field(item) == want }
}

// ForEmployee matches records belonging to one employee. An empty id
// matches everything, mirroring the "All Employees" selector.
func ForEmployee[T any](id hr.EmployeeID, field func(T) hr.EmployeeID) Predicate[T] {
	return func(item T) bool { return id == "" || field(item) == id }
}

// DateWithin matches items whose date falls inside [from, to] inclusive.
func DateWithin[T any](from, to hr.Date, field func(T) hr.Date) Predicate[T] {
	return func(item T) bool {
		d := field(item)
		return d.AfterOrEqual(from) && d.BeforeOrEqual(to)
	}
}

// TimeWithin matches items whose timestamp falls inside [from, to].
func TimeWithin[T any](from, to time.Time, field func(T) time.Time) Predicate[T] {
	return func(item T) bool {
		t := field(item)
		return !t.Before(from) && !t.After(to)
	}
}
