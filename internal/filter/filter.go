// Package filter narrows in-memory record lists by free text search, equality
// predicates with an "all" wildcard, and optional boolean expressions.
package filter

import "strings"

// All disables an equality predicate, as does an empty value.
const All = "all"

type Equals[T any] struct {
	Value string
	Field func(T) string
}

type Query[T any] struct {
	Search       string
	SearchFields []func(T) string
	Equals       []Equals[T]

	// Expr is evaluated against Fields(record). Both must be set for the
	// expression to apply.
	Expr   *Expression
	Fields func(T) map[string]any
}

// Apply returns the records matching q in their original order. The result is
// never nil and applying the same query twice changes nothing.
func Apply[T any](records []T, q Query[T]) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if q.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func (q Query[T]) Match(r T) bool {
	return q.matchSearch(r) && q.matchEquals(r) && q.matchExpr(r)
}

func (q Query[T]) matchSearch(r T) bool {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	if needle == "" {
		return true
	}
	for _, field := range q.SearchFields {
		if strings.Contains(strings.ToLower(field(r)), needle) {
			return true
		}
	}
	return false
}

func (q Query[T]) matchEquals(r T) bool {
	for _, eq := range q.Equals {
		if IsWildcard(eq.Value) {
			continue
		}
		if eq.Field(r) != eq.Value {
			return false
		}
	}
	return true
}

func (q Query[T]) matchExpr(r T) bool {
	if q.Expr == nil || q.Fields == nil {
		return true
	}
	return q.Expr.Match(q.Fields(r))
}

func IsWildcard(v string) bool {
	return v == "" || v == All
}
