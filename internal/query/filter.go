// Package query derives the visible claims collection: status filter, then
// sort, then text search.
package query

import (
	"slices"
	"strings"

	"github.com/five82/claimdeck/internal/claims"
)

// StatusSet is the set of selected status labels. An empty set selects
// everything.
type StatusSet map[string]struct{}

// NewStatusSet builds a set from labels, dropping blanks and duplicates.
func NewStatusSet(labels ...string) StatusSet {
	set := make(StatusSet, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		set[label] = struct{}{}
	}
	return set
}

// Has reports whether label is selected.
func (s StatusSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Toggle flips label in place.
func (s StatusSet) Toggle(label string) {
	if s.Has(label) {
		delete(s, label)
		return
	}
	s[label] = struct{}{}
}

// Labels returns the selected labels sorted.
func (s StatusSet) Labels() []string {
	out := make([]string, 0, len(s))
	for label := range s {
		out = append(out, label)
	}
	slices.Sort(out)
	return out
}

// Key is a canonical string form of the set, stable across map order.
func (s StatusSet) Key() string {
	return strings.Join(s.Labels(), "\x00")
}

// Clone returns an independent copy.
func (s StatusSet) Clone() StatusSet {
	out := make(StatusSet, len(s))
	for label := range s {
		out[label] = struct{}{}
	}
	return out
}

// FilterByStatus keeps items whose status is selected, preserving order.
// An empty selection returns items itself.
func FilterByStatus[T claims.Record](items []T, selected StatusSet) []T {
	if len(selected) == 0 {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if selected.Has(item.Fields().Status) {
			out = append(out, item)
		}
	}
	return out
}

// Filter applies the status selection and then where, if non-nil. With
// neither active it returns items itself.
func Filter[T claims.Record](items []T, selected StatusSet, where *Expr) []T {
	filtered := FilterByStatus(items, selected)
	if where == nil {
		return filtered
	}
	out := make([]T, 0, len(filtered))
	for _, item := range filtered {
		if where.Match(item.Fields()) {
			out = append(out, item)
		}
	}
	return out
}

// AvailableStatuses lists the distinct statuses present in items, sorted.
func AvailableStatuses[T claims.Record](items []T) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 8)
	for _, item := range items {
		status := item.Fields().Status
		if _, ok := seen[status]; ok {
			continue
		}
		seen[status] = struct{}{}
		out = append(out, status)
	}
	slices.Sort(out)
	return out
}
