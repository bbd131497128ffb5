package models

import (
	"sort"
	"strings"
	"time"
)

// Listable is implemented by every entity shown on a list screen.
type Listable interface {
	Created() time.Time
	SearchFields() []string
}

// Matches reports whether any search field contains query, ignoring case.
// An empty query matches everything.
func Matches(item Listable, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, field := range item.SearchFields() {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// FilterAndSort returns a new slice holding the items matching query,
// newest first. The input slice is left untouched.
func FilterAndSort[T Listable](items []T, query string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if Matches(item, query) {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Created().After(out[j].Created())
	})
	return out
}
