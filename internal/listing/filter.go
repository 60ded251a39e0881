// Package listing implements the client-side filtering, sorting and paging
// that list screens apply on top of an already fetched snapshot.
package listing

import (
	"sort"
	"strings"
	"time"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
)

// Record is anything a list screen can filter.
type Record interface {
	// SearchFields are the values free-text search looks at.
	SearchFields() []string
	// FilterValues returns the values of an enum attribute such as "status"
	// or "district". A record matches when any value equals the filter; nil
	// means the record has no such attribute.
	FilterValues(key string) []string
	// FilterDate is the date used by date-range filters.
	FilterDate() (time.Time, bool)
}

// Apply keeps the items that satisfy every active predicate of f.
func Apply[T Record](items []T, f domain.FilterState) []T {
	f = f.Normalized()
	query := strings.ToLower(f.Search)

	var from, to time.Time
	if f.From != nil {
		from = domain.CalendarDate(*f.From)
	}
	if f.To != nil {
		to = domain.CalendarDate(*f.To)
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if query != "" && !matchesSearch(item, query) {
			continue
		}
		if !matchesEnums(item, f.Enums) {
			continue
		}
		if (f.From != nil || f.To != nil) && !matchesDates(item, from, to) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesSearch(item Record, query string) bool {
	for _, field := range item.SearchFields() {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func matchesEnums(item Record, enums map[string]string) bool {
	for key, want := range enums {
		if !containsValue(item.FilterValues(key), want) {
			return false
		}
	}
	return true
}

func containsValue(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// matchesDates compares calendar days, both bounds inclusive. Zero bounds are open.
func matchesDates(item Record, from, to time.Time) bool {
	when, ok := item.FilterDate()
	if !ok {
		return false
	}
	day := domain.CalendarDate(when)
	if !from.IsZero() && day.Before(from) {
		return false
	}
	if !to.IsZero() && day.After(to) {
		return false
	}
	return true
}

// Sort orders items in place by key, ties keeping their original order.
func Sort[T any](items []T, key func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(key(items[i])) < strings.ToLower(key(items[j]))
	})
}
