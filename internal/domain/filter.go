package domain

import (
	"strings"
	"time"
)

// FilterStateVersion is bumped whenever the persisted shape changes.
const FilterStateVersion = 1

// DefaultPageSize is the page size used by list screens.
const DefaultPageSize = 10

// MaxPageSize caps the page size a caller may request.
const MaxPageSize = 200

// FilterAll is the sentinel that disables an enum filter.
const FilterAll = "all"

// FilterState holds the client-side list filters of one screen.
type FilterState struct {
	Version  int               `json:"version"`
	Search   string            `json:"search,omitempty"`
	Enums    map[string]string `json:"enums,omitempty"`
	From     *time.Time        `json:"from,omitempty"`
	To       *time.Time        `json:"to,omitempty"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// NewFilterState returns an empty filter on page 1.
func NewFilterState() FilterState {
	return FilterState{Version: FilterStateVersion, Page: 1, PageSize: DefaultPageSize}
}

// Normalized fills defaults and drops sentinel enum values.
func (f FilterState) Normalized() FilterState {
	out := f
	out.Version = FilterStateVersion
	out.Search = strings.TrimSpace(f.Search)
	if out.Page < 1 {
		out.Page = 1
	}
	if out.PageSize <= 0 {
		out.PageSize = DefaultPageSize
	}
	if out.PageSize > MaxPageSize {
		out.PageSize = MaxPageSize
	}
	out.Enums = nil
	for k, v := range f.Enums {
		v = strings.TrimSpace(v)
		if v == "" || strings.EqualFold(v, FilterAll) {
			continue
		}
		if out.Enums == nil {
			out.Enums = make(map[string]string, len(f.Enums))
		}
		out.Enums[k] = v
	}
	return out
}

// WithEnum returns a copy with key set to value.
func (f FilterState) WithEnum(key, value string) FilterState {
	out := f
	out.Enums = make(map[string]string, len(f.Enums)+1)
	for k, v := range f.Enums {
		out.Enums[k] = v
	}
	out.Enums[key] = value
	return out
}

// SameDateRange reports whether both filters bound the same calendar days.
func (f FilterState) SameDateRange(other FilterState) bool {
	return sameDay(f.From, other.From) && sameDay(f.To, other.To)
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return CalendarDate(*a).Equal(CalendarDate(*b))
}

// CalendarDate strips the time of day, keeping the date as seen in t's location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
