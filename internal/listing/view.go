package listing

import "github.com/gupta1123/fieldsales-teams/internal/domain"

// View holds the fetched snapshot of a list screen and the filters applied to
// it locally. The snapshot is only replaced by Refresh; changing filters never
// reaches back to the server unless SetFilters says a refetch is needed.
type View[T Record] struct {
	snapshot []T
	filters  domain.FilterState
	filtered []T
}

// NewView creates an empty view.
func NewView[T Record](filters domain.FilterState) *View[T] {
	return &View[T]{filters: filters.Normalized()}
}

// Refresh replaces the snapshot with a freshly fetched window.
func (v *View[T]) Refresh(items []T) {
	v.snapshot = items
	v.recompute()
}

// SetFilters re-filters the snapshot. It returns true when the caller should
// fetch a new snapshot: on an explicit submit or when the date range moved.
func (v *View[T]) SetFilters(f domain.FilterState, submit bool) bool {
	refetch := submit || !v.filters.SameDateRange(f)
	v.filters = f.Normalized()
	v.recompute()
	return refetch
}

// SetPage moves to page; the value is clamped on every read.
func (v *View[T]) SetPage(page int) {
	v.filters.Page = page
	v.clamp()
}

// Filters returns the current, clamped filter state.
func (v *View[T]) Filters() domain.FilterState {
	return v.filters
}

// Current returns the visible page.
func (v *View[T]) Current() Page[T] {
	v.clamp()
	return BuildPage(v.filtered, v.filters.Page, v.filters.PageSize)
}

func (v *View[T]) recompute() {
	v.filtered = Apply(v.snapshot, v.filters)
	v.clamp()
}

func (v *View[T]) clamp() {
	v.filters.Page = ClampPage(v.filters.Page, len(v.filtered), v.filters.PageSize)
}
