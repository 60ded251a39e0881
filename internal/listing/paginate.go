package listing

import "github.com/gupta1123/fieldsales-teams/internal/domain"

// PageCount is ceil(total/size), never below zero.
func PageCount(total, size int) int {
	if size <= 0 {
		size = domain.DefaultPageSize
	}
	if total <= 0 {
		return 0
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return pages
}

// ClampPage moves page into [1, PageCount(total, size)]. An empty list has a
// single, empty page 1.
func ClampPage(page, total, size int) int {
	last := PageCount(total, size)
	if last < 1 {
		last = 1
	}
	if page < 1 {
		return 1
	}
	if page > last {
		return last
	}
	return page
}

// Paginate returns the 1-based page of items. Out-of-range pages are empty.
func Paginate[T any](items []T, page, size int) []T {
	if size <= 0 {
		size = domain.DefaultPageSize
	}
	if page < 1 || page-1 >= PageCount(len(items), size) {
		return []T{}
	}
	start := (page - 1) * size
	end := len(items)
	if size < end-start {
		end = start + size
	}
	return items[start:end]
}

// Page is one rendered page of a filtered list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// BuildPage clamps the requested page and slices it out of items.
func BuildPage[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = domain.DefaultPageSize
	}
	page = ClampPage(page, len(items), size)
	return Page[T]{
		Items:      Paginate(items, page, size),
		Page:       page,
		PageSize:   size,
		Total:      len(items),
		TotalPages: PageCount(len(items), size),
	}
}
