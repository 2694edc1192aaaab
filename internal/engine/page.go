package engine

import "fmt"

const (
	DefaultLimit = 25
	MaxLimit     = 100
)

// Window describes one page of a paginated listing. Total is recomputed on
// every list call; Offset is always clamped into [0, max(0, Total-Limit)].
type Window struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// Page returns the 1-based page number for the current offset.
func (w Window) Page() int {
	if w.Limit <= 0 {
		return 1
	}
	return w.Offset/w.Limit + 1
}

// TotalPages returns the number of pages the listing spans.
func (w Window) TotalPages() int {
	if w.Limit <= 0 || w.Total <= 0 {
		return 0
	}
	return (w.Total + w.Limit - 1) / w.Limit
}

// Label renders the page position for display. An empty listing reads
// "Page 0 of 0"; the page count never shows below 1 otherwise.
func (w Window) Label() string {
	if w.Total <= 0 {
		return "Page 0 of 0"
	}
	pages := w.TotalPages()
	if pages < 1 {
		pages = 1
	}
	return fmt.Sprintf("Page %d of %d", w.Page(), pages)
}

// clampOffset bounds an offset so the window never starts past the last page
// or before the first row.
func (w Window) clampOffset(offset int) int {
	maxOffset := w.Total - w.Limit
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
