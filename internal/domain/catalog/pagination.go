package catalog

// Paginated is one page of results plus the metadata needed to walk the rest.
// Total counts every match, not just this page.
type Paginated[T any] struct {
	Data     []T `json:"data"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// SlicePage returns the 1-based page window over items. A page past the end
// yields an empty, non-nil slice. Total stays the caller's job: it is
// len(items) of this very sequence, never a separate recount, so data and
// total cannot drift apart under concurrent writes.
//
// Callers validate page and pageSize before calling; both must be positive.
func SlicePage[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end:end]
}
