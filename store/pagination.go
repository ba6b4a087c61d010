package store

// Pagination describes one page of an offset-paginated listing.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Page is a slice of rows plus its pagination block.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// TotalPages returns ceil(count/size) with a floor of one page, so an empty listing still has a page to render.
func TotalPages(count int64, size int) int {
	if size <= 0 || count <= 0 {
		return 1
	}
	pages := int((count + int64(size) - 1) / int64(size))
	if pages < 1 {
		return 1
	}
	return pages
}

// MaxPage is the highest page number served. Larger requests get this page, which keeps
// Offset far from integer overflow.
const MaxPage = 10000

// NormalizePage clamps page numbers into [1, MaxPage].
func NormalizePage(page int) int {
	switch {
	case page < 1:
		return 1
	case page > MaxPage:
		return MaxPage
	}
	return page
}

// Offset returns the row offset of a 1-based page.
func Offset(page, size int) int {
	return (NormalizePage(page) - 1) * size
}

func newPagination(page, size int, total int64) Pagination {
	return Pagination{
		Page:       NormalizePage(page),
		PageSize:   size,
		Total:      total,
		TotalPages: TotalPages(total, size),
	}
}
