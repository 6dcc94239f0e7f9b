// Package pagination provides the shared page-window algorithm used by
// listing endpoints. A window is a sequence of page numbers with ellipsis
// markers where ranges are collapsed, suitable for direct UI rendering.
package pagination

// Request is a pagination request attached to list queries.
type Request struct {
	Page    int
	PerPage int
}

// Offset returns the row offset for the request. Page is clamped to >= 1.
func (r Request) Offset() int {
	page := r.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * r.PerPage
}

// Page is one entry of a pagination window. Ellipsis entries have Number == 0.
type Page struct {
	Number   int
	Ellipsis bool
}

// Default window tuning used by listings.
const (
	DefaultLeftEdge  = 2
	DefaultLeftRun   = 2
	DefaultRightRun  = 4
	DefaultRightEdge = 2
)

// Window computes the page-window sequence for a pager with totalPages pages
// while currentPage is shown. The window always starts with up to leftEdge
// pages, shows leftRun/rightRun pages around the current page, and ends with
// up to rightEdge pages, inserting a single ellipsis between non-adjacent
// blocks. An empty pager yields an empty window.
func Window(totalPages, currentPage, leftEdge, leftRun, rightRun, rightEdge int) []Page {
	if totalPages <= 0 {
		return nil
	}
	if currentPage < 1 {
		currentPage = 1
	}

	pages := make([]Page, 0, leftEdge+leftRun+rightRun+rightEdge+3)

	leftEnd := min(leftEdge, totalPages)
	for n := 1; n <= leftEnd; n++ {
		pages = append(pages, Page{Number: n})
	}

	midStart := max(leftEnd+1, currentPage-leftRun)
	midEnd := min(currentPage+rightRun, totalPages)
	if midStart <= midEnd && midStart > leftEnd+1 {
		pages = append(pages, Page{Ellipsis: true})
	}
	for n := midStart; n <= midEnd; n++ {
		pages = append(pages, Page{Number: n})
	}
	if midEnd < leftEnd {
		midEnd = leftEnd
	}

	rightStart := max(midEnd+1, totalPages-rightEdge+1)
	if rightStart > midEnd+1 {
		pages = append(pages, Page{Ellipsis: true})
	}
	for n := rightStart; n <= totalPages; n++ {
		pages = append(pages, Page{Number: n})
	}

	return pages
}

// WindowDefault applies the default listing tuning.
func WindowDefault(totalPages, currentPage int) []Page {
	return Window(totalPages, currentPage, DefaultLeftEdge, DefaultLeftRun, DefaultRightRun, DefaultRightEdge)
}

// Paginated wraps a page of items together with its rendered window.
type Paginated[T any] struct {
	Items []T    `json:"items"`
	Pages []Page `json:"pages"`
	Page  int    `json:"page"`
}

// NewPaginated builds a Paginated value, clamping the current page to >= 1.
func NewPaginated[T any](items []T, currentPage, totalPages int) Paginated[T] {
	if currentPage < 1 {
		currentPage = 1
	}
	return Paginated[T]{
		Items: items,
		Pages: WindowDefault(totalPages, currentPage),
		Page:  currentPage,
	}
}

// TotalPages derives the page count from a row total and page size.
func TotalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
