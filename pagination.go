package datatable

import "fmt"

// Ellipsis is the marker emitted by VisiblePages between
// non-adjacent page numbers.
const Ellipsis = -1

// PaginationMode selects how a table paginates its processed rows.
type PaginationMode int

const (
	// PaginationAuto paginates only once the processed rows
	// exceed the page size, below that threshold all rows show
	// on a single implicit page.
	PaginationAuto PaginationMode = iota
	// PaginationManual always paginates.
	PaginationManual
	// PaginationOff disables pagination, all processed rows show.
	PaginationOff
)

// String returns the string representation of a PaginationMode.
func (m PaginationMode) String() string {
	switch m {
	case PaginationAuto:
		return "Auto"
	case PaginationManual:
		return "Manual"
	case PaginationOff:
		return "Off"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// VisiblePages computes which page numbers a page-number control
// should expose for the given current page and page count,
// eliding the middle range with Ellipsis markers.
//
// Up to five pages all page numbers are emitted. Beyond that the
// window keeps the first and last page always visible and shows
// the neighborhood of the current page:
//
//	VisiblePages(1, 10)  -> [1 2 3 … 10]
//	VisiblePages(5, 10)  -> [1 … 4 5 6 … 10]
//	VisiblePages(10, 10) -> [1 … 8 9 10]
func VisiblePages(currentPage, totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}
	if totalPages <= 5 {
		pages := make([]int, totalPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	switch {
	case currentPage <= 3:
		pages := []int{1, 2, 3}
		if next := currentPage + 1; next == 4 && next <= totalPages-2 {
			pages = append(pages, next)
		}
		if totalPages > 4 {
			pages = append(pages, Ellipsis)
		}
		return append(pages, totalPages)

	case currentPage >= totalPages-2:
		pages := []int{1}
		if totalPages > 4 {
			pages = append(pages, Ellipsis)
		}
		return append(pages, totalPages-2, totalPages-1, totalPages)

	default:
		return []int{1, Ellipsis, currentPage - 1, currentPage, currentPage + 1, Ellipsis, totalPages}
	}
}
