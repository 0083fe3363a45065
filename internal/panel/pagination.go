package panel

// DefaultPageSize is the fixed page size of the pass list.
const DefaultPageSize = 10

// TotalPages is ceil(count / pageSize).  A non-positive pageSize yields 0.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Offset converts a 1-indexed page into the zero-based offset sent
// upstream.
func Offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// clampPage keeps page within [1, totalPages].  With no pages at all the
// only valid page is 1.
func clampPage(page, totalPages int) int {
	if totalPages < 1 || page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
