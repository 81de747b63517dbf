package util

const DefaultPageSize = 12

// Calculate clamps page/size and returns the zero-based offset plus the
// effective page size for a catalog listing.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = DefaultPageSize
	}
	from = (page - 1) * size
	return from, size
}
