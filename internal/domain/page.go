package domain

// IssuePage is one page of issues ordered by creation time descending.
type IssuePage struct {
	Page       int
	Limit      int
	TotalPages int
	HasNext    bool
	Data       []Issue
}

// PageMeta computes pagination metadata for a result set of totalItems rows.
// TotalPages is ceil(totalItems/limit); HasNext holds when page < TotalPages.
func PageMeta(totalItems int64, page, limit int) (totalPages int, hasNext bool) {
	if limit <= 0 {
		return 0, false
	}
	totalPages = int((totalItems + int64(limit) - 1) / int64(limit))
	return totalPages, page < totalPages
}
