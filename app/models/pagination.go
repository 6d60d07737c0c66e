package models

// TotalPagesFor returns ceil(total/pageSize), never less than one.
func TotalPagesFor(total, pageSize int) int {
	if pageSize < 1 || total < 1 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// NewPagination starts at the first of a single page.
func NewPagination() Pagination {
	return Pagination{CurrentPage: 1, TotalPages: 1}
}

// HasNext reports whether a later page exists.
func (p Pagination) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// HasPrevious reports whether an earlier page exists.
func (p Pagination) HasPrevious() bool {
	return p.CurrentPage > 1
}
