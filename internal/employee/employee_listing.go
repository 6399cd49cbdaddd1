package employee

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Pagination is the window a list call actually served. CurrentPage is always
// within [1, max(TotalPages, 1)]: an empty result reports page 1 of 0.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
}

// Normalize fills defaults for missing values and caps oversized pages.
// Page is left as requested; Paginate clamps it once the total is known.
func (q ListEmployeesQuery) Normalize() ListEmployeesQuery {
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	return q
}

// Paginate computes total pages and clamps the requested page into range.
func Paginate(requestedPage, pageSize int, totalCount int64) Pagination {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	totalPages := 0
	if totalCount > 0 {
		totalPages = int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	}

	page := requestedPage
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	return Pagination{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
	}
}

func (p Pagination) Offset() int {
	return (p.CurrentPage - 1) * p.PageSize
}

func (p Pagination) HasPreviousPage() bool {
	return p.CurrentPage > 1
}

func (p Pagination) HasNextPage() bool {
	return p.CurrentPage < p.TotalPages
}

// StartIndex is the 1-based position of the first item on the page, or 0
// when there are no items at all.
func (p Pagination) StartIndex() int64 {
	if p.TotalCount == 0 {
		return 0
	}
	return int64(p.Offset()) + 1
}

func (p Pagination) EndIndex() int64 {
	return min(int64(p.CurrentPage)*int64(p.PageSize), p.TotalCount)
}
