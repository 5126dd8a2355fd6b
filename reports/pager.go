package reports

// DefaultPageSize is used when a pager is created with a non-positive size.
const DefaultPageSize = 10

// Pager exposes a page-slice view over an in-memory row set.
// Pages are numbered from 1. A Pager is not safe for concurrent use.
type Pager[T any] struct {
	rows []T
	size int
	page int
}

func NewPager[T any](rows []T, pageSize int) *Pager[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager[T]{rows: rows, size: pageSize, page: 1}
}

// Len is the number of rows across all pages.
func (p *Pager[T]) Len() int {
	return len(p.rows)
}

func (p *Pager[T]) PageSize() int {
	return p.size
}

// TotalPages is zero for an empty row set.
func (p *Pager[T]) TotalPages() int {
	return (len(p.rows) + p.size - 1) / p.size
}

// Current returns the current page number.
func (p *Pager[T]) Current() int {
	return p.page
}

// Page returns the rows of the current page.
func (p *Pager[T]) Page() []T {
	start := (p.page - 1) * p.size
	if start >= len(p.rows) {
		return []T{}
	}
	end := min(start+p.size, len(p.rows))
	return p.rows[start:end]
}

// SetPage moves to page n. Out-of-range pages are ignored and false is returned.
func (p *Pager[T]) SetPage(n int) bool {
	if n < 1 || n > p.TotalPages() {
		return false
	}
	p.page = n
	return true
}

func (p *Pager[T]) Next() bool {
	return p.SetPage(p.page + 1)
}

func (p *Pager[T]) Prev() bool {
	return p.SetPage(p.page - 1)
}

// PageNumbers lists 1..TotalPages.
func (p *Pager[T]) PageNumbers() []int {
	n := p.TotalPages()
	pages := make([]int, n)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Reset replaces the row set, keeping the current page unless it no longer exists.
func (p *Pager[T]) Reset(rows []T) {
	p.rows = rows
	total := p.TotalPages()
	switch {
	case total == 0:
		p.page = 1
	case p.page > total:
		p.page = total
	}
}
