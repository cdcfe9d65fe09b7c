package pager

// Page describes one page of a listing.
type Page struct {
	Number   int // effective page number, always >= 1
	Size     int
	Total    int
	MaxPages int
	Start    int // first item index, clamped to Total
	End      int // one past the last item index, clamped to Total
}

// MaxPages returns the number of pages needed to show total items with
// pageSize items per page. An empty listing has zero pages.
func MaxPages(total, pageSize int) int {
	if total%pageSize == 0 {
		return total / pageSize
	}
	return total/pageSize + 1
}

// Paginate computes the item range of the requested page. Page 0 is treated
// as page 1. Pages past the end produce an empty range rather than an error.
// pageSize must be positive; configuration loading rejects anything else.
func Paginate(total, pageSize int, requested uint) Page {
	if pageSize <= 0 {
		panic("pager: page size must be positive")
	}
	if total < 0 {
		total = 0
	}

	number := requested
	if number == 0 {
		number = 1
	}

	p := Page{
		Number:   clampInt(number),
		Size:     pageSize,
		Total:    total,
		MaxPages: MaxPages(total, pageSize),
		Start:    total,
		End:      total,
	}

	// Checking against MaxPages first keeps the index arithmetic from
	// overflowing for huge page numbers.
	if number <= uint(p.MaxPages) {
		p.Start = (p.Number - 1) * pageSize
		p.End = min(p.Number*pageSize, total)
	}
	return p
}

// Empty reports whether the page holds no items.
func (p Page) Empty() bool {
	return p.Start >= p.End
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool {
	return p.Number > 1
}

// HasNext reports whether a following, non-empty page exists.
func (p Page) HasNext() bool {
	return p.MaxPages > 0 && p.Number < p.MaxPages
}

// Slice returns the items belonging to the page.
func Slice[T any](p Page, items []T) []T {
	start, end := min(p.Start, len(items)), min(p.End, len(items))
	return items[start:end]
}

func clampInt(n uint) int {
	const maxInt = int(^uint(0) >> 1)
	if n > uint(maxInt) {
		return maxInt
	}
	return int(n)
}
