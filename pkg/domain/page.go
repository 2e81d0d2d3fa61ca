package domain

// Page selects a window of a result set.
//
// Number starts from 1.
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Paged is a page of items with the number of all items matched.
type Paged[T any] struct {
	Items []T
	Total int
}

// TotalPages returns how many pages of size are needed to hold Total items.
func (p Paged[T]) TotalPages(size int) int {
	if size <= 0 {
		return 0
	}
	return (p.Total + size - 1) / size
}
