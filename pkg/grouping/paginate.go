package grouping

import "fmt"

// Chunk splits items into contiguous slices of at most size elements.
func Chunk[T any](items []T, size int) ([][]T, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
	}

	pages := make([][]T, 0, PageCount(len(items), size))
	for i := 0; i < len(items); i += size {
		end := min(i+size, len(items))
		pages = append(pages, items[i:end])
	}
	return pages, nil
}

// PageCount is the number of pages needed for n items (rounding up).
func PageCount(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// ClampPage keeps a 1-based page number inside [1, pageCount]. With no pages
// at all the answer is 1.
func ClampPage(page, pageCount int) int {
	if pageCount < 1 || page < 1 {
		return 1
	}
	if page > pageCount {
		return pageCount
	}
	return page
}

// Page is the slice of items shown for one page number.
type Page[T any] struct {
	Number int `json:"number"`
	Count  int `json:"count"`
	Items  []T `json:"items"`
}

// Paginate chunks items and selects page (1-based, clamped).
func Paginate[T any](items []T, size, page int) (Page[T], error) {
	pages, err := Chunk(items, size)
	if err != nil {
		return Page[T]{}, err
	}

	number := ClampPage(page, len(pages))
	p := Page[T]{Number: number, Count: len(pages)}
	if len(pages) > 0 {
		p.Items = pages[number-1]
	}
	return p, nil
}
