package virtual

// RowSource produces pre-rendered rows on demand. Rows outside the visible
// slice are never requested.
type RowSource[T any] interface {
	Len() int
	Row(i int) T
}

// RowFunc adapts a length and a function to a RowSource.
type RowFunc[T any] struct {
	N  int
	Fn func(i int) T
}

func (f RowFunc[T]) Len() int    { return f.N }
func (f RowFunc[T]) Row(i int) T { return f.Fn(i) }

func SliceSource[T any](rows []T) RowSource[T] {
	return RowFunc[T]{N: len(rows), Fn: func(i int) T { return rows[i] }}
}

// Section is one virtualized list. It renders nothing until it first
// intersects the viewport and stays mounted afterwards.
type Section[T any] struct {
	Name      string
	window    Window
	source    RowSource[T]
	mounted   bool
	scrollTop float64
}

// NewSection builds a section over source. The window's TotalItems is taken
// from the source.
func NewSection[T any](name string, source RowSource[T], rowHeight float64, visibleCount int) (*Section[T], error) {
	total := source.Len()
	w, err := NewWindow(rowHeight, total, visibleCount, ContainerHeight(total, visibleCount, rowHeight))
	if err != nil {
		return nil, err
	}
	return &Section[T]{Name: name, window: w, source: source}, nil
}

func (s *Section[T]) Window() Window { return s.window }

func (s *Section[T]) Mounted() bool { return s.mounted }

// Intersect records a viewport intersection change. Leaving the viewport
// does not unmount.
func (s *Section[T]) Intersect(inView bool) {
	if inView {
		s.mounted = true
	}
}

func (s *Section[T]) Scroll(scrollTop float64) {
	s.scrollTop = scrollTop
}

func (s *Section[T]) ScrollTop() float64 { return s.scrollTop }

// Slice is the current visible slice.
func (s *Section[T]) Slice() Slice {
	return s.window.At(s.scrollTop)
}

// Visible returns the rows to draw, or nil while unmounted.
func (s *Section[T]) Visible() []T {
	if !s.mounted {
		return nil
	}
	sl := s.Slice()
	rows := make([]T, 0, sl.Len())
	for i := sl.First; i < sl.End; i++ {
		rows = append(rows, s.source.Row(i))
	}
	return rows
}
