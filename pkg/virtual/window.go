// Package virtual computes which rows of a long, fixed-row-height list are
// visible for a scroll offset, so only that slice needs to be rendered.
package virtual

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidWindow = errors.New("invalid virtual window")

// Window describes one scrollable section. Rows all have RowHeight pixels.
type Window struct {
	RowHeight       float64
	TotalItems      int
	VisibleCount    int // rows rendered past the first visible one
	ContainerHeight float64
}

// Slice is the part of the list to render for a scroll position. Rows
// [First, End) are drawn, shifted down by OffsetY inside a spacer of
// TotalHeight pixels.
type Slice struct {
	First       int     `json:"first"`
	End         int     `json:"end"`
	OffsetY     float64 `json:"offset_y"`
	TotalHeight float64 `json:"total_height"`
}

func NewWindow(rowHeight float64, totalItems, visibleCount int, containerHeight float64) (Window, error) {
	w := Window{
		RowHeight:       rowHeight,
		TotalItems:      totalItems,
		VisibleCount:    visibleCount,
		ContainerHeight: containerHeight,
	}
	return w, w.Validate()
}

func (w Window) Validate() error {
	if w.RowHeight <= 0 || math.IsNaN(w.RowHeight) || math.IsInf(w.RowHeight, 0) {
		return fmt.Errorf("%w: row height %v", ErrInvalidWindow, w.RowHeight)
	}
	if w.TotalItems < 0 {
		return fmt.Errorf("%w: total items %d", ErrInvalidWindow, w.TotalItems)
	}
	if w.VisibleCount < 0 {
		return fmt.Errorf("%w: visible count %d", ErrInvalidWindow, w.VisibleCount)
	}
	return nil
}

// TotalHeight is the full scroll height of the list.
func (w Window) TotalHeight() float64 {
	return float64(w.TotalItems) * w.RowHeight
}

// FirstVisible is ceil(scrollTop / rowHeight), clamped to [0, TotalItems].
func (w Window) FirstVisible(scrollTop float64) int {
	if scrollTop <= 0 || math.IsNaN(scrollTop) {
		return 0
	}
	first := math.Ceil(scrollTop / w.RowHeight)
	if first >= float64(w.TotalItems) {
		return w.TotalItems
	}
	return int(first)
}

// At computes the rendered slice for a scroll position. The buffer row after
// VisibleCount is included, and the end never passes TotalItems.
func (w Window) At(scrollTop float64) Slice {
	first := w.FirstVisible(scrollTop)
	end := min(first+w.VisibleCount+1, w.TotalItems)
	if end < first {
		end = first
	}
	return Slice{
		First:       first,
		End:         end,
		OffsetY:     float64(first) * w.RowHeight,
		TotalHeight: w.TotalHeight(),
	}
}

func (s Slice) Len() int {
	return s.End - s.First
}

// Indices lists the row indices in the slice.
func (s Slice) Indices() []int {
	out := make([]int, 0, s.Len())
	for i := s.First; i < s.End; i++ {
		out = append(out, i)
	}
	return out
}

// ContainerHeight sizes a section viewport for n rows: a full page of
// visible rows when the section overflows, room for two rows when it holds a
// single one, otherwise exactly n rows.
func ContainerHeight(n, visible int, rowHeight float64) float64 {
	switch {
	case n > visible:
		return float64(visible) * rowHeight
	case n == 1:
		return 2 * rowHeight
	default:
		return float64(n) * rowHeight
	}
}
