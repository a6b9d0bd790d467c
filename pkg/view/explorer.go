package view

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/language"

	"github.com/yumyai/blutable/pkg/grouping"
	"github.com/yumyai/blutable/pkg/model"
	"github.com/yumyai/blutable/pkg/virtual"
)

var allModes = []grouping.GroupMode{grouping.Table, grouping.GroupedBySubject, grouping.GroupedByTaxonomy}

type ExplorerOptions struct {
	PageSize  int
	RowHeight float64
	Locale    language.Tag
	// Shared memo cache; nil creates a private one of CacheSize entries.
	Cache     *lru.Cache[string, *Snapshot]
	CacheSize int
}

// Explorer holds the loaded document and one coordinator per presentation
// mode. It is not safe for concurrent use; callers serialize access.
type Explorer struct {
	doc          *Document
	active       grouping.GroupMode
	rowHeight    float64
	coordinators map[grouping.GroupMode]*Coordinator
}

func NewCache(size int) (*lru.Cache[string, *Snapshot], error) {
	return lru.New[string, *Snapshot](size)
}

func NewExplorer(opts ExplorerOptions) (*Explorer, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.RowHeight <= 0 {
		return nil, fmt.Errorf("%w: row height %v", virtual.ErrInvalidWindow, opts.RowHeight)
	}

	cache := opts.Cache
	if cache == nil {
		size := opts.CacheSize
		if size <= 0 {
			size = 64
		}
		var err error
		if cache, err = NewCache(size); err != nil {
			return nil, fmt.Errorf("failed to create view cache: %w", err)
		}
	}

	e := &Explorer{
		active:       grouping.Table,
		rowHeight:    opts.RowHeight,
		coordinators: make(map[grouping.GroupMode]*Coordinator, len(allModes)),
	}
	for _, mode := range allModes {
		e.coordinators[mode] = newCoordinator(mode, opts.PageSize, opts.Locale, cache)
	}
	return e, nil
}

// Document returns the loaded document, nil if none.
func (e *Explorer) Document() *Document { return e.doc }

// SetDocument replaces the document wholesale. Every coordinator goes back
// to page 1; search terms are kept.
func (e *Explorer) SetDocument(doc *Document) {
	e.doc = doc
	for _, c := range e.coordinators {
		c.state = c.state.WithPage(1)
	}
}

func (e *Explorer) Reset() {
	e.SetDocument(nil)
}

func (e *Explorer) ActiveMode() grouping.GroupMode { return e.active }

func (e *Explorer) Coordinator(mode grouping.GroupMode) (*Coordinator, error) {
	c, ok := e.coordinators[mode]
	if !ok {
		return nil, fmt.Errorf("%w: unknown group mode %d", grouping.ErrInvalidConfiguration, int(mode))
	}
	return c, nil
}

func (e *Explorer) Active() *Coordinator {
	return e.coordinators[e.active]
}

// SwitchMode activates another coordinator and resets its page to 1.
func (e *Explorer) SwitchMode(mode grouping.GroupMode) error {
	c, err := e.Coordinator(mode)
	if err != nil {
		return err
	}
	if mode != e.active {
		c.state = c.state.WithPage(1)
	}
	e.active = mode
	return nil
}

// Update applies fn to the active coordinator's state.
func (e *Explorer) Update(fn func(ViewState) ViewState) error {
	c := e.Active()
	return c.SetState(fn(c.State()))
}

// Snapshot derives the active view.
func (e *Explorer) Snapshot() (*Snapshot, error) {
	return e.Active().Snapshot(e.doc)
}

// Section builds the virtualized section for one group of the active view.
// The section is mounted: callers ask for it because it is in view.
func (e *Explorer) Section(groupName string, scrollTop float64) (*virtual.Section[Row], error) {
	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}

	for _, g := range snap.Groups {
		if g.Name != groupName {
			continue
		}
		s, err := NewSection(g, snap.State.PageSize, e.rowHeight)
		if err != nil {
			return nil, err
		}
		s.Intersect(true)
		s.Scroll(scrollTop)
		return s, nil
	}

	return nil, fmt.Errorf("group %q not found", groupName)
}

// Find returns the result for a query in the loaded document.
func (e *Explorer) Find(query string) (*model.Result, bool) {
	if e.doc == nil {
		return nil, false
	}
	for _, r := range e.doc.Results {
		if r.Query == query {
			return r, true
		}
	}
	return nil, false
}

func (e *Explorer) RowHeight() float64 { return e.rowHeight }

// NewSection wraps a group in a virtual section whose rows are built lazily.
func NewSection(g grouping.Group, visibleCount int, rowHeight float64) (*virtual.Section[Row], error) {
	source := virtual.RowFunc[Row]{
		N:  len(g.Chunk),
		Fn: func(i int) Row { return NewRow(g.Chunk[i]) },
	}
	return virtual.NewSection[Row](g.Name, source, rowHeight, visibleCount)
}
