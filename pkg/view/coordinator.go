package view

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/yumyai/blutable/logger"
	"github.com/yumyai/blutable/pkg/grouping"
	"github.com/yumyai/blutable/pkg/metrics"
	"github.com/yumyai/blutable/pkg/model"
)

// Document is a loaded result document plus the identity used for caching.
// It is never mutated after load; a new load produces a new Document.
type Document struct {
	ID     string
	Source string
	*model.ResultDocument
}

// Snapshot is the derived view for one (document, ViewState) pair.
type Snapshot struct {
	State        ViewState                     `json:"state"`
	TotalResults int                           `json:"total_results"`
	Filtered     int                           `json:"filtered"`
	Groups       []grouping.Group              `json:"-"`
	Page         grouping.Page[grouping.Group] `json:"page"`
}

// PageUnit names what a page contains, for the pagination stats line.
func (s *Snapshot) PageUnit() string {
	if s.State.Mode == grouping.Table {
		return "pages"
	}
	return "groups"
}

// StatsCount is the number shown next to PageUnit.
func (s *Snapshot) StatsCount() int {
	if s.State.Mode == grouping.Table {
		return s.Page.Count
	}
	return len(s.Groups)
}

type snapshotCache = lru.Cache[string, *Snapshot]

// Coordinator owns the ViewState of one presentation mode and derives its
// snapshots through the grouping pipeline.
type Coordinator struct {
	state  ViewState
	locale language.Tag
	cache  *snapshotCache
}

func newCoordinator(mode grouping.GroupMode, pageSize int, locale language.Tag, cache *snapshotCache) *Coordinator {
	return &Coordinator{
		state:  NewViewState(mode, pageSize),
		locale: locale,
		cache:  cache,
	}
}

func (c *Coordinator) Mode() grouping.GroupMode { return c.state.Mode }

func (c *Coordinator) State() ViewState { return c.state }

// SetState replaces the state. The mode of a coordinator never changes.
func (c *Coordinator) SetState(state ViewState) error {
	if state.Mode != c.state.Mode {
		return fmt.Errorf("%w: %s coordinator cannot take %s state", grouping.ErrInvalidConfiguration, c.state.Mode, state.Mode)
	}
	if err := state.Validate(); err != nil {
		return err
	}
	c.state = state
	return nil
}

// Snapshot derives the view of doc for the current state. The stored page is
// clamped to what the snapshot actually has.
func (c *Coordinator) Snapshot(doc *Document) (*Snapshot, error) {
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	snap, err := c.derive(doc, c.state)
	if err != nil {
		return nil, err
	}
	c.state = snap.State
	return snap, nil
}

func (c *Coordinator) derive(doc *Document, state ViewState) (*Snapshot, error) {
	key := doc.ID + "|" + state.key()

	if c.cache != nil {
		if snap, ok := c.cache.Get(key); ok {
			metrics.ViewsComputed.WithLabelValues(state.Mode.String(), "hit").Inc()
			return snap, nil
		}
	}

	snap, err := Derive(doc.ResultDocument, state, c.locale)
	if err != nil {
		return nil, err
	}

	metrics.ViewsComputed.WithLabelValues(state.Mode.String(), "miss").Inc()
	logger.Debug("Derived view",
		zap.String("document", doc.ID),
		zap.String("mode", state.Mode.String()),
		zap.Int("filtered", snap.Filtered),
		zap.Int("groups", len(snap.Groups)),
		zap.Int("page", snap.Page.Number),
	)

	if c.cache != nil {
		c.cache.Add(key, snap)
	}
	return snap, nil
}

// Derive is the pure pipeline: filter, group, paginate.
func Derive(doc *model.ResultDocument, state ViewState, locale language.Tag) (*Snapshot, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}

	filtered, err := state.Filter.Apply(doc.Results)
	if err != nil {
		return nil, err
	}

	groups, err := grouping.BuildGroups(filtered, state.Mode, grouping.Options{
		WrapChar: state.WrapChar,
		Locale:   locale,
	})
	if err != nil {
		return nil, err
	}

	page, err := grouping.Paginate(groups, state.PageSize, state.Page)
	if err != nil {
		return nil, err
	}

	state.Page = page.Number
	return &Snapshot{
		State:        state,
		TotalResults: len(doc.Results),
		Filtered:     len(filtered),
		Groups:       groups,
		Page:         page,
	}, nil
}
