package view

import (
	"fmt"

	"github.com/yumyai/blutable/pkg/grouping"
)

const DefaultPageSize = 10

// ViewState is everything a coordinator needs to derive its view. It is a
// value: every change produces a new ViewState.
type ViewState struct {
	Mode     grouping.GroupMode `json:"mode"`
	Filter   grouping.Filter    `json:"filter"`
	WrapChar string             `json:"wrap_char,omitempty"`
	PageSize int                `json:"page_size"`
	Page     int                `json:"page"`
}

func NewViewState(mode grouping.GroupMode, pageSize int) ViewState {
	return ViewState{Mode: mode, PageSize: pageSize, Page: 1}
}

func (s ViewState) Validate() error {
	if !s.Mode.Valid() {
		return fmt.Errorf("%w: unknown group mode %d", grouping.ErrInvalidConfiguration, int(s.Mode))
	}
	if s.PageSize <= 0 {
		return fmt.Errorf("%w: %d", grouping.ErrInvalidPageSize, s.PageSize)
	}
	switch s.Filter.Unmatched {
	case grouping.ShowAlso, grouping.ShowOnly, grouping.Omit:
	default:
		return fmt.Errorf("%w: unknown unmatched action %d", grouping.ErrInvalidConfiguration, int(s.Filter.Unmatched))
	}
	return nil
}

func (s ViewState) WithPage(page int) ViewState {
	s.Page = page
	return s
}

func (s ViewState) WithPageSize(size int) ViewState {
	s.PageSize = size
	return s
}

// WithSearch replaces both search terms. Changing what is shown sends the
// view back to the first page.
func (s ViewState) WithSearch(query, subject string) ViewState {
	query, subject = grouping.NormalizeTerm(query), grouping.NormalizeTerm(subject)
	if query != s.Filter.QuerySearch || subject != s.Filter.SubjectSearch {
		s.Page = 1
	}
	s.Filter.QuerySearch = query
	s.Filter.SubjectSearch = subject
	return s
}

func (s ViewState) WithUnmatched(action grouping.UnmatchedAction) ViewState {
	if action != s.Filter.Unmatched {
		s.Page = 1
	}
	s.Filter.Unmatched = action
	return s
}

func (s ViewState) WithWrapChar(wrap string) ViewState {
	if wrap != s.WrapChar {
		s.Page = 1
	}
	s.WrapChar = wrap
	return s
}

// key identifies the derived output of s for the memo cache.
func (s ViewState) key() string {
	return fmt.Sprintf("%d|%q|%q|%d|%q|%d|%d",
		s.Mode, s.Filter.QuerySearch, s.Filter.SubjectSearch, s.Filter.Unmatched,
		s.WrapChar, s.PageSize, s.Page)
}
