package request

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/yumyai/blutable/pkg/grouping"
	"github.com/yumyai/blutable/pkg/view"
)

// ViewRequest is the parsed form of /results query parameters. Nil or zero
// fields were absent and leave the current state alone.
type ViewRequest struct {
	Mode          *grouping.GroupMode       `json:"mode,omitempty"`
	QuerySearch   *string                   `json:"q,omitempty"`
	SubjectSearch *string                   `json:"s,omitempty"`
	Unmatched     *grouping.UnmatchedAction `json:"unmatched,omitempty"`
	WrapChar      *string                   `json:"wrap,omitempty"`
	Page          int                       `json:"page,omitempty"`
	PageSize      int                       `json:"page_size,omitempty"`
}

// SectionRequest asks for the visible slice of one group.
type SectionRequest struct {
	Group     string  `json:"group"`
	ScrollTop float64 `json:"scroll_top"`
}

func parsePositiveInt(v string) int {
	num, err := strconv.Atoi(v)
	if err != nil || num <= 0 {
		return 0
	}
	return num
}

func ParseViewRequest(q url.Values) (ViewRequest, error) {
	var req ViewRequest

	if q.Has(FieldMode) {
		mode, err := grouping.ParseGroupMode(q.Get(FieldMode))
		if err != nil {
			return req, err
		}
		req.Mode = &mode
	}
	if q.Has(FieldUnmatched) {
		action, err := grouping.ParseUnmatchedAction(q.Get(FieldUnmatched))
		if err != nil {
			return req, err
		}
		req.Unmatched = &action
	}
	if q.Has(FieldQuery) {
		v := q.Get(FieldQuery)
		req.QuerySearch = &v
	}
	if q.Has(FieldSubject) {
		v := q.Get(FieldSubject)
		req.SubjectSearch = &v
	}
	if q.Has(FieldWrap) {
		v := q.Get(FieldWrap)
		req.WrapChar = &v
	}

	req.Page = parsePositiveInt(q.Get(FieldPage))
	req.PageSize = parsePositiveInt(q.Get(FieldPageSize))
	return req, nil
}

// Apply folds the request into state. A requested page is ignored when the
// same request changes what is shown, since that starts over at page 1.
func (r ViewRequest) Apply(state view.ViewState) view.ViewState {
	next := state

	query, subject := next.Filter.QuerySearch, next.Filter.SubjectSearch
	if r.QuerySearch != nil {
		query = *r.QuerySearch
	}
	if r.SubjectSearch != nil {
		subject = *r.SubjectSearch
	}
	next = next.WithSearch(query, subject)

	if r.Unmatched != nil {
		next = next.WithUnmatched(*r.Unmatched)
	}
	if r.WrapChar != nil {
		next = next.WithWrapChar(*r.WrapChar)
	}
	if r.PageSize > 0 {
		next = next.WithPageSize(r.PageSize)
	}

	refiltered := next.Filter != state.Filter || next.WrapChar != state.WrapChar
	if r.Page > 0 && !refiltered {
		next = next.WithPage(r.Page)
	}
	return next
}

func ParseSectionRequest(q url.Values) (SectionRequest, error) {
	req := SectionRequest{Group: q.Get(FieldGroup)}
	if req.Group == "" {
		return req, fmt.Errorf("missing %s parameter", FieldGroup)
	}
	if raw := q.Get(FieldScrollTop); raw != "" {
		top, err := strconv.ParseFloat(raw, 64)
		if err != nil || top < 0 {
			return req, fmt.Errorf("invalid %s %q", FieldScrollTop, raw)
		}
		req.ScrollTop = top
	}
	return req, nil
}

// Encode is the inverse of ParseViewRequest for a complete state, used to
// build pagination and mode links.
func Encode(state view.ViewState) url.Values {
	q := url.Values{}
	q.Set(FieldMode, state.Mode.String())
	q.Set(FieldQuery, state.Filter.QuerySearch)
	q.Set(FieldSubject, state.Filter.SubjectSearch)
	q.Set(FieldUnmatched, state.Filter.Unmatched.String())
	q.Set(FieldWrap, state.WrapChar)
	q.Set(FieldPageSize, strconv.Itoa(state.PageSize))
	q.Set(FieldPage, strconv.Itoa(state.Page))
	return q
}

// ResultsURL links to /results showing state.
func ResultsURL(state view.ViewState) string {
	return "/results?" + Encode(state).Encode()
}

// NormalizeURL trims the pasted document URL.
func NormalizeURL(raw string) string {
	return strings.TrimSpace(raw)
}
