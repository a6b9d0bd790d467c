package grouping

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/yumyai/blutable/pkg/model"
)

// Filter is applied to the flat result list before grouping. Search terms are
// case-insensitive substring matches; both set means both must match.
type Filter struct {
	QuerySearch   string          `json:"query_search,omitempty"`
	SubjectSearch string          `json:"subject_search,omitempty"`
	Unmatched     UnmatchedAction `json:"unmatched"`
}

// NormalizeTerm trims a search term. An empty result means "no filter".
func NormalizeTerm(term string) string {
	return strings.TrimSpace(term)
}

func (f Filter) IsZero() bool {
	return NormalizeTerm(f.QuerySearch) == "" && NormalizeTerm(f.SubjectSearch) == "" && f.Unmatched == ShowAlso
}

// Apply returns the results that pass the filter, in input order.
func (f Filter) Apply(results []*model.Result) ([]*model.Result, error) {

	switch f.Unmatched {
	case ShowAlso, ShowOnly, Omit:
	default:
		return nil, fmt.Errorf("%w: unknown unmatched action %d", ErrInvalidConfiguration, int(f.Unmatched))
	}

	// Casers carry state, one per call.
	fold := cases.Fold()
	queryTerm := fold.String(NormalizeTerm(f.QuerySearch))
	subjectTerm := fold.String(NormalizeTerm(f.SubjectSearch))

	kept := make([]*model.Result, 0, len(results))
	for _, r := range results {

		switch f.Unmatched {
		case ShowOnly:
			if r.Matched() {
				continue
			}
		case Omit:
			if !r.Matched() {
				continue
			}
		}

		if queryTerm != "" && !strings.Contains(fold.String(r.Query), queryTerm) {
			continue
		}

		if subjectTerm != "" {
			if !r.Matched() || !strings.Contains(fold.String(r.Taxon.Identifier), subjectTerm) {
				continue
			}
		}

		kept = append(kept, r)
	}

	return kept, nil
}
