package grouping

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/yumyai/blutable/pkg/model"
)

// Bucket name for results without a taxon when grouping by taxonomy.
const UnidentifiedGroup = "Unidentified"

// Group is a named bucket of results sharing a grouping key. Rank and
// Taxonomy come from the first member's taxon.
type Group struct {
	Name      string          `json:"name"`
	Rank      string          `json:"rank"`
	Taxonomy  string          `json:"taxonomy"`
	GroupedBy GroupMode       `json:"grouped_by"`
	Chunk     []*model.Result `json:"chunk"`
}

type Options struct {
	// WrapChar truncates the query at its first occurrence when grouping by
	// subject ("sample1_R1" -> "sample1" with "_"). Empty disables it.
	WrapChar string
	// Locale for sorting group names. The zero tag uses the root collation.
	Locale language.Tag
}

// BuildGroups buckets results according to mode.
//
// Table mode keeps one group per result in input order. The grouped modes
// collect members in input order and sort the groups by name with
// locale-aware collation.
func BuildGroups(results []*model.Result, mode GroupMode, opts Options) ([]Group, error) {

	var keyOf func(r *model.Result) (string, bool)

	switch mode {
	case Table:
		groups := make([]Group, 0, len(results))
		for _, r := range results {
			groups = append(groups, newGroup(r.Query, mode, r))
		}
		return groups, nil
	case GroupedBySubject:
		keyOf = func(r *model.Result) (string, bool) {
			key := SubjectKey(r.Query, opts.WrapChar)
			return key, key != ""
		}
	case GroupedByTaxonomy:
		keyOf = func(r *model.Result) (string, bool) {
			if !r.Matched() {
				return UnidentifiedGroup, true
			}
			return r.Taxon.Identifier, true
		}
	default:
		return nil, fmt.Errorf("%w: unknown group mode %d", ErrInvalidConfiguration, int(mode))
	}

	index := make(map[string]int)
	groups := make([]Group, 0)

	for _, r := range results {
		key, ok := keyOf(r)
		if !ok {
			continue
		}
		if i, seen := index[key]; seen {
			groups[i].Chunk = append(groups[i].Chunk, r)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, newGroup(key, mode, r))
	}

	SortGroups(groups, opts.Locale)

	return groups, nil
}

// SubjectKey derives the grouping key of a query for GroupedBySubject.
func SubjectKey(query, wrapChar string) string {
	if wrapChar == "" {
		return query
	}
	if i := strings.Index(query, wrapChar); i >= 0 {
		return query[:i]
	}
	return query
}

// SortGroups orders groups by name, ascending, with collation for locale.
func SortGroups(groups []Group, locale language.Tag) {
	coll := collate.New(locale)
	sort.SliceStable(groups, func(i, j int) bool {
		return coll.CompareString(groups[i].Name, groups[j].Name) < 0
	})
}

func newGroup(name string, mode GroupMode, first *model.Result) Group {
	g := Group{
		Name:      name,
		GroupedBy: mode,
		Chunk:     []*model.Result{first},
	}
	if first.Taxon != nil {
		g.Rank = first.Taxon.ReachedRank
		g.Taxonomy = first.Taxon.Taxonomy
	}
	return g
}

// Flatten concatenates the members of groups in group order.
func Flatten(groups []Group) []*model.Result {
	n := 0
	for _, g := range groups {
		n += len(g.Chunk)
	}
	out := make([]*model.Result, 0, n)
	for _, g := range groups {
		out = append(out, g.Chunk...)
	}
	return out
}
