package grouping

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/yumyai/blutable/pkg/model"
)

func matched(query, identifier string) *model.Result {
	return &model.Result{
		Query: query,
		Taxon: &model.Taxon{
			ReachedRank: "species",
			Identifier:  identifier,
			Taxonomy:    "s__" + identifier,
		},
	}
}

func unmatched(query string) *model.Result {
	return &model.Result{Query: query}
}

func fixture() []*model.Result {
	return []*model.Result{
		matched("sample2_R1", "escherichia-coli"),
		matched("sample1_R1", "bacillus-subtilis"),
		unmatched("sample1_R2"),
		matched("sample2_R2", "escherichia-coli"),
		matched("Sample3", "listeria-monocytogenes"),
	}
}

func names(groups []Group) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Name)
	}
	return out
}

func queries(results []*model.Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Query)
	}
	return out
}

func TestBuildGroupsTable(t *testing.T) {
	groups, err := BuildGroups(fixture(), Table, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"sample2_R1", "sample1_R1", "sample1_R2", "sample2_R2", "Sample3"}, names(groups))
	for _, g := range groups {
		assert.Len(t, g.Chunk, 1)
	}
	assert.Equal(t, "", groups[2].Rank)
}

func TestBuildGroupsBySubject(t *testing.T) {

	t.Run("WithoutWrapChar", func(t *testing.T) {
		groups, err := BuildGroups(fixture(), GroupedBySubject, Options{})
		require.NoError(t, err)
		assert.Len(t, groups, 5)
	})

	t.Run("WithWrapChar", func(t *testing.T) {
		groups, err := BuildGroups(fixture(), GroupedBySubject, Options{WrapChar: "_", Locale: language.English})
		require.NoError(t, err)

		assert.Equal(t, []string{"sample1", "sample2", "Sample3"}, names(groups))
		assert.Equal(t, []string{"sample1_R1", "sample1_R2"}, queries(groups[0].Chunk))
		assert.Equal(t, []string{"sample2_R1", "sample2_R2"}, queries(groups[1].Chunk))
		assert.Equal(t, "bacillus-subtilis", groups[0].Taxonomy[3:])
	})

	t.Run("EmptyKeyIsDropped", func(t *testing.T) {
		groups, err := BuildGroups([]*model.Result{unmatched("_orphan"), unmatched("a_1")}, GroupedBySubject, Options{WrapChar: "_"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, names(groups))
	})
}

func TestBuildGroupsByTaxonomy(t *testing.T) {
	groups, err := BuildGroups(fixture(), GroupedByTaxonomy, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"bacillus-subtilis", "escherichia-coli", "listeria-monocytogenes", UnidentifiedGroup}, names(groups))
	assert.Equal(t, []string{"sample2_R1", "sample2_R2"}, queries(groups[1].Chunk))
	assert.Equal(t, []string{"sample1_R2"}, queries(groups[3].Chunk))
	assert.Equal(t, "", groups[3].Rank)
}

func TestBuildGroupsInvalidMode(t *testing.T) {
	_, err := BuildGroups(fixture(), GroupMode(9), Options{})
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))

	_, err = ParseGroupMode("by-color")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestBuildGroupsIsIdempotent(t *testing.T) {
	for _, mode := range []GroupMode{Table, GroupedBySubject, GroupedByTaxonomy} {
		t.Run(mode.String(), func(t *testing.T) {
			opts := Options{WrapChar: "_"}
			first, err := BuildGroups(fixture(), mode, opts)
			require.NoError(t, err)

			second, err := BuildGroups(Flatten(first), mode, opts)
			require.NoError(t, err)

			assert.Equal(t, first, second)
		})
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "NoFilter", filter: Filter{}, want: []string{"sample2_R1", "sample1_R1", "sample1_R2", "sample2_R2", "Sample3"}},
		{name: "QueryCaseInsensitive", filter: Filter{QuerySearch: "SAMPLE1"}, want: []string{"sample1_R1", "sample1_R2"}},
		{name: "QueryTrimmed", filter: Filter{QuerySearch: "  r2 "}, want: []string{"sample1_R2", "sample2_R2"}},
		{name: "Subject", filter: Filter{SubjectSearch: "Coli"}, want: []string{"sample2_R1", "sample2_R2"}},
		{name: "Both", filter: Filter{QuerySearch: "R1", SubjectSearch: "coli"}, want: []string{"sample2_R1"}},
		{name: "ShowOnlyUnmatched", filter: Filter{Unmatched: ShowOnly}, want: []string{"sample1_R2"}},
		{name: "OmitUnmatched", filter: Filter{Unmatched: Omit}, want: []string{"sample2_R1", "sample1_R1", "sample2_R2", "Sample3"}},
		{name: "SubjectExcludesUnmatched", filter: Filter{SubjectSearch: "s"}, want: []string{"sample2_R1", "sample1_R1", "sample2_R2", "Sample3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.Apply(fixture())
			require.NoError(t, err)
			assert.Equal(t, tt.want, queries(got))
		})
	}

	t.Run("QuerySubstring", func(t *testing.T) {
		got, err := Filter{QuerySearch: "abc"}.Apply([]*model.Result{unmatched("abc1"), unmatched("xyz")})
		require.NoError(t, err)
		assert.Equal(t, []string{"abc1"}, queries(got))
	})

	t.Run("InvalidUnmatchedAction", func(t *testing.T) {
		_, err := Filter{Unmatched: UnmatchedAction(7)}.Apply(fixture())
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})
}

func TestOmitUnmatchedThenGroup(t *testing.T) {
	results := []*model.Result{matched("a", "x"), matched("b", "y"), unmatched("c")}

	kept, err := Filter{Unmatched: Omit}.Apply(results)
	require.NoError(t, err)

	for _, mode := range []GroupMode{Table, GroupedBySubject, GroupedByTaxonomy} {
		groups, err := BuildGroups(kept, mode, Options{})
		require.NoError(t, err)
		assert.NotContains(t, queries(Flatten(groups)), "c")
	}
}

func TestChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	for size := 1; size <= 8; size++ {
		pages, err := Chunk(items, size)
		require.NoError(t, err)

		var flat []int
		for _, p := range pages {
			assert.LessOrEqual(t, len(p), size)
			flat = append(flat, p...)
		}
		assert.Equal(t, items, flat)
		assert.Len(t, pages, PageCount(len(items), size))
	}

	_, err := Chunk(items, 0)
	assert.ErrorIs(t, err, ErrInvalidPageSize)

	pages, err := Chunk([]int{}, 3)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestPaginate(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	page, err := Paginate(items, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, Page[string]{Number: 2, Count: 3, Items: []string{"c", "d"}}, page)

	// Out of range pages clamp to the last page.
	page, err = Paginate(items, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Number)
	assert.Equal(t, []string{"e"}, page.Items)

	page, err = Paginate([]string{}, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Empty(t, page.Items)

	_, err = Paginate(items, -1, 1)
	assert.Error(t, err)
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 4))
	assert.Equal(t, 3, ClampPage(3, 4))
	assert.Equal(t, 4, ClampPage(9, 4))
	assert.Equal(t, 1, ClampPage(2, 0))
}
