package view

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/blutable/pkg/grouping"
	"github.com/yumyai/blutable/pkg/model"
)

func testDocument(n int) *Document {
	doc := &model.ResultDocument{}
	for i := 0; i < n; i++ {
		doc.Results = append(doc.Results, &model.Result{
			Query: fmt.Sprintf("q%03d_R%d", i/2, i%2+1),
			Taxon: &model.Taxon{
				ReachedRank: "species",
				Identifier:  fmt.Sprintf("taxon-%d", i%3),
				Taxonomy:    "d__bacteria;s__taxon",
				ConsensusBeans: []*model.ConsensusBean{
					{Rank: "species", Identifier: fmt.Sprintf("taxon-%d", i%3), Occurrences: 9},
					{Rank: "species", Identifier: "other", Occurrences: 2},
				},
			},
		})
	}
	doc.Results = append(doc.Results, &model.Result{Query: "lonely"})
	return &Document{ID: fmt.Sprintf("doc-%d", n), Source: "test", ResultDocument: doc}
}

func newTestExplorer(t *testing.T) *Explorer {
	t.Helper()
	e, err := NewExplorer(ExplorerOptions{PageSize: 10, RowHeight: 40})
	require.NoError(t, err)
	return e
}

func TestExplorerTablePagination(t *testing.T) {
	e := newTestExplorer(t)
	e.SetDocument(testDocument(24))

	snap, err := e.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 25, snap.TotalResults)
	assert.Equal(t, 3, snap.Page.Count)
	assert.Len(t, snap.Page.Items, 10)
	assert.Equal(t, "pages", snap.PageUnit())

	require.NoError(t, e.Update(func(s ViewState) ViewState { return s.WithPage(3) }))
	snap, err = e.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snap.Page.Items, 5)
	assert.Equal(t, "lonely", snap.Page.Items[4].Name)

	// Growing the page size shrinks the page count; the page clamps.
	require.NoError(t, e.Update(func(s ViewState) ViewState { return s.WithPageSize(20) }))
	snap, err = e.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Page.Number)
	assert.Equal(t, 2, e.Active().State().Page)
}

func TestExplorerFilterClampsPage(t *testing.T) {
	e := newTestExplorer(t)
	e.SetDocument(testDocument(24))

	require.NoError(t, e.Update(func(s ViewState) ViewState { return s.WithPage(3) }))
	require.NoError(t, e.Update(func(s ViewState) ViewState {
		s.Filter.QuerySearch = "q00"
		return s
	}))

	snap, err := e.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 20, snap.Filtered)
	assert.Equal(t, 2, snap.Page.Number)
}

func TestExplorerSwitchMode(t *testing.T) {
	e := newTestExplorer(t)
	e.SetDocument(testDocument(24))

	require.NoError(t, e.SwitchMode(grouping.GroupedByTaxonomy))
	require.NoError(t, e.Update(func(s ViewState) ViewState { return s.WithSearch("", "taxon").WithPage(2) }))

	require.NoError(t, e.SwitchMode(grouping.Table))
	require.NoError(t, e.SwitchMode(grouping.GroupedByTaxonomy))

	state := e.Active().State()
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, "taxon", state.Filter.SubjectSearch)

	assert.ErrorIs(t, e.SwitchMode(grouping.GroupMode(5)), grouping.ErrInvalidConfiguration)
}

func TestExplorerGroupedByTaxonomy(t *testing.T) {
	e := newTestExplorer(t)
	e.SetDocument(testDocument(6))
	require.NoError(t, e.SwitchMode(grouping.GroupedByTaxonomy))

	snap, err := e.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "groups", snap.PageUnit())
	require.Len(t, snap.Groups, 4)
	assert.Equal(t, grouping.UnidentifiedGroup, snap.Groups[3].Name)
	assert.Equal(t, 4, snap.StatsCount())

	row := NewRow(snap.Groups[3].Chunk[0])
	assert.Equal(t, model.NO_MATCH_LABEL, row.ProposedName())
	assert.Equal(t, model.RuleNoBeans, row.Consensus.Rule)
}

func TestExplorerGroupedBySubject(t *testing.T) {
	e := newTestExplorer(t)
	e.SetDocument(testDocument(6))
	require.NoError(t, e.SwitchMode(grouping.GroupedBySubject))
	require.NoError(t, e.Update(func(s ViewState) ViewState { return s.WithWrapChar("_") }))

	snap, err := e.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap.Groups, 4)
	assert.Equal(t, "lonely", snap.Groups[0].Name)
	assert.Equal(t, "q000", snap.Groups[1].Name)
	assert.Len(t, snap.Groups[1].Chunk, 2)
}

func TestExplorerSection(t *testing.T) {
	e := newTestExplorer(t)
	e.SetDocument(testDocument(60))
	require.NoError(t, e.SwitchMode(grouping.GroupedByTaxonomy))

	s, err := e.Section("taxon-0", 405)
	require.NoError(t, err)

	sl := s.Slice()
	assert.Equal(t, 11, sl.First)
	assert.Equal(t, 20, sl.End)
	assert.Equal(t, 800.0, sl.TotalHeight)

	rows := s.Visible()
	require.Len(t, rows, 9)
	assert.Equal(t, model.RuleTwiceOfSecondBean, rows[0].Consensus.Rule)
	assert.Equal(t, "Taxon 0", rows[0].ConsensusName())

	_, err = e.Section("missing", 0)
	assert.Error(t, err)
}

func TestExplorerWithoutDocument(t *testing.T) {
	e := newTestExplorer(t)
	_, err := e.Snapshot()
	assert.Error(t, err)

	_, ok := e.Find("anything")
	assert.False(t, ok)
}

func TestExplorerFindAndReset(t *testing.T) {
	e := newTestExplorer(t)
	e.SetDocument(testDocument(4))

	r, ok := e.Find("lonely")
	require.True(t, ok)
	assert.Nil(t, r.Taxon)

	e.Reset()
	assert.Nil(t, e.Document())
}

func TestSnapshotMemoized(t *testing.T) {
	e := newTestExplorer(t)
	e.SetDocument(testDocument(10))

	first, err := e.Snapshot()
	require.NoError(t, err)
	second, err := e.Snapshot()
	require.NoError(t, err)
	assert.Same(t, first, second)

	// A new document never reuses snapshots of the old one.
	e.SetDocument(testDocument(12))
	third, err := e.Snapshot()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestViewStateJSON(t *testing.T) {
	state := NewViewState(grouping.GroupedBySubject, 25).
		WithSearch(" abc ", "").
		WithUnmatched(grouping.Omit).
		WithWrapChar("_")

	body, err := json.Marshal(state)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"mode":"subject"`)
	assert.Contains(t, string(body), `"unmatched":"omit"`)

	var decoded ViewState
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, state, decoded)

	assert.Error(t, ViewState{Mode: grouping.Table, PageSize: 0}.Validate())
}

func TestRowOfDocumentWithNullBeans(t *testing.T) {
	doc, err := model.ParseDocument([]byte(`{"results": [
		{"query": "a", "taxon": {"identifier": "x", "consensusBeans": [null, {"identifier": "x", "occurrences": 3}]}},
		{"query": "b", "taxon": {"identifier": "y", "consensusBeans": [null]}}
	]}`))
	require.NoError(t, err)

	var rows []Row
	require.NotPanics(t, func() {
		for _, r := range doc.Results {
			rows = append(rows, NewRow(r))
		}
	})
	assert.Equal(t, model.RuleAbsoluteBean, rows[0].Consensus.Rule)
	assert.Equal(t, model.RuleNoBeans, rows[1].Consensus.Rule)
}
