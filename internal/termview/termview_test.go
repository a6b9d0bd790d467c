package termview

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/blutable/pkg/grouping"
	"github.com/yumyai/blutable/pkg/model"
	"github.com/yumyai/blutable/pkg/view"
)

func testDocument() *view.Document {
	return &view.Document{
		ID:     "doc",
		Source: "test.json",
		ResultDocument: &model.ResultDocument{Results: []*model.Result{
			{
				Query: "read_1",
				Taxon: &model.Taxon{
					ReachedRank:  "species",
					Identifier:   "bacillus-subtilis",
					PercIdentity: 99.5,
					BitScore:     512,
					Taxonomy:     "d__bacteria;g__bacillus;s__bacillus-subtilis",
					ConsensusBeans: []*model.ConsensusBean{
						{Rank: "species", Identifier: "bacillus-subtilis", Occurrences: 8, Accessions: []string{"A1", "A2"}},
						{Rank: "species", Identifier: "bacillus-cereus", Occurrences: 2},
					},
				},
			},
			{Query: "read_2"},
		}},
	}
}

func snapshot(t *testing.T, mode grouping.GroupMode) *view.Snapshot {
	t.Helper()
	e, err := view.NewExplorer(view.ExplorerOptions{PageSize: 10, RowHeight: 40})
	require.NoError(t, err)
	e.SetDocument(testDocument())
	require.NoError(t, e.SwitchMode(mode))
	snap, err := e.Snapshot()
	require.NoError(t, err)
	return snap
}

func TestSnapshotTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false).Snapshot("test.json", snapshot(t, grouping.Table)))

	out := buf.String()
	assert.Contains(t, out, "test.json: 2 results in 1 pages")
	assert.Contains(t, out, "read_1")
	assert.Contains(t, out, "Bacillus subtilis")
	assert.Contains(t, out, "8/10")
	assert.Contains(t, out, "[2]")
	assert.Contains(t, out, model.NO_MATCH_LABEL)
	assert.Contains(t, out, "[0]")
}

func TestSnapshotGrouped(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false).Snapshot("test.json", snapshot(t, grouping.GroupedByTaxonomy)))

	out := buf.String()
	assert.Contains(t, out, "in 2 groups")
	assert.Contains(t, out, "Bacillus subtilis (1)")
	assert.Contains(t, out, grouping.UnidentifiedGroup+" (1)")
}

func TestDetail(t *testing.T) {
	var buf bytes.Buffer
	doc := testDocument()
	require.NoError(t, NewPrinter(&buf, false).Detail(doc.Results[0]))

	out := buf.String()
	assert.Contains(t, out, "read_1: Bacillus subtilis")
	assert.Contains(t, out, "genus")
	assert.Contains(t, out, "Bacillus cereus")
	assert.Contains(t, out, model.RuleDescription(model.RuleTwiceOfSecondBean))
}
