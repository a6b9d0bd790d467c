package view

import (
	"github.com/yumyai/blutable/pkg/model"
)

// Row is one result prepared for display: the consensus pick, its rule text,
// the composition chart and the parsed lineage.
type Row struct {
	Result      *model.Result
	Consensus   model.ConsensusSelection
	RuleText    string
	Composition model.Composition
	Lineage     []model.LineageSegment
}

func NewRow(r *model.Result) Row {
	row := Row{Result: r}
	if r.Taxon == nil {
		row.Consensus = model.SelectMostProbable(nil)
	} else {
		row.Consensus = model.SelectMostProbable(r.Taxon.ConsensusBeans)
		row.Composition = model.NewComposition(r.Taxon, model.CompositionMaxWidth)
		row.Lineage = model.ParseLineage(r.Taxon.Taxonomy)
	}
	row.RuleText = model.RuleDescription(row.Consensus.Rule)
	return row
}

// ProposedName is the display name of the upstream call, or the no-match label.
func (r Row) ProposedName() string {
	if r.Result.Taxon == nil {
		return model.NO_MATCH_LABEL
	}
	return model.KebabToSciName(r.Result.Taxon.Identifier, r.Result.Taxon.ReachedRank)
}

// ConsensusName is the display name of the selected bean, "" if none.
func (r Row) ConsensusName() string {
	if r.Consensus.Bean == nil {
		return ""
	}
	return model.KebabToSciName(r.Consensus.Bean.Identifier, r.Consensus.Bean.Rank)
}
