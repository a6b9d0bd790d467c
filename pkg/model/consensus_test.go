package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func beansOf(occurrences ...int) []*ConsensusBean {
	beans := make([]*ConsensusBean, 0, len(occurrences))
	for i, n := range occurrences {
		beans = append(beans, &ConsensusBean{
			Rank:        "species",
			Identifier:  string(rune('a' + i)),
			Occurrences: n,
		})
	}
	return beans
}

func TestSelectMostProbable(t *testing.T) {

	tests := []struct {
		name      string
		beans     []*ConsensusBean
		wantRule  Rule
		wantIdent string // "" means no bean
	}{
		{name: "Nil", beans: nil, wantRule: RuleNoBeans},
		{name: "Empty", beans: []*ConsensusBean{}, wantRule: RuleNoBeans},
		{name: "Single", beans: beansOf(3), wantRule: RuleAbsoluteBean, wantIdent: "a"},
		{name: "SingleWithOneOccurrence", beans: beansOf(1), wantRule: RuleAbsoluteBean, wantIdent: "a"},
		{name: "Dominant", beans: beansOf(10, 4), wantRule: RuleTwiceOfSecondBean, wantIdent: "a"},
		{name: "ExactlyTwice", beans: beansOf(8, 4), wantRule: RuleTwiceOfSecondBean, wantIdent: "a"},
		{name: "NotDominant", beans: beansOf(10, 6), wantRule: RuleNoBeans},
		{name: "DominantNotFirst", beans: beansOf(2, 9, 4), wantRule: RuleTwiceOfSecondBean, wantIdent: "b"},
		{name: "Tie", beans: beansOf(5, 5), wantRule: RuleNoBeans},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectMostProbable(tt.beans)

			assert.Equal(t, tt.wantRule, got.Rule)
			if tt.wantIdent == "" {
				assert.Nil(t, got.Bean)
				return
			}
			if assert.NotNil(t, got.Bean) {
				assert.Equal(t, tt.wantIdent, got.Bean.Identifier)
			}
		})
	}
}

func TestSelectMostProbableKeepsInputOrder(t *testing.T) {
	beans := beansOf(1, 7, 2)

	SelectMostProbable(beans)

	assert.Equal(t, []int{1, 7, 2}, []int{beans[0].Occurrences, beans[1].Occurrences, beans[2].Occurrences})
}

func TestRuleDescription(t *testing.T) {
	assert.Equal(t, "No consensus beans", RuleDescription(RuleNoBeans))
	assert.Equal(t, "Only one consensus bean", RuleDescription(RuleAbsoluteBean))
	assert.Equal(t, "Twice the occurrences of the second most frequent taxon", RuleDescription(RuleTwiceOfSecondBean))

	assert.Panics(t, func() { RuleDescription(Rule(3)) })
	assert.Panics(t, func() { RuleDescription(Rule(-1)) })

	_, ok := LookupRuleDescription(Rule(42))
	assert.False(t, ok)
}
