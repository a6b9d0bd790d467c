package model

import (
	"fmt"
	"slices"
)

// Rule identifies which decision fired when picking the most probable bean.
type Rule int

const (
	RuleNoBeans Rule = iota
	RuleAbsoluteBean
	RuleTwiceOfSecondBean
)

var ruleDescriptions = map[Rule]string{
	RuleNoBeans:           "No consensus beans",
	RuleAbsoluteBean:      "Only one consensus bean",
	RuleTwiceOfSecondBean: "Twice the occurrences of the second most frequent taxon",
}

// ConsensusSelection is the outcome of SelectMostProbable. Bean is nil when no
// confident call could be made.
type ConsensusSelection struct {
	Bean *ConsensusBean
	Rule Rule
}

// SelectMostProbable picks the most probable taxon among the consensus beans.
//
//  1. No beans: nothing is selected (RuleNoBeans).
//  2. Exactly one bean: it is selected (RuleAbsoluteBean).
//  3. Otherwise the bean with the most occurrences is selected, but only when
//     it has at least twice the occurrences of the runner-up
//     (RuleTwiceOfSecondBean). If it does not dominate, nothing is selected
//     and the rule is RuleNoBeans.
//
// The input slice is never reordered.
func SelectMostProbable(beans []*ConsensusBean) ConsensusSelection {

	switch len(beans) {
	case 0:
		return ConsensusSelection{Rule: RuleNoBeans}
	case 1:
		return ConsensusSelection{Bean: beans[0], Rule: RuleAbsoluteBean}
	}

	ordered := slices.Clone(beans)
	slices.SortStableFunc(ordered, func(a, b *ConsensusBean) int {
		return b.Occurrences - a.Occurrences
	})

	first, second := ordered[0], ordered[1]
	if first.Occurrences >= 2*second.Occurrences {
		return ConsensusSelection{Bean: first, Rule: RuleTwiceOfSecondBean}
	}

	return ConsensusSelection{Rule: RuleNoBeans}
}

// LookupRuleDescription returns the human readable rule text.
func LookupRuleDescription(rule Rule) (string, bool) {
	desc, ok := ruleDescriptions[rule]
	return desc, ok
}

// RuleDescription panics on an unknown rule: rules only come from
// SelectMostProbable, so an unknown one is a programming error.
func RuleDescription(rule Rule) string {
	desc, ok := LookupRuleDescription(rule)
	if !ok {
		panic(fmt.Sprintf("invalid consensus rule: %d", int(rule)))
	}
	return desc
}

func (r Rule) String() string {
	switch r {
	case RuleNoBeans:
		return "NO_BEANS"
	case RuleAbsoluteBean:
		return "ABSOLUTE_BEAN"
	case RuleTwiceOfSecondBean:
		return "TWICE_OF_SECOND_BEAN"
	default:
		return fmt.Sprintf("Rule(%d)", int(r))
	}
}
