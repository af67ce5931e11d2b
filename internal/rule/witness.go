package rule

import (
	"bdirules/internal/mental"
)

// collectWitnesses records every entry of base c whose predicate equals the
// belief probe. All three witness scans compare against the belief probe,
// so uncertainty and ideal witnesses exist only when a belief facet is set.
func (ev *evaluation) collectWitnesses(c mental.Category) {
	if ev.beliefProbe == nil {
		return
	}
	var found []mental.Predicate
	for _, s := range ev.st.Iterate(c) {
		if s.Predicate.Equal(*ev.beliefProbe) {
			found = append(found, s.Predicate)
		}
	}
	ev.witnesses[c] = found
}

// Wire applies, for each witness, the predicate of the Source facet to the
// Target base whenever the Trigger facet is declared on the rule. The
// witness's attribute map replaces the source predicate's values.
type Wire struct {
	Trigger Facet
	Target  mental.Category
	Source  Facet
}

// WitnessWiring lists the wires applied for every witness of one category.
type WitnessWiring struct {
	Witness mental.Category
	Wires   []Wire
}

// additionWiring drives quantified additions. Uncertainty and ideal
// witnesses propagate the new_desire predicate into other bases.
var additionWiring = []WitnessWiring{
	{Witness: mental.CategoryBelief, Wires: []Wire{
		{Trigger: FacetNewDesire, Target: mental.CategoryDesire, Source: FacetNewDesire},
		{Trigger: FacetNewUncertainty, Target: mental.CategoryUncertainty, Source: FacetNewUncertainty},
		{Trigger: FacetNewIdeal, Target: mental.CategoryIdeal, Source: FacetNewIdeal},
	}},
	{Witness: mental.CategoryUncertainty, Wires: []Wire{
		{Trigger: FacetNewDesire, Target: mental.CategoryDesire, Source: FacetNewDesire},
		{Trigger: FacetNewBelief, Target: mental.CategoryDesire, Source: FacetNewDesire},
		{Trigger: FacetNewIdeal, Target: mental.CategoryIdeal, Source: FacetNewDesire},
	}},
	{Witness: mental.CategoryIdeal, Wires: []Wire{
		{Trigger: FacetNewDesire, Target: mental.CategoryDesire, Source: FacetNewDesire},
		{Trigger: FacetNewBelief, Target: mental.CategoryBelief, Source: FacetNewDesire},
		{Trigger: FacetNewUncertainty, Target: mental.CategoryUncertainty, Source: FacetNewDesire},
	}},
}

// removalWiring drives quantified removals. Each witness category removes
// from every other predicate base plus obligations, using its own facet.
var removalWiring = []WitnessWiring{
	{Witness: mental.CategoryUncertainty, Wires: []Wire{
		{Trigger: FacetRemoveBelief, Target: mental.CategoryBelief, Source: FacetRemoveBelief},
		{Trigger: FacetRemoveDesire, Target: mental.CategoryDesire, Source: FacetRemoveDesire},
		{Trigger: FacetRemoveIdeal, Target: mental.CategoryIdeal, Source: FacetRemoveIdeal},
		{Trigger: FacetRemoveObligation, Target: mental.CategoryObligation, Source: FacetRemoveObligation},
	}},
	{Witness: mental.CategoryIdeal, Wires: []Wire{
		{Trigger: FacetRemoveBelief, Target: mental.CategoryBelief, Source: FacetRemoveBelief},
		{Trigger: FacetRemoveDesire, Target: mental.CategoryDesire, Source: FacetRemoveDesire},
		{Trigger: FacetRemoveUncertainty, Target: mental.CategoryUncertainty, Source: FacetRemoveUncertainty},
		{Trigger: FacetRemoveObligation, Target: mental.CategoryObligation, Source: FacetRemoveObligation},
	}},
	{Witness: mental.CategoryBelief, Wires: []Wire{
		{Trigger: FacetRemoveDesire, Target: mental.CategoryDesire, Source: FacetRemoveDesire},
		{Trigger: FacetRemoveUncertainty, Target: mental.CategoryUncertainty, Source: FacetRemoveUncertainty},
		{Trigger: FacetRemoveIdeal, Target: mental.CategoryIdeal, Source: FacetRemoveIdeal},
		{Trigger: FacetRemoveObligation, Target: mental.CategoryObligation, Source: FacetRemoveObligation},
	}},
}
