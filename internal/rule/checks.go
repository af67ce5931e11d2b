package rule

import (
	"bdirules/internal/expr"
	"bdirules/internal/mental"
	"bdirules/internal/store"
)

// check is one step of the precondition chain. It returns false when the
// rule is not applicable.
type check struct {
	facet Facet
	run   func(ev *evaluation) (bool, error)
}

// buildChecks lays out the precondition chain in evaluation order. Checks
// for absent facets are omitted.
func (r *Rule) buildChecks() []check {
	f := &r.facets
	var cs []check
	add := func(id Facet, present bool, run func(ev *evaluation) (bool, error)) {
		if present {
			cs = append(cs, check{facet: id, run: run})
		}
	}

	add(FacetWhen, f.When != nil, checkWhen)
	add(FacetGate, true, func(ev *evaluation) (bool, error) { return ev.rule.actionable, nil })
	add(FacetEmotion, f.Emotion != nil, checkEmotionAbsent)
	add(FacetAll, f.All != nil, checkAll)

	add(FacetBelief, f.Belief != nil, checkBelief)
	add(FacetDesire, f.Desire != nil, presence(mental.CategoryDesire, f.Desire))
	add(FacetUncertainty, f.Uncertainty != nil, witnessed(mental.CategoryUncertainty, f.Uncertainty))
	add(FacetIdeal, f.Ideal != nil, witnessed(mental.CategoryIdeal, f.Ideal))
	add(FacetObligation, f.Obligation != nil, presence(mental.CategoryObligation, f.Obligation))

	add(FacetBeliefs, f.Beliefs != nil, allPresent(mental.CategoryBelief, f.Beliefs))
	add(FacetDesires, f.Desires != nil, allPresent(mental.CategoryDesire, f.Desires))
	add(FacetUncertainties, f.Uncertainties != nil, allPresent(mental.CategoryUncertainty, f.Uncertainties))
	add(FacetIdeals, f.Ideals != nil, allPresent(mental.CategoryIdeal, f.Ideals))
	add(FacetObligations, f.Obligations != nil, allPresent(mental.CategoryObligation, f.Obligations))
	add(FacetEmotions, f.Emotions != nil, checkEmotionsPresent)

	add(FacetThreshold, f.Threshold != nil, checkThreshold)
	return cs
}

func checkWhen(ev *evaluation) (bool, error) {
	v, err := ev.eval(ev.rule.facets.When)
	if err != nil {
		return false, err
	}
	return expr.AsBool(v)
}

// checkEmotionAbsent passes only while the named emotion is not felt.
func checkEmotionAbsent(ev *evaluation) (bool, error) {
	e, err := ev.evalEmotion(ev.rule.facets.Emotion)
	if err != nil {
		return false, err
	}
	ev.emotion = &e
	return !ev.st.HasEmotion(e.Kind), nil
}

func checkAll(ev *evaluation) (bool, error) {
	v, err := ev.eval(ev.rule.facets.All)
	if err != nil {
		return false, err
	}
	ev.all, err = expr.AsBool(v)
	return err == nil, err
}

func checkBelief(ev *evaluation) (bool, error) {
	p, err := ev.evalPredicate(ev.rule.facets.Belief)
	if err != nil {
		return false, err
	}
	ev.beliefProbe = &p
	if !ev.st.Has(mental.CategoryBelief, p) {
		return false, nil
	}
	ev.collectWitnesses(mental.CategoryBelief)
	return true, nil
}

// witnessed tests membership of the category's own probe, then collects
// witnesses from that category's base.
func witnessed(c mental.Category, e expr.Expression) func(ev *evaluation) (bool, error) {
	return func(ev *evaluation) (bool, error) {
		p, err := ev.evalPredicate(e)
		if err != nil {
			return false, err
		}
		if !ev.st.Has(c, p) {
			return false, nil
		}
		ev.collectWitnesses(c)
		return true, nil
	}
}

func presence(c mental.Category, e expr.Expression) func(ev *evaluation) (bool, error) {
	return func(ev *evaluation) (bool, error) {
		p, err := ev.evalPredicate(e)
		if err != nil {
			return false, err
		}
		return ev.st.Has(c, p), nil
	}
}

// allPresent passes when every predicate of the list is in base c.
func allPresent(c mental.Category, e expr.Expression) func(ev *evaluation) (bool, error) {
	return func(ev *evaluation) (bool, error) {
		ps, err := ev.evalPredicates(e)
		if err != nil {
			return false, err
		}
		for _, p := range ps {
			if !ev.st.Has(c, p) {
				return false, nil
			}
		}
		return true, nil
	}
}

func checkEmotionsPresent(ev *evaluation) (bool, error) {
	es, err := ev.evalEmotions(ev.rule.facets.Emotions)
	if err != nil {
		return false, err
	}
	for _, e := range es {
		if !ev.st.HasEmotion(e.Kind) {
			return false, nil
		}
	}
	return true, nil
}

func checkThreshold(ev *evaluation) (bool, error) {
	v, err := ev.eval(ev.rule.facets.Threshold)
	if err != nil {
		return false, err
	}
	threshold, err := expr.AsFloat(v)
	if err != nil {
		return false, err
	}
	if ev.emotion == nil {
		return false, nil
	}
	return thresholdMet(ev.st, ev.emotion.Kind, threshold), nil
}

// thresholdMet reports whether the stored intensity of kind is at least
// threshold. An emotion missing from the base never meets it.
func thresholdMet(st store.Store, kind string, threshold float64) bool {
	e, ok := st.Emotion(kind)
	if !ok {
		return false
	}
	return e.Intensity >= threshold
}
