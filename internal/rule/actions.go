package rule

import (
	"fmt"

	"bdirules/internal/expr"
	"bdirules/internal/mental"
)

// singular names a singular predicate action and the base it targets.
type singular struct {
	facet  Facet
	target mental.Category
}

var (
	singularAdditions = []singular{
		{FacetNewDesire, mental.CategoryDesire},
		{FacetNewBelief, mental.CategoryBelief},
		{FacetNewUncertainty, mental.CategoryUncertainty},
		{FacetNewIdeal, mental.CategoryIdeal},
	}
	singularRemovals = []singular{
		{FacetRemoveBelief, mental.CategoryBelief},
		{FacetRemoveDesire, mental.CategoryDesire},
		{FacetRemoveUncertainty, mental.CategoryUncertainty},
		{FacetRemoveIdeal, mental.CategoryIdeal},
		{FacetRemoveObligation, mental.CategoryObligation},
	}
	listAdditions = []singular{
		{FacetNewDesires, mental.CategoryDesire},
		{FacetNewBeliefs, mental.CategoryBelief},
		{FacetNewEmotions, mental.CategoryEmotion},
		{FacetNewUncertainties, mental.CategoryUncertainty},
		{FacetNewIdeals, mental.CategoryIdeal},
	}
	listRemovals = []singular{
		{FacetRemoveBeliefs, mental.CategoryBelief},
		{FacetRemoveDesires, mental.CategoryDesire},
		{FacetRemoveEmotions, mental.CategoryEmotion},
		{FacetRemoveUncertainties, mental.CategoryUncertainty},
		{FacetRemoveIdeals, mental.CategoryIdeal},
		{FacetRemoveObligations, mental.CategoryObligation},
	}
)

// apply runs the four action phases in order. The first failure aborts the
// remaining actions; what was applied stays applied.
func (ev *evaluation) apply() error {
	if err := ev.addSingular(); err != nil {
		return err
	}
	if err := ev.removeSingular(); err != nil {
		return err
	}
	if err := ev.addLists(); err != nil {
		return err
	}
	return ev.removeLists()
}

func (ev *evaluation) actionErr(id Facet, err error) error {
	return &ActionError{Rule: ev.rule.name, Facet: id, Err: err}
}

// evalSingulars evaluates every declared action of the group up front.
func (ev *evaluation) evalSingulars(group []singular) (map[Facet]mental.Predicate, error) {
	vals := make(map[Facet]mental.Predicate, len(group))
	for _, a := range group {
		e := ev.rule.facets.Get(a.facet)
		if e == nil {
			continue
		}
		p, err := ev.evalPredicate(e)
		if err != nil {
			return nil, ev.actionErr(a.facet, err)
		}
		vals[a.facet] = p
	}
	return vals, nil
}

// quantified runs wiring over the collected witnesses, calling do with the
// target base and a predicate carrying a fresh copy of the witness values.
func (ev *evaluation) quantified(wiring []WitnessWiring, vals map[Facet]mental.Predicate, do func(w Wire, p mental.Predicate) error) error {
	for _, ww := range wiring {
		for _, witness := range ev.witnesses[ww.Witness] {
			for _, w := range ww.Wires {
				if _, declared := vals[w.Trigger]; !declared {
					continue
				}
				src, ok := vals[w.Source]
				if !ok {
					return ev.actionErr(w.Trigger, fmt.Errorf("%s witness needs %s, which is not declared", ww.Witness, w.Source))
				}
				if err := do(w, src.WithValues(witness.Values)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (ev *evaluation) addSingular() error {
	vals, err := ev.evalSingulars(singularAdditions)
	if err != nil {
		return err
	}
	if ev.all {
		err = ev.quantified(additionWiring, vals, func(w Wire, p mental.Predicate) error {
			s, err := ev.prepare(w.Target, p, 0)
			if err != nil {
				return ev.actionErr(w.Trigger, err)
			}
			ev.st.Add(w.Target, s)
			return nil
		})
		if err != nil {
			return err
		}
	} else {
		for _, a := range singularAdditions {
			p, ok := vals[a.facet]
			if !ok {
				continue
			}
			s, err := ev.prepare(a.target, p.Clone(), 0)
			if err != nil {
				return ev.actionErr(a.facet, err)
			}
			ev.st.Add(a.target, s)
		}
	}

	if e := ev.rule.facets.NewEmotion; e != nil {
		em, err := ev.evalEmotion(e)
		if err != nil {
			return ev.actionErr(FacetNewEmotion, err)
		}
		ev.st.AddEmotion(em)
	}
	return nil
}

func (ev *evaluation) removeSingular() error {
	vals, err := ev.evalSingulars(singularRemovals)
	if err != nil {
		return err
	}
	if ev.all {
		err = ev.quantified(removalWiring, vals, func(w Wire, p mental.Predicate) error {
			ev.st.Remove(w.Target, mental.NewMentalState(w.Target, p))
			return nil
		})
		if err != nil {
			return err
		}
	} else {
		for _, a := range singularRemovals {
			if p, ok := vals[a.facet]; ok {
				ev.st.Remove(a.target, mental.NewMentalState(a.target, p))
			}
		}
	}

	if e := ev.rule.facets.RemoveIntention; e != nil {
		p, err := ev.evalPredicate(e)
		if err != nil {
			return ev.actionErr(FacetRemoveIntention, err)
		}
		ev.st.Remove(mental.CategoryIntention, mental.NewMentalState(mental.CategoryIntention, p))
	}
	if e := ev.rule.facets.RemoveEmotion; e != nil {
		em, err := ev.evalEmotion(e)
		if err != nil {
			return ev.actionErr(FacetRemoveEmotion, err)
		}
		ev.st.RemoveEmotion(em)
	}
	return nil
}

func (ev *evaluation) addLists() error {
	for _, a := range listAdditions {
		e := ev.rule.facets.Get(a.facet)
		if e == nil {
			continue
		}
		if a.target == mental.CategoryEmotion {
			es, err := ev.evalEmotions(e)
			if err != nil {
				return ev.actionErr(a.facet, err)
			}
			for _, em := range es {
				ev.st.AddEmotion(em)
			}
			continue
		}
		ps, err := ev.evalPredicates(e)
		if err != nil {
			return ev.actionErr(a.facet, err)
		}
		for i, p := range ps {
			s, err := ev.prepare(a.target, p.Clone(), i)
			if err != nil {
				return ev.actionErr(a.facet, err)
			}
			ev.st.Add(a.target, s)
		}
	}
	return nil
}

func (ev *evaluation) removeLists() error {
	for _, a := range listRemovals {
		e := ev.rule.facets.Get(a.facet)
		if e == nil {
			continue
		}
		if a.target == mental.CategoryEmotion {
			es, err := ev.evalEmotions(e)
			if err != nil {
				return ev.actionErr(a.facet, err)
			}
			for _, em := range es {
				ev.st.RemoveEmotion(em)
			}
			continue
		}
		ps, err := ev.evalPredicates(e)
		if err != nil {
			return ev.actionErr(a.facet, err)
		}
		for _, p := range ps {
			ev.st.Remove(a.target, mental.NewMentalState(a.target, p))
		}
	}
	return nil
}

// prepare builds a state of category c for the i-th added predicate and
// annotates it with strength and lifetime. A list-valued annotation supplies
// the value at position i.
func (ev *evaluation) prepare(c mental.Category, p mental.Predicate, i int) (mental.MentalState, error) {
	s := mental.NewMentalState(c, p)
	if e := ev.rule.facets.Strength; e != nil {
		v, err := ev.annotation(e, FacetStrength, i)
		if err != nil {
			return s, err
		}
		f, err := expr.AsFloat(v)
		if err != nil {
			return s, fmt.Errorf("%s: %w", FacetStrength, err)
		}
		s.SetStrength(f)
	}
	if e := ev.rule.facets.Lifetime; e != nil {
		v, err := ev.annotation(e, FacetLifetime, i)
		if err != nil {
			return s, err
		}
		n, err := expr.AsInt(v)
		if err != nil {
			return s, fmt.Errorf("%s: %w", FacetLifetime, err)
		}
		s.SetLifetime(n)
	}
	return s, nil
}

func (ev *evaluation) annotation(e expr.Expression, id Facet, i int) (any, error) {
	v, err := ev.eval(e)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	if !expr.IsList(v) {
		return v, nil
	}
	l, err := expr.AsList(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	if i >= len(l) {
		return nil, fmt.Errorf("%s[%d] of %d values: %w", id, i, len(l), ErrIndexOutOfRange)
	}
	return l[i], nil
}
