// Package rule implements the BDI mental-state update rule.
//
// A Rule reads an agent's bases through store.Store, tests its guard and
// preconditions in a fixed order, and when every check passes adds or
// removes mental states. Evaluation is synchronous and mutates nothing
// until all checks have passed.
package rule

import (
	"bdirules/internal/expr"
	"bdirules/internal/mental"
	"bdirules/internal/store"
)

// Rule is immutable after New and safe to evaluate for many agents
// concurrently as long as each agent's store is used by one goroutine.
type Rule struct {
	name       string
	facets     Facets
	actionable bool
	checks     []check
}

// Outcome describes what an evaluation did. Blocked names the first check
// that failed when the rule did not fire.
type Outcome struct {
	Fired   bool
	Blocked Facet
}

// New compiles a rule from its facets.
func New(name string, f Facets) *Rule {
	r := &Rule{name: name, facets: f, actionable: f.actionable()}
	r.checks = r.buildChecks()
	return r
}

// Name returns the declared rule name.
func (r *Rule) Name() string { return r.name }

// Facets returns a copy of the rule's facets.
func (r *Rule) Facets() Facets { return r.facets }

// Parallel returns the parallel facet, nil when absent.
func (r *Rule) Parallel() expr.Expression { return r.facets.Parallel }

// evaluation carries the per-call state shared by checks and actions.
type evaluation struct {
	rule  *Rule
	scope expr.Scope
	st    store.Store

	all         bool
	beliefProbe *mental.Predicate
	emotion     *mental.Emotion
	witnesses   map[mental.Category][]mental.Predicate
}

// Evaluate runs the rule for one agent. A nil error with Fired false means
// the rule was not applicable. A *GuardError means a check failed to
// evaluate and nothing was mutated; an *ActionError means an action failed
// after earlier actions of this call were already applied.
func (r *Rule) Evaluate(scope expr.Scope, st store.Store) (Outcome, error) {
	ev := &evaluation{
		rule:      r,
		scope:     scope,
		st:        st,
		witnesses: make(map[mental.Category][]mental.Predicate, 3),
	}
	for _, c := range r.checks {
		ok, err := c.run(ev)
		if err != nil {
			return Outcome{Blocked: c.facet}, &GuardError{Rule: r.name, Facet: c.facet, Err: err}
		}
		if !ok {
			return Outcome{Blocked: c.facet}, nil
		}
	}
	if err := ev.apply(); err != nil {
		return Outcome{Fired: true}, err
	}
	return Outcome{Fired: true}, nil
}

func (ev *evaluation) eval(e expr.Expression) (any, error) {
	return e.Eval(ev.scope)
}

func (ev *evaluation) evalPredicate(e expr.Expression) (mental.Predicate, error) {
	v, err := ev.eval(e)
	if err != nil {
		return mental.Predicate{}, err
	}
	return expr.AsPredicate(v)
}

func (ev *evaluation) evalEmotion(e expr.Expression) (mental.Emotion, error) {
	v, err := ev.eval(e)
	if err != nil {
		return mental.Emotion{}, err
	}
	return expr.AsEmotion(v)
}

func (ev *evaluation) evalPredicates(e expr.Expression) ([]mental.Predicate, error) {
	v, err := ev.eval(e)
	if err != nil {
		return nil, err
	}
	return expr.AsPredicates(v)
}

func (ev *evaluation) evalEmotions(e expr.Expression) ([]mental.Emotion, error) {
	v, err := ev.eval(e)
	if err != nil {
		return nil, err
	}
	return expr.AsEmotions(v)
}
