package rule

import (
	"fmt"

	"bdirules/internal/expr"
)

// Facet names one optional part of a rule declaration.
type Facet string

const (
	FacetWhen     Facet = "when"
	FacetAll      Facet = "all"
	FacetParallel Facet = "parallel"

	// Singular preconditions.
	FacetBelief      Facet = "belief"
	FacetDesire      Facet = "desire"
	FacetEmotion     Facet = "emotion"
	FacetUncertainty Facet = "uncertainty"
	FacetIdeal       Facet = "ideal"
	FacetObligation  Facet = "obligation"

	// List preconditions, universally quantified.
	FacetBeliefs       Facet = "beliefs"
	FacetDesires       Facet = "desires"
	FacetEmotions      Facet = "emotions"
	FacetUncertainties Facet = "uncertainties"
	FacetIdeals        Facet = "ideals"
	FacetObligations   Facet = "obligations"

	// Singular actions.
	FacetNewBelief         Facet = "new_belief"
	FacetNewDesire         Facet = "new_desire"
	FacetNewEmotion        Facet = "new_emotion"
	FacetNewUncertainty    Facet = "new_uncertainty"
	FacetNewIdeal          Facet = "new_ideal"
	FacetRemoveBelief      Facet = "remove_belief"
	FacetRemoveDesire      Facet = "remove_desire"
	FacetRemoveIntention   Facet = "remove_intention"
	FacetRemoveEmotion     Facet = "remove_emotion"
	FacetRemoveUncertainty Facet = "remove_uncertainty"
	FacetRemoveIdeal       Facet = "remove_ideal"
	FacetRemoveObligation  Facet = "remove_obligation"

	// List actions.
	FacetNewBeliefs          Facet = "new_beliefs"
	FacetNewDesires          Facet = "new_desires"
	FacetNewEmotions         Facet = "new_emotions"
	FacetNewUncertainties    Facet = "new_uncertainties"
	FacetNewIdeals           Facet = "new_ideals"
	FacetRemoveBeliefs       Facet = "remove_beliefs"
	FacetRemoveDesires       Facet = "remove_desires"
	FacetRemoveEmotions      Facet = "remove_emotions"
	FacetRemoveUncertainties Facet = "remove_uncertainties"
	FacetRemoveIdeals        Facet = "remove_ideals"
	FacetRemoveObligations   Facet = "remove_obligations"

	// Annotations.
	FacetStrength  Facet = "strength"
	FacetLifetime  Facet = "lifetime"
	FacetThreshold Facet = "threshold"

	// FacetGate is reported when a rule has no action that passes the
	// applicability gate.
	FacetGate Facet = "gate"
)

// Kind is the value kind a facet expression must evaluate to.
type Kind int

const (
	KindBool Kind = iota
	KindNumber
	KindNumberOrList
	KindBoolOrNumber
	KindPredicate
	KindEmotion
	KindPredicateList
	KindEmotionList
)

// FacetKinds maps every declarable facet to the kind it evaluates to.
var FacetKinds = map[Facet]Kind{
	FacetWhen:     KindBool,
	FacetAll:      KindBool,
	FacetParallel: KindBoolOrNumber,

	FacetBelief:      KindPredicate,
	FacetDesire:      KindPredicate,
	FacetEmotion:     KindEmotion,
	FacetUncertainty: KindPredicate,
	FacetIdeal:       KindPredicate,
	FacetObligation:  KindPredicate,

	FacetBeliefs:       KindPredicateList,
	FacetDesires:       KindPredicateList,
	FacetEmotions:      KindEmotionList,
	FacetUncertainties: KindPredicateList,
	FacetIdeals:        KindPredicateList,
	FacetObligations:   KindPredicateList,

	FacetNewBelief:         KindPredicate,
	FacetNewDesire:         KindPredicate,
	FacetNewEmotion:        KindEmotion,
	FacetNewUncertainty:    KindPredicate,
	FacetNewIdeal:          KindPredicate,
	FacetRemoveBelief:      KindPredicate,
	FacetRemoveDesire:      KindPredicate,
	FacetRemoveIntention:   KindPredicate,
	FacetRemoveEmotion:     KindEmotion,
	FacetRemoveUncertainty: KindPredicate,
	FacetRemoveIdeal:       KindPredicate,
	FacetRemoveObligation:  KindPredicate,

	FacetNewBeliefs:          KindPredicateList,
	FacetNewDesires:          KindPredicateList,
	FacetNewEmotions:         KindEmotionList,
	FacetNewUncertainties:    KindPredicateList,
	FacetNewIdeals:           KindPredicateList,
	FacetRemoveBeliefs:       KindPredicateList,
	FacetRemoveDesires:       KindPredicateList,
	FacetRemoveEmotions:      KindEmotionList,
	FacetRemoveUncertainties: KindPredicateList,
	FacetRemoveIdeals:        KindPredicateList,
	FacetRemoveObligations:   KindPredicateList,

	FacetStrength:  KindNumberOrList,
	FacetLifetime:  KindNumberOrList,
	FacetThreshold: KindNumber,
}

// Facets holds the compiled expression of every facet a rule may declare.
// A nil field means the facet is absent.
type Facets struct {
	When     expr.Expression
	All      expr.Expression
	Parallel expr.Expression

	Belief      expr.Expression
	Desire      expr.Expression
	Emotion     expr.Expression
	Uncertainty expr.Expression
	Ideal       expr.Expression
	Obligation  expr.Expression

	Beliefs       expr.Expression
	Desires       expr.Expression
	Emotions      expr.Expression
	Uncertainties expr.Expression
	Ideals        expr.Expression
	Obligations   expr.Expression

	NewBelief         expr.Expression
	NewDesire         expr.Expression
	NewEmotion        expr.Expression
	NewUncertainty    expr.Expression
	NewIdeal          expr.Expression
	RemoveBelief      expr.Expression
	RemoveDesire      expr.Expression
	RemoveIntention   expr.Expression
	RemoveEmotion     expr.Expression
	RemoveUncertainty expr.Expression
	RemoveIdeal       expr.Expression
	RemoveObligation  expr.Expression

	NewBeliefs          expr.Expression
	NewDesires          expr.Expression
	NewEmotions         expr.Expression
	NewUncertainties    expr.Expression
	NewIdeals           expr.Expression
	RemoveBeliefs       expr.Expression
	RemoveDesires       expr.Expression
	RemoveEmotions      expr.Expression
	RemoveUncertainties expr.Expression
	RemoveIdeals        expr.Expression
	RemoveObligations   expr.Expression

	Strength  expr.Expression
	Lifetime  expr.Expression
	Threshold expr.Expression
}

func (f *Facets) slot(id Facet) *expr.Expression {
	switch id {
	case FacetWhen:
		return &f.When
	case FacetAll:
		return &f.All
	case FacetParallel:
		return &f.Parallel
	case FacetBelief:
		return &f.Belief
	case FacetDesire:
		return &f.Desire
	case FacetEmotion:
		return &f.Emotion
	case FacetUncertainty:
		return &f.Uncertainty
	case FacetIdeal:
		return &f.Ideal
	case FacetObligation:
		return &f.Obligation
	case FacetBeliefs:
		return &f.Beliefs
	case FacetDesires:
		return &f.Desires
	case FacetEmotions:
		return &f.Emotions
	case FacetUncertainties:
		return &f.Uncertainties
	case FacetIdeals:
		return &f.Ideals
	case FacetObligations:
		return &f.Obligations
	case FacetNewBelief:
		return &f.NewBelief
	case FacetNewDesire:
		return &f.NewDesire
	case FacetNewEmotion:
		return &f.NewEmotion
	case FacetNewUncertainty:
		return &f.NewUncertainty
	case FacetNewIdeal:
		return &f.NewIdeal
	case FacetRemoveBelief:
		return &f.RemoveBelief
	case FacetRemoveDesire:
		return &f.RemoveDesire
	case FacetRemoveIntention:
		return &f.RemoveIntention
	case FacetRemoveEmotion:
		return &f.RemoveEmotion
	case FacetRemoveUncertainty:
		return &f.RemoveUncertainty
	case FacetRemoveIdeal:
		return &f.RemoveIdeal
	case FacetRemoveObligation:
		return &f.RemoveObligation
	case FacetNewBeliefs:
		return &f.NewBeliefs
	case FacetNewDesires:
		return &f.NewDesires
	case FacetNewEmotions:
		return &f.NewEmotions
	case FacetNewUncertainties:
		return &f.NewUncertainties
	case FacetNewIdeals:
		return &f.NewIdeals
	case FacetRemoveBeliefs:
		return &f.RemoveBeliefs
	case FacetRemoveDesires:
		return &f.RemoveDesires
	case FacetRemoveEmotions:
		return &f.RemoveEmotions
	case FacetRemoveUncertainties:
		return &f.RemoveUncertainties
	case FacetRemoveIdeals:
		return &f.RemoveIdeals
	case FacetRemoveObligations:
		return &f.RemoveObligations
	case FacetStrength:
		return &f.Strength
	case FacetLifetime:
		return &f.Lifetime
	case FacetThreshold:
		return &f.Threshold
	}
	return nil
}

// Set assigns the expression of a facet by name.
func (f *Facets) Set(id Facet, e expr.Expression) error {
	s := f.slot(id)
	if s == nil {
		return fmt.Errorf("unknown facet %q", id)
	}
	*s = e
	return nil
}

// Get returns the expression of a facet, or nil when absent or unknown.
func (f *Facets) Get(id Facet) expr.Expression {
	if s := f.slot(id); s != nil {
		return *s
	}
	return nil
}

// gateFacets are the actions that make a rule applicable. Ideal and
// obligation actions do not count.
var gateFacets = []Facet{
	FacetNewBelief, FacetNewDesire, FacetNewEmotion, FacetNewUncertainty,
	FacetRemoveBelief, FacetRemoveDesire, FacetRemoveIntention, FacetRemoveEmotion, FacetRemoveUncertainty,
	FacetNewBeliefs, FacetNewDesires, FacetNewEmotions, FacetNewUncertainties,
	FacetRemoveBeliefs, FacetRemoveDesires, FacetRemoveEmotions, FacetRemoveUncertainties,
}

func (f *Facets) actionable() bool {
	for _, id := range gateFacets {
		if f.Get(id) != nil {
			return true
		}
	}
	return false
}
