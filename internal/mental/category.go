// Package mental defines the mental-state data model of a BDI agent:
// predicates, mental states, emotions and the categories they live in.
// Types here are plain values with no dependency on the rule engine.
package mental

import "fmt"

// Category names one of the seven per-agent bases.
type Category string

const (
	CategoryBelief      Category = "belief"
	CategoryDesire      Category = "desire"
	CategoryIntention   Category = "intention"
	CategoryEmotion     Category = "emotion"
	CategoryUncertainty Category = "uncertainty"
	CategoryIdeal       Category = "ideal"
	CategoryObligation  Category = "obligation"
)

// Categories lists every category in canonical order.
var Categories = []Category{CategoryBelief, CategoryDesire, CategoryIntention, CategoryEmotion, CategoryUncertainty, CategoryIdeal, CategoryObligation}

// PredicateCategories lists the categories whose bases hold predicate-carrying
// mental states (everything but Emotion).
var PredicateCategories = []Category{CategoryBelief, CategoryDesire, CategoryIntention, CategoryUncertainty, CategoryIdeal, CategoryObligation}

// ParseCategory converts a case-sensitive category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown mental state category %q", s)
}
