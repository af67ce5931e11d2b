package store

import (
	"bdirules/internal/mental"
)

// Snapshot is a deep, order-preserving copy of an agent's bases.
type Snapshot struct {
	States   map[mental.Category][]mental.MentalState
	Emotions []mental.Emotion
}

// Snapshot copies every base. Categories with no entries are omitted.
func (b *Bases) Snapshot() Snapshot {
	snap := Snapshot{States: make(map[mental.Category][]mental.MentalState)}
	for _, c := range mental.PredicateCategories {
		base := b.states[c]
		if len(base) == 0 {
			continue
		}
		cp := make([]mental.MentalState, len(base))
		for i, s := range base {
			cp[i] = s.Clone()
		}
		snap.States[c] = cp
	}
	snap.Emotions = b.Emotions()
	return snap
}

// Predicates lists the predicates of category c in insertion order.
func (s Snapshot) Predicates(c mental.Category) []mental.Predicate {
	out := make([]mental.Predicate, 0, len(s.States[c]))
	for _, st := range s.States[c] {
		out = append(out, st.Predicate)
	}
	return out
}
