// Package store holds an agent's mental-state bases.
//
// Store is the capability the rule engine consumes; Bases is the in-memory
// implementation used by the architecture. Each agent owns exactly one
// Bases and it is not safe for concurrent use.
package store

import (
	"bdirules/internal/mental"
)

// Store is the per-agent view over the seven bases.
type Store interface {
	// Has reports whether the base of category c holds a state whose
	// predicate is structurally equal to p.
	Has(c mental.Category, p mental.Predicate) bool
	// Add inserts s into the base of category c. An entry with an equal
	// predicate is overwritten in place.
	Add(c mental.Category, s mental.MentalState)
	// Remove deletes the entry of category c whose predicate equals s's.
	Remove(c mental.Category, s mental.MentalState)
	// Iterate returns the entries of category c in insertion order.
	Iterate(c mental.Category) []mental.MentalState

	HasEmotion(kind string) bool
	Emotion(kind string) (mental.Emotion, bool)
	AddEmotion(e mental.Emotion)
	RemoveEmotion(e mental.Emotion)
}

// Bases is an ordered, in-memory Store. The zero value is empty bases.
type Bases struct {
	states   map[mental.Category][]mental.MentalState
	emotions []mental.Emotion
}

var _ Store = (*Bases)(nil)

// New returns empty bases.
func New() *Bases {
	return &Bases{states: make(map[mental.Category][]mental.MentalState)}
}

func (b *Bases) index(c mental.Category, p mental.Predicate) int {
	for i, s := range b.states[c] {
		if s.Predicate.Equal(p) {
			return i
		}
	}
	return -1
}

func (b *Bases) Has(c mental.Category, p mental.Predicate) bool {
	return b.index(c, p) >= 0
}

func (b *Bases) Add(c mental.Category, s mental.MentalState) {
	s.Category = c
	if b.states == nil {
		b.states = make(map[mental.Category][]mental.MentalState)
	}
	if i := b.index(c, s.Predicate); i >= 0 {
		b.states[c][i] = s
		return
	}
	b.states[c] = append(b.states[c], s)
}

func (b *Bases) Remove(c mental.Category, s mental.MentalState) {
	i := b.index(c, s.Predicate)
	if i < 0 {
		return
	}
	base := b.states[c]
	b.states[c] = append(base[:i:i], base[i+1:]...)
}

func (b *Bases) Iterate(c mental.Category) []mental.MentalState {
	base := b.states[c]
	out := make([]mental.MentalState, len(base))
	copy(out, base)
	return out
}

// Len returns the number of entries in the base of category c.
func (b *Bases) Len(c mental.Category) int {
	if c == mental.CategoryEmotion {
		return len(b.emotions)
	}
	return len(b.states[c])
}

func (b *Bases) emotionIndex(kind string) int {
	for i, e := range b.emotions {
		if e.Kind == kind {
			return i
		}
	}
	return -1
}

func (b *Bases) HasEmotion(kind string) bool {
	return b.emotionIndex(kind) >= 0
}

func (b *Bases) Emotion(kind string) (mental.Emotion, bool) {
	if i := b.emotionIndex(kind); i >= 0 {
		return b.emotions[i], true
	}
	return mental.Emotion{}, false
}

func (b *Bases) AddEmotion(e mental.Emotion) {
	if i := b.emotionIndex(e.Kind); i >= 0 {
		b.emotions[i] = e
		return
	}
	b.emotions = append(b.emotions, e)
}

func (b *Bases) RemoveEmotion(e mental.Emotion) {
	i := b.emotionIndex(e.Kind)
	if i < 0 {
		return
	}
	b.emotions = append(b.emotions[:i:i], b.emotions[i+1:]...)
}

// Emotions returns the emotion base in insertion order.
func (b *Bases) Emotions() []mental.Emotion {
	out := make([]mental.Emotion, len(b.emotions))
	copy(out, b.emotions)
	return out
}

// Tick advances lifetimes by one step. Entries whose lifetime reaches zero
// are dropped; entries without a lifetime are kept forever. It returns the
// number of expired entries.
func (b *Bases) Tick() int {
	expired := 0
	for c, base := range b.states {
		kept := base[:0]
		for _, s := range base {
			if s.Lifetime != nil {
				left := *s.Lifetime - 1
				if left <= 0 {
					expired++
					continue
				}
				s.SetLifetime(left)
			}
			kept = append(kept, s)
		}
		clear(base[len(kept):])
		b.states[c] = kept
	}
	return expired
}
