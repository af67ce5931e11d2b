package mental

import "fmt"

// MentalState wraps a predicate with the category it belongs to and two
// optional annotations. Strength and Lifetime are not part of identity:
// membership within a base is keyed on predicate equality only.
type MentalState struct {
	Category  Category
	Predicate Predicate
	Strength  *float64
	Lifetime  *int
}

// NewMentalState creates a state of the given category. The predicate is
// stored as given; callers that propagate values across categories must
// pass a predicate they own.
func NewMentalState(c Category, p Predicate) MentalState {
	return MentalState{Category: c, Predicate: p}
}

// SetStrength sets the confidence weight.
func (m *MentalState) SetStrength(s float64) {
	m.Strength = &s
}

// SetLifetime sets the remaining-steps counter.
func (m *MentalState) SetLifetime(steps int) {
	m.Lifetime = &steps
}

// Clone returns a deep copy.
func (m MentalState) Clone() MentalState {
	out := MentalState{Category: m.Category, Predicate: m.Predicate.Clone()}
	if m.Strength != nil {
		out.SetStrength(*m.Strength)
	}
	if m.Lifetime != nil {
		out.SetLifetime(*m.Lifetime)
	}
	return out
}

func (m MentalState) String() string {
	s := fmt.Sprintf("%s(%s", m.Category, m.Predicate)
	if m.Strength != nil {
		s += fmt.Sprintf(", strength=%g", *m.Strength)
	}
	if m.Lifetime != nil {
		s += fmt.Sprintf(", lifetime=%d", *m.Lifetime)
	}
	return s + ")"
}
