package mental

import "fmt"

// Emotion is a named affect with an intensity. Presence tests compare by Kind.
type Emotion struct {
	Kind      string
	Intensity float64
}

// SameKind reports whether e and o name the same emotion.
func (e Emotion) SameKind(o Emotion) bool {
	return e.Kind == o.Kind
}

func (e Emotion) String() string {
	return fmt.Sprintf("%s(%g)", e.Kind, e.Intensity)
}
