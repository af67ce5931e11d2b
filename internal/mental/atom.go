package mental

import (
	"fmt"

	"github.com/google/mangle/ast"
)

// ToAtom renders the predicate as a Datalog atom name(V1, ..., Vn) with the
// attribute values ordered by key.
func (p Predicate) ToAtom() ast.Atom {
	keys := p.Values.Keys()
	terms := make([]ast.BaseTerm, 0, len(keys))
	for _, k := range keys {
		terms = append(terms, toTerm(p.Values[k]))
	}
	return ast.NewAtom(p.Name, terms...)
}

// ToAtom renders the state as category("name", V1, ..., Vn).
func (m MentalState) ToAtom() ast.Atom {
	keys := m.Predicate.Values.Keys()
	terms := make([]ast.BaseTerm, 0, len(keys)+1)
	terms = append(terms, ast.String(m.Predicate.Name))
	for _, k := range keys {
		terms = append(terms, toTerm(m.Predicate.Values[k]))
	}
	return ast.NewAtom(string(m.Category), terms...)
}

// ToAtom renders the emotion as emotion("kind", Intensity).
func (e Emotion) ToAtom() ast.Atom {
	return ast.NewAtom(string(CategoryEmotion), ast.String(e.Kind), toTerm(e.Intensity))
}

// toTerm converts an attribute value to a Mangle constant.
func toTerm(v any) ast.BaseTerm {
	switch t := v.(type) {
	case string:
		return ast.String(t)
	case int:
		return ast.Number(int64(t))
	case int32:
		return ast.Number(int64(t))
	case int64:
		return ast.Number(t)
	case float32:
		return ast.Float64(float64(t))
	case float64:
		return ast.Float64(t)
	case bool:
		if t {
			return ast.TrueConstant
		}
		return ast.FalseConstant
	case Predicate:
		return ast.String(t.String())
	default:
		return ast.String(fmt.Sprintf("%v", t))
	}
}
