package mental

import (
	"testing"

	"github.com/google/mangle/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicateEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Predicate
		want bool
	}{
		{"same name no values", Predicate{Name: "p"}, Predicate{Name: "p"}, true},
		{"nil and empty values", Predicate{Name: "p"}, Predicate{Name: "p", Values: Values{}}, true},
		{"different names", Predicate{Name: "p"}, Predicate{Name: "q"}, false},
		{"same values", Predicate{Name: "p", Values: Values{"x": 1}}, Predicate{Name: "p", Values: Values{"x": 1}}, true},
		{"int vs float", Predicate{Name: "p", Values: Values{"x": 1}}, Predicate{Name: "p", Values: Values{"x": 1.0}}, true},
		{"different values", Predicate{Name: "p", Values: Values{"x": 1}}, Predicate{Name: "p", Values: Values{"x": 2}}, false},
		{"missing key", Predicate{Name: "p", Values: Values{"x": 1}}, Predicate{Name: "p", Values: Values{"y": 1}}, false},
		{"extra key", Predicate{Name: "p", Values: Values{"x": 1}}, Predicate{Name: "p", Values: Values{"x": 1, "y": 2}}, false},
		{"nested list", Predicate{Name: "p", Values: Values{"l": []any{1, "a"}}}, Predicate{Name: "p", Values: Values{"l": []any{1.0, "a"}}}, true},
		{"string vs number", Predicate{Name: "p", Values: Values{"x": "1"}}, Predicate{Name: "p", Values: Values{"x": 1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestValuesCloneDoesNotAlias(t *testing.T) {
	orig := Values{"x": 1, "nested": map[string]any{"y": 2}, "list": []any{1, 2}}
	c := orig.Clone()
	require.True(t, Predicate{Values: orig}.Equal(Predicate{Values: c}))

	c["x"] = 99
	c["nested"].(map[string]any)["y"] = 99
	c["list"].([]any)[0] = 99

	assert.Equal(t, 1, orig["x"])
	assert.Equal(t, 2, orig["nested"].(map[string]any)["y"])
	assert.Equal(t, 1, orig["list"].([]any)[0])
}

func TestValuesCloneNil(t *testing.T) {
	var v Values
	assert.Nil(t, v.Clone())
}

func TestPredicateWithValues(t *testing.T) {
	witness := Values{"x": 1}
	p := Predicate{Name: "q"}.WithValues(witness)
	p.Values["x"] = 2
	assert.Equal(t, 1, witness["x"])
	assert.Equal(t, "q", p.Name)
}

func TestPredicateString(t *testing.T) {
	assert.Equal(t, "p", Predicate{Name: "p"}.String())
	assert.Equal(t, "p{a: 1, b: z}", Predicate{Name: "p", Values: Values{"b": "z", "a": 1}}.String())
}

func TestMentalStateClone(t *testing.T) {
	m := NewMentalState(CategoryBelief, Predicate{Name: "p", Values: Values{"x": 1}})
	m.SetStrength(0.5)
	m.SetLifetime(3)

	c := m.Clone()
	*c.Strength = 0.9
	*c.Lifetime = 1
	c.Predicate.Values["x"] = 2

	assert.Equal(t, 0.5, *m.Strength)
	assert.Equal(t, 3, *m.Lifetime)
	assert.Equal(t, 1, m.Predicate.Values["x"])
	assert.Equal(t, "belief(p{x: 1}, strength=0.5, lifetime=3)", m.String())
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("uncertainty")
	require.NoError(t, err)
	assert.Equal(t, CategoryUncertainty, c)

	_, err = ParseCategory("Belief")
	assert.Error(t, err)
}

func TestPredicateToAtom(t *testing.T) {
	p := Predicate{Name: "danger", Values: Values{"b": "north", "a": 2, "c": 0.25, "d": true}}
	atom := p.ToAtom()

	assert.Equal(t, "danger", atom.Predicate.Symbol)
	require.Len(t, atom.Args, 4)
	assertConstant(t, atom.Args[0], ast.NumberType, "", 2)
	assertConstant(t, atom.Args[1], ast.StringType, "north", 0)
	assertConstant(t, atom.Args[2], ast.Float64Type, "", 0)
	assert.Equal(t, ast.TrueConstant, atom.Args[3])
}

func TestMentalStateToAtom(t *testing.T) {
	m := NewMentalState(CategoryDesire, Predicate{Name: "flee", Values: Values{"x": 1}})
	atom := m.ToAtom()

	assert.Equal(t, "desire", atom.Predicate.Symbol)
	require.Len(t, atom.Args, 2)
	assertConstant(t, atom.Args[0], ast.StringType, "flee", 0)
	assertConstant(t, atom.Args[1], ast.NumberType, "", 1)
}

func TestEmotionToAtom(t *testing.T) {
	atom := Emotion{Kind: "fear", Intensity: 0.6}.ToAtom()
	assert.Equal(t, "emotion", atom.Predicate.Symbol)
	require.Len(t, atom.Args, 2)
	assertConstant(t, atom.Args[0], ast.StringType, "fear", 0)
	assertConstant(t, atom.Args[1], ast.Float64Type, "", 0)
}

func assertConstant(t *testing.T, term ast.BaseTerm, typ ast.ConstantType, symbol string, num int64) {
	t.Helper()
	c, ok := term.(ast.Constant)
	require.True(t, ok, "expected constant term")
	require.Equal(t, typ, c.Type)
	switch typ {
	case ast.NumberType:
		assert.Equal(t, num, c.NumValue)
		return
	case ast.Float64Type:
		return
	}
	assert.Equal(t, symbol, c.Symbol)
}
