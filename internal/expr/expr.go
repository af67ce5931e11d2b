// Package expr is the expression capability consumed by the rule engine.
//
// An Expression evaluates against a Scope (usually the agent being stepped)
// to an untyped value; the As* casts turn that value into the kind a facet
// expects and report ErrWrongKind otherwise.
package expr

import (
	"errors"
	"fmt"
	"strings"

	"bdirules/internal/mental"
)

var (
	// ErrUndefined is returned when a variable is not bound in the scope.
	ErrUndefined = errors.New("undefined reference")
	// ErrWrongKind is returned when a value cannot be cast to the kind expected.
	ErrWrongKind = errors.New("wrong value kind")
)

// Scope resolves variable names during evaluation.
type Scope interface {
	Lookup(name string) (any, bool)
}

// MapScope is a Scope over a plain map.
type MapScope map[string]any

func (m MapScope) Lookup(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Expression is a compiled sub-expression of a rule facet.
type Expression interface {
	Eval(s Scope) (any, error)
}

// Const always evaluates to V.
type Const struct{ V any }

func (c Const) Eval(Scope) (any, error) { return c.V, nil }

func (c Const) String() string { return fmt.Sprintf("%v", c.V) }

// Var looks Name up in the scope.
type Var struct{ Name string }

func (v Var) Eval(s Scope) (any, error) {
	if s == nil {
		return nil, fmt.Errorf("$%s: %w", v.Name, ErrUndefined)
	}
	val, ok := s.Lookup(v.Name)
	if !ok {
		return nil, fmt.Errorf("$%s: %w", v.Name, ErrUndefined)
	}
	return val, nil
}

func (v Var) String() string { return "$" + v.Name }

// Func adapts a Go function.
type Func func(s Scope) (any, error)

func (f Func) Eval(s Scope) (any, error) { return f(s) }

// Not negates a boolean expression.
type Not struct{ X Expression }

func (n Not) Eval(s Scope) (any, error) {
	v, err := n.X.Eval(s)
	if err != nil {
		return nil, err
	}
	b, err := AsBool(v)
	if err != nil {
		return nil, err
	}
	return !b, nil
}

// PredicateLit builds a fresh predicate on every evaluation so that callers
// never share an attribute map.
type PredicateLit struct {
	Name   string
	Values map[string]Expression
}

func (p PredicateLit) Eval(s Scope) (any, error) {
	out := mental.Predicate{Name: p.Name}
	if len(p.Values) == 0 {
		return out, nil
	}
	out.Values = make(mental.Values, len(p.Values))
	for k, e := range p.Values {
		v, err := e.Eval(s)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", p.Name, k, err)
		}
		out.Values[k] = v
	}
	return out, nil
}

// EmotionLit builds an emotion; a nil Intensity means 0.
type EmotionLit struct {
	Kind      string
	Intensity Expression
}

func (e EmotionLit) Eval(s Scope) (any, error) {
	out := mental.Emotion{Kind: e.Kind}
	if e.Intensity == nil {
		return out, nil
	}
	v, err := e.Intensity.Eval(s)
	if err != nil {
		return nil, fmt.Errorf("%s.intensity: %w", e.Kind, err)
	}
	if out.Intensity, err = AsFloat(v); err != nil {
		return nil, fmt.Errorf("%s.intensity: %w", e.Kind, err)
	}
	return out, nil
}

// ListLit evaluates each element in order.
type ListLit struct{ Elems []Expression }

func (l ListLit) Eval(s Scope) (any, error) {
	out := make([]any, 0, len(l.Elems))
	for i, e := range l.Elems {
		v, err := e.Eval(s)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (l ListLit) String() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = fmt.Sprintf("%v", e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
