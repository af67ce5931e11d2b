package mental

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Values is the attribute map carried by a Predicate.
type Values map[string]any

// Predicate is a named fact with key/value attributes. Equality is structural
// over the name and the attribute map.
type Predicate struct {
	Name   string
	Values Values
}

// NewPredicate builds a predicate that owns a deep copy of values.
func NewPredicate(name string, values Values) Predicate {
	return Predicate{Name: name, Values: values.Clone()}
}

// Equal reports structural equality. A nil and an empty attribute map are equal.
func (p Predicate) Equal(o Predicate) bool {
	if p.Name != o.Name || len(p.Values) != len(o.Values) {
		return false
	}
	for k, v := range p.Values {
		ov, ok := o.Values[k]
		if !ok || !valueEqual(v, ov) {
			return false
		}
	}
	return true
}

// Clone returns a predicate whose attribute map does not alias p's.
func (p Predicate) Clone() Predicate {
	return Predicate{Name: p.Name, Values: p.Values.Clone()}
}

// WithValues returns a copy of p carrying a deep copy of values instead of its own.
func (p Predicate) WithValues(values Values) Predicate {
	return Predicate{Name: p.Name, Values: values.Clone()}
}

// String renders the predicate as name{k1: v1, k2: v2} with sorted keys.
func (p Predicate) String() string {
	if len(p.Values) == 0 {
		return p.Name
	}
	keys := p.Values.Keys()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, p.Values[k]))
	}
	return fmt.Sprintf("%s{%s}", p.Name, strings.Join(parts, ", "))
}

// Keys returns the attribute names in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone deep-copies the map, including nested maps, slices and predicates.
// A nil map clones to nil.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = cloneValue(val)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Values:
		return t.Clone()
	case map[string]any:
		return map[string]any(Values(t).Clone())
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case Predicate:
		return t.Clone()
	case *Predicate:
		if t == nil {
			return t
		}
		c := t.Clone()
		return &c
	default:
		return v
	}
}

// valueEqual compares attribute values. Numbers compare by value regardless
// of their Go type so that a declared 1 matches a computed 1.0.
func valueEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	switch ta := a.(type) {
	case Predicate:
		tb, ok := b.(Predicate)
		return ok && ta.Equal(tb)
	case Values:
		tb, ok := asValues(b)
		return ok && Predicate{Values: ta}.Equal(Predicate{Values: tb})
	case map[string]any:
		tb, ok := asValues(b)
		return ok && Predicate{Values: ta}.Equal(Predicate{Values: tb})
	case []any:
		tb, ok := b.([]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for i := range ta {
			if !valueEqual(ta[i], tb[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func asValues(v any) (Values, bool) {
	switch t := v.(type) {
	case Values:
		return t, true
	case map[string]any:
		return Values(t), true
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
