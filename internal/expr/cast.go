package expr

import (
	"fmt"

	"bdirules/internal/mental"
)

func wrongKind(v any, want string) error {
	return fmt.Errorf("%w: got %T, want %s", ErrWrongKind, v, want)
}

// AsBool casts v to a boolean. A nil value is false.
func AsBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case nil:
		return false, nil
	}
	return false, wrongKind(v, "bool")
}

// AsFloat casts any Go number to float64.
func AsFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, wrongKind(v, "number")
}

// AsInt casts any Go number to int, truncating floats.
func AsInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float32:
		return int(n), nil
	case float64:
		return int(n), nil
	}
	return 0, wrongKind(v, "int")
}

// IsList reports whether v is a list value.
func IsList(v any) bool {
	switch v.(type) {
	case []any, []mental.Predicate, []mental.Emotion, []float64, []int:
		return true
	}
	return false
}

// AsList normalizes the list kinds this package knows about to []any.
func AsList(v any) ([]any, error) {
	switch l := v.(type) {
	case []any:
		return l, nil
	case []mental.Predicate:
		return toAny(l), nil
	case []mental.Emotion:
		return toAny(l), nil
	case []float64:
		return toAny(l), nil
	case []int:
		return toAny(l), nil
	}
	return nil, wrongKind(v, "list")
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, e := range in {
		out[i] = e
	}
	return out
}

// AsPredicate casts v to a predicate. Besides predicate values it accepts
// the shapes a scenario declares: a bare name, or a {name, values} map.
func AsPredicate(v any) (mental.Predicate, error) {
	switch p := v.(type) {
	case mental.Predicate:
		return p, nil
	case *mental.Predicate:
		if p != nil {
			return *p, nil
		}
	case string:
		if p != "" {
			return mental.Predicate{Name: p}, nil
		}
	case map[string]any:
		return predicateFromMap(p)
	case mental.Values:
		return predicateFromMap(p)
	}
	return mental.Predicate{}, wrongKind(v, "predicate")
}

func predicateFromMap(m map[string]any) (mental.Predicate, error) {
	name, _ := m["name"].(string)
	if name == "" {
		return mental.Predicate{}, fmt.Errorf("%w: predicate map without name", ErrWrongKind)
	}
	out := mental.Predicate{Name: name}
	for k, v := range m {
		switch k {
		case "name":
		case "values":
			switch vals := v.(type) {
			case nil:
			case map[string]any:
				out.Values = mental.Values(vals).Clone()
			case mental.Values:
				out.Values = vals.Clone()
			default:
				return mental.Predicate{}, fmt.Errorf("%w: predicate %s values: got %T, want map", ErrWrongKind, name, v)
			}
		default:
			return mental.Predicate{}, fmt.Errorf("%w: predicate %s: unknown key %q", ErrWrongKind, name, k)
		}
	}
	return out, nil
}

// AsEmotion casts v to an emotion. Besides emotion values it accepts a bare
// kind, or a {kind, intensity} map.
func AsEmotion(v any) (mental.Emotion, error) {
	switch e := v.(type) {
	case mental.Emotion:
		return e, nil
	case *mental.Emotion:
		if e != nil {
			return *e, nil
		}
	case string:
		if e != "" {
			return mental.Emotion{Kind: e}, nil
		}
	case map[string]any:
		return emotionFromMap(e)
	}
	return mental.Emotion{}, wrongKind(v, "emotion")
}

func emotionFromMap(m map[string]any) (mental.Emotion, error) {
	kind, _ := m["kind"].(string)
	if kind == "" {
		return mental.Emotion{}, fmt.Errorf("%w: emotion map without kind", ErrWrongKind)
	}
	out := mental.Emotion{Kind: kind}
	for k, v := range m {
		switch k {
		case "kind":
		case "intensity":
			f, err := AsFloat(v)
			if err != nil {
				return mental.Emotion{}, fmt.Errorf("emotion %s intensity: %w", kind, err)
			}
			out.Intensity = f
		default:
			return mental.Emotion{}, fmt.Errorf("%w: emotion %s: unknown key %q", ErrWrongKind, kind, k)
		}
	}
	return out, nil
}

// AsPredicates casts v to a list of predicates.
func AsPredicates(v any) ([]mental.Predicate, error) {
	if ps, ok := v.([]mental.Predicate); ok {
		return ps, nil
	}
	l, err := AsList(v)
	if err != nil {
		return nil, err
	}
	out := make([]mental.Predicate, 0, len(l))
	for i, e := range l {
		p, err := AsPredicate(e)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// AsEmotions casts v to a list of emotions.
func AsEmotions(v any) ([]mental.Emotion, error) {
	if es, ok := v.([]mental.Emotion); ok {
		return es, nil
	}
	l, err := AsList(v)
	if err != nil {
		return nil, err
	}
	out := make([]mental.Emotion, 0, len(l))
	for i, e := range l {
		em, err := AsEmotion(e)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, em)
	}
	return out, nil
}
