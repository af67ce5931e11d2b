package ruleset

import (
	"strings"

	"bdirules/internal/expr"
	"bdirules/internal/rule"

	"gopkg.in/yaml.v3"
)

// varName reports whether n is a "$name" reference.
func varName(n *yaml.Node) (string, bool) {
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return "", false
	}
	if len(n.Value) < 2 || !strings.HasPrefix(n.Value, "$") {
		return "", false
	}
	return n.Value[1:], true
}

func isNumber(n *yaml.Node) bool {
	if n.Kind != yaml.ScalarNode {
		return false
	}
	tag := n.ShortTag()
	return tag == "!!int" || tag == "!!float"
}

func isBool(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!bool"
}

func constant(n *yaml.Node) (expr.Expression, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, declErr(n, "%v", err)
	}
	return expr.Const{V: v}, nil
}

func compileFacet(kind rule.Kind, n *yaml.Node) (expr.Expression, error) {
	if name, ok := varName(n); ok {
		return expr.Var{Name: name}, nil
	}
	switch kind {
	case rule.KindBool:
		return compileBool(n)
	case rule.KindNumber:
		return compileNumber(n)
	case rule.KindNumberOrList:
		if n.Kind == yaml.SequenceNode {
			return compileList(n, compileNumber)
		}
		return compileNumber(n)
	case rule.KindBoolOrNumber:
		if isBool(n) || isNumber(n) {
			return constant(n)
		}
		return nil, declErr(n, "expected a boolean or a number")
	case rule.KindPredicate:
		return compilePredicate(n)
	case rule.KindEmotion:
		return compileEmotion(n)
	case rule.KindPredicateList:
		return compileList(n, compilePredicate)
	case rule.KindEmotionList:
		return compileList(n, compileEmotion)
	}
	return nil, declErr(n, "unsupported facet kind %d", kind)
}

func compileBool(n *yaml.Node) (expr.Expression, error) {
	if name, ok := varName(n); ok {
		return expr.Var{Name: name}, nil
	}
	if isBool(n) {
		return constant(n)
	}
	if n.Kind == yaml.MappingNode && len(n.Content) == 2 && n.Content[0].Value == "not" {
		x, err := compileBool(n.Content[1])
		if err != nil {
			return nil, err
		}
		return expr.Not{X: x}, nil
	}
	return nil, declErr(n, "expected a boolean, a $variable or {not: ...}")
}

func compileNumber(n *yaml.Node) (expr.Expression, error) {
	if name, ok := varName(n); ok {
		return expr.Var{Name: name}, nil
	}
	if isNumber(n) {
		return constant(n)
	}
	return nil, declErr(n, "expected a number")
}

func compileList(n *yaml.Node, elem func(*yaml.Node) (expr.Expression, error)) (expr.Expression, error) {
	if name, ok := varName(n); ok {
		return expr.Var{Name: name}, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, declErr(n, "expected a list")
	}
	out := expr.ListLit{Elems: make([]expr.Expression, 0, len(n.Content))}
	for _, c := range n.Content {
		e, err := elem(c)
		if err != nil {
			return nil, err
		}
		out.Elems = append(out.Elems, e)
	}
	return out, nil
}

// compilePredicate accepts a bare name, {name, values} or a $variable.
// Attribute values may themselves be $variables.
func compilePredicate(n *yaml.Node) (expr.Expression, error) {
	if name, ok := varName(n); ok {
		return expr.Var{Name: name}, nil
	}
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() != "!!str" || n.Value == "" {
			return nil, declErr(n, "expected a predicate name")
		}
		return expr.PredicateLit{Name: n.Value}, nil
	case yaml.MappingNode:
		lit := expr.PredicateLit{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			switch key.Value {
			case "name":
				lit.Name = val.Value
			case "values":
				if val.Kind != yaml.MappingNode {
					return nil, declErr(val, "predicate values must be a mapping")
				}
				lit.Values = make(map[string]expr.Expression, len(val.Content)/2)
				for j := 0; j+1 < len(val.Content); j += 2 {
					e, err := compileValue(val.Content[j+1])
					if err != nil {
						return nil, err
					}
					lit.Values[val.Content[j].Value] = e
				}
			default:
				return nil, declErr(key, "unknown predicate key %q", key.Value)
			}
		}
		if lit.Name == "" {
			return nil, declErr(n, "predicate without name")
		}
		return lit, nil
	}
	return nil, declErr(n, "expected a predicate")
}

func compileValue(n *yaml.Node) (expr.Expression, error) {
	if name, ok := varName(n); ok {
		return expr.Var{Name: name}, nil
	}
	return constant(n)
}

// compileEmotion accepts a bare kind, {kind, intensity} or a $variable.
func compileEmotion(n *yaml.Node) (expr.Expression, error) {
	if name, ok := varName(n); ok {
		return expr.Var{Name: name}, nil
	}
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() != "!!str" || n.Value == "" {
			return nil, declErr(n, "expected an emotion kind")
		}
		return expr.EmotionLit{Kind: n.Value}, nil
	case yaml.MappingNode:
		lit := expr.EmotionLit{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			switch key.Value {
			case "kind":
				lit.Kind = val.Value
			case "intensity":
				e, err := compileNumber(val)
				if err != nil {
					return nil, err
				}
				lit.Intensity = e
			default:
				return nil, declErr(key, "unknown emotion key %q", key.Value)
			}
		}
		if lit.Kind == "" {
			return nil, declErr(n, "emotion without kind")
		}
		return lit, nil
	}
	return nil, declErr(n, "expected an emotion")
}
