// Package ruleset reads scenario files: the rules to apply and the agents
// they apply to. Facets are kept as YAML nodes until Compile so that errors
// can point at the line that caused them.
package ruleset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"bdirules/internal/rule"

	"gopkg.in/yaml.v3"
)

// Scenario is a parsed scenario file.
type Scenario struct {
	Rules      []RuleDecl  `yaml:"rules"`
	Population []AgentDecl `yaml:"agents"`

	// Path is the file the scenario was loaded from, empty for Parse.
	Path string `yaml:"-"`
}

// RuleDecl is one rule as written.
type RuleDecl struct {
	Name   string
	Line   int
	Facets map[rule.Facet]*yaml.Node

	order []rule.Facet
}

// DeclError locates a problem in a scenario file.
type DeclError struct {
	Line  int
	Rule  string
	Facet rule.Facet
	Err   error
}

func (e *DeclError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "line %d", e.Line)
	if e.Rule != "" {
		fmt.Fprintf(&b, ": rule %s", e.Rule)
	}
	if e.Facet != "" {
		fmt.Fprintf(&b, ": %s", e.Facet)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *DeclError) Unwrap() error { return e.Err }

func declErr(n *yaml.Node, format string, args ...any) *DeclError {
	return &DeclError{Line: n.Line, Err: fmt.Errorf(format, args...)}
}

// UnmarshalYAML records each facet node and rejects keys that are not facets.
func (d *RuleDecl) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return declErr(node, "rule must be a mapping")
	}
	d.Line = node.Line
	d.Facets = make(map[rule.Facet]*yaml.Node, len(node.Content)/2)
	d.order = d.order[:0]

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if key.Value == "name" {
			if err := val.Decode(&d.Name); err != nil {
				return declErr(val, "rule name: %v", err)
			}
			continue
		}
		id := rule.Facet(key.Value)
		if _, ok := rule.FacetKinds[id]; !ok {
			e := declErr(key, "unknown facet %q", key.Value)
			e.Rule = d.Name
			return e
		}
		if _, dup := d.Facets[id]; dup {
			e := declErr(key, "facet declared twice")
			e.Rule, e.Facet = d.Name, id
			return e
		}
		d.Facets[id] = val
		d.order = append(d.order, id)
	}
	return nil
}

// Compile turns the declaration into a rule.
func (d RuleDecl) Compile() (*rule.Rule, error) {
	if d.Name == "" {
		return nil, &DeclError{Line: d.Line, Err: errors.New("rule without name")}
	}
	var f rule.Facets
	for _, id := range d.order {
		node := d.Facets[id]
		e, err := compileFacet(rule.FacetKinds[id], node)
		if err != nil {
			var de *DeclError
			if !errors.As(err, &de) {
				de = &DeclError{Line: node.Line, Err: err}
			}
			de.Rule, de.Facet = d.Name, id
			return nil, de
		}
		if err := f.Set(id, e); err != nil {
			return nil, &DeclError{Line: node.Line, Rule: d.Name, Facet: id, Err: err}
		}
	}
	return rule.New(d.Name, f), nil
}

// Compile compiles every rule in declaration order and stops at the first
// error.
func (s *Scenario) Compile() ([]*rule.Rule, error) {
	rules := make([]*rule.Rule, 0, len(s.Rules))
	for _, d := range s.Rules {
		r, err := d.Compile()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Parse decodes a scenario document. Unknown top-level or agent keys are
// errors. An empty document is an empty scenario.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil
		}
		return nil, err
	}
	return &s, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// LoadRules reads a scenario file and compiles its rules.
func LoadRules(path string) ([]*rule.Rule, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	rules, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}
