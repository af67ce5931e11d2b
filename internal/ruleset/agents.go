package ruleset

import (
	"fmt"

	"bdirules/internal/architecture"
	"bdirules/internal/mental"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// AgentDecl declares one agent, or Count identical agents, and its initial
// bases.
type AgentDecl struct {
	Name  string         `yaml:"name"`
	Count int            `yaml:"count"`
	Vars  map[string]any `yaml:"vars"`

	Beliefs       []StateDecl   `yaml:"beliefs"`
	Desires       []StateDecl   `yaml:"desires"`
	Intentions    []StateDecl   `yaml:"intentions"`
	Uncertainties []StateDecl   `yaml:"uncertainties"`
	Ideals        []StateDecl   `yaml:"ideals"`
	Obligations   []StateDecl   `yaml:"obligations"`
	Emotions      []EmotionDecl `yaml:"emotions"`
}

// StateDecl is an initial mental state. A bare string is a predicate name.
type StateDecl struct {
	Name     string         `yaml:"name"`
	Values   map[string]any `yaml:"values"`
	Strength *float64       `yaml:"strength"`
	Lifetime *int           `yaml:"lifetime"`
}

func (s *StateDecl) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		s.Name = n.Value
		return nil
	}
	type plain StateDecl
	return n.Decode((*plain)(s))
}

// EmotionDecl is an initial emotion. A bare string is a kind with no intensity.
type EmotionDecl struct {
	Kind      string  `yaml:"kind"`
	Intensity float64 `yaml:"intensity"`
}

func (e *EmotionDecl) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		e.Kind = n.Value
		return nil
	}
	type plain EmotionDecl
	return n.Decode((*plain)(e))
}

func (d AgentDecl) states() map[mental.Category][]StateDecl {
	return map[mental.Category][]StateDecl{
		mental.CategoryBelief:      d.Beliefs,
		mental.CategoryDesire:      d.Desires,
		mental.CategoryIntention:   d.Intentions,
		mental.CategoryUncertainty: d.Uncertainties,
		mental.CategoryIdeal:       d.Ideals,
		mental.CategoryObligation:  d.Obligations,
	}
}

// build creates one agent. Every agent gets its own copy of the declared
// variables and attribute maps.
func (d AgentDecl) build(id string) (*architecture.Agent, error) {
	ag := architecture.NewAgent(id, mental.Values(d.Vars).Clone())
	states := d.states()
	for _, c := range mental.PredicateCategories {
		for _, sd := range states[c] {
			if sd.Name == "" {
				return nil, fmt.Errorf("agent %s: %s without name", id, c)
			}
			ms := mental.NewMentalState(c, mental.NewPredicate(sd.Name, mental.Values(sd.Values).Clone()))
			if sd.Strength != nil {
				ms.SetStrength(*sd.Strength)
			}
			if sd.Lifetime != nil {
				ms.SetLifetime(*sd.Lifetime)
			}
			ag.Bases.Add(c, ms)
		}
	}
	for _, ed := range d.Emotions {
		if ed.Kind == "" {
			return nil, fmt.Errorf("agent %s: emotion without kind", id)
		}
		ag.Bases.AddEmotion(mental.Emotion{Kind: ed.Kind, Intensity: ed.Intensity})
	}
	return ag, nil
}

// Agents builds the declared population in declaration order. Agents
// without a name get a random ID; a Count above one suffixes the name with
// the agent's index.
func (s *Scenario) Agents() ([]*architecture.Agent, error) {
	var out []*architecture.Agent
	for _, d := range s.Population {
		n := d.Count
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			id := d.Name
			switch {
			case id == "":
				id = uuid.NewString()
			case n > 1:
				id = fmt.Sprintf("%s_%d", d.Name, i)
			}
			ag, err := d.build(id)
			if err != nil {
				return nil, err
			}
			out = append(out, ag)
		}
	}
	return out, nil
}
