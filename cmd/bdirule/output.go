package main

import (
	"fmt"
	"io"

	"bdirules/internal/architecture"
	"bdirules/internal/mental"

	"gopkg.in/yaml.v3"
)

type stateDump struct {
	Name     string         `yaml:"name"`
	Values   map[string]any `yaml:"values,omitempty"`
	Strength *float64       `yaml:"strength,omitempty"`
	Lifetime *int           `yaml:"lifetime,omitempty"`
}

type baseDump struct {
	Category string      `yaml:"category"`
	States   []stateDump `yaml:"states"`
}

type agentDump struct {
	ID       string           `yaml:"id"`
	Bases    []baseDump       `yaml:"bases,omitempty"`
	Emotions []mental.Emotion `yaml:"emotions,omitempty"`
}

// writeBases prints every agent's bases as YAML, Datalog facts or a table.
func writeBases(w io.Writer, format string, agents []*architecture.Agent) error {
	switch format {
	case "yaml", "":
		return writeYAML(w, agents)
	case "datalog":
		return writeDatalog(w, agents)
	case "table":
		_, err := io.WriteString(w, renderTable(agents))
		return err
	}
	return fmt.Errorf("unknown format %q (valid: yaml, datalog, table)", format)
}

func writeYAML(w io.Writer, agents []*architecture.Agent) error {
	out := make([]agentDump, 0, len(agents))
	for _, ag := range agents {
		snap := ag.Bases.Snapshot()
		d := agentDump{ID: ag.ID, Emotions: snap.Emotions}
		for _, c := range mental.PredicateCategories {
			states := snap.States[c]
			if len(states) == 0 {
				continue
			}
			b := baseDump{Category: string(c)}
			for _, s := range states {
				b.States = append(b.States, stateDump{
					Name:     s.Predicate.Name,
					Values:   s.Predicate.Values,
					Strength: s.Strength,
					Lifetime: s.Lifetime,
				})
			}
			d.Bases = append(d.Bases, b)
		}
		out = append(out, d)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode bases: %w", err)
	}
	return enc.Close()
}

// writeDatalog prints one fact per mental state, grouped under a comment
// naming the agent.
func writeDatalog(w io.Writer, agents []*architecture.Agent) error {
	for _, ag := range agents {
		snap := ag.Bases.Snapshot()
		if _, err := fmt.Fprintf(w, "# agent %s\n", ag.ID); err != nil {
			return err
		}
		for _, c := range mental.PredicateCategories {
			for _, s := range snap.States[c] {
				if _, err := fmt.Fprintf(w, "%s.\n", s.ToAtom()); err != nil {
					return err
				}
			}
		}
		for _, e := range snap.Emotions {
			if _, err := fmt.Fprintf(w, "%s.\n", e.ToAtom()); err != nil {
				return err
			}
		}
	}
	return nil
}
