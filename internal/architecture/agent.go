package architecture

import (
	"bdirules/internal/store"
)

// Agent is one member of the population: its variables and its bases.
// An agent's bases are only touched by one goroutine at a time.
type Agent struct {
	ID    string
	Vars  map[string]any
	Bases *store.Bases
}

// NewAgent creates an agent with empty bases.
func NewAgent(id string, vars map[string]any) *Agent {
	if vars == nil {
		vars = make(map[string]any)
	}
	return &Agent{ID: id, Vars: vars, Bases: store.New()}
}

// Lookup resolves rule variables against the agent. "name" falls back to
// the agent ID when not set explicitly.
func (a *Agent) Lookup(name string) (any, bool) {
	if v, ok := a.Vars[name]; ok {
		return v, true
	}
	if name == "name" {
		return a.ID, true
	}
	return nil, false
}
