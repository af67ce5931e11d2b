package architecture

import (
	"context"
	"fmt"
	"testing"

	"bdirules/internal/config"
	"bdirules/internal/expr"
	"bdirules/internal/logging"
	"bdirules/internal/mental"
	"bdirules/internal/rule"
	"bdirules/internal/store"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func lit(name string) expr.Expression {
	return expr.PredicateLit{Name: name}
}

// population seeds n agents; every third agent believes "danger".
func population(n int) []*Agent {
	agents := make([]*Agent, n)
	for i := range agents {
		ag := NewAgent(fmt.Sprintf("a%d", i), map[string]any{"alert": i%2 == 0})
		if i%3 == 0 {
			ag.Bases.Add(mental.CategoryBelief, mental.NewMentalState(mental.CategoryBelief, mental.NewPredicate("danger", nil)))
		}
		agents[i] = ag
	}
	return agents
}

func scenarioRules() []*rule.Rule {
	flee := rule.New("flee", rule.Facets{
		Belief:    lit("danger"),
		NewDesire: lit("flee"),
		Lifetime:  expr.Const{V: 2},
	})
	calm := rule.New("calm", rule.Facets{
		When:          expr.Var{Name: "alert"},
		Desire:        lit("flee"),
		NewEmotion:    expr.EmotionLit{Kind: "fear", Intensity: expr.Const{V: 0.4}},
		NewBelief:     lit("alarmed"),
		RemoveDesires: expr.ListLit{Elems: []expr.Expression{lit("rest")}},
	})
	return []*rule.Rule{flee, calm}
}

func snapshots(agents []*Agent) map[string]store.Snapshot {
	out := make(map[string]store.Snapshot, len(agents))
	for _, ag := range agents {
		out[ag.ID] = ag.Bases.Snapshot()
	}
	return out
}

func TestAgentLookup(t *testing.T) {
	ag := NewAgent("bob", map[string]any{"speed": 3})

	v, ok := ag.Lookup("speed")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = ag.Lookup("name")
	require.True(t, ok)
	assert.Equal(t, "bob", v)

	_, ok = ag.Lookup("missing")
	assert.False(t, ok)
}

func TestStep_SequentialAndParallelAgree(t *testing.T) {
	const n = 40

	seq := New(config.ArchitectureConfig{ParallelThreshold: 0, MaxWorkers: 1}, scenarioRules(), population(n))
	par := New(config.ArchitectureConfig{ParallelThreshold: 4, MaxWorkers: 8}, scenarioRules(), population(n))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		seqRep, err := seq.Step(ctx)
		require.NoError(t, err)
		parRep, err := par.Step(ctx)
		require.NoError(t, err)
		assert.Equal(t, seqRep, parRep, "step %d", i)
	}

	if diff := cmp.Diff(snapshots(seq.Agents()), snapshots(par.Agents())); diff != "" {
		t.Errorf("bases differ between sequential and parallel runs (-seq +par):\n%s", diff)
	}
}

func TestStep_RulesRunInOrder(t *testing.T) {
	agents := population(1) // a0 believes danger and is alert
	arch := New(config.ArchitectureConfig{MaxWorkers: 1}, scenarioRules(), agents)

	rep, err := arch.Step(context.Background())
	require.NoError(t, err)

	// flee adds the desire, calm sees it in the same step.
	assert.Equal(t, 2, rep.Fired)
	bases := agents[0].Bases
	assert.True(t, bases.Has(mental.CategoryDesire, mental.NewPredicate("flee", nil)))
	assert.True(t, bases.Has(mental.CategoryBelief, mental.NewPredicate("alarmed", nil)))
	assert.True(t, bases.HasEmotion("fear"))
}

func TestStep_ExpiresLifetimes(t *testing.T) {
	agents := population(1)
	only := rule.New("once", rule.Facets{
		When:      expr.Var{Name: "first"},
		NewDesire: lit("flee"),
		Lifetime:  expr.Const{V: 2},
	})
	agents[0].Vars["first"] = true
	arch := New(config.ArchitectureConfig{MaxWorkers: 1}, []*rule.Rule{only}, agents)
	ctx := context.Background()

	_, err := arch.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, agents[0].Bases.Len(mental.CategoryDesire))

	agents[0].Vars["first"] = false
	rep, err := arch.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Expired)
	assert.Zero(t, agents[0].Bases.Len(mental.CategoryDesire))
}

func TestStep_FailuresAreCountedNotFatal(t *testing.T) {
	broken := rule.New("broken", rule.Facets{
		When:      expr.Var{Name: "undeclared"},
		NewBelief: lit("x"),
	})
	ok := rule.New("ok", rule.Facets{NewBelief: lit("y")})

	agents := population(5)
	arch := New(config.ArchitectureConfig{MaxWorkers: 2}, []*rule.Rule{broken, ok}, agents)

	rep, err := arch.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, rep.Failed)
	assert.Equal(t, 5, rep.Fired)
	for _, ag := range agents {
		assert.True(t, ag.Bases.Has(mental.CategoryBelief, mental.NewPredicate("y", nil)))
	}
}

func TestStep_CancelledContext(t *testing.T) {
	arch := New(config.ArchitectureConfig{MaxWorkers: 1}, scenarioRules(), population(3))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := arch.Step(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StepReport{}, rep)
}

func TestThresholdFor(t *testing.T) {
	arch := New(config.ArchitectureConfig{ParallelThreshold: 10, MaxWorkers: 2}, nil, nil)

	tests := []struct {
		name     string
		parallel expr.Expression
		want     int
	}{
		{"absent uses config", nil, 10},
		{"true uses config", expr.Const{V: true}, 10},
		{"false disables", expr.Const{V: false}, 0},
		{"number overrides", expr.Const{V: 3}, 3},
		{"wrong kind disables", expr.Const{V: "fast"}, 0},
		{"undefined disables", expr.Var{Name: "n"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rule.New("r", rule.Facets{Parallel: tt.parallel, NewBelief: lit("b")})
			assert.Equal(t, tt.want, arch.thresholdFor(r))
		})
	}
}

func TestSetRules(t *testing.T) {
	agents := population(2)
	arch := New(config.ArchitectureConfig{MaxWorkers: 1}, nil, agents)

	rep, err := arch.Step(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rep.Fired)

	arch.SetRules([]*rule.Rule{rule.New("b", rule.Facets{NewBelief: lit("b")})})
	require.Len(t, arch.Rules(), 1)

	rep, err = arch.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Fired)
}

func TestRun(t *testing.T) {
	arch := New(config.ArchitectureConfig{MaxWorkers: 1},
		[]*rule.Rule{rule.New("b", rule.Facets{NewBelief: lit("b")})}, population(3))

	rep, err := arch.Run(context.Background(), 4, 0)
	require.NoError(t, err)
	assert.Equal(t, 12, rep.Fired)
	// a0 also believes danger; repeated adds overwrite.
	assert.Equal(t, 2, arch.Agents()[0].Bases.Len(mental.CategoryBelief))
}

func TestStepReport_Merge(t *testing.T) {
	total := StepReport{Fired: 1, Failed: 2}
	total.Merge(StepReport{Fired: 3, Skipped: 4, Expired: 5})
	assert.Equal(t, StepReport{Fired: 4, Skipped: 4, Failed: 2, Expired: 5}, total)
}

func TestStep_LogsFailedRules(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logging.Use(zap.New(core), config.LoggingConfig{})
	t.Cleanup(func() { logging.Use(nil, config.LoggingConfig{}) })

	// Two new beliefs but one lifetime: the first is added, the second fails.
	partial := rule.New("partial", rule.Facets{
		NewBeliefs: expr.ListLit{Elems: []expr.Expression{lit("x"), lit("y")}},
		Lifetime:   expr.ListLit{Elems: []expr.Expression{expr.Const{V: 5}}},
	})
	guarded := rule.New("guarded", rule.Facets{
		When:      expr.Var{Name: "undeclared"},
		NewBelief: lit("z"),
	})

	agents := population(1)
	arch := New(config.ArchitectureConfig{MaxWorkers: 1}, []*rule.Rule{partial, guarded}, agents)
	rep, err := arch.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Failed)
	assert.True(t, agents[0].Bases.Has(mental.CategoryBelief, mental.NewPredicate("x", nil)))

	failed := logs.FilterMessage("rule failed").All()
	require.Len(t, failed, 2)
	for _, entry := range failed {
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
	}

	fields := failed[0].ContextMap()
	assert.Equal(t, "partial", fields["rule"])
	assert.Equal(t, "a0", fields["agent"])
	assert.Contains(t, fields["error"], "lifetime")
	assert.Equal(t, true, fields["partially_applied"])

	fields = failed[1].ContextMap()
	assert.Equal(t, "guarded", fields["rule"])
	assert.NotContains(t, fields, "partially_applied")
}
