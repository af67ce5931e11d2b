// Package architecture applies rules to a population of agents, one step at
// a time. Within a step rules run in declaration order; for each rule the
// agents are visited sequentially or, above the parallel threshold,
// concurrently. The outcome is the same either way because no two agents
// share a store.
package architecture

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"bdirules/internal/config"
	"bdirules/internal/expr"
	"bdirules/internal/logging"
	"bdirules/internal/rule"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StepReport counts rule evaluations. Expired counts mental states dropped
// by lifetime expiry at the end of the step.
type StepReport struct {
	Fired   int
	Skipped int
	Failed  int
	Expired int
}

// Merge adds o's counts to r.
func (r *StepReport) Merge(o StepReport) {
	r.Fired += o.Fired
	r.Skipped += o.Skipped
	r.Failed += o.Failed
	r.Expired += o.Expired
}

// Architecture owns the agents and the active rule list.
type Architecture struct {
	cfg config.ArchitectureConfig

	mu     sync.RWMutex
	rules  []*rule.Rule
	agents []*Agent
}

// New creates an architecture over a fixed population.
func New(cfg config.ArchitectureConfig, rules []*rule.Rule, agents []*Agent) *Architecture {
	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = 1
	}
	return &Architecture{cfg: cfg, rules: rules, agents: agents}
}

// SetRules replaces the rule list. A step already in progress keeps the
// rules it started with.
func (a *Architecture) SetRules(rules []*rule.Rule) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rules = rules
	logging.Get(logging.CategoryArchitecture).Info("rules replaced", zap.Int("count", len(rules)))
}

// Rules returns the active rule list.
func (a *Architecture) Rules() []*rule.Rule {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.rules
}

// Agents returns the population.
func (a *Architecture) Agents() []*Agent {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.agents
}

// Step evaluates every rule for every agent once, then expires lifetimes.
// Rule errors are logged and counted; only context cancellation stops a step.
func (a *Architecture) Step(ctx context.Context) (StepReport, error) {
	a.mu.RLock()
	rules, agents := a.rules, a.agents
	a.mu.RUnlock()

	var report StepReport
	for _, r := range rules {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		var (
			rep StepReport
			err error
		)
		if threshold := a.thresholdFor(r); threshold > 0 && len(agents) > threshold {
			rep, err = a.applyParallel(ctx, r, agents)
		} else {
			rep, err = a.applySequential(ctx, r, agents)
		}
		report.Merge(rep)
		if err != nil {
			return report, err
		}
	}

	for _, ag := range agents {
		if n := ag.Bases.Tick(); n > 0 {
			logging.Get(logging.CategoryStore).Debug("lifetimes expired",
				zap.String("agent", ag.ID), zap.Int("count", n))
			report.Expired += n
		}
	}
	return report, nil
}

// Run performs steps in a row, pausing interval between them. It stops
// early when ctx is cancelled.
func (a *Architecture) Run(ctx context.Context, steps int, interval time.Duration) (StepReport, error) {
	var total StepReport
	for i := 0; i < steps; i++ {
		rep, err := a.Step(ctx)
		total.Merge(rep)
		if err != nil {
			return total, err
		}
		logging.Get(logging.CategoryArchitecture).Debug("step complete",
			zap.Int("step", i+1),
			zap.Int("fired", rep.Fired),
			zap.Int("skipped", rep.Skipped),
			zap.Int("failed", rep.Failed),
			zap.Int("expired", rep.Expired))

		if interval > 0 && i < steps-1 {
			select {
			case <-ctx.Done():
				return total, ctx.Err()
			case <-time.After(interval):
			}
		}
	}
	return total, nil
}

// thresholdFor resolves a rule's parallel facet. true means the configured
// threshold, false means never, a number is used as is. An absent facet
// uses the configured threshold.
func (a *Architecture) thresholdFor(r *rule.Rule) int {
	p := r.Parallel()
	if p == nil {
		return a.cfg.ParallelThreshold
	}
	v, err := p.Eval(nil)
	if err != nil {
		logging.Get(logging.CategoryArchitecture).Warn("parallel facet not evaluable, running sequentially",
			zap.String("rule", r.Name()), zap.Error(err))
		return 0
	}
	if b, ok := v.(bool); ok {
		if b {
			return a.cfg.ParallelThreshold
		}
		return 0
	}
	n, err := expr.AsInt(v)
	if err != nil {
		logging.Get(logging.CategoryArchitecture).Warn("parallel facet is neither bool nor number, running sequentially",
			zap.String("rule", r.Name()), zap.Error(err))
		return 0
	}
	return n
}

func (a *Architecture) applySequential(ctx context.Context, r *rule.Rule, agents []*Agent) (StepReport, error) {
	var rep StepReport
	for _, ag := range agents {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		switch a.evaluate(r, ag) {
		case resultFired:
			rep.Fired++
		case resultSkipped:
			rep.Skipped++
		default:
			rep.Failed++
		}
	}
	return rep, nil
}

func (a *Architecture) applyParallel(ctx context.Context, r *rule.Rule, agents []*Agent) (StepReport, error) {
	var fired, skipped, failed atomic.Int64

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.cfg.MaxWorkers)
	for _, ag := range agents {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			switch a.evaluate(r, ag) {
			case resultFired:
				fired.Add(1)
			case resultSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
			}
			return nil
		})
	}
	err := eg.Wait()

	rep := StepReport{
		Fired:   int(fired.Load()),
		Skipped: int(skipped.Load()),
		Failed:  int(failed.Load()),
	}
	return rep, err
}

type result int

const (
	resultFired result = iota
	resultSkipped
	resultFailed
)

func (a *Architecture) evaluate(r *rule.Rule, ag *Agent) result {
	logger := logging.Get(logging.CategoryRule)
	out, err := r.Evaluate(ag, ag.Bases)
	if err != nil {
		fields := []zap.Field{zap.String("rule", r.Name()), zap.String("agent", ag.ID), zap.Error(err)}
		var actionErr *rule.ActionError
		if errors.As(err, &actionErr) {
			fields = append(fields, zap.Bool("partially_applied", out.Fired))
		}
		logger.Warn("rule failed", fields...)
		return resultFailed
	}
	if !out.Fired {
		logger.Debug("rule not applicable",
			zap.String("rule", r.Name()), zap.String("agent", ag.ID), zap.String("blocked_by", string(out.Blocked)))
		return resultSkipped
	}
	logger.Debug("rule fired", zap.String("rule", r.Name()), zap.String("agent", ag.ID))
	return resultFired
}
