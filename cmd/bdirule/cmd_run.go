package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bdirules/internal/architecture"
	"bdirules/internal/logging"
	"bdirules/internal/ruleset"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	steps int
	watch bool
)

// runCmd steps a scenario and prints the resulting bases
var runCmd = &cobra.Command{
	Use:   "run [scenario.yaml]",
	Short: "Apply a scenario's rules to its agents",
	Long: `Loads the scenario, applies every rule to every agent for the requested
number of steps and prints the agents' bases afterwards.

With --watch the rules are recompiled whenever the scenario file changes and
stepping continues until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScenario,
}

func runScenario(cmd *cobra.Command, args []string) error {
	path, rules, agents, err := loadScenario(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	arch := architecture.New(cfg.Architecture, rules, agents)
	log := logging.Get(logging.CategoryArchitecture)

	n := cfg.Architecture.Steps
	if cmd.Flags().Changed("steps") {
		n = steps
	}

	var report architecture.StepReport
	if watch || cfg.Ruleset.Watch {
		report, err = runWatching(ctx, path, arch)
	} else {
		report, err = arch.Run(ctx, n, cfg.GetStepInterval())
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("run finished",
		zap.Int("fired", report.Fired),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Int("expired", report.Expired))
	fmt.Fprintf(cmd.ErrOrStderr(), "fired=%d skipped=%d failed=%d expired=%d\n",
		report.Fired, report.Skipped, report.Failed, report.Expired)

	return writeBases(cmd.OutOrStdout(), format, arch.Agents())
}

// runWatching steps until ctx is cancelled, swapping in reloaded rules
// between steps.
func runWatching(ctx context.Context, path string, arch *architecture.Architecture) (architecture.StepReport, error) {
	w, err := ruleset.NewWatcher(path, arch.SetRules)
	if err != nil {
		return architecture.StepReport{}, err
	}
	if err := w.Start(ctx); err != nil {
		return architecture.StepReport{}, err
	}
	defer func() {
		if err := w.Stop(); err != nil {
			logging.Get(logging.CategoryRuleset).Warn("failed to stop ruleset watcher", zap.String("path", path), zap.Error(err))
		}
	}()

	interval := cfg.GetStepInterval()
	if interval <= 0 {
		interval = time.Second
	}

	var total architecture.StepReport
	for {
		rep, err := arch.Step(ctx)
		total.Merge(rep)
		if err != nil {
			return total, err
		}
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		case <-time.After(interval):
		}
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
