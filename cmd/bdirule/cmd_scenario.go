package main

import (
	"fmt"

	"bdirules/internal/architecture"
	"bdirules/internal/logging"
	"bdirules/internal/rule"
	"bdirules/internal/ruleset"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// checkCmd compiles a scenario without running it
var checkCmd = &cobra.Command{
	Use:   "check [scenario.yaml]",
	Short: "Compile a scenario's rules and agents and report errors",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

// dumpCmd prints the initial bases of every agent
var dumpCmd = &cobra.Command{
	Use:   "dump [scenario.yaml]",
	Short: "Print the initial bases of a scenario's agents",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDump,
}

// scenarioPath picks the positional argument over the configured path.
func scenarioPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg != nil && cfg.Ruleset.Path != "" {
		return cfg.Ruleset.Path, nil
	}
	return "", fmt.Errorf("no scenario given and ruleset.path not configured")
}

// loadScenario loads, compiles and instantiates a scenario.
func loadScenario(args []string) (string, []*rule.Rule, []*architecture.Agent, error) {
	path, err := scenarioPath(args)
	if err != nil {
		return "", nil, nil, err
	}
	s, err := ruleset.Load(path)
	if err != nil {
		return "", nil, nil, err
	}
	rules, err := s.Compile()
	if err != nil {
		return "", nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	agents, err := s.Agents()
	if err != nil {
		return "", nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	logging.Get(logging.CategoryRuleset).Info("scenario loaded",
		zap.String("path", path),
		zap.Int("rules", len(rules)),
		zap.Int("agents", len(agents)))
	return path, rules, agents, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	path, rules, agents, err := loadScenario(args)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rules, %d agents\n", path, len(rules), len(agents))
	return nil
}

func runDump(cmd *cobra.Command, args []string) error {
	_, _, agents, err := loadScenario(args)
	if err != nil {
		return err
	}
	return writeBases(cmd.OutOrStdout(), format, agents)
}
