package main

import (
	"fmt"
	"os"

	"bdirules/internal/config"
	"bdirules/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// Global flags
	verbose    bool
	configPath string
	format     string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bdirule",
	Short: "bdirule - BDI mental-state rule engine",
	Long: `bdirule applies BDI rules to a population of agents.

A scenario file declares rules (guards, preconditions over the belief, desire,
intention, emotion, uncertainty, ideal and obligation bases, and the updates
they make) together with the agents and their initial bases.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err = logging.Initialize(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.Get(logging.CategoryBoot).Debug("config loaded",
			zap.String("path", configPath),
			zap.Int("parallel_threshold", cfg.Architecture.ParallelThreshold),
			zap.Int("max_workers", cfg.Architecture.MaxWorkers))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cfg.Name, version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "bdirules.yaml", "Config file")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "yaml", "Output format for bases (yaml, datalog, table)")

	runCmd.Flags().IntVarP(&steps, "steps", "n", 0, "Steps to run (default from config)")
	runCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload rules when the scenario changes and step until interrupted")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
