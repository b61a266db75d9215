package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"docstyle/internal/config"
	"docstyle/internal/guide"
	"docstyle/internal/logging"
)

var version = "dev"

var (
	// Global flags
	verbose   bool
	workspace string

	// Loaded per invocation
	cfg        *config.Config
	styleGuide *guide.Guide

	// Logger
	logger *zap.Logger
)

// errViolations signals that the check found diagnostics at or above the
// failure threshold. It maps to exit code 1; every other error maps to 2.
var errViolations = errors.New("style violations found")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "docstyle",
	Short: "docstyle - comment style guide conformance checker",
	Long: `docstyle checks source comments against a declarative style guide:
file headers, doc comments on exported declarations, documentation tags,
HTML usage, section separators, and line length.

Configuration lives in .docstyle.yaml at the workspace root; accepted
legacy violations are stored in a baseline at .docstyle/baseline.db.

Run without arguments to check the current workspace.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if workspace == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("cannot determine workspace: %w", err)
			}
			workspace = wd
		}

		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("category logging unavailable", zap.Error(err))
		}

		cfg, err = config.Load(workspace)
		if err != nil {
			return err
		}
		styleGuide, err = guide.Load(filepath.Join(workspace, config.ConfigFileName))
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the docstyle version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("docstyle %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")

	addCheckFlags(rootCmd)

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errViolations) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
