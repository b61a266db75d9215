package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docstyle/internal/baseline"
	"docstyle/internal/checker"
	"docstyle/internal/diag"
	"docstyle/internal/report"
)

var (
	flagFormat      string
	flagFailOn      string
	flagConcurrency int
	flagNoBaseline  bool
	flagSkipTests   bool
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Check source comments against the style guide",
	Long: `Check walks the given paths (or the whole workspace) and reports every
style guide violation that is not covered by the baseline.

Exit code is 0 when clean, 1 when violations at or above --fail-on were
found, and 2 on a usage or runtime error.`,
	RunE: runCheck,
}

func init() {
	addCheckFlags(checkCmd)
}

func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagFormat, "format", "f", "", "Report format: text, json, or markdown")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Severity threshold for exit code 1: error, warning, or info")
	cmd.Flags().IntVar(&flagConcurrency, "concurrency", 0, "Number of files checked in parallel")
	cmd.Flags().BoolVar(&flagNoBaseline, "no-baseline", false, "Report baselined violations too")
	cmd.Flags().BoolVar(&flagSkipTests, "skip-tests", false, "Skip test files")
}

func runCheck(cmd *cobra.Command, args []string) error {
	applyCheckFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer, err := report.ForFormat(cfg.Check.Format)
	if err != nil {
		return err
	}
	failOn, err := diag.ParseSeverity(cfg.Check.FailOn)
	if err != nil {
		return err
	}

	var store *baseline.Store
	if cfg.Check.UseBaseline {
		store, err = baseline.Open(baseline.Path(workspace))
		if err != nil {
			return err
		}
		defer store.Close()
	}

	c := checker.New(cfg, styleGuide, store)

	var rep *checker.Report
	if len(args) == 0 {
		rep, err = c.CheckWorkspace(ctx, workspace)
	} else {
		rep, err = c.CheckPaths(ctx, args)
	}
	if err != nil {
		return err
	}

	if store != nil {
		if _, err := store.RecordRun(rep.Files, len(rep.Diagnostics), rep.Suppressed); err != nil {
			logger.Warn("could not record run history", zap.Error(err))
		}
	}

	if err := renderer.Render(cmd.OutOrStdout(), rep); err != nil {
		return err
	}

	if rep.ExitCode(failOn) != 0 {
		return errViolations
	}
	return nil
}

// applyCheckFlags layers command line flags over config (flags win).
func applyCheckFlags() {
	if flagFormat != "" {
		cfg.Check.Format = flagFormat
	}
	if flagFailOn != "" {
		cfg.Check.FailOn = flagFailOn
	}
	if flagConcurrency > 0 {
		cfg.Check.Concurrency = flagConcurrency
	}
	if flagNoBaseline {
		cfg.Check.UseBaseline = false
	}
	if flagSkipTests {
		cfg.Check.SkipTests = true
	}
}
