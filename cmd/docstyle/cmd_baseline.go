package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"docstyle/internal/baseline"
	"docstyle/internal/checker"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage the accepted-violations baseline",
	Long: `The baseline records existing violations so that a check only fails on
new ones. Fingerprints are content-anchored: moving a violation to another
line does not invalidate its baseline entry.`,
}

var baselineUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Accept all current violations into the baseline",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := baseline.Open(baseline.Path(workspace))
		if err != nil {
			return err
		}
		defer store.Close()

		// Run without the baseline so the full violation set is captured.
		cfg.Check.UseBaseline = false
		c := checker.New(cfg, styleGuide, nil)
		rep, err := c.CheckWorkspace(ctx, workspace)
		if err != nil {
			return err
		}

		n, err := store.Update(rep.Diagnostics)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Baseline updated: %d violations accepted across %d files\n", n, rep.Files)
		return nil
	},
}

var baselineShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List the accepted violations",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := baseline.Open(baseline.Path(workspace))
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Entries()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Baseline is empty")
			return nil
		}

		w := cmd.OutOrStdout()
		for _, e := range entries {
			fmt.Fprintf(w, "%s  %-22s %s: %s\n", e.Fingerprint, e.RuleID, e.Path, e.Message)
		}
		fmt.Fprintf(w, "\n%d accepted violations\n", len(entries))
		return nil
	},
}

var baselineHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent check runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := baseline.Open(baseline.Path(workspace))
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Runs(20)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs")
			return nil
		}

		w := cmd.OutOrStdout()
		for _, r := range runs {
			fmt.Fprintf(w, "%s  %s  files=%d diagnostics=%d baselined=%d\n",
				r.StartedAt.Format("2006-01-02 15:04:05"), r.ID[:8],
				r.Files, r.Diagnostics, r.Suppressed)
		}
		return nil
	},
}

func init() {
	baselineCmd.AddCommand(baselineUpdateCmd)
	baselineCmd.AddCommand(baselineShowCmd)
	baselineCmd.AddCommand(baselineHistoryCmd)
}
