package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docstyle/internal/baseline"
	"docstyle/internal/checker"
	"docstyle/internal/report"
	"docstyle/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-check files as they change",
	Long: `Watch monitors the workspace and re-checks source files after edits
settle. Results are printed per batch; stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyCheckFlags()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		renderer, err := report.ForFormat(cfg.Check.Format)
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
		out := cmd.OutOrStdout()

		w, err := watch.New(workspace, cfg.Check.Exclude, func(ctx context.Context, paths []string) {
			rep, err := c.CheckPaths(ctx, paths)
			if err != nil {
				logger.Warn("re-check failed", zap.Error(err))
				return
			}
			if err := renderer.Render(out, rep); err != nil {
				logger.Warn("render failed", zap.Error(err))
			}
		})
		if err != nil {
			return err
		}

		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()

		fmt.Fprintf(out, "Watching %s (Ctrl-C to stop)\n", workspace)
		<-ctx.Done()
		fmt.Fprintln(out, "\nStopping watcher")
		return nil
	},
}
