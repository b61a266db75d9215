// Package checker orchestrates a check run: scan the workspace, extract
// comments, evaluate rules, and apply the baseline.
package checker

import (
	"context"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"docstyle/internal/baseline"
	"docstyle/internal/config"
	"docstyle/internal/diag"
	"docstyle/internal/extract"
	"docstyle/internal/guide"
	"docstyle/internal/logging"
	"docstyle/internal/rules"
	"docstyle/internal/scan"
)

// Report is the outcome of one check run.
type Report struct {
	Files         int                   `json:"files"`
	Skipped       int                   `json:"skipped"`
	ParseFailures int                   `json:"parse_failures"`
	Languages     map[string]int        `json:"languages"`
	Diagnostics   []diag.Diagnostic     `json:"diagnostics"`
	Suppressed    int                   `json:"suppressed"` // covered by the baseline
	Cached        int                   `json:"cached"`     // served from the result cache
	Counts        map[diag.Severity]int `json:"-"`
	Duration      time.Duration         `json:"duration_ms"`
}

// ExitCode maps the report to the process exit code given a failure threshold.
func (r *Report) ExitCode(failOn diag.Severity) int {
	if diag.AtOrAbove(r.Diagnostics, failOn) > 0 {
		return 1
	}
	return 0
}

// Checker runs the scan/extract/rules pipeline.
type Checker struct {
	cfg   *config.Config
	guide *guide.Guide
	store *baseline.Store // nil when the baseline is disabled
}

// New builds a checker. store may be nil to skip baseline filtering.
func New(cfg *config.Config, g *guide.Guide, store *baseline.Store) *Checker {
	return &Checker{cfg: cfg, guide: g, store: store}
}

// CheckWorkspace checks every supported source file under root. Files whose
// content hash matches the previous run are served from the result cache.
func (c *Checker) CheckWorkspace(ctx context.Context, root string) (*Report, error) {
	scanner := scan.NewScanner(c.cfg.Check.Exclude)
	result, err := scanner.ScanWorkspace(root)
	if err != nil {
		return nil, err
	}
	return c.checkFiles(ctx, result, openResultCache(root, c.guide))
}

// CheckPaths checks an explicit list of files and directories. Explicit runs
// bypass the result cache so watch mode always sees fresh diagnostics.
func (c *Checker) CheckPaths(ctx context.Context, paths []string) (*Report, error) {
	scanner := scan.NewScanner(c.cfg.Check.Exclude)
	result, err := scanner.ScanPaths(paths)
	if err != nil {
		return nil, err
	}
	return c.checkFiles(ctx, result, nil)
}

func (c *Checker) checkFiles(ctx context.Context, result *scan.Result, cache *resultCache) (*Report, error) {
	start := time.Now()
	timer := logging.StartTimer(logging.CategoryScan, "checkFiles")
	defer timer.Stop()

	toCheck := result.Files
	skipped := result.Skipped
	if c.cfg.Check.SkipTests {
		toCheck = toCheck[:0:0]
		for _, f := range result.Files {
			if f.IsTest {
				skipped++
				continue
			}
			toCheck = append(toCheck, f)
		}
	}

	report := &Report{
		Files:     len(toCheck),
		Skipped:   skipped,
		Languages: result.Languages,
	}

	files := make(chan scan.File)
	findings := make(chan []diag.Diagnostic)
	failures := make(chan int)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(files)
		for _, f := range toCheck {
			select {
			case files <- f:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	workers := c.cfg.Check.Concurrency
	if workers < 1 {
		workers = 1
	}

	// Collector owns the report slices; workers only send.
	done := make(chan struct{})
	go func() {
		defer close(done)
		fin, fail := findings, failures
		for fin != nil || fail != nil {
			select {
			case ds, ok := <-fin:
				if !ok {
					fin = nil
					continue
				}
				report.Diagnostics = append(report.Diagnostics, ds...)
			case n, ok := <-fail:
				if !ok {
					fail = nil
					continue
				}
				report.ParseFailures += n
			}
		}
	}()

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			// Tree-sitter parsers are not safe for concurrent use;
			// each worker owns its own extractor.
			ex := extract.NewExtractor()
			defer ex.Close()

			for f := range files {
				ds, failed := c.checkOne(ctx, ex, f, cache)
				if failed {
					select {
					case failures <- 1:
					case <-ctx.Done():
						return ctx.Err()
					}
					continue
				}
				if len(ds) == 0 {
					continue
				}
				select {
				case findings <- ds:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	err := g.Wait()
	close(findings)
	close(failures)
	<-done
	if err != nil {
		return nil, err
	}

	if cache != nil {
		report.Cached = cache.hitCount()
		if err := cache.save(); err != nil {
			logging.Get(logging.CategoryScan).Warn("could not save result cache: %v", err)
		}
	}

	diag.Sort(report.Diagnostics)

	if c.store != nil && c.cfg.Check.UseBaseline {
		fresh, suppressed, err := c.store.Filter(report.Diagnostics)
		if err != nil {
			return nil, err
		}
		report.Diagnostics = fresh
		report.Suppressed = len(suppressed)
	}

	report.Counts = diag.Count(report.Diagnostics)
	report.Duration = time.Since(start)

	logging.Scan("check complete: %d files, %d diagnostics, %d suppressed, %d cached, %d parse failures",
		report.Files, len(report.Diagnostics), report.Suppressed, report.Cached, report.ParseFailures)
	return report, nil
}

// checkOne extracts and checks a single file. A file that cannot be read or
// parsed is reported as a failure and skipped; it never aborts the run.
func (c *Checker) checkOne(ctx context.Context, ex *extract.Extractor, f scan.File, cache *resultCache) ([]diag.Diagnostic, bool) {
	if !extract.Supported(f.Language) {
		logging.ExtractDebug("no grammar for %s, skipping %s", f.Language, f.Path)
		return nil, false
	}

	if cache != nil {
		if ds, ok := cache.get(f.Path, f.Hash); ok {
			return ds, false
		}
	}

	content, err := os.ReadFile(f.Path)
	if err != nil {
		logging.Get(logging.CategoryExtract).Warn("cannot read %s: %v", f.Path, err)
		return nil, true
	}

	extracted, err := ex.Extract(ctx, f.Path, f.Language, content)
	if err != nil {
		logging.Get(logging.CategoryExtract).Warn("cannot parse %s: %v", f.Path, err)
		return nil, true
	}

	ds := rules.Run(extracted, c.guide)
	if cache != nil {
		cache.put(f.Path, f.Hash, ds)
	}
	return ds, false
}
