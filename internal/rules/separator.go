package rules

import (
	"fmt"
	"strings"

	"docstyle/internal/diag"
	"docstyle/internal/guide"
)

// SeparatorFormat checks section separator comments against the configured
// template: a run of the fill character padded to the required width.
type SeparatorFormat struct{}

func (r *SeparatorFormat) ID() string                     { return "separator/format" }
func (r *SeparatorFormat) Description() string            { return "section separators match the configured template" }
func (r *SeparatorFormat) DefaultSeverity() diag.Severity { return diag.SeverityWarning }

func (r *SeparatorFormat) Check(ctx *Context) []diag.Diagnostic {
	cfg := ctx.Guide.Separators
	fill := rune(cfg.Fill[0])

	var out []diag.Diagnostic
	for i := range ctx.File.Comments {
		c := &ctx.File.Comments[i]
		if !c.Separator {
			continue
		}

		usedFill, run := dominantFill(c.Text)
		if run < cfg.MinRun {
			continue
		}

		if usedFill != fill {
			out = append(out, diag.New(
				r.ID(), ctx.Severity, ctx.File.Path, c.StartLine, c.Column,
				fmt.Sprintf("separator uses %q as fill, want %q", string(usedFill), cfg.Fill),
				"separator fill "+string(usedFill),
			))
			continue
		}

		if cfg.Width > 0 {
			line := strings.TrimRight(ctx.File.Lines[c.StartLine-1], " \t")
			if got := len([]rune(line)); got != cfg.Width {
				out = append(out, diag.New(
					r.ID(), ctx.Severity, ctx.File.Path, c.StartLine, c.Column,
					fmt.Sprintf("separator is %d characters wide, want %d", got, cfg.Width),
					fmt.Sprintf("separator width %d", got),
				))
			}
		}
	}
	return out
}

// dominantFill returns the fill character with the longest run in the text.
func dominantFill(text string) (rune, int) {
	var best rune
	bestRun := 0
	run := 0
	var cur rune
	for _, r := range text {
		if strings.ContainsRune(guide.SeparatorFills, r) && (run == 0 || r == cur) {
			if run == 0 {
				cur = r
			}
			run++
			if run > bestRun {
				bestRun = run
				best = cur
			}
		} else {
			run = 0
		}
	}
	return best, bestRun
}
