package extract

import (
	"strings"

	"docstyle/internal/guide"
)

// minSeparatorRun is how many consecutive fill characters mark a comment as a
// separator candidate. The separator rule applies the configured template on
// top of this.
const minSeparatorRun = 4

// normalize strips comment markers and block gutters, returning the prose.
func normalize(raw string) string {
	text, _ := normalizeMapped(raw)
	return text
}

// normalizeMapped strips comment markers and block gutters, returning the
// prose plus, for each line of it, the 0-based line offset within the raw
// comment it came from. Block openers and blank edge lines are dropped, so
// offsets are what keep diagnostics pointing at the right file line.
func normalizeMapped(raw string) (string, []int) {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	offsets := make([]int, 0, len(lines))

	for i, line := range lines {
		l := strings.TrimSpace(line)
		if i == 0 {
			switch {
			case strings.HasPrefix(l, "/**"):
				l = strings.TrimPrefix(l, "/**")
			case strings.HasPrefix(l, "/*!"):
				l = strings.TrimPrefix(l, "/*!")
			case strings.HasPrefix(l, "/*"):
				l = strings.TrimPrefix(l, "/*")
			}
		}
		if i == len(lines)-1 {
			l = strings.TrimSuffix(strings.TrimSpace(l), "*/")
		}
		l = strings.TrimSpace(l)
		switch {
		case strings.HasPrefix(l, "///"):
			l = strings.TrimPrefix(l, "///")
		case strings.HasPrefix(l, "//!"):
			l = strings.TrimPrefix(l, "//!")
		case strings.HasPrefix(l, "//"):
			l = strings.TrimPrefix(l, "//")
		case strings.HasPrefix(l, "#!"):
			l = strings.TrimPrefix(l, "#!")
		case strings.HasPrefix(l, "#"):
			l = strings.TrimPrefix(l, "#")
		case strings.HasPrefix(l, "*"):
			// Javadoc-style gutter
			l = strings.TrimPrefix(l, "*")
		}
		kept = append(kept, strings.TrimSpace(l))
		offsets = append(offsets, i)
	}

	// Drop leading and trailing blank lines but keep interior ones.
	start, end := 0, len(kept)
	for start < end && kept[start] == "" {
		start++
	}
	for end > start && kept[end-1] == "" {
		end--
	}
	return strings.Join(kept[start:end], "\n"), offsets[start:end]
}

// isSeparatorText reports whether normalized comment text is a section
// separator: a run of fill characters, optionally framing a title, e.g.
// "===== HELPERS =====" or "--------------------".
func isSeparatorText(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	run := 0
	longest := 0
	var fill rune
	for _, r := range t {
		if strings.ContainsRune(guide.SeparatorFills, r) && (run == 0 || r == fill) {
			if run == 0 {
				fill = r
			}
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	if longest < minSeparatorRun {
		return false
	}
	// A separator is mostly fill characters; prose with a dash run is not.
	fillCount := strings.Count(t, string(fill))
	return fillCount*2 >= len(t)
}

// FirstSentence returns the summary sentence of a doc comment: the text up to
// the first blank line or tag line.
func FirstSentence(text string) string {
	lines := strings.Split(text, "\n")
	var summary []string
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" || strings.HasPrefix(trimmed, "@") {
			break
		}
		summary = append(summary, trimmed)
	}
	return strings.Join(summary, " ")
}
