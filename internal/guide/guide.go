// Package guide holds the declarative comment style guide: which rules apply,
// at what severity, and the templates comments are checked against.
package guide

import (
	"fmt"
	"strings"

	"docstyle/internal/diag"
)

// SeparatorFills are the characters separator detection recognizes as fill.
// A configured separators.fill must come from this set.
const SeparatorFills = "=-*#~_"

// Guide is the full style guide as loaded from .docstyle.yaml.
type Guide struct {
	Header     HeaderConfig            `yaml:"header"`
	Docs       DocsConfig              `yaml:"docs"`
	Tags       TagsConfig              `yaml:"tags"`
	HTML       HTMLConfig              `yaml:"html"`
	Separators SeparatorConfig         `yaml:"separators"`
	Limits     LimitsConfig            `yaml:"limits"`
	Rules      map[string]RuleSetting  `yaml:"rules"`
	Languages  map[string]LangOverride `yaml:"languages"`
}

// HeaderConfig controls file header requirements.
type HeaderConfig struct {
	Required bool     `yaml:"required"`
	Fields   []string `yaml:"fields"` // markers that must appear, e.g. "@file", "Copyright"
}

// DocsConfig controls doc comment requirements on declarations.
type DocsConfig struct {
	RequireExported bool `yaml:"require_exported"`
	// ThirdPerson requires the summary verb in third-person present tense
	// ("Returns the widget", not "Return the widget").
	ThirdPerson bool `yaml:"third_person"`
	// LeadingName requires the doc comment to begin with the symbol name.
	// Applied to Go only; other languages ignore it.
	LeadingName bool `yaml:"leading_name"`
	// EndPunctuation requires the summary to end with terminal punctuation.
	EndPunctuation bool `yaml:"end_punctuation"`
}

// TagsConfig controls documentation tag checking (@param, @return, ...).
type TagsConfig struct {
	// Languages whose doc comments carry tags. Tag rules are skipped elsewhere.
	Languages []string `yaml:"languages"`
	// RequireParam demands one @param per declared parameter, in order.
	RequireParam bool `yaml:"require_param"`
	// RequireReturn demands @return on methods with a non-void result.
	RequireReturn bool `yaml:"require_return"`
	// Allowed is the set of recognized tag names (without the leading @).
	Allowed []string `yaml:"allowed"`
}

// HTMLConfig restricts HTML markup inside doc comments.
type HTMLConfig struct {
	// Allowed tags (lowercase, without angle brackets).
	Allowed []string `yaml:"allowed"`
}

// SeparatorConfig describes the section separator template.
type SeparatorConfig struct {
	// Fill is the repeated character, e.g. "=" for // ===== NAME =====.
	Fill string `yaml:"fill"`
	// Width is the required total width of the separator line.
	Width int `yaml:"width"`
	// MinRun is how many consecutive fill chars mark a comment as a separator.
	MinRun int `yaml:"min_run"`
}

// LimitsConfig holds numeric limits.
type LimitsConfig struct {
	// MaxLineLength caps comment line width; 0 disables the check.
	MaxLineLength int `yaml:"max_line_length"`
}

// RuleSetting overrides a single rule's enablement or severity.
type RuleSetting struct {
	Enabled  *bool  `yaml:"enabled"`
	Severity string `yaml:"severity"`
}

// LangOverride carries per-language rule settings keyed by rule ID.
type LangOverride struct {
	Rules map[string]RuleSetting `yaml:"rules"`
}

// Default returns the built-in style guide.
func Default() *Guide {
	return &Guide{
		Header: HeaderConfig{
			Required: false,
			Fields:   nil,
		},
		Docs: DocsConfig{
			RequireExported: true,
			ThirdPerson:     true,
			LeadingName:     true,
			EndPunctuation:  true,
		},
		Tags: TagsConfig{
			Languages:     []string{"java"},
			RequireParam:  true,
			RequireReturn: true,
			Allowed: []string{
				"param", "return", "returns", "throws", "exception",
				"see", "since", "deprecated", "author", "version",
				"link", "code", "inheritdoc",
			},
		},
		HTML: HTMLConfig{
			Allowed: []string{"p", "pre", "code", "ul", "ol", "li", "b", "i", "em", "strong", "br", "a"},
		},
		Separators: SeparatorConfig{
			Fill:   "=",
			Width:  77,
			MinRun: 4,
		},
		Limits: LimitsConfig{
			MaxLineLength: 100,
		},
	}
}

// Resolve returns whether a rule is enabled and at what severity, applying
// language overrides on top of global overrides on top of the rule default.
func (g *Guide) Resolve(ruleID, language string, def diag.Severity) (bool, diag.Severity) {
	enabled := true
	sev := def

	apply := func(s RuleSetting) {
		if s.Enabled != nil {
			enabled = *s.Enabled
		}
		if s.Severity != "" {
			if parsed, err := diag.ParseSeverity(s.Severity); err == nil {
				sev = parsed
			}
		}
	}

	if s, ok := g.Rules[ruleID]; ok {
		apply(s)
	}
	if lo, ok := g.Languages[language]; ok {
		if s, ok := lo.Rules[ruleID]; ok {
			apply(s)
		}
	}
	return enabled, sev
}

// TagsApply reports whether tag rules are configured for the language.
func (g *Guide) TagsApply(language string) bool {
	for _, l := range g.Tags.Languages {
		if l == language {
			return true
		}
	}
	return false
}

// HTMLAllowed reports whether an HTML tag name is permitted in doc comments.
func (g *Guide) HTMLAllowed(tag string) bool {
	for _, t := range g.HTML.Allowed {
		if t == tag {
			return true
		}
	}
	return false
}

// TagAllowed reports whether a documentation tag name is recognized.
func (g *Guide) TagAllowed(tag string) bool {
	for _, t := range g.Tags.Allowed {
		if t == tag {
			return true
		}
	}
	return false
}

// Validate rejects settings that cannot be enforced.
func (g *Guide) Validate() error {
	if len(g.Separators.Fill) != 1 {
		return fmt.Errorf("separators.fill must be a single character, got %q", g.Separators.Fill)
	}
	if !strings.Contains(SeparatorFills, g.Separators.Fill) {
		return fmt.Errorf("separators.fill must be one of %q, got %q", SeparatorFills, g.Separators.Fill)
	}
	if g.Separators.MinRun < 3 {
		return fmt.Errorf("separators.min_run must be at least 3, got %d", g.Separators.MinRun)
	}
	if g.Limits.MaxLineLength != 0 && g.Limits.MaxLineLength < 20 {
		return fmt.Errorf("limits.max_line_length too small: %d (use 0 to disable)", g.Limits.MaxLineLength)
	}
	for id, s := range g.Rules {
		if s.Severity != "" {
			if _, err := diag.ParseSeverity(s.Severity); err != nil {
				return fmt.Errorf("rules.%s: %w", id, err)
			}
		}
	}
	return nil
}
