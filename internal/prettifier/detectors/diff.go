package detectors

import (
	"regexp"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// NewDiffDetector builds the diff RegexDetector.
func NewDiffDetector() *prettifier.RegexDetector {
	return prettifier.NewRegexDetectorBuilder("diff", "Diff").
		Rule(prettifier.DetectionRule{
			ID:       "diff_git_header",
			Pattern:  regexp.MustCompile(`^diff --git `),
			Weight:   0.9,
			Scope:    prettifier.ScopeFirstLines(5),
			Strength: prettifier.Definitive,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "diff_unified_header",
			Pattern:  regexp.MustCompile(`(?m)^--- .*\n\+\+\+ .*$`),
			Weight:   0.9,
			Scope:    prettifier.ScopeFullBlock,
			Strength: prettifier.Definitive,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "diff_hunk",
			Pattern:  regexp.MustCompile(`^@@ -\d+(,\d+)? \+\d+(,\d+)? @@`),
			Weight:   0.8,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Definitive,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "diff_add_line",
			Pattern:  regexp.MustCompile(`^\+[^+]`),
			Weight:   0.1,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "diff_remove_line",
			Pattern:  regexp.MustCompile(`^-(--)?[^-]`),
			Weight:   0.1,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "diff_git_context",
			Pattern:  regexp.MustCompile(`(?i)git (diff|log|show)`),
			Weight:   0.3,
			Scope:    prettifier.ScopePrecedingCommand,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Build()
}
