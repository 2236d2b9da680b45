// Package detectors holds the built-in RegexDetector rule sets for every
// format the prettifier recognizes.
package detectors

import (
	"regexp"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// NewMarkdownDetector builds the Markdown RegexDetector: a definitive
// fenced-code opener, strong header/table signals, and supporting
// inline-emphasis signals, plus a command-context boost for sessions
// whose preceding command is an agent CLI named "claude".
func NewMarkdownDetector() *prettifier.RegexDetector {
	return prettifier.NewRegexDetectorBuilder("markdown", "Markdown").
		Rule(prettifier.DetectionRule{
			ID:       "md_fenced_code",
			Pattern:  regexp.MustCompile("^(`{3,}|~{3,})"),
			Weight:   1.0,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Definitive,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "md_atx_header",
			Pattern:  regexp.MustCompile(`^#{1,6}\s+\S`),
			Weight:   0.5,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "md_table_row",
			Pattern:  regexp.MustCompile(`^\s*\|.*\|\s*$`),
			Weight:   0.4,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "md_table_separator",
			Pattern:  regexp.MustCompile(`^\s*\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)+\|?\s*$`),
			Weight:   0.3,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "md_bold",
			Pattern:  regexp.MustCompile(`\*\*[^*]+\*\*`),
			Weight:   0.2,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "md_link",
			Pattern:  regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`),
			Weight:   0.2,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "md_list_bullet",
			Pattern:  regexp.MustCompile(`^\s*[-*+]\s+\S`),
			Weight:   0.15,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "md_blockquote",
			Pattern:  regexp.MustCompile(`^>\s`),
			Weight:   0.15,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:             "md_claude_context",
			Pattern:        regexp.MustCompile(`\S`),
			Weight:         0.1,
			Scope:          prettifier.ScopeAnyLine,
			Strength:       prettifier.Supporting,
			Origin:         prettifier.BuiltIn,
			CommandContext: regexp.MustCompile(`(?i)claude`),
			Enabled:        true,
		}).
		Build()
}
