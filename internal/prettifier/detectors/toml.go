package detectors

import (
	"regexp"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// NewTOMLDetector builds the TOML RegexDetector.
func NewTOMLDetector() *prettifier.RegexDetector {
	return prettifier.NewRegexDetectorBuilder("toml", "TOML").
		MinMatchingRules(2).
		DefinitiveShortcircuit(false).
		Rule(prettifier.DetectionRule{
			ID:       "toml_array_table",
			Pattern:  regexp.MustCompile(`^\[\[[A-Za-z0-9_.-]+\]\]\s*$`),
			Weight:   0.6,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Definitive,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "toml_section_header",
			Pattern:  regexp.MustCompile(`^\[[A-Za-z0-9_.-]+\]\s*$`),
			Weight:   0.5,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "toml_key_value",
			Pattern:  regexp.MustCompile(`^[A-Za-z0-9_-]+\s*=\s*\S`),
			Weight:   0.3,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "toml_string_value",
			Pattern:  regexp.MustCompile(`=\s*"[^"]*"\s*$`),
			Weight:   0.2,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "toml_comment",
			Pattern:  regexp.MustCompile(`^\s*#`),
			Weight:   0.1,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Build()
}
