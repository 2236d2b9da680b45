package detectors

import (
	"regexp"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// NewYAMLDetector builds the YAML RegexDetector. min_matching_rules=2 and
// shortcircuit disabled so a lone "---" document marker — ambiguous with
// a Markdown horizontal rule — can never claim a block by itself.
func NewYAMLDetector() *prettifier.RegexDetector {
	return prettifier.NewRegexDetectorBuilder("yaml", "YAML").
		MinMatchingRules(2).
		DefinitiveShortcircuit(false).
		Rule(prettifier.DetectionRule{
			ID:       "yaml_doc_start",
			Pattern:  regexp.MustCompile(`^---\s*$`),
			Weight:   0.5,
			Scope:    prettifier.ScopeFirstLines(3),
			Strength: prettifier.Definitive,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "yaml_key_value",
			Pattern:  regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*:\s`),
			Weight:   0.4,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "yaml_nested",
			Pattern:  regexp.MustCompile(`^\s{2,}[A-Za-z_][A-Za-z0-9_-]*:\s`),
			Weight:   0.25,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "yaml_list",
			Pattern:  regexp.MustCompile(`^\s*-\s+\S`),
			Weight:   0.2,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Build()
}
