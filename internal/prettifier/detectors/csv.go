package detectors

import (
	"regexp"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// NewCSVDetector builds the CSV/TSV RegexDetector.
func NewCSVDetector() *prettifier.RegexDetector {
	return prettifier.NewRegexDetectorBuilder("csv", "CSV").
		ConfidenceThreshold(0.6).
		MinMatchingRules(2).
		DefinitiveShortcircuit(false).
		Rule(prettifier.DetectionRule{
			ID:       "csv_comma_consistent",
			Pattern:  regexp.MustCompile(`^[^,\n]+(,[^,\n]*){2,}$`),
			Weight:   0.3,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "csv_tab_consistent",
			Pattern:  regexp.MustCompile(`^[^\t\n]+(\t[^\t\n]*){2,}$`),
			Weight:   0.4,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "csv_header_row",
			Pattern:  regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_ ]*[,\t]`),
			Weight:   0.4,
			Scope:    prettifier.ScopeFirstLines(1),
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "csv_command_context",
			Pattern:  regexp.MustCompile(`(?i)\.csv\b|\bcsv\b`),
			Weight:   0.2,
			Scope:    prettifier.ScopePrecedingCommand,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Build()
}
