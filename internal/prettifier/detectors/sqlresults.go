package detectors

import (
	"regexp"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// NewSQLResultsDetector builds the psql/mysql tabular-result RegexDetector.
func NewSQLResultsDetector() *prettifier.RegexDetector {
	return prettifier.NewRegexDetectorBuilder("sql_results", "SQL Results").
		ConfidenceThreshold(0.6).
		MinMatchingRules(2).
		Rule(prettifier.DetectionRule{
			ID:       "sql_psql_separator",
			Pattern:  regexp.MustCompile(`^[-+]{3,}$|^\s*-+(\+-+)+\s*$`),
			Weight:   0.4,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "sql_mysql_border",
			Pattern:  regexp.MustCompile(`^\+(-+\+)+\s*$`),
			Weight:   0.6,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Definitive,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "sql_row_count",
			Pattern:  regexp.MustCompile(`^\(\d+ rows?\)\s*$`),
			Weight:   0.3,
			Scope:    prettifier.ScopeLastLines(3),
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "sql_command_context",
			Pattern:  regexp.MustCompile(`(?i)\b(psql|mysql|sqlite3)\b`),
			Weight:   0.3,
			Scope:    prettifier.ScopePrecedingCommand,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Build()
}
