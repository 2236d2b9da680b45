package detectors

import (
	"regexp"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// NewLogDetector builds the application-log RegexDetector.
func NewLogDetector() *prettifier.RegexDetector {
	return prettifier.NewRegexDetectorBuilder("log", "Log").
		ConfidenceThreshold(0.5).
		MinMatchingRules(2).
		DefinitiveShortcircuit(false).
		Rule(prettifier.DetectionRule{
			ID:       "log_timestamp_level",
			Pattern:  regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}.*\b(DEBUG|INFO|WARN|WARNING|ERROR|FATAL|TRACE)\b`),
			Weight:   0.7,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "log_level_prefix",
			Pattern:  regexp.MustCompile(`^\s*\[?(DEBUG|INFO|WARN|WARNING|ERROR|FATAL|TRACE)\]?\s`),
			Weight:   0.5,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "log_iso_timestamp",
			Pattern:  regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}`),
			Weight:   0.3,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "log_syslog",
			Pattern:  regexp.MustCompile(`^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{1,2}\s+\d{2}:\d{2}:\d{2}\s`),
			Weight:   0.4,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "log_json_line",
			Pattern:  regexp.MustCompile(`^\s*\{.*"(level|msg|message|time|timestamp)"\s*:`),
			Weight:   0.6,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Build()
}
