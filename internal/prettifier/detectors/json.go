package detectors

import (
	"regexp"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// NewJSONDetector builds the JSON RegexDetector. JSON has no definitive
// rule — confidence always accumulates from openers, key:value lines, and
// closers, so a block can never claim 1.0 confidence through JSON alone.
func NewJSONDetector() *prettifier.RegexDetector {
	return prettifier.NewRegexDetectorBuilder("json", "JSON").
		DefinitiveShortcircuit(false).
		Rule(prettifier.DetectionRule{
			ID:       "json_open_brace",
			Pattern:  regexp.MustCompile(`^\s*\{\s*$`),
			Weight:   0.4,
			Scope:    prettifier.ScopeFirstLines(3),
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "json_open_bracket",
			Pattern:  regexp.MustCompile(`^\s*\[\s*$`),
			Weight:   0.35,
			Scope:    prettifier.ScopeFirstLines(3),
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "json_key_value",
			Pattern:  regexp.MustCompile(`^\s*"[^"]+"\s*:\s*\S`),
			Weight:   0.3,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "json_close_brace",
			Pattern:  regexp.MustCompile(`^\s*[}\]],?\s*$`),
			Weight:   0.2,
			Scope:    prettifier.ScopeLastLines(3),
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "json_curl_context",
			Pattern:  regexp.MustCompile(`(?i)curl\b`),
			Weight:   0.3,
			Scope:    prettifier.ScopePrecedingCommand,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "json_jq_context",
			Pattern:  regexp.MustCompile(`(?i)\bjq\b`),
			Weight:   0.3,
			Scope:    prettifier.ScopePrecedingCommand,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Build()
}
