package detectors

import (
	"regexp"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// NewStackTraceDetector builds the multi-language stack-trace RegexDetector.
func NewStackTraceDetector() *prettifier.RegexDetector {
	return prettifier.NewRegexDetectorBuilder("stacktrace", "Stack Trace").
		ConfidenceThreshold(0.6).
		MinMatchingRules(2).
		Rule(prettifier.DetectionRule{
			ID:       "stacktrace_java",
			Pattern:  regexp.MustCompile(`^\s*at [\w$.]+\([\w.]*:?\d*\)\s*$`),
			Weight:   0.7,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Definitive,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "stacktrace_python_header",
			Pattern:  regexp.MustCompile(`^Traceback \(most recent call last\):`),
			Weight:   0.9,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Definitive,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "stacktrace_python_frame",
			Pattern:  regexp.MustCompile(`^\s*File "[^"]+", line \d+, in \S+`),
			Weight:   0.6,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "stacktrace_rust_panic",
			Pattern:  regexp.MustCompile(`^thread '.*' panicked at`),
			Weight:   0.9,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Definitive,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "stacktrace_js",
			Pattern:  regexp.MustCompile(`^\s*at .+ \(.+:\d+:\d+\)\s*$`),
			Weight:   0.6,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "stacktrace_generic_error",
			Pattern:  regexp.MustCompile(`(?i)^\s*\w*(Error|Exception):\s`),
			Weight:   0.4,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "stacktrace_go_panic",
			Pattern:  regexp.MustCompile(`^goroutine \d+ \[.*\]:`),
			Weight:   0.8,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Definitive,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Build()
}
