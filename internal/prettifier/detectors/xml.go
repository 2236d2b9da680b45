package detectors

import (
	"regexp"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// NewXMLDetector builds the XML RegexDetector.
func NewXMLDetector() *prettifier.RegexDetector {
	return prettifier.NewRegexDetectorBuilder("xml", "XML").
		Rule(prettifier.DetectionRule{
			ID:       "xml_declaration",
			Pattern:  regexp.MustCompile(`^<\?xml\b`),
			Weight:   0.9,
			Scope:    prettifier.ScopeFirstLines(3),
			Strength: prettifier.Definitive,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "xml_doctype",
			Pattern:  regexp.MustCompile(`(?i)^<!DOCTYPE\b`),
			Weight:   0.8,
			Scope:    prettifier.ScopeFirstLines(5),
			Strength: prettifier.Definitive,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "xml_opening_tag",
			Pattern:  regexp.MustCompile(`<[A-Za-z][\w:.-]*(\s[^<>]*)?>`),
			Weight:   0.3,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Strong,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "xml_closing_tag",
			Pattern:  regexp.MustCompile(`</[A-Za-z][\w:.-]*>`),
			Weight:   0.2,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Rule(prettifier.DetectionRule{
			ID:       "xml_self_closing",
			Pattern:  regexp.MustCompile(`<[A-Za-z][\w:.-]*[^<>]*/>`),
			Weight:   0.15,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Supporting,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Build()
}
