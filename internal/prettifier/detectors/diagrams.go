package detectors

import (
	"regexp"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// NewDiagramDetector builds the fenced-diagram-language RegexDetector. A
// single fenced opener naming a known diagram language is definitive on its
// own — there is no ambiguity to hedge against the way Markdown's generic
// fence is.
func NewDiagramDetector() *prettifier.RegexDetector {
	return prettifier.NewRegexDetectorBuilder("diagrams", "Diagram").
		ConfidenceThreshold(0.8).
		MinMatchingRules(1).
		Rule(prettifier.DetectionRule{
			ID:       "diagram_fenced_block",
			Pattern:  regexp.MustCompile("^```(mermaid|plantuml|graphviz|dot|d2|ditaa|svgbob|erd|vegalite|wavedrom|excalidraw)\\s*$"),
			Weight:   1.0,
			Scope:    prettifier.ScopeAnyLine,
			Strength: prettifier.Definitive,
			Origin:   prettifier.BuiltIn,
			Enabled:  true,
		}).
		Build()
}
