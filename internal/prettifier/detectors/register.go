// Package detectors holds the built-in content-format detectors shipped
// with the prettifier: one RegexDetector per supported format, plus
// RegisterBuiltins to wire them all into a registry at sensible priorities.
package detectors

import "github.com/samsaffron/term-llm/internal/prettifier"

// RegisterBuiltins registers every built-in detector into reg. Priority
// favors the more specific/definitive formats (diagrams, stack traces, diff)
// over the broader, weight-accumulating ones (log, csv), so a block that
// could plausibly match either gets the more specific call first.
func RegisterBuiltins(reg *prettifier.RendererRegistry) {
	reg.RegisterDetector(100, NewDiagramDetector())
	reg.RegisterDetector(95, NewStackTraceDetector())
	reg.RegisterDetector(90, NewDiffDetector())
	reg.RegisterDetector(85, NewXMLDetector())
	reg.RegisterDetector(80, NewTOMLDetector())
	reg.RegisterDetector(75, NewYAMLDetector())
	reg.RegisterDetector(70, NewJSONDetector())
	reg.RegisterDetector(65, NewSQLResultsDetector())
	reg.RegisterDetector(60, NewCSVDetector())
	reg.RegisterDetector(55, NewMarkdownDetector())
	reg.RegisterDetector(50, NewLogDetector())
}
