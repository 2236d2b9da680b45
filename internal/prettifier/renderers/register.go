package renderers

import "github.com/samsaffron/term-llm/internal/prettifier"

// RegisterBuiltins registers every built-in renderer into reg, keyed by the
// same format ids the built-in detectors in internal/prettifier/detectors
// produce.
func RegisterBuiltins(reg *prettifier.RendererRegistry) {
	reg.RegisterRenderer("markdown", NewMarkdownRenderer())
	reg.RegisterRenderer("json", NewJSONRenderer())
	reg.RegisterRenderer("yaml", NewYAMLRenderer())
	reg.RegisterRenderer("toml", NewTOMLRenderer())
	reg.RegisterRenderer("xml", NewXMLRenderer())
	reg.RegisterRenderer("diff", NewDiffRenderer())
	reg.RegisterRenderer("log", NewLogRenderer())
	reg.RegisterRenderer("csv", NewCSVRenderer())
	reg.RegisterRenderer("sql_results", NewSQLResultsRenderer())
	reg.RegisterRenderer("stacktrace", NewStackTraceRenderer())
	reg.RegisterRenderer("diagrams", NewDiagramRenderer())
}
