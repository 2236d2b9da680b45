package renderers

import (
	"strings"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// diagramLanguages mirrors the fence tags the diagrams detector treats as
// definitive (internal/prettifier/detectors/diagrams.go). Kept here as a
// plain set rather than importing the detectors package, since only the
// language names are shared, not the detection rules themselves.
var diagramLanguages = map[string]bool{
	"mermaid": true, "plantuml": true, "graphviz": true, "dot": true,
	"d2": true, "ditaa": true, "svgbob": true, "erd": true,
	"vegalite": true, "wavedrom": true, "excalidraw": true,
}

// IsDiagramLanguage reports whether a fence language is one of the
// supported diagram source languages.
func IsDiagramLanguage(language string) bool {
	return diagramLanguages[strings.ToLower(language)]
}

// DiagramBackend renders a diagram source into inline graphics. No shipped
// backend does network or subprocess rendering. The backend is called
// synchronously from DiagramRenderer.Render, on whatever goroutine calls
// the renderer; there is no worker or completion queue.
type DiagramBackend interface {
	// Name identifies the backend for logging/config purposes.
	Name() string
	// Render attempts to rasterize a diagram. ok is false when the backend
	// declines (e.g. unsupported language), in which case the renderer
	// falls back to styled source text.
	Render(language, source string, cellWidth, cellHeight int) (graphic prettifier.InlineGraphic, ok bool)
}

// sourceFallbackBackend never rasterizes; it is the default DiagramBackend,
// always returning ok=false so DiagramRenderer falls through to styled text.
type sourceFallbackBackend struct{}

func (sourceFallbackBackend) Name() string { return "source_fallback" }

func (sourceFallbackBackend) Render(string, string, int, int) (prettifier.InlineGraphic, bool) {
	return prettifier.InlineGraphic{}, false
}

// DiagramRenderer renders fenced diagram-language blocks. It calls the
// configured backend, then renders the diagram source as styled, dimmed
// text with a language badge. A graphic the backend returns is not
// attached to the output, so the source text is what is shown either way.
type DiagramRenderer struct {
	Backend DiagramBackend
}

// NewDiagramRenderer builds a DiagramRenderer with the source-fallback
// backend; callers can swap in a real backend via the Backend field.
func NewDiagramRenderer() *DiagramRenderer {
	return &DiagramRenderer{Backend: sourceFallbackBackend{}}
}

func (r *DiagramRenderer) FormatIDOf() string    { return "diagrams" }
func (r *DiagramRenderer) DisplayNameOf() string { return "Diagram" }
func (r *DiagramRenderer) FormatBadge() string   { return "◆ Diagram" }

func (r *DiagramRenderer) Capabilities() []prettifier.RendererCapability {
	return []prettifier.RendererCapability{
		prettifier.CapabilityTextStyling,
		prettifier.CapabilityInlineGraphics,
	}
}

func (r *DiagramRenderer) Render(block *prettifier.ContentBlock, cfg prettifier.RendererConfig) (*prettifier.RenderedContent, *prettifier.RenderError) {
	lines, mapping := renderDiagramFence(block.Lines, r.Backend, cfg)
	return &prettifier.RenderedContent{
		Lines:       lines,
		LineMapping: mapping,
		FormatBadge: r.FormatBadge(),
	}, nil
}

// renderDiagramFence renders the body of a fenced diagram block (source
// lines including the opening/closing fence markers). Shared with the
// Markdown renderer, which delegates fenced diagram blocks here instead of
// syntax-highlighting them as code.
func renderDiagramFence(lines []string, backend DiagramBackend, cfg prettifier.RendererConfig) ([]prettifier.StyledLine, []prettifier.SourceLineMapping) {
	language := ""
	bodyStart, bodyEnd := 0, len(lines)
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), "```") {
		language = strings.TrimPrefix(strings.TrimSpace(lines[0]), "```")
		bodyStart = 1
	}
	if bodyEnd > bodyStart && strings.TrimSpace(lines[bodyEnd-1]) == "```" {
		bodyEnd--
	}
	source := strings.Join(lines[bodyStart:bodyEnd], "\n")

	var out []prettifier.StyledLine
	var mapping []prettifier.SourceLineMapping

	appendLine := func(seg prettifier.StyledSegment, sourceLine int) {
		out = append(out, prettifier.StyledLine{Segments: []prettifier.StyledSegment{seg}})
		sl := sourceLine
		mapping = append(mapping, prettifier.SourceLineMapping{RenderedLine: len(out) - 1, SourceLine: &sl})
	}

	if backend != nil {
		if _, ok := backend.Render(language, source, 0, 0); ok {
			// The returned graphic is discarded; the source-fallback
			// backend never reaches this branch.
		}
	}

	appendLine(prettifier.StyledSegment{Text: "◆ " + language + " diagram", Fg: "#83a598", Bold: true}, 0)
	for i := bodyStart; i < bodyEnd; i++ {
		appendLine(prettifier.StyledSegment{Text: lines[i], Fg: "#928374"}, i)
	}
	return out, mapping
}
