package prettifier

// DualViewBuffer owns one ContentBlock, optionally a RenderedContent, a
// view mode, and the terminal width the render was computed for. Source
// is never mutated after construction; if ViewMode is ViewRendered and no
// rendered content is set, display falls back to source lines as
// unstyled text.
type DualViewBuffer struct {
	source        ContentBlock
	rendered      *RenderedContent
	renderedWidth int
	viewMode      ViewMode
}

// NewDualViewBuffer wraps a source block with no rendered content yet.
func NewDualViewBuffer(source ContentBlock) *DualViewBuffer {
	return &DualViewBuffer{source: source, viewMode: ViewRendered}
}

// Source returns the underlying immutable source block.
func (b *DualViewBuffer) Source() ContentBlock {
	return b.source
}

// SetRendered stores a render result and the width it was computed for.
func (b *DualViewBuffer) SetRendered(rc *RenderedContent, width int) {
	b.rendered = rc
	b.renderedWidth = width
}

// Rendered returns the currently cached rendered content, if any.
func (b *DualViewBuffer) Rendered() *RenderedContent {
	return b.rendered
}

// NeedsRender reports whether there is no cached render, or the cached
// render was computed for a different width.
func (b *DualViewBuffer) NeedsRender(currentWidth int) bool {
	return b.rendered == nil || b.renderedWidth != currentWidth
}

// ViewMode returns the current view mode.
func (b *DualViewBuffer) ViewMode() ViewMode {
	return b.viewMode
}

// ToggleView flips between Rendered and Source. Applying it twice is the
// identity operation.
func (b *DualViewBuffer) ToggleView() {
	if b.viewMode == ViewRendered {
		b.viewMode = ViewSource
	} else {
		b.viewMode = ViewRendered
	}
}

// sourceAsStyledLines wraps the source lines as unstyled StyledLines.
func (b *DualViewBuffer) sourceAsStyledLines() []StyledLine {
	lines := make([]StyledLine, len(b.source.Lines))
	for i, l := range b.source.Lines {
		lines[i] = PlainStyledLine(l)
	}
	return lines
}

// DisplayLines returns the lines to show for the given view mode: the
// rendered lines when mode is Rendered and a render exists, otherwise the
// source lines as unstyled text.
func (b *DualViewBuffer) DisplayLines(mode ViewMode) []StyledLine {
	if mode == ViewRendered && b.rendered != nil {
		return b.rendered.Lines
	}
	return b.sourceAsStyledLines()
}

// DisplayLinesRange returns a windowed slice of display lines starting at
// the given offset, without materializing the whole block. This keeps
// per-frame cost bounded for blocks with more than 10,000 source lines.
func (b *DualViewBuffer) DisplayLinesRange(start, count int) []StyledLine {
	lines := b.DisplayLines(b.viewMode)
	if start < 0 || start >= len(lines) {
		return nil
	}
	end := start + count
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start:end]
}

// SourceText extracts the plaintext source for copy operations.
func (b *DualViewBuffer) SourceText() string {
	return b.source.FullText()
}

// RenderedText extracts the plaintext rendered output for copy
// operations, falling back to source text if nothing is rendered.
func (b *DualViewBuffer) RenderedText() string {
	if b.rendered == nil {
		return b.SourceText()
	}
	out := ""
	for i, l := range b.rendered.Lines {
		if i > 0 {
			out += "\n"
		}
		out += l.Text()
	}
	return out
}

// RenderedToSourceLine maps a rendered line index back to a source line
// index, or -1 if the rendered line is synthetic or out of range.
func (b *DualViewBuffer) RenderedToSourceLine(renderedLine int) int {
	if b.rendered == nil {
		if renderedLine >= 0 && renderedLine < len(b.source.Lines) {
			return renderedLine
		}
		return -1
	}
	if renderedLine < 0 || renderedLine >= len(b.rendered.LineMapping) {
		return -1
	}
	m := b.rendered.LineMapping[renderedLine]
	if m.SourceLine == nil {
		return -1
	}
	return *m.SourceLine
}

// SourceToRenderedLines maps a source line index to every rendered line
// that references it.
func (b *DualViewBuffer) SourceToRenderedLines(sourceLine int) []int {
	if b.rendered == nil {
		if sourceLine >= 0 && sourceLine < len(b.source.Lines) {
			return []int{sourceLine}
		}
		return nil
	}
	var out []int
	for _, m := range b.rendered.LineMapping {
		if m.SourceLine != nil && *m.SourceLine == sourceLine {
			out = append(out, m.RenderedLine)
		}
	}
	return out
}
