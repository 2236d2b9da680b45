package renderers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

var tableSeparatorRe = regexp.MustCompile(`^\s*\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)+\|?\s*$`)

func pipeRowPattern() *regexp.Regexp {
	return regexp.MustCompile(`^\s*\|.*\|\s*$`)
}

func markdownConfigFromExtra(extra map[string]interface{}) MarkdownConfig {
	cfg := MarkdownConfig{LinkStyle: "underline_color", UnderlineH1H2: true}
	if extra == nil {
		return cfg
	}
	if v, ok := extra["markdown_link_style"].(string); ok && v != "" {
		cfg.LinkStyle = v
	}
	if v, ok := extra["markdown_underline_h1h2"].(bool); ok {
		cfg.UnderlineH1H2 = v
	}
	return cfg
}

// MarkdownConfig carries the renderer's per-format options, mirrored from
// prettifier.MarkdownRendererConfig via RendererConfig.Extra.
type MarkdownConfig struct {
	LinkStyle     string
	UnderlineH1H2 bool
}

// MarkdownRenderer renders Markdown into styled, line-mapped terminal
// output using goldmark for block structure (so fenced code, headings,
// lists, and blockquotes are identified precisely) while inline styling and
// table layout are done with a lightweight line-local tokenizer — unlike
// glamour's flat-string output, every rendered line here keeps a pointer
// back to the source line it came from, except synthetic lines such as a
// table's header rule, which map to no source line.
type MarkdownRenderer struct {
	Diagrams *DiagramRenderer
}

// NewMarkdownRenderer builds a MarkdownRenderer with the default (no-op)
// diagram backend.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{Diagrams: NewDiagramRenderer()}
}

func (r *MarkdownRenderer) FormatIDOf() string    { return "markdown" }
func (r *MarkdownRenderer) DisplayNameOf() string { return "Markdown" }
func (r *MarkdownRenderer) FormatBadge() string   { return "MD Markdown" }

func (r *MarkdownRenderer) Capabilities() []prettifier.RendererCapability {
	return []prettifier.RendererCapability{prettifier.CapabilityTextStyling}
}

type linesProvider interface {
	Lines() *text.Segments
}

func (r *MarkdownRenderer) Render(block *prettifier.ContentBlock, cfg prettifier.RendererConfig) (*prettifier.RenderedContent, *prettifier.RenderError) {
	mdCfg := markdownConfigFromExtra(cfg.Extra)
	source := []byte(block.FullText())
	starts := lineStarts(source)

	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	rc := &prettifier.RenderedContent{FormatBadge: r.FormatBadge()}
	emit := func(seg []prettifier.StyledSegment, sourceLine int, hasSource bool) {
		rc.Lines = append(rc.Lines, prettifier.StyledLine{Segments: seg})
		mapping := prettifier.SourceLineMapping{RenderedLine: len(rc.Lines) - 1}
		if hasSource {
			sl := sourceLine
			mapping.SourceLine = &sl
		}
		rc.LineMapping = append(rc.LineMapping, mapping)
	}

	child := doc.FirstChild()
	for child != nil {
		r.renderBlock(child, block.Lines, source, starts, mdCfg, 0, emit)
		child = child.NextSibling()
	}

	if !rc.Validate(block.LineCount()) {
		return nil, prettifier.NewRenderFailed("line mapping invariant violated")
	}
	return rc, nil
}

func (r *MarkdownRenderer) renderBlock(n ast.Node, srcLines []string, source []byte, starts []int, cfg MarkdownConfig, depth int, emit func([]prettifier.StyledSegment, int, bool)) {
	lp, hasLines := n.(linesProvider)
	startLine, endLine := 0, 0
	if hasLines && lp.Lines().Len() > 0 {
		segs := lp.Lines()
		startLine = lineForOffset(starts, segs.At(0).Start)
		endLine = lineForOffset(starts, segs.At(segs.Len()-1).Stop-1) + 1
	}

	indent := strings.Repeat("  ", depth)

	switch node := n.(type) {
	case *ast.Heading:
		if startLine < len(srcLines) {
			headingText := strings.TrimLeft(srcLines[startLine], "#")
			headingText = strings.TrimSpace(headingText)
			underline := cfg.UnderlineH1H2 && node.Level <= 2
			seg := prettifier.StyledSegment{
				Text:      strings.Repeat("#", node.Level) + " " + headingText,
				Bold:      true,
				Underline: underline,
				Fg:        headingColor(node.Level),
			}
			emit([]prettifier.StyledSegment{seg}, startLine, true)
		}

	case *ast.FencedCodeBlock:
		language := string(node.Language(source))
		r.renderFence(srcLines, startLine, endLine, language, emit)

	case *ast.Paragraph:
		if looksLikeTable(srcLines, startLine, endLine) {
			r.renderTable(srcLines, startLine, endLine, emit)
			return
		}
		for i := startLine; i < endLine && i < len(srcLines); i++ {
			segs := tokenizeInline(srcLines[i], cfg.LinkStyle)
			if depth > 0 {
				segs = append([]prettifier.StyledSegment{{Text: indent}}, segs...)
			}
			emit(segs, i, true)
		}

	case *ast.Blockquote:
		child := n.FirstChild()
		for child != nil {
			r.renderBlockquoteChild(child, srcLines, source, starts, cfg, emit)
			child = child.NextSibling()
		}

	case *ast.List:
		item := n.FirstChild()
		idx := 1
		for item != nil {
			r.renderListItem(item, srcLines, source, starts, cfg, depth, node.IsOrdered(), idx, emit)
			idx++
			item = item.NextSibling()
		}

	case *ast.ThematicBreak:
		emit([]prettifier.StyledSegment{{Text: strings.Repeat("─", 40), Fg: "#928374"}}, startLine, true)

	default:
		for i := startLine; i < endLine && i < len(srcLines); i++ {
			emit([]prettifier.StyledSegment{{Text: srcLines[i]}}, i, true)
		}
	}
}

func (r *MarkdownRenderer) renderBlockquoteChild(n ast.Node, srcLines []string, source []byte, starts []int, cfg MarkdownConfig, emit func([]prettifier.StyledSegment, int, bool)) {
	inner := func(segs []prettifier.StyledSegment, line int, has bool) {
		prefixed := append([]prettifier.StyledSegment{{Text: "> ", Fg: "#928374"}}, segs...)
		emit(prefixed, line, has)
	}
	r.renderBlock(n, srcLines, source, starts, cfg, 0, inner)
}

func (r *MarkdownRenderer) renderListItem(n ast.Node, srcLines []string, source []byte, starts []int, cfg MarkdownConfig, depth int, ordered bool, idx int, emit func([]prettifier.StyledSegment, int, bool)) {
	marker := "•"
	if ordered {
		marker = strconv.Itoa(idx) + "."
	}
	first := true
	child := n.FirstChild()
	for child != nil {
		inner := func(segs []prettifier.StyledSegment, line int, has bool) {
			prefix := strings.Repeat("  ", depth) + "  "
			if first {
				prefix = strings.Repeat("  ", depth) + marker + " "
				first = false
			}
			emit(append([]prettifier.StyledSegment{{Text: prefix}}, segs...), line, has)
		}
		r.renderBlock(child, srcLines, source, starts, cfg, depth+1, inner)
		child = child.NextSibling()
	}
}

func (r *MarkdownRenderer) renderFence(srcLines []string, startLine, endLine int, language string, emit func([]prettifier.StyledSegment, int, bool)) {
	fenceStart, fenceEnd := startLine-1, endLine
	if fenceStart < 0 {
		fenceStart = startLine
	}
	if fenceEnd < len(srcLines) && strings.HasPrefix(strings.TrimSpace(srcLines[fenceEnd]), "```") {
		fenceEnd++
	}
	if fenceStart >= len(srcLines) || fenceStart < 0 {
		return
	}

	if IsDiagramLanguage(language) {
		lines, mapping := renderDiagramFence(srcLines[fenceStart:fenceEnd], r.Diagrams.Backend, prettifier.RendererConfig{})
		for i, l := range lines {
			sourceLine := fenceStart
			if mapping[i].SourceLine != nil {
				sourceLine = fenceStart + *mapping[i].SourceLine
			}
			emit(l.Segments, sourceLine, true)
		}
		return
	}

	hl := newSyntaxHighlighter(language)
	emit([]prettifier.StyledSegment{{Text: srcLines[fenceStart], Fg: "#928374"}}, fenceStart, true)
	for i := startLine; i < endLine && i < len(srcLines); i++ {
		emit(hl.HighlightLine(srcLines[i]), i, true)
	}
	if fenceEnd-1 >= startLine && fenceEnd-1 < len(srcLines) && fenceEnd > endLine {
		emit([]prettifier.StyledSegment{{Text: srcLines[fenceEnd-1], Fg: "#928374"}}, fenceEnd-1, true)
	}
}

func headingColor(level int) string {
	switch level {
	case 1:
		return "#fabd2f"
	case 2:
		return "#b8bb26"
	default:
		return "#83a598"
	}
}

var pipeRowRe = pipeRowPattern()

func looksLikeTable(lines []string, start, end int) bool {
	count := 0
	for i := start; i < end && i < len(lines); i++ {
		if pipeRowRe.MatchString(lines[i]) {
			count++
		}
	}
	return count >= 2 && end-start >= 2
}

func (r *MarkdownRenderer) renderTable(srcLines []string, start, end int, emit func([]prettifier.StyledSegment, int, bool)) {
	var rows [][]string
	rowLines := []int{}
	for i := start; i < end && i < len(srcLines); i++ {
		line := strings.TrimSpace(srcLines[i])
		if tableSeparatorRe.MatchString(line) {
			continue // alignment row, not rendered
		}
		cells := strings.Split(strings.Trim(line, "|"), "|")
		for j := range cells {
			cells[j] = strings.TrimSpace(cells[j])
		}
		rows = append(rows, cells)
		rowLines = append(rowLines, i)
	}
	rendered := alignedColumns(rows, nil)
	for _, line := range rendered {
		seg := prettifier.StyledSegment{Text: line.Text}
		switch {
		case line.SourceRow == 0:
			seg.Bold = true
		case line.SourceRow < 0:
			seg.Fg = "#665c54"
		}
		if line.SourceRow >= 0 {
			emit([]prettifier.StyledSegment{seg}, rowLines[line.SourceRow], true)
		} else {
			emit([]prettifier.StyledSegment{seg}, 0, false)
		}
	}
}
