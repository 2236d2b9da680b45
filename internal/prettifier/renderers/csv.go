package renderers

import (
	"strings"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// CSVRenderer re-aligns comma/tab separated rows into fixed-width columns.
type CSVRenderer struct{}

func NewCSVRenderer() *CSVRenderer { return &CSVRenderer{} }

func (r *CSVRenderer) FormatIDOf() string    { return "csv" }
func (r *CSVRenderer) DisplayNameOf() string { return "CSV" }
func (r *CSVRenderer) FormatBadge() string   { return "CSV" }

func (r *CSVRenderer) Capabilities() []prettifier.RendererCapability {
	return []prettifier.RendererCapability{prettifier.CapabilityTextStyling}
}

func (r *CSVRenderer) Render(block *prettifier.ContentBlock, cfg prettifier.RendererConfig) (*prettifier.RenderedContent, *prettifier.RenderError) {
	sep := detectSeparator(block.Lines)

	rows := make([][]string, len(block.Lines))
	for i, line := range block.Lines {
		rows[i] = splitRespectingQuotes(line, sep)
	}
	rendered := alignedColumns(rows, nil)

	rc := &prettifier.RenderedContent{FormatBadge: r.FormatBadge()}
	for _, line := range rendered {
		seg := prettifier.StyledSegment{Text: line.Text}
		if line.SourceRow == 0 {
			seg.Bold = true
			seg.Fg = "#83a598"
		} else if line.SourceRow < 0 {
			seg.Fg = "#665c54"
		}
		rc.Lines = append(rc.Lines, prettifier.StyledLine{Segments: []prettifier.StyledSegment{seg}})
		mapping := prettifier.SourceLineMapping{RenderedLine: len(rc.Lines) - 1}
		if line.SourceRow >= 0 {
			sl := line.SourceRow
			mapping.SourceLine = &sl
		}
		rc.LineMapping = append(rc.LineMapping, mapping)
	}
	return rc, nil
}

func detectSeparator(lines []string) rune {
	if len(lines) == 0 {
		return ','
	}
	if strings.Count(lines[0], "\t") > 0 {
		return '\t'
	}
	return ','
}
