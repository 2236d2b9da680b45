package renderers

import (
	"regexp"
	"strings"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// SQLResultsRenderer re-aligns psql/mysql tabular query output, right
// aligning columns whose every data cell (header excluded) is numeric.
type SQLResultsRenderer struct{}

func NewSQLResultsRenderer() *SQLResultsRenderer { return &SQLResultsRenderer{} }

func (r *SQLResultsRenderer) FormatIDOf() string    { return "sql_results" }
func (r *SQLResultsRenderer) DisplayNameOf() string { return "SQL Results" }
func (r *SQLResultsRenderer) FormatBadge() string   { return "⛁ SQL" }

func (r *SQLResultsRenderer) Capabilities() []prettifier.RendererCapability {
	return []prettifier.RendererCapability{prettifier.CapabilityTextStyling}
}

var (
	sqlBorderRe   = regexp.MustCompile(`^[-+|\s]+$`)
	sqlRowCountRe = regexp.MustCompile(`^\(\d+ rows?\)\s*$`)
	sqlNumericRe  = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

func (r *SQLResultsRenderer) Render(block *prettifier.ContentBlock, cfg prettifier.RendererConfig) (*prettifier.RenderedContent, *prettifier.RenderError) {
	var dataRows [][]string
	var dataLines []int
	var footer []int

	for i, line := range block.Lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || sqlBorderRe.MatchString(trimmed) {
			continue
		}
		if sqlRowCountRe.MatchString(trimmed) {
			footer = append(footer, i)
			continue
		}
		cells := strings.Split(strings.Trim(line, "|"), "|")
		for j := range cells {
			cells[j] = strings.TrimSpace(cells[j])
		}
		dataRows = append(dataRows, cells)
		dataLines = append(dataLines, i)
	}

	rightAlign := numericColumns(dataRows)
	rendered := alignedColumns(dataRows, rightAlign)

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
			sl := dataLines[line.SourceRow]
			mapping.SourceLine = &sl
		}
		rc.LineMapping = append(rc.LineMapping, mapping)
	}
	for _, i := range footer {
		rc.Lines = append(rc.Lines, prettifier.StyledLine{Segments: []prettifier.StyledSegment{{Text: block.Lines[i], Fg: "#928374", Italic: true}}})
		sl := i
		rc.LineMapping = append(rc.LineMapping, prettifier.SourceLineMapping{RenderedLine: len(rc.Lines) - 1, SourceLine: &sl})
	}
	return rc, nil
}

// numericColumns marks a column right-aligned when every data row (the
// header excluded) is numeric in that column.
func numericColumns(rows [][]string) map[int]bool {
	if len(rows) < 2 {
		return nil
	}
	cols := len(rows[0])
	result := make(map[int]bool, cols)
	for c := 0; c < cols; c++ {
		allNumeric := true
		for _, row := range rows[1:] {
			if c >= len(row) || row[c] == "" || !sqlNumericRe.MatchString(row[c]) {
				allNumeric = false
				break
			}
		}
		if allNumeric {
			result[c] = true
		}
	}
	return result
}
