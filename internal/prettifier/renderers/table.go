// Package renderers holds the built-in ContentRenderer implementations: one
// per format detected by internal/prettifier/detectors, registered into a
// *prettifier.RendererRegistry by RegisterBuiltins.
package renderers

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// tableLine is one rendered line of a box-bordered table. SourceRow is the
// index into the original rows slice this line renders, or -1 for the
// header-rule separator line that has no corresponding source row.
type tableLine struct {
	Text      string
	SourceRow int
}

// alignedColumns renders rows of cells into a box-bordered table (│ column
// dividers, a ├─┼─┤ rule under the header row) using display width (not
// byte length), shared by the Markdown table, CSV, and SQL-results
// renderers. rightAlign marks columns (by index) that are right-aligned
// (padded on the left) instead, for numeric SQL columns.
func alignedColumns(rows [][]string, rightAlign map[int]bool) []tableLine {
	if len(rows) == 0 {
		return nil
	}

	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}

	widths := make([]int, cols)
	for _, r := range rows {
		for i, cell := range r {
			w := runewidth.StringWidth(cell)
			if w > widths[i] {
				widths[i] = w
			}
		}
	}

	out := make([]tableLine, 0, len(rows)+1)
	for ri, r := range rows {
		var sb strings.Builder
		sb.WriteString("│ ")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(r) {
				cell = r[i]
			}
			pad := widths[i] - runewidth.StringWidth(cell)
			if pad < 0 {
				pad = 0
			}
			if rightAlign != nil && rightAlign[i] {
				sb.WriteString(strings.Repeat(" ", pad))
				sb.WriteString(cell)
			} else {
				sb.WriteString(cell)
				sb.WriteString(strings.Repeat(" ", pad))
			}
			if i < cols-1 {
				sb.WriteString(" │ ")
			} else {
				sb.WriteString(" │")
			}
		}
		out = append(out, tableLine{Text: sb.String(), SourceRow: ri})
		if ri == 0 {
			out = append(out, tableLine{Text: headerRule(widths), SourceRow: -1})
		}
	}
	return out
}

// headerRule draws the ├───┼───┤ separator beneath the header row, column
// widths matching alignedColumns' padding exactly (width + the two spaces
// around each cell).
func headerRule(widths []int) string {
	var sb strings.Builder
	sb.WriteString("├")
	for i, w := range widths {
		sb.WriteString(strings.Repeat("─", w+2))
		if i < len(widths)-1 {
			sb.WriteString("┼")
		} else {
			sb.WriteString("┤")
		}
	}
	return sb.String()
}

// splitRespectingQuotes splits a delimited line on sep, honoring
// double-quoted fields that may themselves contain sep.
func splitRespectingQuotes(line string, sep rune) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == sep && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())
	return fields
}
