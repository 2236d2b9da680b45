package renderers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	gotextdiff "github.com/shogoki/gotextdiff"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// DiffConfig mirrors prettifier.DiffRendererConfig.
type DiffConfig struct {
	Mode               string // "auto", "inline", "side_by_side"
	SideBySideMinWidth int
}

func defaultDiffConfig() DiffConfig {
	return DiffConfig{Mode: "auto", SideBySideMinWidth: 160}
}

const maxWordDiffTokens = 200
const gutterWidth = 10 // "%4s %4s "
const dividerWidth = 3 // " │ "
const minSideBySideHalfWidth = 10

// DiffRenderer colors a unified diff block (git diff / diff -u output) and
// highlights intra-line word changes between adjacent removed/added pairs,
// grounded on the teacher's line-prefix coloring in
// internal/ui/unified_diff.go. Word-level highlighting reuses gotextdiff by
// treating each word as its own "line" and diffing the two one-word-per-line
// documents — the same algorithm the teacher uses for whole files, applied
// at a finer grain.
type DiffRenderer struct{}

func NewDiffRenderer() *DiffRenderer { return &DiffRenderer{} }

func (r *DiffRenderer) FormatIDOf() string    { return "diff" }
func (r *DiffRenderer) DisplayNameOf() string { return "Diff" }
func (r *DiffRenderer) FormatBadge() string   { return "± Diff" }

func (r *DiffRenderer) Capabilities() []prettifier.RendererCapability {
	return []prettifier.RendererCapability{prettifier.CapabilityTextStyling}
}

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// diffRow is one logical row of a hunk body: either a context line (present
// on both sides with the same text) or a removed/added pair produced by
// positionally matching a run of "-" lines against the following run of "+"
// lines (unmatched positions leave the other side unset).
type diffRow struct {
	context          bool
	oldIdx, newIdx   int // index into block.Lines, -1 if this side is absent
	oldNum, newNum   int // 1-based line numbers, 0 if absent
	oldText, newText string
	oldSegs, newSegs []prettifier.StyledSegment // word-diff highlighted, set only for paired rows
}

func (r *DiffRenderer) Render(block *prettifier.ContentBlock, cfg prettifier.RendererConfig) (*prettifier.RenderedContent, *prettifier.RenderError) {
	dcfg := diffConfigFromExtra(cfg.Extra)
	mode := resolveDiffMode(dcfg, cfg.TerminalWidth)
	halfWidth := sideBySideHalfWidth(dcfg, cfg.TerminalWidth)

	rc := &prettifier.RenderedContent{FormatBadge: r.FormatBadge()}
	lines := block.Lines
	emit := func(segs []prettifier.StyledSegment, sourceLine int) {
		rc.Lines = append(rc.Lines, prettifier.StyledLine{Segments: segs})
		sl := sourceLine
		rc.LineMapping = append(rc.LineMapping, prettifier.SourceLineMapping{RenderedLine: len(rc.Lines) - 1, SourceLine: &sl})
	}

	i := 0
	for i < len(lines) {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, "diff --git "), strings.HasPrefix(line, "index "),
			strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "):
			emit([]prettifier.StyledSegment{{Text: line, Bold: true, Fg: "#928374"}}, i)
			i++

		case hunkHeaderRe.MatchString(line):
			m := hunkHeaderRe.FindStringSubmatch(line)
			oldLine, _ := strconv.Atoi(m[1])
			newLine, _ := strconv.Atoi(m[2])
			emit([]prettifier.StyledSegment{{Text: line, Fg: "#83a598"}}, i)
			i++

			var rows []diffRow
			rows, i = collectHunkRows(lines, i, oldLine, newLine)
			if mode == "side_by_side" {
				emitSideBySideRows(rows, halfWidth, emit)
			} else {
				emitInlineRows(rows, emit)
			}

		default:
			emit([]prettifier.StyledSegment{{Text: line, Fg: "#928374"}}, i)
			i++
		}
	}

	if !rc.Validate(block.LineCount()) {
		return nil, prettifier.NewRenderFailed("line mapping invariant violated")
	}
	return rc, nil
}

// collectHunkRows walks a hunk's body starting at lines[start], stopping at
// the next file/hunk header or end of input, and returns the body's rows
// plus the index where it stopped.
func collectHunkRows(lines []string, start, oldLine, newLine int) ([]diffRow, int) {
	var rows []diffRow
	i := start
	for i < len(lines) {
		line := lines[i]
		if hunkHeaderRe.MatchString(line) ||
			strings.HasPrefix(line, "diff --git ") || strings.HasPrefix(line, "index ") ||
			strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ ") {
			break
		}

		switch {
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			removedStart := i
			var removed []string
			for i < len(lines) && strings.HasPrefix(lines[i], "-") && !strings.HasPrefix(lines[i], "---") {
				removed = append(removed, strings.TrimPrefix(lines[i], "-"))
				i++
			}
			addedStart := i
			var added []string
			for i < len(lines) && strings.HasPrefix(lines[i], "+") && !strings.HasPrefix(lines[i], "+++") {
				added = append(added, strings.TrimPrefix(lines[i], "+"))
				i++
			}
			pairs := min(len(removed), len(added))
			rowCount := max(len(removed), len(added))
			for j := 0; j < rowCount; j++ {
				row := diffRow{oldIdx: -1, newIdx: -1}
				if j < len(removed) {
					row.oldIdx = removedStart + j
					row.oldNum = oldLine
					row.oldText = removed[j]
					oldLine++
				}
				if j < len(added) {
					row.newIdx = addedStart + j
					row.newNum = newLine
					row.newText = added[j]
					newLine++
				}
				if j < pairs {
					row.oldSegs, row.newSegs = wordDiff(row.oldText, row.newText)
				}
				rows = append(rows, row)
			}

		default:
			rows = append(rows, diffRow{
				context: true,
				oldIdx:  i, newIdx: i,
				oldNum: oldLine, newNum: newLine,
				oldText: line, newText: line,
			})
			oldLine++
			newLine++
			i++
		}
	}
	return rows, i
}

func emitInlineRows(rows []diffRow, emit func([]prettifier.StyledSegment, int)) {
	for _, row := range rows {
		if row.context {
			segs := []prettifier.StyledSegment{
				{Text: gutterText(row.oldNum, row.newNum), Fg: "#665c54"},
				{Text: row.oldText, Fg: "#928374"},
			}
			emit(segs, row.oldIdx)
			continue
		}
		if row.oldIdx >= 0 {
			content := row.oldSegs
			if content == nil {
				content = []prettifier.StyledSegment{{Text: row.oldText}}
			}
			segs := []prettifier.StyledSegment{{Text: gutterText(row.oldNum, 0), Fg: "#665c54"}}
			segs = append(segs, prefixSeg("-", "#fb4934", content)...)
			emit(segs, row.oldIdx)
		}
		if row.newIdx >= 0 {
			content := row.newSegs
			if content == nil {
				content = []prettifier.StyledSegment{{Text: row.newText}}
			}
			segs := []prettifier.StyledSegment{{Text: gutterText(0, row.newNum), Fg: "#665c54"}}
			segs = append(segs, prefixSeg("+", "#b8bb26", content)...)
			emit(segs, row.newIdx)
		}
	}
}

const sideBySideDivider = " │ "

func emitSideBySideRows(rows []diffRow, halfWidth int, emit func([]prettifier.StyledSegment, int)) {
	for _, row := range rows {
		srcLine := row.oldIdx
		if srcLine < 0 {
			srcLine = row.newIdx
		}

		var leftText, rightText, leftFg, rightFg string
		leftFg, rightFg = "#928374", "#928374"
		if row.context {
			leftText, rightText = row.oldText, row.newText
		} else {
			if row.oldIdx >= 0 {
				leftText, leftFg = "-"+row.oldText, "#fb4934"
			}
			if row.newIdx >= 0 {
				rightText, rightFg = "+"+row.newText, "#b8bb26"
			}
		}

		segs := []prettifier.StyledSegment{
			{Text: gutterText(row.oldNum, 0), Fg: "#665c54"},
			{Text: truncateCell(leftText, halfWidth), Fg: leftFg},
			{Text: sideBySideDivider, Fg: "#665c54"},
			{Text: gutterText(0, row.newNum), Fg: "#665c54"},
			{Text: truncateCell(rightText, halfWidth), Fg: rightFg},
		}
		emit(segs, srcLine)
	}
}

func resolveDiffMode(dcfg DiffConfig, terminalWidth int) string {
	switch dcfg.Mode {
	case "side_by_side":
		return "side_by_side"
	case "inline":
		return "inline"
	default:
		if terminalWidth >= dcfg.SideBySideMinWidth {
			return "side_by_side"
		}
		return "inline"
	}
}

func sideBySideHalfWidth(dcfg DiffConfig, terminalWidth int) int {
	tw := terminalWidth
	if tw <= 0 {
		tw = dcfg.SideBySideMinWidth
	}
	half := (tw-dividerWidth)/2 - gutterWidth
	if half < minSideBySideHalfWidth {
		half = minSideBySideHalfWidth
	}
	return half
}

func truncateCell(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w <= width {
		return s + strings.Repeat(" ", width-w)
	}
	return runewidth.Truncate(s, width, "")
}

func gutterText(oldLine, newLine int) string {
	oldStr, newStr := "", ""
	if oldLine > 0 {
		oldStr = strconv.Itoa(oldLine)
	}
	if newLine > 0 {
		newStr = strconv.Itoa(newLine)
	}
	return fmt.Sprintf("%4s %4s ", oldStr, newStr)
}

func prefixSeg(prefix, color string, segs []prettifier.StyledSegment) []prettifier.StyledSegment {
	return append([]prettifier.StyledSegment{{Text: prefix, Fg: color, Bold: true}}, segs...)
}

// wordDiff highlights the words that differ between an old and a new line,
// by diffing two synthetic one-word-per-line documents with gotextdiff.
// Falls back to unhighlighted segments above maxWordDiffTokens words.
func wordDiff(oldLine, newLine string) (oldSegs, newSegs []prettifier.StyledSegment) {
	oldWords := strings.Fields(oldLine)
	newWords := strings.Fields(newLine)
	if len(oldWords)+len(newWords) == 0 || len(oldWords)+len(newWords) > maxWordDiffTokens {
		return []prettifier.StyledSegment{{Text: oldLine}}, []prettifier.StyledSegment{{Text: newLine}}
	}

	diffBytes := gotextdiff.Diff("w", []byte(strings.Join(oldWords, "\n")+"\n"), "w", []byte(strings.Join(newWords, "\n")+"\n"))

	type op struct {
		kind byte
		word string
	}
	var ops []op
	for _, l := range strings.Split(string(diffBytes), "\n") {
		if l == "" || strings.HasPrefix(l, "diff ") || strings.HasPrefix(l, "---") ||
			strings.HasPrefix(l, "+++") || strings.HasPrefix(l, "@@") {
			continue
		}
		if len(l) < 1 {
			continue
		}
		ops = append(ops, op{kind: l[0], word: l[1:]})
	}
	if len(ops) == 0 {
		return []prettifier.StyledSegment{{Text: oldLine}}, []prettifier.StyledSegment{{Text: newLine}}
	}

	for _, o := range ops {
		switch o.kind {
		case ' ':
			oldSegs = append(oldSegs, prettifier.StyledSegment{Text: o.word + " "})
			newSegs = append(newSegs, prettifier.StyledSegment{Text: o.word + " "})
		case '-':
			oldSegs = append(oldSegs, prettifier.StyledSegment{Text: o.word + " ", Bg: "#632426"})
		case '+':
			newSegs = append(newSegs, prettifier.StyledSegment{Text: o.word + " ", Bg: "#3c4c27"})
		}
	}
	return oldSegs, newSegs
}

func diffConfigFromExtra(extra map[string]interface{}) DiffConfig {
	cfg := defaultDiffConfig()
	if extra == nil {
		return cfg
	}
	if v, ok := extra["diff_mode"].(string); ok && v != "" {
		cfg.Mode = v
	}
	if v, ok := extra["diff_side_by_side_min_width"].(int); ok {
		cfg.SideBySideMinWidth = v
	}
	return cfg
}
