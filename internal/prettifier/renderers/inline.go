package renderers

import (
	"regexp"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

var (
	inlineBoldRe   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	inlineItalicRe = regexp.MustCompile(`\*([^*]+)\*`)
	inlineCodeRe   = regexp.MustCompile("`([^`]+)`")
	inlineLinkRe   = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

type inlineSpan struct {
	start, end int
	seg        prettifier.StyledSegment
}

// tokenizeInline scans one line of Markdown-ish text for bold, italic,
// inline-code, and link spans and returns the line as styled segments. It
// is a line-local, non-AST tokenizer: good enough for the single-pass
// rendering this renderer does, and it mirrors the same patterns the
// Markdown detector's rules already match against.
func tokenizeInline(line string, linkStyle string) []prettifier.StyledSegment {
	var spans []inlineSpan

	collect := func(re *regexp.Regexp, build func(groups []string) prettifier.StyledSegment) {
		for _, loc := range re.FindAllStringSubmatchIndex(line, -1) {
			groups := make([]string, len(loc)/2)
			for i := range groups {
				if loc[2*i] < 0 {
					continue
				}
				groups[i] = line[loc[2*i]:loc[2*i+1]]
			}
			spans = append(spans, inlineSpan{start: loc[0], end: loc[1], seg: build(groups)})
		}
	}

	collect(inlineLinkRe, func(g []string) prettifier.StyledSegment {
		seg := prettifier.StyledSegment{Text: g[1], LinkURL: g[2]}
		if linkStyle == "underline_color" {
			seg.Underline = true
			seg.Fg = "#83a598"
		}
		return seg
	})
	collect(inlineBoldRe, func(g []string) prettifier.StyledSegment {
		return prettifier.StyledSegment{Text: g[1], Bold: true}
	})
	collect(inlineCodeRe, func(g []string) prettifier.StyledSegment {
		return prettifier.StyledSegment{Text: g[1], Fg: "#fabd2f"}
	})
	collect(inlineItalicRe, func(g []string) prettifier.StyledSegment {
		return prettifier.StyledSegment{Text: g[1], Italic: true}
	})

	if len(spans) == 0 {
		return []prettifier.StyledSegment{{Text: line}}
	}

	// Keep only non-overlapping spans, in collection order: links, then
	// bold, then inline code, then italic. A span overlapping one already
	// kept is dropped.
	var kept []inlineSpan
	for _, s := range spans {
		overlaps := false
		for _, k := range kept {
			if s.start < k.end && k.start < s.end {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, s)
		}
	}
	sortSpans(kept)

	var out []prettifier.StyledSegment
	pos := 0
	for _, s := range kept {
		if s.start > pos {
			out = append(out, prettifier.StyledSegment{Text: line[pos:s.start]})
		}
		out = append(out, s.seg)
		pos = s.end
	}
	if pos < len(line) {
		out = append(out, prettifier.StyledSegment{Text: line[pos:]})
	}
	return out
}

func sortSpans(spans []inlineSpan) {
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j-1].start > spans[j].start; j-- {
			spans[j-1], spans[j] = spans[j], spans[j-1]
		}
	}
}
