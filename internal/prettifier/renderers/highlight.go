package renderers

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// syntaxHighlighter tokenises source lines with chroma and emits structured
// StyledSegments instead of raw ANSI, so the host compositor (not chroma)
// owns the final escape sequences.
type syntaxHighlighter struct {
	lexer chroma.Lexer
	style *chroma.Style
}

// newSyntaxHighlighter resolves a lexer by language/alias name. Returns nil
// when the language is unrecognized, in which case callers fall back to
// plain unstyled segments.
func newSyntaxHighlighter(language string) *syntaxHighlighter {
	if language == "" {
		return nil
	}
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Match("file." + language)
	}
	if lexer == nil {
		return nil
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	return &syntaxHighlighter{lexer: lexer, style: style}
}

// HighlightLine tokenises one line and returns it as styled segments. On
// any tokeniser error the line is returned as a single unstyled segment.
func (h *syntaxHighlighter) HighlightLine(line string) []prettifier.StyledSegment {
	if h == nil {
		return []prettifier.StyledSegment{{Text: line}}
	}

	iterator, err := h.lexer.Tokenise(nil, line)
	if err != nil {
		return []prettifier.StyledSegment{{Text: line}}
	}

	var segs []prettifier.StyledSegment
	for token := iterator(); token != chroma.EOF; token = iterator() {
		value := strings.TrimRight(token.Value, "\n")
		if value == "" {
			continue
		}
		entry := h.style.Get(token.Type)
		seg := prettifier.StyledSegment{Text: value}
		if entry.Colour.IsSet() {
			seg.Fg = entry.Colour.String()
		}
		seg.Bold = entry.Bold == chroma.Yes
		seg.Italic = entry.Italic == chroma.Yes
		seg.Underline = entry.Underline == chroma.Yes
		segs = append(segs, seg)
	}
	if len(segs) == 0 {
		return []prettifier.StyledSegment{{Text: line}}
	}
	return segs
}
