package renderers

import (
	"regexp"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// XMLRenderer is a single-pass line classifier for XML/HTML-ish markup:
// declarations, tags, and attribute names get colored without a full
// parse/validate pass.
type XMLRenderer struct{}

func NewXMLRenderer() *XMLRenderer { return &XMLRenderer{} }

func (r *XMLRenderer) FormatIDOf() string    { return "xml" }
func (r *XMLRenderer) DisplayNameOf() string { return "XML" }
func (r *XMLRenderer) FormatBadge() string   { return "XML" }

func (r *XMLRenderer) Capabilities() []prettifier.RendererCapability {
	return []prettifier.RendererCapability{prettifier.CapabilityTextStyling}
}

var (
	xmlTagRe      = regexp.MustCompile(`</?[A-Za-z][\w:.-]*`)
	xmlAttrRe     = regexp.MustCompile(`([A-Za-z_:][\w:.-]*)(=)("[^"]*"|'[^']*')`)
	xmlDeclRe     = regexp.MustCompile(`^\s*<\?xml\b`)
	xmlDoctypeRe  = regexp.MustCompile(`(?i)^\s*<!DOCTYPE\b`)
	xmlCommentRe  = regexp.MustCompile(`^\s*<!--.*-->\s*$`)
)

func (r *XMLRenderer) Render(block *prettifier.ContentBlock, cfg prettifier.RendererConfig) (*prettifier.RenderedContent, *prettifier.RenderError) {
	rc := &prettifier.RenderedContent{FormatBadge: r.FormatBadge()}
	for i, line := range block.Lines {
		rc.Lines = append(rc.Lines, prettifier.StyledLine{Segments: classifyXMLLine(line)})
		sl := i
		rc.LineMapping = append(rc.LineMapping, prettifier.SourceLineMapping{RenderedLine: i, SourceLine: &sl})
	}
	return rc, nil
}

func classifyXMLLine(line string) []prettifier.StyledSegment {
	if xmlDeclRe.MatchString(line) || xmlDoctypeRe.MatchString(line) || xmlCommentRe.MatchString(line) {
		return []prettifier.StyledSegment{{Text: line, Fg: "#928374", Italic: true}}
	}

	tagLocs := xmlTagRe.FindAllStringIndex(line, -1)
	if len(tagLocs) == 0 {
		return []prettifier.StyledSegment{{Text: line}}
	}

	var segs []prettifier.StyledSegment
	pos := 0
	for _, loc := range tagLocs {
		if loc[0] > pos {
			segs = append(segs, prettifier.StyledSegment{Text: line[pos:loc[0]]})
		}
		// Find the matching '>' to bound the full tag, then colour
		// attribute names within it.
		closeIdx := indexFrom(line, '>', loc[1])
		end := loc[1]
		if closeIdx >= 0 {
			end = closeIdx + 1
		}
		tagText := line[loc[0]:end]
		segs = append(segs, renderXMLTag(tagText)...)
		pos = end
	}
	if pos < len(line) {
		segs = append(segs, prettifier.StyledSegment{Text: line[pos:]})
	}
	return segs
}

func renderXMLTag(tag string) []prettifier.StyledSegment {
	locs := xmlAttrRe.FindAllStringSubmatchIndex(tag, -1)
	if len(locs) == 0 {
		return []prettifier.StyledSegment{{Text: tag, Fg: "#83a598", Bold: true}}
	}
	var segs []prettifier.StyledSegment
	pos := 0
	for _, loc := range locs {
		if loc[0] > pos {
			segs = append(segs, prettifier.StyledSegment{Text: tag[pos:loc[0]], Fg: "#83a598", Bold: true})
		}
		segs = append(segs, prettifier.StyledSegment{Text: tag[loc[2]:loc[3]], Fg: "#fabd2f"})
		segs = append(segs, prettifier.StyledSegment{Text: tag[loc[4]:loc[5]]})
		segs = append(segs, prettifier.StyledSegment{Text: tag[loc[6]:loc[7]], Fg: "#b8bb26"})
		pos = loc[1]
	}
	if pos < len(tag) {
		segs = append(segs, prettifier.StyledSegment{Text: tag[pos:], Fg: "#83a598", Bold: true})
	}
	return segs
}

func indexFrom(s string, c byte, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}
