package renderers

import (
	"regexp"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// YAMLRenderer is a single-pass line classifier, not a full YAML parser —
// it colors document markers, keys, list bullets, and comments without
// attempting to validate or reflow the document, matching the spec's
// "classify, don't parse" requirement for the non-Markdown structured
// formats.
type YAMLRenderer struct{}

func NewYAMLRenderer() *YAMLRenderer { return &YAMLRenderer{} }

func (r *YAMLRenderer) FormatIDOf() string    { return "yaml" }
func (r *YAMLRenderer) DisplayNameOf() string { return "YAML" }
func (r *YAMLRenderer) FormatBadge() string   { return "YAML" }

func (r *YAMLRenderer) Capabilities() []prettifier.RendererCapability {
	return []prettifier.RendererCapability{prettifier.CapabilityTextStyling}
}

var (
	yamlDocMarkerRe = regexp.MustCompile(`^(---|\.\.\.)\s*$`)
	yamlKeyRe       = regexp.MustCompile(`^(\s*)([A-Za-z_][A-Za-z0-9_-]*)(:)(\s.*|)$`)
	yamlListRe      = regexp.MustCompile(`^(\s*)(-)(\s+)(.*)$`)
	yamlCommentRe   = regexp.MustCompile(`^(\s*)(#.*)$`)
)

func (r *YAMLRenderer) Render(block *prettifier.ContentBlock, cfg prettifier.RendererConfig) (*prettifier.RenderedContent, *prettifier.RenderError) {
	rc := &prettifier.RenderedContent{FormatBadge: r.FormatBadge()}
	for i, line := range block.Lines {
		segs := classifyYAMLLine(line)
		rc.Lines = append(rc.Lines, prettifier.StyledLine{Segments: segs})
		sl := i
		rc.LineMapping = append(rc.LineMapping, prettifier.SourceLineMapping{RenderedLine: i, SourceLine: &sl})
	}
	return rc, nil
}

func classifyYAMLLine(line string) []prettifier.StyledSegment {
	switch {
	case yamlDocMarkerRe.MatchString(line):
		return []prettifier.StyledSegment{{Text: line, Fg: "#928374", Bold: true}}
	case yamlCommentRe.MatchString(line):
		return []prettifier.StyledSegment{{Text: line, Fg: "#928374", Italic: true}}
	case yamlListRe.MatchString(line):
		m := yamlListRe.FindStringSubmatch(line)
		segs := []prettifier.StyledSegment{
			{Text: m[1] + m[2] + m[3]},
			{Text: m[4]},
		}
		if kv := yamlKeyRe.FindStringSubmatch(m[4]); kv != nil {
			segs = []prettifier.StyledSegment{
				{Text: m[1] + m[2] + m[3]},
				{Text: kv[2], Fg: "#83a598", Bold: true},
				{Text: kv[3] + kv[4]},
			}
		}
		return segs
	case yamlKeyRe.MatchString(line):
		m := yamlKeyRe.FindStringSubmatch(line)
		return []prettifier.StyledSegment{
			{Text: m[1]},
			{Text: m[2], Fg: "#83a598", Bold: true},
			{Text: m[3] + m[4]},
		}
	default:
		return []prettifier.StyledSegment{{Text: line}}
	}
}
