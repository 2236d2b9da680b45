package renderers

import (
	"regexp"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// TOMLRenderer is a single-pass line classifier for TOML: section headers,
// array-of-tables, key/value pairs, and comments.
type TOMLRenderer struct{}

func NewTOMLRenderer() *TOMLRenderer { return &TOMLRenderer{} }

func (r *TOMLRenderer) FormatIDOf() string    { return "toml" }
func (r *TOMLRenderer) DisplayNameOf() string { return "TOML" }
func (r *TOMLRenderer) FormatBadge() string   { return "TOML" }

func (r *TOMLRenderer) Capabilities() []prettifier.RendererCapability {
	return []prettifier.RendererCapability{prettifier.CapabilityTextStyling}
}

var (
	tomlArrayTableRe = regexp.MustCompile(`^\[\[[A-Za-z0-9_.-]+\]\]\s*$`)
	tomlSectionRe    = regexp.MustCompile(`^\[[A-Za-z0-9_.-]+\]\s*$`)
	tomlKeyValueRe   = regexp.MustCompile(`^([A-Za-z0-9_-]+)(\s*=\s*)(.*)$`)
	tomlCommentRe    = regexp.MustCompile(`^\s*#.*$`)
)

func (r *TOMLRenderer) Render(block *prettifier.ContentBlock, cfg prettifier.RendererConfig) (*prettifier.RenderedContent, *prettifier.RenderError) {
	rc := &prettifier.RenderedContent{FormatBadge: r.FormatBadge()}
	for i, line := range block.Lines {
		rc.Lines = append(rc.Lines, prettifier.StyledLine{Segments: classifyTOMLLine(line)})
		sl := i
		rc.LineMapping = append(rc.LineMapping, prettifier.SourceLineMapping{RenderedLine: i, SourceLine: &sl})
	}
	return rc, nil
}

func classifyTOMLLine(line string) []prettifier.StyledSegment {
	switch {
	case tomlArrayTableRe.MatchString(line), tomlSectionRe.MatchString(line):
		return []prettifier.StyledSegment{{Text: line, Fg: "#b8bb26", Bold: true}}
	case tomlCommentRe.MatchString(line):
		return []prettifier.StyledSegment{{Text: line, Fg: "#928374", Italic: true}}
	default:
		if m := tomlKeyValueRe.FindStringSubmatch(line); m != nil {
			return []prettifier.StyledSegment{
				{Text: m[1], Fg: "#83a598", Bold: true},
				{Text: m[2]},
				{Text: m[3]},
			}
		}
		return []prettifier.StyledSegment{{Text: line}}
	}
}
