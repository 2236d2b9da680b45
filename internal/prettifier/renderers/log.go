package renderers

import (
	"regexp"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// LogRenderer colors timestamps and level tokens in application log lines.
// Single-line JSON log entries (logrus/zerolog style) have their keys
// colored in place; they are not reordered or restructured.
type LogRenderer struct{}

func NewLogRenderer() *LogRenderer { return &LogRenderer{} }

func (r *LogRenderer) FormatIDOf() string    { return "log" }
func (r *LogRenderer) DisplayNameOf() string { return "Log" }
func (r *LogRenderer) FormatBadge() string   { return "Log" }

func (r *LogRenderer) Capabilities() []prettifier.RendererCapability {
	return []prettifier.RendererCapability{prettifier.CapabilityTextStyling}
}

var (
	logTimestampRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:?\d{2})?`)
	logLevelRe     = regexp.MustCompile(`\b(DEBUG|INFO|WARN|WARNING|ERROR|FATAL|TRACE)\b`)
	logJSONLineRe  = regexp.MustCompile(`^\s*\{.*\}\s*$`)
)

func levelColor(level string) string {
	switch level {
	case "ERROR", "FATAL":
		return "#fb4934"
	case "WARN", "WARNING":
		return "#fabd2f"
	case "DEBUG", "TRACE":
		return "#928374"
	default:
		return "#83a598"
	}
}

func (r *LogRenderer) Render(block *prettifier.ContentBlock, cfg prettifier.RendererConfig) (*prettifier.RenderedContent, *prettifier.RenderError) {
	rc := &prettifier.RenderedContent{FormatBadge: r.FormatBadge()}
	for i, line := range block.Lines {
		rc.Lines = append(rc.Lines, prettifier.StyledLine{Segments: classifyLogLine(line)})
		sl := i
		rc.LineMapping = append(rc.LineMapping, prettifier.SourceLineMapping{RenderedLine: i, SourceLine: &sl})
	}
	return rc, nil
}

var logJSONKeyRe = regexp.MustCompile(`"([^"]+)"\s*:`)

func classifyLogLine(line string) []prettifier.StyledSegment {
	if logJSONLineRe.MatchString(line) {
		return classifyJSONLogLine(line)
	}

	var segs []prettifier.StyledSegment
	pos := 0

	if loc := logTimestampRe.FindStringIndex(line); loc != nil && loc[0] == 0 {
		segs = append(segs, prettifier.StyledSegment{Text: line[:loc[1]], Fg: "#928374"})
		pos = loc[1]
	}

	rest := line[pos:]
	if loc := logLevelRe.FindStringIndex(rest); loc != nil {
		level := rest[loc[0]:loc[1]]
		if loc[0] > 0 {
			segs = append(segs, prettifier.StyledSegment{Text: rest[:loc[0]]})
		}
		segs = append(segs, prettifier.StyledSegment{Text: level, Fg: levelColor(level), Bold: true})
		segs = append(segs, prettifier.StyledSegment{Text: rest[loc[1]:]})
		return segs
	}

	segs = append(segs, prettifier.StyledSegment{Text: rest})
	return segs
}

// classifyJSONLogLine highlights "key": tokens in a single-line JSON log
// entry (logrus/zerolog style) without fully re-parsing it as a structured
// document the way the json renderer does for multi-line blocks.
func classifyJSONLogLine(line string) []prettifier.StyledSegment {
	locs := logJSONKeyRe.FindAllStringSubmatchIndex(line, -1)
	if len(locs) == 0 {
		return []prettifier.StyledSegment{{Text: line}}
	}
	var segs []prettifier.StyledSegment
	pos := 0
	for _, loc := range locs {
		if loc[0] > pos {
			segs = append(segs, prettifier.StyledSegment{Text: line[pos:loc[0]]})
		}
		segs = append(segs, prettifier.StyledSegment{Text: line[loc[0]:loc[1]-1], Fg: "#83a598", Bold: true})
		segs = append(segs, prettifier.StyledSegment{Text: ":"})
		pos = loc[1]
	}
	if pos < len(line) {
		segs = append(segs, prettifier.StyledSegment{Text: line[pos:]})
	}
	return segs
}
