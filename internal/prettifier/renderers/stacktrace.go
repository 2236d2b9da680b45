package renderers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// StackTraceConfig mirrors prettifier.StackTraceRendererConfig.
type StackTraceConfig struct {
	ApplicationPackages []string
	MaxVisibleFrames    int
	KeepTailFrames      int
}

func defaultStackTraceConfig() StackTraceConfig {
	return StackTraceConfig{MaxVisibleFrames: 12, KeepTailFrames: 2}
}

// StackTraceRenderer classifies each frame as application or framework
// code, turns file references into clickable file:// links, and collapses
// long traces to the configured visible-frame budget while always keeping
// the first and last few frames.
type StackTraceRenderer struct{}

func NewStackTraceRenderer() *StackTraceRenderer { return &StackTraceRenderer{} }

func (r *StackTraceRenderer) FormatIDOf() string    { return "stacktrace" }
func (r *StackTraceRenderer) DisplayNameOf() string { return "Stack Trace" }
func (r *StackTraceRenderer) FormatBadge() string   { return "⚠ Stack Trace" }

func (r *StackTraceRenderer) Capabilities() []prettifier.RendererCapability {
	return []prettifier.RendererCapability{prettifier.CapabilityTextStyling}
}

var (
	javaFrameRe  = regexp.MustCompile(`^(\s*at\s+)([\w$.]+)\(([\w.]*):?(\d*)\)\s*$`)
	pyFrameRe    = regexp.MustCompile(`^(\s*File\s+")([^"]+)(",\s+line\s+)(\d+)(,\s+in\s+\S+)`)
	jsFrameRe    = regexp.MustCompile(`^(\s*at\s+.+\s+\()([^():]+):(\d+):(\d+)(\)\s*)$`)
	goPanicRe    = regexp.MustCompile(`^goroutine \d+ \[.*\]:`)
	goFrameFile  = regexp.MustCompile(`^\s*([^\s]+\.go):(\d+)`)
	headerLineRe = regexp.MustCompile(`(?i)^(Traceback|thread .* panicked at|[\w.]*(Error|Exception):)`)
)

func (r *StackTraceRenderer) Render(block *prettifier.ContentBlock, cfg prettifier.RendererConfig) (*prettifier.RenderedContent, *prettifier.RenderError) {
	stCfg := stackTraceConfigFromExtra(cfg.Extra)

	type frame struct {
		lineIdx int
		segs    []prettifier.StyledSegment
		isFrame bool
	}
	var frames []frame
	for i, line := range block.Lines {
		if headerLineRe.MatchString(line) || goPanicRe.MatchString(line) {
			frames = append(frames, frame{lineIdx: i, segs: []prettifier.StyledSegment{{Text: line, Bold: true, Fg: "#fb4934"}}})
			continue
		}
		segs, isFrame := classifyStackFrame(line, stCfg.ApplicationPackages)
		frames = append(frames, frame{lineIdx: i, segs: segs, isFrame: isFrame})
	}

	frameCount := 0
	for _, f := range frames {
		if f.isFrame {
			frameCount++
		}
	}

	rc := &prettifier.RenderedContent{FormatBadge: r.FormatBadge()}
	visible := 0
	skippedEmitted := false
	totalFrames := frameCount
	for _, f := range frames {
		if f.isFrame {
			remaining := totalFrames - visible
			if stCfg.MaxVisibleFrames > 0 && visible >= stCfg.MaxVisibleFrames-stCfg.KeepTailFrames && remaining > stCfg.KeepTailFrames {
				if !skippedEmitted {
					n := remaining - stCfg.KeepTailFrames
					rc.Lines = append(rc.Lines, prettifier.StyledLine{Segments: []prettifier.StyledSegment{
						{Text: fmt.Sprintf("... %d more frames ...", n), Fg: "#928374", Italic: true},
					}})
					rc.LineMapping = append(rc.LineMapping, prettifier.SourceLineMapping{RenderedLine: len(rc.Lines) - 1})
					skippedEmitted = true
				}
				visible++
				continue
			}
			visible++
		}
		rc.Lines = append(rc.Lines, prettifier.StyledLine{Segments: f.segs})
		sl := f.lineIdx
		rc.LineMapping = append(rc.LineMapping, prettifier.SourceLineMapping{RenderedLine: len(rc.Lines) - 1, SourceLine: &sl})
	}
	return rc, nil
}

func classifyStackFrame(line string, appPackages []string) ([]prettifier.StyledSegment, bool) {
	isApp := func(pkg string) bool {
		for _, p := range appPackages {
			if p != "" && strings.Contains(pkg, p) {
				return true
			}
		}
		return false
	}

	if m := javaFrameRe.FindStringSubmatch(line); m != nil {
		color := "#928374"
		if isApp(m[2]) {
			color = "#b8bb26"
		}
		link := ""
		if m[3] != "" && m[4] != "" {
			link = "file://" + m[3] + "#L" + m[4]
		}
		return []prettifier.StyledSegment{
			{Text: m[1]},
			{Text: m[2], Fg: color},
			{Text: "(" + m[3] + ":" + m[4] + ")", LinkURL: link, Fg: "#83a598"},
		}, true
	}
	if m := pyFrameRe.FindStringSubmatch(line); m != nil {
		link := "file://" + m[2] + "#L" + m[4]
		color := "#928374"
		if isApp(m[2]) {
			color = "#b8bb26"
		}
		rest := line[len(m[0]):]
		return []prettifier.StyledSegment{
			{Text: m[1]},
			{Text: m[2], Fg: color, LinkURL: link},
			{Text: m[3] + m[4] + m[5] + rest},
		}, true
	}
	if m := jsFrameRe.FindStringSubmatch(line); m != nil {
		link := "file://" + m[2] + "#L" + m[3]
		color := "#928374"
		if isApp(m[2]) {
			color = "#b8bb26"
		}
		return []prettifier.StyledSegment{
			{Text: m[1]},
			{Text: m[2] + ":" + m[3] + ":" + m[4], Fg: color, LinkURL: link},
			{Text: m[5]},
		}, true
	}
	if m := goFrameFile.FindStringSubmatch(line); m != nil {
		link := "file://" + m[1] + "#L" + m[2]
		color := "#928374"
		if isApp(m[1]) {
			color = "#b8bb26"
		}
		return []prettifier.StyledSegment{
			{Text: m[1] + ":" + m[2], Fg: color, LinkURL: link},
			{Text: line[len(m[0]):]},
		}, true
	}
	return []prettifier.StyledSegment{{Text: line}}, false
}

func stackTraceConfigFromExtra(extra map[string]interface{}) StackTraceConfig {
	cfg := defaultStackTraceConfig()
	if extra == nil {
		return cfg
	}
	if v, ok := extra["stacktrace_application_packages"].([]string); ok {
		cfg.ApplicationPackages = v
	}
	if v, ok := extra["stacktrace_max_visible_frames"].(int); ok {
		cfg.MaxVisibleFrames = v
	}
	if v, ok := extra["stacktrace_keep_tail_frames"].(int); ok {
		cfg.KeepTailFrames = v
	}
	return cfg
}
