package prettifier_test

import (
	"strings"
	"testing"
	"time"

	"github.com/samsaffron/term-llm/internal/prettifier"
	"github.com/samsaffron/term-llm/internal/prettifier/agentsession"
	"github.com/samsaffron/term-llm/internal/prettifier/boundary"
	"github.com/samsaffron/term-llm/internal/prettifier/detectors"
	"github.com/samsaffron/term-llm/internal/prettifier/renderers"
)

func newFullRegistry() *prettifier.RendererRegistry {
	reg := prettifier.NewRendererRegistry(0.6)
	detectors.RegisterBuiltins(reg)
	renderers.RegisterBuiltins(reg)
	return reg
}

func newFullPipeline(scope boundary.DetectionScope) *prettifier.Pipeline {
	cfg := prettifier.DefaultPipelineConfig()
	cfg.DetectionScope = scope
	cfg.BlankLineThreshold = 2
	return prettifier.NewPipeline(cfg, newFullRegistry(), prettifier.RendererConfig{TerminalWidth: 100})
}

// 1. Markdown fenced: a fenced code block pushed line by line, followed by
// the blank-line threshold, installs exactly one markdown block at full
// confidence with the opening fence as its first rendered line.
func TestEndToEndMarkdownFenced(t *testing.T) {
	p := newFullPipeline(boundary.All)

	p.ProcessOutput("```", 0)
	p.ProcessOutput(`fn main() { println!("x"); }`, 1)
	p.ProcessOutput("```", 2)
	p.ProcessOutput("", 3)
	p.ProcessOutput("", 4)

	blocks := p.ActiveBlocks()
	if len(blocks) != 1 {
		t.Fatalf("expected exactly one active block, got %d", len(blocks))
	}
	ab := blocks[0]
	if ab.Detection.FormatID != "markdown" {
		t.Fatalf("expected format_id markdown, got %s", ab.Detection.FormatID)
	}
	if ab.Detection.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %v", ab.Detection.Confidence)
	}
	rendered := ab.Buffer.Rendered()
	if rendered == nil || len(rendered.Lines) == 0 {
		t.Fatalf("expected rendered output")
	}
	if !strings.Contains(rendered.Lines[0].Text(), "```") {
		t.Fatalf("expected the opening fence line to be the first rendered line, got %q", rendered.Lines[0].Text())
	}
}

// 2. JSON via cache: an identical ContentBlock submitted at two different
// rows should produce a cache hit the second time and equal rendered
// output both times.
func TestEndToEndJSONViaCache(t *testing.T) {
	p := newFullPipeline(boundary.ManualOnly)

	first := prettifier.NewContentBlock([]string{`{"a":1}`}, "", 0, time.Now())
	p.TriggerPrettify("json", first)

	second := prettifier.NewContentBlock([]string{`{"a":1}`}, "", 50, time.Now())
	p.TriggerPrettify("json", second)

	stats := p.RenderCacheStats()
	if stats.HitCount < 1 {
		t.Fatalf("expected at least one cache hit, got stats=%+v", stats)
	}

	blocks := p.ActiveBlocks()
	if len(blocks) != 2 {
		t.Fatalf("expected both blocks to remain active (non-overlapping rows), got %d", len(blocks))
	}
	a := blocks[0].Buffer.Rendered()
	b := blocks[1].Buffer.Rendered()
	if a == nil || b == nil {
		t.Fatalf("expected both blocks to carry rendered content")
	}
	if len(a.Lines) != len(b.Lines) {
		t.Fatalf("expected identical rendered line counts for identical source")
	}
	for i := range a.Lines {
		if a.Lines[i].Text() != b.Lines[i].Text() {
			t.Fatalf("expected identical rendered text at line %d, got %q vs %q", i, a.Lines[i].Text(), b.Lines[i].Text())
		}
	}
}

// 3. Diff word-level: added/removed lines differing by one word carry a
// highlighted background for the differing word on both sides.
func TestEndToEndDiffWordLevel(t *testing.T) {
	p := newFullPipeline(boundary.ManualOnly)

	block := prettifier.NewContentBlock([]string{
		"diff --git a/f b/f",
		"--- a/f",
		"+++ b/f",
		"@@ -1,1 +1,1 @@",
		"-the old word here",
		"+the new word here",
	}, "", 0, time.Now())
	p.TriggerPrettify("diff", block)

	blocks := p.ActiveBlocks()
	if len(blocks) != 1 {
		t.Fatalf("expected one active block, got %d", len(blocks))
	}
	rendered := blocks[0].Buffer.Rendered()
	if rendered == nil {
		t.Fatalf("expected rendered diff output")
	}

	var minusLine, plusLine *prettifier.StyledLine
	for i := range rendered.Lines {
		text := rendered.Lines[i].Text()
		if strings.Contains(text, "-the") && strings.Contains(text, "old") {
			minusLine = &rendered.Lines[i]
		}
		if strings.Contains(text, "+the") && strings.Contains(text, "new") {
			plusLine = &rendered.Lines[i]
		}
	}
	if minusLine == nil || plusLine == nil {
		t.Fatalf("expected both the removed and added lines in the rendered output")
	}

	findHighlighted := func(line *prettifier.StyledLine, word string) bool {
		for _, seg := range line.Segments {
			if strings.Contains(seg.Text, word) && seg.Bg != "" {
				return true
			}
		}
		return false
	}
	if !findHighlighted(minusLine, "old") {
		t.Fatalf("expected 'old' to carry a highlight background on the removed line")
	}
	if !findHighlighted(plusLine, "new") {
		t.Fatalf("expected 'new' to carry a highlight background on the added line")
	}
}

// 4. YAML ambiguity: a bare three-line block with only one matching rule
// produces no detection; adding a key: value line tips it over the
// min_matching_rules threshold and the pipeline installs a yaml block.
func TestEndToEndYAMLAmbiguity(t *testing.T) {
	registry := newFullRegistry()

	ambiguous := prettifier.NewContentBlock([]string{"---", "plain", "more plain"}, "", 0, time.Now())
	if detection := registry.Detect(&ambiguous); detection != nil {
		t.Fatalf("expected no detection for the ambiguous block, got %+v", detection)
	}

	p := prettifier.NewPipeline(prettifier.DefaultPipelineConfig(), registry, prettifier.RendererConfig{TerminalWidth: 100})
	p.ProcessOutput("name: value", 0)
	p.ProcessOutput("---", 1)
	p.ProcessOutput("plain", 2)
	p.ProcessOutput("more plain", 3)
	p.ProcessOutput("", 4)
	p.ProcessOutput("", 5)

	blocks := p.ActiveBlocks()
	if len(blocks) != 1 {
		t.Fatalf("expected an active block once a key: value line is present, got %d", len(blocks))
	}
	if blocks[0].Detection.FormatID != "yaml" {
		t.Fatalf("expected format_id yaml, got %s", blocks[0].Detection.FormatID)
	}
}

// 5. Suppress then submit: a suppressed row range blocks detection even
// for content that would otherwise match.
func TestEndToEndSuppressThenSubmit(t *testing.T) {
	p := newFullPipeline(boundary.All)

	p.SuppressDetection(prettifier.RowRange{Start: 10, End: 20})

	p.ProcessOutput("# Heading", 10)
	p.ProcessOutput("some paragraph text", 11)
	p.ProcessOutput("", 12)
	p.ProcessOutput("", 13)

	if len(p.ActiveBlocks()) != 0 {
		t.Fatalf("expected no active block inside a suppressed range, got %d", len(p.ActiveBlocks()))
	}
}

// 6. Agent session redraw: viewport A installs at least one block; a
// changed viewport B clears every block from A before installing its own,
// and segments with too few non-blank lines are skipped.
func TestEndToEndAgentSessionRedraw(t *testing.T) {
	cfg := prettifier.DefaultPipelineConfig()
	cfg.ForceAgentSession = true
	cfg.AgentSession = agentsession.DefaultConfig()
	cfg.AgentSession.MinSegmentLines = 5
	p := prettifier.NewPipeline(cfg, newFullRegistry(), prettifier.RendererConfig{TerminalWidth: 100})

	viewportA := []string{
		"⏺ First action",
		"# Heading One",
		"body line **one**",
		"body line two",
		"body line three",
		"body line four",
	}
	p.SubmitViewportFrame(viewportA, 0, 0)
	if len(p.ActiveBlocks()) == 0 {
		t.Fatalf("expected viewport A to install at least one block")
	}
	firstIDs := map[uint64]bool{}
	for _, ab := range p.ActiveBlocks() {
		firstIDs[ab.BlockID] = true
	}

	viewportB := []string{
		"⏺ Second action",
		"# Heading Two",
		"different body **one**",
		"different body two",
		"different body three",
		"different body four",
		"⏺ too short",
		"one line",
	}
	p.SubmitViewportFrame(viewportB, 0, 0)

	for _, ab := range p.ActiveBlocks() {
		if firstIDs[ab.BlockID] {
			t.Fatalf("expected every block from viewport A to have been cleared before viewport B's segments were installed")
		}
	}
	if len(p.ActiveBlocks()) == 0 {
		t.Fatalf("expected viewport B's long-enough segment to install a block")
	}
}
