package prettifier

import (
	"strings"
	"testing"
	"time"

	"github.com/samsaffron/term-llm/internal/prettifier/agentsession"
	"github.com/samsaffron/term-llm/internal/prettifier/boundary"
)

// stubDetector matches any block whose first line contains want, always at
// full confidence.
type stubDetector struct {
	formatID string
	want     string
}

func (d *stubDetector) FormatIDOf() string { return d.formatID }
func (d *stubDetector) QuickMatch(firstLines []string) bool {
	return len(firstLines) > 0 && strings.Contains(firstLines[0], d.want)
}
func (d *stubDetector) Detect(block *ContentBlock) *DetectionResult {
	if len(block.Lines) == 0 || !strings.Contains(block.Lines[0], d.want) {
		return nil
	}
	return &DetectionResult{FormatID: d.formatID, Confidence: 1.0, Source: AutoDetected}
}

// stubRenderer renders each source line as-is, with a 1:1 line mapping.
type stubRenderer struct {
	formatID string
	calls    int
}

func (r *stubRenderer) FormatIDOf() string    { return r.formatID }
func (r *stubRenderer) DisplayNameOf() string { return r.formatID }
func (r *stubRenderer) FormatBadge() string   { return r.formatID }
func (r *stubRenderer) Capabilities() []RendererCapability {
	return []RendererCapability{CapabilityTextStyling}
}
func (r *stubRenderer) Render(block *ContentBlock, cfg RendererConfig) (*RenderedContent, *RenderError) {
	r.calls++
	rc := &RenderedContent{FormatBadge: r.formatID}
	for i, l := range block.Lines {
		rc.Lines = append(rc.Lines, PlainStyledLine(l))
		sl := i
		rc.LineMapping = append(rc.LineMapping, SourceLineMapping{RenderedLine: i, SourceLine: &sl})
	}
	return rc, nil
}

func newTestPipeline(scope boundary.DetectionScope) (*Pipeline, *stubRenderer) {
	registry := NewRendererRegistry(0.6)
	registry.RegisterDetector(100, &stubDetector{formatID: "stub", want: "STUB_MARKER"})
	renderer := &stubRenderer{formatID: "stub"}
	registry.RegisterRenderer("stub", renderer)

	cfg := DefaultPipelineConfig()
	cfg.DetectionScope = scope
	cfg.BlankLineThreshold = 1
	p := NewPipeline(cfg, registry, RendererConfig{TerminalWidth: 80})
	return p, renderer
}

func TestHandleBlockInstallsAndRendersMatchingBlock(t *testing.T) {
	p, renderer := newTestPipeline(boundary.All)

	p.ProcessOutput("STUB_MARKER", 0)
	p.ProcessOutput("body", 1)
	p.ProcessOutput("", 2)

	blocks := p.ActiveBlocks()
	if len(blocks) != 1 {
		t.Fatalf("expected exactly one active block, got %d", len(blocks))
	}
	if renderer.calls != 1 {
		t.Fatalf("expected renderer invoked once, got %d", renderer.calls)
	}
	if blocks[0].Buffer.Rendered() == nil {
		t.Fatalf("expected the block to carry rendered content")
	}
}

func TestOverlappingBlockReplacesThePrevious(t *testing.T) {
	p, _ := newTestPipeline(boundary.ManualOnly)

	first := NewContentBlock([]string{"STUB_MARKER", "old"}, "", 0, time.Now())
	p.handleBlock(first)
	if len(p.ActiveBlocks()) != 1 {
		t.Fatalf("expected 1 active block after first install")
	}
	firstID := p.ActiveBlocks()[0].BlockID

	second := NewContentBlock([]string{"STUB_MARKER", "new"}, "", 0, time.Now())
	p.handleBlock(second)

	blocks := p.ActiveBlocks()
	if len(blocks) != 1 {
		t.Fatalf("expected the overlapping block to replace rather than stack, got %d", len(blocks))
	}
	if blocks[0].BlockID == firstID {
		t.Fatalf("expected a new block id for the replacement")
	}
}

func TestIdenticalContentInSameRangeIsDeduped(t *testing.T) {
	p, renderer := newTestPipeline(boundary.ManualOnly)

	block := NewContentBlock([]string{"STUB_MARKER", "same"}, "", 0, time.Now())
	p.handleBlock(block)
	p.handleBlock(block)

	if renderer.calls != 1 {
		t.Fatalf("expected the renderer to run once for deduped identical content, got %d calls", renderer.calls)
	}
}

func TestSuppressedRangeBlocksDetection(t *testing.T) {
	p, renderer := newTestPipeline(boundary.ManualOnly)

	p.SuppressDetection(RowRange{Start: 0, End: 2})
	block := NewContentBlock([]string{"STUB_MARKER", "body"}, "", 0, time.Now())
	p.handleBlock(block)

	if len(p.ActiveBlocks()) != 0 {
		t.Fatalf("expected no block installed inside a suppressed range")
	}
	if renderer.calls != 0 {
		t.Fatalf("expected the renderer never to run for suppressed content")
	}
}

func TestToggleBlockFlipsViewMode(t *testing.T) {
	p, _ := newTestPipeline(boundary.ManualOnly)
	block := NewContentBlock([]string{"STUB_MARKER", "body"}, "", 0, time.Now())
	p.handleBlock(block)

	id := p.ActiveBlocks()[0].BlockID
	if p.ActiveBlocks()[0].Buffer.ViewMode() != ViewRendered {
		t.Fatalf("expected default view mode to be rendered")
	}
	p.ToggleBlock(id)
	if p.ActiveBlocks()[0].Buffer.ViewMode() != ViewSource {
		t.Fatalf("expected toggle to switch to source view")
	}
}

func TestToggleGlobalDisablesProcessing(t *testing.T) {
	p, renderer := newTestPipeline(boundary.All)
	p.ToggleGlobal()

	p.ProcessOutput("STUB_MARKER", 0)
	p.ProcessOutput("", 1)

	if renderer.calls != 0 {
		t.Fatalf("expected no processing while globally disabled")
	}
}

func TestSubmitViewportFrameThrottlesOutsideAgentSession(t *testing.T) {
	p, renderer := newTestPipeline(boundary.ManualOnly)
	p.config.PrettifyThrottleMs = 0

	rows := []string{"STUB_MARKER", "body"}
	p.SubmitViewportFrame(rows, 0, 0)
	if renderer.calls != 1 {
		t.Fatalf("expected first submission to render once, got %d", renderer.calls)
	}

	p.SubmitViewportFrame(rows, 0, 0)
	if renderer.calls != 1 {
		t.Fatalf("expected identical repeated viewport to be skipped by hash dedup, got %d calls", renderer.calls)
	}
}

func TestSubmitViewportFrameSegmentsWhenAgentSessionActive(t *testing.T) {
	cfg := DefaultPipelineConfig()
	cfg.ForceAgentSession = true
	cfg.AgentSession.MinSegmentLines = 1
	registry := NewRendererRegistry(0.6)
	registry.RegisterDetector(100, &stubDetector{formatID: "stub", want: "STUB_MARKER"})
	renderer := &stubRenderer{formatID: "stub"}
	registry.RegisterRenderer("stub", renderer)
	p := NewPipeline(cfg, registry, RendererConfig{TerminalWidth: 80})

	if !p.AgentSessionActive() {
		t.Fatalf("expected ForceAgentSession to activate the integration")
	}

	rows := []string{"⏺ doing an unrelated thing", "⏺ STUB_MARKER found here", "body"}
	p.SubmitViewportFrame(rows, 0, 0)

	blocks := p.ActiveBlocks()
	if len(blocks) != 1 {
		t.Fatalf("expected one block installed from the segment containing STUB_MARKER, got %d", len(blocks))
	}
	if len(blocks[0].Buffer.Source().Lines) != 2 {
		t.Fatalf("expected the matching block to contain only its own segment's lines, got %v", blocks[0].Buffer.Source().Lines)
	}
}

func TestSubmitViewportFrameClearsBlocksOnRedraw(t *testing.T) {
	cfg := DefaultPipelineConfig()
	cfg.ForceAgentSession = true
	cfg.AgentSession.MinSegmentLines = 1
	registry := NewRendererRegistry(0.6)
	registry.RegisterDetector(100, &stubDetector{formatID: "stub", want: "STUB_MARKER"})
	renderer := &stubRenderer{formatID: "stub"}
	registry.RegisterRenderer("stub", renderer)
	p := NewPipeline(cfg, registry, RendererConfig{TerminalWidth: 80})

	p.SubmitViewportFrame([]string{"STUB_MARKER", "v1"}, 0, 0)
	if len(p.ActiveBlocks()) != 1 {
		t.Fatalf("expected one block after first frame")
	}
	firstID := p.ActiveBlocks()[0].BlockID

	// A changed viewport (simulating a redrawn screen) should drop the
	// stale block and install a fresh one from the new content.
	p.SubmitViewportFrame([]string{"STUB_MARKER", "v2"}, 0, 0)
	blocks := p.ActiveBlocks()
	if len(blocks) != 1 {
		t.Fatalf("expected exactly one block after the redraw, got %d", len(blocks))
	}
	if blocks[0].BlockID == firstID {
		t.Fatalf("expected a fresh block id after the redraw cleared stale blocks")
	}
}

func TestExpandAndCollapseAgentBlockRoundTrip(t *testing.T) {
	p, _ := newTestPipeline(boundary.ManualOnly)
	p.agentSession = agentsession.NewIntegration(agentsession.DefaultConfig())
	p.agentSession.ForceActive()

	ev := p.agentSession.ProcessLine("result (ctrl+o to expand)", 3)
	blockID, ok := p.agentSession.BlockIDAtRow(3)
	if !ok || ev.Kind != agentsession.EventContentCollapsed {
		t.Fatalf("expected a collapse event tracked at row 3")
	}

	if !p.ExpandAgentBlock(blockID, 3, 4) {
		t.Fatalf("expected expand to succeed")
	}
	if p.IsSuppressed(RowRange{Start: 3, End: 4}) {
		t.Fatalf("expected expanding to lift suppression")
	}

	if !p.CollapseAgentBlock(blockID, 3, 4) {
		t.Fatalf("expected collapse to succeed")
	}
	if !p.IsSuppressed(RowRange{Start: 3, End: 4}) {
		t.Fatalf("expected collapsing to suppress the row range again")
	}
}
