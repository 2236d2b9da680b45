package prettifier

import "testing"

// fakeTerminal is a minimal in-memory Terminal for exercising FrameGather
// without a real PTY.
type fakeTerminal struct {
	lines      []TerminalLine
	events     []ShellEvent
	generation uint64
	altScreen  bool
	snapshotOK bool
}

func newFakeTerminal() *fakeTerminal {
	return &fakeTerminal{snapshotOK: true, generation: 1}
}

func (f *fakeTerminal) Snapshot() (Snapshot, bool) {
	return Snapshot{AltScreen: f.altScreen, Rows: len(f.lines)}, f.snapshotOK
}

func (f *fakeTerminal) DrainShellIntegrationEvents() []ShellEvent {
	events := f.events
	f.events = nil
	return events
}

func (f *fakeTerminal) LinesTextRange(startRow, endRow int) []TerminalLine {
	var out []TerminalLine
	for _, l := range f.lines {
		if l.AbsoluteRow >= startRow && l.AbsoluteRow < endRow {
			out = append(out, l)
		}
	}
	return out
}

func (f *fakeTerminal) UpdateGeneration() uint64 {
	return f.generation
}

func TestFrameGatherReturnsNilOnSnapshotLockMiss(t *testing.T) {
	p, _ := newTestPipeline3(t)
	term := newFakeTerminal()
	term.snapshotOK = false
	fg := NewFrameGather(p, term)

	if overlays := fg.Gather(0, 10); overlays != nil {
		t.Fatalf("expected nil overlays on a snapshot-lock miss, got %+v", overlays)
	}
}

func TestFrameGatherProcessesNewGenerationOnce(t *testing.T) {
	p, renderer := newTestPipeline3(t)
	term := newFakeTerminal()
	term.lines = []TerminalLine{
		{Text: "STUB_MARKER", AbsoluteRow: 0},
		{Text: "body", AbsoluteRow: 1},
		{Text: "", AbsoluteRow: 2},
	}
	fg := NewFrameGather(p, term)

	fg.Gather(0, 3)
	if renderer.calls != 1 {
		t.Fatalf("expected the renderer to run once after the first generation, got %d", renderer.calls)
	}

	// Same generation again: ProcessOutput must not replay the lines.
	fg.Gather(0, 3)
	if len(p.ActiveBlocks()) != 1 {
		t.Fatalf("expected still exactly one active block on a repeated generation, got %d", len(p.ActiveBlocks()))
	}
}

func TestFrameGatherSkipsAltScreenWhenRespected(t *testing.T) {
	p, renderer := newTestPipeline3(t)
	term := newFakeTerminal()
	term.altScreen = true
	term.lines = []TerminalLine{
		{Text: "STUB_MARKER", AbsoluteRow: 0},
		{Text: "", AbsoluteRow: 1},
	}
	fg := NewFrameGather(p, term)

	fg.Gather(0, 2)
	if renderer.calls != 0 {
		t.Fatalf("expected alt-screen content to be skipped, got %d renderer calls", renderer.calls)
	}
}

func TestFrameGatherCellRenderDirtyTracksInstalledCount(t *testing.T) {
	p, _ := newTestPipeline3(t)
	term := newFakeTerminal()
	fg := NewFrameGather(p, term)

	fg.Gather(0, 0)
	if fg.CellRenderDirty() {
		t.Fatalf("expected clean on the first empty frame")
	}

	term.generation = 2
	term.lines = []TerminalLine{
		{Text: "STUB_MARKER", AbsoluteRow: 0},
		{Text: "", AbsoluteRow: 1},
	}
	fg.Gather(0, 2)
	if !fg.CellRenderDirty() {
		t.Fatalf("expected dirty after a block was installed")
	}

	fg.Gather(0, 2)
	if fg.CellRenderDirty() {
		t.Fatalf("expected clean once the installed count stabilizes")
	}
}

func TestFrameGatherCommandEventsForwardToPipeline(t *testing.T) {
	p, renderer := newTestPipeline3(t)
	term := newFakeTerminal()
	term.events = []ShellEvent{{Kind: CommandStart, Command: "run-thing"}}
	fg := NewFrameGather(p, term)
	fg.Gather(0, 0)

	term.events = []ShellEvent{{Kind: CommandFinished}}
	term.lines = nil
	fg.Gather(0, 0)

	// No output lines were ever pushed, so command-end should yield nothing
	// to render.
	if renderer.calls != 0 {
		t.Fatalf("expected no renders without any pushed output lines, got %d", renderer.calls)
	}
}

// newTestPipeline3 builds a Pipeline wired to a stub detector/renderer
// pair over boundary.All scope, matching the live FrameGather call path.
func newTestPipeline3(t *testing.T) (*Pipeline, *stubRenderer) {
	t.Helper()
	registry := NewRendererRegistry(0.6)
	registry.RegisterDetector(100, &stubDetector{formatID: "stub", want: "STUB_MARKER"})
	renderer := &stubRenderer{formatID: "stub"}
	registry.RegisterRenderer("stub", renderer)

	cfg := DefaultPipelineConfig()
	cfg.BlankLineThreshold = 1
	p := NewPipeline(cfg, registry, RendererConfig{TerminalWidth: 80})
	return p, renderer
}
