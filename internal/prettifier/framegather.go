package prettifier

// ShellEventKind enumerates shell-integration marker kinds drained from
// the terminal once per frame.
type ShellEventKind int

const (
	PromptStart ShellEventKind = iota
	CommandStart
	CommandExecuted
	CommandFinished
)

// ShellEvent is one shell-integration marker observed by the terminal.
type ShellEvent struct {
	Kind       ShellEventKind
	Command    string
	ExitCode   int
	HasExit    bool
	AbsoluteRow int
}

// TerminalLine is one line of scrollback/viewport text at an absolute row.
type TerminalLine struct {
	Text        string
	AbsoluteRow int
}

// Snapshot is the terminal collaborator's per-frame state, acquired under
// a non-blocking lock by the host.
type Snapshot struct {
	ScrollbackLen   int
	CursorCol       int
	CursorRow       int
	AltScreen       bool
	Title           string
	Cols            int
	Rows            int
	IsCursorVisible bool
}

// Terminal is the contract the prettifier consumes from its terminal
// collaborator (§6). Implemented by the host render loop; out of scope
// for this module beyond the interface itself.
type Terminal interface {
	Snapshot() (Snapshot, bool) // ok=false on a non-blocking lock miss
	DrainShellIntegrationEvents() []ShellEvent
	LinesTextRange(startRow, endRow int) []TerminalLine
	UpdateGeneration() uint64
}

// FrameGather is the per-frame entry point called by the render loop; it
// mediates between the pipeline and a Terminal snapshot.
type FrameGather struct {
	pipeline           *Pipeline
	terminal           Terminal
	lastGeneration     uint64
	lastInstalledCount int
	cellRenderDirty    bool
}

// NewFrameGather wires a pipeline to a terminal collaborator.
func NewFrameGather(pipeline *Pipeline, terminal Terminal) *FrameGather {
	return &FrameGather{pipeline: pipeline, terminal: terminal}
}

// CellOverlay is one substitution the host should apply to its cell grid:
// the rendered lines for one active block, to be painted over the rows
// the block occupies in the current viewport.
type CellOverlay struct {
	BlockID  uint64
	RowStart int
	Lines    []StyledLine
	Graphics []InlineGraphic
}

// Gather runs one frame's worth of work: acquire the snapshot, drain
// shell-integration events, forward new output, and composite active
// blocks into overlays for the host to paint. Returns nil overlays (not
// an error) on a snapshot-lock miss — a cosmetic delay only.
func (fg *FrameGather) Gather(viewportStart, viewportEnd int) []CellOverlay {
	snapshot, ok := fg.terminal.Snapshot()
	if !ok {
		return nil
	}

	for _, evt := range fg.terminal.DrainShellIntegrationEvents() {
		switch evt.Kind {
		case CommandStart:
			fg.pipeline.OnCommandStart(evt.Command)
		case CommandFinished:
			fg.pipeline.OnCommandEnd()
		}
	}

	generation := fg.terminal.UpdateGeneration()
	if generation != fg.lastGeneration {
		fg.lastGeneration = generation
		if !snapshot.AltScreen || !fg.pipeline.config.RespectAlternateScreen {
			for _, line := range fg.terminal.LinesTextRange(viewportStart, viewportEnd) {
				fg.pipeline.ProcessOutput(line.Text, line.AbsoluteRow)
			}
		}
	}

	fg.pipeline.CheckDebounce()

	overlays := make([]CellOverlay, 0, len(fg.pipeline.ActiveBlocks()))
	for _, ab := range fg.pipeline.ActiveBlocks() {
		if ab.RowRange.End <= viewportStart || ab.RowRange.Start >= viewportEnd {
			continue
		}
		count := ab.RowRange.End - ab.RowRange.Start
		lines := ab.Buffer.DisplayLinesRange(0, count)
		var graphics []InlineGraphic
		if rc := ab.Buffer.Rendered(); rc != nil {
			graphics = rc.Graphics
		}
		overlays = append(overlays, CellOverlay{
			BlockID:  ab.BlockID,
			RowStart: ab.RowRange.Start,
			Lines:    lines,
			Graphics: graphics,
		})
	}

	if len(overlays) != fg.lastInstalledCount {
		fg.lastInstalledCount = len(overlays)
		fg.cellRenderDirty = true
	} else {
		fg.cellRenderDirty = false
	}

	return overlays
}

// CellRenderDirty reports whether the number of visible overlays differs
// from the previous frame's, so the host should invalidate its own
// cell-rendering cache. A block replaced by another while the overlay
// count stays the same does not set it.
func (fg *FrameGather) CellRenderDirty() bool {
	return fg.cellRenderDirty
}

// OnAltScreenChange forwards an alt-screen transition to the pipeline.
func (fg *FrameGather) OnAltScreenChange(entering bool) {
	fg.pipeline.OnAltScreenChange(entering)
}

// UpdateCellDims keeps inline-graphics sizing in sync with the renderer.
func (fg *FrameGather) UpdateCellDims(cw, ch int) {
	fg.pipeline.UpdateCellDims(cw, ch)
}
