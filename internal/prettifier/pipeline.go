package prettifier

import (
	"time"

	"github.com/google/uuid"

	"github.com/samsaffron/term-llm/internal/prettifier/agentsession"
	"github.com/samsaffron/term-llm/internal/prettifier/boundary"
)

// RowRange is an absolute-row half-open interval [Start, End).
type RowRange struct {
	Start int
	End   int
}

// Contains reports whether other is fully contained in r.
func (r RowRange) Contains(other RowRange) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Overlaps reports whether r and other share any row.
func (r RowRange) Overlaps(other RowRange) bool {
	return r.Start < other.End && other.Start < r.End
}

func (r RowRange) Equal(other RowRange) bool {
	return r.Start == other.Start && r.End == other.End
}

// ActiveBlock is what the pipeline tracks for one installed block.
type ActiveBlock struct {
	BlockID      uint64
	ContentHash  uint64
	RowRange     RowRange
	Detection    DetectionResult
	Buffer       *DualViewBuffer
}

// PipelineConfig enumerates the pipeline-level options from spec §6.
type PipelineConfig struct {
	Enabled                 bool
	RespectAlternateScreen  bool
	ConfidenceThreshold     float64
	MaxScanLines            int
	DebounceMs              int
	BlankLineThreshold      int
	DetectionScope          boundary.DetectionScope
	RenderCacheCapacity     int
	PrettifyThrottleMs      int
	// ForceAgentSession lets a host opt into agent-session segmentation
	// without the built-in heuristic detection succeeding (open question b).
	ForceAgentSession bool
	AgentSession      agentsession.Config
}

// DefaultPipelineConfig matches the spec's stated defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Enabled:                true,
		RespectAlternateScreen: true,
		ConfidenceThreshold:    0.6,
		MaxScanLines:           500,
		DebounceMs:             100,
		BlankLineThreshold:     2,
		DetectionScope:         boundary.All,
		RenderCacheCapacity:    64,
		PrettifyThrottleMs:     150,
		AgentSession:           agentsession.DefaultConfig(),
	}
}

// Pipeline orchestrates detection, rendering, caching, and boundary
// tracking, and owns every active block overlaid on the grid.
type Pipeline struct {
	config          PipelineConfig
	sessionOverride *bool
	sessionID       string

	registry         *RendererRegistry
	renderCache      *RenderCache
	boundaryDetector *boundary.Detector
	rendererConfig   RendererConfig
	agentSession     *agentsession.Integration

	activeBlocks     []*ActiveBlock
	suppressedRanges []RowRange
	nextBlockID      uint64

	lastSubmitMillis int64
	lastSubmitHash   uint64
}

// NewPipeline builds a pipeline wired to the given config, registry, and
// per-renderer config.
func NewPipeline(cfg PipelineConfig, registry *RendererRegistry, rendererCfg RendererConfig) *Pipeline {
	p := &Pipeline{
		config:         cfg,
		sessionID:      uuid.NewString(),
		registry:       registry,
		renderCache:    NewRenderCache(cfg.RenderCacheCapacity),
		boundaryDetector: boundary.NewDetector(boundary.Config{
			Scope:              cfg.DetectionScope,
			MaxScanLines:       cfg.MaxScanLines,
			DebounceMs:         cfg.DebounceMs,
			BlankLineThreshold: cfg.BlankLineThreshold,
		}),
		rendererConfig: rendererCfg,
		agentSession:   agentsession.NewIntegration(cfg.AgentSession),
		nextBlockID:    1,
	}
	if cfg.ForceAgentSession {
		p.agentSession.ForceActive()
	}
	return p
}

// DetectAgentSession forwards to the agent-session integration so a host
// can opt in as soon as it knows the child process's environment/name.
func (p *Pipeline) DetectAgentSession(envVars map[string]string, processName string) bool {
	return p.agentSession.DetectSession(envVars, processName)
}

// AgentSessionActive reports whether the pipeline is currently segmenting
// output as an agent-session viewport rather than per-line boundaries.
func (p *Pipeline) AgentSessionActive() bool {
	return p.agentSession.IsActive()
}

// EffectiveEnabled returns the session override if set, else the static
// config value.
func (p *Pipeline) EffectiveEnabled() bool {
	if p.sessionOverride != nil {
		return *p.sessionOverride
	}
	return p.config.Enabled
}

// ProcessOutput forwards one output line to the boundary detector and
// handles any block it emits.
func (p *Pipeline) ProcessOutput(line string, row int) {
	if !p.EffectiveEnabled() {
		return
	}
	if p.agentSession.IsActive() {
		if ev := p.agentSession.ProcessLine(line, row); ev.Kind == agentsession.EventContentCollapsed {
			p.SuppressDetection(RowRange{Start: ev.RowStart, End: ev.RowEnd})
		}
	}
	if block := p.boundaryDetector.PushLine(line, row); block != nil {
		p.handleBlock(*block)
	}
}

// ExpandAgentBlock marks a collapsed agent-session block expanded and lifts
// its suppression so its content is detected and rendered again.
func (p *Pipeline) ExpandAgentBlock(blockID uint64, rowStart, rowEnd int) bool {
	ev, ok := p.agentSession.OnExpand(blockID, rowStart, rowEnd)
	if !ok {
		return false
	}
	r := RowRange{Start: ev.RowStart, End: ev.RowEnd}
	kept := p.suppressedRanges[:0]
	for _, sr := range p.suppressedRanges {
		if !sr.Equal(r) {
			kept = append(kept, sr)
		}
	}
	p.suppressedRanges = kept
	return true
}

// CollapseAgentBlock marks a block collapsed, capturing a preview from
// whatever active block currently occupies rowStart, and suppresses its
// range so it stops being re-detected while collapsed.
func (p *Pipeline) CollapseAgentBlock(blockID uint64, rowStart, rowEnd int) bool {
	var preview *agentsession.RenderedPreview
	if ab := p.BlockAtRow(rowStart); ab != nil {
		src := ab.Buffer.Source()
		pv := p.agentSession.GeneratePreview(&src, &ab.Detection)
		preview = &pv
	}
	if _, ok := p.agentSession.OnCollapse(blockID, rowStart, rowEnd, preview); !ok {
		return false
	}
	p.SuppressDetection(RowRange{Start: rowStart, End: rowEnd})
	return true
}

// AgentBlockPreview returns the collapsed-state preview for a tracked
// agent-session block, if any.
func (p *Pipeline) AgentBlockPreview(blockID uint64) *agentsession.RenderedPreview {
	return p.agentSession.GetPreview(blockID)
}

// SubmitCommandOutput builds a block directly from scrollback-sourced
// lines (used when reading the full command output on command-end, which
// sees more than the live per-line feed could collect).
func (p *Pipeline) SubmitCommandOutput(linesWithRows []struct {
	Text string
	Row  int
}, command string) {
	if !p.EffectiveEnabled() || len(linesWithRows) == 0 {
		return
	}
	lines := make([]string, len(linesWithRows))
	for i, lr := range linesWithRows {
		lines[i] = lr.Text
	}
	block := NewContentBlock(lines, command, linesWithRows[0].Row, time.Now())
	p.handleBlock(block)
}

// SubmitViewportFrame is the agent-session-aware counterpart to
// ProcessOutput/SubmitCommandOutput. Outside an agent session it just
// throttles: a viewport whose hash hasn't changed, or that arrived before
// PrettifyThrottleMs has elapsed since the last submission, is skipped.
// Inside an agent session, a changed viewport hash means the host redrew
// the whole screen (e.g. a permission prompt resolving), so every active
// block tracked from the prior frame is stale and gets cleared; the new
// viewport is then split at action-bullet/collapse-marker boundaries and
// each resulting segment is submitted as its own block instead of the
// whole viewport, so unrelated segments don't thrash each other's cache
// entries.
func (p *Pipeline) SubmitViewportFrame(rows []string, scrollbackLen, scrollOffset int) {
	if !p.EffectiveEnabled() {
		return
	}
	hash := agentsession.ViewportHash(rows, scrollbackLen, scrollOffset)

	if !p.agentSession.IsActive() {
		p.throttledSubmit(rows, hash)
		return
	}
	if !p.agentSession.ViewportChanged(hash) {
		return
	}
	p.ClearBlocks()
	for _, seg := range p.agentSession.SplitSegments(rows) {
		block := NewContentBlock(seg, "", 0, time.Now())
		p.handleBlock(block)
	}
}

func (p *Pipeline) throttledSubmit(rows []string, hash uint64) {
	if hash == p.lastSubmitHash {
		return
	}
	now := time.Now().UnixMilli()
	if p.config.PrettifyThrottleMs > 0 && p.lastSubmitMillis != 0 &&
		now-p.lastSubmitMillis < int64(p.config.PrettifyThrottleMs) {
		return
	}
	p.lastSubmitMillis = now
	p.lastSubmitHash = hash
	block := NewContentBlock(rows, "", 0, time.Now())
	p.handleBlock(block)
}

// TriggerPrettify bypasses detection entirely: it builds a forced
// DetectionResult with confidence 1.0 and TriggerInvoked source, runs the
// matching renderer, and installs the result as an active block.
func (p *Pipeline) TriggerPrettify(formatID string, content ContentBlock) {
	detection := DetectionResult{
		FormatID:     formatID,
		Confidence:   1.0,
		MatchedRules: nil,
		Source:       TriggerInvoked,
	}
	p.installBlock(content, detection)
}

func (p *Pipeline) isFullyContainedInSuppressed(r RowRange) bool {
	for _, sr := range p.suppressedRanges {
		if sr.Contains(r) {
			return true
		}
	}
	return false
}

// handleBlock runs the full detect-cache-render-install sequence for a
// newly emitted content block.
func (p *Pipeline) handleBlock(content ContentBlock) {
	rr := RowRange{Start: content.StartRow, End: content.EndRow}
	if p.isFullyContainedInSuppressed(rr) {
		return
	}

	detection := p.registry.Detect(&content)
	if detection == nil {
		debugTrace("no detector matched block rows=%d..%d", content.StartRow, content.EndRow)
		return
	}

	hash := content.ContentHash()
	for _, ab := range p.activeBlocks {
		if ab.ContentHash == hash && ab.RowRange.Overlaps(rr) {
			debugTrace("dedup: identical content already active at rows=%d..%d", ab.RowRange.Start, ab.RowRange.End)
			return
		}
	}

	p.installBlock(content, *detection)
}

// installBlock replaces any overlapping active blocks with the new one,
// consults the render cache, and stores the result. Renderer errors never
// abort installation — the block is kept with Buffer.Rendered() == nil so
// the source view remains selectable.
func (p *Pipeline) installBlock(content ContentBlock, detection DetectionResult) {
	rr := RowRange{Start: content.StartRow, End: content.EndRow}

	kept := p.activeBlocks[:0]
	for _, ab := range p.activeBlocks {
		if !ab.RowRange.Overlaps(rr) {
			kept = append(kept, ab)
		}
	}
	p.activeBlocks = kept

	buffer := NewDualViewBuffer(content)
	hash := content.ContentHash()

	if rendered, ok := p.renderCache.Get(hash, p.rendererConfig.TerminalWidth); ok {
		buffer.SetRendered(rendered, p.rendererConfig.TerminalWidth)
	} else if renderer, ok := p.registry.GetRenderer(detection.FormatID); ok {
		rc, rerr := renderer.Render(&content, p.rendererConfig)
		if rerr == nil && rc != nil {
			p.renderCache.Put(hash, p.rendererConfig.TerminalWidth, detection.FormatID, rc)
			buffer.SetRendered(rc, p.rendererConfig.TerminalWidth)
		}
		// on renderer error, fall through: buffer stays unrendered, block
		// still installed, source view remains selectable.
	}
	// RendererUnavailable (no renderer for the format): same fallback.

	block := &ActiveBlock{
		BlockID:     p.nextBlockID,
		ContentHash: hash,
		RowRange:    rr,
		Detection:   detection,
		Buffer:      buffer,
	}
	p.nextBlockID++
	idx := len(p.activeBlocks)
	for i, ab := range p.activeBlocks {
		if ab.RowRange.Start > rr.Start {
			idx = i
			break
		}
	}
	p.activeBlocks = append(p.activeBlocks, nil)
	copy(p.activeBlocks[idx+1:], p.activeBlocks[idx:])
	p.activeBlocks[idx] = block
	debugLog("session=%s installed block id=%d format=%s rows=%d..%d rendered=%t",
		p.sessionID, block.BlockID, detection.FormatID, rr.Start, rr.End, buffer.Rendered() != nil)
}

// ToggleBlock flips the view mode on the named block's buffer.
func (p *Pipeline) ToggleBlock(blockID uint64) {
	for _, ab := range p.activeBlocks {
		if ab.BlockID == blockID {
			ab.Buffer.ToggleView()
			return
		}
	}
}

// ToggleGlobal flips the session override of Enabled.
func (p *Pipeline) ToggleGlobal() {
	current := p.EffectiveEnabled()
	next := !current
	p.sessionOverride = &next
}

// ClearBlocks drops every active block.
func (p *Pipeline) ClearBlocks() {
	p.activeBlocks = nil
}

// ActiveBlocks returns the current active blocks, ordered by start row.
func (p *Pipeline) ActiveBlocks() []*ActiveBlock {
	return p.activeBlocks
}

// BlockAtRow returns the active block containing the given absolute row,
// if any.
func (p *Pipeline) BlockAtRow(row int) *ActiveBlock {
	for _, ab := range p.activeBlocks {
		if row >= ab.RowRange.Start && row < ab.RowRange.End {
			return ab
		}
	}
	return nil
}

// SuppressDetection dedup-inserts a row range into the suppressed set.
func (p *Pipeline) SuppressDetection(r RowRange) {
	for _, sr := range p.suppressedRanges {
		if sr.Equal(r) {
			return
		}
	}
	p.suppressedRanges = append(p.suppressedRanges, r)
}

// IsSuppressed reports whether r is fully contained in some suppressed
// range.
func (p *Pipeline) IsSuppressed(r RowRange) bool {
	return p.isFullyContainedInSuppressed(r)
}

// OnCommandStart forwards to the boundary detector.
func (p *Pipeline) OnCommandStart(cmd string) {
	p.boundaryDetector.OnCommandStart(cmd)
}

// OnCommandEnd forwards to the boundary detector. Callers should prefer
// SubmitCommandOutput with the full scrollback range, since it sees more
// output than the per-frame feed could collect.
func (p *Pipeline) OnCommandEnd() {
	if block := p.boundaryDetector.OnCommandEnd(); block != nil {
		p.handleBlock(*block)
	}
}

// OnAltScreenChange invalidates overlays and forwards to the boundary
// detector. FrameGather skips alt-screen output only when
// RespectAlternateScreen is set.
func (p *Pipeline) OnAltScreenChange(entering bool) {
	p.ClearBlocks()
	p.boundaryDetector.OnAltScreenChange(entering)
}

// CheckDebounce should be called once per frame.
func (p *Pipeline) CheckDebounce() {
	if block := p.boundaryDetector.CheckDebounce(); block != nil {
		p.handleBlock(*block)
	}
}

// UpdateCellDims keeps inline-graphics sizing in sync with the renderer.
func (p *Pipeline) UpdateCellDims(cw, ch int) {
	if p.rendererConfig.Extra == nil {
		p.rendererConfig.Extra = make(map[string]interface{})
	}
	p.rendererConfig.Extra["cell_width"] = cw
	p.rendererConfig.Extra["cell_height"] = ch
}

// RenderCacheStats exposes cache diagnostics.
func (p *Pipeline) RenderCacheStats() CacheStats {
	return p.renderCache.Stats()
}
