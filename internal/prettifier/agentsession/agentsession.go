// Package agentsession generalizes detection of interactive sessions that
// rewrite their viewport in place (permission prompts, streaming
// responses, collapsible output segments marked with action bullets and
// collapse markers), so the pipeline can segment and dedup such screens
// instead of flapping blocks on every redraw.
//
// Grounded on a specific product's terminal UI conventions, but the
// detection signals here are configurable rather than hardcoded, so any
// agent-style CLI that redraws its screen and marks collapsible regions
// the same way can be recognized.
package agentsession

import (
	"strings"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// Config controls how an agent session is detected and segmented.
type Config struct {
	AutoDetect            bool
	EnvVar                string   // e.g. "PRETTIFIER_AGENT_SESSION"
	ProcessNameSubstrings []string // lowercased substrings, e.g. "claude"
	CollapseMarkers       []string // lowercased substrings, e.g. "(ctrl+o to expand)", "ctrl+o"
	ActionBulletPrefixes  []string // line prefixes that start a new segment, e.g. "⏺"
	MinSegmentLines       int      // minimum non-blank lines for a segment to be submitted
	ShowFormatBadges      bool
	ThrottleMs            int // not read by Pipeline, which throttles on PipelineConfig.PrettifyThrottleMs
}

// DefaultConfig mirrors the original's Claude Code defaults, generalized.
func DefaultConfig() Config {
	return Config{
		AutoDetect:            true,
		EnvVar:                "PRETTIFIER_AGENT_SESSION",
		ProcessNameSubstrings: []string{"claude"},
		CollapseMarkers:       []string{"(ctrl+o to expand)", "ctrl+o"},
		ActionBulletPrefixes:  []string{"⏺"},
		MinSegmentLines:       5,
		ShowFormatBadges:      true,
		ThrottleMs:            150,
	}
}

// ExpandState is the collapse/expand state of one tracked block.
type ExpandState struct {
	Collapsed  bool
	Preview    *RenderedPreview // set only when Collapsed
	Prettified bool             // set only when !Collapsed
}

// RenderedPreview is shown in place of a collapsed block's content.
type RenderedPreview struct {
	FormatBadge    string
	FirstHeader    string // empty if none found
	ContentSummary string
}

// Integration tracks session detection and per-block expand/collapse
// state for one terminal session.
type Integration struct {
	config    Config
	active    bool
	states    map[uint64]*ExpandState
	rowToBlock map[int]uint64
	nextID    uint64

	lastViewportHash uint64
	lastSubmitTime   int64 // unix millis; nothing in this package sets it
}

// NewIntegration constructs an integration with the given config.
func NewIntegration(cfg Config) *Integration {
	return &Integration{
		config:     cfg,
		states:     make(map[uint64]*ExpandState),
		rowToBlock: make(map[int]uint64),
	}
}

// IsActive reports whether a session has been detected.
func (in *Integration) IsActive() bool {
	return in.active
}

// DetectSession checks (in order): the configured env var, then process
// name substrings. auto_detect=false always returns false immediately.
func (in *Integration) DetectSession(envVars map[string]string, processName string) bool {
	if !in.config.AutoDetect {
		return false
	}
	if in.config.EnvVar != "" {
		if _, ok := envVars[in.config.EnvVar]; ok {
			in.active = true
			return true
		}
	}
	lower := strings.ToLower(processName)
	for _, sub := range in.config.ProcessNameSubstrings {
		if sub != "" && strings.Contains(lower, strings.ToLower(sub)) {
			in.active = true
			return true
		}
	}
	return false
}

// ForceActive lets a host opt in to agent-session segmentation without
// the heuristic detection above succeeding.
func (in *Integration) ForceActive() {
	in.active = true
}

func (in *Integration) isCollapseMarker(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range in.config.CollapseMarkers {
		if marker != "" && strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// EventKind distinguishes the event ProcessLine may emit.
type EventKind int

const (
	EventNone EventKind = iota
	EventContentExpanded
	EventContentCollapsed
)

// Event is what ProcessLine/OnExpand/OnCollapse return.
type Event struct {
	Kind     EventKind
	RowStart int
	RowEnd   int
}

// ProcessLine inspects one output line for a collapse marker. Inactive
// sessions always return EventNone.
func (in *Integration) ProcessLine(line string, row int) Event {
	if !in.active {
		return Event{}
	}
	if in.isCollapseMarker(line) {
		blockID := in.nextID
		in.nextID++
		in.states[blockID] = &ExpandState{Collapsed: true}
		in.rowToBlock[row] = blockID
		return Event{Kind: EventContentCollapsed, RowStart: row, RowEnd: row + 1}
	}
	return Event{}
}

// OnExpand marks a block expanded (e.g. in response to a Ctrl+O-style
// interaction) and returns the corresponding event.
func (in *Integration) OnExpand(blockID uint64, rowStart, rowEnd int) (Event, bool) {
	state, ok := in.states[blockID]
	if !ok {
		return Event{}, false
	}
	state.Collapsed = false
	state.Preview = nil
	state.Prettified = false
	return Event{Kind: EventContentExpanded, RowStart: rowStart, RowEnd: rowEnd}, true
}

// OnCollapse marks a block collapsed with an optional preview.
func (in *Integration) OnCollapse(blockID uint64, rowStart, rowEnd int, preview *RenderedPreview) (Event, bool) {
	state, ok := in.states[blockID]
	if !ok {
		return Event{}, false
	}
	state.Collapsed = true
	state.Preview = preview
	return Event{Kind: EventContentCollapsed, RowStart: rowStart, RowEnd: rowEnd}, true
}

// MarkPrettified flips Prettified on an expanded block; no-op if the
// block is collapsed or unknown.
func (in *Integration) MarkPrettified(blockID uint64) {
	if state, ok := in.states[blockID]; ok && !state.Collapsed {
		state.Prettified = true
	}
}

// IsCollapsed reports whether the given row belongs to a collapsed block.
func (in *Integration) IsCollapsed(row int) bool {
	id, ok := in.rowToBlock[row]
	if !ok {
		return false
	}
	state, ok := in.states[id]
	return ok && state.Collapsed
}

// GetPreview returns the preview for a collapsed block, if any.
func (in *Integration) GetPreview(blockID uint64) *RenderedPreview {
	state, ok := in.states[blockID]
	if !ok || !state.Collapsed {
		return nil
	}
	return state.Preview
}

// GetState returns the tracked state for a block, if any.
func (in *Integration) GetState(blockID uint64) (*ExpandState, bool) {
	state, ok := in.states[blockID]
	return state, ok
}

// BlockIDAtRow looks up the synthetic block id tracked for a row.
func (in *Integration) BlockIDAtRow(row int) (uint64, bool) {
	id, ok := in.rowToBlock[row]
	return id, ok
}

var formatBadges = map[string]string{
	"markdown": "MD Markdown",
	"json":     "{} JSON",
	"diagrams": "Diagram",
	"yaml":     "YAML",
	"diff":     "± Diff",
}

// GeneratePreview builds a RenderedPreview from a detected content block.
func (in *Integration) GeneratePreview(content *prettifier.ContentBlock, detection *prettifier.DetectionResult) RenderedPreview {
	badge := ""
	if in.config.ShowFormatBadges {
		if b, ok := formatBadges[detection.FormatID]; ok {
			badge = b
		} else {
			badge = detection.FormatID
		}
	}

	firstHeader := ""
	for _, l := range content.Lines {
		if strings.HasPrefix(l, "#") {
			firstHeader = strings.TrimSpace(strings.TrimLeft(l, "#"))
			break
		}
	}

	return RenderedPreview{
		FormatBadge:    badge,
		FirstHeader:    firstHeader,
		ContentSummary: pluralLines(len(content.Lines)),
	}
}

func pluralLines(n int) string {
	if n == 1 {
		return "1 line"
	}
	return itoa(n) + " lines"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

// ViewportHash samples every 4th row plus scrollback length and scroll
// offset, matching the original's cheap redraw-detection hash.
func ViewportHash(rows []string, scrollbackLen, scrollOffset int) uint64 {
	var h uint64 = 1469598103934665603 // FNV offset basis
	const prime = 1099511628211
	mix := func(b byte) {
		h ^= uint64(b)
		h *= prime
	}
	for i := 0; i < len(rows); i += 4 {
		for _, c := range []byte(rows[i]) {
			mix(c)
		}
		mix(0)
	}
	for _, v := range []int{scrollbackLen, scrollOffset} {
		for shift := 0; shift < 64; shift += 8 {
			mix(byte(v >> shift))
		}
	}
	return h
}

// ViewportChanged reports whether the hash differs from the last observed
// one and records the new hash.
func (in *Integration) ViewportChanged(hash uint64) bool {
	changed := hash != in.lastViewportHash
	in.lastViewportHash = hash
	return changed
}

// SplitSegments splits a viewport's lines at action-bullet and
// collapse-marker lines, returning only segments whose non-blank line
// count meets MinSegmentLines.
func (in *Integration) SplitSegments(lines []string) [][]string {
	var segments [][]string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		nonBlank := 0
		for _, l := range current {
			if strings.TrimSpace(l) != "" {
				nonBlank++
			}
		}
		if nonBlank >= in.config.MinSegmentLines {
			segments = append(segments, current)
		}
		current = nil
	}

	for _, l := range lines {
		if in.isActionBullet(l) || in.isCollapseMarker(l) {
			flush()
		}
		current = append(current, l)
	}
	flush()

	return segments
}

func (in *Integration) isActionBullet(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	for _, prefix := range in.config.ActionBulletPrefixes {
		if prefix != "" && strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// ShouldSubRender reports whether a fenced code block's language tag
// names a format with its own registered renderer (e.g. mermaid,
// plantuml), in which case that renderer should handle the block instead
// of generic code-block styling.
func ShouldSubRender(language string, registry *prettifier.RendererRegistry) bool {
	_, ok := registry.GetRenderer(language)
	return ok
}
