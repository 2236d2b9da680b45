// Package boundary implements the state machine that watches streaming
// terminal output and emits content blocks at natural boundaries (blank
// runs, shell command markers, or manual flush).
package boundary

import (
	"regexp"
	"strings"
	"time"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// DetectionScope selects how the detector decides what to accumulate and
// when to emit a block.
type DetectionScope int

const (
	// CommandOutput only accumulates between command-start and
	// command-end shell-integration markers.
	CommandOutput DetectionScope = iota
	// All always accumulates output and applies blank-line/debounce/
	// max-scan-lines heuristics.
	All
	// ManualOnly never auto-emits; only Flush produces a block.
	ManualOnly
)

// Config tunes the boundary detector's heuristics.
type Config struct {
	Scope              DetectionScope
	MaxScanLines       int
	DebounceMs         int
	BlankLineThreshold int
}

// DefaultConfig matches the spec's stated defaults.
func DefaultConfig() Config {
	return Config{
		Scope:              All,
		MaxScanLines:       500,
		DebounceMs:         100,
		BlankLineThreshold: 2,
	}
}

var fenceOpenRe = regexp.MustCompile("^(`{3,}|~{3,})([A-Za-z0-9_+-]*)$")

// Detector is the boundary-detection state machine.
type Detector struct {
	config Config

	buffer           []string
	precedingCommand string
	blockStartRow    int
	lastOutputTime   time.Time
	inCommandOutput  bool
	consecutiveBlank int

	inFencedBlock bool
	fenceChar     byte
	fenceLen      int
}

// NewDetector constructs a detector with the given configuration.
func NewDetector(cfg Config) *Detector {
	return &Detector{config: cfg}
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// updateFenceState tracks whether the given line opens or closes a fenced
// code block, recognizing ``` or ~~~ openers (3+ repeats, an optional
// bare language tag) and their matching closer (same char, at least as
// many repeats as the opener, nothing else but whitespace).
func (d *Detector) updateFenceState(line string) {
	trimmed := strings.TrimSpace(line)
	if !d.inFencedBlock {
		if m := fenceOpenRe.FindStringSubmatch(trimmed); m != nil {
			d.inFencedBlock = true
			d.fenceChar = m[1][0]
			d.fenceLen = len(m[1])
		}
		return
	}
	// Looking for a closer: same fence char, at least fenceLen repeats,
	// nothing else on the line.
	if trimmed == "" {
		return
	}
	i := 0
	for i < len(trimmed) && trimmed[i] == d.fenceChar {
		i++
	}
	if i >= d.fenceLen && i == len(trimmed) {
		d.inFencedBlock = false
	}
}

// PushLine feeds one (line, absoluteRow) event into the detector. It
// returns an emitted ContentBlock if this line completed one.
func (d *Detector) PushLine(line string, row int) *prettifier.ContentBlock {
	d.lastOutputTime = time.Now()

	switch d.config.Scope {
	case CommandOutput:
		if !d.inCommandOutput {
			return nil
		}
		d.appendLine(line, row)
		return nil

	case ManualOnly:
		d.appendLine(line, row)
		return nil

	default: // All
		d.appendLine(line, row)
		d.updateFenceState(line)

		if len(d.buffer) >= d.config.MaxScanLines {
			return d.emitBlock()
		}

		if isBlank(line) {
			if !d.inFencedBlock {
				d.consecutiveBlank++
				if d.consecutiveBlank >= d.config.BlankLineThreshold {
					return d.emitBlock()
				}
			}
		} else {
			d.consecutiveBlank = 0
		}
		return nil
	}
}

func (d *Detector) appendLine(line string, row int) {
	if len(d.buffer) == 0 {
		d.blockStartRow = row
	}
	d.buffer = append(d.buffer, line)
}

// OnCommandStart records the command that produced the upcoming output,
// resets the buffer, and enters command-output mode.
func (d *Detector) OnCommandStart(cmd string) {
	d.precedingCommand = cmd
	d.buffer = nil
	d.consecutiveBlank = 0
	d.inCommandOutput = true
}

// OnCommandEnd closes out command-output mode, emitting whatever was
// accumulated (or nil if the buffer was empty/all-blank).
func (d *Detector) OnCommandEnd() *prettifier.ContentBlock {
	d.inCommandOutput = false
	if d.config.Scope == ManualOnly {
		d.buffer = nil
		return nil
	}
	return d.emitBlock()
}

// OnAltScreenChange emits the current block, except in
// ManualOnly scope where only Flush emits.
func (d *Detector) OnAltScreenChange(entering bool) *prettifier.ContentBlock {
	if d.config.Scope == ManualOnly {
		return nil
	}
	return d.emitBlock()
}

func (d *Detector) OnProcessChange() *prettifier.ContentBlock {
	if d.config.Scope == ManualOnly {
		return nil
	}
	return d.emitBlock()
}

// CheckDebounce should be called once per frame; if at least DebounceMs
// have elapsed since the last pushed line and the buffer is non-empty, it
// emits the accumulated block. Only meaningful in All scope.
func (d *Detector) CheckDebounce() *prettifier.ContentBlock {
	if d.config.Scope != All {
		return nil
	}
	if len(d.buffer) == 0 {
		return nil
	}
	if time.Since(d.lastOutputTime) < time.Duration(d.config.DebounceMs)*time.Millisecond {
		return nil
	}
	return d.emitBlock()
}

// Flush always emits, regardless of scope, trimming trailing blanks.
func (d *Detector) Flush() *prettifier.ContentBlock {
	return d.emitBlock()
}

func (d *Detector) emitBlock() *prettifier.ContentBlock {
	lines := d.buffer
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	d.buffer = nil
	d.consecutiveBlank = 0
	d.inFencedBlock = false

	if len(lines) == 0 {
		return nil
	}

	block := prettifier.NewContentBlock(lines, d.precedingCommand, d.blockStartRow, time.Now())
	return &block
}
