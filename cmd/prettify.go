package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/samsaffron/term-llm/internal/prettifier"
	"github.com/samsaffron/term-llm/internal/prettifier/detectors"
	"github.com/samsaffron/term-llm/internal/prettifier/renderers"
	"github.com/spf13/cobra"
)

var (
	prettifyCommand      string
	prettifyWidth        int
	prettifyForceFormat  string
	prettifyAgentSession bool
)

var prettifyCmd = &cobra.Command{
	Use:   "prettify",
	Short: "Render piped text through the content prettifier pipeline",
	Long: `Feed stdin through the same detect -> cache -> render -> install
pipeline the terminal overlay uses, against a toy Terminal backed by stdin
instead of a live PTY, and print the rendered result to stdout.

Examples:
  cat diff.patch | term-llm prettify
  cat output.json | term-llm prettify --width 100
  term-llm prettify --format markdown < README.md
  term-llm prettify --agent-session < session.log`,
	RunE: runPrettify,
}

func init() {
	prettifyCmd.Flags().StringVarP(&prettifyCommand, "command", "c", "", "Attach a fake command-start/command-end pair around the input, as shell integration would")
	prettifyCmd.Flags().IntVarP(&prettifyWidth, "width", "w", 100, "Terminal width to render for")
	prettifyCmd.Flags().StringVarP(&prettifyForceFormat, "format", "f", "", "Force a renderer instead of running detection (markdown, json, yaml, toml, xml, diff, log, csv, sql_results, stacktrace, diagrams)")
	prettifyCmd.Flags().BoolVar(&prettifyAgentSession, "agent-session", false, "Treat the input as an agent session (rows with collapse markers are not detected); input still goes through per-line boundary detection")
	rootCmd.AddCommand(prettifyCmd)
}

func runPrettify(cmd *cobra.Command, args []string) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var raw []string
	for scanner.Scan() {
		raw = append(raw, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}

	registry := prettifier.NewRendererRegistry(0.6)
	detectors.RegisterBuiltins(registry)
	renderers.RegisterBuiltins(registry)

	cfg := prettifier.DefaultPipelineConfig()
	cfg.ForceAgentSession = prettifyAgentSession
	pipeline := prettifier.NewPipeline(cfg, registry, prettifier.RendererConfig{TerminalWidth: prettifyWidth})

	if prettifyForceFormat != "" {
		block := prettifier.NewContentBlock(raw, prettifyCommand, 0, time.Now())
		pipeline.TriggerPrettify(prettifyForceFormat, block)
	}

	term := newStdinTerminal(raw, prettifyCommand)
	gather := prettifier.NewFrameGather(pipeline, term)
	overlays := gather.Gather(0, len(raw))

	printPrettifiedFrame(raw, overlays)
	return nil
}

// stdinTerminal is this command's toy stand-in for a live PTY: the whole
// of stdin arrives as one viewport, revealed in a single generation bump.
type stdinTerminal struct {
	lines      []prettifier.TerminalLine
	events     []prettifier.ShellEvent
	generation uint64
	drained    bool
}

func newStdinTerminal(raw []string, command string) *stdinTerminal {
	t := &stdinTerminal{generation: 1}
	t.lines = make([]prettifier.TerminalLine, len(raw))
	for i, line := range raw {
		t.lines[i] = prettifier.TerminalLine{Text: line, AbsoluteRow: i}
	}
	if command != "" {
		t.events = []prettifier.ShellEvent{
			{Kind: prettifier.CommandStart, Command: command, AbsoluteRow: 0},
			{Kind: prettifier.CommandFinished, Command: command, AbsoluteRow: len(raw), HasExit: true},
		}
	}
	return t
}

func (t *stdinTerminal) Snapshot() (prettifier.Snapshot, bool) {
	return prettifier.Snapshot{
		CursorRow:       len(t.lines),
		Rows:            len(t.lines),
		IsCursorVisible: true,
	}, true
}

func (t *stdinTerminal) DrainShellIntegrationEvents() []prettifier.ShellEvent {
	if t.drained {
		return nil
	}
	t.drained = true
	return t.events
}

func (t *stdinTerminal) LinesTextRange(startRow, endRow int) []prettifier.TerminalLine {
	if startRow < 0 {
		startRow = 0
	}
	if endRow > len(t.lines) {
		endRow = len(t.lines)
	}
	if startRow >= endRow {
		return nil
	}
	return t.lines[startRow:endRow]
}

func (t *stdinTerminal) UpdateGeneration() uint64 {
	return t.generation
}

// printPrettifiedFrame prints raw lines, substituting an overlay's rendered
// lines wherever one covers a row; a multi-row overlay is only flushed once,
// at its first covered row.
func printPrettifiedFrame(raw []string, overlays []prettifier.CellOverlay) {
	covered := make(map[int]prettifier.CellOverlay, len(overlays))
	for _, ov := range overlays {
		for i := range ov.Lines {
			covered[ov.RowStart+i] = ov
		}
	}
	flushed := make(map[int]bool, len(overlays))
	for row := range raw {
		if ov, ok := covered[row]; ok {
			if flushed[ov.RowStart] {
				continue
			}
			flushed[ov.RowStart] = true
			for _, sl := range ov.Lines {
				fmt.Println(renderStyledLine(sl))
			}
			continue
		}
		fmt.Println(raw[row])
	}
}

func renderStyledLine(l prettifier.StyledLine) string {
	var sb strings.Builder
	for _, seg := range l.Segments {
		style := lipgloss.NewStyle()
		if seg.Fg != "" {
			style = style.Foreground(lipgloss.Color(seg.Fg))
		}
		if seg.Bg != "" {
			style = style.Background(lipgloss.Color(seg.Bg))
		}
		style = style.Bold(seg.Bold).Italic(seg.Italic).Underline(seg.Underline).Strikethrough(seg.Strikethrough)
		sb.WriteString(style.Render(seg.Text))
	}
	return sb.String()
}
