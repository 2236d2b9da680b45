package boundary

import "testing"

func TestCommandOutputScopeProducesNoBlockOutsideCommand(t *testing.T) {
	d := NewDetector(Config{Scope: CommandOutput})

	if block := d.PushLine("stray output before any command", 0); block != nil {
		t.Fatalf("expected no block before OnCommandStart, got %+v", block)
	}

	d.OnCommandStart("ls -la")
	d.PushLine("file1.txt", 1)
	d.PushLine("file2.txt", 2)

	block := d.OnCommandEnd()
	if block == nil {
		t.Fatalf("expected a block at command end")
	}
	if len(block.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(block.Lines))
	}
	if block.PrecedingCommand != "ls -la" {
		t.Fatalf("expected preceding command recorded, got %q", block.PrecedingCommand)
	}

	if block := d.PushLine("output after command end", 3); block != nil {
		t.Fatalf("expected no block for output after command end, got %+v", block)
	}
}

func TestAllScopeEmitsOnBlankLineThreshold(t *testing.T) {
	d := NewDetector(Config{Scope: All, BlankLineThreshold: 2, MaxScanLines: 500})

	if block := d.PushLine("line one", 0); block != nil {
		t.Fatalf("expected no block yet")
	}
	if block := d.PushLine("line two", 1); block != nil {
		t.Fatalf("expected no block yet")
	}
	if block := d.PushLine("", 2); block != nil {
		t.Fatalf("expected no block after a single blank line")
	}
	block := d.PushLine("", 3)
	if block == nil {
		t.Fatalf("expected a block after reaching the blank-line threshold")
	}
	if len(block.Lines) != 2 {
		t.Fatalf("expected trailing blanks trimmed, got %d lines: %v", len(block.Lines), block.Lines)
	}
}

func TestFencedBlockSuppressesBlankLineBoundary(t *testing.T) {
	d := NewDetector(Config{Scope: All, BlankLineThreshold: 2, MaxScanLines: 500})

	d.PushLine("```go", 0)
	d.PushLine("func main() {", 1)
	if block := d.PushLine("", 2); block != nil {
		t.Fatalf("expected blank lines inside a fenced block not to count toward the threshold")
	}
	if block := d.PushLine("", 3); block != nil {
		t.Fatalf("expected blank lines inside a fenced block not to count toward the threshold")
	}
	d.PushLine("}", 4)
	d.PushLine("```", 5)

	block := d.Flush()
	if block == nil {
		t.Fatalf("expected Flush to emit the accumulated fenced block")
	}
	if len(block.Lines) != 6 {
		t.Fatalf("expected all 6 lines preserved, got %d", len(block.Lines))
	}
}

func TestManualOnlyScopeNeverAutoEmits(t *testing.T) {
	d := NewDetector(Config{Scope: ManualOnly})

	for i, line := range []string{"a", "", "", "", "b"} {
		if block := d.PushLine(line, i); block != nil {
			t.Fatalf("expected ManualOnly scope never to auto-emit, got %+v", block)
		}
	}

	block := d.Flush()
	if block == nil {
		t.Fatalf("expected Flush to emit in ManualOnly scope")
	}
	if len(block.Lines) != 5 {
		t.Fatalf("expected all 5 lines kept (last line is not blank, nothing to trim), got %d", len(block.Lines))
	}
}

func TestFlushAlwaysEmits(t *testing.T) {
	d := NewDetector(DefaultConfig())
	d.PushLine("only one line", 0)

	block := d.Flush()
	if block == nil {
		t.Fatalf("expected Flush to always emit a pending block")
	}
	if len(block.Lines) != 1 || block.Lines[0] != "only one line" {
		t.Fatalf("unexpected block contents: %+v", block.Lines)
	}

	if block := d.Flush(); block != nil {
		t.Fatalf("expected a second Flush with nothing buffered to return nil")
	}
}

func TestCheckDebounceRespectsScope(t *testing.T) {
	d := NewDetector(Config{Scope: CommandOutput, DebounceMs: 0})
	d.OnCommandStart("cmd")
	d.PushLine("output", 0)

	if block := d.CheckDebounce(); block != nil {
		t.Fatalf("expected CheckDebounce to be a no-op outside All scope")
	}
}
