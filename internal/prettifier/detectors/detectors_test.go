package detectors

import (
	"testing"
	"time"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

func newBlock(lines []string) *prettifier.ContentBlock {
	b := prettifier.NewContentBlock(lines, "", 0, time.Time{})
	return &b
}

func TestMarkdownSingleFenceIsDefinitive(t *testing.T) {
	d := NewMarkdownDetector()
	block := newBlock([]string{"```"})

	result := d.Detect(block)
	if result == nil {
		t.Fatalf("expected a detection result, got nil")
	}
	if result.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %v", result.Confidence)
	}
	if len(result.MatchedRules) != 1 || result.MatchedRules[0] != "md_fenced_code" {
		t.Fatalf("expected matched_rules=[md_fenced_code], got %v", result.MatchedRules)
	}
}

func TestJSONNeverReachesFullConfidence(t *testing.T) {
	d := NewJSONDetector()
	block := newBlock([]string{
		"{",
		`"name": "value",`,
		`"count": 3,`,
		"}",
	})

	result := d.Detect(block)
	if result == nil {
		t.Fatalf("expected a detection result, got nil")
	}
	if result.Confidence >= 1.0 {
		t.Fatalf("expected confidence below 1.0, got %v", result.Confidence)
	}
}

func TestYAMLAmbiguousThreeLineBlockDetectsNothing(t *testing.T) {
	d := NewYAMLDetector()
	block := newBlock([]string{"---", "plain text", "more plain"})

	result := d.Detect(block)
	if result != nil {
		t.Fatalf("expected no detection for an ambiguous --- block, got %+v", result)
	}
}

func TestYAMLKeyValuePairsDetect(t *testing.T) {
	d := NewYAMLDetector()
	block := newBlock([]string{"---", "name: value", "  nested: value"})

	result := d.Detect(block)
	if result == nil {
		t.Fatalf("expected a detection result when doc-start and key:value both match")
	}
}

func TestDiffGitHeaderFirstLineIsDefinitive(t *testing.T) {
	d := NewDiffDetector()
	block := newBlock([]string{
		"diff --git a/foo.go b/foo.go",
		"index 1234567..89abcde 100644",
		"--- a/foo.go",
		"+++ b/foo.go",
		"@@ -1,3 +1,3 @@",
	})

	result := d.Detect(block)
	if result == nil {
		t.Fatalf("expected a detection result, got nil")
	}
	if result.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %v", result.Confidence)
	}
}

func TestDiffAddRemoveLinesDoNotMatchHeaderMarkers(t *testing.T) {
	d := NewDiffDetector()
	block := newBlock([]string{"--- a/foo", "+++ b/foo"})

	result := d.Detect(block)
	for _, id := range []string{"diff_add_line", "diff_remove_line"} {
		for _, matched := range matchedRulesOf(result) {
			if matched == id {
				t.Fatalf("expected %s to not match unified diff header markers", id)
			}
		}
	}
}

func matchedRulesOf(r *prettifier.DetectionResult) []string {
	if r == nil {
		return nil
	}
	return r.MatchedRules
}

func TestStackTracePythonHeaderIsDefinitive(t *testing.T) {
	d := NewStackTraceDetector()
	block := newBlock([]string{
		"Traceback (most recent call last):",
		`  File "app.py", line 10, in <module>`,
		"ValueError: bad input",
	})

	result := d.Detect(block)
	if result == nil {
		t.Fatalf("expected a detection result, got nil")
	}
	if result.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %v", result.Confidence)
	}
}

func TestDiagramFencedBlockIsDefinitive(t *testing.T) {
	d := NewDiagramDetector()
	block := newBlock([]string{"```mermaid"})

	result := d.Detect(block)
	if result == nil {
		t.Fatalf("expected a detection result, got nil")
	}
	if result.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %v", result.Confidence)
	}
}

func TestDiagramDoesNotMatchPlainFence(t *testing.T) {
	d := NewDiagramDetector()
	block := newBlock([]string{"```go"})

	if result := d.Detect(block); result != nil {
		t.Fatalf("expected no diagram detection for a non-diagram fence, got %+v", result)
	}
}

func TestSQLResultsMySQLBorderIsDefinitive(t *testing.T) {
	d := NewSQLResultsDetector()
	block := newBlock([]string{
		"+----+-------+",
		"| id | name  |",
		"+----+-------+",
		"| 1  | alice |",
		"+----+-------+",
	})

	result := d.Detect(block)
	if result == nil {
		t.Fatalf("expected a detection result, got nil")
	}
}

func TestRegisterBuiltinsDetectsThroughRegistry(t *testing.T) {
	reg := prettifier.NewRendererRegistry(0.6)
	RegisterBuiltins(reg)

	block := newBlock([]string{
		"diff --git a/foo.go b/foo.go",
		"--- a/foo.go",
		"+++ b/foo.go",
		"@@ -1,3 +1,3 @@",
	})

	result := reg.Detect(block)
	if result == nil {
		t.Fatalf("expected a detection result through the registry, got nil")
	}
	if result.FormatID != "diff" {
		t.Fatalf("expected format id %q, got %q", "diff", result.FormatID)
	}
}
