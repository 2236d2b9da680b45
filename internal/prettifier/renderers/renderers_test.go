package renderers

import (
	"strings"
	"testing"
	"time"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

func block(lines []string) *prettifier.ContentBlock {
	b := prettifier.NewContentBlock(lines, "", 0, time.Time{})
	return &b
}

func TestMarkdownRendererHeadingAndLineMapping(t *testing.T) {
	r := NewMarkdownRenderer()
	b := block([]string{"# Title", "", "some *italic* and **bold** text"})

	rc, rerr := r.Render(b, prettifier.RendererConfig{})
	if rerr != nil {
		t.Fatalf("unexpected render error: %v", rerr)
	}
	if !rc.Validate(b.LineCount()) {
		t.Fatalf("line mapping invariant violated: %+v", rc.LineMapping)
	}
	if len(rc.Lines) == 0 {
		t.Fatalf("expected at least one rendered line")
	}
	first := rc.Lines[0].Text()
	if !strings.Contains(first, "Title") {
		t.Fatalf("expected heading text to survive rendering, got %q", first)
	}
}

func TestMarkdownRendererFencedCode(t *testing.T) {
	r := NewMarkdownRenderer()
	b := block([]string{"```go", "func main() {}", "```"})

	rc, rerr := r.Render(b, prettifier.RendererConfig{})
	if rerr != nil {
		t.Fatalf("unexpected render error: %v", rerr)
	}
	if !rc.Validate(b.LineCount()) {
		t.Fatalf("line mapping invariant violated")
	}
}

func TestMarkdownRendererTableHasBoxBorders(t *testing.T) {
	r := NewMarkdownRenderer()
	b := block([]string{
		"| Name | Age |",
		"| --- | --- |",
		"| Alice | 30 |",
	})

	rc, rerr := r.Render(b, prettifier.RendererConfig{})
	if rerr != nil {
		t.Fatalf("unexpected render error: %v", rerr)
	}
	if !rc.Validate(b.LineCount()) {
		t.Fatalf("line mapping invariant violated: %+v", rc.LineMapping)
	}

	joined := ""
	for _, l := range rc.Lines {
		joined += l.Text() + "\n"
	}
	if !strings.Contains(joined, "│") || !strings.Contains(joined, "├") {
		t.Fatalf("expected box-drawing borders in rendered table, got:\n%s", joined)
	}
}

func TestJSONRendererTruncatesLongStrings(t *testing.T) {
	r := NewJSONRenderer()
	long := strings.Repeat("x", 300)
	b := block([]string{`{"name": "` + long + `"}`})

	rc, rerr := r.Render(b, prettifier.RendererConfig{})
	if rerr != nil {
		t.Fatalf("unexpected render error: %v", rerr)
	}
	joined := ""
	for _, l := range rc.Lines {
		joined += l.Text() + "\n"
	}
	if !strings.Contains(joined, "more chars") {
		t.Fatalf("expected truncation marker in output, got:\n%s", joined)
	}
}

func TestJSONRendererPreservesKeyOrder(t *testing.T) {
	r := NewJSONRenderer()
	b := block([]string{`{"zebra": 1, "apple": 2}`})

	rc, rerr := r.Render(b, prettifier.RendererConfig{})
	if rerr != nil {
		t.Fatalf("unexpected render error: %v", rerr)
	}
	joined := ""
	for _, l := range rc.Lines {
		joined += l.Text() + "\n"
	}
	zebraIdx := strings.Index(joined, "zebra")
	appleIdx := strings.Index(joined, "apple")
	if zebraIdx == -1 || appleIdx == -1 || zebraIdx > appleIdx {
		t.Fatalf("expected insertion order (zebra before apple) preserved, got:\n%s", joined)
	}
}

func TestJSONRendererArrayTruncation(t *testing.T) {
	r := NewJSONRenderer()
	var items []string
	for i := 0; i < 60; i++ {
		items = append(items, "1")
	}
	b := block([]string{"[" + strings.Join(items, ",") + "]"})

	rc, rerr := r.Render(b, prettifier.RendererConfig{})
	if rerr != nil {
		t.Fatalf("unexpected render error: %v", rerr)
	}
	joined := ""
	for _, l := range rc.Lines {
		joined += l.Text() + "\n"
	}
	if !strings.Contains(joined, "more items") {
		t.Fatalf("expected array truncation marker, got:\n%s", joined)
	}
}

func TestJSONRendererColorsTokensByType(t *testing.T) {
	r := NewJSONRenderer()
	b := block([]string{`{"name": "bob", "age": 30, "ok": true, "missing": null, "site": "https://example.com"}`})

	rc, rerr := r.Render(b, prettifier.RendererConfig{})
	if rerr != nil {
		t.Fatalf("unexpected render error: %v", rerr)
	}

	var gotKey, gotString, gotNumber, gotBool, gotNull, gotLink bool
	for _, l := range rc.Lines {
		for _, seg := range l.Segments {
			switch {
			case seg.Fg == jsonKeyFg && strings.Contains(seg.Text, "name"):
				gotKey = true
			case seg.Fg == jsonStringFg && strings.Contains(seg.Text, "bob"):
				gotString = true
			case seg.Fg == jsonNumberFg && seg.Text == "30":
				gotNumber = true
			case seg.Fg == jsonBoolFg && seg.Text == "true":
				gotBool = true
			case seg.Text == "null" && seg.Italic:
				gotNull = true
			case seg.LinkURL == "https://example.com":
				gotLink = true
			}
		}
	}
	if !gotKey || !gotString || !gotNumber || !gotBool || !gotNull || !gotLink {
		t.Fatalf("expected key/string/number/bool/null/link styling, got key=%v string=%v number=%v bool=%v null=%v link=%v",
			gotKey, gotString, gotNumber, gotBool, gotNull, gotLink)
	}
}

func TestJSONRendererCollapsesAtMaxDepth(t *testing.T) {
	r := NewJSONRenderer()
	b := block([]string{`{"a": {"b": {"c": {"d": 1}}}}`})

	rc, rerr := r.Render(b, prettifier.RendererConfig{Extra: map[string]interface{}{"json_max_depth_expanded": 2}})
	if rerr != nil {
		t.Fatalf("unexpected render error: %v", rerr)
	}
	joined := ""
	for _, l := range rc.Lines {
		joined += l.Text() + "\n"
	}
	if !strings.Contains(joined, "keys }") {
		t.Fatalf("expected a depth-collapsed object marker, got:\n%s", joined)
	}
	if strings.Contains(joined, `"d"`) {
		t.Fatalf("expected collapsed object to hide nested keys, got:\n%s", joined)
	}
}

func TestDiffRendererColorsAddRemove(t *testing.T) {
	r := NewDiffRenderer()
	b := block([]string{
		"diff --git a/f.go b/f.go",
		"--- a/f.go",
		"+++ b/f.go",
		"@@ -1,1 +1,1 @@",
		"-old line",
		"+new line",
	})

	rc, rerr := r.Render(b, prettifier.RendererConfig{})
	if rerr != nil {
		t.Fatalf("unexpected render error: %v", rerr)
	}
	if !rc.Validate(b.LineCount()) {
		t.Fatalf("line mapping invariant violated")
	}

	foundAdd, foundRemove := false, false
	for _, l := range rc.Lines {
		for _, seg := range l.Segments {
			if seg.Fg == "#b8bb26" {
				foundAdd = true
			}
			if seg.Fg == "#fb4934" {
				foundRemove = true
			}
		}
	}
	if !foundAdd || !foundRemove {
		t.Fatalf("expected both add and remove coloring to appear")
	}
}

func TestDiffRendererInlineEmitsGutterLineNumbers(t *testing.T) {
	r := NewDiffRenderer()
	b := block([]string{
		"diff --git a/f.go b/f.go",
		"--- a/f.go",
		"+++ b/f.go",
		"@@ -5,1 +5,1 @@",
		"-old line",
		"+new line",
	})

	rc, rerr := r.Render(b, prettifier.RendererConfig{TerminalWidth: 80})
	if rerr != nil {
		t.Fatalf("unexpected render error: %v", rerr)
	}
	joined := ""
	for _, l := range rc.Lines {
		joined += l.Text() + "\n"
	}
	if !strings.Contains(joined, "5") {
		t.Fatalf("expected hunk line numbers in the gutter, got:\n%s", joined)
	}
}

func TestDiffRendererSideBySideAboveMinWidth(t *testing.T) {
	r := NewDiffRenderer()
	b := block([]string{
		"diff --git a/f.go b/f.go",
		"--- a/f.go",
		"+++ b/f.go",
		"@@ -1,1 +1,1 @@",
		"-old line",
		"+new line",
	})

	rc, rerr := r.Render(b, prettifier.RendererConfig{TerminalWidth: 200})
	if rerr != nil {
		t.Fatalf("unexpected render error: %v", rerr)
	}
	if !rc.Validate(b.LineCount()) {
		t.Fatalf("line mapping invariant violated")
	}

	found := false
	for _, l := range rc.Lines {
		text := l.Text()
		if strings.Contains(text, "-old line") && strings.Contains(text, "+new line") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a single combined row with old on the left and new on the right, got:\n%+v", rc.Lines)
	}
}

func TestDiffRendererModeOverridesAutoWidth(t *testing.T) {
	r := NewDiffRenderer()
	b := block([]string{
		"diff --git a/f.go b/f.go",
		"--- a/f.go",
		"+++ b/f.go",
		"@@ -1,1 +1,1 @@",
		"-old line",
		"+new line",
	})

	rc, rerr := r.Render(b, prettifier.RendererConfig{
		TerminalWidth: 200,
		Extra:         map[string]interface{}{"diff_mode": "inline"},
	})
	if rerr != nil {
		t.Fatalf("unexpected render error: %v", rerr)
	}

	combined := false
	for _, l := range rc.Lines {
		text := l.Text()
		if strings.Contains(text, "-old line") && strings.Contains(text, "+new line") {
			combined = true
		}
	}
	if combined {
		t.Fatalf("expected explicit inline mode to stay inline despite wide terminal, got:\n%+v", rc.Lines)
	}
}

func TestYAMLRendererClassifiesKeysAndLists(t *testing.T) {
	r := NewYAMLRenderer()
	b := block([]string{"---", "name: value", "items:", "  - one", "  - two"})

	rc, rerr := r.Render(b, prettifier.RendererConfig{})
	if rerr != nil {
		t.Fatalf("unexpected render error: %v", rerr)
	}
	if !rc.Validate(b.LineCount()) {
		t.Fatalf("line mapping invariant violated")
	}
	if len(rc.Lines) != b.LineCount() {
		t.Fatalf("expected one rendered line per source line, got %d vs %d", len(rc.Lines), b.LineCount())
	}
}

func TestCSVRendererAlignsColumns(t *testing.T) {
	r := NewCSVRenderer()
	b := block([]string{"id,name", "1,alice", "200,bob"})

	rc, rerr := r.Render(b, prettifier.RendererConfig{})
	if rerr != nil {
		t.Fatalf("unexpected render error: %v", rerr)
	}
	if len(rc.Lines) != 4 {
		t.Fatalf("expected 3 rendered rows plus the header rule, got %d", len(rc.Lines))
	}
}

func TestStackTraceRendererClassifiesPythonFrame(t *testing.T) {
	r := NewStackTraceRenderer()
	b := block([]string{
		"Traceback (most recent call last):",
		`  File "app.py", line 10, in <module>`,
		"ValueError: bad input",
	})

	rc, rerr := r.Render(b, prettifier.RendererConfig{})
	if rerr != nil {
		t.Fatalf("unexpected render error: %v", rerr)
	}
	if !rc.Validate(b.LineCount()) {
		t.Fatalf("line mapping invariant violated")
	}

	foundLink := false
	for _, l := range rc.Lines {
		for _, seg := range l.Segments {
			if strings.HasPrefix(seg.LinkURL, "file://") {
				foundLink = true
			}
		}
	}
	if !foundLink {
		t.Fatalf("expected a file:// link for the python frame")
	}
}

func TestRegisterBuiltinsRegistersAllFormats(t *testing.T) {
	reg := prettifier.NewRendererRegistry(0.6)
	RegisterBuiltins(reg)

	for _, id := range []string{"markdown", "json", "yaml", "toml", "xml", "diff", "log", "csv", "sql_results", "stacktrace", "diagrams"} {
		if _, ok := reg.GetRenderer(id); !ok {
			t.Fatalf("expected renderer registered for format %q", id)
		}
	}
}
