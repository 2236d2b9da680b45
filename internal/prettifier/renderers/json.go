package renderers

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/samsaffron/term-llm/internal/prettifier"
)

// JSONConfig mirrors prettifier.JSONRendererConfig.
type JSONConfig struct {
	MaxStringLength  int
	MaxArrayDisplay  int
	MaxDepthExpanded int
	SortKeys         bool
	TypeAnnotations  bool
}

func defaultJSONConfig() JSONConfig {
	return JSONConfig{MaxStringLength: 200, MaxArrayDisplay: 50, MaxDepthExpanded: 6}
}

// JSONRenderer pretty-prints JSON with tree-guide indentation, honoring
// truncation and collapse limits. Parsing walks the token stream with
// encoding/json.Decoder.Token() rather than unmarshalling into
// interface{}, which preserves object key order — no third-party library
// in the pack offers an order-preserving JSON walk, so this renderer is the
// one place that leans on the standard library for its core algorithm.
type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (r *JSONRenderer) FormatIDOf() string    { return "json" }
func (r *JSONRenderer) DisplayNameOf() string { return "JSON" }
func (r *JSONRenderer) FormatBadge() string   { return "{} JSON" }

func (r *JSONRenderer) Capabilities() []prettifier.RendererCapability {
	return []prettifier.RendererCapability{prettifier.CapabilityTextStyling}
}

// jsonValue is an order-preserving intermediate representation, parsed once
// from the token stream and then rendered (with truncation/sort options
// applied at render time rather than parse time).
type jsonValue struct {
	kind    string // object, array, string, number, bool, null
	entries []jsonEntry
	items   []jsonValue
	str     string
	raw     string // numbers/bools kept as their literal text
}

type jsonEntry struct {
	key string
	val jsonValue
}

var urlRe = regexp.MustCompile(`^https?://\S+$`)

// jsonKeyFg, jsonStringFg, jsonNumberFg, jsonBoolFg are the token colors
// for the richly formatted view; jsonPunctFg colors punctuation and null,
// and jsonGuideFg colors the tree guides.
const (
	jsonKeyFg    = "#83a598"
	jsonStringFg = "#b8bb26"
	jsonNumberFg = "#d3869b"
	jsonBoolFg   = "#fe8019"
	jsonPunctFg  = "#928374"
	jsonGuideFg  = "#665c54"
)

// jsonBuilder accumulates StyledLines for the token-colored render, one
// in-progress line at a time; values that span multiple source tokens
// (an object's "{", its entries, its closing "}") all push onto the same
// line until newline() is called.
type jsonBuilder struct {
	lines [][]prettifier.StyledSegment
	cur   []prettifier.StyledSegment
}

func (b *jsonBuilder) push(segs ...prettifier.StyledSegment) {
	for _, s := range segs {
		if s.Text == "" {
			continue
		}
		b.cur = append(b.cur, s)
	}
}

func (b *jsonBuilder) newline() {
	b.lines = append(b.lines, b.cur)
	b.cur = nil
}

func (r *JSONRenderer) Render(block *prettifier.ContentBlock, cfg prettifier.RendererConfig) (*prettifier.RenderedContent, *prettifier.RenderError) {
	jsonCfg := jsonConfigFromExtra(cfg.Extra)
	dec := json.NewDecoder(strings.NewReader(block.FullText()))

	val, err := parseJSONValue(dec)
	if err != nil {
		return nil, prettifier.NewRenderFailed(err.Error())
	}

	b := &jsonBuilder{}
	writeJSONValue(b, val, 0, jsonCfg)
	b.newline()

	rc := &prettifier.RenderedContent{FormatBadge: r.FormatBadge()}
	for i, segs := range b.lines {
		rc.Lines = append(rc.Lines, prettifier.StyledLine{Segments: segs})
		mapping := prettifier.SourceLineMapping{RenderedLine: i}
		if i < block.LineCount() {
			sl := i
			mapping.SourceLine = &sl
		}
		rc.LineMapping = append(rc.LineMapping, mapping)
	}
	return rc, nil
}

func parseJSONValue(dec *json.Decoder) (jsonValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return jsonValue{}, err
	}
	return parseJSONToken(dec, tok)
}

func parseJSONToken(dec *json.Decoder, tok json.Token) (jsonValue, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			var entries []jsonEntry
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return jsonValue{}, err
				}
				key, _ := keyTok.(string)
				child, err := parseJSONValue(dec)
				if err != nil {
					return jsonValue{}, err
				}
				entries = append(entries, jsonEntry{key: key, val: child})
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return jsonValue{}, err
			}
			return jsonValue{kind: "object", entries: entries}, nil
		case '[':
			var items []jsonValue
			for dec.More() {
				child, err := parseJSONValue(dec)
				if err != nil {
					return jsonValue{}, err
				}
				items = append(items, child)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return jsonValue{}, err
			}
			return jsonValue{kind: "array", items: items}, nil
		}
	case string:
		return jsonValue{kind: "string", str: v}, nil
	case float64:
		return jsonValue{kind: "number", raw: trimFloat(v)}, nil
	case bool:
		return jsonValue{kind: "bool", raw: fmt.Sprintf("%v", v)}, nil
	case nil:
		return jsonValue{kind: "null"}, nil
	}
	return jsonValue{kind: "null"}, nil
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%v", f)
	return s
}

// treeGuide renders the vertical tree-guide bars leading to a nested
// entry's indent level; depth 0 (top-level value) has none.
func treeGuide(depth int) prettifier.StyledSegment {
	if depth == 0 {
		return prettifier.StyledSegment{}
	}
	return prettifier.StyledSegment{Text: strings.Repeat("│ ", depth), Fg: jsonGuideFg}
}

func writeJSONValue(b *jsonBuilder, v jsonValue, depth int, cfg JSONConfig) {
	switch v.kind {
	case "object":
		writeJSONObject(b, v.entries, depth, cfg)
	case "array":
		writeJSONArray(b, v.items, depth, cfg)
	case "string":
		b.push(formatJSONStringSegments(v.str, cfg)...)
	case "number":
		b.push(prettifier.StyledSegment{Text: v.raw, Fg: jsonNumberFg})
		if cfg.TypeAnnotations {
			b.push(prettifier.StyledSegment{Text: " #number", Fg: jsonGuideFg, Italic: true})
		}
	case "bool":
		b.push(prettifier.StyledSegment{Text: v.raw, Fg: jsonBoolFg})
	default:
		b.push(prettifier.StyledSegment{Text: "null", Fg: jsonPunctFg, Italic: true})
	}
}

func writeJSONObject(b *jsonBuilder, entries []jsonEntry, depth int, cfg JSONConfig) {
	if len(entries) == 0 {
		b.push(prettifier.StyledSegment{Text: "{}", Fg: jsonPunctFg})
		return
	}
	if cfg.MaxDepthExpanded > 0 && depth >= cfg.MaxDepthExpanded {
		b.push(prettifier.StyledSegment{Text: fmt.Sprintf("{ %d keys }", len(entries)), Fg: jsonPunctFg, Italic: true})
		return
	}

	if cfg.SortKeys {
		entries = append([]jsonEntry(nil), entries...)
		sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	}

	b.push(prettifier.StyledSegment{Text: "{", Fg: jsonPunctFg})
	b.newline()
	for i, e := range entries {
		keyQuoted, _ := json.Marshal(e.key)
		b.push(treeGuide(depth+1))
		b.push(prettifier.StyledSegment{Text: string(keyQuoted), Fg: jsonKeyFg})
		b.push(prettifier.StyledSegment{Text: ": ", Fg: jsonPunctFg})
		writeJSONValue(b, e.val, depth+1, cfg)
		if i < len(entries)-1 {
			b.push(prettifier.StyledSegment{Text: ",", Fg: jsonPunctFg})
		}
		b.newline()
	}
	b.push(treeGuide(depth))
	b.push(prettifier.StyledSegment{Text: "}", Fg: jsonPunctFg})
}

func writeJSONArray(b *jsonBuilder, items []jsonValue, depth int, cfg JSONConfig) {
	if len(items) == 0 {
		b.push(prettifier.StyledSegment{Text: "[]", Fg: jsonPunctFg})
		return
	}
	if cfg.MaxDepthExpanded > 0 && depth >= cfg.MaxDepthExpanded {
		b.push(prettifier.StyledSegment{Text: fmt.Sprintf("[ %d items ]", len(items)), Fg: jsonPunctFg, Italic: true})
		return
	}

	truncatedCount := 0
	if cfg.MaxArrayDisplay > 0 && len(items) > cfg.MaxArrayDisplay {
		truncatedCount = len(items) - cfg.MaxArrayDisplay
		items = items[:cfg.MaxArrayDisplay]
	}

	b.push(prettifier.StyledSegment{Text: "[", Fg: jsonPunctFg})
	b.newline()
	for i, item := range items {
		b.push(treeGuide(depth + 1))
		writeJSONValue(b, item, depth+1, cfg)
		if i < len(items)-1 || truncatedCount > 0 {
			b.push(prettifier.StyledSegment{Text: ",", Fg: jsonPunctFg})
		}
		b.newline()
	}
	if truncatedCount > 0 {
		b.push(treeGuide(depth + 1))
		b.push(prettifier.StyledSegment{Text: fmt.Sprintf("... (%d more items)", truncatedCount), Fg: jsonPunctFg, Italic: true})
		b.newline()
	}
	b.push(treeGuide(depth))
	b.push(prettifier.StyledSegment{Text: "]", Fg: jsonPunctFg})
}

func formatJSONStringSegments(s string, cfg JSONConfig) []prettifier.StyledSegment {
	truncated := s
	suffix := ""
	if cfg.MaxStringLength > 0 && len(s) > cfg.MaxStringLength {
		truncated = s[:cfg.MaxStringLength]
		suffix = fmt.Sprintf("... (%d more chars)", len(s)-cfg.MaxStringLength)
	}
	quoted, _ := json.Marshal(truncated)
	seg := prettifier.StyledSegment{Text: string(quoted), Fg: jsonStringFg}
	isURL := urlRe.MatchString(s)
	if isURL {
		seg.LinkURL = s
		seg.Underline = true
	}

	segs := []prettifier.StyledSegment{seg}
	if suffix != "" {
		segs = append(segs, prettifier.StyledSegment{Text: suffix, Fg: jsonGuideFg, Italic: true})
	}
	if cfg.TypeAnnotations && isURL {
		segs = append(segs, prettifier.StyledSegment{Text: " #url", Fg: jsonGuideFg, Italic: true})
	}
	return segs
}

func jsonConfigFromExtra(extra map[string]interface{}) JSONConfig {
	cfg := defaultJSONConfig()
	if extra == nil {
		return cfg
	}
	if v, ok := extra["json_max_string_length"].(int); ok {
		cfg.MaxStringLength = v
	}
	if v, ok := extra["json_max_array_display"].(int); ok {
		cfg.MaxArrayDisplay = v
	}
	if v, ok := extra["json_max_depth_expanded"].(int); ok {
		cfg.MaxDepthExpanded = v
	}
	if v, ok := extra["json_sort_keys"].(bool); ok {
		cfg.SortKeys = v
	}
	if v, ok := extra["json_type_annotations"].(bool); ok {
		cfg.TypeAnnotations = v
	}
	return cfg
}
