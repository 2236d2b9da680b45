package prettifier

// PrettifierConfig is the pipeline-level configuration surface, loaded
// via mapstructure the same way internal/config.Config loads its other
// sub-configs.
type PrettifierConfig struct {
	Enabled                bool    `mapstructure:"enabled"`
	RespectAlternateScreen bool    `mapstructure:"respect_alternate_screen"`
	ConfidenceThreshold    float64 `mapstructure:"confidence_threshold"`
	MaxScanLines           int     `mapstructure:"max_scan_lines"`
	DebounceMs             int     `mapstructure:"debounce_ms"`
	BlankLineThreshold     int     `mapstructure:"blank_line_threshold"`
	DetectionScope         string  `mapstructure:"detection_scope"` // "command_output" | "all" | "manual_only"
	RenderCacheCapacity    int     `mapstructure:"render_cache_capacity"`
	PrettifyThrottleMs     int     `mapstructure:"prettify_throttle_ms"`
	ForceAgentSession      bool    `mapstructure:"force_agent_session"`

	Renderers RenderersConfig        `mapstructure:"renderers"`
	Detectors DetectorOverridesConfig `mapstructure:"detectors"`
}

// RenderersConfig holds per-renderer options, one sub-struct per format.
type RenderersConfig struct {
	Markdown    MarkdownRendererConfig    `mapstructure:"markdown"`
	JSON        JSONRendererConfig        `mapstructure:"json"`
	Diff        DiffRendererConfig        `mapstructure:"diff"`
	StackTrace  StackTraceRendererConfig  `mapstructure:"stack_trace"`
}

// MarkdownRendererConfig controls markdown renderer style (§4.E).
type MarkdownRendererConfig struct {
	LinkStyle     string `mapstructure:"link_style"` // "underline_color" | "inline_url" | "footnote"
	UnderlineH1H2 bool   `mapstructure:"underline_h1_h2"`
}

// JSONRendererConfig controls JSON truncation/collapse behavior (§4.E).
type JSONRendererConfig struct {
	MaxStringLength   int  `mapstructure:"max_string_length"`
	MaxArrayDisplay   int  `mapstructure:"max_array_display"`
	MaxDepthExpanded  int  `mapstructure:"max_depth_expanded"`
	SortKeys          bool `mapstructure:"sort_keys"`
	TypeAnnotations   bool `mapstructure:"type_annotations"`
}

// DiffRendererConfig controls diff layout mode (§4.E).
type DiffRendererConfig struct {
	Mode           string `mapstructure:"mode"` // "inline" | "side_by_side" | "auto"
	SideBySideMinWidth int `mapstructure:"side_by_side_min_width"`
}

// StackTraceRendererConfig controls frame classification/collapsing (§4.E).
type StackTraceRendererConfig struct {
	ApplicationPackages []string `mapstructure:"application_packages"`
	MaxVisibleFrames    int      `mapstructure:"max_visible_frames"`
	KeepTailFrames      int      `mapstructure:"keep_tail_frames"`
}

// DetectorOverridesConfig maps a format id to its detector-level config.
type DetectorOverridesConfig struct {
	Entries map[string]DetectorOverrideEntry `mapstructure:",remain"`
}

// DetectorOverrideEntry is one detector's enabled/priority/rule overrides
// and user-defined rule additions.
type DetectorOverrideEntry struct {
	Enabled      *bool                  `mapstructure:"enabled"`
	Priority     *int                   `mapstructure:"priority"`
	RuleOverrides []ConfigRuleOverride  `mapstructure:"rule_overrides"`
	UserRules    []ConfigUserRule       `mapstructure:"user_rules"`
}

// ConfigRuleOverride is the on-disk shape of a RuleOverride (id ->
// {enabled, weight, scope}).
type ConfigRuleOverride struct {
	ID      string   `mapstructure:"id"`
	Enabled *bool    `mapstructure:"enabled"`
	Weight  *float64 `mapstructure:"weight"`
	Scope   string   `mapstructure:"scope"`
}

// ConfigUserRule is the on-disk shape of a user-defined DetectionRule
// addition.
type ConfigUserRule struct {
	ID             string  `mapstructure:"id"`
	Pattern        string  `mapstructure:"pattern"`
	Weight         float64 `mapstructure:"weight"`
	Scope          string  `mapstructure:"scope"`
	ScopeN         int     `mapstructure:"scope_n"`
	Strength       string  `mapstructure:"strength"` // "definitive" | "strong" | "supporting"
	CommandContext string  `mapstructure:"command_context"`
	Description    string  `mapstructure:"description"`
	Enabled        bool    `mapstructure:"enabled"`
}

// DefaultPrettifierConfig mirrors DefaultPipelineConfig's values so a
// freshly-unmarshaled zero-value config can be detected and replaced.
func DefaultPrettifierConfig() PrettifierConfig {
	return PrettifierConfig{
		Enabled:                true,
		RespectAlternateScreen: true,
		ConfidenceThreshold:    0.6,
		MaxScanLines:           500,
		DebounceMs:             100,
		BlankLineThreshold:     2,
		DetectionScope:         "all",
		RenderCacheCapacity:    64,
		PrettifyThrottleMs:     150,
		Renderers: RenderersConfig{
			Markdown: MarkdownRendererConfig{LinkStyle: "underline_color", UnderlineH1H2: true},
			JSON: JSONRendererConfig{
				MaxStringLength:  200,
				MaxArrayDisplay:  50,
				MaxDepthExpanded: 6,
			},
			Diff: DiffRendererConfig{Mode: "auto", SideBySideMinWidth: 160},
			StackTrace: StackTraceRendererConfig{
				MaxVisibleFrames: 12,
				KeepTailFrames:   2,
			},
		},
	}
}
