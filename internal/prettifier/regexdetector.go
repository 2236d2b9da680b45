package prettifier

import "regexp"

// DetectionRule is one regex + scope + weight + strength contributing to a
// format's confidence score.
type DetectionRule struct {
	ID             string
	Pattern        *regexp.Regexp
	Weight         float64
	Scope          RuleScope
	Strength       RuleStrength
	Origin         RuleSource
	CommandContext *regexp.Regexp // nil means no command-context restriction
	Description    string
	Enabled        bool
}

// RuleOverride patches an existing rule by id. Nil fields are left
// unchanged; this mirrors the original's Option-based "only touch what
// was set" patch semantics, distinct from MergeRules below.
type RuleOverride struct {
	ID      string
	Enabled *bool
	Weight  *float64
	Scope   *RuleScope
}

// RegexDetector evaluates a weighted rule set against a block and emits a
// confidence score plus the list of rules that matched.
type RegexDetector struct {
	FormatID                   string
	DisplayName                string
	Rules                      []DetectionRule
	ConfidenceThreshold        float64
	MinMatchingRules           int
	DefinitiveRuleShortcircuit bool
}

// RegexDetectorBuilder constructs a RegexDetector with the spec's default
// tuning: confidence_threshold=0.6, min_matching_rules=1,
// definitive_rule_shortcircuit=true.
type RegexDetectorBuilder struct {
	d RegexDetector
}

// NewRegexDetectorBuilder starts a builder for the given format.
func NewRegexDetectorBuilder(formatID, displayName string) *RegexDetectorBuilder {
	return &RegexDetectorBuilder{d: RegexDetector{
		FormatID:                   formatID,
		DisplayName:                displayName,
		ConfidenceThreshold:        0.6,
		MinMatchingRules:           1,
		DefinitiveRuleShortcircuit: true,
	}}
}

func (b *RegexDetectorBuilder) Rule(r DetectionRule) *RegexDetectorBuilder {
	b.d.Rules = append(b.d.Rules, r)
	return b
}

func (b *RegexDetectorBuilder) ConfidenceThreshold(v float64) *RegexDetectorBuilder {
	b.d.ConfidenceThreshold = v
	return b
}

func (b *RegexDetectorBuilder) MinMatchingRules(n int) *RegexDetectorBuilder {
	b.d.MinMatchingRules = n
	return b
}

func (b *RegexDetectorBuilder) DefinitiveShortcircuit(enabled bool) *RegexDetectorBuilder {
	b.d.DefinitiveRuleShortcircuit = enabled
	return b
}

func (b *RegexDetectorBuilder) Build() *RegexDetector {
	d := b.d
	return &d
}

// textForScope returns the lines a rule's scope says to test, plus the
// single joined-text variant used for FullBlock/PrecedingCommand scopes.
func textForScope(block *ContentBlock, scope RuleScope) (lines []string, joined string, useJoined bool) {
	switch scope.Kind {
	case "any_line":
		return block.Lines, "", false
	case "first_lines":
		return block.FirstLines(scope.N), "", false
	case "last_lines":
		return block.LastLines(scope.N), "", false
	case "full_block":
		return nil, block.FullText(), true
	case "preceding_command":
		return nil, block.PrecedingCommand, true
	default:
		return block.Lines, "", false
	}
}

func ruleMatches(rule DetectionRule, block *ContentBlock) bool {
	lines, joined, useJoined := textForScope(block, rule.Scope)
	if useJoined {
		if joined == "" {
			return false
		}
		return rule.Pattern.MatchString(joined)
	}
	for _, l := range lines {
		if rule.Pattern.MatchString(l) {
			return true
		}
	}
	return false
}

// Detect runs the full rule evaluation algorithm against a block.
func (d *RegexDetector) Detect(block *ContentBlock) *DetectionResult {
	var totalWeight float64
	var matchCount int
	var matched []string

	for _, rule := range d.Rules {
		if !rule.Enabled {
			continue
		}
		if rule.CommandContext != nil && (block.PrecedingCommand == "" || !rule.CommandContext.MatchString(block.PrecedingCommand)) {
			continue
		}
		if !ruleMatches(rule, block) {
			continue
		}

		totalWeight += rule.Weight
		matchCount++
		matched = append(matched, rule.ID)

		if d.DefinitiveRuleShortcircuit && rule.Strength == Definitive {
			return &DetectionResult{
				FormatID:     d.FormatID,
				Confidence:   1.0,
				MatchedRules: []string{rule.ID},
				Source:       AutoDetected,
			}
		}
	}

	if matchCount < d.MinMatchingRules {
		return nil
	}
	confidence := totalWeight
	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < d.ConfidenceThreshold {
		return nil
	}
	return &DetectionResult{
		FormatID:     d.FormatID,
		Confidence:   confidence,
		MatchedRules: matched,
		Source:       AutoDetected,
	}
}

// QuickMatch scans only Strong or Definitive rules whose scope is AnyLine
// or FirstLines against at most the first 5 input lines. Used by the
// registry to prune detectors before calling the (more expensive) Detect.
func (d *RegexDetector) QuickMatch(firstLines []string) bool {
	sample := firstLines
	if len(sample) > 5 {
		sample = sample[:5]
	}
	for _, rule := range d.Rules {
		if !rule.Enabled {
			continue
		}
		if rule.Strength != Strong && rule.Strength != Definitive {
			continue
		}
		if rule.Scope.Kind != "any_line" && rule.Scope.Kind != "first_lines" {
			continue
		}
		for _, l := range sample {
			if rule.Pattern.MatchString(l) {
				return true
			}
		}
	}
	return false
}

// DetectionRules returns the detector's current rule set.
func (d *RegexDetector) DetectionRules() []DetectionRule {
	return d.Rules
}

// MergeRules appends user-defined rules, replacing any existing rule that
// shares an id. This is the "full replace" override mechanism.
func (d *RegexDetector) MergeRules(rules []DetectionRule) {
	for _, nr := range rules {
		replaced := false
		for i, existing := range d.Rules {
			if existing.ID == nr.ID {
				d.Rules[i] = nr
				replaced = true
				break
			}
		}
		if !replaced {
			d.Rules = append(d.Rules, nr)
		}
	}
}

// ApplyOverrides patches existing rules in place by id: only the fields
// set on the override are changed, and overrides naming an unknown id are
// silently ignored. This is the lightweight "patch" override mechanism,
// distinct from MergeRules.
func (d *RegexDetector) ApplyOverrides(overrides []RuleOverride) {
	for _, o := range overrides {
		for i := range d.Rules {
			if d.Rules[i].ID != o.ID {
				continue
			}
			if o.Enabled != nil {
				d.Rules[i].Enabled = *o.Enabled
			}
			if o.Weight != nil {
				d.Rules[i].Weight = *o.Weight
			}
			if o.Scope != nil {
				d.Rules[i].Scope = *o.Scope
			}
			break
		}
	}
}
