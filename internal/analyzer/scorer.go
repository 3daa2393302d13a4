package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/ludo-technologies/schemascan/domain"
)

// ScoreSignal names one countable finding the scorer reduces
type ScoreSignal string

const (
	SignalCycles                 ScoreSignal = "cycles"
	SignalDanglingReferences     ScoreSignal = "dangling_references"
	SignalEmptyEntities          ScoreSignal = "empty_entities"
	SignalOverNestedComponents   ScoreSignal = "over_nested_components"
	SignalSelfReferences         ScoreSignal = "self_references"
	SignalRedundantGroups        ScoreSignal = "redundant_groups"
	SignalOverlappingPairs       ScoreSignal = "overlapping_pairs"
	SignalAdHocPatterns          ScoreSignal = "adhoc_patterns"
	SignalDuplicateEnumerations  ScoreSignal = "duplicate_enumerations"
	SignalOrphanComponents       ScoreSignal = "orphan_components"
	SignalSharedComponents       ScoreSignal = "shared_components"
	SignalUndocumentedEntities   ScoreSignal = "undocumented_entities"
	SignalSingleValueEnums       ScoreSignal = "single_value_enumerations"
	SignalPagesWithoutSEO        ScoreSignal = "pages_without_seo"
	SignalUnusedModels           ScoreSignal = "unused_models"
	SignalHighCostPaths          ScoreSignal = "high_cost_paths"
	SignalMediumCostPaths        ScoreSignal = "medium_cost_paths"
	SignalNestingOverRecommended ScoreSignal = "nesting_over_recommended"
	SignalOversizedEntities      ScoreSignal = "oversized_entities"
)

// ScoreRule turns the count of one signal into a bounded contribution.
// PerItem and Cap carry the same sign.
type ScoreRule struct {
	Dimension domain.Dimension
	Signal    ScoreSignal
	Reason    string
	PerItem   int
	Cap       int
}

// ScoreRules is the full contribution table, in breakdown order
var ScoreRules = []ScoreRule{
	{domain.DimensionStructure, SignalCycles, "Relation cycles", -8, -24},
	{domain.DimensionStructure, SignalDanglingReferences, "Dangling references", -10, -30},
	{domain.DimensionStructure, SignalEmptyEntities, "Entities without fields", -5, -15},
	{domain.DimensionStructure, SignalOverNestedComponents, "Over-nested components", -6, -18},
	{domain.DimensionStructure, SignalSelfReferences, "Self-referencing entities", -1, -3},

	{domain.DimensionReuse, SignalRedundantGroups, "Redundant model groups", -12, -36},
	{domain.DimensionReuse, SignalOverlappingPairs, "Overlapping model pairs", -6, -24},
	{domain.DimensionReuse, SignalAdHocPatterns, "Ad-hoc repeated field patterns", -4, -20},
	{domain.DimensionReuse, SignalDuplicateEnumerations, "Duplicate enumerations", -5, -15},
	{domain.DimensionReuse, SignalOrphanComponents, "Unreferenced components", -3, -15},
	{domain.DimensionReuse, SignalSharedComponents, "Components reused across models", 2, 10},

	{domain.DimensionEditorial, SignalUndocumentedEntities, "Entities with undocumented fields", -4, -24},
	{domain.DimensionEditorial, SignalSingleValueEnums, "Single-value enumerations", -3, -12},
	{domain.DimensionEditorial, SignalPagesWithoutSEO, "Pages without SEO fields", -5, -20},
	{domain.DimensionEditorial, SignalUnusedModels, "Models without content", -3, -15},

	{domain.DimensionScalability, SignalHighCostPaths, "High-cost relation paths", -6, -30},
	{domain.DimensionScalability, SignalMediumCostPaths, "Medium-cost relation paths", -2, -10},
	{domain.DimensionScalability, SignalNestingOverRecommended, "Nesting levels over recommended", -5, -20},
	{domain.DimensionScalability, SignalOversizedEntities, "Oversized entities", -3, -15},
}

// ScoreFinding is the count behind one signal and the items that make it up
type ScoreFinding struct {
	Count int
	Items []string
}

// ScoreFindings maps each signal to its already-computed finding
type ScoreFindings map[ScoreSignal]ScoreFinding

// Add records a finding from its item list
func (f ScoreFindings) Add(signal ScoreSignal, items []string) {
	f[signal] = ScoreFinding{Count: len(items), Items: items}
}

// AddCount records a finding that has a count but no item names
func (f ScoreFindings) AddCount(signal ScoreSignal, count int) {
	f[signal] = ScoreFinding{Count: count}
}

// ScorerConfig holds scorer bounds
type ScorerConfig struct {
	Baseline int
	Floor    int

	// MaxDetailItems caps the item names listed in a contribution's details
	MaxDetailItems int
}

// DefaultScorerConfig returns a config with sensible defaults
func DefaultScorerConfig() *ScorerConfig {
	return &ScorerConfig{
		Baseline:       domain.ScoreBaseline,
		Floor:          domain.ScoreFloor,
		MaxDetailItems: 5,
	}
}

// Scorer reduces findings into dimension scores. It never runs detectors.
type Scorer struct {
	config *ScorerConfig
	rules  []ScoreRule
}

// NewScorer creates a new Scorer over the default rule table
func NewScorer(config *ScorerConfig) *Scorer {
	if config == nil {
		config = DefaultScorerConfig()
	}
	return &Scorer{config: config, rules: ScoreRules}
}

// Contribution computes the contribution of one rule, or false when the signal is absent
func (s *Scorer) Contribution(rule ScoreRule, finding ScoreFinding) (domain.ScoreContribution, bool) {
	if finding.Count <= 0 {
		return domain.ScoreContribution{}, false
	}

	magnitude := min(finding.Count*abs(rule.PerItem), abs(rule.Cap))
	value := magnitude
	if rule.PerItem < 0 {
		value = -magnitude
	}

	return domain.ScoreContribution{
		Reason:  fmt.Sprintf("%s (%d)", rule.Reason, finding.Count),
		Value:   value,
		Details: s.details(finding.Items),
	}, true
}

// ScoreDimension applies every rule of one dimension to the baseline
func (s *Scorer) ScoreDimension(dimension domain.Dimension, findings ScoreFindings) domain.DimensionScore {
	breakdown := []domain.ScoreContribution{}
	raw := s.config.Baseline

	for _, rule := range s.rules {
		if rule.Dimension != dimension {
			continue
		}
		if c, ok := s.Contribution(rule, findings[rule.Signal]); ok {
			breakdown = append(breakdown, c)
			raw += c.Value
		}
	}

	score := min(max(raw, s.config.Floor), domain.ScoreCeiling)

	return domain.DimensionScore{
		Dimension:  dimension,
		Score:      score,
		RawScore:   raw,
		Baseline:   s.config.Baseline,
		Assessment: assessment(dimension, score),
		Breakdown:  breakdown,
		Formula:    domain.FormatFormula(s.config.Baseline, breakdown, raw, score),
	}
}

// Score computes the requested dimension scores and their composite.
// An empty dimension list scores every dimension.
func (s *Scorer) Score(findings ScoreFindings, dimensions []domain.Dimension) ([]domain.DimensionScore, domain.OverallScore) {
	if len(dimensions) == 0 {
		dimensions = domain.AllDimensions()
	}

	scores := make([]domain.DimensionScore, 0, len(dimensions))
	for _, d := range dimensions {
		scores = append(scores, s.ScoreDimension(d, findings))
	}

	return scores, Composite(scores)
}

// Composite returns the rounded mean of the dimension scores and its level
func Composite(scores []domain.DimensionScore) domain.OverallScore {
	overall := domain.OverallScore{Dimensions: make([]domain.Dimension, 0, len(scores))}
	if len(scores) == 0 {
		overall.Score = domain.ScoreCeiling
		overall.Level = domain.LevelForScore(overall.Score)
		return overall
	}

	sum := 0
	for _, s := range scores {
		sum += s.Score
		overall.Dimensions = append(overall.Dimensions, s.Dimension)
	}
	overall.Score = int(math.Round(float64(sum) / float64(len(scores))))
	overall.Level = domain.LevelForScore(overall.Score)
	return overall
}

func (s *Scorer) details(items []string) string {
	if len(items) == 0 {
		return ""
	}
	if s.config.MaxDetailItems > 0 && len(items) > s.config.MaxDetailItems {
		shown := strings.Join(items[:s.config.MaxDetailItems], ", ")
		return fmt.Sprintf("%s and %d more", shown, len(items)-s.config.MaxDetailItems)
	}
	return strings.Join(items, ", ")
}

var dimensionSubjects = map[domain.Dimension]string{
	domain.DimensionStructure:   "structural",
	domain.DimensionReuse:       "reuse",
	domain.DimensionEditorial:   "editorial",
	domain.DimensionScalability: "scalability",
}

func assessment(dimension domain.Dimension, score int) string {
	subject := dimensionSubjects[dimension]
	if subject == "" {
		subject = string(dimension)
	}
	switch domain.LevelForScore(score) {
	case domain.LevelExcellent:
		return fmt.Sprintf("No significant %s problems detected", subject)
	case domain.LevelGood:
		return fmt.Sprintf("Minor %s issues", subject)
	case domain.LevelFair:
		return fmt.Sprintf("Several %s issues worth addressing", subject)
	case domain.LevelNeedsImprovement:
		return fmt.Sprintf("Substantial %s problems", subject)
	default:
		return fmt.Sprintf("Critical %s problems", subject)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
