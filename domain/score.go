package domain

import (
	"fmt"
	"strings"
)

// Dimension names a scoring axis
type Dimension string

const (
	DimensionStructure   Dimension = "structure"
	DimensionReuse       Dimension = "reuse"
	DimensionEditorial   Dimension = "editorial"
	DimensionScalability Dimension = "scalability"
)

// AllDimensions returns the scoring axes in report order
func AllDimensions() []Dimension {
	return []Dimension{DimensionStructure, DimensionReuse, DimensionEditorial, DimensionScalability}
}

// Score bounds
const (
	ScoreBaseline = 100
	ScoreFloor    = 20
	ScoreCeiling  = 100
)

// Level boundaries for the overall score
const (
	ScoreThresholdExcellent = 90
	ScoreThresholdGood      = 75
	ScoreThresholdFair      = 60
	ScoreThresholdNeedsWork = 40
)

// QualityLevel is the qualitative label for a composite score
type QualityLevel string

const (
	LevelExcellent        QualityLevel = "Excellent"
	LevelGood             QualityLevel = "Good"
	LevelFair             QualityLevel = "Fair"
	LevelNeedsImprovement QualityLevel = "Needs Improvement"
	LevelCritical         QualityLevel = "Critical"
)

// LevelForScore maps a 0-100 score to its qualitative level
func LevelForScore(score int) QualityLevel {
	switch {
	case score >= ScoreThresholdExcellent:
		return LevelExcellent
	case score >= ScoreThresholdGood:
		return LevelGood
	case score >= ScoreThresholdFair:
		return LevelFair
	case score >= ScoreThresholdNeedsWork:
		return LevelNeedsImprovement
	default:
		return LevelCritical
	}
}

// ScoreContribution is one signed, reasoned change to a dimension score
type ScoreContribution struct {
	Reason  string `json:"reason" yaml:"reason"`
	Value   int    `json:"value" yaml:"value"`
	Details string `json:"details,omitempty" yaml:"details,omitempty"`
}

// DimensionScore is one scoring axis with its explainable breakdown
type DimensionScore struct {
	Dimension  Dimension           `json:"dimension" yaml:"dimension"`
	Score      int                 `json:"score" yaml:"score"`
	RawScore   int                 `json:"raw_score" yaml:"raw_score"`
	Baseline   int                 `json:"baseline" yaml:"baseline"`
	Assessment string              `json:"assessment" yaml:"assessment"`
	Breakdown  []ScoreContribution `json:"breakdown" yaml:"breakdown"`
	Formula    string              `json:"formula" yaml:"formula"`
}

// Reconciles reports whether baseline plus contributions equals the raw score
func (d DimensionScore) Reconciles() bool {
	sum := d.Baseline
	for _, c := range d.Breakdown {
		sum += c.Value
	}
	return sum == d.RawScore
}

// FormatFormula renders the arithmetic behind a dimension score,
// e.g. "100 - 16 + 2 = 86", noting clamping when it applied
func FormatFormula(baseline int, contributions []ScoreContribution, raw, final int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d", baseline))
	for _, c := range contributions {
		if c.Value < 0 {
			sb.WriteString(fmt.Sprintf(" - %d", -c.Value))
		} else {
			sb.WriteString(fmt.Sprintf(" + %d", c.Value))
		}
	}
	sb.WriteString(fmt.Sprintf(" = %d", raw))
	if raw != final {
		sb.WriteString(fmt.Sprintf(" (clamped to %d)", final))
	}
	return sb.String()
}

// OverallScore is the composite of the configured dimension scores
type OverallScore struct {
	Score      int          `json:"score" yaml:"score"`
	Level      QualityLevel `json:"level" yaml:"level"`
	Dimensions []Dimension  `json:"dimensions" yaml:"dimensions"`
}
