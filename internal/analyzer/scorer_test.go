package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/schemascan/domain"
)

func TestScoreNoFindings(t *testing.T) {
	scores, overall := NewScorer(nil).Score(ScoreFindings{}, nil)

	require.Len(t, scores, 4)
	for _, s := range scores {
		assert.Equal(t, 100, s.Score, s.Dimension)
		assert.Empty(t, s.Breakdown)
		assert.Equal(t, "100 = 100", s.Formula)
	}
	assert.Equal(t, 100, overall.Score)
	assert.Equal(t, domain.LevelExcellent, overall.Level)
}

func TestScoreStructureContributions(t *testing.T) {
	findings := ScoreFindings{}
	findings.Add(SignalCycles, []string{"A → B → C", "D → E → F"})
	findings.Add(SignalDanglingReferences, []string{"Page.seo"})

	score := NewScorer(nil).ScoreDimension(domain.DimensionStructure, findings)

	require.Len(t, score.Breakdown, 2)
	assert.Equal(t, -16, score.Breakdown[0].Value)
	assert.Equal(t, "Relation cycles (2)", score.Breakdown[0].Reason)
	assert.Equal(t, "A → B → C, D → E → F", score.Breakdown[0].Details)
	assert.Equal(t, -10, score.Breakdown[1].Value)
	assert.Equal(t, 74, score.Score)
	assert.Equal(t, "100 - 16 - 10 = 74", score.Formula)
	assert.True(t, score.Reconciles())
}

func TestScoreCapsPerRule(t *testing.T) {
	findings := ScoreFindings{}
	findings.AddCount(SignalCycles, 10)

	score := NewScorer(nil).ScoreDimension(domain.DimensionStructure, findings)

	require.Len(t, score.Breakdown, 1)
	assert.Equal(t, -24, score.Breakdown[0].Value)
	assert.Equal(t, 76, score.Score)
}

func TestScorePositiveContribution(t *testing.T) {
	findings := ScoreFindings{}
	findings.AddCount(SignalRedundantGroups, 1)
	findings.Add(SignalSharedComponents, []string{"Seo", "Button", "Image"})

	score := NewScorer(nil).ScoreDimension(domain.DimensionReuse, findings)

	assert.Equal(t, "100 - 12 + 6 = 94", score.Formula)
	assert.Equal(t, 94, score.Score)
}

func TestScoreClampsToCeiling(t *testing.T) {
	findings := ScoreFindings{}
	findings.AddCount(SignalSharedComponents, 20)

	score := NewScorer(nil).ScoreDimension(domain.DimensionReuse, findings)

	assert.Equal(t, 110, score.RawScore)
	assert.Equal(t, 100, score.Score)
	assert.Equal(t, "100 + 10 = 110 (clamped to 100)", score.Formula)
	assert.True(t, score.Reconciles())
}

func TestScoreClampsToFloor(t *testing.T) {
	findings := ScoreFindings{}
	for _, signal := range []ScoreSignal{
		SignalCycles, SignalDanglingReferences, SignalEmptyEntities,
		SignalOverNestedComponents, SignalSelfReferences,
	} {
		findings.AddCount(signal, 50)
	}

	score := NewScorer(nil).ScoreDimension(domain.DimensionStructure, findings)

	assert.Equal(t, 10, score.RawScore)
	assert.Equal(t, domain.ScoreFloor, score.Score)
	assert.Equal(t, "100 - 24 - 30 - 15 - 18 - 3 = 10 (clamped to 20)", score.Formula)
	assert.True(t, score.Reconciles())
}

func TestScoreBoundsForAnyCounts(t *testing.T) {
	scorer := NewScorer(nil)
	for count := 0; count < 30; count += 3 {
		findings := ScoreFindings{}
		for _, rule := range ScoreRules {
			findings.AddCount(rule.Signal, count)
		}
		scores, overall := scorer.Score(findings, nil)
		for _, s := range scores {
			assert.GreaterOrEqual(t, s.Score, domain.ScoreFloor)
			assert.LessOrEqual(t, s.Score, domain.ScoreCeiling)
			assert.True(t, s.Reconciles(), "breakdown must reconcile for %s", s.Dimension)
		}
		assert.GreaterOrEqual(t, overall.Score, domain.ScoreFloor)
	}
}

func TestScoreDetailsTruncated(t *testing.T) {
	findings := ScoreFindings{}
	findings.Add(SignalOrphanComponents, []string{"A", "B", "C", "D", "E", "F", "G"})

	score := NewScorer(nil).ScoreDimension(domain.DimensionReuse, findings)

	require.Len(t, score.Breakdown, 1)
	assert.Equal(t, "A, B, C, D, E and 2 more", score.Breakdown[0].Details)
}

func TestComposite(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   int
		level  domain.QualityLevel
	}{
		{"all perfect", []int{100, 100, 100, 100}, 100, domain.LevelExcellent},
		{"mixed", []int{100, 74, 94, 100}, 92, domain.LevelExcellent},
		{"rounds half up", []int{75, 76}, 76, domain.LevelGood},
		{"fair", []int{60, 61}, 61, domain.LevelFair},
		{"needs improvement", []int{40, 45}, 43, domain.LevelNeedsImprovement},
		{"critical", []int{20, 30}, 25, domain.LevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var scores []domain.DimensionScore
			for i, s := range tt.scores {
				scores = append(scores, domain.DimensionScore{Dimension: domain.AllDimensions()[i%4], Score: s})
			}
			overall := Composite(scores)
			assert.Equal(t, tt.want, overall.Score)
			assert.Equal(t, tt.level, overall.Level)
		})
	}
}

func TestScoreSelectedDimensions(t *testing.T) {
	scores, overall := NewScorer(nil).Score(ScoreFindings{}, []domain.Dimension{domain.DimensionEditorial})

	require.Len(t, scores, 1)
	assert.Equal(t, domain.DimensionEditorial, scores[0].Dimension)
	assert.Equal(t, []domain.Dimension{domain.DimensionEditorial}, overall.Dimensions)
}
