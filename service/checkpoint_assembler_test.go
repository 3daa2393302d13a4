package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/config"
	"github.com/ludo-technologies/schemascan/internal/testutil"
)

func testDefinition(evaluate func(*analysisRun) (checkpointEvaluation, error)) checkpointDefinition {
	return checkpointDefinition{
		ID:         "test-topic",
		Title:      "Test topic",
		WarningMax: 2,
		Clean:      "Nothing to report.",
		Headline:   "%d thing(s) to fix.",
		Evaluate:   evaluate,
	}
}

func issueExamples(n int) []domain.CheckpointExample {
	out := make([]domain.CheckpointExample, n)
	for i := range out {
		out[i] = domain.CheckpointExample{Title: fmt.Sprintf("item-%d", i)}
	}
	return out
}

func TestCheckpointAssembler_Assemble(t *testing.T) {
	tests := []struct {
		name       string
		issues     int
		wantStatus domain.CheckpointStatus
	}{
		{"no issues", 0, domain.StatusGood},
		{"one issue", 1, domain.StatusWarning},
		{"at warning max", 2, domain.StatusWarning},
		{"above warning max", 3, domain.StatusIssue},
	}

	assembler := NewCheckpointAssembler(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := assembler.Assemble(testDefinition(nil), checkpointEvaluation{
				Issues:  issueExamples(tt.issues),
				Notes:   []string{"A note."},
				Actions: []string{"Fix it."},
			})

			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, tt.issues, result.IssueCount)
			assert.Len(t, result.Examples, tt.issues)
			require.Len(t, result.Findings, 2)
			assert.Equal(t, "A note.", result.Findings[1])
			if tt.issues == 0 {
				assert.Equal(t, "Nothing to report.", result.Findings[0])
				assert.Empty(t, result.ActionItems)
			} else {
				assert.Equal(t, fmt.Sprintf("%d thing(s) to fix.", tt.issues), result.Findings[0])
				assert.Equal(t, []string{"Fix it."}, result.ActionItems)
			}
		})
	}
}

func TestCheckpointAssembler_WarningThresholdOverride(t *testing.T) {
	cfg := &config.CheckpointsConfig{WarningThresholds: map[string]int{"test-topic": 5}}
	result := NewCheckpointAssembler(cfg, nil).Assemble(testDefinition(nil), checkpointEvaluation{Issues: issueExamples(4)})
	assert.Equal(t, domain.StatusWarning, result.Status)
}

func TestCheckpointAssembler_CapsExamples(t *testing.T) {
	result := NewCheckpointAssembler(nil, nil).Assemble(testDefinition(nil), checkpointEvaluation{Issues: issueExamples(14)})

	assert.Equal(t, 14, result.IssueCount)
	assert.Len(t, result.Examples, DefaultMaxCheckpointExamples)
	assert.Contains(t, result.Findings, "Showing 10 of 14 examples.")
	assert.Equal(t, "item-0", result.Examples[0].Title)
}

func TestCheckpointAssembler_RunDegrades(t *testing.T) {
	run := newAnalysisRun(config.DefaultConfig(), testutil.NewSchema().Build())
	assembler := NewCheckpointAssembler(nil, nil)

	t.Run("evaluator error", func(t *testing.T) {
		result := assembler.Run(testDefinition(func(*analysisRun) (checkpointEvaluation, error) {
			return checkpointEvaluation{}, errors.New("detector failed")
		}), run)

		assert.True(t, result.Degraded)
		assert.Equal(t, domain.StatusWarning, result.Status)
		assert.Equal(t, "detector failed", result.Error)
		assert.Equal(t, []string{"This topic could not be analyzed; results are incomplete."}, result.Findings)
	})

	t.Run("evaluator panic", func(t *testing.T) {
		result := assembler.Run(testDefinition(func(*analysisRun) (checkpointEvaluation, error) {
			panic("index out of range")
		}), run)

		assert.True(t, result.Degraded)
		assert.Equal(t, "test-topic", result.ID)
		assert.Contains(t, result.Error, "index out of range")
		assert.Empty(t, result.Examples)
	})
}

func TestLazy_PanicBecomesError(t *testing.T) {
	var l lazy[int]
	calls := 0

	_, err := l.get(func() int {
		calls++
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyzer panic: boom")

	// The failure is remembered for every later caller
	_, err = l.get(func() int {
		calls++
		return 1
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestAnalysisRun_SharesArtifacts(t *testing.T) {
	run := newAnalysisRun(config.DefaultConfig(), testutil.Chain("A", "B", "C"))

	first, err := run.Cycles()
	require.NoError(t, err)
	second, err := run.Cycles()
	require.NoError(t, err)
	assert.Same(t, first, second)

	artifacts := run.artifacts()
	assert.NotNil(t, artifacts.Cycles)
	assert.NotNil(t, artifacts.Paths)
	assert.NotNil(t, artifacts.Similarity)
}

func TestAnalyzeRelations(t *testing.T) {
	schema := testutil.NewSchema().
		Model("Article", testutil.Ref("author", "Author")).
		Model("Author", testutil.Ref("article", "Article")).
		Build()

	graph, cycles, err := AnalyzeRelations(nil, schema)
	require.NoError(t, err)
	assert.Equal(t, 2, graph.NodeCount())
	assert.Len(t, cycles.BidirectionalPairs, 1)

	_, _, err = AnalyzeRelations(nil, nil)
	assert.Error(t, err)
}
