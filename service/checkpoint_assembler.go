package service

import (
	"fmt"
	"log/slog"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/config"
	"github.com/ludo-technologies/schemascan/internal/logging"
)

// DefaultMaxCheckpointExamples caps the examples kept per checkpoint result
const DefaultMaxCheckpointExamples = 10

// checkpointEvaluation is what an evaluator derives from the detector output
type checkpointEvaluation struct {
	// Issues are the items the status is derived from
	Issues []domain.CheckpointExample

	// Notes are informational findings that never affect the status
	Notes []string

	// Actions are offered only when there is at least one issue
	Actions []string
}

// checkpointDefinition describes one audit topic
type checkpointDefinition struct {
	ID         string
	Title      string
	WarningMax int

	// Clean is the finding reported when there are no issues
	Clean string

	// Headline is the finding reported for n issues, formatted with n
	Headline string

	Evaluate func(run *analysisRun) (checkpointEvaluation, error)
}

// CheckpointAssembler turns evaluations into uniform checkpoint results
type CheckpointAssembler struct {
	config      *config.CheckpointsConfig
	maxExamples int
	logger      *slog.Logger
}

// NewCheckpointAssembler creates a new CheckpointAssembler
func NewCheckpointAssembler(cfg *config.CheckpointsConfig, logger *slog.Logger) *CheckpointAssembler {
	if cfg == nil {
		cfg = &config.CheckpointsConfig{}
	}
	return &CheckpointAssembler{
		config:      cfg,
		maxExamples: DefaultMaxCheckpointExamples,
		logger:      logging.OrDiscard(logger),
	}
}

// Assemble wraps an evaluation into a checkpoint result. Status, findings,
// examples and action items all come from the same issue list.
func (a *CheckpointAssembler) Assemble(def checkpointDefinition, eval checkpointEvaluation) domain.CheckpointResult {
	count := len(eval.Issues)
	warningMax := a.config.WarningThreshold(def.ID, def.WarningMax)

	result := domain.CheckpointResult{
		ID:          def.ID,
		Title:       def.Title,
		Status:      domain.StatusForCount(count, warningMax),
		IssueCount:  count,
		Findings:    []string{},
		Examples:    []domain.CheckpointExample{},
		ActionItems: []string{},
	}

	if count == 0 {
		result.Findings = append(result.Findings, def.Clean)
	} else {
		result.Findings = append(result.Findings, fmt.Sprintf(def.Headline, count))
		result.ActionItems = append(result.ActionItems, eval.Actions...)
	}
	result.Findings = append(result.Findings, eval.Notes...)

	examples := eval.Issues
	if len(examples) > a.maxExamples {
		result.Findings = append(result.Findings,
			fmt.Sprintf("Showing %d of %d examples.", a.maxExamples, len(examples)))
		examples = examples[:a.maxExamples]
	}
	result.Examples = append(result.Examples, examples...)

	return result
}

// Run evaluates one checkpoint. An evaluator error or panic degrades this
// checkpoint only.
func (a *CheckpointAssembler) Run(def checkpointDefinition, run *analysisRun) (result domain.CheckpointResult) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			a.logger.Error("checkpoint degraded", "checkpoint", def.ID, "error", err)
			result = domain.DegradedCheckpoint(def.ID, def.Title, err)
		}
	}()

	eval, err := def.Evaluate(run)
	if err != nil {
		a.logger.Warn("checkpoint degraded", "checkpoint", def.ID, "error", err)
		return domain.DegradedCheckpoint(def.ID, def.Title, err)
	}
	return a.Assemble(def, eval)
}
