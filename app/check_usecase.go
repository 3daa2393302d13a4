package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/constants"
	"github.com/ludo-technologies/schemascan/internal/version"
)

// CheckConfig holds the CI gate thresholds
type CheckConfig struct {
	// MinScore fails the gate when the overall score is below it (0 = no limit)
	MinScore int

	// FailOn is the lowest checkpoint status that fails the gate
	FailOn domain.CheckpointStatus

	Audit AuditConfig
}

// ParseFailOn converts a --fail-on value into the status it names
func ParseFailOn(value string) (domain.CheckpointStatus, error) {
	status, err := domain.ParseCheckpointStatus(value)
	if err != nil || status == domain.StatusGood {
		return domain.StatusIssue, domain.NewInvalidInputError(
			fmt.Sprintf("invalid fail-on value %q, must be issue or warning", value), err)
	}
	return status, nil
}

// CheckUseCase runs an audit and evaluates it against gate thresholds
type CheckUseCase struct {
	audit *AuditUseCase
}

// NewCheckUseCase creates a check use case over an audit use case
func NewCheckUseCase(audit *AuditUseCase) *CheckUseCase {
	return &CheckUseCase{audit: audit}
}

// Execute audits the schema and returns the gate verdict
func (uc *CheckUseCase) Execute(ctx context.Context, cfg CheckConfig) (*domain.CheckResult, error) {
	start := time.Now()
	// Reports are not written for a check run
	cfg.Audit.OutputWriter = nil

	response, err := uc.audit.Execute(ctx, cfg.Audit)
	if err != nil {
		return nil, err
	}

	result := EvaluateCheck(response, cfg.MinScore, cfg.FailOn)
	result.Duration = time.Since(start).Milliseconds()
	return result, nil
}

// EvaluateCheck derives the gate verdict of an audit: one violation per
// checkpoint at or above failOn, plus one when the overall score is below minScore
func EvaluateCheck(response *domain.AuditResponse, minScore int, failOn domain.CheckpointStatus) *domain.CheckResult {
	result := &domain.CheckResult{
		Passed:      true,
		ExitCode:    constants.ExitCodeSuccess,
		RunID:       response.RunID,
		Violations:  []domain.CheckViolation{},
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
		Summary: domain.CheckSummary{
			EntitiesAnalyzed:   response.Summary.TotalEntities,
			CheckpointsRun:     len(response.Checkpoints),
			IssueCheckpoints:   response.Summary.IssueCheckpoints,
			WarningCheckpoints: response.Summary.WarningCheckpoints,
			OverallScore:       response.Overall.Score,
			Level:              response.Overall.Level,
		},
	}

	for _, cp := range response.Checkpoints {
		if cp.Status < failOn || cp.Status == domain.StatusGood {
			continue
		}
		severity := "warning"
		if cp.Status == domain.StatusIssue {
			severity = "error"
		}
		message := cp.Title
		if len(cp.Findings) > 0 {
			message = fmt.Sprintf("%s: %s", cp.Title, cp.Findings[0])
		}
		result.Violations = append(result.Violations, domain.CheckViolation{
			Category:  "checkpoint",
			Rule:      cp.ID,
			Severity:  severity,
			Message:   message,
			Actual:    cp.Status.String(),
			Threshold: failOn.String(),
		})
	}

	if minScore > 0 && response.Overall.Score < minScore {
		result.Violations = append(result.Violations, domain.CheckViolation{
			Category:  "score",
			Rule:      "min-score",
			Severity:  "error",
			Message:   fmt.Sprintf("Overall score %d (%s) is below %d", response.Overall.Score, response.Overall.Level, minScore),
			Actual:    strconv.Itoa(response.Overall.Score),
			Threshold: strconv.Itoa(minScore),
		})
	}

	result.Summary.TotalViolations = len(result.Violations)
	if len(result.Violations) > 0 {
		result.Passed = false
		result.ExitCode = constants.ExitCodeViolation
	}
	return result
}
