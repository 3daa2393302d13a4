package domain

// CheckResult represents the result of a CI quality gate over an audit
type CheckResult struct {
	Passed      bool             `json:"passed"`
	ExitCode    int              `json:"exit_code"`
	RunID       string           `json:"run_id"`
	Violations  []CheckViolation `json:"violations"`
	Summary     CheckSummary     `json:"summary"`
	Duration    int64            `json:"duration_ms"`
	GeneratedAt string           `json:"generated_at"`
	Version     string           `json:"version"`
}

// CheckViolation represents a single threshold violation
type CheckViolation struct {
	Category  string `json:"category"`            // checkpoint, score
	Rule      string `json:"rule"`                // checkpoint ID, min-score, min-dimension-score
	Severity  string `json:"severity"`            // error, warning
	Message   string `json:"message"`             // Human-readable description
	Actual    string `json:"actual"`              // Actual value
	Threshold string `json:"threshold,omitempty"` // Configured threshold
}

// CheckSummary provides aggregate statistics
type CheckSummary struct {
	EntitiesAnalyzed   int          `json:"entities_analyzed"`
	TotalViolations    int          `json:"total_violations"`
	CheckpointsRun     int          `json:"checkpoints_run"`
	IssueCheckpoints   int          `json:"issue_checkpoints"`
	WarningCheckpoints int          `json:"warning_checkpoints"`
	OverallScore       int          `json:"overall_score"`
	Level              QualityLevel `json:"level"`
}
