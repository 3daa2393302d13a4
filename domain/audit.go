package domain

import (
	"context"
	"io"
	"time"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatDOT  OutputFormat = "dot"
)

// AuditRequest represents a request for a schema audit
type AuditRequest struct {
	// Schema is the snapshot to audit
	Schema *Schema

	// SchemaPath is where the snapshot was loaded from (informational)
	SchemaPath string

	// Checkpoints restricts the run to these checkpoint IDs (empty = all enabled)
	Checkpoints []string

	// Dimensions restricts the composite score to these axes (empty = all)
	Dimensions []Dimension

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	ShowDetails  bool
}

// AuditArtifacts are the raw detector outputs that reports render as examples
type AuditArtifacts struct {
	Cycles     *CycleAnalysis      `json:"cycles,omitempty" yaml:"cycles,omitempty"`
	Paths      *PathAnalysis       `json:"paths,omitempty" yaml:"paths,omitempty"`
	Nesting    []NestingDepth      `json:"nesting,omitempty" yaml:"nesting,omitempty"`
	Similarity *SimilarityAnalysis `json:"similarity,omitempty" yaml:"similarity,omitempty"`
	Dangling   []DanglingReference `json:"dangling,omitempty" yaml:"dangling,omitempty"`
}

// AuditSummary provides aggregate statistics for a run
type AuditSummary struct {
	TotalEntities      int `json:"total_entities" yaml:"total_entities"`
	Models             int `json:"models" yaml:"models"`
	Components         int `json:"components" yaml:"components"`
	Enumerations       int `json:"enumerations" yaml:"enumerations"`
	TotalFields        int `json:"total_fields" yaml:"total_fields"`
	TotalRelations     int `json:"total_relations" yaml:"total_relations"`
	ExcludedEntities   int `json:"excluded_entities" yaml:"excluded_entities"`
	CountedEntities    int `json:"counted_entities" yaml:"counted_entities"`
	GoodCheckpoints    int `json:"good_checkpoints" yaml:"good_checkpoints"`
	WarningCheckpoints int `json:"warning_checkpoints" yaml:"warning_checkpoints"`
	IssueCheckpoints   int `json:"issue_checkpoints" yaml:"issue_checkpoints"`

	// PurposeDistribution counts entities per detected purpose label
	PurposeDistribution map[string]int `json:"purpose_distribution,omitempty" yaml:"purpose_distribution,omitempty"`

	// FieldCategories counts fields per detected category label
	FieldCategories map[string]int `json:"field_categories,omitempty" yaml:"field_categories,omitempty"`
}

// AuditResponse represents the complete audit result
type AuditResponse struct {
	RunID       string             `json:"run_id" yaml:"run_id"`
	SchemaPath  string             `json:"schema_path,omitempty" yaml:"schema_path,omitempty"`
	Checkpoints []CheckpointResult `json:"checkpoints" yaml:"checkpoints"`
	Dimensions  []DimensionScore   `json:"dimensions" yaml:"dimensions"`
	Overall     OverallScore       `json:"overall" yaml:"overall"`
	Artifacts   AuditArtifacts     `json:"artifacts" yaml:"artifacts"`
	Summary     AuditSummary       `json:"summary" yaml:"summary"`
	Warnings    []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
	DurationMs  int64              `json:"duration_ms" yaml:"duration_ms"`
	Version     string             `json:"version" yaml:"version"`
}

// Checkpoint returns the checkpoint with the given ID, or nil
func (r *AuditResponse) Checkpoint(id string) *CheckpointResult {
	for i := range r.Checkpoints {
		if r.Checkpoints[i].ID == id {
			return &r.Checkpoints[i]
		}
	}
	return nil
}

// Dimension returns the dimension score for the given axis, or nil
func (r *AuditResponse) Dimension(d Dimension) *DimensionScore {
	for i := range r.Dimensions {
		if r.Dimensions[i].Dimension == d {
			return &r.Dimensions[i]
		}
	}
	return nil
}

// AuditService defines the core business logic for schema audits
type AuditService interface {
	// Audit runs every enabled checkpoint and the scorer over the request's schema
	Audit(ctx context.Context, req AuditRequest) (*AuditResponse, error)
}

// SchemaSource acquires a schema snapshot
type SchemaSource interface {
	Load(ctx context.Context) (*Schema, error)
}

// ContentCountFetcher fetches stored entry counts for one entity
type ContentCountFetcher interface {
	FetchCount(ctx context.Context, entity string) (ContentCount, error)
}

// ReportWriter writes an audit response in a given format
type ReportWriter interface {
	Write(response *AuditResponse, format OutputFormat, writer io.Writer) error
}
