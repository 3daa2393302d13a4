package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/analyzer"
	"github.com/ludo-technologies/schemascan/internal/config"
	"github.com/ludo-technologies/schemascan/internal/logging"
	"github.com/ludo-technologies/schemascan/internal/version"
)

// tracer records through the global provider; internal/telemetry installs
// an exporting one when tracing is configured
var tracer = otel.Tracer("github.com/ludo-technologies/schemascan/service")

// errCheckpointNotRun marks checkpoints the executor never started
var errCheckpointNotRun = errors.New("checkpoint did not run before the audit timed out")

// AuditServiceImpl implements domain.AuditService
type AuditServiceImpl struct {
	config    *config.Config
	executor  domain.TaskExecutor
	assembler *CheckpointAssembler
	logger    *slog.Logger
}

// NewAuditService creates a new audit service. A nil executor runs
// checkpoints with the configured performance settings.
func NewAuditService(cfg *config.Config, executor domain.TaskExecutor, logger *slog.Logger) *AuditServiceImpl {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if executor == nil {
		executor = NewCheckpointExecutor(&cfg.Performance, nil)
	}
	logger = logging.OrDiscard(logger)
	return &AuditServiceImpl{
		config:    cfg,
		executor:  executor,
		assembler: NewCheckpointAssembler(&cfg.Checkpoints, logger),
		logger:    logger,
	}
}

// checkpointTask adapts one checkpoint to the parallel executor
type checkpointTask struct {
	def       checkpointDefinition
	run       *analysisRun
	assembler *CheckpointAssembler
	enabled   bool
	store     func(domain.CheckpointResult)
}

func (t *checkpointTask) Name() string    { return t.def.ID }
func (t *checkpointTask) IsEnabled() bool { return t.enabled }

func (t *checkpointTask) Execute(ctx context.Context) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, span := tracer.Start(ctx, "checkpoint",
		trace.WithAttributes(attribute.String("checkpoint.id", t.def.ID)))
	defer span.End()

	result := t.assembler.Run(t.def, t.run)
	span.SetAttributes(
		attribute.String("checkpoint.status", result.Status.String()),
		attribute.Int("checkpoint.issues", result.IssueCount),
	)
	if result.Degraded {
		span.SetStatus(codes.Error, result.Error)
	}
	t.store(result)
	return result, nil
}

// Audit runs every selected checkpoint and the scorer over the request's schema
func (s *AuditServiceImpl) Audit(ctx context.Context, req domain.AuditRequest) (*domain.AuditResponse, error) {
	if req.Schema == nil {
		return nil, domain.NewInvalidInputError("no schema to audit", nil)
	}
	defs, err := s.selectCheckpoints(req.Checkpoints)
	if err != nil {
		return nil, err
	}
	dimensions, err := s.selectDimensions(req.Dimensions)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "audit", trace.WithAttributes(
		attribute.String("audit.run_id", runID),
		attribute.Int("schema.entities", len(req.Schema.Entities)),
	))
	defer span.End()

	s.logger.Info("audit started", "run_id", runID, "entities", len(req.Schema.Entities), "checkpoints", len(defs))

	run := newAnalysisRun(s.config, req.Schema)
	var warnings []string

	results := make([]domain.CheckpointResult, len(defs))
	done := make([]bool, len(defs))
	tasks := make([]domain.ExecutableTask, len(defs))
	for i, def := range defs {
		tasks[i] = &checkpointTask{
			def:       def,
			run:       run,
			assembler: s.assembler,
			enabled:   true,
			store: func(r domain.CheckpointResult) {
				results[i] = r
				done[i] = true
			},
		}
	}
	if err := s.executor.Execute(ctx, tasks); err != nil {
		s.logger.Warn("checkpoint execution incomplete", "run_id", runID, "error", err)
		warnings = append(warnings, fmt.Sprintf("checkpoint execution incomplete: %v", err))
	}
	for i, def := range defs {
		if !done[i] {
			results[i] = domain.DegradedCheckpoint(def.ID, def.Title, errCheckpointNotRun)
		}
	}

	findings, scoringWarnings := collectScoreFindings(run)
	warnings = append(warnings, scoringWarnings...)
	scorer := analyzer.NewScorer(&analyzer.ScorerConfig{
		Baseline:       s.config.Scoring.Baseline,
		Floor:          s.config.Scoring.Floor,
		MaxDetailItems: analyzer.DefaultScorerConfig().MaxDetailItems,
	})
	scores, overall := scorer.Score(findings, dimensions)

	response := &domain.AuditResponse{
		RunID:       runID,
		SchemaPath:  req.SchemaPath,
		Checkpoints: results,
		Dimensions:  scores,
		Overall:     overall,
		Artifacts:   run.artifacts(),
		Summary:     s.summarize(run, results),
		Warnings:    warnings,
		GeneratedAt: time.Now(),
		DurationMs:  time.Since(start).Milliseconds(),
		Version:     version.Version,
	}

	span.SetAttributes(
		attribute.Int("audit.overall_score", overall.Score),
		attribute.String("audit.level", string(overall.Level)),
	)
	s.logger.Info("audit finished",
		"run_id", runID,
		"overall", overall.Score,
		"level", overall.Level,
		"duration_ms", response.DurationMs,
	)
	return response, nil
}

// selectCheckpoints returns the enabled checkpoints, restricted to ids when given
func (s *AuditServiceImpl) selectCheckpoints(ids []string) ([]checkpointDefinition, error) {
	catalogue := checkpointCatalogue()
	requested := make(map[string]bool, len(ids))
	for _, id := range ids {
		requested[id] = false
	}

	var selected []checkpointDefinition
	for _, def := range catalogue {
		if _, ok := requested[def.ID]; ok {
			requested[def.ID] = true
		} else if len(ids) > 0 {
			continue
		}
		if !s.config.Checkpoints.IsCheckpointEnabled(def.ID) && len(ids) == 0 {
			continue
		}
		selected = append(selected, def)
	}

	for _, id := range ids {
		if !requested[id] {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("unknown checkpoint %q", id), nil)
		}
	}
	return selected, nil
}

// selectDimensions returns the request's dimensions, or the configured ones
func (s *AuditServiceImpl) selectDimensions(requested []domain.Dimension) ([]domain.Dimension, error) {
	if len(requested) == 0 {
		for _, d := range s.config.Scoring.Dimensions {
			requested = append(requested, domain.Dimension(d))
		}
	}
	valid := make(map[domain.Dimension]bool)
	for _, d := range domain.AllDimensions() {
		valid[d] = true
	}
	for _, d := range requested {
		if !valid[d] {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("unknown scoring dimension %q", d), nil)
		}
	}
	return requested, nil
}

func (s *AuditServiceImpl) summarize(run *analysisRun, results []domain.CheckpointResult) domain.AuditSummary {
	entities := run.schema.AnalyzableEntities()
	summary := domain.AuditSummary{
		TotalEntities:       len(entities),
		Enumerations:        len(run.schema.Enumerations),
		TotalRelations:      run.graph.EdgeCount(),
		ExcludedEntities:    run.excluded,
		PurposeDistribution: analyzer.PurposeDistribution(entities),
		FieldCategories:     analyzer.FieldCategoryCounts(entities),
	}
	for _, e := range entities {
		if e.IsComponent {
			summary.Components++
		} else {
			summary.Models++
		}
		summary.TotalFields += len(e.Fields)
		if _, ok := run.schema.Counts[e.Name]; ok {
			summary.CountedEntities++
		}
	}
	for _, r := range results {
		switch r.Status {
		case domain.StatusGood:
			summary.GoodCheckpoints++
		case domain.StatusWarning:
			summary.WarningCheckpoints++
		case domain.StatusIssue:
			summary.IssueCheckpoints++
		}
	}
	return summary
}
