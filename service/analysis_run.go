package service

import (
	"fmt"
	"sync"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/analyzer"
	"github.com/ludo-technologies/schemascan/internal/config"
)

// lazy computes a detector artifact at most once. A panic in the
// computation is kept as the artifact's error for every caller.
type lazy[T any] struct {
	once  sync.Once
	value T
	err   error
}

func (l *lazy[T]) get(compute func() T) (T, error) {
	l.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				l.err = fmt.Errorf("analyzer panic: %v", r)
			}
		}()
		l.value = compute()
	})
	return l.value, l.err
}

// analysisRun holds the immutable inputs of one audit and the detector
// artifacts shared between checkpoints. It is safe for concurrent use.
type analysisRun struct {
	config   *config.Config
	schema   *domain.Schema
	graph    *domain.RelationGraph
	excluded int

	cycles     lazy[*domain.CycleAnalysis]
	paths      lazy[*domain.PathAnalysis]
	nesting    lazy[[]domain.NestingDepth]
	similarity lazy[*domain.SimilarityAnalysis]
}

// newAnalysisRun filters the schema and builds the relation graph once
func newAnalysisRun(cfg *config.Config, schema *domain.Schema) *analysisRun {
	builder := analyzer.NewRelationGraphBuilder(&analyzer.RelationGraphBuilderConfig{
		ExcludePatterns: cfg.Graph.ExcludeEntities,
		IncludeSystem:   cfg.Graph.IncludeSystem,
	})
	filtered, excluded := builder.FilterSchema(schema)
	if cfg.Graph.IncludeSystem {
		// Keep system entities visible to AnalyzableEntities
		for i := range filtered.Entities {
			filtered.Entities[i].IsSystem = false
		}
	}
	return &analysisRun{
		config:   cfg,
		schema:   filtered,
		graph:    builder.BuildGraph(schema),
		excluded: excluded,
	}
}

func (r *analysisRun) Cycles() (*domain.CycleAnalysis, error) {
	return r.cycles.get(func() *domain.CycleAnalysis {
		return analyzer.NewCycleClassifier(&analyzer.CycleClassifierConfig{
			MaxCycleLength: r.config.Cycles.MaxLength,
			MaxCycles:      r.config.Cycles.MaxCycles,
			MaxSteps:       r.config.Cycles.MaxSteps,
		}).Classify(r.graph)
	})
}

func (r *analysisRun) Paths() (*domain.PathAnalysis, error) {
	return r.paths.get(func() *domain.PathAnalysis {
		return r.pathExplorer().Explore(r.graph)
	})
}

func (r *analysisRun) Nesting() ([]domain.NestingDepth, error) {
	return r.nesting.get(func() []domain.NestingDepth {
		return r.nestingCalculator().Calculate(r.graph)
	})
}

func (r *analysisRun) Similarity() (*domain.SimilarityAnalysis, error) {
	return r.similarity.get(func() *domain.SimilarityAnalysis {
		s := r.config.Similarity
		return analyzer.NewSimilarityDetector(&analyzer.SimilarityDetectorConfig{
			RedundantThreshold:     s.RedundantThreshold,
			RedundantMinShared:     s.RedundantMinShared,
			OverlapThreshold:       s.OverlapThreshold,
			OverlapMinShared:       s.OverlapMinShared,
			IgnoredFields:          s.IgnoredFields,
			PatternSize:            s.PatternSize,
			PatternMinEntities:     s.PatternMinEntities,
			PatternMaxFields:       s.PatternMaxFields,
			PatternMaxCombinations: s.PatternMaxCombinations,
		}).Detect(r.schema.AnalyzableEntities(), r.schema.Enumerations)
	})
}

func (r *analysisRun) pathExplorer() *analyzer.PathExplorer {
	p := r.config.Paths
	return analyzer.NewPathExplorer(&analyzer.PathExplorerConfig{
		MinPathLength:    p.MinLength,
		MaxPathLength:    p.MaxLength,
		MaxFanOut:        p.MaxFanOut,
		MaxQueueSize:     p.MaxQueueSize,
		MaxPathsPerStart: p.MaxPathsPerStart,
		MaxTotalPaths:    p.MaxTotalPaths,
		HighCostHops:     p.HighCostHops,
		MediumCostHops:   p.MediumCostHops,
	})
}

func (r *analysisRun) nestingCalculator() *analyzer.NestingDepthCalculator {
	return analyzer.NewNestingDepthCalculator(&analyzer.NestingDepthConfig{
		MaxDepth:         r.config.Nesting.MaxDepth,
		RecommendedDepth: r.config.Nesting.RecommendedDepth,
	})
}

// artifacts collects the detector outputs that completed
func (r *analysisRun) artifacts() domain.AuditArtifacts {
	var a domain.AuditArtifacts
	if cycles, err := r.Cycles(); err == nil {
		a.Cycles = cycles
	}
	if paths, err := r.Paths(); err == nil {
		a.Paths = paths
	}
	if nesting, err := r.Nesting(); err == nil {
		a.Nesting = nesting
	}
	if similarity, err := r.Similarity(); err == nil {
		a.Similarity = similarity
	}
	a.Dangling = r.graph.Dangling
	return a
}

// AnalyzeRelations builds the filtered relation graph of schema and
// classifies its cycles, as the audit does
func AnalyzeRelations(cfg *config.Config, schema *domain.Schema) (*domain.RelationGraph, *domain.CycleAnalysis, error) {
	if schema == nil {
		return nil, nil, domain.NewInvalidInputError("no schema to analyze", nil)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	run := newAnalysisRun(cfg, schema)
	cycles, err := run.Cycles()
	if err != nil {
		return run.graph, nil, domain.NewAnalysisError("cycle classification failed", err)
	}
	return run.graph, cycles, nil
}
