package service

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/analyzer"
	"github.com/ludo-technologies/schemascan/internal/constants"
)

// collectScoreFindings gathers the scorer's input from the shared run.
// Signals whose detector failed are left out and reported as warnings.
func collectScoreFindings(run *analysisRun) (analyzer.ScoreFindings, []string) {
	findings := analyzer.ScoreFindings{}
	var warnings []string
	skip := func(detector string, err error) {
		warnings = append(warnings, fmt.Sprintf("%s signals left out of scoring: %v", detector, err))
	}

	if cycles, err := run.Cycles(); err != nil {
		skip("cycle", err)
	} else {
		labels := make([]string, 0, len(cycles.Cycles))
		for _, c := range cycles.Cycles {
			labels = append(labels, CycleLabel(c))
		}
		findings.Add(analyzer.SignalCycles, labels)
	}
	findings.Add(analyzer.SignalSelfReferences, analyzer.SelfReferences(run.graph))

	dangling := make([]string, 0, len(run.graph.Dangling))
	for _, d := range run.graph.Dangling {
		dangling = append(dangling, d.Entity+"."+d.Field)
	}
	findings.Add(analyzer.SignalDanglingReferences, dangling)
	findings.Add(analyzer.SignalEmptyEntities, analyzer.EmptyEntities(run.schema))

	if depths, err := run.Nesting(); err != nil {
		skip("nesting", err)
	} else {
		calc := run.nestingCalculator()
		var over []string
		for _, d := range calc.OverNested(depths) {
			over = append(over, d.Entity)
		}
		findings.Add(analyzer.SignalOverNestedComponents, over)
		findings.AddCount(analyzer.SignalNestingOverRecommended, calc.LevelsOverRecommended(depths))
	}

	if similarity, err := run.Similarity(); err != nil {
		skip("similarity", err)
	} else {
		var redundant, overlapping []string
		for _, g := range similarity.EntityGroups {
			label := strings.Join(g.Members, " / ")
			if g.Kind == domain.SimilarityRedundant {
				redundant = append(redundant, label)
			} else {
				overlapping = append(overlapping, label)
			}
		}
		findings.Add(analyzer.SignalRedundantGroups, redundant)
		findings.Add(analyzer.SignalOverlappingPairs, overlapping)

		var enums []string
		for _, g := range similarity.EnumerationGroups {
			enums = append(enums, strings.Join(g.Members, " / "))
		}
		findings.Add(analyzer.SignalDuplicateEnumerations, enums)

		var patterns []string
		for _, p := range similarity.AdHocPatterns {
			patterns = append(patterns, strings.Join(p.Fields, "+"))
		}
		findings.Add(analyzer.SignalAdHocPatterns, patterns)
	}

	findings.Add(analyzer.SignalOrphanComponents, analyzer.OrphanComponents(run.graph))
	findings.Add(analyzer.SignalSharedComponents, analyzer.SharedComponents(run.graph))

	findings.Add(analyzer.SignalUndocumentedEntities,
		analyzer.UndocumentedEntities(run.schema, constants.DocumentationCoverageThreshold))
	findings.Add(analyzer.SignalSingleValueEnums, analyzer.SingleValueEnumerations(run.schema))
	findings.Add(analyzer.SignalPagesWithoutSEO, analyzer.PagesWithoutSEO(run.schema, run.graph))
	if unused, known := analyzer.UnusedModels(run.schema); known {
		findings.Add(analyzer.SignalUnusedModels, unused)
	}

	if paths, err := run.Paths(); err != nil {
		skip("path", err)
	} else {
		var high, medium []string
		for _, p := range paths.Paths {
			switch p.Cost {
			case domain.CostTierHigh:
				high = append(high, PathLabel(p))
			case domain.CostTierMedium:
				medium = append(medium, PathLabel(p))
			}
		}
		findings.Add(analyzer.SignalHighCostPaths, high)
		findings.Add(analyzer.SignalMediumCostPaths, medium)
	}

	findings.Add(analyzer.SignalOversizedEntities,
		analyzer.OversizedEntities(run.schema, run.config.Scoring.OversizedEntityFields))

	return findings, warnings
}
