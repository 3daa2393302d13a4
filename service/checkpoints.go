package service

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/analyzer"
	"github.com/ludo-technologies/schemascan/internal/constants"
)

// checkpointCatalogue returns every checkpoint definition in report order
func checkpointCatalogue() []checkpointDefinition {
	return []checkpointDefinition{
		{
			ID:         constants.CheckpointRelationCycles,
			Title:      "Relation cycles",
			WarningMax: 2,
			Clean:      "No relation cycles across three or more entities.",
			Headline:   "%d relation cycle(s) span three or more entities.",
			Evaluate:   evaluateRelationCycles,
		},
		{
			ID:         constants.CheckpointDanglingReferences,
			Title:      "Dangling references",
			WarningMax: 1,
			Clean:      "Every reference field points at an existing entity.",
			Headline:   "%d reference field(s) point at entities that do not exist.",
			Evaluate:   evaluateDanglingReferences,
		},
		{
			ID:         constants.CheckpointDeepRelationPaths,
			Title:      "Deep relation paths",
			WarningMax: 3,
			Clean:      "No high-cost relation chains.",
			Headline:   "%d relation chain(s) are deep enough to make queries expensive.",
			Evaluate:   evaluateDeepRelationPaths,
		},
		{
			ID:         constants.CheckpointComponentNesting,
			Title:      "Component nesting",
			WarningMax: 2,
			Clean:      "Component nesting stays within the recommended depth.",
			Headline:   "%d component(s) nest deeper than recommended.",
			Evaluate:   evaluateComponentNesting,
		},
		{
			ID:         constants.CheckpointDuplicateModels,
			Title:      "Duplicate models",
			WarningMax: 2,
			Clean:      "No redundant or overlapping models.",
			Headline:   "%d group(s) of models share most of their fields.",
			Evaluate:   evaluateDuplicateModels,
		},
		{
			ID:         constants.CheckpointDuplicateEnumerations,
			Title:      "Duplicate enumerations",
			WarningMax: 2,
			Clean:      "No enumerations duplicate each other.",
			Headline:   "%d group(s) of enumerations share most of their values.",
			Evaluate:   evaluateDuplicateEnumerations,
		},
		{
			ID:         constants.CheckpointSingleValueEnumerations,
			Title:      "Single-value enumerations",
			WarningMax: 2,
			Clean:      "Every enumeration offers a real choice.",
			Headline:   "%d enumeration(s) have exactly one value.",
			Evaluate:   evaluateSingleValueEnumerations,
		},
		{
			ID:         constants.CheckpointAdHocFieldPatterns,
			Title:      "Repeated field patterns",
			WarningMax: 3,
			Clean:      "No field combinations are repeated outside a shared component.",
			Headline:   "%d field combination(s) are repeated across models instead of a shared component.",
			Evaluate:   evaluateAdHocFieldPatterns,
		},
		{
			ID:         constants.CheckpointOrphanComponents,
			Title:      "Unreferenced components",
			WarningMax: 3,
			Clean:      "Every component is used by at least one entity.",
			Headline:   "%d component(s) are not referenced by any other entity.",
			Evaluate:   evaluateOrphanComponents,
		},
		{
			ID:         constants.CheckpointEmptyEntities,
			Title:      "Empty entities",
			WarningMax: 1,
			Clean:      "Every entity declares at least one field.",
			Headline:   "%d entit(ies) declare no fields.",
			Evaluate:   evaluateEmptyEntities,
		},
		{
			ID:         constants.CheckpointFieldDocumentation,
			Title:      "Field documentation",
			WarningMax: 3,
			Clean:      "Fields are documented for editors.",
			Headline:   "%d entit(ies) describe fewer than half of their fields.",
			Evaluate:   evaluateFieldDocumentation,
		},
		{
			ID:         constants.CheckpointUnusedModels,
			Title:      "Unused models",
			WarningMax: 3,
			Clean:      "No model without stored content.",
			Headline:   "%d model(s) have no stored entries.",
			Evaluate:   evaluateUnusedModels,
		},
		{
			ID:         constants.CheckpointSEOCoverage,
			Title:      "SEO coverage",
			WarningMax: 2,
			Clean:      "Every page model carries SEO fields.",
			Headline:   "%d page model(s) have no SEO fields.",
			Evaluate:   evaluateSEOCoverage,
		},
	}
}

// nameExamples turns plain item names into examples
func nameExamples(names []string, details string) []domain.CheckpointExample {
	examples := make([]domain.CheckpointExample, 0, len(names))
	for _, n := range names {
		examples = append(examples, domain.CheckpointExample{Title: n, Details: details})
	}
	return examples
}

// CycleLabel renders a cycle as a closed arrow chain
func CycleLabel(c domain.Cycle) string {
	if len(c.Entities) == 0 {
		return ""
	}
	return strings.Join(c.Entities, " → ") + " → " + c.Entities[0]
}

// PathLabel renders a relation path as an arrow chain
func PathLabel(p domain.RelationPath) string {
	return strings.Join(p.Entities, " → ")
}

func evaluateRelationCycles(run *analysisRun) (checkpointEvaluation, error) {
	cycles, err := run.Cycles()
	if err != nil {
		return checkpointEvaluation{}, err
	}

	var eval checkpointEvaluation
	for _, c := range cycles.Cycles {
		eval.Issues = append(eval.Issues, domain.CheckpointExample{
			Title:   CycleLabel(c),
			Items:   c.Entities,
			Details: fmt.Sprintf("%d entities", c.Length),
		})
	}
	for _, p := range cycles.BidirectionalPairs {
		eval.Notes = append(eval.Notes, fmt.Sprintf(
			"%s ↔ %s reference each other (%s / %s); two-way references are expected.",
			p.A, p.B, strings.Join(p.FieldsAB, ", "), strings.Join(p.FieldsBA, ", ")))
	}
	if len(cycles.SelfReferences) > 0 {
		eval.Notes = append(eval.Notes, fmt.Sprintf("Self-referencing entities: %s.", strings.Join(cycles.SelfReferences, ", ")))
	}
	if cycles.Truncated {
		eval.Notes = append(eval.Notes, "The cycle search hit its limits; more cycles may exist.")
	}
	eval.Actions = []string{
		"Break each cycle by removing or inverting one of its references.",
		"Keep only the reference direction editors navigate and query the other side.",
	}
	return eval, nil
}

func evaluateDanglingReferences(run *analysisRun) (checkpointEvaluation, error) {
	var eval checkpointEvaluation
	for _, d := range run.graph.Dangling {
		eval.Issues = append(eval.Issues, domain.CheckpointExample{
			Title:   d.Entity + "." + d.Field,
			Items:   []string{d.Target},
			Details: fmt.Sprintf("target %q does not exist", d.Target),
		})
	}
	eval.Actions = []string{"Restore the missing target entities or remove the broken fields."}
	return eval, nil
}

func evaluateDeepRelationPaths(run *analysisRun) (checkpointEvaluation, error) {
	paths, err := run.Paths()
	if err != nil {
		return checkpointEvaluation{}, err
	}

	var eval checkpointEvaluation
	for _, p := range paths.Paths {
		if p.Cost != domain.CostTierHigh {
			continue
		}
		eval.Issues = append(eval.Issues, domain.CheckpointExample{
			Title:   PathLabel(p),
			Items:   p.Entities,
			Details: fmt.Sprintf("%d hops", p.Hops),
		})
	}
	if medium := paths.CountByCost(domain.CostTierMedium); medium > 0 {
		eval.Notes = append(eval.Notes, fmt.Sprintf("%d medium-cost chain(s) are worth watching.", medium))
	}
	if paths.Truncated {
		eval.Notes = append(eval.Notes, "The path search hit its limits; more deep chains may exist.")
	}
	eval.Actions = []string{
		"Shorten deep chains by referencing the entity that is actually displayed.",
		"Denormalize values that are read through many hops.",
	}
	return eval, nil
}

func evaluateComponentNesting(run *analysisRun) (checkpointEvaluation, error) {
	depths, err := run.Nesting()
	if err != nil {
		return checkpointEvaluation{}, err
	}

	var eval checkpointEvaluation
	for _, d := range run.nestingCalculator().OverNested(depths) {
		details := fmt.Sprintf("depth %d", d.Depth)
		if d.HasListHop {
			details += ", includes a list relation"
		}
		eval.Issues = append(eval.Issues, domain.CheckpointExample{
			Title:   d.Entity,
			Items:   d.Path,
			Details: details,
		})
	}
	eval.Actions = []string{
		fmt.Sprintf("Flatten components to at most %d levels.", run.config.Nesting.RecommendedDepth),
		"Replace deeply nested lists with references to standalone models.",
	}
	return eval, nil
}

func similarityExample(g domain.SimilarityGroup) domain.CheckpointExample {
	var unique []string
	for _, m := range g.Members {
		if items := g.Unique[m]; len(items) > 0 {
			unique = append(unique, fmt.Sprintf("%s: %s", m, strings.Join(items, ", ")))
		}
	}
	details := fmt.Sprintf("%s, %.0f%% similar", g.Kind, g.Similarity*100)
	if len(unique) > 0 {
		details += "; only in " + strings.Join(unique, "; ")
	}
	return domain.CheckpointExample{
		Title:   strings.Join(g.Members, ", "),
		Items:   g.Shared,
		Details: details,
	}
}

func evaluateDuplicateModels(run *analysisRun) (checkpointEvaluation, error) {
	similarity, err := run.Similarity()
	if err != nil {
		return checkpointEvaluation{}, err
	}

	var eval checkpointEvaluation
	for _, g := range similarity.EntityGroups {
		eval.Issues = append(eval.Issues, similarityExample(g))
	}
	eval.Actions = []string{
		"Merge redundant models into one model with a type field.",
		"Extract the shared fields of overlapping models into a component.",
	}
	return eval, nil
}

func evaluateDuplicateEnumerations(run *analysisRun) (checkpointEvaluation, error) {
	similarity, err := run.Similarity()
	if err != nil {
		return checkpointEvaluation{}, err
	}

	var eval checkpointEvaluation
	for _, g := range similarity.EnumerationGroups {
		eval.Issues = append(eval.Issues, similarityExample(g))
	}
	eval.Actions = []string{"Consolidate duplicate enumerations into a single shared enumeration."}
	return eval, nil
}

func evaluateSingleValueEnumerations(run *analysisRun) (checkpointEvaluation, error) {
	names := analyzer.SingleValueEnumerations(run.schema)
	eval := checkpointEvaluation{
		Issues: nameExamples(names, "only one allowed value"),
		Actions: []string{
			"Replace single-value enumerations with a boolean or a constant.",
			"Add the missing values if the enumeration is meant to grow.",
		},
	}
	return eval, nil
}

func evaluateAdHocFieldPatterns(run *analysisRun) (checkpointEvaluation, error) {
	similarity, err := run.Similarity()
	if err != nil {
		return checkpointEvaluation{}, err
	}

	var eval checkpointEvaluation
	for _, p := range similarity.AdHocPatterns {
		eval.Issues = append(eval.Issues, domain.CheckpointExample{
			Title:   strings.Join(p.Fields, " + "),
			Items:   p.Entities,
			Details: fmt.Sprintf("repeated in %d entities", len(p.Entities)),
		})
	}
	for _, m := range similarity.KnownPatterns {
		eval.Notes = append(eval.Notes, fmt.Sprintf("%s pattern used by: %s.", m.Label, strings.Join(m.Entities, ", ")))
	}
	if len(similarity.SkippedEntities) > 0 {
		eval.Notes = append(eval.Notes, fmt.Sprintf("Too many fields to scan: %s.", strings.Join(similarity.SkippedEntities, ", ")))
	}
	if similarity.PatternScanTruncated {
		eval.Notes = append(eval.Notes, "The pattern scan hit its combination limit; results are partial.")
	}
	eval.Actions = []string{"Extract each repeated field combination into a reusable component."}
	return eval, nil
}

func evaluateOrphanComponents(run *analysisRun) (checkpointEvaluation, error) {
	eval := checkpointEvaluation{
		Issues:  nameExamples(analyzer.OrphanComponents(run.graph), "not referenced by any entity"),
		Actions: []string{"Remove unused components or reference them where they were meant to be used."},
	}
	if shared := analyzer.SharedComponents(run.graph); len(shared) > 0 {
		eval.Notes = append(eval.Notes, fmt.Sprintf("Components reused across entities: %s.", strings.Join(shared, ", ")))
	}
	return eval, nil
}

func evaluateEmptyEntities(run *analysisRun) (checkpointEvaluation, error) {
	return checkpointEvaluation{
		Issues:  nameExamples(analyzer.EmptyEntities(run.schema), "no fields"),
		Actions: []string{"Add fields to empty entities or delete them."},
	}, nil
}

func evaluateFieldDocumentation(run *analysisRun) (checkpointEvaluation, error) {
	var eval checkpointEvaluation
	for _, name := range analyzer.UndocumentedEntities(run.schema, constants.DocumentationCoverageThreshold) {
		entity := run.schema.EntityByName(name)
		eval.Issues = append(eval.Issues, domain.CheckpointExample{
			Title:   name,
			Details: fmt.Sprintf("%.0f%% of fields described", analyzer.DocumentationCoverage(entity)*100),
		})
	}
	eval.Actions = []string{"Add help text to fields so editors know what to enter."}
	return eval, nil
}

func evaluateUnusedModels(run *analysisRun) (checkpointEvaluation, error) {
	names, known := analyzer.UnusedModels(run.schema)
	if !known {
		return checkpointEvaluation{
			Notes: []string{"Content counts are unavailable; unused models were not checked."},
		}, nil
	}
	return checkpointEvaluation{
		Issues:  nameExamples(names, "no draft or published entries"),
		Actions: []string{"Remove models that are not used, or plan the content they were created for."},
	}, nil
}

func evaluateSEOCoverage(run *analysisRun) (checkpointEvaluation, error) {
	return checkpointEvaluation{
		Issues: nameExamples(analyzer.PagesWithoutSEO(run.schema, run.graph), "no SEO field or SEO component"),
		Actions: []string{
			"Add a shared SEO component (meta title, meta description, social image) to every page model.",
		},
	}, nil
}
