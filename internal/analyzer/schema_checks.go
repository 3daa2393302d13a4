package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/schemascan/domain"
)

// Schema-level checks. Each returns the offending item names in declaration
// order; checkpoints and the scorer both consume these lists.

// EmptyEntities returns entities without any fields
func EmptyEntities(schema *domain.Schema) []string {
	var names []string
	for _, e := range schema.AnalyzableEntities() {
		if len(e.Fields) == 0 {
			names = append(names, e.Name)
		}
	}
	return names
}

// DocumentationCoverage returns the share of an entity's fields carrying a description
func DocumentationCoverage(entity *domain.Entity) float64 {
	if len(entity.Fields) == 0 {
		return 1
	}
	described := 0
	for _, f := range entity.Fields {
		if f.HasDescription() {
			described++
		}
	}
	return float64(described) / float64(len(entity.Fields))
}

// UndocumentedEntities returns entities with at least one field whose
// documentation coverage is below threshold
func UndocumentedEntities(schema *domain.Schema, threshold float64) []string {
	var names []string
	entities := schema.AnalyzableEntities()
	for i := range entities {
		if len(entities[i].Fields) > 0 && DocumentationCoverage(&entities[i]) < threshold {
			names = append(names, entities[i].Name)
		}
	}
	return names
}

// referrers returns the distinct entities referencing name, not counting itself
func referrers(graph *domain.RelationGraph, name string) []string {
	var out []string
	for _, r := range graph.ReferencedBy(name) {
		if r != name {
			out = append(out, r)
		}
	}
	return out
}

// OrphanComponents returns components no other entity references
func OrphanComponents(graph *domain.RelationGraph) []string {
	var names []string
	for _, name := range graph.Order {
		if graph.Nodes[name].IsComponent && len(referrers(graph, name)) == 0 {
			names = append(names, name)
		}
	}
	return names
}

// SharedComponents returns components referenced by at least two other entities
func SharedComponents(graph *domain.RelationGraph) []string {
	var names []string
	for _, name := range graph.Order {
		if graph.Nodes[name].IsComponent && len(referrers(graph, name)) >= 2 {
			names = append(names, name)
		}
	}
	return names
}

// SingleValueEnumerations returns enumerations with exactly one value
func SingleValueEnumerations(schema *domain.Schema) []string {
	if schema == nil {
		return nil
	}
	var names []string
	for _, e := range schema.Enumerations {
		if len(e.Values) == 1 {
			names = append(names, e.Name)
		}
	}
	return names
}

// UnusedModels returns models with no stored entries. The second return
// is false when no counts are known, in which case the check is skipped.
// Models missing from a partial count map are not reported.
func UnusedModels(schema *domain.Schema) ([]string, bool) {
	if schema == nil || len(schema.Counts) == 0 {
		return nil, false
	}
	var names []string
	for _, e := range schema.AnalyzableEntities() {
		if e.IsComponent {
			continue
		}
		if count, ok := schema.Counts[e.Name]; ok && count.Total() == 0 {
			names = append(names, e.Name)
		}
	}
	return names, true
}

// PagesWithoutSEO returns page-purpose models with neither an SEO field
// nor a reference to an SEO entity
func PagesWithoutSEO(schema *domain.Schema, graph *domain.RelationGraph) []string {
	var names []string
	entities := schema.AnalyzableEntities()
	for i := range entities {
		entity := &entities[i]
		if entity.IsComponent || EntityPurpose(entity) != "page" {
			continue
		}
		if !hasSEO(entity, graph) {
			names = append(names, entity.Name)
		}
	}
	return names
}

func hasSEO(entity *domain.Entity, graph *domain.RelationGraph) bool {
	for _, f := range entity.Fields {
		if FieldCategory(f) == "seo" {
			return true
		}
	}
	for _, target := range graph.Neighbors(entity.Name) {
		if Classify(EntityPurposeRules, target) == "seo" {
			return true
		}
	}
	return false
}

// OversizedEntities returns entities with more than maxFields fields
func OversizedEntities(schema *domain.Schema, maxFields int) []string {
	var names []string
	for _, e := range schema.AnalyzableEntities() {
		if len(e.Fields) > maxFields {
			names = append(names, fmt.Sprintf("%s (%d fields)", e.Name, len(e.Fields)))
		}
	}
	return names
}

// PurposeDistribution counts entities per detected purpose label
func PurposeDistribution(entities []domain.Entity) map[string]int {
	dist := make(map[string]int)
	for i := range entities {
		dist[EntityPurpose(&entities[i])]++
	}
	return dist
}

// FieldCategoryCounts counts fields per detected category label
func FieldCategoryCounts(entities []domain.Entity) map[string]int {
	counts := make(map[string]int)
	for _, e := range entities {
		for _, f := range e.Fields {
			counts[FieldCategory(f)]++
		}
	}
	return counts
}
