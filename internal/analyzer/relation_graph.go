package analyzer

import (
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/schemascan/domain"
)

// RelationGraphBuilderConfig configures the RelationGraphBuilder
type RelationGraphBuilderConfig struct {
	// ExcludePatterns are gitignore-style patterns matched against entity names
	ExcludePatterns []string

	// IncludeSystem keeps platform-internal entities in the graph
	IncludeSystem bool
}

// DefaultRelationGraphBuilderConfig returns a config with sensible defaults
func DefaultRelationGraphBuilderConfig() *RelationGraphBuilderConfig {
	return &RelationGraphBuilderConfig{
		ExcludePatterns: []string{},
		IncludeSystem:   false,
	}
}

// RelationGraphBuilder builds a relation graph from a schema snapshot
type RelationGraphBuilder struct {
	config  *RelationGraphBuilderConfig
	exclude *ignore.GitIgnore
}

// NewRelationGraphBuilder creates a new RelationGraphBuilder
func NewRelationGraphBuilder(config *RelationGraphBuilderConfig) *RelationGraphBuilder {
	if config == nil {
		config = DefaultRelationGraphBuilderConfig()
	}

	var exclude *ignore.GitIgnore
	if len(config.ExcludePatterns) > 0 {
		exclude = ignore.CompileIgnoreLines(config.ExcludePatterns...)
	}

	return &RelationGraphBuilder{
		config:  config,
		exclude: exclude,
	}
}

// IsExcluded reports whether an entity is left out of the graph
func (b *RelationGraphBuilder) IsExcluded(entity *domain.Entity) bool {
	if entity.IsSystem && !b.config.IncludeSystem {
		return true
	}
	return b.exclude != nil && b.exclude.MatchesPath(entity.Name)
}

// FilterSchema returns a copy of the schema without excluded entities.
// Counts and enumerations are carried over unchanged.
func (b *RelationGraphBuilder) FilterSchema(schema *domain.Schema) (*domain.Schema, int) {
	if schema == nil {
		return &domain.Schema{}, 0
	}

	filtered := &domain.Schema{
		Entities:     make([]domain.Entity, 0, len(schema.Entities)),
		Enumerations: schema.Enumerations,
		Counts:       schema.Counts,
	}
	excluded := 0
	for i := range schema.Entities {
		if b.IsExcluded(&schema.Entities[i]) {
			excluded++
			continue
		}
		filtered.Entities = append(filtered.Entities, schema.Entities[i])
	}
	return filtered, excluded
}

// BuildGraph constructs a RelationGraph from the schema's entities.
// Only reference fields whose target exists produce edges; the rest are
// recorded as dangling references.
func (b *RelationGraphBuilder) BuildGraph(schema *domain.Schema) *domain.RelationGraph {
	graph := domain.NewRelationGraph()
	if schema == nil {
		return graph
	}

	// Create nodes first so edge targets can be resolved in one pass
	var entities []*domain.Entity
	declared := make(map[string]bool, len(schema.Entities))
	for i := range schema.Entities {
		entity := &schema.Entities[i]
		declared[entity.Name] = true
		if b.IsExcluded(entity) {
			continue
		}
		if graph.GetNode(entity.Name) != nil {
			continue
		}
		graph.AddNode(&domain.EntityNode{
			Name:        entity.Name,
			IsComponent: entity.IsComponent,
			FieldCount:  len(entity.Fields),
			Order:       len(entities),
		})
		entities = append(entities, entity)
	}

	for _, entity := range entities {
		for _, field := range entity.Fields {
			if !field.IsReference() {
				continue
			}

			target := graph.GetNode(field.Target)
			if target == nil {
				// References into excluded entities are not integrity problems
				if !declared[field.Target] {
					graph.Dangling = append(graph.Dangling, domain.DanglingReference{
						Entity: entity.Name,
						Field:  field.Name,
						Target: field.Target,
					})
				}
				continue
			}

			kind := domain.RelationKindReference
			if target.IsComponent {
				kind = domain.RelationKindComposition
			}
			graph.AddEdge(&domain.RelationEdge{
				From:  entity.Name,
				To:    target.Name,
				Field: field.Name,
				Kind:  kind,
				List:  field.List,
			})
		}
	}

	return graph
}

// SelfReferences returns entities with at least one edge to themselves, in declaration order
func SelfReferences(graph *domain.RelationGraph) []string {
	if graph == nil {
		return nil
	}
	var selfRefs []string
	for _, name := range graph.Order {
		if graph.HasEdge(name, name) {
			selfRefs = append(selfRefs, name)
		}
	}
	return selfRefs
}
