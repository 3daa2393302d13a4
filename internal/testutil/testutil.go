// Package testutil provides helper functions for testing schemascan components
package testutil

import "github.com/ludo-technologies/schemascan/domain"

// SchemaBuilder assembles schema fixtures in declaration order
type SchemaBuilder struct {
	schema *domain.Schema
}

// NewSchema starts an empty schema fixture
func NewSchema() *SchemaBuilder {
	return &SchemaBuilder{schema: &domain.Schema{Counts: map[string]domain.ContentCount{}}}
}

// Model adds a standalone model with the given fields
func (b *SchemaBuilder) Model(name string, fields ...domain.Field) *SchemaBuilder {
	b.schema.Entities = append(b.schema.Entities, domain.Entity{Name: name, Fields: fields})
	return b
}

// Component adds a reusable component with the given fields
func (b *SchemaBuilder) Component(name string, fields ...domain.Field) *SchemaBuilder {
	b.schema.Entities = append(b.schema.Entities, domain.Entity{Name: name, Fields: fields, IsComponent: true})
	return b
}

// System adds a platform-internal model
func (b *SchemaBuilder) System(name string, fields ...domain.Field) *SchemaBuilder {
	b.schema.Entities = append(b.schema.Entities, domain.Entity{Name: name, Fields: fields, IsSystem: true})
	return b
}

// Enum adds an enumeration
func (b *SchemaBuilder) Enum(name string, values ...string) *SchemaBuilder {
	b.schema.Enumerations = append(b.schema.Enumerations, domain.Enumeration{Name: name, Values: values})
	return b
}

// Count records stored entry counts for an entity
func (b *SchemaBuilder) Count(entity string, draft, published int) *SchemaBuilder {
	b.schema.Counts[entity] = domain.ContentCount{Draft: draft, Published: published}
	return b
}

// Build returns the assembled schema
func (b *SchemaBuilder) Build() *domain.Schema {
	return b.schema
}

// Scalar returns a scalar field of type String
func Scalar(name string) domain.Field {
	return domain.Field{Name: name, Kind: domain.FieldKindScalar, ScalarType: "String"}
}

// Described returns a scalar field with a description
func Described(name, description string) domain.Field {
	f := Scalar(name)
	f.Description = description
	return f
}

// Ref returns a singular reference field
func Ref(name, target string) domain.Field {
	return domain.Field{Name: name, Kind: domain.FieldKindReference, Target: target}
}

// RefList returns a one-to-many reference field
func RefList(name, target string) domain.Field {
	f := Ref(name, target)
	f.List = true
	return f
}

// EnumField returns a field constrained to an enumeration
func EnumField(name, enumeration string) domain.Field {
	return domain.Field{Name: name, Kind: domain.FieldKindEnumeration, Enumeration: enumeration}
}

// Scalars returns one scalar field per name
func Scalars(names ...string) []domain.Field {
	fields := make([]domain.Field, 0, len(names))
	for _, n := range names {
		fields = append(fields, Scalar(n))
	}
	return fields
}

// Chain returns a schema of models linked linearly: names[0] -> names[1] -> ...
func Chain(names ...string) *domain.Schema {
	b := NewSchema()
	for i, n := range names {
		fields := []domain.Field{Scalar("title")}
		if i+1 < len(names) {
			fields = append(fields, Ref("next", names[i+1]))
		}
		b.Model(n, fields...)
	}
	return b.Build()
}
