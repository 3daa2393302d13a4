package domain

import "strings"

// FieldKind represents the type tag of a schema field
type FieldKind string

const (
	// FieldKindScalar represents plain values: strings, numbers, booleans, dates, rich text
	FieldKindScalar FieldKind = "scalar"

	// FieldKindEnumeration represents a field constrained to an enumeration's values
	FieldKindEnumeration FieldKind = "enumeration"

	// FieldKindReference represents a field pointing at another entity
	FieldKindReference FieldKind = "reference"
)

// Field represents a single named, typed attribute of an Entity
type Field struct {
	// Name is the API name of the field
	Name string `json:"name" yaml:"name" validate:"required"`

	// Kind is the type tag (scalar, enumeration, reference)
	Kind FieldKind `json:"kind" yaml:"kind" validate:"required,oneof=scalar enumeration reference"`

	// ScalarType is the underlying scalar type name (String, RichText, Int, Asset, ...)
	ScalarType string `json:"scalar_type,omitempty" yaml:"scalar_type,omitempty"`

	// Target is the referenced entity name for reference fields
	Target string `json:"target,omitempty" yaml:"target,omitempty" validate:"required_if=Kind reference"`

	// Enumeration is the referenced enumeration name for enumeration fields
	Enumeration string `json:"enumeration,omitempty" yaml:"enumeration,omitempty"`

	// List indicates a one-to-many cardinality
	List bool `json:"list,omitempty" yaml:"list,omitempty"`

	// Required indicates the field must be filled
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// Unique indicates the field value must be unique across entries
	Unique bool `json:"unique,omitempty" yaml:"unique,omitempty"`

	// Description is the optional editor-facing help text
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Values is an optional inline enumerated value set
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`
}

// IsReference reports whether the field points at another entity
func (f Field) IsReference() bool {
	return f.Kind == FieldKindReference
}

// HasDescription reports whether the field carries non-blank help text
func (f Field) HasDescription() bool {
	return strings.TrimSpace(f.Description) != ""
}

// Entity represents a schema unit: a standalone model or a reusable component
type Entity struct {
	// Name is the unique entity name
	Name string `json:"name" yaml:"name" validate:"required"`

	// Fields are the entity's fields in declaration order
	Fields []Field `json:"fields" yaml:"fields" validate:"dive"`

	// IsComponent marks reusable sub-structures (as opposed to standalone models)
	IsComponent bool `json:"component,omitempty" yaml:"component,omitempty"`

	// IsSystem marks platform-internal entities, which are excluded from analysis
	IsSystem bool `json:"system,omitempty" yaml:"system,omitempty"`

	// Description is the optional entity help text
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ReferenceFields returns the entity's reference fields in declaration order
func (e *Entity) ReferenceFields() []Field {
	var refs []Field
	for _, f := range e.Fields {
		if f.IsReference() {
			refs = append(refs, f)
		}
	}
	return refs
}

// Enumeration represents a named, ordered set of allowed values
type Enumeration struct {
	Name   string   `json:"name" yaml:"name" validate:"required"`
	Values []string `json:"values" yaml:"values"`
}

// ContentCount holds the number of entries stored for an entity per stage
type ContentCount struct {
	Draft     int `json:"draft" yaml:"draft"`
	Published int `json:"published" yaml:"published"`
}

// Total returns the number of entries across stages
func (c ContentCount) Total() int {
	return c.Draft + c.Published
}

// Schema is the materialized snapshot a single audit runs against
type Schema struct {
	// Entities are all models and components in declaration order
	Entities []Entity `json:"entities" yaml:"entities" validate:"dive"`

	// Enumerations are all enumerations in declaration order
	Enumerations []Enumeration `json:"enumerations,omitempty" yaml:"enumerations,omitempty" validate:"dive"`

	// Counts maps entity name to stored entry counts (may be partial or empty)
	Counts map[string]ContentCount `json:"counts,omitempty" yaml:"counts,omitempty"`
}

// AnalyzableEntities returns the entities that are not platform-internal
func (s *Schema) AnalyzableEntities() []Entity {
	if s == nil {
		return nil
	}
	out := make([]Entity, 0, len(s.Entities))
	for _, e := range s.Entities {
		if !e.IsSystem {
			out = append(out, e)
		}
	}
	return out
}

// EntityByName returns the entity with the given name, or nil
func (s *Schema) EntityByName(name string) *Entity {
	if s == nil {
		return nil
	}
	for i := range s.Entities {
		if s.Entities[i].Name == name {
			return &s.Entities[i]
		}
	}
	return nil
}
