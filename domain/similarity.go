package domain

// SimilarityKind classifies how strongly two or more item sets overlap
type SimilarityKind string

const (
	// SimilarityRedundant means the members should probably be merged
	SimilarityRedundant SimilarityKind = "redundant"

	// SimilarityOverlapping means the members share enough to extract a shared component
	SimilarityOverlapping SimilarityKind = "overlapping"
)

// SimilaritySubject names what was compared
type SimilaritySubject string

const (
	SubjectEntityFields      SimilaritySubject = "entity_fields"
	SubjectEnumerationValues SimilaritySubject = "enumeration_values"
)

// SimilarityGroup is a set of two or more entities (or enumerations) whose
// field-name (or value) sets overlap above a threshold
type SimilarityGroup struct {
	// Kind is the classification tier
	Kind SimilarityKind `json:"kind" yaml:"kind"`

	// Subject is what was compared
	Subject SimilaritySubject `json:"subject" yaml:"subject"`

	// Members are the group members in declaration order
	Members []string `json:"members" yaml:"members"`

	// Similarity is the lowest pairwise ratio within the group
	Similarity float64 `json:"similarity" yaml:"similarity"`

	// Shared are the items common to every member, sorted
	Shared []string `json:"shared" yaml:"shared"`

	// Unique maps each member to the items no other member has, sorted
	Unique map[string][]string `json:"unique,omitempty" yaml:"unique,omitempty"`
}

// AdHocPattern is a field-name combination repeated across entities
// without being modeled as a shared component
type AdHocPattern struct {
	Fields   []string `json:"fields" yaml:"fields"`
	Entities []string `json:"entities" yaml:"entities"`
}

// KnownPatternMatch is an occurrence of a named field combination
type KnownPatternMatch struct {
	Label    string   `json:"label" yaml:"label"`
	Entities []string `json:"entities" yaml:"entities"`
}

// SimilarityAnalysis holds the output of the duplicate detector
type SimilarityAnalysis struct {
	EntityGroups      []SimilarityGroup   `json:"entity_groups" yaml:"entity_groups"`
	EnumerationGroups []SimilarityGroup   `json:"enumeration_groups" yaml:"enumeration_groups"`
	AdHocPatterns     []AdHocPattern      `json:"adhoc_patterns" yaml:"adhoc_patterns"`
	KnownPatterns     []KnownPatternMatch `json:"known_patterns,omitempty" yaml:"known_patterns,omitempty"`

	// PatternScanTruncated is set when the combination cap stopped the pattern scan
	PatternScanTruncated bool `json:"pattern_scan_truncated,omitempty" yaml:"pattern_scan_truncated,omitempty"`

	// SkippedEntities lists entities too large for the pattern scan
	SkippedEntities []string `json:"skipped_entities,omitempty" yaml:"skipped_entities,omitempty"`
}

// CountEntityGroups returns the number of entity groups of the given kind
func (a *SimilarityAnalysis) CountEntityGroups(kind SimilarityKind) int {
	if a == nil {
		return 0
	}
	count := 0
	for _, g := range a.EntityGroups {
		if g.Kind == kind {
			count++
		}
	}
	return count
}
