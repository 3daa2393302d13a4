package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "schemascan"

	// ConfigFileName is the default config file name
	ConfigFileName = "schemascan.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "SCHEMASCAN"
)

// Checkpoint IDs
const (
	CheckpointRelationCycles          = "relation-cycles"
	CheckpointDanglingReferences      = "dangling-references"
	CheckpointDeepRelationPaths       = "deep-relation-paths"
	CheckpointComponentNesting        = "component-nesting"
	CheckpointDuplicateModels         = "duplicate-models"
	CheckpointDuplicateEnumerations   = "duplicate-enumerations"
	CheckpointSingleValueEnumerations = "single-value-enumerations"
	CheckpointAdHocFieldPatterns      = "adhoc-field-patterns"
	CheckpointOrphanComponents        = "orphan-components"
	CheckpointEmptyEntities           = "empty-entities"
	CheckpointFieldDocumentation      = "field-documentation"
	CheckpointUnusedModels            = "unused-models"
	CheckpointSEOCoverage             = "seo-coverage"
)

// AllCheckpointIDs returns every checkpoint ID in report order
func AllCheckpointIDs() []string {
	return []string{
		CheckpointRelationCycles,
		CheckpointDanglingReferences,
		CheckpointDeepRelationPaths,
		CheckpointComponentNesting,
		CheckpointDuplicateModels,
		CheckpointDuplicateEnumerations,
		CheckpointSingleValueEnumerations,
		CheckpointAdHocFieldPatterns,
		CheckpointOrphanComponents,
		CheckpointEmptyEntities,
		CheckpointFieldDocumentation,
		CheckpointUnusedModels,
		CheckpointSEOCoverage,
	}
}

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Documentation coverage below this ratio marks an entity as undocumented
const DocumentationCoverageThreshold = 0.5

// Process exit codes used by the check command
const (
	ExitCodeSuccess   = 0
	ExitCodeViolation = 1
	ExitCodeError     = 2
)
