package config

import (
	"strconv"
	"strings"
)

// Strictness represents the audit strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// AllStrictness returns the strictness levels in prompt order
func AllStrictness() []Strictness {
	return []Strictness{StrictnessRelaxed, StrictnessStandard, StrictnessStrict}
}

// StrictnessPreset holds threshold values for different strictness levels
type StrictnessPreset struct {
	MediumCostHops          int
	HighCostHops            int
	RecommendedNestingDepth int
	OverlapThreshold        float64
	RedundantThreshold      float64
	OversizedEntityFields   int
	MinScore                int
	FailOn                  string
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			MediumCostHops:          6,
			HighCostHops:            7,
			RecommendedNestingDepth: 4,
			OverlapThreshold:        0.80,
			RedundantThreshold:      0.90,
			OversizedEntityFields:   60,
			MinScore:                0, // No gate
			FailOn:                  "issue",
		},
		StrictnessStandard: {
			MediumCostHops:          DefaultMediumCostHops,
			HighCostHops:            DefaultHighCostHops,
			RecommendedNestingDepth: DefaultRecommendedNestingDepth,
			OverlapThreshold:        DefaultOverlapThreshold,
			RedundantThreshold:      DefaultRedundantThreshold,
			OversizedEntityFields:   DefaultOversizedEntityFields,
			MinScore:                60,
			FailOn:                  "issue",
		},
		StrictnessStrict: {
			MediumCostHops:          4,
			HighCostHops:            5,
			RecommendedNestingDepth: 2,
			OverlapThreshold:        0.60,
			RedundantThreshold:      0.80,
			OversizedEntityFields:   25,
			MinScore:                75,
			FailOn:                  "warning",
		},
	}
}

// ApplyStrictness overwrites the thresholds a strictness preset controls
func (c *Config) ApplyStrictness(strictness Strictness) {
	preset, ok := GetStrictnessPresets()[strictness]
	if !ok {
		return
	}
	c.Paths.MediumCostHops = preset.MediumCostHops
	c.Paths.HighCostHops = preset.HighCostHops
	c.Nesting.RecommendedDepth = preset.RecommendedNestingDepth
	c.Similarity.OverlapThreshold = preset.OverlapThreshold
	c.Similarity.RedundantThreshold = preset.RedundantThreshold
	c.Scoring.OversizedEntityFields = preset.OversizedEntityFields
	c.Check.MinScore = preset.MinScore
	c.Check.FailOn = preset.FailOn
}

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(strictness Strictness, excludeEntities []string) string {
	strict, ok := GetStrictnessPresets()[strictness]
	if !ok {
		strict = GetStrictnessPresets()[StrictnessStandard]
	}

	return `# schemascan configuration (` + string(strictness) + `)
# Place this file next to your schema snapshot or in the working directory.

# ============================================================================
# RELATION GRAPH
# ============================================================================
graph:
  # Entity names to leave out of the audit (gitignore syntax)
  exclude_entities: ` + formatYAMLList(excludeEntities) + `

  # Audit platform-internal entities too
  include_system: false

# ============================================================================
# RELATION CYCLES
# ============================================================================
cycles:
  # Longest cycle searched, in entities
  max_length: ` + strconv.Itoa(DefaultMaxCycleLength) + `
  max_cycles: ` + strconv.Itoa(DefaultMaxCycles) + `
  max_steps: ` + strconv.Itoa(DefaultMaxCycleSteps) + `

# ============================================================================
# DEEP RELATION PATHS
# ============================================================================
paths:
  # Paths shorter than this many entities are not reported
  min_length: ` + strconv.Itoa(DefaultMinPathLength) + `
  max_length: ` + strconv.Itoa(DefaultMaxPathLength) + `
  max_fan_out: ` + strconv.Itoa(DefaultMaxFanOut) + `
  max_queue_size: ` + strconv.Itoa(DefaultMaxQueueSize) + `
  max_paths_per_start: ` + strconv.Itoa(DefaultMaxPathsPerStart) + `
  max_total_paths: ` + strconv.Itoa(DefaultMaxTotalPaths) + `

  # Hop counts at which a path is medium or high query cost
  medium_cost_hops: ` + strconv.Itoa(strict.MediumCostHops) + `
  high_cost_hops: ` + strconv.Itoa(strict.HighCostHops) + `

# ============================================================================
# COMPONENT NESTING
# ============================================================================
nesting:
  max_depth: ` + strconv.Itoa(DefaultMaxNestingDepth) + `

  # Deepest component nesting considered healthy
  recommended_depth: ` + strconv.Itoa(strict.RecommendedNestingDepth) + `

# ============================================================================
# DUPLICATES AND AD-HOC PATTERNS
# ============================================================================
similarity:
  # Share of fields two entities must have in common to be redundant
  redundant_threshold: ` + formatFloat(strict.RedundantThreshold) + `
  redundant_min_shared: ` + strconv.Itoa(DefaultRedundantMinShared) + `

  # Share of fields two entities must have in common to overlap
  overlap_threshold: ` + formatFloat(strict.OverlapThreshold) + `
  overlap_min_shared: ` + strconv.Itoa(DefaultOverlapMinShared) + `

  # Platform-managed field names left out of comparisons
  ignored_fields: ` + formatYAMLList(DefaultIgnoredFields()) + `

  pattern_size: ` + strconv.Itoa(DefaultPatternSize) + `
  pattern_min_entities: ` + strconv.Itoa(DefaultPatternMinEntities) + `
  pattern_max_fields: ` + strconv.Itoa(DefaultPatternMaxFields) + `
  pattern_max_combinations: ` + strconv.Itoa(DefaultPatternMaxCombinations) + `

# ============================================================================
# SCORING
# ============================================================================
scoring:
  baseline: 100
  floor: 20
  dimensions: [structure, reuse, editorial, scalability]

  # Entities with more fields than this are oversized
  oversized_entity_fields: ` + strconv.Itoa(strict.OversizedEntityFields) + `

# ============================================================================
# CHECKPOINTS
# ============================================================================
checkpoints:
  # Checkpoint IDs to skip, e.g. [seo-coverage]
  disabled: []

  # Issue counts still reported as a warning, per checkpoint ID
  warning_thresholds: {}

# ============================================================================
# CI GATE (schemascan check)
# ============================================================================
check:
  # Fail when the overall score is below this value (0 = no limit)
  min_score: ` + strconv.Itoa(strict.MinScore) + `

  # Fail on checkpoints with this status or worse: issue, warning
  fail_on: ` + strict.FailOn + `

# ============================================================================
# CONTENT COUNTS
# ============================================================================
source:
  # Base URL serving GET {endpoint}/{entity}/counts (empty = counts from the schema file)
  counts_endpoint: ""
  token: ""
  batch_size: ` + strconv.Itoa(DefaultBatchSize) + `
  requests_per_second: ` + formatFloat(DefaultRequestsPerSecond) + `
  timeout_seconds: ` + strconv.Itoa(DefaultSourceTimeout) + `

# ============================================================================
# OUTPUT
# ============================================================================
output:
  # Output format: text, json, yaml
  format: text
  show_details: false
  max_examples: 5

performance:
  max_goroutines: 4
  timeout_seconds: 300

history:
  enabled: false
  path: .schemascan/history.db

logging:
  # debug, info, warn, error
  level: warn
  format: text

tracing:
  # none, stdout (spans on stderr) or otlp (gRPC collector at endpoint)
  exporter: none
  endpoint: localhost:4317
  insecure: false
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# schemascan configuration (minimal)

graph:
  exclude_entities: []

checkpoints:
  disabled: []

check:
  min_score: 60
  fail_on: issue
`
}

// formatYAMLList formats a string slice as a YAML flow sequence
func formatYAMLList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = strconv.Quote(item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
