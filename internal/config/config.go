package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/schemascan/internal/constants"
)

// Default cycle search bounds
const (
	// DefaultMaxCycleLength caps the number of entities on a searched cycle
	DefaultMaxCycleLength = 6

	// DefaultMaxCycles caps the number of reported cycles
	DefaultMaxCycles = 100

	// DefaultMaxCycleSteps caps DFS expansions per run
	DefaultMaxCycleSteps = 200000
)

// Default path explorer bounds
const (
	DefaultMinPathLength    = 4
	DefaultMaxPathLength    = 8
	DefaultMaxFanOut        = 10
	DefaultMaxQueueSize     = 5000
	DefaultMaxPathsPerStart = 20
	DefaultMaxTotalPaths    = 200

	// DefaultHighCostHops is the hop count at which a path is high cost
	DefaultHighCostHops = 6

	// DefaultMediumCostHops is the hop count at which a path is medium cost
	DefaultMediumCostHops = 5
)

// Default nesting depth bounds
const (
	// DefaultMaxNestingDepth bounds recursion regardless of graph shape
	DefaultMaxNestingDepth = 10

	// DefaultRecommendedNestingDepth is the deepest nesting considered healthy
	DefaultRecommendedNestingDepth = 3
)

// Default similarity thresholds
const (
	DefaultRedundantThreshold     = 0.85
	DefaultRedundantMinShared     = 4
	DefaultOverlapThreshold       = 0.70
	DefaultOverlapMinShared       = 3
	DefaultPatternSize            = 3
	DefaultPatternMinEntities     = 3
	DefaultPatternMaxFields       = 25
	DefaultPatternMaxCombinations = 50000
)

// DefaultOversizedEntityFields is the field count above which an entity is oversized
const DefaultOversizedEntityFields = 40

// Default content source settings
const (
	DefaultBatchSize         = 10
	DefaultRequestsPerSecond = 20.0
	DefaultSourceTimeout     = 30
)

// Config represents the main configuration structure
type Config struct {
	// Graph holds relation graph construction options
	Graph GraphConfig `json:"graph" mapstructure:"graph" yaml:"graph"`

	// Cycles holds cycle search bounds
	Cycles CycleConfig `json:"cycles" mapstructure:"cycles" yaml:"cycles"`

	// Paths holds bounded path explorer settings
	Paths PathConfig `json:"paths" mapstructure:"paths" yaml:"paths"`

	// Nesting holds nesting depth settings
	Nesting NestingConfig `json:"nesting" mapstructure:"nesting" yaml:"nesting"`

	// Similarity holds duplicate detection settings
	Similarity SimilarityConfig `json:"similarity" mapstructure:"similarity" yaml:"similarity"`

	// Scoring holds scorer settings
	Scoring ScoringConfig `json:"scoring" mapstructure:"scoring" yaml:"scoring"`

	// Checkpoints holds per-checkpoint settings
	Checkpoints CheckpointsConfig `json:"checkpoints" mapstructure:"checkpoints" yaml:"checkpoints"`

	// Check holds the CI gate defaults
	Check CheckConfig `json:"check" mapstructure:"check" yaml:"check"`

	// Source holds content-count acquisition settings
	Source SourceConfig `json:"source" mapstructure:"source" yaml:"source"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Performance holds concurrency settings
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`

	// History holds audit history persistence settings
	History HistoryConfig `json:"history" mapstructure:"history" yaml:"history"`

	// Logging holds logger settings
	Logging LoggingConfig `json:"logging" mapstructure:"logging" yaml:"logging"`

	// Tracing holds OpenTelemetry span export settings
	Tracing TracingConfig `json:"tracing" mapstructure:"tracing" yaml:"tracing"`
}

// GraphConfig holds configuration for relation graph construction
type GraphConfig struct {
	// ExcludeEntities are gitignore-style patterns of entity names to leave out
	ExcludeEntities []string `json:"exclude_entities" mapstructure:"exclude_entities" yaml:"exclude_entities"`

	// IncludeSystem includes platform-internal entities
	IncludeSystem bool `json:"include_system" mapstructure:"include_system" yaml:"include_system"`
}

// CycleConfig bounds the cycle search
type CycleConfig struct {
	MaxLength int `json:"max_length" mapstructure:"max_length" yaml:"max_length"`
	MaxCycles int `json:"max_cycles" mapstructure:"max_cycles" yaml:"max_cycles"`
	MaxSteps  int `json:"max_steps" mapstructure:"max_steps" yaml:"max_steps"`
}

// PathConfig bounds the path explorer
type PathConfig struct {
	MinLength        int `json:"min_length" mapstructure:"min_length" yaml:"min_length"`
	MaxLength        int `json:"max_length" mapstructure:"max_length" yaml:"max_length"`
	MaxFanOut        int `json:"max_fan_out" mapstructure:"max_fan_out" yaml:"max_fan_out"`
	MaxQueueSize     int `json:"max_queue_size" mapstructure:"max_queue_size" yaml:"max_queue_size"`
	MaxPathsPerStart int `json:"max_paths_per_start" mapstructure:"max_paths_per_start" yaml:"max_paths_per_start"`
	MaxTotalPaths    int `json:"max_total_paths" mapstructure:"max_total_paths" yaml:"max_total_paths"`
	HighCostHops     int `json:"high_cost_hops" mapstructure:"high_cost_hops" yaml:"high_cost_hops"`
	MediumCostHops   int `json:"medium_cost_hops" mapstructure:"medium_cost_hops" yaml:"medium_cost_hops"`
}

// NestingConfig holds nesting depth limits
type NestingConfig struct {
	MaxDepth         int `json:"max_depth" mapstructure:"max_depth" yaml:"max_depth"`
	RecommendedDepth int `json:"recommended_depth" mapstructure:"recommended_depth" yaml:"recommended_depth"`
}

// SimilarityConfig holds duplicate detection thresholds
type SimilarityConfig struct {
	RedundantThreshold     float64  `json:"redundant_threshold" mapstructure:"redundant_threshold" yaml:"redundant_threshold"`
	RedundantMinShared     int      `json:"redundant_min_shared" mapstructure:"redundant_min_shared" yaml:"redundant_min_shared"`
	OverlapThreshold       float64  `json:"overlap_threshold" mapstructure:"overlap_threshold" yaml:"overlap_threshold"`
	OverlapMinShared       int      `json:"overlap_min_shared" mapstructure:"overlap_min_shared" yaml:"overlap_min_shared"`
	IgnoredFields          []string `json:"ignored_fields" mapstructure:"ignored_fields" yaml:"ignored_fields"`
	PatternSize            int      `json:"pattern_size" mapstructure:"pattern_size" yaml:"pattern_size"`
	PatternMinEntities     int      `json:"pattern_min_entities" mapstructure:"pattern_min_entities" yaml:"pattern_min_entities"`
	PatternMaxFields       int      `json:"pattern_max_fields" mapstructure:"pattern_max_fields" yaml:"pattern_max_fields"`
	PatternMaxCombinations int      `json:"pattern_max_combinations" mapstructure:"pattern_max_combinations" yaml:"pattern_max_combinations"`
}

// ScoringConfig holds scorer settings
type ScoringConfig struct {
	Baseline int `json:"baseline" mapstructure:"baseline" yaml:"baseline"`
	Floor    int `json:"floor" mapstructure:"floor" yaml:"floor"`

	// Dimensions are the axes averaged into the overall score
	Dimensions []string `json:"dimensions" mapstructure:"dimensions" yaml:"dimensions"`

	// OversizedEntityFields is the field count above which an entity is oversized
	OversizedEntityFields int `json:"oversized_entity_fields" mapstructure:"oversized_entity_fields" yaml:"oversized_entity_fields"`
}

// CheckpointsConfig holds per-checkpoint settings
type CheckpointsConfig struct {
	// Disabled lists checkpoint IDs to skip
	Disabled []string `json:"disabled" mapstructure:"disabled" yaml:"disabled"`

	// WarningThresholds overrides the issue count tolerated as a warning, keyed by checkpoint ID
	WarningThresholds map[string]int `json:"warning_thresholds" mapstructure:"warning_thresholds" yaml:"warning_thresholds"`
}

// CheckConfig holds the CI gate defaults used by the check command
type CheckConfig struct {
	// MinScore fails the gate when the overall score is below it (0 = no limit)
	MinScore int `json:"min_score" mapstructure:"min_score" yaml:"min_score"`

	// FailOn is the checkpoint status that fails the gate: issue or warning
	FailOn string `json:"fail_on" mapstructure:"fail_on" yaml:"fail_on"`
}

// SourceConfig holds content-count acquisition settings
type SourceConfig struct {
	// CountsEndpoint is the base URL of the content-count API (empty = counts from the schema file only)
	CountsEndpoint string `json:"counts_endpoint" mapstructure:"counts_endpoint" yaml:"counts_endpoint"`

	// Token is sent as a bearer token when set
	Token string `json:"token" mapstructure:"token" yaml:"token"`

	// BatchSize is the number of simultaneous requests
	BatchSize int `json:"batch_size" mapstructure:"batch_size" yaml:"batch_size"`

	// RequestsPerSecond paces requests to the source system
	RequestsPerSecond float64 `json:"requests_per_second" mapstructure:"requests_per_second" yaml:"requests_per_second"`

	// TimeoutSeconds bounds each request
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowDetails controls whether score breakdowns and examples are printed
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`

	// MaxExamples caps the examples printed per checkpoint in text output
	MaxExamples int `json:"max_examples" mapstructure:"max_examples" yaml:"max_examples"`
}

// PerformanceConfig holds concurrency settings for checkpoint execution
type PerformanceConfig struct {
	MaxGoroutines  int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// HistoryConfig holds audit history persistence settings
type HistoryConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
	Path    string `json:"path" mapstructure:"path" yaml:"path"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `json:"level" mapstructure:"level" yaml:"level"`

	// Format is text or json
	Format string `json:"format" mapstructure:"format" yaml:"format"`
}

// Trace exporters
const (
	TraceExporterNone   = "none"
	TraceExporterStdout = "stdout"
	TraceExporterOTLP   = "otlp"
)

// TracingConfig holds OpenTelemetry span export settings
type TracingConfig struct {
	// Exporter is none, stdout (spans as JSON on stderr) or otlp (gRPC)
	Exporter string `json:"exporter" mapstructure:"exporter" yaml:"exporter"`

	// Endpoint is the OTLP collector address, host:port
	Endpoint string `json:"endpoint" mapstructure:"endpoint" yaml:"endpoint"`

	// Insecure disables TLS towards the collector
	Insecure bool `json:"insecure" mapstructure:"insecure" yaml:"insecure"`
}

// DefaultIgnoredFields are platform-managed field names left out of similarity checks
func DefaultIgnoredFields() []string {
	return []string{
		"id", "createdat", "updatedat", "publishedat",
		"createdby", "updatedby", "publishedby",
		"stage", "locale", "localizations",
		"documentinstages", "scheduledin", "history",
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{
			ExcludeEntities: []string{},
			IncludeSystem:   false,
		},
		Cycles: CycleConfig{
			MaxLength: DefaultMaxCycleLength,
			MaxCycles: DefaultMaxCycles,
			MaxSteps:  DefaultMaxCycleSteps,
		},
		Paths: PathConfig{
			MinLength:        DefaultMinPathLength,
			MaxLength:        DefaultMaxPathLength,
			MaxFanOut:        DefaultMaxFanOut,
			MaxQueueSize:     DefaultMaxQueueSize,
			MaxPathsPerStart: DefaultMaxPathsPerStart,
			MaxTotalPaths:    DefaultMaxTotalPaths,
			HighCostHops:     DefaultHighCostHops,
			MediumCostHops:   DefaultMediumCostHops,
		},
		Nesting: NestingConfig{
			MaxDepth:         DefaultMaxNestingDepth,
			RecommendedDepth: DefaultRecommendedNestingDepth,
		},
		Similarity: SimilarityConfig{
			RedundantThreshold:     DefaultRedundantThreshold,
			RedundantMinShared:     DefaultRedundantMinShared,
			OverlapThreshold:       DefaultOverlapThreshold,
			OverlapMinShared:       DefaultOverlapMinShared,
			IgnoredFields:          DefaultIgnoredFields(),
			PatternSize:            DefaultPatternSize,
			PatternMinEntities:     DefaultPatternMinEntities,
			PatternMaxFields:       DefaultPatternMaxFields,
			PatternMaxCombinations: DefaultPatternMaxCombinations,
		},
		Scoring: ScoringConfig{
			Baseline:              100,
			Floor:                 20,
			Dimensions:            []string{"structure", "reuse", "editorial", "scalability"},
			OversizedEntityFields: DefaultOversizedEntityFields,
		},
		Checkpoints: CheckpointsConfig{
			Disabled:          []string{},
			WarningThresholds: map[string]int{},
		},
		Check: CheckConfig{
			MinScore: 0,
			FailOn:   "issue",
		},
		Source: SourceConfig{
			BatchSize:         DefaultBatchSize,
			RequestsPerSecond: DefaultRequestsPerSecond,
			TimeoutSeconds:    DefaultSourceTimeout,
		},
		Output: OutputConfig{
			Format:      constants.OutputFormatText,
			ShowDetails: false,
			MaxExamples: 5,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  4,
			TimeoutSeconds: 300,
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    filepath.Join(".schemascan", "history.db"),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Tracing: TracingConfig{
			Exporter: TraceExporterNone,
			Endpoint: "localhost:4317",
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration, discovering a config file
// near targetPath when configPath is empty
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// configCandidates are the config file names searched for, in order of preference
var configCandidates = []string{
	constants.ConfigFileName,
	"schemascan.yml",
	".schemascan.yaml",
	".schemascan.yml",
	"schemascan.json",
	".schemascan.toml",
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string) string {
	for _, candidate := range configCandidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for a configuration file starting at the schema
// file's directory and walking up, then in the usual user locations
func findDefaultConfig(targetPath string) string {
	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory("."); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, "schemascan")); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		if config := searchConfigInDirectory(filepath.Join(home, ".config", "schemascan")); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Cycles.MaxLength < 3 {
		return fmt.Errorf("cycles.max_length must be >= 3, got %d", c.Cycles.MaxLength)
	}
	if c.Cycles.MaxCycles < 1 || c.Cycles.MaxSteps < 1 {
		return fmt.Errorf("cycles.max_cycles and cycles.max_steps must be >= 1")
	}

	if err := c.validatePaths(); err != nil {
		return err
	}

	if c.Nesting.MaxDepth < 1 {
		return fmt.Errorf("nesting.max_depth must be >= 1, got %d", c.Nesting.MaxDepth)
	}
	if c.Nesting.RecommendedDepth < 1 || c.Nesting.RecommendedDepth > c.Nesting.MaxDepth {
		return fmt.Errorf("nesting.recommended_depth (%d) must be between 1 and max_depth (%d)",
			c.Nesting.RecommendedDepth, c.Nesting.MaxDepth)
	}

	if err := c.validateSimilarity(); err != nil {
		return err
	}

	if c.Scoring.Floor < 0 || c.Scoring.Floor >= 100 {
		return fmt.Errorf("scoring.floor must be in [0, 100), got %d", c.Scoring.Floor)
	}
	if c.Scoring.Baseline <= c.Scoring.Floor || c.Scoring.Baseline > 100 {
		return fmt.Errorf("scoring.baseline (%d) must be in (floor, 100]", c.Scoring.Baseline)
	}
	validDimensions := map[string]bool{"structure": true, "reuse": true, "editorial": true, "scalability": true}
	for _, d := range c.Scoring.Dimensions {
		if !validDimensions[d] {
			return fmt.Errorf("invalid scoring dimension '%s', must be one of: structure, reuse, editorial, scalability", d)
		}
	}

	for id, threshold := range c.Checkpoints.WarningThresholds {
		if threshold < 0 {
			return fmt.Errorf("checkpoints.warning_thresholds.%s must be >= 0, got %d", id, threshold)
		}
	}

	if c.Check.MinScore < 0 || c.Check.MinScore > 100 {
		return fmt.Errorf("check.min_score must be in [0, 100], got %d", c.Check.MinScore)
	}
	if c.Check.FailOn != "issue" && c.Check.FailOn != "warning" {
		return fmt.Errorf("invalid check.fail_on '%s', must be issue or warning", c.Check.FailOn)
	}

	if c.Source.BatchSize < 1 {
		return fmt.Errorf("source.batch_size must be >= 1, got %d", c.Source.BatchSize)
	}
	if c.Source.RequestsPerSecond <= 0 {
		return fmt.Errorf("source.requests_per_second must be > 0, got %v", c.Source.RequestsPerSecond)
	}

	validFormats := map[string]bool{
		constants.OutputFormatText: true,
		constants.OutputFormatJSON: true,
		constants.OutputFormatYAML: true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml", c.Output.Format)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging.level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid logging.format '%s', must be text or json", c.Logging.Format)
	}

	switch c.Tracing.Exporter {
	case TraceExporterNone, TraceExporterStdout:
	case TraceExporterOTLP:
		if c.Tracing.Endpoint == "" {
			return fmt.Errorf("tracing.endpoint is required for the otlp exporter")
		}
	default:
		return fmt.Errorf("invalid tracing.exporter '%s', must be one of: none, stdout, otlp", c.Tracing.Exporter)
	}

	return nil
}

func (c *Config) validatePaths() error {
	p := c.Paths
	if p.MinLength < 2 {
		return fmt.Errorf("paths.min_length must be >= 2, got %d", p.MinLength)
	}
	if p.MaxLength < p.MinLength {
		return fmt.Errorf("paths.max_length (%d) must be >= min_length (%d)", p.MaxLength, p.MinLength)
	}
	if p.MaxFanOut < 1 || p.MaxQueueSize < 1 || p.MaxPathsPerStart < 1 || p.MaxTotalPaths < 1 {
		return fmt.Errorf("paths caps (max_fan_out, max_queue_size, max_paths_per_start, max_total_paths) must be >= 1")
	}
	if p.MediumCostHops < 1 || p.HighCostHops <= p.MediumCostHops {
		return fmt.Errorf("paths.high_cost_hops (%d) must be > medium_cost_hops (%d) >= 1", p.HighCostHops, p.MediumCostHops)
	}
	return nil
}

func (c *Config) validateSimilarity() error {
	s := c.Similarity
	if s.OverlapThreshold <= 0 || s.OverlapThreshold > 1 {
		return fmt.Errorf("similarity.overlap_threshold must be in (0, 1], got %v", s.OverlapThreshold)
	}
	if s.RedundantThreshold < s.OverlapThreshold || s.RedundantThreshold > 1 {
		return fmt.Errorf("similarity.redundant_threshold (%v) must be in [overlap_threshold, 1]", s.RedundantThreshold)
	}
	if s.OverlapMinShared < 1 || s.RedundantMinShared < s.OverlapMinShared {
		return fmt.Errorf("similarity.redundant_min_shared (%d) must be >= overlap_min_shared (%d) >= 1",
			s.RedundantMinShared, s.OverlapMinShared)
	}
	if s.PatternSize < 2 || s.PatternMinEntities < 2 {
		return fmt.Errorf("similarity.pattern_size and pattern_min_entities must be >= 2")
	}
	if s.PatternMaxFields < s.PatternSize || s.PatternMaxCombinations < 1 {
		return fmt.Errorf("similarity.pattern_max_fields must be >= pattern_size and pattern_max_combinations >= 1")
	}
	return nil
}

// IsCheckpointEnabled reports whether a checkpoint ID is enabled
func (c *CheckpointsConfig) IsCheckpointEnabled(id string) bool {
	for _, d := range c.Disabled {
		if d == id {
			return false
		}
	}
	return true
}

// WarningThreshold returns the configured warning threshold for a checkpoint, or def
func (c *CheckpointsConfig) WarningThreshold(id string, def int) int {
	if v, ok := c.WarningThresholds[id]; ok {
		return v
	}
	return def
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("graph", config.Graph)
	v.Set("cycles", config.Cycles)
	v.Set("paths", config.Paths)
	v.Set("nesting", config.Nesting)
	v.Set("similarity", config.Similarity)
	v.Set("scoring", config.Scoring)
	v.Set("checkpoints", config.Checkpoints)
	v.Set("check", config.Check)
	v.Set("source", config.Source)
	v.Set("output", config.Output)
	v.Set("performance", config.Performance)
	v.Set("history", config.History)
	v.Set("logging", config.Logging)
	v.Set("tracing", config.Tracing)

	return v.WriteConfig()
}
