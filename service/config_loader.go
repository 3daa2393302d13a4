package service

import (
	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/config"
)

// ConfigOverrides carries command-line flags that take precedence over the
// configuration file. Zero values and nil pointers leave the file value alone.
type ConfigOverrides struct {
	Strictness      config.Strictness
	OutputFormat    string
	ShowDetails     *bool
	MaxExamples     int
	ExcludeEntities []string
	IncludeSystem   *bool
	Disabled        []string
	CountsEndpoint  string
	HistoryEnabled  *bool
	HistoryPath     string
	LogLevel        string
	LogFormat       string
	MaxGoroutines   int
	TimeoutSeconds  int
}

// ConfigurationLoaderImpl loads and merges schemascan configuration
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return cfg, nil
}

// LoadConfigForSchema loads configuration from path, or discovers a config
// file near the schema snapshot when path is empty
func (c *ConfigurationLoaderImpl) LoadConfigForSchema(path, schemaPath string) (*config.Config, error) {
	cfg, err := config.LoadConfigWithTarget(path, schemaPath)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return cfg, nil
}

// MergeConfig applies command-line overrides on top of base
func (c *ConfigurationLoaderImpl) MergeConfig(base *config.Config, override *ConfigOverrides) *config.Config {
	merged := *base
	if override == nil {
		return &merged
	}

	// Strictness goes first so explicit flags win over the preset
	if override.Strictness != "" {
		merged.ApplyStrictness(override.Strictness)
	}

	if override.OutputFormat != "" {
		merged.Output.Format = override.OutputFormat
	}
	if override.ShowDetails != nil {
		merged.Output.ShowDetails = *override.ShowDetails
	}
	if override.MaxExamples > 0 {
		merged.Output.MaxExamples = override.MaxExamples
	}

	if len(override.ExcludeEntities) > 0 {
		merged.Graph.ExcludeEntities = append(append([]string{}, base.Graph.ExcludeEntities...), override.ExcludeEntities...)
	}
	if override.IncludeSystem != nil {
		merged.Graph.IncludeSystem = *override.IncludeSystem
	}
	if len(override.Disabled) > 0 {
		merged.Checkpoints.Disabled = append(append([]string{}, base.Checkpoints.Disabled...), override.Disabled...)
	}

	if override.CountsEndpoint != "" {
		merged.Source.CountsEndpoint = override.CountsEndpoint
	}
	if override.HistoryEnabled != nil {
		merged.History.Enabled = *override.HistoryEnabled
	}
	if override.HistoryPath != "" {
		merged.History.Path = override.HistoryPath
	}

	if override.LogLevel != "" {
		merged.Logging.Level = override.LogLevel
	}
	if override.LogFormat != "" {
		merged.Logging.Format = override.LogFormat
	}

	if override.MaxGoroutines > 0 {
		merged.Performance.MaxGoroutines = override.MaxGoroutines
	}
	if override.TimeoutSeconds > 0 {
		merged.Performance.TimeoutSeconds = override.TimeoutSeconds
	}

	return &merged
}

// ValidateConfig validates the merged configuration
func (c *ConfigurationLoaderImpl) ValidateConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return domain.NewConfigError("invalid configuration", err)
	}
	return nil
}
