package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadTemplateConfig parses the documented template for a strictness level
// on top of the defaults and validates the result
func LoadTemplateConfig(strictness Strictness) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(GetFullConfigTemplate(strictness, nil)), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s template: %w", strictness, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s template: %w", strictness, err)
	}
	return cfg, nil
}
