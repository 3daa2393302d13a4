package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/config"
)

func TestNewConfigurationLoader(t *testing.T) {
	loader := NewConfigurationLoader()

	if loader == nil {
		t.Fatal("NewConfigurationLoader should not return nil")
	}
}

func TestConfigurationLoader_LoadConfig_NonExistent(t *testing.T) {
	loader := NewConfigurationLoader()

	_, err := loader.LoadConfig("/nonexistent/schemascan.yaml")
	if err == nil {
		t.Fatal("LoadConfig should return error for nonexistent file")
	}

	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != domain.ErrCodeConfig {
		t.Errorf("Expected config error, got %v", err)
	}
}

func TestConfigurationLoader_LoadConfig_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "schemascan.yaml")
	if err := os.WriteFile(configFile, []byte("paths: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	loader := NewConfigurationLoader()

	_, err := loader.LoadConfig(configFile)
	if err == nil {
		t.Error("LoadConfig should return error for invalid YAML")
	}
}

func TestConfigurationLoader_LoadConfig_ValidJSON(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "schemascan.json")
	content := `{
		"nesting": {"recommended_depth": 2},
		"output": {"format": "json", "show_details": true}
	}`
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	loader := NewConfigurationLoader()
	cfg, err := loader.LoadConfig(configFile)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Nesting.RecommendedDepth != 2 {
		t.Errorf("Expected recommended depth 2, got %d", cfg.Nesting.RecommendedDepth)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Expected format json, got %s", cfg.Output.Format)
	}
	if !cfg.Output.ShowDetails {
		t.Error("Expected show_details true")
	}
}

func TestConfigurationLoader_LoadConfigForSchema(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, ".schemascan.yaml"), []byte("check:\n  min_score: 80\n"), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}
	schemaPath := filepath.Join(tempDir, "schema.yaml")
	if err := os.WriteFile(schemaPath, []byte("entities: []\n"), 0644); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	cfg, err := NewConfigurationLoader().LoadConfigForSchema("", schemaPath)
	if err != nil {
		t.Fatalf("LoadConfigForSchema failed: %v", err)
	}
	if cfg.Check.MinScore != 80 {
		t.Errorf("Expected discovered min score 80, got %d", cfg.Check.MinScore)
	}
}

func TestConfigurationLoader_MergeConfig(t *testing.T) {
	loader := NewConfigurationLoader()
	showDetails := true
	includeSystem := true

	base := config.DefaultConfig()
	base.Graph.ExcludeEntities = []string{"Legacy*"}

	merged := loader.MergeConfig(base, &ConfigOverrides{
		OutputFormat:    "yaml",
		ShowDetails:     &showDetails,
		MaxExamples:     8,
		ExcludeEntities: []string{"Internal"},
		IncludeSystem:   &includeSystem,
		Disabled:        []string{"seo-coverage"},
		CountsEndpoint:  "https://cms.example.com/api",
		LogLevel:        "debug",
	})

	if merged.Output.Format != "yaml" {
		t.Errorf("Expected format yaml, got %s", merged.Output.Format)
	}
	if !merged.Output.ShowDetails || merged.Output.MaxExamples != 8 {
		t.Errorf("Unexpected output settings: %+v", merged.Output)
	}
	if len(merged.Graph.ExcludeEntities) != 2 || merged.Graph.ExcludeEntities[1] != "Internal" {
		t.Errorf("Expected appended exclude patterns, got %v", merged.Graph.ExcludeEntities)
	}
	if !merged.Graph.IncludeSystem {
		t.Error("Expected IncludeSystem override")
	}
	if merged.Checkpoints.IsCheckpointEnabled("seo-coverage") {
		t.Error("Expected seo-coverage disabled")
	}
	if merged.Source.CountsEndpoint != "https://cms.example.com/api" {
		t.Errorf("Unexpected endpoint %s", merged.Source.CountsEndpoint)
	}
	if merged.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", merged.Logging.Level)
	}
}

func TestConfigurationLoader_MergeConfig_PreserveBase(t *testing.T) {
	loader := NewConfigurationLoader()

	base := config.DefaultConfig()
	base.Output.Format = "json"
	base.Graph.ExcludeEntities = []string{"Legacy*"}

	merged := loader.MergeConfig(base, &ConfigOverrides{ExcludeEntities: []string{"Internal"}})

	if merged.Output.Format != "json" {
		t.Errorf("Expected base format preserved, got %s", merged.Output.Format)
	}
	if len(base.Graph.ExcludeEntities) != 1 {
		t.Errorf("Base exclude patterns mutated: %v", base.Graph.ExcludeEntities)
	}

	nilMerged := loader.MergeConfig(base, nil)
	if nilMerged == base {
		t.Error("MergeConfig should return a copy")
	}
}

func TestConfigurationLoader_MergeConfig_StrictnessThenFlags(t *testing.T) {
	loader := NewConfigurationLoader()

	merged := loader.MergeConfig(config.DefaultConfig(), &ConfigOverrides{
		Strictness: config.StrictnessStrict,
	})
	strict := config.GetStrictnessPresets()[config.StrictnessStrict]
	if merged.Paths.HighCostHops != strict.HighCostHops {
		t.Errorf("Expected strict high cost hops %d, got %d", strict.HighCostHops, merged.Paths.HighCostHops)
	}
	if merged.Check.FailOn != "warning" {
		t.Errorf("Expected strict fail_on warning, got %s", merged.Check.FailOn)
	}
}

func TestConfigurationLoader_ValidateConfig(t *testing.T) {
	loader := NewConfigurationLoader()

	if err := loader.ValidateConfig(config.DefaultConfig()); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}

	invalid := config.DefaultConfig()
	invalid.Output.Format = "html"
	err := loader.ValidateConfig(invalid)
	if err == nil {
		t.Fatal("Expected validation error")
	}
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != domain.ErrCodeConfig {
		t.Errorf("Expected config error, got %v", err)
	}
}
