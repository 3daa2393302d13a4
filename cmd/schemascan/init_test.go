package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/schemascan/internal/config"
)

func runInitCmd(t *testing.T, args ...string) error {
	t.Helper()
	cmd := initCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestInitCommand_BasicConfigCreation(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "schemascan.yaml")

	if err := runInitCmd(t, "--config", configPath); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	expectedSections := []string{"graph:", "cycles:", "paths:", "nesting:", "similarity:", "scoring:", "checkpoints:", "check:", "history:", "tracing:"}
	for _, section := range expectedSections {
		if !strings.Contains(string(content), section) {
			t.Errorf("Config file missing expected section: %s", section)
		}
	}

	// The generated file must load back as a valid configuration
	if _, err := config.LoadConfig(configPath); err != nil {
		t.Errorf("Generated config does not load: %v", err)
	}
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "schemascan.yaml")
	if err := os.WriteFile(configPath, []byte("existing: true\n"), 0644); err != nil {
		t.Fatalf("Failed to create existing file: %v", err)
	}

	if err := runInitCmd(t, "--config", configPath); err == nil {
		t.Error("Expected error when file exists without --force")
	}

	if err := runInitCmd(t, "--config", configPath, "--force"); err != nil {
		t.Fatalf("init with --force failed: %v", err)
	}
	content, _ := os.ReadFile(configPath)
	if strings.Contains(string(content), "existing: true") {
		t.Error("File was not overwritten with --force")
	}
}

func TestInitCommand_MinimalConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "schemascan.yaml")

	if err := runInitCmd(t, "--config", configPath, "--minimal"); err != nil {
		t.Fatalf("init --minimal failed: %v", err)
	}

	content, _ := os.ReadFile(configPath)
	if !strings.Contains(string(content), "(minimal)") {
		t.Error("Expected minimal template")
	}
	if strings.Contains(string(content), "similarity:") {
		t.Error("Minimal config should not contain the similarity section")
	}
}

func TestInitCommand_StrictnessAndExclude(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "schemascan.yaml")

	if err := runInitCmd(t, "--config", configPath, "--strictness", "strict", "--exclude", "Legacy*,Internal"); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Generated config does not load: %v", err)
	}
	preset := config.GetStrictnessPresets()[config.StrictnessStrict]
	if cfg.Check.FailOn != preset.FailOn {
		t.Errorf("Expected fail_on %s, got %s", preset.FailOn, cfg.Check.FailOn)
	}
	if got := strings.Join(cfg.Graph.ExcludeEntities, ","); got != "Legacy*,Internal" {
		t.Errorf("Expected exclude patterns, got %s", got)
	}
}

func TestInitCommand_UnknownStrictness(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "schemascan.yaml")
	if err := runInitCmd(t, "--config", configPath, "--strictness", "extreme"); err == nil {
		t.Error("Expected error for unknown strictness")
	}
	if _, err := os.Stat(configPath); !os.IsNotExist(err) {
		t.Error("No file should be written for an unknown strictness")
	}
}

func TestInitCommand_InvalidDirectory(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "missing", "schemascan.yaml")
	if err := runInitCmd(t, "--config", configPath); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestInitCmd_FlagsExist(t *testing.T) {
	cmd := initCmd()

	for _, flagName := range []string{"config", "force", "minimal", "interactive", "strictness", "exclude"} {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}
	for short, long := range map[string]string{"c": "config", "f": "force", "i": "interactive"} {
		if flag := cmd.Flags().ShorthandLookup(short); flag == nil || flag.Name != long {
			t.Errorf("Missing short flag -%s for --%s", short, long)
		}
	}
}

func TestInitCmd_DefaultConfigPath(t *testing.T) {
	cmd := initCmd()
	if flag := cmd.Flags().Lookup("config"); flag.DefValue != "schemascan.yaml" {
		t.Errorf("Expected default config path 'schemascan.yaml', got '%s'", flag.DefValue)
	}
}

func TestSplitPatterns(t *testing.T) {
	got := splitPatterns(" Legacy* , ,Internal,")
	if strings.Join(got, "|") != "Legacy*|Internal" {
		t.Errorf("splitPatterns = %v", got)
	}
	if splitPatterns("") != nil {
		t.Error("Expected nil for empty input")
	}
}
