package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/schemascan/internal/config"
	"github.com/ludo-technologies/schemascan/internal/constants"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a schemascan configuration file",
		Long: `Generate a documented schemascan configuration file with sensible defaults.

By default, creates schemascan.yaml in the current directory with full
documentation. Use --interactive for a guided setup wizard.

Examples:
  # Create schemascan.yaml in current directory
  schemascan init

  # Custom output path
  schemascan init --config custom.yaml

  # Overwrite existing file
  schemascan init --force

  # Stricter thresholds, leaving out legacy entities
  schemascan init --strictness strict --exclude "Legacy*"

  # Generate smaller config with essential options only
  schemascan init --minimal

  # Interactive setup wizard
  schemascan init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")
	cmd.Flags().String("strictness", string(config.StrictnessStandard),
		"Threshold preset: relaxed, standard, strict")
	cmd.Flags().StringSlice("exclude", nil,
		"Entity name patterns to leave out (gitignore syntax)")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")
	strictnessValue, _ := cmd.Flags().GetString("strictness")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")

	strictness := config.Strictness(strictnessValue)
	if _, ok := config.GetStrictnessPresets()[strictness]; !ok {
		return fmt.Errorf("unknown strictness %q (use relaxed, standard or strict)", strictnessValue)
	}

	if interactive {
		var err error
		strictness, exclude, configPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		content = config.GetFullConfigTemplate(strictness, exclude)
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", displayPath)
	fmt.Fprintln(out, "\nRun 'schemascan audit schema.yaml' to audit your schema.")

	return nil
}

func runInteractiveSetup(defaultConfigPath string) (config.Strictness, []string, string, error) {
	fmt.Println()
	fmt.Println("schemascan Configuration Setup")
	fmt.Println("==============================")
	fmt.Println()

	strictnessLevels := []struct {
		Label       string
		Description string
		Value       config.Strictness
	}{
		{"Standard (recommended)", "Balanced thresholds for most schemas", config.StrictnessStandard},
		{"Relaxed", "Longer relation chains and deeper nesting tolerated", config.StrictnessRelaxed},
		{"Strict", "Tight thresholds, warnings fail CI", config.StrictnessStrict},
	}

	strictnessTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	strictnessPrompt := promptui.Select{
		Label:     "How strict should the audit be?",
		Items:     strictnessLevels,
		Templates: strictnessTemplates,
	}

	strictnessIdx, _, err := strictnessPrompt.Run()
	if err != nil {
		return "", nil, "", fmt.Errorf("strictness selection cancelled: %w", err)
	}
	selectedStrictness := strictnessLevels[strictnessIdx].Value

	fmt.Println()

	excludePrompt := promptui.Prompt{
		Label: "Entities to exclude (comma-separated patterns, empty for none)",
	}
	excludeInput, err := excludePrompt.Run()
	if err != nil {
		return "", nil, "", fmt.Errorf("exclude input cancelled: %w", err)
	}
	exclude := splitPatterns(excludeInput)

	fmt.Println()

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", nil, "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()
	fmt.Printf("Creating %s... ", outputPath)

	return selectedStrictness, exclude, outputPath, nil
}

// splitPatterns splits a comma-separated pattern list, dropping blanks
func splitPatterns(input string) []string {
	var patterns []string
	for _, p := range strings.Split(input, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}
