package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/schemascan/app"
	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/config"
	"github.com/ludo-technologies/schemascan/internal/logging"
	"github.com/ludo-technologies/schemascan/service"
)

var (
	auditOutputFormat   string
	auditJSON           bool
	auditYAML           bool
	auditOutputPath     string
	auditConfigPath     string
	auditCheckpoints    []string
	auditDimensions     []string
	auditShowDetails    bool
	auditMaxExamples    int
	auditExclude        []string
	auditIncludeSystem  bool
	auditCountsEndpoint string
	auditSaveHistory    bool
	auditHistoryPath    string
	auditStrictness     string
	auditLogLevel       string
)

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [schema]",
		Short: "Audit a content schema",
		Long: `Audit a content schema snapshot and report every checkpoint with a
quality score per dimension.

The schema argument is a JSON or YAML snapshot, or a directory containing
schema.yaml, schema.yml or schema.json. It defaults to the current directory.

Examples:
  schemascan audit schema.yaml
  schemascan audit --details --max-examples 10 schema.yaml
  schemascan audit --select relation-cycles,deep-relation-paths schema.yaml
  schemascan audit --json -o report.json schema.yaml
  schemascan audit --counts-endpoint https://cms.example.com/api schema.yaml
  schemascan audit --save-history schema.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAudit,
	}

	cmd.Flags().StringVarP(&auditOutputFormat, "format", "f", "",
		"Output format: text, json, yaml (default from config, else text)")
	cmd.Flags().BoolVar(&auditJSON, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().BoolVar(&auditYAML, "yaml", false,
		"Output results as YAML (shorthand for --format yaml)")
	cmd.Flags().StringVarP(&auditOutputPath, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().StringVarP(&auditConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringSliceVarP(&auditCheckpoints, "select", "s", nil,
		"Checkpoints to run (comma-separated, default: all enabled)")
	cmd.Flags().StringSliceVar(&auditDimensions, "dimensions", nil,
		"Score dimensions: structure,reuse,editorial,scalability")
	cmd.Flags().BoolVar(&auditShowDetails, "details", false,
		"Show score breakdowns and checkpoint examples")
	cmd.Flags().IntVar(&auditMaxExamples, "max-examples", 0,
		"Examples printed per checkpoint with --details")
	cmd.Flags().StringSliceVar(&auditExclude, "exclude", nil,
		"Entity name patterns to leave out (gitignore syntax)")
	cmd.Flags().BoolVar(&auditIncludeSystem, "include-system", false,
		"Include platform-internal entities")
	cmd.Flags().StringVar(&auditCountsEndpoint, "counts-endpoint", "",
		"Base URL of the content-count API")
	cmd.Flags().BoolVar(&auditSaveHistory, "save-history", false,
		"Record the run in the audit history")
	cmd.Flags().StringVar(&auditHistoryPath, "history-path", "",
		"Path of the history database")
	cmd.Flags().StringVar(&auditStrictness, "strictness", "",
		"Threshold preset: relaxed, standard, strict")
	cmd.Flags().StringVar(&auditLogLevel, "log-level", "",
		"Log level: debug, info, warn, error")

	return cmd
}

// auditOverrides collects the audit flags that were set on the command line
func auditOverrides(cmd *cobra.Command) *service.ConfigOverrides {
	overrides := &service.ConfigOverrides{
		Strictness:      config.Strictness(auditStrictness),
		OutputFormat:    resolveFormatFlag(auditOutputFormat, auditJSON, auditYAML),
		MaxExamples:     auditMaxExamples,
		ExcludeEntities: auditExclude,
		CountsEndpoint:  auditCountsEndpoint,
		HistoryPath:     auditHistoryPath,
		LogLevel:        auditLogLevel,
	}
	if cmd.Flags().Changed("details") {
		overrides.ShowDetails = &auditShowDetails
	}
	if cmd.Flags().Changed("include-system") {
		overrides.IncludeSystem = &auditIncludeSystem
	}
	if cmd.Flags().Changed("save-history") {
		overrides.HistoryEnabled = &auditSaveHistory
	}
	return overrides
}

// resolveFormatFlag folds the format shorthands into one value
func resolveFormatFlag(format string, asJSON, asYAML bool) string {
	switch {
	case asJSON:
		return string(domain.OutputFormatJSON)
	case asYAML:
		return string(domain.OutputFormatYAML)
	default:
		return format
	}
}

func runAudit(cmd *cobra.Command, args []string) error {
	schemaPath := schemaArg(args)

	cfg, err := loadCommandConfig(auditConfigPath, schemaPath, auditOverrides(cmd))
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Logging)
	format := domain.OutputFormat(cfg.Output.Format)
	if format == domain.OutputFormatDOT {
		return fmt.Errorf("DOT output is produced by 'schemascan graph'")
	}

	var out io.Writer = cmd.OutOrStdout()
	if auditOutputPath != "" {
		file, err := os.Create(auditOutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	// Progress bars only accompany text reports
	pm := service.NewProgressManager(format == domain.OutputFormatText)
	defer pm.Close()

	uc, cleanup, err := newAuditUseCase(cfg, logger, pm)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := interruptContext()
	defer cancel()

	_, err = uc.Execute(ctx, app.AuditConfig{
		SchemaPath:   schemaPath,
		Checkpoints:  auditCheckpoints,
		Dimensions:   toDimensions(auditDimensions),
		OutputFormat: format,
		OutputWriter: out,
	})
	if err != nil {
		return err
	}

	if auditOutputPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to: %s\n", auditOutputPath)
	}
	return nil
}
