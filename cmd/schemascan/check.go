package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/schemascan/app"
	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/config"
	"github.com/ludo-technologies/schemascan/internal/constants"
	"github.com/ludo-technologies/schemascan/internal/logging"
	"github.com/ludo-technologies/schemascan/service"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

var (
	checkMinScore       int
	checkFailOn         string
	checkCheckpoints    []string
	checkExclude        []string
	checkCountsEndpoint string
	checkStrictness     string
	checkJSON           bool
	checkFormat         string
	checkConfigPath     string
	checkLogLevel       string
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [schema]",
		Short: "Quality gate for CI/CD pipelines",
		Long: `Audit a schema and fail when it does not meet the configured thresholds.

Exit codes:
  0 - All checks pass
  1 - Quality threshold(s) violated
  2 - Analysis error (schema not found, invalid schema or config, etc.)

Examples:
  # Fail on any checkpoint with status issue (default)
  schemascan check schema.yaml

  # Also fail on warnings and require a score of 75
  schemascan check --fail-on warning --min-score 75 schema.yaml

  # Only gate on relation checkpoints
  schemascan check --select relation-cycles,dangling-references schema.yaml

  # JSON output for machine parsing
  schemascan check --json schema.yaml`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runCheck,
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	cmd.Flags().IntVar(&checkMinScore, "min-score", 0,
		"Minimum overall score (0 = no limit; default from config check.min_score)")
	cmd.Flags().StringVar(&checkFailOn, "fail-on", "issue",
		"Checkpoint status that fails the gate: issue, warning")
	cmd.Flags().StringSliceVarP(&checkCheckpoints, "select", "s", nil,
		"Checkpoints to gate on (comma-separated, default: all enabled)")
	cmd.Flags().StringSliceVar(&checkExclude, "exclude", nil,
		"Entity name patterns to leave out (gitignore syntax)")
	cmd.Flags().StringVar(&checkCountsEndpoint, "counts-endpoint", "",
		"Base URL of the content-count API")
	cmd.Flags().StringVar(&checkStrictness, "strictness", "",
		"Threshold preset: relaxed, standard, strict")
	cmd.Flags().BoolVar(&checkJSON, "json", false,
		"Output results as JSON")
	cmd.Flags().StringVarP(&checkFormat, "format", "f", "text",
		"Output format: text, json, yaml")
	cmd.Flags().StringVarP(&checkConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVar(&checkLogLevel, "log-level", "",
		"Log level: debug, info, warn, error")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	schemaPath := schemaArg(args)

	cfg, err := loadCommandConfig(checkConfigPath, schemaPath, &service.ConfigOverrides{
		Strictness:      config.Strictness(checkStrictness),
		ExcludeEntities: checkExclude,
		CountsEndpoint:  checkCountsEndpoint,
		LogLevel:        checkLogLevel,
	})
	if err != nil {
		return &CheckExitError{Code: constants.ExitCodeError, Message: err.Error()}
	}

	// Apply config values for flags not explicitly set on CLI
	minScore := cfg.Check.MinScore
	if cmd.Flags().Changed("min-score") {
		minScore = checkMinScore
	}
	failOnValue := cfg.Check.FailOn
	if cmd.Flags().Changed("fail-on") {
		failOnValue = checkFailOn
	}
	failOn, err := app.ParseFailOn(failOnValue)
	if err != nil {
		return &CheckExitError{Code: constants.ExitCodeError, Message: err.Error()}
	}
	if minScore < 0 || minScore > 100 {
		return &CheckExitError{Code: constants.ExitCodeError, Message: fmt.Sprintf("--min-score must be in [0, 100], got %d", minScore)}
	}

	format := domain.OutputFormat(resolveFormatFlag(checkFormat, checkJSON, false))
	logger := logging.New(cfg.Logging)

	pm := service.NewProgressManager(format == domain.OutputFormatText)
	defer pm.Close()

	audit, cleanup, err := newAuditUseCase(cfg, logger, pm)
	if err != nil {
		return &CheckExitError{Code: constants.ExitCodeError, Message: err.Error()}
	}
	defer cleanup()

	ctx, cancel := interruptContext()
	defer cancel()

	result, err := app.NewCheckUseCase(audit).Execute(ctx, app.CheckConfig{
		MinScore: minScore,
		FailOn:   failOn,
		Audit: app.AuditConfig{
			SchemaPath:  schemaPath,
			Checkpoints: checkCheckpoints,
		},
	})
	if err != nil {
		return &CheckExitError{Code: constants.ExitCodeError, Message: err.Error()}
	}

	if err := service.NewOutputFormatter().WriteCheck(result, format, cmd.OutOrStdout()); err != nil {
		return &CheckExitError{Code: constants.ExitCodeError, Message: fmt.Sprintf("failed to write result: %v", err)}
	}
	if !result.Passed {
		return &CheckExitError{Code: result.ExitCode, Message: ""}
	}
	return nil
}
