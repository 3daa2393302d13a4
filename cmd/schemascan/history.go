package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/history"
	"github.com/ludo-technologies/schemascan/internal/logging"
	"github.com/ludo-technologies/schemascan/service"
)

var (
	historyConfigPath string
	historyLimit      int
	historyJSON       bool
	historyPath       string
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded audit runs",
		Long: `Show the most recent audit runs recorded with --save-history, newest
first, with the overall score change from the run before.

Examples:
  schemascan history
  schemascan history -n 25
  schemascan history --json`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().StringVarP(&historyConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 10,
		"Number of runs to show")
	cmd.Flags().BoolVar(&historyJSON, "json", false,
		"Output runs as JSON")
	cmd.Flags().StringVar(&historyPath, "history-path", "",
		"Path of the history database")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyLimit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", historyLimit)
	}
	cfg, err := loadCommandConfig(historyConfigPath, ".", &service.ConfigOverrides{HistoryPath: historyPath})
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.History.Path, logging.New(cfg.Logging))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := interruptContext()
	defer cancel()

	runs, err := store.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if historyJSON {
		return service.WriteJSON(out, runs)
	}
	writeHistoryTable(out, runs)
	return nil
}

// writeHistoryTable prints one line per run
func writeHistoryTable(w io.Writer, runs []history.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No audits recorded yet.")
		return
	}

	fmt.Fprintf(w, "%-20s  %5s  %6s  %-10s  %6s  %8s  %s\n",
		"DATE", "SCORE", "DELTA", "LEVEL", "ISSUES", "WARNINGS", "DIMENSIONS")
	for _, run := range runs {
		fmt.Fprintf(w, "%-20s  %5d  %6s  %-10s  %6d  %8d  %s\n",
			run.GeneratedAt.Local().Format("2006-01-02 15:04:05"),
			run.OverallScore,
			formatDelta(run.Delta),
			run.Level,
			run.IssueCheckpoints,
			run.WarningCheckpoints,
			formatDimensions(run.Dimensions),
		)
	}
}

func formatDelta(delta *int) string {
	if delta == nil {
		return "-"
	}
	return fmt.Sprintf("%+d", *delta)
}

func formatDimensions(scores map[domain.Dimension]int) string {
	parts := make([]string, 0, len(scores))
	for _, d := range domain.AllDimensions() {
		if score, ok := scores[d]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", d, score))
		}
	}
	return strings.Join(parts, " ")
}
