package service

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/schemascan/domain"
)

// OutputFormatterImpl implements domain.ReportWriter
type OutputFormatterImpl struct {
	showDetails bool
	maxExamples int
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{maxExamples: 5}
}

// WithDetails controls score breakdowns and the examples printed per checkpoint
func (f *OutputFormatterImpl) WithDetails(show bool, maxExamples int) *OutputFormatterImpl {
	f.showDetails = show
	if maxExamples > 0 {
		f.maxExamples = maxExamples
	}
	return f
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Write writes the audit response in the specified format
func (f *OutputFormatterImpl) Write(response *domain.AuditResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatText, "":
		return f.writeAuditText(response, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteCheck writes a check result in the specified format
func (f *OutputFormatterImpl) WriteCheck(result *domain.CheckResult, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, result)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, result)
	case domain.OutputFormatText, "":
		return f.writeCheckText(result, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func statusIndicator(status domain.CheckpointStatus) string {
	switch status {
	case domain.StatusIssue:
		return "[ISSUE]  "
	case domain.StatusWarning:
		return "[WARNING]"
	default:
		return "[GOOD]   "
	}
}

// writeAuditText writes the audit response as plain text
func (f *OutputFormatterImpl) writeAuditText(response *domain.AuditResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== schemascan Audit Report ===\n")
	fmt.Fprintf(writer, "Run: %s\n", response.RunID)
	if response.SchemaPath != "" {
		fmt.Fprintf(writer, "Schema: %s\n", response.SchemaPath)
	}
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(writer, "Duration: %dms\n", response.DurationMs)
	fmt.Fprintf(writer, "Version: %s\n\n", response.Version)

	s := response.Summary
	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Entities: %d (%d models, %d components)\n", s.TotalEntities, s.Models, s.Components)
	fmt.Fprintf(writer, "  Enumerations: %d\n", s.Enumerations)
	fmt.Fprintf(writer, "  Fields: %d\n", s.TotalFields)
	fmt.Fprintf(writer, "  Relations: %d\n", s.TotalRelations)
	if s.ExcludedEntities > 0 {
		fmt.Fprintf(writer, "  Excluded entities: %d\n", s.ExcludedEntities)
	}
	fmt.Fprintf(writer, "  Checkpoints: %d good, %d warning, %d issue\n",
		s.GoodCheckpoints, s.WarningCheckpoints, s.IssueCheckpoints)
	if f.showDetails && len(s.PurposeDistribution) > 0 {
		fmt.Fprintf(writer, "  Entity purposes: %s\n", formatDistribution(s.PurposeDistribution))
	}
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "Overall Score: %d/100 (%s)\n", response.Overall.Score, response.Overall.Level)
	for _, d := range response.Dimensions {
		fmt.Fprintf(writer, "  %-12s %3d  %s\n", d.Dimension, d.Score, d.Assessment)
		if f.showDetails {
			for _, c := range d.Breakdown {
				fmt.Fprintf(writer, "      %+d  %s\n", c.Value, c.Reason)
				if c.Details != "" {
					fmt.Fprintf(writer, "          %s\n", c.Details)
				}
			}
			fmt.Fprintf(writer, "      %s\n", d.Formula)
		}
	}
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "Checkpoints:\n")
	for _, cp := range response.Checkpoints {
		fmt.Fprintf(writer, "  %s %s\n", statusIndicator(cp.Status), cp.Title)
		for _, finding := range cp.Findings {
			fmt.Fprintf(writer, "      %s\n", finding)
		}
		if !f.showDetails {
			continue
		}
		for i, ex := range cp.Examples {
			if i >= f.maxExamples {
				fmt.Fprintf(writer, "      ... %d more\n", len(cp.Examples)-i)
				break
			}
			line := ex.Title
			if ex.Details != "" {
				line += " (" + ex.Details + ")"
			}
			fmt.Fprintf(writer, "      - %s\n", line)
		}
		for _, action := range cp.ActionItems {
			fmt.Fprintf(writer, "      > %s\n", action)
		}
	}

	if len(response.Warnings) > 0 {
		fmt.Fprintf(writer, "\nWarnings:\n")
		for _, w := range response.Warnings {
			fmt.Fprintf(writer, "  - %s\n", w)
		}
	}

	return nil
}

// writeCheckText writes a check result as plain text
func (f *OutputFormatterImpl) writeCheckText(result *domain.CheckResult, writer io.Writer) error {
	if result.Passed {
		fmt.Fprintf(writer, "schemascan check passed: score %d/100 (%s), %d checkpoints\n",
			result.Summary.OverallScore, result.Summary.Level, result.Summary.CheckpointsRun)
		return nil
	}

	fmt.Fprintf(writer, "schemascan check failed: %d violation(s)\n", len(result.Violations))
	for _, v := range result.Violations {
		fmt.Fprintf(writer, "  [%s] %s: %s\n", strings.ToUpper(v.Severity), v.Rule, v.Message)
	}
	return nil
}

// formatDistribution renders label counts sorted by count, then label
func formatDistribution(dist map[string]int) string {
	labels := make([]string, 0, len(dist))
	for label := range dist {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if dist[labels[i]] != dist[labels[j]] {
			return dist[labels[i]] > dist[labels[j]]
		}
		return labels[i] < labels[j]
	})
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, fmt.Sprintf("%s %d", label, dist[label]))
	}
	return strings.Join(parts, ", ")
}
