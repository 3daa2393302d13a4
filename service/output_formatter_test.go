package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/schemascan/domain"
)

func sampleAuditResponse() *domain.AuditResponse {
	return &domain.AuditResponse{
		RunID:      "run-1",
		SchemaPath: "schema.yaml",
		Checkpoints: []domain.CheckpointResult{
			{
				ID:          "relation-cycles",
				Title:       "Relation cycles",
				Status:      domain.StatusIssue,
				IssueCount:  3,
				Findings:    []string{"Found 3 relation cycles."},
				Examples:    []domain.CheckpointExample{{Title: "A → B → C → A"}, {Title: "D → E → F → D", Details: "length 3"}},
				ActionItems: []string{"Break the cycle with a one-way reference."},
			},
			{
				ID:          "empty-entities",
				Title:       "Empty entities",
				Status:      domain.StatusGood,
				Findings:    []string{"Every entity declares fields."},
				Examples:    []domain.CheckpointExample{},
				ActionItems: []string{},
			},
		},
		Dimensions: []domain.DimensionScore{
			{
				Dimension:  domain.DimensionStructure,
				Score:      84,
				RawScore:   84,
				Baseline:   100,
				Assessment: "Mostly sound structure",
				Breakdown:  []domain.ScoreContribution{{Reason: "relation cycles", Value: -16, Details: "A → B → C → A"}},
				Formula:    "100 - 16 = 84",
			},
		},
		Overall: domain.OverallScore{Score: 84, Level: domain.LevelGood, Dimensions: []domain.Dimension{domain.DimensionStructure}},
		Summary: domain.AuditSummary{
			TotalEntities:       6,
			Models:              5,
			Components:          1,
			TotalFields:         12,
			TotalRelations:      4,
			GoodCheckpoints:     1,
			IssueCheckpoints:    1,
			PurposeDistribution: map[string]int{"content": 3, "page": 2, "taxonomy": 1},
		},
		Warnings:    []string{"content counts unavailable"},
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		DurationMs:  12,
		Version:     "test",
	}
}

func TestWriteJSON(t *testing.T) {
	data := map[string]interface{}{
		"name":  "test",
		"value": 42,
	}

	var buf bytes.Buffer
	err := WriteJSON(&buf, data)
	if err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	// Check that it's valid JSON
	var result map[string]interface{}
	err = json.Unmarshal(buf.Bytes(), &result)
	if err != nil {
		t.Fatalf("Failed to parse output as JSON: %v", err)
	}

	if result["name"] != "test" {
		t.Errorf("Expected name to be 'test', got %v", result["name"])
	}
}

func TestOutputFormatterWriteAuditJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(sampleAuditResponse(), domain.OutputFormatJSON, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Failed to parse output as JSON: %v", err)
	}
	if decoded["run_id"] != "run-1" {
		t.Errorf("run_id = %v, want run-1", decoded["run_id"])
	}
	checkpoints, ok := decoded["checkpoints"].([]interface{})
	if !ok || len(checkpoints) != 2 {
		t.Fatalf("checkpoints = %v, want 2 entries", decoded["checkpoints"])
	}
	first := checkpoints[0].(map[string]interface{})
	if first["status"] != "issue" {
		t.Errorf("status = %v, want issue", first["status"])
	}
}

func TestOutputFormatterWriteAuditYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(sampleAuditResponse(), domain.OutputFormatYAML, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Failed to parse output as YAML: %v", err)
	}
	if decoded["run_id"] != "run-1" {
		t.Errorf("run_id = %v, want run-1", decoded["run_id"])
	}
	if !strings.Contains(buf.String(), "status: issue") {
		t.Error("status not written by name")
	}
}

func TestOutputFormatterWriteAuditText(t *testing.T) {
	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(sampleAuditResponse(), domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"schemascan Audit Report",
		"Entities: 6 (5 models, 1 components)",
		"Overall Score: 84/100 (Good)",
		"[ISSUE]   Relation cycles",
		"[GOOD]    Empty entities",
		"Found 3 relation cycles.",
		"content counts unavailable",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in output:\n%s", want, output)
		}
	}
	if strings.Contains(output, "100 - 16 = 84") {
		t.Error("formula printed without details")
	}
	if strings.Contains(output, "A → B → C → A") {
		t.Error("examples printed without details")
	}
}

func TestOutputFormatterWriteAuditTextWithDetails(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewOutputFormatter().WithDetails(true, 1)
	if err := formatter.Write(sampleAuditResponse(), domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"100 - 16 = 84",
		"-16  relation cycles",
		"- A → B → C → A",
		"... 1 more",
		"> Break the cycle with a one-way reference.",
		"Entity purposes: content 3, page 2, taxonomy 1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in output:\n%s", want, output)
		}
	}
	if strings.Contains(output, "D → E → F → D") {
		t.Error("example printed beyond the limit")
	}
}

func TestOutputFormatterWriteCheckText(t *testing.T) {
	formatter := NewOutputFormatter()

	var buf bytes.Buffer
	passed := &domain.CheckResult{
		Passed:  true,
		Summary: domain.CheckSummary{OverallScore: 92, Level: domain.LevelExcellent, CheckpointsRun: 13},
	}
	if err := formatter.WriteCheck(passed, domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("WriteCheck failed: %v", err)
	}
	if !strings.Contains(buf.String(), "check passed: score 92/100 (Excellent), 13 checkpoints") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	buf.Reset()
	failed := &domain.CheckResult{
		Violations: []domain.CheckViolation{
			{Category: "score", Rule: "min-score", Severity: "error", Message: "overall score 55 is below 70"},
		},
	}
	if err := formatter.WriteCheck(failed, domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("WriteCheck failed: %v", err)
	}
	if !strings.Contains(buf.String(), "[ERROR] min-score: overall score 55 is below 70") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestOutputFormatterUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewOutputFormatter()
	if err := formatter.Write(sampleAuditResponse(), domain.OutputFormat("csv"), &buf); err == nil {
		t.Error("expected error for unsupported audit format")
	}
	if err := formatter.WriteCheck(&domain.CheckResult{}, domain.OutputFormat("csv"), &buf); err == nil {
		t.Error("expected error for unsupported check format")
	}
}

func TestFormatDistribution(t *testing.T) {
	got := formatDistribution(map[string]int{"page": 2, "content": 2, "settings": 5})
	want := "settings 5, content 2, page 2"
	if got != want {
		t.Errorf("formatDistribution() = %q, want %q", got, want)
	}
}
