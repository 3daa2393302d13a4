package domain

import (
	"encoding/json"
	"fmt"
)

// CheckpointStatus is the closed set of checkpoint outcomes
type CheckpointStatus int

const (
	StatusGood CheckpointStatus = iota
	StatusWarning
	StatusIssue
)

var checkpointStatusNames = map[CheckpointStatus]string{
	StatusGood:    "good",
	StatusWarning: "warning",
	StatusIssue:   "issue",
}

// String returns the wire name of the status
func (s CheckpointStatus) String() string {
	if name, ok := checkpointStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("CheckpointStatus(%d)", int(s))
}

// ParseCheckpointStatus parses a wire name into a status
func ParseCheckpointStatus(name string) (CheckpointStatus, error) {
	for status, n := range checkpointStatusNames {
		if n == name {
			return status, nil
		}
	}
	return StatusGood, fmt.Errorf("unknown checkpoint status %q", name)
}

// MarshalJSON encodes the status as its wire name
func (s CheckpointStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a wire name into the status
func (s *CheckpointStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseCheckpointStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalYAML encodes the status as its wire name
func (s CheckpointStatus) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// StatusForCount derives a status from an issue count: zero is good,
// up to warningMax is a warning, anything above is an issue
func StatusForCount(count, warningMax int) CheckpointStatus {
	switch {
	case count <= 0:
		return StatusGood
	case count <= warningMax:
		return StatusWarning
	default:
		return StatusIssue
	}
}

// CheckpointExample is one concrete item backing a checkpoint's status
type CheckpointExample struct {
	Title   string   `json:"title" yaml:"title"`
	Items   []string `json:"items,omitempty" yaml:"items,omitempty"`
	Details string   `json:"details,omitempty" yaml:"details,omitempty"`
}

// CheckpointResult is the externally visible outcome of one audit topic
type CheckpointResult struct {
	ID          string              `json:"id" yaml:"id"`
	Title       string              `json:"title" yaml:"title"`
	Status      CheckpointStatus    `json:"status" yaml:"status"`
	IssueCount  int                 `json:"issue_count" yaml:"issue_count"`
	Findings    []string            `json:"findings" yaml:"findings"`
	Examples    []CheckpointExample `json:"examples" yaml:"examples"`
	ActionItems []string            `json:"action_items" yaml:"action_items"`

	// Degraded is set when the analyzer behind the checkpoint failed
	Degraded bool   `json:"degraded,omitempty" yaml:"degraded,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// DegradedCheckpoint returns the default result for a checkpoint whose analyzer failed
func DegradedCheckpoint(id, title string, cause error) CheckpointResult {
	msg := "analysis did not complete"
	if cause != nil {
		msg = cause.Error()
	}
	return CheckpointResult{
		ID:          id,
		Title:       title,
		Status:      StatusWarning,
		Findings:    []string{"This topic could not be analyzed; results are incomplete."},
		Examples:    []CheckpointExample{},
		ActionItems: []string{},
		Degraded:    true,
		Error:       msg,
	}
}
