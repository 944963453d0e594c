package analyses

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ReportData is the structured payload written on the transition into a
// terminal state. When the analysis succeeded Summary and Analysis are
// present together; when it failed only Error is set.
type ReportData struct {
	Summary  *ReportSummary `json:"summary,omitempty"`
	Analysis []ReportItem   `json:"analysis,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// ReportSummary aggregates the rubric evaluation.
type ReportSummary struct {
	TotalScore      *int     `json:"totalScore,omitempty"`
	Strengths       []string `json:"strengths,omitempty"`
	Improvements    []string `json:"improvements,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// ReportItem is one scored rubric parameter.
type ReportItem struct {
	Parameter string `json:"parameter"`
	Text      string `json:"text"`
	Score     int    `json:"score"`
}

// Complete reports whether the payload satisfies the done-state invariant:
// summary and analysis items present together.
func (r *ReportData) Complete() bool {
	return r != nil && r.Summary != nil && len(r.Analysis) > 0
}

// ErrorReport builds the payload stored on the transition into error.
func ErrorReport(message string) *ReportData {
	return &ReportData{Error: message}
}

// ParseReportData decodes the model's JSON answer into a ReportData.
// Models occasionally wrap the object in markdown fences despite the JSON
// response format, so those are stripped before decoding.
func ParseReportData(raw string) (*ReportData, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var report ReportData
	if err := json.Unmarshal([]byte(cleaned), &report); err != nil {
		return nil, fmt.Errorf("decode report payload: %w", err)
	}
	return &report, nil
}
