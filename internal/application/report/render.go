package report

import (
	"encoding/json"
	"math"

	"github.com/Idosegev23/GameChanger/internal/application/access"
	"github.com/Idosegev23/GameChanger/internal/domain/analyses"
)

// Rubric dimensions: every parameter is scored 1-7 and a full evaluation
// covers 28 parameters. An evaluation that detected fewer parameters is
// still scored against the full rubric, so the denominator never shrinks
// below 28.
const (
	pointsPerParameter = 7
	rubricParameters   = 28
)

// ViewKind selects which view the dashboard renders.
type ViewKind string

const (
	ViewLoading  ViewKind = "loading"
	ViewNoAccess ViewKind = "no_access"
	ViewProgress ViewKind = "progress"
	ViewError    ViewKind = "error"
	ViewReport   ViewKind = "report"
	ViewUnknown  ViewKind = "unknown"
)

// Fallback texts for absent data. The display model always carries something
// renderable; missing fields never surface as crashes or blank sections.
const (
	placeholderNoneDetected = "none detected"
	placeholderNotAvailable = "not available"
	messageUnknownError     = "unknown error"
	messageUnknownStatus    = "analysis status is unknown or no data is available"
	messageNoAccess         = "you do not have permission to view this analysis"
)

// Progress values shown while the task runs. Coarse UX signals, not real
// completion percentages.
const (
	progressPending    = 30
	progressProcessing = 70
)

// DisplayModel is the decision of what to show for one analysis.
type DisplayModel struct {
	Kind     ViewKind    `json:"view"`
	Progress int         `json:"progress,omitempty"`
	Message  string      `json:"message,omitempty"`
	Report   *ReportView `json:"report,omitempty"`
}

// ReportView is the done-state report broken into dashboard sections.
type ReportView struct {
	OverallScore    int          `json:"overall_score"`
	Parameters      []string     `json:"parameters"`
	Strengths       []string     `json:"strengths"`
	Improvements    []string     `json:"improvements"`
	Recommendations []string     `json:"recommendations"`
	Details         []DetailItem `json:"details"`
	Transcript      string       `json:"transcript"`
	RawPayload      string       `json:"raw_payload"`
}

// DetailItem is one rubric parameter in the details section.
type DetailItem struct {
	Parameter string `json:"parameter"`
	Text      string `json:"text"`
	Score     int    `json:"score"`
}

// Render maps the permission decision first, then the analysis state.
func Render(decision access.Decision, a *analyses.Analysis) DisplayModel {
	switch decision {
	case access.Granted:
		return Decide(a.Status, a.Report, a.Transcription)
	case access.Denied:
		return DisplayModel{Kind: ViewNoAccess, Message: messageNoAccess}
	default:
		return DisplayModel{Kind: ViewLoading}
	}
}

// Decide is the pure, total decision function from (status, report payload,
// transcription) to a display model. Every field access tolerates absence;
// statuses outside the closed enumeration render as a neutral unknown view.
func Decide(status analyses.Status, report *analyses.ReportData, transcription string) DisplayModel {
	switch status {
	case analyses.StatusPending:
		return DisplayModel{Kind: ViewProgress, Progress: progressPending}
	case analyses.StatusProcessing:
		return DisplayModel{Kind: ViewProgress, Progress: progressProcessing}
	case analyses.StatusError:
		msg := messageUnknownError
		if report != nil && report.Error != "" {
			msg = report.Error
		}
		return DisplayModel{Kind: ViewError, Message: msg}
	case analyses.StatusDone:
		return DisplayModel{Kind: ViewReport, Report: buildReportView(report, transcription)}
	default:
		return DisplayModel{Kind: ViewUnknown, Message: messageUnknownStatus}
	}
}

// OverallScore normalizes the rubric total onto a 0-100 scale:
// round(totalScore / (7 * max(items, 28)) * 100), clamped to [0,100].
// An absent totalScore scores 0.
func OverallScore(report *analyses.ReportData) int {
	if report == nil || report.Summary == nil || report.Summary.TotalScore == nil {
		return 0
	}
	params := len(report.Analysis)
	if params < rubricParameters {
		params = rubricParameters
	}
	maxPoints := float64(pointsPerParameter * params)
	score := int(math.Round(float64(*report.Summary.TotalScore) / maxPoints * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func buildReportView(report *analyses.ReportData, transcription string) *ReportView {
	view := &ReportView{
		OverallScore: OverallScore(report),
		Transcript:   orFallback(transcription),
		RawPayload:   rawPayload(report),
	}

	if report != nil {
		for _, item := range report.Analysis {
			view.Parameters = append(view.Parameters, item.Parameter)
			view.Details = append(view.Details, DetailItem(item))
		}
		if report.Summary != nil {
			view.Strengths = report.Summary.Strengths
			view.Improvements = report.Summary.Improvements
			view.Recommendations = report.Summary.Recommendations
		}
	}

	view.Parameters = listOrPlaceholder(view.Parameters)
	view.Strengths = listOrPlaceholder(view.Strengths)
	view.Improvements = listOrPlaceholder(view.Improvements)
	view.Recommendations = listOrPlaceholder(view.Recommendations)
	if view.Details == nil {
		view.Details = []DetailItem{}
	}
	return view
}

func listOrPlaceholder(items []string) []string {
	if len(items) == 0 {
		return []string{placeholderNoneDetected}
	}
	return items
}

func orFallback(s string) string {
	if s == "" {
		return placeholderNotAvailable
	}
	return s
}

func rawPayload(report *analyses.ReportData) string {
	if report == nil {
		return placeholderNotAvailable
	}
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return placeholderNotAvailable
	}
	return string(raw)
}
