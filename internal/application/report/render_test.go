package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Idosegev23/GameChanger/internal/application/access"
	"github.com/Idosegev23/GameChanger/internal/domain/analyses"
)

func intPtr(v int) *int { return &v }

func itemsOf(n int) []analyses.ReportItem {
	items := make([]analyses.ReportItem, n)
	for i := range items {
		items[i] = analyses.ReportItem{Parameter: "p", Text: "t", Score: 5}
	}
	return items
}

func TestOverallScoreFormula(t *testing.T) {
	// 20 detected items still score against the full 28-parameter rubric:
	// round(140 / (7*28) * 100) = 71
	report := &analyses.ReportData{
		Summary:  &analyses.ReportSummary{TotalScore: intPtr(140)},
		Analysis: itemsOf(20),
	}
	assert.Equal(t, 71, OverallScore(report))
}

func TestOverallScoreMissingTotal(t *testing.T) {
	assert.Equal(t, 0, OverallScore(nil))
	assert.Equal(t, 0, OverallScore(&analyses.ReportData{}))
	assert.Equal(t, 0, OverallScore(&analyses.ReportData{Summary: &analyses.ReportSummary{}}))
}

func TestOverallScoreLargeRubric(t *testing.T) {
	// More than 28 items widens the denominator: round(210/(7*30)*100) = 100
	report := &analyses.ReportData{
		Summary:  &analyses.ReportSummary{TotalScore: intPtr(210)},
		Analysis: itemsOf(30),
	}
	assert.Equal(t, 100, OverallScore(report))
}

func TestOverallScoreClamped(t *testing.T) {
	report := &analyses.ReportData{
		Summary:  &analyses.ReportSummary{TotalScore: intPtr(9999)},
		Analysis: itemsOf(5),
	}
	assert.Equal(t, 100, OverallScore(report))

	report.Summary.TotalScore = intPtr(-50)
	assert.Equal(t, 0, OverallScore(report))
}

func TestDecideProgressViews(t *testing.T) {
	m := Decide(analyses.StatusPending, nil, "")
	assert.Equal(t, ViewProgress, m.Kind)
	assert.Equal(t, 30, m.Progress)

	m = Decide(analyses.StatusProcessing, nil, "")
	assert.Equal(t, ViewProgress, m.Kind)
	assert.Equal(t, 70, m.Progress)
}

func TestDecideErrorView(t *testing.T) {
	m := Decide(analyses.StatusError, analyses.ErrorReport("whisper timeout"), "")
	assert.Equal(t, ViewError, m.Kind)
	assert.Equal(t, "whisper timeout", m.Message)

	// Absent error text falls back to a generic message
	m = Decide(analyses.StatusError, nil, "")
	assert.Equal(t, ViewError, m.Kind)
	assert.Equal(t, "unknown error", m.Message)
}

func TestDecideUnknownStatus(t *testing.T) {
	for _, status := range []analyses.Status{"", "archived", "DONE", "queued"} {
		m := Decide(status, nil, "")
		assert.Equal(t, ViewUnknown, m.Kind, "status %q", status)
		assert.NotEmpty(t, m.Message)
	}
}

// Decide must be total: any partial payload renders, never panics.
func TestDecideDoneTotality(t *testing.T) {
	payloads := []*analyses.ReportData{
		nil,
		{},
		{Summary: &analyses.ReportSummary{}},
		{Analysis: itemsOf(2)},
		{Summary: &analyses.ReportSummary{Strengths: []string{}, Improvements: []string{}}},
		{Summary: &analyses.ReportSummary{TotalScore: intPtr(42)}, Analysis: itemsOf(1)},
	}
	for i, payload := range payloads {
		m := Decide(analyses.StatusDone, payload, "")
		require.Equal(t, ViewReport, m.Kind, "payload %d", i)
		require.NotNil(t, m.Report, "payload %d", i)
	}
}

func TestDecideDoneFallbacks(t *testing.T) {
	m := Decide(analyses.StatusDone, &analyses.ReportData{}, "")
	view := m.Report
	require.NotNil(t, view)

	assert.Equal(t, 0, view.OverallScore)
	assert.Equal(t, []string{"none detected"}, view.Parameters)
	assert.Equal(t, []string{"none detected"}, view.Strengths)
	assert.Equal(t, []string{"none detected"}, view.Improvements)
	assert.Equal(t, []string{"none detected"}, view.Recommendations)
	assert.Empty(t, view.Details)
	assert.Equal(t, "not available", view.Transcript)
	assert.NotEmpty(t, view.RawPayload)

	m = Decide(analyses.StatusDone, nil, "")
	assert.Equal(t, "not available", m.Report.RawPayload)
}

func TestDecideDoneSections(t *testing.T) {
	report := &analyses.ReportData{
		Summary: &analyses.ReportSummary{
			TotalScore:      intPtr(13),
			Strengths:       []string{"clear opening"},
			Improvements:    []string{"ask more questions"},
			Recommendations: []string{"slow down"},
		},
		Analysis: []analyses.ReportItem{
			{Parameter: "opening", Text: "confident greeting", Score: 6},
			{Parameter: "discovery", Text: "few open questions", Score: 7},
		},
	}
	m := Decide(analyses.StatusDone, report, "hello, thanks for calling")
	view := m.Report
	require.NotNil(t, view)

	assert.Equal(t, []string{"opening", "discovery"}, view.Parameters)
	assert.Equal(t, []string{"clear opening"}, view.Strengths)
	assert.Equal(t, []string{"ask more questions"}, view.Improvements)
	assert.Equal(t, []string{"slow down"}, view.Recommendations)
	require.Len(t, view.Details, 2)
	assert.Equal(t, DetailItem{Parameter: "discovery", Text: "few open questions", Score: 7}, view.Details[1])
	assert.Equal(t, "hello, thanks for calling", view.Transcript)
	assert.Contains(t, view.RawPayload, "discovery")
}

func TestRenderPermissionMapping(t *testing.T) {
	a := &analyses.Analysis{Status: analyses.StatusProcessing}

	m := Render(access.Unresolved, a)
	assert.Equal(t, ViewLoading, m.Kind)

	m = Render(access.Denied, a)
	assert.Equal(t, ViewNoAccess, m.Kind)
	assert.NotEmpty(t, m.Message)

	m = Render(access.Granted, a)
	assert.Equal(t, ViewProgress, m.Kind)
	assert.Equal(t, 70, m.Progress)
}
