package analyses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusDone, true},
		{StatusProcessing, StatusError, true},
		{StatusPending, StatusDone, false},
		{StatusPending, StatusError, false},
		{StatusDone, StatusProcessing, false},
		{StatusDone, StatusPending, false},
		{StatusError, StatusProcessing, false},
		{StatusError, StatusDone, false},
		{StatusProcessing, StatusPending, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusDone.Terminal())
	assert.True(t, StatusError.Terminal())
}

func TestStatusKnown(t *testing.T) {
	assert.True(t, StatusPending.Known())
	assert.False(t, Status("archived").Known())
	assert.False(t, Status("").Known())
}

func TestTypeKnown(t *testing.T) {
	assert.True(t, TypeSales.Known())
	assert.True(t, TypeAppointmentFollowup.Known())
	assert.False(t, Type("cold_call").Known())
}

func TestParseReportData(t *testing.T) {
	raw := `{"summary":{"totalScore":140,"strengths":["rapport"],"improvements":["closing"],"recommendations":["practice closes"]},"analysis":[{"parameter":"opening","text":"strong greeting","score":6}]}`
	report, err := ParseReportData(raw)
	require.NoError(t, err)
	require.NotNil(t, report.Summary)
	require.NotNil(t, report.Summary.TotalScore)
	assert.Equal(t, 140, *report.Summary.TotalScore)
	assert.Len(t, report.Analysis, 1)
	assert.Equal(t, "opening", report.Analysis[0].Parameter)
	assert.True(t, report.Complete())
}

func TestParseReportDataStripsFences(t *testing.T) {
	raw := "```json\n{\"summary\":{\"totalScore\":7},\"analysis\":[{\"parameter\":\"opening\",\"text\":\"ok\",\"score\":7}]}\n```"
	report, err := ParseReportData(raw)
	require.NoError(t, err)
	require.NotNil(t, report.Summary.TotalScore)
	assert.Equal(t, 7, *report.Summary.TotalScore)
}

func TestParseReportDataInvalid(t *testing.T) {
	_, err := ParseReportData("not json at all")
	assert.Error(t, err)
}

func TestReportCompleteness(t *testing.T) {
	var nilReport *ReportData
	assert.False(t, nilReport.Complete())
	assert.False(t, (&ReportData{}).Complete())
	assert.False(t, (&ReportData{Summary: &ReportSummary{}}).Complete())
	assert.False(t, (&ReportData{Analysis: []ReportItem{{Parameter: "p"}}}).Complete())
	assert.True(t, (&ReportData{
		Summary:  &ReportSummary{},
		Analysis: []ReportItem{{Parameter: "p"}},
	}).Complete())
}

func TestErrorReport(t *testing.T) {
	report := ErrorReport("transcription failed")
	assert.Equal(t, "transcription failed", report.Error)
	assert.Nil(t, report.Summary)
	assert.False(t, report.Complete())
}
