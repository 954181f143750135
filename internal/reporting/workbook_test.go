package reporting

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"resume-screening-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// ==========================
// Test Helper Functions
// ==========================

func scoredCandidate(id int64, name string, overall float64) *models.Candidate {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return &models.Candidate{
		ID:       id,
		Name:     name,
		Email:    name + "@example.com",
		Position: "Backend Engineer",
		Status:   models.StatusPending,
		ATS: models.ATSFields{
			Tier1Score:    overall + 10,
			Tier2Score:    overall - 10,
			OverallScore:  overall,
			KeywordsFound: "experience, skills",
			AnalyzedAt:    &at,
		},
	}
}

func testReport() Report {
	return Report{
		Job: &models.JobPosition{ID: 3, Name: "Backend Engineer", PositionsToFill: 2, PositionsFilled: 1},
		Candidates: []*models.Candidate{
			scoredCandidate(1, "low", 35),
			scoredCandidate(2, "top", 85),
			scoredCandidate(3, "mid", 62.5),
		},
		GeneratedAt: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
	}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, sheet, ref string) string {
	v, err := f.GetCellValue(sheet, ref)
	require.NoError(t, err)
	return v
}

// ==========================
// Band Tests
// ==========================

func TestBand(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "Excellent"},
		{80, "Excellent"},
		{79.9, "Good"},
		{60, "Good"},
		{40, "Fair"},
		{39.9, "Poor"},
		{0, "Poor"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Band(tt.score), "score %v", tt.score)
	}
}

// ==========================
// Workbook Tests
// ==========================

func TestWorkbookExporter_Build_Sheets(t *testing.T) {
	data, err := NewWorkbookExporter().Build(testReport())
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{SummarySheet, ScoresSheet}, f.GetSheetList())
}

func TestWorkbookExporter_Build_RanksByOverallScore(t *testing.T) {
	data, err := NewWorkbookExporter().Build(testReport())
	require.NoError(t, err)
	f := openWorkbook(t, data)

	assert.Equal(t, "Rank", cell(t, f, ScoresSheet, "A1"))
	assert.Equal(t, "Analyzed At", cell(t, f, ScoresSheet, "P1"))

	assert.Equal(t, "1", cell(t, f, ScoresSheet, "A2"))
	assert.Equal(t, "top", cell(t, f, ScoresSheet, "B2"))
	assert.Equal(t, "Excellent", cell(t, f, ScoresSheet, "I2"))

	assert.Equal(t, "mid", cell(t, f, ScoresSheet, "B3"))
	assert.Equal(t, "62.5", cell(t, f, ScoresSheet, "H3"))
	assert.Equal(t, "Good", cell(t, f, ScoresSheet, "I3"))

	assert.Equal(t, "low", cell(t, f, ScoresSheet, "B4"))
	assert.Equal(t, "Poor", cell(t, f, ScoresSheet, "I4"))
	assert.Equal(t, "2026-03-01 09:30", cell(t, f, ScoresSheet, "P4"))
}

func TestWorkbookExporter_Build_Summary(t *testing.T) {
	data, err := NewWorkbookExporter().Build(testReport())
	require.NoError(t, err)
	f := openWorkbook(t, data)

	assert.Equal(t, "ATS Screening Report", cell(t, f, SummarySheet, "A1"))
	assert.Equal(t, "Backend Engineer", cell(t, f, SummarySheet, "B3"))
	assert.Equal(t, "2026-03-02 08:00:00", cell(t, f, SummarySheet, "B4"))
	assert.Equal(t, "3", cell(t, f, SummarySheet, "B5"))
	// (35 + 85 + 62.5) / 3 = 60.83
	assert.Equal(t, "60.8", cell(t, f, SummarySheet, "B8"))
	assert.Equal(t, "1", cell(t, f, SummarySheet, "B9"))
	assert.Equal(t, "Positions Filled:", cell(t, f, SummarySheet, "A14"))
	assert.Equal(t, "1", cell(t, f, SummarySheet, "B14"))
}

func TestWorkbookExporter_Build_Empty(t *testing.T) {
	data, err := NewWorkbookExporter().Build(Report{GeneratedAt: time.Now()})
	require.NoError(t, err)
	f := openWorkbook(t, data)

	assert.Equal(t, "All job positions", cell(t, f, SummarySheet, "B3"))
	assert.Equal(t, "0", cell(t, f, SummarySheet, "B5"))
	assert.Equal(t, "0", cell(t, f, SummarySheet, "B8"))
	assert.Equal(t, "", cell(t, f, ScoresSheet, "A2"))
}

func TestWorkbookExporter_Build_DoesNotReorderInput(t *testing.T) {
	r := testReport()
	_, err := NewWorkbookExporter().Build(r)
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.Candidates[0].ID)
}

func TestWorkbookExporter_SaveFile(t *testing.T) {
	dir := t.TempDir()

	path, err := NewWorkbookExporter().SaveFile(testReport(), filepath.Join(dir, "reports", "ats"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reports", "ats.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(ScoresSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "top", v)
}
