// internal/reporting/workbook.go
package reporting

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"resume-screening-workers/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Summary"
	ScoresSheet  = "ATS Scores"
	ContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var scoreHeaders = []string{
	"Rank", "Candidate", "Email", "Position", "Status",
	"Tier 1", "Tier 2", "Overall", "Band",
	"Spelling Errors", "Grammar Errors", "Achievements",
	"Keywords Found", "Missing Sections", "Recommendations", "Analyzed At",
}

// Band buckets an overall score for colour coding.
func Band(score float64) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	default:
		return "Poor"
	}
}

var bandColors = map[string]string{
	"Excellent": "C6EFCE",
	"Good":      "FFEB9C",
	"Fair":      "FFC7CE",
	"Poor":      "FF9999",
}

// Report is the input of one export. Job may be nil for a cross-job report.
type Report struct {
	Job         *models.JobPosition
	Candidates  []*models.Candidate
	GeneratedAt time.Time
}

// ranked orders candidates by overall score, best first, ties by id.
func (r Report) ranked() []*models.Candidate {
	out := make([]*models.Candidate, len(r.Candidates))
	copy(out, r.Candidates)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ATS.OverallScore != out[j].ATS.OverallScore {
			return out[i].ATS.OverallScore > out[j].ATS.OverallScore
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// WorkbookExporter renders ATS results as an xlsx workbook.
type WorkbookExporter struct{}

func NewWorkbookExporter() *WorkbookExporter {
	return &WorkbookExporter{}
}

// Build returns the workbook as bytes.
func (e *WorkbookExporter) Build(r Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(ScoresSheet); err != nil {
		return nil, err
	}

	ranked := r.ranked()
	if err := writeSummary(f, r, ranked); err != nil {
		return nil, fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := writeScores(f, ranked); err != nil {
		return nil, fmt.Errorf("failed to write scores sheet: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveFile writes the workbook to path, adding the .xlsx extension if missing.
func (e *WorkbookExporter) SaveFile(r Report, path string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	data, err := e.Build(r)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func writeSummary(f *excelize.File, r Report, ranked []*models.Candidate) error {
	sheet := SummarySheet
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 40); err != nil {
		return err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "ATS Screening Report")
	f.SetCellStyle(sheet, "A1", "B1", titleStyle)
	f.MergeCell(sheet, "A1", "B1")

	jobName := "All job positions"
	if r.Job != nil {
		jobName = r.Job.Name
	}

	var t1, t2, overall float64
	bands := map[string]int{}
	for _, c := range ranked {
		t1 += c.ATS.Tier1Score
		t2 += c.ATS.Tier2Score
		overall += c.ATS.OverallScore
		bands[Band(c.ATS.OverallScore)]++
	}
	avg := func(sum float64) float64 {
		if len(ranked) == 0 {
			return 0
		}
		return round1(sum / float64(len(ranked)))
	}

	rows := [][2]interface{}{
		{"Job Position:", jobName},
		{"Generated:", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Candidates Analyzed:", len(ranked)},
		{"Average Tier 1 Score:", avg(t1)},
		{"Average Tier 2 Score:", avg(t2)},
		{"Average Overall Score:", avg(overall)},
		{"Excellent (80+):", bands["Excellent"]},
		{"Good (60-79):", bands["Good"]},
		{"Fair (40-59):", bands["Fair"]},
		{"Poor (<40):", bands["Poor"]},
	}
	if r.Job != nil {
		rows = append(rows,
			[2]interface{}{"Positions To Fill:", r.Job.PositionsToFill},
			[2]interface{}{"Positions Filled:", r.Job.PositionsFilled},
		)
	}

	for i, kv := range rows {
		row := i + 3
		label := fmt.Sprintf("A%d", row)
		f.SetCellValue(sheet, label, kv[0])
		f.SetCellStyle(sheet, label, label, labelStyle)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), kv[1])
	}
	return nil
}

func writeScores(f *excelize.File, ranked []*models.Candidate) error {
	sheet := ScoresSheet

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}
	bandStyles := map[string]int{}
	for band, color := range bandColors {
		id, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: border,
		})
		if err != nil {
			return err
		}
		bandStyles[band] = id
	}

	for i, h := range scoreHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(scoreHeaders))
	f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)
	f.SetColWidth(sheet, "B", "D", 25)
	f.SetColWidth(sheet, "M", "O", 40)
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	for i, c := range ranked {
		row := i + 2
		analyzed := ""
		if c.ATS.AnalyzedAt != nil {
			analyzed = c.ATS.AnalyzedAt.UTC().Format("2006-01-02 15:04")
		}
		band := Band(c.ATS.OverallScore)
		values := []interface{}{
			i + 1, c.Name, c.Email, c.Position, string(c.Status),
			c.ATS.Tier1Score, c.ATS.Tier2Score, c.ATS.OverallScore, band,
			c.ATS.SpellingErrors, c.ATS.GrammarErrors, c.ATS.QuantifiableAchievements,
			c.ATS.KeywordsFound, c.ATS.MissingSections, c.ATS.Recommendations, analyzed,
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return err
		}
		f.SetCellStyle(sheet, start, fmt.Sprintf("%s%d", lastCol, row), bandStyles[band])
	}
	return nil
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
