package ats

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"resume-screening-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tier1CV = `Jane Smith
Email: jane@example.com
Phone: 555-123-4567
Experience
Acme 2015 - 2020
Education
MIT 2012
Skills
Go`

// ==========================
// Tier 1
// ==========================

func TestAnalyzeTier1_NoSectionHits(t *testing.T) {
	res := AnalyzeTier1("xyz abc", false)

	assert.Equal(t, []string{"contact", "experience", "education", "skills"}, res.MissingSections)
	assert.Empty(t, res.ParsedSections)
	assert.Zero(t, res.SectionScore)
	assert.Zero(t, res.Score)
}

func TestAnalyzeTier1_Components(t *testing.T) {
	res := AnalyzeTier1(tier1CV, true)

	assert.Equal(t, []string{"contact", "experience", "education", "skills"}, res.ParsedSections)
	assert.Empty(t, res.MissingSections)
	assert.Equal(t, StructuredData{Name: true, Email: true, Phone: true}, res.StructuredData)
	// Three years plus the last four phone digits.
	assert.Equal(t, 4, res.DatesFound)
	assert.Equal(t, []string{"experience", "skills", "education"}, res.KeywordsFound)

	assert.InDelta(t, 40.0, res.SectionScore, 1e-9)
	assert.InDelta(t, 30.0, res.StructuredScore, 1e-9)
	assert.InDelta(t, 8.0, res.DateScore, 1e-9)
	assert.InDelta(t, 1.5, res.KeywordScore, 1e-9)
	assert.InDelta(t, 79.5, res.Score, 1e-9)
	assert.Contains(t, res.Breakdown, "TOTAL TIER 1 SCORE: 79.50/100.0")
	assert.Contains(t, res.Breakdown, "   • Name: ✓ Found (+10 points if found)")
}

func TestAnalyzeTier1_NameFromRecord(t *testing.T) {
	with := AnalyzeTier1(tier1CV, true)
	without := AnalyzeTier1(tier1CV, false)

	assert.InDelta(t, 10.0, with.StructuredScore-without.StructuredScore, 1e-9)
	assert.False(t, without.StructuredData.Name)
}

func TestAnalyzeTier1_DateScoreCapped(t *testing.T) {
	text := strings.Repeat("2001 jan 2002 ", 20)
	res := AnalyzeTier1(text, false)

	assert.Greater(t, res.DatesFound, 10)
	assert.InDelta(t, 20.0, res.DateScore, 1e-9)
}

func TestAnalyzeTier1_Empty(t *testing.T) {
	res := AnalyzeTier1("", true)
	assert.Zero(t, res.Score)
	assert.NotNil(t, res.MissingSections)
	assert.Empty(t, res.Breakdown)
}

// ==========================
// Tier 2
// ==========================

func TestTier2_Achievements(t *testing.T) {
	res := NewTier2Analyzer(nil).Analyze("increased revenue by 20% and managed a team of 5")

	assert.GreaterOrEqual(t, res.AchievementsCount, 2)
	assert.Equal(t, []string{"20%", "5"}, res.Metrics)
	assert.Zero(t, res.SpellingErrors)
	assert.Zero(t, res.GrammarIssues)
	assert.InDelta(t, 53.0, res.Score, 1e-9)
	assert.Contains(t, res.AchievementsText, "• 20%: increased revenue by 20% and managed a team of 5...")
	assert.Equal(t, "No major issues found.", res.IssuesText)
}

func TestTier2_AchievementsDedupeByValue(t *testing.T) {
	res := NewTier2Analyzer(nil).Analyze("Led 5 engineers across 5 projects with a team of 5")

	assert.Equal(t, 1, res.AchievementsCount)
	assert.Equal(t, []string{"5"}, res.Metrics)
	require.Len(t, res.Achievements, 1)
	assert.Equal(t, `(?i)led\s+(\d+)\s+`, res.Achievements[0].Pattern)
}

func TestTier2_AchievementListsCapped(t *testing.T) {
	var sb strings.Builder
	for i := 100; i < 140; i++ {
		fmt.Fprintf(&sb, "delivered %d projects. ", i)
	}
	res := NewTier2Analyzer(nil).Analyze(sb.String())

	assert.Equal(t, 40, res.AchievementsCount)
	assert.Len(t, res.Achievements, maxAchievements)
	assert.Len(t, res.Metrics, maxMetrics)
	assert.InDelta(t, 30.0, res.AchievementScore, 1e-9)
}

func TestTier2_Grammar(t *testing.T) {
	res := NewTier2Analyzer(nil).Analyze("i am here..  NextWord camelCase")

	assert.Equal(t, 5, res.GrammarIssues)
	assert.Equal(t, []string{
		`Lowercase "i" should be capitalized: 1 instances`,
		"Multiple periods: 1 instances",
		"Multiple spaces: 1 instances",
		"Missing space between words: 2 instances",
	}, res.Errors)
	assert.InDelta(t, 45.0, res.Score, 1e-9)

	assert.True(t, strings.HasPrefix(res.IssuesText, "\nGRAMMAR ISSUES (5 found, -5.00 points):"))
	assert.Contains(t, res.IssuesText, "  • Missing space between words: 2 instances")
	assert.NotContains(t, res.IssuesText, "Lowercase")
	assert.Contains(t, res.IssuesText, "\nMISSING ACHIEVEMENTS:")
}

func TestTier2_DictionarySpelling(t *testing.T) {
	dict := NewDictionaryChecker([]string{"hello", "world"})
	res := NewTier2Analyzer(DefaultSpellChain(dict)).Analyze("Hello wrld hello wrld xy")

	assert.Equal(t, "dictionary", res.SpellChecker)
	assert.Equal(t, 2, res.SpellingErrors)
	assert.Equal(t, []string{"Possible spelling: wrld", "Possible spelling: xy"}, res.Errors)
	assert.InDelta(t, 4.0, res.SpellingPenalty, 1e-9)
	assert.Contains(t, res.IssuesText, "SPELLING ERRORS (2 found, -4.00 points):\n  • Possible spelling: wrld")
}

func TestSpellChain_FallsBackToHeuristic(t *testing.T) {
	empty := NewDictionaryChecker(nil)
	report, name := DefaultSpellChain(empty).Check("supercalifragilisticexpialidocious is long")

	assert.Equal(t, "heuristic", name)
	assert.Equal(t, 1, report.Errors)
	assert.Empty(t, report.Words)
}

func TestReadDictionary(t *testing.T) {
	d, err := ReadDictionary(strings.NewReader("Alpha\n\n beta \n"))
	require.NoError(t, err)
	assert.True(t, d.Available())
	assert.Equal(t, 0, d.Check("alpha BETA").Errors)
}

func TestLoadDictionary_Missing(t *testing.T) {
	_, err := LoadDictionary("/nonexistent/words.txt")
	assert.Error(t, err)
}

func TestHeuristicChecker_Capped(t *testing.T) {
	text := strings.Repeat("incomprehensibilities ", 80)
	assert.Equal(t, heuristicCap, HeuristicChecker{}.Check(text).Errors)
}

func TestTier2_ScoreRange(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"clean", "Delivered 3 projects for 40 clients"},
		{"noisy", strings.Repeat("aB..  i x ", 40)},
		{"long words", strings.Repeat("internationalization ", 30)},
		{"rich", "increased sales by 10% team of 12, 30 customers, 9 employees, budget of $5M "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewTier2Analyzer(nil).Analyze(tt.text)
			assert.GreaterOrEqual(t, res.Score, 0.0)
			assert.LessOrEqual(t, res.Score, 100.0)
		})
	}
}

// ==========================
// Aggregation
// ==========================

func TestOverallScore(t *testing.T) {
	tests := []struct {
		name     string
		t1, t2   float64
		expected float64
	}{
		{"both zero", 0, 0, 0},
		{"average", 80, 60, 70},
		{"one tier zero", 0, 50, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, OverallScore(tt.t1, tt.t2), 1e-9)
		})
	}
}

func TestRecommendations(t *testing.T) {
	good1 := Tier1Result{DatesFound: 5, KeywordsFound: make([]string, 12)}
	good2 := Tier2Result{AchievementsCount: 3}
	assert.Equal(t, []string{"Resume looks good! Keep up the great work."}, Recommendations(good1, good2))

	bad1 := Tier1Result{MissingSections: []string{"contact", "skills"}, DatesFound: 1}
	bad2 := Tier2Result{SpellingErrors: 2, GrammarIssues: 1}
	assert.Equal(t, []string{
		"Add missing sections: contact, skills",
		"Add more dates to experience and education sections",
		"Include more relevant keywords related to your field",
		"Fix 2 spelling error(s)",
		"Fix 1 grammar issue(s)",
		"Add more quantifiable achievements with numbers and metrics",
	}, Recommendations(bad1, bad2))
}

func TestAnalyzer_BlankCV(t *testing.T) {
	_, err := NewAnalyzer().Run(&models.Candidate{ID: 7, CVText: "  \n "}, time.Now())

	var pre *AnalysisPrecondition
	require.True(t, errors.As(err, &pre))
	assert.Equal(t, int64(7), pre.CandidateID)
	assert.True(t, errors.Is(err, ErrNoCVText))
}

func TestAnalyzer_RunOverwritesAndIsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	c := &models.Candidate{
		ID:     1,
		Name:   "Jane Smith",
		CVText: tier1CV + "\nincreased revenue by 20% and managed a team of 5",
		ATS:    models.ATSFields{Recommendations: "stale", KeywordsFound: "old", Tier2Issues: "old issues"},
	}

	res, err := NewAnalyzer().Run(c, now)
	require.NoError(t, err)

	assert.InDelta(t, (res.Tier1.Score+res.Tier2.Score)/2, c.ATS.OverallScore, 1e-9)
	assert.Equal(t, res.Tier1.Score, c.ATS.Tier1Score)
	assert.Equal(t, "experience, skills, education, team, increase", c.ATS.KeywordsFound)
	assert.Empty(t, c.ATS.MissingSections)
	assert.True(t, strings.HasPrefix(c.ATS.Recommendations, "• "))
	assert.NotContains(t, c.ATS.Recommendations, "stale")
	require.NotNil(t, c.ATS.AnalyzedAt)
	assert.Equal(t, now, *c.ATS.AnalyzedAt)

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(c.ATS.AnalysisDetails), &details))
	assert.Equal(t, "2026-03-01T09:30:00Z", details["analysis_date"])
	assert.Contains(t, details, "tier1")
	assert.Contains(t, details, "tier2")

	first := c.ATS
	_, err = NewAnalyzer().Run(c, now)
	require.NoError(t, err)
	assert.Equal(t, first, c.ATS)
}
