// internal/resume/ats/tier1.go
package ats

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"resume-screening-workers/internal/resume/fields"
)

// requiredSections is checked in this order; the order is kept in the found
// and missing lists.
var requiredSections = []struct {
	name     string
	keywords []string
}{
	{"contact", []string{"email", "phone", "address", "contact"}},
	{"experience", []string{"experience", "employment", "work history", "career", "professional"}},
	{"education", []string{"education", "academic", "qualification", "degree", "university", "college"}},
	{"skills", []string{"skills", "technical skills", "competencies", "abilities", "expertise"}},
}

var commonKeywords = []string{
	"experience", "skills", "education", "certification", "achievement",
	"project", "leadership", "management", "development", "analysis",
	"communication", "team", "result", "improve", "increase", "decrease",
}

var datePattern = regexp.MustCompile(`\d{4}|(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{4}`)

// StructuredData records which contact items were detected.
type StructuredData struct {
	Name  bool `json:"name"`
	Email bool `json:"email"`
	Phone bool `json:"phone"`
}

func (s StructuredData) count() int {
	n := 0
	for _, ok := range []bool{s.Name, s.Email, s.Phone} {
		if ok {
			n++
		}
	}
	return n
}

// Tier1Result scores how much of a résumé an ATS parser can interpret.
type Tier1Result struct {
	Score            float64        `json:"score"`
	InterpretablePct float64        `json:"interpretable_pct"`
	ParsedSections   []string       `json:"parsed_sections"`
	MissingSections  []string       `json:"missing_sections"`
	KeywordsFound    []string       `json:"keywords_found"`
	StructuredData   StructuredData `json:"structured_data"`
	DatesFound       int            `json:"dates_found"`
	SectionScore     float64        `json:"section_score"`
	StructuredScore  float64        `json:"structured_score"`
	DateScore        float64        `json:"date_score"`
	KeywordScore     float64        `json:"keyword_score"`
	Breakdown        string         `json:"breakdown_text"`
}

// AnalyzeTier1 scores sections (40), structured contact data (30), dates (20)
// and vocabulary (10). hasName reports whether the candidate record already
// carries a name.
func AnalyzeTier1(text string, hasName bool) Tier1Result {
	res := Tier1Result{ParsedSections: []string{}, MissingSections: []string{}, KeywordsFound: []string{}}
	if text == "" {
		return res
	}

	lower := strings.ToLower(text)
	for _, s := range requiredSections {
		if containsAny(lower, s.keywords) {
			res.ParsedSections = append(res.ParsedSections, s.name)
		} else {
			res.MissingSections = append(res.MissingSections, s.name)
		}
	}

	res.StructuredData = StructuredData{
		Name:  hasName,
		Email: fields.EmailPattern.MatchString(text),
		Phone: fields.FindPhone(text) != "",
	}
	res.DatesFound = len(datePattern.FindAllStringIndex(lower, -1))

	for _, kw := range commonKeywords {
		if strings.Contains(lower, kw) {
			res.KeywordsFound = append(res.KeywordsFound, kw)
		}
	}

	res.SectionScore = float64(len(res.ParsedSections)) / float64(len(requiredSections)) * 40
	res.StructuredScore = float64(res.StructuredData.count()) / 3 * 30
	res.DateScore = math.Min(float64(res.DatesFound)/10*20, 20)
	res.KeywordScore = math.Min(float64(len(res.KeywordsFound))/20*10, 10)

	res.InterpretablePct = res.SectionScore + res.StructuredScore + res.DateScore + res.KeywordScore
	res.Score = math.Min(res.InterpretablePct, 100)
	res.Breakdown = tier1Breakdown(res)
	return res
}

func tier1Breakdown(r Tier1Result) string {
	lines := []string{
		"=== TIER 1 SCORING BREAKDOWN ===",
		"",
		fmt.Sprintf("1. SECTIONS FOUND: %.2f/40.0 points", r.SectionScore),
		fmt.Sprintf("   • Found sections: %s", joinOrNone(r.ParsedSections)),
		fmt.Sprintf("   • Missing sections: %s", joinOrNone(r.MissingSections)),
		fmt.Sprintf("   • Points: %d/%d sections × 10 points each", len(r.ParsedSections), len(requiredSections)),
		"",
		fmt.Sprintf("2. STRUCTURED DATA: %.2f/30.0 points", r.StructuredScore),
		fmt.Sprintf("   • Name: %s (+10 points if found)", foundMark(r.StructuredData.Name)),
		fmt.Sprintf("   • Email: %s (+10 points if found)", foundMark(r.StructuredData.Email)),
		fmt.Sprintf("   • Phone: %s (+10 points if found)", foundMark(r.StructuredData.Phone)),
		fmt.Sprintf("   • Total: %d/3 items found", r.StructuredData.count()),
		"",
		fmt.Sprintf("3. DATES FOUND: %.2f/20.0 points", r.DateScore),
		fmt.Sprintf("   • Dates detected: %d", r.DatesFound),
		fmt.Sprintf("   • Points: %d dates × 2 points each (max 20 points)", minInt(r.DatesFound, 10)),
		"",
		fmt.Sprintf("4. KEYWORDS: %.2f/10.0 points", r.KeywordScore),
		fmt.Sprintf("   • Keywords found: %d", len(r.KeywordsFound)),
		fmt.Sprintf("   • Points: %d keywords × 0.5 points each (max 10 points)", len(r.KeywordsFound)),
		"",
		fmt.Sprintf("TOTAL TIER 1 SCORE: %.2f/100.0", r.Score),
		fmt.Sprintf("Interpretable Content: %.2f%%", r.InterpretablePct),
	}
	return strings.Join(lines, "\n")
}

func foundMark(ok bool) string {
	if ok {
		return "✓ Found"
	}
	return "✗ Missing"
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
