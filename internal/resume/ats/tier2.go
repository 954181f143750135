// internal/resume/ats/tier2.go
package ats

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

type grammarRule struct {
	re    *regexp.Regexp
	issue string
}

var grammarRules = []grammarRule{
	{regexp.MustCompile(`\bi\s+[a-z]`), `Lowercase "i" should be capitalized`},
	{regexp.MustCompile(`\.{2,}`), "Multiple periods"},
	{regexp.MustCompile(`\s{2,}`), "Multiple spaces"},
	{regexp.MustCompile(`[a-z][A-Z]`), "Missing space between words"},
}

var achievementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)increased\s+(?:[a-z]+\s+){0,3}by\s+(\d+(?:\.\d+)?%?)`),
	regexp.MustCompile(`(?i)decreased\s+(?:[a-z]+\s+){0,3}by\s+(\d+(?:\.\d+)?%?)`),
	regexp.MustCompile(`(?i)improved\s+(?:[a-z]+\s+){0,3}by\s+(\d+(?:\.\d+)?%?)`),
	regexp.MustCompile(`(?i)(\d+%?)\s+increase`),
	regexp.MustCompile(`(?i)(\d+%?)\s+decrease`),
	regexp.MustCompile(`(?i)(\d+%?)\s+improvement`),
	regexp.MustCompile(`(?i)managed\s+(\d+)\s+`),
	regexp.MustCompile(`(?i)led\s+(\d+)\s+`),
	regexp.MustCompile(`(?i)team\s+of\s+(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s+years?\s+of\s+experience`),
	regexp.MustCompile(`(?i)(\d+)\s+projects?`),
	regexp.MustCompile(`(?i)(\d+)\s+customers?`),
	regexp.MustCompile(`(?i)(\d+)\s+clients?`),
	regexp.MustCompile(`(?i)(\d+)\s+employees?`),
	regexp.MustCompile(`(?i)budget\s+of\s+[\$€£]?(\d+[KMB]?)`),
	regexp.MustCompile(`(?i)[\$€£](\d+[KMB]?)\s+`),
	regexp.MustCompile(`(?i)(\d+)\s+%`),
}

const (
	contextWindow      = 50
	maxAchievements    = 20
	maxMetrics         = 30
	maxTier2Errors     = 20
	maxSpellingSamples = 10
)

// Achievement is one quantified claim found in the text.
type Achievement struct {
	Value   string `json:"value"`
	Context string `json:"context"`
	Pattern string `json:"pattern"`
}

// Tier2Result scores content quality: spelling, grammar and quantified
// achievements.
type Tier2Result struct {
	Score             float64       `json:"score"`
	SpellingErrors    int           `json:"spelling_errors"`
	SpellChecker      string        `json:"spell_checker,omitempty"`
	GrammarIssues     int           `json:"grammar_issues"`
	Errors            []string      `json:"spelling_errors_list"`
	AchievementsCount int           `json:"achievements_count"`
	Achievements      []Achievement `json:"achievements"`
	Metrics           []string      `json:"metrics_found"`
	BaseScore         float64       `json:"base_score"`
	AchievementScore  float64       `json:"achievement_score"`
	SpellingPenalty   float64       `json:"spelling_penalty"`
	GrammarPenalty    float64       `json:"grammar_penalty"`
	Breakdown         string        `json:"breakdown_text"`
	IssuesText        string        `json:"issues_text"`
	AchievementsText  string        `json:"achievements_text"`
}

// Tier2Analyzer scores content quality using a spell checker chain.
type Tier2Analyzer struct {
	spell SpellChain
}

func NewTier2Analyzer(spell SpellChain) *Tier2Analyzer {
	if len(spell) == 0 {
		spell = DefaultSpellChain(nil)
	}
	return &Tier2Analyzer{spell: spell}
}

// Analyze starts from 50, adds up to 30 for achievements and subtracts up to
// 30 for spelling and 20 for grammar.
func (a *Tier2Analyzer) Analyze(text string) Tier2Result {
	res := Tier2Result{Errors: []string{}, Achievements: []Achievement{}, Metrics: []string{}}
	if text == "" {
		return res
	}

	spelling, checker := a.spell.Check(text)
	res.SpellingErrors = spelling.Errors
	res.SpellChecker = checker
	for _, w := range firstN(spelling.Words, maxSpellingSamples) {
		res.Errors = append(res.Errors, "Possible spelling: "+w)
	}

	for _, rule := range grammarRules {
		if n := len(rule.re.FindAllStringIndex(text, -1)); n > 0 {
			res.GrammarIssues += n
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %d instances", rule.issue, n))
		}
	}
	res.Errors = firstN(res.Errors, maxTier2Errors)

	res.Achievements, res.Metrics, res.AchievementsCount = findAchievements(text)

	res.BaseScore = 50
	res.AchievementScore = math.Min(float64(res.AchievementsCount)*1.5, 30)
	res.SpellingPenalty = math.Min(float64(res.SpellingErrors)*2, 30)
	res.GrammarPenalty = math.Min(float64(res.GrammarIssues), 20)
	res.Score = clamp(res.BaseScore+res.AchievementScore-res.SpellingPenalty-res.GrammarPenalty, 0, 100)

	res.Breakdown = tier2Breakdown(res)
	res.IssuesText = tier2Issues(res)
	res.AchievementsText = achievementsText(res.Achievements)
	return res
}

// findAchievements returns achievements deduplicated by value (capped), the
// distinct metric values (capped) and the deduplicated count.
func findAchievements(text string) ([]Achievement, []string, int) {
	var unique []Achievement
	seen := make(map[string]struct{})

	for _, re := range achievementPatterns {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			value := text[loc[2]:loc[3]]
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}

			start := loc[0] - contextWindow
			if start < 0 {
				start = 0
			}
			end := loc[1] + contextWindow
			if end > len(text) {
				end = len(text)
			}
			unique = append(unique, Achievement{
				Value:   value,
				Context: strings.TrimSpace(strings.ToValidUTF8(text[start:end], "")),
				Pattern: re.String(),
			})
		}
	}

	metrics := make([]string, 0, len(unique))
	for _, a := range unique {
		metrics = append(metrics, a.Value)
	}

	count := len(unique)
	return firstN(unique, maxAchievements), firstN(metrics, maxMetrics), count
}

func tier2Breakdown(r Tier2Result) string {
	examples := make([]string, 0, 5)
	for _, a := range firstN(r.Achievements, 5) {
		examples = append(examples, a.Value)
	}

	lines := []string{
		"=== TIER 2 SCORING BREAKDOWN ===",
		"",
		fmt.Sprintf("1. BASE SCORE: %.2f/50.0 points", r.BaseScore),
		"   • Starting score for all resumes",
		"",
		fmt.Sprintf("2. ACHIEVEMENTS: +%.2f points (max +30.0)", r.AchievementScore),
		fmt.Sprintf("   • Quantifiable achievements found: %d", r.AchievementsCount),
		fmt.Sprintf("   • Points: %d achievements × 1.5 points each", r.AchievementsCount),
		fmt.Sprintf("   • Examples: %s", joinOrNone(examples)),
		"",
		fmt.Sprintf("3. SPELLING ERRORS: -%.2f points (max -30.0)", r.SpellingPenalty),
		fmt.Sprintf("   • Spelling errors found: %d", r.SpellingErrors),
		fmt.Sprintf("   • Points deducted: %d errors × 2 points each", r.SpellingErrors),
		"",
		fmt.Sprintf("4. GRAMMAR ISSUES: -%.2f points (max -20.0)", r.GrammarPenalty),
		fmt.Sprintf("   • Grammar issues found: %d", r.GrammarIssues),
		fmt.Sprintf("   • Points deducted: %d issues × 1 point each", r.GrammarIssues),
		"",
		fmt.Sprintf("TOTAL TIER 2 SCORE: %.2f/100.0", r.Score),
		fmt.Sprintf("Calculation: %.2f (base) + %.2f (achievements) - %.2f (spelling) - %.2f (grammar)",
			r.BaseScore, r.AchievementScore, r.SpellingPenalty, r.GrammarPenalty),
	}
	return strings.Join(lines, "\n")
}

func tier2Issues(r Tier2Result) string {
	var lines []string
	sample := firstN(r.Errors, 10)

	if r.SpellingErrors > 0 {
		lines = append(lines, fmt.Sprintf("SPELLING ERRORS (%d found, -%.2f points):", r.SpellingErrors, r.SpellingPenalty))
		for _, e := range sample {
			if strings.Contains(strings.ToLower(e), "spelling") {
				lines = append(lines, "  • "+e)
			}
		}
	}

	if r.GrammarIssues > 0 {
		lines = append(lines, fmt.Sprintf("\nGRAMMAR ISSUES (%d found, -%.2f points):", r.GrammarIssues, r.GrammarPenalty))
		for _, e := range sample {
			if containsAny(strings.ToLower(e), []string{"grammar", "space", "period"}) {
				lines = append(lines, "  • "+e)
			}
		}
	}

	if r.AchievementsCount == 0 {
		lines = append(lines, "\nMISSING ACHIEVEMENTS:",
			"  • No quantifiable achievements found (add numbers, percentages, metrics)")
	}

	if len(lines) == 0 {
		return "No major issues found."
	}
	return strings.Join(lines, "\n")
}

func achievementsText(achievements []Achievement) string {
	if len(achievements) == 0 {
		return "No quantifiable achievements found."
	}
	lines := make([]string, 0, len(achievements))
	for _, a := range achievements {
		lines = append(lines, fmt.Sprintf("• %s: %s...", a.Value, truncateRunes(a.Context, 100)))
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
