// internal/resume/ats/aggregate.go
package ats

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"
)

// ErrNoCVText is wrapped by AnalysisPrecondition.
var ErrNoCVText = errors.New("no CV text available for ATS analysis")

// AnalysisPrecondition is returned when a candidate has no extracted CV text.
type AnalysisPrecondition struct {
	CandidateID int64
}

func (e *AnalysisPrecondition) Error() string {
	return fmt.Sprintf("candidate %d: %s; upload a CV and extract its text first", e.CandidateID, ErrNoCVText)
}

func (e *AnalysisPrecondition) Unwrap() error { return ErrNoCVText }

const maxStoredKeywords = 30

// AnalysisResult combines both tiers.
type AnalysisResult struct {
	Tier1           Tier1Result `json:"tier1"`
	Tier2           Tier2Result `json:"tier2"`
	OverallScore    float64     `json:"overall_score"`
	Recommendations []string    `json:"recommendations"`
}

// Analyzer runs Tier 1 and Tier 2 and stores the combined result on a
// candidate.
type Analyzer struct {
	tier2 *Tier2Analyzer
	log   logger.Logger
}

type Option func(*Analyzer)

func WithSpellChain(chain SpellChain) Option {
	return func(a *Analyzer) { a.tier2 = NewTier2Analyzer(chain) }
}

func WithLogger(log logger.Logger) Option {
	return func(a *Analyzer) { a.log = logger.OrNop(log) }
}

func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{tier2: NewTier2Analyzer(nil), log: logger.NewNoOpLogger()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scores the candidate's CV text without modifying the candidate.
func (a *Analyzer) Analyze(c *models.Candidate) (*AnalysisResult, error) {
	if !c.HasCVText() {
		return nil, &AnalysisPrecondition{CandidateID: c.ID}
	}

	t1 := AnalyzeTier1(c.CVText, strings.TrimSpace(c.Name) != "")
	t2 := a.tier2.Analyze(c.CVText)

	res := &AnalysisResult{
		Tier1:           t1,
		Tier2:           t2,
		OverallScore:    OverallScore(t1.Score, t2.Score),
		Recommendations: Recommendations(t1, t2),
	}

	a.log.Debug("ATS analysis complete", map[string]interface{}{
		"candidateId":  c.ID,
		"tier1":        t1.Score,
		"tier2":        t2.Score,
		"overall":      res.OverallScore,
		"spellChecker": t2.SpellChecker,
		"achievements": t2.AchievementsCount,
		"missingCount": len(t1.MissingSections),
	})
	return res, nil
}

// Run analyses the candidate and overwrites its ATS fields.
func (a *Analyzer) Run(c *models.Candidate, now time.Time) (*AnalysisResult, error) {
	res, err := a.Analyze(c)
	if err != nil {
		return nil, err
	}
	if err := Apply(c, res, now); err != nil {
		return nil, err
	}
	return res, nil
}

// OverallScore is the mean of both tiers, or 0 when neither scored.
func OverallScore(tier1, tier2 float64) float64 {
	if tier1 > 0 || tier2 > 0 {
		return (tier1 + tier2) / 2
	}
	return 0
}

// Recommendations lists improvements in a fixed order; a single positive
// message is returned when nothing fires.
func Recommendations(t1 Tier1Result, t2 Tier2Result) []string {
	var recs []string

	if len(t1.MissingSections) > 0 {
		recs = append(recs, "Add missing sections: "+strings.Join(t1.MissingSections, ", "))
	}
	if t1.DatesFound < 3 {
		recs = append(recs, "Add more dates to experience and education sections")
	}
	if len(t1.KeywordsFound) < 10 {
		recs = append(recs, "Include more relevant keywords related to your field")
	}
	if t2.SpellingErrors > 0 {
		recs = append(recs, fmt.Sprintf("Fix %d spelling error(s)", t2.SpellingErrors))
	}
	if t2.GrammarIssues > 0 {
		recs = append(recs, fmt.Sprintf("Fix %d grammar issue(s)", t2.GrammarIssues))
	}
	if t2.AchievementsCount < 3 {
		recs = append(recs, "Add more quantifiable achievements with numbers and metrics")
	}

	if len(recs) == 0 {
		return []string{"Resume looks good! Keep up the great work."}
	}
	return recs
}

type analysisDetails struct {
	Tier1        Tier1Result `json:"tier1"`
	Tier2        Tier2Result `json:"tier2"`
	AnalysisDate string      `json:"analysis_date"`
}

// Apply replaces every ATS field on c with res.
func Apply(c *models.Candidate, res *AnalysisResult, now time.Time) error {
	details, err := json.MarshalIndent(analysisDetails{
		Tier1:        res.Tier1,
		Tier2:        res.Tier2,
		AnalysisDate: now.Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode analysis details: %w", err)
	}

	recs := make([]string, 0, len(res.Recommendations))
	for _, r := range res.Recommendations {
		recs = append(recs, "• "+r)
	}

	analyzedAt := now
	c.ATS = models.ATSFields{
		Tier1Score:               res.Tier1.Score,
		Tier2Score:               res.Tier2.Score,
		OverallScore:             res.OverallScore,
		InterpretablePct:         res.Tier1.InterpretablePct,
		SpellingErrors:           res.Tier2.SpellingErrors,
		GrammarErrors:            res.Tier2.GrammarIssues,
		QuantifiableAchievements: res.Tier2.AchievementsCount,
		Tier1Breakdown:           res.Tier1.Breakdown,
		Tier2Breakdown:           res.Tier2.Breakdown,
		Tier2Issues:              res.Tier2.IssuesText,
		Tier2Achievements:        res.Tier2.AchievementsText,
		Recommendations:          strings.Join(recs, "\n"),
		KeywordsFound:            strings.Join(firstN(res.Tier1.KeywordsFound, maxStoredKeywords), ", "),
		MissingSections:          strings.Join(res.Tier1.MissingSections, ", "),
		AnalysisDetails:          string(details),
		AnalyzedAt:               &analyzedAt,
	}
	return nil
}
