// internal/workers/resume/run-ats-analysis/models.go
package runatsanalysis

import (
	"context"
	"time"

	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/resume/ats"
)

type Input struct {
	CandidateID int64 `json:"candidateId"`
}

type Output struct {
	CandidateID     int64     `json:"candidateId"`
	Tier1Score      float64   `json:"tier1Score"`
	Tier2Score      float64   `json:"tier2Score"`
	OverallScore    float64   `json:"overallScore"`
	SpellingErrors  int       `json:"spellingErrors"`
	GrammarErrors   int       `json:"grammarErrors"`
	Achievements    int       `json:"achievements"`
	KeywordsFound   []string  `json:"keywordsFound"`
	MissingSections []string  `json:"missingSections"`
	Recommendations []string  `json:"recommendations"`
	AnalyzedAt      time.Time `json:"analyzedAt"`
	Indexed         bool      `json:"indexed"`
}

type CandidateStore interface {
	Get(ctx context.Context, id int64) (*models.Candidate, error)
	Save(ctx context.Context, c *models.Candidate) error
}

// AnalysisIndexer publishes a candidate's stored ATS fields for search.
type AnalysisIndexer interface {
	Index(ctx context.Context, c *models.Candidate) error
}

type ServiceDependencies struct {
	Logger     logger.Logger
	Candidates CandidateStore
	// Index may be nil, in which case results are only stored.
	Index    AnalysisIndexer
	Analyzer *ats.Analyzer
}
