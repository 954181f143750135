// internal/workers/resume/run-ats-analysis/service.go
package runatsanalysis

import (
	"context"
	"time"

	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/common/metrics"
	"resume-screening-workers/internal/resume"
	"resume-screening-workers/internal/resume/ats"
)

type Service struct {
	config     *Config
	logger     logger.Logger
	candidates CandidateStore
	index      AnalysisIndexer
	analyzer   *ats.Analyzer
	now        func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	analyzer := deps.Analyzer
	if analyzer == nil {
		analyzer = ats.NewAnalyzer(ats.WithLogger(deps.Logger))
	}
	return &Service{
		config:     config,
		logger:     logger.OrNop(deps.Logger),
		candidates: deps.Candidates,
		index:      deps.Index,
		analyzer:   analyzer,
		now:        time.Now,
	}
}

// Execute scores the candidate's stored CV text, replacing any earlier
// analysis, and saves the result.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	candidate, err := s.candidates.Get(ctx, input.CandidateID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	result, err := s.analyzer.Run(candidate, now)
	if err != nil {
		return nil, resume.ToStandardError(err)
	}

	if err := s.candidates.Save(ctx, candidate); err != nil {
		return nil, err
	}

	metrics.ATSScores.WithLabelValues("tier1").Observe(result.Tier1.Score)
	metrics.ATSScores.WithLabelValues("tier2").Observe(result.Tier2.Score)
	metrics.ATSScores.WithLabelValues("overall").Observe(result.OverallScore)

	indexed := false
	if s.index != nil && s.config.IndexResults {
		// The database row is authoritative; a stale index entry is
		// replaced on the next analysis.
		if err := s.index.Index(ctx, candidate); err != nil {
			s.logger.Warn("Failed to index ATS analysis", map[string]interface{}{
				"candidateId": candidate.ID,
				"error":       err.Error(),
			})
		} else {
			indexed = true
		}
	}

	s.logger.Info("ATS analysis stored", map[string]interface{}{
		"candidateId": candidate.ID,
		"tier1":       result.Tier1.Score,
		"tier2":       result.Tier2.Score,
		"overall":     result.OverallScore,
		"indexed":     indexed,
	})

	return &Output{
		CandidateID:     candidate.ID,
		Tier1Score:      result.Tier1.Score,
		Tier2Score:      result.Tier2.Score,
		OverallScore:    result.OverallScore,
		SpellingErrors:  result.Tier2.SpellingErrors,
		GrammarErrors:   result.Tier2.GrammarIssues,
		Achievements:    result.Tier2.AchievementsCount,
		KeywordsFound:   result.Tier1.KeywordsFound,
		MissingSections: result.Tier1.MissingSections,
		Recommendations: result.Recommendations,
		AnalyzedAt:      now,
		Indexed:         indexed,
	}, nil
}
