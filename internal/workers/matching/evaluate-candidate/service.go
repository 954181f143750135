// internal/workers/matching/evaluate-candidate/service.go
package evaluatecandidate

import (
	"context"

	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/resume/matching"
)

type Service struct {
	config     *Config
	logger     logger.Logger
	jobs       JobStore
	candidates CandidateStore
	matcher    *matching.Matcher
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	matcher := deps.Matcher
	if matcher == nil {
		matcher = matching.NewMatcher()
	}
	return &Service{
		config:     config,
		logger:     logger.OrNop(deps.Logger),
		jobs:       deps.Jobs,
		candidates: deps.Candidates,
		matcher:    matcher,
	}
}

// Execute reports whether the candidate meets the job's experience and
// salary criteria. Neither record is modified.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	job, err := s.jobs.Get(ctx, input.JobPositionID)
	if err != nil {
		return nil, err
	}
	candidate, err := s.candidates.Get(ctx, input.CandidateID)
	if err != nil {
		return nil, err
	}

	result := s.matcher.Evaluate(job, candidate)

	s.logger.Info("Candidate evaluated", map[string]interface{}{
		"jobPositionId": job.ID,
		"candidateId":   candidate.ID,
		"matches":       result.Matches,
		"reason":        result.Reason,
	})

	return &Output{
		JobPositionID: job.ID,
		CandidateID:   candidate.ID,
		Match:         result,
		Summary:       result.Summary(),
	}, nil
}
