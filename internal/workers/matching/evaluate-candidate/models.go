// internal/workers/matching/evaluate-candidate/models.go
package evaluatecandidate

import (
	"context"

	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/resume/matching"
)

type Input struct {
	JobPositionID int64 `json:"jobPositionId"`
	CandidateID   int64 `json:"candidateId"`
}

type Output struct {
	JobPositionID int64                `json:"jobPositionId"`
	CandidateID   int64                `json:"candidateId"`
	Match         matching.MatchResult `json:"match"`
	Summary       string               `json:"summary"`
}

type JobStore interface {
	Get(ctx context.Context, id int64) (*models.JobPosition, error)
}

type CandidateStore interface {
	Get(ctx context.Context, id int64) (*models.Candidate, error)
}

type ServiceDependencies struct {
	Logger     logger.Logger
	Jobs       JobStore
	Candidates CandidateStore
	Matcher    *matching.Matcher
}
