// internal/workers/matching/auto-filter-candidates/models.go
package autofiltercandidates

import (
	"context"

	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/common/messaging"
	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/resume/matching"
)

type Input struct {
	JobPositionID int64 `json:"jobPositionId"`
	// CandidateID limits the run to one candidate; zero filters the whole job.
	CandidateID int64 `json:"candidateId,omitempty"`
}

type Output struct {
	JobPositionID   int64                    `json:"jobPositionId"`
	Mode            string                   `json:"mode"` // "single" or "batch"
	Processed       int                      `json:"processed"`
	Approved        int                      `json:"approved"`
	Rejected        int                      `json:"rejected"`
	Message         string                   `json:"message"`
	Outcomes        []matching.FilterOutcome `json:"outcomes"`
	EventsPublished int                      `json:"eventsPublished"`
	EventsFailed    int                      `json:"eventsFailed"`
}

type JobStore interface {
	Get(ctx context.Context, id int64) (*models.JobPosition, error)
}

type CandidateStore interface {
	Get(ctx context.Context, id int64) (*models.Candidate, error)
	ListByJob(ctx context.Context, jobID int64, statuses ...models.CandidateStatus) ([]*models.Candidate, error)
	UpdateStatusAndNotes(ctx context.Context, id int64, status models.CandidateStatus, notes string) error
}

// Locker serialises filter runs per job position across worker replicas.
type Locker interface {
	Acquire(ctx context.Context, jobID int64) (func(context.Context) error, error)
}

type ServiceDependencies struct {
	Logger     logger.Logger
	Jobs       JobStore
	Candidates CandidateStore
	Lock       Locker
	Publisher  messaging.Publisher
	Engine     *matching.Engine
}
