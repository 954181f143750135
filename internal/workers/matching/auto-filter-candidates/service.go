// internal/workers/matching/auto-filter-candidates/service.go
package autofiltercandidates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resume-screening-workers/internal/common/errors"
	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/common/messaging"
	"resume-screening-workers/internal/common/metrics"
	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/resume"
	"resume-screening-workers/internal/resume/matching"

	"github.com/google/uuid"
)

const (
	ModeSingle = "single"
	ModeBatch  = "batch"
)

type Service struct {
	config     *Config
	logger     logger.Logger
	jobs       JobStore
	candidates CandidateStore
	lock       Locker
	publisher  messaging.Publisher
	engine     *matching.Engine
	now        func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	log := logger.OrNop(deps.Logger)
	engine := deps.Engine
	if engine == nil {
		engine = matching.NewEngine(nil, log)
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &Service{
		config:     config,
		logger:     log,
		jobs:       deps.Jobs,
		candidates: deps.Candidates,
		lock:       deps.Lock,
		publisher:  publisher,
		engine:     engine,
		now:        time.Now,
	}
}

// Execute applies the job's auto-approve and auto-reject rules, persists
// every candidate the run changed and publishes one event per decision.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if s.lock != nil {
		release, err := s.lock.Acquire(ctx, input.JobPositionID)
		if err != nil {
			return nil, err
		}
		defer func() {
			// The job context may already be done; the lock must still go.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := release(releaseCtx); err != nil {
				s.logger.Warn("Failed to release auto-filter lock", map[string]interface{}{
					"jobPositionId": input.JobPositionID,
					"error":         err.Error(),
				})
			}
		}()
	}

	// Read after locking so positions filled by a previous run are counted.
	job, err := s.jobs.Get(ctx, input.JobPositionID)
	if err != nil {
		return nil, err
	}

	var (
		output  *Output
		touched map[int64]*models.Candidate
	)
	if input.CandidateID != 0 {
		output, touched, err = s.filterOne(ctx, job, input.CandidateID)
	} else {
		output, touched, err = s.filterBatch(ctx, job)
	}
	if err != nil {
		return nil, err
	}

	for _, out := range output.Outcomes {
		metrics.AutoFilterDecisions.WithLabelValues(string(out.Action)).Inc()
		if !out.Changed() {
			continue
		}

		c := touched[out.CandidateID]
		if err := s.candidates.UpdateStatusAndNotes(ctx, c.ID, c.Status, c.Notes); err != nil {
			return nil, err
		}
		s.publish(ctx, job, c, out, output)
	}

	s.logger.Info("Auto-filter run complete", map[string]interface{}{
		"jobPositionId": job.ID,
		"mode":          output.Mode,
		"processed":     output.Processed,
		"approved":      output.Approved,
		"rejected":      output.Rejected,
		"eventsFailed":  output.EventsFailed,
	})
	return output, nil
}

func (s *Service) filterOne(ctx context.Context, job *models.JobPosition, candidateID int64) (*Output, map[int64]*models.Candidate, error) {
	c, err := s.candidates.Get(ctx, candidateID)
	if err != nil {
		return nil, nil, err
	}
	if c.JobPositionID == nil || *c.JobPositionID != job.ID {
		return nil, nil, errors.NewValidationFailedError(
			fmt.Sprintf("candidate %d is not linked to job position %d", c.ID, job.ID))
	}

	out := s.engine.FilterOne(job, c)
	output := &Output{
		JobPositionID: job.ID,
		Mode:          ModeSingle,
		Outcomes:      []matching.FilterOutcome{out},
	}
	switch out.Action {
	case matching.ActionSkipped:
		output.Message = "Candidate skipped: " + out.SkipReason
	case matching.ActionApproved:
		output.Processed, output.Approved = 1, 1
	case matching.ActionRejected:
		output.Processed, output.Rejected = 1, 1
	default:
		output.Processed = 1
	}
	if output.Message == "" {
		output.Message = matching.FilterSummary{
			Processed: output.Processed,
			Approved:  output.Approved,
			Rejected:  output.Rejected,
		}.Message()
	}
	return output, map[int64]*models.Candidate{c.ID: c}, nil
}

func (s *Service) filterBatch(ctx context.Context, job *models.JobPosition) (*Output, map[int64]*models.Candidate, error) {
	candidates, err := s.candidates.ListByJob(ctx, job.ID, models.StatusPending, models.StatusContacted)
	if err != nil {
		return nil, nil, err
	}

	summary, err := s.engine.FilterBatch(job, candidates)
	if err != nil {
		return nil, nil, resume.ToStandardError(err)
	}

	touched := make(map[int64]*models.Candidate, len(candidates))
	for _, c := range candidates {
		touched[c.ID] = c
	}
	return &Output{
		JobPositionID: job.ID,
		Mode:          ModeBatch,
		Processed:     summary.Processed,
		Approved:      summary.Approved,
		Rejected:      summary.Rejected,
		Message:       summary.Message(),
		Outcomes:      summary.Outcomes,
	}, touched, nil
}

// publish counts failed events in output; it never fails the run.
func (s *Service) publish(ctx context.Context, job *models.JobPosition, c *models.Candidate, out matching.FilterOutcome, output *Output) {
	if !s.config.PublishEvents {
		return
	}

	event := models.DecisionEvent{
		ID:            uuid.NewString(),
		CandidateID:   c.ID,
		JobPositionID: job.ID,
		Action:        string(out.Action),
		Status:        out.StatusTo,
		Note:          strings.TrimSpace(out.Note),
		OccurredAt:    s.now().UTC(),
	}
	routingKey := "candidate." + string(out.Action)

	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		output.EventsFailed++
		s.logger.Warn("Failed to publish decision event", map[string]interface{}{
			"candidateId": c.ID,
			"routingKey":  routingKey,
			"error":       errors.NewPublishFailedError(routingKey, err).Details,
		})
		return
	}
	output.EventsPublished++
}
