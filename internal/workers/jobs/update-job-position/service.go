// internal/workers/jobs/update-job-position/service.go
package updatejobposition

import (
	"context"
	"strings"

	"resume-screening-workers/internal/common/errors"
	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/resume"
)

type Service struct {
	config *Config
	logger logger.Logger
	jobs   JobStore
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: logger.OrNop(deps.Logger),
		jobs:   deps.Jobs,
	}
}

// Execute writes field changes first and then applies the state action, so a
// single call can both edit and open a job position.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.JobPositionID == 0 && input.Action != "" && input.Fields.Empty() {
		return nil, errors.NewValidationFailedError("jobPositionId is required for action " + input.Action)
	}

	output := &Output{Action: input.Action}

	var job *models.JobPosition
	switch {
	case input.JobPositionID == 0:
		if input.Fields.Name == nil || strings.TrimSpace(*input.Fields.Name) == "" {
			return nil, errors.NewValidationFailedError("name is required to create a job position")
		}
		job = &models.JobPosition{State: models.JobStateDraft}
		input.Fields.Apply(job)
		if err := s.jobs.Save(ctx, job); err != nil {
			return nil, resume.ToStandardError(err)
		}
		output.Created = true

	case !input.Fields.Empty():
		existing, err := s.jobs.Get(ctx, input.JobPositionID)
		if err != nil {
			return nil, err
		}
		input.Fields.Apply(existing)
		if err := s.jobs.Save(ctx, existing); err != nil {
			return nil, resume.ToStandardError(err)
		}
		job = existing

	case input.Action == "":
		return nil, errors.NewValidationFailedError("nothing to update: provide job fields or an action")
	}

	if input.Action != "" {
		id := input.JobPositionID
		if job != nil {
			id = job.ID
		}
		updated, err := s.jobs.SetState(ctx, id, input.Action)
		if err != nil {
			return nil, resume.ToStandardError(err)
		}
		job = updated
	}

	s.logger.Info("Job position updated", map[string]interface{}{
		"jobPositionId": job.ID,
		"created":       output.Created,
		"action":        input.Action,
		"state":         string(job.State),
	})

	output.Job = job
	return output, nil
}
