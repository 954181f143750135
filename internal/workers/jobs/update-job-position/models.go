// internal/workers/jobs/update-job-position/models.go
package updatejobposition

import (
	"context"

	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"
)

const (
	ActionOpen   = "open"
	ActionClose  = "close"
	ActionCancel = "cancel"
)

type Input struct {
	// JobPositionID zero creates a new job position from Fields.
	JobPositionID int64     `json:"jobPositionId,omitempty"`
	Action        string    `json:"action,omitempty"`
	Fields        JobFields `json:"fields"`
}

// JobFields carries a partial update; nil members keep the stored value.
type JobFields struct {
	Name                  *string  `json:"name,omitempty"`
	Code                  *string  `json:"code,omitempty"`
	Department            *string  `json:"department,omitempty"`
	Description           *string  `json:"description,omitempty"`
	PositionsToFill       *int     `json:"positionsToFill,omitempty"`
	MinExperienceYears    *float64 `json:"minExperienceYears,omitempty"`
	MaxExperienceYears    *float64 `json:"maxExperienceYears,omitempty"`
	MinSalary             *float64 `json:"minSalary,omitempty"`
	MaxSalary             *float64 `json:"maxSalary,omitempty"`
	SalaryCurrency        *string  `json:"salaryCurrency,omitempty"`
	AutoApproveMatching   *bool    `json:"autoApproveMatching,omitempty"`
	AutoRejectNonMatching *bool    `json:"autoRejectNonMatching,omitempty"`
}

func (f JobFields) Empty() bool {
	return f == JobFields{}
}

func (f JobFields) Apply(job *models.JobPosition) {
	setString(&job.Name, f.Name)
	setString(&job.Code, f.Code)
	setString(&job.Department, f.Department)
	setString(&job.Description, f.Description)
	setString(&job.SalaryCurrency, f.SalaryCurrency)
	if f.PositionsToFill != nil {
		job.PositionsToFill = *f.PositionsToFill
	}
	setFloat(&job.MinExperienceYears, f.MinExperienceYears)
	setFloat(&job.MaxExperienceYears, f.MaxExperienceYears)
	setFloat(&job.MinSalary, f.MinSalary)
	setFloat(&job.MaxSalary, f.MaxSalary)
	if f.AutoApproveMatching != nil {
		job.AutoApproveMatching = *f.AutoApproveMatching
	}
	if f.AutoRejectNonMatching != nil {
		job.AutoRejectNonMatching = *f.AutoRejectNonMatching
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

type Output struct {
	Job     *models.JobPosition `json:"job"`
	Created bool                `json:"created"`
	Action  string              `json:"action,omitempty"`
}

type JobStore interface {
	Get(ctx context.Context, id int64) (*models.JobPosition, error)
	Save(ctx context.Context, job *models.JobPosition) error
	SetState(ctx context.Context, id int64, action string) (*models.JobPosition, error)
}

type ServiceDependencies struct {
	Logger logger.Logger
	Jobs   JobStore
}
