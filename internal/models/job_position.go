// internal/models/job_position.go
package models

import (
	"time"
)

type JobState string

const (
	JobStateDraft     JobState = "draft"
	JobStateOpen      JobState = "open"
	JobStateClosed    JobState = "closed"
	JobStateCancelled JobState = "cancelled"
)

// JobPosition holds the hiring criteria candidates are matched against.
// Zero MaxExperienceYears, MinSalary or MaxSalary means the bound is unset.
type JobPosition struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code,omitempty"`
	Department  string `json:"department,omitempty"`
	Description string `json:"description,omitempty"`

	PositionsToFill int `json:"positionsToFill"`
	// PositionsFilled counts linked candidates in status hired. It is
	// computed on read and never written.
	PositionsFilled int `json:"positionsFilled"`

	MinExperienceYears float64 `json:"minExperienceYears"`
	MaxExperienceYears float64 `json:"maxExperienceYears"`
	MinSalary          float64 `json:"minSalary"`
	MaxSalary          float64 `json:"maxSalary"`
	SalaryCurrency     string  `json:"salaryCurrency,omitempty"`

	AutoApproveMatching   bool `json:"autoApproveMatching"`
	AutoRejectNonMatching bool `json:"autoRejectNonMatching"`

	State     JobState   `json:"state"`
	DateOpen  *time.Time `json:"dateOpen,omitempty"`
	DateClose *time.Time `json:"dateClose,omitempty"`

	Stats CandidateStats `json:"stats"`
}

// CandidateStats summarises the candidates linked to a job position.
type CandidateStats struct {
	Total    int `json:"total"`
	Hired    int `json:"hired"`
	Rejected int `json:"rejected"`
	Pending  int `json:"pending"`
}

// ValidationError reports a rejected write or request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// Validate enforces min <= max for experience and salary.
func (j *JobPosition) Validate() error {
	if j.MaxExperienceYears > 0 && j.MinExperienceYears > j.MaxExperienceYears {
		return NewValidationError("Minimum experience cannot be greater than maximum experience.")
	}
	if j.MinSalary > 0 && j.MaxSalary > 0 && j.MinSalary > j.MaxSalary {
		return NewValidationError("Minimum salary cannot be greater than maximum salary.")
	}
	if j.PositionsToFill < 0 {
		return NewValidationError("Positions to fill cannot be negative.")
	}
	return nil
}

func (j *JobPosition) PositionsRemaining() int {
	if remaining := j.PositionsToFill - j.PositionsFilled; remaining > 0 {
		return remaining
	}
	return 0
}

// AutoFilterEnabled reports whether either auto-filter flag is set.
func (j *JobPosition) AutoFilterEnabled() bool {
	return j.AutoApproveMatching || j.AutoRejectNonMatching
}

// SalaryRequired reports whether the job constrains salary at all.
func (j *JobPosition) SalaryRequired() bool {
	return j.MinSalary > 0 || j.MaxSalary > 0
}

func (j *JobPosition) IsOpen() bool {
	return j.State == JobStateOpen
}

// Open moves the job to open and stamps the opening date.
func (j *JobPosition) Open(now time.Time) {
	d := dateOf(now)
	j.State = JobStateOpen
	j.DateOpen = &d
}

// Close moves the job to closed and stamps the closing date.
func (j *JobPosition) Close(now time.Time) {
	d := dateOf(now)
	j.State = JobStateClosed
	j.DateClose = &d
}

func (j *JobPosition) Cancel() {
	j.State = JobStateCancelled
}

// ApplyAction performs one of the open, close or cancel state actions.
func (j *JobPosition) ApplyAction(action string, now time.Time) error {
	switch action {
	case "open":
		j.Open(now)
	case "close":
		j.Close(now)
	case "cancel":
		j.Cancel()
	default:
		return NewValidationError("Unknown job position action: " + action)
	}
	return nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
