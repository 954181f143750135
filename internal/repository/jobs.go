// internal/repository/jobs.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperrors "resume-screening-workers/internal/common/errors"
	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"
)

const selectJob = `SELECT id, name, code, department, description, positions_to_fill,
	min_experience_years, max_experience_years, min_salary, max_salary, salary_currency,
	auto_approve_matching, auto_reject_non_matching, state, date_open, date_close
	FROM job_positions WHERE id = $1`

const selectJobStats = `SELECT COUNT(*),
	COUNT(*) FILTER (WHERE status = 'hired'),
	COUNT(*) FILTER (WHERE status = 'rejected'),
	COUNT(*) FILTER (WHERE status = 'pending')
	FROM candidates WHERE job_position_id = $1`

const insertJob = `INSERT INTO job_positions (name, code, department, description, positions_to_fill,
	min_experience_years, max_experience_years, min_salary, max_salary, salary_currency,
	auto_approve_matching, auto_reject_non_matching, state, date_open, date_close)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`

const updateJob = `UPDATE job_positions SET name = $1, code = $2, department = $3, description = $4,
	positions_to_fill = $5, min_experience_years = $6, max_experience_years = $7, min_salary = $8,
	max_salary = $9, salary_currency = $10, auto_approve_matching = $11, auto_reject_non_matching = $12,
	state = $13, date_open = $14, date_close = $15, updated_at = NOW() WHERE id = $16`

const updateJobState = `UPDATE job_positions SET state = $1, date_open = $2, date_close = $3,
	updated_at = NOW() WHERE id = $4`

// JobRepository stores job positions. PositionsFilled and Stats are always
// aggregated from candidates at read time.
type JobRepository struct {
	db    *sql.DB
	cache *JobCache
	log   logger.Logger
	now   func() time.Time
}

// NewJobRepository accepts a nil cache.
func NewJobRepository(db *sql.DB, cache *JobCache, log logger.Logger) *JobRepository {
	return &JobRepository{db: db, cache: cache, log: logger.OrNop(log), now: time.Now}
}

func (r *JobRepository) Get(ctx context.Context, id int64) (*models.JobPosition, error) {
	job, err := r.criteria(ctx, id)
	if err != nil {
		return nil, err
	}

	var s models.CandidateStats
	if err := r.db.QueryRowContext(ctx, selectJobStats, id).Scan(&s.Total, &s.Hired, &s.Rejected, &s.Pending); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("job candidate stats", err)
	}
	job.Stats = s
	job.PositionsFilled = s.Hired
	return job, nil
}

func (r *JobRepository) criteria(ctx context.Context, id int64) (*models.JobPosition, error) {
	if r.cache != nil {
		job, ok, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("Job cache read failed", map[string]interface{}{"jobPositionId": id, "error": err.Error()})
		} else if ok {
			return job, nil
		}
	}

	var (
		job       models.JobPosition
		state     string
		dateOpen  sql.NullTime
		dateClose sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, selectJob, id).Scan(
		&job.ID, &job.Name, &job.Code, &job.Department, &job.Description, &job.PositionsToFill,
		&job.MinExperienceYears, &job.MaxExperienceYears, &job.MinSalary, &job.MaxSalary, &job.SalaryCurrency,
		&job.AutoApproveMatching, &job.AutoRejectNonMatching, &state, &dateOpen, &dateClose,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewJobPositionNotFoundError(id)
		}
		return nil, apperrors.NewQueryExecutionFailedError("get job position", err)
	}
	job.State = models.JobState(state)
	if dateOpen.Valid {
		t := dateOpen.Time
		job.DateOpen = &t
	}
	if dateClose.Valid {
		t := dateClose.Time
		job.DateClose = &t
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, &job); err != nil {
			r.log.Warn("Job cache write failed", map[string]interface{}{"jobPositionId": id, "error": err.Error()})
		}
	}
	return &job, nil
}

// Save validates job and inserts it when ID is zero, otherwise updates it.
func (r *JobRepository) Save(ctx context.Context, job *models.JobPosition) error {
	if err := job.Validate(); err != nil {
		return err
	}
	if job.State == "" {
		job.State = models.JobStateDraft
	}

	args := []interface{}{
		job.Name, job.Code, job.Department, job.Description, job.PositionsToFill,
		job.MinExperienceYears, job.MaxExperienceYears, job.MinSalary, job.MaxSalary, job.SalaryCurrency,
		job.AutoApproveMatching, job.AutoRejectNonMatching, string(job.State),
		nullTime(job.DateOpen), nullTime(job.DateClose),
	}

	if job.ID == 0 {
		if err := r.db.QueryRowContext(ctx, insertJob, args...).Scan(&job.ID); err != nil {
			return apperrors.NewQueryExecutionFailedError("create job position", err)
		}
		return nil
	}

	if err := r.exec(ctx, "update job position", job.ID, updateJob, append(args, job.ID)...); err != nil {
		return err
	}
	r.invalidate(ctx, job.ID)
	return nil
}

// SetState applies an open, close or cancel action and returns the updated job.
func (r *JobRepository) SetState(ctx context.Context, id int64, action string) (*models.JobPosition, error) {
	job, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := job.ApplyAction(action, r.now()); err != nil {
		return nil, err
	}

	if err := r.exec(ctx, "set job position state", id, updateJobState,
		string(job.State), nullTime(job.DateOpen), nullTime(job.DateClose), id); err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)

	r.log.Info("Job position state changed", map[string]interface{}{
		"jobPositionId": id,
		"action":        action,
		"state":         string(job.State),
	})
	return job, nil
}

func (r *JobRepository) exec(ctx context.Context, op string, id int64, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError(op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewJobPositionNotFoundError(id)
	}
	return nil
}

func (r *JobRepository) invalidate(ctx context.Context, id int64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Invalidate(ctx, id); err != nil {
		r.log.Warn("Job cache invalidation failed", map[string]interface{}{"jobPositionId": id, "error": err.Error()})
	}
}
