// internal/repository/candidates.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	apperrors "resume-screening-workers/internal/common/errors"
	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"

	"github.com/lib/pq"
)

// candidateColumns is the column order shared by every SELECT and scanCandidate.
var candidateColumns = []string{
	"id", "name", "email", "phone", "linkedin", "position", "source", "job_position_id",
	"cv_filename", "cv_text", "cv_upload_date",
	"education", "work_experience", "skills", "certifications", "languages",
	"years_of_experience", "address", "expected_salary", "current_salary",
	"ats_tier1_score", "ats_tier2_score", "ats_overall_score", "ats_interpretable_pct",
	"ats_spelling_errors", "ats_grammar_errors", "ats_quantifiable_achievements",
	"ats_tier1_breakdown", "ats_tier2_breakdown", "ats_tier2_issues", "ats_tier2_achievements",
	"ats_recommendations", "ats_keywords_found", "ats_missing_sections", "ats_analysis_details",
	"ats_analyzed_at", "status", "notes", "created_at", "updated_at",
}

var selectCandidates = "SELECT " + strings.Join(candidateColumns, ", ") + " FROM candidates"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCandidate(row rowScanner) (*models.Candidate, error) {
	var (
		c          models.Candidate
		jobID      sql.NullInt64
		uploadDate sql.NullTime
		analyzedAt sql.NullTime
		source     string
		status     string
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.LinkedIn, &c.Position, &source, &jobID,
		&c.CVFilename, &c.CVText, &uploadDate,
		&c.Education, &c.WorkExperience, &c.Skills, &c.Certifications, &c.Languages,
		&c.YearsOfExperience, &c.Address, &c.ExpectedSalary, &c.CurrentSalary,
		&c.ATS.Tier1Score, &c.ATS.Tier2Score, &c.ATS.OverallScore, &c.ATS.InterpretablePct,
		&c.ATS.SpellingErrors, &c.ATS.GrammarErrors, &c.ATS.QuantifiableAchievements,
		&c.ATS.Tier1Breakdown, &c.ATS.Tier2Breakdown, &c.ATS.Tier2Issues, &c.ATS.Tier2Achievements,
		&c.ATS.Recommendations, &c.ATS.KeywordsFound, &c.ATS.MissingSections, &c.ATS.AnalysisDetails,
		&analyzedAt, &status, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Source = models.CandidateSource(source)
	c.Status = models.CandidateStatus(status)
	if jobID.Valid {
		id := jobID.Int64
		c.JobPositionID = &id
	}
	if uploadDate.Valid {
		t := uploadDate.Time
		c.CVUploadDate = &t
	}
	if analyzedAt.Valid {
		t := analyzedAt.Time
		c.ATS.AnalyzedAt = &t
	}
	return &c, nil
}

// CandidateRepository stores candidates in Postgres.
type CandidateRepository struct {
	db  *sql.DB
	log logger.Logger
	now func() time.Time
}

func NewCandidateRepository(db *sql.DB, log logger.Logger) *CandidateRepository {
	return &CandidateRepository{db: db, log: logger.OrNop(log), now: time.Now}
}

func (r *CandidateRepository) Get(ctx context.Context, id int64) (*models.Candidate, error) {
	c, err := scanCandidate(r.db.QueryRowContext(ctx, selectCandidates+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewCandidateNotFoundError(id)
		}
		return nil, apperrors.NewQueryExecutionFailedError("get candidate", err)
	}
	return c, nil
}

// ListByJob returns the job's candidates in the given statuses, ordered by
// id. No statuses means all candidates.
func (r *CandidateRepository) ListByJob(ctx context.Context, jobID int64, statuses ...models.CandidateStatus) ([]*models.Candidate, error) {
	query := selectCandidates + " WHERE job_position_id = $1"
	args := []interface{}{jobID}
	if len(statuses) > 0 {
		query += " AND status = ANY($2)"
		args = append(args, pq.Array(statusStrings(statuses)))
	}
	query += " ORDER BY id"
	return r.list(ctx, "list candidates by job", query, args...)
}

// ListAnalyzed returns candidates with an ATS analysis, optionally limited to
// one job, best overall score first.
func (r *CandidateRepository) ListAnalyzed(ctx context.Context, jobID *int64) ([]*models.Candidate, error) {
	query := selectCandidates + " WHERE ats_analyzed_at IS NOT NULL"
	var args []interface{}
	if jobID != nil {
		query += " AND job_position_id = $1"
		args = append(args, *jobID)
	}
	query += " ORDER BY ats_overall_score DESC, id"
	return r.list(ctx, "list analyzed candidates", query, args...)
}

func (r *CandidateRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]*models.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(op, err)
	}
	defer rows.Close()

	var out []*models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError(op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(op, err)
	}
	return out, nil
}

// Create inserts c and sets its ID and timestamps.
func (r *CandidateRepository) Create(ctx context.Context, c *models.Candidate) error {
	if c.Position == "" {
		c.Position = models.DefaultPosition
	}
	if c.Status == "" {
		c.Status = models.StatusPending
	}
	now := r.now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	cols := candidateColumns[1:]
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	query := "INSERT INTO candidates (" + strings.Join(cols, ", ") + ") VALUES (" +
		strings.Join(placeholders, ", ") + ") RETURNING id"

	args := append(candidateArgs(c), c.CreatedAt, c.UpdatedAt)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&c.ID); err != nil {
		return apperrors.NewQueryExecutionFailedError("create candidate", err)
	}

	r.log.Debug("Created candidate", map[string]interface{}{"candidateId": c.ID, "name": c.Name})
	return nil
}

// Save writes every mutable column of c.
func (r *CandidateRepository) Save(ctx context.Context, c *models.Candidate) error {
	c.UpdatedAt = r.now().UTC()

	cols := candidateColumns[1 : len(candidateColumns)-2]
	sets := make([]string, 0, len(cols)+1)
	for i, col := range cols {
		sets = append(sets, col+" = $"+strconv.Itoa(i+1))
	}
	sets = append(sets, "updated_at = $"+strconv.Itoa(len(cols)+1))
	query := "UPDATE candidates SET " + strings.Join(sets, ", ") + " WHERE id = $" + strconv.Itoa(len(cols)+2)

	args := append(candidateArgs(c), c.UpdatedAt, c.ID)
	return r.execOne(ctx, "save candidate", c.ID, query, args...)
}

// UpdateStatusAndNotes persists an auto-filter decision.
func (r *CandidateRepository) UpdateStatusAndNotes(ctx context.Context, id int64, status models.CandidateStatus, notes string) error {
	return r.execOne(ctx, "update candidate status", id,
		"UPDATE candidates SET status = $1, notes = $2, updated_at = $3 WHERE id = $4",
		string(status), notes, r.now().UTC(), id)
}

func (r *CandidateRepository) execOne(ctx context.Context, op string, id int64, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewQueryExecutionFailedError(op, err)
	}
	if n == 0 {
		return apperrors.NewCandidateNotFoundError(id)
	}
	return nil
}

// candidateArgs follows candidateColumns without id, created_at and updated_at.
func candidateArgs(c *models.Candidate) []interface{} {
	var jobID interface{}
	if c.JobPositionID != nil {
		jobID = *c.JobPositionID
	}
	return []interface{}{
		c.Name, c.Email, c.Phone, c.LinkedIn, c.Position, string(c.Source), jobID,
		c.CVFilename, c.CVText, nullTime(c.CVUploadDate),
		c.Education, c.WorkExperience, c.Skills, c.Certifications, c.Languages,
		c.YearsOfExperience, c.Address, c.ExpectedSalary, c.CurrentSalary,
		c.ATS.Tier1Score, c.ATS.Tier2Score, c.ATS.OverallScore, c.ATS.InterpretablePct,
		c.ATS.SpellingErrors, c.ATS.GrammarErrors, c.ATS.QuantifiableAchievements,
		c.ATS.Tier1Breakdown, c.ATS.Tier2Breakdown, c.ATS.Tier2Issues, c.ATS.Tier2Achievements,
		c.ATS.Recommendations, c.ATS.KeywordsFound, c.ATS.MissingSections, c.ATS.AnalysisDetails,
		nullTime(c.ATS.AnalyzedAt), string(c.Status), c.Notes,
	}
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func statusStrings(statuses []models.CandidateStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
