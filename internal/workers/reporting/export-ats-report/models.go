// internal/workers/reporting/export-ats-report/models.go
package exportatsreport

import (
	"context"
	"time"

	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/reporting"
)

type Input struct {
	// JobPositionID zero exports analysed candidates of every job.
	JobPositionID int64  `json:"jobPositionId,omitempty"`
	ObjectKey     string `json:"objectKey,omitempty"`
}

type Output struct {
	JobPositionID  int64     `json:"jobPositionId,omitempty"`
	Candidates     int       `json:"candidates"`
	AverageScore   float64   `json:"averageScore"`
	TopCandidateID int64     `json:"topCandidateId,omitempty"`
	Location       string    `json:"location"`
	Bytes          int       `json:"bytes"`
	GeneratedAt    time.Time `json:"generatedAt"`
}

type CandidateStore interface {
	ListAnalyzed(ctx context.Context, jobID *int64) ([]*models.Candidate, error)
}

type JobStore interface {
	Get(ctx context.Context, id int64) (*models.JobPosition, error)
}

// ReportUploader is satisfied by the S3 client.
type ReportUploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	Bucket() string
}

type ServiceDependencies struct {
	Logger     logger.Logger
	Candidates CandidateStore
	Jobs       JobStore
	// Uploader may be nil; the workbook is then written to ReportDir.
	Uploader ReportUploader
	Exporter *reporting.WorkbookExporter
}
