// internal/workers/resume/bulk-upload-cvs/models.go
package bulkuploadcvs

import (
	"context"

	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/resume"
	"resume-screening-workers/internal/storage"
)

const DefaultBatchName = "Bulk CV Upload"

type Input struct {
	BatchName     string                 `json:"batchName,omitempty"`
	JobPositionID int64                  `json:"jobPositionId,omitempty"`
	Position      string                 `json:"position,omitempty"`
	Source        models.CandidateSource `json:"source,omitempty"`
	Files         []storage.Ref          `json:"files"`
	AutoExtract   bool                   `json:"autoExtract"`
	AutoAnalyze   bool                   `json:"autoAnalyze"`
}

type Output struct {
	BatchID      string   `json:"batchId"`
	BatchName    string   `json:"batchName"`
	TotalFiles   int      `json:"totalFiles"`
	Created      int      `json:"created"`
	Extracted    int      `json:"extracted"`
	Analyzed     int      `json:"analyzed"`
	Approved     int      `json:"approved"`
	Rejected     int      `json:"rejected"`
	Errors       int      `json:"errors"`
	CandidateIDs []int64  `json:"candidateIds"`
	Log          []string `json:"log"`
}

type CandidateStore interface {
	Create(ctx context.Context, c *models.Candidate) error
	Save(ctx context.Context, c *models.Candidate) error
	UpdateStatusAndNotes(ctx context.Context, id int64, status models.CandidateStatus, notes string) error
}

type JobStore interface {
	Get(ctx context.Context, id int64) (*models.JobPosition, error)
}

type DocumentFetcher interface {
	Fetch(ctx context.Context, ref storage.Ref) ([]byte, error)
}

type AnalysisIndexer interface {
	Index(ctx context.Context, c *models.Candidate) error
}

type ServiceDependencies struct {
	Logger     logger.Logger
	Candidates CandidateStore
	Jobs       JobStore
	Documents  DocumentFetcher
	// Index may be nil.
	Index    AnalysisIndexer
	Pipeline *resume.Pipeline
}
