// internal/workers/resume/extract-cv-data/models.go
package extractcvdata

import (
	"context"
	"time"

	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/resume"
	"resume-screening-workers/internal/storage"
)

type Input struct {
	CandidateID   int64  `json:"candidateId"`
	ObjectKey     string `json:"objectKey,omitempty"`
	URL           string `json:"url,omitempty"`
	ContentBase64 string `json:"contentBase64,omitempty"`
	Filename      string `json:"filename,omitempty"`
}

// Ref returns where the CV bytes come from.
func (i *Input) Ref() storage.Ref {
	return storage.Ref{
		ObjectKey:     i.ObjectKey,
		URL:           i.URL,
		ContentBase64: i.ContentBase64,
		Filename:      i.Filename,
	}
}

type Output struct {
	CandidateID  int64     `json:"candidateId"`
	Filename     string    `json:"filename"`
	FileType     string    `json:"fileType"`
	Backend      string    `json:"backend"`
	Chars        int       `json:"chars"`
	FilledFields []string  `json:"filledFields"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	ExtractedAt  time.Time `json:"extractedAt"`
}

// CandidateStore loads and persists candidates.
type CandidateStore interface {
	Get(ctx context.Context, id int64) (*models.Candidate, error)
	Save(ctx context.Context, c *models.Candidate) error
}

// DocumentFetcher resolves a storage reference to file bytes.
type DocumentFetcher interface {
	Fetch(ctx context.Context, ref storage.Ref) ([]byte, error)
}

type ServiceDependencies struct {
	Logger     logger.Logger
	Candidates CandidateStore
	Documents  DocumentFetcher
	Pipeline   *resume.Pipeline
}
