// internal/workers/resume/extract-cv-data/service.go
package extractcvdata

import (
	"context"
	"time"

	"resume-screening-workers/internal/common/errors"
	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/common/metrics"
	"resume-screening-workers/internal/resume"
	"resume-screening-workers/internal/resume/document"
)

type Service struct {
	config     *Config
	logger     logger.Logger
	candidates CandidateStore
	documents  DocumentFetcher
	pipeline   *resume.Pipeline
	now        func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	pipeline := deps.Pipeline
	if pipeline == nil {
		pipeline = resume.NewPipeline(nil, nil, deps.Logger)
	}
	return &Service{
		config:     config,
		logger:     logger.OrNop(deps.Logger),
		candidates: deps.Candidates,
		documents:  deps.Documents,
		pipeline:   pipeline,
		now:        time.Now,
	}
}

// Execute fetches the candidate's CV, stores the extracted text and fills
// any empty profile fields.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	s.logger.Info("Extracting CV data", map[string]interface{}{
		"candidateId": input.CandidateID,
		"filename":    input.Filename,
		"objectKey":   input.ObjectKey,
	})

	candidate, err := s.candidates.Get(ctx, input.CandidateID)
	if err != nil {
		return nil, err
	}

	ref := input.Ref()
	data, err := s.documents.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	filename := ref.Name()
	if filename == "" {
		filename = candidate.CVFilename
	}

	result, err := s.pipeline.ExtractAndPopulate(ctx, candidate, data, filename)
	if err != nil {
		metrics.CVExtractions.WithLabelValues(string(document.Sniff(filename, data)), "failed").Inc()
		return nil, resume.ToStandardError(err)
	}

	metrics.CVExtractions.WithLabelValues(string(result.FileType), "ok").Inc()

	now := s.now().UTC()
	if candidate.CVUploadDate == nil {
		candidate.CVUploadDate = &now
	}
	if err := s.candidates.Save(ctx, candidate); err != nil {
		return nil, errors.AsStandardError(err)
	}

	s.logger.Info("CV data extracted", map[string]interface{}{
		"candidateId": candidate.ID,
		"fileType":    string(result.FileType),
		"backend":     result.Backend,
		"chars":       result.Chars,
		"filled":      result.Filled,
	})

	return &Output{
		CandidateID:  candidate.ID,
		Filename:     candidate.CVFilename,
		FileType:     string(result.FileType),
		Backend:      result.Backend,
		Chars:        result.Chars,
		FilledFields: result.Filled,
		Name:         candidate.Name,
		Email:        candidate.Email,
		Phone:        candidate.Phone,
		ExtractedAt:  now,
	}, nil
}
