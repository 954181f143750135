// internal/workers/resume/bulk-upload-cvs/service.go
package bulkuploadcvs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resume-screening-workers/internal/common/errors"
	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/common/metrics"
	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/resume"
	"resume-screening-workers/internal/resume/document"
	"resume-screening-workers/internal/resume/matching"
	"resume-screening-workers/internal/storage"

	"github.com/google/uuid"
)

type Service struct {
	config     *Config
	logger     logger.Logger
	candidates CandidateStore
	jobs       JobStore
	documents  DocumentFetcher
	index      AnalysisIndexer
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
		jobs:       deps.Jobs,
		documents:  deps.Documents,
		index:      deps.Index,
		pipeline:   pipeline,
		now:        time.Now,
	}
}

// batch accumulates counters and the human readable processing log.
type batch struct {
	out *Output
}

func (b *batch) logf(format string, args ...interface{}) {
	b.out.Log = append(b.out.Log, fmt.Sprintf(format, args...))
}

// Execute creates one candidate per file and runs the requested processing
// steps. A failing file is logged and counted; it never aborts the batch.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.Files) == 0 {
		return nil, errors.NewValidationFailedError("Please select at least one CV file to upload.")
	}
	if len(input.Files) > s.config.MaxFiles {
		return nil, errors.NewValidationFailedError(
			fmt.Sprintf("batch has %d files, at most %d are accepted", len(input.Files), s.config.MaxFiles))
	}

	var job *models.JobPosition
	if input.JobPositionID != 0 {
		j, err := s.jobs.Get(ctx, input.JobPositionID)
		if err != nil {
			return nil, err
		}
		job = j
	}

	name := strings.TrimSpace(input.BatchName)
	if name == "" {
		name = DefaultBatchName
	}
	b := &batch{out: &Output{
		BatchID:      uuid.NewString(),
		BatchName:    name,
		TotalFiles:   len(input.Files),
		CandidateIDs: make([]int64, 0, len(input.Files)),
	}}
	b.logf("=== BULK CV UPLOAD PROCESSING ===")
	b.logf("Batch: %s", name)
	b.logf("")

	for i, ref := range input.Files {
		if err := ctx.Err(); err != nil {
			b.logf("✗ Batch interrupted: %s", err.Error())
			b.out.Errors += len(input.Files) - i
			break
		}
		s.processFile(ctx, b, input, job, ref)
	}

	s.logger.Info("Bulk CV upload complete", map[string]interface{}{
		"batchId":   b.out.BatchID,
		"files":     b.out.TotalFiles,
		"created":   b.out.Created,
		"extracted": b.out.Extracted,
		"analyzed":  b.out.Analyzed,
		"errors":    b.out.Errors,
	})
	return b.out, nil
}

func (s *Service) processFile(ctx context.Context, b *batch, input *Input, job *models.JobPosition, ref storage.Ref) {
	filename := ref.Name()
	if filename == "" {
		filename = "unknown.pdf"
	}
	if ref.Empty() {
		b.out.Errors++
		b.logf("✗ Error processing %s: no file content or location given", filename)
		return
	}

	uploaded := s.now().UTC()
	c := &models.Candidate{
		Name:         models.NameFromFilename(filename),
		Position:     input.Position,
		Source:       input.Source,
		CVFilename:   filename,
		CVUploadDate: &uploaded,
	}
	if c.Position == "" {
		c.Position = models.DefaultPosition
	}
	if c.Source == "" {
		c.Source = models.SourceWebsite
	}
	if job != nil {
		c.JobPositionID = &job.ID
	}

	if err := s.candidates.Create(ctx, c); err != nil {
		b.out.Errors++
		b.logf("✗ Error processing %s: %s", filename, errorText(err))
		return
	}
	b.out.Created++
	b.out.CandidateIDs = append(b.out.CandidateIDs, c.ID)
	b.logf("✓ Created candidate: %s (ID: %d)", c.Name, c.ID)

	if !input.AutoExtract {
		return
	}
	if !s.extract(ctx, b, c, ref, filename) {
		return
	}

	if job != nil && job.IsOpen() {
		s.evaluate(ctx, b, job, c)
	}

	if input.AutoAnalyze && c.HasCVText() {
		s.analyze(ctx, b, c)
	}
}

func (s *Service) extract(ctx context.Context, b *batch, c *models.Candidate, ref storage.Ref, filename string) bool {
	data, err := s.documents.Fetch(ctx, ref)
	if err == nil {
		var res *resume.PopulateResult
		res, err = s.pipeline.ExtractAndPopulate(ctx, c, data, filename)
		if err == nil {
			metrics.CVExtractions.WithLabelValues(string(res.FileType), "ok").Inc()
			err = s.candidates.Save(ctx, c)
		} else {
			metrics.CVExtractions.WithLabelValues(string(document.Sniff(filename, data)), "failed").Inc()
		}
	}
	if err != nil {
		b.logf("  ✗ Extraction failed for %s: %s", c.Name, errorText(err))
		return false
	}

	b.out.Extracted++
	b.logf("  ✓ Extracted CV data for %s", c.Name)
	return true
}

func (s *Service) evaluate(ctx context.Context, b *batch, job *models.JobPosition, c *models.Candidate) {
	out := s.pipeline.AutoEvaluate(job, c)
	metrics.AutoFilterDecisions.WithLabelValues(string(out.Action)).Inc()
	if !out.Changed() {
		return
	}
	if err := s.candidates.UpdateStatusAndNotes(ctx, c.ID, c.Status, c.Notes); err != nil {
		b.logf("  ⚠ Evaluation failed for %s: %s", c.Name, errorText(err))
		return
	}

	switch out.Action {
	case matching.ActionApproved:
		b.out.Approved++
		b.logf("  ✓ Auto-approved %s (matches criteria)", c.Name)
	case matching.ActionRejected:
		b.out.Rejected++
		b.logf("  ✗ Auto-rejected %s (does not match criteria)", c.Name)
	}
}

func (s *Service) analyze(ctx context.Context, b *batch, c *models.Candidate) {
	result, err := s.pipeline.RunAnalysis(c, s.now())
	if err == nil {
		err = s.candidates.Save(ctx, c)
	}
	if err != nil {
		b.logf("  ✗ ATS analysis failed for %s: %s", c.Name, errorText(err))
		return
	}

	metrics.ATSScores.WithLabelValues("overall").Observe(result.OverallScore)
	b.out.Analyzed++
	b.logf("  ✓ Ran ATS analysis for %s (Score: %.1f)", c.Name, result.OverallScore)

	if s.index != nil {
		if err := s.index.Index(ctx, c); err != nil {
			s.logger.Warn("Failed to index ATS result", map[string]interface{}{
				"candidateId": c.ID,
				"error":       err.Error(),
			})
		}
	}
}

func errorText(err error) string {
	if e := resume.ToStandardError(err); e != nil && e.Details != "" {
		return e.Details
	}
	return err.Error()
}
