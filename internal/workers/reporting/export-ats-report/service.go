// internal/workers/reporting/export-ats-report/service.go
package exportatsreport

import (
	"context"
	"fmt"
	"math"
	"path"
	"path/filepath"
	"strings"
	"time"

	"resume-screening-workers/internal/common/errors"
	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/reporting"
)

type Service struct {
	config     *Config
	logger     logger.Logger
	candidates CandidateStore
	jobs       JobStore
	uploader   ReportUploader
	exporter   *reporting.WorkbookExporter
	now        func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	exporter := deps.Exporter
	if exporter == nil {
		exporter = reporting.NewWorkbookExporter()
	}
	return &Service{
		config:     config,
		logger:     logger.OrNop(deps.Logger),
		candidates: deps.Candidates,
		jobs:       deps.Jobs,
		uploader:   deps.Uploader,
		exporter:   exporter,
		now:        time.Now,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	report := reporting.Report{GeneratedAt: s.now().UTC()}

	var jobFilter *int64
	if input.JobPositionID != 0 {
		job, err := s.jobs.Get(ctx, input.JobPositionID)
		if err != nil {
			return nil, err
		}
		report.Job = job
		jobFilter = &input.JobPositionID
	}

	candidates, err := s.candidates.ListAnalyzed(ctx, jobFilter)
	if err != nil {
		return nil, err
	}
	report.Candidates = candidates

	output := &Output{
		JobPositionID: input.JobPositionID,
		Candidates:    len(candidates),
		GeneratedAt:   report.GeneratedAt,
	}
	output.AverageScore, output.TopCandidateID = scoreStats(candidates)

	if s.uploader != nil {
		key := input.ObjectKey
		if key == "" {
			key = path.Join(s.config.ReportPrefix, reportName(input.JobPositionID, report.GeneratedAt))
		}
		data, err := s.exporter.Build(report)
		if err != nil {
			return nil, errors.NewReportExportFailedError(err)
		}
		if err := s.uploader.Upload(ctx, key, reporting.ContentType, data); err != nil {
			return nil, errors.NewReportExportFailedError(err)
		}
		output.Location = fmt.Sprintf("s3://%s/%s", s.uploader.Bucket(), key)
		output.Bytes = len(data)
	} else {
		name := reportName(input.JobPositionID, report.GeneratedAt)
		if input.ObjectKey != "" {
			name = path.Base(input.ObjectKey)
		}
		written, err := s.exporter.SaveFile(report, filepath.Join(s.config.ReportDir, name))
		if err != nil {
			return nil, errors.NewReportExportFailedError(err)
		}
		output.Location = written
	}

	s.logger.Info("ATS report exported", map[string]interface{}{
		"jobPositionId": input.JobPositionID,
		"candidates":    output.Candidates,
		"location":      output.Location,
	})
	return output, nil
}

func reportName(jobID int64, at time.Time) string {
	scope := "all"
	if jobID != 0 {
		scope = fmt.Sprintf("job-%d", jobID)
	}
	return strings.Join([]string{"ats-report", scope, at.Format("20060102-150405")}, "_") + ".xlsx"
}

// scoreStats returns the mean overall score and the best candidate's id.
func scoreStats(candidates []*models.Candidate) (float64, int64) {
	if len(candidates) == 0 {
		return 0, 0
	}
	var (
		sum  float64
		best *models.Candidate
	)
	for _, c := range candidates {
		sum += c.ATS.OverallScore
		if best == nil || c.ATS.OverallScore > best.ATS.OverallScore ||
			(c.ATS.OverallScore == best.ATS.OverallScore && c.ID < best.ID) {
			best = c
		}
	}
	return math.Round(sum/float64(len(candidates))*10) / 10, best.ID
}
