// internal/workers/reporting/export-ats-report/handler.go
package exportatsreport

import (
	"context"
	"fmt"
	"time"

	"resume-screening-workers/internal/common/camunda"
	"resume-screening-workers/internal/common/config"
	"resume-screening-workers/internal/common/errors"
	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/common/metrics"
	"resume-screening-workers/internal/common/validation"
	"resume-screening-workers/internal/resume"
	"resume-screening-workers/internal/reporting"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType  = "reporting.export-ats-report"
	configKey = "export-ats-report"
)

type executor interface {
	Execute(ctx context.Context, input *Input) (*Output, error)
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	camunda      *camunda.Client
	service      executor
	errors       *errors.ErrorHandler
	registration *camunda.Registration
}

type HandlerOptions struct {
	AppConfig    *config.Config
	Camunda      *camunda.Client
	CustomConfig *Config
	Logger       logger.Logger
	Jobs         JobStore
	Candidates   CandidateStore
	Uploader     ReportUploader
	Exporter     *reporting.WorkbookExporter
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", configKey, err)
	}
	if opts.Jobs == nil || opts.Candidates == nil {
		return nil, fmt.Errorf("%s: job and candidate stores are required", configKey)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}

	return &Handler{
		config:  workerConfig,
		logger:  loggerInstance,
		camunda: opts.Camunda,
		errors:  errors.NewErrorHandler(loggerInstance),
		service: NewService(ServiceDependencies{
			Logger:     loggerInstance,
			Jobs:       opts.Jobs,
			Candidates: opts.Candidates,
			Uploader:   opts.Uploader,
			Exporter:   opts.Exporter,
		}, workerConfig),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing ATS report export", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"worker":             TaskType,
	})

	if !h.config.Enabled {
		camunda.CompleteJob(ctx, client, job, map[string]interface{}{
			"atsReportExported": false,
		}, h.logger)
		return
	}

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, completionVariables(output), h.logger); err != nil {
		return
	}
	metrics.ObserveJob(TaskType, "", time.Since(startTime).Seconds())
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return nil, errors.NewValidationFailedError(fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()))
	}

	input := &Input{}
	if id, ok := variables["jobPositionId"].(float64); ok {
		input.JobPositionID = int64(id)
	}
	if key, ok := variables["objectKey"].(string); ok {
		input.ObjectKey = key
	}
	return input, nil
}

func completionVariables(output *Output) map[string]interface{} {
	return map[string]interface{}{
		"atsReportExported":     true,
		"atsReportLocation":     output.Location,
		"atsReportCandidates":   output.Candidates,
		"atsReportAverageScore": output.AverageScore,
		"atsReportTopCandidate": output.TopCandidateID,
		"atsReportGeneratedAt":  output.GeneratedAt.Format(time.RFC3339),
	}
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.ObserveJob(TaskType, extractErrorCode(err), 0)
	h.errors.HandleJobError(ctx, client, job, convertToStandardError(err))
}

func (h *Handler) Register() error {
	if !h.config.Enabled {
		h.logger.Info("Worker is disabled, skipping registration", map[string]interface{}{
			"worker": TaskType,
		})
		return nil
	}
	if h.camunda == nil {
		return fmt.Errorf("%s: camunda client is required to register", configKey)
	}

	h.registration = camunda.StartWorker(h.camunda.GetClient(), h, config.WorkerConfig{
		Enabled:       h.config.Enabled,
		MaxJobsActive: h.config.MaxJobsActive,
		Timeout:       int(h.config.Timeout.Milliseconds()),
	}, h.logger)
	return nil
}

func (h *Handler) Close() {
	if h.registration != nil {
		h.registration.Close()
		h.registration = nil
	}
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func extractErrorCode(err error) string {
	return string(convertToStandardError(err).Code)
}

func convertToStandardError(err error) *errors.StandardError {
	return resume.ToStandardError(err)
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig != nil {
		if workerCfg, exists := appConfig.Workers[configKey]; exists {
			cfg.Enabled = workerCfg.Enabled
			if workerCfg.MaxJobsActive > 0 {
				cfg.MaxJobsActive = workerCfg.MaxJobsActive
			}
			if workerCfg.Timeout > 0 {
				cfg.Timeout = time.Duration(workerCfg.Timeout) * time.Millisecond
			}
		}
		if prefix := appConfig.Storage.S3.ReportPrefix; prefix != "" {
			cfg.ReportPrefix = prefix
		}
		if dir := appConfig.Screening.ReportDir; dir != "" {
			cfg.ReportDir = dir
		}
	}
	return cfg
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.service.Execute(ctx, input)
}
