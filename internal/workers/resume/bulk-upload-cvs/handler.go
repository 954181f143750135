// internal/workers/resume/bulk-upload-cvs/handler.go
package bulkuploadcvs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resume-screening-workers/internal/common/camunda"
	"resume-screening-workers/internal/common/config"
	"resume-screening-workers/internal/common/errors"
	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/common/metrics"
	"resume-screening-workers/internal/common/validation"
	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/resume"
	"resume-screening-workers/internal/storage"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType  = "resume.bulk-upload-cvs"
	configKey = "bulk-upload-cvs"
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
	Candidates   CandidateStore
	Jobs         JobStore
	Documents    DocumentFetcher
	Index        AnalysisIndexer
	Pipeline     *resume.Pipeline
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", configKey, err)
	}
	if opts.Candidates == nil {
		return nil, fmt.Errorf("%s: candidate store is required", configKey)
	}
	if opts.Jobs == nil {
		return nil, fmt.Errorf("%s: job store is required", configKey)
	}
	if opts.Documents == nil {
		return nil, fmt.Errorf("%s: document fetcher is required", configKey)
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
			Candidates: opts.Candidates,
			Jobs:       opts.Jobs,
			Documents:  opts.Documents,
			Index:      opts.Index,
			Pipeline:   opts.Pipeline,
		}, workerConfig),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing bulk CV upload", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"worker":             TaskType,
	})

	if !h.config.Enabled {
		h.logger.Info("Worker disabled by configuration", map[string]interface{}{
			"worker": TaskType,
		})
		camunda.CompleteJob(ctx, client, job, map[string]interface{}{
			"bulkUploadProcessed": false,
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

	h.logger.Info("Successfully completed bulk CV upload", map[string]interface{}{
		"jobKey":  job.GetKey(),
		"batchId": output.BatchID,
		"created": output.Created,
		"errors":  output.Errors,
		"worker":  TaskType,
	})
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

	input := &Input{AutoExtract: true, AutoAnalyze: true}
	if v, ok := variables["batchName"].(string); ok {
		input.BatchName = v
	}
	if v, ok := variables["jobPositionId"].(float64); ok {
		input.JobPositionID = int64(v)
	}
	if v, ok := variables["position"].(string); ok {
		input.Position = v
	}
	if v, ok := variables["source"].(string); ok {
		input.Source = models.CandidateSource(v)
	}
	if v, ok := variables["autoExtract"].(bool); ok {
		input.AutoExtract = v
	}
	if v, ok := variables["autoAnalyze"].(bool); ok {
		input.AutoAnalyze = v
	}
	files, _ := variables["files"].([]interface{})
	for _, f := range files {
		m, ok := f.(map[string]interface{})
		if !ok {
			continue
		}
		var ref storage.Ref
		ref.Filename, _ = m["filename"].(string)
		ref.ObjectKey, _ = m["objectKey"].(string)
		ref.URL, _ = m["url"].(string)
		ref.ContentBase64, _ = m["contentBase64"].(string)
		input.Files = append(input.Files, ref)
	}
	return input, nil
}

func completionVariables(output *Output) map[string]interface{} {
	return map[string]interface{}{
		"bulkUploadProcessed": true,
		"bulkUploadBatchId":   output.BatchID,
		"bulkUploadTotal":     output.TotalFiles,
		"bulkUploadCreated":   output.Created,
		"bulkUploadExtracted": output.Extracted,
		"bulkUploadAnalyzed":  output.Analyzed,
		"bulkUploadApproved":  output.Approved,
		"bulkUploadRejected":  output.Rejected,
		"bulkUploadErrors":    output.Errors,
		"createdCandidateIds": output.CandidateIDs,
		"processingLog":       strings.Join(output.Log, "\n"),
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
		h.logger.Info("Shutting down worker gracefully", map[string]interface{}{
			"worker": TaskType,
		})
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
	}

	return cfg
}

// Execute processes a batch without a Zeebe job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.service.Execute(ctx, input)
}
