// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"resume-screening-workers/internal/common/config"
	"resume-screening-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every screening worker.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
	GetTaskType() string
}

// Registration tracks an open job worker so it can be closed on shutdown.
type Registration struct {
	TaskType string
	worker   worker.JobWorker
}

func (r *Registration) Close() {
	if r.worker != nil {
		r.worker.Close()
		r.worker.AwaitClose()
	}
}

// StartWorker opens a job worker for handler's task type using the worker's
// configured concurrency and lock timeout.
func StartWorker(client zbc.Client, handler JobHandler, cfg config.WorkerConfig, log logger.Logger) *Registration {
	taskType := handler.GetTaskType()
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(cfg.MaxJobsActive).
		Timeout(timeout).
		Name(fmt.Sprintf("%s-worker", taskType)).
		Open()

	log.Info("Worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": cfg.MaxJobsActive,
		"timeout":       timeout.String(),
	})

	return &Registration{TaskType: taskType, worker: jobWorker}
}

// CompleteJob completes job with variables, logging failures.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, variables map[string]interface{}, log logger.Logger) error {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromMap(variables)
	if err != nil {
		log.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return err
	}

	if _, err := request.Send(ctx); err != nil {
		log.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return err
	}
	return nil
}
