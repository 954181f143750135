// internal/common/metrics/metrics.go
package metrics

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// CVExtractions counts extraction attempts by detected file type and outcome
	// (ok, failed).
	CVExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cv_extractions_total",
			Help: "CV text extractions by file type and outcome",
		},
		[]string{"file_type", "outcome"},
	)

	ATSScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ats_score",
			Help:    "Distribution of ATS scores per tier",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"tier"},
	)

	AutoFilterDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auto_filter_decisions_total",
			Help: "Auto-filter decisions by action",
		},
		[]string{"action"},
	)
)

// JobRecorder mirrors job observations into a second metrics backend.
type JobRecorder interface {
	RecordJobProcessed(ctx context.Context, taskType, status string)
	RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string)
}

var recorder atomic.Value

// SetJobRecorder installs r; later ObserveJob calls are forwarded to it.
func SetJobRecorder(r JobRecorder) {
	recorder.Store(&r)
}

// ObserveJob records completion or failure of one job.
func ObserveJob(taskType, errorCode string, seconds float64) {
	status := "completed"
	if errorCode != "" {
		status = "failed"
		WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
	} else {
		WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		WorkerJobDuration.WithLabelValues(taskType).Observe(seconds)
	}

	if r, ok := recorder.Load().(*JobRecorder); ok && *r != nil {
		ctx := context.Background()
		(*r).RecordJobProcessed(ctx, taskType, status)
		(*r).RecordJobDuration(ctx, taskType, time.Duration(seconds*float64(time.Second)), status)
	}
}
