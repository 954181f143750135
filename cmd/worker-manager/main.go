// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"resume-screening-workers/internal/common/camunda"
	"resume-screening-workers/internal/common/config"
	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/common/metrics"
	"resume-screening-workers/internal/common/observability"
	"resume-screening-workers/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")
	bootLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOptions(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("OpenTelemetry exporter unavailable, continuing with Prometheus only", zap.Error(err))
	}
	metrics.SetJobRecorder(obs)
	if cfg.Tracing.Enabled {
		if err := obs.EnableTracing(cfg.Tracing.JaegerEndpoint); err != nil {
			zapLog.Warn("Tracing disabled, Jaeger exporter failed", zap.Error(err))
		} else {
			zapLog.Info("Tracing pipeline stages", zap.String("endpoint", cfg.Tracing.JaegerEndpoint))
		}
	}

	ctx := context.Background()

	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("failed to create Zeebe client", zap.Error(err))
	}
	defer camundaClient.Close()
	zapLog.Info("Zeebe client connected", zap.String("address", cfg.Camunda.BrokerAddress))

	deps, err := buildDependencies(ctx, cfg, zapLog, log)
	if err != nil {
		zapLog.Fatal("failed to initialise dependencies", zap.Error(err))
	}
	defer deps.Close()
	deps.Pipeline.Stages = obs

	workers, err := buildWorkers(cfg, camundaClient, deps, log)
	if err != nil {
		zapLog.Fatal("failed to build workers", zap.Error(err))
	}

	checkRegistry(registry.DefaultPath, workers, zapLog)

	registered := 0
	for _, w := range workers {
		if err := w.Register(); err != nil {
			zapLog.Fatal("failed to register worker", zap.String("taskType", w.GetTaskType()), zap.Error(err))
		}
		if w.IsEnabled() {
			registered++
		}
	}
	zapLog.Info("Workers registered",
		zap.Int("registered", registered),
		zap.Int("total", len(workers)),
	)

	server := newHTTPServer(cfg, camundaClient, deps)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	for _, w := range workers {
		w.Close()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("HTTP server shutdown failed", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("OpenTelemetry shutdown failed", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}

// checkRegistry warns about enabled workers the activity registry does not
// describe. A missing registry file is not an error.
func checkRegistry(path string, workers []worker, log *zap.Logger) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Activity registry unreadable", zap.String("path", path), zap.Error(err))
		}
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("Activity registry invalid", zap.String("path", path), zap.Error(err))
	}

	var enabled []string
	for _, w := range workers {
		if w.IsEnabled() {
			enabled = append(enabled, w.GetTaskType())
		}
	}
	if missing := reg.Missing(enabled); len(missing) > 0 {
		log.Warn("Workers missing from activity registry", zap.Strings("taskTypes", missing))
	}
}

func newHTTPServer(cfg *config.Config, camundaClient *camunda.Client, deps *dependencies) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{"zeebe": "ok", "postgres": "ok", "redis": "ok"}
		ready := true
		if err := camundaClient.HealthCheck(ctx); err != nil {
			checks["zeebe"], ready = err.Error(), false
		}
		if err := deps.Postgres.Ping(ctx); err != nil {
			checks["postgres"], ready = err.Error(), false
		}
		if err := deps.Redis.Ping(ctx); err != nil {
			checks["redis"], ready = err.Error(), false
		}

		status := "ready"
		w.Header().Set("Content-Type", "application/json")
		if !ready {
			status = "not_ready"
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
