// cmd/worker-manager/wiring.go
package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	awsclients "resume-screening-workers/internal/common/aws"
	"resume-screening-workers/internal/common/camunda"
	"resume-screening-workers/internal/common/config"
	"resume-screening-workers/internal/common/database"
	commonhttp "resume-screening-workers/internal/common/http"
	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/common/messaging"
	"resume-screening-workers/internal/reporting"
	"resume-screening-workers/internal/repository"
	"resume-screening-workers/internal/resume"
	"resume-screening-workers/internal/resume/ats"
	"resume-screening-workers/internal/resume/document"
	"resume-screening-workers/internal/search"
	"resume-screening-workers/internal/storage"

	updatejobposition "resume-screening-workers/internal/workers/jobs/update-job-position"
	autofiltercandidates "resume-screening-workers/internal/workers/matching/auto-filter-candidates"
	evaluatecandidate "resume-screening-workers/internal/workers/matching/evaluate-candidate"
	notifycandidatedecision "resume-screening-workers/internal/workers/notification/notify-candidate-decision"
	exportatsreport "resume-screening-workers/internal/workers/reporting/export-ats-report"
	bulkuploadcvs "resume-screening-workers/internal/workers/resume/bulk-upload-cvs"
	extractcvdata "resume-screening-workers/internal/workers/resume/extract-cv-data"
	runatsanalysis "resume-screening-workers/internal/workers/resume/run-ats-analysis"
)

// dependencies holds every shared client the workers are built from.
type dependencies struct {
	Postgres   *database.PostgresClient
	Redis      *database.RedisClient
	Candidates *repository.CandidateRepository
	Jobs       *repository.JobRepository
	Lock       *repository.FilterLock
	Index      *search.AnalysisIndex
	Documents  *storage.Source
	Pipeline   *resume.Pipeline
	Publisher  messaging.Publisher

	objects *awsclients.S3Client
	email   *awsclients.SESClient
	sms     *awsclients.SNSClient
}

func (d *dependencies) Close() {
	if d.Publisher != nil {
		d.Publisher.Close()
	}
	if d.Redis != nil {
		d.Redis.Close()
	}
	if d.Postgres != nil {
		d.Postgres.Close()
	}
}

func buildDependencies(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, log logger.Logger) (*dependencies, error) {
	d := &dependencies{}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if err := retryWithBackoff(func() error { return pg.Ping(ctx) }, 15, 2*time.Second, zapLog, "PostgreSQL connection"); err != nil {
		return nil, err
	}
	d.Postgres = pg
	zapLog.Info("PostgreSQL connected", zap.String("host", cfg.Database.Postgres.Host))

	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	if err := retryWithBackoff(func() error { return rdb.Ping(ctx) }, 10, 2*time.Second, zapLog, "Redis connection"); err != nil {
		return nil, err
	}
	d.Redis = rdb
	zapLog.Info("Redis connected", zap.String("address", cfg.Database.Redis.Address))

	d.Jobs = repository.NewJobRepository(pg.DB, repository.NewJobCache(rdb.Client, cfg.Database.Redis.TTL()), log)
	d.Candidates = repository.NewCandidateRepository(pg.DB, log)
	d.Lock = repository.NewFilterLock(rdb.Client, cfg.Screening.LockTTL())

	if len(cfg.Database.Elasticsearch.Addresses) > 0 && cfg.Database.Elasticsearch.Addresses[0] != "" {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return nil, fmt.Errorf("elasticsearch: %w", err)
		}
		if err := retryWithBackoff(es.Ping, 15, 2*time.Second, zapLog, "Elasticsearch connection"); err != nil {
			return nil, err
		}
		d.Index = search.NewAnalysisIndex(es, cfg.Database.Elasticsearch.AnalysisIndex, log)
		if err := d.Index.EnsureIndex(ctx); err != nil {
			return nil, err
		}
		zapLog.Info("Elasticsearch connected", zap.String("index", d.Index.Name()))
	} else {
		zapLog.Warn("Elasticsearch not configured, ATS analyses will not be indexed")
	}

	if cfg.Storage.S3.Bucket != "" {
		d.objects, err = awsclients.NewS3Client(ctx, awsclients.S3Options{
			Region:          cfg.Storage.S3.Region,
			Bucket:          cfg.Storage.S3.Bucket,
			Endpoint:        cfg.Storage.S3.Endpoint,
			AccessKeyID:     cfg.Storage.S3.AccessKeyID,
			SecretAccessKey: cfg.Storage.S3.SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("s3: %w", err)
		}
	}
	if cfg.Notifications.Email.Enabled {
		if d.email, err = awsclients.NewSESClient(ctx, cfg.Notifications.AWS.Region); err != nil {
			return nil, fmt.Errorf("ses: %w", err)
		}
	}
	if cfg.Notifications.SMS.Enabled {
		if d.sms, err = awsclients.NewSNSClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.SMS.SenderID); err != nil {
			return nil, fmt.Errorf("sns: %w", err)
		}
	}

	var objects storage.ObjectStore
	if d.objects != nil {
		objects = d.objects
	}
	httpClient := commonhttp.NewClient(config.GetDuration(cfg.Storage.DownloadTimeout))
	d.Documents = storage.NewSource(objects, storage.NewHTTPDownloader(httpClient), int64(cfg.Storage.MaxFileBytes))

	d.Publisher = messaging.NopPublisher{}
	if cfg.Messaging.AMQP.Enabled {
		var pub *messaging.AMQPPublisher
		err := retryWithBackoff(func() error {
			var err error
			pub, err = messaging.NewAMQPPublisher(cfg.Messaging.AMQP.URL, cfg.Messaging.AMQP.Exchange)
			return err
		}, 10, 2*time.Second, zapLog, "AMQP connection")
		if err != nil {
			return nil, err
		}
		d.Publisher = pub
	}

	analyzer, err := newAnalyzer(cfg.Screening, log)
	if err != nil {
		return nil, err
	}
	extractor := document.NewExtractor(
		document.WithMinChars(cfg.Screening.MinExtractedChars),
		document.WithLogger(log),
	)
	d.Pipeline = resume.NewPipeline(extractor, analyzer, log)

	return d, nil
}

func newAnalyzer(cfg config.ScreeningConfig, log logger.Logger) (*ats.Analyzer, error) {
	if cfg.DictionaryPath == "" {
		return ats.NewAnalyzer(ats.WithLogger(log)), nil
	}
	dict, err := ats.LoadDictionary(cfg.DictionaryPath)
	if err != nil {
		return nil, fmt.Errorf("spelling dictionary: %w", err)
	}
	return ats.NewAnalyzer(ats.WithSpellChain(ats.DefaultSpellChain(dict)), ats.WithLogger(log)), nil
}

// worker is the lifecycle every screening handler exposes.
type worker interface {
	Register() error
	Close()
	GetTaskType() string
	IsEnabled() bool
}

func buildWorkers(cfg *config.Config, client *camunda.Client, d *dependencies, log logger.Logger) ([]worker, error) {
	// Typed nils must not leak into the handlers' optional interfaces.
	var (
		index    runatsanalysis.AnalysisIndexer
		bulkIdx  bulkuploadcvs.AnalysisIndexer
		uploader exportatsreport.ReportUploader
		email    notifycandidatedecision.EmailSender
		sms      notifycandidatedecision.SMSSender
	)
	if d.Index != nil {
		index, bulkIdx = d.Index, d.Index
	}
	if d.objects != nil {
		uploader = d.objects
	}
	if d.email != nil {
		email = d.email
	}
	if d.sms != nil {
		sms = d.sms
	}

	var workers []worker
	add := func(w worker, err error) error {
		if err != nil {
			return err
		}
		workers = append(workers, w)
		return nil
	}

	steps := []func() error{
		func() error {
			return add(extractcvdata.NewHandler(extractcvdata.HandlerOptions{
				AppConfig:  cfg,
				Camunda:    client,
				Logger:     log,
				Candidates: d.Candidates,
				Documents:  d.Documents,
				Pipeline:   d.Pipeline,
			}))
		},
		func() error {
			return add(bulkuploadcvs.NewHandler(bulkuploadcvs.HandlerOptions{
				AppConfig:  cfg,
				Camunda:    client,
				Logger:     log,
				Candidates: d.Candidates,
				Jobs:       d.Jobs,
				Documents:  d.Documents,
				Index:      bulkIdx,
				Pipeline:   d.Pipeline,
			}))
		},
		func() error {
			return add(runatsanalysis.NewHandler(runatsanalysis.HandlerOptions{
				AppConfig:  cfg,
				Camunda:    client,
				Logger:     log,
				Candidates: d.Candidates,
				Index:      index,
				Analyzer:   d.Pipeline.Analyzer,
			}))
		},
		func() error {
			return add(evaluatecandidate.NewHandler(evaluatecandidate.HandlerOptions{
				AppConfig:  cfg,
				Camunda:    client,
				Logger:     log,
				Jobs:       d.Jobs,
				Candidates: d.Candidates,
				Matcher:    d.Pipeline.Matcher,
			}))
		},
		func() error {
			return add(autofiltercandidates.NewHandler(autofiltercandidates.HandlerOptions{
				AppConfig:  cfg,
				Camunda:    client,
				Logger:     log,
				Jobs:       d.Jobs,
				Candidates: d.Candidates,
				Lock:       d.Lock,
				Publisher:  d.Publisher,
				Engine:     d.Pipeline.Engine,
			}))
		},
		func() error {
			return add(updatejobposition.NewHandler(updatejobposition.HandlerOptions{
				AppConfig: cfg,
				Camunda:   client,
				Logger:    log,
				Jobs:      d.Jobs,
			}))
		},
		func() error {
			return add(exportatsreport.NewHandler(exportatsreport.HandlerOptions{
				AppConfig:  cfg,
				Camunda:    client,
				Logger:     log,
				Jobs:       d.Jobs,
				Candidates: d.Candidates,
				Uploader:   uploader,
				Exporter:   reporting.NewWorkbookExporter(),
			}))
		},
		func() error {
			return add(notifycandidatedecision.NewHandler(notifycandidatedecision.HandlerOptions{
				AppConfig:  cfg,
				Camunda:    client,
				Logger:     log,
				Candidates: d.Candidates,
				Jobs:       d.Jobs,
				Email:      email,
				SMS:        sms,
			}))
		},
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return workers, nil
}
