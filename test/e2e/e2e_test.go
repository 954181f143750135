package e2e

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"resume-screening-workers/internal/common/camunda"
	"resume-screening-workers/internal/common/config"
	"resume-screening-workers/internal/common/database"
	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/common/messaging"
	"resume-screening-workers/internal/models"
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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// The suite talks to the docker-compose stack on localhost and only runs
// when RUN_E2E=1.

var (
	camundaClient *camunda.Client
	zapLog        *zap.Logger
)

const seniorCV = `Jane Smith
jane.smith@example.com | +1 (555) 123-4567

Experience
Senior Engineer at Acme 2018 - 2024
Increased throughput by 40% and managed a team of 6
7 years of experience

Education
BSc Computer Science 2012

Skills
Go, SQL, leadership, communication
Expected salary: 90K`

const juniorCV = `John Doe
john.doe@example.com

Experience
Intern at Initech 2023 - 2024
1 years of experience

Education
BSc Mathematics 2023

Skills
Excel`

func TestMain(m *testing.M) {
	if os.Getenv("RUN_E2E") != "1" {
		fmt.Println("Skipping e2e suite, set RUN_E2E=1 to run against local services")
		os.Exit(0)
	}

	var err error
	camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
		GatewayAddress:         "localhost:26500",
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
		RequestTimeout:         10 * time.Second,
	})
	if err != nil {
		panic(fmt.Sprintf("❌ Failed to connect to Zeebe: %v", err))
	}

	zapLog, _ = zap.NewProduction()

	code := m.Run()

	camundaClient.Close()
	os.Exit(code)
}

// env holds the real clients every stage test shares.
type env struct {
	cfg        *config.Config
	log        logger.Logger
	pg         *database.PostgresClient
	rdb        *database.RedisClient
	index      *search.AnalysisIndex
	es         *database.ElasticsearchClient
	candidates *repository.CandidateRepository
	jobs       *repository.JobRepository
	pipeline   *resume.Pipeline
	documents  *storage.Source
}

func TestFullE2E(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	t.Log("🚀 Starting screening E2E test with real services...")

	// 1. Check all external services are available
	e := assertAllServicesConnectivity(t, ctx, cfg)
	defer e.pg.Close()
	defer e.rdb.Close()

	// 2. Apply the schema
	createDatabaseTables(t, ctx, e)

	// 3. Every worker must register against the broker
	registerAllWorkers(t, e)

	// 4. Drive one job position through the screening stages
	testScreeningFlow(t, ctx, e)

	t.Log("✅ ALL TESTS PASSED, screening flow successful!")
}

// ==========================
// 1. Connectivity
// ==========================
func assertAllServicesConnectivity(t *testing.T, ctx context.Context, cfg *config.Config) *env {
	t.Log("🔍 Checking service connectivity...")

	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"
	cfg.Database.Elasticsearch.Addresses = []string{"http://localhost:9200"}
	cfg.Database.Elasticsearch.AnalysisIndex = fmt.Sprintf("candidate-analyses-e2e-%d", time.Now().Unix())

	log := logger.NewZapAdapter(zapLog)
	e := &env{cfg: cfg, log: log}

	// --- PostgreSQL ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "❌ PostgreSQL connection failed")
	require.NoError(t, pg.Ping(ctx), "❌ PostgreSQL ping failed")
	e.pg = pg
	t.Log("✅ PostgreSQL connected")

	// --- Redis ---
	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err, "❌ Redis client creation failed")
	require.NoError(t, rdb.Ping(ctx), "❌ Redis ping failed")
	e.rdb = rdb
	t.Log("✅ Redis connected")

	// --- Elasticsearch ---
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err, "❌ Elasticsearch client creation failed")
	require.NoError(t, es.Ping(), "❌ Elasticsearch ping failed")
	e.es = es
	e.index = search.NewAnalysisIndex(es, cfg.Database.Elasticsearch.AnalysisIndex, log)
	require.NoError(t, e.index.EnsureIndex(ctx))
	t.Logf("✅ Elasticsearch connected, index %s", e.index.Name())

	// --- Zeebe ---
	assert.NoError(t, camundaClient.HealthCheck(ctx), "❌ Zeebe topology request failed")
	t.Log("✅ Zeebe connected")

	e.jobs = repository.NewJobRepository(pg.DB, repository.NewJobCache(rdb.Client, cfg.Database.Redis.TTL()), log)
	e.candidates = repository.NewCandidateRepository(pg.DB, log)
	e.pipeline = resume.NewPipeline(document.NewExtractor(document.WithLogger(log)), ats.NewAnalyzer(ats.WithLogger(log)), log)
	e.documents = storage.NewSource(nil, nil, storage.DefaultMaxBytes)
	return e
}

// ==========================
// 2. Database Tables Setup
// ==========================
func createDatabaseTables(t *testing.T, ctx context.Context, e *env) {
	t.Log("🔧 Applying migrations...")

	_, file, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(file), "..", "..", "migrations", "0001_resume_screening.sql")
	schema, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = e.pg.DB.ExecContext(ctx, string(schema))
	require.NoError(t, err, "❌ Migration failed")
	t.Log("✅ Tables ready")
}

// ==========================
// 3. Worker Registration
// ==========================
type registrable interface {
	Register() error
	Close()
	GetTaskType() string
}

func registerAllWorkers(t *testing.T, e *env) {
	t.Log("🧪 Registering all 8 workers...")

	var workers []registrable
	add := func(w registrable, err error) {
		require.NoError(t, err)
		workers = append(workers, w)
	}

	add(extractcvdata.NewHandler(extractcvdata.HandlerOptions{
		AppConfig: e.cfg, Camunda: camundaClient, Logger: e.log,
		Candidates: e.candidates, Documents: e.documents, Pipeline: e.pipeline,
	}))
	add(bulkuploadcvs.NewHandler(bulkuploadcvs.HandlerOptions{
		AppConfig: e.cfg, Camunda: camundaClient, Logger: e.log,
		Candidates: e.candidates, Jobs: e.jobs, Documents: e.documents, Index: e.index, Pipeline: e.pipeline,
	}))
	add(runatsanalysis.NewHandler(runatsanalysis.HandlerOptions{
		AppConfig: e.cfg, Camunda: camundaClient, Logger: e.log,
		Candidates: e.candidates, Index: e.index, Analyzer: e.pipeline.Analyzer,
	}))
	add(evaluatecandidate.NewHandler(evaluatecandidate.HandlerOptions{
		AppConfig: e.cfg, Camunda: camundaClient, Logger: e.log,
		Jobs: e.jobs, Candidates: e.candidates, Matcher: e.pipeline.Matcher,
	}))
	add(autofiltercandidates.NewHandler(autofiltercandidates.HandlerOptions{
		AppConfig: e.cfg, Camunda: camundaClient, Logger: e.log,
		Jobs: e.jobs, Candidates: e.candidates, Lock: repository.NewFilterLock(e.rdb.Client, time.Minute),
		Publisher: messaging.NopPublisher{}, Engine: e.pipeline.Engine,
	}))
	add(updatejobposition.NewHandler(updatejobposition.HandlerOptions{
		AppConfig: e.cfg, Camunda: camundaClient, Logger: e.log, Jobs: e.jobs,
	}))
	add(exportatsreport.NewHandler(exportatsreport.HandlerOptions{
		AppConfig: e.cfg, Camunda: camundaClient, Logger: e.log,
		Jobs: e.jobs, Candidates: e.candidates, Exporter: reporting.NewWorkbookExporter(),
	}))
	add(notifycandidatedecision.NewHandler(notifycandidatedecision.HandlerOptions{
		AppConfig: e.cfg, Camunda: camundaClient, Logger: e.log, Candidates: e.candidates, Jobs: e.jobs,
	}))

	for _, w := range workers {
		t.Run(w.GetTaskType(), func(t *testing.T) {
			require.NoError(t, w.Register())
			w.Close()
		})
	}
}

// ==========================
// 4. Screening Flow
// ==========================
func testScreeningFlow(t *testing.T, ctx context.Context, e *env) {
	t.Log("🧪 Running the screening flow with real execution...")

	jobID := createOpenJob(t, ctx, e)

	var senior, junior int64
	t.Run("bulk-upload-cvs", func(t *testing.T) {
		senior, junior = testBulkUpload(t, ctx, e, jobID)
	})
	require.NotZero(t, senior)
	require.NotZero(t, junior)

	t.Run("extract-cv-data", func(t *testing.T) { testExtractCVData(t, ctx, e, senior) })
	t.Run("run-ats-analysis", func(t *testing.T) { testRunATSAnalysis(t, ctx, e, senior) })
	t.Run("evaluate-candidate", func(t *testing.T) { testEvaluateCandidate(t, ctx, e, jobID, senior, junior) })
	t.Run("auto-filter-candidates", func(t *testing.T) { testAutoFilter(t, ctx, e, jobID, senior, junior) })
	t.Run("search", func(t *testing.T) { testSearch(t, ctx, e, jobID, senior) })
	t.Run("export-ats-report", func(t *testing.T) { testExportReport(t, ctx, e, jobID) })
	t.Run("notify-candidate-decision", func(t *testing.T) { testNotify(t, ctx, e, junior) })
	t.Run("close-job-position", func(t *testing.T) { testCloseJob(t, ctx, e, jobID) })
}

func createOpenJob(t *testing.T, ctx context.Context, e *env) int64 {
	h, err := updatejobposition.NewHandler(updatejobposition.HandlerOptions{AppConfig: e.cfg, Logger: e.log, Jobs: e.jobs})
	require.NoError(t, err)

	name := fmt.Sprintf("Backend Engineer E2E %d", time.Now().UnixNano())
	minExp, maxExp, maxSalary := 5.0, 10.0, 100000.0
	positions, yes := 2, true

	out, err := h.Execute(ctx, &updatejobposition.Input{
		Action: updatejobposition.ActionOpen,
		Fields: updatejobposition.JobFields{
			Name:                  &name,
			PositionsToFill:       &positions,
			MinExperienceYears:    &minExp,
			MaxExperienceYears:    &maxExp,
			MaxSalary:             &maxSalary,
			AutoApproveMatching:   &yes,
			AutoRejectNonMatching: &yes,
		},
	})
	require.NoError(t, err)
	require.True(t, out.Created)
	assert.Equal(t, models.JobStateOpen, out.Job.State)
	t.Logf("✅ Job position %d opened", out.Job.ID)
	return out.Job.ID
}

func testBulkUpload(t *testing.T, ctx context.Context, e *env, jobID int64) (int64, int64) {
	h, err := bulkuploadcvs.NewHandler(bulkuploadcvs.HandlerOptions{
		AppConfig: e.cfg, Logger: e.log,
		Candidates: e.candidates, Jobs: e.jobs, Documents: e.documents, Index: e.index, Pipeline: e.pipeline,
	})
	require.NoError(t, err)

	out, err := h.Execute(ctx, &bulkuploadcvs.Input{
		JobPositionID: jobID,
		Files: []storage.Ref{
			{ContentBase64: base64.StdEncoding.EncodeToString([]byte(seniorCV)), Filename: "jane_smith.txt"},
			{ContentBase64: base64.StdEncoding.EncodeToString([]byte(juniorCV)), Filename: "john_doe.txt"},
			{Filename: "missing.pdf"},
		},
		AutoExtract: true,
		AutoAnalyze: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, out.TotalFiles)
	assert.Equal(t, 2, out.Created)
	assert.Equal(t, 2, out.Extracted)
	assert.Equal(t, 2, out.Analyzed)
	assert.Equal(t, 1, out.Approved)
	assert.Equal(t, 1, out.Rejected)
	assert.Equal(t, 1, out.Errors)
	require.Len(t, out.CandidateIDs, 2)
	t.Logf("✅ Batch %s: %s", out.BatchID, strings.Join(out.Log, "; "))
	return out.CandidateIDs[0], out.CandidateIDs[1]
}

func testExtractCVData(t *testing.T, ctx context.Context, e *env, candidateID int64) {
	h, err := extractcvdata.NewHandler(extractcvdata.HandlerOptions{
		AppConfig: e.cfg, Logger: e.log, Candidates: e.candidates, Documents: e.documents, Pipeline: e.pipeline,
	})
	require.NoError(t, err)

	out, err := h.Execute(ctx, &extractcvdata.Input{
		CandidateID:   candidateID,
		ContentBase64: base64.StdEncoding.EncodeToString([]byte(seniorCV)),
		Filename:      "jane_smith.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, "txt", out.FileType)

	stored, err := e.candidates.Get(ctx, candidateID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", stored.Name)
	assert.Equal(t, "jane.smith@example.com", stored.Email)
	assert.Contains(t, stored.CVText, "Senior Engineer at Acme")
}

func testRunATSAnalysis(t *testing.T, ctx context.Context, e *env, candidateID int64) {
	h, err := runatsanalysis.NewHandler(runatsanalysis.HandlerOptions{
		AppConfig: e.cfg, Logger: e.log, Candidates: e.candidates, Index: e.index, Analyzer: e.pipeline.Analyzer,
	})
	require.NoError(t, err)

	out, err := h.Execute(ctx, &runatsanalysis.Input{CandidateID: candidateID})
	require.NoError(t, err)
	assert.True(t, out.Indexed)
	assert.GreaterOrEqual(t, out.OverallScore, 0.0)
	assert.LessOrEqual(t, out.OverallScore, 100.0)

	stored, err := e.candidates.Get(ctx, candidateID)
	require.NoError(t, err)
	assert.Equal(t, out.OverallScore, stored.ATS.OverallScore)
	assert.NotNil(t, stored.ATS.AnalyzedAt)
}

func testEvaluateCandidate(t *testing.T, ctx context.Context, e *env, jobID, senior, junior int64) {
	h, err := evaluatecandidate.NewHandler(evaluatecandidate.HandlerOptions{
		AppConfig: e.cfg, Logger: e.log, Jobs: e.jobs, Candidates: e.candidates, Matcher: e.pipeline.Matcher,
	})
	require.NoError(t, err)

	tests := []struct {
		name        string
		candidateID int64
		matches     bool
	}{
		{"experienced candidate", senior, true},
		{"junior candidate", junior, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(ctx, &evaluatecandidate.Input{JobPositionID: jobID, CandidateID: tt.candidateID})
			require.NoError(t, err)
			assert.Equal(t, tt.matches, out.Match.Matches, out.Summary)
		})
	}
}

func testAutoFilter(t *testing.T, ctx context.Context, e *env, jobID, senior, junior int64) {
	h, err := autofiltercandidates.NewHandler(autofiltercandidates.HandlerOptions{
		AppConfig: e.cfg, Logger: e.log, Jobs: e.jobs, Candidates: e.candidates,
		Lock:      repository.NewFilterLock(e.rdb.Client, time.Minute),
		Publisher: messaging.NopPublisher{}, Engine: e.pipeline.Engine,
	})
	require.NoError(t, err)

	// The upload already decided both candidates, so a batch run finds nothing pending.
	out, err := h.Execute(ctx, &autofiltercandidates.Input{JobPositionID: jobID})
	require.NoError(t, err)
	assert.Equal(t, autofiltercandidates.ModeBatch, out.Mode)
	assert.Zero(t, out.Processed)

	seniorAfter, err := e.candidates.Get(ctx, senior)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInterviewed, seniorAfter.Status)

	juniorAfter, err := e.candidates.Get(ctx, junior)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, juniorAfter.Status)
	t.Logf("✅ %s", out.Message)
}

func testSearch(t *testing.T, ctx context.Context, e *env, jobID, senior int64) {
	res, err := e.es.Client.Indices.Refresh(e.es.Client.Indices.Refresh.WithIndex(e.index.Name()))
	require.NoError(t, err)
	res.Body.Close()

	result, err := e.index.Search(ctx, search.Query{JobPositionID: jobID})
	require.NoError(t, err)
	require.NotEmpty(t, result.Documents)

	ids := make([]int64, 0, len(result.Documents))
	for _, d := range result.Documents {
		ids = append(ids, d.CandidateID)
	}
	assert.Contains(t, ids, senior)
}

func testExportReport(t *testing.T, ctx context.Context, e *env, jobID int64) {
	dir := t.TempDir()
	h, err := exportatsreport.NewHandler(exportatsreport.HandlerOptions{
		AppConfig:    e.cfg,
		Logger:       e.log,
		CustomConfig: &exportatsreport.Config{Enabled: true, MaxJobsActive: 1, Timeout: time.Minute, ReportDir: dir},
		Jobs:         e.jobs,
		Candidates:   e.candidates,
		Exporter:     reporting.NewWorkbookExporter(),
	})
	require.NoError(t, err)

	out, err := h.Execute(ctx, &exportatsreport.Input{JobPositionID: jobID})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Candidates)
	assert.Positive(t, out.Bytes)

	f, err := excelize.OpenFile(out.Location)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(reporting.ScoresSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func testNotify(t *testing.T, ctx context.Context, e *env, junior int64) {
	h, err := notifycandidatedecision.NewHandler(notifycandidatedecision.HandlerOptions{
		AppConfig: e.cfg, Logger: e.log, Candidates: e.candidates, Jobs: e.jobs,
	})
	require.NoError(t, err)

	// No SES client is wired, so the rejection is reported but not sent.
	out, err := h.Execute(ctx, &notifycandidatedecision.Input{CandidateID: junior, Channel: notifycandidatedecision.ChannelEmail})
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusRejected), out.Decision)
	assert.Equal(t, notifycandidatedecision.StatusDisabled, out.Notification.Status)
}

func testCloseJob(t *testing.T, ctx context.Context, e *env, jobID int64) {
	h, err := updatejobposition.NewHandler(updatejobposition.HandlerOptions{AppConfig: e.cfg, Logger: e.log, Jobs: e.jobs})
	require.NoError(t, err)

	out, err := h.Execute(ctx, &updatejobposition.Input{JobPositionID: jobID, Action: updatejobposition.ActionClose})
	require.NoError(t, err)
	assert.Equal(t, models.JobStateClosed, out.Job.State)
	assert.Equal(t, 1, out.Job.Stats.Rejected)
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkPipeline_ExtractAndAnalyze(b *testing.B) {
	p := resume.NewPipeline(nil, nil, nil)
	data := []byte(seniorCV)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := &models.Candidate{}
		if _, err := p.ExtractAndPopulate(context.Background(), c, data, "jane.txt"); err != nil {
			b.Fatal(err)
		}
		if _, err := p.RunAnalysis(c, time.Now()); err != nil {
			b.Fatal(err)
		}
	}
}
