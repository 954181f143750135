package runatsanalysis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"resume-screening-workers/internal/common/config"
	"resume-screening-workers/internal/common/errors"
	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const analysedCV = `John Doe
john.doe@example.com
+1 555 987 6543

Professional Summary
Backend engineer focused on payments.

Work Experience
Lead Developer, Finly 2019 - 2025
Increased revenue by 20% and managed a team of 5 engineers.
Reduced latency by 35% across the checkout service.

Education
MSc Software Engineering 2017

Skills
Go, PostgreSQL, Kafka, communication, leadership, teamwork`

// ==========================
// Mock Implementations
// ==========================

type MockCandidateStore struct {
	mock.Mock
}

func (m *MockCandidateStore) Get(ctx context.Context, id int64) (*models.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Candidate), args.Error(1)
}

func (m *MockCandidateStore) Save(ctx context.Context, c *models.Candidate) error {
	return m.Called(ctx, c).Error(0)
}

type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) Index(ctx context.Context, c *models.Candidate) error {
	return m.Called(ctx, c).Error(0)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "resume-screening",
		ElementId:          "Activity_RunATSAnalysis",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func newTestService(t *testing.T, candidates CandidateStore, index AnalysisIndexer, cfg *Config) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	svc := NewService(ServiceDependencies{
		Logger:     logger.NewTestLogger(t),
		Candidates: candidates,
		Index:      index,
	}, cfg)
	svc.now = func() time.Time { return time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC) }
	return svc
}

// ==========================
// Service Tests
// ==========================

func TestService_Execute_StoresAndIndexes(t *testing.T) {
	candidates := new(MockCandidateStore)
	index := new(MockIndexer)

	c := &models.Candidate{ID: 21, Name: "John Doe", CVText: analysedCV, Status: models.StatusPending}
	candidates.On("Get", mock.Anything, int64(21)).Return(c, nil)
	candidates.On("Save", mock.Anything, c).Return(nil)
	index.On("Index", mock.Anything, c).Return(nil)

	out, err := newTestService(t, candidates, index, nil).Execute(context.Background(), &Input{CandidateID: 21})
	require.NoError(t, err)

	assert.Equal(t, int64(21), out.CandidateID)
	assert.True(t, out.Indexed)
	assert.InDelta(t, (out.Tier1Score+out.Tier2Score)/2, out.OverallScore, 0.0001)
	assert.GreaterOrEqual(t, out.Achievements, 2)
	assert.Empty(t, out.MissingSections)

	// The candidate carries the stored copy of the result.
	assert.Equal(t, out.OverallScore, c.ATS.OverallScore)
	require.NotNil(t, c.ATS.AnalyzedAt)
	assert.Equal(t, time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC), *c.ATS.AnalyzedAt)

	candidates.AssertExpectations(t)
	index.AssertExpectations(t)
}

func TestService_Execute_NoCVText(t *testing.T) {
	candidates := new(MockCandidateStore)
	candidates.On("Get", mock.Anything, int64(3)).Return(&models.Candidate{ID: 3, CVText: "   "}, nil)

	_, err := newTestService(t, candidates, nil, nil).Execute(context.Background(), &Input{CandidateID: 3})
	require.Error(t, err)

	stdErr := errors.AsStandardError(err)
	assert.Equal(t, errors.ErrCodeAnalysisPrecondition, stdErr.Code)
	assert.Equal(t, "NO_CV_TEXT", errors.ConvertToBPMNError(stdErr).Code)
	candidates.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_Execute_IndexFailureIsNotFatal(t *testing.T) {
	candidates := new(MockCandidateStore)
	index := new(MockIndexer)

	c := &models.Candidate{ID: 4, CVText: analysedCV}
	candidates.On("Get", mock.Anything, int64(4)).Return(c, nil)
	candidates.On("Save", mock.Anything, c).Return(nil)
	index.On("Index", mock.Anything, c).Return(errors.NewSearchIndexError("candidate-ats-analyses", stderrors.New("503")))

	out, err := newTestService(t, candidates, index, nil).Execute(context.Background(), &Input{CandidateID: 4})
	require.NoError(t, err)
	assert.False(t, out.Indexed)
}

func TestService_Execute_IndexingDisabled(t *testing.T) {
	candidates := new(MockCandidateStore)
	index := new(MockIndexer)

	c := &models.Candidate{ID: 5, CVText: analysedCV}
	candidates.On("Get", mock.Anything, int64(5)).Return(c, nil)
	candidates.On("Save", mock.Anything, c).Return(nil)

	cfg := DefaultConfig()
	cfg.IndexResults = false
	out, err := newTestService(t, candidates, index, cfg).Execute(context.Background(), &Input{CandidateID: 5})
	require.NoError(t, err)
	assert.False(t, out.Indexed)
	index.AssertNotCalled(t, "Index", mock.Anything, mock.Anything)
}

func TestService_Execute_OverwritesPreviousAnalysis(t *testing.T) {
	candidates := new(MockCandidateStore)
	c := &models.Candidate{
		ID:     6,
		CVText: analysedCV,
		ATS:    models.ATSFields{OverallScore: 1, Recommendations: "stale", MissingSections: "Education"},
	}
	candidates.On("Get", mock.Anything, int64(6)).Return(c, nil)
	candidates.On("Save", mock.Anything, c).Return(nil)

	_, err := newTestService(t, candidates, nil, nil).Execute(context.Background(), &Input{CandidateID: 6})
	require.NoError(t, err)

	assert.NotEqual(t, "stale", c.ATS.Recommendations)
	assert.NotEqual(t, float64(1), c.ATS.OverallScore)
	assert.Empty(t, c.ATS.MissingSections)
}

func TestService_Execute_SaveFailure(t *testing.T) {
	candidates := new(MockCandidateStore)
	c := &models.Candidate{ID: 9, CVText: analysedCV}
	candidates.On("Get", mock.Anything, int64(9)).Return(c, nil)
	candidates.On("Save", mock.Anything, c).Return(errors.NewQueryExecutionFailedError("save candidate", stderrors.New("conn refused")))

	_, err := newTestService(t, candidates, nil, nil).Execute(context.Background(), &Input{CandidateID: 9})
	assert.Equal(t, string(errors.ErrCodeQueryExecutionFailed), errors.Code(err))
}

// ==========================
// Handler Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h, err := NewHandler(HandlerOptions{CustomConfig: DefaultConfig(), Candidates: new(MockCandidateStore), Logger: logger.NewNoOpLogger()})
	require.NoError(t, err)

	input, err := h.parseInput(createMockJob(1, map[string]interface{}{"candidateId": 44, "jobPositionId": 2}))
	require.NoError(t, err)
	assert.Equal(t, int64(44), input.CandidateID)

	_, err = h.parseInput(createMockJob(2, map[string]interface{}{"candidateId": "44"}))
	assert.Equal(t, string(errors.ErrCodeValidationFailed), errors.Code(err))

	_, err = h.parseInput(createMockJob(3, map[string]interface{}{"candidateId": 0}))
	assert.Equal(t, string(errors.ErrCodeValidationFailed), errors.Code(err))
}

func TestHandler_NewHandler_RequiresStore(t *testing.T) {
	_, err := NewHandler(HandlerOptions{CustomConfig: DefaultConfig()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "candidate store is required")
}

func TestCompletionVariables(t *testing.T) {
	vars := completionVariables(&Output{
		OverallScore:    72.5,
		Recommendations: []string{"Add more quantifiable achievements"},
		AnalyzedAt:      time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC),
		Indexed:         true,
	})

	assert.Equal(t, 72.5, vars["atsOverallScore"])
	assert.Equal(t, "2026-04-10T08:00:00Z", vars["atsAnalyzedAt"])
	assert.Equal(t, true, vars["atsIndexed"])
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	cfg := createConfigFromAppConfig(&config.Config{
		Workers: map[string]config.WorkerConfig{configKey: {Enabled: true, Timeout: 5000}},
	}, nil)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 10, cfg.MaxJobsActive)
	assert.True(t, cfg.IndexResults)
}

func TestExtractErrorCode(t *testing.T) {
	assert.Equal(t, "JOB_POSITION_NOT_FOUND", extractErrorCode(errors.NewJobPositionNotFoundError(1)))
	assert.Equal(t, "INTERNAL_ERROR", extractErrorCode(stderrors.New("boom")))
}
