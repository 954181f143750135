package autofiltercandidates

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"resume-screening-workers/internal/common/config"
	"resume-screening-workers/internal/common/errors"
	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/resume/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockJobStore struct {
	mock.Mock
}

func (m *MockJobStore) Get(ctx context.Context, id int64) (*models.JobPosition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobPosition), args.Error(1)
}

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

func (m *MockCandidateStore) ListByJob(ctx context.Context, jobID int64, statuses ...models.CandidateStatus) ([]*models.Candidate, error) {
	args := m.Called(ctx, jobID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Candidate), args.Error(1)
}

func (m *MockCandidateStore) UpdateStatusAndNotes(ctx context.Context, id int64, status models.CandidateStatus, notes string) error {
	args := m.Called(ctx, id, status, notes)
	return args.Error(0)
}

type MockLocker struct {
	mock.Mock
	released int
}

func (m *MockLocker) Acquire(ctx context.Context, jobID int64) (func(context.Context) error, error) {
	args := m.Called(ctx, jobID)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func(context.Context) error {
		m.released++
		return nil
	}, nil
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return nil
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "resume-screening",
		ElementId:          "Activity_AutoFilter",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func linkedTo(id int64) *int64 {
	return &id
}

func filterJob(toFill int) *models.JobPosition {
	return &models.JobPosition{
		ID:                    4,
		Name:                  "Data Engineer",
		State:                 models.JobStateOpen,
		PositionsToFill:       toFill,
		MinExperienceYears:    3,
		MaxExperienceYears:    8,
		AutoApproveMatching:   true,
		AutoRejectNonMatching: true,
	}
}

func newTestService(t *testing.T, jobs JobStore, candidates CandidateStore, lock Locker, pub *MockPublisher) *Service {
	svc := NewService(ServiceDependencies{
		Logger:     logger.NewTestLogger(t),
		Jobs:       jobs,
		Candidates: candidates,
		Lock:       lock,
		Publisher:  pub,
	}, DefaultConfig())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

// ==========================
// Service Tests
// ==========================

func TestService_Execute_SingleApproves(t *testing.T) {
	jobs := new(MockJobStore)
	candidates := new(MockCandidateStore)
	lock := new(MockLocker)
	pub := new(MockPublisher)

	c := &models.Candidate{ID: 11, JobPositionID: linkedTo(4), YearsOfExperience: "5", Status: models.StatusPending}
	lock.On("Acquire", mock.Anything, int64(4)).Return(nil)
	jobs.On("Get", mock.Anything, int64(4)).Return(filterJob(2), nil)
	candidates.On("Get", mock.Anything, int64(11)).Return(c, nil)
	candidates.On("UpdateStatusAndNotes", mock.Anything, int64(11), models.StatusInterviewed, mock.MatchedBy(func(notes string) bool {
		return strings.Contains(notes, "[Auto-approved]")
	})).Return(nil)
	pub.On("Publish", mock.Anything, "candidate.approved", mock.MatchedBy(func(e models.DecisionEvent) bool {
		return e.CandidateID == 11 && e.JobPositionID == 4 && e.Status == models.StatusInterviewed && e.ID != ""
	})).Return(nil)

	svc := newTestService(t, jobs, candidates, lock, pub)
	out, err := svc.Execute(context.Background(), &Input{JobPositionID: 4, CandidateID: 11})
	require.NoError(t, err)

	assert.Equal(t, ModeSingle, out.Mode)
	assert.Equal(t, 1, out.Processed)
	assert.Equal(t, 1, out.Approved)
	assert.Equal(t, 1, out.EventsPublished)
	assert.Equal(t, 1, lock.released)

	vars := completionVariables(out)
	assert.Equal(t, "approved", vars["autoFilterAction"])
	assert.Equal(t, "interviewed", vars["candidateStatus"])

	candidates.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestService_Execute_SingleSkipsClosedCandidate(t *testing.T) {
	jobs := new(MockJobStore)
	candidates := new(MockCandidateStore)

	c := &models.Candidate{ID: 11, JobPositionID: linkedTo(4), YearsOfExperience: "5", Status: models.StatusHired}
	jobs.On("Get", mock.Anything, int64(4)).Return(filterJob(2), nil)
	candidates.On("Get", mock.Anything, int64(11)).Return(c, nil)

	svc := newTestService(t, jobs, candidates, nil, new(MockPublisher))
	out, err := svc.Execute(context.Background(), &Input{JobPositionID: 4, CandidateID: 11})
	require.NoError(t, err)

	assert.Equal(t, 0, out.Processed)
	assert.Contains(t, out.Message, "Candidate skipped")
	assert.Equal(t, matching.ActionSkipped, out.Outcomes[0].Action)
	candidates.AssertNotCalled(t, "UpdateStatusAndNotes", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Execute_SingleRequiresLink(t *testing.T) {
	jobs := new(MockJobStore)
	candidates := new(MockCandidateStore)

	jobs.On("Get", mock.Anything, int64(4)).Return(filterJob(2), nil)
	candidates.On("Get", mock.Anything, int64(11)).Return(&models.Candidate{ID: 11, Status: models.StatusPending}, nil)

	svc := newTestService(t, jobs, candidates, nil, new(MockPublisher))
	_, err := svc.Execute(context.Background(), &Input{JobPositionID: 4, CandidateID: 11})

	assert.Equal(t, string(errors.ErrCodeValidationFailed), errors.Code(err))
}

func TestService_Execute_BatchRespectsSlots(t *testing.T) {
	jobs := new(MockJobStore)
	candidates := new(MockCandidateStore)
	pub := new(MockPublisher)

	list := []*models.Candidate{
		{ID: 5, JobPositionID: linkedTo(4), YearsOfExperience: "6", Status: models.StatusPending},
		{ID: 3, JobPositionID: linkedTo(4), YearsOfExperience: "4", Status: models.StatusContacted},
		{ID: 7, JobPositionID: linkedTo(4), YearsOfExperience: "1", Status: models.StatusPending},
	}
	jobs.On("Get", mock.Anything, int64(4)).Return(filterJob(1), nil)
	candidates.On("ListByJob", mock.Anything, int64(4), []models.CandidateStatus{models.StatusPending, models.StatusContacted}).Return(list, nil)
	candidates.On("UpdateStatusAndNotes", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(t, jobs, candidates, nil, pub)
	out, err := svc.Execute(context.Background(), &Input{JobPositionID: 4})
	require.NoError(t, err)

	assert.Equal(t, ModeBatch, out.Mode)
	assert.Equal(t, 3, out.Processed)
	assert.Equal(t, 1, out.Approved)
	assert.Equal(t, 1, out.Rejected)
	assert.Equal(t, "Processed 3 candidates: 1 approved, 1 rejected", out.Message)

	actions := map[int64]matching.Action{}
	for _, o := range out.Outcomes {
		actions[o.CandidateID] = o.Action
	}
	assert.Equal(t, matching.ActionApproved, actions[3], "lowest id takes the only slot")
	assert.Equal(t, matching.ActionMatchNoSlot, actions[5])
	assert.Equal(t, matching.ActionRejected, actions[7])

	candidates.AssertNumberOfCalls(t, "UpdateStatusAndNotes", 3)
	pub.AssertCalled(t, "Publish", mock.Anything, "candidate.approved", mock.Anything)
	pub.AssertCalled(t, "Publish", mock.Anything, "candidate.rejected", mock.Anything)
}

func TestService_Execute_BatchRequiresFlags(t *testing.T) {
	jobs := new(MockJobStore)
	candidates := new(MockCandidateStore)

	job := filterJob(1)
	job.AutoApproveMatching, job.AutoRejectNonMatching = false, false
	jobs.On("Get", mock.Anything, int64(4)).Return(job, nil)
	candidates.On("ListByJob", mock.Anything, int64(4), mock.Anything).Return([]*models.Candidate{}, nil)

	svc := newTestService(t, jobs, candidates, nil, new(MockPublisher))
	_, err := svc.Execute(context.Background(), &Input{JobPositionID: 4})

	assert.Equal(t, string(errors.ErrCodeValidationFailed), errors.Code(err))
}

func TestService_Execute_BatchOnClosedJobIsNoOp(t *testing.T) {
	jobs := new(MockJobStore)
	candidates := new(MockCandidateStore)
	pub := new(MockPublisher)

	job := filterJob(2)
	job.State = models.JobStateClosed
	jobs.On("Get", mock.Anything, int64(4)).Return(job, nil)
	candidates.On("ListByJob", mock.Anything, int64(4), mock.Anything).Return([]*models.Candidate{
		{ID: 7, JobPositionID: linkedTo(4), YearsOfExperience: "1", Status: models.StatusPending},
	}, nil)

	svc := newTestService(t, jobs, candidates, nil, pub)
	out, err := svc.Execute(context.Background(), &Input{JobPositionID: 4})
	require.NoError(t, err)

	assert.Equal(t, ModeBatch, out.Mode)
	assert.Equal(t, 0, out.Processed)
	assert.Equal(t, 0, out.Approved)
	assert.Equal(t, 0, out.Rejected)
	assert.Empty(t, out.Outcomes)
	candidates.AssertNotCalled(t, "UpdateStatusAndNotes", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Execute_Locked(t *testing.T) {
	lock := new(MockLocker)
	lock.On("Acquire", mock.Anything, int64(4)).Return(errors.NewFilterLockedError(4))
	jobs := new(MockJobStore)

	svc := newTestService(t, jobs, new(MockCandidateStore), lock, new(MockPublisher))
	_, err := svc.Execute(context.Background(), &Input{JobPositionID: 4})

	assert.Equal(t, "FILTER_LOCKED", errors.Code(err))
	assert.Equal(t, 0, lock.released)
	jobs.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestService_Execute_ReleasesLockOnError(t *testing.T) {
	lock := new(MockLocker)
	lock.On("Acquire", mock.Anything, int64(4)).Return(nil)
	jobs := new(MockJobStore)
	jobs.On("Get", mock.Anything, int64(4)).Return(nil, errors.NewJobPositionNotFoundError(4))

	svc := newTestService(t, jobs, new(MockCandidateStore), lock, new(MockPublisher))
	_, err := svc.Execute(context.Background(), &Input{JobPositionID: 4})

	assert.Equal(t, string(errors.ErrCodeJobPositionNotFound), errors.Code(err))
	assert.Equal(t, 1, lock.released)
}

func TestService_Execute_PublishFailureCounted(t *testing.T) {
	jobs := new(MockJobStore)
	candidates := new(MockCandidateStore)
	pub := new(MockPublisher)

	c := &models.Candidate{ID: 11, JobPositionID: linkedTo(4), YearsOfExperience: "1", Status: models.StatusPending}
	jobs.On("Get", mock.Anything, int64(4)).Return(filterJob(2), nil)
	candidates.On("Get", mock.Anything, int64(11)).Return(c, nil)
	candidates.On("UpdateStatusAndNotes", mock.Anything, int64(11), models.StatusRejected, mock.Anything).Return(nil)
	pub.On("Publish", mock.Anything, "candidate.rejected", mock.Anything).Return(stderrors.New("channel closed"))

	svc := newTestService(t, jobs, candidates, nil, pub)
	out, err := svc.Execute(context.Background(), &Input{JobPositionID: 4, CandidateID: 11})
	require.NoError(t, err)

	assert.Equal(t, 1, out.Rejected)
	assert.Equal(t, 0, out.EventsPublished)
	assert.Equal(t, 1, out.EventsFailed)
}

func TestService_Execute_PublishDisabled(t *testing.T) {
	jobs := new(MockJobStore)
	candidates := new(MockCandidateStore)
	pub := new(MockPublisher)

	c := &models.Candidate{ID: 11, JobPositionID: linkedTo(4), YearsOfExperience: "1", Status: models.StatusPending}
	jobs.On("Get", mock.Anything, int64(4)).Return(filterJob(2), nil)
	candidates.On("Get", mock.Anything, int64(11)).Return(c, nil)
	candidates.On("UpdateStatusAndNotes", mock.Anything, int64(11), models.StatusRejected, mock.Anything).Return(nil)

	cfg := DefaultConfig()
	cfg.PublishEvents = false
	svc := NewService(ServiceDependencies{Jobs: jobs, Candidates: candidates, Publisher: pub}, cfg)

	out, err := svc.Execute(context.Background(), &Input{JobPositionID: 4, CandidateID: 11})
	require.NoError(t, err)
	assert.Equal(t, 0, out.EventsPublished+out.EventsFailed)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

// ==========================
// Handler Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h, err := NewHandler(HandlerOptions{
		CustomConfig: DefaultConfig(),
		Logger:       logger.NewNoOpLogger(),
		Jobs:         new(MockJobStore),
		Candidates:   new(MockCandidateStore),
	})
	require.NoError(t, err)

	tests := []struct {
		name      string
		variables map[string]interface{}
		want      *Input
		wantCode  string
	}{
		{"batch", map[string]interface{}{"jobPositionId": 4}, &Input{JobPositionID: 4}, ""},
		{"single", map[string]interface{}{"jobPositionId": 4, "candidateId": 11}, &Input{JobPositionID: 4, CandidateID: 11}, ""},
		{"missing job", map[string]interface{}{"candidateId": 11}, nil, string(errors.ErrCodeValidationFailed)},
		{"zero candidate", map[string]interface{}{"jobPositionId": 4, "candidateId": 0}, nil, string(errors.ErrCodeValidationFailed)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := h.parseInput(createMockJob(1, tt.variables))
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errors.Code(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, input)
		})
	}
}

func TestHandler_NewHandler_RequiresStores(t *testing.T) {
	_, err := NewHandler(HandlerOptions{CustomConfig: DefaultConfig(), Candidates: new(MockCandidateStore)})
	require.Error(t, err)
}

func TestCompletionVariables_Batch(t *testing.T) {
	vars := completionVariables(&Output{
		Mode:      ModeBatch,
		Processed: 2,
		Approved:  1,
		Outcomes: []matching.FilterOutcome{
			{CandidateID: 1, Action: matching.ActionApproved, StatusTo: models.StatusInterviewed},
			{CandidateID: 2, Action: matching.ActionNone, StatusTo: models.StatusPending},
		},
	})

	assert.Equal(t, true, vars["autoFilterApplied"])
	assert.Len(t, vars["autoFilterDecisions"], 2)
	assert.NotContains(t, vars, "autoFilterAction")
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	cfg := createConfigFromAppConfig(&config.Config{
		Workers: map[string]config.WorkerConfig{configKey: {Enabled: true, Timeout: 30000}},
	}, nil)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.MaxJobsActive)
	assert.True(t, cfg.PublishEvents)
}
