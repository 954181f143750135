package updatejobposition

import (
	"context"
	"encoding/json"
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

func (m *MockJobStore) Save(ctx context.Context, job *models.JobPosition) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobStore) SetState(ctx context.Context, id int64, action string) (*models.JobPosition, error) {
	args := m.Called(ctx, id, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobPosition), args.Error(1)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "job-position-lifecycle",
		ElementId:          "Activity_UpdateJobPosition",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64 { return &f }

// ==========================
// Service Tests
// ==========================

func TestService_Execute_Create(t *testing.T) {
	jobs := new(MockJobStore)
	jobs.On("Save", mock.Anything, mock.MatchedBy(func(j *models.JobPosition) bool {
		return j.ID == 0 && j.Name == "QA Lead" && j.State == models.JobStateDraft && j.MinExperienceYears == 4
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.JobPosition).ID = 12
	}).Return(nil)

	svc := NewService(ServiceDependencies{Logger: logger.NewTestLogger(t), Jobs: jobs}, DefaultConfig())
	out, err := svc.Execute(context.Background(), &Input{Fields: JobFields{
		Name:               strPtr("QA Lead"),
		MinExperienceYears: floatPtr(4),
	}})
	require.NoError(t, err)

	assert.True(t, out.Created)
	assert.Equal(t, int64(12), out.Job.ID)
	jobs.AssertNotCalled(t, "SetState", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Execute_CreateAndOpen(t *testing.T) {
	jobs := new(MockJobStore)
	jobs.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*models.JobPosition).ID = 12
	}).Return(nil)
	jobs.On("SetState", mock.Anything, int64(12), ActionOpen).Return(&models.JobPosition{ID: 12, State: models.JobStateOpen}, nil)

	svc := NewService(ServiceDependencies{Jobs: jobs}, DefaultConfig())
	out, err := svc.Execute(context.Background(), &Input{Action: ActionOpen, Fields: JobFields{Name: strPtr("QA Lead")}})
	require.NoError(t, err)

	assert.True(t, out.Created)
	assert.Equal(t, models.JobStateOpen, out.Job.State)
}

func TestService_Execute_PartialUpdate(t *testing.T) {
	jobs := new(MockJobStore)
	stored := &models.JobPosition{ID: 3, Name: "Backend", MinSalary: 40000, MaxSalary: 60000, State: models.JobStateOpen}
	jobs.On("Get", mock.Anything, int64(3)).Return(stored, nil)
	jobs.On("Save", mock.Anything, stored).Return(nil)

	svc := NewService(ServiceDependencies{Jobs: jobs}, DefaultConfig())
	out, err := svc.Execute(context.Background(), &Input{JobPositionID: 3, Fields: JobFields{MaxSalary: floatPtr(70000)}})
	require.NoError(t, err)

	assert.False(t, out.Created)
	assert.Equal(t, "Backend", out.Job.Name)
	assert.Equal(t, 40000.0, out.Job.MinSalary)
	assert.Equal(t, 70000.0, out.Job.MaxSalary)
}

func TestService_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		setup    func(*MockJobStore)
		wantCode errors.ErrorCode
	}{
		{
			name:     "action without job",
			input:    &Input{Action: ActionClose},
			setup:    func(*MockJobStore) {},
			wantCode: errors.ErrCodeValidationFailed,
		},
		{
			name:     "create without name",
			input:    &Input{Fields: JobFields{Code: strPtr("QA-1")}},
			setup:    func(*MockJobStore) {},
			wantCode: errors.ErrCodeValidationFailed,
		},
		{
			name:     "nothing to do",
			input:    &Input{JobPositionID: 3},
			setup:    func(*MockJobStore) {},
			wantCode: errors.ErrCodeValidationFailed,
		},
		{
			name:  "min salary above max",
			input: &Input{JobPositionID: 3, Fields: JobFields{MinSalary: floatPtr(90000)}},
			setup: func(m *MockJobStore) {
				m.On("Get", mock.Anything, int64(3)).Return(&models.JobPosition{ID: 3, MaxSalary: 60000}, nil)
				m.On("Save", mock.Anything, mock.Anything).
					Return(models.NewValidationError("Minimum salary cannot be greater than maximum salary."))
			},
			wantCode: errors.ErrCodeValidationFailed,
		},
		{
			name:  "unknown job",
			input: &Input{JobPositionID: 9, Action: ActionOpen},
			setup: func(m *MockJobStore) {
				m.On("SetState", mock.Anything, int64(9), ActionOpen).Return(nil, errors.NewJobPositionNotFoundError(9))
			},
			wantCode: errors.ErrCodeJobPositionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := new(MockJobStore)
			tt.setup(jobs)

			svc := NewService(ServiceDependencies{Jobs: jobs}, DefaultConfig())
			_, err := svc.Execute(context.Background(), tt.input)

			require.Error(t, err)
			assert.Equal(t, string(tt.wantCode), errors.Code(err))
		})
	}
}

// ==========================
// Handler Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h, err := NewHandler(HandlerOptions{CustomConfig: DefaultConfig(), Logger: logger.NewNoOpLogger(), Jobs: new(MockJobStore)})
	require.NoError(t, err)

	input, err := h.parseInput(createMockJob(1, map[string]interface{}{
		"jobPositionId": 3,
		"action":        "open",
		"jobPosition": map[string]interface{}{
			"positionsToFill":     2,
			"autoApproveMatching": true,
			"salaryCurrency":      "EUR",
		},
	}))
	require.NoError(t, err)

	assert.Equal(t, int64(3), input.JobPositionID)
	assert.Equal(t, ActionOpen, input.Action)
	require.NotNil(t, input.Fields.PositionsToFill)
	assert.Equal(t, 2, *input.Fields.PositionsToFill)
	assert.True(t, *input.Fields.AutoApproveMatching)
	assert.Nil(t, input.Fields.Name)

	invalid := []map[string]interface{}{
		{"jobPositionId": 3},
		{"action": "archive"},
		{"jobPosition": map[string]interface{}{"salaryCurrency": "euro"}},
		{"jobPosition": map[string]interface{}{"minSalary": -1}},
	}
	for _, vars := range invalid {
		_, err := h.parseInput(createMockJob(2, vars))
		assert.Equal(t, string(errors.ErrCodeValidationFailed), errors.Code(err), "%v", vars)
	}
}

func TestCompletionVariables(t *testing.T) {
	vars := completionVariables(&Output{
		Job:    &models.JobPosition{ID: 3, Name: "Backend", State: models.JobStateOpen, PositionsToFill: 3, PositionsFilled: 1, AutoRejectNonMatching: true},
		Action: ActionOpen,
	})

	assert.Equal(t, int64(3), vars["jobPositionId"])
	assert.Equal(t, "open", vars["jobPositionState"])
	assert.Equal(t, 2, vars["positionsRemaining"])
	assert.Equal(t, true, vars["autoFilterEnabled"])
}

func TestHandler_NewHandler(t *testing.T) {
	_, err := NewHandler(HandlerOptions{CustomConfig: DefaultConfig()})
	require.Error(t, err)

	_, err = NewHandler(HandlerOptions{CustomConfig: &Config{Enabled: true, MaxJobsActive: 1}, Jobs: new(MockJobStore)})
	require.Error(t, err)
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	cfg := createConfigFromAppConfig(&config.Config{
		Workers: map[string]config.WorkerConfig{configKey: {Enabled: false}},
	}, nil)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}
