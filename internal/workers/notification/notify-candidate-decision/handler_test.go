package notifycandidatedecision

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

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendText(ctx context.Context, from, to, subject, body string) (string, error) {
	args := m.Called(ctx, from, to, subject, body)
	return args.String(0), args.Error(1)
}

type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) SendSMS(ctx context.Context, phone, message string) (string, error) {
	args := m.Called(ctx, phone, message)
	return args.String(0), args.Error(1)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "resume-screening",
		ElementId:          "Activity_NotifyCandidate",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.EmailEnabled = true
	cfg.SMSEnabled = true
	cfg.FromEmail = "jobs@acme.test"
	cfg.CompanyName = "Acme"
	return cfg
}

func linkedTo(id int64) *int64 {
	return &id
}

// ==========================
// Service Tests
// ==========================

func TestService_Execute_Email(t *testing.T) {
	tests := []struct {
		name        string
		status      models.CandidateStatus
		wantSubject string
		wantBody    string
	}{
		{"interview invitation", models.StatusInterviewed, "Your application for Site Reliability Engineer at Acme", "invite you to an interview"},
		{"rejection", models.StatusRejected, "Update on your application for Site Reliability Engineer", "not to move forward"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := new(MockCandidateStore)
			jobs := new(MockJobStore)
			email := new(MockEmailSender)

			candidates.On("Get", mock.Anything, int64(5)).Return(&models.Candidate{
				ID: 5, Name: "Maria Ionescu", Email: "maria@example.test", JobPositionID: linkedTo(2), Status: tt.status,
			}, nil)
			jobs.On("Get", mock.Anything, int64(2)).Return(&models.JobPosition{ID: 2, Name: "Site Reliability Engineer"}, nil)
			email.On("SendText", mock.Anything, "jobs@acme.test", "maria@example.test", tt.wantSubject,
				mock.MatchedBy(func(body string) bool {
					return strings.Contains(body, tt.wantBody) && strings.HasPrefix(body, "Dear Maria Ionescu,") && !strings.Contains(body, "{{")
				})).Return("ses-123", nil)

			svc := NewService(ServiceDependencies{Logger: logger.NewTestLogger(t), Candidates: candidates, Jobs: jobs, Email: email}, testConfig())
			out, err := svc.Execute(context.Background(), &Input{CandidateID: 5})
			require.NoError(t, err)

			assert.Equal(t, StatusSent, out.Notification.Status)
			assert.Equal(t, "ses-123", out.Notification.MessageID)
			assert.Equal(t, ChannelEmail, out.Notification.Channel)
			assert.Equal(t, string(tt.status), out.Decision)
			email.AssertExpectations(t)
		})
	}
}

func TestService_Execute_SMS(t *testing.T) {
	candidates := new(MockCandidateStore)
	sms := new(MockSMSSender)

	candidates.On("Get", mock.Anything, int64(5)).Return(&models.Candidate{
		ID: 5, Name: "Maria", Phone: "+40722000111", Position: "Data Analyst", Status: models.StatusInterviewed,
	}, nil)
	sms.On("SendSMS", mock.Anything, "+40722000111", "Acme: Hi Maria, you have been selected for an interview for Data Analyst. We will contact you soon.").
		Return("sns-9", nil)

	svc := NewService(ServiceDependencies{Candidates: candidates, SMS: sms}, testConfig())
	out, err := svc.Execute(context.Background(), &Input{CandidateID: 5, Channel: ChannelSMS})
	require.NoError(t, err)

	assert.Equal(t, "sns-9", out.Notification.MessageID)
	assert.Equal(t, "+40722000111", out.Notification.Recipient)
}

func TestService_Execute_NoDecision(t *testing.T) {
	candidates := new(MockCandidateStore)
	email := new(MockEmailSender)
	candidates.On("Get", mock.Anything, int64(5)).Return(&models.Candidate{ID: 5, Email: "a@b.test", Status: models.StatusPending}, nil)

	svc := NewService(ServiceDependencies{Candidates: candidates, Email: email}, testConfig())
	out, err := svc.Execute(context.Background(), &Input{CandidateID: 5})
	require.NoError(t, err)

	assert.Equal(t, StatusSkipped, out.Notification.Status)
	email.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Execute_ChannelDisabled(t *testing.T) {
	candidates := new(MockCandidateStore)
	candidates.On("Get", mock.Anything, int64(5)).Return(&models.Candidate{ID: 5, Phone: "+1555", Status: models.StatusRejected}, nil)

	cfg := testConfig()
	cfg.SMSEnabled = false
	svc := NewService(ServiceDependencies{Candidates: candidates, SMS: new(MockSMSSender)}, cfg)

	out, err := svc.Execute(context.Background(), &Input{CandidateID: 5, Channel: ChannelSMS})
	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, out.Notification.Status)
}

func TestService_Execute_Errors(t *testing.T) {
	tests := []struct {
		name      string
		candidate *models.Candidate
		sendErr   error
		wantCode  errors.ErrorCode
	}{
		{"no address", &models.Candidate{ID: 5, Status: models.StatusRejected}, nil, errors.ErrCodeNoRecipient},
		{"malformed address", &models.Candidate{ID: 5, Email: "maria at example", Status: models.StatusRejected}, nil, errors.ErrCodeNoRecipient},
		{"send failure", &models.Candidate{ID: 5, Email: "a@b.test", Status: models.StatusRejected}, stderrors.New("throttled"), errors.ErrCodeNotificationSendFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := new(MockCandidateStore)
			email := new(MockEmailSender)
			candidates.On("Get", mock.Anything, int64(5)).Return(tt.candidate, nil)
			email.On("SendText", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", tt.sendErr)

			svc := NewService(ServiceDependencies{Candidates: candidates, Email: email}, testConfig())
			_, err := svc.Execute(context.Background(), &Input{CandidateID: 5})

			assert.Equal(t, string(tt.wantCode), errors.Code(err))
		})
	}
}

func TestService_PositionName_JobLookupFails(t *testing.T) {
	jobs := new(MockJobStore)
	jobs.On("Get", mock.Anything, int64(2)).Return(nil, errors.NewJobPositionNotFoundError(2))

	svc := NewService(ServiceDependencies{Jobs: jobs}, testConfig())

	assert.Equal(t, "Backend", svc.positionName(context.Background(), &models.Candidate{JobPositionID: linkedTo(2), Position: "Backend"}))
	assert.Equal(t, "our open position", svc.positionName(context.Background(), &models.Candidate{Position: models.DefaultPosition}))
}

func TestRenderTemplate(t *testing.T) {
	got := renderTemplate("Hi {{name}}, ref {{ref}}{{unknown}}.", map[string]interface{}{"name": "Ana", "ref": 42})
	assert.Equal(t, "Hi Ana, ref 42.", got)
}

// ==========================
// Handler Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h, err := NewHandler(HandlerOptions{CustomConfig: testConfig(), Logger: logger.NewNoOpLogger(), Candidates: new(MockCandidateStore)})
	require.NoError(t, err)

	input, err := h.parseInput(createMockJob(1, map[string]interface{}{"candidateId": 5, "channel": "sms"}))
	require.NoError(t, err)
	assert.Equal(t, &Input{CandidateID: 5, Channel: ChannelSMS}, input)

	_, err = h.parseInput(createMockJob(1, map[string]interface{}{"candidateId": 5, "channel": "fax"}))
	assert.Equal(t, string(errors.ErrCodeValidationFailed), errors.Code(err))
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.EmailEnabled = true
	assert.Error(t, cfg.Validate())
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	app := &config.Config{}
	app.Notifications.Email.Enabled = true
	app.Notifications.Email.FromEmail = "hr@acme.test"
	app.Notifications.CompanyName = "Acme"

	cfg := createConfigFromAppConfig(app, nil)
	assert.True(t, cfg.EmailEnabled)
	assert.False(t, cfg.SMSEnabled)
	assert.Equal(t, "hr@acme.test", cfg.FromEmail)
	assert.Equal(t, "Acme", cfg.CompanyName)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestCompletionVariables(t *testing.T) {
	vars := completionVariables(&Output{
		Decision:     "rejected",
		Notification: models.Notification{Status: StatusSent, Channel: ChannelEmail, MessageID: "m1", SentAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
	})
	assert.Equal(t, "sent", vars["notificationStatus"])
	assert.Equal(t, "2026-01-02T03:04:05Z", vars["notificationSentAt"])
}
