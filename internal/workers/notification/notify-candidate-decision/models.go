// internal/workers/notification/notify-candidate-decision/models.go
package notifycandidatedecision

import (
	"context"

	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

const (
	StatusSent     = "sent"
	StatusSkipped  = "skipped"
	StatusDisabled = "disabled"
)

type Input struct {
	CandidateID int64  `json:"candidateId"`
	Channel     string `json:"channel"`
}

type Output struct {
	Notification models.Notification `json:"notification"`
	Decision     string              `json:"decision"`
	Subject      string              `json:"subject,omitempty"`
}

type CandidateStore interface {
	Get(ctx context.Context, id int64) (*models.Candidate, error)
}

type JobStore interface {
	Get(ctx context.Context, id int64) (*models.JobPosition, error)
}

// EmailSender is satisfied by the SES client.
type EmailSender interface {
	SendText(ctx context.Context, from, to, subject, body string) (string, error)
}

// SMSSender is satisfied by the SNS client.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type ServiceDependencies struct {
	Logger     logger.Logger
	Candidates CandidateStore
	// Jobs is optional; without it the candidate's free-text position is used.
	Jobs  JobStore
	Email EmailSender
	SMS   SMSSender
}
