// internal/workers/notification/notify-candidate-decision/service.go
package notifycandidatedecision

import (
	"context"
	"strings"
	"time"

	"resume-screening-workers/internal/common/errors"
	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/common/validation"
	"resume-screening-workers/internal/models"
)

type Service struct {
	config     *Config
	logger     logger.Logger
	candidates CandidateStore
	jobs       JobStore
	email      EmailSender
	sms        SMSSender
	now        func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:     config,
		logger:     logger.OrNop(deps.Logger),
		candidates: deps.Candidates,
		jobs:       deps.Jobs,
		email:      deps.Email,
		sms:        deps.SMS,
		now:        time.Now,
	}
}

// Execute tells the candidate about an interview invitation or rejection.
// Candidates in any other status are skipped without error.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	channel := input.Channel
	if channel == "" {
		channel = ChannelEmail
	}

	c, err := s.candidates.Get(ctx, input.CandidateID)
	if err != nil {
		return nil, err
	}

	output := &Output{
		Decision: string(c.Status),
		Notification: models.Notification{
			CandidateID: c.ID,
			Channel:     channel,
			SentAt:      s.now().UTC(),
		},
	}

	tmpl, ok := templates[c.Status]
	if !ok {
		output.Notification.Status = StatusSkipped
		s.logger.Info("No decision to notify", map[string]interface{}{
			"candidateId": c.ID,
			"status":      string(c.Status),
		})
		return output, nil
	}

	if !s.channelEnabled(channel) {
		output.Notification.Status = StatusDisabled
		return output, nil
	}

	recipient := c.Email
	if channel == ChannelSMS {
		recipient = c.Phone
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return nil, errors.NewNoRecipientError(channel, c.ID)
	}
	if !validRecipient(channel, recipient) {
		return nil, errors.NewInvalidRecipientError(channel, c.ID)
	}
	output.Notification.Recipient = recipient

	data := map[string]interface{}{
		"candidateName": c.Name,
		"position":      s.positionName(ctx, c),
		"companyName":   s.config.CompanyName,
	}

	var messageID string
	switch channel {
	case ChannelSMS:
		messageID, err = s.sms.SendSMS(ctx, recipient, renderTemplate(tmpl.SMS, data))
	default:
		output.Subject = renderTemplate(tmpl.Email.Subject, data)
		messageID, err = s.email.SendText(ctx, s.config.FromEmail, recipient, output.Subject, renderTemplate(tmpl.Email.Body, data))
	}
	if err != nil {
		return nil, errors.NewNotificationSendFailedError(channel, err)
	}

	output.Notification.Status = StatusSent
	output.Notification.MessageID = messageID

	s.logger.Info("Decision notification sent", map[string]interface{}{
		"candidateId": c.ID,
		"channel":     channel,
		"decision":    output.Decision,
		"messageId":   messageID,
	})
	return output, nil
}

func validRecipient(channel, recipient string) bool {
	if channel == ChannelSMS {
		return validation.ValidatePhone(recipient)
	}
	return validation.ValidateEmail(recipient)
}

func (s *Service) channelEnabled(channel string) bool {
	switch channel {
	case ChannelSMS:
		return s.config.SMSEnabled && s.sms != nil
	default:
		return s.config.EmailEnabled && s.email != nil
	}
}

// positionName prefers the linked job's name over the free-text position.
func (s *Service) positionName(ctx context.Context, c *models.Candidate) string {
	if s.jobs != nil && c.JobPositionID != nil {
		job, err := s.jobs.Get(ctx, *c.JobPositionID)
		if err == nil {
			return job.Name
		}
		s.logger.Warn("Job lookup failed, using candidate position", map[string]interface{}{
			"candidateId":   c.ID,
			"jobPositionId": *c.JobPositionID,
			"error":         err.Error(),
		})
	}
	if c.Position == "" || c.Position == models.DefaultPosition {
		return "our open position"
	}
	return c.Position
}
