// internal/models/notification.go
package models

import "time"

// DecisionEvent is published whenever auto-filtering changes a candidate's
// status or flags a match without a free slot.
type DecisionEvent struct {
	ID            string          `json:"id"`
	CandidateID   int64           `json:"candidateId"`
	JobPositionID int64           `json:"jobPositionId"`
	Action        string          `json:"action"` // "approved", "rejected", "match_no_slot"
	Status        CandidateStatus `json:"status"`
	Note          string          `json:"note"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// Notification records one message sent to a candidate about a decision.
type Notification struct {
	CandidateID int64     `json:"candidateId"`
	Channel     string    `json:"channel"` // "email", "sms"
	Recipient   string    `json:"recipient"`
	Status      string    `json:"status"` // "sent", "skipped", "disabled"
	MessageID   string    `json:"messageId,omitempty"`
	SentAt      time.Time `json:"sentAt"`
}

type NotificationTemplate struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
