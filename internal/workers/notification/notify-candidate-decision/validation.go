// internal/workers/notification/notify-candidate-decision/validation.go
package notifycandidatedecision

import "resume-screening-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"candidateId"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"candidateId": {Type: "integer", Description: "Candidate whose decision is announced", Minimum: validation.FloatPtr(1)},
			"channel":     {Type: "string", Description: "Delivery channel, email by default", Enum: []string{ChannelEmail, ChannelSMS}},
		},
	}
}
