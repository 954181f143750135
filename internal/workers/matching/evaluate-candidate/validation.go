// internal/workers/matching/evaluate-candidate/validation.go
package evaluatecandidate

import "resume-screening-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"jobPositionId", "candidateId"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"jobPositionId": {Type: "integer", Description: "Job position supplying the criteria", Minimum: validation.FloatPtr(1)},
			"candidateId":   {Type: "integer", Description: "Candidate to evaluate", Minimum: validation.FloatPtr(1)},
		},
	}
}
