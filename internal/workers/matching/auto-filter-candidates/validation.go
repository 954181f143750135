// internal/workers/matching/auto-filter-candidates/validation.go
package autofiltercandidates

import "resume-screening-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"jobPositionId"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"jobPositionId": {
				Type:        "integer",
				Description: "Job position whose auto-filter rules are applied",
				Minimum:     validation.FloatPtr(1),
			},
			"candidateId": {
				Type:        "integer",
				Description: "Single candidate to filter; omit to filter every pending or contacted candidate",
				Minimum:     validation.FloatPtr(1),
			},
		},
	}
}
