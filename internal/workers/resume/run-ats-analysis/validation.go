// internal/workers/resume/run-ats-analysis/validation.go
package runatsanalysis

import "resume-screening-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"candidateId"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"candidateId": {
				Type:        "integer",
				Description: "Candidate to analyse",
				Minimum:     validation.FloatPtr(1),
			},
		},
	}
}
