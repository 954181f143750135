// internal/workers/reporting/export-ats-report/validation.go
package exportatsreport

import "resume-screening-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"jobPositionId": {Type: "integer", Description: "Restrict the report to one job position", Minimum: validation.FloatPtr(1)},
			"objectKey": {
				Type:        "string",
				Description: "Destination key in the report bucket",
				MinLength:   validation.IntPtr(1),
				Pattern:     validation.StringPtr(`\.xlsx$`),
			},
		},
	}
}
