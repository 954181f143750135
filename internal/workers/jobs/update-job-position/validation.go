// internal/workers/jobs/update-job-position/validation.go
package updatejobposition

import "resume-screening-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	nonNegative := validation.FloatPtr(0)
	return validation.JSONSchema{
		Type:                 "object",
		OneOfRequired:        []string{"jobPosition", "action"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"jobPositionId": {Type: "integer", Description: "Existing job position; omit to create one", Minimum: validation.FloatPtr(1)},
			"action":        {Type: "string", Description: "State transition applied after any field changes", Enum: []string{ActionOpen, ActionClose, ActionCancel}},
			"jobPosition": {
				Type:        "object",
				Description: "Fields to write; omitted fields keep their stored value",
				Properties: map[string]validation.Property{
					"name":                  {Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(255)},
					"code":                  {Type: "string", MaxLength: validation.IntPtr(64)},
					"department":            {Type: "string", MaxLength: validation.IntPtr(255)},
					"description":           {Type: "string"},
					"positionsToFill":       {Type: "integer", Minimum: nonNegative},
					"minExperienceYears":    {Type: "number", Minimum: nonNegative},
					"maxExperienceYears":    {Type: "number", Minimum: nonNegative},
					"minSalary":             {Type: "number", Minimum: nonNegative},
					"maxSalary":             {Type: "number", Minimum: nonNegative},
					"salaryCurrency":        {Type: "string", Pattern: validation.StringPtr("^[A-Z]{3}$")},
					"autoApproveMatching":   {Type: "boolean"},
					"autoRejectNonMatching": {Type: "boolean"},
				},
			},
		},
	}
}
