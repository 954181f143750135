// internal/workers/resume/extract-cv-data/validation.go
package extractcvdata

import "resume-screening-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"candidateId"},
		OneOfRequired:        []string{"objectKey", "url", "contentBase64"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"candidateId": {
				Type:        "integer",
				Description: "Candidate whose CV is extracted",
				Minimum:     validation.FloatPtr(1),
			},
			"objectKey": {
				Type:        "string",
				Description: "Key of the CV file in the CV bucket",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(1024),
			},
			"url": {
				Type:        "string",
				Description: "HTTP(S) location of the CV file",
				Pattern:     validation.StringPtr(`^https?://`),
			},
			"contentBase64": {
				Type:        "string",
				Description: "Inline CV file content",
				MinLength:   validation.IntPtr(1),
			},
			"filename": {
				Type:        "string",
				Description: "Original file name, used for type detection",
				MaxLength:   validation.IntPtr(255),
			},
		},
	}
}
