// internal/workers/resume/bulk-upload-cvs/validation.go
package bulkuploadcvs

import (
	"resume-screening-workers/internal/common/validation"
	"resume-screening-workers/internal/models"
)

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"files"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"batchName":     {Type: "string", MaxLength: validation.IntPtr(255)},
			"jobPositionId": {Type: "integer", Description: "Job position every candidate is linked to", Minimum: validation.FloatPtr(1)},
			"position":      {Type: "string", MaxLength: validation.IntPtr(255)},
			"source": {
				Type: "string",
				Enum: []string{
					string(models.SourceWebsite), string(models.SourceLinkedIn), string(models.SourceReferral),
					string(models.SourceJobPortal), string(models.SourceOther),
				},
			},
			"files": {
				Type:        "array",
				Description: "CV files; each names one of objectKey, url or contentBase64",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"filename"},
					Properties: map[string]validation.Property{
						"filename":      {Type: "string", MinLength: validation.IntPtr(1)},
						"objectKey":     {Type: "string"},
						"url":           {Type: "string", Pattern: validation.StringPtr(`^https?://`)},
						"contentBase64": {Type: "string"},
					},
				},
			},
			"autoExtract": {Type: "boolean"},
			"autoAnalyze": {Type: "boolean"},
		},
	}
}
