// pkg/registry/schema.go
package registry

import (
	"encoding/json"

	"resume-screening-workers/internal/common/validation"
)

// ActivityRegistry lists the service tasks process models may reference.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputVariables      []string               `json:"outputVariables"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Tags                 []string               `json:"tags"`
}

// InputSchemaOf converts a worker's variable schema into a draft-07 JSON
// Schema document. OneOfRequired becomes an anyOf of required clauses.
func InputSchemaOf(s validation.JSONSchema) (map[string]interface{}, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	out["$schema"] = "http://json-schema.org/draft-07/schema#"
	if out["properties"] == nil {
		delete(out, "properties")
	}
	if len(s.OneOfRequired) > 0 {
		anyOf := make([]interface{}, 0, len(s.OneOfRequired))
		for _, field := range s.OneOfRequired {
			anyOf = append(anyOf, map[string]interface{}{"required": []string{field}})
		}
		out["anyOf"] = anyOf
	}
	return out, nil
}

// ValidateVariables checks process variables against the activity's input
// schema.
func (a Activity) ValidateVariables(vars map[string]interface{}) (*validation.ValidationResult, error) {
	schema := a.InputSchema
	if schema == nil {
		schema = map[string]interface{}{"type": "object"}
	}
	return validation.ValidateDocument(schema, vars)
}
