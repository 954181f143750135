// internal/search/query.go
package search

import (
	"strings"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Query selects analysed candidates. Zero values leave a filter off.
type Query struct {
	Keywords        string   `json:"keywords,omitempty"`
	JobPositionID   int64    `json:"jobPositionId,omitempty"`
	Statuses        []string `json:"statuses,omitempty"`
	MinOverallScore float64  `json:"minOverallScore,omitempty"`
	MissingSection  string   `json:"missingSection,omitempty"`
	From            int      `json:"from,omitempty"`
	Size            int      `json:"size,omitempty"`
}

func (q Query) page() (from, size int) {
	from, size = q.From, q.Size
	if from < 0 {
		from = 0
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return from, size
}

// buildQuery renders q as an Elasticsearch request body. Results are ordered
// by relevance when keywords are given, otherwise by overall score.
func buildQuery(q Query) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if kw := strings.TrimSpace(q.Keywords); kw != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  kw,
				"fields": []string{"keywords^3", "skills^2", "name", "position"},
				"type":   "best_fields",
			},
		})
	}

	if q.JobPositionID > 0 {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"job_position_id": q.JobPositionID},
		})
	}
	if len(q.Statuses) > 0 {
		filter = append(filter, map[string]interface{}{
			"terms": map[string]interface{}{"status": q.Statuses},
		})
	}
	if q.MinOverallScore > 0 {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{
				"overall_score": map[string]interface{}{"gte": q.MinOverallScore},
			},
		})
	}
	if q.MissingSection != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"missing_sections": strings.ToLower(q.MissingSection)},
		})
	}

	if len(must) == 0 {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery := map[string]interface{}{"must": must}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
	if strings.TrimSpace(q.Keywords) == "" {
		body["sort"] = []map[string]interface{}{
			{"overall_score": "desc"},
			{"candidate_id": "asc"},
		}
	}
	return body
}
