// internal/search/index.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"resume-screening-workers/internal/common/database"
	apperrors "resume-screening-workers/internal/common/errors"
	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const DefaultIndex = "candidate-analyses"

var indexMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"candidate_id":     map[string]interface{}{"type": "long"},
			"job_position_id":  map[string]interface{}{"type": "long"},
			"name":             map[string]interface{}{"type": "text"},
			"position":         map[string]interface{}{"type": "text"},
			"skills":           map[string]interface{}{"type": "text"},
			"status":           map[string]interface{}{"type": "keyword"},
			"keywords":         map[string]interface{}{"type": "keyword"},
			"missing_sections": map[string]interface{}{"type": "keyword"},
			"tier1_score":      map[string]interface{}{"type": "float"},
			"tier2_score":      map[string]interface{}{"type": "float"},
			"overall_score":    map[string]interface{}{"type": "float"},
			"spelling_errors":  map[string]interface{}{"type": "integer"},
			"grammar_errors":   map[string]interface{}{"type": "integer"},
			"achievements":     map[string]interface{}{"type": "integer"},
			"analyzed_at":      map[string]interface{}{"type": "date"},
		},
	},
}

// Document is the indexed view of one candidate's latest ATS analysis.
type Document struct {
	CandidateID     int64      `json:"candidate_id"`
	JobPositionID   *int64     `json:"job_position_id,omitempty"`
	Name            string     `json:"name"`
	Position        string     `json:"position,omitempty"`
	Skills          string     `json:"skills,omitempty"`
	Status          string     `json:"status"`
	Keywords        []string   `json:"keywords"`
	MissingSections []string   `json:"missing_sections"`
	Tier1Score      float64    `json:"tier1_score"`
	Tier2Score      float64    `json:"tier2_score"`
	OverallScore    float64    `json:"overall_score"`
	SpellingErrors  int        `json:"spelling_errors"`
	GrammarErrors   int        `json:"grammar_errors"`
	Achievements    int        `json:"achievements"`
	AnalyzedAt      *time.Time `json:"analyzed_at,omitempty"`
}

// NewDocument projects the stored ATS fields of c.
func NewDocument(c *models.Candidate) Document {
	return Document{
		CandidateID:     c.ID,
		JobPositionID:   c.JobPositionID,
		Name:            c.Name,
		Position:        c.Position,
		Skills:          c.Skills,
		Status:          string(c.Status),
		Keywords:        splitList(c.ATS.KeywordsFound),
		MissingSections: splitList(c.ATS.MissingSections),
		Tier1Score:      c.ATS.Tier1Score,
		Tier2Score:      c.ATS.Tier2Score,
		OverallScore:    c.ATS.OverallScore,
		SpellingErrors:  c.ATS.SpellingErrors,
		GrammarErrors:   c.ATS.GrammarErrors,
		Achievements:    c.ATS.QuantifiableAchievements,
		AnalyzedAt:      c.ATS.AnalyzedAt,
	}
}

// splitList turns a stored ", " joined list into lowercase terms. "None"
// is the stored marker for an empty list.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" || part == "none" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// Result is one page of matching documents.
type Result struct {
	Documents []Document `json:"documents"`
	TotalHits int64      `json:"totalHits"`
	Took      int64      `json:"took"`
}

// AnalysisIndex keeps candidate ATS results searchable in Elasticsearch.
type AnalysisIndex struct {
	es    *database.ElasticsearchClient
	index string
	log   logger.Logger
}

func NewAnalysisIndex(es *database.ElasticsearchClient, index string, log logger.Logger) *AnalysisIndex {
	if index == "" {
		index = DefaultIndex
	}
	return &AnalysisIndex{es: es, index: index, log: logger.OrNop(log)}
}

func (a *AnalysisIndex) Name() string {
	return a.index
}

func (a *AnalysisIndex) EnsureIndex(ctx context.Context) error {
	if err := a.es.EnsureIndex(ctx, a.index, indexMapping); err != nil {
		return apperrors.NewSearchIndexError(a.index, err)
	}
	return nil
}

// Index upserts the candidate's analysis under its id.
func (a *AnalysisIndex) Index(ctx context.Context, c *models.Candidate) error {
	id := strconv.FormatInt(c.ID, 10)
	if err := a.es.IndexDocument(ctx, a.index, id, NewDocument(c)); err != nil {
		return apperrors.NewSearchIndexError(a.index, err)
	}
	a.log.Debug("Indexed candidate analysis", map[string]interface{}{
		"candidateId":  c.ID,
		"overallScore": c.ATS.OverallScore,
	})
	return nil
}

func (a *AnalysisIndex) Search(ctx context.Context, q Query) (*Result, error) {
	body, err := json.Marshal(buildQuery(q))
	if err != nil {
		return nil, apperrors.NewSearchIndexError(a.index, err)
	}
	from, size := q.page()

	req := esapi.SearchRequest{
		Index: []string{a.index},
		Body:  bytes.NewReader(body),
		From:  &from,
		Size:  &size,
	}

	start := time.Now()
	res, err := req.Do(ctx, a.es.Client)
	if err != nil {
		return nil, apperrors.NewSearchIndexError(a.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewSearchIndexError(a.index, fmt.Errorf("search failed: %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchIndexError(a.index, err)
	}

	out := &Result{
		Documents: make([]Document, 0, len(parsed.Hits.Hits)),
		TotalHits: parsed.Hits.Total.Value,
		Took:      time.Since(start).Milliseconds(),
	}
	for _, h := range parsed.Hits.Hits {
		out.Documents = append(out.Documents, h.Source)
	}
	return out, nil
}
