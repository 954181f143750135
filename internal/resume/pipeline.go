// internal/resume/pipeline.go
package resume

import (
	"context"
	"time"

	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/resume/ats"
	"resume-screening-workers/internal/resume/document"
	"resume-screening-workers/internal/resume/fields"
	"resume-screening-workers/internal/resume/matching"
)

// StageTimer records how long a named pipeline stage took. The returned
// func is called when the stage ends.
type StageTimer interface {
	TimeStage(ctx context.Context, stage string) func()
}

// Pipeline wires extraction, field population, ATS analysis and auto
// filtering for one candidate at a time.
type Pipeline struct {
	Extractor *document.Extractor
	Analyzer  *ats.Analyzer
	Matcher   *matching.Matcher
	Engine    *matching.Engine
	// Stages is optional.
	Stages StageTimer

	log logger.Logger
}

func NewPipeline(extractor *document.Extractor, analyzer *ats.Analyzer, log logger.Logger) *Pipeline {
	log = logger.OrNop(log)
	if extractor == nil {
		extractor = document.NewExtractor(document.WithLogger(log))
	}
	if analyzer == nil {
		analyzer = ats.NewAnalyzer(ats.WithLogger(log))
	}
	matcher := matching.NewMatcher()
	return &Pipeline{
		Extractor: extractor,
		Analyzer:  analyzer,
		Matcher:   matcher,
		Engine:    matching.NewEngine(matcher, log),
		log:       log,
	}
}

// PopulateResult reports what ExtractAndPopulate did.
type PopulateResult struct {
	FileType document.FileType `json:"fileType"`
	Backend  string            `json:"backend"`
	Chars    int               `json:"chars"`
	Filled   []string          `json:"filledFields"`
}

// ExtractAndPopulate extracts the CV text, stores it on c and fills empty
// structured fields. Running it again on a populated candidate changes
// nothing but the stored text.
func (p *Pipeline) ExtractAndPopulate(ctx context.Context, c *models.Candidate, data []byte, filename string) (*PopulateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if filename == "" {
		filename = c.CVFilename
	}

	done := p.timeStage(ctx, "extract")
	res, err := p.Extractor.ExtractText(data, filename)
	done()
	if err != nil {
		return nil, err
	}

	if c.CVFilename == "" {
		c.CVFilename = filename
	}
	c.CVText = res.Text
	done = p.timeStage(ctx, "fields")
	filled := fields.Populate(c, fields.Extract(res.Text))
	done()

	p.log.Info("Populated candidate from CV", map[string]interface{}{
		"candidateId": c.ID,
		"filename":    filename,
		"chars":       len(res.Text),
		"filled":      filled,
	})

	return &PopulateResult{
		FileType: res.FileType,
		Backend:  res.Backend,
		Chars:    len(res.Text),
		Filled:   filled,
	}, nil
}

// RunAnalysis overwrites the candidate's ATS fields.
func (p *Pipeline) RunAnalysis(c *models.Candidate, now time.Time) (*ats.AnalysisResult, error) {
	defer p.timeStage(context.Background(), "analyze")()
	return p.Analyzer.Run(c, now)
}

// AutoEvaluate applies the job's auto-filter rules to a single candidate.
func (p *Pipeline) AutoEvaluate(job *models.JobPosition, c *models.Candidate) matching.FilterOutcome {
	defer p.timeStage(context.Background(), "auto_filter")()
	return p.Engine.FilterOne(job, c)
}

func (p *Pipeline) timeStage(ctx context.Context, stage string) func() {
	if p.Stages == nil {
		return func() {}
	}
	return p.Stages.TimeStage(ctx, stage)
}
