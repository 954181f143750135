// cmd/resumectl/root.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"resume-screening-workers/internal/common/logger"
	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/resume"
	"resume-screening-workers/internal/resume/ats"
	"resume-screening-workers/internal/resume/document"

	"github.com/spf13/cobra"
)

const app = "resumectl"

// options are the persistent flags shared by every subcommand.
type options struct {
	configFile string
	dictionary string
	minChars   int
	debug      bool
	json       bool

	log logger.Logger
	now func() time.Time
}

func newRootCmd() *cobra.Command {
	opts := &options{now: time.Now}

	root := &cobra.Command{
		Use:           app,
		Short:         "resumectl screens CV files locally: extraction, ATS scoring and job matching",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level, format := "info", "console"
			if opts.debug {
				level = "debug"
			}
			if opts.json {
				format = "json"
			}
			opts.log = logger.NewZapAdapter(logger.NewWithOptions(logger.Options{
				Level:  level,
				Format: format,
				Output: "stderr",
			}))
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "worker config file, needed by search (default is configs/config.yaml)")
	root.PersistentFlags().StringVar(&opts.dictionary, "dictionary", "", "newline separated word list for spell checking")
	root.PersistentFlags().IntVar(&opts.minChars, "min-chars", document.DefaultMinChars, "minimum extracted characters before trying the next backend")
	root.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolVarP(&opts.json, "json", "j", false, "json format for logging")

	root.AddCommand(
		newExtractCmd(opts),
		newAnalyzeCmd(opts),
		newMatchCmd(opts),
		newReportCmd(opts),
		newSearchCmd(opts),
	)
	return root
}

// pipeline builds the extraction and scoring pipeline from the flags.
func (o *options) pipeline() (*resume.Pipeline, error) {
	log := logger.OrNop(o.log)

	analyzer := ats.NewAnalyzer(ats.WithLogger(log))
	if o.dictionary != "" {
		dict, err := ats.LoadDictionary(o.dictionary)
		if err != nil {
			return nil, fmt.Errorf("loading dictionary: %w", err)
		}
		analyzer = ats.NewAnalyzer(ats.WithSpellChain(ats.DefaultSpellChain(dict)), ats.WithLogger(log))
	}

	p := resume.NewPipeline(
		document.NewExtractor(document.WithMinChars(o.minChars), document.WithLogger(log)),
		analyzer,
		log,
	)
	if o.debug {
		p.Stages = stageLogger{log: log}
	}
	return p, nil
}

// loadCandidate reads path and populates a new candidate from it.
func (o *options) loadCandidate(ctx context.Context, p *resume.Pipeline, path string) (*models.Candidate, *resume.PopulateResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	filename := filepath.Base(path)
	now := o.now()
	c := &models.Candidate{
		Position:     models.DefaultPosition,
		Status:       models.StatusPending,
		CVUploadDate: &now,
		CreatedAt:    now,
	}
	res, err := p.ExtractAndPopulate(ctx, c, data, filename)
	if err != nil {
		return nil, nil, err
	}
	if c.Name == "" {
		c.Name = models.NameFromFilename(filename)
	}
	return c, res, nil
}

// stageLogger reports pipeline stage durations at debug level.
type stageLogger struct {
	log logger.Logger
}

func (s stageLogger) TimeStage(_ context.Context, stage string) func() {
	start := time.Now()
	return func() {
		s.log.Debug("Stage finished", map[string]interface{}{
			"stage":    stage,
			"duration": time.Since(start).String(),
		})
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
