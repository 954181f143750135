// cmd/resumectl/match.go
package main

import (
	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/resume/matching"

	"github.com/spf13/cobra"
)

type matchOutput struct {
	File    string                  `json:"file"`
	Name    string                  `json:"name"`
	Match   matching.MatchResult    `json:"match"`
	Outcome *matching.FilterOutcome `json:"autoFilter,omitempty"`
}

func newMatchCmd(opts *options) *cobra.Command {
	job := &models.JobPosition{ID: 1, Name: "Command line criteria", State: models.JobStateOpen}
	var auto bool

	cmd := &cobra.Command{
		Use:   "match FILE",
		Short: "Match a CV against experience and salary criteria",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := job.Validate(); err != nil {
				return err
			}
			p, err := opts.pipeline()
			if err != nil {
				return err
			}
			c, _, err := opts.loadCandidate(cmd.Context(), p, args[0])
			if err != nil {
				return err
			}

			out := matchOutput{File: args[0], Name: c.Name, Match: p.Matcher.Evaluate(job, c)}
			if auto {
				job.AutoApproveMatching, job.AutoRejectNonMatching = true, true
				if job.PositionsToFill == 0 {
					job.PositionsToFill = 1
				}
				outcome := p.AutoEvaluate(job, c)
				out.Outcome = &outcome
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().Float64Var(&job.MinExperienceYears, "min-exp", 0, "minimum years of experience")
	cmd.Flags().Float64Var(&job.MaxExperienceYears, "max-exp", 0, "maximum years of experience, 0 for no limit")
	cmd.Flags().Float64Var(&job.MinSalary, "min-salary", 0, "minimum salary, 0 for no limit")
	cmd.Flags().Float64Var(&job.MaxSalary, "max-salary", 0, "maximum salary, 0 for no limit")
	cmd.Flags().StringVar(&job.SalaryCurrency, "currency", "", "salary currency code")
	cmd.Flags().IntVar(&job.PositionsToFill, "positions", 0, "open positions, used with --auto")
	cmd.Flags().BoolVar(&auto, "auto", false, "also show the auto-filter decision")
	return cmd
}
