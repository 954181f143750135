// cmd/resumectl/analyze.go
package main

import (
	"resume-screening-workers/internal/reporting"
	"resume-screening-workers/internal/resume/ats"

	"github.com/spf13/cobra"
)

type analyzeOutput struct {
	File   string              `json:"file"`
	Name   string              `json:"name"`
	Band   string              `json:"band"`
	Result *ats.AnalysisResult `json:"result"`
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze FILE",
		Short: "Run the Tier 1 and Tier 2 ATS analysis on a CV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.pipeline()
			if err != nil {
				return err
			}
			c, _, err := opts.loadCandidate(cmd.Context(), p, args[0])
			if err != nil {
				return err
			}

			result, err := p.RunAnalysis(c, opts.now())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), analyzeOutput{
				File:   args[0],
				Name:   c.Name,
				Band:   reporting.Band(result.OverallScore),
				Result: result,
			})
		},
	}
}
