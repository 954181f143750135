// cmd/resumectl/extract.go
package main

import (
	"resume-screening-workers/internal/resume/document"
	"resume-screening-workers/internal/resume/fields"

	"github.com/spf13/cobra"
)

type extractOutput struct {
	File         string            `json:"file"`
	FileType     document.FileType `json:"fileType"`
	Backend      string            `json:"backend"`
	Chars        int               `json:"chars"`
	FilledFields []string          `json:"filledFields"`
	Fields       fields.Extracted  `json:"fields"`
	Text         string            `json:"text,omitempty"`
}

func newExtractCmd(opts *options) *cobra.Command {
	var withText bool

	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Extract text and structured fields from a CV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.pipeline()
			if err != nil {
				return err
			}
			c, res, err := opts.loadCandidate(cmd.Context(), p, args[0])
			if err != nil {
				return err
			}

			out := extractOutput{
				File:         args[0],
				FileType:     res.FileType,
				Backend:      res.Backend,
				Chars:        res.Chars,
				FilledFields: res.Filled,
				Fields:       fields.Extract(c.CVText),
			}
			if withText {
				out.Text = c.CVText
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().BoolVar(&withText, "text", false, "include the full extracted text")
	return cmd
}
