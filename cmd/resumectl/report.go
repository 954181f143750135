// cmd/resumectl/report.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/reporting"

	"github.com/spf13/cobra"
)

type reportFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

type reportOutput struct {
	Out      string          `json:"out"`
	Analyzed int             `json:"analyzed"`
	Failed   []reportFailure `json:"failed,omitempty"`
}

func newReportCmd(opts *options) *cobra.Command {
	var (
		out     string
		jobName string
	)

	cmd := &cobra.Command{
		Use:   "report DIR",
		Short: "Analyse every CV in a directory and write an ATS workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := listFiles(args[0])
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no files found in %s", args[0])
			}

			p, err := opts.pipeline()
			if err != nil {
				return err
			}

			var (
				candidates []*models.Candidate
				result     reportOutput
			)
			for i, path := range files {
				c, _, err := opts.loadCandidate(cmd.Context(), p, path)
				if err == nil {
					c.ID = int64(i + 1)
					_, err = p.RunAnalysis(c, opts.now())
				}
				if err != nil {
					opts.log.Warn("Skipping CV", map[string]interface{}{
						"file":  path,
						"error": err.Error(),
					})
					result.Failed = append(result.Failed, reportFailure{File: path, Error: err.Error()})
					continue
				}
				candidates = append(candidates, c)
			}

			report := reporting.Report{Candidates: candidates, GeneratedAt: opts.now()}
			if jobName != "" {
				report.Job = &models.JobPosition{Name: jobName, State: models.JobStateOpen}
			}
			saved, err := reporting.NewWorkbookExporter().SaveFile(report, out)
			if err != nil {
				return err
			}

			result.Out = saved
			result.Analyzed = len(candidates)
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "ats-report.xlsx", "workbook path")
	cmd.Flags().StringVar(&jobName, "job", "", "job position name shown in the summary sheet")
	return cmd
}

// listFiles returns the regular files directly under dir, sorted by name.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
