// cmd/resumectl/search.go
package main

import (
	"resume-screening-workers/internal/common/config"
	"resume-screening-workers/internal/common/database"
	"resume-screening-workers/internal/search"

	"github.com/spf13/cobra"
)

func newSearchCmd(opts *options) *cobra.Command {
	var q search.Query

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search indexed ATS analyses in Elasticsearch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts.configFile)
			if err != nil {
				return err
			}
			es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}

			index := search.NewAnalysisIndex(es, cfg.Database.Elasticsearch.AnalysisIndex, opts.log)
			res, err := index.Search(cmd.Context(), q)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&q.Keywords, "keywords", "k", "", "free text matched against name, position, skills and keywords")
	cmd.Flags().Int64Var(&q.JobPositionID, "job", 0, "restrict to candidates linked to this job position")
	cmd.Flags().StringSliceVar(&q.Statuses, "status", nil, "candidate statuses to include")
	cmd.Flags().Float64Var(&q.MinOverallScore, "min-score", 0, "minimum overall ATS score")
	cmd.Flags().StringVar(&q.MissingSection, "missing-section", "", "only candidates missing this CV section")
	cmd.Flags().IntVar(&q.From, "from", 0, "offset of the first hit")
	cmd.Flags().IntVar(&q.Size, "size", 0, "page size, default 20 and at most 100")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
