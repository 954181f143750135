// internal/workers/reporting/export-ats-report/config.go
package exportatsreport

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	// ReportPrefix is used for uploads when no object key is given.
	ReportPrefix string `mapstructure:"report_prefix"`
	// ReportDir receives the workbook when no object store is configured.
	ReportDir string `mapstructure:"report_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 2,
		Timeout:       2 * time.Minute,
		ReportPrefix:  "reports/",
		ReportDir:     "reports",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.ReportDir == "" {
		return fmt.Errorf("report_dir is required")
	}
	return nil
}
