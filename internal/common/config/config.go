// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Storage       StorageConfig           `mapstructure:"storage"`
	Messaging     MessagingConfig         `mapstructure:"messaging"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Screening     ScreeningConfig         `mapstructure:"screening"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Server        ServerConfig            `mapstructure:"server"`
	Tracing       TracingConfig           `mapstructure:"tracing"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the lib/pq key/value connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses     []string `mapstructure:"addresses"`
	Username      string   `mapstructure:"username"`
	Password      string   `mapstructure:"password"`
	AnalysisIndex string   `mapstructure:"analysis_index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// CacheTTL is the lifetime of cached job criteria, in seconds.
	CacheTTL int `mapstructure:"cache_ttl"`
}

// StorageConfig points at the bucket CV files are uploaded to.
type StorageConfig struct {
	S3 struct {
		Region   string `mapstructure:"region"`
		Bucket   string `mapstructure:"bucket"`
		Endpoint string `mapstructure:"endpoint"`
		// Static keys for S3-compatible stores. Empty means the default
		// credential chain.
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		// ReportPrefix is the key prefix exported workbooks are written under.
		ReportPrefix string `mapstructure:"report_prefix"`
	} `mapstructure:"s3"`
	// DownloadTimeout bounds CV downloads by URL, in milliseconds.
	DownloadTimeout int `mapstructure:"download_timeout"`
	MaxFileBytes    int `mapstructure:"max_file_bytes"`
}

type MessagingConfig struct {
	AMQP struct {
		Enabled  bool   `mapstructure:"enabled"`
		URL      string `mapstructure:"url"`
		Exchange string `mapstructure:"exchange"`
	} `mapstructure:"amqp"`
}

type NotificationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled  bool   `mapstructure:"enabled"`
		SenderID string `mapstructure:"sender_id"`
	} `mapstructure:"sms"`
	CompanyName string `mapstructure:"company_name"`
}

// ScreeningConfig tunes the extraction and scoring pipeline.
type ScreeningConfig struct {
	MinExtractedChars int `mapstructure:"min_extracted_chars"`
	// DictionaryPath is a newline separated word list. Empty selects the
	// long-word heuristic spell checker.
	DictionaryPath string `mapstructure:"dictionary_path"`
	ReportDir      string `mapstructure:"report_dir"`
	// FilterLockTTL bounds how long one auto-filter run may hold a job, in milliseconds.
	FilterLockTTL int `mapstructure:"filter_lock_ttl"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TracingConfig enables span export for pipeline stages.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// JaegerEndpoint is the collector's HTTP endpoint, e.g.
	// http://localhost:14268/api/traces.
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // milliseconds
}

func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.CacheTTL) * time.Second
}

func (s ScreeningConfig) LockTTL() time.Duration {
	return GetDuration(s.FilterLockTTL)
}
