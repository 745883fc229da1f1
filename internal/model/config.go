package model

import "time"

// Config holds the complete scirap configuration
type Config struct {
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Scoring      ScoringConfig      `yaml:"scoring" mapstructure:"scoring"`
	Catalog      CatalogConfig      `yaml:"catalog" mapstructure:"catalog"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
}

// HTTPConfig configures URL ingestion
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// CacheConfig configures the fetch cache. Only fetched bytes are cached,
// never evaluation results.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`

	// Documents larger than this stay on disk only; 0 means no limit
	MemoryMaxBytes int64 `yaml:"memory_max_bytes" mapstructure:"memory_max_bytes"`
}

// ConcurrencyConfig configures batch parallelism
type ConcurrencyConfig struct {
	Workers         int  `yaml:"workers" mapstructure:"workers"`
	ParallelRubrics bool `yaml:"parallel_rubrics" mapstructure:"parallel_rubrics"`
}

// RateLimitingConfig throttles URL ingestion per domain
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ScoringConfig holds the quality band thresholds as fractions of the maximum score
type ScoringConfig struct {
	HighThreshold     float64 `yaml:"high_threshold" mapstructure:"high_threshold"`
	ModerateThreshold float64 `yaml:"moderate_threshold" mapstructure:"moderate_threshold"`
}

// CatalogConfig selects the rule catalog; an empty path means the built-in one
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Dir           string   `yaml:"dir" mapstructure:"dir"`
	Formats       []string `yaml:"formats" mapstructure:"formats"`
	IncludeFooter bool     `yaml:"include_footer" mapstructure:"include_footer"`
	Verbose       bool     `yaml:"verbose" mapstructure:"verbose"`
}

// LoggingConfig configures the structured logger
type LoggingConfig struct {
	Level   string `yaml:"level" mapstructure:"level"`
	Console bool   `yaml:"console" mapstructure:"console"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "scirap/0.1 (+https://github.com/ppiankov/scirap)",
			MaxBodyBytes:  20_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".scirap-cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,

			MemoryMaxBytes: 2_000_000,
		},
		Concurrency: ConcurrencyConfig{
			Workers:         4,
			ParallelRubrics: true,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Scoring: ScoringConfig{
			HighThreshold:     0.75,
			ModerateThreshold: 0.50,
		},
		Output: OutputConfig{
			Dir:           "./scirap-report",
			Formats:       []string{"csv", "json"},
			IncludeFooter: true,
		},
		Logging: LoggingConfig{
			Level:   "warn",
			Console: false,
		},
	}
}
