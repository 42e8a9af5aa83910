// Package config defines the application configuration, loaded from a YAML
// file and FINDINGSD_ environment variables via viper. All collaborators are
// constructed explicitly from this; there are no ambient singletons.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the root configuration object.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger"`
	Database DatabaseConfig `mapstructure:"database"`
	PubSub   PubSubConfig   `mapstructure:"pubsub"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	GitHub   GitHubConfig   `mapstructure:"github"`
}

// LoggerConfig controls the zap logger setup.
type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"` // "console" or "json"
	ServiceName string `mapstructure:"service_name"`
	AddSource   bool   `mapstructure:"add_source"`

	// File rotation (handled by lumberjack). Empty LogFile disables the
	// file core.
	LogFile    string `mapstructure:"log_file"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// DatabaseConfig points at the findings store.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`

	// FetchLimit caps one existing-set fetch during reconciliation.
	FetchLimit int `mapstructure:"fetch_limit"`
}

// PubSubConfig wires the trigger subscription and the acknowledgement topic.
type PubSubConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	SubscriptionID  string `mapstructure:"subscription_id"`
	JobTopic        string `mapstructure:"job_topic"`
	AckTopic        string `mapstructure:"ack_topic"`
	CredentialsJSON string `mapstructure:"credentials_json"`

	// CreateResources provisions missing topics/subscriptions at startup.
	// Meant for development; production resources exist out of band.
	CreateResources bool `mapstructure:"create_resources"`

	MaxConcurrentBatches int     `mapstructure:"max_concurrent_batches"`
	IntakePerSecond      float64 `mapstructure:"intake_per_second"`
}

// PipelineConfig tunes reconciliation policy.
type PipelineConfig struct {
	// DedupeOnLocation folds the finding location into the identity
	// fingerprint. Off by default: alertNumber+title is the reference
	// dedup scope.
	DedupeOnLocation bool `mapstructure:"dedupe_on_location"`
}

// GitHubConfig configures the alert export fetcher.
type GitHubConfig struct {
	Token      string `mapstructure:"token"`
	ExportRoot string `mapstructure:"export_root"`
}

// SetDefaults registers every default value on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "findingsd")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)

	v.SetDefault("database.fetch_limit", 10000)

	v.SetDefault("pubsub.job_topic", "parse-jobs")
	v.SetDefault("pubsub.ack_topic", "job-acknowledgements")
	v.SetDefault("pubsub.subscription_id", "findingsd-parse-jobs")
	v.SetDefault("pubsub.max_concurrent_batches", 4)
	v.SetDefault("pubsub.intake_per_second", 0)

	v.SetDefault("github.export_root", "./exports")
}

// Validate checks the invariants the rest of the system assumes.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.Database.FetchLimit < 0 {
		return fmt.Errorf("database.fetch_limit must not be negative")
	}
	if c.PubSub.MaxConcurrentBatches < 0 {
		return fmt.Errorf("pubsub.max_concurrent_batches must not be negative")
	}
	if c.PubSub.IntakePerSecond < 0 {
		return fmt.Errorf("pubsub.intake_per_second must not be negative")
	}
	return nil
}
