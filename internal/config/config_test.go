package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDefaults(t *testing.T) Config {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg
}

func TestSetDefaults(t *testing.T) {
	cfg := loadDefaults(t)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "findingsd", cfg.Logger.ServiceName)

	assert.Equal(t, 10000, cfg.Database.FetchLimit)

	assert.Equal(t, "parse-jobs", cfg.PubSub.JobTopic)
	assert.Equal(t, "job-acknowledgements", cfg.PubSub.AckTopic)
	assert.Equal(t, "findingsd-parse-jobs", cfg.PubSub.SubscriptionID)
	assert.Equal(t, 4, cfg.PubSub.MaxConcurrentBatches)
	assert.Zero(t, cfg.PubSub.IntakePerSecond)

	assert.False(t, cfg.Pipeline.DedupeOnLocation)
	assert.Equal(t, "./exports", cfg.GitHub.ExportRoot)
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) Config {
		cfg := loadDefaults(t)
		cfg.Database.URL = "postgres://localhost:5432/findings"
		return cfg
	}

	t.Run("should accept defaults with a database url", func(t *testing.T) {
		cfg := valid(t)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("should require a database url", func(t *testing.T) {
		cfg := valid(t)
		cfg.Database.URL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("should reject a negative fetch limit", func(t *testing.T) {
		cfg := valid(t)
		cfg.Database.FetchLimit = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("should reject negative concurrency", func(t *testing.T) {
		cfg := valid(t)
		cfg.PubSub.MaxConcurrentBatches = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("should reject a negative intake rate", func(t *testing.T) {
		cfg := valid(t)
		cfg.PubSub.IntakePerSecond = -0.5
		assert.Error(t, cfg.Validate())
	})
}
