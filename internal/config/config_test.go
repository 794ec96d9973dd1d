package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SOURCE_PATH", "DESTINATION_PATH", "TARGET_WIDTH", "TARGET_HEIGHT", "REDIS_ADDR", "RABBITMQ_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ResizeConfig{
		SourcePath:      DefaultSourcePath,
		DestinationPath: DefaultDestinationPath,
		TargetWidth:     1040,
		TargetHeight:    1040,
	}, cfg.Resize)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.RabbitMQ.URL)
	assert.Equal(t, "image_resize", cfg.RabbitMQ.Queue)
	assert.Equal(t, 24*time.Hour, cfg.Cache.Duration)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SOURCE_PATH", "/tmp/in.png")
	t.Setenv("DESTINATION_PATH", "/tmp/out.png")
	t.Setenv("TARGET_WIDTH", "512")
	t.Setenv("TARGET_HEIGHT", "not-a-number")
	t.Setenv("CACHE_DURATION", "90m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/in.png", cfg.Resize.SourcePath)
	assert.Equal(t, "/tmp/out.png", cfg.Resize.DestinationPath)
	assert.Equal(t, 512, cfg.Resize.TargetWidth)
	assert.Equal(t, DefaultTargetHeight, cfg.Resize.TargetHeight, "unparsable value falls back to the default")
	assert.Equal(t, 90*time.Minute, cfg.Cache.Duration)
}

func TestResizeConfigValidate(t *testing.T) {
	valid := ResizeConfig{SourcePath: "a.png", DestinationPath: "b.png", TargetWidth: 1040, TargetHeight: 1040}

	tests := []struct {
		name    string
		mutate  func(*ResizeConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*ResizeConfig) {}},
		{name: "missing source", mutate: func(c *ResizeConfig) { c.SourcePath = "" }, wantErr: "source path"},
		{name: "missing destination", mutate: func(c *ResizeConfig) { c.DestinationPath = "" }, wantErr: "destination path"},
		{name: "zero width", mutate: func(c *ResizeConfig) { c.TargetWidth = 0 }, wantErr: "must be positive"},
		{name: "negative height", mutate: func(c *ResizeConfig) { c.TargetHeight = -1 }, wantErr: "must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
