package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeConfig(t *testing.T) {
	cfg := &Config{
		Content: ContentConfig{Extensions: []string{" MD", ".markdown"}},
		Output:  OutputConfig{Concurrency: -3},
		Monitoring: MonitoringConfig{Logging: MonitoringLogging{
			Level:  "Warning",
			Format: "yaml",
		}},
	}

	res, err := NormalizeConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{".md", ".markdown"}, cfg.Content.Extensions)
	assert.Equal(t, 0, cfg.Output.Concurrency)
	assert.Equal(t, LogLevelWarn, cfg.Monitoring.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Monitoring.Logging.Format)
	assert.Len(t, res.Warnings, 3)
	assert.Contains(t, res.Warnings[2], "unknown monitoring.logging.format 'yaml'")
}

func TestNormalizeConfig_EmptyEnumsLeftForDefaults(t *testing.T) {
	cfg := &Config{}
	res, err := NormalizeConfig(cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, LogLevel(""), cfg.Monitoring.Logging.Level)
}

func TestNormalizeConfig_Nil(t *testing.T) {
	_, err := NormalizeConfig(nil)
	assert.Error(t, err)
}

func TestLogLevel_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, NormalizeLogLevel("debug").SlogLevel())
	assert.Equal(t, slog.LevelWarn, NormalizeLogLevel("WARN").SlogLevel())
	assert.Equal(t, slog.LevelError, NormalizeLogLevel("error").SlogLevel())
	assert.Equal(t, slog.LevelInfo, NormalizeLogLevel("bogus").SlogLevel())
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat(" JSON "))
}
