package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "llmdocs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
content:
  dir: docs
  extensions: [md, ".MDX"]
  exclude: ["drafts/*"]
output:
  dir: out
  clean: true
  title: SDK Docs
  concurrency: 8
hints:
  package: sdk
server:
  addr: "127.0.0.1:9000"
state:
  path: ":memory:"
  incremental: true
watch:
  enabled: true
  debounce: 1s
schedule:
  interval: 30m
monitoring:
  metrics:
    enabled: true
  logging:
    level: DEBUG
    format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, filepath.Join(dir, "docs"), cfg.ContentDir())
	assert.Equal(t, filepath.Join(dir, "out"), cfg.OutputDir())
	assert.Equal(t, []string{".md", ".mdx"}, cfg.Content.Extensions)
	assert.Equal(t, []string{"drafts/*"}, cfg.Content.Exclude)
	assert.True(t, cfg.Output.Clean)
	assert.Equal(t, 8, cfg.Output.Concurrency)
	assert.Equal(t, "llms.txt", cfg.Output.IndexFile)
	assert.Equal(t, "sdk", cfg.Hints.Package)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, ":memory:", cfg.StatePath())
	assert.True(t, cfg.State.Incremental)
	assert.Equal(t, time.Second, cfg.DebounceDuration())
	assert.Equal(t, 30*time.Minute, cfg.ScheduleInterval())
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout())
	assert.Equal(t, "/metrics", cfg.Monitoring.Metrics.Path)
	assert.Equal(t, LogLevelDebug, cfg.Monitoring.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Monitoring.Logging.Format)
}

func TestLoad_MinimalAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "version: \"1.0\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultContentDir, cfg.Content.Dir)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Dir)
	assert.Equal(t, DefaultExtensions, cfg.Content.Extensions)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, 300*time.Millisecond, cfg.DebounceDuration())
	assert.Equal(t, time.Duration(0), cfg.ScheduleInterval())
	assert.Equal(t, LogLevelInfo, cfg.Monitoring.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Monitoring.Logging.Format)
	assert.Equal(t, filepath.Join(filepath.Dir(path), DefaultStatePath), cfg.StatePath())
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("LLMDOCS_TEST_PKG", "billing")
	path := writeConfig(t, "version: \"1.0\"\nhints:\n  package: ${LLMDOCS_TEST_PKG}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "billing", cfg.Hints.Package)
}

func TestLoad_EnvFileDoesNotOverride(t *testing.T) {
	t.Setenv("LLMDOCS_TEST_SCOPE", "from-env")
	t.Setenv("LLMDOCS_TEST_COMPLEXITY", "")
	require.NoError(t, os.Unsetenv("LLMDOCS_TEST_COMPLEXITY"))

	path := writeConfig(t, "version: \"1.0\"\nhints:\n  scope: ${LLMDOCS_TEST_SCOPE}\n  complexity: ${LLMDOCS_TEST_COMPLEXITY}\n")
	envFile := filepath.Join(filepath.Dir(path), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LLMDOCS_TEST_SCOPE=from-file\nLLMDOCS_TEST_COMPLEXITY=\"advanced\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Hints.Scope)
	assert.Equal(t, "advanced", cfg.Hints.Complexity)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		category derrors.ErrorCategory
	}{
		{"bad version", "version: \"2.0\"\n", derrors.CategoryConfig},
		{"bad yaml", "version: [\n", derrors.CategoryConfig},
		{"same dirs", "version: \"1.0\"\ncontent:\n  dir: docs\noutput:\n  dir: docs\n", derrors.CategoryConfig},
		{"content inside output", "version: \"1.0\"\ncontent:\n  dir: out/docs\noutput:\n  dir: out\n", derrors.CategoryConfig},
		{"bad debounce", "version: \"1.0\"\nwatch:\n  debounce: soon\n", derrors.CategoryConfig},
		{"negative interval", "version: \"1.0\"\nschedule:\n  interval: -5m\n", derrors.CategoryConfig},
		{"bad exclude", "version: \"1.0\"\ncontent:\n  exclude: [\"[\"]\n", derrors.CategoryConfig},
		{"index with dir", "version: \"1.0\"\noutput:\n  index_file: sub/llms.txt\n", derrors.CategoryConfig},
		{"metrics path", "version: \"1.0\"\nmonitoring:\n  metrics:\n    path: metrics\n", derrors.CategoryConfig},
		{"metrics on health path", "version: \"1.0\"\nmonitoring:\n  metrics:\n    enabled: true\n    path: /healthz\n", derrors.CategoryConfig},
		{"health on stats route", "version: \"1.0\"\nmonitoring:\n  health:\n    path: /api/stats\n", derrors.CategoryConfig},
		{"metrics on index route", "version: \"1.0\"\nmonitoring:\n  metrics:\n    path: /llms.txt\n", derrors.CategoryConfig},
		{"health below document route", "version: \"1.0\"\nmonitoring:\n  health:\n    path: /content/health\n", derrors.CategoryConfig},
		{"wildcard path", "version: \"1.0\"\nmonitoring:\n  health:\n    path: /{check}\n", derrors.CategoryConfig},
		{"negative run budget", "version: \"1.0\"\nserver:\n  runs_per_minute: -1\n", derrors.CategoryConfig},
		{"nats url scheme", "version: \"1.0\"\nnotify:\n  nats_url: http://broker:4222\n", derrors.CategoryConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, derrors.HasCategory(err, tt.category), "got %v", err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryNotFound))
}

func TestDefault(t *testing.T) {
	cfg, err := Default("/srv/site")
	require.NoError(t, err)
	assert.Equal(t, "/srv/site/content", cfg.ContentDir())
	assert.Equal(t, "/srv/site/llm", cfg.OutputDir())
	assert.Equal(t, CurrentVersion, cfg.Version)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "llmdocs.yaml")

	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.True(t, cfg.State.Incremental)
	assert.Equal(t, time.Hour, cfg.ScheduleInterval())

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryValidation))

	require.NoError(t, Init(path, true))
}

func TestLoad_Notify(t *testing.T) {
	cfg, err := Load(writeConfig(t, "version: \"1.0\"\nnotify:\n  nats_url: nats://broker:4222\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Notify.Enabled())
	assert.Equal(t, DefaultNotifySubject, cfg.Notify.Subject)

	cfg, err = Load(writeConfig(t, "version: \"1.0\"\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Notify.Enabled())
	assert.Empty(t, cfg.Notify.Subject)
}

func TestNotifyConfig_Validate(t *testing.T) {
	assert.NoError(t, NotifyConfig{}.Validate())
	assert.NoError(t, NotifyConfig{NATSURL: "tls://broker:4443", Subject: "docs"}.Validate())
	assert.Error(t, NotifyConfig{NATSURL: "nats://broker:4222"}.Validate())
	assert.Error(t, NotifyConfig{NATSURL: "broker:4222", Subject: "docs"}.Validate())
}
