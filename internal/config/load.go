package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/logfields"
)

// Load reads, normalizes, defaults and validates a configuration file.
//
// Before parsing, .env and .env.local next to the file are loaded into the
// process environment and ${VAR} references in the YAML are expanded.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return nil, derrors.NotFoundError("configuration file not found").
			WithContext("path", configPath).
			Build()
	}

	dir := filepath.Dir(configPath)
	loaded, err := loadEnvFiles(dir)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to load env file").
			Fatal().
			Build()
	}
	for _, f := range loaded {
		slog.Debug("Loaded environment variables", logfields.File(f))
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	cfg.baseDir = abs
	return finalize(cfg)
}

// Parse decodes YAML configuration after environment expansion, without
// normalization or validation.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to unmarshal config").
			Fatal().
			Build()
	}
	return &cfg, nil
}

// Default returns a validated configuration with every default applied,
// resolving relative paths against baseDir.
func Default(baseDir string) (*Config, error) {
	return finalize(&Config{Version: CurrentVersion, baseDir: baseDir})
}

func finalize(cfg *Config) (*Config, error) {
	if cfg.Version != "" && cfg.Version != CurrentVersion {
		return nil, derrors.ConfigError("unsupported configuration version").
			WithContext("version", cfg.Version).
			WithContext("expected", CurrentVersion).
			Build()
	}

	res, err := NormalizeConfig(cfg)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "normalize").Fatal().Build()
	}
	for _, w := range res.Warnings {
		slog.Warn("Config normalization", slog.String("warning", w))
	}

	applyDefaults(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("path", configPath).
			Build()
	}

	example := Config{
		Version: CurrentVersion,
		Content: ContentConfig{
			Dir:        "./content",
			Extensions: DefaultExtensions,
			Exclude:    []string{"drafts/*"},
		},
		Output: OutputConfig{
			Dir:         "./llm",
			Clean:       false,
			IndexFile:   DefaultIndexFile,
			Title:       "Project Documentation",
			Description: "LLM-optimized copies of the documentation pages",
			Concurrency: 4,
		},
		Hints: HintsConfig{
			Package:    "${LLMDOCS_PACKAGE}",
			Scope:      "general",
			Complexity: "intermediate",
		},
		Server: ServerConfig{
			Addr:            DefaultServerAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
			Compress:        true,
			RunsPerMinute:   6,
		},
		State: StateConfig{
			Path:        DefaultStatePath,
			Incremental: true,
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: DefaultDebounce,
		},
		Schedule: ScheduleConfig{
			Interval: "1h",
		},
		Monitoring: MonitoringConfig{
			Metrics: MonitoringMetrics{Enabled: true, Path: DefaultMetricsPath},
			Health:  MonitoringHealth{Path: DefaultHealthPath},
			Logging: MonitoringLogging{Level: LogLevelInfo, Format: LogFormatText},
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to marshal config").Build()
	}
	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to create config directory").Build()
		}
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
