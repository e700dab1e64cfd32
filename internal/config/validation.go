package config

import (
	"path/filepath"
	"strings"
	"time"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
)

// ValidateConfig checks a normalized, defaulted configuration.
func ValidateConfig(c *Config) error {
	if c.Version != CurrentVersion {
		return derrors.ConfigError("unsupported configuration version").
			WithContext("version", c.Version).
			WithContext("expected", CurrentVersion).
			Build()
	}
	if err := validatePaths(c); err != nil {
		return err
	}
	for _, pattern := range c.Content.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return derrors.WrapError(err, derrors.CategoryConfig, "invalid content.exclude pattern").
				Fatal().
				WithContext("pattern", pattern).
				Build()
		}
	}
	for _, ext := range c.Content.Extensions {
		if ext == "" || ext == "." {
			return derrors.ConfigError("empty entry in content.extensions").Build()
		}
	}
	if err := validateDuration("watch.debounce", c.Watch.Debounce, false); err != nil {
		return err
	}
	if err := validateDuration("schedule.interval", c.Schedule.Interval, true); err != nil {
		return err
	}
	if err := validateDuration("server.shutdown_timeout", c.Server.ShutdownTimeout, false); err != nil {
		return err
	}
	if err := validateSection("server", c.Server); err != nil {
		return err
	}
	if err := validateSection("notify", c.Notify); err != nil {
		return err
	}
	return validateHTTPPaths(c)
}

// builtinRoutes are served by the HTTP server regardless of configuration.
var builtinRoutes = []string{"/llms.txt", "/api/stats", "/api/runs"}

// builtinPrefixes hold the document routes; any path below them is taken.
var builtinPrefixes = []string{"/content/", "/llm/", "/render/", "/api/frontmatter/"}

func validateHTTPPaths(c *Config) error {
	for field, p := range map[string]string{
		"monitoring.metrics.path": c.Monitoring.Metrics.Path,
		"monitoring.health.path":  c.Monitoring.Health.Path,
	} {
		if !strings.HasPrefix(p, "/") {
			return derrors.ConfigError("HTTP path must start with '/'").
				WithContext("field", field).
				WithContext("value", p).
				Build()
		}
		if strings.ContainsAny(p, "{} \t") {
			return derrors.ConfigError("HTTP path must be a literal path").
				WithContext("field", field).
				WithContext("value", p).
				Build()
		}
		if collidesWithBuiltin(p) {
			return derrors.ConfigError("HTTP path collides with a built-in route").
				WithContext("field", field).
				WithContext("value", p).
				Build()
		}
	}
	if c.Monitoring.Metrics.Enabled && c.Monitoring.Metrics.Path == c.Monitoring.Health.Path {
		return derrors.ConfigError("monitoring.metrics.path must differ from monitoring.health.path").
			WithContext("value", c.Monitoring.Metrics.Path).
			Build()
	}
	return nil
}

func collidesWithBuiltin(p string) bool {
	for _, r := range builtinRoutes {
		if p == r {
			return true
		}
	}
	for _, prefix := range builtinPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func validatePaths(c *Config) error {
	content := filepath.Clean(c.ContentDir())
	output := filepath.Clean(c.OutputDir())
	if content == output {
		return derrors.ConfigError("output.dir must differ from content.dir").
			WithContext("dir", output).
			Build()
	}
	if rel, err := filepath.Rel(output, content); err == nil && !strings.HasPrefix(rel, "..") {
		return derrors.ConfigError("content.dir must not be inside output.dir").
			WithContext("content", content).
			WithContext("output", output).
			Build()
	}
	if strings.ContainsAny(c.Output.IndexFile, `/\`) {
		return derrors.ConfigError("output.index_file must be a plain file name").
			WithContext("value", c.Output.IndexFile).
			Build()
	}
	return nil
}

func validateDuration(field, raw string, allowEmpty bool) error {
	if raw == "" && allowEmpty {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryConfig, "invalid duration").
			Fatal().
			WithContext("field", field).
			WithContext("value", raw).
			Build()
	}
	if d <= 0 {
		return derrors.ConfigError("duration must be positive").
			WithContext("field", field).
			WithContext("value", raw).
			Build()
	}
	return nil
}
