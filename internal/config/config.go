package config

import (
	"path/filepath"
	"time"
)

// CurrentVersion is the only configuration file version understood by Load.
const CurrentVersion = "1.0"

// Config is the llmdocs configuration file.
type Config struct {
	Version    string           `yaml:"version"`
	Content    ContentConfig    `yaml:"content"`
	Output     OutputConfig     `yaml:"output"`
	Hints      HintsConfig      `yaml:"hints,omitempty"`
	Server     ServerConfig     `yaml:"server,omitempty"`
	State      StateConfig      `yaml:"state,omitempty"`
	Watch      WatchConfig      `yaml:"watch,omitempty"`
	Schedule   ScheduleConfig   `yaml:"schedule,omitempty"`
	Monitoring MonitoringConfig `yaml:"monitoring,omitempty"`
	Notify     NotifyConfig     `yaml:"notify,omitempty"`

	// baseDir is the directory of the loaded file; relative paths resolve against it.
	baseDir string
}

// ContentConfig describes the Markdown source tree.
type ContentConfig struct {
	Dir        string   `yaml:"dir"`                  // content root
	Extensions []string `yaml:"extensions,omitempty"` // file extensions treated as Markdown
	Exclude    []string `yaml:"exclude,omitempty"`    // glob patterns matched against relative paths
}

// OutputConfig describes where optimized documents are written.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Clean       bool   `yaml:"clean"`                 // remove the output dir before a full run
	IndexFile   string `yaml:"index_file,omitempty"`  // llms.txt file name, relative to Dir
	Title       string `yaml:"title,omitempty"`       // index heading
	Description string `yaml:"description,omitempty"` // index summary line
	Concurrency int    `yaml:"concurrency,omitempty"` // parallel documents per run
}

// HintsConfig overrides the fallback hint values used when a page does not set them.
type HintsConfig struct {
	Package    string `yaml:"package,omitempty"`
	Scope      string `yaml:"scope,omitempty"`
	Complexity string `yaml:"complexity,omitempty"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout,omitempty"`
	Compress        bool   `yaml:"compress"`                  // gzip responses
	RunsPerMinute   int    `yaml:"runs_per_minute,omitempty"` // POST /api/runs budget, 0 = unlimited
}

// StateConfig configures the incremental state database.
type StateConfig struct {
	Path        string `yaml:"path"`
	Incremental bool   `yaml:"incremental"`
}

// WatchConfig configures filesystem watching.
type WatchConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Debounce string `yaml:"debounce,omitempty"`
}

// ScheduleConfig configures periodic full runs.
type ScheduleConfig struct {
	Interval string `yaml:"interval,omitempty"` // empty disables scheduling
}

// MonitoringConfig represents monitoring and observability configuration.
type MonitoringConfig struct {
	Metrics MonitoringMetrics `yaml:"metrics"`
	Health  MonitoringHealth  `yaml:"health"`
	Logging MonitoringLogging `yaml:"logging"`
}

// MonitoringMetrics represents metrics configuration.
type MonitoringMetrics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MonitoringHealth represents health check configuration.
type MonitoringHealth struct {
	Path string `yaml:"path"`
}

// MonitoringLogging represents logging configuration.
type MonitoringLogging struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// NotifyConfig forwards pipeline events to NATS. An empty URL disables it.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"` // subject prefix; the event name is appended
}

// Enabled reports whether event forwarding is configured.
func (n NotifyConfig) Enabled() bool { return n.NATSURL != "" }

// ResolvePath makes p absolute relative to the directory of the loaded config file.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.baseDir == "" {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// ContentDir returns the resolved content root.
func (c *Config) ContentDir() string { return c.ResolvePath(c.Content.Dir) }

// OutputDir returns the resolved output root.
func (c *Config) OutputDir() string { return c.ResolvePath(c.Output.Dir) }

// StatePath returns the resolved state database path, or ":memory:" unchanged.
func (c *Config) StatePath() string {
	if c.State.Path == MemoryStatePath {
		return c.State.Path
	}
	return c.ResolvePath(c.State.Path)
}

// DebounceDuration returns the parsed watch debounce. Validation guarantees it parses.
func (c *Config) DebounceDuration() time.Duration {
	d, _ := time.ParseDuration(c.Watch.Debounce)
	return d
}

// ScheduleInterval returns the parsed schedule interval, zero when disabled.
func (c *Config) ScheduleInterval() time.Duration {
	if c.Schedule.Interval == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Schedule.Interval)
	return d
}

// ShutdownTimeout returns the parsed server shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ShutdownTimeout)
	return d
}
