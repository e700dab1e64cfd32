package config

// Default values applied to unset fields.
const (
	DefaultContentDir      = "content"
	DefaultOutputDir       = "llm"
	DefaultIndexFile       = "llms.txt"
	DefaultIndexTitle      = "Documentation"
	DefaultServerAddr      = ":8080"
	DefaultShutdownTimeout = "10s"
	DefaultStatePath       = ".llmdocs/state.db"
	DefaultDebounce        = "300ms"
	DefaultMetricsPath     = "/metrics"
	DefaultHealthPath      = "/healthz"
	DefaultNotifySubject   = "llmdocs.events"

	// MemoryStatePath keeps state in memory only.
	MemoryStatePath = ":memory:"
)

// DefaultExtensions are the file extensions treated as Markdown.
var DefaultExtensions = []string{".md", ".markdown"}

// applyDefaults fills unset fields. Boolean switches keep their zero values.
func applyDefaults(c *Config) {
	if c.Version == "" {
		c.Version = CurrentVersion
	}
	if c.Content.Dir == "" {
		c.Content.Dir = DefaultContentDir
	}
	if len(c.Content.Extensions) == 0 {
		c.Content.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if c.Output.IndexFile == "" {
		c.Output.IndexFile = DefaultIndexFile
	}
	if c.Output.Title == "" {
		c.Output.Title = DefaultIndexTitle
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.State.Path == "" {
		c.State.Path = DefaultStatePath
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = DefaultDebounce
	}
	if c.Notify.Enabled() && c.Notify.Subject == "" {
		c.Notify.Subject = DefaultNotifySubject
	}
	if c.Monitoring.Metrics.Path == "" {
		c.Monitoring.Metrics.Path = DefaultMetricsPath
	}
	if c.Monitoring.Health.Path == "" {
		c.Monitoring.Health.Path = DefaultHealthPath
	}
	if c.Monitoring.Logging.Level == "" {
		c.Monitoring.Logging.Level = LogLevelInfo
	}
	if c.Monitoring.Logging.Format == "" {
		c.Monitoring.Logging.Format = LogFormatText
	}
}
