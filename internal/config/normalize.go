package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/llmdocs/internal/foundation/normalization"
)

// NormalizationResult captures adjustments & warnings from the normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated and bounded fields prior to default application.
// It mutates the provided config in-place and returns a result describing any coercions.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}
	normalizeContent(&c.Content)
	normalizeOutput(&c.Output, res)
	normalizeMonitoring(&c.Monitoring, res)
	return res, nil
}

func normalizeContent(cc *ContentConfig) {
	for i, ext := range cc.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cc.Extensions[i] = ext
	}
}

func normalizeOutput(o *OutputConfig, res *NormalizationResult) {
	if o.Concurrency < 0 {
		res.Warnings = append(res.Warnings, warnChanged("output.concurrency", o.Concurrency, 0))
		o.Concurrency = 0
	}
}

func normalizeMonitoring(m *MonitoringConfig, res *NormalizationResult) {
	m.Logging.Level = normalizeEnum("monitoring.logging.level", m.Logging.Level, logLevelNormalizer, res)
	m.Logging.Format = normalizeEnum("monitoring.logging.format", m.Logging.Format, logFormatNormalizer, res)
}

// normalizeEnum leaves empty values for defaults and replaces unknown ones with the normalizer default.
func normalizeEnum[T ~string](field string, current T, n *normalization.Normalizer[T], res *NormalizationResult) T {
	if strings.TrimSpace(string(current)) == "" {
		return ""
	}
	if v, ok := n.Lookup(string(current)); ok {
		if v != current {
			res.Warnings = append(res.Warnings, warnChanged(field, current, v))
		}
		return v
	}
	def := n.Default()
	res.Warnings = append(res.Warnings, warnUnknown(field, string(current), string(def)))
	return def
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
