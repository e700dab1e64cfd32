package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyPackage    = "package"
	KeyScope      = "scope"
	KeyComplexity = "complexity"
	KeyTokens     = "tokens"
	KeyFMStatus   = "frontmatter_status"
	KeyDocuments  = "documents"
	KeySkipped    = "skipped"
	KeyDurationMS = "duration_ms"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyRequestID  = "request_id"
	KeyResponseSz = "response_size"
	KeyJobName    = "job_name"
	KeyEvent      = "event"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr            { return slog.String(KeyRunID, id) }
func Path(p string) slog.Attr              { return slog.String(KeyPath, p) }
func File(f string) slog.Attr              { return slog.String(KeyFile, f) }
func Package(p string) slog.Attr           { return slog.String(KeyPackage, p) }
func Scope(s string) slog.Attr             { return slog.String(KeyScope, s) }
func Complexity(c string) slog.Attr        { return slog.String(KeyComplexity, c) }
func Tokens(n int) slog.Attr               { return slog.Int(KeyTokens, n) }
func FrontmatterStatus(s string) slog.Attr { return slog.String(KeyFMStatus, s) }
func Documents(n int) slog.Attr            { return slog.Int(KeyDocuments, n) }
func Skipped(n int) slog.Attr              { return slog.Int(KeySkipped, n) }
func DurationMS(ms float64) slog.Attr      { return slog.Float64(KeyDurationMS, ms) }
func Method(m string) slog.Attr            { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr            { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr        { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr        { return slog.String(KeyRemoteAddr, a) }
func RequestID(id string) slog.Attr        { return slog.String(KeyRequestID, id) }
func ResponseSize(n int) slog.Attr         { return slog.Int(KeyResponseSz, n) }
func JobName(n string) slog.Attr           { return slog.String(KeyJobName, n) }
func Event(e string) slog.Attr             { return slog.String(KeyEvent, e) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
