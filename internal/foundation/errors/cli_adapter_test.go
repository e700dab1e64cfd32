package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestCLIAdapter(verbose bool) (*CLIErrorAdapter, *bytes.Buffer, *bytes.Buffer) {
	var logs, out bytes.Buffer
	a := NewCLIErrorAdapter(verbose, slog.New(slog.NewTextHandler(&logs, nil)))
	a.out = &out
	return a, &logs, &out
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a, _, _ := newTestCLIAdapter(false)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("x"), 1},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"not found", NotFoundError("missing").Build(), 3},
		{"frontmatter", FrontmatterError("bad yaml").Build(), 4},
		{"config", ConfigError("bad config").Build(), 7},
		{"internal", InternalError("bug").Build(), 10},
		{"store", StoreError("locked").Build(), 11},
		{"runtime", RuntimeError("signal").Build(), 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.ExitCodeFor(tc.err); got != tc.want {
				t.Errorf("ExitCodeFor() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet, _, _ := newTestCLIAdapter(false)
	loud, _, _ := newTestCLIAdapter(true)

	cfg := ConfigError("configuration file not found").WithCause(errors.New("stat: no such file")).Build()
	if got := quiet.FormatError(cfg); got != "Error: configuration file not found" {
		t.Errorf("quiet config format = %q", got)
	}
	if got := loud.FormatError(cfg); !strings.Contains(got, "no such file") {
		t.Errorf("verbose format should include cause, got %q", got)
	}

	st := StoreError("open state").Build()
	if got := quiet.FormatError(st); !strings.Contains(got, "use -v") {
		t.Errorf("expected verbose hint, got %q", got)
	}
}

func TestCLIErrorAdapter_Report(t *testing.T) {
	a, logs, out := newTestCLIAdapter(false)

	code := a.Report(ConfigError("bad config").WithContext("path", "llmdocs.yaml").Build())
	if code != 7 {
		t.Errorf("Report() = %d, want 7", code)
	}
	if !strings.Contains(out.String(), "bad config") {
		t.Errorf("expected user message, got %q", out.String())
	}
	if !strings.Contains(logs.String(), "category=config") {
		t.Errorf("fatal errors should be logged, got %q", logs.String())
	}

	logs.Reset()
	a.Report(NotFoundError("missing").Build())
	if logs.Len() != 0 {
		t.Errorf("non-fatal errors should not be logged in quiet mode, got %q", logs.String())
	}
}
