package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/metrics"
)

type countingRecorder struct {
	metrics.NoopRecorder
	mu    sync.Mutex
	calls []string
	codes []int
}

func (c *countingRecorder) IncHTTPRequest(route string, code int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, route)
	c.codes = append(c.codes, code)
}

func newChain(buf *bytes.Buffer, rec metrics.Recorder) func(string, http.Handler) http.Handler {
	logger := slog.New(slog.NewTextHandler(buf, nil))
	return Chain(logger, derrors.NewHTTPErrorAdapter(logger), rec)
}

func TestChain_RequestID(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	h := newChain(&buf, nil)("test", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "incoming-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "incoming-id", seen)
	assert.Equal(t, "incoming-id", rec.Header().Get(RequestIDHeader))
}

func TestChain_LogsAndRecords(t *testing.T) {
	var buf bytes.Buffer
	recorder := &countingRecorder{}
	h := newChain(&buf, recorder)("docs", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/llm/a", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, []string{"docs"}, recorder.calls)
	assert.Equal(t, []int{http.StatusTeapot}, recorder.codes)
	out := buf.String()
	assert.Contains(t, out, "HTTP request")
	assert.Contains(t, out, "path=/llm/a")
	assert.Contains(t, out, "status=418")
}

func TestChain_RecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	recorder := &countingRecorder{}
	h := newChain(&buf, recorder)("boom", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.Contains(t, buf.String(), "kaboom")
	assert.Equal(t, []int{http.StatusInternalServerError}, recorder.codes)
}

func TestChain_AbortHandlerPropagates(t *testing.T) {
	var buf bytes.Buffer
	h := newChain(&buf, nil)("abort", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.Panics(t, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
