package errors

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	a := NewHTTPErrorAdapter(slog.New(slog.NewTextHandler(io.Discard, nil)))

	cases := map[string]struct {
		err  error
		want int
	}{
		"nil":         {nil, http.StatusOK},
		"plain":       {errors.New("x"), http.StatusInternalServerError},
		"validation":  {ValidationError("bad path").Build(), http.StatusBadRequest},
		"not found":   {NotFoundError("missing").Build(), http.StatusNotFound},
		"frontmatter": {FrontmatterError("bad").Build(), http.StatusUnprocessableEntity},
		"render":      {RenderError("bad").Build(), http.StatusUnprocessableEntity},
		"runtime":     {RuntimeError("shutting down").Build(), http.StatusServiceUnavailable},
		"store":       {StoreError("locked").Build(), http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := a.StatusCodeFor(tc.err); got != tc.want {
				t.Errorf("StatusCodeFor() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	a := NewHTTPErrorAdapter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/llm/sdk/missing", nil)

	a.WriteErrorResponse(rec, req, NotFoundError("document not found").WithContext("path", "/sdk/missing").Build())

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var payload HTTPErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error != "document not found" || payload.Code != "not_found" {
		t.Errorf("unexpected payload %+v", payload)
	}
	if payload.Details["path"] != "/sdk/missing" {
		t.Errorf("expected path detail, got %v", payload.Details)
	}
}
