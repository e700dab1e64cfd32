package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"git.home.luguber.info/inful/llmdocs/internal/content"
	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/frontmatter"
	"git.home.luguber.info/inful/llmdocs/internal/optimizer"
	"git.home.luguber.info/inful/llmdocs/internal/server/responses"
)

// Response headers set on optimized documents.
const (
	HeaderTokenEstimate     = "X-Token-Estimate"
	HeaderFrontmatterStatus = "X-Frontmatter-Status"
)

const (
	contentTypeMarkdown = "text/markdown; charset=utf-8"
	contentTypeHTML     = "text/html; charset=utf-8"
)

// PageLoader loads documents by logical path.
type PageLoader interface {
	Load(ctx context.Context, logicalPath string) (content.Page, error)
}

// DocsHandlers serves documents from the content tree.
type DocsHandlers struct {
	loader       PageLoader
	optimizer    *optimizer.Optimizer
	errorAdapter *derrors.HTTPErrorAdapter
}

// NewDocsHandlers creates document handlers. A nil optimizer uses the defaults.
func NewDocsHandlers(loader PageLoader, o *optimizer.Optimizer, logger *slog.Logger) *DocsHandlers {
	if o == nil {
		o = optimizer.New()
	}
	return &DocsHandlers{
		loader:       loader,
		optimizer:    o,
		errorAdapter: derrors.NewHTTPErrorAdapter(logger),
	}
}

// HandleContent serves the raw Markdown source.
func (h *DocsHandlers) HandleContent(w http.ResponseWriter, r *http.Request) {
	page, ok := h.load(w, r)
	if !ok {
		return
	}
	writeText(w, contentTypeMarkdown, []byte(page.Raw))
}

// HandleLLM serves the optimized document with its token estimate and frontmatter status.
func (h *DocsHandlers) HandleLLM(w http.ResponseWriter, r *http.Request) {
	page, ok := h.load(w, r)
	if !ok {
		return
	}
	res := h.optimizer.OptimizeNamed(page.Doc.RelativePath, page.Raw)
	w.Header().Set(HeaderTokenEstimate, strconv.Itoa(res.TokenEstimate))
	w.Header().Set(HeaderFrontmatterStatus, res.FrontmatterStatus.String())
	writeText(w, contentTypeMarkdown, []byte(res.Content))
}

// HandleRender serves an HTML preview of the document body.
func (h *DocsHandlers) HandleRender(w http.ResponseWriter, r *http.Request) {
	page, ok := h.load(w, r)
	if !ok {
		return
	}
	html, err := page.Render()
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	writeText(w, contentTypeHTML, html)
}

// HandleFrontmatter reports the parsed frontmatter as JSON.
func (h *DocsHandlers) HandleFrontmatter(w http.ResponseWriter, r *http.Request) {
	page, ok := h.load(w, r)
	if !ok {
		return
	}
	ex := h.optimizer.ExtractFrontmatter(page.Raw)
	fields, err := json.Marshal(ex.Fields)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, derrors.WrapError(err, derrors.CategoryInternal, "failed to encode frontmatter").Build())
		return
	}
	resp := responses.FrontmatterResponse{
		Path:          page.Doc.RelativePath,
		Status:        ex.Status.String(),
		Fields:        fields,
		TokenEstimate: optimizer.EstimateTokens(page.Raw),
	}
	if ex.Status == frontmatter.StatusMalformed && ex.Err != nil {
		resp.Error = ex.Err.Error()
	}
	_ = writeJSON(w, http.StatusOK, resp)
}

func (h *DocsHandlers) load(w http.ResponseWriter, r *http.Request) (content.Page, bool) {
	page, err := h.loader.Load(r.Context(), "/"+r.PathValue("path"))
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return content.Page{}, false
	}
	return page, true
}
