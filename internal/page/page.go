// Package page serves the booklet imposition form. The page count lives in
// the pages query parameter, so a result can be bookmarked, shared and
// reloaded; every load re-validates it exactly like a fresh submission.
package page

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/eugenenazirov/booklet-imposer/internal/imposition"
	"github.com/eugenenazirov/booklet-imposer/internal/messages"
	"github.com/eugenenazirov/booklet-imposer/internal/pagecount"
	"github.com/eugenenazirov/booklet-imposer/internal/render"
)

const langParam = "lang"

// Handler renders the index page.
type Handler struct {
	calculator imposition.Calculator
	localizer  *messages.Localizer
	tmpl       *template.Template
	maxPages   int
	logger     *zap.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithMaxPages sets the largest page count accepted. Zero disables the bound.
func WithMaxPages(maxPages int) Option {
	return func(h *Handler) {
		h.maxPages = maxPages
	}
}

// WithLogger sets the logger used for unexpected failures.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler constructs a page Handler rendering tmpl.
func NewHandler(calc imposition.Calculator, localizer *messages.Localizer, tmpl *template.Template, opts ...Option) *Handler {
	h := &Handler{
		calculator: calc,
		localizer:  localizer,
		tmpl:       tmpl,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	explicitLang := query.Get(langParam)
	tag := h.localizer.Tag(explicitLang, r.Header.Get("Accept-Language"))
	p := h.localizer.PrinterFor(tag)

	data := render.NewPageData(tag, p)
	status := http.StatusOK

	pages, ok, err := pagecount.FromQuery(query, h.maxPages)
	switch {
	case !ok:
	case err != nil:
		data.Input = query.Get(pagecount.Param)
		data.Error = messages.ErrorText(p, err, h.maxPages)
		status = http.StatusBadRequest
	case !pagecount.IsCanonical(query.Get(pagecount.Param), pages):
		http.Redirect(w, r, canonicalURL(pages, explicitLang), http.StatusSeeOther)
		return
	default:
		data.Input = strconv.Itoa(pages)
		result, err := h.calculator.Compute(pages)
		if err != nil {
			status = http.StatusBadRequest
			if !errors.Is(err, imposition.ErrInvalidPages) {
				h.logger.Error("imposition failed", zap.Int("pages", pages), zap.Error(err))
				status = http.StatusInternalServerError
			}
			data.Error = messages.ErrorText(p, err, h.maxPages)
			break
		}
		view := render.NewView(result, p)
		data.View = &view
	}

	var buf bytes.Buffer
	if err := render.HTML(&buf, h.tmpl, data); err != nil {
		h.logger.Error("render page failed", zap.Error(err))
		http.Error(w, p.Sprintf(messages.InternalError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func canonicalURL(pages int, lang string) string {
	values := url.Values{}
	values.Set(pagecount.Param, strconv.Itoa(pages))
	if lang != "" {
		values.Set(langParam, lang)
	}
	return "/?" + values.Encode()
}
