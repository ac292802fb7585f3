package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/message"

	"github.com/eugenenazirov/booklet-imposer/internal/imposition"
	"github.com/eugenenazirov/booklet-imposer/internal/messages"
	"github.com/eugenenazirov/booklet-imposer/internal/pagecount"
	"github.com/eugenenazirov/booklet-imposer/internal/render"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires the calculator and message catalogs into HTTP handlers.
type Handler struct {
	calculator imposition.Calculator
	localizer  *messages.Localizer
	logger     *zap.Logger
	maxPages   int

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMaxPages sets the largest page count accepted. Zero disables the bound.
func WithMaxPages(maxPages int) HandlerOption {
	return func(h *Handler) {
		h.maxPages = maxPages
	}
}

// WithLogger sets the logger used for unexpected failures.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(calc imposition.Calculator, localizer *messages.Localizer, opts ...HandlerOption) *Handler {
	h := &Handler{
		calculator: calc,
		localizer:  localizer,
		logger:     zap.NewNop(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetImposition(w http.ResponseWriter, r *http.Request) {
	p := h.printer(r)

	pages, ok, err := pagecount.FromQuery(r.URL.Query(), h.maxPages)
	if !ok {
		err = fmt.Errorf("%w: missing %s parameter", pagecount.ErrEmpty, pagecount.Param)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, messages.ErrorText(p, err, h.maxPages), err.Error())
		return
	}

	h.respondWithImposition(w, r, p, pages)
}

func (h *Handler) handlePostImposition(w http.ResponseWriter, r *http.Request) {
	p := h.printer(r)

	var req impositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, p.Sprintf(messages.InvalidRequest), "unable to parse JSON payload")
		return
	}

	if err := pagecount.Check(req.Pages, h.maxPages); err != nil {
		writeError(w, http.StatusBadRequest, messages.ErrorText(p, err, h.maxPages), err.Error())
		return
	}

	h.respondWithImposition(w, r, p, req.Pages)
}

func (h *Handler) respondWithImposition(w http.ResponseWriter, r *http.Request, p *message.Printer, pages int) {
	start := time.Now()
	result, err := h.calculator.Compute(pages)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, imposition.ErrInvalidPages) {
			writeError(w, http.StatusBadRequest, messages.ErrorText(p, err, h.maxPages), err.Error())
			return
		}
		h.logger.Error("imposition failed",
			zap.Int("pages", pages),
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Error(err),
		)
		writeInternalError(w, p, err)
		return
	}

	view := render.NewView(result, p)
	resp := impositionResponse{
		Pages:             result.Pages,
		PagesPerSheet:     result.PagesPerSheet,
		SheetCount:        result.SheetCount,
		TotalPages:        result.TotalPages,
		BlankCount:        result.BlankCount,
		Query:             view.Query,
		Sheets:            view.Sheets,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) printer(r *http.Request) *message.Printer {
	return requestPrinter(h.localizer, r)
}

// requestPrinter picks the language from the lang query parameter, then
// Accept-Language, then the localizer default.
func requestPrinter(l *messages.Localizer, r *http.Request) *message.Printer {
	return l.Printer(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type impositionRequest struct {
	Pages int `json:"pages"`
}

type impositionResponse struct {
	Pages             int                `json:"pages"`
	PagesPerSheet     int                `json:"pagesPerSheet"`
	SheetCount        int                `json:"sheetCount"`
	TotalPages        int                `json:"totalPages"`
	BlankCount        int                `json:"blankCount"`
	Query             string             `json:"query"`
	Sheets            []render.SheetView `json:"sheets"`
	CalculationTimeMs int64              `json:"calculationTimeMs"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}

func writeInternalError(w http.ResponseWriter, p *message.Printer, err error) {
	writeError(w, http.StatusInternalServerError, p.Sprintf(messages.InternalError), err.Error())
}
