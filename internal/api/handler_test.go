package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/booklet-imposer/internal/imposition"
	"github.com/eugenenazirov/booklet-imposer/internal/messages"
	"github.com/eugenenazirov/booklet-imposer/internal/render"
)

var fixedNow = time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)

func newTestLocalizer(t *testing.T) *messages.Localizer {
	t.Helper()

	l, err := messages.New("ja")
	if err != nil {
		t.Fatalf("messages.New returned error: %v", err)
	}
	return l
}

func setupTestRouter(t *testing.T, opts ...HandlerOption) http.Handler {
	t.Helper()

	opts = append([]HandlerOption{
		WithClock(func() time.Time { return fixedNow }),
		WithMaxPages(100),
		WithLogger(zaptest.NewLogger(t)),
	}, opts...)
	handler := NewHandler(imposition.New(), newTestLocalizer(t), opts...)
	return NewRouter(handler, zaptest.NewLogger(t), WithLogging(false), WithRateLimit(0, 0))
}

func doRequest(t *testing.T, router http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type impositionBody struct {
	Pages         int                `json:"pages"`
	PagesPerSheet int                `json:"pagesPerSheet"`
	SheetCount    int                `json:"sheetCount"`
	TotalPages    int                `json:"totalPages"`
	BlankCount    int                `json:"blankCount"`
	Query         string             `json:"query"`
	Sheets        []render.SheetView `json:"sheets"`
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

type failingCalculator struct{}

func (failingCalculator) Compute(int) (imposition.Result, error) {
	return imposition.Result{}, errors.New("disk on fire")
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := contextWithRequestID(context.Background(), "abc")
	if got := RequestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
	if got := requestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty id, got %s", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := decode[healthResponse](t, rec)
	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %s", body.Status)
	}
	if !body.Timestamp.Equal(fixedNow) {
		t.Fatalf("expected timestamp %s, got %s", fixedNow, body.Timestamp)
	}
}

func TestGetImposition(t *testing.T) {
	router := setupTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/imposition?pages=5&lang=en", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got := decode[impositionBody](t, rec)
	want := impositionBody{
		Pages:         5,
		PagesPerSheet: 4,
		SheetCount:    2,
		TotalPages:    8,
		BlankCount:    3,
		Query:         "pages=5",
		Sheets: []render.SheetView{
			{
				Number:     1,
				FrontLeft:  render.SlotView{Page: 8, Blank: true, Label: "blank"},
				FrontRight: render.SlotView{Page: 1, Label: "1"},
				BackLeft:   render.SlotView{Page: 2, Label: "2"},
				BackRight:  render.SlotView{Page: 7, Blank: true, Label: "blank"},
			},
			{
				Number:     2,
				FrontLeft:  render.SlotView{Page: 6, Blank: true, Label: "blank"},
				FrontRight: render.SlotView{Page: 3, Label: "3"},
				BackLeft:   render.SlotView{Page: 4, Label: "4"},
				BackRight:  render.SlotView{Page: 5, Label: "5"},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected body (-want +got):\n%s", diff)
	}
}

func TestGetImpositionValidation(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		name      string
		target    string
		wantError string
	}{
		{name: "missing", target: "/api/imposition", wantError: "ページ数を入力してください。"},
		{name: "empty", target: "/api/imposition?pages=", wantError: "ページ数を入力してください。"},
		{name: "zero", target: "/api/imposition?pages=0", wantError: "正の整数を入力してください。"},
		{name: "negative", target: "/api/imposition?pages=-4", wantError: "正の整数を入力してください。"},
		{name: "fraction", target: "/api/imposition?pages=2.5", wantError: "正の整数を入力してください。"},
		{name: "too large", target: "/api/imposition?pages=101", wantError: "100ページ以下で入力してください。"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodGet, tc.target, nil, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
			body := decode[errorBody](t, rec)
			if body.Error != tc.wantError {
				t.Fatalf("expected error %q, got %q", tc.wantError, body.Error)
			}
			if body.Details == "" {
				t.Fatalf("expected details to be populated")
			}
		})
	}
}

func TestGetImpositionHonoursAcceptLanguage(t *testing.T) {
	router := setupTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/imposition?pages=abc", nil, map[string]string{"Accept-Language": "en-US,en;q=0.8"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if body := decode[errorBody](t, rec); body.Error != "Please enter a positive integer." {
		t.Fatalf("expected English message, got %q", body.Error)
	}
}

func TestPostImposition(t *testing.T) {
	router := setupTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/imposition", []byte(`{"pages": 4}`), map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	got := decode[impositionBody](t, rec)
	if got.SheetCount != 1 || got.BlankCount != 0 || got.TotalPages != 4 {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if len(got.Sheets) != 1 || got.Sheets[0].FrontLeft.Page != 4 || got.Sheets[0].BackRight.Page != 3 {
		t.Fatalf("unexpected sheets: %+v", got.Sheets)
	}
	for _, slot := range []render.SlotView{got.Sheets[0].FrontLeft, got.Sheets[0].FrontRight, got.Sheets[0].BackLeft, got.Sheets[0].BackRight} {
		if slot.Blank {
			t.Fatalf("expected no blank slots for 4 pages, got %+v", slot)
		}
	}
}

func TestPostImpositionValidation(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: `{"pages":`},
		{name: "fraction", body: `{"pages": 2.5}`},
		{name: "string", body: `{"pages": "4"}`},
		{name: "missing", body: `{}`},
		{name: "zero", body: `{"pages": 0}`},
		{name: "negative", body: `{"pages": -1}`},
		{name: "too large", body: `{"pages": 5000}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/imposition", []byte(tc.body), map[string]string{"Content-Type": "application/json"})
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
			if body := decode[errorBody](t, rec); body.Error == "" {
				t.Fatalf("expected localized error message")
			}
		})
	}
}

func TestImpositionInternalError(t *testing.T) {
	handler := NewHandler(failingCalculator{}, newTestLocalizer(t), WithLogger(zaptest.NewLogger(t)))
	router := NewRouter(handler, zaptest.NewLogger(t), WithLogging(false), WithRateLimit(0, 0))

	rec := doRequest(t, router, http.MethodGet, "/api/imposition?pages=3&lang=en", nil, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	body := decode[errorBody](t, rec)
	if body.Error != "An unexpected error occurred." || !strings.Contains(body.Details, "disk on fire") {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router := setupTestRouter(t)

	rec := doRequest(t, router, http.MethodDelete, "/api/imposition", nil, nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

func TestCorsPreflight(t *testing.T) {
	router := setupTestRouter(t)

	rec := doRequest(t, router, http.MethodOptions, "/api/imposition", nil, map[string]string{
		"Origin":                        "https://example.com",
		"Access-Control-Request-Method": "POST",
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected Access-Control-Allow-Origin header to be set")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	router := setupTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/health", nil, map[string]string{"X-Request-ID": "test-request-id"})
	if got := rec.Header().Get("X-Request-ID"); got != "test-request-id" {
		t.Fatalf("expected X-Request-ID header to be echoed, got %s", got)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/health", nil, nil)
	if got := rec.Header().Get("X-Request-ID"); len(got) != 32 {
		t.Fatalf("expected generated 32 char request id, got %q", got)
	}
}
