package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-bff/pkg/logger"
)

func TestRequestIDEchoesWellFormedHeader(t *testing.T) {
	var seen string
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "edge-abc_123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "edge-abc_123" || rec.Header().Get(requestIDHeader) != seen {
		t.Fatalf("expected echoed id, got ctx=%q header=%q", seen, rec.Header().Get(requestIDHeader))
	}
}

func TestRequestIDReplacesMalformedHeader(t *testing.T) {
	for _, inbound := range []string{"", "has space", "<script>", strings.Repeat("a", maxRequestIDLen+1)} {
		var seen string
		handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, inbound)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if seen == "" || seen == inbound {
			t.Fatalf("expected minted id for %q, got %q", inbound, seen)
		}
	}
}

func TestRecovererWritesInternalEnvelope(t *testing.T) {
	handler := RequestID(nil)(Recoverer(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("unexpected code %q", body.Error.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected request id header on panic response")
	}
}

func TestRecovererLeavesStartedResponse(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		panic("late")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusAccepted || rec.Body.Len() != 0 {
		t.Fatalf("expected untouched 202, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRecovererRepanicsAbort(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if v := recover(); v != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler, got %v", v)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestLoggingLevelsByStatusAndPath(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: "info", Output: &buf})

	r := chi.NewRouter()
	r.Use(Logging(logg))
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/api/v1/products/{slug}", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Get("/boom", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if buf.Len() != 0 {
		t.Fatalf("expected probe to log below info, got %s", buf.String())
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/products/soap", nil))
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log: %v", err)
	}
	if entry["level"] != "info" || entry["route"] != "/api/v1/products/{slug}" || entry["bytes"] != float64(2) {
		t.Fatalf("unexpected entry %v", entry)
	}

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	entry = nil
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log: %v", err)
	}
	if entry["level"] != "warn" || entry["status"] != float64(http.StatusBadGateway) {
		t.Fatalf("unexpected entry %v", entry)
	}
}
