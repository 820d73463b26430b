package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/storefront-bff/api/controllers"
	"github.com/angelmondragon/storefront-bff/api/middleware"
	"github.com/angelmondragon/storefront-bff/internal/cart"
	"github.com/angelmondragon/storefront-bff/internal/orders"
	"github.com/angelmondragon/storefront-bff/pkg/config"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/session"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type stubTokens struct {
	tokens map[string]string
}

func (s stubTokens) Token(_ context.Context, sessionID string) (string, error) {
	return s.tokens[sessionID], nil
}

type stubCart struct {
	cart.Service
	sessions []string
}

func (s *stubCart) Fetch(ctx context.Context) (*types.Cart, error) {
	id, _ := session.IDFromContext(ctx)
	s.sessions = append(s.sessions, id)
	return &types.Cart{}, nil
}

type stubOrders struct {
	orders.Service
	calls int
}

func (s *stubOrders) List(ctx context.Context, page int) (*types.Page[orders.OrderView], error) {
	s.calls++
	return &types.Page[orders.OrderView]{Results: []orders.OrderView{}}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "test"},
		Session: config.SessionConfig{CookieName: config.DefaultSessionCookie, TTL: time.Hour},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func newTestRouter(t *testing.T, ready map[string]controllers.Pinger, tokens stubTokens, svc Services) http.Handler {
	t.Helper()
	return NewRouter(testConfig(), logger.Nop(), Infra{
		Tokens:   tokens,
		Ready:    ready,
		Gatherer: prometheus.NewRegistry(),
	}, svc)
}

func liveToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "7",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("remote"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(t, map[string]controllers.Pinger{"db": stubPinger{}}, stubTokens{}, Services{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200 got %d", rec.Code)
	}
	if rec.Header().Get("X-Storefront-Env") != "test" {
		t.Fatalf("expected env header, got %q", rec.Header().Get("X-Storefront-Env"))
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200 got %d", rec.Code)
	}
}

func TestHealthReadyReportsFailingDependency(t *testing.T) {
	router := newTestRouter(t, map[string]controllers.Pinger{
		"db":    stubPinger{},
		"redis": stubPinger{err: errors.New("down")},
	}, stubTokens{}, Services{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"redis":"error"`) {
		t.Fatalf("expected redis check in body: %s", rec.Body.String())
	}
}

func TestMetricsRoute(t *testing.T) {
	router := newTestRouter(t, nil, stubTokens{}, Services{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestAPIRoutesCarrySession(t *testing.T) {
	cartSvc := &stubCart{}
	router := newTestRouter(t, nil, stubTokens{}, Services{Cart: cartSvc})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	minted := rec.Header().Get(middleware.SessionHeader)
	if minted == "" || len(cartSvc.sessions) != 1 || cartSvc.sessions[0] != minted {
		t.Fatalf("expected minted session %q to reach the service, got %v", minted, cartSvc.sessions)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(middleware.SessionHeader, minted)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if cartSvc.sessions[1] != minted {
		t.Fatalf("expected session reuse, got %v", cartSvc.sessions)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ordersSvc := &stubOrders{}
	sessionID := session.NewID()
	tokens := stubTokens{tokens: map[string]string{sessionID: liveToken(t)}}
	router := newTestRouter(t, nil, tokens, Services{Orders: ordersSvc})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if ordersSvc.calls != 0 {
		t.Fatal("service should not be reached without a token")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set(middleware.SessionHeader, sessionID)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || ordersSvc.calls != 1 {
		t.Fatalf("expected 200 with token, got %d (%d calls)", rec.Code, ordersSvc.calls)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	router := newTestRouter(t, nil, stubTokens{}, Services{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/vendor/products", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
