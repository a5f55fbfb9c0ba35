package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegthaliclub/catering-backend/api/middleware"
	"github.com/vegthaliclub/catering-backend/internal/catalog"
	"github.com/vegthaliclub/catering-backend/internal/configurator"
	"github.com/vegthaliclub/catering-backend/internal/pricing"
	"github.com/vegthaliclub/catering-backend/internal/snapshot"
	"github.com/vegthaliclub/catering-backend/internal/wizard"
	"github.com/vegthaliclub/catering-backend/pkg/config"
	"github.com/vegthaliclub/catering-backend/pkg/logger"
	"github.com/vegthaliclub/catering-backend/pkg/metrics"
	pkgredis "github.com/vegthaliclub/catering-backend/pkg/redis"
	"github.com/vegthaliclub/catering-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSubmitter struct{}

func (stubSubmitter) Submit(context.Context, string, wizard.Session) error {
	return nil
}

type stubRelay struct {
	mu    sync.Mutex
	calls int
}

func (s *stubRelay) RelayCatering(context.Context, types.CateringRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return nil
}

func (s *stubRelay) RelayContact(context.Context, types.ContactRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		HTTP: config.HTTPConfig{
			RequestLimit:  100,
			RequestWindow: time.Minute,
		},
		Relay: config.RelayConfig{
			IdempotencyTTL: time.Hour,
			RateLimit:      10,
			RateWindow:     time.Minute,
		},
	}
}

type harness struct {
	handler http.Handler
	relay   *stubRelay
}

func newHarness(t *testing.T, withRedis bool) *harness {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	writer := snapshot.NewWriter(snapshot.NewMemoryStore(), logg, nil, snapshot.WriterOptions{})
	t.Cleanup(func() { _ = writer.Close() })

	reg := prometheus.NewRegistry()
	cat := catalog.Default()
	svc, err := configurator.NewService(configurator.ServiceParams{
		Catalog:   cat,
		Machine:   wizard.NewMachine(wizard.DefaultOptions()),
		Policy:    pricing.Policy{AddOnFee: decimal.RequireFromString("0.99"), TaxRate: decimal.RequireFromString("0.13")},
		Snapshots: writer,
		Submitter: stubSubmitter{},
		Logger:    logg,
		Metrics:   metrics.NewCateringMetrics(reg),
	})
	require.NoError(t, err)

	params := Params{
		Config:       testConfig(),
		Logger:       logg,
		DB:           stubPinger{},
		Gatherer:     reg,
		Catalog:      cat,
		Configurator: svc,
	}
	if withRedis {
		mr := miniredis.RunT(t)
		raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = raw.Close() })
		params.Redis = pkgredis.Wrap(raw)
	}
	relay := &stubRelay{}
	params.Relay = relay
	return &harness{handler: NewRouter(params), relay: relay}
}

func (h *harness) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "203.0.113.5:1234"
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t, false)

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/health/live", "", nil).Code)
	ready := h.do(http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, ready.Code)
	assert.Contains(t, ready.Body.String(), `"database":"up"`)

	// Opening an order moves the gauge so the family is exported.
	h.do(http.MethodPost, "/api/v1/order", `{"package":"Vegetarian"}`, map[string]string{middleware.ClientIDHeader: "m1"})
	m := h.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), "catering_")
}

func TestContentAndPackages(t *testing.T) {
	h := newHarness(t, false)

	rec := h.do(http.MethodGet, "/api/data", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "FullMenuData")

	rec = h.do(http.MethodGet, "/api/v1/packages", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Vegetarian"`)
}

func TestOrderFlowIsScopedByClient(t *testing.T) {
	h := newHarness(t, false)
	asha := map[string]string{middleware.ClientIDHeader: "asha"}
	ravi := map[string]string{middleware.ClientIDHeader: "ravi"}

	rec := h.do(http.MethodPost, "/api/v1/order", `{"package":"Vegetarian"}`, asha)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/order/steps/1/toggle", `{"item":"Mix Veg"}`, asha)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data configurator.View `json:"data"`
	}
	require.NoError(t, json.NewDecoder(h.do(http.MethodGet, "/api/v1/order", "", asha).Body).Decode(&body))
	assert.True(t, body.Data.Open)
	assert.Equal(t, []string{"Mix Veg"}, body.Data.Steps[0].Selections)

	body.Data = configurator.View{}
	require.NoError(t, json.NewDecoder(h.do(http.MethodGet, "/api/v1/order", "", ravi).Body).Decode(&body))
	assert.False(t, body.Data.Open)

	rec = h.do(http.MethodDelete, "/api/v1/order", "", asha)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"open":false,"can_advance":false,"include_add_on":false}}`, rec.Body.String())
}

func TestOrderIssuesClientCookie(t *testing.T) {
	h := newHarness(t, false)
	rec := h.do(http.MethodGet, "/api/v1/order", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.ClientCookieName && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found)
}

const contactBody = `{"full_name":"Asha","email":"asha@example.com","phone":"555","date_time":"2026-05-01T18:00","people":"30","instructions":"none"}`

func TestRelayIdempotencyReplays(t *testing.T) {
	h := newHarness(t, true)
	headers := map[string]string{middleware.IdempotencyHeader: "form-1"}

	first := h.do(http.MethodPost, "/api/contact", contactBody, headers)
	require.Equal(t, http.StatusOK, first.Code)

	second := h.do(http.MethodPost, "/api/contact", contactBody, headers)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, h.relay.calls)
}

func TestRelayRateLimitWithoutRedis(t *testing.T) {
	h := newHarness(t, false)
	var last int
	for i := 0; i < 11; i++ {
		last = h.do(http.MethodPost, "/api/contact", contactBody, nil).Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
	assert.Equal(t, 10, h.relay.calls)
}
