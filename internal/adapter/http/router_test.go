package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/washledger/internal/adapter/http/handler"
	apimiddleware "github.com/iho/washledger/internal/adapter/http/middleware"
	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/infrastructure/auth"
	"github.com/iho/washledger/internal/infrastructure/metrics"
	"github.com/iho/washledger/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"material_id":"m1","action":"incoming","quantity":1,"price_type":"price"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/entries/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if store.checkedKey != "front-desk:key-123" {
		t.Fatalf("expected user-scoped idempotency key, got %q", store.checkedKey)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_AdminRoutesRejectCashiers(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.DefaultActor = &domain.User{ID: "cashier-1", Role: domain.RoleCashier}
	}))

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/materials/"},
		{http.MethodPatch, "/api/v1/materials/m1"},
		{http.MethodDelete, "/api/v1/entries/e1"},
		{http.MethodPost, "/api/v1/entries/e1/reverse"},
		{http.MethodDelete, "/api/v1/customers/c1"},
		{http.MethodPost, "/api/v1/event-types/"},
		{http.MethodDelete, "/api/v1/extra-charges/x1"},
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`)))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestNewRouter_AuthenticatorRequiresToken(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Minute)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Authenticator = apimiddleware.NewAuthenticator(jwtManager, nil)
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/materials/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	token, err := jwtManager.Generate(&domain.User{ID: "cashier-1", Role: domain.RoleCashier})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/materials/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
}

func TestNewRouter_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Metrics = metrics.NewWithRegisterer(reg)
		cfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "washledger_http_requests_total") {
		t.Fatalf("expected request counter in metrics output")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/materials/",
		"GET /api/v1/materials/",
		"GET /api/v1/materials/choices",
		"GET /api/v1/materials/{id}",
		"PATCH /api/v1/materials/{id}",
		"GET /api/v1/materials/{id}/entries",
		"POST /api/v1/entries/",
		"GET /api/v1/entries/",
		"GET /api/v1/entries/summary",
		"GET /api/v1/entries/{id}",
		"PUT /api/v1/entries/{id}",
		"DELETE /api/v1/entries/{id}",
		"POST /api/v1/entries/{id}/reverse",
		"POST /api/v1/customers/",
		"GET /api/v1/customers/",
		"GET /api/v1/customers/{id}",
		"PATCH /api/v1/customers/{id}",
		"POST /api/v1/customers/{id}/visits",
		"DELETE /api/v1/customers/{id}",
		"POST /api/v1/event-types/",
		"GET /api/v1/event-types/",
		"GET /api/v1/event-types/choices",
		"POST /api/v1/extra-charges/",
		"GET /api/v1/extra-charges/",
		"GET /api/v1/extra-charges/{id}",
		"PATCH /api/v1/extra-charges/{id}",
		"DELETE /api/v1/extra-charges/{id}",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	materials := &stubMaterialService{}

	cfg := RouterConfig{
		HealthHandler:   handler.NewHealthHandler(nil),
		MaterialHandler: handler.NewMaterialHandler(materials),
		EntryHandler:    handler.NewEntryHandler(&stubEntryService{}, materials),
		SummaryHandler:  handler.NewSummaryHandler(&stubSummaryService{}),
		CustomerHandler: handler.NewCustomerHandler(stubCustomerService{}),
		ChargeHandler:   handler.NewExtraChargeHandler(stubChargeService{}),
		Logger:          zerolog.Nop(),
		DefaultActor:    &domain.User{ID: "front-desk", Role: domain.RoleAdmin},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubMaterialService struct{}

func (stubMaterialService) CreateMaterial(ctx context.Context, input usecase.CreateMaterialInput) (*domain.Material, error) {
	return &domain.Material{ID: "m1", Name: input.Name}, nil
}

func (stubMaterialService) GetMaterial(ctx context.Context, id string) (*domain.Material, error) {
	return &domain.Material{ID: id, Name: "Shampoo", Price: decimal.NewFromInt(10)}, nil
}

func (stubMaterialService) ListMaterials(ctx context.Context, input usecase.ListMaterialsInput) ([]*domain.Material, error) {
	return []*domain.Material{}, nil
}

func (stubMaterialService) UpdateMaterial(ctx context.Context, input usecase.UpdateMaterialInput) (*domain.Material, error) {
	return &domain.Material{ID: input.ID}, nil
}

func (stubMaterialService) Choices(ctx context.Context) ([]usecase.MaterialChoice, error) {
	return nil, nil
}

type stubEntryService struct{}

func (stubEntryService) CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.LedgerEntry, error) {
	return &domain.LedgerEntry{ID: "e1", MaterialID: input.MaterialID, Action: input.Action, Quantity: input.Quantity}, nil
}

func (stubEntryService) UpdateEntry(ctx context.Context, input usecase.UpdateEntryInput) (*domain.LedgerEntry, error) {
	return &domain.LedgerEntry{ID: input.ID}, nil
}

func (stubEntryService) DeleteEntry(ctx context.Context, input usecase.EntryActionInput) (*domain.LedgerEntry, error) {
	return &domain.LedgerEntry{ID: input.ID, IsDeleted: true}, nil
}

func (stubEntryService) ReverseEntry(ctx context.Context, input usecase.EntryActionInput) (*domain.LedgerEntry, error) {
	return &domain.LedgerEntry{ID: input.ID, IsDeleted: true}, nil
}

func (stubEntryService) GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	return &domain.LedgerEntry{ID: id}, nil
}

func (stubEntryService) ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.LedgerEntry, error) {
	return []*domain.LedgerEntry{}, nil
}

type stubSummaryService struct{}

func (stubSummaryService) Summarize(ctx context.Context, input usecase.SummaryInput) (*domain.LedgerSummary, error) {
	return &domain.LedgerSummary{}, nil
}

type stubCustomerService struct{}

func (stubCustomerService) CreateCustomer(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error) {
	return &domain.Customer{ID: "c1", Name: input.Name}, nil
}

func (stubCustomerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return &domain.Customer{ID: id}, nil
}

func (stubCustomerService) ListCustomers(ctx context.Context, input usecase.ListCustomersInput) ([]*domain.Customer, error) {
	return []*domain.Customer{}, nil
}

func (stubCustomerService) UpdateCustomer(ctx context.Context, input usecase.UpdateCustomerInput) (*domain.Customer, error) {
	return &domain.Customer{ID: input.ID}, nil
}

func (stubCustomerService) RecordVisit(ctx context.Context, input usecase.CustomerActionInput) (*domain.Customer, error) {
	return &domain.Customer{ID: input.ID, Visits: 1}, nil
}

func (stubCustomerService) DeleteCustomer(ctx context.Context, input usecase.CustomerActionInput) (*domain.Customer, error) {
	return &domain.Customer{ID: input.ID, IsDeleted: true}, nil
}

type stubChargeService struct{}

func (stubChargeService) CreateEventType(ctx context.Context, input usecase.CreateEventTypeInput) (*domain.EventType, error) {
	return &domain.EventType{ID: "et1", Name: input.Name}, nil
}

func (stubChargeService) ListEventTypes(ctx context.Context, limit, offset int) ([]*domain.EventType, error) {
	return []*domain.EventType{}, nil
}

func (stubChargeService) EventTypeChoices(ctx context.Context) ([]usecase.EventTypeChoice, error) {
	return nil, nil
}

func (stubChargeService) CreateCharge(ctx context.Context, input usecase.CreateChargeInput) (*domain.ExtraCharge, error) {
	return &domain.ExtraCharge{ID: "x1", EventTypeID: input.EventTypeID}, nil
}

func (stubChargeService) GetCharge(ctx context.Context, id string) (*domain.ExtraCharge, error) {
	return &domain.ExtraCharge{ID: id}, nil
}

func (stubChargeService) ListCharges(ctx context.Context, input usecase.ListChargesInput) ([]*domain.ExtraCharge, error) {
	return []*domain.ExtraCharge{}, nil
}

func (stubChargeService) UpdateCharge(ctx context.Context, input usecase.UpdateChargeInput) (*domain.ExtraCharge, error) {
	return &domain.ExtraCharge{ID: input.ID}, nil
}

func (stubChargeService) DeleteCharge(ctx context.Context, input usecase.ChargeActionInput) (*domain.ExtraCharge, error) {
	return &domain.ExtraCharge{ID: input.ID, IsDeleted: true}, nil
}

type stubIdempotencyStore struct {
	checkedKey string
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkedKey = key
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}

func (s *stubIdempotencyStore) Release(ctx context.Context, key string) error {
	return nil
}
