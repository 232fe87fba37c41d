package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/izzah/storefront/api/controllers"
	"github.com/izzah/storefront/api/middleware"
	"github.com/izzah/storefront/internal/cart"
	"github.com/izzah/storefront/internal/checkout"
	"github.com/izzah/storefront/internal/orders"
	products "github.com/izzah/storefront/internal/products"
	"github.com/izzah/storefront/pkg/config"
	"github.com/izzah/storefront/pkg/db/models"
	"github.com/izzah/storefront/pkg/enums"
	"github.com/izzah/storefront/pkg/kv"
	"github.com/izzah/storefront/pkg/logger"
	"github.com/izzah/storefront/pkg/metrics"
	"github.com/izzah/storefront/pkg/types"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type recordingPlacer struct {
	mu     sync.Mutex
	placed []*orders.Order
}

func (p *recordingPlacer) Place(_ context.Context, order *orders.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.placed = append(p.placed, order)
	return nil
}

func (p *recordingPlacer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.placed)
}

type routerFixture struct {
	handler http.Handler
	placer  *recordingPlacer
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", CORSOrigins: []string{"http://localhost:3000"}},
		Checkout: config.CheckoutConfig{
			MaxProofMB:     5,
			IdempotencyTTL: time.Hour,
			SessionLockTTL: time.Minute,
		},
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func newRouterFixture(t *testing.T, checks ...controllers.ReadinessCheck) *routerFixture {
	t.Helper()
	ctx := context.Background()
	cfg := testConfig()
	logg := logger.Nop()

	repo := products.NewRepository(openTestDB(t))
	require.NoError(t, repo.Create(ctx, &models.Product{
		ID:         "bracelet-1",
		Title:      "Pearl bracelet",
		Price:      decimal.NewFromInt(500),
		CoverImage: "cover.jpg",
		ColorVariations: types.Variations{
			types.NamedVariation("Gold"),
			types.StockedVariation{VariantName: "Silver", Stocked: false},
		},
		Available: true,
		Category:  enums.ProductCategoryBracelets,
	}))

	mem := kv.NewMemory()
	carts, err := cart.NewStore(mem, 0, time.Hour)
	require.NoError(t, err)
	productSvc, err := products.NewService(repo, carts)
	require.NoError(t, err)

	var promos config.PromoCodeList
	require.NoError(t, promos.Decode("IJS12:12:2026-01-01:2026-12-31"))
	registry := prometheus.NewRegistry()
	placer := &recordingPlacer{}
	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		KV:     mem,
		Carts:  carts,
		Orders: placer,
		Promos: checkout.NewPromoValidator(promos).WithClock(func() time.Time {
			return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
		}),
		Proofs:         checkout.NewProofIngestor(cfg.Checkout.MaxProofBytes()),
		Metrics:        metrics.NewCheckoutMetrics(registry),
		Logger:         logg,
		SessionTTL:     time.Hour,
		SessionLockTTL: cfg.Checkout.SessionLockTTL,
	})
	require.NoError(t, err)

	handler := NewRouter(cfg, logg, checks, registry, productSvc, carts, checkoutSvc, mem)
	return &routerFixture{handler: handler, placer: placer}
}

func (f *routerFixture) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	f.handler.ServeHTTP(resp, req)
	return resp
}

func (f *routerFixture) uploadProof(t *testing.T, clientID string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(checkout.FieldBankTransferProof, "proof.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/proof", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(middleware.ClientIDHeader, clientID)
	resp := httptest.NewRecorder()
	f.handler.ServeHTTP(resp, req)
	return resp
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope), resp.Body.String())
	return envelope.Data
}

func decodeErrorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope), resp.Body.String())
	return envelope.Error.Code
}

func TestHealthRoutes(t *testing.T) {
	fixture := newRouterFixture(t, controllers.ReadinessCheck{Name: "kv", Pinger: stubPinger{}})

	live := fixture.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, live.Code)
	assert.Equal(t, "dev", live.Header().Get("X-Izzah-Env"))

	ready := fixture.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, ready.Code)
}

func TestHealthReadyFailsWhenDependencyDown(t *testing.T) {
	fixture := newRouterFixture(t, controllers.ReadinessCheck{Name: "db", Pinger: stubPinger{err: errors.New("refused")}})

	ready := fixture.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, ready.Code)
}

func TestClientIDIsMintedAndEchoed(t *testing.T) {
	fixture := newRouterFixture(t)

	resp := fixture.do(t, http.MethodGet, "/api/v1/cart", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, resp.Header().Get(middleware.ClientIDHeader))

	resp = fixture.do(t, http.MethodGet, "/api/v1/cart", "", map[string]string{middleware.ClientIDHeader: "shopper-1"})
	assert.Equal(t, "shopper-1", resp.Header().Get(middleware.ClientIDHeader))
}

func TestCatalogRoutes(t *testing.T) {
	fixture := newRouterFixture(t)

	resp := fixture.do(t, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeData(t, resp)["categories"], len(enums.ProductCategories()))

	resp = fixture.do(t, http.MethodGet, "/api/v1/categories/Bracelets/products", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeData(t, resp)["products"], 1)

	resp = fixture.do(t, http.MethodGet, "/api/v1/categories/Rings/products", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = fixture.do(t, http.MethodGet, "/api/v1/products/bracelet-1", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = fixture.do(t, http.MethodGet, "/api/v1/products/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeErrorCode(t, resp))
}

func TestCartRoutes(t *testing.T) {
	fixture := newRouterFixture(t)
	headers := map[string]string{middleware.ClientIDHeader: "shopper-1"}

	resp := fixture.do(t, http.MethodPost, "/api/v1/products/bracelet-1/cart", `{"color":"Silver"}`, headers)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = fixture.do(t, http.MethodPost, "/api/v1/products/bracelet-1/cart", `{"color":"Gold","quantity":2}`, headers)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	data := decodeData(t, resp)
	assert.EqualValues(t, 2, data["count"])

	resp = fixture.do(t, http.MethodGet, "/api/v1/cart", "", headers)
	require.Equal(t, http.StatusOK, resp.Code)
	items := decodeData(t, resp)["items"].([]any)
	require.Len(t, items, 1)
	key := items[0].(map[string]any)["id"].(string)

	resp = fixture.do(t, http.MethodDelete, "/api/v1/cart/items/"+key, "", headers)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.EqualValues(t, 0, decodeData(t, resp)["count"])
}

func TestCheckoutFlowWithIdempotentReplay(t *testing.T) {
	fixture := newRouterFixture(t)
	headers := map[string]string{middleware.ClientIDHeader: "shopper-2"}

	resp := fixture.do(t, http.MethodPost, "/api/v1/products/bracelet-1/buy-now", `{"color":"Gold"}`, headers)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = fixture.do(t, http.MethodPost, "/api/v1/checkout", `{"source":"buyNow"}`, headers)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, "editing", decodeData(t, resp)["state"])

	resp = fixture.do(t, http.MethodPatch, "/api/v1/checkout/form", `{
		"email":"amna@example.com","fullName":"Amna Tariq","phone":"0300 1234567",
		"address":"12 Mall Road","city":"Lahore","region":"Punjab","country":"Pakistan"
	}`, headers)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = fixture.do(t, http.MethodPost, "/api/v1/checkout/promo", `{"code":"ijs12"}`, headers)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	promo := decodeData(t, resp)["promo"].(map[string]any)
	assert.Equal(t, true, promo["applied"])

	resp = fixture.uploadProof(t, "shopper-2", append(append([]byte{}, pngHeader...), make([]byte, 64)...))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, true, decodeData(t, resp)["canSubmit"])

	withKey := map[string]string{middleware.ClientIDHeader: "shopper-2", middleware.IdempotencyHeader: "order-attempt-1"}
	first := fixture.do(t, http.MethodPost, "/api/v1/checkout/orders", "", withKey)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	orderID := decodeData(t, first)["orderId"].(string)
	assert.True(t, strings.HasPrefix(orderID, "BUYNOW_"))

	replay := fixture.do(t, http.MethodPost, "/api/v1/checkout/orders", "", withKey)
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, orderID, decodeData(t, replay)["orderId"])
	assert.Equal(t, 1, fixture.placer.count())

	resp = fixture.do(t, http.MethodGet, "/api/v1/checkout/confirmation", "", headers)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, orderID, decodeData(t, resp)["orderId"])
}

func TestPlaceOrderRequiresIdempotencyKey(t *testing.T) {
	fixture := newRouterFixture(t)

	resp := fixture.do(t, http.MethodPost, "/api/v1/checkout/orders", "", map[string]string{middleware.ClientIDHeader: "shopper-3"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, 0, fixture.placer.count())
}

func TestStartCheckoutRejectsUnknownSource(t *testing.T) {
	fixture := newRouterFixture(t)

	resp := fixture.do(t, http.MethodPost, "/api/v1/checkout", `{"source":"wishlist"}`, map[string]string{middleware.ClientIDHeader: "shopper-4"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeErrorCode(t, resp))
}

func TestProofUploadRejectsNonImage(t *testing.T) {
	fixture := newRouterFixture(t)
	headers := map[string]string{middleware.ClientIDHeader: "shopper-5"}

	resp := fixture.do(t, http.MethodPost, "/api/v1/products/bracelet-1/buy-now", `{"color":"Gold"}`, headers)
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = fixture.do(t, http.MethodPost, "/api/v1/checkout", `{"source":"buyNow"}`, headers)
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = fixture.uploadProof(t, "shopper-5", []byte("just some text"))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), checkout.MessageProofNotImage)
}

func TestMetricsEndpoint(t *testing.T) {
	fixture := newRouterFixture(t)

	resp := fixture.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}
