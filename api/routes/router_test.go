package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adityawarsita/gudangpos-backend/internal/catalog"
	"github.com/adityawarsita/gudangpos-backend/internal/orders"
	"github.com/adityawarsita/gudangpos-backend/internal/purchases"
	"github.com/adityawarsita/gudangpos-backend/internal/sequence"
	"github.com/adityawarsita/gudangpos-backend/internal/stock"
	"github.com/adityawarsita/gudangpos-backend/internal/stocklosses"
	"github.com/adityawarsita/gudangpos-backend/pkg/config"
	"github.com/adityawarsita/gudangpos-backend/pkg/db"
	"github.com/adityawarsita/gudangpos-backend/pkg/migrate"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dsn := "file:router_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(migrate.Tables()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	client := db.FromGorm(conn, config.TxConfig{MaxAttempts: 3, InitialBackoff: 1})
	alloc := sequence.NewAllocator()
	stockRepo := stock.NewRepository(conn)
	catalogRepo := catalog.NewRepository(conn)

	stockSvc, err := stock.NewService(stockRepo, client, nil)
	if err != nil {
		t.Fatalf("stock service: %v", err)
	}
	catalogSvc, err := catalog.NewService(catalogRepo, stockRepo, client, nil, nil)
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}
	lossSvc, err := stocklosses.NewService(stocklosses.NewRepository(conn), catalogRepo, nil)
	if err != nil {
		t.Fatalf("loss service: %v", err)
	}
	ordersSvc, err := orders.NewService(orders.NewRepository(conn), catalogRepo, stockRepo, alloc, client, nil)
	if err != nil {
		t.Fatalf("orders service: %v", err)
	}
	purchasesSvc, err := purchases.NewService(purchases.NewRepository(conn), alloc, client, nil)
	if err != nil {
		t.Fatalf("purchases service: %v", err)
	}

	cfg := &config.Config{}
	cfg.App.Env = "staging"
	return NewRouter(cfg, nil, client, nil, catalogSvc, stockSvc, lossSvc, ordersSvc, purchasesSvc)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return envelope.Data
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health/live", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-GudangPOS-Env"); got != "staging" {
		t.Fatalf("env header wrong: %q", got)
	}

	rec = doJSON(t, router, http.MethodGet, "/health/ready", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
}

func TestFullSaleFlowOverHTTP(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	// Catalog the product.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", map[string]any{
		"sku":                  "SUGAR-01",
		"name":                 "Gula Pasir",
		"base_unit":            "kg",
		"bulk_unit_name":       "Sack",
		"bulk_unit_conversion": 50,
		"cost_price":           12000,
		"price_regular":        15000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: %d (%s)", rec.Code, rec.Body.String())
	}

	// Stock it.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/stock/SUGAR-01/set", map[string]any{
		"value": 170,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set stock: %d (%s)", rec.Code, rec.Body.String())
	}

	// Sell 5 kg loose plus one sack.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/orders", map[string]any{
		"items": []map[string]any{
			{"sku": "SUGAR-01", "qty": 5, "unit": "kg"},
			{"sku": "SUGAR-01", "qty": 1, "unit": "Sack"},
		},
		"customer_name": "Ibu Sari",
		"customer_tier": "regular",
		"amount_paid":   825000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create order: %d (%s)", rec.Code, rec.Body.String())
	}
	order := decodeData(t, rec)
	if order["grand_total"] != float64(825000) {
		t.Fatalf("grand total wrong: %v", order["grand_total"])
	}
	orderID, _ := order["id"].(string)
	if orderID == "" {
		t.Fatalf("order id missing: %v", order)
	}

	// Stock landed at 115 kg.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/stock/SUGAR-01", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get stock: %d", rec.Code)
	}
	record := decodeData(t, rec)
	if record["current_stock_base"] != float64(115) {
		t.Fatalf("expected 115 kg, got %v", record["current_stock_base"])
	}

	// Rename the customer on the receipt.
	rec = doJSON(t, router, http.MethodPatch,
		fmt.Sprintf("/api/v1/orders/%s/customer-name", orderID),
		map[string]any{"customer_name": "Pak Budi"})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch name: %d (%s)", rec.Code, rec.Body.String())
	}
	if decodeData(t, rec)["customer_name"] != "Pak Budi" {
		t.Fatal("customer name not updated")
	}

	// Overselling reports the shortfall and changes nothing.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/orders", map[string]any{
		"items": []map[string]any{{"sku": "SUGAR-01", "qty": 300, "unit": "kg"}},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("oversell: expected 422, got %d (%s)", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, router, http.MethodGet, "/api/v1/stock/SUGAR-01", nil)
	if decodeData(t, rec)["current_stock_base"] != float64(115) {
		t.Fatal("failed order must not move stock")
	}
}

func TestPurchaseReceiveFlowOverHTTP(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", map[string]any{
		"sku":                  "SUGAR-01",
		"name":                 "Gula Pasir",
		"base_unit":            "kg",
		"bulk_unit_name":       "Sack",
		"bulk_unit_conversion": 50,
		"cost_price":           12000,
		"price_regular":        15000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: %d (%s)", rec.Code, rec.Body.String())
	}

	// Receive 2 sacks at 625000 each: stock +100 kg, cost becomes 12500/kg.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/purchases", map[string]any{
		"receive": true,
		"items": []map[string]any{
			{"sku": "SUGAR-01", "name": "Gula Pasir", "qty": 2, "unit": "Sack", "unit_cost": 625000},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create purchase: %d (%s)", rec.Code, rec.Body.String())
	}
	purchase := decodeData(t, rec)
	if purchase["grand_total"] != float64(1250000) {
		t.Fatalf("purchase total wrong: %v", purchase["grand_total"])
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/stock/SUGAR-01", nil)
	if decodeData(t, rec)["current_stock_base"] != float64(100) {
		t.Fatalf("intake must add 100 kg, got %v", decodeData(t, rec)["current_stock_base"])
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/SUGAR-01", nil)
	if decodeData(t, rec)["cost_price"] != float64(12500) {
		t.Fatalf("cost write-back wrong: %v", decodeData(t, rec)["cost_price"])
	}
}

func TestRepackAndLossFlowOverHTTP(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	for _, product := range []map[string]any{
		{"sku": "SUGAR-SACK", "name": "Gula Karung", "base_unit": "sack", "cost_price": 600000},
		{"sku": "SUGAR-01", "name": "Gula Pasir", "base_unit": "kg", "cost_price": 12000},
	} {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/products", product)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create product: %d (%s)", rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/stock/SUGAR-SACK/set", map[string]any{"value": 3})
	if rec.Code != http.StatusOK {
		t.Fatalf("seed sacks: %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodPost, "/api/v1/stock/SUGAR-01/set", map[string]any{"value": 120})
	if rec.Code != http.StatusOK {
		t.Fatalf("seed kg: %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/stock/repack", map[string]any{
		"from_sku":        "SUGAR-SACK",
		"to_sku":          "SUGAR-01",
		"units":           1,
		"conversion_rate": 50,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("repack: %d (%s)", rec.Code, rec.Body.String())
	}
	result := decodeData(t, rec)
	if result["from_stock"] != float64(2) || result["to_stock"] != float64(170) {
		t.Fatalf("repack result wrong: %v", result)
	}

	// Book 2 kg of expired sugar while correcting the count down.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/stock/SUGAR-01/set", map[string]any{
		"value": 168,
		"loss":  map[string]any{"qty": 2, "reason": "expired"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set with loss: %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/stock-losses?sku=SUGAR-01", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list losses: %d", rec.Code)
	}
	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode losses: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0]["estimated_loss"] != float64(24000) {
		t.Fatalf("loss record wrong: %+v", envelope.Data)
	}
}

func TestValidationErrorsOverHTTP(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/orders", map[string]any{
		"items": []map[string]any{},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty order: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/orders/2099-01-01-0001", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing order: expected 404, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/products", map[string]any{
		"sku": "X", "name": "x", "base_unit": "barrel",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad base unit: expected 400, got %d", rec.Code)
	}
}
