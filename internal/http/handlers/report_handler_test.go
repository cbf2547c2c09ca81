// README: End-to-end handler tests over in-memory stores.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"commutebill/internal/config"
	"commutebill/internal/http/handlers"
	"commutebill/internal/modules/billing"
	"commutebill/internal/modules/catalog"
	"commutebill/internal/modules/reports"
	"commutebill/internal/modules/usage"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// buildTestRouter wires a minimal engine with in-memory stores and no
// report cache.
func buildTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat := catalog.NewService(catalog.NewMemStore())
	_, err := cat.Create(context.Background(), &catalog.BillingModel{
		ClientID: "c1", VendorID: "v1", Type: catalog.ModelTrip,
		Trip: &catalog.TripPricing{RatePerTrip: dec("250"), RatePerKm: dec("12")},
		Overage: catalog.OverageRates{
			ExtraTripRate: dec("100"), ExtraKmRate: dec("15"),
			ExtraHourRate: dec("20"), OvertimeRate: dec("15"),
		},
		Standard:      catalog.StandardAllowance{TripKm: dec("10"), TripHours: dec("1")},
		EffectiveFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed model: %v", err)
	}

	trips := usage.NewMemStore()
	calc := billing.NewCalculator(config.BillingConfig{
		IncentiveRatePerHour: dec("250"),
		NightBonus:           dec("150"),
		WeekendBonus:         dec("200"),
		TaxRate:              dec("0.18"),
	})
	builder := reports.NewBuilder(cat, trips, calc)

	r := gin.New()
	catalogHandler := handlers.NewCatalogHandler(cat)
	r.POST("/api/billing-models", catalogHandler.Create)
	r.GET("/api/billing-models/resolve", catalogHandler.Resolve)

	usageHandler := handlers.NewUsageHandler(trips)
	r.POST("/api/trips", usageHandler.Ingest)

	chargeHandler := handlers.NewChargeHandler(builder)
	r.POST("/api/charges/calculate", chargeHandler.Calculate)

	reportHandler := handlers.NewReportHandler(builder, nil)
	r.GET("/api/reports/clients/:id", reportHandler.Client)
	return r
}

func doRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestResolveModel(t *testing.T) {
	r := buildTestRouter(t)
	w := doRequest(r, http.MethodGet, "/api/billing-models/resolve?clientId=c1&vendorId=v1&at=2026-02-15T00:00:00Z", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var m catalog.BillingModel
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Type != catalog.ModelTrip {
		t.Errorf("expected TRIP model, got %s", m.Type)
	}
}

func TestResolveModel_UnknownPair(t *testing.T) {
	r := buildTestRouter(t)
	w := doRequest(r, http.MethodGet, "/api/billing-models/resolve?clientId=c9&vendorId=v9", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestCreateModel_OverlapConflict(t *testing.T) {
	r := buildTestRouter(t)
	w := doRequest(r, http.MethodPost, "/api/billing-models", map[string]any{
		"clientId": "c1", "vendorId": "v1", "modelType": "TRIP",
		"trip":          map[string]any{"ratePerTrip": "250", "ratePerKm": "12"},
		"overage":       map[string]any{"extraTripRate": "100", "extraKmRate": "15", "extraHourRate": "20", "overtimeRate": "15"},
		"standard":      map[string]any{"standardTripKm": "10", "standardTripHours": "1"},
		"effectiveFrom": "2026-03-01T00:00:00Z",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for overlapping range, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateModel_ValidationError(t *testing.T) {
	r := buildTestRouter(t)
	w := doRequest(r, http.MethodPost, "/api/billing-models", map[string]any{
		"clientId": "c2", "vendorId": "v2", "modelType": "TRIP",
		"trip":          map[string]any{"ratePerTrip": "0", "ratePerKm": "12"},
		"overage":       map[string]any{"extraTripRate": "100", "extraKmRate": "15", "extraHourRate": "20", "overtimeRate": "15"},
		"standard":      map[string]any{"standardTripKm": "10", "standardTripHours": "1"},
		"effectiveFrom": "2026-03-01T00:00:00Z",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for zero rate, got %d: %s", w.Code, w.Body.String())
	}
}

func TestIngestTrip_RejectsNegativeDistance(t *testing.T) {
	r := buildTestRouter(t)
	w := doRequest(r, http.MethodPost, "/api/trips", map[string]any{
		"tripId": "t1", "employeeId": "e1", "clientId": "c1", "vendorId": "v1",
		"startTime": "2026-02-10T09:00:00Z", "distanceKm": "-5", "durationMinutes": 30,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCalculateCharge(t *testing.T) {
	r := buildTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/trips", map[string]any{
		"tripId": "t1", "employeeId": "e1", "clientId": "c1", "vendorId": "v1",
		"startTime": "2026-02-10T09:00:00Z", "distanceKm": "15", "durationMinutes": 130,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("ingest: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodPost, "/api/charges/calculate", map[string]any{
		"clientId": "c1", "vendorId": "v1", "month": "2026-02",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var result billing.ChargeResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 250 + 5 km x 12 + 2 overtime hours x 15
	if !result.TotalCharge.Equal(dec("340")) {
		t.Errorf("expected total 340, got %s", result.TotalCharge)
	}
	if !result.EmployeeIncentive.Equal(dec("500")) {
		t.Errorf("expected incentive 500, got %s", result.EmployeeIncentive)
	}
}

func TestClientReport_BadMonth(t *testing.T) {
	r := buildTestRouter(t)
	w := doRequest(r, http.MethodGet, "/api/reports/clients/c1?month=Feb-2026", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestClientReport(t *testing.T) {
	r := buildTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/trips", map[string]any{
		"tripId": "t1", "employeeId": "e1", "clientId": "c1", "vendorId": "v1",
		"startTime": "2026-02-10T09:00:00Z", "distanceKm": "10", "durationMinutes": 60,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("ingest: expected 201, got %d", w.Code)
	}

	w = doRequest(r, http.MethodGet, "/api/reports/clients/c1?month=2026-02", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var report reports.ClientReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Summary.TotalTrips != 1 {
		t.Errorf("expected 1 trip, got %d", report.Summary.TotalTrips)
	}
	if !report.Summary.TotalCost.Equal(dec("250")) {
		t.Errorf("expected cost 250, got %s", report.Summary.TotalCost)
	}
}
