// README: Env default and override tests for the config loader.
package config

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr == "" {
		t.Error("HTTP.Addr default missing")
	}
	if !cfg.Billing.IncentiveRatePerHour.Equal(mustDecimal(t, "250")) {
		t.Errorf("IncentiveRatePerHour = %s, want 250", cfg.Billing.IncentiveRatePerHour)
	}
	if !cfg.Billing.TaxRate.Equal(mustDecimal(t, "0.18")) {
		t.Errorf("TaxRate = %s, want 0.18", cfg.Billing.TaxRate)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CB_INCENTIVE_RATE_PER_HOUR", "300")
	t.Setenv("CB_HTTP_ADDR", ":9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":9999" {
		t.Errorf("HTTP.Addr = %q, want :9999", cfg.HTTP.Addr)
	}
	if !cfg.Billing.IncentiveRatePerHour.Equal(mustDecimal(t, "300")) {
		t.Errorf("IncentiveRatePerHour = %s, want 300", cfg.Billing.IncentiveRatePerHour)
	}
}

func TestBadDecimalEnv(t *testing.T) {
	t.Setenv("CB_TAX_RATE", "eighteen percent")
	if _, err := Load(); err == nil {
		t.Error("expected error for malformed decimal env")
	}
}
