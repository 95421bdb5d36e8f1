package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "clinic")
	t.Setenv("DB_PASS", "")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "clinic")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")
	t.Setenv("BCRYPT_COST", "10")
}

func TestLoad_ClinicHourDefaults(t *testing.T) {
	setRequiredEnv(t)
	cfg := Load()
	if cfg.OpeningHour != 9 || cfg.ClosingHour != 17 || cfg.SlotMinutes != 30 {
		t.Errorf("expected standard clinic day, got %d-%d/%dm",
			cfg.OpeningHour, cfg.ClosingHour, cfg.SlotMinutes)
	}
	if cfg.SeedDemoData {
		t.Error("demo seeding should default to off")
	}
}

func TestLoad_ClinicHourOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CLINIC_OPENING_HOUR", "8")
	t.Setenv("CLINIC_CLOSING_HOUR", "20")
	t.Setenv("CLINIC_SLOT_MINUTES", "15")
	t.Setenv("SEED_DEMO_DATA", "true")
	cfg := Load()
	if cfg.OpeningHour != 8 || cfg.ClosingHour != 20 || cfg.SlotMinutes != 15 {
		t.Errorf("overrides not applied: %d-%d/%dm",
			cfg.OpeningHour, cfg.ClosingHour, cfg.SlotMinutes)
	}
	if !cfg.SeedDemoData {
		t.Error("expected demo seeding to be enabled")
	}
}

func TestLoad_MalformedOptionalIntFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CLINIC_OPENING_HOUR", "nine")
	if cfg := Load(); cfg.OpeningHour != 9 {
		t.Errorf("expected fallback to 9, got %d", cfg.OpeningHour)
	}
}

func TestLoadRateLimitConfig_Clamping(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 || cfg.RefillTokens != 1 {
		t.Errorf("expected clamped capacity/refill, got %d/%d", cfg.Capacity, cfg.RefillTokens)
	}
	if cfg.TTL < 5*cfg.RefillInterval {
		t.Errorf("TTL %s shorter than five refill intervals", cfg.TTL)
	}
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "45s")
	cfg := LoadCacheConfig()
	if !cfg.Methods["GET"] || !cfg.Methods["HEAD"] {
		t.Errorf("method list not normalized: %v", cfg.Methods)
	}
	if cfg.TTL != 45*time.Second {
		t.Errorf("expected 45s TTL, got %s", cfg.TTL)
	}
}
