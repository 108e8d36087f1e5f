package config

import (
	"os"
	"path/filepath"
	"testing"
)

var keys = []string{"PORT", "DB_PATH", "LOG_LEVEL", "CURRENCY_PRECISION", "MAX_PARTICIPANTS", "METRICS_ENABLED"}

// clearEnv blanks every variable Load reads; empty values fall back to defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 8080 || cfg.Addr() != ":8080" {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DBPath != "./data/xpense.db" {
		t.Errorf("DBPath = %s", cfg.DBPath)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s", cfg.LogLevel)
	}
	if cfg.CurrencyPrecision != 2 || cfg.MaxParticipants != 5000 || !cfg.MetricsEnabled {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CURRENCY_PRECISION", "0")
	t.Setenv("MAX_PARTICIPANTS", "10")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9090 || cfg.CurrencyPrecision != 0 || cfg.MaxParticipants != 10 || cfg.MetricsEnabled {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("DB_PATH")
	t.Cleanup(func() { os.Unsetenv("DB_PATH") })

	file := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(file, []byte("DB_PATH=/tmp/ledger.db\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "/tmp/ledger.db" {
		t.Errorf("DBPath = %s, want /tmp/ledger.db", cfg.DBPath)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "PORT", "http"},
		{"negative precision", "CURRENCY_PRECISION", "-1"},
		{"huge precision", "CURRENCY_PRECISION", "12"},
		{"negative participant cap", "MAX_PARTICIPANTS", "-5"},
		{"bad bool", "METRICS_ENABLED", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
