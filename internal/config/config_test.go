package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("FOUNDING_CUTOFF_YEAR", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, "")
	}
	if cfg.FoundingCutoffYear != 2024 {
		t.Errorf("FoundingCutoffYear = %d, want %d", cfg.FoundingCutoffYear, 2024)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("DATABASE_URL", "postgres://localhost/lpstats")
	t.Setenv("FOUNDING_CUTOFF_YEAR", "2023")

	cfg := Load()

	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "3000")
	}
	if cfg.DatabaseURL != "postgres://localhost/lpstats" {
		t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, "postgres://localhost/lpstats")
	}
	if cfg.FoundingCutoffYear != 2023 {
		t.Errorf("FoundingCutoffYear = %d, want %d", cfg.FoundingCutoffYear, 2023)
	}
}

func TestLoad_InvalidCutoffYear(t *testing.T) {
	t.Setenv("FOUNDING_CUTOFF_YEAR", "abc")

	cfg := Load()

	if cfg.FoundingCutoffYear != 2024 {
		t.Errorf("FoundingCutoffYear = %d, want %d (fallback)", cfg.FoundingCutoffYear, 2024)
	}
}
