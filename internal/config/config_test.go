package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/silver-potato-kebab/trade-tracker/internal/apperrors"
	"github.com/silver-potato-kebab/trade-tracker/internal/config"
	"github.com/silver-potato-kebab/trade-tracker/internal/model"
	"github.com/silver-potato-kebab/trade-tracker/internal/validation"
)

func writeLayout(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "layout.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write layout: %v", err)
	}
	return path
}

// TestLoad tests configuration loading from the environment.
//
// WHY: Every component is wired from Config; wrong defaults or a silently
// accepted bad layout would only show up as confusing runtime behavior.
func TestLoad(t *testing.T) {
	t.Run("uses defaults", func(t *testing.T) {
		t.Setenv("SERVER_HOST", "")
		t.Setenv("SERVER_PORT", "")
		t.Setenv("GRID_LAYOUT_PATH", "")
		t.Setenv("RISK_PERCENTAGE", "")
		t.Setenv("ACCOUNT_SIZE", "")
		t.Setenv("CORS_ALLOWED_ORIGINS", "")

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if cfg.Server.Addr != "localhost:5001" {
			t.Errorf("Expected localhost:5001, got %s", cfg.Server.Addr)
		}
		if cfg.Risk.Percentage != 2 || cfg.Risk.AccountSize != 1500 {
			t.Errorf("Unexpected risk defaults: %+v", cfg.Risk)
		}
		if cfg.Grid.Kinds[model.ColProceeds] != validation.KindSignedPrice {
			t.Errorf("Expected proceeds to be signed_price, got %q", cfg.Grid.Kinds[model.ColProceeds])
		}
		if len(cfg.Grid.Kinds) != len(model.GridColumns) {
			t.Errorf("Expected a kind for every column, got %d", len(cfg.Grid.Kinds))
		}
		want := []string{"http://localhost:3000", "http://localhost"}
		if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, want) {
			t.Errorf("Expected origins %v, got %v", want, cfg.CORS.AllowedOrigins)
		}
	})

	t.Run("reads environment", func(t *testing.T) {
		t.Setenv("SERVER_HOST", "0.0.0.0")
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("RISK_PERCENTAGE", "1.5")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
		t.Setenv("SNAPSHOT_CRON", "0 0 * * * *")
		t.Setenv("GRID_LAYOUT_PATH", "")

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if cfg.Server.Addr != "0.0.0.0:8080" {
			t.Errorf("Expected 0.0.0.0:8080, got %s", cfg.Server.Addr)
		}
		if cfg.Risk.Percentage != 1.5 {
			t.Errorf("Expected risk 1.5, got %v", cfg.Risk.Percentage)
		}
		if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
			t.Errorf("Unexpected origins: %v", cfg.CORS.AllowedOrigins)
		}
		if cfg.Snapshot.Cron != "0 0 * * * *" {
			t.Errorf("Unexpected cron: %q", cfg.Snapshot.Cron)
		}
	})

	t.Run("rejects malformed numbers", func(t *testing.T) {
		t.Setenv("GRID_LAYOUT_PATH", "")
		t.Setenv("ACCOUNT_SIZE", "lots")

		if _, err := config.Load(); err == nil {
			t.Error("Expected error for non-numeric ACCOUNT_SIZE")
		}
	})

	t.Run("loads layout file", func(t *testing.T) {
		t.Setenv("RISK_PERCENTAGE", "")
		t.Setenv("ACCOUNT_SIZE", "")
		t.Setenv("GRID_LAYOUT_PATH", writeLayout(t, "columns:\n  ticker: alpha\n  cost: price\n"))

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if len(cfg.Grid.Kinds) != 2 || cfg.Grid.Kinds[model.ColCost] != validation.KindPrice {
			t.Errorf("Unexpected kinds: %v", cfg.Grid.Kinds)
		}
	})

	t.Run("unknown kind is a configuration error", func(t *testing.T) {
		t.Setenv("RISK_PERCENTAGE", "")
		t.Setenv("ACCOUNT_SIZE", "")
		t.Setenv("GRID_LAYOUT_PATH", writeLayout(t, "columns:\n  cost: currency\n"))

		_, err := config.Load()

		var cfgErr *apperrors.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("Expected ConfigurationError, got %v", err)
		}
		if cfgErr.Column != model.ColCost || cfgErr.Kind != "currency" {
			t.Errorf("Unexpected error: %+v", cfgErr)
		}
	})
}

func TestLayout_Kinds(t *testing.T) {
	t.Run("default layout resolves", func(t *testing.T) {
		if _, err := config.DefaultLayout().Kinds(); err != nil {
			t.Errorf("Expected default layout to be valid, got %v", err)
		}
	})

	t.Run("rejects unknown column", func(t *testing.T) {
		l := config.Layout{Columns: map[string]string{"notes": "alpha"}}
		if _, err := l.Kinds(); err == nil {
			t.Error("Expected error for unknown column")
		}
	})
}

func TestLoadLayout(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := config.LoadLayout(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("Expected error for missing file")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		if _, err := config.LoadLayout(writeLayout(t, "columns: [unterminated")); err == nil {
			t.Error("Expected error for invalid YAML")
		}
	})

	t.Run("empty layout", func(t *testing.T) {
		if _, err := config.LoadLayout(writeLayout(t, "columns: {}\n")); err == nil {
			t.Error("Expected error for empty layout")
		}
	})
}
