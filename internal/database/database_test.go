package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/silver-potato-kebab/trade-tracker/internal/database"
)

// TestMigrate tests applying the embedded migrations.
//
// WHY: Snapshots are the only persisted state; the schema must come up from
// an empty file and a second run must be a no-op.
func TestMigrate(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("Open() returned unexpected error: %v", err)
	}
	defer db.Close()

	current, latest, err := database.SchemaVersion(ctx, db)
	if err != nil {
		t.Fatalf("SchemaVersion() returned unexpected error: %v", err)
	}
	if current != 0 || latest < 1 {
		t.Errorf("Expected unmigrated schema, got current=%d latest=%d", current, latest)
	}

	applied, err := database.Migrate(ctx, db)
	if err != nil {
		t.Fatalf("Migrate() returned unexpected error: %v", err)
	}
	if int64(applied) != latest {
		t.Errorf("Expected %d migrations applied, got %d", latest, applied)
	}

	applied, err = database.Migrate(ctx, db)
	if err != nil || applied != 0 {
		t.Errorf("Expected second run to apply nothing, got %d (%v)", applied, err)
	}

	current, _, err = database.SchemaVersion(ctx, db)
	if err != nil || current != latest {
		t.Errorf("Expected schema at %d, got %d (%v)", latest, current, err)
	}

	var name string
	if err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'snapshot_row'").Scan(&name); err != nil {
		t.Errorf("Expected snapshot_row table: %v", err)
	}
}

func TestOpen_EnablesForeignKeys(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "fk.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var enabled int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		t.Fatal(err)
	}
	if enabled != 1 {
		t.Errorf("Expected foreign_keys on, got %d", enabled)
	}
}

func TestHealthCheck(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "health.db"))
	if err != nil {
		t.Fatal(err)
	}

	if err := database.HealthCheck(context.Background(), db); err != nil {
		t.Errorf("Expected healthy database, got %v", err)
	}

	db.Close()
	if err := database.HealthCheck(context.Background(), db); err == nil {
		t.Error("Expected error after close")
	}
}
