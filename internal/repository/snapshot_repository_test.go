package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/silver-potato-kebab/trade-tracker/internal/apperrors"
	"github.com/silver-potato-kebab/trade-tracker/internal/model"
	"github.com/silver-potato-kebab/trade-tracker/internal/repository"
	"github.com/silver-potato-kebab/trade-tracker/internal/testutil"
)

// TestSnapshotRepository_Rows tests storing and reading snapshot rows.
//
// WHY: Empty strings are how the grid marks blank separators and unset
// computed fields; reading back must not turn them into present-but-empty
// values or the restored grid would no longer recognise separators.
func TestSnapshotRepository_Rows(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewSnapshotRepository(db)

	snapshot := testutil.NewSnapshot().
		WithRecords(testutil.NewTrade().Build()).
		WithBlank().
		WithRecords(testutil.NewTrade().WithTicker("SPY").Build()).
		Build(t, db)

	rows, err := repo.GetSnapshotRows(ctx, snapshot.ID)
	if err != nil {
		t.Fatalf("GetSnapshotRows() returned unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	for i, r := range rows {
		if r.Position != i || r.SnapshotID != snapshot.ID {
			t.Errorf("Row %d: unexpected position %d or snapshot %s", i, r.Position, r.SnapshotID)
		}
	}
	if len(rows[1].Values) != 0 {
		t.Errorf("Expected blank row to have no values, got %v", rows[1].Values)
	}
	if rows[2].Values[model.ColTicker] != "SPY" {
		t.Errorf("Expected SPY, got %v", rows[2].Values)
	}
	if _, ok := rows[0].Values[model.ColCloseDate]; ok {
		t.Error("Expected empty close_date to be omitted")
	}
}

func TestSnapshotRepository_GetSnapshots(t *testing.T) {
	ctx := context.Background()

	t.Run("returns empty slice", func(t *testing.T) {
		repo := repository.NewSnapshotRepository(testutil.SetupTestDB(t))

		snapshots, err := repo.GetSnapshots(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if snapshots == nil || len(snapshots) != 0 {
			t.Errorf("Expected empty non-nil slice, got %v", snapshots)
		}
	})

	t.Run("orders newest first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSnapshotRepository(db)
		base := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

		older := testutil.NewSnapshot().WithName("older").WithCreatedAt(base).Build(t, db)
		newer := testutil.NewSnapshot().WithName("newer").WithCreatedAt(base.Add(time.Hour)).Build(t, db)

		snapshots, err := repo.GetSnapshots(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(snapshots) != 2 || snapshots[0].ID != newer.ID || snapshots[1].ID != older.ID {
			t.Errorf("Unexpected order: %+v", snapshots)
		}
		if !snapshots[1].CreatedAt.Equal(base) {
			t.Errorf("Expected created_at %v, got %v", base, snapshots[1].CreatedAt)
		}
	})
}

func TestSnapshotRepository_GetSnapshot(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewSnapshotRepository(db)

	saved := testutil.NewSnapshot().WithName("weekly").WithRecords(testutil.NewTrade().Build()).Build(t, db)

	got, err := repo.GetSnapshot(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetSnapshot() returned unexpected error: %v", err)
	}
	if got.Name != "weekly" || got.RowCount != 1 {
		t.Errorf("Unexpected snapshot: %+v", got)
	}

	if _, err := repo.GetSnapshot(ctx, testutil.MakeID()); !errors.Is(err, apperrors.ErrSnapshotNotFound) {
		t.Errorf("Expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestSnapshotRepository_DeleteSnapshot(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewSnapshotRepository(db)

	saved := testutil.NewSnapshot().WithRecords(testutil.NewTrade().Build()).WithBlank().Build(t, db)

	if err := repo.DeleteSnapshot(ctx, saved.ID); err != nil {
		t.Fatalf("DeleteSnapshot() returned unexpected error: %v", err)
	}

	rows, err := repo.GetSnapshotRows(ctx, saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected rows removed by cascade, got %d", len(rows))
	}

	if err := repo.DeleteSnapshot(ctx, saved.ID); !errors.Is(err, apperrors.ErrSnapshotNotFound) {
		t.Errorf("Expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestSnapshotRepository_WithTx(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewSnapshotRepository(db)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	snapshot := model.Snapshot{ID: testutil.MakeID(), Name: "rolled back", CreatedAt: time.Now()}
	if err := repo.WithTx(tx).InsertSnapshot(ctx, snapshot); err != nil {
		t.Fatal(err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.GetSnapshot(ctx, snapshot.ID); !errors.Is(err, apperrors.ErrSnapshotNotFound) {
		t.Errorf("Expected rolled back snapshot to be absent, got %v", err)
	}
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"RFC3339", "2024-01-02T03:04:05Z", want},
		{"RFC3339 with offset", "2024-01-02T05:04:05+02:00", want},
		{"RFC3339 with fraction", "2024-01-02T03:04:05.000Z", want},
		{"SQLite datetime", "2024-01-02 03:04:05", want},
		{"date only", "2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repository.ParseTime(tt.input)
			if err != nil {
				t.Fatalf("ParseTime() returned unexpected error: %v", err)
			}
			if !got.Equal(tt.want) || got.Location() != time.UTC {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	if _, err := repository.ParseTime("yesterday"); err == nil {
		t.Error("Expected error for unparsable time")
	}
}
