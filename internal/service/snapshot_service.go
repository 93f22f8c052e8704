package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/silver-potato-kebab/trade-tracker/internal/apperrors"
	"github.com/silver-potato-kebab/trade-tracker/internal/logging"
	"github.com/silver-potato-kebab/trade-tracker/internal/model"
	"github.com/silver-potato-kebab/trade-tracker/internal/repository"
)

// SnapshotService saves the ledger grid to SQLite and restores it.
type SnapshotService struct {
	db           *sql.DB
	snapshotRepo *repository.SnapshotRepository
	ledger       *LedgerService
	now          func() time.Time
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *sql.DB, snapshotRepo *repository.SnapshotRepository, ledger *LedgerService) *SnapshotService {
	return &SnapshotService{
		db:           db,
		snapshotRepo: snapshotRepo,
		ledger:       ledger,
		now:          time.Now,
	}
}

// ListSnapshots returns all saved snapshots, newest first.
func (s *SnapshotService) ListSnapshots(ctx context.Context) ([]model.Snapshot, error) {
	snapshots, err := s.snapshotRepo.GetSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToListSnapshots, err)
	}
	return snapshots, nil
}

// SaveSnapshot stores the current grid, blank separators and computed fields
// included, under name. Header and rows are written in one transaction.
func (s *SnapshotService) SaveSnapshot(ctx context.Context, name string) (model.Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Snapshot{}, apperrors.ErrInvalidSnapshotName
	}

	rows := s.ledger.Rows()
	snapshot := model.Snapshot{
		ID:        uuid.New().String(),
		Name:      name,
		RowCount:  len(rows),
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}

	stored := make([]model.SnapshotRow, 0, len(rows))
	for i, r := range rows {
		stored = append(stored, model.SnapshotRow{
			SnapshotID: snapshot.ID,
			Position:   i,
			Label:      r.Label,
			Values:     r.Values,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrFailedToSaveSnapshot, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	repo := s.snapshotRepo.WithTx(tx)
	if err := repo.InsertSnapshot(ctx, snapshot); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToSaveSnapshot, err)
	}
	if err := repo.InsertSnapshotRows(ctx, stored); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToSaveSnapshot, err)
	}
	if err := tx.Commit(); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: failed to commit transaction: %w", apperrors.ErrFailedToSaveSnapshot, err)
	}

	logging.Event(ctx, "snapshot_saved", "snapshot_id", snapshot.ID, "rows", snapshot.RowCount)
	return snapshot, nil
}

// RestoreSnapshot replaces the grid with a saved snapshot. Stored computed
// fields are restored as they were; the engine is not rerun.
//
// Returns apperrors.ErrSnapshotNotFound for an unknown ID and
// apperrors.ErrEditSessionOpen while an edit is open.
func (s *SnapshotService) RestoreSnapshot(ctx context.Context, snapshotID string) (model.Snapshot, error) {
	snapshot, err := s.snapshotRepo.GetSnapshot(ctx, snapshotID)
	if err != nil {
		return model.Snapshot{}, err
	}

	rows, err := s.snapshotRepo.GetSnapshotRows(ctx, snapshotID)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRestoreSnapshot, err)
	}

	if err := s.ledger.Replace(ctx, rows); err != nil {
		return model.Snapshot{}, err
	}

	logging.Event(ctx, "snapshot_restored", "snapshot_id", snapshot.ID, "rows", len(rows))
	return snapshot, nil
}

// DeleteSnapshot removes a saved snapshot.
func (s *SnapshotService) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	if err := s.snapshotRepo.DeleteSnapshot(ctx, snapshotID); err != nil {
		return err
	}

	logging.Event(ctx, "snapshot_deleted", "snapshot_id", snapshotID)
	return nil
}

// Autosave is the scheduled snapshot job. An empty grid is not saved.
func (s *SnapshotService) Autosave(ctx context.Context) error {
	if len(s.ledger.Rows()) == 0 {
		logging.Debug(ctx, "Autosave skipped, ledger is empty")
		return nil
	}

	_, err := s.SaveSnapshot(ctx, "autosave "+s.now().UTC().Format(time.RFC3339))
	return err
}
