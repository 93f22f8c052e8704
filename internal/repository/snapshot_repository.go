package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/silver-potato-kebab/trade-tracker/internal/apperrors"
	"github.com/silver-potato-kebab/trade-tracker/internal/model"
)

// snapshotRowColumns are the grid columns stored per snapshot row, in table order.
var snapshotRowColumns = model.GridColumns

// SnapshotRepository provides data access methods for the snapshot and snapshot_row tables.
type SnapshotRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// WithTx returns a new SnapshotRepository scoped to the provided transaction.
func (r *SnapshotRepository) WithTx(tx *sql.Tx) *SnapshotRepository {
	return &SnapshotRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *SnapshotRepository) getQuerier() interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetSnapshots retrieves all snapshots, newest first.
// Returns an empty slice if none exist.
func (r *SnapshotRepository) GetSnapshots(ctx context.Context) ([]model.Snapshot, error) {
	query := `
        SELECT id, name, row_count, created_at
        FROM snapshot
        ORDER BY created_at DESC, name ASC
    `

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot table: %w", err)
	}
	defer rows.Close()

	snapshots := []model.Snapshot{}
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot table: %w", err)
	}

	return snapshots, nil
}

// GetSnapshot retrieves one snapshot header.
// Returns apperrors.ErrSnapshotNotFound if the ID does not exist.
func (r *SnapshotRepository) GetSnapshot(ctx context.Context, snapshotID string) (model.Snapshot, error) {
	query := `
        SELECT id, name, row_count, created_at
        FROM snapshot
        WHERE id = ?
    `

	s, err := scanSnapshot(r.getQuerier().QueryRowContext(ctx, query, snapshotID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}, apperrors.ErrSnapshotNotFound
	}
	if err != nil {
		return model.Snapshot{}, err
	}
	return s, nil
}

// GetSnapshotRows retrieves the stored rows of a snapshot in display order.
func (r *SnapshotRepository) GetSnapshotRows(ctx context.Context, snapshotID string) ([]model.SnapshotRow, error) {
	query := fmt.Sprintf(`
        SELECT snapshot_id, position, label, %s
        FROM snapshot_row
        WHERE snapshot_id = ?
        ORDER BY position ASC
    `, strings.Join(snapshotRowColumns, ", "))

	rows, err := r.getQuerier().QueryContext(ctx, query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot_row table: %w", err)
	}
	defer rows.Close()

	result := []model.SnapshotRow{}
	for rows.Next() {
		var sr model.SnapshotRow
		values := make([]string, len(snapshotRowColumns))

		dest := []any{&sr.SnapshotID, &sr.Position, &sr.Label}
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot_row table results: %w", err)
		}

		sr.Values = make(map[string]string)
		for i, column := range snapshotRowColumns {
			if values[i] != "" {
				sr.Values[column] = values[i]
			}
		}
		result = append(result, sr)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot_row table: %w", err)
	}

	return result, nil
}

// InsertSnapshot inserts a snapshot header.
func (r *SnapshotRepository) InsertSnapshot(ctx context.Context, s model.Snapshot) error {
	query := `
        INSERT INTO snapshot (id, name, row_count, created_at)
        VALUES (?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		s.ID,
		s.Name,
		s.RowCount,
		s.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return nil
}

// InsertSnapshotRows inserts the rows of a snapshot.
func (r *SnapshotRepository) InsertSnapshotRows(ctx context.Context, rows []model.SnapshotRow) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(snapshotRowColumns)+3), ", ")
	query := fmt.Sprintf(`
        INSERT INTO snapshot_row (snapshot_id, position, label, %s)
        VALUES (%s)
    `, strings.Join(snapshotRowColumns, ", "), placeholders)

	for _, sr := range rows {
		args := []any{sr.SnapshotID, sr.Position, sr.Label}
		for _, column := range snapshotRowColumns {
			args = append(args, sr.Values[column])
		}

		if _, err := r.getQuerier().ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert snapshot_row %d: %w", sr.Position, err)
		}
	}

	return nil
}

// DeleteSnapshot removes a snapshot and, by cascade, its rows.
// Returns apperrors.ErrSnapshotNotFound if the ID does not exist.
func (r *SnapshotRepository) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	query := `DELETE FROM snapshot WHERE id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, snapshotID)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrSnapshotNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (model.Snapshot, error) {
	var s model.Snapshot
	var createdAt string

	if err := row.Scan(&s.ID, &s.Name, &s.RowCount, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Snapshot{}, err
		}
		return model.Snapshot{}, fmt.Errorf("failed to scan snapshot table results: %w", err)
	}

	t, err := ParseTime(createdAt)
	if err != nil {
		return model.Snapshot{}, err
	}
	s.CreatedAt = t
	return s, nil
}
