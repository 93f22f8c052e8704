package model

import "time"

// Snapshot is a saved copy of the grid, rows kept in display order.
type Snapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RowCount  int       `json:"rowCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// SnapshotRow is one stored grid row. Position is the row's display index.
type SnapshotRow struct {
	SnapshotID string
	Position   int
	Label      string
	Values     map[string]string
}
