package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrRowNotFound indicates that no row with the given ID exists in the grid.
	// Row IDs issued before the last Clear are reported with this error.
	ErrRowNotFound = errors.New("row not found")

	// ErrSnapshotNotFound indicates that a saved ledger snapshot does not exist.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrNoEditSession indicates that an editor operation requires a live edit session.
	ErrNoEditSession = errors.New("no edit session open")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrKeystrokeRejected indicates that the prospective field text failed the column's validation kind.
	ErrKeystrokeRejected = errors.New("keystroke rejected")

	// ErrEditSessionOpen indicates that the grid cannot be cleared while an edit session is live.
	ErrEditSessionOpen = errors.New("edit session is open")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrInvalidPositionSize indicates that position sizing inputs cannot produce a share count.
	ErrInvalidPositionSize = errors.New("invalid position size input")

	ErrInvalidSnapshotName = errors.New("snapshot name is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToImportLedger    = errors.New("failed to import ledger")
	ErrFailedToExportLedger    = errors.New("failed to export ledger")
	ErrFailedToRecompute       = errors.New("failed to recompute lots")
	ErrFailedToAddEntry        = errors.New("failed to add entry")
	ErrFailedToOpenEditor      = errors.New("failed to open editor")
	ErrFailedToCommitEdit      = errors.New("failed to commit edit")
	ErrFailedToSaveSnapshot    = errors.New("failed to save snapshot")
	ErrFailedToRestoreSnapshot = errors.New("failed to restore snapshot")
	ErrFailedToListSnapshots   = errors.New("failed to retrieve snapshots")
	ErrFailedToDeleteSnapshot  = errors.New("failed to delete snapshot")
	ErrFailedToGetVersionInfo  = errors.New("failed to get version information")
	ErrInvalidCSVHeaders       = errors.New("invalid CSV headers")
)

// Data integrity errors represent inconsistencies in the grid contents.
var (
	// ErrUnparsableNumber indicates that a numeric grid field could not be parsed.
	ErrUnparsableNumber = errors.New("field is not numeric")

	// ErrOrphanSeparator indicates a blank separator row that does not close an open lot.
	ErrOrphanSeparator = errors.New("blank row without an open lot")
)
