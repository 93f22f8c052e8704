package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/silver-potato-kebab/trade-tracker/internal/config"
	"github.com/silver-potato-kebab/trade-tracker/internal/repository"
	"github.com/silver-potato-kebab/trade-tracker/internal/service"
	"github.com/silver-potato-kebab/trade-tracker/internal/validation"
)

// DefaultKinds resolves the built-in column layout.
func DefaultKinds(t *testing.T) map[string]validation.Kind {
	t.Helper()

	kinds, err := config.DefaultLayout().Kinds()
	if err != nil {
		t.Fatalf("Failed to resolve default layout: %v", err)
	}
	return kinds
}

func NewTestLedgerService(t *testing.T, opts ...service.LedgerOption) *service.LedgerService {
	t.Helper()

	svc, err := service.NewLedgerService(DefaultKinds(t), opts...)
	if err != nil {
		t.Fatalf("Failed to create ledger service: %v", err)
	}
	return svc
}

func NewTestSnapshotService(t *testing.T, db *sql.DB, ledger *service.LedgerService) *service.SnapshotService {
	t.Helper()

	return service.NewSnapshotService(
		db,
		repository.NewSnapshotRepository(db),
		ledger,
	)
}

func NewTestRiskService(t *testing.T) *service.RiskService {
	t.Helper()

	return service.NewRiskService(2, 1500)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeTicker generates an alphabetic ticker symbol for testing.
//
// Example usage:
//
//	ticker := testutil.MakeTicker("QQQ")
//	// Returns: "QQQABCD"
func MakeTicker(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomLetters(4)
}

// randomLetters generates a random upper-case string of specified length.
func randomLetters(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
