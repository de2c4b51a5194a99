package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"apotek/internal/database"
	"apotek/internal/logger"
	"apotek/internal/models"
)

// newTestDB opens a fresh SQLite database under t.TempDir().
func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(database.DriverSQLite, filepath.Join(t.TempDir(), "apotek.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestInventory(t *testing.T, today time.Time) (*InventoryService, *database.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewInventoryService(NewMedicineStore(db), NewAuditService(db, logger.Nop()))
	svc.Now = func() time.Time { return today }
	return svc, db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func input(name, category string, stock int, price float64, expiry time.Time) models.MedicineInput {
	return models.MedicineInput{
		Name:       name,
		Category:   category,
		Stock:      stock,
		Price:      price,
		ExpiryDate: expiry,
	}
}

func countAudit(t *testing.T, db *database.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM riwayat"))
	return n
}
