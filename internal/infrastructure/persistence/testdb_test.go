package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cobranza/backend/internal/infrastructure/persistence/models"
)

// setupTestDB opens an in-memory SQLite database with all tables migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.PaymentScheduleModel{},
		&models.InstallmentModel{},
		&models.InstallmentStatusHistoryModel{},
		&models.PaymentModel{},
		&models.ManagementModel{},
		&models.CustomerModel{},
	)
	require.NoError(t, err)

	return db
}
