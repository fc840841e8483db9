package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orderhub/backend/internal/infrastructure/persistence/models"
)

// setupTestDB opens an in-memory SQLite database with all tables
// migrated. A single connection keeps the shared memory database
// visible to every goroutine in concurrency tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.CustomerModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.ProductModel{},
		&models.StatusModel{},
		&models.OrderStatusModel{},
		&models.OrderStatusDetailModel{},
		&models.PaymentModel{},
		&models.ShippingModel{},
		&models.GeographyModel{},
		&models.ProcessingDateModel{},
		&models.KeySequenceModel{},
		&models.SyncStateModel{},
	)
	require.NoError(t, err)

	return db
}
