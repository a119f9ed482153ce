package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/inventory"
	"github.com/resale/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockInventoryItemRepository creates a GormInventoryItemRepository with a mocked SQL connection
func newMockInventoryItemRepository(t *testing.T) (*GormInventoryItemRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormInventoryItemRepository(gormDB), mock, mockDB
}

func newTestCohortForRepo(t *testing.T) *inventory.InventoryItem {
	t.Helper()

	item, err := inventory.NewCohort(inventory.NewCohortParams{
		PurchaseOrderLineID: uuid.New(),
		VariantID:           uuid.New(),
		SellerSKU:           "GS0010001",
		Quantity:            4,
		AllocatedUnitCost:   decimal.NewFromFloat(12.50),
		ConditionGradeID:    uuid.New(),
	})
	require.NoError(t, err)
	return item
}

func TestGormInventoryItemRepository_Create(t *testing.T) {
	t.Run("inserts a new cohort", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		item := newTestCohortForRepo(t)
		mock.ExpectExec(`INSERT INTO "inventory_items"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), item)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps a seller_sku uniqueness violation to already exists", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		item := newTestCohortForRepo(t)
		mock.ExpectExec(`INSERT INTO "inventory_items"`).
			WillReturnError(gorm.ErrDuplicatedKey)

		err := repo.Create(context.Background(), item)

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_Save(t *testing.T) {
	t.Run("applies the version-guarded update", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		item := newTestCohortForRepo(t)
		item.Quantity = 3
		item.IncrementVersion()

		mock.ExpectExec(`UPDATE "inventory_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Save(context.Background(), item)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a concurrency conflict when the stored version moved on", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		item := newTestCohortForRepo(t)
		item.IncrementVersion()

		mock.ExpectExec(`UPDATE "inventory_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Save(context.Background(), item)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps a seller_sku uniqueness violation to already exists", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryItemRepository(t)
		defer mockDB.Close()

		item := newTestCohortForRepo(t)
		item.SellerSKU = "GS0010002"
		item.IncrementVersion()

		mock.ExpectExec(`UPDATE "inventory_items" SET`).
			WillReturnError(gorm.ErrDuplicatedKey)

		err := repo.Save(context.Background(), item)

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
