package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/atlas-erp/backend/internal/domain/inventory"
)

// newMockLevelRepo creates a repository backed by sqlmock so the tests can
// assert the exact SQL the atomic quantity operations emit against Postgres.
func newMockLevelRepo(t *testing.T) (*GormInventoryLevelRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormInventoryLevelRepository(gormDB), mock, mockDB
}

func TestDeductQuantity_GuardedUpdate(t *testing.T) {
	productID := uuid.New()
	warehouseID := uuid.New()

	t.Run("single guarded UPDATE carries the balance check", func(t *testing.T) {
		repo, mock, mockDB := newMockLevelRepo(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "inventories" SET .* WHERE product_id = .* AND warehouse_id = .* AND quantity_available >= .*`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DeductQuantity(context.Background(), productID, warehouseID, decimal.NewFromInt(30))
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows affected means insufficient stock", func(t *testing.T) {
		repo, mock, mockDB := newMockLevelRepo(t)
		defer mockDB.Close()

		// A concurrent movement drained the row between our read and this
		// write; the guard makes the database reject the decrement.
		mock.ExpectExec(`UPDATE "inventories" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeductQuantity(context.Background(), productID, warehouseID, decimal.NewFromInt(30))
		assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAddQuantity_AtomicIncrement(t *testing.T) {
	repo, mock, mockDB := newMockLevelRepo(t)
	defer mockDB.Close()

	mock.ExpectExec(`UPDATE "inventories" SET .*quantity_available.*\+.*`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AddQuantity(context.Background(), uuid.New(), uuid.New(), decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByProductForAllocation_LocksInWarehouseOrder(t *testing.T) {
	repo, mock, mockDB := newMockLevelRepo(t)
	defer mockDB.Close()

	productID := uuid.New()
	warehouseA := uuid.New()
	warehouseB := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "product_id", "warehouse_id", "quantity_available"}).
		AddRow(uuid.New().String(), productID.String(), warehouseA.String(), "10").
		AddRow(uuid.New().String(), productID.String(), warehouseB.String(), "25")

	mock.ExpectQuery(`SELECT \* FROM "inventories" WHERE product_id = .* AND quantity_available > 0 ORDER BY warehouse_id ASC FOR UPDATE`).
		WillReturnRows(rows)

	levels, err := repo.FindByProductForAllocation(context.Background(), productID)
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, warehouseA, levels[0].WarehouseID)
	assert.True(t, levels[1].QuantityAvailable.Equal(decimal.NewFromInt(25)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
