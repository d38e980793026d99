package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/opsdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM DB backed by sqlmock for repository tests
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
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

	return gormDB, mock, mockDB
}

func TestGormItemRepository_FindByID(t *testing.T) {
	t.Run("finds existing item", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(gormDB)

		itemID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "sku", "name", "unit", "is_composite", "total_stock"}).
			AddRow(itemID, "SKU-001", "Espresso Beans 1kg", "pcs", false, "42.5")

		mock.ExpectQuery(`SELECT \* FROM "items" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(itemID, 1).
			WillReturnRows(rows)

		item, err := repo.FindByID(context.Background(), itemID)

		assert.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, itemID, item.ID)
		assert.Equal(t, "SKU-001", item.SKU)
		assert.True(t, item.TotalStock.Equal(decimal.RequireFromString("42.5")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing item", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(gormDB)

		itemID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "items" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(itemID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		item, err := repo.FindByID(context.Background(), itemID)

		assert.Nil(t, item)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormItemRepository_FindBySKU(t *testing.T) {
	t.Run("uppercases the SKU before lookup", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(gormDB)

		itemID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "sku", "name"}).
			AddRow(itemID, "SKU-001", "Espresso Beans 1kg")

		mock.ExpectQuery(`SELECT \* FROM "items" WHERE sku = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("SKU-001", 1).
			WillReturnRows(rows)

		item, err := repo.FindBySKU(context.Background(), "sku-001")

		assert.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, "SKU-001", item.SKU)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormItemRepository_FindByIDs(t *testing.T) {
	t.Run("returns empty slice without querying for no IDs", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(gormDB)

		items, err := repo.FindByIDs(context.Background(), nil)

		assert.NoError(t, err)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("finds multiple items", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(gormDB)

		firstID := uuid.New()
		secondID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "sku", "name"}).
			AddRow(firstID, "SKU-001", "Espresso Beans 1kg").
			AddRow(secondID, "SKU-002", "Paper Cups 8oz")

		mock.ExpectQuery(`SELECT \* FROM "items" WHERE id IN \(\$1,\$2\)`).
			WithArgs(firstID, secondID).
			WillReturnRows(rows)

		items, err := repo.FindByIDs(context.Background(), []uuid.UUID{firstID, secondID})

		assert.NoError(t, err)
		assert.Len(t, items, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormItemRepository_UpdateTotalStock(t *testing.T) {
	t.Run("updates the aggregate column", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(gormDB)

		itemID := uuid.New()

		mock.ExpectExec(`UPDATE "items" SET "total_stock"=\$1,"updated_at"=\$2 WHERE id = \$3`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), itemID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateTotalStock(context.Background(), itemID, decimal.NewFromInt(70))

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when no row matched", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormItemRepository(gormDB)

		itemID := uuid.New()

		mock.ExpectExec(`UPDATE "items" SET "total_stock"=\$1,"updated_at"=\$2 WHERE id = \$3`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), itemID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateTotalStock(context.Background(), itemID, decimal.NewFromInt(70))

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormItemRepository_UpdateCostPrice(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormItemRepository(gormDB)

	itemID := uuid.New()

	mock.ExpectExec(`UPDATE "items" SET "cost_price"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), itemID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateCostPrice(context.Background(), itemID, decimal.RequireFromString("12.50"))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
