package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/opsdesk/backend/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
)

func TestGormMovementRepository_FindByItemSince(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormMovementRepository(gormDB)

	itemID := uuid.New()
	since := time.Now().Add(-24 * time.Hour)

	rows := sqlmock.NewRows([]string{"id", "item_id", "type", "quantity", "previous_stock", "new_stock", "occurred_at"}).
		AddRow(uuid.New(), itemID, "ADJUSTMENT_PLUS", "30", "50", "80", time.Now()).
		AddRow(uuid.New(), itemID, "CONSUMPTION", "-10", "60", "50", time.Now().Add(-time.Hour))

	mock.ExpectQuery(`SELECT \* FROM "stock_movements" WHERE item_id = \$1 AND occurred_at > \$2 ORDER BY occurred_at DESC`).
		WithArgs(itemID, sqlmock.AnyArg()).
		WillReturnRows(rows)

	movements, err := repo.FindByItemSince(context.Background(), itemID, since)

	assert.NoError(t, err)
	assert.Len(t, movements, 2)
	assert.Equal(t, inventory.MovementTypeAdjustmentPlus, movements[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormMovementRepository_FindByFilter(t *testing.T) {
	t.Run("applies item, type and pagination", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMovementRepository(gormDB)

		itemID := uuid.New()
		movementType := inventory.MovementTypeReceipt

		rows := sqlmock.NewRows([]string{"id", "item_id", "type", "quantity"}).
			AddRow(uuid.New(), itemID, "RECEIPT", "10")

		mock.ExpectQuery(`SELECT \* FROM "stock_movements" WHERE item_id = \$1 AND type = \$2 ORDER BY occurred_at DESC LIMIT .* OFFSET .*`).
			WithArgs(itemID, movementType, 20, 20).
			WillReturnRows(rows)

		filter := inventory.MovementFilter{
			ItemID: &itemID,
			Type:   &movementType,
		}
		filter.Page = 2
		filter.PageSize = 20

		movements, err := repo.FindByFilter(context.Background(), filter)

		assert.NoError(t, err)
		assert.Len(t, movements, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("orders by whitelisted field only", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMovementRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "stock_movements" ORDER BY quantity ASC`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		filter := inventory.MovementFilter{}
		filter.OrderBy = "quantity"
		filter.OrderDir = "asc"

		_, err := repo.FindByFilter(context.Background(), filter)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("falls back to default order for non-whitelisted expressions", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMovementRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "stock_movements" ORDER BY occurred_at DESC`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		filter := inventory.MovementFilter{}
		filter.OrderBy = "(SELECT CASE WHEN (SELECT 1)=1 THEN occurred_at ELSE id END)"

		_, err := repo.FindByFilter(context.Background(), filter)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies date range", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMovementRepository(gormDB)

		start := time.Now().Add(-48 * time.Hour)
		end := time.Now()

		mock.ExpectQuery(`SELECT \* FROM "stock_movements" WHERE occurred_at >= \$1 AND occurred_at <= \$2 ORDER BY occurred_at DESC`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		movements, err := repo.FindByFilter(context.Background(), inventory.MovementFilter{
			StartDate: &start,
			EndDate:   &end,
		})

		assert.NoError(t, err)
		assert.Empty(t, movements)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMovementRepository_CountByFilter(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormMovementRepository(gormDB)

	warehouseID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_movements" WHERE warehouse_id = \$1`).
		WithArgs(warehouseID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountByFilter(context.Background(), inventory.MovementFilter{
		WarehouseID: &warehouseID,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormMovementRepository_CreateBatch(t *testing.T) {
	t.Run("no-op for empty batch", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMovementRepository(gormDB)

		err := repo.CreateBatch(context.Background(), nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
