package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/opsdesk/backend/internal/domain/inventory"
	"github.com/opsdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRecordRepository implements StockRecordRepository using GORM
type GormStockRecordRepository struct {
	db *gorm.DB
}

// NewGormStockRecordRepository creates a new GormStockRecordRepository
func NewGormStockRecordRepository(db *gorm.DB) *GormStockRecordRepository {
	return &GormStockRecordRepository{db: db}
}

// FindByWarehouseAndItem finds the record for a warehouse-item pair
func (r *GormStockRecordRepository) FindByWarehouseAndItem(ctx context.Context, warehouseID, itemID uuid.UUID) (*inventory.WarehouseStockRecord, error) {
	var record inventory.WarehouseStockRecord
	if err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND item_id = ?", warehouseID, itemID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetOrCreateForUpdate returns the record for a warehouse-item pair with the
// row locked until the enclosing transaction ends, creating an empty record
// when none exists. Must only be called inside a transaction.
func (r *GormStockRecordRepository) GetOrCreateForUpdate(ctx context.Context, warehouseID, itemID uuid.UUID) (*inventory.WarehouseStockRecord, error) {
	record, err := r.findForUpdate(ctx, warehouseID, itemID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	record, err = inventory.NewWarehouseStockRecord(warehouseID, itemID)
	if err != nil {
		return nil, err
	}

	// ON CONFLICT DO NOTHING handles a concurrent insert of the same pair
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "warehouse_id"}, {Name: "item_id"}},
			DoNothing: true,
		}).
		Create(record).Error; err != nil {
		return nil, err
	}

	return r.findForUpdate(ctx, warehouseID, itemID)
}

func (r *GormStockRecordRepository) findForUpdate(ctx context.Context, warehouseID, itemID uuid.UUID) (*inventory.WarehouseStockRecord, error) {
	var record inventory.WarehouseStockRecord
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("warehouse_id = ? AND item_id = ?", warehouseID, itemID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByItem finds all records for an item across warehouses
func (r *GormStockRecordRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]inventory.WarehouseStockRecord, error) {
	var records []inventory.WarehouseStockRecord
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates a stock record
func (r *GormStockRecordRepository) Save(ctx context.Context, record *inventory.WarehouseStockRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// SumByItem sums current stock for an item across all warehouses
func (r *GormStockRecordRepository) SumByItem(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&inventory.WarehouseStockRecord{}).
		Where("item_id = ?", itemID).
		Select("COALESCE(SUM(current_stock), 0)").
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Ensure GormStockRecordRepository implements StockRecordRepository
var _ inventory.StockRecordRepository = (*GormStockRecordRepository)(nil)
