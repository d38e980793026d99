package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// WarehouseStockRecord holds the current quantity of one non-composite item
// inside one warehouse. The (warehouse, item) pair is unique. Records are
// created lazily on the first movement into a warehouse and never deleted;
// zero is a valid terminal value.
type WarehouseStockRecord struct {
	shared.BaseAggregateRoot
	WarehouseID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_record_warehouse_item,priority:1"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_record_warehouse_item,priority:2"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinStock     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Optional per-location minimum
}

// TableName returns the table name for GORM
func (WarehouseStockRecord) TableName() string {
	return "warehouse_stock_records"
}

// NewWarehouseStockRecord creates an empty stock record for a warehouse-item pair
func NewWarehouseStockRecord(warehouseID, itemID uuid.UUID) (*WarehouseStockRecord, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("Warehouse ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("Item ID cannot be empty")
	}
	return &WarehouseStockRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WarehouseID:       warehouseID,
		ItemID:            itemID,
		CurrentStock:      decimal.Zero,
		MinStock:          decimal.Zero,
	}, nil
}

// Apply adds the signed delta to the current stock. The non-negativity
// invariant is enforced here, at write time, before anything is persisted.
// Returns the before/after snapshots for the movement record.
func (r *WarehouseStockRecord) Apply(delta decimal.Decimal) (previous, current decimal.Decimal, err error) {
	if delta.IsZero() {
		return r.CurrentStock, r.CurrentStock, shared.NewValidationError("Adjustment delta cannot be zero")
	}
	previous = r.CurrentStock
	current = previous.Add(delta)
	if current.IsNegative() {
		return previous, previous, shared.NewNegativeStockError(previous, delta)
	}
	r.CurrentStock = current
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return previous, current, nil
}

// CanFulfill reports whether the record holds at least the requested quantity
func (r *WarehouseStockRecord) CanFulfill(quantity decimal.Decimal) bool {
	return r.CurrentStock.GreaterThanOrEqual(quantity)
}
