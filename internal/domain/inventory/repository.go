package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemRepository defines the interface for item persistence. Catalog
// management owns item creation; the inventory core reads metadata and
// maintains the aggregate stock and cost fields.
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindBySKU finds an item by its unique SKU
	FindBySKU(ctx context.Context, sku string) (*Item, error)

	// FindByIDs finds multiple items by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Item, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *Item) error

	// UpdateTotalStock sets the denormalized aggregate for an item
	UpdateTotalStock(ctx context.Context, itemID uuid.UUID, total decimal.Decimal) error

	// UpdateCostPrice sets the item cost
	UpdateCostPrice(ctx context.Context, itemID uuid.UUID, cost decimal.Decimal) error
}

// WarehouseRepository defines the interface for warehouse persistence
type WarehouseRepository interface {
	// FindByID finds a warehouse by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)

	// FindActive finds all active warehouses
	FindActive(ctx context.Context) ([]Warehouse, error)

	// Save creates or updates a warehouse
	Save(ctx context.Context, w *Warehouse) error
}

// StockRecordRepository defines the interface for warehouse stock records
type StockRecordRepository interface {
	// FindByWarehouseAndItem finds the record for a warehouse-item pair
	FindByWarehouseAndItem(ctx context.Context, warehouseID, itemID uuid.UUID) (*WarehouseStockRecord, error)

	// GetOrCreateForUpdate returns the record for a warehouse-item pair,
	// creating it lazily when missing, with the row locked for the duration
	// of the enclosing transaction. Must only be called inside a transaction.
	GetOrCreateForUpdate(ctx context.Context, warehouseID, itemID uuid.UUID) (*WarehouseStockRecord, error)

	// FindByItem finds all records for an item across warehouses
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]WarehouseStockRecord, error)

	// Save creates or updates a stock record
	Save(ctx context.Context, record *WarehouseStockRecord) error

	// SumByItem sums current stock for an item across all warehouses
	SumByItem(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error)
}

// MovementFilter narrows movement queries
type MovementFilter struct {
	shared.Filter
	ItemID      *uuid.UUID
	WarehouseID *uuid.UUID
	Type        *MovementType
	StartDate   *time.Time
	EndDate     *time.Time
}

// MovementRepository is the append-only interface for stock movements.
// Movements are never updated or deleted.
type MovementRepository interface {
	// Create appends a movement record
	Create(ctx context.Context, movement *StockMovement) error

	// CreateBatch appends multiple movement records
	CreateBatch(ctx context.Context, movements []*StockMovement) error

	// FindByFilter finds movements matching the filter
	FindByFilter(ctx context.Context, filter MovementFilter) ([]StockMovement, error)

	// FindByItemSince finds movements for an item recorded strictly after the
	// given time, newest first, for point-in-time reconstruction
	FindByItemSince(ctx context.Context, itemID uuid.UUID, since time.Time) ([]StockMovement, error)

	// FindByReceipt finds movements caused by a goods receipt
	FindByReceipt(ctx context.Context, receiptID uuid.UUID) ([]StockMovement, error)

	// FindByTransfer finds movements caused by a warehouse transfer
	FindByTransfer(ctx context.Context, transferID uuid.UUID) ([]StockMovement, error)

	// CountByFilter counts movements matching the filter
	CountByFilter(ctx context.Context, filter MovementFilter) (int64, error)
}

// GoodsReceiptRepository defines the interface for goods receipt persistence
type GoodsReceiptRepository interface {
	// FindByID finds a receipt with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*GoodsReceipt, error)

	// FindByNumber finds a receipt by its document number
	FindByNumber(ctx context.Context, number string) (*GoodsReceipt, error)

	// FindByStatus finds receipts with the given status
	FindByStatus(ctx context.Context, status ReceiptStatus, filter shared.Filter) ([]GoodsReceipt, error)

	// FindAll lists receipts
	FindAll(ctx context.Context, filter shared.Filter) ([]GoodsReceipt, error)

	// Save creates or updates a receipt together with its lines
	Save(ctx context.Context, receipt *GoodsReceipt) error

	// Delete removes a receipt and its lines; callers must check CanDelete first
	Delete(ctx context.Context, id uuid.UUID) error

	// GenerateNumber produces the next receipt document number
	GenerateNumber(ctx context.Context) (string, error)
}

// TransferRepository defines the interface for warehouse transfer persistence
type TransferRepository interface {
	// FindByID finds a transfer with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*WarehouseTransfer, error)

	// FindAll lists transfers
	FindAll(ctx context.Context, filter shared.Filter) ([]WarehouseTransfer, error)

	// Save creates or updates a transfer; line replacement uses
	// delete-all-then-recreate semantics
	Save(ctx context.Context, transfer *WarehouseTransfer) error

	// Delete removes a transfer and its lines; callers must check CanDelete first
	Delete(ctx context.Context, id uuid.UUID) error

	// GenerateNumber produces the next transfer document number
	GenerateNumber(ctx context.Context) (string, error)
}

// RecipeComponentRepository reads the bill of materials of composite items
type RecipeComponentRepository interface {
	// FindByComposite finds the components of a composite item
	FindByComposite(ctx context.Context, compositeItemID uuid.UUID) ([]RecipeComponent, error)

	// Save creates or updates a recipe component
	Save(ctx context.Context, component *RecipeComponent) error
}
