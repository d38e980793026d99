package inventory

import (
	"time"

	"github.com/opsdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Item is a stockable catalog unit. Catalog management owns creation and
// metadata; the inventory core reads the metadata and maintains TotalStock,
// the denormalized aggregate over all warehouse stock records.
type Item struct {
	shared.BaseAggregateRoot
	SKU         string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Unit        string          `gorm:"type:varchar(32);not null;default:'pcs'"`
	IsComposite bool            `gorm:"not null;default:false"`
	MinStock    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Minimum stock threshold for alerts
	CostPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalStock  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Sum of stock records, recomputed transactionally
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new catalog item
func NewItem(sku, name, unit string, isComposite bool) (*Item, error) {
	if sku == "" {
		return nil, shared.NewValidationError("SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Item name cannot be empty")
	}
	if unit == "" {
		unit = "pcs"
	}
	return &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		Unit:              unit,
		IsComposite:       isComposite,
		MinStock:          decimal.Zero,
		CostPrice:         decimal.Zero,
		TotalStock:        decimal.Zero,
	}, nil
}

// SetCostPrice updates the item cost
func (i *Item) SetCostPrice(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewValidationError("Cost price cannot be negative")
	}
	i.CostPrice = cost
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// IsBelowMinimum returns true if the aggregate stock is below the threshold
func (i *Item) IsBelowMinimum() bool {
	return i.MinStock.GreaterThan(decimal.Zero) && i.TotalStock.LessThan(i.MinStock)
}

// Warehouse is a stock-keeping location. Location management owns it;
// the core only checks existence and the active flag.
type Warehouse struct {
	shared.BaseAggregateRoot
	Code   string `gorm:"type:varchar(32);not null;uniqueIndex"`
	Name   string `gorm:"type:varchar(255);not null"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse
func NewWarehouse(code, name string) (*Warehouse, error) {
	if code == "" {
		return nil, shared.NewValidationError("Warehouse code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Warehouse name cannot be empty")
	}
	return &Warehouse{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Active:            true,
	}, nil
}
