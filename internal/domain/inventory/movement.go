package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType classifies the cause of a stock movement
type MovementType string

const (
	// MovementTypeReceipt is stock entering via an approved goods receipt
	MovementTypeReceipt MovementType = "RECEIPT"
	// MovementTypeTransferIn is stock arriving from another warehouse
	MovementTypeTransferIn MovementType = "TRANSFER_IN"
	// MovementTypeTransferOut is stock leaving towards another warehouse
	MovementTypeTransferOut MovementType = "TRANSFER_OUT"
	// MovementTypeAdjustmentPlus is a positive manual adjustment
	MovementTypeAdjustmentPlus MovementType = "ADJUSTMENT_PLUS"
	// MovementTypeAdjustmentMinus is a negative manual adjustment
	MovementTypeAdjustmentMinus MovementType = "ADJUSTMENT_MINUS"
	// MovementTypeConsumption is component stock consumed by a composite recipe
	MovementTypeConsumption MovementType = "CONSUMPTION"
	// MovementTypeCorrection is an audit-driven correction
	MovementTypeCorrection MovementType = "CORRECTION"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is one of the fixed enumeration
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeReceipt,
		MovementTypeTransferIn,
		MovementTypeTransferOut,
		MovementTypeAdjustmentPlus,
		MovementTypeAdjustmentMinus,
		MovementTypeConsumption,
		MovementTypeCorrection:
		return true
	}
	return false
}

// AdjustmentTypeFor derives the manual-adjustment movement type from the delta sign
func AdjustmentTypeFor(delta decimal.Decimal) MovementType {
	if delta.IsNegative() {
		return MovementTypeAdjustmentMinus
	}
	return MovementTypeAdjustmentPlus
}

// StockMovement is an immutable audit row recording one quantity change.
// It is created exactly once, in the same transaction as the ledger write,
// and is never updated or deleted afterwards.
type StockMovement struct {
	shared.BaseEntity
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movement_item_time,priority:1"`
	WarehouseID   *uuid.UUID      `gorm:"type:uuid;index"`                 // Scope of the snapshots when present
	Type          MovementType    `gorm:"type:varchar(30);not null;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`     // Signed delta
	PreviousStock decimal.Decimal `gorm:"type:decimal(18,4);not null"`     // Scope stock before the change
	NewStock      decimal.Decimal `gorm:"type:decimal(18,4);not null"`     // Scope stock after the change
	Reason        string          `gorm:"type:varchar(255)"`
	ActorID       string          `gorm:"type:varchar(64);not null"`
	ActorName     string          `gorm:"type:varchar(255)"`
	ReceiptID     *uuid.UUID      `gorm:"type:uuid;index"` // Causing goods receipt, when any
	TransferID    *uuid.UUID      `gorm:"type:uuid;index"` // Causing warehouse transfer, when any
	OccurredAt    time.Time       `gorm:"type:timestamptz;not null;index:idx_stock_movement_item_time,priority:2"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a movement record with before/after snapshots.
// The snapshots must be consistent with the signed delta.
func NewStockMovement(
	itemID uuid.UUID,
	warehouseID *uuid.UUID,
	movementType MovementType,
	quantity decimal.Decimal,
	previousStock decimal.Decimal,
	newStock decimal.Decimal,
	reason string,
	actor shared.Actor,
) (*StockMovement, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("Item ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewValidationError("Invalid movement type")
	}
	if quantity.IsZero() {
		return nil, shared.NewValidationError("Movement quantity cannot be zero")
	}
	if !previousStock.Add(quantity).Equal(newStock) {
		return nil, shared.NewValidationError("Movement snapshots do not match the signed delta")
	}
	if actor.IsZero() {
		return nil, shared.NewValidationError("Movement actor is required")
	}
	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		ItemID:        itemID,
		WarehouseID:   warehouseID,
		Type:          movementType,
		Quantity:      quantity,
		PreviousStock: previousStock,
		NewStock:      newStock,
		Reason:        reason,
		ActorID:       actor.ID,
		ActorName:     actor.Name,
		OccurredAt:    time.Now(),
	}, nil
}

// WithReceipt links the movement to its causing goods receipt
func (m *StockMovement) WithReceipt(receiptID uuid.UUID) *StockMovement {
	m.ReceiptID = &receiptID
	return m
}

// WithTransfer links the movement to its causing warehouse transfer
func (m *StockMovement) WithTransfer(transferID uuid.UUID) *StockMovement {
	m.TransferID = &transferID
	return m
}

// ReconstructAggregate derives the item aggregate at a past point in time by
// replaying movements recorded after that point against the current value.
// Movements are walked newest first, each signed delta undone in turn.
func ReconstructAggregate(current decimal.Decimal, movementsSince []StockMovement) decimal.Decimal {
	value := current
	for _, m := range movementsSince {
		value = value.Sub(m.Quantity)
	}
	return value
}
