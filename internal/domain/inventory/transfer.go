package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransferStatus represents the status of a warehouse transfer
type TransferStatus string

const (
	// TransferStatusDraft is the mutable initial status
	TransferStatusDraft TransferStatus = "DRAFT"
	// TransferStatusExecuted is the terminal status; the document is immutable
	TransferStatusExecuted TransferStatus = "EXECUTED"
)

// String returns the string representation of TransferStatus
func (s TransferStatus) String() string {
	return string(s)
}

// WarehouseTransferLine is one item quantity moved by a transfer
type WarehouseTransferLine struct {
	shared.BaseEntity
	TransferID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Notes      string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (WarehouseTransferLine) TableName() string {
	return "warehouse_transfer_lines"
}

// TransferLineSpec is the caller's description of one transfer line
type TransferLineSpec struct {
	ItemID   uuid.UUID
	Quantity decimal.Decimal
	Notes    string
}

// WarehouseTransfer moves quantities of one or more items from a source to a
// destination warehouse. Mutable only while DRAFT; execution is terminal.
type WarehouseTransfer struct {
	shared.BaseAggregateRoot
	Number                 string         `gorm:"type:varchar(32);not null;uniqueIndex"`
	SourceWarehouseID      uuid.UUID      `gorm:"type:uuid;not null"`
	DestinationWarehouseID uuid.UUID      `gorm:"type:uuid;not null"`
	Status                 TransferStatus `gorm:"type:varchar(20);not null;index"`
	Notes                  string         `gorm:"type:varchar(500)"`
	CreatedByID            string         `gorm:"type:varchar(64);not null"`
	CreatedByName          string         `gorm:"type:varchar(255)"`
	ExecutedByID           string         `gorm:"type:varchar(64)"`
	ExecutedByName         string         `gorm:"type:varchar(255)"`
	ExecutedAt             *time.Time     `gorm:"type:timestamptz"`

	Lines []WarehouseTransferLine `gorm:"foreignKey:TransferID;references:ID"`
}

// TableName returns the table name for GORM
func (WarehouseTransfer) TableName() string {
	return "warehouse_transfers"
}

// validateLineSpecs checks every line and reports all offending lines at once
func validateLineSpecs(lines []TransferLineSpec) error {
	if len(lines) == 0 {
		return shared.NewValidationError("A transfer requires at least one line")
	}
	lineErrs := &shared.LineValidationError{}
	for no, l := range lines {
		if l.ItemID == uuid.Nil {
			lineErrs.Add(no+1, uuid.Nil, shared.CodeValidationFailed, "Line item ID cannot be empty")
			continue
		}
		if l.Quantity.LessThanOrEqual(decimal.Zero) {
			lineErrs.Add(no+1, l.ItemID, shared.CodeValidationFailed, "Line quantity must be positive")
		}
	}
	if lineErrs.HasErrors() {
		return lineErrs
	}
	return nil
}

// NewWarehouseTransfer creates a transfer in DRAFT with its initial lines
func NewWarehouseTransfer(number string, sourceWarehouseID, destinationWarehouseID uuid.UUID, createdBy shared.Actor, lines []TransferLineSpec) (*WarehouseTransfer, error) {
	if number == "" {
		return nil, shared.NewValidationError("Transfer number cannot be empty")
	}
	if sourceWarehouseID == uuid.Nil || destinationWarehouseID == uuid.Nil {
		return nil, shared.NewValidationError("Source and destination warehouse IDs are required")
	}
	if sourceWarehouseID == destinationWarehouseID {
		return nil, shared.NewValidationError("Source and destination warehouses must differ")
	}
	if createdBy.IsZero() {
		return nil, shared.NewValidationError("Creator is required")
	}
	if err := validateLineSpecs(lines); err != nil {
		return nil, err
	}

	t := &WarehouseTransfer{
		BaseAggregateRoot:      shared.NewBaseAggregateRoot(),
		Number:                 number,
		SourceWarehouseID:      sourceWarehouseID,
		DestinationWarehouseID: destinationWarehouseID,
		Status:                 TransferStatusDraft,
		CreatedByID:            createdBy.ID,
		CreatedByName:          createdBy.Name,
	}
	t.setLines(lines)
	return t, nil
}

func (t *WarehouseTransfer) setLines(lines []TransferLineSpec) {
	t.Lines = make([]WarehouseTransferLine, 0, len(lines))
	for _, l := range lines {
		t.Lines = append(t.Lines, WarehouseTransferLine{
			BaseEntity: shared.NewBaseEntity(),
			TransferID: t.ID,
			ItemID:     l.ItemID,
			Quantity:   l.Quantity,
			Notes:      l.Notes,
		})
	}
}

// IsDraft reports whether the transfer is still mutable
func (t *WarehouseTransfer) IsDraft() bool {
	return t.Status == TransferStatusDraft
}

// CanDelete reports whether the transfer may be deleted (DRAFT only)
func (t *WarehouseTransfer) CanDelete() bool {
	return t.IsDraft()
}

// ReplaceLines swaps the whole line set. Lines are replaced wholesale while
// DRAFT; per-line edits do not exist.
func (t *WarehouseTransfer) ReplaceLines(lines []TransferLineSpec) error {
	if !t.IsDraft() {
		return shared.NewDomainError(shared.CodeValidationFailed, "An executed transfer is immutable")
	}
	if err := validateLineSpecs(lines); err != nil {
		return err
	}
	t.setLines(lines)
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// SetNotes edits the free-text notes while DRAFT
func (t *WarehouseTransfer) SetNotes(notes string) error {
	if !t.IsDraft() {
		return shared.NewDomainError(shared.CodeValidationFailed, "An executed transfer is immutable")
	}
	t.Notes = notes
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// MarkExecuted stamps the terminal status. The caller is responsible for the
// paired ledger movements in the same transaction.
func (t *WarehouseTransfer) MarkExecuted(actor shared.Actor) error {
	if !t.IsDraft() {
		return shared.NewInvalidTransitionError(t.Status.String(), TransferStatusExecuted.String())
	}
	if actor.IsZero() {
		return shared.NewValidationError("Executor is required")
	}
	now := time.Now()
	t.Status = TransferStatusExecuted
	t.ExecutedByID = actor.ID
	t.ExecutedByName = actor.Name
	t.ExecutedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()
	return nil
}
