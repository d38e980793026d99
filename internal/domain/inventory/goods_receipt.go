package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceiptStatus represents the status of a goods receipt (NIR)
type ReceiptStatus string

const (
	// ReceiptStatusGenerat is the initial status after registration
	ReceiptStatusGenerat ReceiptStatus = "GENERAT"
	// ReceiptStatusInCompletare is entered when counted quantities start arriving
	ReceiptStatusInCompletare ReceiptStatus = "IN_COMPLETARE"
	// ReceiptStatusTrimisOffice means the receipt was sent to the office for verification
	ReceiptStatusTrimisOffice ReceiptStatus = "TRIMIS_OFFICE"
	// ReceiptStatusVerificat means an office verifier signed off the document
	ReceiptStatusVerificat ReceiptStatus = "VERIFICAT"
	// ReceiptStatusAprobat means the receipt is cleared for stocking
	ReceiptStatusAprobat ReceiptStatus = "APROBAT"
	// ReceiptStatusRespins is the terminal rejection status
	ReceiptStatusRespins ReceiptStatus = "RESPINS"
	// ReceiptStatusInStoc is the terminal success status, quantities in the ledger
	ReceiptStatusInStoc ReceiptStatus = "IN_STOC"
)

// String returns the string representation of ReceiptStatus
func (s ReceiptStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid ReceiptStatus
func (s ReceiptStatus) IsValid() bool {
	switch s {
	case ReceiptStatusGenerat, ReceiptStatusInCompletare, ReceiptStatusTrimisOffice,
		ReceiptStatusVerificat, ReceiptStatusAprobat, ReceiptStatusRespins, ReceiptStatusInStoc:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition leaves the status
func (s ReceiptStatus) IsTerminal() bool {
	return s == ReceiptStatusRespins || s == ReceiptStatusInStoc
}

// transitionRule is one row of the receipt state machine: the statuses the
// target can be reached from, an optional guard, and an optional post-action
// applied together with the status change.
type transitionRule struct {
	validFrom []ReceiptStatus
	guard     func(r *GoodsReceipt) error
	apply     func(r *GoodsReceipt, actor shared.Actor, now time.Time)
}

func (tr transitionRule) allows(from ReceiptStatus) bool {
	for _, s := range tr.validFrom {
		if s == from {
			return true
		}
	}
	return false
}

// receiptTransitions is the state machine as data, keyed by target status.
// A single generic driver (TransitionTo) interprets it, and
// AvailableTransitions enumerates it for consumers.
var receiptTransitions = map[ReceiptStatus]transitionRule{
	ReceiptStatusTrimisOffice: {
		validFrom: []ReceiptStatus{ReceiptStatusGenerat, ReceiptStatusInCompletare},
		guard: func(r *GoodsReceipt) error {
			if r.InvoiceRef == "" {
				return shared.NewGuardViolationError("A linked supplier invoice is required before sending to office")
			}
			return nil
		},
		apply: func(r *GoodsReceipt, _ shared.Actor, now time.Time) {
			r.SentToOfficeAt = &now
		},
	},
	ReceiptStatusVerificat: {
		validFrom: []ReceiptStatus{ReceiptStatusTrimisOffice},
		apply: func(r *GoodsReceipt, actor shared.Actor, now time.Time) {
			r.VerifiedByID = actor.ID
			r.VerifiedByName = actor.Name
			r.VerifiedAt = &now
		},
	},
	ReceiptStatusAprobat: {
		validFrom: []ReceiptStatus{ReceiptStatusVerificat},
		guard: func(r *GoodsReceipt) error {
			if r.HasDifferences && r.DiffApprovedAt == nil {
				return shared.NewGuardViolationError("Quantity differences must be approved before the receipt can be approved")
			}
			return nil
		},
	},
	ReceiptStatusInStoc: {
		validFrom: []ReceiptStatus{ReceiptStatusAprobat},
		apply: func(r *GoodsReceipt, _ shared.Actor, now time.Time) {
			r.StockedAt = &now
		},
	},
	ReceiptStatusRespins: {
		validFrom: []ReceiptStatus{ReceiptStatusVerificat},
	},
}

// GoodsReceiptLine is one expected/received item on a goods receipt
type GoodsReceiptLine struct {
	shared.BaseEntity
	ReceiptID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	ItemID           uuid.UUID        `gorm:"type:uuid;not null"`
	QuantityExpected decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	QuantityReceived *decimal.Decimal `gorm:"type:decimal(18,4)"` // Nil until counted
	UnitCost         decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Verified         bool             `gorm:"not null;default:false"`
	Observations     string           `gorm:"type:varchar(500)"`
	HasDifference    bool             `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (GoodsReceiptLine) TableName() string {
	return "goods_receipt_lines"
}

// Counted reports whether a received quantity was recorded
func (l *GoodsReceiptLine) Counted() bool {
	return l.QuantityReceived != nil
}

// ReceivedOrZero returns the counted quantity, or zero when not yet counted
func (l *GoodsReceiptLine) ReceivedOrZero() decimal.Decimal {
	if l.QuantityReceived == nil {
		return decimal.Zero
	}
	return *l.QuantityReceived
}

// GoodsReceipt (NIR) is a supplier-delivery document tracked through the
// approval workflow before its quantities are authorized into the ledger.
type GoodsReceipt struct {
	shared.BaseAggregateRoot
	Number           string        `gorm:"type:varchar(32);not null;uniqueIndex"`
	SupplierRef      string        `gorm:"type:varchar(255);not null"`
	InvoiceRef       string        `gorm:"type:varchar(255)"` // Linked supplier invoice reference
	Status           ReceiptStatus `gorm:"type:varchar(20);not null;index"`
	HasDifferences   bool          `gorm:"not null;default:false"`
	DiffApprovedByID string        `gorm:"type:varchar(64)"`
	DiffApprovedBy   string        `gorm:"type:varchar(255)"`
	DiffApprovedAt   *time.Time    `gorm:"type:timestamptz"`
	VerifiedByID     string        `gorm:"type:varchar(64)"`
	VerifiedByName   string        `gorm:"type:varchar(255)"`
	VerifiedAt       *time.Time    `gorm:"type:timestamptz"`
	SentToOfficeAt   *time.Time    `gorm:"type:timestamptz"`
	StockedAt        *time.Time    `gorm:"type:timestamptz"`
	WarehouseID      *uuid.UUID    `gorm:"type:uuid"` // Bound at the final stocking step
	CreatedByID      string        `gorm:"type:varchar(64);not null"`
	CreatedByName    string        `gorm:"type:varchar(255)"`

	Lines []GoodsReceiptLine `gorm:"foreignKey:ReceiptID;references:ID"`
}

// TableName returns the table name for GORM
func (GoodsReceipt) TableName() string {
	return "goods_receipts"
}

// NewGoodsReceipt registers a supplier delivery in the initial status
func NewGoodsReceipt(number, supplierRef string, createdBy shared.Actor) (*GoodsReceipt, error) {
	if number == "" {
		return nil, shared.NewValidationError("Receipt number cannot be empty")
	}
	if supplierRef == "" {
		return nil, shared.NewValidationError("Supplier reference cannot be empty")
	}
	if createdBy.IsZero() {
		return nil, shared.NewValidationError("Creator is required")
	}
	return &GoodsReceipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		SupplierRef:       supplierRef,
		Status:            ReceiptStatusGenerat,
		CreatedByID:       createdBy.ID,
		CreatedByName:     createdBy.Name,
		Lines:             make([]GoodsReceiptLine, 0),
	}, nil
}

// InCompletion reports whether line-level updates are still permitted
func (r *GoodsReceipt) InCompletion() bool {
	return r.Status == ReceiptStatusGenerat || r.Status == ReceiptStatusInCompletare
}

// CanDelete reports whether the receipt may still be destroyed (pre-verification only)
func (r *GoodsReceipt) CanDelete() bool {
	return r.InCompletion()
}

// AddLine appends an expected line; only permitted before verification
func (r *GoodsReceipt) AddLine(itemID uuid.UUID, quantityExpected, unitCost decimal.Decimal) error {
	if !r.InCompletion() {
		return shared.NewDomainError(shared.CodeValidationFailed, "Lines can only be added while the receipt is in completion")
	}
	if itemID == uuid.Nil {
		return shared.NewValidationError("Line item ID cannot be empty")
	}
	if quantityExpected.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Expected quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewValidationError("Unit cost cannot be negative")
	}
	for _, l := range r.Lines {
		if l.ItemID == itemID {
			return shared.NewDomainError(shared.CodeAlreadyExists, "Item already present on the receipt")
		}
	}
	r.Lines = append(r.Lines, GoodsReceiptLine{
		BaseEntity:       shared.NewBaseEntity(),
		ReceiptID:        r.ID,
		ItemID:           itemID,
		QuantityExpected: quantityExpected,
		UnitCost:         unitCost,
	})
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// LineUpdate carries one counted line of a batch update
type LineUpdate struct {
	LineID           uuid.UUID
	QuantityReceived decimal.Decimal
	Observations     string
}

// UpdateLines applies a batch of counted quantities. Only permitted while the
// receipt is in completion. A line whose received quantity differs from the
// expected one must carry a non-empty observation; validation failures are
// collected across the whole batch and the update is rejected as a whole when
// any line fails, so nothing is partially applied. On success the
// receipt-level HasDifferences is recomputed as the OR over all lines, and a
// receipt that had no counted data yet advances into IN_COMPLETARE.
func (r *GoodsReceipt) UpdateLines(updates []LineUpdate) error {
	if !r.InCompletion() {
		return shared.NewDomainError(shared.CodeValidationFailed, "Lines can only be updated while the receipt is in completion")
	}
	if len(updates) == 0 {
		return shared.NewValidationError("No line updates supplied")
	}

	byID := make(map[uuid.UUID]int, len(r.Lines))
	for i := range r.Lines {
		byID[r.Lines[i].ID] = i
	}

	lineErrs := &shared.LineValidationError{}
	for no, u := range updates {
		idx, ok := byID[u.LineID]
		if !ok {
			lineErrs.Add(no+1, uuid.Nil, shared.CodeNotFound, "Receipt line not found")
			continue
		}
		line := &r.Lines[idx]
		if u.QuantityReceived.IsNegative() {
			lineErrs.Add(no+1, line.ItemID, shared.CodeValidationFailed, "Received quantity cannot be negative")
			continue
		}
		if !u.QuantityReceived.Equal(line.QuantityExpected) && u.Observations == "" {
			lineErrs.Add(no+1, line.ItemID, shared.CodeMissingObservation, "A quantity difference requires an explanation")
		}
	}
	if lineErrs.HasErrors() {
		return lineErrs
	}

	now := time.Now()
	for _, u := range updates {
		line := &r.Lines[byID[u.LineID]]
		qty := u.QuantityReceived
		line.QuantityReceived = &qty
		line.Observations = u.Observations
		line.Verified = true
		line.HasDifference = !qty.Equal(line.QuantityExpected)
		line.UpdatedAt = now
	}

	r.HasDifferences = false
	for _, l := range r.Lines {
		if l.HasDifference {
			r.HasDifferences = true
			break
		}
	}
	if r.Status == ReceiptStatusGenerat {
		r.Status = ReceiptStatusInCompletare
	}
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

// ApproveDifferences records the manager sign-off on quantity differences.
// It is the only way the APROBAT guard can be satisfied for a receipt with
// differences.
func (r *GoodsReceipt) ApproveDifferences(actor shared.Actor) error {
	if r.Status != ReceiptStatusVerificat {
		return shared.NewDomainError(shared.CodeValidationFailed, "Differences can only be approved on a verified receipt")
	}
	if !r.HasDifferences {
		return shared.NewValidationError("Receipt has no quantity differences to approve")
	}
	if r.DiffApprovedAt != nil {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Differences already approved")
	}
	if actor.IsZero() {
		return shared.NewValidationError("Approver is required")
	}
	now := time.Now()
	r.DiffApprovedByID = actor.ID
	r.DiffApprovedBy = actor.Name
	r.DiffApprovedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

// SetInvoiceRef links the supplier invoice; only permitted before verification
func (r *GoodsReceipt) SetInvoiceRef(ref string) error {
	if !r.InCompletion() {
		return shared.NewDomainError(shared.CodeValidationFailed, "Invoice can only be linked while the receipt is in completion")
	}
	r.InvoiceRef = ref
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// TransitionTo is the generic state machine driver. It looks up the rule for
// the target status, validates the current status against the rule's
// validFrom set, runs the guard, then applies the status change and the
// rule's post-action together.
func (r *GoodsReceipt) TransitionTo(target ReceiptStatus, actor shared.Actor) error {
	rule, ok := receiptTransitions[target]
	if !ok {
		return shared.NewInvalidTransitionError(r.Status.String(), target.String())
	}
	if !rule.allows(r.Status) {
		return shared.NewInvalidTransitionError(r.Status.String(), target.String())
	}
	if rule.guard != nil {
		if err := rule.guard(r); err != nil {
			return err
		}
	}
	now := time.Now()
	r.Status = target
	if rule.apply != nil {
		rule.apply(r, actor, now)
	}
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

// AvailableTransitions enumerates the target statuses reachable from the
// current status, guards included
func (r *GoodsReceipt) AvailableTransitions() []ReceiptStatus {
	targets := make([]ReceiptStatus, 0, 2)
	for _, target := range []ReceiptStatus{
		ReceiptStatusTrimisOffice,
		ReceiptStatusVerificat,
		ReceiptStatusAprobat,
		ReceiptStatusInStoc,
		ReceiptStatusRespins,
	} {
		rule := receiptTransitions[target]
		if !rule.allows(r.Status) {
			continue
		}
		if rule.guard != nil && rule.guard(r) != nil {
			continue
		}
		targets = append(targets, target)
	}
	return targets
}

// BindWarehouse records the warehouse the quantities will be stocked into
func (r *GoodsReceipt) BindWarehouse(warehouseID uuid.UUID) error {
	if warehouseID == uuid.Nil {
		return shared.NewValidationError("Warehouse ID cannot be empty")
	}
	r.WarehouseID = &warehouseID
	return nil
}
