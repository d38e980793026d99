package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/opsdesk/backend/internal/domain/inventory"
	"github.com/opsdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceiptService drives goods receipts (NIR documents) through the approval
// workflow, from registration to the final stocking step that writes the
// received quantities into the ledger.
type ReceiptService struct {
	scope    TransactionScope
	receipts inventory.GoodsReceiptRepository
	items    inventory.ItemRepository
	cache    AggregateCache
	log      *zap.Logger
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	scope TransactionScope,
	receipts inventory.GoodsReceiptRepository,
	items inventory.ItemRepository,
	log *zap.Logger,
) *ReceiptService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReceiptService{
		scope:    scope,
		receipts: receipts,
		items:    items,
		log:      log,
	}
}

// SetAggregateCache enables cache invalidation after stocking
func (s *ReceiptService) SetAggregateCache(cache AggregateCache) {
	s.cache = cache
}

// ReceiptLineInput describes one expected line at registration time
type ReceiptLineInput struct {
	ItemID           uuid.UUID
	QuantityExpected decimal.Decimal
	UnitCost         decimal.Decimal
}

// CreateReceiptCommand registers a supplier delivery
type CreateReceiptCommand struct {
	SupplierRef string
	InvoiceRef  string
	Lines       []ReceiptLineInput
	Actor       shared.Actor
}

// CreateReceipt registers a new goods receipt in GENERAT with its expected
// lines. Composite items cannot appear on a receipt; they hold no stock.
func (s *ReceiptService) CreateReceipt(ctx context.Context, cmd CreateReceiptCommand) (*inventory.GoodsReceipt, error) {
	if len(cmd.Lines) == 0 {
		return nil, shared.NewValidationError("A receipt requires at least one line")
	}

	var receipt *inventory.GoodsReceipt
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := repos.Receipts().GenerateNumber(ctx)
		if err != nil {
			return err
		}
		r, err := inventory.NewGoodsReceipt(number, cmd.SupplierRef, cmd.Actor)
		if err != nil {
			return err
		}
		if cmd.InvoiceRef != "" {
			if err := r.SetInvoiceRef(cmd.InvoiceRef); err != nil {
				return err
			}
		}

		lineErrs := &shared.LineValidationError{}
		for no, l := range cmd.Lines {
			item, err := repos.Items().FindByID(ctx, l.ItemID)
			if err != nil {
				if shared.HasCode(err, shared.CodeNotFound) {
					lineErrs.Add(no+1, l.ItemID, shared.CodeNotFound, "Item not found")
					continue
				}
				return err
			}
			if item.IsComposite {
				lineErrs.Add(no+1, l.ItemID, shared.CodeCompositeNoStock, "Composite items cannot be received; receive their components")
				continue
			}
			if err := r.AddLine(l.ItemID, l.QuantityExpected, l.UnitCost); err != nil {
				var message string
				if de, ok := err.(*shared.DomainError); ok {
					message = de.Message
				} else {
					message = err.Error()
				}
				lineErrs.Add(no+1, l.ItemID, shared.CodeValidationFailed, message)
			}
		}
		if lineErrs.HasErrors() {
			return lineErrs
		}

		if err := repos.Receipts().Save(ctx, r); err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("goods receipt registered",
		zap.String("receipt_id", receipt.ID.String()),
		zap.String("number", receipt.Number),
		zap.Int("lines", len(receipt.Lines)),
	)
	return receipt, nil
}

// GetReceipt loads a receipt with its lines
func (s *ReceiptService) GetReceipt(ctx context.Context, id uuid.UUID) (*inventory.GoodsReceipt, error) {
	return s.receipts.FindByID(ctx, id)
}

// ListReceipts lists receipts, optionally narrowed to one status
func (s *ReceiptService) ListReceipts(ctx context.Context, status *inventory.ReceiptStatus, filter shared.Filter) ([]inventory.GoodsReceipt, error) {
	if status != nil {
		if !status.IsValid() {
			return nil, shared.NewValidationError(fmt.Sprintf("Unknown receipt status %q", status.String()))
		}
		return s.receipts.FindByStatus(ctx, *status, filter)
	}
	return s.receipts.FindAll(ctx, filter)
}

// UpdateLines applies a batch of counted quantities to a receipt. The batch
// is all-or-nothing: any invalid line rejects the whole update.
func (s *ReceiptService) UpdateLines(ctx context.Context, receiptID uuid.UUID, updates []inventory.LineUpdate) (*inventory.GoodsReceipt, error) {
	var receipt *inventory.GoodsReceipt
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.Receipts().FindByID(ctx, receiptID)
		if err != nil {
			return err
		}
		if err := r.UpdateLines(updates); err != nil {
			return err
		}
		if err := repos.Receipts().Save(ctx, r); err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// SetInvoiceRef links the supplier invoice reference to a receipt
func (s *ReceiptService) SetInvoiceRef(ctx context.Context, receiptID uuid.UUID, invoiceRef string) (*inventory.GoodsReceipt, error) {
	if invoiceRef == "" {
		return nil, shared.NewValidationError("Invoice reference cannot be empty")
	}
	var receipt *inventory.GoodsReceipt
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.Receipts().FindByID(ctx, receiptID)
		if err != nil {
			return err
		}
		if err := r.SetInvoiceRef(invoiceRef); err != nil {
			return err
		}
		if err := repos.Receipts().Save(ctx, r); err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Transition moves a receipt to the target status through the state machine.
// The IN_STOC target is reserved for TransferToStock, which performs the
// ledger writes the bare transition would skip.
func (s *ReceiptService) Transition(ctx context.Context, receiptID uuid.UUID, target inventory.ReceiptStatus, actor shared.Actor) (*inventory.GoodsReceipt, error) {
	if !target.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Unknown receipt status %q", target.String()))
	}
	if target == inventory.ReceiptStatusInStoc {
		return nil, shared.NewValidationError("Stocking a receipt requires the transfer-to-stock operation")
	}

	var receipt *inventory.GoodsReceipt
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.Receipts().FindByID(ctx, receiptID)
		if err != nil {
			return err
		}
		if err := r.TransitionTo(target, actor); err != nil {
			return err
		}
		if err := repos.Receipts().Save(ctx, r); err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("goods receipt transitioned",
		zap.String("receipt_id", receiptID.String()),
		zap.String("status", target.String()),
		zap.String("actor", actor.ID),
	)
	return receipt, nil
}

// ApproveDifferences records a manager's sign-off on the quantity differences
// of a verified receipt, satisfying the approval guard.
func (s *ReceiptService) ApproveDifferences(ctx context.Context, receiptID uuid.UUID, actor shared.Actor) (*inventory.GoodsReceipt, error) {
	var receipt *inventory.GoodsReceipt
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.Receipts().FindByID(ctx, receiptID)
		if err != nil {
			return err
		}
		if err := r.ApproveDifferences(actor); err != nil {
			return err
		}
		if err := repos.Receipts().Save(ctx, r); err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// GetAvailableTransitions enumerates the statuses currently reachable for a receipt
func (s *ReceiptService) GetAvailableTransitions(ctx context.Context, receiptID uuid.UUID) ([]inventory.ReceiptStatus, error) {
	receipt, err := s.receipts.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	return receipt.AvailableTransitions(), nil
}

// DeleteReceipt removes a receipt that has not yet entered verification
func (s *ReceiptService) DeleteReceipt(ctx context.Context, receiptID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.Receipts().FindByID(ctx, receiptID)
		if err != nil {
			return err
		}
		if !r.CanDelete() {
			return shared.NewDomainError(shared.CodeValidationFailed,
				"Only a receipt still in completion can be deleted")
		}
		return repos.Receipts().Delete(ctx, receiptID)
	})
}

// TransferToStockResult reports the outcome of the final stocking step
type TransferToStockResult struct {
	Receipt          *inventory.GoodsReceipt `json:"receipt"`
	AlreadyProcessed bool                    `json:"alreadyProcessed"`
	LinesStocked     int                     `json:"linesStocked"`
}

// TransferToStock writes the received quantities of an approved receipt into
// the ledger and moves the receipt to IN_STOC, all in one transaction. The
// operation is idempotent: calling it on a receipt already in IN_STOC reports
// AlreadyProcessed without touching the ledger again.
func (s *ReceiptService) TransferToStock(ctx context.Context, receiptID, warehouseID uuid.UUID, actor shared.Actor) (*TransferToStockResult, error) {
	if actor.IsZero() {
		return nil, shared.NewValidationError("Actor is required")
	}

	var result *TransferToStockResult
	var touchedItems []uuid.UUID
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.Receipts().FindByID(ctx, receiptID)
		if err != nil {
			return err
		}
		if r.Status == inventory.ReceiptStatusInStoc {
			result = &TransferToStockResult{Receipt: r, AlreadyProcessed: true}
			return nil
		}
		if r.Status != inventory.ReceiptStatusAprobat {
			return shared.NewInvalidTransitionError(r.Status.String(), inventory.ReceiptStatusInStoc.String())
		}

		warehouse, err := repos.Warehouses().FindByID(ctx, warehouseID)
		if err != nil {
			return err
		}
		if !warehouse.Active {
			return shared.NewDomainError(shared.CodeInactiveLocation,
				fmt.Sprintf("Warehouse %s is inactive", warehouse.Code))
		}
		if err := r.BindWarehouse(warehouseID); err != nil {
			return err
		}

		stocked := 0
		for _, line := range r.Lines {
			qty := line.QuantityExpected
			if line.Counted() {
				qty = line.ReceivedOrZero()
			}
			if qty.IsZero() {
				continue
			}
			receiptRef := r.ID
			if _, err := applyAdjustment(ctx, repos, adjustment{
				WarehouseID: warehouseID,
				ItemID:      line.ItemID,
				Delta:       qty,
				Type:        inventory.MovementTypeReceipt,
				Reason:      fmt.Sprintf("Goods receipt %s", r.Number),
				Actor:       actor,
				ReceiptID:   &receiptRef,
			}); err != nil {
				return err
			}
			if line.UnitCost.IsPositive() {
				if err := repos.Items().UpdateCostPrice(ctx, line.ItemID, line.UnitCost); err != nil {
					return err
				}
			}
			touchedItems = append(touchedItems, line.ItemID)
			stocked++
		}

		if err := r.TransitionTo(inventory.ReceiptStatusInStoc, actor); err != nil {
			return err
		}
		if err := repos.Receipts().Save(ctx, r); err != nil {
			return err
		}
		result = &TransferToStockResult{Receipt: r, LinesStocked: stocked}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		for _, id := range touchedItems {
			s.cache.Invalidate(ctx, id)
		}
	}
	if !result.AlreadyProcessed {
		s.log.Info("goods receipt stocked",
			zap.String("receipt_id", receiptID.String()),
			zap.String("warehouse_id", warehouseID.String()),
			zap.Int("lines", result.LinesStocked),
		)
	}
	return result, nil
}
