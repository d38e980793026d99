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

// TransferService manages warehouse transfer documents: DRAFT editing and the
// terminal execution that moves the quantities through the ledger.
type TransferService struct {
	scope     TransactionScope
	transfers inventory.TransferRepository
	cache     AggregateCache
	log       *zap.Logger
}

// NewTransferService creates a new TransferService
func NewTransferService(
	scope TransactionScope,
	transfers inventory.TransferRepository,
	log *zap.Logger,
) *TransferService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TransferService{
		scope:     scope,
		transfers: transfers,
		log:       log,
	}
}

// SetAggregateCache enables cache invalidation after execution
func (s *TransferService) SetAggregateCache(cache AggregateCache) {
	s.cache = cache
}

// CreateTransferCommand describes a new draft transfer
type CreateTransferCommand struct {
	SourceWarehouseID      uuid.UUID
	DestinationWarehouseID uuid.UUID
	Notes                  string
	Lines                  []inventory.TransferLineSpec
	Actor                  shared.Actor
}

// CreateTransfer creates a transfer in DRAFT. Both warehouses must exist and
// be active, and every line item must be a stockable non-composite item.
func (s *TransferService) CreateTransfer(ctx context.Context, cmd CreateTransferCommand) (*inventory.WarehouseTransfer, error) {
	var transfer *inventory.WarehouseTransfer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, id := range []uuid.UUID{cmd.SourceWarehouseID, cmd.DestinationWarehouseID} {
			if id == uuid.Nil {
				continue // NewWarehouseTransfer reports the missing ID
			}
			warehouse, err := repos.Warehouses().FindByID(ctx, id)
			if err != nil {
				return err
			}
			if !warehouse.Active {
				return shared.NewDomainError(shared.CodeInactiveLocation,
					fmt.Sprintf("Warehouse %s is inactive", warehouse.Code))
			}
		}
		if err := s.checkLineItems(ctx, repos, cmd.Lines); err != nil {
			return err
		}

		number, err := repos.Transfers().GenerateNumber(ctx)
		if err != nil {
			return err
		}
		t, err := inventory.NewWarehouseTransfer(number, cmd.SourceWarehouseID, cmd.DestinationWarehouseID, cmd.Actor, cmd.Lines)
		if err != nil {
			return err
		}
		if cmd.Notes != "" {
			if err := t.SetNotes(cmd.Notes); err != nil {
				return err
			}
		}
		if err := repos.Transfers().Save(ctx, t); err != nil {
			return err
		}
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("warehouse transfer created",
		zap.String("transfer_id", transfer.ID.String()),
		zap.String("number", transfer.Number),
	)
	return transfer, nil
}

// checkLineItems verifies every line references an existing non-composite item
func (s *TransferService) checkLineItems(ctx context.Context, repos TransactionalRepositories, lines []inventory.TransferLineSpec) error {
	lineErrs := &shared.LineValidationError{}
	for no, l := range lines {
		if l.ItemID == uuid.Nil {
			continue // reported by the document-level line validation
		}
		item, err := repos.Items().FindByID(ctx, l.ItemID)
		if err != nil {
			if shared.HasCode(err, shared.CodeNotFound) {
				lineErrs.Add(no+1, l.ItemID, shared.CodeNotFound, "Item not found")
				continue
			}
			return err
		}
		if item.IsComposite {
			lineErrs.Add(no+1, l.ItemID, shared.CodeCompositeNoStock, "Composite items cannot be transferred; transfer their components")
		}
	}
	if lineErrs.HasErrors() {
		return lineErrs
	}
	return nil
}

// GetTransfer loads a transfer with its lines
func (s *TransferService) GetTransfer(ctx context.Context, id uuid.UUID) (*inventory.WarehouseTransfer, error) {
	return s.transfers.FindByID(ctx, id)
}

// ListTransfers lists transfers
func (s *TransferService) ListTransfers(ctx context.Context, filter shared.Filter) ([]inventory.WarehouseTransfer, error) {
	return s.transfers.FindAll(ctx, filter)
}

// UpdateTransferCommand edits a draft transfer. Lines are replaced wholesale.
type UpdateTransferCommand struct {
	TransferID uuid.UUID
	Notes      *string
	Lines      []inventory.TransferLineSpec
}

// UpdateTransfer edits a transfer while it is still DRAFT
func (s *TransferService) UpdateTransfer(ctx context.Context, cmd UpdateTransferCommand) (*inventory.WarehouseTransfer, error) {
	var transfer *inventory.WarehouseTransfer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		t, err := repos.Transfers().FindByID(ctx, cmd.TransferID)
		if err != nil {
			return err
		}
		if cmd.Lines != nil {
			if err := s.checkLineItems(ctx, repos, cmd.Lines); err != nil {
				return err
			}
			if err := t.ReplaceLines(cmd.Lines); err != nil {
				return err
			}
		}
		if cmd.Notes != nil {
			if err := t.SetNotes(*cmd.Notes); err != nil {
				return err
			}
		}
		if err := repos.Transfers().Save(ctx, t); err != nil {
			return err
		}
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// DeleteTransfer removes a transfer that has not been executed
func (s *TransferService) DeleteTransfer(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		t, err := repos.Transfers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !t.CanDelete() {
			return shared.NewDomainError(shared.CodeValidationFailed,
				"An executed transfer cannot be deleted")
		}
		return repos.Transfers().Delete(ctx, id)
	})
}

// ExecuteTransfer moves the document quantities between the two warehouses.
// Every line is verified against the locked source records before any ledger
// write, so a shortage on any line rejects the whole execution with all short
// lines reported at once. On success each line produces a TRANSFER_OUT and a
// TRANSFER_IN movement in the same transaction.
func (s *TransferService) ExecuteTransfer(ctx context.Context, transferID uuid.UUID, actor shared.Actor) (*inventory.WarehouseTransfer, error) {
	if actor.IsZero() {
		return nil, shared.NewValidationError("Executor is required")
	}

	var transfer *inventory.WarehouseTransfer
	var touchedItems []uuid.UUID
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		t, err := repos.Transfers().FindByID(ctx, transferID)
		if err != nil {
			return err
		}
		if !t.IsDraft() {
			return shared.NewInvalidTransitionError(t.Status.String(), inventory.TransferStatusExecuted.String())
		}
		for _, id := range []uuid.UUID{t.SourceWarehouseID, t.DestinationWarehouseID} {
			warehouse, err := repos.Warehouses().FindByID(ctx, id)
			if err != nil {
				return err
			}
			if !warehouse.Active {
				return shared.NewDomainError(shared.CodeInactiveLocation,
					fmt.Sprintf("Warehouse %s is inactive", warehouse.Code))
			}
		}

		// Lock and verify all source records before the first write. Demand
		// is accumulated per item so duplicate-item lines are checked against
		// their combined quantity, not each against the full stock.
		lineErrs := &shared.LineValidationError{}
		records := make(map[uuid.UUID]*inventory.WarehouseStockRecord)
		demand := make(map[uuid.UUID]decimal.Decimal)
		for no, line := range t.Lines {
			record, ok := records[line.ItemID]
			if !ok {
				var err error
				record, err = repos.StockRecords().GetOrCreateForUpdate(ctx, t.SourceWarehouseID, line.ItemID)
				if err != nil {
					return err
				}
				records[line.ItemID] = record
			}
			total := demand[line.ItemID].Add(line.Quantity)
			demand[line.ItemID] = total
			if !record.CanFulfill(total) {
				lineErrs.Add(no+1, line.ItemID, shared.CodeNegativeStock,
					fmt.Sprintf("Insufficient stock: have %s, need %s", record.CurrentStock.String(), total.String()))
			}
		}
		if lineErrs.HasErrors() {
			return lineErrs
		}

		for _, line := range t.Lines {
			transferRef := t.ID
			reason := fmt.Sprintf("Warehouse transfer %s", t.Number)
			if _, err := applyAdjustment(ctx, repos, adjustment{
				WarehouseID: t.SourceWarehouseID,
				ItemID:      line.ItemID,
				Delta:       line.Quantity.Neg(),
				Type:        inventory.MovementTypeTransferOut,
				Reason:      reason,
				Actor:       actor,
				TransferID:  &transferRef,
			}); err != nil {
				return err
			}
			if _, err := applyAdjustment(ctx, repos, adjustment{
				WarehouseID: t.DestinationWarehouseID,
				ItemID:      line.ItemID,
				Delta:       line.Quantity,
				Type:        inventory.MovementTypeTransferIn,
				Reason:      reason,
				Actor:       actor,
				TransferID:  &transferRef,
			}); err != nil {
				return err
			}
			touchedItems = append(touchedItems, line.ItemID)
		}

		if err := t.MarkExecuted(actor); err != nil {
			return err
		}
		if err := repos.Transfers().Save(ctx, t); err != nil {
			return err
		}
		transfer = t
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
	s.log.Info("warehouse transfer executed",
		zap.String("transfer_id", transferID.String()),
		zap.String("number", transfer.Number),
		zap.Int("lines", len(transfer.Lines)),
		zap.String("actor", actor.ID),
	)
	return transfer, nil
}
