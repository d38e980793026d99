package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/backend/internal/domain/inventory"
	"github.com/opsdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AggregateCache is a read-optimized cache for item aggregate stock.
// The database stays the source of truth; cache misses and failures fall
// through to it, and every committed mutation invalidates the item's entry.
type AggregateCache interface {
	// Get returns the cached aggregate for an item, if present
	Get(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, bool)
	// Set stores the aggregate for an item
	Set(ctx context.Context, itemID uuid.UUID, value decimal.Decimal)
	// Invalidate drops the cached aggregate for an item
	Invalidate(ctx context.Context, itemID uuid.UUID)
}

// LedgerService keeps per-warehouse stock quantities and the per-item
// aggregate consistent under concurrent adjustments. Every mutation writes
// exactly one stock movement in the same transaction.
type LedgerService struct {
	scope        TransactionScope
	items        inventory.ItemRepository
	stockRecords inventory.StockRecordRepository
	movements    inventory.MovementRepository
	cache        AggregateCache
	log          *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	scope TransactionScope,
	items inventory.ItemRepository,
	stockRecords inventory.StockRecordRepository,
	movements inventory.MovementRepository,
	log *zap.Logger,
) *LedgerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LedgerService{
		scope:        scope,
		items:        items,
		stockRecords: stockRecords,
		movements:    movements,
		log:          log,
	}
}

// SetAggregateCache enables the optional read cache for GetAggregate
func (s *LedgerService) SetAggregateCache(cache AggregateCache) {
	s.cache = cache
}

// AdjustStockCommand describes a manual stock adjustment
type AdjustStockCommand struct {
	WarehouseID uuid.UUID
	ItemID      uuid.UUID
	Delta       decimal.Decimal
	Reason      string
	Actor       shared.Actor
}

// AdjustStockResult reports the before/after snapshots of the touched
// warehouse record plus the recomputed item aggregate
type AdjustStockResult struct {
	Previous  decimal.Decimal `json:"previous"`
	New       decimal.Decimal `json:"new"`
	Aggregate decimal.Decimal `json:"aggregate"`
}

// AdjustStock applies a signed delta to one warehouse-item pair. The record,
// the item aggregate and the movement are written in one atomic transaction;
// a failure on any step writes nothing.
func (s *LedgerService) AdjustStock(ctx context.Context, cmd AdjustStockCommand) (*AdjustStockResult, error) {
	if cmd.Delta.IsZero() {
		return nil, shared.NewValidationError("Adjustment delta cannot be zero")
	}
	if cmd.Reason == "" {
		return nil, shared.NewValidationError("Adjustment reason is required")
	}
	if cmd.Actor.IsZero() {
		return nil, shared.NewValidationError("Actor is required")
	}

	var result *AdjustStockResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.Warehouses().FindByID(ctx, cmd.WarehouseID); err != nil {
			return err
		}
		out, err := applyAdjustment(ctx, repos, adjustment{
			WarehouseID: cmd.WarehouseID,
			ItemID:      cmd.ItemID,
			Delta:       cmd.Delta,
			Type:        inventory.AdjustmentTypeFor(cmd.Delta),
			Reason:      cmd.Reason,
			Actor:       cmd.Actor,
		})
		if err != nil {
			return err
		}
		result = &AdjustStockResult{Previous: out.Previous, New: out.New, Aggregate: out.Aggregate}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateAggregate(ctx, cmd.ItemID)
	s.log.Info("stock adjusted",
		zap.String("item_id", cmd.ItemID.String()),
		zap.String("warehouse_id", cmd.WarehouseID.String()),
		zap.String("delta", cmd.Delta.String()),
		zap.String("actor", cmd.Actor.ID),
	)
	return result, nil
}

// GetStock returns the current quantity for a warehouse-item pair.
// A missing record reads as zero.
func (s *LedgerService) GetStock(ctx context.Context, warehouseID, itemID uuid.UUID) (decimal.Decimal, error) {
	record, err := s.stockRecords.FindByWarehouseAndItem(ctx, warehouseID, itemID)
	if err != nil {
		if shared.HasCode(err, shared.CodeNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return record.CurrentStock, nil
}

// GetAggregate returns the denormalized total stock for an item across all
// warehouses, served from the cache when available.
func (s *LedgerService) GetAggregate(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	if s.cache != nil {
		if value, ok := s.cache.Get(ctx, itemID); ok {
			return value, nil
		}
	}
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, itemID, item.TotalStock)
	}
	return item.TotalStock, nil
}

// StockAt reconstructs the item aggregate at a past point in time by
// replaying the movements recorded after it against the current aggregate.
func (s *LedgerService) StockAt(ctx context.Context, itemID uuid.UUID, at time.Time) (decimal.Decimal, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	since, err := s.movements.FindByItemSince(ctx, itemID, at)
	if err != nil {
		return decimal.Zero, err
	}
	return inventory.ReconstructAggregate(item.TotalStock, since), nil
}

// ListMovements queries the audit trail
func (s *LedgerService) ListMovements(ctx context.Context, filter inventory.MovementFilter) ([]inventory.StockMovement, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	items, err := s.movements.FindByFilter(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movements.CountByFilter(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *LedgerService) invalidateAggregate(ctx context.Context, itemIDs ...uuid.UUID) {
	if s.cache == nil {
		return
	}
	for _, id := range itemIDs {
		s.cache.Invalidate(ctx, id)
	}
}

// adjustment is the shared input of every ledger mutation path: manual
// adjustments, receipt stocking, transfer execution.
type adjustment struct {
	WarehouseID uuid.UUID
	ItemID      uuid.UUID
	Delta       decimal.Decimal
	Type        inventory.MovementType
	Reason      string
	Actor       shared.Actor
	ReceiptID   *uuid.UUID
	TransferID  *uuid.UUID
}

// adjustmentResult carries the snapshots produced by one ledger mutation
type adjustmentResult struct {
	Previous  decimal.Decimal
	New       decimal.Decimal
	Aggregate decimal.Decimal
}

// applyAdjustment performs one ledger mutation inside the caller's
// transaction: it locks (or lazily creates) the stock record row, enforces
// the non-negativity invariant, recomputes the item aggregate from the
// per-warehouse rows, and appends the movement with matching before/after
// snapshots. All write paths of the core funnel through here.
func applyAdjustment(ctx context.Context, repos TransactionalRepositories, adj adjustment) (*adjustmentResult, error) {
	item, err := repos.Items().FindByID(ctx, adj.ItemID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Item", adj.ItemID)
		}
		return nil, err
	}
	if item.IsComposite {
		return nil, shared.NewDomainError(shared.CodeCompositeNoStock,
			"Composite items hold no stock of their own; availability is derived from components")
	}

	record, err := repos.StockRecords().GetOrCreateForUpdate(ctx, adj.WarehouseID, adj.ItemID)
	if err != nil {
		return nil, err
	}
	previous, current, err := record.Apply(adj.Delta)
	if err != nil {
		return nil, err
	}
	if err := repos.StockRecords().Save(ctx, record); err != nil {
		return nil, err
	}

	// Recomputed from the authoritative rows, never incremented in place.
	total, err := repos.StockRecords().SumByItem(ctx, adj.ItemID)
	if err != nil {
		return nil, err
	}
	if err := repos.Items().UpdateTotalStock(ctx, adj.ItemID, total); err != nil {
		return nil, err
	}

	warehouseID := adj.WarehouseID
	movement, err := inventory.NewStockMovement(adj.ItemID, &warehouseID, adj.Type, adj.Delta, previous, current, adj.Reason, adj.Actor)
	if err != nil {
		return nil, err
	}
	if adj.ReceiptID != nil {
		movement.WithReceipt(*adj.ReceiptID)
	}
	if adj.TransferID != nil {
		movement.WithTransfer(*adj.TransferID)
	}
	if err := repos.Movements().Create(ctx, movement); err != nil {
		return nil, err
	}

	return &adjustmentResult{Previous: previous, New: current, Aggregate: total}, nil
}
