package inventory

import (
	"context"

	"github.com/opsdesk/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the inventory
// repositories. When a function is executed within a transaction scope, all
// repository operations are part of the same database transaction and commit
// or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all inventory repositories
// within one transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// Items returns the item repository scoped to the current transaction
	Items() inventory.ItemRepository
	// Warehouses returns the warehouse repository scoped to the current transaction
	Warehouses() inventory.WarehouseRepository
	// StockRecords returns the stock record repository scoped to the current transaction
	StockRecords() inventory.StockRecordRepository
	// Movements returns the movement repository scoped to the current transaction
	Movements() inventory.MovementRepository
	// Receipts returns the goods receipt repository scoped to the current transaction
	Receipts() inventory.GoodsReceiptRepository
	// Transfers returns the warehouse transfer repository scoped to the current transaction
	Transfers() inventory.TransferRepository
	// Recipes returns the recipe component repository scoped to the current transaction
	Recipes() inventory.RecipeComponentRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests, where the fakes are transactional enough.
type NoOpTransactionScope struct {
	items        inventory.ItemRepository
	warehouses   inventory.WarehouseRepository
	stockRecords inventory.StockRecordRepository
	movements    inventory.MovementRepository
	receipts     inventory.GoodsReceiptRepository
	transfers    inventory.TransferRepository
	recipes      inventory.RecipeComponentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(
	items inventory.ItemRepository,
	warehouses inventory.WarehouseRepository,
	stockRecords inventory.StockRecordRepository,
	movements inventory.MovementRepository,
	receipts inventory.GoodsReceiptRepository,
	transfers inventory.TransferRepository,
	recipes inventory.RecipeComponentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		items:        items,
		warehouses:   warehouses,
		stockRecords: stockRecords,
		movements:    movements,
		receipts:     receipts,
		transfers:    transfers,
		recipes:      recipes,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Items returns the item repository.
func (s *NoOpTransactionScope) Items() inventory.ItemRepository { return s.items }

// Warehouses returns the warehouse repository.
func (s *NoOpTransactionScope) Warehouses() inventory.WarehouseRepository { return s.warehouses }

// StockRecords returns the stock record repository.
func (s *NoOpTransactionScope) StockRecords() inventory.StockRecordRepository {
	return s.stockRecords
}

// Movements returns the movement repository.
func (s *NoOpTransactionScope) Movements() inventory.MovementRepository { return s.movements }

// Receipts returns the goods receipt repository.
func (s *NoOpTransactionScope) Receipts() inventory.GoodsReceiptRepository { return s.receipts }

// Transfers returns the warehouse transfer repository.
func (s *NoOpTransactionScope) Transfers() inventory.TransferRepository { return s.transfers }

// Recipes returns the recipe component repository.
func (s *NoOpTransactionScope) Recipes() inventory.RecipeComponentRepository { return s.recipes }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
