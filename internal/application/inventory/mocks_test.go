package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/backend/internal/domain/inventory"
	"github.com/opsdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockItemRepository is a mock implementation of ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}

func (m *MockItemRepository) FindBySKU(ctx context.Context, sku string) (*inventory.Item, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.Item, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]inventory.Item), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) UpdateTotalStock(ctx context.Context, itemID uuid.UUID, total decimal.Decimal) error {
	args := m.Called(ctx, itemID, total)
	return args.Error(0)
}

func (m *MockItemRepository) UpdateCostPrice(ctx context.Context, itemID uuid.UUID, cost decimal.Decimal) error {
	args := m.Called(ctx, itemID, cost)
	return args.Error(0)
}

// MockWarehouseRepository is a mock implementation of WarehouseRepository
type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindActive(ctx context.Context) ([]inventory.Warehouse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]inventory.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) Save(ctx context.Context, w *inventory.Warehouse) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

// MockStockRecordRepository is a mock implementation of StockRecordRepository
type MockStockRecordRepository struct {
	mock.Mock
}

func (m *MockStockRecordRepository) FindByWarehouseAndItem(ctx context.Context, warehouseID, itemID uuid.UUID) (*inventory.WarehouseStockRecord, error) {
	args := m.Called(ctx, warehouseID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.WarehouseStockRecord), args.Error(1)
}

func (m *MockStockRecordRepository) GetOrCreateForUpdate(ctx context.Context, warehouseID, itemID uuid.UUID) (*inventory.WarehouseStockRecord, error) {
	args := m.Called(ctx, warehouseID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.WarehouseStockRecord), args.Error(1)
}

func (m *MockStockRecordRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]inventory.WarehouseStockRecord, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).([]inventory.WarehouseStockRecord), args.Error(1)
}

func (m *MockStockRecordRepository) Save(ctx context.Context, record *inventory.WarehouseStockRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStockRecordRepository) SumByItem(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockMovementRepository is a mock implementation of MovementRepository that
// also records every appended movement for assertions.
type MockMovementRepository struct {
	mock.Mock
	mu       sync.Mutex
	appended []inventory.StockMovement
}

func (m *MockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	args := m.Called(ctx, movement)
	if args.Error(0) == nil {
		m.mu.Lock()
		m.appended = append(m.appended, *movement)
		m.mu.Unlock()
	}
	return args.Error(0)
}

func (m *MockMovementRepository) CreateBatch(ctx context.Context, movements []*inventory.StockMovement) error {
	args := m.Called(ctx, movements)
	if args.Error(0) == nil {
		m.mu.Lock()
		for _, mv := range movements {
			m.appended = append(m.appended, *mv)
		}
		m.mu.Unlock()
	}
	return args.Error(0)
}

func (m *MockMovementRepository) Appended() []inventory.StockMovement {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]inventory.StockMovement, len(m.appended))
	copy(result, m.appended)
	return result
}

func (m *MockMovementRepository) FindByFilter(ctx context.Context, filter inventory.MovementFilter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) FindByItemSince(ctx context.Context, itemID uuid.UUID, since time.Time) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, itemID, since)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) FindByReceipt(ctx context.Context, receiptID uuid.UUID) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, receiptID)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) FindByTransfer(ctx context.Context, transferID uuid.UUID) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, transferID)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) CountByFilter(ctx context.Context, filter inventory.MovementFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockGoodsReceiptRepository is a mock implementation of GoodsReceiptRepository
type MockGoodsReceiptRepository struct {
	mock.Mock
}

func (m *MockGoodsReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.GoodsReceipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.GoodsReceipt), args.Error(1)
}

func (m *MockGoodsReceiptRepository) FindByNumber(ctx context.Context, number string) (*inventory.GoodsReceipt, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.GoodsReceipt), args.Error(1)
}

func (m *MockGoodsReceiptRepository) FindByStatus(ctx context.Context, status inventory.ReceiptStatus, filter shared.Filter) ([]inventory.GoodsReceipt, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]inventory.GoodsReceipt), args.Error(1)
}

func (m *MockGoodsReceiptRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.GoodsReceipt, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.GoodsReceipt), args.Error(1)
}

func (m *MockGoodsReceiptRepository) Save(ctx context.Context, receipt *inventory.GoodsReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockGoodsReceiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGoodsReceiptRepository) GenerateNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockTransferRepository is a mock implementation of TransferRepository
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.WarehouseTransfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.WarehouseTransfer), args.Error(1)
}

func (m *MockTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.WarehouseTransfer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.WarehouseTransfer), args.Error(1)
}

func (m *MockTransferRepository) Save(ctx context.Context, transfer *inventory.WarehouseTransfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransferRepository) GenerateNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockRecipeComponentRepository is a mock implementation of RecipeComponentRepository
type MockRecipeComponentRepository struct {
	mock.Mock
}

func (m *MockRecipeComponentRepository) FindByComposite(ctx context.Context, compositeItemID uuid.UUID) ([]inventory.RecipeComponent, error) {
	args := m.Called(ctx, compositeItemID)
	return args.Get(0).([]inventory.RecipeComponent), args.Error(1)
}

func (m *MockRecipeComponentRepository) Save(ctx context.Context, component *inventory.RecipeComponent) error {
	args := m.Called(ctx, component)
	return args.Error(0)
}

// testMocks bundles all repository mocks with a NoOpTransactionScope
type testMocks struct {
	items        *MockItemRepository
	warehouses   *MockWarehouseRepository
	stockRecords *MockStockRecordRepository
	movements    *MockMovementRepository
	receipts     *MockGoodsReceiptRepository
	transfers    *MockTransferRepository
	recipes      *MockRecipeComponentRepository
	scope        *NoOpTransactionScope
}

func newTestMocks() *testMocks {
	m := &testMocks{
		items:        new(MockItemRepository),
		warehouses:   new(MockWarehouseRepository),
		stockRecords: new(MockStockRecordRepository),
		movements:    new(MockMovementRepository),
		receipts:     new(MockGoodsReceiptRepository),
		transfers:    new(MockTransferRepository),
		recipes:      new(MockRecipeComponentRepository),
	}
	m.scope = NewNoOpTransactionScope(
		m.items, m.warehouses, m.stockRecords, m.movements, m.receipts, m.transfers, m.recipes,
	)
	return m
}

func testActor() shared.Actor {
	return shared.Actor{ID: "user-1", Name: "Test User"}
}
