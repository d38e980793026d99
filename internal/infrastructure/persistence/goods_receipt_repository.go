package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/backend/internal/domain/inventory"
	"github.com/opsdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGoodsReceiptRepository implements GoodsReceiptRepository using GORM
type GormGoodsReceiptRepository struct {
	db *gorm.DB
}

// NewGormGoodsReceiptRepository creates a new GormGoodsReceiptRepository
func NewGormGoodsReceiptRepository(db *gorm.DB) *GormGoodsReceiptRepository {
	return &GormGoodsReceiptRepository{db: db}
}

// FindByID finds a receipt with its lines
func (r *GormGoodsReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.GoodsReceipt, error) {
	var receipt inventory.GoodsReceipt
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&receipt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByNumber finds a receipt by its document number
func (r *GormGoodsReceiptRepository) FindByNumber(ctx context.Context, number string) (*inventory.GoodsReceipt, error) {
	var receipt inventory.GoodsReceipt
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("number = ?", number).
		First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByStatus finds receipts with the given status
func (r *GormGoodsReceiptRepository) FindByStatus(ctx context.Context, status inventory.ReceiptStatus, filter shared.Filter) ([]inventory.GoodsReceipt, error) {
	var receipts []inventory.GoodsReceipt
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.GoodsReceipt{}).Where("status = ?", status),
		filter,
	)

	if err := query.Preload("Lines").Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// FindAll lists receipts
func (r *GormGoodsReceiptRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.GoodsReceipt, error) {
	var receipts []inventory.GoodsReceipt
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.GoodsReceipt{}), filter)

	if err := query.Preload("Lines").Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// Save creates or updates a receipt together with its lines
func (r *GormGoodsReceiptRepository) Save(ctx context.Context, receipt *inventory.GoodsReceipt) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(receipt).Error
}

// Delete removes a receipt and its lines; callers must check CanDelete first
func (r *GormGoodsReceiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&inventory.GoodsReceiptLine{}, "receipt_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&inventory.GoodsReceipt{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// GenerateNumber produces the next receipt document number.
// Format: NIR-YYYYMM-NNNN, the sequence restarting each month. The current
// maximum row is locked so concurrent callers serialize instead of minting
// the same number; ordering by length first keeps the sequence numeric once
// it grows past four digits.
func (r *GormGoodsReceiptRepository) GenerateNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("NIR-%s-", time.Now().Format("200601"))

	var lastReceipt inventory.GoodsReceipt
	err := r.db.WithContext(ctx).
		Model(&inventory.GoodsReceipt{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("number LIKE ?", prefix+"%").
		Order("length(number) DESC, number DESC").
		First(&lastReceipt).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastReceipt.Number != "" {
		parts := strings.Split(lastReceipt.Number, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%04d", prefix, nextNum), nil
}

// applyFilter applies filter options to the query
func (r *GormGoodsReceiptRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR supplier_ref ILIKE ? OR invoice_ref ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ReceiptSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// Ensure GormGoodsReceiptRepository implements GoodsReceiptRepository
var _ inventory.GoodsReceiptRepository = (*GormGoodsReceiptRepository)(nil)
