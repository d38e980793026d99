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

// GormTransferRepository implements TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// FindByID finds a transfer with its lines
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.WarehouseTransfer, error) {
	var transfer inventory.WarehouseTransfer
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&transfer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindAll lists transfers
func (r *GormTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.WarehouseTransfer, error) {
	var transfers []inventory.WarehouseTransfer
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.WarehouseTransfer{}), filter)

	if err := query.Preload("Lines").Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// Save creates or updates a transfer. Lines are replaced wholesale so that
// draft edits cannot leave orphaned rows behind.
func (r *GormTransferRepository) Save(ctx context.Context, transfer *inventory.WarehouseTransfer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&inventory.WarehouseTransferLine{}, "transfer_id = ?", transfer.ID).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(transfer).Error
	})
}

// Delete removes a transfer and its lines; callers must check CanDelete first
func (r *GormTransferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&inventory.WarehouseTransferLine{}, "transfer_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&inventory.WarehouseTransfer{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// GenerateNumber produces the next transfer document number.
// Format: TRF-YYYYMM-NNNN, the sequence restarting each month. The current
// maximum row is locked so concurrent callers serialize instead of minting
// the same number; ordering by length first keeps the sequence numeric once
// it grows past four digits.
func (r *GormTransferRepository) GenerateNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("TRF-%s-", time.Now().Format("200601"))

	var lastTransfer inventory.WarehouseTransfer
	err := r.db.WithContext(ctx).
		Model(&inventory.WarehouseTransfer{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("number LIKE ?", prefix+"%").
		Order("length(number) DESC, number DESC").
		First(&lastTransfer).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastTransfer.Number != "" {
		parts := strings.Split(lastTransfer.Number, "-")
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
func (r *GormTransferRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR notes ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "source_warehouse_id":
			query = query.Where("source_warehouse_id = ?", value)
		case "destination_warehouse_id":
			query = query.Where("destination_warehouse_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, TransferSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// Ensure GormTransferRepository implements TransferRepository
var _ inventory.TransferRepository = (*GormTransferRepository)(nil)
