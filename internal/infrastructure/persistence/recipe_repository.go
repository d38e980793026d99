package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsdesk/backend/internal/domain/inventory"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRecipeComponentRepository implements RecipeComponentRepository using GORM
type GormRecipeComponentRepository struct {
	db *gorm.DB
}

// NewGormRecipeComponentRepository creates a new GormRecipeComponentRepository
func NewGormRecipeComponentRepository(db *gorm.DB) *GormRecipeComponentRepository {
	return &GormRecipeComponentRepository{db: db}
}

// FindByComposite finds the components of a composite item
func (r *GormRecipeComponentRepository) FindByComposite(ctx context.Context, compositeItemID uuid.UUID) ([]inventory.RecipeComponent, error) {
	var components []inventory.RecipeComponent
	if err := r.db.WithContext(ctx).
		Where("composite_item_id = ?", compositeItemID).
		Order("created_at ASC").
		Find(&components).Error; err != nil {
		return nil, err
	}
	return components, nil
}

// Save creates or updates a recipe component. The (composite, component) pair
// is unique, so a repeated save overwrites the quantity.
func (r *GormRecipeComponentRepository) Save(ctx context.Context, component *inventory.RecipeComponent) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "composite_item_id"}, {Name: "component_item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(component).Error
}

// Ensure GormRecipeComponentRepository implements RecipeComponentRepository
var _ inventory.RecipeComponentRepository = (*GormRecipeComponentRepository)(nil)
