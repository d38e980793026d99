package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsdesk/backend/internal/domain/inventory"
	"github.com/opsdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AvailabilityService derives how many units of a composite item can be
// assembled from current component stock, and manages the bill of materials.
type AvailabilityService struct {
	items   inventory.ItemRepository
	recipes inventory.RecipeComponentRepository
	log     *zap.Logger
}

// NewAvailabilityService creates a new AvailabilityService
func NewAvailabilityService(
	items inventory.ItemRepository,
	recipes inventory.RecipeComponentRepository,
	log *zap.Logger,
) *AvailabilityService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AvailabilityService{
		items:   items,
		recipes: recipes,
		log:     log,
	}
}

// GetAvailability computes the availability of one composite item. Component
// stock is read from the item aggregates, which the ledger keeps recomputed.
func (s *AvailabilityService) GetAvailability(ctx context.Context, compositeItemID uuid.UUID) (*inventory.Availability, error) {
	item, err := s.items.FindByID(ctx, compositeItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsComposite {
		return nil, shared.NewValidationError("Availability is only defined for composite items")
	}

	components, err := s.recipes.FindByComposite(ctx, compositeItemID)
	if err != nil {
		return nil, err
	}

	stocks, err := s.componentStocks(ctx, components)
	if err != nil {
		return nil, err
	}

	availability := inventory.ComputeAvailability(components, stocks)
	return &availability, nil
}

// componentStocks loads the aggregate stock and cost of each component item
func (s *AvailabilityService) componentStocks(ctx context.Context, components []inventory.RecipeComponent) (map[uuid.UUID]inventory.ComponentStock, error) {
	if len(components) == 0 {
		return map[uuid.UUID]inventory.ComponentStock{}, nil
	}
	ids := make([]uuid.UUID, 0, len(components))
	for _, c := range components {
		ids = append(ids, c.ComponentItemID)
	}
	items, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	stocks := make(map[uuid.UUID]inventory.ComponentStock, len(items))
	for _, it := range items {
		stocks[it.ID] = inventory.ComponentStock{Stock: it.TotalStock, CostPrice: it.CostPrice}
	}
	return stocks, nil
}

// GetRecipe returns the bill of materials of a composite item
func (s *AvailabilityService) GetRecipe(ctx context.Context, compositeItemID uuid.UUID) ([]inventory.RecipeComponent, error) {
	item, err := s.items.FindByID(ctx, compositeItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsComposite {
		return nil, shared.NewValidationError("Only composite items have a recipe")
	}
	return s.recipes.FindByComposite(ctx, compositeItemID)
}

// SetComponent creates or updates one recipe edge. The component must be an
// existing non-composite item, keeping recipes one level deep.
func (s *AvailabilityService) SetComponent(ctx context.Context, component *inventory.RecipeComponent) error {
	composite, err := s.items.FindByID(ctx, component.CompositeItemID)
	if err != nil {
		return err
	}
	if !composite.IsComposite {
		return shared.NewValidationError("Only composite items have a recipe")
	}
	part, err := s.items.FindByID(ctx, component.ComponentItemID)
	if err != nil {
		return err
	}
	if part.IsComposite {
		return shared.NewValidationError("Recipe components must be non-composite items")
	}
	if err := s.recipes.Save(ctx, component); err != nil {
		return err
	}
	s.log.Info("recipe component saved",
		zap.String("composite_item_id", component.CompositeItemID.String()),
		zap.String("component_item_id", component.ComponentItemID.String()),
		zap.String("quantity", component.Quantity.String()),
	)
	return nil
}
