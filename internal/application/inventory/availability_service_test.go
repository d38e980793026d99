package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/opsdesk/backend/internal/domain/inventory"
	"github.com/opsdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRecipeComponent(t *testing.T, compositeID, componentID uuid.UUID, qty int64) inventory.RecipeComponent {
	t.Helper()
	c, err := inventory.NewRecipeComponent(compositeID, componentID, decimal.NewFromInt(qty), "pcs")
	require.NoError(t, err)
	return *c
}

func componentItem(t *testing.T, sku string, stock, cost int64) inventory.Item {
	t.Helper()
	item, err := inventory.NewItem(sku, sku, "pcs", false)
	require.NoError(t, err)
	item.TotalStock = decimal.NewFromInt(stock)
	item.CostPrice = decimal.NewFromInt(cost)
	return *item
}

func TestGetAvailability_BindingConstraintWins(t *testing.T) {
	m := newTestMocks()
	service := NewAvailabilityService(m.items, m.recipes, nil)
	ctx := context.Background()

	composite, err := inventory.NewItem("KIT-1", "Gift basket", "pcs", true)
	require.NoError(t, err)

	// Component A: 2 per unit, 100 in stock -> 50 units possible
	// Component B: 1 per unit, 15 in stock -> 15 units possible, the binding constraint
	compA := componentItem(t, "CMP-A", 100, 3)
	compB := componentItem(t, "CMP-B", 15, 7)
	components := []inventory.RecipeComponent{
		newRecipeComponent(t, composite.ID, compA.ID, 2),
		newRecipeComponent(t, composite.ID, compB.ID, 1),
	}

	m.items.On("FindByID", ctx, composite.ID).Return(composite, nil)
	m.recipes.On("FindByComposite", ctx, composite.ID).Return(components, nil)
	m.items.On("FindByIDs", ctx, []uuid.UUID{compA.ID, compB.ID}).Return([]inventory.Item{compA, compB}, nil)

	availability, err := service.GetAvailability(ctx, composite.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(15), availability.Units)
	assert.True(t, availability.Configured)
	// 2*3 + 1*7
	assert.True(t, availability.RecipeCost.Equal(decimal.NewFromInt(13)))
}

func TestGetAvailability_UnconfiguredRecipe(t *testing.T) {
	m := newTestMocks()
	service := NewAvailabilityService(m.items, m.recipes, nil)
	ctx := context.Background()

	composite, err := inventory.NewItem("KIT-2", "Empty kit", "pcs", true)
	require.NoError(t, err)

	m.items.On("FindByID", ctx, composite.ID).Return(composite, nil)
	m.recipes.On("FindByComposite", ctx, composite.ID).Return([]inventory.RecipeComponent{}, nil)

	availability, err := service.GetAvailability(ctx, composite.ID)

	require.NoError(t, err)
	assert.False(t, availability.Configured)
	assert.Equal(t, int64(0), availability.Units)
}

func TestGetAvailability_MissingComponentStockCountsAsZero(t *testing.T) {
	m := newTestMocks()
	service := NewAvailabilityService(m.items, m.recipes, nil)
	ctx := context.Background()

	composite, err := inventory.NewItem("KIT-3", "Kit", "pcs", true)
	require.NoError(t, err)
	missingComponent := uuid.New()
	components := []inventory.RecipeComponent{
		newRecipeComponent(t, composite.ID, missingComponent, 1),
	}

	m.items.On("FindByID", ctx, composite.ID).Return(composite, nil)
	m.recipes.On("FindByComposite", ctx, composite.ID).Return(components, nil)
	m.items.On("FindByIDs", ctx, []uuid.UUID{missingComponent}).Return([]inventory.Item{}, nil)

	availability, err := service.GetAvailability(ctx, composite.ID)

	require.NoError(t, err)
	assert.True(t, availability.Configured)
	assert.Equal(t, int64(0), availability.Units)
}

func TestGetAvailability_RejectsNonCompositeItem(t *testing.T) {
	m := newTestMocks()
	service := NewAvailabilityService(m.items, m.recipes, nil)
	ctx := context.Background()

	item := newTestItem(t, false)
	m.items.On("FindByID", ctx, item.ID).Return(item, nil)

	_, err := service.GetAvailability(ctx, item.ID)

	require.Error(t, err)
	assert.True(t, shared.HasCode(err, shared.CodeValidationFailed))
}

func TestSetComponent_RejectsCompositeComponent(t *testing.T) {
	m := newTestMocks()
	service := NewAvailabilityService(m.items, m.recipes, nil)
	ctx := context.Background()

	composite, err := inventory.NewItem("KIT-4", "Kit", "pcs", true)
	require.NoError(t, err)
	nested, err := inventory.NewItem("KIT-5", "Nested kit", "pcs", true)
	require.NoError(t, err)
	component, err := inventory.NewRecipeComponent(composite.ID, nested.ID, decimal.NewFromInt(1), "pcs")
	require.NoError(t, err)

	m.items.On("FindByID", ctx, composite.ID).Return(composite, nil)
	m.items.On("FindByID", ctx, nested.ID).Return(nested, nil)

	err = service.SetComponent(ctx, component)

	require.Error(t, err)
	assert.True(t, shared.HasCode(err, shared.CodeValidationFailed))
	m.recipes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
