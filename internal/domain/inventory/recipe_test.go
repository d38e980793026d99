package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func component(t *testing.T, compositeID uuid.UUID, qty string) RecipeComponent {
	t.Helper()
	quantity, err := decimal.NewFromString(qty)
	require.NoError(t, err)
	c, err := NewRecipeComponent(compositeID, uuid.New(), quantity, "pcs")
	require.NoError(t, err)
	return *c
}

func TestNewRecipeComponent_Validation(t *testing.T) {
	id := uuid.New()

	_, err := NewRecipeComponent(uuid.Nil, id, decimal.NewFromInt(1), "pcs")
	assert.Error(t, err)

	_, err = NewRecipeComponent(id, id, decimal.NewFromInt(1), "pcs")
	assert.Error(t, err)

	_, err = NewRecipeComponent(id, uuid.New(), decimal.NewFromInt(-1), "pcs")
	assert.Error(t, err)
}

func TestComputeAvailability_MinOverComponentsWins(t *testing.T) {
	compositeID := uuid.New()
	a := component(t, compositeID, "2")
	b := component(t, compositeID, "1")

	stocks := map[uuid.UUID]ComponentStock{
		a.ComponentItemID: {Stock: decimal.NewFromInt(100), CostPrice: decimal.NewFromInt(3)},
		b.ComponentItemID: {Stock: decimal.NewFromInt(15), CostPrice: decimal.NewFromInt(7)},
	}

	result := ComputeAvailability([]RecipeComponent{a, b}, stocks)

	// floor(100/2)=50, floor(15/1)=15; the binding constraint is 15
	assert.Equal(t, int64(15), result.Units)
	assert.True(t, result.Configured)
	assert.True(t, result.RecipeCost.Equal(decimal.NewFromInt(13)))
}

func TestComputeAvailability_FractionalRequirementFloors(t *testing.T) {
	compositeID := uuid.New()
	a := component(t, compositeID, "0.75")

	stocks := map[uuid.UUID]ComponentStock{
		a.ComponentItemID: {Stock: decimal.NewFromInt(2)},
	}

	result := ComputeAvailability([]RecipeComponent{a}, stocks)

	// 2 / 0.75 = 2.66..., floored to 2
	assert.Equal(t, int64(2), result.Units)
}

func TestComputeAvailability_ZeroQuantityDoesNotConstrain(t *testing.T) {
	compositeID := uuid.New()
	free := component(t, compositeID, "0")
	limited := component(t, compositeID, "1")

	stocks := map[uuid.UUID]ComponentStock{
		free.ComponentItemID:    {Stock: decimal.Zero, CostPrice: decimal.NewFromInt(100)},
		limited.ComponentItemID: {Stock: decimal.NewFromInt(8), CostPrice: decimal.NewFromInt(2)},
	}

	result := ComputeAvailability([]RecipeComponent{free, limited}, stocks)

	assert.Equal(t, int64(8), result.Units)
	assert.True(t, result.Configured)
}

func TestComputeAvailability_EmptyRecipeIsUnconfigured(t *testing.T) {
	result := ComputeAvailability(nil, nil)

	assert.False(t, result.Configured)
	assert.Equal(t, int64(0), result.Units)
	assert.True(t, result.RecipeCost.IsZero())
}

func TestComputeAvailability_MissingStockCountsAsZero(t *testing.T) {
	compositeID := uuid.New()
	a := component(t, compositeID, "1")

	result := ComputeAvailability([]RecipeComponent{a}, map[uuid.UUID]ComponentStock{})

	assert.True(t, result.Configured)
	assert.Equal(t, int64(0), result.Units)
}
