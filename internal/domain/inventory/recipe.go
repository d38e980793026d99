package inventory

import (
	"github.com/google/uuid"
	"github.com/opsdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RecipeComponent is one edge of a composite item's bill of materials:
// assembling one unit of the composite consumes Quantity of the component.
// Components must themselves be non-composite; nesting is not supported.
type RecipeComponent struct {
	shared.BaseEntity
	CompositeItemID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_composite_component,priority:1"`
	ComponentItemID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_composite_component,priority:2"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Required per assembled unit
	Unit            string          `gorm:"type:varchar(32)"`
}

// TableName returns the table name for GORM
func (RecipeComponent) TableName() string {
	return "recipe_components"
}

// NewRecipeComponent creates a bill-of-materials edge
func NewRecipeComponent(compositeItemID, componentItemID uuid.UUID, quantity decimal.Decimal, unit string) (*RecipeComponent, error) {
	if compositeItemID == uuid.Nil || componentItemID == uuid.Nil {
		return nil, shared.NewValidationError("Recipe component requires composite and component item IDs")
	}
	if compositeItemID == componentItemID {
		return nil, shared.NewValidationError("An item cannot be a component of itself")
	}
	if quantity.IsNegative() {
		return nil, shared.NewValidationError("Component quantity cannot be negative")
	}
	return &RecipeComponent{
		BaseEntity:      shared.NewBaseEntity(),
		CompositeItemID: compositeItemID,
		ComponentItemID: componentItemID,
		Quantity:        quantity,
		Unit:            unit,
	}, nil
}

// ComponentStock is the calculator's view of one component item
type ComponentStock struct {
	Stock     decimal.Decimal
	CostPrice decimal.Decimal
}

// Availability is the derived availability of a composite item.
// Configured is false when the recipe has no constraining components, so an
// un-configured recipe reads as "not configured" rather than as zero stock.
type Availability struct {
	Units      int64           `json:"units"`
	Configured bool            `json:"configured"`
	RecipeCost decimal.Decimal `json:"recipeCost"`
}

// ComputeAvailability derives how many whole units of a composite item can be
// assembled from current component stock. Each component constrains the result
// to floor(stock / requiredQuantity); the minimum over components wins.
// Components requiring zero quantity do not constrain. Missing stock entries
// count as zero stock. Pure function, no side effects.
func ComputeAvailability(components []RecipeComponent, stocks map[uuid.UUID]ComponentStock) Availability {
	result := Availability{RecipeCost: decimal.Zero}

	var minUnits decimal.Decimal
	for _, c := range components {
		cs := stocks[c.ComponentItemID]
		result.RecipeCost = result.RecipeCost.Add(c.Quantity.Mul(cs.CostPrice))

		if c.Quantity.IsZero() {
			continue
		}
		units := cs.Stock.Div(c.Quantity).Floor()
		if !result.Configured || units.LessThan(minUnits) {
			minUnits = units
		}
		result.Configured = true
	}

	if result.Configured {
		result.Units = minUnits.IntPart()
	}
	return result
}
