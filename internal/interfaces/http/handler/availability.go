package handler

import (
	"github.com/gin-gonic/gin"
	appinventory "github.com/opsdesk/backend/internal/application/inventory"
	"github.com/opsdesk/backend/internal/domain/inventory"
	"github.com/opsdesk/backend/internal/interfaces/http/dto"
)

// AvailabilityHandler exposes composite item recipes and derived availability
type AvailabilityHandler struct {
	BaseHandler
	availability *appinventory.AvailabilityService
}

// NewAvailabilityHandler creates a new AvailabilityHandler
func NewAvailabilityHandler(availability *appinventory.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// GetAvailability handles GET /api/v1/items/:id/availability
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	itemID, _ := parseUUID(req.ID)

	availability, err := h.availability.GetAvailability(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, availability)
}

// GetRecipe handles GET /api/v1/items/:id/recipe
func (h *AvailabilityHandler) GetRecipe(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	itemID, _ := parseUUID(req.ID)

	components, err := h.availability.GetRecipe(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, components)
}

// SetComponent handles PUT /api/v1/items/:id/recipe/components
func (h *AvailabilityHandler) SetComponent(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req dto.SetComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quantity, err := parseDecimal(req.Quantity, "quantity")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	compositeID, _ := parseUUID(uriReq.ID)
	componentID, _ := parseUUID(req.ComponentItemID)

	component, err := inventory.NewRecipeComponent(compositeID, componentID, quantity, "")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.availability.SetComponent(c.Request.Context(), component); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, component)
}
