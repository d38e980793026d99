package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appinventory "github.com/opsdesk/backend/internal/application/inventory"
	"github.com/opsdesk/backend/internal/domain/inventory"
	"github.com/opsdesk/backend/internal/domain/shared"
	"github.com/opsdesk/backend/internal/interfaces/http/dto"
)

// LedgerHandler exposes stock levels, adjustments and the movement trail
type LedgerHandler struct {
	BaseHandler
	ledger *appinventory.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledger *appinventory.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// AdjustStock handles POST /api/v1/stock/adjust
func (h *LedgerHandler) AdjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	warehouseID, _ := parseUUID(req.WarehouseID)
	itemID, _ := parseUUID(req.ItemID)
	delta, err := parseDecimal(req.Delta, "delta")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.ledger.AdjustStock(c.Request.Context(), appinventory.AdjustStockCommand{
		WarehouseID: warehouseID,
		ItemID:      itemID,
		Delta:       delta,
		Reason:      req.Reason,
		Actor:       actor,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetStock handles GET /api/v1/stock
func (h *LedgerHandler) GetStock(c *gin.Context) {
	var query dto.StockQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouseID, _ := parseUUID(query.WarehouseID)
	itemID, _ := parseUUID(query.ItemID)

	stock, err := h.ledger.GetStock(c.Request.Context(), warehouseID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"warehouse_id": warehouseID,
		"item_id":      itemID,
		"stock":        stock,
	})
}

// GetAggregate handles GET /api/v1/stock/items/:id/aggregate
func (h *LedgerHandler) GetAggregate(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	itemID, _ := parseUUID(req.ID)

	aggregate, err := h.ledger.GetAggregate(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"item_id":   itemID,
		"aggregate": aggregate,
	})
}

// GetStockAt handles GET /api/v1/stock/items/:id/at
func (h *LedgerHandler) GetStockAt(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var query dto.StockAtQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	at, err := time.Parse(time.RFC3339, query.At)
	if err != nil {
		h.BadRequest(c, "at must be an RFC3339 timestamp")
		return
	}
	itemID, _ := parseUUID(req.ID)

	stock, err := h.ledger.StockAt(c.Request.Context(), itemID, at)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"item_id": itemID,
		"at":      at,
		"stock":   stock,
	})
}

// ListMovements handles GET /api/v1/stock/movements
func (h *LedgerHandler) ListMovements(c *gin.Context) {
	var req dto.MovementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := h.buildMovementFilter(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	movements, total, err := h.ledger.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

func (h *LedgerHandler) buildMovementFilter(req dto.MovementListRequest) (inventory.MovementFilter, error) {
	filter := inventory.MovementFilter{Filter: req.ToFilter()}

	if req.ItemID != "" {
		id, err := uuid.Parse(req.ItemID)
		if err != nil {
			return filter, shared.NewValidationError("item_id must be a UUID")
		}
		filter.ItemID = &id
	}
	if req.WarehouseID != "" {
		id, err := uuid.Parse(req.WarehouseID)
		if err != nil {
			return filter, shared.NewValidationError("warehouse_id must be a UUID")
		}
		filter.WarehouseID = &id
	}
	if req.Type != "" {
		movementType := inventory.MovementType(req.Type)
		if !movementType.IsValid() {
			return filter, shared.NewValidationError("Unknown movement type " + req.Type)
		}
		filter.Type = &movementType
	}
	if req.StartDate != "" {
		start, err := time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			return filter, shared.NewValidationError("start_date must be an RFC3339 timestamp")
		}
		filter.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return filter, shared.NewValidationError("end_date must be an RFC3339 timestamp")
		}
		filter.EndDate = &end
	}
	return filter, nil
}
