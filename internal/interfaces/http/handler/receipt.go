package handler

import (
	"github.com/gin-gonic/gin"
	appinventory "github.com/opsdesk/backend/internal/application/inventory"
	"github.com/opsdesk/backend/internal/domain/inventory"
	"github.com/opsdesk/backend/internal/domain/shared"
	"github.com/opsdesk/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// ReceiptHandler exposes the goods receipt workflow
type ReceiptHandler struct {
	BaseHandler
	receipts *appinventory.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receipts *appinventory.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts}
}

// Create handles POST /api/v1/receipts
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req dto.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	lines := make([]appinventory.ReceiptLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		itemID, _ := parseUUID(line.ItemID)
		expected, err := parseDecimal(line.QuantityExpected, "quantity_expected")
		if err != nil {
			h.HandleError(c, err)
			return
		}
		unitCost := decimal.Zero
		if line.UnitCost != "" {
			if unitCost, err = parseDecimal(line.UnitCost, "unit_cost"); err != nil {
				h.HandleError(c, err)
				return
			}
		}
		lines = append(lines, appinventory.ReceiptLineInput{
			ItemID:           itemID,
			QuantityExpected: expected,
			UnitCost:         unitCost,
		})
	}

	receipt, err := h.receipts.CreateReceipt(c.Request.Context(), appinventory.CreateReceiptCommand{
		SupplierRef: req.SupplierRef,
		InvoiceRef:  req.InvoiceRef,
		Lines:       lines,
		Actor:       actor,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, receipt)
}

// Get handles GET /api/v1/receipts/:id
func (h *ReceiptHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	receiptID, _ := parseUUID(req.ID)

	receipt, err := h.receipts.GetReceipt(c.Request.Context(), receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// List handles GET /api/v1/receipts
func (h *ReceiptHandler) List(c *gin.Context) {
	var req dto.ReceiptListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var status *inventory.ReceiptStatus
	if req.Status != "" {
		s := inventory.ReceiptStatus(req.Status)
		if !s.IsValid() {
			h.HandleError(c, shared.NewValidationError("Unknown receipt status "+req.Status))
			return
		}
		status = &s
	}

	receipts, err := h.receipts.ListReceipts(c.Request.Context(), status, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipts)
}

// UpdateLines handles PUT /api/v1/receipts/:id/lines
func (h *ReceiptHandler) UpdateLines(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req dto.UpdateReceiptLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updates := make([]inventory.LineUpdate, 0, len(req.Lines))
	for _, line := range req.Lines {
		lineID, _ := parseUUID(line.LineID)
		received, err := parseDecimal(line.QuantityReceived, "quantity_received")
		if err != nil {
			h.HandleError(c, err)
			return
		}
		updates = append(updates, inventory.LineUpdate{
			LineID:           lineID,
			QuantityReceived: received,
			Observations:     line.Observations,
		})
	}

	receiptID, _ := parseUUID(uriReq.ID)
	receipt, err := h.receipts.UpdateLines(c.Request.Context(), receiptID, updates)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// SetInvoiceRef handles PUT /api/v1/receipts/:id/invoice
func (h *ReceiptHandler) SetInvoiceRef(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req dto.SetInvoiceRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receiptID, _ := parseUUID(uriReq.ID)
	receipt, err := h.receipts.SetInvoiceRef(c.Request.Context(), receiptID, req.InvoiceRef)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// Transition handles POST /api/v1/receipts/:id/transition
func (h *ReceiptHandler) Transition(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	receiptID, _ := parseUUID(uriReq.ID)
	receipt, err := h.receipts.Transition(c.Request.Context(), receiptID, inventory.ReceiptStatus(req.Target), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// GetTransitions handles GET /api/v1/receipts/:id/transitions
func (h *ReceiptHandler) GetTransitions(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	receiptID, _ := parseUUID(req.ID)

	transitions, err := h.receipts.GetAvailableTransitions(c.Request.Context(), receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"transitions": transitions})
}

// ApproveDifferences handles POST /api/v1/receipts/:id/approve-differences
func (h *ReceiptHandler) ApproveDifferences(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	receiptID, _ := parseUUID(req.ID)
	receipt, err := h.receipts.ApproveDifferences(c.Request.Context(), receiptID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// TransferToStock handles POST /api/v1/receipts/:id/stock
func (h *ReceiptHandler) TransferToStock(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req dto.TransferToStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	receiptID, _ := parseUUID(uriReq.ID)
	warehouseID, _ := parseUUID(req.WarehouseID)

	result, err := h.receipts.TransferToStock(c.Request.Context(), receiptID, warehouseID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete handles DELETE /api/v1/receipts/:id
func (h *ReceiptHandler) Delete(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	receiptID, _ := parseUUID(req.ID)

	if err := h.receipts.DeleteReceipt(c.Request.Context(), receiptID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
