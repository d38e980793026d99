package handler

import (
	"github.com/gin-gonic/gin"
	appinventory "github.com/opsdesk/backend/internal/application/inventory"
	"github.com/opsdesk/backend/internal/domain/inventory"
	"github.com/opsdesk/backend/internal/interfaces/http/dto"
)

// TransferHandler exposes warehouse-to-warehouse transfers
type TransferHandler struct {
	BaseHandler
	transfers *appinventory.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transfers *appinventory.TransferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

func buildTransferLines(reqLines []dto.TransferLineRequest) ([]inventory.TransferLineSpec, error) {
	lines := make([]inventory.TransferLineSpec, 0, len(reqLines))
	for _, line := range reqLines {
		itemID, _ := parseUUID(line.ItemID)
		quantity, err := parseDecimal(line.Quantity, "quantity")
		if err != nil {
			return nil, err
		}
		lines = append(lines, inventory.TransferLineSpec{
			ItemID:   itemID,
			Quantity: quantity,
			Notes:    line.Notes,
		})
	}
	return lines, nil
}

// Create handles POST /api/v1/transfers
func (h *TransferHandler) Create(c *gin.Context) {
	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	lines, err := buildTransferLines(req.Lines)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	sourceID, _ := parseUUID(req.SourceWarehouseID)
	destinationID, _ := parseUUID(req.DestinationWarehouseID)

	transfer, err := h.transfers.CreateTransfer(c.Request.Context(), appinventory.CreateTransferCommand{
		SourceWarehouseID:      sourceID,
		DestinationWarehouseID: destinationID,
		Notes:                  req.Notes,
		Lines:                  lines,
		Actor:                  actor,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, transfer)
}

// Get handles GET /api/v1/transfers/:id
func (h *TransferHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	transferID, _ := parseUUID(req.ID)

	transfer, err := h.transfers.GetTransfer(c.Request.Context(), transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// List handles GET /api/v1/transfers
func (h *TransferHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transfers, err := h.transfers.ListTransfers(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfers)
}

// Update handles PUT /api/v1/transfers/:id
func (h *TransferHandler) Update(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req dto.UpdateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := appinventory.UpdateTransferCommand{Notes: req.Notes}
	cmd.TransferID, _ = parseUUID(uriReq.ID)

	if req.Lines != nil {
		lines, err := buildTransferLines(req.Lines)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		cmd.Lines = lines
	}

	transfer, err := h.transfers.UpdateTransfer(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Execute handles POST /api/v1/transfers/:id/execute
func (h *TransferHandler) Execute(c *gin.Context) {
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

	transferID, _ := parseUUID(req.ID)
	transfer, err := h.transfers.ExecuteTransfer(c.Request.Context(), transferID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Delete handles DELETE /api/v1/transfers/:id
func (h *TransferHandler) Delete(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	transferID, _ := parseUUID(req.ID)

	if err := h.transfers.DeleteTransfer(c.Request.Context(), transferID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
