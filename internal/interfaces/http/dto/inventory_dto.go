package dto

// AdjustStockRequest applies a signed delta to one warehouse-item pair.
// Quantities travel as strings to keep decimal precision intact.
type AdjustStockRequest struct {
	WarehouseID string `json:"warehouse_id" binding:"required,uuid"`
	ItemID      string `json:"item_id" binding:"required,uuid"`
	Delta       string `json:"delta" binding:"required"`
	Reason      string `json:"reason" binding:"required,max=255"`
}

// StockQuery identifies a warehouse-item pair
type StockQuery struct {
	WarehouseID string `form:"warehouse_id" binding:"required,uuid"`
	ItemID      string `form:"item_id" binding:"required,uuid"`
}

// StockAtQuery asks for an item's aggregate at a past instant
type StockAtQuery struct {
	At string `form:"at" binding:"required"`
}

// MovementListRequest filters the movement audit trail
type MovementListRequest struct {
	ListRequest
	ItemID      string `form:"item_id" binding:"omitempty,uuid"`
	WarehouseID string `form:"warehouse_id" binding:"omitempty,uuid"`
	Type        string `form:"type"`
	StartDate   string `form:"start_date"`
	EndDate     string `form:"end_date"`
}

// ReceiptLineRequest is one expected line of a new goods receipt
type ReceiptLineRequest struct {
	ItemID           string `json:"item_id" binding:"required,uuid"`
	QuantityExpected string `json:"quantity_expected" binding:"required"`
	UnitCost         string `json:"unit_cost"`
}

// CreateReceiptRequest registers a supplier delivery
type CreateReceiptRequest struct {
	SupplierRef string               `json:"supplier_ref" binding:"required,max=255"`
	InvoiceRef  string               `json:"invoice_ref" binding:"omitempty,max=255"`
	Lines       []ReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ReceiptLineUpdateRequest carries one counted quantity
type ReceiptLineUpdateRequest struct {
	LineID           string `json:"line_id" binding:"required,uuid"`
	QuantityReceived string `json:"quantity_received" binding:"required"`
	Observations     string `json:"observations" binding:"omitempty,max=500"`
}

// UpdateReceiptLinesRequest applies a batch of counted quantities
type UpdateReceiptLinesRequest struct {
	Lines []ReceiptLineUpdateRequest `json:"lines" binding:"required,min=1,dive"`
}

// SetInvoiceRefRequest links a supplier invoice to a receipt
type SetInvoiceRefRequest struct {
	InvoiceRef string `json:"invoice_ref" binding:"required,max=255"`
}

// TransitionRequest moves a receipt to a target status
type TransitionRequest struct {
	Target string `json:"target" binding:"required"`
}

// TransferToStockRequest stocks an approved receipt into a warehouse
type TransferToStockRequest struct {
	WarehouseID string `json:"warehouse_id" binding:"required,uuid"`
}

// ReceiptListRequest filters the receipt list
type ReceiptListRequest struct {
	ListRequest
	Status string `form:"status"`
}

// TransferLineRequest is one line of a warehouse transfer
type TransferLineRequest struct {
	ItemID   string `json:"item_id" binding:"required,uuid"`
	Quantity string `json:"quantity" binding:"required"`
	Notes    string `json:"notes" binding:"omitempty,max=255"`
}

// CreateTransferRequest creates a draft transfer between two warehouses
type CreateTransferRequest struct {
	SourceWarehouseID      string                `json:"source_warehouse_id" binding:"required,uuid"`
	DestinationWarehouseID string                `json:"destination_warehouse_id" binding:"required,uuid"`
	Notes                  string                `json:"notes" binding:"omitempty,max=500"`
	Lines                  []TransferLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateTransferRequest edits a draft transfer. Nil fields are untouched;
// lines, when present, replace the existing set wholesale.
type UpdateTransferRequest struct {
	Notes *string               `json:"notes" binding:"omitempty,max=500"`
	Lines []TransferLineRequest `json:"lines" binding:"omitempty,min=1,dive"`
}

// SetComponentRequest upserts one recipe component of a composite item
type SetComponentRequest struct {
	ComponentItemID string `json:"component_item_id" binding:"required,uuid"`
	Quantity        string `json:"quantity" binding:"required"`
}
