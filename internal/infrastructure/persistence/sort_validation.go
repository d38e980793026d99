package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort direction to ASC or DESC.
// Anything other than "asc" falls back to DESC.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks a caller-supplied sort field against the entity's
// whitelist. The field is interpolated into the ORDER BY clause, so anything
// not in the whitelist falls back to the default field.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// MovementSortFields contains allowed sort fields for stock movements
var MovementSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"occurred_at":  true,
	"item_id":      true,
	"warehouse_id": true,
	"type":         true,
	"quantity":     true,
}

// ReceiptSortFields contains allowed sort fields for goods receipts
var ReceiptSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"number":       true,
	"supplier_ref": true,
	"invoice_ref":  true,
	"status":       true,
	"verified_at":  true,
	"stocked_at":   true,
}

// TransferSortFields contains allowed sort fields for warehouse transfers
var TransferSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"number":      true,
	"status":      true,
	"executed_at": true,
}
