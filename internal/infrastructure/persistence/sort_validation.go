package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is invalid, empty, or not in
// the whitelist. Sort fields reach the query as raw SQL, so anything outside
// the whitelist never gets there.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// InventoryLevelSortFields contains allowed sort fields for inventory levels
var InventoryLevelSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"product_id":         true,
	"warehouse_id":       true,
	"quantity_available": true,
	"quantity_reserved":  true,
	"minimum_stock":      true,
	"reorder_point":      true,
	"batch_number":       true,
	"expiry_date":        true,
}

// InventoryTransactionSortFields contains allowed sort fields for inventory transactions
var InventoryTransactionSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"transaction_type": true,
	"product_id":       true,
	"warehouse_id":     true,
	"quantity":         true,
	"reference_type":   true,
	"reference_id":     true,
}

// StockTransferSortFields contains allowed sort fields for stock transfers
var StockTransferSortFields = map[string]bool{
	"id":                       true,
	"created_at":               true,
	"updated_at":               true,
	"transfer_number":          true,
	"transfer_date":            true,
	"source_warehouse_id":      true,
	"destination_warehouse_id": true,
	"status":                   true,
}

// StockAdjustmentSortFields contains allowed sort fields for stock adjustments
var StockAdjustmentSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"adjustment_number": true,
	"adjustment_date":   true,
	"warehouse_id":      true,
	"reason":            true,
	"status":            true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"order_number":  true,
	"supplier_id":   true,
	"supplier_name": true,
	"warehouse_id":  true,
	"status":        true,
	"total_amount":  true,
}

// SalesOrderSortFields contains allowed sort fields for sales orders
var SalesOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"order_number":  true,
	"customer_id":   true,
	"customer_name": true,
	"status":        true,
	"total_amount":  true,
}
