package trade

import "github.com/atlas-erp/backend/internal/domain/shared"

// ErrPurchaseOrderNotFound is returned when a purchase order does not exist
var ErrPurchaseOrderNotFound = shared.NewDomainError("PURCHASE_ORDER_NOT_FOUND", "Purchase order not found")

// ErrSalesOrderNotFound is returned when a sales order does not exist
var ErrSalesOrderNotFound = shared.NewDomainError("SALES_ORDER_NOT_FOUND", "Sales order not found")
