package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPurchaseOrder(t *testing.T, env *testEnv, warehouseID uuid.UUID, productID uuid.UUID, quantity string) map[string]interface{} {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/v1/purchase-orders", gin.H{
		"supplier_id":   uuid.New(),
		"supplier_name": "Acme Supplies",
		"warehouse_id":  warehouseID,
		"items": []gin.H{
			{"product_id": productID, "product_name": "Widget", "quantity": quantity, "unit_price": "2.50"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return dataMap(t, w)
}

func TestPurchaseOrderHandler_Create(t *testing.T) {
	env := newTestEnv(t)

	data := createPurchaseOrder(t, env, uuid.New(), uuid.New(), "10")
	assert.Equal(t, "draft", data["status"])
	assert.Contains(t, data["order_number"], "PO")
	assert.Equal(t, "25", data["total_amount"])

	// Lookup by number returns the same order
	w := env.do(t, http.MethodGet, "/api/v1/purchase-orders/by-number/"+data["order_number"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, data["id"], dataMap(t, w)["id"])
}

func TestPurchaseOrderHandler_CreateRequiresSupplier(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/purchase-orders", gin.H{
		"supplier_name": "Acme Supplies",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPurchaseOrderHandler_ApprovalFlow(t *testing.T) {
	env := newTestEnv(t)
	data := createPurchaseOrder(t, env, uuid.New(), uuid.New(), "10")
	orderID := data["id"].(string)

	w := env.do(t, http.MethodPost, "/api/v1/purchase-orders/"+orderID+"/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending", dataMap(t, w)["status"])

	w = env.do(t, http.MethodPost, "/api/v1/purchase-orders/"+orderID+"/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "approved", dataMap(t, w)["status"])

	w = env.do(t, http.MethodPost, "/api/v1/purchase-orders/"+orderID+"/mark-ordered", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ordered", dataMap(t, w)["status"])

	// A draft-only action on an ordered document is rejected
	w = env.do(t, http.MethodPost, "/api/v1/purchase-orders/"+orderID+"/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPurchaseOrderHandler_Receipt(t *testing.T) {
	env := newTestEnv(t)
	productID := uuid.New()
	warehouseID := uuid.New()
	data := createPurchaseOrder(t, env, warehouseID, productID, "10")
	orderID := data["id"].(string)
	items := data["items"].([]interface{})
	itemID := items[0].(map[string]interface{})["id"].(string)

	for _, action := range []string{"submit", "approve", "mark-ordered"} {
		w := env.do(t, http.MethodPost, "/api/v1/purchase-orders/"+orderID+"/"+action, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	// Book a partial delivery
	w := env.do(t, http.MethodPost, "/api/v1/purchase-orders/"+orderID+"/receipts", gin.H{
		"lines": []gin.H{
			{"item_id": itemID, "quantity": "6", "batch_number": "B-001"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	result := dataMap(t, w)
	assert.Equal(t, "received_partial", result["order_status"])

	// The delivery raised the ledger and wrote a purchase log entry
	w = env.do(t, http.MethodGet,
		fmt.Sprintf("/api/v1/inventory/levels/detail?product_id=%s&warehouse_id=%s", productID, warehouseID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "6", dataMap(t, w)["quantity_available"])

	w = env.do(t, http.MethodGet,
		"/api/v1/inventory/transactions/by-reference?reference_type=purchase_order&reference_id="+orderID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	txs := resp.Data.([]interface{})
	require.Len(t, txs, 1)
	entry := txs[0].(map[string]interface{})
	assert.Equal(t, "purchase", entry["transaction_type"])
	assert.Equal(t, "6", entry["quantity"])
	assert.Equal(t, "B-001", entry["batch_number"])

	// Booking the remainder completes the order
	w = env.do(t, http.MethodPost, "/api/v1/purchase-orders/"+orderID+"/receipts", gin.H{
		"lines": []gin.H{
			{"item_id": itemID, "quantity": "4"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "received_complete", dataMap(t, w)["order_status"])
}

func TestPurchaseOrderHandler_ReceiptClampsToRemaining(t *testing.T) {
	env := newTestEnv(t)
	productID := uuid.New()
	warehouseID := uuid.New()
	data := createPurchaseOrder(t, env, warehouseID, productID, "5")
	orderID := data["id"].(string)
	items := data["items"].([]interface{})
	itemID := items[0].(map[string]interface{})["id"].(string)

	for _, action := range []string{"submit", "approve", "mark-ordered"} {
		w := env.do(t, http.MethodPost, "/api/v1/purchase-orders/"+orderID+"/"+action, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	// A delivery larger than the outstanding quantity books only the remainder
	w := env.do(t, http.MethodPost, "/api/v1/purchase-orders/"+orderID+"/receipts", gin.H{
		"lines": []gin.H{
			{"item_id": itemID, "quantity": "8"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	result := dataMap(t, w)
	assert.Equal(t, "received_complete", result["order_status"])
	lines := result["lines"].([]interface{})
	require.Len(t, lines, 1)
	assert.Equal(t, "5", lines[0].(map[string]interface{})["quantity"])

	// Only the booked quantity reached the ledger
	w = env.do(t, http.MethodGet,
		fmt.Sprintf("/api/v1/inventory/levels/detail?product_id=%s&warehouse_id=%s", productID, warehouseID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", dataMap(t, w)["quantity_available"])
}

func TestPurchaseOrderHandler_Cancel(t *testing.T) {
	env := newTestEnv(t)
	data := createPurchaseOrder(t, env, uuid.New(), uuid.New(), "10")
	orderID := data["id"].(string)

	w := env.do(t, http.MethodPost, "/api/v1/purchase-orders/"+orderID+"/cancel", gin.H{
		"reason": "supplier out of business",
	})
	require.Equal(t, http.StatusOK, w.Code)
	result := dataMap(t, w)
	assert.Equal(t, "cancelled", result["status"])
	assert.Equal(t, "supplier out of business", result["cancel_reason"])
}

func TestPurchaseOrderHandler_ItemManagement(t *testing.T) {
	env := newTestEnv(t)
	data := createPurchaseOrder(t, env, uuid.New(), uuid.New(), "10")
	orderID := data["id"].(string)

	w := env.do(t, http.MethodPost, "/api/v1/purchase-orders/"+orderID+"/items", gin.H{
		"product_id":   uuid.New(),
		"product_name": "Gadget",
		"quantity":     "4",
		"unit_price":   "1.00",
	})
	require.Equal(t, http.StatusOK, w.Code)
	result := dataMap(t, w)
	items := result["items"].([]interface{})
	require.Len(t, items, 2)
	assert.Equal(t, "29", result["total_amount"])

	addedID := items[1].(map[string]interface{})["id"].(string)
	w = env.do(t, http.MethodDelete, "/api/v1/purchase-orders/"+orderID+"/items/"+addedID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, dataMap(t, w)["items"].([]interface{}), 1)
}

func TestPurchaseOrderHandler_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/purchase-orders/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ERR_NOT_FOUND", resp.Error.Code)
}
