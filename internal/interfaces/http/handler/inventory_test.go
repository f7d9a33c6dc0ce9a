package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedStock puts quantity on hand for a product in a warehouse
func (e *testEnv) seedStock(t *testing.T, productID, warehouseID uuid.UUID, quantity int64) {
	t.Helper()
	ctx := context.Background()
	_, err := e.levelRepo.GetOrCreate(ctx, productID, warehouseID)
	require.NoError(t, err)
	require.NoError(t, e.levelRepo.AddQuantity(ctx, productID, warehouseID, decimal.NewFromInt(quantity)))
}

func TestInventoryHandler_Thresholds(t *testing.T) {
	env := newTestEnv(t)
	productID := uuid.New()
	warehouseID := uuid.New()

	w := env.do(t, http.MethodPut, "/api/v1/inventory/levels/thresholds", gin.H{
		"product_id":    productID,
		"warehouse_id":  warehouseID,
		"minimum_stock": "10",
		"reorder_point": "20",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, w)
	assert.Equal(t, "10", data["minimum_stock"])

	// The row now exists with zero stock and a minimum of 10
	w = env.do(t, http.MethodGet,
		fmt.Sprintf("/api/v1/inventory/levels/below-minimum?warehouse_id=%s", warehouseID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	levels, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, levels, 1)
}

func TestInventoryHandler_SetLevelQuantity(t *testing.T) {
	env := newTestEnv(t)
	productID := uuid.New()
	warehouseID := uuid.New()
	env.seedStock(t, productID, warehouseID, 10)

	w := env.do(t, http.MethodPut, "/api/v1/inventory/levels/quantity", gin.H{
		"product_id":   productID,
		"warehouse_id": warehouseID,
		"quantity":     "25",
		"counted":      true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, w)
	assert.Equal(t, "25", data["quantity_available"])
	assert.NotEmpty(t, data["last_counted_date"])

	// The direct edit bypasses the log, so the row reports drift
	w = env.do(t, http.MethodGet,
		fmt.Sprintf("/api/v1/inventory/levels/reconciliation?product_id=%s&warehouse_id=%s", productID, warehouseID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = dataMap(t, w)
	assert.Equal(t, false, data["in_sync"])
	assert.Equal(t, "25", data["drift"])

	// Negative quantities are rejected
	w = env.do(t, http.MethodPut, "/api/v1/inventory/levels/quantity", gin.H{
		"product_id":   productID,
		"warehouse_id": warehouseID,
		"quantity":     "-1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ERR_INVALID_INPUT", resp.Error.Code)
}

func TestInventoryHandler_GetLevel(t *testing.T) {
	env := newTestEnv(t)
	productID := uuid.New()
	warehouseID := uuid.New()
	env.seedStock(t, productID, warehouseID, 42)

	w := env.do(t, http.MethodGet,
		fmt.Sprintf("/api/v1/inventory/levels/detail?product_id=%s&warehouse_id=%s", productID, warehouseID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, w)
	assert.Equal(t, "42", data["quantity_available"])

	// Unknown pair is a 404
	w = env.do(t, http.MethodGet,
		fmt.Sprintf("/api/v1/inventory/levels/detail?product_id=%s&warehouse_id=%s", uuid.New(), uuid.New()), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Missing query params is a 400
	w = env.do(t, http.MethodGet, "/api/v1/inventory/levels/detail", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryHandler_TransferStock(t *testing.T) {
	env := newTestEnv(t)
	productID := uuid.New()
	source := uuid.New()
	destination := uuid.New()
	env.seedStock(t, productID, source, 100)

	w := env.do(t, http.MethodPost, "/api/v1/inventory/transfer-stock", gin.H{
		"product_id":               productID,
		"source_warehouse_id":      source,
		"destination_warehouse_id": destination,
		"quantity":                 "30",
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet,
		fmt.Sprintf("/api/v1/inventory/levels/detail?product_id=%s&warehouse_id=%s", productID, destination), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "30", dataMap(t, w)["quantity_available"])

	// Both sides of the movement land in the transaction log
	w = env.do(t, http.MethodGet,
		"/api/v1/inventory/transactions/by-reference?reference_type=manual", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	txs, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, txs, 2)
}

func TestInventoryHandler_TransferStock_Insufficient(t *testing.T) {
	env := newTestEnv(t)
	productID := uuid.New()
	source := uuid.New()
	env.seedStock(t, productID, source, 5)

	w := env.do(t, http.MethodPost, "/api/v1/inventory/transfer-stock", gin.H{
		"product_id":               productID,
		"source_warehouse_id":      source,
		"destination_warehouse_id": uuid.New(),
		"quantity":                 "10",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ERR_INSUFFICIENT_STOCK", resp.Error.Code)
}

func TestInventoryHandler_TransferStock_RequiresActor(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodPost, "/api/v1/inventory/transfer-stock", nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInventoryHandler_TransferLifecycle(t *testing.T) {
	env := newTestEnv(t)
	productID := uuid.New()
	source := uuid.New()
	destination := uuid.New()
	env.seedStock(t, productID, source, 50)

	w := env.do(t, http.MethodPost, "/api/v1/inventory/transfers", gin.H{
		"source_warehouse_id":      source,
		"destination_warehouse_id": destination,
		"items": []gin.H{
			{"product_id": productID, "quantity": "20"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	data := dataMap(t, w)
	transferID := data["id"].(string)
	assert.Equal(t, "draft", data["status"])
	assert.Contains(t, data["transfer_number"], "TRF")

	w = env.do(t, http.MethodPost, "/api/v1/inventory/transfers/"+transferID+"/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending", dataMap(t, w)["status"])

	w = env.do(t, http.MethodPost, "/api/v1/inventory/transfers/"+transferID+"/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = dataMap(t, w)
	assert.Equal(t, "completed", data["status"])
	assert.Equal(t, true, data["completed"])

	w = env.do(t, http.MethodGet,
		fmt.Sprintf("/api/v1/inventory/levels/detail?product_id=%s&warehouse_id=%s", productID, destination), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "20", dataMap(t, w)["quantity_available"])

	w = env.do(t, http.MethodGet,
		"/api/v1/inventory/transactions/by-reference?reference_type=stock_transfer&reference_id="+transferID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	txs, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, txs, 2)
}

func TestInventoryHandler_TransferNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/inventory/transfers/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/inventory/transfers/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryHandler_AdjustmentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	productID := uuid.New()
	warehouseID := uuid.New()

	w := env.do(t, http.MethodPost, "/api/v1/inventory/adjustments", gin.H{
		"warehouse_id": warehouseID,
		"reason":       "physical_count",
		"items": []gin.H{
			{"product_id": productID, "current_quantity": "10", "new_quantity": "7"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	data := dataMap(t, w)
	adjustmentID := data["id"].(string)
	assert.Contains(t, data["adjustment_number"], "ADJ")

	w = env.do(t, http.MethodPost, "/api/v1/inventory/adjustments/"+adjustmentID+"/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/inventory/adjustments/"+adjustmentID+"/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "approved", dataMap(t, w)["status"])

	w = env.do(t, http.MethodPost, "/api/v1/inventory/adjustments/"+adjustmentID+"/process", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// One signed entry with the frozen delta of -3
	w = env.do(t, http.MethodGet,
		"/api/v1/inventory/transactions/by-reference?reference_type=stock_adjustment&reference_id="+adjustmentID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	txs, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, txs, 1)
	entry := txs[0].(map[string]interface{})
	assert.Equal(t, "-3", entry["quantity"])

	// Processing twice is rejected
	w = env.do(t, http.MethodPost, "/api/v1/inventory/adjustments/"+adjustmentID+"/process", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	resp = decode(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ERR_CONFLICT", resp.Error.Code)
}

func TestInventoryHandler_CancelBeforeApproval(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/inventory/transfers", gin.H{
		"source_warehouse_id":      uuid.New(),
		"destination_warehouse_id": uuid.New(),
		"items": []gin.H{
			{"product_id": uuid.New(), "quantity": "1"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	transferID := dataMap(t, w)["id"].(string)

	w = env.do(t, http.MethodPost, "/api/v1/inventory/transfers/"+transferID+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", dataMap(t, w)["status"])

	// A cancelled transfer cannot be submitted
	w = env.do(t, http.MethodPost, "/api/v1/inventory/transfers/"+transferID+"/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestInventoryHandler_Reconciliation(t *testing.T) {
	env := newTestEnv(t)
	productID := uuid.New()
	source := uuid.New()
	destination := uuid.New()
	env.seedStock(t, productID, source, 100)

	// seedStock writes the level directly without log entries, so the source
	// row reports drift until movements start writing the log
	w := env.do(t, http.MethodGet,
		fmt.Sprintf("/api/v1/inventory/levels/reconciliation?product_id=%s&warehouse_id=%s", productID, source), nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, w)
	assert.Equal(t, false, data["in_sync"])
	assert.Equal(t, "100", data["drift"])

	// The destination of a logged movement is fully in sync
	w = env.do(t, http.MethodPost, "/api/v1/inventory/transfer-stock", gin.H{
		"product_id":               productID,
		"source_warehouse_id":      source,
		"destination_warehouse_id": destination,
		"quantity":                 "25",
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet,
		fmt.Sprintf("/api/v1/inventory/levels/reconciliation?product_id=%s&warehouse_id=%s", productID, destination), nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = dataMap(t, w)
	assert.Equal(t, true, data["in_sync"])
}
