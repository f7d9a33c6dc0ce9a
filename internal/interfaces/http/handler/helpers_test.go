package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	inventoryapp "github.com/atlas-erp/backend/internal/application/inventory"
	tradeapp "github.com/atlas-erp/backend/internal/application/trade"
	"github.com/atlas-erp/backend/internal/infrastructure/persistence/memory"
	"github.com/atlas-erp/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEnv wires the handlers onto a gin engine backed by in-memory
// repositories, so tests exercise the full HTTP surface without a database.
type testEnv struct {
	router           *gin.Engine
	levelRepo        *memory.InventoryLevelRepository
	transactionRepo  *memory.InventoryTransactionRepository
	inventoryService *inventoryapp.InventoryService
	actor            uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	levelRepo := memory.NewInventoryLevelRepository()
	transactionRepo := memory.NewInventoryTransactionRepository()
	transferRepo := memory.NewStockTransferRepository()
	adjustmentRepo := memory.NewStockAdjustmentRepository()
	poRepo := memory.NewPurchaseOrderRepository()
	soRepo := memory.NewSalesOrderRepository()

	scope := inventoryapp.NewNoOpTransactionScope(
		levelRepo, transactionRepo, transferRepo, adjustmentRepo, poRepo, soRepo)

	invService := inventoryapp.NewInventoryService(
		levelRepo, transactionRepo, transferRepo, adjustmentRepo, scope, zap.NewNop())
	poService := tradeapp.NewPurchaseOrderService(poRepo, scope, zap.NewNop())
	soService := tradeapp.NewSalesOrderService(soRepo, zap.NewNop())

	router := gin.New()
	api := router.Group("/api/v1")
	NewInventoryHandler(invService).RegisterRoutes(api)
	NewPurchaseOrderHandler(poService).RegisterRoutes(api)
	NewSalesOrderHandler(soService, invService).RegisterRoutes(api)
	NewSystemHandler(nil).RegisterRoutes(api)

	return &testEnv{
		router:           router,
		levelRepo:        levelRepo,
		transactionRepo:  transactionRepo,
		inventoryService: invService,
		actor:            uuid.New(),
	}
}

// do performs a request with the test actor set and returns the recorder
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", e.actor.String())

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decode unmarshals the response body into a dto.Response
func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// dataMap returns the response data as a map
func dataMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	resp := decode(t, w)
	require.NotNil(t, resp.Data)
	m, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "response data should be an object")
	return m
}
