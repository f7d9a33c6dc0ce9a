package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeValidationRequired, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeBusinessRule, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// Anything not in the map defaults to 500
		{"SOMETHING_UNMAPPED", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode_DomainCodes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"INVENTORY_LEVEL_NOT_FOUND", ErrCodeNotFound},
		{"TRANSACTION_NOT_FOUND", ErrCodeNotFound},
		{"STOCK_TRANSFER_NOT_FOUND", ErrCodeNotFound},
		{"STOCK_ADJUSTMENT_NOT_FOUND", ErrCodeNotFound},
		{"PURCHASE_ORDER_NOT_FOUND", ErrCodeNotFound},
		{"SALES_ORDER_NOT_FOUND", ErrCodeNotFound},
		{"OPTIMISTIC_LOCK_FAILED", ErrCodeConcurrencyConflict},
		{"ALLOCATION_INCOMPLETE", ErrCodeInsufficientStock},
		{"INSUFFICIENT_STOCK", ErrCodeInsufficientStock},
		{"ALREADY_PROCESSED", ErrCodeConflict},
		{"ALREADY_SHIPPED", ErrCodeInvalidState},
		{"ALREADY_ALLOCATED", ErrCodeInvalidState},
		{"SAME_WAREHOUSE", ErrCodeInvalidInput},
		{"EXCEEDS_REMAINING", ErrCodeBusinessRule},
		{"NO_ITEMS", ErrCodeInvalidState},
		{"NO_WAREHOUSE", ErrCodeInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestNormalizeErrorCode_ConventionFallbacks(t *testing.T) {
	// Codes not enumerated in the mapping still normalize by naming
	// convention: *_NOT_FOUND, INVALID_*, ALREADY_*.
	tests := []struct {
		input    string
		expected string
	}{
		{"WAREHOUSE_NOT_FOUND", ErrCodeNotFound},
		{"REFERENCE_NOT_FOUND", ErrCodeNotFound},
		{"INVALID_QUANTITY", ErrCodeInvalidInput},
		{"INVALID_REFERENCE", ErrCodeInvalidInput},
		{"INVALID_THRESHOLD", ErrCodeInvalidInput},
		{"ALREADY_COMPLETED", ErrCodeConflict},
		{"ALREADY_CANCELLED", ErrCodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestNormalizeErrorCode_PassThrough(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Already-normalized codes are untouched
		{ErrCodeNotFound, ErrCodeNotFound},
		{ErrCodeInsufficientStock, ErrCodeInsufficientStock},
		{ErrCodeConcurrencyConflict, ErrCodeConcurrencyConflict},
		// Codes matching no mapping and no convention pass through
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
		{"DRIFT_DETECTED", "DRIFT_DETECTED"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestNormalizeThenStatus(t *testing.T) {
	// The handler pipeline normalizes the domain code before resolving the
	// HTTP status. Exercise the pairs the inventory endpoints produce.
	tests := []struct {
		domainCode string
		status     int
	}{
		{"INVENTORY_LEVEL_NOT_FOUND", http.StatusNotFound},
		{"INSUFFICIENT_STOCK", http.StatusUnprocessableEntity},
		{"ALLOCATION_INCOMPLETE", http.StatusUnprocessableEntity},
		{"OPTIMISTIC_LOCK_FAILED", http.StatusConflict},
		{"INVALID_QUANTITY", http.StatusBadRequest},
		{"SAME_WAREHOUSE", http.StatusBadRequest},
		{"ALREADY_PROCESSED", http.StatusConflict},
		{"EXCEEDS_REMAINING", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.domainCode, func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(NormalizeErrorCode(tt.domainCode)))
		})
	}
}

func TestErrorCodeConstants(t *testing.T) {
	// Every defined code must resolve to a status
	allCodes := []string{
		ErrCodeUnknown,
		ErrCodeInternal,
		ErrCodeValidation,
		ErrCodeValidationRequired,
		ErrCodeValidationFormat,
		ErrCodeValidationRange,
		ErrCodeValidationLength,
		ErrCodeUnauthorized,
		ErrCodeForbidden,
		ErrCodeTokenExpired,
		ErrCodeTokenInvalid,
		ErrCodeNotFound,
		ErrCodeAlreadyExists,
		ErrCodeConflict,
		ErrCodeConcurrencyConflict,
		ErrCodeInvalidState,
		ErrCodeBusinessRule,
		ErrCodeInsufficientStock,
		ErrCodeInsufficientBalance,
		ErrCodeBadRequest,
		ErrCodeInvalidInput,
		ErrCodeInvalidJSON,
		ErrCodeRateLimited,
		ErrCodeTooManyRequests,
	}

	for _, code := range allCodes {
		t.Run(code, func(t *testing.T) {
			status, ok := ErrorCodeHTTPStatus[code]
			assert.True(t, ok, "code %s missing from ErrorCodeHTTPStatus", code)
			assert.Greater(t, status, 0)
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("INVENTORY_LEVEL_NOT_FOUND", "no ledger row for product in warehouse")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "no ledger row for product in warehouse", resp.Error.Message)
	assert.NotZero(t, resp.Error.Timestamp)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeInsufficientStock, "insufficient stock for allocation", "req-123-456")

	assert.False(t, resp.Success)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInsufficientStock, resp.Error.Code)
	assert.Equal(t, "req-123-456", resp.Error.RequestID)
	assert.NotZero(t, resp.Error.Timestamp)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "product_id", Message: "Invalid UUID format"},
		{Field: "quantity", Message: "This field is required"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-789", details)

	assert.False(t, resp.Success)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "Request validation failed", resp.Error.Message)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "product_id", resp.Error.Details[0].Field)
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeConcurrencyConflict, "inventory level was modified concurrently", "req-lock-1")

	data, err := json.Marshal(resp)
	assert.NoError(t, err)

	var decoded Response
	err = json.Unmarshal(data, &decoded)
	assert.NoError(t, err)

	assert.False(t, decoded.Success)
	assert.NotNil(t, decoded.Error)
	assert.Equal(t, ErrCodeConcurrencyConflict, decoded.Error.Code)
	assert.Equal(t, "inventory level was modified concurrently", decoded.Error.Message)
	assert.Equal(t, "req-lock-1", decoded.Error.RequestID)
}

func TestErrorResponseTimestamp(t *testing.T) {
	before := time.Now()
	resp := NewErrorResponse(ErrCodeInternal, "server error")
	after := time.Now()

	assert.True(t, !resp.Error.Timestamp.Before(before))
	assert.True(t, !resp.Error.Timestamp.After(after))
}

func TestNewSuccessResponse(t *testing.T) {
	data := map[string]string{"document_number": "TRF000001"}
	resp := NewSuccessResponse(data)

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
	assert.Nil(t, resp.Meta)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		total         int64
		page          int
		pageSize      int
		expectedPages int
		expectedSize  int
	}{
		{100, 1, 10, 10, 10},
		{101, 1, 10, 11, 10},
		{0, 1, 10, 0, 10},
		{9, 1, 10, 1, 10},
		{11, 1, 10, 2, 10},
		// Non-positive page size falls back to the default of 20
		{100, 1, 0, 5, 20},
		{100, 1, -1, 5, 20},
	}

	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta(nil, tt.total, tt.page, tt.pageSize)
		assert.True(t, resp.Success)
		assert.Equal(t, tt.total, resp.Meta.Total)
		assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages)
		assert.Equal(t, tt.expectedSize, resp.Meta.PageSize)
	}
}
