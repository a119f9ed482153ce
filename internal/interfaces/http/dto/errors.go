package dto

import "net/http"

// General error codes used by the HTTP layer itself
const (
	ErrCodeInternal   = "INTERNAL"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNotFound   = "NOT_FOUND"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back to 500 so a new domain error is never
// silently reported as a client mistake.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	// Missing resources
	"NOT_FOUND":      http.StatusNotFound,
	"LINE_NOT_FOUND": http.StatusNotFound,

	// Conflicts: optimistic-concurrency failures and locked-state violations
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"PO_NUMBER_CONFLICT":   http.StatusConflict,
	"SKU_CONFLICT":         http.StatusConflict,
	"PO_LOCKED":            http.StatusConflict,
	"PO_NOT_LOCKED":        http.StatusConflict,

	// State-machine violations
	"INVALID_STATE": http.StatusUnprocessableEntity,

	// Client input problems
	"INVALID_INPUT":         http.StatusBadRequest,
	"INVALID_QUANTITY":      http.StatusBadRequest,
	"INVALID_BASIS":         http.StatusBadRequest,
	"INVALID_COST_METHOD":   http.StatusBadRequest,
	"INVALID_AMOUNT":        http.StatusBadRequest,
	"INVALID_PO_NUMBER":     http.StatusBadRequest,
	"INVALID_SOURCE":        http.StatusBadRequest,
	"INVALID_SOURCE_CODE":   http.StatusBadRequest,
	"INVALID_SOURCE_NAME":   http.StatusBadRequest,
	"INVALID_VARIANT":       http.StatusBadRequest,
	"INVALID_SKU":           http.StatusBadRequest,
	"INVALID_GRADE":         http.StatusBadRequest,
	"INVALID_REASON":        http.StatusBadRequest,
	"INVALID_STATUS":        http.StatusBadRequest,
	"INVALID_CONFIG":        http.StatusBadRequest,
	"INVALID_FIELD":         http.StatusBadRequest,
	"INVALID_DATA_TYPE":     http.StatusBadRequest,
	"INVALID_VALUE":         http.StatusBadRequest,
	"UNKNOWN_ATTRIBUTE":     http.StatusBadRequest,
	"MISSING_VALUE":         http.StatusBadRequest,
	"MISSING_MANUAL_COST":   http.StatusBadRequest,
	"PRODUCT_MISMATCH":      http.StatusBadRequest,
	"INSUFFICIENT_QUANTITY": http.StatusBadRequest,
	"PRICE_UNAVAILABLE":     http.StatusBadRequest,

	// Broken deployments, not broken requests
	"MISSING_SEED_DATA": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
