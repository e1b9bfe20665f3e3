package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientStock is used when a delta would drive stock below zero
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeOverFulfillment is used when a tag out exceeds the remaining item quantity
	ErrCodeOverFulfillment = "ERR_OVER_FULFILLMENT"
	// ErrCodeDuplicateTag is used when a tag ID has already been consumed
	ErrCodeDuplicateTag = "ERR_DUPLICATE_TAG"
	// ErrCodeInconsistentBOM is used when a bill of materials references a missing material
	ErrCodeInconsistentBOM = "ERR_INCONSISTENT_BOM"
	// ErrCodeRecalculationFailed is used when requirement recalculation fails
	ErrCodeRecalculationFailed = "ERR_RECALCULATION_FAILED"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation: http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:        http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:   http.StatusUnprocessableEntity,
	ErrCodeOverFulfillment:     http.StatusUnprocessableEntity,
	ErrCodeDuplicateTag:        http.StatusConflict,
	ErrCodeInconsistentBOM:     http.StatusUnprocessableEntity,
	ErrCodeRecalculationFailed: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the wire format. Domain
// validation codes (INVALID_*) fall through to the prefix check in
// NormalizeErrorCode.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"ALREADY_EXISTS":          ErrCodeAlreadyExists,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"INVALID_STATE":           ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT":    ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":      ErrCodeInsufficientStock,
	"OVER_FULFILLMENT":        ErrCodeOverFulfillment,
	"DUPLICATE_TAG":           ErrCodeDuplicateTag,
	"DUPLICATE_MATERIAL":      ErrCodeBusinessRule,
	"ITEM_FULFILLED":          ErrCodeBusinessRule,
	"ORDER_FULFILLED":         ErrCodeBusinessRule,
	"CONFIG_IN_USE":           ErrCodeBusinessRule,
	"INCONSISTENT_BOM":        ErrCodeInconsistentBOM,
	"UNKNOWN_MATERIAL":        ErrCodeInconsistentBOM,
	"UNKNOWN_PRODUCT_CONFIG":  ErrCodeBusinessRule,
	"INACTIVE_PRODUCT_CONFIG": ErrCodeBusinessRule,
	"RECALCULATION_FAILED":    ErrCodeRecalculationFailed,
	"DUPLICATE_ORDER_NUMBER":  ErrCodeAlreadyExists,
	"VALIDATION_ERROR":        ErrCodeValidation,
	"BAD_REQUEST":             ErrCodeBadRequest,
	"INTERNAL_ERROR":          ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized wire
// format. INVALID_* codes not listed explicitly map to validation errors; a
// code already in the new format or unknown is returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	if len(code) > 8 && code[:8] == "INVALID_" {
		return ErrCodeValidation
	}
	return code
}
