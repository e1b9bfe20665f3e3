package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Delta would drive stock below zero")
	ErrOverFulfillment     = NewDomainError("OVER_FULFILLMENT", "Tag out exceeds remaining order item quantity")
	ErrDuplicateTag        = NewDomainError("DUPLICATE_TAG", "Tag has already been consumed")
	ErrInconsistentBOM     = NewDomainError("INCONSISTENT_BOM", "Material requirement references a missing raw material")
	ErrRecalculationFailed = NewDomainError("RECALCULATION_FAILED", "Requirement recalculation failed")
)
