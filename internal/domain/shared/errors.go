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

// Is reports whether target carries the same error code.
// This lets callers use errors.Is against the sentinel errors below
// even when a more specific message was attached via NewDomainError.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes used across the engine
const (
	CodeNotFound               = "NOT_FOUND"
	CodeValidation             = "VALIDATION_ERROR"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeDuplicateReturn        = "DUPLICATE_RETURN"
	CodeLotNotFound            = "LOT_NOT_FOUND"
)

// Common domain errors
var (
	ErrNotFound               = NewDomainError(CodeNotFound, "Resource not found")
	ErrValidation             = NewDomainError(CodeValidation, "Invalid input provided")
	ErrInsufficientStock      = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrInvalidStateTransition = NewDomainError(CodeInvalidStateTransition, "Operation not allowed in current state")
	ErrDuplicateReturn        = NewDomainError(CodeDuplicateReturn, "A return already exists for this sale")
	ErrLotNotFound            = NewDomainError(CodeLotNotFound, "Stock lot not found")
)

// NewValidationError creates a validation error with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}
