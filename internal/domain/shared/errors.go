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
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")

	// ErrTokenInvalid covers malformed, tampered and expired clarification
	// tokens alike. The customer must request a new link; there is no
	// recovery path for a bad token.
	ErrTokenInvalid = NewDomainError("TOKEN_INVALID", "Clarification link is invalid or has expired")

	// ErrValidation covers recoverable submission problems (missing freeform
	// field, out-of-range choice). The same link may be resubmitted.
	ErrValidation = NewDomainError("VALIDATION", "Submission failed validation")

	// ErrStorage marks transient persistence failures on the critical path.
	ErrStorage = NewDomainError("STORAGE", "Storage operation failed")
)
