package shared

// DomainError is an error raised by domain or application code. Code is a
// stable machine-readable identifier the HTTP layer maps to a status; Message
// is safe to return to API clients.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a DomainError with the given code and message
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}
