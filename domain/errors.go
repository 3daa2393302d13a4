package domain

import "fmt"

// ErrorCode classifies domain errors
type ErrorCode string

const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrCodeConfig       ErrorCode = "CONFIG_ERROR"
	ErrCodeAnalysis     ErrorCode = "ANALYSIS_ERROR"
	ErrCodeSource       ErrorCode = "SOURCE_ERROR"
)

// DomainError is an error with a stable code and an optional cause
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return &DomainError{Code: ErrCodeInvalidInput, Message: message, Cause: cause}
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return &DomainError{Code: ErrCodeFileNotFound, Message: fmt.Sprintf("file not found: %s", path), Cause: cause}
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return &DomainError{Code: ErrCodeConfig, Message: message, Cause: cause}
}

// NewAnalysisError creates an analysis error
func NewAnalysisError(message string, cause error) error {
	return &DomainError{Code: ErrCodeAnalysis, Message: message, Cause: cause}
}

// NewSourceError creates a schema or content acquisition error
func NewSourceError(message string, cause error) error {
	return &DomainError{Code: ErrCodeSource, Message: message, Cause: cause}
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// BoolValue returns the value of p, or def when p is nil
func BoolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
