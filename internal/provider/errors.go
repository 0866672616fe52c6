package provider

import (
	"errors"
	"fmt"

	"github.com/affistats/insights-manager/internal/entity"
)

type ErrorCode string

const (
	CodeConnection     ErrorCode = "CONNECTION_ERROR"
	CodeAuthentication ErrorCode = "AUTHENTICATION_ERROR"
	CodeTransformation ErrorCode = "TRANSFORMATION_ERROR"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"
)

// Error is the common shape for every provider failure. Recoverable tells the
// caller whether retrying the same operation can ever succeed.
type Error struct {
	Code        ErrorCode
	Provider    entity.ProviderType
	Recoverable bool
	Message     string
	Cause       error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Provider, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewConnectionError wraps network/API reachability failures and
// used-before-connected usage errors.
func NewConnectionError(p entity.ProviderType, msg string, cause error) *Error {
	return &Error{Code: CodeConnection, Provider: p, Recoverable: true, Message: msg, Cause: cause}
}

// NewAuthenticationError marks unsupported or misconfigured auth.
func NewAuthenticationError(p entity.ProviderType, msg string) *Error {
	return &Error{Code: CodeAuthentication, Provider: p, Recoverable: false, Message: msg}
}

// NewTransformationError marks structural transform failures that abort a fetch.
func NewTransformationError(p entity.ProviderType, msg string, cause error) *Error {
	return &Error{Code: CodeTransformation, Provider: p, Recoverable: true, Message: msg, Cause: cause}
}

// NewValidationError marks config/shape validation failures.
func NewValidationError(p entity.ProviderType, msg string) *Error {
	return &Error{Code: CodeValidation, Provider: p, Recoverable: false, Message: msg}
}

// IsRecoverable reports whether err is a provider error worth retrying.
func IsRecoverable(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Recoverable
	}
	return false
}

// CodeOf extracts the provider error code, empty when err is not a provider error.
func CodeOf(err error) ErrorCode {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
