package ui

import (
	"errors"
	"fmt"

	"librahub/internal/domain"
)

// Error represents a frontend-friendly error with a code
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for frontend handling
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeToolNotFound       = "TOOL_NOT_FOUND"
	ErrCodeBuiltinTool        = "BUILTIN_TOOL"
	ErrCodeUnsupportedFile    = "UNSUPPORTED_FILE"
	ErrCodeNoPendingReplace   = "NO_PENDING_REPLACE"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeStoreUnavailable   = "STORE_UNAVAILABLE"
	ErrCodeOperationCancelled = "OPERATION_CANCELLED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// MapDomainError converts domain errors to Error
func MapDomainError(err error) *Error {
	if err == nil {
		return nil
	}
	var uiErr *Error
	if errors.As(err, &uiErr) {
		return uiErr
	}

	switch {
	case errors.Is(err, domain.ErrToolNotFound):
		return NewError(ErrCodeToolNotFound, "Tool not found")
	case errors.Is(err, domain.ErrBuiltinTool):
		return NewError(ErrCodeBuiltinTool, "Built-in tools cannot be changed")
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		return NewError(ErrCodeUnsupportedFile, "Please choose an HTML file")
	case errors.Is(err, domain.ErrNoPendingReplace):
		return NewError(ErrCodeNoPendingReplace, "No tool selected for replacement")
	}

	code, _ := domain.CodeFrom(err)
	switch code {
	case domain.CodeInvalidArgument:
		return NewErrorWithDetails(ErrCodeInvalidRequest, "Invalid request", err.Error())
	case domain.CodeNotFound:
		return NewErrorWithDetails(ErrCodeNotFound, "Not found", err.Error())
	case domain.CodeUnavailable:
		return NewErrorWithDetails(ErrCodeStoreUnavailable, "Storage is unavailable", err.Error())
	case domain.CodeCanceled:
		return NewError(ErrCodeOperationCancelled, "Operation cancelled")
	default:
		return NewErrorWithDetails(ErrCodeInternal, "Internal error", err.Error())
	}
}

// NewError creates a new Error with code and message
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NewErrorWithDetails creates a new Error with code, message, and details
func NewErrorWithDetails(code, message, details string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: details,
	}
}
