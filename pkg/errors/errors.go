package errors

import (
	"fmt"
	"net/http"
)

// StandardError represents a standardized error response
type StandardError struct {
	Code    string `json:"error"`   // Error code/type (e.g., "InvalidRequest", "NotConfigured")
	Message string `json:"message"` // Human-readable error message
	Details string `json:"details"` // Additional details (field name, upstream status, etc.)
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case "InvalidRequest", "ValidationError":
		return http.StatusBadRequest
	case "ItemNotFound", "ResourceNotFound":
		return http.StatusNotFound
	case "UpstreamError", "DecodeError":
		return http.StatusBadGateway
	case "NotConfigured", "ServiceUnavailable":
		return http.StatusServiceUnavailable
	case "StorageError", "InternalError":
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewStandardError creates a new StandardError
func NewStandardError(errorCode, message, details string) *StandardError {
	return &StandardError{
		Code:    errorCode,
		Message: message,
		Details: details,
	}
}

func NewInvalidRequest(message, details string) *StandardError {
	return NewStandardError("InvalidRequest", message, details)
}

func NewValidationError(message, field string) *StandardError {
	return NewStandardError("ValidationError", message, fmt.Sprintf("Field: %s", field))
}

func NewItemNotFound(itemID string) *StandardError {
	return NewStandardError("ItemNotFound", "item not found", fmt.Sprintf("Item ID: %s", itemID))
}

func NewUpstreamError(resource string, err error) *StandardError {
	return NewStandardError("UpstreamError", "Unable to reach the server. Please try again.",
		fmt.Sprintf("Resource: %s, Cause: %s", resource, errString(err)))
}

func NewDecodeError(resource string, err error) *StandardError {
	return NewStandardError("DecodeError", "Unexpected response from server.",
		fmt.Sprintf("Resource: %s, Cause: %s", resource, errString(err)))
}

func NewNotConfigured(resource string) *StandardError {
	return NewStandardError("NotConfigured", "Menu is being set up. Check back soon!",
		fmt.Sprintf("Resource: %s", resource))
}

func NewStorageError(operation string, err error) *StandardError {
	return NewStandardError("StorageError", fmt.Sprintf("storage operation failed: %s", operation), errString(err))
}

func NewInternalError(message string, err error) *StandardError {
	return NewStandardError("InternalError", message, errString(err))
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
