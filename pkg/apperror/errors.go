package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the checkout engine's propagation policy.
type Kind string

const (
	// KindValidation is bad input; recoverable, no side effect was performed.
	KindValidation Kind = "validation"
	// KindState is a sequencing fault (double submit, already completed);
	// always reported, never retried automatically.
	KindState Kind = "state"
	// KindPrerequisite blocks the operation until the user resolves it
	// externally (e.g. no open shift).
	KindPrerequisite Kind = "prerequisite"
	// KindCapture is a card/mobile capture failure; retriable.
	KindCapture Kind = "capture"
	// KindPersistence is a ledger or cart-storage failure.
	KindPersistence Kind = "persistence"
	// KindHardware is informational (printer disconnected); never blocks.
	KindHardware Kind = "hardware"
	// KindReconciliation means a compensating action itself failed and
	// manual intervention is required. Never auto-retried.
	KindReconciliation Kind = "reconciliation"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrTokenExpired       = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// Checkout engine errors. Handlers map these straight to responses and the
// completion pipeline branches on Kind, so they are shared sentinels.
var (
	ErrAlreadyProcessing = &AppError{Code: http.StatusConflict, Kind: KindState, Message: "A completion is already in progress for this sale"}
	ErrAlreadyCompleted  = &AppError{Code: http.StatusConflict, Kind: KindState, Message: "This sale has already been completed"}
	ErrSessionCompleted  = &AppError{Code: http.StatusConflict, Kind: KindState, Message: "Cart session is already completed"}

	ErrNoActiveShift = &AppError{Code: http.StatusPreconditionFailed, Kind: KindPrerequisite, Message: "No active shift found for cashier"}
	ErrShiftRequired = &AppError{Code: http.StatusPreconditionFailed, Kind: KindPrerequisite, Message: "An open shift is required before selling"}

	ErrWeightRequired = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindValidation, Message: "A positive weight is required for weighed items"}
	ErrItemNotFound   = &AppError{Code: http.StatusNotFound, Kind: KindValidation, Message: "Cart item not found"}

	ErrPaymentMethodNotImplemented = &AppError{Code: http.StatusNotImplemented, Kind: KindValidation, Message: "Payment method is not supported for completion"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewFieldError creates a validation error for a single named field.
func NewFieldError(field, message string) *AppError {
	return NewValidationError([]FieldError{{Field: field, Message: message}})
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindState,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: message,
	}
}

// NewCaptureError wraps a card-terminal failure. Retriable by re-entering
// capture.
func NewCaptureError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Kind:    KindCapture,
		Message: message,
	}
}

// NewPersistenceError wraps a ledger/cart-storage failure.
func NewPersistenceError(message string) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindPersistence,
		Message: message,
	}
}

// NewReconciliationError is raised when a compensating void fails after a
// transaction record was already written. Deliberately loud.
func NewReconciliationError(message string) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindReconciliation,
		Message: message,
	}
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
