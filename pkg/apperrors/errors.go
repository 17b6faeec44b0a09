package apperrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies an error class across the API.
type ErrorCode string

// AppError is the application error carried from services up to the HTTP layer.
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(&alias{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

// Is wraps the standard errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As wraps the standard errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Predefined errors.
var (
	// Authentication
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)
	ErrUnauthorized       = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrInvalidToken       = New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)

	// Users
	ErrUserNotFound       = New(CodeUserNotFound, "User not found", http.StatusNotFound)
	ErrEmailAlreadyExists = New(CodeEmailAlreadyExists, "Email already exists", http.StatusConflict)
	ErrWeakPassword       = New(CodeWeakPassword, "Password must be at least 8 characters", http.StatusBadRequest)

	// Validation
	ErrValidationFailed = New(CodeValidationFailed, "Validation failed", http.StatusBadRequest)

	// Plans and subscriptions
	ErrPlanNotFound = New(CodePlanNotFound, "User plan not found", http.StatusNotFound)

	// Invoices
	ErrInvoiceNotFound    = New(CodeInvoiceNotFound, "Invoice not found", http.StatusNotFound)
	ErrDuplicateInvoice   = New(CodeDuplicateInvoice, "Invoice number already exists", http.StatusConflict)
	ErrDashboardNotFound  = New(CodeDashboardNotFound, "Dashboard not found", http.StatusNotFound)
	ErrUploadNotFound     = New(CodeUploadNotFound, "Upload not found", http.StatusNotFound)
	ErrFileTooLarge       = New("FILE_TOO_LARGE", "File too large", http.StatusBadRequest)
	ErrInvalidFileType    = New("INVALID_FILE_TYPE", "Invalid file type", http.StatusBadRequest)
	ErrStorageLimit       = New("STORAGE_LIMIT_EXCEEDED", "Storage limit exceeded", http.StatusForbidden)
	ErrInvalidBillingType = New("INVALID_BILLING_TYPE", "Billing type must be monthly or annual", http.StatusBadRequest)
	ErrUnknownPlanTier    = New("UNKNOWN_PLAN_TIER", "Preapproval plan is not mapped to a tier", http.StatusBadRequest)
)

// Helpers for errors with details.

func ValidationError(details interface{}) *AppError {
	return ErrValidationFailed.WithDetails(details)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

// DatabaseError hides the driver error behind a generic message; the wrapped
// error still reaches the log through AppError.Err.
func DatabaseError(err error) *AppError {
	return Wrap(err, CodeDatabaseError, "Database error", http.StatusInternalServerError)
}

// ProviderError carries the upstream payment-provider response body in Details
// so admins can debug failed calls from the error payload alone.
func ProviderError(status int, body string) *AppError {
	return New(CodeProviderError, "Payment provider request failed", http.StatusBadGateway).
		WithDetails(map[string]interface{}{"provider_status": status, "provider_body": body})
}

func NewConflictError(message string) *AppError {
	return New(CodeEmailAlreadyExists, message, http.StatusConflict)
}

func NewInternalError(message string) *AppError {
	return New(CodeInternalError, message, http.StatusInternalServerError)
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func NewForbiddenError(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func NewNotFoundError(message string) *AppError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}
