package apperrors

// Error codes grouped by domain.
const (
	// Authentication and authorization
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Validation
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeWeakPassword     ErrorCode = "WEAK_PASSWORD"

	// Resources
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	CodePlanNotFound      ErrorCode = "PLAN_NOT_FOUND"
	CodeInvoiceNotFound   ErrorCode = "INVOICE_NOT_FOUND"
	CodeDashboardNotFound ErrorCode = "DASHBOARD_NOT_FOUND"
	CodeUploadNotFound    ErrorCode = "UPLOAD_NOT_FOUND"

	// Business logic
	CodeEmailAlreadyExists ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeDuplicateInvoice   ErrorCode = "DUPLICATE_INVOICE_NUMBER"

	// System
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"
	CodeProviderError ErrorCode = "PROVIDER_ERROR"
)
