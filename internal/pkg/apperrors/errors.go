package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Student and registration errors
var (
	ErrStudentNotFound        = errors.New("student not found")
	ErrMatriculeNotApproved   = errors.New("matricule is not on the approved list")
	ErrMatriculeAlreadyUsed   = errors.New("matricule has already been used")
	ErrMatricNumberExists     = errors.New("matriculation number already registered")
	ErrHierarchyMismatch      = errors.New("department does not belong to the selected faculty and institution")
)

// Recipient and data-integration errors.
//
// ErrRecipientConfig marks a structurally invalid recipient configuration
// (unknown selection type, missing required parameter). ErrIntegration marks
// a failed interaction with the student directory or the cache; per-record
// data-quality problems are never surfaced through it.
var (
	ErrRecipientConfig = errors.New("invalid recipient configuration")
	ErrIntegration     = errors.New("student data integration failed")
)

// Hierarchy errors
var (
	ErrInstitutionNotFound     = errors.New("institution not found")
	ErrFacultyNotFound         = errors.New("faculty not found")
	ErrDepartmentNotFound      = errors.New("department not found")
	ErrProgramNotFound         = errors.New("academic program not found")
	ErrLevelNotFound           = errors.New("level not found")
	ErrDepartmentAlreadyExists = errors.New("department with this name or code already exists")
	ErrFacultyAlreadyExists    = errors.New("faculty with this name already exists")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
