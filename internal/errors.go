package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
	ErrorTypeRateLimited  ErrorType = "RATE_LIMITED"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidPriority  ErrorCode = "INVALID_PRIORITY"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidType      ErrorCode = "INVALID_TYPE"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"

	ErrCodePolicyNotFound       ErrorCode = "POLICY_NOT_FOUND"
	ErrCodeRequirementNotFound  ErrorCode = "REQUIREMENT_NOT_FOUND"
	ErrCodeReportNotFound       ErrorCode = "REPORT_NOT_FOUND"
	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodeNotificationNotFound ErrorCode = "NOTIFICATION_NOT_FOUND"
	ErrCodeCompanyNotFound      ErrorCode = "COMPANY_NOT_FOUND"

	ErrCodeInvalidCredentials    ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken          ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired          ErrorCode = "TOKEN_EXPIRED"
	ErrCodeNotAuthenticated      ErrorCode = "NOT_AUTHENTICATED"
	ErrCodeAdminRequired         ErrorCode = "ADMIN_REQUIRED"
	ErrCodeRegistrationDisabled  ErrorCode = "REGISTRATION_DISABLED"
	ErrCodeProfileCreationFailed ErrorCode = "PROFILE_CREATION_FAILED"
	ErrCodeEmailTaken            ErrorCode = "EMAIL_TAKEN"
	ErrCodeBackendUnavailable    ErrorCode = "BACKEND_UNAVAILABLE"

	ErrCodeReportSubmissionFailed ErrorCode = "REPORT_SUBMISSION_FAILED"
	ErrCodeTooManyRequests        ErrorCode = "TOO_MANY_REQUESTS"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return strings.Join(messages, "; ")
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Type and Code so sentinel values work with errors.Is even
// after WithCause produced a copy.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithCause returns a copy carrying cause; package-level sentinels stay untouched.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewExternalError reports a failure of the hosted backend.
func NewExternalError(message string, code ErrorCode, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

var (
	ErrPolicyNotFound       = NewNotFoundError("Policy not found", ErrCodePolicyNotFound)
	ErrRequirementNotFound  = NewNotFoundError("Compliance requirement not found", ErrCodeRequirementNotFound)
	ErrReportNotFound       = NewNotFoundError("Whistleblowing report not found", ErrCodeReportNotFound)
	ErrUserNotFound         = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrNotificationNotFound = NewNotFoundError("Notification not found", ErrCodeNotificationNotFound)
	ErrCompanyNotFound      = NewNotFoundError("Company profile not found", ErrCodeCompanyNotFound)

	ErrInvalidCredentials    = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrInvalidToken          = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired          = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrNotAuthenticated      = NewUnauthorizedError("Not authenticated", ErrCodeNotAuthenticated)
	ErrAdminRequired         = NewForbiddenError("Only administrators can create new users.", ErrCodeAdminRequired)
	ErrRegistrationDisabled  = NewForbiddenError("Direct registration is disabled. Please contact an administrator to create an account.", ErrCodeRegistrationDisabled)
	ErrProfileCreationFailed = &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeProfileCreationFailed,
		Message:    "User created but failed to create profile. Please try again.",
		StatusCode: http.StatusInternalServerError,
	}
	ErrEmailTaken            = NewConflictError("Email is already registered", ErrCodeEmailTaken)
	ErrBackendUnavailable    = NewExternalError("Remote backend is not available", ErrCodeBackendUnavailable, nil)
	ErrTooManyRequests       = &AppError{
		Type:       ErrorTypeRateLimited,
		Code:       ErrCodeTooManyRequests,
		Message:    "Too many requests, slow down",
		StatusCode: http.StatusTooManyRequests,
	}
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
