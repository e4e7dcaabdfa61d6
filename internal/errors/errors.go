package errors

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrValidation is returned when input fails field validation.
	ErrValidation = errors.New("validation failed")
	// ErrConflict is returned when a uniqueness rule would be violated.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is returned when a record does not exist or is not visible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when the caller could not be authenticated.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the access policy denies the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrStore is returned when the underlying store fails.
	ErrStore = errors.New("store failure")
)

// Error is a domain error of one kind with a caller-facing message.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotFound builds an ErrNotFound error.
func NotFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// Conflict builds an ErrConflict error.
func Conflict(message string) error {
	return &Error{Kind: ErrConflict, Message: message}
}

// Forbidden builds an ErrForbidden error.
func Forbidden(message string) error {
	return &Error{Kind: ErrForbidden, Message: message}
}

// Store wraps a driver failure. The cause is kept for logging only.
func Store(op string, err error) error {
	return &Error{Kind: ErrStore, Message: op + ": " + err.Error(), Err: err}
}

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field level validation failures.
type ValidationError struct {
	Fields []FieldError
}

// Validation builds a ValidationError for a single field.
func Validation(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// Add records a failure for field.
func (v *ValidationError) Add(field, message string) {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: message})
}

// Err returns v when it holds failures and nil otherwise.
func (v *ValidationError) Err() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// AuthReason tells why authentication failed.
type AuthReason string

const (
	ReasonMissing            AuthReason = "missing"
	ReasonExpired            AuthReason = "expired"
	ReasonMalformed          AuthReason = "malformed"
	ReasonSignatureMismatch  AuthReason = "signature_mismatch"
	ReasonUserNotFound       AuthReason = "user_not_found"
	ReasonRevoked            AuthReason = "revoked"
	ReasonInvalidCredentials AuthReason = "invalid_credentials"
)

var authMessages = map[AuthReason]string{
	ReasonMissing:            "access token required",
	ReasonExpired:            "token expired",
	ReasonMalformed:          "invalid token",
	ReasonSignatureMismatch:  "invalid token signature",
	ReasonUserNotFound:       "user not found",
	ReasonRevoked:            "token revoked",
	ReasonInvalidCredentials: "invalid username or password",
}

var authCodes = map[AuthReason]string{
	ReasonMissing:            "TOKEN_MISSING",
	ReasonExpired:            "TOKEN_EXPIRED",
	ReasonMalformed:          "TOKEN_MALFORMED",
	ReasonSignatureMismatch:  "TOKEN_SIGNATURE_INVALID",
	ReasonUserNotFound:       "USER_NOT_FOUND",
	ReasonRevoked:            "TOKEN_REVOKED",
	ReasonInvalidCredentials: "INVALID_CREDENTIALS",
}

// AuthError is an ErrUnauthorized failure with its reason.
type AuthError struct {
	Reason AuthReason
	Err    error
}

// Unauthorized builds an AuthError.
func Unauthorized(reason AuthReason) *AuthError {
	return &AuthError{Reason: reason}
}

func (e *AuthError) Error() string {
	if msg, ok := authMessages[e.Reason]; ok {
		return msg
	}
	return ErrUnauthorized.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    []FieldError
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Store failures and
// unknown errors are reported without detail.
func MapErrorToHTTP(err error) *HTTPError {
	var (
		verr *ValidationError
		aerr *AuthError
	)
	switch {
	case errors.As(err, &verr):
		httpErr := NewHTTPError(http.StatusBadRequest, verr.Error(), "VALIDATION_ERROR")
		httpErr.Details = verr.Fields
		return httpErr
	case errors.As(err, &aerr):
		code, ok := authCodes[aerr.Reason]
		if !ok {
			code = "UNAUTHORIZED"
		}
		return NewHTTPError(http.StatusUnauthorized, aerr.Error(), code)
	case errors.Is(err, ErrStore):
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "CONFLICT")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
