package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeProfileMissing ErrorType = "profile_missing"
	ErrorTypeDatabase       ErrorType = "database"
	ErrorTypeExternal       ErrorType = "external_api"
	ErrorTypeInternal       ErrorType = "internal"
	ErrorTypePermission     ErrorType = "permission"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches another AppError by type and code. An empty code on the target
// matches any code of the same type.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && (t.Code == "" || e.Code == t.Code)
	}
	return false
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

func newAt(skip int, errorType ErrorType, code, message string, internal error) *AppError {
	_, file, line, _ := runtime.Caller(skip)
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: internal,
		Source:   fmt.Sprintf("%s:%d", file, line),
		Context:  make(map[string]interface{}),
	}
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle logs an error according to its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		h.handleAppError(ctx, appErr)
	} else {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
	}
}

func (h *Handler) handleAppError(ctx context.Context, err *AppError) {
	switch err.Type {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeProfileMissing:
		h.logger.WarnContext(ctx, "Request rejected", err.LogFields()...)
	case ErrorTypePermission:
		h.logger.WarnContext(ctx, "Permission error", err.LogFields()...)
	case ErrorTypeDatabase, ErrorTypeExternal, ErrorTypeInternal:
		h.logger.ErrorContext(ctx, "Critical error", err.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", err.LogFields()...)
	}
}

// Sentinels for errors.Is checks.
var (
	ErrValidation       = &AppError{Type: ErrorTypeValidation}
	ErrMissingParameter = &AppError{Type: ErrorTypeValidation, Code: "MISSING_PARAMETER"}
	ErrNotFound         = &AppError{Type: ErrorTypeNotFound}
	ErrProfileMissing   = &AppError{Type: ErrorTypeProfileMissing, Code: "PROFILE_MISSING"}
	ErrUpstream         = &AppError{Type: ErrorTypeExternal}
	ErrStorage          = &AppError{Type: ErrorTypeDatabase}
	ErrUnauthorized     = &AppError{Type: ErrorTypePermission, Code: "UNAUTHORIZED"}
)

func NewValidationError(message string) *AppError {
	return newAt(2, ErrorTypeValidation, "VALIDATION", message, nil)
}

func NewMissingParameterError(param string) *AppError {
	return newAt(2, ErrorTypeValidation, "MISSING_PARAMETER", fmt.Sprintf("%s is required", param), nil).
		WithContext("parameter", param)
}

func NewNotFoundError(code, message string) *AppError {
	return newAt(2, ErrorTypeNotFound, code, message, nil)
}

func NewProfileMissingError() *AppError {
	return newAt(2, ErrorTypeProfileMissing, "PROFILE_MISSING", "Profile not found, setup required", nil)
}

func NewDatabaseError(err error) *AppError {
	return newAt(2, ErrorTypeDatabase, "DB_ERROR", "Database operation failed", err)
}

func NewExternalAPIError(err error, api string) *AppError {
	return newAt(2, ErrorTypeExternal, "EXTERNAL_API", fmt.Sprintf("%s API error", api), err).
		WithContext("api", api)
}

func NewUnauthorizedError(message string) *AppError {
	return newAt(2, ErrorTypePermission, "UNAUTHORIZED", message, nil)
}

func NewInternalError(err error) *AppError {
	return newAt(2, ErrorTypeInternal, "INTERNAL", "Internal server error", err)
}

// HTTPStatus maps an error to the status code reported to API callers.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound, ErrorTypeProfileMissing:
		return http.StatusNotFound
	case ErrorTypePermission:
		return http.StatusUnauthorized
	case ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to callers. Storage and
// internal failures never expose their cause.
func PublicMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return "Server error"
	}
	switch appErr.Type {
	case ErrorTypeDatabase, ErrorTypeInternal:
		return "Server error"
	default:
		return appErr.Message
	}
}
