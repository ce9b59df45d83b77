package errors

import "fmt"

// Error codes
const (
	CodeAPIError   = "API_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeSchema     = "SCHEMA_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeService    = "SERVICE_ERROR"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// APIError signals a transport-level or upstream-service failure.
type APIError struct {
	*AppError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

// NotFoundError signals that an upstream lookup yielded no subject.
type NotFoundError struct {
	*AppError
	Subject string
}

func NewNotFoundError(message, subject string) *NotFoundError {
	return &NotFoundError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeNotFound,
			StatusCode: 404,
			Context: map[string]any{
				"subject": subject,
			},
		},
		Subject: subject,
	}
}

// SchemaError signals that generated output did not conform to the
// required structured shape. Fatal for the request; never falls back.
type SchemaError struct {
	*AppError
	Violations []string
}

func NewSchemaError(message string, violations []string, cause error) *SchemaError {
	return &SchemaError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeSchema,
			StatusCode: 500,
			Context: map[string]any{
				"violations": violations,
			},
			Cause: cause,
		},
		Violations: violations,
	}
}

// ValidationError signals invalid caller input at the boundary.
type ValidationError struct {
	*AppError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}
