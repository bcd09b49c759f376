package services

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error codes surfaced to clients. Storage and unexpected failures are
// reported as ErrCodeStorage with no internal detail.
const (
	ErrCodeValidation        = "validation_error"
	ErrCodeAuthentication    = "authentication_error"
	ErrCodeAuthorization     = "authorization_error"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidState      = "invalid_state"
	ErrCodeInvalidTransition = "invalid_transition"
	ErrCodeDuplicateRequest  = "duplicate_request"
	ErrCodeAlreadyProcessed  = "already_processed"
	ErrCodeStorage           = "storage_error"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Code    string       `json:"code"`
	Status  int          `json:"-"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
		}
		return fmt.Sprintf("%s: %s", e.Code, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NewValidationError(fields ...FieldError) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Status:  http.StatusBadRequest,
		Message: "one or more fields failed validation",
		Fields:  fields,
	}
}

func NewAuthenticationError(message string) *Error {
	return &Error{Code: ErrCodeAuthentication, Status: http.StatusUnauthorized, Message: message}
}

func NewAuthorizationError(message string) *Error {
	return &Error{Code: ErrCodeAuthorization, Status: http.StatusForbidden, Message: message}
}

// NewNotFoundError covers both genuinely missing records and scope-hidden
// ones; the two are indistinguishable to the caller on purpose.
func NewNotFoundError(resource string) *Error {
	return &Error{Code: ErrCodeNotFound, Status: http.StatusNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewInvalidStateError(message string) *Error {
	return &Error{Code: ErrCodeInvalidState, Status: http.StatusBadRequest, Message: message}
}

func NewInvalidTransitionError(message string) *Error {
	return &Error{Code: ErrCodeInvalidTransition, Status: http.StatusBadRequest, Message: message}
}

func NewDuplicateRequestError() *Error {
	return &Error{Code: ErrCodeDuplicateRequest, Status: http.StatusBadRequest, Message: "a pending cancellation request already exists for this booking"}
}

func NewAlreadyProcessedError() *Error {
	return &Error{Code: ErrCodeAlreadyProcessed, Status: http.StatusBadRequest, Message: "cancellation request has already been processed"}
}

func NewStorageError(cause error) *Error {
	return &Error{
		Code:    ErrCodeStorage,
		Status:  http.StatusInternalServerError,
		Message: "request could not be processed",
		cause:   cause,
	}
}

// ValidationFromBinding converts gin binding failures into the structured
// field list, keeping every violation rather than the first.
func ValidationFromBinding(err error) *Error {
	var verrs validator.ValidationErrors
	if ok := asValidationErrors(err, &verrs); !ok {
		return NewValidationError(FieldError{Field: "body", Message: err.Error()})
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: bindingMessage(fe),
		})
	}
	return NewValidationError(fields...)
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = verrs
	return true
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "futuredate":
		return "must be a date in the future"
	case "phone":
		return "must be a valid phone number"
	case "postcode":
		return "must be a 4-digit postal code"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the %s rule", fe.Tag())
	}
}
