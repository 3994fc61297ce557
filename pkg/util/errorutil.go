package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors. Component and Operation carry
// the structured context logged at the boundary; only Code, Message and
// Details cross to the client.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Component  string
	Operation  string
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// In attaches the originating component and operation for boundary logging.
func (e *DomainError) In(component, operation string) *DomainError {
	e.Component = component
	e.Operation = operation
	return e
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationFailed reports request schema violations.
func NewValidationFailed(details map[string]any) *DomainError {
	return NewDomainError("VALIDATION_FAILED", "request validation failed", http.StatusBadRequest, details)
}

// NewUnauthorized reports a failed authentication.
func NewUnauthorized(message string) *DomainError {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

// NewAccountNotActivated reports a login against a non-loggable account state.
func NewAccountNotActivated() *DomainError {
	return NewDomainError("ACCOUNT_NOT_ACTIVATED", "account is not activated", http.StatusUnauthorized, nil)
}

// NewForbidden reports an ownership or permission failure.
func NewForbidden(message string) *DomainError {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

// NewNotFound reports a missing or soft-deleted entity.
func NewNotFound(resource string) *DomainError {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

// NewConflict reports a uniqueness or state conflict.
func NewConflict(message string) *DomainError {
	return NewDomainError("CONFLICT", message, http.StatusConflict, nil)
}

// NewPersistenceFailure wraps a document-store failure. Never retried.
func NewPersistenceFailure(operation string, err error) *DomainError {
	de := NewDomainError("PERSISTENCE_FAILED", "storage operation failed", http.StatusInternalServerError, nil)
	de.Operation = operation
	de.Err = err
	return de
}

// NewDeliveryFailure wraps an outbound mail failure; the triggering flow
// fails as a whole.
func NewDeliveryFailure(operation string, err error) *DomainError {
	de := NewDomainError("DELIVERY_FAILED", "message delivery failed", http.StatusBadGateway, nil)
	de.Operation = operation
	de.Err = err
	return de
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *DomainError {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource")
	}
	return NewInternalError(err)
}
