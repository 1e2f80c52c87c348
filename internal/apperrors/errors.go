package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrInvalidPayment   = errors.New("invalid payment")
	ErrInvalidState     = errors.New("operation not allowed in current status")
	ErrResourceConflict = errors.New("storage code already occupied")
	ErrWarrantyExpired  = errors.New("warranty window expired")
	ErrNotFound         = errors.New("not found")
	ErrStorageFailure   = errors.New("storage failure")
)

// PaymentError reports the requested amount against what the order can
// accept, so the caller can explain the rejection to the end user.
type PaymentError struct {
	Requested float64
	Available float64
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("invalid payment: requested %.2f, available %.2f", e.Requested, e.Available)
}

func (e *PaymentError) Unwrap() error { return ErrInvalidPayment }

// StateError reports a status-machine violation.
type StateError struct {
	Current   string
	Requested string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot move order from %q to %q", e.Current, e.Requested)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }

// ConflictError names the code that lost an allocation race.
type ConflictError struct {
	CodeID uint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("code %d is already occupied", e.CodeID)
}

func (e *ConflictError) Unwrap() error { return ErrResourceConflict }

// Validation wraps ErrValidation with a field-level message.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound naming the missing entity.
func NotFound(entity string, id interface{}) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, entity, id)
}

// Classify passes domain errors through untouched and folds anything else
// (driver errors, rolled-back transactions) into ErrStorageFailure.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{
		ErrValidation, ErrInvalidPayment, ErrInvalidState,
		ErrResourceConflict, ErrWarrantyExpired, ErrNotFound, ErrStorageFailure,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrStorageFailure, err)
}

// HTTPStatus maps a domain error to the response code the handlers use.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidPayment):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrWarrantyExpired):
		return http.StatusConflict
	case errors.Is(err, ErrResourceConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
