package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is matched by every *NotFoundError
	ErrNotFound = errors.New("not found")
	// ErrSettlementConflict is returned when a shift close lost a serialization race and may be retried
	ErrSettlementConflict = errors.New("settlement conflict")
	// ErrMissingBatch is returned when a report is requested and the session holds no batch
	ErrMissingBatch = errors.New("no settlement batch available, close the shift first")
)

// ValidationReason identifies why a request was rejected
type ValidationReason string

const (
	ReasonEmptySelection ValidationReason = "EmptySelection"
	ReasonNoProducts     ValidationReason = "NoProducts"
	ReasonEmptyName      ValidationReason = "EmptyName"
	ReasonInvalidPrice   ValidationReason = "InvalidPrice"
)

// ValidationError is a recoverable rejection of the caller's input
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

// NewValidationError creates a ValidationError
func NewValidationError(reason ValidationReason, message string) *ValidationError {
	return &ValidationError{Reason: reason, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundReason identifies which lookup failed
type NotFoundReason string

const (
	ReasonPendingOrderExpected NotFoundReason = "PendingOrderExpected"
	ReasonOrderNotFound        NotFoundReason = "OrderNotFound"
	ReasonProductNotFound      NotFoundReason = "ProductNotFound"
)

// NotFoundError reports an unknown id or an entity in the wrong state
type NotFoundError struct {
	Reason NotFoundReason
	ID     int64
}

// NewNotFoundError creates a NotFoundError
func NewNotFoundError(reason NotFoundReason, id int64) *NotFoundError {
	return &NotFoundError{Reason: reason, ID: id}
}

func (e *NotFoundError) Error() string {
	switch e.Reason {
	case ReasonPendingOrderExpected:
		return fmt.Sprintf("order %d not found or not pending", e.ID)
	case ReasonProductNotFound:
		return fmt.Sprintf("product %d not found", e.ID)
	default:
		return fmt.Sprintf("order %d not found", e.ID)
	}
}

// Is makes errors.Is(err, ErrNotFound) true for any NotFoundError
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// HasValidationReason reports whether err is a ValidationError with the given reason
func HasValidationReason(err error, reason ValidationReason) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr) && vErr.Reason == reason
}

// HasNotFoundReason reports whether err is a NotFoundError with the given reason
func HasNotFoundReason(err error, reason NotFoundReason) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr) && nfErr.Reason == reason
}
