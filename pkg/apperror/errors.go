package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error and decides its HTTP status.
type Kind int

const (
	KindInvalidInput Kind = iota + 1
	KindInvalidTransition
	KindDailyLimitExceeded
	KindSlotUnavailable
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindDailyLimitExceeded:
		return "daily_limit_exceeded"
	case KindSlotUnavailable:
		return "slot_unavailable"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// HTTPStatus maps the kind to a response code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput, KindInvalidTransition, KindDailyLimitExceeded, KindSlotUnavailable:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is the application error carried from repositories and use cases to handlers
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func InvalidInput(message string) *Error {
	return New(KindInvalidInput, message)
}

func InvalidTransition(message string) *Error {
	return New(KindInvalidTransition, message)
}

func DailyLimitExceeded(limit int) *Error {
	return New(KindDailyLimitExceeded,
		fmt.Sprintf("You have reached the maximum limit of %d appointments per day.", limit))
}

func SlotUnavailable() *Error {
	return New(KindSlotUnavailable, "This time slot is already booked. Please select another time.")
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func NotFound(resource string) *Error {
	return New(KindNotFound, fmt.Sprintf("%s not found", resource))
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func Storage(err error) *Error {
	return Wrap(KindStorage, "storage failure", err)
}

// Classify passes typed errors through and wraps anything else as a storage failure
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	return Storage(err)
}

// KindOf returns the kind of the first *Error in the chain, KindStorage otherwise.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorage
}

func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
