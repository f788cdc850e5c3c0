package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrPersistence  = errors.New("persistence failure")
	ErrNotification = errors.New("notification service failure")
	ErrInit         = errors.New("initialization failure")
)

// ValidationError rejects a mutation before any state changes.
type ValidationError struct {
	Field  string
	Reason string
}

func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

type NotFoundError struct {
	Kind string
	ID   string
}

func NotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// NotificationCause classifies failures reported by the notification service.
type NotificationCause string

const (
	CausePermissionDenied    NotificationCause = "permission_denied"
	CausePlatformUnsupported NotificationCause = "platform_unsupported"
	CauseScheduleFailed      NotificationCause = "schedule_failed"
	CauseCancelFailed        NotificationCause = "cancel_failed"
)

type NotificationError struct {
	Cause NotificationCause
	Err   error
}

func (e *NotificationError) Error() string {
	if e.Err == nil {
		return "notification: " + string(e.Cause)
	}
	return fmt.Sprintf("notification: %s: %v", e.Cause, e.Err)
}

func (e *NotificationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNotification}
	}
	return []error{ErrNotification, e.Err}
}

// InitError reports a collection that could not be restored on load.
type InitError struct {
	Collection string
	Err        error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Collection, e.Err)
}

func (e *InitError) Unwrap() []error { return []error{ErrInit, e.Err} }

// Kind maps an error onto the error taxonomy used by the last-error slot.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	// InitError wraps the repository's PersistenceError; the load failure wins.
	case errors.Is(err, ErrInit):
		return "initialization"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	case errors.Is(err, ErrNotification):
		return "notification"
	default:
		return "internal"
	}
}
