// Package errors defines the error kinds of a contact sync. Setup and listing
// failures abort a run; a ResourceError is recorded against one contact and
// the run carries on. The Is helpers classify either kind without a type
// switch, so a Graph 429 wrapped three times still reads as rate limited.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// New is errors.New, re-exported so callers need a single errors import.
var New = errors.New

// Sentinels matched by the typed errors below.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrRateLimited        = errors.New("rate limited")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// IsNotFound reports whether err is a missing user, mailbox or contact.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidationError reports whether err is bad input or configuration.
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsUnauthorized reports whether credentials were rejected or lack a permission.
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

// IsRateLimited reports whether Graph throttled the request.
func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }

// IsServiceUnavailable reports whether Graph failed with a 5xx.
func IsServiceUnavailable(err error) bool { return errors.Is(err, ErrServiceUnavailable) }

// ValidationError rejects a single input value.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// Is matches ErrInvalidInput.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// ConfigError reports an unusable setting, such as an unknown contact field.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// NewConfigError returns a ConfigError for component.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Is matches ErrInvalidInput.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalidInput }

// APIError is a failed Graph call. StatusCode is zero when no response arrived.
type APIError struct {
	Service    string
	StatusCode int
	Code       string // Graph error code, e.g. ErrorItemNotFound
	Message    string
	Endpoint   string
	Err        error
}

// NewAPIError returns an APIError without a cause.
func NewAPIError(service string, statusCode int, message string) *APIError {
	return &APIError{Service: service, StatusCode: statusCode, Message: message}
}

func (e *APIError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("API error from %s: %s", e.Service, msg)
	}
	return fmt.Sprintf("API error from %s (status %d): %s", e.Service, e.StatusCode, msg)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is matches the sentinel for the HTTP status.
func (e *APIError) Is(target error) bool {
	return target != nil && target == statusSentinel(e.StatusCode)
}

func statusSentinel(status int) error {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= http.StatusInternalServerError:
		return ErrServiceUnavailable
	}
	return nil
}

// AuthenticationError reports that no token credential could be built.
type AuthenticationError struct {
	Tenant  string
	Method  string // client_secret or certificate
	Message string
	Err     error
}

// NewAuthenticationError returns an AuthenticationError for tenant.
func NewAuthenticationError(tenant, method, message string, err error) *AuthenticationError {
	return &AuthenticationError{Tenant: tenant, Method: method, Message: message, Err: err}
}

func (e *AuthenticationError) Error() string {
	if e.Tenant == "" {
		return fmt.Sprintf("authentication error (%s): %s", e.Method, e.Message)
	}
	return fmt.Sprintf("authentication error for tenant %s (%s): %s", e.Tenant, e.Method, e.Message)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// Is matches ErrUnauthorized.
func (e *AuthenticationError) Is(target error) bool { return target == ErrUnauthorized }

// SyncError aborts a whole run, e.g. when a side cannot be listed.
type SyncError struct {
	Phase   string // list-directory, list-mailbox, apply
	Mailbox string
	Err     error
}

// NewSyncError returns a SyncError for the given phase.
func NewSyncError(phase, mailbox string, err error) *SyncError {
	return &SyncError{Phase: phase, Mailbox: mailbox, Err: err}
}

func (e *SyncError) Error() string {
	if e.Mailbox == "" {
		return fmt.Sprintf("sync aborted during %s: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("sync of mailbox %s aborted during %s: %v", e.Mailbox, e.Phase, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// ResourceError is one failed read or write of a contact, mailbox or message.
type ResourceError struct {
	Operation string // create, update, delete, list, send
	Resource  string // contact, directory, mailbox, mail
	ID        string
	Err       error
}

func (e *ResourceError) Error() string {
	target := e.Resource
	if e.ID != "" {
		target += " " + e.ID
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, target, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// WrapResource returns nil for a nil err and a ResourceError otherwise.
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Err: err}
}

// IOError is a failed local file operation, such as writing a report.
type IOError struct {
	Operation string // read, write, create
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// WrapIO returns nil for a nil err and an IOError otherwise.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}
