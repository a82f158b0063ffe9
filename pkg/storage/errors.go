// File: pkg/storage/errors.go
package storage

import (
	"bucketbridge/pkg/common"
	"context"
	"errors"
	"fmt"
)

// Kind is the closed set of client-level failure classes every backend maps into
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindForbidden
	KindUnauthenticated
	KindConflict
	KindPreconditionFailed
	KindInvalidArgument
	KindRateLimited
	KindUnsupported
	KindTransport
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindConflict:
		return "conflict"
	case KindPreconditionFailed:
		return "precondition_failed"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindRateLimited:
		return "rate_limited"
	case KindUnsupported:
		return "unsupported"
	case KindTransport:
		return "transport"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// BackendError is the per-backend detail carried by an *Error.
// Each adapter package provides exactly one implementation wrapping its own closed code set.
type BackendError interface {
	error
	Provider() common.Provider
	// Kind classifies the backend failure into the common taxonomy
	Kind() Kind
}

// Error is the single failure type returned by every Storage operation.
// Detail always holds the error of the backend that raised it.
type Error struct {
	Op       string
	Provider common.Provider
	Kind     Kind
	Detail   BackendError
}

// NewError wraps a backend detail, deriving the provider and kind from it
func NewError(op string, detail BackendError) *Error {
	return &Error{
		Op:       op,
		Provider: detail.Provider(),
		Kind:     detail.Kind(),
		Detail:   detail,
	}
}

func (e *Error) Error() string {
	if e.Detail == nil {
		return fmt.Sprintf("%s %s: [%s]", e.Provider, e.Op, e.Kind)
	}
	return fmt.Sprintf("%s %s: [%s] %v", e.Provider, e.Op, e.Kind, e.Detail)
}

// Unwrap exposes the backend detail (and through it the SDK error) to errors.Is / errors.As
func (e *Error) Unwrap() error {
	if e.Detail == nil {
		return nil
	}
	return e.Detail
}

// ArgumentError is the detail of a request rejected by shared validation before any
// backend operation ran, such as a negative page bound or a malformed byte range
type ArgumentError struct {
	Backend common.Provider
	Err     error
}

func (e *ArgumentError) Error() string {
	return e.Err.Error()
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

func (e *ArgumentError) Provider() common.Provider {
	return e.Backend
}

func (e *ArgumentError) Kind() Kind {
	return KindInvalidArgument
}

// NewArgumentError wraps a validation failure so it classifies as KindInvalidArgument
func NewArgumentError(op string, provider common.Provider, err error) *Error {
	return NewError(op, &ArgumentError{Backend: provider, Err: err})
}

// KindOf extracts the Kind from any error in the chain
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

// IsUnsupported reports whether the backend rejected the request as structurally unsupported,
// before any network call was made
func IsUnsupported(err error) bool {
	return KindOf(err) == KindUnsupported
}

func IsForbidden(err error) bool {
	return KindOf(err) == KindForbidden
}

func IsUnauthenticated(err error) bool {
	return KindOf(err) == KindUnauthenticated
}

func IsInvalidArgument(err error) bool {
	return KindOf(err) == KindInvalidArgument
}

// IsTransport reports whether the failure happened below the service layer (no parseable
// service error), which is usually the only class worth retrying
func IsTransport(err error) bool {
	return KindOf(err) == KindTransport
}

// ContextKind maps context cancellation and deadlines to KindCanceled
func ContextKind(err error) (Kind, bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled, true
	}
	return KindUnknown, false
}

// KindFromStatus maps an HTTP status code returned by a service into the common taxonomy
func KindFromStatus(status int) Kind {
	switch status {
	case 400, 416:
		return KindInvalidArgument
	case 401:
		return KindUnauthenticated
	case 403:
		return KindForbidden
	case 404:
		return KindNotFound
	case 409:
		return KindConflict
	case 304, 412:
		return KindPreconditionFailed
	case 429, 503:
		return KindRateLimited
	case 501:
		return KindUnsupported
	default:
		return KindUnknown
	}
}
