// File: pkg/storage/gcp/errors.go
package gcp

import (
	"bucketbridge/pkg/common"
	"bucketbridge/pkg/storage"
	"errors"
	"fmt"
	"net/http"
	"strings"

	gcpstorage "cloud.google.com/go/storage"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
)

// Code enumerates the failure classes the GCS adapter distinguishes
type Code int

const (
	CodeUnknown Code = iota
	// HTTP-level failure without a parseable service error
	CodeTransport
	// Well-formed error response from Cloud Storage; see Error.Items
	CodeService
	CodeObjectNotExist
	CodeBucketNotExist
	// URL signing failed locally, usually for lack of a signing identity
	CodeSignedURL
	CodeInvalidArgument
	// Cloud Monitoring has no usage sample for the bucket yet
	CodeMetricsNotFound
	CodeCanceled
)

func (c Code) String() string {
	switch c {
	case CodeTransport:
		return "Transport"
	case CodeService:
		return "Service"
	case CodeObjectNotExist:
		return "ObjectNotExist"
	case CodeBucketNotExist:
		return "BucketNotExist"
	case CodeSignedURL:
		return "SignedURL"
	case CodeInvalidArgument:
		return "InvalidArgument"
	case CodeMetricsNotFound:
		return "MetricsNotFound"
	case CodeCanceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}

// ErrorItem is one entry of a Cloud Storage error response
type ErrorItem struct {
	Reason  string
	Message string
}

// Error is the GCS backend detail carried inside *storage.Error
type Error struct {
	// SDK call that failed, e.g. "ObjectHandle.Attrs"
	Operation  string
	Code       Code
	StatusCode int
	Message    string
	Items      []ErrorItem
	Err        error
}

var _ storage.BackendError = (*Error)(nil)

func (e *Error) Provider() common.Provider {
	return common.GCP
}

func (e *Error) Kind() storage.Kind {
	switch e.Code {
	case CodeObjectNotExist, CodeBucketNotExist, CodeMetricsNotFound:
		return storage.KindNotFound
	case CodeSignedURL:
		return storage.KindUnauthenticated
	case CodeInvalidArgument:
		return storage.KindInvalidArgument
	case CodeTransport:
		return storage.KindTransport
	case CodeCanceled:
		return storage.KindCanceled
	case CodeService:
		if kind := storage.KindFromStatus(e.StatusCode); kind != storage.KindUnknown {
			return kind
		}
		return kindFromReasons(e.Items)
	default:
		return storage.KindUnknown
	}
}

func kindFromReasons(items []ErrorItem) storage.Kind {
	for _, item := range items {
		switch item.Reason {
		case "notFound":
			return storage.KindNotFound
		case "conflict":
			return storage.KindConflict
		case "forbidden":
			return storage.KindForbidden
		case "required", "invalid", "invalidArgument":
			return storage.KindInvalidArgument
		case "conditionNotMet":
			return storage.KindPreconditionFailed
		case "rateLimitExceeded", "userRateLimitExceeded":
			return storage.KindRateLimited
		case "authError":
			return storage.KindUnauthenticated
		}
	}
	return storage.KindUnknown
}

func (e *Error) Error() string {
	switch {
	case e.Code == CodeService && len(e.Items) > 0:
		reasons := make([]string, 0, len(e.Items))
		for _, item := range e.Items {
			reasons = append(reasons, fmt.Sprintf("%s: %s", item.Reason, item.Message))
		}
		return fmt.Sprintf("%s: %s (%d): %s", e.Operation, e.Code, e.StatusCode, strings.Join(reasons, "; "))
	case e.Code == CodeService:
		return fmt.Sprintf("%s: %s (%d): %s", e.Operation, e.Code, e.StatusCode, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Operation, e.Code, e.Message)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Code, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func mapError(op, apiOp string, err error) error {
	if err == nil {
		return nil
	}
	return storage.NewError(op, classify(apiOp, err))
}

func classify(apiOp string, err error) *Error {
	detail := &Error{Operation: apiOp, Err: err}

	if _, ok := storage.ContextKind(err); ok {
		detail.Code = CodeCanceled
		return detail
	}

	switch {
	case errors.Is(err, gcpstorage.ErrObjectNotExist):
		detail.Code = CodeObjectNotExist
		detail.StatusCode = http.StatusNotFound
		return detail
	case errors.Is(err, gcpstorage.ErrBucketNotExist):
		detail.Code = CodeBucketNotExist
		detail.StatusCode = http.StatusNotFound
		return detail
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		detail.Code = CodeService
		detail.StatusCode = apiErr.Code
		detail.Message = apiErr.Message
		for _, item := range apiErr.Errors {
			detail.Items = append(detail.Items, ErrorItem{Reason: item.Reason, Message: item.Message})
		}
		return detail
	}

	// Cloud Monitoring speaks gRPC; its failures arrive as gax API errors
	var gaxErr *apierror.APIError
	if errors.As(err, &gaxErr) {
		detail.Code = CodeService
		detail.StatusCode = gaxErr.HTTPCode()
		if detail.StatusCode <= 0 && gaxErr.GRPCStatus() != nil {
			detail.StatusCode = statusFromGRPC(gaxErr.GRPCStatus().Code())
			detail.Message = gaxErr.GRPCStatus().Message()
		}
		if reason := gaxErr.Reason(); reason != "" {
			detail.Items = append(detail.Items, ErrorItem{Reason: reason, Message: detail.Message})
		}
		return detail
	}

	detail.Code = CodeTransport
	return detail
}

func statusFromGRPC(code codes.Code) int {
	switch code {
	case codes.InvalidArgument, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.FailedPrecondition:
		return http.StatusPreconditionFailed
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return 0
	}
}

func signingError(op string, err error) error {
	return storage.NewError(op, &Error{
		Operation: "BucketHandle.SignedURL",
		Code:      CodeSignedURL,
		Err:       err,
	})
}

// Rejects a request at the adapter boundary; no network call has been made
func invalidArgument(op, apiOp string, err error) error {
	return storage.NewError(op, &Error{
		Operation: apiOp,
		Code:      CodeInvalidArgument,
		Message:   err.Error(),
		Err:       err,
	})
}
