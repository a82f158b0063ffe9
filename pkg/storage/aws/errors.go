// File: pkg/storage/aws/errors.go
package aws

import (
	"bucketbridge/pkg/common"
	"bucketbridge/pkg/storage"
	"errors"
	"fmt"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

// Code enumerates the failure classes the S3 adapter distinguishes
type Code int

const (
	CodeUnknown Code = iota
	// No parseable service error: connection, TLS, body read failures
	CodeTransport
	// A well-formed S3 error response without a more specific code below
	CodeService
	CodeNoSuchKey
	CodeNoSuchBucket
	// HEAD requests carry no body, so a missing key or bucket surfaces as a bare NotFound
	CodeNotFound
	CodeBucketAlreadyExists
	CodeBucketAlreadyOwnedByYou
	CodeBucketNotEmpty
	CodeAccessDenied
	CodeInvalidRange
	CodePreconditionFailed
	CodeInvalidObjectState
	CodeSlowDown
	CodeInvalidArgument
	// S3 copies are restricted to a single bucket by this adapter
	CodeCrossBucketCopy
	CodeCanceled
)

var codeNames = map[Code]string{
	CodeUnknown:                 "Unknown",
	CodeTransport:               "Transport",
	CodeService:                 "Service",
	CodeNoSuchKey:               "NoSuchKey",
	CodeNoSuchBucket:            "NoSuchBucket",
	CodeNotFound:                "NotFound",
	CodeBucketAlreadyExists:     "BucketAlreadyExists",
	CodeBucketAlreadyOwnedByYou: "BucketAlreadyOwnedByYou",
	CodeBucketNotEmpty:          "BucketNotEmpty",
	CodeAccessDenied:            "AccessDenied",
	CodeInvalidRange:            "InvalidRange",
	CodePreconditionFailed:      "PreconditionFailed",
	CodeInvalidObjectState:      "InvalidObjectState",
	CodeSlowDown:                "SlowDown",
	CodeInvalidArgument:         "InvalidArgument",
	CodeCrossBucketCopy:         "CrossBucketCopy",
	CodeCanceled:                "Canceled",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error is the S3 backend detail carried inside *storage.Error
type Error struct {
	// S3 API operation that failed, e.g. "HeadObject"
	Operation  string
	Code       Code
	APICode    string
	Message    string
	StatusCode int
	RequestID  string
	Err        error
}

var _ storage.BackendError = (*Error)(nil)

func (e *Error) Provider() common.Provider {
	return common.AWS
}

func (e *Error) Kind() storage.Kind {
	switch e.Code {
	case CodeNoSuchKey, CodeNoSuchBucket, CodeNotFound:
		return storage.KindNotFound
	case CodeBucketAlreadyExists, CodeBucketAlreadyOwnedByYou, CodeBucketNotEmpty, CodeInvalidObjectState:
		return storage.KindConflict
	case CodeAccessDenied:
		return storage.KindForbidden
	case CodeInvalidRange, CodeInvalidArgument:
		return storage.KindInvalidArgument
	case CodePreconditionFailed:
		return storage.KindPreconditionFailed
	case CodeSlowDown:
		return storage.KindRateLimited
	case CodeCrossBucketCopy:
		return storage.KindUnsupported
	case CodeTransport:
		return storage.KindTransport
	case CodeCanceled:
		return storage.KindCanceled
	default:
		return storage.KindFromStatus(e.StatusCode)
	}
}

func (e *Error) Error() string {
	switch {
	case e.Code == CodeTransport || e.Code == CodeCanceled:
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Code, e.Err)
	case e.APICode != "" && e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Operation, e.APICode, e.Message)
	case e.APICode != "":
		return fmt.Sprintf("%s: %s", e.Operation, e.APICode)
	case e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Operation, e.Code, e.Message)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Code, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Maps an SDK error returned by apiOp into the common taxonomy, tagged with the contract operation
func mapError(op, apiOp string, err error) error {
	if err == nil {
		return nil
	}
	return storage.NewError(op, classify(apiOp, err))
}

func classify(apiOp string, err error) *Error {
	detail := &Error{Operation: apiOp, Err: err}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		detail.StatusCode = respErr.HTTPStatusCode()
		detail.RequestID = respErr.ServiceRequestID()
	}

	if _, ok := storage.ContextKind(err); ok {
		detail.Code = CodeCanceled
		return detail
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		detail.APICode = apiErr.ErrorCode()
		detail.Message = apiErr.ErrorMessage()
		detail.Code = codeFromAPI(detail.APICode)
		return detail
	}

	detail.Code = CodeTransport
	return detail
}

func codeFromAPI(apiCode string) Code {
	switch apiCode {
	case "NoSuchKey":
		return CodeNoSuchKey
	case "NoSuchBucket":
		return CodeNoSuchBucket
	case "NotFound":
		return CodeNotFound
	case "BucketAlreadyExists":
		return CodeBucketAlreadyExists
	case "BucketAlreadyOwnedByYou":
		return CodeBucketAlreadyOwnedByYou
	case "BucketNotEmpty":
		return CodeBucketNotEmpty
	case "AccessDenied", "Forbidden", "AllAccessDisabled":
		return CodeAccessDenied
	case "InvalidRange":
		return CodeInvalidRange
	case "PreconditionFailed":
		return CodePreconditionFailed
	case "InvalidObjectState", "ObjectNotInActiveTierError":
		return CodeInvalidObjectState
	case "SlowDown", "ServiceUnavailable":
		return CodeSlowDown
	case "InvalidArgument", "InvalidBucketName", "KeyTooLongError":
		return CodeInvalidArgument
	default:
		return CodeService
	}
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
