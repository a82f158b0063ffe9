// File: pkg/storage/minio/errors.go
package minio

import (
	"bucketbridge/pkg/common"
	"bucketbridge/pkg/storage"
	"errors"
	"fmt"
	"net/http"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/s3utils"
)

// Code enumerates the failure classes the MinIO adapter distinguishes
type Code int

const (
	CodeUnknown Code = iota
	CodeTransport
	// S3-protocol error response without a more specific code below
	CodeService
	CodeNoSuchKey
	CodeNoSuchBucket
	CodeBucketAlreadyExists
	CodeBucketAlreadyOwnedByYou
	CodeBucketNotEmpty
	CodeAccessDenied
	CodeInvalidAccessKeyID
	CodeSignatureDoesNotMatch
	CodeInvalidBucketName
	CodeInvalidObjectName
	CodeInvalidRange
	CodeSlowDown
	CodeInvalidArgument
	CodeCanceled
)

var codeNames = map[Code]string{
	CodeUnknown:                 "Unknown",
	CodeTransport:               "Transport",
	CodeService:                 "Service",
	CodeNoSuchKey:               "NoSuchKey",
	CodeNoSuchBucket:            "NoSuchBucket",
	CodeBucketAlreadyExists:     "BucketAlreadyExists",
	CodeBucketAlreadyOwnedByYou: "BucketAlreadyOwnedByYou",
	CodeBucketNotEmpty:          "BucketNotEmpty",
	CodeAccessDenied:            "AccessDenied",
	CodeInvalidAccessKeyID:      "InvalidAccessKeyId",
	CodeSignatureDoesNotMatch:   "SignatureDoesNotMatch",
	CodeInvalidBucketName:       "InvalidBucketName",
	CodeInvalidObjectName:       "InvalidObjectName",
	CodeInvalidRange:            "InvalidRange",
	CodeSlowDown:                "SlowDown",
	CodeInvalidArgument:         "InvalidArgument",
	CodeCanceled:                "Canceled",
}

// S3 error codes as they appear on the wire
var apiCodes = map[string]Code{
	"NoSuchKey":               CodeNoSuchKey,
	"NoSuchBucket":            CodeNoSuchBucket,
	"BucketAlreadyExists":     CodeBucketAlreadyExists,
	"BucketAlreadyOwnedByYou": CodeBucketAlreadyOwnedByYou,
	"BucketNotEmpty":          CodeBucketNotEmpty,
	"AccessDenied":            CodeAccessDenied,
	"InvalidAccessKeyId":      CodeInvalidAccessKeyID,
	"SignatureDoesNotMatch":   CodeSignatureDoesNotMatch,
	"InvalidBucketName":       CodeInvalidBucketName,
	"InvalidObjectName":       CodeInvalidObjectName,
	"KeyTooLongError":         CodeInvalidObjectName,
	"InvalidRange":            CodeInvalidRange,
	"SlowDown":                CodeSlowDown,
	"RequestTimeout":          CodeSlowDown,
	"InvalidArgument":         CodeInvalidArgument,
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error is the MinIO backend detail carried inside *storage.Error
type Error struct {
	// SDK call that failed, e.g. "StatObject"
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
	return common.MinIO
}

func (e *Error) Kind() storage.Kind {
	switch e.Code {
	case CodeNoSuchKey, CodeNoSuchBucket:
		return storage.KindNotFound
	case CodeBucketAlreadyExists, CodeBucketAlreadyOwnedByYou, CodeBucketNotEmpty:
		return storage.KindConflict
	case CodeAccessDenied:
		return storage.KindForbidden
	case CodeInvalidAccessKeyID, CodeSignatureDoesNotMatch:
		return storage.KindUnauthenticated
	case CodeInvalidBucketName, CodeInvalidObjectName, CodeInvalidRange, CodeInvalidArgument:
		return storage.KindInvalidArgument
	case CodeSlowDown:
		return storage.KindRateLimited
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
	case e.APICode != "":
		return fmt.Sprintf("%s: %s (%d): %s", e.Operation, e.APICode, e.StatusCode, e.Message)
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

	// The SDK exposes a typed ErrorResponse for S3-protocol errors
	var resp miniogo.ErrorResponse
	if errors.As(err, &resp) && (resp.Code != "" || resp.StatusCode != 0) {
		detail.APICode = resp.Code
		detail.Message = resp.Message
		detail.StatusCode = resp.StatusCode
		detail.RequestID = resp.RequestID
		if code, ok := apiCodes[resp.Code]; ok {
			detail.Code = code
		} else {
			detail.Code = CodeService
		}
		// HEAD responses carry no body, so only the status says what went wrong
		if detail.Code == CodeService && resp.StatusCode == http.StatusNotFound && resp.Key != "" {
			detail.Code = CodeNoSuchKey
		}
		return detail
	}

	detail.Code = CodeTransport
	return detail
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

// The SDK runs the same checks before sending a request but reports them as plain errors,
// which would otherwise classify as transport failures
func checkBucketName(op, apiOp, bucketName string) error {
	if err := s3utils.CheckValidBucketName(bucketName); err != nil {
		return storage.NewError(op, &Error{
			Operation: apiOp,
			Code:      CodeInvalidBucketName,
			Message:   err.Error(),
			Err:       err,
		})
	}
	return nil
}

func checkObjectName(op, apiOp, bucketName, objectName string) error {
	if err := checkBucketName(op, apiOp, bucketName); err != nil {
		return err
	}
	if err := s3utils.CheckValidObjectName(objectName); err != nil {
		return storage.NewError(op, &Error{
			Operation: apiOp,
			Code:      CodeInvalidObjectName,
			Message:   err.Error(),
			Err:       err,
		})
	}
	return nil
}
