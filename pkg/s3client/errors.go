package s3client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
)

// Errors returned while publishing reports
var (
	ErrBucketNotFound     = errors.New("report bucket not found")
	ErrReportNotFound     = errors.New("report object not found")
	ErrInvalidCredentials = errors.New("invalid report store credentials")
	ErrAccessDenied       = errors.New("access to report store denied")
)

var (
	notFoundCodes = map[string]bool{"NoSuchBucket": true, "NoSuchKey": true, "NotFound": true}
	authCodes     = map[string]bool{
		"AccessDenied":                 true,
		"InvalidAccessKeyId":           true,
		"SignatureDoesNotMatch":        true,
		"AuthorizationHeaderMalformed": true,
	}
)

// IsNotFoundError reports whether err means the bucket or a report key is
// missing. ObjectExists relies on it to tell "not uploaded yet" from a failure.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrBucketNotFound) || errors.Is(err, ErrReportNotFound) {
		return true
	}
	if code := ErrorCode(err); code != "" {
		return notFoundCodes[code]
	}
	return containsAny(err, "not found", "no such")
}

// IsAuthError reports whether err is a credential or permission failure.
// Such failures are never retried.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrAccessDenied) {
		return true
	}
	if code := ErrorCode(err); code != "" {
		return authCodes[code]
	}
	return containsAny(err, "access denied", "unauthorized", "invalid credential", "permission denied")
}

// FormatError renders err for the command line, naming the S3 code and the
// report key when the store returned them.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return err.Error()
	}
	if resp.Key != "" {
		return fmt.Sprintf("S3 error: %s (code: %s, key: %s)", resp.Message, resp.Code, resp.Key)
	}
	return fmt.Sprintf("S3 error: %s (code: %s)", resp.Message, resp.Code)
}

// ErrorCode returns the S3 error code carried by err, or "".
func ErrorCode(err error) string {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code
	}
	return ""
}

func containsAny(err error, substrs ...string) bool {
	msg := strings.ToLower(err.Error())
	for _, s := range substrs {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
