// Package hikvision is a client for the Hikvision access-control OpenAPI.
package hikvision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
)

// Vendor error codes returned in the errorCode field of every response.
const (
	CodeSuccess             = "0"
	CodeInvalidParameter    = "OPEN000001"
	CodeTokenExpired        = "OPEN000002"
	CodeTokenInvalid        = "OPEN000003"
	CodeRateLimited         = "OPEN000004"
	CodeNoPermission        = "OPEN000005"
	CodeResourceNotFound    = "OPEN000006"
	CodeDeviceOffline       = "OPEN000007"
	CodeDeviceTimeout       = "OPEN000008"
	CodeInternalError       = "OPEN000009"
	CodeServiceUnavailable  = "OPEN000010"
	CodeDuplicateResource   = "OPEN000011"
	CodeInvalidAppKey       = "OPEN000012"
	CodeSignatureMismatch   = "OPEN000013"
	CodeDeviceBusy          = "OPEN000014"
	CodePersonLimitExceeded = "OPEN000015"
)

// ErrorCodes maps vendor codes to human readable messages.
var ErrorCodes = map[string]string{
	CodeSuccess:             "Success",
	CodeInvalidParameter:    "Invalid request parameter",
	CodeTokenExpired:        "Access token expired",
	CodeTokenInvalid:        "Access token is invalid",
	CodeRateLimited:         "Request frequency exceeds the limit",
	CodeNoPermission:        "No permission for this resource",
	CodeResourceNotFound:    "Resource not found",
	CodeDeviceOffline:       "Device is offline",
	CodeDeviceTimeout:       "Device did not respond in time",
	CodeInternalError:       "Platform internal error",
	CodeServiceUnavailable:  "Service temporarily unavailable",
	CodeDuplicateResource:   "Resource already exists",
	CodeInvalidAppKey:       "AppKey or SecretKey is invalid",
	CodeSignatureMismatch:   "Request signature mismatch",
	CodeDeviceBusy:          "Device is busy",
	CodePersonLimitExceeded: "Person capacity of the device is exceeded",
}

var retryableCodes = map[string]struct{}{
	CodeTokenExpired:       {},
	CodeTokenInvalid:       {},
	CodeRateLimited:        {},
	CodeDeviceOffline:      {},
	CodeDeviceTimeout:      {},
	CodeInternalError:      {},
	CodeServiceUnavailable: {},
	CodeDeviceBusy:         {},
}

// Message returns the message for a vendor code.
func Message(code string) string {
	if msg, ok := ErrorCodes[code]; ok {
		return msg
	}
	return fmt.Sprintf("Unknown error (code %s)", code)
}

// APIError is a failed OpenAPI call.
type APIError struct {
	Code       string
	Message    string
	HTTPStatus int
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("hikvision: http %d: %s", e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("hikvision: %s: %s", e.Code, e.Message)
}

// NewAPIError builds an APIError, filling the message from the code table when the
// server did not send one.
func NewAPIError(code, message string, status int) *APIError {
	if message == "" {
		message = Message(code)
	}
	return &APIError{Code: code, Message: message, HTTPStatus: status}
}

// IsTokenError reports whether err means the cached access token must be dropped.
func IsTokenError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == CodeTokenExpired || apiErr.Code == CodeTokenInvalid || apiErr.HTTPStatus == http.StatusUnauthorized
}

// IsRetryable reports whether another attempt may succeed.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if _, ok := retryableCodes[apiErr.Code]; ok {
			return true
		}
		if apiErr.HTTPStatus == http.StatusUnauthorized && apiErr.Code == "" {
			return true
		}
		return apiErr.HTTPStatus == http.StatusTooManyRequests || apiErr.HTTPStatus >= http.StatusInternalServerError
	}

	// Only dial, read and write failures and timeouts are transient. A bad
	// URL or unsupported scheme fails the same way every time.
	var opErr *net.OpError
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout() || errors.As(urlErr.Err, &opErr) ||
			errors.Is(urlErr.Err, io.EOF) || errors.Is(urlErr.Err, io.ErrUnexpectedEOF)
	}
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
