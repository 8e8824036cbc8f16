package resilience

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RetryableStatuses are the transient HTTP statuses retried by the default policy.
var RetryableStatuses = []int{
	http.StatusRequestTimeout,      // 408
	http.StatusTooManyRequests,     // 429
	http.StatusInternalServerError, // 500
	http.StatusBadGateway,          // 502
	http.StatusServiceUnavailable,  // 503
	http.StatusGatewayTimeout,      // 504
}

// HTTPError is a failed HTTP exchange carrying its status code.
type HTTPError struct {
	Code int
	Body string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http %d: %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}

// StatusCode returns the HTTP status of the failed exchange.
func (e *HTTPError) StatusCode() int {
	return e.Code
}

type statusCoder interface {
	StatusCode() int
}

// StatusCode extracts an HTTP status code from err.
// gRPC statuses are mapped to their HTTP equivalents. Errors without a status yield 0.
func StatusCode(err error) int {
	if err == nil {
		return 0
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	if s, ok := status.FromError(err); ok {
		return grpcToHTTP(s.Code())
	}
	return 0
}

func grpcToHTTP(c codes.Code) int {
	switch c {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Internal, codes.DataLoss:
		return http.StatusInternalServerError
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return 0
	}
}

// IsRetryableStatus reports whether err carries one of RetryableStatuses.
// Errors marked with NonRetryable are never retried.
func IsRetryableStatus(err error) bool {
	if err == nil || IsNonRetryable(err) {
		return false
	}
	code := StatusCode(err)
	for _, s := range RetryableStatuses {
		if code == s {
			return true
		}
	}
	return false
}

// RetryOnStatuses builds a retry condition for an explicit set of statuses.
func RetryOnStatuses(statuses ...int) func(error) bool {
	set := make(map[int]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return func(err error) bool {
		if err == nil || IsNonRetryable(err) {
			return false
		}
		_, ok := set[StatusCode(err)]
		return ok
	}
}

// NonRetryableError wraps errors that should not be retried.
type NonRetryableError struct {
	Err error
}

func (e *NonRetryableError) Error() string {
	return e.Err.Error()
}

func (e *NonRetryableError) Unwrap() error {
	return e.Err
}

// NonRetryable marks err so that status-based conditions never retry it.
func NonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &NonRetryableError{Err: err}
}

// IsNonRetryable reports whether err was marked with NonRetryable.
func IsNonRetryable(err error) bool {
	var nre *NonRetryableError
	return errors.As(err, &nre)
}
