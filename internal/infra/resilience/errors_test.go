package resilience

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), 0},
		{"http", &HTTPError{Code: 502}, 502},
		{"wrapped http", fmt.Errorf("fetch users: %w", &HTTPError{Code: 429}), 429},
		{"non-retryable http", NonRetryable(&HTTPError{Code: 503}), 503},
		{"grpc unavailable", status.Error(codes.Unavailable, "down"), 503},
		{"grpc deadline", status.Error(codes.DeadlineExceeded, "slow"), 504},
		{"grpc exhausted", status.Error(codes.ResourceExhausted, "quota"), 429},
		{"grpc invalid", status.Error(codes.InvalidArgument, "bad"), 400},
		{"grpc unknown", status.Error(codes.Unknown, "?"), 0},
	}

	for _, tt := range tests {
		if got := StatusCode(tt.err); got != tt.expect {
			t.Errorf("%s: StatusCode = %d, want %d", tt.name, got, tt.expect)
		}
	}
}

func TestIsRetryableStatus(t *testing.T) {
	tests := []struct {
		err    error
		expect bool
	}{
		{&HTTPError{Code: 408}, true},
		{&HTTPError{Code: 429}, true},
		{&HTTPError{Code: 500}, true},
		{&HTTPError{Code: 502}, true},
		{&HTTPError{Code: 503}, true},
		{&HTTPError{Code: 504}, true},
		{&HTTPError{Code: 400}, false},
		{&HTTPError{Code: 401}, false},
		{&HTTPError{Code: 404}, false},
		{&HTTPError{Code: 501}, false},
		{errors.New("no status"), false},
		{NonRetryable(&HTTPError{Code: 503}), false},
		{status.Error(codes.Unavailable, "down"), true},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsRetryableStatus(tt.err); got != tt.expect {
			t.Errorf("IsRetryableStatus(%v) = %v, want %v", tt.err, got, tt.expect)
		}
	}
}

func TestRetryOnStatuses(t *testing.T) {
	cond := RetryOnStatuses(503)

	if !cond(&HTTPError{Code: 503}) {
		t.Error("expected 503 to be retryable")
	}
	if cond(&HTTPError{Code: 500}) {
		t.Error("expected 500 not to be retryable")
	}
	if cond(NonRetryable(&HTTPError{Code: 503})) {
		t.Error("expected marked error not to be retryable")
	}
}

func TestNonRetryable_PreservesMessage(t *testing.T) {
	base := &HTTPError{Code: 404, Body: "user not found"}
	err := NonRetryable(base)

	if err.Error() != base.Error() {
		t.Errorf("expected %q, got %q", base.Error(), err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("expected wrapped error to match base")
	}
	if NonRetryable(nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestHTTPError_Message(t *testing.T) {
	if got := (&HTTPError{Code: 503}).Error(); got != "http 503: Service Unavailable" {
		t.Errorf("unexpected message %q", got)
	}
	if got := (&HTTPError{Code: 500, Body: "oops"}).Error(); got != "http 500: oops" {
		t.Errorf("unexpected message %q", got)
	}
}
