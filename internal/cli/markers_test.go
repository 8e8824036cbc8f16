package cli

import (
	"testing"

	"github.com/vietddude/console/internal/core/pagination"
)

func TestFormatMarkers(t *testing.T) {
	tests := []struct {
		req    pagination.Request
		expect string
	}{
		{pagination.Request{TotalItems: 100, PageSize: 10, CurrentPage: 5, SiblingCount: 1}, "1 … 4 [5] 6 … 10"},
		{pagination.Request{TotalItems: 100, PageSize: 10, CurrentPage: 1, SiblingCount: 1}, "[1] 2 3 … 10"},
		{pagination.Request{TotalItems: 30, PageSize: 10, CurrentPage: 3, SiblingCount: 1}, "1 2 [3]"},
		{pagination.Request{TotalItems: 5, PageSize: 10, CurrentPage: 1, SiblingCount: 1}, "(single page)"},
	}

	for _, tt := range tests {
		if got := formatMarkers(tt.req.Markers(), tt.req.Window().Page); got != tt.expect {
			t.Errorf("formatMarkers(%+v) = %q, want %q", tt.req, got, tt.expect)
		}
	}
}
