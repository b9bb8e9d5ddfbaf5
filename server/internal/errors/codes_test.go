package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceErrorMessage(t *testing.T) {
	err := InvalidArgument("text is required")
	assert.Equal(t, "[INVALID_ARGUMENT] text is required", err.Error())

	wrapped := UpstreamFailed("summarization failed", fmt.Errorf("connection refused"))
	assert.Equal(t, "[UPSTREAM_FAILED] summarization failed: connection refused", wrapped.Error())
	assert.EqualError(t, wrapped.Unwrap(), "connection refused")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err      *ServiceError
		expected int
	}{
		{Unauthorized("no token"), http.StatusUnauthorized},
		{RateLimitExceeded("slow down"), http.StatusTooManyRequests},
		{InvalidArgument("bad input"), http.StatusBadRequest},
		{ServiceUnavailable("no summarizer"), http.StatusServiceUnavailable},
		{UpstreamFailed("provider down", nil), http.StatusBadGateway},
		{Internal("boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.HTTPStatus())
		})
	}
}

func TestIsCode(t *testing.T) {
	err := Unauthorized("no token")
	assert.True(t, IsCode(err, ErrCodeUnauthorized))
	assert.False(t, IsCode(err, ErrCodeInternal))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrCodeUnauthorized))
}

func TestGetCodeFromError(t *testing.T) {
	assert.Equal(t, ErrCodeInvalidArgument, GetCodeFromError(InvalidArgument("x"), ErrCodeInternal))
	assert.Equal(t, ErrCodeInternal, GetCodeFromError(fmt.Errorf("plain"), ErrCodeInternal))
}
