package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(1, 2)

	// The burst admits two immediate requests, the third is rejected.
	assert.True(t, limiter.Allow("client"))
	assert.True(t, limiter.Allow("client"))
	assert.False(t, limiter.Allow("client"))

	// Keys are independent buckets.
	assert.True(t, limiter.Allow("other"))
}

func TestRateLimiterReset(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	require.True(t, limiter.Allow("client"))
	require.False(t, limiter.Allow("client"))

	limiter.Reset()
	assert.True(t, limiter.Allow("client"))
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()
	limiter := NewRateLimiter(1, 1)

	handler := limiter.Middleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	call := func() (int, error) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		err := handler(c)
		if err != nil {
			return 0, err
		}
		return rec.Code, nil
	}

	code, err := call()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)

	_, err = call()
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
}
