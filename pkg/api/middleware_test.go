package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddlewareGeneratesIDWhenMissing(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := requestIDMiddleware()(func(c *echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, handler(c))

	id := rec.Header().Get(requestIDHeader)
	assert.Len(t, id, 8)
	assert.Regexp(t, "^[0-9a-f]{8}$", id)
}

func TestRequestIDMiddlewarePreservesValidIncomingID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc123XY")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := requestIDMiddleware()(func(c *echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, handler(c))

	assert.Equal(t, "abc123XY", rec.Header().Get(requestIDHeader))
}

func TestRequestIDMiddlewareRejectsNonAlphanumericIncomingID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "bad id!")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := requestIDMiddleware()(func(c *echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, handler(c))

	id := rec.Header().Get(requestIDHeader)
	assert.NotEqual(t, "bad id!", id)
	assert.Len(t, id, 8)
}
