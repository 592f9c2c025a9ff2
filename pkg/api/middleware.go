package api

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"

	echo "github.com/labstack/echo/v5"
)

const requestIDHeader = "X-Request-ID"

var alphanumericPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// requestIDMiddleware preserves a caller-supplied X-Request-ID when
// it's non-empty and alphanumeric, otherwise generates an 8-character
// lowercase-hex identifier. Every response carries the header.
func requestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			id := c.Request().Header.Get(requestIDHeader)
			if id == "" || !alphanumericPattern.MatchString(id) {
				id = generateRequestID()
			}
			c.Response().Header().Set(requestIDHeader, id)
			c.Set("request_id", id)
			return next(c)
		}
	}
}

func generateRequestID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the OS entropy source is broken;
		// there's no safe fallback string to generate a unique ID with.
		panic("requestid: failed to read random bytes: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

// securityHeaders returns middleware that sets standard security response headers.
func securityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			h := c.Response().Header()
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			return next(c)
		}
	}
}
