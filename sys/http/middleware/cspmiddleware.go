package middleware

import (
	"github.com/gin-gonic/gin"
)

// CSPMiddleware sets Content Security Policy and other security headers.
// The policy is fully restrictive; this surface serves JSON only.
func CSPMiddleware() gin.HandlerFunc {
	csp := "default-src 'none'; " +
		"script-src 'none'; " +
		"style-src 'none'; " +
		"img-src 'none'; " +
		"font-src 'none'; " +
		"connect-src 'self'; " +
		"media-src 'none'; " +
		"object-src 'none'; " +
		"child-src 'none'; " +
		"frame-src 'none'; " +
		"worker-src 'none'; " +
		"frame-ancestors 'none'; " +
		"form-action 'none'; " +
		"base-uri 'none'; " +
		"manifest-src 'none'; " +
		"upgrade-insecure-requests; " +
		"block-all-mixed-content"

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Content-Security-Policy", csp)

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// Strict-Transport-Security (HSTS) - only set for HTTPS
		if c.Request.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		c.Next()
	}
}
