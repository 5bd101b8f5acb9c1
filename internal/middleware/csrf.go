// Package middleware provides HTTP middleware for the sweet shop service.
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// CSRFConfig holds configuration for the origin check.
type CSRFConfig struct {
	// AllowedOrigins should match the CORS allowed origins.
	AllowedOrigins []string
	// CookieName is the session cookie that makes a request ambient.
	CookieName string
}

// CSRF returns middleware that validates Origin/Referer headers on
// state-changing requests that rely on the session cookie.
//
// Requests carrying an Authorization header are skipped: browsers never
// attach that header on their own, so those calls cannot be forged.
func CSRF(config CSRFConfig) gin.HandlerFunc {
	allowedSet := make(map[string]bool)
	for _, origin := range config.AllowedOrigins {
		allowedSet[normalizeOrigin(origin)] = true
	}

	return func(c *gin.Context) {
		method := c.Request.Method
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			c.Next()
			return
		}
		if c.GetHeader("Authorization") != "" {
			c.Next()
			return
		}
		if cookie, err := c.Cookie(config.CookieName); err != nil || cookie == "" {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		if origin == "" {
			if referer := c.GetHeader("Referer"); referer != "" {
				origin = extractOrigin(referer)
			}
		}
		if origin == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "CSRF validation failed: missing origin",
			})
			return
		}
		if !allowedSet[normalizeOrigin(origin)] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "CSRF validation failed: invalid origin",
			})
			return
		}
		c.Next()
	}
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(origin), "/")
}

// extractOrigin returns scheme://host of a URL.
func extractOrigin(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
