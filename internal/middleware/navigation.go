package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NavigationGate redirects page navigation without a session cookie to
// redirectTo. It only checks that the cookie is present; API routes must
// still be authorized by the Guard.
func NavigationGate(cookieName, redirectTo string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, redirectTo)
			c.Abort()
			return
		}
		c.Next()
	}
}
