package handlers

import (
	"time"

	"github.com/GunarsK-portfolio/sweetshop-service/internal/config"
	"github.com/gin-gonic/gin"
)

// TokenCookie is the httpOnly cookie read by the navigation gate.
const TokenCookie = "token"

// CookieHelper manages the session cookie.
type CookieHelper struct {
	config config.CookieConfig
}

// NewCookieHelper creates a new cookie helper with the given configuration.
func NewCookieHelper(cfg config.CookieConfig) *CookieHelper {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &CookieHelper{config: cfg}
}

// SetToken stores the token cookie for the given lifetime.
func (h *CookieHelper) SetToken(c *gin.Context, token string, lifetime time.Duration) {
	h.setCookie(c, TokenCookie, token, int(lifetime.Seconds()))
}

// ClearToken removes the token cookie.
func (h *CookieHelper) ClearToken(c *gin.Context) {
	h.setCookie(c, TokenCookie, "", -1)
}

// GetToken retrieves the token from the cookie.
func (h *CookieHelper) GetToken(c *gin.Context) string {
	token, err := c.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return token
}

func (h *CookieHelper) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(h.config.SameSite)
	c.SetCookie(
		name,
		value,
		maxAge,
		h.config.Path,
		h.config.Domain,
		h.config.Secure,
		true, // httpOnly - always true for auth cookies
	)
}
