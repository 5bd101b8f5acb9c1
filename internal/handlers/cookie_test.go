package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GunarsK-portfolio/sweetshop-service/internal/config"
	"github.com/gin-gonic/gin"
)

func TestSetToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		cookieConfig config.CookieConfig
		wantSecure   bool
		wantSameSite http.SameSite
		wantDomain   string // Go http strips leading dot from domain per RFC 6265
		wantPath     string
	}{
		{
			name: "development config",
			cookieConfig: config.CookieConfig{
				Domain:   "",
				Secure:   false,
				SameSite: http.SameSiteLaxMode,
			},
			wantSecure:   false,
			wantSameSite: http.SameSiteLaxMode,
			wantDomain:   "",
			wantPath:     "/",
		},
		{
			name: "production config",
			cookieConfig: config.CookieConfig{
				Domain:   ".sweetshop.example.com",
				Secure:   true,
				SameSite: http.SameSiteLaxMode,
				Path:     "/",
			},
			wantSecure:   true,
			wantSameSite: http.SameSiteLaxMode,
			wantDomain:   "sweetshop.example.com", // Leading dot stripped by http package
			wantPath:     "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			helper := NewCookieHelper(tt.cookieConfig)
			helper.SetToken(c, "token123", 7*24*time.Hour)

			cookies := w.Result().Cookies()
			if len(cookies) != 1 {
				t.Fatalf("expected 1 cookie, got %d", len(cookies))
			}

			cookie := cookies[0]
			if cookie.Name != TokenCookie {
				t.Errorf("cookie name = %s, want %s", cookie.Name, TokenCookie)
			}
			if cookie.Value != "token123" {
				t.Errorf("token value = %s, want token123", cookie.Value)
			}
			if !cookie.HttpOnly {
				t.Error("token should be HttpOnly")
			}
			if cookie.Secure != tt.wantSecure {
				t.Errorf("token Secure = %v, want %v", cookie.Secure, tt.wantSecure)
			}
			if cookie.SameSite != tt.wantSameSite {
				t.Errorf("token SameSite = %v, want %v", cookie.SameSite, tt.wantSameSite)
			}
			if cookie.Path != tt.wantPath {
				t.Errorf("token Path = %s, want %s", cookie.Path, tt.wantPath)
			}
			if cookie.Domain != tt.wantDomain {
				t.Errorf("token Domain = %s, want %s", cookie.Domain, tt.wantDomain)
			}
			if cookie.MaxAge != 7*24*60*60 {
				t.Errorf("token MaxAge = %d, want seven days", cookie.MaxAge)
			}
		})
	}
}

func TestClearToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	helper := NewCookieHelper(config.CookieConfig{Path: "/"})
	helper.ClearToken(c)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge != -1 {
		t.Errorf("Cookie %s should have MaxAge=-1, got %d", cookies[0].Name, cookies[0].MaxAge)
	}
}

func TestGetToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: TokenCookie, Value: "test_token"})

	helper := NewCookieHelper(config.CookieConfig{})
	if token := helper.GetToken(c); token != "test_token" {
		t.Errorf("GetToken() = %s, want test_token", token)
	}
}

func TestGetToken_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	helper := NewCookieHelper(config.CookieConfig{})
	if token := helper.GetToken(c); token != "" {
		t.Errorf("GetToken() = %s, want empty string", token)
	}
}
