package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCSRF(t *testing.T) {
	gin.SetMode(gin.TestMode)

	guarded := CSRF(CSRFConfig{
		AllowedOrigins: []string{"http://localhost:3000", "https://shop.example.com/"},
		CookieName:     "token",
	})

	type request struct {
		method  string
		origin  string
		referer string
		bearer  bool
		cookie  bool
	}

	tests := []struct {
		name       string
		req        request
		wantStatus int
	}{
		// Safe methods are never checked
		{name: "GET with cookie and foreign origin", req: request{method: http.MethodGet, origin: "https://evil.com", cookie: true}, wantStatus: http.StatusOK},
		{name: "HEAD with cookie", req: request{method: http.MethodHead, cookie: true}, wantStatus: http.StatusOK},
		{name: "OPTIONS preflight", req: request{method: http.MethodOptions, origin: "https://evil.com", cookie: true}, wantStatus: http.StatusOK},

		// Cookie-carrying writes need a trusted origin
		{name: "purchase from shop origin", req: request{method: http.MethodPost, origin: "https://shop.example.com", cookie: true}, wantStatus: http.StatusOK},
		{name: "origin compared case-insensitively", req: request{method: http.MethodPost, origin: "HTTP://LOCALHOST:3000/", cookie: true}, wantStatus: http.StatusOK},
		{name: "referer fallback", req: request{method: http.MethodPut, referer: "http://localhost:3000/admin/sweets?id=1", cookie: true}, wantStatus: http.StatusOK},
		{name: "foreign origin", req: request{method: http.MethodPost, origin: "https://evil.com", cookie: true}, wantStatus: http.StatusForbidden},
		{name: "foreign referer", req: request{method: http.MethodDelete, referer: "https://evil.com/x", cookie: true}, wantStatus: http.StatusForbidden},
		{name: "different port", req: request{method: http.MethodPost, origin: "http://localhost:4000", cookie: true}, wantStatus: http.StatusForbidden},
		{name: "opaque null origin", req: request{method: http.MethodPost, origin: "null", cookie: true}, wantStatus: http.StatusForbidden},
		{name: "no origin or referer", req: request{method: http.MethodPost, cookie: true}, wantStatus: http.StatusForbidden},

		// Requests that cannot be forged by a browser
		{name: "bearer header skips check", req: request{method: http.MethodPost, origin: "https://evil.com", bearer: true, cookie: true}, wantStatus: http.StatusOK},
		{name: "no session cookie skips check", req: request{method: http.MethodPost, origin: "https://evil.com"}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			_, r := gin.CreateTestContext(w)
			r.Use(guarded)
			r.Any("/api/sweets", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(tt.req.method, "/api/sweets", nil)
			if tt.req.origin != "" {
				req.Header.Set("Origin", tt.req.origin)
			}
			if tt.req.referer != "" {
				req.Header.Set("Referer", tt.req.referer)
			}
			if tt.req.bearer {
				req.Header.Set("Authorization", "Bearer abc")
			}
			if tt.req.cookie {
				req.AddCookie(&http.Cookie{Name: "token", Value: "session"})
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestExtractOrigin(t *testing.T) {
	tests := map[string]string{
		"http://localhost:3000/dashboard?tab=1": "http://localhost:3000",
		"https://shop.example.com":              "https://shop.example.com",
		"shop.example.com/path":                 "",
		"null":                                  "",
		"":                                      "",
	}
	for raw, want := range tests {
		if got := extractOrigin(raw); got != want {
			t.Errorf("extractOrigin(%q) = %q, want %q", raw, got, want)
		}
	}
}
