// Package handlers contains HTTP request handlers for the sweet shop service.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/GunarsK-portfolio/sweetshop-service/internal/middleware"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/models"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	authService  service.AuthService
	cookieHelper *CookieHelper
	tokens       service.TokenService
	logger       *slog.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService, cookieHelper *CookieHelper, tokens service.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieHelper: cookieHelper,
		tokens:       tokens,
		logger:       logger,
	}
}

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Token   string              `json:"token"`
	User    models.UserResponse `json:"user"`
}

// Register godoc
// @Summary Register a user
// @Description Create a user account with the user role and return a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondError(c, h.logger, err, "Registration failed")
		return
	}

	h.cookieHelper.SetToken(c, result.Token, h.tokens.Lifetime())
	c.JSON(http.StatusCreated, AuthResponse{
		Success: true,
		Message: "User registered successfully",
		Token:   result.Token,
		User:    result.User,
	})
}

// Login godoc
// @Summary User login
// @Description Authenticate with email and password and return a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err, "Login failed")
		return
	}

	h.cookieHelper.SetToken(c, result.Token, h.tokens.Lifetime())
	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   result.Token,
		User:    result.User,
	})
}

// Logout godoc
// @Summary User logout
// @Description Revoke the presented token and clear the session cookie
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := middleware.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		token = h.cookieHelper.GetToken(c)
	}
	h.cookieHelper.ClearToken(c)
	if token == "" {
		respondErrorMessage(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		respondError(c, h.logger, err, "Logout failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// Me godoc
// @Summary Current user
// @Description Return the user identified by the bearer token
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), middleware.DecisionFrom(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load user")
		return
	}
	c.JSON(http.StatusOK, user)
}
