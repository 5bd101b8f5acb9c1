package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/GunarsK-portfolio/sweetshop-service/internal/service"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

func respondErrorMessage(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondError maps a service error to its status code. Only internal
// errors are logged; fallback is the message shown for them.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		respondErrorMessage(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrUnauthorized):
		respondErrorMessage(c, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrInsufficientStock):
		respondErrorMessage(c, http.StatusBadRequest, "Insufficient quantity")
	case errors.Is(err, service.ErrInvalidInput):
		respondErrorMessage(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondErrorMessage(c, http.StatusNotFound, "Sweet not found")
	case errors.Is(err, service.ErrConflict):
		respondErrorMessage(c, http.StatusBadRequest, "Email already exists")
	default:
		logger.ErrorContext(c.Request.Context(), fallback,
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		respondErrorMessage(c, http.StatusInternalServerError, fallback)
	}
}

// outcome labels an operation result for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, service.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, service.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, service.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, service.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
