package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/GunarsK-portfolio/sweetshop-service/internal/events"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/metrics"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/middleware"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/models"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/service"
	"github.com/gin-gonic/gin"
)

// SweetHandler handles catalog and stock HTTP requests.
type SweetHandler struct {
	inventory service.InventoryService
	emitter   events.Emitter
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewSweetHandler creates a new SweetHandler instance.
func NewSweetHandler(inventory service.InventoryService, emitter events.Emitter, m *metrics.Metrics, logger *slog.Logger) *SweetHandler {
	return &SweetHandler{
		inventory: inventory,
		emitter:   emitter,
		metrics:   m,
		logger:    logger,
	}
}

// CreateSweetRequest represents the create payload.
type CreateSweetRequest struct {
	Name        string          `json:"name"`
	Category    models.Category `json:"category"`
	Price       *float64        `json:"price"`
	Quantity    *int            `json:"quantity"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

// QuantityRequest is the payload of purchase and restock.
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// StockResponse is returned by purchase and restock.
type StockResponse struct {
	Message string        `json:"message"`
	Sweet   *models.Sweet `json:"sweet"`
}

// List godoc
// @Summary List sweets
// @Description Return the full catalog
// @Tags sweets
// @Produce json
// @Success 200 {array} models.Sweet
// @Router /sweets [get]
func (h *SweetHandler) List(c *gin.Context) {
	sweets, err := h.inventory.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch sweets")
		return
	}
	c.JSON(http.StatusOK, sweets)
}

// Search godoc
// @Summary Search sweets
// @Description Filter the catalog by name substring, category and price range
// @Tags sweets
// @Produce json
// @Param name query string false "Case-insensitive name substring"
// @Param category query string false "Exact category"
// @Param minPrice query number false "Minimum price (inclusive)"
// @Param maxPrice query number false "Maximum price (inclusive)"
// @Success 200 {array} models.Sweet
// @Failure 400 {object} ErrorResponse
// @Router /sweets/search [get]
func (h *SweetHandler) Search(c *gin.Context) {
	query := models.CatalogQuery{
		Name:     c.Query("name"),
		Category: models.Category(strings.TrimSpace(c.Query("category"))),
	}

	var err error
	if query.MinPrice, err = parsePrice(c.Query("minPrice")); err != nil {
		respondErrorMessage(c, http.StatusBadRequest, "minPrice must be a number")
		return
	}
	if query.MaxPrice, err = parsePrice(c.Query("maxPrice")); err != nil {
		respondErrorMessage(c, http.StatusBadRequest, "maxPrice must be a number")
		return
	}

	sweets, err := h.inventory.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.logger, err, "Search failed")
		return
	}
	c.JSON(http.StatusOK, sweets)
}

// Get godoc
// @Summary Get a sweet
// @Tags sweets
// @Produce json
// @Param id path string true "Sweet ID"
// @Success 200 {object} models.Sweet
// @Failure 404 {object} ErrorResponse
// @Router /sweets/{id} [get]
func (h *SweetHandler) Get(c *gin.Context) {
	sweet, err := h.inventory.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch sweet")
		return
	}
	c.JSON(http.StatusOK, sweet)
}

// Create godoc
// @Summary Create a sweet
// @Description Add an item to the catalog (admin only)
// @Tags sweets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateSweetRequest true "Sweet"
// @Success 201 {object} models.Sweet
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /sweets [post]
func (h *SweetHandler) Create(c *gin.Context) {
	decision := middleware.DecisionFrom(c)
	if !decision.Satisfies(models.AuthenticatedAdmin) {
		h.metrics.ObserveInventory("create", outcome(service.ErrUnauthorized))
		respondErrorMessage(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateSweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	sweet, err := h.inventory.Create(c.Request.Context(), decision, service.CreateSweetInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
		Image:       req.Image,
	})
	h.metrics.ObserveInventory("create", outcome(err))
	if err != nil {
		respondError(c, h.logger, err, "Failed to create sweet")
		return
	}

	h.emitter.Emit(c.Request.Context(), events.Event{
		Type:      events.SweetCreated,
		SweetID:   sweet.ID,
		SubjectID: decision.SubjectID,
		Quantity:  sweet.Quantity,
	})
	c.JSON(http.StatusCreated, sweet)
}

// Update godoc
// @Summary Update a sweet
// @Description Apply a partial update (admin only)
// @Tags sweets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Sweet ID"
// @Param request body models.SweetPatch true "Fields to change"
// @Success 200 {object} models.Sweet
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sweets/{id} [put]
func (h *SweetHandler) Update(c *gin.Context) {
	decision := middleware.DecisionFrom(c)
	if !decision.Satisfies(models.AuthenticatedAdmin) {
		h.metrics.ObserveInventory("update", outcome(service.ErrUnauthorized))
		respondErrorMessage(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var patch models.SweetPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondErrorMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	sweet, err := h.inventory.Update(c.Request.Context(), decision, c.Param("id"), patch)
	h.metrics.ObserveInventory("update", outcome(err))
	if err != nil {
		respondError(c, h.logger, err, "Failed to update sweet")
		return
	}

	h.emitter.Emit(c.Request.Context(), events.Event{
		Type:      events.SweetUpdated,
		SweetID:   sweet.ID,
		SubjectID: decision.SubjectID,
		Quantity:  sweet.Quantity,
	})
	c.JSON(http.StatusOK, sweet)
}

// Delete godoc
// @Summary Delete a sweet
// @Description Remove an item from the catalog (admin only)
// @Tags sweets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Sweet ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sweets/{id} [delete]
func (h *SweetHandler) Delete(c *gin.Context) {
	decision := middleware.DecisionFrom(c)
	id := c.Param("id")

	err := h.inventory.Delete(c.Request.Context(), decision, id)
	h.metrics.ObserveInventory("delete", outcome(err))
	if err != nil {
		respondError(c, h.logger, err, "Failed to delete sweet")
		return
	}

	h.emitter.Emit(c.Request.Context(), events.Event{
		Type:      events.SweetDeleted,
		SweetID:   id,
		SubjectID: decision.SubjectID,
	})
	c.JSON(http.StatusOK, MessageResponse{Message: "Sweet deleted"})
}

// Purchase godoc
// @Summary Purchase a sweet
// @Description Decrement stock by the requested quantity (any signed-in user)
// @Tags sweets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Sweet ID"
// @Param request body QuantityRequest true "Quantity"
// @Success 200 {object} StockResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sweets/{id}/purchase [post]
func (h *SweetHandler) Purchase(c *gin.Context) {
	h.adjustStock(c, "purchase", "Purchase", events.SweetPurchased, models.AuthenticatedUser, h.inventory.Purchase)
}

// Restock godoc
// @Summary Restock a sweet
// @Description Increment stock by the requested quantity (admin only)
// @Tags sweets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Sweet ID"
// @Param request body QuantityRequest true "Quantity"
// @Success 200 {object} StockResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sweets/{id}/restock [post]
func (h *SweetHandler) Restock(c *gin.Context) {
	h.adjustStock(c, "restock", "Restock", events.SweetRestocked, models.AuthenticatedAdmin, h.inventory.Restock)
}

type stockOperation func(ctx context.Context, decision models.Decision, id string, quantity int) (*models.Sweet, error)

func (h *SweetHandler) adjustStock(c *gin.Context, name, label string, eventType events.Type, required models.Access, op stockOperation) {
	decision := middleware.DecisionFrom(c)
	if !decision.Satisfies(required) {
		h.metrics.ObserveInventory(name, outcome(service.ErrUnauthorized))
		respondErrorMessage(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := c.Param("id")
	sweet, err := op(c.Request.Context(), decision, id, req.Quantity)
	h.metrics.ObserveInventory(name, outcome(err))
	if err != nil {
		respondError(c, h.logger, err, label+" failed")
		return
	}

	h.emitter.Emit(c.Request.Context(), events.Event{
		Type:      eventType,
		SweetID:   id,
		SubjectID: decision.SubjectID,
		Quantity:  req.Quantity,
	})
	c.JSON(http.StatusOK, StockResponse{
		Message: label + " successful",
		Sweet:   sweet,
	})
}

func parsePrice(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("price bound %q is not finite", raw)
	}
	return &value, nil
}
