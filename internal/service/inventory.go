package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/GunarsK-portfolio/sweetshop-service/internal/models"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/repository"
	"github.com/google/uuid"
)

// CreateSweetInput carries the fields of a new catalog item. Price and
// Quantity are pointers so a missing value can be told apart from zero.
type CreateSweetInput struct {
	Name        string
	Category    models.Category
	Price       *float64
	Quantity    *int
	Description string
	Image       string
}

// InventoryService owns the catalog and its stock invariant. Every
// mutation checks the caller's decision before touching the store.
type InventoryService interface {
	List(ctx context.Context) ([]models.Sweet, error)
	Search(ctx context.Context, query models.CatalogQuery) ([]models.Sweet, error)
	Get(ctx context.Context, id string) (*models.Sweet, error)
	Create(ctx context.Context, decision models.Decision, input CreateSweetInput) (*models.Sweet, error)
	Update(ctx context.Context, decision models.Decision, id string, patch models.SweetPatch) (*models.Sweet, error)
	Delete(ctx context.Context, decision models.Decision, id string) error
	Purchase(ctx context.Context, decision models.Decision, id string, quantity int) (*models.Sweet, error)
	Restock(ctx context.Context, decision models.Decision, id string, quantity int) (*models.Sweet, error)
}

type inventoryService struct {
	sweets repository.SweetRepository
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(sweets repository.SweetRepository) InventoryService {
	return &inventoryService{sweets: sweets}
}

func (s *inventoryService) List(ctx context.Context) ([]models.Sweet, error) {
	return s.sweets.List(ctx)
}

func (s *inventoryService) Search(ctx context.Context, query models.CatalogQuery) ([]models.Sweet, error) {
	query.Name = strings.TrimSpace(query.Name)
	return s.sweets.Search(ctx, query)
}

func (s *inventoryService) Get(ctx context.Context, id string) (*models.Sweet, error) {
	sweet, err := s.sweets.FindByID(ctx, id)
	return sweet, mapRepositoryError(err)
}

func (s *inventoryService) Create(ctx context.Context, decision models.Decision, input CreateSweetInput) (*models.Sweet, error) {
	if err := authorize(decision, models.AuthenticatedAdmin); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		return nil, invalidInput("name is required")
	case input.Category == "":
		return nil, invalidInput("category is required")
	case input.Price == nil:
		return nil, invalidInput("price is required")
	case input.Quantity == nil:
		return nil, invalidInput("quantity is required")
	}
	if err := validateFields(&input.Category, input.Price, input.Quantity); err != nil {
		return nil, err
	}

	sweet := &models.Sweet{
		ID:          uuid.NewString(),
		Name:        name,
		Category:    input.Category,
		Price:       *input.Price,
		Quantity:    *input.Quantity,
		Description: input.Description,
		Image:       input.Image,
	}
	if err := s.sweets.Create(ctx, sweet); err != nil {
		return nil, err
	}
	return sweet, nil
}

// Update applies a partial patch. Negative price or quantity is rejected
// rather than clamped.
func (s *inventoryService) Update(ctx context.Context, decision models.Decision, id string, patch models.SweetPatch) (*models.Sweet, error) {
	if err := authorize(decision, models.AuthenticatedAdmin); err != nil {
		return nil, err
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, invalidInput("name must not be empty")
		}
		patch.Name = &trimmed
	}
	if err := validateFields(patch.Category, patch.Price, patch.Quantity); err != nil {
		return nil, err
	}

	sweet, err := s.sweets.Update(ctx, id, patch)
	return sweet, mapRepositoryError(err)
}

func (s *inventoryService) Delete(ctx context.Context, decision models.Decision, id string) error {
	if err := authorize(decision, models.AuthenticatedAdmin); err != nil {
		return err
	}
	return mapRepositoryError(s.sweets.Delete(ctx, id))
}

func (s *inventoryService) Purchase(ctx context.Context, decision models.Decision, id string, quantity int) (*models.Sweet, error) {
	if err := authorize(decision, models.AuthenticatedUser); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, invalidInput("quantity must be greater than zero")
	}

	sweet, err := s.sweets.Decrement(ctx, id, quantity)
	return sweet, mapRepositoryError(err)
}

func (s *inventoryService) Restock(ctx context.Context, decision models.Decision, id string, quantity int) (*models.Sweet, error) {
	if err := authorize(decision, models.AuthenticatedAdmin); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, invalidInput("quantity must be greater than zero")
	}
	if quantity > models.MaxQuantity {
		return nil, invalidInput(fmt.Sprintf("quantity must not exceed %d", models.MaxQuantity))
	}

	sweet, err := s.sweets.Increment(ctx, id, quantity)
	return sweet, mapRepositoryError(err)
}

func authorize(decision models.Decision, required models.Access) error {
	if !decision.Satisfies(required) {
		return ErrUnauthorized
	}
	return nil
}

func validateFields(category *models.Category, price *float64, quantity *int) error {
	if category != nil && !category.Valid() {
		return invalidInput("unknown category " + string(*category))
	}
	if price != nil && (*price < 0 || math.IsNaN(*price) || math.IsInf(*price, 0)) {
		return invalidInput("price must be a non-negative number")
	}
	if quantity != nil && *quantity < 0 {
		return invalidInput("quantity must not be negative")
	}
	if quantity != nil && *quantity > models.MaxQuantity {
		return invalidInput(fmt.Sprintf("quantity must not exceed %d", models.MaxQuantity))
	}
	return nil
}

func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrInsufficientStock):
		return ErrInsufficientStock
	case errors.Is(err, repository.ErrStockLimit):
		return invalidInput(fmt.Sprintf("stock would exceed %d", models.MaxQuantity))
	default:
		return err
	}
}
