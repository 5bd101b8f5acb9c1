package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GunarsK-portfolio/sweetshop-service/internal/models"
	"gorm.io/gorm"
)

// SweetRepository defines the interface for catalog and stock operations.
//
// Decrement and Increment must apply as a single conditional update
// against one record so that concurrent callers never lose an update.
type SweetRepository interface {
	List(ctx context.Context) ([]models.Sweet, error)
	Search(ctx context.Context, query models.CatalogQuery) ([]models.Sweet, error)
	FindByID(ctx context.Context, id string) (*models.Sweet, error)
	Create(ctx context.Context, sweet *models.Sweet) error
	Update(ctx context.Context, id string, patch models.SweetPatch) (*models.Sweet, error)
	Delete(ctx context.Context, id string) error
	Decrement(ctx context.Context, id string, quantity int) (*models.Sweet, error)
	Increment(ctx context.Context, id string, quantity int) (*models.Sweet, error)
}

type sweetRepository struct {
	db *gorm.DB
}

// NewSweetRepository creates a new GORM-backed SweetRepository.
func NewSweetRepository(db *gorm.DB) SweetRepository {
	return &sweetRepository{db: db}
}

func (r *sweetRepository) List(ctx context.Context) ([]models.Sweet, error) {
	sweets := []models.Sweet{}
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&sweets).Error; err != nil {
		return nil, fmt.Errorf("failed to list sweets: %w", err)
	}
	return sweets, nil
}

func (r *sweetRepository) Search(ctx context.Context, query models.CatalogQuery) ([]models.Sweet, error) {
	tx := r.db.WithContext(ctx).Model(&models.Sweet{})
	if query.Name != "" {
		tx = tx.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(query.Name))+"%")
	}
	if query.Category != "" {
		tx = tx.Where("category = ?", query.Category)
	}
	if query.MinPrice != nil {
		tx = tx.Where("price >= ?", *query.MinPrice)
	}
	if query.MaxPrice != nil {
		tx = tx.Where("price <= ?", *query.MaxPrice)
	}

	sweets := []models.Sweet{}
	if err := tx.Order("created_at ASC").Find(&sweets).Error; err != nil {
		return nil, fmt.Errorf("failed to search sweets: %w", err)
	}
	return sweets, nil
}

func (r *sweetRepository) FindByID(ctx context.Context, id string) (*models.Sweet, error) {
	return findSweet(r.db.WithContext(ctx), id)
}

func (r *sweetRepository) Create(ctx context.Context, sweet *models.Sweet) error {
	if err := r.db.WithContext(ctx).Create(sweet).Error; err != nil {
		return fmt.Errorf("failed to create sweet: %w", translate(err))
	}
	return nil
}

func (r *sweetRepository) Update(ctx context.Context, id string, patch models.SweetPatch) (*models.Sweet, error) {
	var updated *models.Sweet
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !patch.Empty() {
			res := tx.Model(&models.Sweet{}).Where("id = ?", id).Updates(patch.Columns())
			if res.Error != nil {
				return fmt.Errorf("failed to update sweet %s: %w", id, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("failed to update sweet %s: %w", id, ErrNotFound)
			}
		}
		sweet, err := findSweet(tx, id)
		if err != nil {
			return err
		}
		updated = sweet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *sweetRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Sweet{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete sweet %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to delete sweet %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *sweetRepository) Decrement(ctx context.Context, id string, quantity int) (*models.Sweet, error) {
	return r.adjust(ctx, id, "quantity - ?", quantity, stockGuard{
		cond:  "quantity >= ?",
		bound: quantity,
		err:   ErrInsufficientStock,
	})
}

func (r *sweetRepository) Increment(ctx context.Context, id string, quantity int) (*models.Sweet, error) {
	return r.adjust(ctx, id, "quantity + ?", quantity, stockGuard{
		cond:  "quantity <= ?",
		bound: models.MaxQuantity - quantity,
		err:   ErrStockLimit,
	})
}

// stockGuard is the WHERE condition a stock change must satisfy and the
// error reported when it does not.
type stockGuard struct {
	cond  string
	bound int
	err   error
}

// adjust runs the quantity change as one UPDATE statement. The stock
// guard lives in the WHERE clause so the check and the write cannot be
// interleaved by another request. The row is re-read inside the same
// transaction, which still holds the row lock taken by the UPDATE.
func (r *sweetRepository) adjust(ctx context.Context, id, expr string, quantity int, guard stockGuard) (*models.Sweet, error) {
	var result *models.Sweet
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Sweet{}).
			Where("id = ?", id).
			Where(guard.cond, guard.bound).
			Update("quantity", gorm.Expr(expr, quantity))
		if res.Error != nil {
			return fmt.Errorf("failed to adjust stock for sweet %s: %w", id, res.Error)
		}

		sweet, err := findSweet(tx, id)
		if err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("sweet %s holds %d: %w", id, sweet.Quantity, guard.err)
		}
		result = sweet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func findSweet(db *gorm.DB, id string) (*models.Sweet, error) {
	var sweet models.Sweet
	if err := db.Where("id = ?", id).First(&sweet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find sweet %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find sweet %s: %w", id, err)
	}
	return &sweet, nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
