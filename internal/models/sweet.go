package models

import (
	"math"
	"strings"
	"time"
)

// MaxQuantity is the largest stock level a sweet may hold.
const MaxQuantity = math.MaxInt32

// Category is one of the fixed sweet categories.
type Category string

const (
	CategoryChocolate Category = "Chocolate"
	CategoryCandy     Category = "Candy"
	CategoryPastry    Category = "Pastry"
	CategoryLollipop  Category = "Lollipop"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryChocolate, CategoryCandy, CategoryPastry, CategoryLollipop}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Sweet is a catalog item together with its stock level.
type Sweet struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text"`
	Name        string    `json:"name" gorm:"size:255;not null;index"`
	Category    Category  `json:"category" gorm:"type:text;not null;index"`
	Price       float64   `json:"price" gorm:"not null;default:0"`
	Quantity    int       `json:"quantity" gorm:"not null;default:0"`
	Description string    `json:"description" gorm:"type:text"`
	Image       string    `json:"image" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for the Sweet model.
func (Sweet) TableName() string {
	return "sweets"
}

// SweetPatch is a partial update; nil fields are left untouched.
type SweetPatch struct {
	Name        *string   `json:"name,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Quantity    *int      `json:"quantity,omitempty"`
	Description *string   `json:"description,omitempty"`
	Image       *string   `json:"image,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p SweetPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Price == nil &&
		p.Quantity == nil && p.Description == nil && p.Image == nil
}

// Apply copies the set fields onto s.
func (p SweetPatch) Apply(s *Sweet) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Price != nil {
		s.Price = *p.Price
	}
	if p.Quantity != nil {
		s.Quantity = *p.Quantity
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Image != nil {
		s.Image = *p.Image
	}
}

// Columns returns the patch as a column map for the database layer.
func (p SweetPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.Quantity != nil {
		cols["quantity"] = *p.Quantity
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Image != nil {
		cols["image"] = *p.Image
	}
	return cols
}

// CatalogQuery is a conjunctive filter over the catalog. Zero-valued
// fields are not applied.
type CatalogQuery struct {
	Name     string
	Category Category
	MinPrice *float64
	MaxPrice *float64
}

// Matches reports whether s satisfies every set condition.
func (q CatalogQuery) Matches(s *Sweet) bool {
	if q.Name != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(q.Name)) {
		return false
	}
	if q.Category != "" && s.Category != q.Category {
		return false
	}
	if q.MinPrice != nil && s.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && s.Price > *q.MaxPrice {
		return false
	}
	return true
}
