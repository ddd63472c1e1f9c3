// internal/domain/product/entity.go
package product

import (
	"errors"
	"math"
	"strings"
	"time"
)

// Product is one catalog document.
//
// Category holds the stored value as-is so documents written with a legacy
// spelling still read back; writes go through the variant check.
// Available is the live stock counter the order reconciler decrements.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Images      []string  `json:"images"`
	Sizes       []string  `json:"sizes"`
	Colors      []string  `json:"colors"`
	Category    Category  `json:"category"`
	Subcategory string    `json:"menSubcategory,omitempty"`
	Stock       int       `json:"stock"`
	Available   int       `json:"available"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Patch is a partial update. A nil field means "no change".
type Patch struct {
	Name        *string
	Description *string
	Price       *float64
	Images      *[]string
	Sizes       *[]string
	Colors      *[]string
	Category    *Category
	Subcategory *string
	Stock       *int
	Status      *string
}

var (
	ErrNotFound     = errors.New("product: not found")
	ErrInvalidID    = errors.New("product: invalid id")
	ErrInvalidName  = errors.New("product: invalid name")
	ErrInvalidPrice = errors.New("product: invalid price")
	ErrInvalidStock = errors.New("product: invalid stock")
)

// New builds a product for creation (ID assigned by the store).
// Available starts at Stock.
func New(p Product, now time.Time) (Product, error) {
	p = normalize(p)
	p.ID = ""
	p.Available = p.Stock
	p.CreatedAt = now.UTC()
	p.UpdatedAt = now.UTC()
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Apply merges patch into p and validates the result.
func (p Product) Apply(patch Patch, now time.Time) (Product, error) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Images != nil {
		p.Images = *patch.Images
	}
	if patch.Sizes != nil {
		p.Sizes = *patch.Sizes
	}
	if patch.Colors != nil {
		p.Colors = *patch.Colors
	}
	if patch.Category != nil {
		p.Category = *patch.Category
		if patch.Subcategory == nil {
			// options of the previous category no longer apply
			p.Subcategory = ""
		}
	}
	if patch.Subcategory != nil {
		p.Subcategory = *patch.Subcategory
	}
	if patch.Stock != nil {
		// a restock resets the live counter
		p.Stock = *patch.Stock
		p.Available = *patch.Stock
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}

	p = normalize(p)
	p.UpdatedAt = now.UTC()
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Validate checks the product against its category variant.
func (p Product) Validate() error {
	if p.Name == "" {
		return ErrInvalidName
	}
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price < 0 {
		return ErrInvalidPrice
	}
	if p.Stock < 0 || p.Available < 0 {
		return ErrInvalidStock
	}
	v, ok := p.Category.Variant()
	if !ok {
		return ErrInvalidCategory
	}
	return v.Validate(p.Subcategory, p.Sizes, p.Colors)
}

// OfferedSizes returns the sizes a shopper can pick.
func (p Product) OfferedSizes() []string {
	if len(p.Sizes) == 0 {
		return []string{OneSize}
	}
	return p.Sizes
}

// Offers reports whether the size/color pair can be put in a cart.
func (p Product) Offers(size, color string) bool {
	size = strings.TrimSpace(size)
	color = strings.TrimSpace(color)
	if !contains(p.OfferedSizes(), size) {
		return false
	}
	return contains(p.OfferedColors(), color)
}

// OfferedColors returns the colors a shopper can pick. Products stored
// without colors offer every color of their category.
func (p Product) OfferedColors() []string {
	if len(p.Colors) > 0 {
		return p.Colors
	}
	if c, err := ParseCategory(string(p.Category)); err == nil {
		if v, ok := c.Variant(); ok {
			return v.Colors
		}
	}
	return Colors
}

// FirstImage returns the cover image or "".
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func normalize(p Product) Product {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Subcategory = strings.TrimSpace(p.Subcategory)
	p.Status = strings.TrimSpace(p.Status)
	if c, err := ParseCategory(string(p.Category)); err == nil {
		p.Category = c
	}
	p.Images = normalizeList(p.Images)
	p.Sizes = normalizeList(p.Sizes)
	p.Colors = normalizeList(p.Colors)
	if len(p.Colors) == 0 {
		if v, ok := p.Category.Variant(); ok {
			p.Colors = append([]string(nil), v.Colors...)
		}
	}
	return p
}

func normalizeList(src []string) []string {
	out := make([]string, 0, len(src))
	seen := make(map[string]struct{}, len(src))
	for _, s := range src {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
