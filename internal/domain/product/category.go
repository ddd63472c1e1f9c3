// internal/domain/product/category.go
package product

import (
	"errors"
	"strings"
)

// Category is the closed set of catalog categories.
type Category string

const (
	CategoryMen     Category = "men"
	CategoryWomen   Category = "women"
	CategoryPants   Category = "pants"
	CategoryTShirts Category = "t-shirts"
	CategoryOthers  Category = "others"
)

// OneSize is the size recorded for products whose category carries no sizes.
const OneSize = "one-size"

var (
	ErrInvalidCategory    = errors.New("product: invalid category")
	ErrInvalidSubcategory = errors.New("product: subcategory not offered for category")
	ErrInvalidSize        = errors.New("product: size not offered for category")
	ErrInvalidColor       = errors.New("product: color not offered")
)

// Colors offered for every category.
var Colors = []string{"white", "black", "blue", "red", "brown", "gold", "browns"}

// MenBrands are the brand subcategories of the men category.
var MenBrands = []string{
	"nike", "jorden", "adidas", "Dior", "Balansiaga", "louis vituuen", "D&G",
	"AIR", "Lanvain", "off white", "BaBe", "Aalxander Mquenn", "Naked wolfe",
}

// Variant carries the fixed option lists of one category.
// A combination outside these lists cannot be saved.
type Variant struct {
	Category      Category `json:"category"`
	Subcategories []string `json:"subcategories"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
}

var variants = map[Category]Variant{
	CategoryMen: {
		Category:      CategoryMen,
		Subcategories: MenBrands,
		Sizes:         []string{"40", "41", "42", "43", "44", "45", "46", "47"},
		Colors:        Colors,
	},
	CategoryWomen: {
		Category: CategoryWomen,
		Sizes:    []string{"36", "37", "38", "39", "40", "41"},
		Colors:   Colors,
	},
	CategoryPants: {
		Category: CategoryPants,
		Sizes:    []string{"30", "32", "34", "36", "38"},
		Colors:   Colors,
	},
	CategoryTShirts: {
		Category: CategoryTShirts,
		Sizes:    []string{"S", "M", "L", "XL", "XXL"},
		Colors:   Colors,
	},
	CategoryOthers: {
		Category: CategoryOthers,
		Colors:   Colors,
	},
}

// Categories in display order.
var Categories = []Category{CategoryMen, CategoryWomen, CategoryPants, CategoryTShirts, CategoryOthers}

// ParseCategory accepts the canonical values plus the legacy t-shirt spellings.
func ParseCategory(v string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "men":
		return CategoryMen, nil
	case "women":
		return CategoryWomen, nil
	case "pants":
		return CategoryPants, nil
	case "t-shirts", "tshirts", "t-shirt":
		return CategoryTShirts, nil
	case "others":
		return CategoryOthers, nil
	}
	return "", ErrInvalidCategory
}

func (c Category) Valid() bool {
	_, ok := variants[c]
	return ok
}

// Variant returns the option lists of c.
func (c Category) Variant() (Variant, bool) {
	v, ok := variants[c]
	return v, ok
}

// BrowseCategories returns the raw stored category values a storefront
// category page lists. Legacy documents use several spellings for t-shirts.
func BrowseCategories(c Category) []string {
	switch c {
	case CategoryMen:
		return []string{"men", "others"}
	case CategoryWomen:
		return []string{"women", "t-shirts", "tshirts", "t-shirt"}
	case CategoryTShirts:
		return []string{"t-shirts", "tshirts", "t-shirt"}
	case "":
		return nil
	}
	return []string{string(c)}
}

// Validate rejects a subcategory, size or color the variant does not offer.
// Empty subcategory is allowed.
func (v Variant) Validate(subcategory string, sizes, colors []string) error {
	if sub := strings.TrimSpace(subcategory); sub != "" {
		if !contains(v.Subcategories, sub) {
			return ErrInvalidSubcategory
		}
	}
	for _, s := range sizes {
		if !contains(v.Sizes, strings.TrimSpace(s)) {
			return ErrInvalidSize
		}
	}
	for _, c := range colors {
		if !contains(v.Colors, strings.TrimSpace(c)) {
			return ErrInvalidColor
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
