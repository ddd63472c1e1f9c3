package product

import "strings"

// Filter is the storefront / admin facet filter. Zero values match everything.
type Filter struct {
	// Categories matches the raw stored category value (see BrowseCategories).
	Categories  []string
	Subcategory string
	Size        string
	Color       string
	// Search is a case-insensitive substring over name and description.
	Search   string
	MinPrice *float64
	MaxPrice *float64
}

func (f Filter) Match(p Product) bool {
	if len(f.Categories) > 0 && !contains(f.Categories, string(p.Category)) {
		return false
	}
	if sub := strings.TrimSpace(f.Subcategory); sub != "" && !strings.EqualFold(sub, p.Subcategory) {
		return false
	}
	if size := strings.TrimSpace(f.Size); size != "" && !contains(p.Sizes, size) {
		return false
	}
	if color := strings.TrimSpace(f.Color); color != "" && !containsFold(p.Colors, color) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

// Apply returns the products matching f, keeping order.
func (f Filter) Apply(in []Product) []Product {
	out := make([]Product, 0, len(in))
	for _, p := range in {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func containsFold(list []string, v string) bool {
	for _, x := range list {
		if strings.EqualFold(x, v) {
			return true
		}
	}
	return false
}
