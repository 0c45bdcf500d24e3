// Package catalog has the pure read-side helpers over a loaded product list.
package catalog

import "github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/entity"

// All is the category token that selects every product.
const All = "all"

// Filter returns the products in category, or every product when category
// is All or empty. The input slice is never modified.
func Filter(products []entity.Product, category string) []entity.Product {
	if category == "" || category == All {
		return products
	}

	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func Categories(products []entity.Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Summary is the impact banner shown above the product grid.
type Summary struct {
	TotalProducts int `json:"total_products"`
	TotalKarma    int `json:"total_karma"`
}

func Stats(products []entity.Product) Summary {
	s := Summary{TotalProducts: len(products)}
	for _, p := range products {
		s.TotalKarma += p.KarmaPoints
	}
	return s
}
