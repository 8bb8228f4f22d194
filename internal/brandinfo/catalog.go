// Package brandinfo provides a local brand catalog used to classify input
// brands and to supply background context for generation prompts. It is a
// pure in-memory lookup — no external calls, so it can never degrade.
package brandinfo

import (
	"fmt"
	"sort"
	"strings"
)

// CategoryGeneral is returned for brands not present in the catalog.
const CategoryGeneral = "general"

// Info is what the catalog knows about one brand.
type Info struct {
	Brand      string
	Category   string
	Background string
}

// Catalog maps known brands to categories. Lookups are case-insensitive
// and tolerant of partial matches ("Coca Cola Zero" still hits "Coca-Cola").
type Catalog struct {
	categories map[string][]string
}

// NewCatalog returns a catalog seeded with the built-in brand data.
func NewCatalog() *Catalog {
	return &Catalog{categories: builtinBrands}
}

var builtinBrands = map[string][]string{
	"food":       {"McDonald's", "Burger King", "KFC", "Subway", "Pizza Hut", "Domino's", "Taco Bell"},
	"beverages":  {"Coca-Cola", "Pepsi", "Starbucks", "Red Bull", "Monster", "Dr Pepper"},
	"tech":       {"Apple", "Samsung", "Google", "Microsoft", "Amazon", "Netflix", "Spotify"},
	"fashion":    {"Nike", "Adidas", "Gucci", "Louis Vuitton", "H&M", "Zara", "Supreme"},
	"automotive": {"Tesla", "BMW", "Mercedes", "Toyota", "Ford", "Ferrari", "Lamborghini"},
}

// Categorize returns the category for a brand, or CategoryGeneral when the
// brand is unknown. Matching folds case and accepts substring matches in
// either direction.
func (c *Catalog) Categorize(brand string) string {
	needle := strings.ToLower(strings.TrimSpace(brand))
	if needle == "" {
		return CategoryGeneral
	}
	for category, brands := range c.categories {
		for _, b := range brands {
			known := strings.ToLower(b)
			if strings.Contains(needle, known) || strings.Contains(known, needle) {
				return category
			}
		}
	}
	return CategoryGeneral
}

// Lookup returns the catalog's knowledge about a brand. Unknown brands get
// a generic background line so prompts always have something to work with.
func (c *Catalog) Lookup(brand string) Info {
	category := c.Categorize(brand)
	background := fmt.Sprintf("%s is a brand in the %s space.", brand, category)
	if category == CategoryGeneral {
		background = fmt.Sprintf("Information about %s.", brand)
	}
	return Info{
		Brand:      brand,
		Category:   category,
		Background: background,
	}
}

// Categories returns all catalog categories in sorted order.
func (c *Catalog) Categories() []string {
	out := make([]string, 0, len(c.categories))
	for category := range c.categories {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

// Brands returns the brands in a category, or every known brand when
// category is empty or "all". The second return reports whether the
// category exists.
func (c *Catalog) Brands(category string) ([]string, bool) {
	if category == "" || category == "all" {
		var all []string
		for _, cat := range c.Categories() {
			all = append(all, c.categories[cat]...)
		}
		return all, true
	}
	brands, ok := c.categories[strings.ToLower(category)]
	if !ok {
		return nil, false
	}
	out := make([]string, len(brands))
	copy(out, brands)
	return out, true
}
