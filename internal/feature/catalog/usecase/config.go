package usecase

import (
	"os"
	"strings"
)

// defaultCategories is the canonical category set for the webstore.
const defaultCategories = "Boards,Apparel,Gear"

// LoadCategories reads the configured product category set from the
// PRODUCT_CATEGORIES environment variable (comma separated), falling back to
// the default set when unset.
func LoadCategories() []string {
	raw := os.Getenv("PRODUCT_CATEGORIES")
	if raw == "" {
		raw = defaultCategories
	}
	var out []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
