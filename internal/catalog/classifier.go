package catalog

import (
	"strings"

	"github.com/palletwise/backend/internal/domain"
)

// Classify resolves a raw SKU string to a catalog spec. Matching is a
// case-insensitive substring scan over the known keys, longest key first, so
// the most specific key always wins. Unmatched SKUs resolve to the default
// spec with ok=false; classification never fails.
func (c *Catalog) Classify(sku string) (domain.ProductSpec, bool) {
	needle := strings.ToLower(strings.TrimSpace(sku))
	if needle != "" {
		for _, key := range c.orderedKeys {
			if strings.Contains(needle, key) {
				return c.specs[key], true
			}
		}
	}
	return c.Default(), false
}

// ClassifyLines resolves every order line against the catalog.
func (c *Catalog) ClassifyLines(lines []domain.OrderLine) []domain.ClassifiedLine {
	out := make([]domain.ClassifiedLine, 0, len(lines))
	for _, line := range lines {
		spec, known := c.Classify(line.SKU)
		out = append(out, domain.ClassifiedLine{
			Line:      line,
			Spec:      spec,
			IsUnknown: !known,
		})
	}
	return out
}
