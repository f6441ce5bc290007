package cart

import (
	"github.com/polygon-agro/marketplace-cart/internal/domain"
	"github.com/polygon-agro/marketplace-cart/internal/pricing"
)

// Project derives the unified item list from the raw collections. It is a
// pure function: prices and discounts are always recomputed from the
// authoritative raw fields, never from previously derived values, so
// repeated projection cannot accumulate rounding drift.
//
// Additional-derived items come first, then package-derived items, each in
// source order. The ordering matters only for stable display.
func Project(groups []domain.AdditionalItemGroup, packages []domain.Package) []domain.UnifiedItem {
	var items []domain.UnifiedItem

	for _, group := range groups {
		for _, raw := range group.Items {
			unitPrice := pricing.PerUnitPrice(raw.Unit, raw.Price)
			// Copy the pointee so mutating a projected item cannot reach
			// back into the raw collections.
			var discounted *float64
			if raw.DiscountedPrice != nil {
				v := *raw.DiscountedPrice
				discounted = &v
			}
			items = append(items, domain.UnifiedItem{
				ID:              raw.ID,
				CartItemID:      raw.CartItemID,
				Type:            domain.ItemTypeAdditional,
				Unit:            raw.Unit,
				Quantity:        raw.Quantity,
				UnitPrice:       unitPrice,
				TotalPrice:      unitPrice * raw.Quantity,
				TotalDiscount:   pricing.TotalDiscount(raw.Unit, raw.Discount, raw.Quantity),
				NormalPrice:     raw.NormalPrice,
				DiscountedPrice: discounted,
				Image:           raw.Image,
				Category:        raw.Category,
				CreatedAt:       raw.CreatedAt,
			})
		}
	}

	for _, pkg := range packages {
		for _, line := range pkg.Lines {
			// Packages are priced per bundle: the constituent quantity
			// does not scale the price, and no line-level discount exists.
			items = append(items, domain.UnifiedItem{
				ID:          line.ID,
				CartItemID:  pkg.CartItemID,
				Type:        domain.ItemTypePackage,
				Unit:        domain.UnitPackage,
				Quantity:    line.Quantity,
				UnitPrice:   pkg.Price,
				TotalPrice:  pkg.Price,
				NormalPrice: pkg.Price,
				Image:       pkg.Image,
				PackageID:   pkg.ID,
				PackageName: pkg.Name,
			})
		}
	}

	return items
}
