// Package pricing normalizes weight-denominated prices and discounts so
// that gram-priced items stay consistent with kilogram-denominated
// discount figures.
package pricing

import "github.com/polygon-agro/marketplace-cart/internal/domain"

// PerUnitPrice converts a backend price to the price per base unit of the
// item. Gram-unit items carry kilogram-denominated prices, so they are
// divided by 1000; every other unit is already per base unit. Inputs are
// assumed numeric and non-negative; anything else propagates unchanged.
func PerUnitPrice(unit domain.MeasurementUnit, price float64) float64 {
	if unit == domain.UnitGram {
		return price / 1000
	}
	return price
}

// TotalDiscount scales a per-unit discount by quantity, applying the same
// gram normalization as PerUnitPrice before multiplying.
func TotalDiscount(unit domain.MeasurementUnit, discount, quantity float64) float64 {
	if unit == domain.UnitGram {
		return discount / 1000 * quantity
	}
	return discount * quantity
}
