package order

import (
	"fmt"
	"strings"

	"github.com/polygon-agro/marketplace-cart/internal/domain"
)

// ValidationResult accumulates every violated rule so the caller can
// surface all problems at once. It is a value, never an error: a malformed
// payload yields more messages, not a panic or an error return.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Validate checks a payload's structural and conditional-field correctness
// prior to submission. Rules are checked in a fixed order, which affects
// only message ordering, never the outcome.
func Validate(p *domain.OrderPayload) ValidationResult {
	var errs []string

	if p.PaymentMethod != string(domain.PaymentCard) && p.PaymentMethod != string(domain.PaymentCash) {
		errs = append(errs, "payment method must be 'card' or 'cash'")
	}

	if len(p.Items) == 0 {
		errs = append(errs, "items must be a non-empty list")
	} else {
		for i, item := range p.Items {
			if item.ID == "" {
				errs = append(errs, fmt.Sprintf("item %d: product id is required", i))
			}
			if item.Unit == "" {
				errs = append(errs, fmt.Sprintf("item %d: unit is required", i))
			}
			// Negated form so NaN fails the check too.
			if !(item.Quantity > 0) {
				errs = append(errs, fmt.Sprintf("item %d: quantity must be a positive number", i))
			}
			if item.TotalPrice == nil {
				errs = append(errs, fmt.Sprintf("item %d: total price is required", i))
			} else if *item.TotalPrice < 0 {
				errs = append(errs, fmt.Sprintf("item %d: total price must not be negative", i))
			}
			if item.ItemType == domain.LineTypePackage && item.PackageID == "" {
				errs = append(errs, fmt.Sprintf("item %d: package id is required for package items", i))
			}
		}
	}

	if p.CartID == "" {
		errs = append(errs, "cart id is required")
	}

	c := p.Checkout
	if c.DeliveryMethod != string(domain.DeliveryHome) && c.DeliveryMethod != string(domain.DeliveryPickup) {
		errs = append(errs, "delivery method must be 'home' or 'pickup'")
	}

	// Required regardless of delivery method.
	if c.Title == "" {
		errs = append(errs, "title is required")
	}
	if len(strings.TrimSpace(c.FullName)) < 2 {
		errs = append(errs, "full name must be at least 2 characters")
	}
	if c.PhoneCode1 == "" {
		errs = append(errs, "phone country code 1 is required")
	}
	if len(strings.TrimSpace(c.Phone1)) < 9 {
		errs = append(errs, "phone number 1 must be at least 9 characters")
	}
	if c.DeliveryDate == "" {
		errs = append(errs, "delivery date is required")
	}
	if c.TimeSlot == "" {
		errs = append(errs, "time slot is required")
	}

	if c.DeliveryMethod == string(domain.DeliveryHome) {
		errs = append(errs, validateHomeAddress(c)...)
	}

	if p.GrandTotal <= 0 {
		errs = append(errs, "grand total must be a positive number")
	}

	if p.DiscountAmount == nil {
		errs = append(errs, "discount amount is required")
	} else if *p.DiscountAmount < 0 {
		errs = append(errs, "discount amount must not be negative")
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// validateHomeAddress applies the building-type branch. Apartment and
// house field sets are mutually exclusive: a house field missing while the
// type is apartment is not an error, and vice versa.
func validateHomeAddress(c domain.CheckoutDetails) []string {
	var errs []string

	if len(strings.TrimSpace(c.City)) < 2 {
		errs = append(errs, "city is required for home delivery")
	}

	switch strings.ToLower(c.BuildingType) {
	case string(domain.BuildingApartment):
		if c.BuildingNo == "" {
			errs = append(errs, "building number is required for apartments")
		}
		if c.BuildingName == "" {
			errs = append(errs, "building name is required for apartments")
		}
		if c.FlatNo == "" {
			errs = append(errs, "flat number is required for apartments")
		}
		if c.FloorNo == "" {
			errs = append(errs, "floor number is required for apartments")
		}
	case string(domain.BuildingHouse):
		if c.HouseNo == "" {
			errs = append(errs, "house number is required for houses")
		}
		if c.StreetName == "" {
			errs = append(errs, "street name is required for houses")
		}
	default:
		errs = append(errs, "building type must be 'apartment' or 'house' for home delivery")
	}

	return errs
}
