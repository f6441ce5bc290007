// Package order covers the checkout pipeline: building the submission
// payload from the unified cart view, validating it, and submitting it to
// the order-creation endpoint.
package order

import "github.com/polygon-agro/marketplace-cart/internal/domain"

// OrderApp tags payloads with the originating application.
const OrderApp = "marketplace-app"

// BuildInput carries everything needed to assemble one submission payload.
type BuildInput struct {
	CartID         string
	PaymentMethod  domain.PaymentMethod
	DiscountAmount float64
	GrandTotal     float64
	Items          []domain.UnifiedItem
	Checkout       domain.CheckoutDetails
}

// BuildPayload maps the unified item list and checkout details into the
// wire-format order payload. It is a pure transform: no validation happens
// here, a defective input simply produces a payload the validator will
// reject.
//
// Additional items become product lines with the item's own id. Package
// constituents become package lines keeping the constituent's id and
// carrying the package id separately; the backend reconciles package
// contents through that pair.
func BuildPayload(in BuildInput) *domain.OrderPayload {
	lines := make([]domain.OrderLine, 0, len(in.Items))
	for _, item := range in.Items {
		line := domain.OrderLine{
			ID:            item.ID,
			Unit:          item.Unit,
			Quantity:      item.Quantity,
			TotalDiscount: item.TotalDiscount,
			TotalPrice:    ptr(item.TotalPrice),
			ItemType:      domain.LineTypeProduct,
			RecordID:      item.CartItemID,
		}
		if item.Type == domain.ItemTypePackage {
			line.ItemType = domain.LineTypePackage
			line.PackageID = item.PackageID
		}
		lines = append(lines, line)
	}

	return &domain.OrderPayload{
		CartID:         in.CartID,
		PaymentMethod:  string(in.PaymentMethod),
		DiscountAmount: ptr(in.DiscountAmount),
		GrandTotal:     in.GrandTotal,
		OrderApp:       OrderApp,
		Items:          lines,
		Checkout:       in.Checkout,
	}
}

func ptr(v float64) *float64 {
	return &v
}
