package domain

import "time"

// ItemType tags a UnifiedItem with the collection it was derived from.
type ItemType string

const (
	ItemTypeAdditional ItemType = "additional"
	ItemTypePackage    ItemType = "package"
)

func (t ItemType) String() string {
	return string(t)
}

// UnifiedItem is the single normalized view item merging both entity kinds
// for display and ordering. Every UnifiedItem is derived from exactly one
// RawCartItem (additional) or one (Package, constituent) pair (package).
type UnifiedItem struct {
	ID              string          `json:"id"`
	CartItemID      string          `json:"cartItemId"`
	Type            ItemType        `json:"type"`
	Unit            MeasurementUnit `json:"unit"`
	Quantity        float64         `json:"quantity"`
	UnitPrice       float64         `json:"unitPrice"`
	TotalPrice      float64         `json:"totalPrice"`
	TotalDiscount   float64         `json:"totalDiscount"`
	NormalPrice     float64         `json:"normalPrice"`
	DiscountedPrice *float64        `json:"discountedPrice,omitempty"`
	Image           string          `json:"image,omitempty"`
	Category        string          `json:"category,omitempty"`
	CreatedAt       time.Time       `json:"createdAt,omitempty"`

	// Set only for package-typed entries.
	PackageID   string `json:"packageId,omitempty"`
	PackageName string `json:"packageName,omitempty"`
}
