package domain

import "time"

// MeasurementUnit is the closed set of units a cart item can be priced in.
type MeasurementUnit string

const (
	UnitKilogram MeasurementUnit = "kg"
	UnitGram     MeasurementUnit = "g"
	UnitPiece    MeasurementUnit = "unit"
	UnitPackage  MeasurementUnit = "package"
)

func (u MeasurementUnit) String() string {
	return string(u)
}

// PackageLine is one named constituent of a package bundle.
type PackageLine struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Special  bool    `json:"special"`
}

// Package is a curated bundle priced as a whole. Its price never scales
// with constituent quantities.
type Package struct {
	ID         string        `json:"id"`
	CartItemID string        `json:"cartItemId"`
	Name       string        `json:"name"`
	Price      float64       `json:"price"`
	Quantity   float64       `json:"quantity"`
	Image      string        `json:"image,omitempty"`
	Lines      []PackageLine `json:"lines"`
}

// RawCartItem is an individually priced, individually discountable entry
// as returned by the backend inside an AdditionalItemGroup.
type RawCartItem struct {
	ID              string          `json:"id"`
	CartItemID      string          `json:"cartItemId"`
	Name            string          `json:"name"`
	Unit            MeasurementUnit `json:"unit"`
	Quantity        float64         `json:"quantity"`
	Discount        float64         `json:"discount"`
	Price           float64         `json:"price"`
	DiscountedPrice *float64        `json:"discountedPrice,omitempty"`
	NormalPrice     float64         `json:"normalPrice"`
	Image           string          `json:"image,omitempty"`
	Category        string          `json:"category,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// AdditionalItemGroup is a named grouping of raw cart items.
type AdditionalItemGroup struct {
	Name  string        `json:"name"`
	Items []RawCartItem `json:"items"`
}

// CartSummary carries the backend-computed counters and totals. The engine
// never recomputes these locally; they change only on fetch or via an
// explicit partial patch, so they may lag behind local mutations.
type CartSummary struct {
	PackageCount   int     `json:"packageCount"`
	ProductCount   int     `json:"productCount"`
	PackageTotal   float64 `json:"packageTotal"`
	ProductTotal   float64 `json:"productTotal"`
	GrandTotal     float64 `json:"grandTotal"`
	ItemCount      int     `json:"itemCount"`
	CouponDiscount float64 `json:"couponDiscount"`
	FinalTotal     float64 `json:"finalTotal"`
}

// SummaryPatch is a partial update for CartSummary. Nil fields are left
// untouched.
type SummaryPatch struct {
	PackageCount   *int     `json:"packageCount,omitempty"`
	ProductCount   *int     `json:"productCount,omitempty"`
	PackageTotal   *float64 `json:"packageTotal,omitempty"`
	ProductTotal   *float64 `json:"productTotal,omitempty"`
	GrandTotal     *float64 `json:"grandTotal,omitempty"`
	ItemCount      *int     `json:"itemCount,omitempty"`
	CouponDiscount *float64 `json:"couponDiscount,omitempty"`
	FinalTotal     *float64 `json:"finalTotal,omitempty"`
}

// FetchedCart is the raw payload returned by the backend cart endpoint.
type FetchedCart struct {
	CartID          string                `json:"cartId"`
	Packages        []Package             `json:"packages"`
	AdditionalItems []AdditionalItemGroup `json:"additionalItems"`
	Summary         *CartSummary          `json:"summary,omitempty"`
}
