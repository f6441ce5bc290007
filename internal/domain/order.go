package domain

// PaymentMethod is how the order will be paid.
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// DeliveryMethod selects between home delivery and in-store pickup.
type DeliveryMethod string

const (
	DeliveryHome   DeliveryMethod = "home"
	DeliveryPickup DeliveryMethod = "pickup"
)

// BuildingType discriminates the address shape for home delivery.
// Matching is case-insensitive.
type BuildingType string

const (
	BuildingApartment BuildingType = "apartment"
	BuildingHouse     BuildingType = "house"
)

// OrderLineType tags an order line as a plain product or a package
// constituent.
type OrderLineType string

const (
	LineTypeProduct OrderLineType = "product"
	LineTypePackage OrderLineType = "package"
)

// OrderLine is one line of the submitted order. For package lines ID is
// the constituent record's own identifier, never the package id; the
// backend reconciles package contents through PackageID.
type OrderLine struct {
	ID            string          `json:"id"`
	Unit          MeasurementUnit `json:"unit"`
	Quantity      float64         `json:"qty"`
	TotalDiscount float64         `json:"totalDiscount"`
	TotalPrice    *float64        `json:"totalPrice"`
	ItemType      OrderLineType   `json:"itemType"`
	PackageID     string          `json:"packageId,omitempty"`
	RecordID      string          `json:"recordId,omitempty"`
}

// CheckoutDetails is the fully populated checkout form. Address fields are
// conditionally required depending on delivery method and building type;
// the validator owns those rules.
type CheckoutDetails struct {
	DeliveryMethod string `json:"deliveryMethod"`
	Title          string `json:"title"`
	FullName       string `json:"fullName"`
	PhoneCode1     string `json:"phoneCode1"`
	Phone1         string `json:"phone1"`
	PhoneCode2     string `json:"phoneCode2,omitempty"`
	Phone2         string `json:"phone2,omitempty"`

	City         string `json:"city,omitempty"`
	BuildingType string `json:"buildingType,omitempty"`
	BuildingNo   string `json:"buildingNo,omitempty"`
	BuildingName string `json:"buildingName,omitempty"`
	FlatNo       string `json:"flatNo,omitempty"`
	FloorNo      string `json:"floorNo,omitempty"`
	HouseNo      string `json:"houseNo,omitempty"`
	StreetName   string `json:"streetName,omitempty"`

	DeliveryDate string `json:"deliveryDate"`
	TimeSlot     string `json:"timeSlot"`

	CouponCode  string  `json:"couponCode,omitempty"`
	CouponValue float64 `json:"couponValue,omitempty"`
}

// OrderPayload is the wire format submitted to the order-creation endpoint.
// It is built once per checkout attempt and never mutated after validation.
type OrderPayload struct {
	CartID         string          `json:"cartId"`
	PaymentMethod  string          `json:"paymentMethod"`
	DiscountAmount *float64        `json:"discountAmount"`
	GrandTotal     float64         `json:"grandTotal"`
	OrderApp       string          `json:"orderApp"`
	Items          []OrderLine     `json:"items"`
	Checkout       CheckoutDetails `json:"checkout"`
}
