package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is an immutable snapshot of a completed checkout. Line items carry
// the price captured at purchase time, decoupled from the live catalog.
type Order struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User        *User     `json:"user,omitempty"`
	OrderNumber string    `gorm:"uniqueIndex" json:"order_number"`
	Status      string    `json:"status"`
	PlacedAt    time.Time `json:"placed_at"`

	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`

	ShippingFirstName   string `json:"shipping_first_name"`
	ShippingLastName    string `json:"shipping_last_name"`
	ShippingPhone       string `json:"shipping_phone"`
	ShippingAddressLine string `json:"shipping_address_line"`
	ShippingCity        string `json:"shipping_city"`
	ShippingState       string `json:"shipping_state"`
	ShippingPostalCode  string `json:"shipping_postal_code"`
	ShippingCountry     string `json:"shipping_country"`

	PaymentMethod string      `json:"payment_method"`
	Notes         string      `json:"notes"`
	Items         []OrderItem `json:"items,omitempty"`
}

// OrderItem is one purchased line. ProductID is nullable so deleting a
// catalog record never breaks order history.
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	ProductID   *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	ProductName string     `json:"product_name"`
	Image       string     `json:"image"`
	Quantity    int        `json:"quantity"`
	UnitPrice   float64    `json:"unit_price"`
	LineTotal   float64    `json:"line_total"`
}
