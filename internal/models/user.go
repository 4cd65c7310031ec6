package models

import "time"

// User represents a storefront account. Accounts are created either by
// signup or implicitly by the first OTP request for an unknown email.
type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex" json:"email"`
	PasswordHash string     `json:"-"`
	OTPHash      string     `json:"-"`
	OTPExpires   *time.Time `json:"-"`
	IsVerified   bool       `json:"is_verified"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`

	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`

	WishlistItems []WishlistItem `json:"wishlist_items,omitempty"`
	CartItems     []CartItem     `json:"cart_items,omitempty"`
	Orders        []Order        `json:"orders,omitempty"`
}

// HasPassword reports whether a password credential is set. OTP-only
// accounts never go through the password login route.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
