package models

import "github.com/google/uuid"

// CartItem is one line of a user's in-progress cart. The composite unique
// index guarantees at most one row per (user, product); add-to-cart relies
// on it for its atomic increment-on-conflict.
type CartItem struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	Quantity  int       `json:"quantity"`
}

// LineTotal returns the line's current price, zero when the product
// relation is not loaded.
func (i *CartItem) LineTotal() float64 {
	if i.Product == nil {
		return 0
	}
	return i.Product.Price * float64(i.Quantity)
}

// WishlistItem is one entry of a user's saved-items list, ordered by
// Position. Duplicates are excluded by the composite unique index.
type WishlistItem struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_wishlist_user_product" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_wishlist_user_product" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	Position  int       `json:"position"`
}
