package models

// Product is a catalog record. Category is stored lowercase; rating and
// num_ratings default at creation time when the admin form leaves them blank.
type Product struct {
	BaseModel
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Brand         string   `json:"brand"`
	Image         string   `json:"image"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Category      string   `gorm:"index" json:"category"`
	Rating        float64  `json:"rating"`
	NumRatings    int      `json:"num_ratings"`
}

// HasDiscount reports whether an original price is set above the current one.
func (p *Product) HasDiscount() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}

// WasPrice returns the original price for display, or zero when unset.
func (p *Product) WasPrice() float64 {
	if p.OriginalPrice == nil {
		return 0
	}
	return *p.OriginalPrice
}
