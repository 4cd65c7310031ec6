// Package pricing is the single place where cart totals are derived. The
// cart page, checkout page, and order creation all call Calculate so the
// numbers can never drift between views.
package pricing

import "math"

const (
	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	FreeShippingThreshold = 50.0
	// FlatShippingFee applies to every order below the threshold.
	FlatShippingFee = 9.99
	// TaxRate is applied to the subtotal only, never to shipping.
	TaxRate = 0.08
)

// Line is one priced cart or order line.
type Line struct {
	UnitPrice float64
	Quantity  int
}

// Quote holds the derived totals for a set of lines.
type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Calculate derives subtotal, shipping, tax, and total from the given
// lines, each component rounded to cents.
func Calculate(lines []Line) Quote {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.UnitPrice * float64(line.Quantity)
	}
	subtotal = roundCents(subtotal)

	shipping := FlatShippingFee
	if subtotal >= FreeShippingThreshold {
		shipping = 0
	}

	tax := roundCents(subtotal * TaxRate)

	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    roundCents(subtotal + shipping + tax),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
