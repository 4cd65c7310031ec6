package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateAboveFreeShippingThreshold(t *testing.T) {
	quote := Calculate([]Line{
		{UnitPrice: 20, Quantity: 2},
		{UnitPrice: 15, Quantity: 1},
	})

	assert.Equal(t, 55.0, quote.Subtotal)
	assert.Equal(t, 0.0, quote.Shipping)
	assert.Equal(t, 4.40, quote.Tax)
	assert.Equal(t, 59.40, quote.Total)
}

func TestCalculateBelowFreeShippingThreshold(t *testing.T) {
	quote := Calculate([]Line{
		{UnitPrice: 10, Quantity: 2},
	})

	assert.Equal(t, 20.0, quote.Subtotal)
	assert.Equal(t, 9.99, quote.Shipping)
	assert.Equal(t, 1.60, quote.Tax)
	assert.Equal(t, 31.59, quote.Total)
}

func TestCalculateThresholdBoundary(t *testing.T) {
	exactly := Calculate([]Line{{UnitPrice: 50, Quantity: 1}})
	assert.Equal(t, 0.0, exactly.Shipping)

	justUnder := Calculate([]Line{{UnitPrice: 49.99, Quantity: 1}})
	assert.Equal(t, 9.99, justUnder.Shipping)
}

func TestCalculateEmptyCart(t *testing.T) {
	quote := Calculate(nil)

	assert.Equal(t, 0.0, quote.Subtotal)
	assert.Equal(t, 9.99, quote.Shipping)
	assert.Equal(t, 0.0, quote.Tax)
}

func TestCalculateRoundsToCents(t *testing.T) {
	quote := Calculate([]Line{{UnitPrice: 19.99, Quantity: 3}})

	assert.Equal(t, 59.97, quote.Subtotal)
	assert.Equal(t, 4.80, quote.Tax)
	assert.Equal(t, 64.77, quote.Total)
}
