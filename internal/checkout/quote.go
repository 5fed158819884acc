// Package checkout computes the checkout totals and validates the
// shipping details collected before an order is submitted.
package checkout

import "math"

const (
	// FreeShippingThreshold is exclusive: a subtotal of exactly 500
	// still pays shipping.
	FreeShippingThreshold = 500.0
	FlatShippingFee       = 50.0
	TaxRate               = 0.08
)

// Quote is the full checkout total breakdown.
type Quote struct {
	Subtotal float64
	Shipping float64
	Tax      float64
	Total    float64
}

// QuoteFor computes the checkout totals for a cart subtotal. Pure and
// reproducible: same subtotal, same quote.
func QuoteFor(subtotal float64) Quote {
	shipping := FlatShippingFee
	if subtotal > FreeShippingThreshold {
		shipping = 0
	}
	tax := round2(subtotal * TaxRate)
	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal + shipping + tax,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
