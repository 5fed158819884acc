package domain

import (
	"math"
	"time"
)

// PaymentIntent is the gateway-scoped handle for an amount to be
// charged. It lives only between "payment requested" and "payment
// verified/failed" and is never persisted.
type PaymentIntent struct {
	OrderID          int64
	GatewayOrderID   string
	AmountMinorUnits int64
	Currency         string
	CreatedAt        time.Time
}

// MinorUnits converts a decimal amount to integer minor units
// (e.g. rupees to paise).
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
