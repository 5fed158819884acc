package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shiv-727-nov/E-commerce/internal/apperr"
)

func TestQuoteFor_BelowThreshold(t *testing.T) {
	q := QuoteFor(450)
	assert.Equal(t, 450.0, q.Subtotal)
	assert.Equal(t, 50.0, q.Shipping)
	assert.Equal(t, 36.00, q.Tax)
	assert.Equal(t, 536.00, q.Total)
}

func TestQuoteFor_AboveThreshold(t *testing.T) {
	q := QuoteFor(600)
	assert.Equal(t, 0.0, q.Shipping)
	assert.Equal(t, 48.00, q.Tax)
	assert.Equal(t, 648.00, q.Total)
}

func TestQuoteFor_ExactBoundaryStillPaysShipping(t *testing.T) {
	q := QuoteFor(500)
	assert.Equal(t, 50.0, q.Shipping)
	assert.Equal(t, 40.00, q.Tax)
	assert.Equal(t, 590.00, q.Total)
}

func TestQuoteFor_TaxRoundsToTwoDecimals(t *testing.T) {
	q := QuoteFor(100.10)
	assert.Equal(t, 8.01, q.Tax) // 8.008 rounds up
}

func TestShippingDetails_Validate(t *testing.T) {
	valid := ShippingDetails{
		FullName:   "Jane Doe",
		Address:    "12 High Street",
		City:       "Pune",
		State:      "MH",
		PostalCode: "411001",
		Phone:      "9876543210",
	}
	assert.NoError(t, valid.Validate())

	missing := valid
	missing.City = ""
	err := missing.Validate()
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	ae, ok := apperr.As(err)
	assert.True(t, ok)
	assert.Contains(t, ae.Fields, "City")
}

func TestShippingDetails_AddressLine(t *testing.T) {
	d := ShippingDetails{
		FullName:   "Jane Doe",
		Address:    "12 High Street",
		City:       "Pune",
		State:      "MH",
		PostalCode: "411001",
		Phone:      "9876543210",
	}
	assert.Equal(t, "Jane Doe, 12 High Street, Pune, MH - 411001, 9876543210", d.AddressLine())
}
