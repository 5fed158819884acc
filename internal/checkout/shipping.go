package checkout

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Shiv-727-nov/E-commerce/internal/apperr"
)

var validate = validator.New()

// ShippingDetails is the checkout form input. Validation happens
// locally before any order is dispatched.
type ShippingDetails struct {
	FullName   string `validate:"required"`
	Address    string `validate:"required"`
	City       string `validate:"required"`
	State      string `validate:"required"`
	PostalCode string `validate:"required,numeric,len=6"`
	Phone      string `validate:"required,min=10"`
}

// Validate returns a Validation apperr naming the offending fields, or
// nil.
func (d ShippingDetails) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if ok := asValidationErrors(err, &verrs); ok {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	return apperr.ValidationErr("Please fill in all shipping details", fields)
}

// AddressLine flattens the details into the single shipping address
// string the order API expects.
func (d ShippingDetails) AddressLine() string {
	return fmt.Sprintf("%s, %s, %s, %s - %s, %s", d.FullName, d.Address, d.City, d.State, d.PostalCode, d.Phone)
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}
