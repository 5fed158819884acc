package domain

// CartItem is one product/quantity pairing within the cart. Price is
// the unit price reported by the server; Product is the catalog
// snapshot the server attaches to the line.
type CartItem struct {
	ID        int64    `json:"id"`
	ProductID int64    `json:"productId"`
	Quantity  int      `json:"quantity"`
	Price     float64  `json:"price"`
	Product   *Product `json:"product,omitempty"`
}

func (i CartItem) UnitPrice() float64 {
	if i.Price > 0 {
		return i.Price
	}
	if i.Product != nil {
		return i.Product.Price
	}
	return 0
}

func (i CartItem) LineTotal() float64 {
	return i.UnitPrice() * float64(i.Quantity)
}
