package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// statusRank positions each fulfilment status on the forward path.
// CANCELLED sits outside the path and is handled separately.
var statusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
}

// CanTransitionTo reports whether an order may move from one status to
// the next. Forward moves along the fulfilment path are allowed;
// CANCELLED is reachable from any non-terminal status; terminal
// statuses never move.
func CanTransitionTo(from, to OrderStatus) bool {
	if from == to {
		return false
	}
	if from.IsTerminal() {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// OrderItem is a cart line frozen at order-creation time. Price never
// changes after the order exists, whatever the catalog does later.
type OrderItem struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type Order struct {
	ID              int64       `json:"id"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"totalAmount"`
	Status          OrderStatus `json:"status"`
	ShippingAddress string      `json:"shippingAddress"`
	PaymentRef      string      `json:"paymentRef,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
}
