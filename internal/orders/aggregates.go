package orders

import "github.com/Shiv-727-nov/E-commerce/internal/domain"

// Operator-view aggregates. All of these are projections recomputed
// from current state on every call, never cached.

// Count is the total number of orders currently held.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// Revenue sums the total amount of delivered orders.
func (s *Store) Revenue() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	revenue := 0.0
	for _, o := range s.orders {
		if o.Status == domain.OrderStatusDelivered {
			revenue += o.TotalAmount
		}
	}
	return revenue
}
