package orders

import (
	"context"

	"github.com/Shiv-727-nov/E-commerce/internal/apperr"
	"github.com/Shiv-727-nov/E-commerce/internal/domain"
)

// FetchAllOrders loads every order in the system. Admin only.
func (s *Store) FetchAllOrders(ctx context.Context) error {
	if err := s.gate.RequireAdmin(); err != nil {
		return err
	}
	return s.fetchList(ctx, s.api.ListAllOrders)
}

// UpdateStatus submits a status change for one order. The new status
// is applied locally only after the server confirms it; there is no
// optimistic local transition.
func (s *Store) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	if err := s.gate.RequireAdmin(); err != nil {
		return err
	}

	s.mu.Lock()
	seq := s.life.Begin()
	s.mu.Unlock()

	updated, err := s.api.UpdateOrderStatus(ctx, orderID, status)
	s.mu.Lock()
	if err != nil {
		msg := apperr.PublicMessage(err, "Failed to update order status")
		s.life.Reject(seq, msg)
		s.mu.Unlock()
		s.notifier.Error(msg)
		return err
	}
	if s.life.Fulfill(seq) {
		for i := range s.orders {
			if s.orders[i].ID == updated.ID {
				s.orders[i] = updated
				break
			}
		}
		if s.current != nil && s.current.ID == updated.ID {
			copyOrder := updated
			s.current = &copyOrder
		}
	}
	s.mu.Unlock()

	s.notifier.Success("Order status updated!")
	return nil
}
