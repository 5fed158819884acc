// Package orders is the order orchestrator: it creates orders from the
// cart plus shipping details and mirrors order status as confirmed by
// the server. Status is never computed locally; a fetched status that
// would move an order backward is ignored so the locally observed
// sequence stays monotonic.
package orders

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Shiv-727-nov/E-commerce/internal/api"
	"github.com/Shiv-727-nov/E-commerce/internal/apperr"
	"github.com/Shiv-727-nov/E-commerce/internal/checkout"
	"github.com/Shiv-727-nov/E-commerce/internal/domain"
	"github.com/Shiv-727-nov/E-commerce/internal/lifecycle"
	"github.com/Shiv-727-nov/E-commerce/internal/notify"
)

type API interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, orderID int64) (domain.Order, error)
	CreateOrder(ctx context.Context, req api.CreateOrderRequest) (domain.Order, error)
	ListAllOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (domain.Order, error)
}

type Gate interface {
	RequireAuth() error
	RequireAdmin() error
}

type Store struct {
	mu       sync.Mutex
	api      API
	gate     Gate
	notifier notify.Notifier
	logger   *slog.Logger

	orders  []domain.Order
	current *domain.Order
	life    lifecycle.Resource
}

func NewStore(ordersAPI API, gate Gate, notifier notify.Notifier, logger *slog.Logger) *Store {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		api:      ordersAPI,
		gate:     gate,
		notifier: notifier,
		logger:   logger,
	}
}

// FetchOrders refreshes the order list from the server.
func (s *Store) FetchOrders(ctx context.Context) error {
	if err := s.gate.RequireAuth(); err != nil {
		return err
	}
	return s.fetchList(ctx, s.api.ListOrders)
}

func (s *Store) fetchList(ctx context.Context, list func(context.Context) ([]domain.Order, error)) error {
	s.mu.Lock()
	seq := s.life.Begin()
	s.mu.Unlock()

	fetched, err := list(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if s.life.Reject(seq, apperr.PublicMessage(err, "Failed to fetch orders")) {
			s.orders = nil
			s.current = nil
		}
		return err
	}
	if s.life.Fulfill(seq) {
		s.orders = s.reconcile(fetched)
	}
	return nil
}

// reconcile applies a fetched list over the local one, keeping the
// local status whenever the fetched value would move an order
// backward.
func (s *Store) reconcile(fetched []domain.Order) []domain.Order {
	known := make(map[int64]domain.Order, len(s.orders))
	for _, o := range s.orders {
		known[o.ID] = o
	}

	out := make([]domain.Order, 0, len(fetched))
	for _, incoming := range fetched {
		local, ok := known[incoming.ID]
		if ok {
			incoming.Status = s.acceptStatus(local, incoming.Status)
		}
		out = append(out, incoming)
		if s.current != nil && s.current.ID == incoming.ID {
			copyOrder := incoming
			s.current = &copyOrder
		}
	}
	return out
}

func (s *Store) acceptStatus(local domain.Order, incoming domain.OrderStatus) domain.OrderStatus {
	if incoming == local.Status || domain.CanTransitionTo(local.Status, incoming) {
		return incoming
	}
	s.logger.Warn("ignoring backward status from server",
		slog.Int64("order_id", local.ID),
		slog.String("local", local.Status.String()),
		slog.String("incoming", incoming.String()))
	return local.Status
}

// FetchOrder loads one order and makes it the current order.
func (s *Store) FetchOrder(ctx context.Context, orderID int64) (domain.Order, error) {
	if err := s.gate.RequireAuth(); err != nil {
		return domain.Order{}, err
	}

	s.mu.Lock()
	seq := s.life.Begin()
	s.mu.Unlock()

	order, err := s.api.GetOrder(ctx, orderID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.life.Reject(seq, apperr.PublicMessage(err, "Failed to fetch order"))
		return domain.Order{}, err
	}
	if s.life.Fulfill(seq) {
		for i := range s.orders {
			if s.orders[i].ID == order.ID {
				order.Status = s.acceptStatus(s.orders[i], order.Status)
				s.orders[i] = order
				break
			}
		}
		copyOrder := order
		s.current = &copyOrder
	}
	return order, nil
}

// Create submits a new order built from the cart and shipping details.
// The checkout total is computed here. The cart is not cleared: that
// is an explicit follow-up step after payment succeeds.
func (s *Store) Create(ctx context.Context, items []domain.CartItem, details checkout.ShippingDetails) (domain.Order, error) {
	if len(items) == 0 {
		return domain.Order{}, apperr.ValidationErr("Your cart is empty", nil)
	}
	if err := details.Validate(); err != nil {
		return domain.Order{}, err
	}
	if err := s.gate.RequireAuth(); err != nil {
		return domain.Order{}, err
	}

	subtotal := 0.0
	for _, it := range items {
		subtotal += it.LineTotal()
	}
	quote := checkout.QuoteFor(subtotal)

	s.mu.Lock()
	seq := s.life.Begin()
	s.mu.Unlock()

	order, err := s.api.CreateOrder(ctx, api.CreateOrderRequest{
		TotalAmount:     quote.Total,
		ShippingAddress: details.AddressLine(),
	})
	s.mu.Lock()
	if err != nil {
		msg := apperr.PublicMessage(err, "Failed to create order")
		s.life.Reject(seq, msg)
		s.mu.Unlock()
		s.notifier.Error(msg)
		return domain.Order{}, err
	}
	if s.life.Fulfill(seq) {
		// New order goes to the head of the list
		s.orders = append([]domain.Order{order}, s.orders...)
		copyOrder := order
		s.current = &copyOrder
	}
	s.mu.Unlock()

	s.notifier.Success("Order created successfully!")
	return order, nil
}

func (s *Store) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Get looks up a locally held order by id.
func (s *Store) Get(orderID int64) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return domain.Order{}, false
}

// Current returns the order selected by the latest fetch/create, or
// false when none is set.
func (s *Store) Current() (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Order{}, false
	}
	return *s.current, true
}

func (s *Store) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

func (s *Store) State() lifecycle.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.life.State()
}

// Reset drops all local order state. Called on logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = nil
	s.current = nil
	s.life.Reset()
}
