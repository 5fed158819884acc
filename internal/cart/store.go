// Package cart owns the local shopping cart. Mutations dispatch to the
// server and merge the confirmed result into the local collection;
// totals are always derived from local state after the latest applied
// mutation. Completions are applied in arrival order with a sequence
// guard, so a response that arrives after a newer mutation has already
// applied is discarded instead of resurrecting stale lines.
package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Shiv-727-nov/E-commerce/internal/api"
	"github.com/Shiv-727-nov/E-commerce/internal/apperr"
	"github.com/Shiv-727-nov/E-commerce/internal/domain"
	"github.com/Shiv-727-nov/E-commerce/internal/lifecycle"
	"github.com/Shiv-727-nov/E-commerce/internal/notify"
)

type API interface {
	GetCart(ctx context.Context) ([]domain.CartItem, error)
	AddToCart(ctx context.Context, req api.AddToCartRequest) (domain.CartItem, error)
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) (domain.CartItem, error)
	RemoveFromCart(ctx context.Context, itemID int64) error
	ClearCart(ctx context.Context) error
}

type Gate interface {
	RequireAuth() error
}

// Catalog is the slice of the product store the cart consults: a
// product must be known before it can be added.
type Catalog interface {
	Known(id int64) bool
}

type Store struct {
	mu       sync.Mutex
	api      API
	gate     Gate
	catalog  Catalog
	notifier notify.Notifier
	logger   *slog.Logger

	items []domain.CartItem
	life  lifecycle.Resource
}

func NewStore(cartAPI API, gate Gate, catalog Catalog, notifier notify.Notifier, logger *slog.Logger) *Store {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		api:      cartAPI,
		gate:     gate,
		catalog:  catalog,
		notifier: notifier,
		logger:   logger,
	}
}

// Fetch replaces the whole local cart with the server's canonical line
// list. Used on session start and after external mutation. As a
// primary fetch, a failure clears the local cart.
func (s *Store) Fetch(ctx context.Context) error {
	if err := s.gate.RequireAuth(); err != nil {
		return err
	}

	s.mu.Lock()
	seq := s.life.Begin()
	s.mu.Unlock()

	items, err := s.api.GetCart(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if s.life.Reject(seq, apperr.PublicMessage(err, "Failed to fetch cart items")) {
			s.items = nil
		}
		return err
	}
	if s.life.Fulfill(seq) {
		s.items = items
	}
	return nil
}

// Add puts quantity units of a product in the cart. The server keeps
// at most one line per product; its response quantity is the amount
// added by this call (a delta), so an existing local line is
// incremented by it rather than overwritten.
func (s *Store) Add(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return apperr.ValidationErr("Quantity must be at least 1", nil)
	}
	if !s.catalog.Known(productID) {
		return apperr.ValidationErr("Unknown product", nil)
	}
	if err := s.gate.RequireAuth(); err != nil {
		return err
	}

	s.mu.Lock()
	seq := s.life.Begin()
	s.mu.Unlock()

	line, err := s.api.AddToCart(ctx, api.AddToCartRequest{ProductID: productID, Quantity: quantity})
	s.mu.Lock()
	if err != nil {
		s.life.Reject(seq, apperr.PublicMessage(err, "Failed to add to cart"))
		s.mu.Unlock()
		s.notifier.Error(apperr.PublicMessage(err, "Failed to add to cart"))
		return err
	}
	if s.life.Fulfill(seq) {
		merged := false
		for i := range s.items {
			if s.items[i].ProductID == line.ProductID {
				s.items[i].Quantity += line.Quantity
				merged = true
				break
			}
		}
		if !merged {
			s.items = append(s.items, line)
		}
	}
	s.mu.Unlock()

	s.notifier.Success("Added to cart!")
	return nil
}

// Update sets the quantity of one line. The matching line is replaced
// wholesale with the server response. Quantity zero is not an update;
// use Remove.
func (s *Store) Update(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 1 {
		return apperr.ValidationErr("Quantity must be at least 1, remove the item instead", nil)
	}
	if err := s.gate.RequireAuth(); err != nil {
		return err
	}

	s.mu.Lock()
	seq := s.life.Begin()
	s.mu.Unlock()

	line, err := s.api.UpdateCartItem(ctx, itemID, quantity)
	s.mu.Lock()
	if err != nil {
		s.life.Reject(seq, apperr.PublicMessage(err, "Failed to update cart"))
		s.mu.Unlock()
		s.notifier.Error(apperr.PublicMessage(err, "Failed to update cart"))
		return err
	}
	if s.life.Fulfill(seq) {
		for i := range s.items {
			if s.items[i].ID == line.ID {
				s.items[i] = line
				break
			}
		}
	}
	s.mu.Unlock()

	s.notifier.Success("Cart updated!")
	return nil
}

// Remove deletes one line, keyed by line id.
func (s *Store) Remove(ctx context.Context, itemID int64) error {
	if err := s.gate.RequireAuth(); err != nil {
		return err
	}

	s.mu.Lock()
	seq := s.life.Begin()
	s.mu.Unlock()

	err := s.api.RemoveFromCart(ctx, itemID)
	s.mu.Lock()
	if err != nil {
		s.life.Reject(seq, apperr.PublicMessage(err, "Failed to remove from cart"))
		s.mu.Unlock()
		s.notifier.Error(apperr.PublicMessage(err, "Failed to remove from cart"))
		return err
	}
	if s.life.Fulfill(seq) {
		filtered := s.items[:0]
		for _, it := range s.items {
			if it.ID != itemID {
				filtered = append(filtered, it)
			}
		}
		s.items = filtered
	}
	s.mu.Unlock()

	s.notifier.Success("Item removed from cart!")
	return nil
}

// Clear empties the local cart unconditionally once the server
// confirms.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.gate.RequireAuth(); err != nil {
		return err
	}

	s.mu.Lock()
	seq := s.life.Begin()
	s.mu.Unlock()

	err := s.api.ClearCart(ctx)
	s.mu.Lock()
	if err != nil {
		s.life.Reject(seq, apperr.PublicMessage(err, "Failed to clear cart"))
		s.mu.Unlock()
		s.notifier.Error(apperr.PublicMessage(err, "Failed to clear cart"))
		return err
	}
	if s.life.Fulfill(seq) {
		s.items = nil
	}
	s.mu.Unlock()

	s.notifier.Success("Cart cleared!")
	return nil
}

func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Subtotal is derived from local state after the latest applied
// mutation, never from a stale snapshot.
func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, it := range s.items {
		total += it.LineTotal()
	}
	return total
}

func (s *Store) State() lifecycle.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.life.State()
}

// Reset drops local cart state. Called on logout; the server-side cart
// belongs to the identity and is re-fetched on the next login.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.life.Reset()
}
