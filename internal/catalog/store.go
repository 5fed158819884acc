// Package catalog is the read-mostly product store feeding price and
// name data to the cart and order views, plus the admin product
// management operations.
package catalog

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Shiv-727-nov/E-commerce/internal/apperr"
	"github.com/Shiv-727-nov/E-commerce/internal/domain"
	"github.com/Shiv-727-nov/E-commerce/internal/lifecycle"
	"github.com/Shiv-727-nov/E-commerce/internal/notify"
)

type API interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	ProductsByGender(ctx context.Context, gender string) ([]domain.Product, error)
	ProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
	SearchProducts(ctx context.Context, keyword string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, product domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	LowStockProducts(ctx context.Context, threshold int) ([]domain.Product, error)
}

// Gate is the slice of the session store the catalog needs: admin
// operations are blocked before dispatch for non-elevated sessions.
type Gate interface {
	RequireAdmin() error
}

type Store struct {
	mu       sync.Mutex
	api      API
	gate     Gate
	notifier notify.Notifier
	logger   *slog.Logger
	sfg      singleflight.Group // dedupes concurrent detail fetches

	products      []domain.Product
	searchResults []domain.Product
	byID          map[int64]domain.Product

	listLife   lifecycle.Resource
	searchLife lifecycle.Resource
}

func NewStore(catalogAPI API, gate Gate, notifier notify.Notifier, logger *slog.Logger) *Store {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		api:      catalogAPI,
		gate:     gate,
		notifier: notifier,
		logger:   logger,
		byID:     make(map[int64]domain.Product),
	}
}

// FetchProducts replaces the listing with the server's canonical list.
// As a primary fetch, a failure clears the listing rather than leaving
// stale data behind.
func (s *Store) FetchProducts(ctx context.Context) error {
	return s.fetchList(ctx, func() ([]domain.Product, error) {
		return s.api.ListProducts(ctx)
	})
}

func (s *Store) FetchProductsByGender(ctx context.Context, gender string) error {
	return s.fetchList(ctx, func() ([]domain.Product, error) {
		return s.api.ProductsByGender(ctx, gender)
	})
}

func (s *Store) FetchProductsByCategory(ctx context.Context, category string) error {
	return s.fetchList(ctx, func() ([]domain.Product, error) {
		return s.api.ProductsByCategory(ctx, category)
	})
}

func (s *Store) fetchList(ctx context.Context, fetch func() ([]domain.Product, error)) error {
	s.mu.Lock()
	seq := s.listLife.Begin()
	s.mu.Unlock()

	products, err := fetch()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if s.listLife.Reject(seq, apperr.PublicMessage(err, "Failed to fetch products")) {
			s.products = nil
		}
		return err
	}
	if s.listLife.Fulfill(seq) {
		s.products = products
		for _, p := range products {
			s.byID[p.ID] = p
		}
	}
	return nil
}

// Search fills the search results without disturbing the main listing.
func (s *Store) Search(ctx context.Context, keyword string) error {
	s.mu.Lock()
	seq := s.searchLife.Begin()
	s.mu.Unlock()

	results, err := s.api.SearchProducts(ctx, keyword)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.searchLife.Reject(seq, apperr.PublicMessage(err, "Search failed"))
		return err
	}
	if s.searchLife.Fulfill(seq) {
		s.searchResults = results
	}
	return nil
}

// Product returns one product, served from the local cache when
// possible. Concurrent misses for the same id collapse into a single
// request.
func (s *Store) Product(ctx context.Context, id int64) (domain.Product, error) {
	s.mu.Lock()
	if p, ok := s.byID[id]; ok {
		s.mu.Unlock()
		return p, nil
	}
	s.mu.Unlock()

	v, err, _ := s.sfg.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		p, err := s.api.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.byID[p.ID] = p
		s.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return v.(domain.Product), nil
}

// Known reports whether a product id has been seen by the catalog.
func (s *Store) Known(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[id]
	return ok
}

func (s *Store) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) SearchResults() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.searchResults))
	copy(out, s.searchResults)
	return out
}

func (s *Store) State() lifecycle.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLife.State()
}

// LowStockCount is a pure projection over the cached listing, not a
// separately stored value.
func (s *Store) LowStockCount(threshold int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, p := range s.products {
		if p.StockQuantity <= threshold {
			count++
		}
	}
	return count
}

// Reset drops all cached catalog state. Called on logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
	s.searchResults = nil
	s.byID = make(map[int64]domain.Product)
	s.listLife.Reset()
	s.searchLife.Reset()
}
