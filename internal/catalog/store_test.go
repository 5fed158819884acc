package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shiv-727-nov/E-commerce/internal/apperr"
	"github.com/Shiv-727-nov/E-commerce/internal/domain"
	"github.com/Shiv-727-nov/E-commerce/internal/lifecycle"
)

type mockCatalogAPI struct {
	products []domain.Product
	err      error

	detailCalls atomic.Int64
	detailGate  chan struct{} // when set, GetProduct blocks until closed
}

func (m *mockCatalogAPI) ListProducts(context.Context) ([]domain.Product, error) {
	return m.products, m.err
}

func (m *mockCatalogAPI) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	m.detailCalls.Add(1)
	if m.detailGate != nil {
		<-m.detailGate
	}
	if m.err != nil {
		return domain.Product{}, m.err
	}
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, apperr.ServerErr("Product not found", nil)
}

func (m *mockCatalogAPI) ProductsByGender(context.Context, string) ([]domain.Product, error) {
	return m.products, m.err
}

func (m *mockCatalogAPI) ProductsByCategory(context.Context, string) ([]domain.Product, error) {
	return m.products, m.err
}

func (m *mockCatalogAPI) SearchProducts(context.Context, string) ([]domain.Product, error) {
	return m.products, m.err
}

func (m *mockCatalogAPI) CreateProduct(_ context.Context, p domain.Product) (domain.Product, error) {
	if m.err != nil {
		return domain.Product{}, m.err
	}
	p.ID = 100
	return p, nil
}

func (m *mockCatalogAPI) UpdateProduct(_ context.Context, id int64, p domain.Product) (domain.Product, error) {
	p.ID = id
	return p, m.err
}

func (m *mockCatalogAPI) DeleteProduct(context.Context, int64) error {
	return m.err
}

func (m *mockCatalogAPI) LowStockProducts(context.Context, int) ([]domain.Product, error) {
	return m.products, m.err
}

type allowAll struct{}

func (allowAll) RequireAdmin() error { return nil }

type denyAll struct{}

func (denyAll) RequireAdmin() error {
	return apperr.AuthorizationErr("Admin access required")
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Runner", Brand: "Apex", Price: 120, StockQuantity: 12},
		{ID: 2, Name: "Trail", Brand: "Apex", Price: 150, StockQuantity: 3},
		{ID: 3, Name: "Court", Brand: "Volley", Price: 90, StockQuantity: 5},
	}
}

func TestFetchProducts_ReplacesListing(t *testing.T) {
	mock := &mockCatalogAPI{products: sampleProducts()}
	store := NewStore(mock, allowAll{}, nil, nil)

	require.NoError(t, store.FetchProducts(context.Background()))
	assert.Len(t, store.Products(), 3)
	assert.Equal(t, lifecycle.StatusFulfilled, store.State().Status)
	assert.True(t, store.Known(2))
}

func TestFetchProducts_FailureClearsListing(t *testing.T) {
	mock := &mockCatalogAPI{products: sampleProducts()}
	store := NewStore(mock, allowAll{}, nil, nil)
	require.NoError(t, store.FetchProducts(context.Background()))

	mock.err = apperr.NetworkErr("Network error, please try again", nil)
	require.Error(t, store.FetchProducts(context.Background()))

	// Primary fetch: failure surfaces an explicit empty state
	assert.Empty(t, store.Products())
	assert.Equal(t, lifecycle.StatusRejected, store.State().Status)
}

func TestSearch_KeepsMainListing(t *testing.T) {
	mock := &mockCatalogAPI{products: sampleProducts()}
	store := NewStore(mock, allowAll{}, nil, nil)
	require.NoError(t, store.FetchProducts(context.Background()))

	mock.products = sampleProducts()[:1]
	require.NoError(t, store.Search(context.Background(), "runner"))

	assert.Len(t, store.SearchResults(), 1)
	assert.Len(t, store.Products(), 3)
}

func TestProduct_ServedFromCacheAfterListFetch(t *testing.T) {
	mock := &mockCatalogAPI{products: sampleProducts()}
	store := NewStore(mock, allowAll{}, nil, nil)
	require.NoError(t, store.FetchProducts(context.Background()))

	p, err := store.Product(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Trail", p.Name)
	assert.Equal(t, int64(0), mock.detailCalls.Load(), "cache hit must not dispatch a request")
}

func TestProduct_ConcurrentMissesCollapse(t *testing.T) {
	gate := make(chan struct{})
	mock := &mockCatalogAPI{products: sampleProducts(), detailGate: gate}
	store := NewStore(mock, allowAll{}, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := store.Product(context.Background(), 1)
			assert.NoError(t, err)
			assert.Equal(t, int64(1), p.ID)
		}()
	}
	close(gate)
	wg.Wait()

	assert.Equal(t, int64(1), mock.detailCalls.Load(), "concurrent misses for one id collapse into one request")
}

func TestLowStockCount_DerivedFromListing(t *testing.T) {
	mock := &mockCatalogAPI{products: sampleProducts()}
	store := NewStore(mock, allowAll{}, nil, nil)
	require.NoError(t, store.FetchProducts(context.Background()))

	assert.Equal(t, 2, store.LowStockCount(5))
	assert.Equal(t, 0, store.LowStockCount(1))
}

func TestCreateProduct_MergesIntoListing(t *testing.T) {
	mock := &mockCatalogAPI{products: sampleProducts()}
	store := NewStore(mock, allowAll{}, nil, nil)
	require.NoError(t, store.FetchProducts(context.Background()))

	created, err := store.CreateProduct(context.Background(), domain.Product{Name: "Slide", Price: 40})
	require.NoError(t, err)
	assert.Equal(t, int64(100), created.ID)
	assert.Len(t, store.Products(), 4)
}

func TestDeleteProduct_FiltersListing(t *testing.T) {
	mock := &mockCatalogAPI{products: sampleProducts()}
	store := NewStore(mock, allowAll{}, nil, nil)
	require.NoError(t, store.FetchProducts(context.Background()))

	require.NoError(t, store.DeleteProduct(context.Background(), 2))
	assert.Len(t, store.Products(), 2)
	assert.False(t, store.Known(2))
}

func TestAdminOps_GatedForCustomers(t *testing.T) {
	mock := &mockCatalogAPI{products: sampleProducts()}
	store := NewStore(mock, denyAll{}, nil, nil)
	require.NoError(t, store.FetchProducts(context.Background()))

	_, err := store.CreateProduct(context.Background(), domain.Product{Name: "Slide"})
	assert.True(t, apperr.IsKind(err, apperr.Authorization))

	err = store.DeleteProduct(context.Background(), 1)
	assert.True(t, apperr.IsKind(err, apperr.Authorization))

	// No state mutation happened
	assert.Len(t, store.Products(), 3)
}
