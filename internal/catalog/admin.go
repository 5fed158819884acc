package catalog

import (
	"context"

	"github.com/Shiv-727-nov/E-commerce/internal/apperr"
	"github.com/Shiv-727-nov/E-commerce/internal/domain"
)

// CreateProduct adds a product to the catalog. Admin only; the new
// product is merged into the local listing on success.
func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return domain.Product{}, err
	}

	created, err := s.api.CreateProduct(ctx, product)
	if err != nil {
		s.notifier.Error(apperr.PublicMessage(err, "Failed to create product"))
		return domain.Product{}, err
	}

	s.mu.Lock()
	s.products = append(s.products, created)
	s.byID[created.ID] = created
	s.mu.Unlock()

	s.notifier.Success("Product created successfully!")
	return created, nil
}

// UpdateProduct replaces the matching product with the server's copy.
func (s *Store) UpdateProduct(ctx context.Context, id int64, product domain.Product) (domain.Product, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return domain.Product{}, err
	}

	updated, err := s.api.UpdateProduct(ctx, id, product)
	if err != nil {
		s.notifier.Error(apperr.PublicMessage(err, "Failed to update product"))
		return domain.Product{}, err
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == updated.ID {
			s.products[i] = updated
			break
		}
	}
	s.byID[updated.ID] = updated
	s.mu.Unlock()

	s.notifier.Success("Product updated successfully!")
	return updated, nil
}

// DeleteProduct removes the product locally once the server confirms.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.gate.RequireAdmin(); err != nil {
		return err
	}

	if err := s.api.DeleteProduct(ctx, id); err != nil {
		s.notifier.Error(apperr.PublicMessage(err, "Failed to delete product"))
		return err
	}

	s.mu.Lock()
	filtered := s.products[:0]
	for _, p := range s.products {
		if p.ID != id {
			filtered = append(filtered, p)
		}
	}
	s.products = filtered
	delete(s.byID, id)
	s.mu.Unlock()

	s.notifier.Success("Product deleted successfully!")
	return nil
}

// LowStockProducts fetches the server's low-stock listing. Admin only.
func (s *Store) LowStockProducts(ctx context.Context, threshold int) ([]domain.Product, error) {
	if err := s.gate.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.api.LowStockProducts(ctx, threshold)
}
