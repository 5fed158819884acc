package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Shiv-727-nov/E-commerce/internal/domain"
)

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, nil, &product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (c *Client) ProductsByGender(ctx context.Context, gender string) ([]domain.Product, error) {
	var products []domain.Product
	path := "/products/gender/" + url.PathEscape(gender)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var products []domain.Product
	path := "/products/category/" + url.PathEscape(category)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) SearchProducts(ctx context.Context, keyword string) ([]domain.Product, error) {
	var products []domain.Product
	query := url.Values{"keyword": []string{keyword}}
	if err := c.do(ctx, http.MethodGet, "/products/search", query, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Admin product management

func (c *Client) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	var created domain.Product
	if err := c.do(ctx, http.MethodPost, "/admin/products", nil, product, &created); err != nil {
		return domain.Product{}, err
	}
	return created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, product domain.Product) (domain.Product, error) {
	var updated domain.Product
	path := fmt.Sprintf("/admin/products/%d", id)
	if err := c.do(ctx, http.MethodPut, path, nil, product, &updated); err != nil {
		return domain.Product{}, err
	}
	return updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/products/%d", id), nil, nil, nil)
}

func (c *Client) LowStockProducts(ctx context.Context, threshold int) ([]domain.Product, error) {
	var products []domain.Product
	query := url.Values{"threshold": []string{strconv.Itoa(threshold)}}
	if err := c.do(ctx, http.MethodGet, "/admin/products/low-stock", query, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}
