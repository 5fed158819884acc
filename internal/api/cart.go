package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Shiv-727-nov/E-commerce/internal/domain"
)

type AddToCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (c *Client) GetCart(ctx context.Context) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := c.do(ctx, http.MethodGet, "/cart", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) AddToCart(ctx context.Context, req AddToCartRequest) (domain.CartItem, error) {
	var item domain.CartItem
	if err := c.do(ctx, http.MethodPost, "/cart/add", nil, req, &item); err != nil {
		return domain.CartItem{}, err
	}
	return item, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (domain.CartItem, error) {
	var item domain.CartItem
	path := fmt.Sprintf("/cart/%d", itemID)
	if err := c.do(ctx, http.MethodPut, path, nil, UpdateCartItemRequest{Quantity: quantity}, &item); err != nil {
		return domain.CartItem{}, err
	}
	return item, nil
}

func (c *Client) RemoveFromCart(ctx context.Context, itemID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/%d", itemID), nil, nil, nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart/clear", nil, nil, nil)
}
