package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Shiv-727-nov/E-commerce/internal/domain"
)

type CreateOrderRequest struct {
	TotalAmount     float64 `json:"totalAmount"`
	ShippingAddress string  `json:"shippingAddress"`
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID int64) (domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil, nil, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodPost, "/orders", nil, req, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// paymentOrderResponse carries the gateway-scoped order reference the
// payment step hands to the external checkout UI.
type paymentOrderResponse struct {
	RazorpayOrderID string `json:"razorpayOrderId"`
}

func (c *Client) CreatePaymentOrder(ctx context.Context, orderID int64) (string, error) {
	var resp paymentOrderResponse
	path := fmt.Sprintf("/orders/%d/payment", orderID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.RazorpayOrderID, nil
}

// VerifyPayment asks the server to validate the gateway signature for
// the given order. The server is the sole arbiter of validity.
func (c *Client) VerifyPayment(ctx context.Context, orderID int64, paymentID, signature string) error {
	query := url.Values{
		"paymentId": []string{paymentID},
		"signature": []string{signature},
	}
	path := fmt.Sprintf("/orders/%d/verify-payment", orderID)
	return c.do(ctx, http.MethodPost, path, query, nil, nil)
}

// Admin order management

func (c *Client) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/admin/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (domain.Order, error) {
	var order domain.Order
	query := url.Values{"status": []string{string(status)}}
	path := fmt.Sprintf("/admin/orders/%d/status", orderID)
	if err := c.do(ctx, http.MethodPut, path, query, nil, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}
