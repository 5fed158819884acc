// Package payment drives the checkout payment handshake: create an
// intent with the gateway, hand the user to the external payment UI,
// and have the server verify the result. The flow reports its own
// sub-state only; order status stays owned by the order store and
// changes on the next authoritative fetch, never here.
package payment

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Shiv-727-nov/E-commerce/internal/apperr"
	"github.com/Shiv-727-nov/E-commerce/internal/domain"
	"github.com/Shiv-727-nov/E-commerce/internal/notify"
)

type Step string

const (
	StepNotStarted      Step = "NOT_STARTED"
	StepIntentCreated   Step = "INTENT_CREATED"
	StepAwaitingGateway Step = "AWAITING_GATEWAY"
	StepVerified        Step = "VERIFIED"
	StepFailed          Step = "FAILED"
)

type API interface {
	CreatePaymentOrder(ctx context.Context, orderID int64) (string, error)
	VerifyPayment(ctx context.Context, orderID int64, paymentID, signature string) error
}

// OrderSource is the slice of the order store the flow reads: it never
// writes order state.
type OrderSource interface {
	Get(orderID int64) (domain.Order, bool)
}

type Flow struct {
	mu       sync.Mutex
	api      API
	orders   OrderSource
	gateway  Gateway
	notifier notify.Notifier
	logger   *slog.Logger
	currency string

	step   Step
	intent *domain.PaymentIntent
}

func NewFlow(paymentAPI API, orders OrderSource, gateway Gateway, notifier notify.Notifier, logger *slog.Logger) *Flow {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Flow{
		api:      paymentAPI,
		orders:   orders,
		gateway:  gateway,
		notifier: notifier,
		logger:   logger,
		currency: "INR",
		step:     StepNotStarted,
	}
}

// CreateIntent opens a payment intent for a pending order. A prior
// settled intent is invalidated; while a gateway step is still running
// no new intent may be opened for any order, so the flow carries at
// most one in-flight payment and a late gateway result can never
// clobber a newer intent.
func (f *Flow) CreateIntent(ctx context.Context, orderID int64) (domain.PaymentIntent, error) {
	order, ok := f.orders.Get(orderID)
	if !ok {
		return domain.PaymentIntent{}, apperr.ValidationErr("Order not found", nil)
	}
	if order.Status != domain.OrderStatusPending {
		return domain.PaymentIntent{}, apperr.ValidationErr("Order is not awaiting payment", nil)
	}

	f.mu.Lock()
	if f.step == StepAwaitingGateway {
		f.mu.Unlock()
		return domain.PaymentIntent{}, apperr.GatewayErr("A payment is already in progress", nil)
	}
	// A fresh intent invalidates whatever came before it
	f.intent = nil
	f.mu.Unlock()

	gatewayOrderID, err := f.api.CreatePaymentOrder(ctx, orderID)
	if err != nil {
		f.fail(apperr.PublicMessage(err, "Failed to create payment order"))
		return domain.PaymentIntent{}, err
	}

	intent := domain.PaymentIntent{
		OrderID:          orderID,
		GatewayOrderID:   gatewayOrderID,
		AmountMinorUnits: domain.MinorUnits(order.TotalAmount),
		Currency:         f.currency,
		CreatedAt:        time.Now(),
	}

	f.mu.Lock()
	f.intent = &intent
	f.step = StepIntentCreated
	f.mu.Unlock()
	return intent, nil
}

// Collect runs the external gateway step for the current intent and
// reconciles its outcome with the server. Called after CreateIntent.
func (f *Flow) Collect(ctx context.Context) error {
	f.mu.Lock()
	if f.step != StepIntentCreated || f.intent == nil {
		f.mu.Unlock()
		return apperr.ValidationErr("No payment intent to collect", nil)
	}
	intent := *f.intent
	f.step = StepAwaitingGateway
	f.mu.Unlock()

	result, err := f.gateway.Collect(ctx, intent)
	if err != nil {
		msg := apperr.PublicMessage(err, "Payment failed")
		f.fail(msg)
		return apperr.GatewayErr(msg, err)
	}

	switch result.Outcome {
	case OutcomeSuccess:
		return f.verify(ctx, intent, result)
	case OutcomeAbandoned:
		f.fail("Payment cancelled")
		return apperr.GatewayErr("Payment cancelled", nil)
	default:
		reason := result.Reason
		if reason == "" {
			reason = "Payment failed"
		}
		f.fail(reason)
		return apperr.GatewayErr(reason, nil)
	}
}

// Pay is the full handshake for one order: intent, gateway, verify.
func (f *Flow) Pay(ctx context.Context, orderID int64) error {
	if _, err := f.CreateIntent(ctx, orderID); err != nil {
		return err
	}
	return f.Collect(ctx)
}

func (f *Flow) verify(ctx context.Context, intent domain.PaymentIntent, result GatewayResult) error {
	if err := f.api.VerifyPayment(ctx, intent.OrderID, result.PaymentID, result.Signature); err != nil {
		msg := apperr.PublicMessage(err, "Payment verification failed")
		f.fail(msg)
		return err
	}

	f.mu.Lock()
	f.step = StepVerified
	// The intent is ephemeral: gone once the payment is settled
	f.intent = nil
	f.mu.Unlock()

	f.logger.Info("payment verified",
		slog.Int64("order_id", intent.OrderID),
		slog.String("payment_id", result.PaymentID))
	f.notifier.Success("Payment verified successfully!")
	return nil
}

func (f *Flow) fail(msg string) {
	f.mu.Lock()
	f.step = StepFailed
	f.intent = nil
	f.mu.Unlock()
	f.notifier.Error(msg)
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Intent returns the current intent while one is open.
func (f *Flow) Intent() (domain.PaymentIntent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.intent == nil {
		return domain.PaymentIntent{}, false
	}
	return *f.intent, true
}
