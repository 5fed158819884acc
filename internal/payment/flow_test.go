package payment

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shiv-727-nov/E-commerce/internal/apperr"
	"github.com/Shiv-727-nov/E-commerce/internal/domain"
)

type mockPaymentAPI struct {
	createErr error
	verifyErr error

	createCalls    int
	lastVerifyID   string
	lastVerifySig  string
	verifiedOrders []int64
}

func (m *mockPaymentAPI) CreatePaymentOrder(_ context.Context, orderID int64) (string, error) {
	m.createCalls++
	if m.createErr != nil {
		return "", m.createErr
	}
	return fmt.Sprintf("rzp_order_%d_%d", orderID, m.createCalls), nil
}

func (m *mockPaymentAPI) VerifyPayment(_ context.Context, orderID int64, paymentID, signature string) error {
	if m.verifyErr != nil {
		return m.verifyErr
	}
	m.lastVerifyID = paymentID
	m.lastVerifySig = signature
	m.verifiedOrders = append(m.verifiedOrders, orderID)
	return nil
}

type mockOrderSource struct {
	mu     sync.Mutex
	orders map[int64]domain.Order
}

func (m *mockOrderSource) Get(orderID int64) (domain.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	return o, ok
}

type scriptedGateway struct {
	result  GatewayResult
	err     error
	started chan struct{} // optional: closed when Collect begins
	release chan struct{} // optional: Collect blocks until closed
}

func (g *scriptedGateway) Collect(context.Context, domain.PaymentIntent) (GatewayResult, error) {
	if g.started != nil {
		close(g.started)
	}
	if g.release != nil {
		<-g.release
	}
	return g.result, g.err
}

func pendingOrderSource() *mockOrderSource {
	return &mockOrderSource{orders: map[int64]domain.Order{
		1: {ID: 1, Status: domain.OrderStatusPending, TotalAmount: 536.00},
		2: {ID: 2, Status: domain.OrderStatusConfirmed, TotalAmount: 100.00},
		3: {ID: 3, Status: domain.OrderStatusPending, TotalAmount: 648.00},
	}}
}

func TestCreateIntent_PendingOrder(t *testing.T) {
	api := &mockPaymentAPI{}
	flow := NewFlow(api, pendingOrderSource(), &scriptedGateway{}, nil, nil)

	intent, err := flow.CreateIntent(context.Background(), 1)
	require.NoError(t, err)

	assert.NotEmpty(t, intent.GatewayOrderID)
	assert.Equal(t, int64(53600), intent.AmountMinorUnits)
	assert.Equal(t, "INR", intent.Currency)
	assert.Equal(t, StepIntentCreated, flow.Step())
}

func TestCreateIntent_NonPendingOrderRejected(t *testing.T) {
	flow := NewFlow(&mockPaymentAPI{}, pendingOrderSource(), &scriptedGateway{}, nil, nil)

	_, err := flow.CreateIntent(context.Background(), 2)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
	assert.Equal(t, StepNotStarted, flow.Step())
}

func TestPay_SuccessReachesVerified(t *testing.T) {
	api := &mockPaymentAPI{}
	source := pendingOrderSource()
	gateway := &scriptedGateway{result: Success("pay_123", "sig_abc")}
	flow := NewFlow(api, source, gateway, nil, nil)

	require.NoError(t, flow.Pay(context.Background(), 1))

	assert.Equal(t, StepVerified, flow.Step())
	assert.Equal(t, "pay_123", api.lastVerifyID)
	assert.Equal(t, "sig_abc", api.lastVerifySig)

	// Verification does not touch order status; the next authoritative
	// fetch does
	order, _ := source.Get(1)
	assert.Equal(t, domain.OrderStatusPending, order.Status)

	// The intent is ephemeral
	_, open := flow.Intent()
	assert.False(t, open)
}

func TestPay_GatewayFailure(t *testing.T) {
	gateway := &scriptedGateway{result: Failure("card declined")}
	flow := NewFlow(&mockPaymentAPI{}, pendingOrderSource(), gateway, nil, nil)

	err := flow.Pay(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.PaymentGateway))
	assert.Equal(t, StepFailed, flow.Step())
}

func TestPay_AbandonedByUser(t *testing.T) {
	gateway := &scriptedGateway{result: Abandoned()}
	flow := NewFlow(&mockPaymentAPI{}, pendingOrderSource(), gateway, nil, nil)

	err := flow.Pay(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.PaymentGateway))
	assert.Equal(t, "Payment cancelled", apperr.PublicMessage(err, ""))
	assert.Equal(t, StepFailed, flow.Step())
}

func TestPay_VerificationRejected(t *testing.T) {
	api := &mockPaymentAPI{verifyErr: apperr.ServerErr("Invalid signature", nil)}
	gateway := &scriptedGateway{result: Success("pay_123", "sig_bad")}
	flow := NewFlow(api, pendingOrderSource(), gateway, nil, nil)

	err := flow.Pay(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, StepFailed, flow.Step())
}

func TestRetry_FreshIntentInvalidatesPrior(t *testing.T) {
	api := &mockPaymentAPI{}
	gateway := &scriptedGateway{result: Failure("card declined")}
	flow := NewFlow(api, pendingOrderSource(), gateway, nil, nil)
	ctx := context.Background()

	require.Error(t, flow.Pay(ctx, 1))
	require.Equal(t, StepFailed, flow.Step())

	// Retry opens a brand-new intent
	second, err := flow.CreateIntent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, api.createCalls)
	assert.Contains(t, second.GatewayOrderID, "_2")
}

func TestCreateIntent_BlockedWhileGatewayInFlight(t *testing.T) {
	gateway := &scriptedGateway{
		result:  Success("pay_123", "sig_abc"),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	flow := NewFlow(&mockPaymentAPI{}, pendingOrderSource(), gateway, nil, nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- flow.Pay(ctx, 1) }()
	<-gateway.started

	// At most one in-flight payment
	_, err := flow.CreateIntent(ctx, 1)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.PaymentGateway))

	close(gateway.release)
	require.NoError(t, <-done)
	assert.Equal(t, StepVerified, flow.Step())
}

func TestCreateIntent_BlockedForOtherOrderWhileGatewayInFlight(t *testing.T) {
	gateway := &scriptedGateway{
		result:  Success("pay_123", "sig_abc"),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	flow := NewFlow(&mockPaymentAPI{}, pendingOrderSource(), gateway, nil, nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- flow.Pay(ctx, 1) }()
	<-gateway.started

	// A second pending order cannot open an intent either: the first
	// order's late gateway result must not clobber it
	_, err := flow.CreateIntent(ctx, 3)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.PaymentGateway))

	close(gateway.release)
	require.NoError(t, <-done)
	assert.Equal(t, StepVerified, flow.Step())
	_, open := flow.Intent()
	assert.False(t, open)
}
