package payment

import (
	"context"

	"github.com/Shiv-727-nov/E-commerce/internal/domain"
)

type Outcome string

const (
	OutcomeSuccess   Outcome = "SUCCESS"
	OutcomeFailure   Outcome = "FAILURE"
	OutcomeAbandoned Outcome = "ABANDONED"
)

// GatewayResult is what comes back from the external payment UI: a
// reference plus signature on success, a reason on failure, or nothing
// at all when the user closed the dialog.
type GatewayResult struct {
	Outcome   Outcome
	PaymentID string
	Signature string
	Reason    string
}

func Success(paymentID, signature string) GatewayResult {
	return GatewayResult{Outcome: OutcomeSuccess, PaymentID: paymentID, Signature: signature}
}

func Failure(reason string) GatewayResult {
	return GatewayResult{Outcome: OutcomeFailure, Reason: reason}
}

func Abandoned() GatewayResult {
	return GatewayResult{Outcome: OutcomeAbandoned}
}

// Gateway hands control to the external payment processor's UI for the
// given intent and waits for its outcome. Implementations own the
// user-facing step entirely; this layer only reacts to the result.
type Gateway interface {
	Collect(ctx context.Context, intent domain.PaymentIntent) (GatewayResult, error)
}
