// Package apperr carries the error taxonomy shared by the stores and
// the API client. Every error that reaches the user is classified by
// Kind and carries a displayable message separate from the wrapped
// internal error.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	// Validation covers malformed or missing input caught before any
	// call is dispatched.
	Validation Kind = "validation"
	// Network covers transport or timeout failures with no server
	// response.
	Network Kind = "network"
	// Server covers non-2xx responses carrying a message.
	Server Kind = "server"
	// PaymentGateway covers failures reported by the external payment
	// processor, including user cancellation.
	PaymentGateway Kind = "payment_gateway"
	// Authorization covers a missing session or insufficient role.
	Authorization Kind = "authorization"
)

type Error struct {
	Kind      Kind
	PublicMsg string            // user-displayable message
	Fields    map[string]string // per-field validation detail, optional
	Err       error             // internal cause, for logs
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.PublicMsg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.PublicMsg)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func ValidationErr(publicMsg string, fields map[string]string) *Error {
	return &Error{Kind: Validation, PublicMsg: publicMsg, Fields: fields}
}

func NetworkErr(publicMsg string, err error) *Error {
	return &Error{Kind: Network, PublicMsg: publicMsg, Err: err}
}

func ServerErr(publicMsg string, err error) *Error {
	return &Error{Kind: Server, PublicMsg: publicMsg, Err: err}
}

func GatewayErr(publicMsg string, err error) *Error {
	return &Error{Kind: PaymentGateway, PublicMsg: publicMsg, Err: err}
}

func AuthorizationErr(publicMsg string) *Error {
	return &Error{Kind: Authorization, PublicMsg: publicMsg}
}

func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	if ae, ok := As(err); ok {
		return ae.Kind == kind
	}
	return false
}

// PublicMessage returns the user-displayable message for err, falling
// back to the given default when err carries none.
func PublicMessage(err error, fallback string) string {
	if ae, ok := As(err); ok && ae.PublicMsg != "" {
		return ae.PublicMsg
	}
	return fallback
}
