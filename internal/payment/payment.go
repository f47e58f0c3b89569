// Package payment charges customers through an external gateway.
package payment

import (
	"context"
	"errors"
)

// ChargeRequest describes one synchronous charge
type ChargeRequest struct {
	Amount      int64  // Minor currency units, must be positive
	Currency    string // ISO code, lowercase
	Token       string // Client side payment method token
	Description string
	Email       string // Receipt address, optional
	OrderRef    string // Idempotency and metadata reference, optional
}

// Charge is a successful gateway charge
type Charge struct {
	ID       string // Identifier stored on the order
	Amount   int64
	Currency string
	Status   string
}

// Gateway charges a payment token. A nil error means the money was captured.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Charge, error)
}

var (
	// ErrInvalidRequest is returned before contacting the gateway
	ErrInvalidRequest = errors.New("invalid charge request")

	// ErrNotSucceeded is returned when the gateway accepted the call but did not capture funds
	ErrNotSucceeded = errors.New("charge did not succeed")
)

// Validate checks the request locally
func (r ChargeRequest) Validate() error {
	switch {
	case r.Amount <= 0:
		return errors.Join(ErrInvalidRequest, errors.New("amount must be positive"))
	case r.Token == "":
		return errors.Join(ErrInvalidRequest, errors.New("payment token is required"))
	case r.Currency == "":
		return errors.Join(ErrInvalidRequest, errors.New("currency is required"))
	}
	return nil
}
