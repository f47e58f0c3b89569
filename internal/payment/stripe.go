package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// declineMessage is shown when the gateway gives no card specific reason
const declineMessage = "Payment failed. Please check your card details and try again."

// StripeGateway implements Gateway with confirmed PaymentIntents
type StripeGateway struct {
	api *client.API
}

var _ Gateway = (*StripeGateway)(nil)

// NewStripeGateway creates a gateway for the given secret key
func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, nil)}
}

// Charge creates and confirms a PaymentIntent in one call
func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	params := chargeParams(ctx, req)
	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"amount":   req.Amount,
			"currency": req.Currency,
			"error":    err,
		}).Warn("Stripe charge failed")
		return nil, fmt.Errorf("stripe charge: %w", err)
	}
	return chargeFromIntent(pi)
}

// chargeParams maps a request onto PaymentIntent creation parameters
func chargeParams(ctx context.Context, req ChargeRequest) *stripe.PaymentIntentParams {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.Amount),
		Currency:           stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Confirm:            stripe.Bool(true),
	}
	params.Context = ctx
	if strings.HasPrefix(req.Token, "tok_") {
		// Legacy card tokens become a card payment method inline
		params.PaymentMethodData = &stripe.PaymentIntentPaymentMethodDataParams{Type: stripe.String("card")}
		params.AddExtra("payment_method_data[card][token]", req.Token)
	} else {
		params.PaymentMethod = stripe.String(req.Token)
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.Email != "" {
		params.ReceiptEmail = stripe.String(req.Email)
	}
	if req.OrderRef != "" {
		params.SetIdempotencyKey("charge-" + req.OrderRef)
		params.AddMetadata("order_ref", req.OrderRef)
	}
	return params
}

// chargeFromIntent accepts only captured intents. The latest charge id is
// preferred, the intent id stands in when the charge is not expanded.
func chargeFromIntent(pi *stripe.PaymentIntent) (*Charge, error) {
	if pi == nil {
		return nil, ErrNotSucceeded
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("%w: status %s", ErrNotSucceeded, pi.Status)
	}
	id := pi.ID
	if pi.LatestCharge != nil && pi.LatestCharge.ID != "" {
		id = pi.LatestCharge.ID
	}
	return &Charge{
		ID:       id,
		Amount:   pi.Amount,
		Currency: string(pi.Currency),
		Status:   string(pi.Status),
	}, nil
}

// UserMessage returns text about a failed charge that is safe to show the buyer
func UserMessage(err error) string {
	var se *stripe.Error
	if errors.As(err, &se) && se.Type == stripe.ErrorTypeCard && se.Msg != "" {
		return se.Msg
	}
	return declineMessage
}
