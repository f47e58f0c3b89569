package api

import (
	"context" // Request context
	"fmt"     // Charge description
	"math"    // Total bound

	"shop_api/internal/domain"  // Domain models and errors
	"shop_api/internal/payment" // Checkout charges

	"github.com/google/uuid"              // Order ids
	"github.com/graph-gophers/graphql-go" // ID scalar
	"github.com/sirupsen/logrus"          // Logging
)

// maxOrderTotal is the largest total the Int fields of Order can carry
const maxOrderTotal = math.MaxInt32

// Order returns one order to its buyer or to an admin
func (r *Resolver) Order(ctx context.Context, args struct{ ID graphql.ID }) (*orderResolver, error) {
	const op = "order"
	user, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	order, err := r.store.OrderByID(ctx, string(args.ID))
	if domain.IsCode(err, domain.ENOTFOUND) {
		return nil, domain.Errorf(domain.ENOTFOUND, op, "No order found for ID %s", args.ID)
	}
	if err != nil {
		return nil, err
	}
	if err := domain.OwnerOr(user, order.UserID, domain.PermissionAdmin); err != nil {
		return nil, err
	}
	return &orderResolver{r: r, o: order}, nil
}

// Orders lists the caller's orders, newest first
func (r *Resolver) Orders(ctx context.Context) ([]*orderResolver, error) {
	user, err := requireUser(ctx, "orders")
	if err != nil {
		return nil, err
	}
	orders, err := r.store.OrdersByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return r.orderResolvers(orders), nil
}

// CreateOrder charges the caller for the cart and turns it into an order.
// Sequence: price the cart here, charge, then persist the order and clear the
// cart in one transaction. A failed charge writes nothing.
func (r *Resolver) CreateOrder(ctx context.Context, args struct{ Token string }) (*orderResolver, error) {
	const op = "createOrder"
	user, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	cart, err := r.store.CartItems(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	lines := domain.SnapshotCart(cart)
	total := domain.CartTotal(cart)
	if len(lines) == 0 || total <= 0 {
		return nil, domain.Errorf(domain.EVALIDATION, op, "Your cart is empty!")
	}
	if total > maxOrderTotal {
		return nil, domain.Errorf(domain.EVALIDATION, op, "Your order total exceeds the maximum of %d", maxOrderTotal)
	}
	cartIDs := make([]string, 0, len(cart))
	for _, ci := range cart {
		cartIDs = append(cartIDs, ci.ID)
	}

	orderID := uuid.NewString()
	charge, err := r.payments.Charge(ctx, payment.ChargeRequest{
		Amount:      total,
		Currency:    r.cfg.Currency,
		Token:       args.Token,
		Description: fmt.Sprintf("Order %s for %s", orderID, user.Email),
		Email:       user.Email,
		OrderRef:    orderID,
	})
	if err != nil {
		r.metrics.PaymentFailed()
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"amount":  total,
			"error":   err,
		}).Warn("Charge failed")
		return nil, domain.WrapError(err, domain.EPAYMENT, op, payment.UserMessage(err))
	}

	order := &domain.Order{
		ID:     orderID,
		UserID: user.ID,
		Total:  total,
		Charge: charge.ID,
		Items:  lines,
	}
	if err := r.store.PlaceOrder(ctx, order, cartIDs); err != nil {
		// Captured without an order, the charge id is needed to reconcile
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,
			"charge_id": charge.ID,
			"amount":    total,
			"error":     err,
		}).Error("Order not saved after successful charge")
		return nil, err
	}

	r.metrics.OrderCreated(total)
	logrus.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"user_id":   user.ID,
		"total":     total,
		"charge_id": charge.ID,
		"lines":     len(lines),
	}).Info("Order created")
	return &orderResolver{r: r, o: order}, nil
}
