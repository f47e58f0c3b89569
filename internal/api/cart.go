package api

import (
	"context" // Request context

	"shop_api/internal/domain" // Domain models and errors

	"github.com/graph-gophers/graphql-go" // ID scalar
)

// AddToCart puts one more of the item in the caller's cart
func (r *Resolver) AddToCart(ctx context.Context, args struct{ ID graphql.ID }) (*cartItemResolver, error) {
	const op = "addToCart"
	user, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	item, err := r.loadItem(ctx, op, args.ID)
	if err != nil {
		return nil, err
	}

	ci, err := r.store.CartItemByUserAndItem(ctx, user.ID, item.ID)
	switch {
	case err == nil:
		ci, err = r.store.IncrementCartItem(ctx, ci.ID) // Already in the cart
	case domain.IsCode(err, domain.ENOTFOUND):
		ci, err = r.createCartItem(ctx, user.ID, item.ID)
	}
	if err != nil {
		return nil, err
	}
	ci.Item = item
	r.metrics.CartAdd()
	return &cartItemResolver{r: r, ci: ci}, nil
}

// createCartItem inserts a row with quantity 1. A concurrent insert for the same
// pair trips the unique index, in which case the winner's row is incremented.
func (r *Resolver) createCartItem(ctx context.Context, userID, itemID string) (*domain.CartItem, error) {
	ci := &domain.CartItem{UserID: userID, ItemID: itemID, Quantity: 1}
	err := r.store.CreateCartItem(ctx, ci)
	if err == nil {
		return ci, nil
	}
	if !domain.IsCode(err, domain.ECONFLICT) {
		return nil, err
	}
	existing, err := r.store.CartItemByUserAndItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	return r.store.IncrementCartItem(ctx, existing.ID)
}

// RemoveFromCart deletes one of the caller's cart rows
func (r *Resolver) RemoveFromCart(ctx context.Context, args struct{ ID graphql.ID }) (*cartItemResolver, error) {
	const op = "removeFromCart"
	user, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	ci, err := r.store.CartItemByID(ctx, string(args.ID))
	if domain.IsCode(err, domain.ENOTFOUND) {
		return nil, domain.Errorf(domain.ENOTFOUND, op, "No CartItem Found!")
	}
	if err != nil {
		return nil, err
	}
	if ci.UserID != user.ID {
		return nil, domain.Errorf(domain.EFORBIDDEN, op, "You do not own this cart item!")
	}
	if err := r.store.DeleteCartItem(ctx, ci.ID); err != nil {
		return nil, err
	}
	return &cartItemResolver{r: r, ci: ci}, nil
}
