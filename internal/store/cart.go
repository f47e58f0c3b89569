package store

import (
	"context"

	"shop_api/internal/domain"

	"gorm.io/gorm"
)

// CartItemByID loads a cart row by primary key
func (s *gormStore) CartItemByID(ctx context.Context, id string) (*domain.CartItem, error) {
	var ci domain.CartItem
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&ci).Error; err != nil {
		return nil, translate(err, "cart.byID")
	}
	return &ci, nil
}

// CartItemByUserAndItem loads the user's row for item, if any
func (s *gormStore) CartItemByUserAndItem(ctx context.Context, userID, itemID string) (*domain.CartItem, error) {
	var ci domain.CartItem
	if err := s.db.WithContext(ctx).Where("user_id = ? AND item_id = ?", userID, itemID).First(&ci).Error; err != nil {
		return nil, translate(err, "cart.byUserAndItem")
	}
	return &ci, nil
}

// CreateCartItem inserts ci; a second row for the same (user, item) is a conflict
func (s *gormStore) CreateCartItem(ctx context.Context, ci *domain.CartItem) error {
	if ci.Quantity <= 0 {
		ci.Quantity = 1
	}
	return translate(s.db.WithContext(ctx).Create(ci).Error, "cart.create")
}

// IncrementCartItem bumps the row's quantity by one in the database
func (s *gormStore) IncrementCartItem(ctx context.Context, id string) (*domain.CartItem, error) {
	res := s.db.WithContext(ctx).Model(&domain.CartItem{}).Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", 1)) // Atomic increment
	if res.Error != nil {
		return nil, translate(res.Error, "cart.increment")
	}
	if res.RowsAffected == 0 {
		return nil, domain.Errorf(domain.ENOTFOUND, "cart.increment", "Record not found")
	}
	return s.CartItemByID(ctx, id)
}

// DeleteCartItem removes one cart row
func (s *gormStore) DeleteCartItem(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.CartItem{})
	if res.Error != nil {
		return translate(res.Error, "cart.delete")
	}
	if res.RowsAffected == 0 {
		return domain.Errorf(domain.ENOTFOUND, "cart.delete", "Record not found")
	}
	return nil
}

// CartItems lists the user's cart with item details, oldest first
func (s *gormStore) CartItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	var cart []domain.CartItem
	err := s.db.WithContext(ctx).
		Preload("Item").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&cart).Error
	if err != nil {
		return nil, translate(err, "cart.list")
	}
	return cart, nil
}
