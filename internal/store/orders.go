package store

import (
	"context"

	"shop_api/internal/domain"

	"gorm.io/gorm"
)

// PlaceOrder inserts the order with its snapshot lines and removes the checked
// out cart rows, all in one transaction.
func (s *gormStore) PlaceOrder(ctx context.Context, order *domain.Order, cartIDs []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err // Rollback, order lines included
		}
		if len(cartIDs) == 0 {
			return nil
		}
		if err := tx.Where("user_id = ? AND id IN ?", order.UserID, cartIDs).Delete(&domain.CartItem{}).Error; err != nil {
			return err // Rollback, the order must not exist without clearing the cart
		}
		return nil // Commit
	})
	return translate(err, "order.place")
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("created_at asc")
}

// OrderByID loads an order with its lines
func (s *gormStore) OrderByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := s.db.WithContext(ctx).Preload("Items", orderItems).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, translate(err, "order.byID")
	}
	return &o, nil
}

// OrdersByUser lists the user's orders, newest first
func (s *gormStore) OrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var orders []domain.Order
	err := s.db.WithContext(ctx).
		Preload("Items", orderItems).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, translate(err, "order.listByUser")
	}
	return orders, nil
}
