package store

import (
	"context"

	"shop_api/internal/domain"

	"gorm.io/gorm"
)

// CreateItem inserts item
func (s *gormStore) CreateItem(ctx context.Context, item *domain.Item) error {
	return translate(s.db.WithContext(ctx).Create(item).Error, "item.create")
}

// ItemByID loads an item by primary key
func (s *gormStore) ItemByID(ctx context.Context, id string) (*domain.Item, error) {
	var item domain.Item
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, translate(err, "item.byID")
	}
	return &item, nil
}

// UpdateItem applies the non-nil fields of upd and returns the stored item
func (s *gormStore) UpdateItem(ctx context.Context, id string, upd domain.ItemUpdate) (*domain.Item, error) {
	item, err := s.ItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Empty() {
		return item, nil
	}

	changes := map[string]any{}
	if upd.Title != nil {
		changes["title"] = *upd.Title
	}
	if upd.Description != nil {
		changes["description"] = *upd.Description
	}
	if upd.Price != nil {
		changes["price"] = *upd.Price
	}
	if upd.Image != nil {
		changes["image"] = *upd.Image
	}
	if upd.LargeImage != nil {
		changes["large_image"] = *upd.LargeImage
	}
	if err := s.db.WithContext(ctx).Model(item).Updates(changes).Error; err != nil {
		return nil, translate(err, "item.update")
	}
	return s.ItemByID(ctx, id)
}

// DeleteItem removes the item and every cart row that points at it
func (s *gormStore) DeleteItem(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&domain.CartItem{}).Error; err != nil {
			return err // Rollback
		}
		res := tx.Where("id = ?", id).Delete(&domain.Item{})
		if res.Error != nil {
			return res.Error // Rollback
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound // Rollback, nothing to delete
		}
		return nil // Commit
	})
	return translate(err, "item.delete")
}

// Items lists items matching f
func (s *gormStore) Items(ctx context.Context, f ItemFilter) ([]domain.Item, error) {
	order, ok := orderClauses[f.OrderBy]
	if !ok {
		order = orderClauses[OrderCreatedAtDesc]
	}
	limit := f.First
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	skip := f.Skip
	if skip < 0 {
		skip = 0
	}

	var items []domain.Item
	err := s.db.WithContext(ctx).
		Scopes(searchScope(f.Search)).
		Order(order).
		Offset(skip).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, translate(err, "item.list")
	}
	return items, nil
}

// CountItems counts items matching search
func (s *gormStore) CountItems(ctx context.Context, search string) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&domain.Item{}).Scopes(searchScope(search)).Count(&n).Error; err != nil {
		return 0, translate(err, "item.count")
	}
	return n, nil
}
