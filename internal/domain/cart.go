package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem Model
// At most one row exists per (user, item); adding the same item again bumps Quantity.
type CartItem struct {
	ID        string `gorm:"primaryKey;size:36"`                              // Primary key (uuid)
	Quantity  int    `gorm:"not null;default:1"`                              // Always positive
	UserID    string `gorm:"size:36;not null;uniqueIndex:idx_cart_user_item"` // Owning user
	ItemID    string `gorm:"size:36;not null;uniqueIndex:idx_cart_user_item"` // Referenced item
	Item      *Item  `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE;"`  // Loaded on demand
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns a uuid when the caller did not
func (c *CartItem) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CartTotal sums price times quantity over rows whose item is still present
func CartTotal(cart []CartItem) int64 {
	var total int64
	for _, ci := range cart {
		if ci.Item == nil {
			continue // Item deleted since it was added
		}
		total += ci.Item.Price * int64(ci.Quantity)
	}
	return total
}
