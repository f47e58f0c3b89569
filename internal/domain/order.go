package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order Model
type Order struct {
	ID        string      `gorm:"primaryKey;size:36"`                              // Primary key (uuid)
	UserID    string      `gorm:"index;size:36;not null"`                          // Buyer
	Total     int64       `gorm:"not null"`                                        // Charged amount in minor units
	Charge    string      `gorm:"size:255;not null"`                               // Gateway charge identifier
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;"` // Snapshot lines
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns a uuid when the caller did not
func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem is a point-in-time copy of an Item. It keeps no link to the live item,
// so editing or deleting the item later leaves past orders untouched.
type OrderItem struct {
	ID          string `gorm:"primaryKey;size:36"`
	OrderID     string `gorm:"index;size:36;not null"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text;not null"`
	Image       string
	LargeImage  string
	Price       int64  `gorm:"not null"`
	Quantity    int    `gorm:"not null"`
	UserID      string `gorm:"size:36;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BeforeCreate assigns a uuid when the caller did not
func (oi *OrderItem) BeforeCreate(*gorm.DB) error {
	if oi.ID == "" {
		oi.ID = uuid.NewString()
	}
	return nil
}

// SnapshotCart copies each cart row's item into an OrderItem. Rows whose item no
// longer exists are skipped.
func SnapshotCart(cart []CartItem) []OrderItem {
	items := make([]OrderItem, 0, len(cart))
	for _, ci := range cart {
		if ci.Item == nil {
			continue
		}
		items = append(items, OrderItem{
			Title:       ci.Item.Title,
			Description: ci.Item.Description,
			Image:       ci.Item.Image,
			LargeImage:  ci.Item.LargeImage,
			Price:       ci.Item.Price,
			Quantity:    ci.Quantity,
			UserID:      ci.UserID,
		})
	}
	return items
}
