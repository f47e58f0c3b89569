package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item Model
type Item struct {
	ID          string `gorm:"primaryKey;size:36"` // Primary key (uuid)
	Title       string `gorm:"not null"`           // Listing title
	Description string `gorm:"type:text;not null"` // Listing description
	Image       string // Thumbnail URL
	LargeImage  string // Full size image URL
	Price       int64  `gorm:"not null;default:0"`     // Price in minor currency units
	UserID      string `gorm:"index;size:36;not null"` // Owning user
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BeforeCreate assigns a uuid when the caller did not
func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// ItemUpdate carries the mutable fields of an item; nil fields are left untouched.
type ItemUpdate struct {
	Title       *string
	Description *string
	Price       *int64
	Image       *string
	LargeImage  *string
}

// Empty reports whether the update would change nothing
func (u ItemUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Price == nil && u.Image == nil && u.LargeImage == nil
}
