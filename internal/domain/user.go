package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // Primary key generation
	"gorm.io/gorm"           // GORM hooks
)

// User Model
type User struct {
	ID               string      `gorm:"primaryKey;size:36"`            // Primary key (uuid)
	Name             string      `gorm:"not null"`                      // Display name
	Email            string      `gorm:"uniqueIndex;size:255;not null"` // Lowercased, unique email
	Password         string      `gorm:"not null" json:"-"`             // Hashed password
	Permissions      Permissions `gorm:"serializer:json"`               // Capability labels
	ResetToken       *string     `gorm:"index;size:64" json:"-"`        // Pending password reset token
	ResetTokenExpiry *time.Time  `json:"-"`                             // When the reset token stops working
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BeforeCreate assigns a uuid when the caller did not
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Can reports whether the user holds at least one of the given permissions
func (u *User) Can(required ...Permission) bool {
	if u == nil {
		return false
	}
	for _, held := range u.Permissions {
		for _, need := range required {
			if held == need {
				return true
			}
		}
	}
	return false
}
