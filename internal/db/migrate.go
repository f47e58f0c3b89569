package db

import (
	"fmt" // Error wrapping

	"shop_api/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // GORM ORM library
)

// Models lists every persisted type, parents before children
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Item{},
		&domain.CartItem{},
		&domain.Order{},
		&domain.OrderItem{},
	}
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
