// Package db opens the SQL connection and migrates the schema.
package db

import (
	"fmt"     // Error formatting
	"net"     // Host and port joining
	"net/url" // Escaping credentials in postgres URLs
	"time"    // Connection time zone

	"shop_api/internal/config" // Database settings

	gomysql "github.com/go-sql-driver/mysql" // MySQL DSN formatting
	"gorm.io/driver/mysql"                   // MySQL driver for GORM
	"gorm.io/driver/postgres"                // PostgreSQL driver for GORM
	"gorm.io/gorm"                           // GORM ORM library
	"gorm.io/gorm/logger"                    // GORM log level
)

// MySQLDSN builds a go-sql-driver/mysql data source name
func MySQLDSN(cfg *config.Config) string {
	port := cfg.DBPort
	if port == "" {
		port = "3306"
	}
	dsn := gomysql.NewConfig()
	dsn.User = cfg.DBUser
	dsn.Passwd = cfg.DBPassword
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(cfg.DBHost, port)
	dsn.DBName = cfg.DBName
	dsn.ParseTime = true
	dsn.Loc = time.UTC
	dsn.Params = map[string]string{"charset": "utf8mb4"}
	return dsn.FormatDSN()
}

// PostgresDSN builds a postgres:// URL for pgx
func PostgresDSN(cfg *config.Config) string {
	port := cfg.DBPort
	if port == "" {
		port = "5432"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:     cfg.DBHost + ":" + port,
		Path:     "/" + cfg.DBName,
		RawQuery: "sslmode=disable&TimeZone=UTC",
	}
	return u.String()
}

// Dialector picks the gorm driver named by DB_DRIVER
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "mysql", "":
		return mysql.Open(MySQLDSN(cfg)), nil
	case "postgres":
		return postgres.Open(PostgresDSN(cfg)), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

// Open connects to the configured database. Unique violations are translated to
// gorm.ErrDuplicatedKey so the store can report conflicts.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	level := logger.Warn
	if cfg.IsProd {
		level = logger.Error
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	return db, nil
}
