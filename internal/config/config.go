package config

import (
	"errors"  // For validation errors
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For trimming values

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort      string // Application port
	JWTSecret    string // Secret used to sign session tokens
	FrontendURL  string // Front-end base URL (CORS origin and reset links)
	DBDriver     string // Database driver: mysql or postgres
	DBUser       string // Database user
	DBPassword   string // Database password
	DBHost       string // Database host
	DBPort       string // Database port
	DBName       string // Database name
	AutoMigrate  bool   // Run schema migration on startup
	MailHost     string // SMTP host
	MailPort     int    // SMTP port
	MailUser     string // SMTP user
	MailPass     string // SMTP password
	MailFrom     string // Sender address for outgoing mail
	StripeSecret string // Stripe secret key
	Currency     string // ISO currency code used for charges
	RedisAddr    string // Redis server address, empty disables the reset throttle
	RedisPass    string // Redis password
	RedisDB      int    // Redis database number
	ResetLimit   int    // Reset emails allowed per address per window
	LogLevel     string // logrus level name
	IsProd       bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:      getEnv("APP_PORT", "4444"),
		JWTSecret:    os.Getenv("APP_SECRET"),
		FrontendURL:  strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:7777"), "/"),
		DBDriver:     getEnv("DB_DRIVER", "mysql"),
		DBUser:       os.Getenv("DB_USER"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       os.Getenv("DB_PORT"),
		DBName:       os.Getenv("DB_NAME"),
		AutoMigrate:  os.Getenv("AUTO_MIGRATE") == "true",
		MailHost:     os.Getenv("MAIL_HOST"),
		MailPort:     getInt("MAIL_PORT", 587),
		MailUser:     os.Getenv("MAIL_USER"),
		MailPass:     os.Getenv("MAIL_PASS"),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@shop.local"),
		StripeSecret: os.Getenv("STRIPE_SECRET"),
		Currency:     strings.ToLower(getEnv("CURRENCY", "usd")),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisPass:    os.Getenv("REDIS_PASS"),
		RedisDB:      getInt("REDIS_DB", 0),
		ResetLimit:   getInt("RESET_LIMIT", 3),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		IsProd:       os.Getenv("IS_PROD") == "true",
	}
}

// Validate reports missing settings the server cannot start without
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("APP_SECRET is required"))
	}
	if c.DBDriver != "mysql" && c.DBDriver != "postgres" {
		errs = append(errs, errors.New("DB_DRIVER must be mysql or postgres"))
	}
	if c.DBName == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if c.IsProd && c.StripeSecret == "" {
		errs = append(errs, errors.New("STRIPE_SECRET is required in production"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback // Unset or malformed
	}
	return v
}
