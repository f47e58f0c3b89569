package main

import (
	"context"  // context package is needed for Redis operations
	"net/http" // Status codes and methods
	"time"     // Throttle window and timeouts

	"shop_api/internal/api"        // GraphQL schema and handler
	"shop_api/internal/config"     // Custom package for configuration
	"shop_api/internal/db"         // Database connection and migration
	"shop_api/internal/mail"       // Reset email delivery
	"shop_api/internal/middleware" // Custom package for middleware
	"shop_api/internal/payment"    // Stripe charges
	"shop_api/internal/store"      // Persistence
	"shop_api/internal/telemetry"  // Prometheus metrics
	"shop_api/internal/utils"      // Reset throttle

	"github.com/gin-contrib/cors"                    // CORS for the front end
	"github.com/gin-gonic/gin"                       // Gin web framework
	"github.com/prometheus/client_golang/prometheus" // Metrics registry
	"github.com/redis/go-redis/v9"                   // Redis client
	"github.com/sirupsen/logrus"                     // Logrus for structured logging
)

// resetWindow is the period RESET_LIMIT is counted over
const resetWindow = 15 * time.Minute

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	setupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Connect to the database
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			logrus.Fatalf("failed to migrate: %v", err)
		}
	}
	st := store.New(gdb)

	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics("shop", reg)

	mailer := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.MailHost,
		Port:     cfg.MailPort,
		Username: cfg.MailUser,
		Password: cfg.MailPass,
		From:     cfg.MailFrom,
	})
	resolver := api.NewResolver(cfg, api.Deps{
		Store:    st,
		Mailer:   mailer,
		Payments: payment.NewStripeGateway(cfg.StripeSecret),
		Throttle: resetThrottle(cfg),
		Metrics:  metrics,
	})
	schema, err := api.NewSchema(resolver)
	if err != nil {
		logrus.Fatalf("failed to parse schema: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New() // Gin router instance
	r.Use(gin.Recovery(), middleware.RequestLogger(), metrics.Middleware())

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// The session cookie is sent cross-site by the front end
	gql := r.Group("/graphql")
	gql.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{cfg.FrontendURL},
			AllowMethods:     []string{http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.SessionMiddleware(cfg.JWTSecret),
		middleware.UserMiddleware(st),
	)
	gql.POST("", api.GraphQLHandler(schema))
	gql.OPTIONS("", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	logrus.WithFields(logrus.Fields{
		"port":     cfg.AppPort,
		"driver":   cfg.DBDriver,
		"frontend": cfg.FrontendURL,
	}).Info("Server running")
	if err := r.Run(":" + cfg.AppPort); err != nil { // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}

// setupLogger picks the log format and level for the environment
func setupLogger(cfg *config.Config) {
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// resetThrottle connects to Redis when configured. Without Redis, reset
// requests are not rate limited.
func resetThrottle(cfg *config.Config) api.ResetLimiter {
	if cfg.RedisAddr == "" {
		logrus.Warn("REDIS_ADDR not set, password reset requests are not throttled")
		return nil
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}
	return utils.NewResetThrottle(redisClient, cfg.ResetLimit, resetWindow)
}
