// Package api exposes the shop over GraphQL.
package api

import (
	"context"  // Request context
	"net/http" // Cookie writes
	"time"     // Clock

	"shop_api/internal/config"    // Application settings
	"shop_api/internal/domain"    // Domain models and errors
	"shop_api/internal/mail"      // Reset email
	"shop_api/internal/payment"   // Checkout charges
	"shop_api/internal/store"     // Persistence
	"shop_api/internal/telemetry" // Business metrics
	"shop_api/internal/utils"     // Tokens, passwords, cookies

	"github.com/go-playground/validator/v10" // Input validation
)

// ResetLimiter throttles password reset email per address
type ResetLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
}

// Deps are the collaborators a Resolver works with. Throttle and Metrics are optional.
type Deps struct {
	Store    store.Store
	Mailer   mail.Sender
	Payments payment.Gateway
	Throttle ResetLimiter
	Metrics  *telemetry.Metrics
	Now      func() time.Time // Defaults to time.Now
}

// Resolver is the root of the GraphQL schema. It resolves every Query and
// Mutation field.
type Resolver struct {
	cfg      *config.Config
	store    store.Store
	mailer   mail.Sender
	payments payment.Gateway
	throttle ResetLimiter
	metrics  *telemetry.Metrics
	now      func() time.Time
	validate *validator.Validate
}

// NewResolver wires the root resolver
func NewResolver(cfg *config.Config, deps Deps) *Resolver {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Resolver{
		cfg:      cfg,
		store:    deps.Store,
		mailer:   deps.Mailer,
		payments: deps.Payments,
		throttle: deps.Throttle,
		metrics:  deps.Metrics,
		now:      now,
		validate: newValidator(),
	}
}

// requireUser returns the session user or an unauthenticated error
func requireUser(ctx context.Context, op string) (*domain.User, error) {
	user := domain.UserFromContext(ctx)
	if user == nil {
		return nil, domain.Errorf(domain.EUNAUTHENTICATED, op, "You must be logged in to do that!")
	}
	return user, nil
}

// startSession issues a token for user and writes the session cookie
func (r *Resolver) startSession(ctx context.Context, op string, user *domain.User) error {
	token, err := utils.GenerateJWT(user.ID, r.cfg.JWTSecret)
	if err != nil {
		return domain.WrapError(err, domain.EINTERNAL, op, "failed to issue session token")
	}
	if w := responseWriter(ctx); w != nil {
		utils.SetTokenCookie(w, token, r.cfg.IsProd)
	}
	return nil
}

// endSession clears the session cookie
func (r *Resolver) endSession(ctx context.Context) {
	if w := responseWriter(ctx); w != nil {
		utils.ClearTokenCookie(w, r.cfg.IsProd)
	}
}

type responseWriterKey struct{}

// WithResponseWriter makes w available to resolvers that set cookies
func WithResponseWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, responseWriterKey{}, w)
}

func responseWriter(ctx context.Context) http.ResponseWriter {
	w, _ := ctx.Value(responseWriterKey{}).(http.ResponseWriter)
	return w
}
