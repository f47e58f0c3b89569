package api

import (
	"context" // Request context
	"strings" // Email normalisation

	"shop_api/internal/domain" // Domain models and errors
	"shop_api/internal/mail"   // Reset email
	"shop_api/internal/utils"  // Password hashing and reset tokens

	"github.com/sirupsen/logrus" // Logging
)

// normalizeEmail lowercases and trims an address so lookups are case-insensitive
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Me returns the session user, null when anonymous
func (r *Resolver) Me(ctx context.Context) *userResolver {
	user := domain.UserFromContext(ctx)
	if user == nil {
		return nil
	}
	return &userResolver{r: r, u: user}
}

type signupArgs struct {
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=6,bcryptlen"`
	Name     string `validate:"required,max=255"`
}

// Signup creates an account with the default USER permission and signs it in
func (r *Resolver) Signup(ctx context.Context, args signupArgs) (*userResolver, error) {
	const op = "signup"
	args.Email = normalizeEmail(args.Email)
	args.Name = strings.TrimSpace(args.Name)
	if err := r.check(op, args); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(args.Password) // Hash the password
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to hash password")
	}
	user := &domain.User{
		Name:        args.Name,
		Email:       args.Email,
		Password:    hash,
		Permissions: domain.Permissions{domain.PermissionUser},
	}
	if err := r.store.CreateUser(ctx, user); err != nil {
		if domain.IsCode(err, domain.ECONFLICT) {
			return nil, domain.Errorf(domain.ECONFLICT, op, "A user with email %s already exists", args.Email)
		}
		return nil, err
	}
	if err := r.startSession(ctx, op, user); err != nil {
		return nil, err
	}
	r.metrics.Signup()
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User signed up")
	return &userResolver{r: r, u: user}, nil
}

// Signin checks the password and starts a session
func (r *Resolver) Signin(ctx context.Context, args struct {
	Email    string
	Password string
}) (*userResolver, error) {
	const op = "signin"
	email := normalizeEmail(args.Email)
	user, err := r.store.UserByEmail(ctx, email)
	if domain.IsCode(err, domain.ENOTFOUND) {
		r.metrics.Login(false)
		return nil, domain.Errorf(domain.ENOTFOUND, op, "No such user found for email: %s", email)
	}
	if err != nil {
		return nil, err
	}
	// Compare provided password with stored hash
	if !utils.CheckPassword(args.Password, user.Password) {
		r.metrics.Login(false)
		logrus.WithField("user_id", user.ID).Warn("Sign in with wrong password")
		return nil, domain.Errorf(domain.ECREDENTIAL, op, "Invalid password!")
	}
	if err := r.startSession(ctx, op, user); err != nil {
		return nil, err
	}
	r.metrics.Login(true)
	logrus.WithField("user_id", user.ID).Info("User signed in")
	return &userResolver{r: r, u: user}, nil
}

// Signout clears the session cookie
func (r *Resolver) Signout(ctx context.Context) *successMessage {
	r.endSession(ctx)
	return &successMessage{message: "Goodbye!"}
}

// RequestReset stores a one hour reset token on the user and mails the link
func (r *Resolver) RequestReset(ctx context.Context, args struct{ Email string }) (*successMessage, error) {
	const op = "requestReset"
	email := normalizeEmail(args.Email)
	user, err := r.store.UserByEmail(ctx, email)
	if domain.IsCode(err, domain.ENOTFOUND) {
		return nil, domain.Errorf(domain.ENOTFOUND, op, "No such user found for email: %s", email)
	}
	if err != nil {
		return nil, err
	}

	if r.throttle != nil {
		allowed, err := r.throttle.Allow(ctx, email)
		if err != nil {
			// Fail open while the throttle is unavailable
			logrus.WithFields(logrus.Fields{
				"email": email,
				"error": err,
			}).Warn("Reset throttle unavailable")
		} else if !allowed {
			return nil, domain.Errorf(domain.EVALIDATION, op, "Too many reset requests. Please try again later.")
		}
	}

	token, expiry, err := utils.GenerateResetToken(r.now())
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to generate reset token")
	}
	if err := r.store.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return nil, err
	}
	msg, err := mail.ResetEmail(user.Email, r.cfg.FrontendURL, token)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to render reset email")
	}
	if err := r.mailer.Send(ctx, msg); err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to send reset email")
	}
	r.metrics.PasswordReset("requested")
	logrus.WithField("user_id", user.ID).Info("Password reset requested")
	return &successMessage{message: "Thanks!"}, nil
}

type resetPasswordArgs struct {
	ResetToken      string `validate:"required"`
	Password        string `validate:"required,min=6,bcryptlen"`
	ConfirmPassword string `validate:"required"`
}

// ResetPassword sets a new password for the holder of a live reset token
func (r *Resolver) ResetPassword(ctx context.Context, args resetPasswordArgs) (*userResolver, error) {
	const op = "resetPassword"
	if args.Password != args.ConfirmPassword {
		return nil, domain.Errorf(domain.EVALIDATION, op, "Your passwords don't match!")
	}
	if err := r.check(op, args); err != nil {
		return nil, err
	}
	user, err := r.store.UserByResetToken(ctx, args.ResetToken, r.now())
	if domain.IsCode(err, domain.ENOTFOUND) {
		return nil, domain.Errorf(domain.ETOKEN, op, "This token is either invalid or expired!")
	}
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(args.Password)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to hash password")
	}
	updated, err := r.store.ResetPassword(ctx, user.ID, args.ResetToken, hash)
	if domain.IsCode(err, domain.ENOTFOUND) {
		return nil, domain.Errorf(domain.ETOKEN, op, "This token is either invalid or expired!")
	}
	if err != nil {
		return nil, err
	}
	if err := r.startSession(ctx, op, updated); err != nil {
		return nil, err
	}
	r.metrics.PasswordReset("completed")
	logrus.WithField("user_id", updated.ID).Info("Password reset completed")
	return &userResolver{r: r, u: updated}, nil
}
