package store

import (
	"context"
	"time"

	"shop_api/internal/domain"
)

// CreateUser inserts u; a taken email is a conflict
func (s *gormStore) CreateUser(ctx context.Context, u *domain.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error, "user.create")
}

// UserByID loads a user by primary key
func (s *gormStore) UserByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err, "user.byID")
	}
	return &u, nil
}

// UserByEmail loads a user by (already lowercased) email
func (s *gormStore) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err, "user.byEmail")
	}
	return &u, nil
}

// UserByResetToken finds the holder of token whose expiry is not before now.
// Unknown and expired tokens both report not found.
func (s *gormStore) UserByResetToken(ctx context.Context, token string, now time.Time) (*domain.User, error) {
	if token == "" {
		return nil, domain.Errorf(domain.ENOTFOUND, "user.byResetToken", "Record not found")
	}
	var u domain.User
	if err := s.db.WithContext(ctx).Where("reset_token = ?", token).First(&u).Error; err != nil {
		return nil, translate(err, "user.byResetToken")
	}
	// Compared in Go so the check behaves the same on every driver
	if u.ResetTokenExpiry == nil || u.ResetTokenExpiry.Before(now) {
		return nil, domain.Errorf(domain.ENOTFOUND, "user.byResetToken", "Record not found")
	}
	return &u, nil
}

// SetResetToken stores a pending reset token on the user
func (s *gormStore) SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID).
		Updates(map[string]any{"reset_token": token, "reset_token_expiry": expiry})
	if res.Error != nil {
		return translate(res.Error, "user.setResetToken")
	}
	if res.RowsAffected == 0 {
		return domain.Errorf(domain.ENOTFOUND, "user.setResetToken", "Record not found")
	}
	return nil
}

// ResetPassword replaces the password hash and clears the reset fields, provided
// token is still the user's reset token. Of two resets racing on one token only
// the first matches.
func (s *gormStore) ResetPassword(ctx context.Context, userID, token, hash string) (*domain.User, error) {
	if token == "" {
		return nil, domain.Errorf(domain.ENOTFOUND, "user.resetPassword", "Record not found")
	}
	res := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ? AND reset_token = ?", userID, token).
		Updates(map[string]any{"password": hash, "reset_token": nil, "reset_token_expiry": nil})
	if res.Error != nil {
		return nil, translate(res.Error, "user.resetPassword")
	}
	if res.RowsAffected == 0 {
		return nil, domain.Errorf(domain.ENOTFOUND, "user.resetPassword", "Record not found")
	}
	return s.UserByID(ctx, userID)
}

// UpdatePermissions replaces the user's permission set
func (s *gormStore) UpdatePermissions(ctx context.Context, userID string, perms domain.Permissions) (*domain.User, error) {
	u, err := s.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Select forces the write even when perms is empty
	if err := s.db.WithContext(ctx).Model(u).Select("permissions").Updates(&domain.User{Permissions: perms}).Error; err != nil {
		return nil, translate(err, "user.updatePermissions")
	}
	u.Permissions = perms
	return u, nil
}

// Users lists every user, oldest first
func (s *gormStore) Users(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, translate(err, "user.list")
	}
	return users, nil
}
