package utils

import (
	"crypto/rand"  // Reset token entropy
	"encoding/hex" // Reset token encoding
	"fmt"          // Error wrapping
	"time"         // Reset token expiry

	"golang.org/x/crypto/bcrypt" // Password hashing
)

const (
	// PasswordCost is the bcrypt work factor for stored passwords
	PasswordCost = 10

	// MaxPasswordBytes is the longest input bcrypt accepts
	MaxPasswordBytes = 72

	// ResetTokenBytes is the number of random bytes in a reset token
	ResetTokenBytes = 20

	// ResetTokenTTL is how long a reset token stays valid
	ResetTokenTTL = time.Hour
)

// HashPassword returns a salted bcrypt digest of plaintext
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches digest
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// GenerateResetToken returns a random hex token and the time it expires, counted from now
func GenerateResetToken(now time.Time) (string, time.Time, error) {
	b := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(b), now.Add(ResetTokenTTL), nil
}
