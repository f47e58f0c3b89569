package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"shop_api/internal/domain"
	"shop_api/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signupMutation = `mutation($email: String!, $password: String!, $name: String!) {
	signup(email: $email, password: $password, name: $name) { id email permissions }
}`

func sessionCookie(t *testing.T, cookies []*http.Cookie) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == utils.TokenCookieName {
			return c
		}
	}
	t.Fatalf("no %q cookie in response", utils.TokenCookieName)
	return nil
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t)

	resp, w := env.exec(nil, signupMutation, map[string]interface{}{
		"email": "  Alice@Example.COM ", "password": "s3cret-pass", "name": "Alice",
	})
	require.Empty(t, resp.Errors)

	stored, err := env.store.UserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err, "email is stored lowercased")
	assert.NotEqual(t, "s3cret-pass", stored.Password)
	assert.True(t, utils.CheckPassword("s3cret-pass", stored.Password))
	assert.False(t, utils.CheckPassword("s3cret-pasS", stored.Password))
	assert.Equal(t, domain.Permissions{domain.PermissionUser}, stored.Permissions)

	cookie := sessionCookie(t, w.Result().Cookies())
	assert.True(t, cookie.HttpOnly)
	claims, err := utils.ParseJWT(cookie.Value, env.cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.UserID)

	t.Run("duplicate email", func(t *testing.T) {
		resp, _ := env.exec(nil, signupMutation, map[string]interface{}{
			"email": "ALICE@example.com", "password": "another-pass", "name": "Alice 2",
		})
		assert.Equal(t, domain.ECONFLICT, errorCode(t, resp))
	})

	t.Run("invalid input", func(t *testing.T) {
		resp, _ := env.exec(nil, signupMutation, map[string]interface{}{
			"email": "not-an-email", "password": "long-enough", "name": "X",
		})
		assert.Equal(t, domain.EVALIDATION, errorCode(t, resp))
		assert.Equal(t, "email must be a valid email address", resp.Errors[0].Message)
	})

	t.Run("password length counts bytes", func(t *testing.T) {
		resp, _ := env.exec(nil, signupMutation, map[string]interface{}{
			"email": "long@example.com", "password": strings.Repeat("é", 40), "name": "Long",
		})
		assert.Equal(t, domain.EVALIDATION, errorCode(t, resp))
		assert.Equal(t, "password must be at most 72 bytes", resp.Errors[0].Message)

		resp, _ = env.exec(nil, signupMutation, map[string]interface{}{
			"email": "edge@example.com", "password": strings.Repeat("é", 36), "name": "Edge",
		})
		assert.Empty(t, resp.Errors, "72 bytes is accepted")
	})
}

func TestSignin(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user("alice@example.com")
	const signin = `mutation($email: String!, $password: String!) { signin(email: $email, password: $password) { id } }`

	t.Run("unknown email", func(t *testing.T) {
		resp, _ := env.exec(nil, signin, map[string]interface{}{"email": "nobody@example.com", "password": "password"})
		assert.Equal(t, domain.ENOTFOUND, errorCode(t, resp))
		assert.Equal(t, "No such user found for email: nobody@example.com", resp.Errors[0].Message)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, w := env.exec(nil, signin, map[string]interface{}{"email": "alice@example.com", "password": "nope"})
		assert.Equal(t, domain.ECREDENTIAL, errorCode(t, resp))
		assert.Equal(t, "Invalid password!", resp.Errors[0].Message)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("success is case insensitive on email", func(t *testing.T) {
		var data struct{ Signin struct{ ID string } }
		resp, w := env.exec(nil, signin, map[string]interface{}{"email": "ALICE@example.com", "password": "password"})
		require.Empty(t, resp.Errors)
		require.NoError(t, decode(resp, &data))
		assert.Equal(t, alice.ID, data.Signin.ID)
		assert.NotEmpty(t, sessionCookie(t, w.Result().Cookies()).Value)
	})
}

func TestSignout(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user("alice@example.com")

	var data struct{ Signout struct{ Message string } }
	resp, w := env.exec(alice, `mutation { signout { message } }`, nil)
	require.Empty(t, resp.Errors)
	require.NoError(t, decode(resp, &data))

	assert.Equal(t, "Goodbye!", data.Signout.Message)
	cookie := sessionCookie(t, w.Result().Cookies())
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

const (
	requestResetMutation  = `mutation($email: String!) { requestReset(email: $email) { message } }`
	resetPasswordMutation = `mutation($token: String!, $pw: String!, $confirm: String!) {
		resetPassword(resetToken: $token, password: $pw, confirmPassword: $confirm) { id }
	}`
)

func TestPasswordReset(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user("alice@example.com")
	ctx := context.Background()

	var data struct{ RequestReset struct{ Message string } }
	env.mustExec(nil, requestResetMutation, map[string]interface{}{"email": "Alice@example.com"}, &data)
	assert.Equal(t, "Thanks!", data.RequestReset.Message)

	stored, err := env.store.UserByID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)
	require.NotNil(t, stored.ResetTokenExpiry)
	token := *stored.ResetToken
	assert.Len(t, token, 40)
	assert.True(t, stored.ResetTokenExpiry.Equal(env.now.Add(time.Hour)))

	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "alice@example.com", env.mailer.sent[0].To)
	assert.Contains(t, env.mailer.sent[0].HTMLBody, "http://localhost:7777/reset?resetToken="+token)

	t.Run("mismatched confirmation", func(t *testing.T) {
		resp, _ := env.exec(nil, resetPasswordMutation, map[string]interface{}{"token": token, "pw": "new-password", "confirm": "other-password"})
		assert.Equal(t, domain.EVALIDATION, errorCode(t, resp))
		assert.Equal(t, "Your passwords don't match!", resp.Errors[0].Message)
	})

	t.Run("wrong token", func(t *testing.T) {
		resp, _ := env.exec(nil, resetPasswordMutation, map[string]interface{}{"token": "bogus", "pw": "new-password", "confirm": "new-password"})
		assert.Equal(t, domain.ETOKEN, errorCode(t, resp))
		assert.Equal(t, "This token is either invalid or expired!", resp.Errors[0].Message)
	})

	t.Run("multibyte password over the bcrypt limit", func(t *testing.T) {
		pw := strings.Repeat("é", 40)
		resp, _ := env.exec(nil, resetPasswordMutation, map[string]interface{}{"token": token, "pw": pw, "confirm": pw})
		assert.Equal(t, domain.EVALIDATION, errorCode(t, resp))
		assert.Equal(t, "password must be at most 72 bytes", resp.Errors[0].Message)
	})

	t.Run("within the hour", func(t *testing.T) {
		env.now = env.now.Add(59 * time.Minute)

		resp, w := env.exec(nil, resetPasswordMutation, map[string]interface{}{"token": token, "pw": "new-password", "confirm": "new-password"})
		require.Empty(t, resp.Errors)
		assert.NotEmpty(t, sessionCookie(t, w.Result().Cookies()).Value)

		updated, err := env.store.UserByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.True(t, utils.CheckPassword("new-password", updated.Password))
		assert.Nil(t, updated.ResetToken)
		assert.Nil(t, updated.ResetTokenExpiry)

		resp, _ = env.exec(nil, resetPasswordMutation, map[string]interface{}{"token": token, "pw": "again-password", "confirm": "again-password"})
		assert.Equal(t, domain.ETOKEN, errorCode(t, resp), "tokens are single use")
	})
}

func TestPasswordReset_Expired(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user("alice@example.com")

	env.mustExec(nil, requestResetMutation, map[string]interface{}{"email": "alice@example.com"}, nil)
	stored, err := env.store.UserByID(context.Background(), alice.ID)
	require.NoError(t, err)

	env.now = env.now.Add(61 * time.Minute)
	resp, _ := env.exec(nil, resetPasswordMutation, map[string]interface{}{"token": *stored.ResetToken, "pw": "new-password", "confirm": "new-password"})
	assert.Equal(t, domain.ETOKEN, errorCode(t, resp))

	unchanged, err := env.store.UserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.True(t, utils.CheckPassword("password", unchanged.Password))
}

func TestRequestReset_Failures(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		env := newTestEnv(t)
		resp, _ := env.exec(nil, requestResetMutation, map[string]interface{}{"email": "nobody@example.com"})
		assert.Equal(t, domain.ENOTFOUND, errorCode(t, resp))
		assert.Empty(t, env.mailer.sent)
	})

	t.Run("mail failure surfaces without details", func(t *testing.T) {
		env := newTestEnv(t)
		env.user("alice@example.com")
		env.mailer.err = errors.New("dial tcp 10.0.0.1:587: connection refused")

		resp, _ := env.exec(nil, requestResetMutation, map[string]interface{}{"email": "alice@example.com"})
		assert.Equal(t, domain.EINTERNAL, errorCode(t, resp))
		assert.NotContains(t, resp.Errors[0].Message, "10.0.0.1")
	})

	t.Run("throttled", func(t *testing.T) {
		env := newTestEnv(t)
		env.user("alice@example.com")
		env.limiter.allow = false

		resp, _ := env.exec(nil, requestResetMutation, map[string]interface{}{"email": "alice@example.com"})
		assert.Equal(t, domain.EVALIDATION, errorCode(t, resp))
		assert.Empty(t, env.mailer.sent)
	})

	t.Run("throttle outage fails open", func(t *testing.T) {
		env := newTestEnv(t)
		env.user("alice@example.com")
		env.limiter.allow = false
		env.limiter.err = errors.New("redis: connection refused")

		env.mustExec(nil, requestResetMutation, map[string]interface{}{"email": "alice@example.com"}, nil)
		assert.Len(t, env.mailer.sent, 1)
	})
}
