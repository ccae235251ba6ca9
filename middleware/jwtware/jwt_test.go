package jwtware_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-staff-auth"
	"github.com/goliatone/go-staff-auth/middleware/jwtware"
)

var signingKey = []byte("jwtware-test-key")

func newTokens(t *testing.T) *auth.TokenServiceImpl {
	t.Helper()
	tokens, err := auth.NewTokenService(signingKey, time.Hour, "", nil, auth.NopLogger{})
	require.NoError(t, err)
	return tokens
}

func newApp(cfg jwtware.Config) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: auth.ErrorHandler(auth.NopLogger{})})
	app.Get("/protected", jwtware.New(cfg), func(c *fiber.Ctx) error {
		identity, ok := auth.GetIdentity(c)
		if !ok {
			return errors.New("identity missing")
		}
		fromCtx, ok := auth.IdentityFromContext(c.UserContext())
		if !ok || fromCtx != identity {
			return errors.New("identity missing from user context")
		}
		return c.SendString(identity.Subject + ":" + string(identity.Role))
	})
	return app
}

func TestNew_PanicsWithoutVerifier(t *testing.T) {
	assert.Panics(t, func() { jwtware.New() })
	assert.Panics(t, func() { jwtware.New(jwtware.Config{}) })
}

func TestNew_Authentication(t *testing.T) {
	tokens := newTokens(t)
	app := newApp(jwtware.Config{TokenVerifier: tokens, Logger: auth.NopLogger{}})

	userToken, err := tokens.Issue(auth.Account{Username: "user@example.com", Role: auth.RoleUser})
	require.NoError(t, err)

	otherTokens, err := auth.NewTokenService([]byte("someone-else"), time.Hour, "", nil, auth.NopLogger{})
	require.NoError(t, err)
	forged, err := otherTokens.Issue(auth.Account{Username: "user@example.com", Role: auth.RoleAdmin})
	require.NoError(t, err)

	unauthorized := `{"error":{"status":401,"name":"AuthenticationError","message":"Authentication Error"}}`

	tests := []struct {
		name     string
		header   string
		status   int
		expected string
	}{
		{"valid bearer token", "Bearer " + userToken, 200, "user@example.com:USER"},
		{"scheme is case insensitive", "bearer " + userToken, 200, "user@example.com:USER"},
		{"extra whitespace around token", "Bearer  " + userToken + " ", 200, "user@example.com:USER"},
		{"no header", "", 401, unauthorized},
		{"wrong scheme", "Basic " + userToken, 401, unauthorized},
		{"scheme without token", "Bearer ", 401, unauthorized},
		{"scheme only", "Bearer", 401, unauthorized},
		{"token without scheme", userToken, 401, unauthorized},
		{"garbage token", "Bearer abc.def.ghi", 401, unauthorized},
		{"foreign signature", "Bearer " + forged, 401, unauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == 200 {
				assert.Equal(t, tt.expected, string(raw))
			} else {
				assert.JSONEq(t, tt.expected, string(raw))
			}
		})
	}
}

func TestNew_ExpiredToken(t *testing.T) {
	now := time.Now()
	tokens := newTokens(t).WithClock(func() time.Time { return now })
	app := newApp(jwtware.Config{TokenVerifier: tokens, Logger: auth.NopLogger{}})

	token, err := tokens.Issue(auth.Account{Username: "user@example.com", Role: auth.RoleUser})
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestNew_ValidationListenerStopsRequest(t *testing.T) {
	tokens := newTokens(t)

	var seen auth.RequestIdentity
	app := newApp(jwtware.Config{
		TokenVerifier: tokens,
		Logger:        auth.NopLogger{},
		ValidationListeners: []jwtware.ValidationListener{
			func(c *fiber.Ctx, identity auth.RequestIdentity) error {
				seen = identity
				return errors.New("account suspended")
			},
		},
	})

	token, err := tokens.Issue(auth.Account{Username: "user@example.com", Role: auth.RoleUser})
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "user@example.com", seen.Subject)
}

func TestNew_FilterSkipsAuthentication(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: auth.ErrorHandler(auth.NopLogger{})})
	app.Use(jwtware.New(jwtware.Config{
		TokenVerifier: newTokens(t),
		Logger:        auth.NopLogger{},
		Filter: func(c *fiber.Ctx) bool {
			return c.Path() == "/public"
		},
	}))
	app.Get("/public", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/public", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetExtractors(t *testing.T) {
	tokens := newTokens(t)
	token, err := tokens.Issue(auth.Account{Username: "admin@example.com", Role: auth.RoleAdmin})
	require.NoError(t, err)

	app := newApp(jwtware.Config{
		TokenVerifier: tokens,
		Logger:        auth.NopLogger{},
		TokenLookup:   "header:Authorization,query:access_token,cookie:jwt",
	})

	t.Run("query", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/protected?access_token="+token, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
		req.Header.Set(fiber.HeaderCookie, "jwt="+token)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("malformed lookup entries are ignored", func(t *testing.T) {
		extractors := jwtware.GetExtractors("header:Authorization,bogus,query:,cookie:jwt")
		assert.Len(t, extractors, 2)
	})
}
