package auth_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-staff-auth"
)

func newLoginApp(t *testing.T) (*fiber.App, *auth.TokenServiceImpl) {
	t.Helper()

	authenticator, tokens := newTestAuthenticator(t)

	app := fiber.New(fiber.Config{ErrorHandler: auth.ErrorHandler(auth.NopLogger{})})
	auth.NewAuthController(authenticator).WithLogger(auth.NopLogger{}).Register(app)

	return app, tokens
}

func postLogin(t *testing.T, app *fiber.App, body string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, raw
}

func TestLoginPost_Success(t *testing.T) {
	app, tokens := newLoginApp(t)

	resp, raw := postLogin(t, app, `{"email":"admin@example.com","password":"Admin12345"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	var body auth.LoginResponse
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.NotEmpty(t, body.AccessToken)
	assert.Equal(t, "admin@example.com", body.User.Email)
	assert.Equal(t, "ADMIN", body.User.ID)
	assert.Equal(t, auth.RoleAdmin, body.User.Role)

	identity, err := tokens.Verify(body.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, identity.Role)
}

func TestLoginPost_UsernameField(t *testing.T) {
	app, _ := newLoginApp(t)

	resp, raw := postLogin(t, app, `{"username":"user@example.com","password":"User12345"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
}

func TestLoginPost_Failures(t *testing.T) {
	app, _ := newLoginApp(t)

	expected := `{"error":{"status":400,"name":"LoginError","message":"Wrong Credentials"}}`

	tests := []struct {
		name string
		body string
	}{
		{"unknown user", `{"email":"ghost@example.com","password":"Admin12345"}`},
		{"wrong password", `{"email":"admin@example.com","password":"Admin1234"}`},
		{"missing password", `{"email":"admin@example.com"}`},
		{"missing identifier", `{"password":"Admin12345"}`},
		{"malformed email", `{"email":"not-an-email","password":"Admin12345"}`},
		{"malformed json", `{"email":`},
	}

	var bodies []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := postLogin(t, app, tt.body)

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, fiber.MIMEApplicationJSON, resp.Header.Get(fiber.HeaderContentType))
			assert.JSONEq(t, expected, string(raw))
			bodies = append(bodies, string(raw))
		})
	}

	for _, body := range bodies[1:] {
		assert.Equal(t, bodies[0], body, "failure responses are byte identical")
	}
}

func TestErrorHandler_Envelope(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: auth.ErrorHandler(auth.NopLogger{})})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return auth.NotFound("Employee with id %s not found", "7")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("connection reset by peer")
	})

	tests := []struct {
		path     string
		status   int
		expected string
	}{
		{"/missing", 404, `{"error":{"status":404,"name":"NotFoundError","message":"Employee with id 7 not found"}}`},
		{"/boom", 500, `{"error":{"status":500,"name":"InternalServerError","message":"Internal Server Error"}}`},
		{"/nowhere", 404, `{"error":{"status":404,"name":"HTTPError","message":"Cannot GET /nowhere"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.path, nil), -1)
			require.NoError(t, err)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.JSONEq(t, tt.expected, string(raw))
		})
	}
}
