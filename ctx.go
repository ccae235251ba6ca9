package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// IdentityLocalsKey is the fiber locals key the authentication stage uses
const IdentityLocalsKey = "identity"

// RequestIdentity is the caller resolved by the authentication stage.
// It only lives for the duration of a request.
type RequestIdentity struct {
	Subject string `json:"subject"`
	Role    Role   `json:"role"`
}

// IsZero reports whether the identity is empty
func (r RequestIdentity) IsZero() bool {
	return r.Subject == "" && r.Role == ""
}

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// WithIdentity sets the RequestIdentity in the given context
func WithIdentity(ctx context.Context, identity RequestIdentity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFromContext finds the RequestIdentity in the context
func IdentityFromContext(ctx context.Context) (RequestIdentity, bool) {
	if ctx == nil {
		return RequestIdentity{}, false
	}
	identity, ok := ctx.Value(identityCtxKey).(RequestIdentity)
	return identity, ok
}

// SetIdentity attaches the identity to the fiber locals and user context
func SetIdentity(c *fiber.Ctx, identity RequestIdentity) {
	c.Locals(IdentityLocalsKey, identity)
	c.SetUserContext(WithIdentity(c.UserContext(), identity))
}

// GetIdentity extracts the RequestIdentity from the fiber context
func GetIdentity(c *fiber.Ctx) (RequestIdentity, bool) {
	identity, ok := c.Locals(IdentityLocalsKey).(RequestIdentity)
	if !ok || identity.IsZero() {
		return RequestIdentity{}, false
	}
	return identity, true
}
