// Package rbac provides the authorization stage: a per-route check of the
// authenticated role against a fixed allow-list.
package rbac

import (
	"github.com/gofiber/fiber/v2"

	auth "github.com/goliatone/go-staff-auth"
)

type Config struct {
	// Roles is the route's allow-list, required
	Roles auth.RoleSet
	// ErrorHandler receives the authorization failure. Defaults to returning
	// the error so the app error handler renders it.
	ErrorHandler func(c *fiber.Ctx, err error) error
	Logger       auth.Logger
}

// Allow returns the authorization stage for the given roles.
// It panics when no role is given.
func Allow(roles ...auth.Role) fiber.Handler {
	return New(Config{Roles: auth.NewRoleSet(roles...)})
}

// New returns the authorization stage
func New(config Config) fiber.Handler {
	cfg := getDefaultConfig(config)

	return func(c *fiber.Ctx) error {
		identity, ok := auth.GetIdentity(c)
		if !ok {
			cfg.Logger.Error("authorization reached without identity on %s %s", c.Method(), c.Path())
			return cfg.ErrorHandler(c, auth.ErrAuthentication)
		}

		if !cfg.Roles.Contains(identity.Role) {
			cfg.Logger.Info("role %q not allowed on %s %s (allowed: %s)", identity.Role, c.Method(), c.Path(), cfg.Roles)
			return cfg.ErrorHandler(c, auth.ErrAuthorization)
		}

		return c.Next()
	}
}

func getDefaultConfig(cfg Config) Config {
	if cfg.Roles.Len() == 0 {
		panic("AUTH: rbac middleware configuration: Roles is required.")
	}

	if cfg.Logger == nil {
		cfg.Logger = auth.DefaultLogger()
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(_ *fiber.Ctx, err error) error {
			return err
		}
	}

	return cfg
}
