package jwtware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	auth "github.com/goliatone/go-staff-auth"
)

var (
	defaultTokenLookup       = "header:" + fiber.HeaderAuthorization
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
)

// TokenVerifier mirrors auth.TokenService.Verify
type TokenVerifier interface {
	Verify(token string) (auth.RequestIdentity, error)
}

// ValidationListener is invoked after a token has been verified and before
// the identity is attached to the request.
type ValidationListener func(c *fiber.Ctx, identity auth.RequestIdentity) error

type Config struct {
	Filter         func(*fiber.Ctx) bool
	SuccessHandler fiber.Handler
	// ErrorHandler receives the extraction or verification failure. The
	// default returns auth.ErrAuthentication so the app error handler
	// renders a 401 envelope.
	ErrorHandler func(c *fiber.Ctx, err error) error
	ContextKey   string
	TokenLookup  string
	AuthScheme   string
	// TokenVerifier is required for token validation
	TokenVerifier TokenVerifier

	ValidationListeners []ValidationListener

	// ContextEnricher propagates the identity to the standard Go context.
	ContextEnricher func(c context.Context, identity auth.RequestIdentity) context.Context

	Logger auth.Logger
}

// New returns the authentication stage
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)
	extractors := cfg.getExtractors()

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := ExtractRawToken(c, extractors)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		identity, err := cfg.TokenVerifier.Verify(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		if identity.Subject == "" || identity.Role == "" {
			return cfg.ErrorHandler(c, auth.ErrInvalidToken)
		}

		if err := cfg.runValidationListeners(c, identity); err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, identity)
		if cfg.ContextKey != auth.IdentityLocalsKey {
			c.Locals(auth.IdentityLocalsKey, identity)
		}
		c.SetUserContext(cfg.ContextEnricher(c.UserContext(), identity))

		return cfg.SuccessHandler(c)
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.TokenVerifier == nil {
		panic("AUTH: JWT middleware configuration: TokenVerifier is required.")
	}

	if cfg.Logger == nil {
		cfg.Logger = auth.DefaultLogger()
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		logger := cfg.Logger
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			logger.Debug("authentication rejected %s %s: %v", c.Method(), c.Path(), err)
			return auth.ErrAuthentication.WithCause(err)
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = auth.IdentityLocalsKey
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.ContextEnricher == nil {
		cfg.ContextEnricher = auth.WithIdentity
	}

	return cfg
}

// ExtractRawToken runs the extractors in order and returns the first token
func ExtractRawToken(c *fiber.Ctx, extractors []JWTExtractor) (string, error) {
	err := ErrJWTMissingOrMalformed

	for _, extractor := range extractors {
		raw, extractErr := extractor(c)
		if raw != "" && extractErr == nil {
			return raw, nil
		}
		if extractErr != nil {
			err = extractErr
		}
	}

	return "", err
}

func (cfg *Config) getExtractors() []JWTExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

func (cfg *Config) runValidationListeners(c *fiber.Ctx, identity auth.RequestIdentity) error {
	for _, listener := range cfg.ValidationListeners {
		if listener == nil {
			continue
		}
		if err := listener(c, identity); err != nil {
			return err
		}
	}
	return nil
}

// GetExtractors parses a lookup definition such as
// "header:Authorization,cookie:jwt,query:auth_token"
func GetExtractors(tokenLookup string, authSchemes ...string) []JWTExtractor {
	extractors := make([]JWTExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 && strings.TrimSpace(authSchemes[0]) != "" {
		authScheme = strings.TrimSpace(authSchemes[0])
	}

	for _, rootPart := range strings.Split(tokenLookup, ",") {
		parts := strings.SplitN(strings.TrimSpace(rootPart), ":", 2)
		if len(parts) != 2 {
			continue
		}

		source, name := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if name == "" {
			continue
		}

		switch source {
		case "header":
			extractors = append(extractors, jwtFromHeader(name, authScheme))
		case "query":
			extractors = append(extractors, jwtFromQuery(name))
		case "param":
			extractors = append(extractors, jwtFromParam(name))
		case "cookie":
			extractors = append(extractors, jwtFromCookie(name))
		}
	}

	return extractors
}

type JWTExtractor func(c *fiber.Ctx) (string, error)

// jwtFromHeader expects "<scheme> <token>"; the scheme is matched case
// insensitively and the token portion must not be empty.
func jwtFromHeader(header string, authScheme string) JWTExtractor {
	prefix := authScheme + " "
	return func(c *fiber.Ctx) (string, error) {
		a := c.Get(header)
		if len(a) <= len(prefix) || !strings.EqualFold(a[:len(prefix)], prefix) {
			return "", ErrJWTMissingOrMalformed
		}
		token := strings.TrimSpace(a[len(prefix):])
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

func jwtFromQuery(param string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Query(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

func jwtFromParam(param string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Params(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

func jwtFromCookie(name string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}
