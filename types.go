package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenTTL() time.Duration
	GetIssuer() string
	GetAudience() []string
	GetAuthScheme() string
}

// AccountStore resolves accounts by username. It is read only.
type AccountStore interface {
	Lookup(ctx context.Context, username string) (Account, bool)
}

// PasswordVerifier compares a plaintext password with a stored hash
type PasswordVerifier interface {
	Verify(password, hash string) bool
}

// PasswordHasher produces hashes PasswordVerifier understands
type PasswordHasher interface {
	PasswordVerifier
	Hash(password string) (string, error)
}

// TokenService issues and verifies bearer tokens
type TokenService interface {
	Issue(account Account) (string, error)
	Verify(token string) (RequestIdentity, error)
}

// Authenticator exchanges credentials for a signed token
type Authenticator interface {
	Login(ctx context.Context, credentials Credentials) (LoginResult, error)
}

type defLogger struct{}

// DefaultLogger returns the printf logger used when none is configured
func DefaultLogger() Logger {
	return defLogger{}
}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

func loggerOrDefault(logger Logger) Logger {
	if logger == nil {
		return defLogger{}
	}
	return logger
}
