package auth

import (
	"context"

	"github.com/google/uuid"
)

// Auther is the credential verifier: it checks a username and password
// against the account store and issues a token on success.
type Auther struct {
	accounts  AccountStore
	passwords PasswordVerifier
	tokens    TokenService
	logger    Logger
	dummyHash string
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator. When passwords can also
// hash, a throwaway hash is prepared so unknown usernames cost the same
// comparison as known ones.
func NewAuthenticator(accounts AccountStore, passwords PasswordVerifier, tokens TokenService) *Auther {
	a := &Auther{
		accounts:  accounts,
		passwords: passwords,
		tokens:    tokens,
		logger:    defLogger{},
	}

	if hasher, ok := passwords.(PasswordHasher); ok {
		if h, err := hasher.Hash(uuid.NewString()); err == nil {
			a.dummyHash = h
		}
	}

	return a
}

func (a *Auther) WithLogger(logger Logger) *Auther {
	a.logger = loggerOrDefault(logger)
	return a
}

// Login verifies the credentials. Unknown usernames and wrong passwords
// both return ErrWrongCredentials.
func (a *Auther) Login(ctx context.Context, credentials Credentials) (LoginResult, error) {
	account, found := a.accounts.Lookup(ctx, credentials.Username)

	hash := a.dummyHash
	if found {
		hash = account.PasswordHash
	}

	matched := a.passwords.Verify(credentials.Password, hash)
	if !found || !matched {
		a.logger.Info("Login failed for %q", NormalizeUsername(credentials.Username))
		return LoginResult{}, ErrWrongCredentials
	}

	token, err := a.tokens.Issue(account)
	if err != nil {
		a.logger.Error("Login issue token error: %v", err)
		return LoginResult{}, err
	}

	a.logger.Debug("Login succeeded for %q", account.Username)

	return LoginResult{
		Token: token,
		Identity: RequestIdentity{
			Subject: account.Username,
			Role:    account.Role,
		},
	}, nil
}
