package auth

import (
	"context"
	"fmt"
	"strings"
)

// Account is an identity record. Accounts are seeded at start up and
// never change afterwards.
type Account struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

// Credentials is a login attempt. It is never persisted.
type Credentials struct {
	Username string
	Password string
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token    string
	Identity RequestIdentity
}

// AccountSeed is a plaintext account definition hashed at start up
type AccountSeed struct {
	Username string
	Password string
	Role     Role
}

// MemoryAccountStore is an immutable username to account map
type MemoryAccountStore struct {
	accounts map[string]Account
}

var _ AccountStore = (*MemoryAccountStore)(nil)

// NewMemoryAccountStore indexes the given accounts by normalized username
func NewMemoryAccountStore(accounts ...Account) (*MemoryAccountStore, error) {
	store := &MemoryAccountStore{
		accounts: make(map[string]Account, len(accounts)),
	}

	for _, account := range accounts {
		key := NormalizeUsername(account.Username)
		if key == "" {
			return nil, fmt.Errorf("account username must not be empty")
		}
		if !account.Role.IsValid() {
			return nil, fmt.Errorf("account %q has unknown role %q", key, account.Role)
		}
		if _, exists := store.accounts[key]; exists {
			return nil, fmt.Errorf("duplicate account %q", key)
		}
		account.Username = key
		store.accounts[key] = account
	}

	return store, nil
}

// SeedAccounts hashes the seed passwords and builds the account store
func SeedAccounts(hasher PasswordHasher, seeds ...AccountSeed) (*MemoryAccountStore, error) {
	accounts := make([]Account, 0, len(seeds))
	for _, seed := range seeds {
		hash, err := hasher.Hash(seed.Password)
		if err != nil {
			return nil, fmt.Errorf("seed account %q: %w", seed.Username, err)
		}
		accounts = append(accounts, Account{
			Username:     seed.Username,
			PasswordHash: hash,
			Role:         seed.Role,
		})
	}
	return NewMemoryAccountStore(accounts...)
}

// Lookup finds an account by username
func (s *MemoryAccountStore) Lookup(_ context.Context, username string) (Account, bool) {
	account, ok := s.accounts[NormalizeUsername(username)]
	return account, ok
}

// Len returns the number of accounts
func (s *MemoryAccountStore) Len() int {
	return len(s.accounts)
}

// NormalizeUsername lower cases and trims a username, usernames are emails
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
