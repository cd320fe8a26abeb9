package model

import (
	"fmt"
	"time"
)

// AccountState is the login state of an account as seen by the lockout policy.
type AccountState string

const (
	AccountActive AccountState = "active"
	AccountLocked AccountState = "locked"
)

// ParseAccountState accepts only the named states.
func ParseAccountState(s string) (AccountState, error) {
	switch AccountState(s) {
	case AccountActive, AccountLocked:
		return AccountState(s), nil
	}
	return "", fmt.Errorf("unknown account state %q", s)
}

func (s AccountState) String() string { return string(s) }

func (s AccountState) MarshalText() ([]byte, error) {
	if _, err := ParseAccountState(string(s)); err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (s *AccountState) UnmarshalText(b []byte) error {
	parsed, err := ParseAccountState(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Account is a registered user of the finance tracker. It owns the credentials
// and the lockout state; PasswordHash and Salt never leave the service.
type Account struct {
	ID                     int64      `json:"id"`
	Name                   string     `json:"name"`
	Email                  string     `json:"email"`
	PasswordHash           string     `json:"-"`
	Salt                   string     `json:"-"`
	EmailConfirmed         bool       `json:"emailConfirmed"`
	EmailConfirmationToken *string    `json:"-"`
	PasswordResetToken     *string    `json:"-"`
	PasswordResetExpiresAt *time.Time `json:"-"`
	FailedLoginAttempts    int        `json:"-"`
	Locked                 bool       `json:"-"`
	LockedAt               *time.Time `json:"-"`
	LastLoginAt            *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// State derives the lockout state from the persisted flag.
func (a *Account) State() AccountState {
	if a.Locked {
		return AccountLocked
	}
	return AccountActive
}

// Summary is the public projection of the account.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{ID: a.ID, Name: a.Name, Email: a.Email}
}

// AccountSummary is the only account shape returned to clients.
type AccountSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
