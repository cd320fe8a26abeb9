package service

import (
	"go-finance-api/model"
	"time"
)

// LockoutThreshold is the number of consecutive failed logins that locks an account.
const LockoutThreshold = 5

// AccountGuard applies the lockout policy to an account loaded under a row lock.
// Callers persist the mutated account in the same transaction.
// A locked account never becomes active again.
type AccountGuard struct {
	threshold int
}

func NewAccountGuard() *AccountGuard {
	return &AccountGuard{threshold: LockoutThreshold}
}

// CheckLogin rejects any attempt on a locked account before the password is looked at.
func (g *AccountGuard) CheckLogin(account *model.Account) error {
	if account.State() == model.AccountLocked {
		return ErrAccountLocked
	}
	return nil
}

// RecordFailure counts a failed attempt and locks the account on the threshold.
func (g *AccountGuard) RecordFailure(account *model.Account, now time.Time) {
	if account.Locked {
		return
	}
	account.FailedLoginAttempts++
	if account.FailedLoginAttempts >= g.threshold {
		account.Locked = true
		account.LockedAt = &now
	}
	account.UpdatedAt = now
}

func (g *AccountGuard) RecordSuccess(account *model.Account, now time.Time) {
	account.FailedLoginAttempts = 0
	account.LastLoginAt = &now
	account.UpdatedAt = now
}
