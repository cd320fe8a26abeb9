package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-finance-api/logger"
	"go-finance-api/model"
	"go-finance-api/repository"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountLocked       = errors.New("account locked")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrAccountNotFound     = errors.New("account not found")
	errTokenConflict       = errors.New("refresh token conflict persisted after retry")
)

// ClientInfo is the request metadata stored next to a refresh token.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// AuthService composes the hasher, the lockout guard, the token issuer and
// the token store into the register, login and session flows. Every flow
// that writes runs in a single database transaction.
type AuthService struct {
	db       *sql.DB
	accounts repository.IAccountRepository
	tokens   repository.ITokenRepository
	hasher   *PasswordHasher
	issuer   *TokenService
	guard    *AccountGuard
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
	newDummy  func() (string, error)
}

func NewAuthService(db *sql.DB, accounts repository.IAccountRepository, tokens repository.ITokenRepository, hasher *PasswordHasher, issuer *TokenService) *AuthService {
	s := &AuthService{
		db:       db,
		accounts: accounts,
		tokens:   tokens,
		hasher:   hasher,
		issuer:   issuer,
		guard:    NewAccountGuard(),
		now:      time.Now,
	}
	s.newDummy = s.randomDummy
	return s
}

// Register creates an active, email-confirmed account and signs it in.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest, client ClientInfo) (*model.AuthResponse, error) {
	log := logger.Log.WithField("email", req.Email)

	_, err := s.accounts.GetByEmail(ctx, s.db, req.Email)
	if err == nil {
		recordAuthOutcome("register", "duplicate_email")
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, fmt.Errorf("lookup account by email: %w", err)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.HashPassword(req.Password, salt)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	account := &model.Account{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hash,
		Salt:           salt,
		EmailConfirmed: true,
	}
	if err := s.accounts.Create(ctx, tx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			recordAuthOutcome("register", "duplicate_email")
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	resp, err := s.issueTokens(ctx, tx, account, client)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.WithField("account_id", account.ID).Info("Account registered")
	recordAuthOutcome("register", "success")
	return resp, nil
}

// Login verifies credentials under a row lock on the account so concurrent
// failures are all counted. A wrong password still commits the new counter.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest, client ClientInfo) (*model.AuthResponse, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"email":     req.Email,
		"client_ip": client.IP,
	})

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	account, err := s.accounts.GetByEmailForUpdate(ctx, tx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			// Spend the same work as a real check so timing does not reveal unknown emails.
			s.hasher.VerifyPassword(req.Password, "", s.dummy())
			log.Info("Login attempt for unknown email")
			recordAuthOutcome("login", "invalid_credentials")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account by email: %w", err)
	}

	if err := s.guard.CheckLogin(account); err != nil {
		log.WithField("account_id", account.ID).Warn("Login attempt on locked account")
		recordAuthOutcome("login", "locked")
		return nil, err
	}

	now := s.now().UTC()
	if !s.hasher.VerifyPassword(req.Password, account.Salt, account.PasswordHash) {
		s.guard.RecordFailure(account, now)
		if err := s.accounts.UpdateLoginState(ctx, tx, account); err != nil {
			return nil, fmt.Errorf("record failed login: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"account_id":      account.ID,
			"failed_attempts": account.FailedLoginAttempts,
			"locked":          account.Locked,
		}).Warn("Failed login attempt")
		recordAuthOutcome("login", "invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	s.guard.RecordSuccess(account, now)
	if err := s.accounts.UpdateLoginState(ctx, tx, account); err != nil {
		return nil, fmt.Errorf("record successful login: %w", err)
	}

	resp, err := s.issueTokens(ctx, tx, account, client)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.WithField("account_id", account.ID).Info("Login succeeded")
	recordAuthOutcome("login", "success")
	return resp, nil
}

// Refresh redeems a refresh token once: it is revoked and a new pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*model.AuthResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := s.now().UTC()
	stored, err := s.tokens.FindValid(ctx, tx, refreshToken, now)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			recordAuthOutcome("refresh", "invalid_token")
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	account, err := s.accounts.GetByID(ctx, tx, stored.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if err := s.guard.CheckLogin(account); err != nil {
		recordAuthOutcome("refresh", "locked")
		return nil, err
	}

	if err := s.tokens.Revoke(ctx, tx, refreshToken, now); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	resp, err := s.issueTokens(ctx, tx, account, client)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	recordAuthOutcome("refresh", "success")
	return resp, nil
}

// Logout revokes a single refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, s.db, refreshToken, s.now().UTC())
}

// LogoutAll revokes every live refresh token of the account.
func (s *AuthService) LogoutAll(ctx context.Context, accountID int64) (int64, error) {
	n, err := s.tokens.RevokeAllForAccount(ctx, s.db, accountID, s.now().UTC())
	if err != nil {
		return 0, err
	}
	logger.Log.WithFields(logrus.Fields{
		"account_id": accountID,
		"revoked":    n,
	}).Info("Revoked all refresh tokens")
	return n, nil
}

func (s *AuthService) Me(ctx context.Context, accountID int64) (*model.AccountSummary, error) {
	account, err := s.accounts.GetByID(ctx, s.db, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	summary := account.Summary()
	return &summary, nil
}

// issueTokens mints an access token and persists a fresh refresh token in tx.
// A refresh token collision is retried once with a new value.
func (s *AuthService) issueTokens(ctx context.Context, tx *sql.Tx, account *model.Account, client ClientInfo) (*model.AuthResponse, error) {
	accessToken, expiresAt, err := s.issuer.IssueAccessToken(account)
	if err != nil {
		return nil, err
	}

	refreshExpiresAt := s.now().UTC().Add(s.issuer.RefreshLifetime())
	for attempt := 1; attempt <= 2; attempt++ {
		refreshToken, err := s.issuer.IssueRefreshToken()
		if err != nil {
			return nil, err
		}

		_, err = s.tokens.Create(ctx, tx, account.ID, refreshToken, refreshExpiresAt, client.IP, client.UserAgent)
		if err == nil {
			return &model.AuthResponse{
				AccessToken:  accessToken,
				RefreshToken: refreshToken,
				ExpiresAt:    expiresAt,
				Account:      account.Summary(),
			}, nil
		}
		if !errors.Is(err, repository.ErrDuplicateToken) {
			return nil, fmt.Errorf("persist refresh token: %w", err)
		}
		logger.Log.WithFields(logrus.Fields{
			"account_id": account.ID,
			"attempt":    attempt,
		}).Warn("Refresh token collision")
	}
	return nil, errTokenConflict
}

// dummy is a hash no password matches, used to even out login timing.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.newDummy()
		if err != nil {
			logger.Log.WithError(err).Warn("Falling back to the fixed dummy hash")
			hash = fallbackDummyHash(s.hasher.cost)
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *AuthService) randomDummy() (string, error) {
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return "", err
	}
	return s.hasher.HashPassword(salt, salt)
}

// fallbackDummyHash is a well-formed bcrypt hash at the given cost. Its digest
// belongs to an unrelated salt, so no input ever matches it, but comparing
// against it still costs a full bcrypt run.
func fallbackDummyHash(cost int) string {
	return fmt.Sprintf("$2a$%02d$XajjQvNhvvRt5GSeFk1xFeyqRrsxkhBkUiQeg0dt.wU1qD4aFDcga", cost)
}
