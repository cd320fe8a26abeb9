package repository

import (
	"context"
	"database/sql"
	"errors"
	"go-finance-api/logger"
	"go-finance-api/model"

	"github.com/sirupsen/logrus"
)

// IAccountRepository defines the contract for account persistence.
type IAccountRepository interface {
	Create(ctx context.Context, q DBTX, account *model.Account) error
	GetByEmail(ctx context.Context, q DBTX, email string) (*model.Account, error)
	GetByEmailForUpdate(ctx context.Context, tx *sql.Tx, email string) (*model.Account, error)
	GetByID(ctx context.Context, q DBTX, id int64) (*model.Account, error)
	UpdateLoginState(ctx context.Context, q DBTX, account *model.Account) error
}

// AccountRepository implements IAccountRepository on PostgreSQL.
type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

const accountColumns = `id, name, email, password_hash, salt, email_confirmed, email_confirmation_token,
	password_reset_token, password_reset_expires_at, failed_login_attempts, locked, locked_at,
	last_login_at, created_at, updated_at`

// Create inserts a new account. The unique index on email is the final
// arbiter: a concurrent registration with the same email yields ErrDuplicateEmail.
func (r *AccountRepository) Create(ctx context.Context, q DBTX, account *model.Account) error {
	log := logger.Log.WithField("email", account.Email)
	log.Info("Executing query to create a new account")

	query := `
		INSERT INTO accounts (name, email, password_hash, salt, email_confirmed, failed_login_attempts, locked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, created_at, updated_at`
	err := q.QueryRowContext(ctx, query,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.Salt,
		account.EmailConfirmed,
		account.FailedLoginAttempts,
		account.Locked,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isUniqueViolation(err) {
			log.Info("Account email already registered")
			return ErrDuplicateEmail
		}
		log.WithError(err).Error("Failed to execute create account query")
		return err
	}
	return nil
}

// GetByEmail looks an account up by its exact, case-sensitive email.
func (r *AccountRepository) GetByEmail(ctx context.Context, q DBTX, email string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanOne(ctx, q, query, logger.Log.WithField("email", email), email)
}

// GetByEmailForUpdate locks the account row for the rest of tx so login
// counters are read and written without lost updates.
func (r *AccountRepository) GetByEmailForUpdate(ctx context.Context, tx *sql.Tx, email string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1 FOR UPDATE`
	return r.scanOne(ctx, tx, query, logger.Log.WithField("email", email), email)
}

func (r *AccountRepository) GetByID(ctx context.Context, q DBTX, id int64) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanOne(ctx, q, query, logger.Log.WithField("account_id", id), id)
}

// UpdateLoginState persists the lockout fields and last login time.
func (r *AccountRepository) UpdateLoginState(ctx context.Context, q DBTX, account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id":      account.ID,
		"failed_attempts": account.FailedLoginAttempts,
		"locked":          account.Locked,
	})
	log.Info("Executing query to update account login state")

	query := `
		UPDATE accounts
		SET failed_login_attempts = $2, locked = $3, locked_at = $4, last_login_at = $5, updated_at = $6
		WHERE id = $1`
	res, err := q.ExecContext(ctx, query,
		account.ID,
		account.FailedLoginAttempts,
		account.Locked,
		account.LockedAt,
		account.LastLoginAt,
		account.UpdatedAt,
	)
	if err != nil {
		log.WithError(err).Error("Failed to execute update login state query")
		return err
	}
	return expectOneRow(res, ErrAccountNotFound)
}

func (r *AccountRepository) scanOne(ctx context.Context, q DBTX, query string, log *logrus.Entry, arg interface{}) (*model.Account, error) {
	var (
		acc               model.Account
		confirmationToken sql.NullString
		resetToken        sql.NullString
		resetExpiresAt    sql.NullTime
		lockedAt          sql.NullTime
		lastLoginAt       sql.NullTime
	)
	err := q.QueryRowContext(ctx, query, arg).Scan(
		&acc.ID,
		&acc.Name,
		&acc.Email,
		&acc.PasswordHash,
		&acc.Salt,
		&acc.EmailConfirmed,
		&confirmationToken,
		&resetToken,
		&resetExpiresAt,
		&acc.FailedLoginAttempts,
		&acc.Locked,
		&lockedAt,
		&lastLoginAt,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		log.WithError(err).Error("Failed to execute get account query")
		return nil, err
	}

	if confirmationToken.Valid {
		acc.EmailConfirmationToken = &confirmationToken.String
	}
	if resetToken.Valid {
		acc.PasswordResetToken = &resetToken.String
	}
	if resetExpiresAt.Valid {
		acc.PasswordResetExpiresAt = &resetExpiresAt.Time
	}
	if lockedAt.Valid {
		acc.LockedAt = &lockedAt.Time
	}
	if lastLoginAt.Valid {
		acc.LastLoginAt = &lastLoginAt.Time
	}
	return &acc, nil
}
