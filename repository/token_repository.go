// file: repository/token_repository.go

package repository

import (
	"context"
	"database/sql"
	"errors"
	"go-finance-api/logger"
	"go-finance-api/model"
	"time"

	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for refresh token persistence.
// Token values are accepted in the clear and hashed before they reach the database.
type ITokenRepository interface {
	Create(ctx context.Context, q DBTX, accountID int64, token string, expiresAt time.Time, clientIP, userAgent string) (*model.RefreshToken, error)
	FindValid(ctx context.Context, q DBTX, token string, now time.Time) (*model.RefreshToken, error)
	Revoke(ctx context.Context, q DBTX, token string, now time.Time) error
	RevokeAllForAccount(ctx context.Context, q DBTX, accountID int64, now time.Time) (int64, error)
}

// TokenRepository implements ITokenRepository.
type TokenRepository struct {
	DB *sql.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// Create inserts a new refresh token record. A hash collision leaves the
// enclosing transaction usable and is reported as ErrDuplicateToken.
func (r *TokenRepository) Create(ctx context.Context, q DBTX, accountID int64, token string, expiresAt time.Time, clientIP, userAgent string) (*model.RefreshToken, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": accountID,
		"expires_at": expiresAt,
	})
	log.Info("Executing query to create a new refresh token")

	rt := &model.RefreshToken{
		AccountID: accountID,
		TokenHash: HashRefreshToken(token),
		ExpiresAt: expiresAt,
		IPAddress: nullableString(clientIP),
		UserAgent: nullableString(userAgent),
	}

	query := `
		INSERT INTO refresh_tokens (account_id, token_hash, expires_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (token_hash) DO NOTHING
		RETURNING id, created_at`
	err := q.QueryRowContext(ctx, query, rt.AccountID, rt.TokenHash, rt.ExpiresAt, rt.IPAddress, rt.UserAgent).
		Scan(&rt.ID, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isUniqueViolation(err) {
			log.Warn("Refresh token value collided with an existing token")
			return nil, ErrDuplicateToken
		}
		log.WithError(err).Error("Failed to execute create refresh token query")
		return nil, err
	}
	return rt, nil
}

// FindValid returns the token if it exists, is not revoked and has not expired at now.
// The row stays locked until q's transaction ends, so a token can be rotated only once.
func (r *TokenRepository) FindValid(ctx context.Context, q DBTX, token string, now time.Time) (*model.RefreshToken, error) {
	query := `
		SELECT id, account_id, token_hash, expires_at, revoked, revoked_at, ip_address, user_agent, created_at
		FROM refresh_tokens
		WHERE token_hash = $1 AND revoked = FALSE AND expires_at > $2
		FOR UPDATE`

	var (
		rt        model.RefreshToken
		revokedAt sql.NullTime
		ip        sql.NullString
		ua        sql.NullString
	)
	err := q.QueryRowContext(ctx, query, HashRefreshToken(token), now).Scan(
		&rt.ID, &rt.AccountID, &rt.TokenHash, &rt.ExpiresAt, &rt.Revoked, &revokedAt, &ip, &ua, &rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		logger.Log.WithError(err).Error("Failed to execute find refresh token query")
		return nil, err
	}
	if revokedAt.Valid {
		rt.RevokedAt = &revokedAt.Time
	}
	if ip.Valid {
		rt.IPAddress = &ip.String
	}
	if ua.Valid {
		rt.UserAgent = &ua.String
	}
	return &rt, nil
}

// Revoke marks a token as revoked. Revoking an unknown or already revoked
// token is not an error.
func (r *TokenRepository) Revoke(ctx context.Context, q DBTX, token string, now time.Time) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE token_hash = $1 AND revoked = FALSE`
	if _, err := q.ExecContext(ctx, query, HashRefreshToken(token), now); err != nil {
		logger.Log.WithError(err).Error("Failed to execute revoke refresh token query")
		return err
	}
	return nil
}

// RevokeAllForAccount revokes every live token of an account and reports how many were revoked.
func (r *TokenRepository) RevokeAllForAccount(ctx context.Context, q DBTX, accountID int64, now time.Time) (int64, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to revoke all refresh tokens for an account")

	query := `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE account_id = $1 AND revoked = FALSE`
	res, err := q.ExecContext(ctx, query, accountID, now)
	if err != nil {
		log.WithError(err).Error("Failed to execute revoke all refresh tokens query")
		return 0, err
	}
	return res.RowsAffected()
}
