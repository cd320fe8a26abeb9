package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashRefreshToken(t *testing.T) {
	h := HashRefreshToken("opaque-value")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashRefreshToken("opaque-value"))
	assert.NotEqual(t, h, HashRefreshToken("opaque-value2"))
	assert.NotContains(t, h, "opaque")
}

func TestTokenRepository_Create(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTokenRepository(db)
	ctx := context.Background()
	expires := time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC)
	insert := regexp.QuoteMeta(`INSERT INTO refresh_tokens`)

	t.Run("stores the hash and metadata", func(t *testing.T) {
		dbMock.ExpectQuery(insert).
			WithArgs(int64(1), HashRefreshToken("raw"), expires, "10.0.0.1", "curl/8").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, expires.AddDate(0, 0, -7)))

		rt, err := repo.Create(ctx, db, 1, "raw", expires, "10.0.0.1", "curl/8")
		require.NoError(t, err)
		assert.Equal(t, int64(11), rt.ID)
		assert.Equal(t, HashRefreshToken("raw"), rt.TokenHash)
		require.NotNil(t, rt.IPAddress)
		assert.Equal(t, "10.0.0.1", *rt.IPAddress)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("empty metadata is stored as NULL", func(t *testing.T) {
		dbMock.ExpectQuery(insert).
			WithArgs(int64(1), HashRefreshToken("raw2"), expires, nil, nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(12, expires))

		rt, err := repo.Create(ctx, db, 1, "raw2", expires, "", "")
		require.NoError(t, err)
		assert.Nil(t, rt.IPAddress)
		assert.Nil(t, rt.UserAgent)
	})

	t.Run("hash conflict", func(t *testing.T) {
		dbMock.ExpectQuery(insert).WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}))

		_, err := repo.Create(ctx, db, 1, "raw", expires, "", "")
		assert.ErrorIs(t, err, ErrDuplicateToken)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestTokenRepository_FindValid(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTokenRepository(db)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	columns := []string{"id", "account_id", "token_hash", "expires_at", "revoked", "revoked_at", "ip_address", "user_agent", "created_at"}

	t.Run("found", func(t *testing.T) {
		dbMock.ExpectQuery(regexp.QuoteMeta(`WHERE token_hash = $1 AND revoked = FALSE AND expires_at > $2`)).
			WithArgs(HashRefreshToken("raw"), now).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(5, 2, HashRefreshToken("raw"), now.Add(time.Hour), false, nil, "10.0.0.1", nil, now))

		rt, err := repo.FindValid(ctx, db, "raw", now)
		require.NoError(t, err)
		assert.Equal(t, int64(2), rt.AccountID)
		assert.True(t, rt.IsUsable(now))
		assert.Nil(t, rt.UserAgent)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("revoked, expired or unknown", func(t *testing.T) {
		dbMock.ExpectQuery(`FROM refresh_tokens`).WillReturnError(sql.ErrNoRows)

		_, err := repo.FindValid(ctx, db, "raw", now)
		assert.ErrorIs(t, err, ErrTokenNotFound)
	})
}

func TestTokenRepository_Revoke(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTokenRepository(db)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	update := regexp.QuoteMeta(`UPDATE refresh_tokens SET revoked = TRUE`)

	dbMock.ExpectExec(update).WithArgs(HashRefreshToken("raw"), now).WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec(update).WithArgs(HashRefreshToken("raw"), now).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Revoke(ctx, db, "raw", now))
	assert.NoError(t, repo.Revoke(ctx, db, "raw", now), "revoking twice is not an error")
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTokenRepository_RevokeAllForAccount(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTokenRepository(db)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	dbMock.ExpectExec(regexp.QuoteMeta(`WHERE account_id = $1 AND revoked = FALSE`)).
		WithArgs(int64(4), now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.RevokeAllForAccount(context.Background(), db, 4, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
